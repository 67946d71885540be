package services

import (
	"github.com/blogem/access-log-viewer/repositories"
)

// Services holds all service instances
type Services struct {
	Logs    LogService
	Reports ReportService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories) *Services {
	logs := NewLogService(repos.Logs)

	return &Services{
		Logs:    logs,
		Reports: NewReportService(logs),
	}
}

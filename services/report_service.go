package services

import (
	"context"
	"time"

	"github.com/blogem/access-log-viewer/models"
)

var timeNow = func() time.Time {
	return time.Now()
}

// IndexData holds the first rows of the table for the home page
type IndexData struct {
	Records []models.LogRecord
	Total   int
}

// SearchData holds one page of a substring search
type SearchData struct {
	Query string
	Page  *models.Page
	Links []int
}

// DashboardData holds the three overview aggregations
type DashboardData struct {
	Total        int
	Activity     *models.UserActivity
	Distribution []models.CountItem
	Hourly       []models.Bucket
}

// ReportService interface defines the read-side views over the log table
type ReportService interface {
	GetIndex(ctx context.Context) (*IndexData, error)
	Search(ctx context.Context, query string, page int) (*SearchData, error)
	GetUserActivity(ctx context.Context) (*models.UserActivity, error)
	GetDashboard(ctx context.Context) (*DashboardData, error)
	GetSecuritySummary(ctx context.Context) (*models.SecuritySummary, error)
	GetAnomalies(ctx context.Context) (*models.AnomalyReport, error)
}

// reportService implements ReportService interface. Every call takes a fresh
// snapshot of the store; nothing is cached between requests.
type reportService struct {
	logs     LogService
	pageSize int
}

// NewReportService creates a new report service
func NewReportService(logs LogService) ReportService {
	return &reportService{
		logs:     logs,
		pageSize: models.DefaultPageSize,
	}
}

// GetIndex returns the first page-size rows and the total row count
func (s *reportService) GetIndex(ctx context.Context) (*IndexData, error) {
	records, err := s.logs.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}

	head := records
	if len(head) > s.pageSize {
		head = head[:s.pageSize]
	}

	return &IndexData{Records: head, Total: len(records)}, nil
}

// Search filters every column for query and returns the requested page
func (s *reportService) Search(ctx context.Context, query string, page int) (*SearchData, error) {
	records, err := s.logs.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}

	result := Paginate(FilterRecords(records, query), page, s.pageSize)

	return &SearchData{
		Query: query,
		Page:  result,
		Links: PageWindow(result.Number, result.TotalPages),
	}, nil
}

// GetUserActivity returns the username x action matrix
func (s *reportService) GetUserActivity(ctx context.Context) (*models.UserActivity, error) {
	records, err := s.logs.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}
	return UserActivity(records), nil
}

// GetDashboard returns the activity matrix, action distribution and hourly series
func (s *reportService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	records, err := s.logs.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Total:        len(records),
		Activity:     UserActivity(records),
		Distribution: ActionDistribution(records),
		Hourly:       TimeSeries(records, models.Hourly),
	}, nil
}

// GetSecuritySummary returns the failed-login breakdowns
func (s *reportService) GetSecuritySummary(ctx context.Context) (*models.SecuritySummary, error) {
	records, err := s.logs.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}
	return SecuritySummary(records), nil
}

// GetAnomalies runs failed-login anomaly detection over the whole table
func (s *reportService) GetAnomalies(ctx context.Context) (*models.AnomalyReport, error) {
	records, err := s.logs.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}
	return DetectAnomalies(records, timeNow()), nil
}

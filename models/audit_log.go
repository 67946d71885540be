package models

import "time"

// AuditLogEntry records one mutating HTTP request, such as a CSV upload
type AuditLogEntry struct {
	ID        int64
	Timestamp time.Time
	UserEmail string
	Method    string
	Path      string
	FormData  string
	UserAgent string
	IPAddress string
}

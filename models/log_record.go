package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// FailedLoginAction is the action label that marks a rejected login
const FailedLoginAction = "failed_login"

// TimestampLayout is the canonical text form of a record timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamps outside these years are rejected at import
const (
	MinTimestampYear = 1970
	MaxTimestampYear = 2100
)

// CSVHeader is the fixed column set of an uploaded log file
var CSVHeader = []string{"ip_address", "username", "action", "timestamp", "status_code"}

// LogRecord represents a single persisted access-log entry
type LogRecord struct {
	ID         int64     `json:"id" db:"id"`
	IPAddress  string    `json:"ip_address" db:"ip_address"`
	Username   string    `json:"username" db:"username"`
	Action     string    `json:"action" db:"action"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	StatusCode int       `json:"status_code" db:"status_code"`
}

// Fields returns every column in its canonical text form, in table order
func (l *LogRecord) Fields() []string {
	return []string{
		cast.ToString(l.ID),
		l.IPAddress,
		l.Username,
		l.Action,
		l.FormattedTimestamp(),
		cast.ToString(l.StatusCode),
	}
}

// FormattedTimestamp returns the timestamp as YYYY-MM-DD HH:MM:SS in UTC
func (l *LogRecord) FormattedTimestamp() string {
	return l.Timestamp.UTC().Format(TimestampLayout)
}

// Matches reports whether any field contains needle, ignoring case
func (l *LogRecord) Matches(needle string) bool {
	needle = strings.ToLower(needle)
	for _, field := range l.Fields() {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// IsFailedLogin reports whether the record is a rejected login
func (l *LogRecord) IsFailedLogin() bool {
	return l.Action == FailedLoginAction
}

// Validate checks that every required field is present
func (l *LogRecord) Validate() []string {
	var errors []string

	if strings.TrimSpace(l.IPAddress) == "" {
		errors = append(errors, "ip_address is required")
	}
	if strings.TrimSpace(l.Username) == "" {
		errors = append(errors, "username is required")
	}
	if strings.TrimSpace(l.Action) == "" {
		errors = append(errors, "action is required")
	}
	if l.Timestamp.IsZero() {
		errors = append(errors, "timestamp is required")
	} else if y := l.Timestamp.UTC().Year(); y < MinTimestampYear || y > MaxTimestampYear {
		errors = append(errors, fmt.Sprintf("timestamp year %d is outside %d-%d", y, MinTimestampYear, MaxTimestampYear))
	}

	return errors
}

// ImportResult describes a completed CSV import
type ImportResult struct {
	ImportID string
	Filename string
	Count    int
}

package models

import "time"

// DefaultPageSize is the number of rows shown per page on the index and search pages
const DefaultPageSize = 11

// Page is one slice of a filtered record set
type Page struct {
	Records      []LogRecord
	Number       int
	Size         int
	TotalMatches int
	TotalPages   int
	StartIndex   int // 0-based offset of the first record on this page
	EndIndex     int // exclusive
}

// IsEmpty reports whether the page holds no rows
func (p *Page) IsEmpty() bool {
	return len(p.Records) == 0
}

// HasPrevious reports whether a previous page exists
func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

// HasNext reports whether a following page exists
func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// CountItem is one key with its occurrence count
type CountItem struct {
	Key     string
	Count   int
	Percent float64
}

// UserActivity is a username x action matrix of counts.
// Counts[i][j] is the number of records for Users[i] with Actions[j].
type UserActivity struct {
	Users   []string
	Actions []string
	Counts  [][]int
}

// Bucket is a fixed-width time interval and the number of records inside it
type Bucket struct {
	Start time.Time
	Count int
}

// BucketWidth is the width of a time-series bucket
type BucketWidth time.Duration

const (
	Hourly BucketWidth = BucketWidth(time.Hour)
	Daily  BucketWidth = BucketWidth(24 * time.Hour)
)

// AnomalyReport is the result of failed-login anomaly detection
type AnomalyReport struct {
	SuspiciousUsers     []CountItem
	TotalFailedAttempts int
	WindowDays          int
	WindowStart         time.Time
	WindowEnd           time.Time
	Daily               []Bucket
}

// IsSuspicious reports whether username was flagged
func (a *AnomalyReport) IsSuspicious(username string) bool {
	for _, u := range a.SuspiciousUsers {
		if u.Key == username {
			return true
		}
	}
	return false
}

// SecuritySummary holds the failed-login breakdowns for the security dashboard
type SecuritySummary struct {
	TotalFailed int
	TopUsers    []CountItem
	TopIPs      []CountItem
	Hourly      []Bucket
}

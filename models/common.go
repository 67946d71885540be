package models

import (
	"fmt"
	"strings"
	"time"
)

// FlashMessage represents a flash message for user feedback
type FlashMessage struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// NavItem is one entry of the navigation bar shown on every page
type NavItem struct {
	Key   string
	Label string
	Path  string
	Class string
}

// Navigation lists the pages in display order
var Navigation = []NavItem{
	{Key: "home", Label: "Home", Path: "/", Class: "primary"},
	{Key: "plot", Label: "User Activity Plot", Path: "/plot", Class: "success"},
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Class: "info"},
	{Key: "security", Label: "Security Dashboard", Path: "/security-dashboard", Class: "danger"},
	{Key: "anomalies", Label: "Anomaly Detection", Path: "/anomalies", Class: "warning"},
}

// timestampLayouts are the accepted timestamp formats of uploaded files, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp parses s in any accepted layout. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatDateTime formats a time as YYYY-MM-DD HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

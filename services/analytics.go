package services

import (
	"sort"
	"time"

	"github.com/blogem/access-log-viewer/models"
)

const (
	// AnomalyWindow is the look-back period for failed-login detection
	AnomalyWindow = 30 * 24 * time.Hour
	// FailedLoginThreshold is the number of failures a user must exceed to be flagged
	FailedLoginThreshold = 5
	// TopN bounds the security dashboard rankings
	TopN = 10
	// MaxTimeBuckets bounds a time series; older buckets are dropped
	MaxTimeBuckets = 10000
)

// UserActivity groups records by username, then by action.
// Users and actions are sorted; combinations without records count as 0.
func UserActivity(records []models.LogRecord) *models.UserActivity {
	counts := make(map[string]map[string]int)
	actionSet := make(map[string]struct{})

	for i := range records {
		r := &records[i]
		if counts[r.Username] == nil {
			counts[r.Username] = make(map[string]int)
		}
		counts[r.Username][r.Action]++
		actionSet[r.Action] = struct{}{}
	}

	activity := &models.UserActivity{
		Users:   sortedKeys(counts),
		Actions: sortedKeys(actionSet),
	}

	activity.Counts = make([][]int, len(activity.Users))
	for i, user := range activity.Users {
		row := make([]int, len(activity.Actions))
		for j, action := range activity.Actions {
			row[j] = counts[user][action]
		}
		activity.Counts[i] = row
	}

	return activity
}

// ActionDistribution counts records per action, largest first, with percentages of the total
func ActionDistribution(records []models.LogRecord) []models.CountItem {
	return countBy(records, func(r *models.LogRecord) string { return r.Action })
}

// TimeSeries counts records per fixed-width bucket. The result covers every
// bucket from the earliest to the latest record, including empty ones, up to
// the latest MaxTimeBuckets. Buckets are aligned in UTC.
func TimeSeries(records []models.LogRecord, width models.BucketWidth) []models.Bucket {
	if len(records) == 0 {
		return []models.Bucket{}
	}

	step := time.Duration(width)
	counts := make(map[time.Time]int)
	var first, last time.Time

	for i := range records {
		start := bucketStart(records[i].Timestamp, step)
		counts[start]++
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}

	if span := last.Sub(first) / step; span >= MaxTimeBuckets {
		first = last.Add(-(MaxTimeBuckets - 1) * step)
	}

	buckets := make([]models.Bucket, 0, int(last.Sub(first)/step)+1)
	for t := first; !t.After(last); t = t.Add(step) {
		buckets = append(buckets, models.Bucket{Start: t, Count: counts[t]})
	}
	return buckets
}

// DetectAnomalies flags users with more than FailedLoginThreshold failed
// logins in the AnomalyWindow ending at the most recent failed login. When no
// failed logins exist the window ends at now and nothing is flagged.
func DetectAnomalies(records []models.LogRecord, now time.Time) *models.AnomalyReport {
	failed := failedLogins(records)

	report := &models.AnomalyReport{
		WindowEnd:       now.UTC(),
		SuspiciousUsers: []models.CountItem{},
		Daily:           []models.Bucket{},
	}

	if len(failed) > 0 {
		report.WindowDays = int(AnomalyWindow / (24 * time.Hour))
		report.WindowEnd = failed[0].Timestamp
		for i := range failed {
			if failed[i].Timestamp.After(report.WindowEnd) {
				report.WindowEnd = failed[i].Timestamp
			}
		}
	}
	report.WindowStart = report.WindowEnd.Add(-AnomalyWindow)

	recent := make([]models.LogRecord, 0, len(failed))
	for i := range failed {
		if !failed[i].Timestamp.Before(report.WindowStart) {
			recent = append(recent, failed[i])
		}
	}
	report.TotalFailedAttempts = len(recent)

	for _, item := range countBy(recent, func(r *models.LogRecord) string { return r.Username }) {
		if item.Count > FailedLoginThreshold {
			report.SuspiciousUsers = append(report.SuspiciousUsers, item)
		}
	}

	report.Daily = TimeSeries(recent, models.Daily)
	return report
}

// SecuritySummary ranks usernames and source IPs by failed-login count and
// buckets failed logins per hour
func SecuritySummary(records []models.LogRecord) *models.SecuritySummary {
	failed := failedLogins(records)

	return &models.SecuritySummary{
		TotalFailed: len(failed),
		TopUsers:    topN(countBy(failed, func(r *models.LogRecord) string { return r.Username }), TopN),
		TopIPs:      topN(countBy(failed, func(r *models.LogRecord) string { return r.IPAddress }), TopN),
		Hourly:      TimeSeries(failed, models.Hourly),
	}
}

func failedLogins(records []models.LogRecord) []models.LogRecord {
	failed := make([]models.LogRecord, 0)
	for i := range records {
		if records[i].IsFailedLogin() {
			failed = append(failed, records[i])
		}
	}
	return failed
}

// countBy counts records per key, sorted by count descending then key ascending
func countBy(records []models.LogRecord, key func(*models.LogRecord) string) []models.CountItem {
	counts := make(map[string]int)
	for i := range records {
		counts[key(&records[i])]++
	}

	items := make([]models.CountItem, 0, len(counts))
	for k, c := range counts {
		items = append(items, models.CountItem{
			Key:     k,
			Count:   c,
			Percent: float64(c) * 100 / float64(len(records)),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Key < items[j].Key
	})
	return items
}

func topN(items []models.CountItem, n int) []models.CountItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// bucketStart truncates t to the start of its bucket in UTC. Day buckets
// start at midnight UTC.
func bucketStart(t time.Time, step time.Duration) time.Time {
	t = t.UTC()
	if step >= 24*time.Hour {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Truncate(step)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

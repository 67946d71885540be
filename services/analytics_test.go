package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/access-log-viewer/models"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func failedLogin(user, ip string, at time.Time) models.LogRecord {
	return models.LogRecord{IPAddress: ip, Username: user, Action: models.FailedLoginAction, Timestamp: at, StatusCode: 401}
}

func failures(user string, n int, start time.Time, step time.Duration) []models.LogRecord {
	records := make([]models.LogRecord, n)
	for i := range records {
		records[i] = failedLogin(user, "10.1.1.1", start.Add(time.Duration(i)*step))
	}
	return records
}

func TestUserActivityFillsMissingCombinations(t *testing.T) {
	records := []models.LogRecord{
		{Username: "bob", Action: "login"},
		{Username: "alice", Action: "login"},
		{Username: "alice", Action: "logout"},
		{Username: "alice", Action: "login"},
	}

	activity := UserActivity(records)

	assert.Equal(t, []string{"alice", "bob"}, activity.Users)
	assert.Equal(t, []string{"login", "logout"}, activity.Actions)
	assert.Equal(t, [][]int{{2, 1}, {1, 0}}, activity.Counts)
}

func TestActionDistribution(t *testing.T) {
	records := []models.LogRecord{
		{Action: "login"}, {Action: "login"}, {Action: "login"},
		{Action: "failed_login"},
	}

	dist := ActionDistribution(records)

	require.Len(t, dist, 2)
	assert.Equal(t, "login", dist[0].Key)
	assert.Equal(t, 3, dist[0].Count)
	assert.InDelta(t, 75.0, dist[0].Percent, 0.001)
	assert.Equal(t, "failed_login", dist[1].Key)
	assert.InDelta(t, 25.0, dist[1].Percent, 0.001)
}

func TestTimeSeriesZeroFillsGaps(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: t0.Add(5 * time.Minute)},
		{Timestamp: t0.Add(20 * time.Minute)},
		{Timestamp: t0.Add(3*time.Hour + 59*time.Minute)},
	}

	hourly := TimeSeries(records, models.Hourly)

	require.Len(t, hourly, 4)
	assert.Equal(t, []int{2, 0, 0, 1}, bucketCounts(hourly))
	assert.True(t, hourly[0].Start.Equal(t0))
	assert.True(t, hourly[3].Start.Equal(t0.Add(3*time.Hour)))
}

func TestTimeSeriesDailyAlignsToMidnightUTC(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 3, 3, 0, 1, 0, 0, time.UTC)},
	}

	daily := TimeSeries(records, models.Daily)

	require.Len(t, daily, 3)
	assert.Equal(t, []int{1, 0, 1}, bucketCounts(daily))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), daily[0].Start)
}

func TestTimeSeriesKeepsLatestBuckets(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Timestamp: t0},
		{Timestamp: t0.Add(30 * time.Minute)},
	}

	hourly := TimeSeries(records, models.Hourly)

	require.Len(t, hourly, MaxTimeBuckets)
	last := hourly[len(hourly)-1]
	assert.True(t, last.Start.Equal(t0))
	assert.Equal(t, 2, last.Count)
	assert.True(t, hourly[0].Start.Equal(t0.Add(-(MaxTimeBuckets-1)*time.Hour)))
	assert.Equal(t, 2, sumCounts(hourly), "the outlier falls outside the kept range")
}

func TestTimeSeriesEmpty(t *testing.T) {
	assert.Empty(t, TimeSeries(nil, models.Hourly))
}

func TestDetectAnomaliesThresholdIsStrict(t *testing.T) {
	var records []models.LogRecord
	records = append(records, failures("five", 5, t0, time.Hour)...)
	records = append(records, failures("six", 6, t0, time.Hour)...)

	report := DetectAnomalies(records, t0)

	assert.False(t, report.IsSuspicious("five"), "exactly 5 failures must not be flagged")
	assert.True(t, report.IsSuspicious("six"), "6 failures must be flagged")
	require.Len(t, report.SuspiciousUsers, 1)
	assert.Equal(t, 6, report.SuspiciousUsers[0].Count)
	assert.Equal(t, 11, report.TotalFailedAttempts)
	assert.Equal(t, 30, report.WindowDays)
}

func TestDetectAnomaliesWindowBoundaryIsInclusive(t *testing.T) {
	latest := t0.Add(30 * 24 * time.Hour)

	// first failure sits exactly 30 days before the latest one
	records := failures("edge", 5, t0, time.Minute)
	records = append(records, failedLogin("edge", "10.1.1.1", latest))
	records = append(records, failedLogin("stale", "10.1.1.2", t0.Add(-time.Second)))

	report := DetectAnomalies(records, latest)

	assert.True(t, report.WindowStart.Equal(t0))
	assert.True(t, report.WindowEnd.Equal(latest))
	assert.Equal(t, 6, report.TotalFailedAttempts, "record exactly on the boundary is counted, older one is not")
	assert.True(t, report.IsSuspicious("edge"))
	assert.False(t, report.IsSuspicious("stale"))
}

func TestDetectAnomaliesAliceAndBob(t *testing.T) {
	var records []models.LogRecord
	records = append(records, failures("alice", 6, t0, 36*time.Hour)...) // spread over 7.5 days
	records = append(records, failures("bob", 3, t0, time.Hour)...)
	records = append(records, models.LogRecord{Username: "bob", Action: "login", Timestamp: t0})

	report := DetectAnomalies(records, t0)

	assert.True(t, report.IsSuspicious("alice"))
	assert.False(t, report.IsSuspicious("bob"))
	assert.Equal(t, 9, report.TotalFailedAttempts)

	total := 0
	for _, b := range report.Daily {
		total += b.Count
	}
	assert.Equal(t, 9, total)
}

func TestDetectAnomaliesNoFailedLogins(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []models.LogRecord{{Username: "carol", Action: "login", Timestamp: now.Add(-time.Hour)}}

	report := DetectAnomalies(records, now)

	assert.Empty(t, report.SuspiciousUsers)
	assert.Equal(t, 0, report.TotalFailedAttempts)
	assert.Equal(t, 0, report.WindowDays)
	assert.True(t, report.WindowEnd.Equal(now))
	assert.Empty(t, report.Daily)
}

func TestSecuritySummaryTopTen(t *testing.T) {
	var records []models.LogRecord
	for u := 0; u < 12; u++ {
		for n := 0; n <= u; n++ {
			records = append(records, failedLogin(fmt.Sprintf("user%02d", u), fmt.Sprintf("10.0.%d.1", u), t0.Add(time.Duration(n)*time.Minute)))
		}
	}
	records = append(records, models.LogRecord{Username: "ok", IPAddress: "1.1.1.1", Action: "login", Timestamp: t0})

	summary := SecuritySummary(records)

	assert.Equal(t, 78, summary.TotalFailed)
	require.Len(t, summary.TopUsers, TopN)
	require.Len(t, summary.TopIPs, TopN)
	assert.Equal(t, "user11", summary.TopUsers[0].Key)
	assert.Equal(t, 12, summary.TopUsers[0].Count)
	assert.Equal(t, "user02", summary.TopUsers[9].Key)
	assert.Equal(t, "10.0.11.1", summary.TopIPs[0].Key)
	require.Len(t, summary.Hourly, 1)
	assert.Equal(t, 78, summary.Hourly[0].Count)
}

func TestCountByBreaksTiesByKey(t *testing.T) {
	records := []models.LogRecord{{Username: "b"}, {Username: "a"}, {Username: "c"}, {Username: "c"}}

	items := countBy(records, func(r *models.LogRecord) string { return r.Username })

	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].Key, items[1].Key, items[2].Key})
}

func sumCounts(buckets []models.Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

func bucketCounts(buckets []models.Bucket) []int {
	counts := make([]int, len(buckets))
	for i, b := range buckets {
		counts[i] = b.Count
	}
	return counts
}

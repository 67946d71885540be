package services

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/access-log-viewer/models"
)

// makeRecords builds n records with sequential IDs one minute apart
func makeRecords(n int, build func(i int, r *models.LogRecord)) []models.LogRecord {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.LogRecord, n)
	for i := range records {
		records[i] = models.LogRecord{
			ID:         int64(i + 1),
			IPAddress:  fmt.Sprintf("10.0.0.%d", i%4),
			Username:   "user",
			Action:     "login",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			StatusCode: 200,
		}
		if build != nil {
			build(i, &records[i])
		}
	}
	return records
}

func TestFilterRecords(t *testing.T) {
	records := makeRecords(6, func(i int, r *models.LogRecord) {
		switch i {
		case 0:
			r.Username = "Alice"
		case 1:
			r.Action = "failed_login"
		case 2:
			r.StatusCode = 404
		}
	})

	assert.Len(t, FilterRecords(records, "alice"), 1)
	assert.Len(t, FilterRecords(records, "FAILED"), 1)
	assert.Len(t, FilterRecords(records, "404"), 1)
	assert.Len(t, FilterRecords(records, "login"), 6)
	assert.Len(t, FilterRecords(records, "2024-06-01 00:0"), 6)
	assert.Empty(t, FilterRecords(records, "nobody"))
}

func TestFilterRecordsEmptyNeedleKeepsAll(t *testing.T) {
	records := makeRecords(4, nil)
	assert.Equal(t, records, FilterRecords(records, ""))
}

func TestFilterRecordsIncludesIffAnyFieldMatches(t *testing.T) {
	records := makeRecords(30, func(i int, r *models.LogRecord) {
		if i%3 == 0 {
			r.Username = fmt.Sprintf("Needle-%d", i)
		}
	})

	filtered := FilterRecords(records, "needle")
	kept := make(map[int64]bool)
	for _, r := range filtered {
		kept[r.ID] = true
	}

	for _, r := range records {
		assert.Equal(t, r.Matches("needle"), kept[r.ID], "record %d", r.ID)
	}
}

func TestPaginateLastPage(t *testing.T) {
	// 25 records, 23 of which contain the needle
	records := makeRecords(25, func(i int, r *models.LogRecord) {
		if i < 23 {
			r.Username = "target"
		}
	})

	page := Paginate(FilterRecords(records, "target"), 3, models.DefaultPageSize)

	assert.Equal(t, 23, page.TotalMatches)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(23), page.Records[0].ID)
	assert.Equal(t, 22, page.StartIndex)
	assert.Equal(t, 23, page.EndIndex)
}

func TestPaginateCoversEveryRowOnce(t *testing.T) {
	for _, total := range []int{0, 1, 10, 11, 12, 22, 23, 57} {
		records := makeRecords(total, nil)
		first := Paginate(records, 1, models.DefaultPageSize)

		seen := make(map[int64]int)
		sum := 0
		for p := 1; p <= first.TotalPages; p++ {
			page := Paginate(records, p, models.DefaultPageSize)
			assert.LessOrEqual(t, len(page.Records), models.DefaultPageSize)
			sum += len(page.Records)
			for _, r := range page.Records {
				seen[r.ID]++
			}
		}

		assert.Equal(t, total, sum, "total %d", total)
		for id, n := range seen {
			assert.Equal(t, 1, n, "record %d appears on %d pages", id, n)
		}
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	records := makeRecords(12, nil)

	beyond := Paginate(records, 5, models.DefaultPageSize)
	assert.Empty(t, beyond.Records)
	assert.Equal(t, 2, beyond.TotalPages)

	clamped := Paginate(records, -3, models.DefaultPageSize)
	assert.Equal(t, 1, clamped.Number)
	assert.Len(t, clamped.Records, 11)

	zero := Paginate(records, 0, 0)
	assert.Equal(t, 1, zero.Number)
	assert.Equal(t, models.DefaultPageSize, zero.Size)
}

func TestPaginateHugePageNumbers(t *testing.T) {
	records := makeRecords(3, nil)

	for _, page := range []int{math.MaxInt / 8, math.MaxInt / 11, math.MaxInt} {
		result := Paginate(records, page, models.DefaultPageSize)

		assert.Empty(t, result.Records, "page %d", page)
		assert.True(t, result.IsEmpty(), "page %d", page)
		assert.Equal(t, page, result.Number)
		assert.Equal(t, 1, result.TotalPages)
		assert.Equal(t, []int{1}, PageWindow(result.Number, result.TotalPages))
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{2, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{12, 3, []int{1, 2, 3}},
		{math.MaxInt, 10, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageWindow(tt.current, tt.total), "current=%d total=%d", tt.current, tt.total)
	}
}

package services

import (
	"github.com/blogem/access-log-viewer/models"
)

// pageWindowSize is the maximum number of page links in the pagination bar
const pageWindowSize = 5

// FilterRecords returns the records where any field contains needle,
// case-insensitively. An empty needle keeps every record.
func FilterRecords(records []models.LogRecord, needle string) []models.LogRecord {
	if needle == "" {
		return records
	}

	matched := make([]models.LogRecord, 0)
	for i := range records {
		if records[i].Matches(needle) {
			matched = append(matched, records[i])
		}
	}
	return matched
}

// Paginate slices records into the 1-based page of the given size.
// Pages below 1 are clamped to 1; a page past the end is empty, not an error.
func Paginate(records []models.LogRecord, page, pageSize int) *models.Page {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize

	// compare pages before multiplying so huge page numbers cannot overflow
	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &models.Page{
		Records:      records[start:end],
		Number:       page,
		Size:         pageSize,
		TotalMatches: total,
		TotalPages:   totalPages,
		StartIndex:   start,
		EndIndex:     end,
	}
}

// PageWindow returns up to five page numbers centred on current and clamped to [1, totalPages]
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	current = min(current, totalPages)
	start := max(1, current-2)
	end := min(totalPages, start+pageWindowSize-1)
	if end-start < pageWindowSize-1 {
		start = max(1, end-pageWindowSize+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

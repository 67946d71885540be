package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/archive"
	"github.com/blogem/access-log-viewer/models"
	"github.com/blogem/access-log-viewer/services"
)

// tableView is the data behind index.html for both the home page and search results
type tableView struct {
	Records []models.LogRecord
	Banner  string
	Query   string
	Page    *models.Page
	Links   []int
}

// LogsController handles the log table, search and CSV import
type LogsController struct {
	services       *services.Services
	archive        archive.Store
	maxUploadBytes int64
	pages          pageBuilder
}

// NewLogsController creates a new logs controller
func NewLogsController(services *services.Services, store archive.Store, maxUploadBytes int64, pages pageBuilder) *LogsController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &LogsController{
		services:       services,
		archive:        store,
		maxUploadBytes: maxUploadBytes,
		pages:          pages,
	}
}

// Index handles GET /
func (c *LogsController) Index(w http.ResponseWriter, r *http.Request) {
	page := c.pages.page(r, "Access Log Viewer", "home")
	if flash, ok := popFlash(r); ok {
		if flash.Type == "error" {
			page.Error = flash.Message
		} else {
			page.Success = flash.Message
		}
	}

	c.renderIndex(w, r, http.StatusOK, page)
}

func (c *LogsController) renderIndex(w http.ResponseWriter, r *http.Request, status int, page basePage) {
	data, err := c.services.Reports.GetIndex(r.Context())
	if err != nil {
		loadError(w, r, err)
		return
	}

	templateData := struct {
		basePage
		Data tableView
	}{
		basePage: page,
		Data: tableView{
			Records: data.Records,
			Banner: fmt.Sprintf("Showing %d of %d rows. Use search to find all instances of logs by any row.",
				len(data.Records), data.Total),
		},
	}

	renderTemplateWithStatus(w, status, "index", "index.html", templateData)
}

// Filter handles GET /filter?value=...&page=N
func (c *LogsController) Filter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("value")
	pageNumber, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || pageNumber < 1 {
		pageNumber = 1
	}

	result, err := c.services.Reports.Search(r.Context(), query, pageNumber)
	if err != nil {
		loadError(w, r, err)
		return
	}

	templateData := struct {
		basePage
		Data tableView
	}{
		basePage: c.pages.page(r, "Search Results", "home"),
		Data: tableView{
			Records: result.Page.Records,
			Banner:  searchBanner(result),
			Query:   query,
			Page:    result.Page,
			Links:   result.Links,
		},
	}

	renderTemplate(w, "filter", "index.html", templateData)
}

func searchBanner(result *services.SearchData) string {
	p := result.Page
	switch {
	case p.TotalMatches == 0:
		return fmt.Sprintf("No results found for %q", result.Query)
	case p.IsEmpty():
		return fmt.Sprintf("Page %d is beyond the last page (%d) of %d matching rows for %q",
			p.Number, p.TotalPages, p.TotalMatches, result.Query)
	case result.Query == "":
		return fmt.Sprintf("Showing results %d-%d of %d rows", p.StartIndex+1, p.EndIndex, p.TotalMatches)
	default:
		return fmt.Sprintf("Showing results %d-%d of %d matching rows for %q",
			p.StartIndex+1, p.EndIndex, p.TotalMatches, result.Query)
	}
}

// Import handles POST /import
func (c *LogsController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.importFailed(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		c.importFailed(w, r, http.StatusBadRequest, services.ErrNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.importFailed(w, r, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	filename, err := archive.SafeName(header.Filename)
	if err != nil {
		c.importFailed(w, r, http.StatusBadRequest, err)
		return
	}

	if c.archive != nil {
		location, err := c.archive.Save(r.Context(), filename, data)
		if err != nil {
			c.importFailed(w, r, http.StatusInternalServerError, err)
			return
		}
		log.Info().Str("location", location).Msg("saved upload")
	}

	result, err := c.services.Logs.Import(r.Context(), filename, bytes.NewReader(data))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.importFailed(w, r, status, err)
		return
	}

	setFlash(r, models.FlashMessage{
		Type:    "success",
		Message: fmt.Sprintf("Imported %d log entries from %s (import %s)", result.Count, result.Filename, result.ImportID),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// importFailed re-renders the home page with the import error inline
func (c *LogsController) importFailed(w http.ResponseWriter, r *http.Request, status int, err error) {
	log.Warn().Err(err).Int("status", status).Msg("error importing logs")

	page := c.pages.page(r, "Access Log Viewer", "home")
	page.Error = "Error importing logs: " + err.Error()

	c.renderIndex(w, r, status, page)
}

package controllers

import (
	"html/template"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/archive"
	"github.com/blogem/access-log-viewer/authenticator"
	"github.com/blogem/access-log-viewer/models"
	"github.com/blogem/access-log-viewer/services"
	"github.com/blogem/access-log-viewer/templates"
	"github.com/blogem/access-log-viewer/userctx"
)

const sessionFlash = "flash"

var templateFuncs = template.FuncMap{
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
	"formatDateTime": models.FormatDateTime,
}

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl, err := template.New(templateName).Funcs(templateFuncs).ParseFS(templates.FS, "layout.html", pageTemplate)
	if err != nil {
		log.Error().Err(err).Str("template", pageTemplate).Msg("failed to parse template")
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Error().Err(err).Str("template", pageTemplate).Msg("failed to render template")
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// loadError answers a failed store read with a plain-text 500
func loadError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("error loading logs")
	http.Error(w, "Error loading logs: "+err.Error(), http.StatusInternalServerError)
}

// basePage is the data every page shares with layout.html
type basePage struct {
	Title       string
	CurrentPage string
	Nav         []models.NavItem
	AuthEnabled bool
	User        string
	Error       string
	Success     string
}

// pageBuilder fills basePage from the request
type pageBuilder struct {
	authEnabled bool
}

func (b pageBuilder) page(r *http.Request, title, current string) basePage {
	page := basePage{
		Title:       title,
		CurrentPage: current,
		Nav:         models.Navigation,
		AuthEnabled: b.authEnabled,
	}
	if op, ok := userctx.GetOperator(r.Context()); ok {
		page.User = op.DisplayName()
	}
	return page
}

// setFlash stores a one-shot message for the next page view
func setFlash(r *http.Request, flash models.FlashMessage) {
	if err := session.GetSession(r).Set(sessionFlash, flash); err != nil {
		log.Warn().Err(err).Msg("failed to store flash message")
	}
}

// popFlash returns and clears the pending flash message
func popFlash(r *http.Request) (models.FlashMessage, bool) {
	sess := session.GetSession(r)
	flash, ok := sess.Get(sessionFlash).(models.FlashMessage)
	if ok {
		_ = sess.Delete(sessionFlash)
	}
	return flash, ok
}

// Options configures the controllers
type Options struct {
	Archive        archive.Store
	MaxUploadBytes int64
	Auth           authenticator.Provider
}

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Logs    *LogsController
	Reports *ReportsController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, opts Options) *Controllers {
	pages := pageBuilder{authEnabled: opts.Auth != nil}

	return &Controllers{
		Auth:    NewAuthController(opts.Auth),
		Logs:    NewLogsController(services, opts.Archive, opts.MaxUploadBytes, pages),
		Reports: NewReportsController(services, pages),
	}
}

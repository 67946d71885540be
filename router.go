package main

import (
	"fmt"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/config"
	"github.com/blogem/access-log-viewer/controllers"
	"github.com/blogem/access-log-viewer/metrics"
	appmiddleware "github.com/blogem/access-log-viewer/middleware"
	"github.com/blogem/access-log-viewer/repositories"
)

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, repos *repositories.Repositories) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks and large imports
	r.Use(middleware.Compress(5))
	r.Use(metrics.Instrument)

	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "access_log_session",
		Secure:         cfg.Server.UseHTTPS,
		Gclifetime:     cfg.Server.SessionLifetime,
		Maxlifetime:    cfg.Server.SessionLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(appmiddleware.LoadOperator)

	// PUBLIC ROUTES
	r.Get("/", ctrl.Logs.Index)
	r.Get("/filter", ctrl.Logs.Filter)
	r.Get("/plot", ctrl.Reports.Plot)
	r.Get("/dashboard", ctrl.Reports.Dashboard)
	r.Get("/security-dashboard", ctrl.Reports.SecurityDashboard)
	r.Get("/anomalies", ctrl.Reports.Anomalies)
	r.Get("/health", health(cfg.Logging.ServiceName, repos.Logs))
	r.Handle("/metrics", metrics.Handler())

	if ctrl.Auth.Enabled() {
		r.Get("/login", ctrl.Auth.Login)
		r.Get("/callback", ctrl.Auth.Callback)
		r.Get("/logout", ctrl.Auth.Logout)
	}

	// UPLOADS (operator login required when configured)
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireOperator(ctrl.Auth.Enabled()))
		r.Use(appmiddleware.AuditLogger(repos.Audit))

		r.Post("/import", ctrl.Logs.Import)
	})

	return r, nil
}

// health reports whether the log store answers, with its current row count
func health(service string, logs repositories.LogRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		payload := map[string]any{"status": "healthy", "service": service}

		count, err := logs.Count(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("health check failed")
			status = http.StatusServiceUnavailable
			payload["status"] = "unhealthy"
			payload["error"] = err.Error()
		} else {
			payload["log_entries"] = count
		}

		body, _ := json.Marshal(payload)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}
}

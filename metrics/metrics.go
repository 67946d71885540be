package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "access_logs_imported_total",
			Help: "Total number of log records written by CSV imports",
		},
	)

	Imports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_log_imports_total",
			Help: "CSV import attempts by outcome",
		},
		[]string{"status"},
	)

	LoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "access_log_load_duration_seconds",
			Help:    "Duration of full-table log loads",
			Buckets: prometheus.DefBuckets,
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(ImportedRecords)
	prometheus.MustRegister(Imports)
	prometheus.MustRegister(LoadDuration)
	prometheus.MustRegister(RequestDuration)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request duration labelled with the matched chi route
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

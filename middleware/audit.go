package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/models"
	"github.com/blogem/access-log-viewer/repositories"
	"github.com/blogem/access-log-viewer/userctx"
)

// AuditLogger records every POST/PUT/DELETE request after the handler has run,
// so the entry includes the parsed form and uploaded file names
func AuditLogger(auditRepo repositories.AuditRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodDelete {
				return
			}

			entry := &models.AuditLogEntry{
				UserEmail: userctx.GetUserEmail(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				UserAgent: r.UserAgent(),
				IPAddress: getIPAddress(r),
				FormData:  captureFormData(r),
			}

			// the request context may already be cancelled by the time we get here
			if err := auditRepo.Create(context.WithoutCancel(r.Context()), entry); err != nil {
				log.Error().Err(err).Str("path", entry.Path).Msg("failed to create audit log")
			}
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// captureFormData serializes whatever form the handler parsed. File fields
// are recorded by name only.
func captureFormData(r *http.Request) string {
	formMap := make(map[string]interface{})

	addValues := func(values map[string][]string) {
		for key, vals := range values {
			if len(vals) == 1 {
				formMap[key] = vals[0]
			} else {
				formMap[key] = vals
			}
		}
	}

	if r.PostForm != nil {
		addValues(r.PostForm)
	}
	if r.MultipartForm != nil {
		addValues(r.MultipartForm.Value)
		for key, files := range r.MultipartForm.File {
			names := make([]string, len(files))
			for i, fh := range files {
				names[i] = fh.Filename
			}
			if len(names) == 1 {
				formMap[key] = names[0]
			} else {
				formMap[key] = names
			}
		}
	}

	if len(formMap) == 0 {
		return ""
	}

	jsonData, err := json.Marshal(formMap)
	if err != nil {
		return ""
	}
	return string(jsonData)
}

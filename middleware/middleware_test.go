package middleware

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"gitea.com/go-chi/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/access-log-viewer/models"
	"github.com/blogem/access-log-viewer/repositories/mocks"
	"github.com/blogem/access-log-viewer/userctx"
)

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("csv_file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAuditLoggerRecordsUploadAfterHandler(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)
	auditRepo.EXPECT().
		Create(mock.Anything, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
			return e.Method == http.MethodPost &&
				e.Path == "/import" &&
				e.UserEmail == "ops@example.com" &&
				e.IPAddress == "203.0.113.7" &&
				e.FormData == `{"csv_file":"weekly.csv"}`
		})).
		Return(nil)

	handler := AuditLogger(auditRepo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, err := r.FormFile("csv_file")
		require.NoError(t, err)
		w.WriteHeader(http.StatusSeeOther)
	}))

	req := multipartUpload(t, "weekly.csv", "a,b\n")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req = req.WithContext(userctx.WithOperator(req.Context(), userctx.Operator{ID: "sub", Email: "ops@example.com"}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAuditLoggerSkipsReads(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)

	handler := AuditLogger(auditRepo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/filter?value=x", nil))

	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuditLoggerFailureDoesNotBreakRequest(t *testing.T) {
	auditRepo := mocks.NewMockAuditRepository(t)
	auditRepo.EXPECT().Create(mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	handler := AuditLogger(auditRepo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetIPAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", getIPAddress(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getIPAddress(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", getIPAddress(req))
}

func TestRequireOperatorDisabledPassesThrough(t *testing.T) {
	called := false
	handler := RequireOperator(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/import", nil))

	assert.True(t, called)
}

func withSession(t *testing.T, h http.Handler) http.Handler {
	t.Helper()
	sessioner, err := session.Sessioner(session.Options{Provider: "memory", CookieName: "test_session"})
	require.NoError(t, err)
	return sessioner(h)
}

func TestRequireOperatorRedirectsAnonymous(t *testing.T) {
	handler := withSession(t, LoadOperator(RequireOperator(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for anonymous requests")
	}))))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireOperatorAllowsSignedIn(t *testing.T) {
	var seen string
	handler := withSession(t, RequireOperator(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = userctx.GetUserEmail(r.Context())
	})))

	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	req = req.WithContext(userctx.WithOperator(req.Context(), userctx.Operator{ID: "sub-9", Email: "lee@example.com"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "lee@example.com", seen)
}

package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/access-log-viewer/userctx"
)

// Session keys shared with the auth controller
const (
	SessionOperatorID    = "operator_id"
	SessionOperatorEmail = "operator_email"
	SessionOperatorName  = "operator_name"
	SessionRedirect      = "redirect_after_login"
)

// LoadOperator copies the signed-in operator from the session into the request context
func LoadOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		id, _ := sess.Get(SessionOperatorID).(string)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		email, _ := sess.Get(SessionOperatorEmail).(string)
		name, _ := sess.Get(SessionOperatorName).(string)

		ctx := userctx.WithOperator(r.Context(), userctx.Operator{ID: id, Email: email, Name: name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOperator guards mutating routes when operator login is enabled.
// Anonymous requests are sent to /login and come back afterwards.
func RequireOperator(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := userctx.GetOperator(r.Context()); !ok {
				// a POST cannot be replayed after login, so return to the page it came from
				session.GetSession(r).Set(SessionRedirect, "/")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/authenticator"
	"github.com/blogem/access-log-viewer/middleware"
)

const sessionState = "state"

// AuthController runs the OpenID Connect login for operators
type AuthController struct {
	provider authenticator.Provider
}

// NewAuthController creates a new auth controller. provider may be nil when login is disabled.
func NewAuthController(provider authenticator.Provider) *AuthController {
	return &AuthController{provider: provider}
}

// Enabled reports whether a login provider is configured
func (ac *AuthController) Enabled() bool {
	return ac.provider != nil
}

// Login handles GET /login
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateRandomState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Save the state in the session to validate in callback
	session.GetSession(r).Set(sessionState, state)

	http.Redirect(w, r, ac.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /callback from the identity provider
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)

	storedState, _ := sess.Get(sessionState).(string)
	if storedState == "" {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	_ = sess.Delete(sessionState)

	token, err := ac.provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange authorization code for a token: "+err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := ac.provider.GetClaims(r.Context(), token)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	op, err := claims.Operator()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	sess.Set(middleware.SessionOperatorID, op.ID)
	sess.Set(middleware.SessionOperatorEmail, op.Email)
	sess.Set(middleware.SessionOperatorName, op.Name)
	log.Info().Str("operator", op.DisplayName()).Msg("operator signed in")

	redirect, _ := sess.Get(middleware.SessionRedirect).(string)
	_ = sess.Delete(middleware.SessionRedirect)
	if redirect == "" {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Logout handles GET /logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	for _, key := range []string{middleware.SessionOperatorID, middleware.SessionOperatorEmail, middleware.SessionOperatorName} {
		_ = sess.Delete(key)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

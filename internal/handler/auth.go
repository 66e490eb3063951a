package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/service"
)

const stateCookieName = "oauth_state"

// AuthHandler serves the login form, logout, and the optional GitHub login
// flow. github is nil when no OAuth app is configured.
type AuthHandler struct {
	auth         *service.AuthService
	github       *auth.GitHubProvider
	pages        *Pages
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	github *auth.GitHubProvider,
	pages *Pages,
	cookieSecure bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:         authService,
		github:       github,
		pages:        pages,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// HandleLoginPage renders the login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, PageLogin, pageData{
		Title:  "Log in",
		GitHub: h.github != nil,
	})
}

// HandleLogin checks the submitted credentials. Success sets the session
// cookie and redirects home; failure re-renders the form with the error and
// status 401.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	res, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.pages.Render(w, r, http.StatusUnauthorized, PageLogin, pageData{
				Title:      "Log in",
				Error:      err.Error(),
				LoginEmail: email,
				GitHub:     h.github != nil,
			})
			return
		}
		writeTextError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.auth.SessionTTL(), h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie. The token itself stays valid until
// it expires, but the browser no longer sends it.
//
// HTTP: POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleGitHubLogin redirects to GitHub's authorization page. A random state
// is kept in a short-lived cookie and checked on the callback.
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the GitHub login.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// single use
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	res, err := h.auth.LoginGitHub(r.Context(), ghUser)
	if err != nil {
		writeTextError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.auth.SessionTTL(), h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

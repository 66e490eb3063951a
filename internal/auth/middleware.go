package auth

import (
	"context"
	"net/http"
	"time"
)

// CookieName is the name of the HttpOnly cookie holding the session token.
const CookieName = "session"

// contextKey is unexported so no other package can read or shadow the
// session stored in a request context.
type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the session of the logged-in user, or
// (Session{}, false) for an anonymous request.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok && sess.UserID > 0
}

// LoadSession decodes the session cookie, when present and valid, into the
// request context. It never rejects a request; RequireAuth, RequireLogin and
// RequireAdmin do that for the routes that need a user.
func LoadSession(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
				if sess, err := tokens.Validate(cookie.Value); err == nil {
					r = r.WithContext(WithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth guards JSON endpoints: anonymous requests get 401 with the
// API's error body.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"login required"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLogin guards browser form routes: anonymous requests are
// redirected to loginPath.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin redirects anonymous requests to loginPath and answers 403 to
// logged-in users who are not administrators.
func RequireAdmin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if !sess.Admin {
				http.Error(w, "administrator access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetSessionCookie stores token in the session cookie for ttl.
// secure should be true whenever the site is served over HTTPS.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

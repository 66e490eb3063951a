package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// echoSession writes the session email, or "anonymous".
var echoSession = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFromContext(r.Context()); ok {
		w.Write([]byte(sess.Email))
		return
	}
	w.Write([]byte("anonymous"))
})

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return r
}

func TestLoadSession(t *testing.T) {
	ts := newTestTokenService(t)
	valid, _ := ts.Generate(testSession)
	expired, _ := ts.GenerateWithDuration(testSession, -time.Minute)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"valid cookie", valid, testSession.Email},
		{"no cookie", "", "anonymous"},
		{"expired cookie", expired, "anonymous"},
		{"garbage cookie", "garbage", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			LoadSession(ts)(echoSession).ServeHTTP(rr, requestWithToken(tt.token))

			if rr.Code != http.StatusOK {
				t.Errorf("status = %d, want 200 (LoadSession never rejects)", rr.Code)
			}
			if got := rr.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireAuth(echoSession).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/favorites", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	r = r.WithContext(WithSession(r.Context(), testSession))
	rr = httptest.NewRecorder()
	RequireAuth(echoSession).ServeHTTP(rr, r)
	if rr.Code != http.StatusOK {
		t.Errorf("logged-in status = %d, want 200", rr.Code)
	}
}

func TestRequireLogin_Redirects(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireLogin("/login")(echoSession).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/favorite/1", nil))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		session    *Session
		wantStatus int
	}{
		{"anonymous", nil, http.StatusSeeOther},
		{"regular user", &Session{UserID: 2, Email: "user@example.com"}, http.StatusForbidden},
		{"admin", &Session{UserID: 1, Email: "admin@example.com", Admin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.session != nil {
				r = r.WithContext(WithSession(r.Context(), *tt.session))
			}
			rr := httptest.NewRecorder()
			RequireAdmin("/login")(echoSession).ServeHTTP(rr, r)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "tok", time.Hour, true)
	ClearSessionCookie(rr, true)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}

	set, cleared := cookies[0], cookies[1]
	if set.Value != "tok" || !set.HttpOnly || !set.Secure || set.MaxAge != 3600 {
		t.Errorf("session cookie = %+v", set)
	}
	if cleared.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want negative", cleared.MaxAge)
	}
}

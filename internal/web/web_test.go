// ABOUTME: Tests for the HTML surface: login flow, gates, and CSRF
// ABOUTME: Uses the in-memory store and the full resolver middleware

package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

const testCSRFToken = "test-csrf-token"

type testServer struct {
	store   *store.MockStore
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := store.NewMockStore()
	mux := http.NewServeMux()
	New(st, time.Hour).RegisterRoutes(mux)

	return &testServer{
		store:   st,
		handler: auth.ResolveViewer(st, st, nil)(mux),
	}
}

func (ts *testServer) createUser(t *testing.T, id, email string, role store.Role) *store.User {
	t.Helper()

	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := &store.User{ID: id, Name: id, Email: email, PasswordHash: hash, Role: role}
	if err := ts.store.CreateUser(t.Context(), user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func (ts *testServer) sessionFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("generating session token: %v", err)
	}
	session := &store.Session{
		ID:        token,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := ts.store.CreateSession(t.Context(), session); err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

// get performs a GET request, optionally authenticated.
func (ts *testServer) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST with a matching CSRF cookie and token.
func (ts *testServer) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", testCSRFToken)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", "alice@example.com", store.RoleUser)

	t.Run("login page renders a form", func(t *testing.T) {
		rec := ts.get(t, "/login")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `name="csrf_token"`) {
			t.Error("login form is missing the CSRF token field")
		}
	})

	t.Run("successful login sets session and redirects", func(t *testing.T) {
		rec := ts.postForm(t, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"correct horse battery staple"},
		})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303 (body %s)", rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Location") != "/" {
			t.Errorf("redirect = %q, want /", rec.Header().Get("Location"))
		}
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.SessionCookieName && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("no session cookie set")
		}
	})

	t.Run("wrong password re-renders with generic error", func(t *testing.T) {
		rec := ts.postForm(t, "/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"wrong"},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want form re-render", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid email or password") {
			t.Error("missing generic error message")
		}
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		rec := ts.postForm(t, "/login", url.Values{
			"email":    {"nobody@example.com"},
			"password": {"correct horse battery staple"},
		})
		if !strings.Contains(rec.Body.String(), "Invalid email or password") {
			t.Error("unknown email leaks a different message")
		}
	})

	t.Run("missing CSRF token is rejected", func(t *testing.T) {
		form := url.Values{
			"email":    {"alice@example.com"},
			"password": {"correct horse battery staple"},
		}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Invalid request") {
			t.Errorf("status = %d, body should ask to try again", rec.Code)
		}
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.SessionCookieName && c.Value != "" {
				t.Error("CSRF failure still set a session cookie")
			}
		}
	})
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	user := ts.createUser(t, "alice", "alice@example.com", store.RoleUser)
	session := ts.sessionFor(t, user.ID)

	rec := ts.postForm(t, "/logout", nil, session)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	if _, err := ts.store.GetSession(t.Context(), session.Value); err == nil {
		t.Error("session still valid after logout")
	}
}

func TestGatedPagesRedirectAnonymous(t *testing.T) {
	ts := newTestServer(t)

	paths := []string{"/posts/new", "/posts/some-id/edit"}
	for _, path := range paths {
		rec := ts.get(t, path)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("GET %s: status = %d, want 303", path, rec.Code)
		}
		if rec.Header().Get("Location") != "/login" {
			t.Errorf("GET %s: redirect = %q, want /login", path, rec.Header().Get("Location"))
		}
	}
}

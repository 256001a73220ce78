// ABOUTME: Shared test harness for API handler tests
// ABOUTME: Spins up the full mux with the resolver middleware over a MockStore

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

// testServer bundles the handler under test with its backing store.
type testServer struct {
	store   *store.MockStore
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := store.NewMockStore()
	verifier, err := auth.NewJWTVerifier([]byte(testSecret))
	if err != nil {
		t.Fatalf("creating verifier: %v", err)
	}

	mux := http.NewServeMux()
	New(st, verifier, time.Hour).RegisterRoutes(mux)

	return &testServer{
		store:   st,
		handler: auth.ResolveViewer(st, st, verifier)(mux),
	}
}

// createUser registers a user with the given role and a known password.
func (ts *testServer) createUser(t *testing.T, id, email string, role store.Role) *store.User {
	t.Helper()

	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := &store.User{
		ID:           id,
		Name:         id,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := ts.store.CreateUser(t.Context(), user); err != nil {
		t.Fatalf("creating user %s: %v", id, err)
	}
	return user
}

// sessionFor creates a login session for the user and returns its cookie.
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

// do performs a request against the test server. body is JSON-encoded when
// non-nil; cookie attaches a session when non-nil.
func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

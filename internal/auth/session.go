// ABOUTME: Session resolution middleware for cookie and bearer authentication
// ABOUTME: Populates the request context with a Viewer, or leaves it anonymous

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2389/inkwell/internal/store"
)

const (
	// SessionCookieName is the name of the login session cookie.
	SessionCookieName = "inkwell_session"

	// DefaultSessionDuration is used when the config does not set one.
	DefaultSessionDuration = 7 * 24 * time.Hour
)

// GenerateSessionToken returns a random opaque token for use as a session ID.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ResolveViewer creates middleware that resolves the current viewer from a
// session cookie or an Authorization bearer token and attaches it to the
// request context. Requests that resolve nothing continue as anonymous;
// downstream gates decide whether that is acceptable.
func ResolveViewer(users store.UserStore, sessions store.SessionStore, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if viewer := resolve(r, users, sessions, verifier); viewer != nil {
				r = r.WithContext(WithViewer(r.Context(), viewer))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve tries the bearer token first, then the session cookie. Any failure
// yields nil (anonymous) rather than an error: identity resolution is
// best-effort by design and the gates own the failure policy.
func resolve(r *http.Request, users store.UserStore, sessions store.SessionStore, verifier TokenVerifier) *Viewer {
	ctx := r.Context()

	if authHeader := r.Header.Get("Authorization"); authHeader != "" && verifier != nil {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return nil
		}
		userID, err := verifier.Verify(token)
		if err != nil {
			return nil
		}
		user, err := users.GetUser(ctx, userID)
		if err != nil {
			return nil
		}
		return ViewerForUser(user)
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := sessions.GetSession(ctx, cookie.Value)
	if err != nil {
		return nil
	}
	user, err := users.GetUser(ctx, session.UserID)
	if err != nil {
		return nil
	}
	return ViewerForUser(user)
}

// RequireViewerAPI creates middleware for JSON endpoints that rejects
// anonymous requests with 401. Must be used after ResolveViewer.
func RequireViewerAPI() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ViewerFromContext(r.Context()) == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

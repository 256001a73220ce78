// ABOUTME: HTML surface wiring: routes, login/logout, CSRF, and page gates
// ABOUTME: Anonymous requests to gated pages redirect to /login with 303

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// CSRFCookieName is the name of the CSRF token cookie.
const CSRFCookieName = "inkwell_csrf"

// Web handles the HTML routes.
type Web struct {
	store      store.Store
	sessionTTL time.Duration
	logger     *slog.Logger
}

// New creates a new Web handler. sessionTTL controls how long login sessions
// live; zero falls back to the default.
func New(st store.Store, sessionTTL time.Duration) *Web {
	if sessionTTL <= 0 {
		sessionTTL = auth.DefaultSessionDuration
	}
	return &Web{
		store:      st,
		sessionTTL: sessionTTL,
		logger:     slog.Default().With("component", "web"),
	}
}

// RegisterRoutes registers all HTML routes on the given mux.
func (web *Web) RegisterRoutes(mux *http.ServeMux) {
	// Public routes
	mux.HandleFunc("GET /{$}", web.handleListPosts)
	mux.HandleFunc("GET /login", web.handleLoginPage)
	mux.HandleFunc("POST /login", web.handleLogin)
	mux.HandleFunc("POST /logout", web.handleLogout)
	mux.HandleFunc("GET /posts/{id}", web.handleShowPost)
	mux.HandleFunc("POST /posts/{id}/comments", web.handleCreateComment)
	mux.HandleFunc("GET /articles", web.handleListArticles)
	mux.HandleFunc("GET /articles/{id}", web.handleShowArticle)

	// Gated routes
	mux.HandleFunc("GET /posts/new", web.requireUser(web.handleNewPost))
	mux.HandleFunc("POST /posts", web.requireUser(web.handleCreatePost))
	mux.HandleFunc("GET /posts/{id}/edit", web.requireUser(web.handleEditPost))
	mux.HandleFunc("POST /posts/{id}", web.requireUser(web.handleUpdatePost))
	mux.HandleFunc("POST /posts/{id}/delete", web.requireUser(web.handleDeletePost))

	web.logger.Info("web routes registered")
}

// requireUser wraps a handler to require a logged-in viewer. Anonymous
// requests are sent to the login page; the API surface returns 401 instead.
func (web *Web) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.ViewerFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// ensureCSRFToken returns the CSRF token for this browser, minting one and
// setting the cookie if none exists yet.
func (web *Web) ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		web.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // fails validation later instead of crashing
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

// validateCSRF checks the csrf_token form value against the cookie.
func (web *Web) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	formToken := r.FormValue("csrf_token")
	return formToken != "" && formToken == cookie.Value
}

// handleLoginPage renders the login form. Logged-in viewers are sent home.
func (web *Web) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.ViewerFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	web.renderLoginPage(w, "", web.ensureCSRFToken(w, r))
}

// handleLogin processes the login form. Every failure re-renders the form
// with the same generic message, and an unknown email still costs a bcrypt
// comparison so timing cannot enumerate accounts.
func (web *Web) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		web.renderLoginPage(w, "Invalid form data", web.ensureCSRFToken(w, r))
		return
	}
	if !web.validateCSRF(r) {
		web.renderLoginPage(w, "Invalid request, please try again", web.ensureCSRFToken(w, r))
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := web.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			web.logger.Error("failed to look up user", "error", err)
		}
		auth.DummyCompare(password)
		web.renderLoginPage(w, "Invalid email or password", web.ensureCSRFToken(w, r))
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		web.renderLoginPage(w, "Invalid email or password", web.ensureCSRFToken(w, r))
		return
	}

	if err := web.createSession(w, r, user.ID); err != nil {
		web.logger.Error("failed to create session", "error", err)
		web.renderLoginPage(w, "An error occurred", web.ensureCSRFToken(w, r))
		return
	}

	web.logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout destroys the session and clears the cookie. An invalid CSRF
// token is logged but does not block logout.
func (web *Web) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil {
		if !web.validateCSRF(r) {
			web.logger.Warn("logout request with invalid CSRF token")
		}
	}

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if err := web.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			web.logger.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// createSession creates a login session for the user and sets the cookie.
func (web *Web) createSession(w http.ResponseWriter, r *http.Request, userID string) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}

	now := time.Now()
	session := &store.Session{
		ID:        token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(web.sessionTTL),
	}
	if err := web.store.CreateSession(r.Context(), session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ABOUTME: JSON API handler wiring, response helpers, and error mapping
// ABOUTME: Routes are registered on a mux already wrapped by auth.ResolveViewer

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// Handler serves the JSON API.
type Handler struct {
	store      store.Store
	verifier   *auth.JWTVerifier
	sessionTTL time.Duration
	logger     *slog.Logger
}

// New creates a new API handler. sessionTTL controls how long login sessions
// and minted bearer tokens live; zero falls back to the default.
func New(st store.Store, verifier *auth.JWTVerifier, sessionTTL time.Duration) *Handler {
	if sessionTTL <= 0 {
		sessionTTL = auth.DefaultSessionDuration
	}
	return &Handler{
		store:      st,
		verifier:   verifier,
		sessionTTL: sessionTTL,
		logger:     slog.Default().With("component", "api"),
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Sessions
	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("DELETE /api/logout", h.handleLogout)
	mux.HandleFunc("GET /api/me", h.requireViewer(h.handleMe))

	// Posts
	mux.HandleFunc("GET /api/posts", h.handleListPosts)
	mux.HandleFunc("GET /api/posts/{id}", h.handleShowPost)
	mux.HandleFunc("POST /api/posts", h.requireViewer(h.handleCreatePost))
	mux.HandleFunc("PUT /api/posts/{id}", h.requireViewer(h.handleUpdatePost))
	mux.HandleFunc("PATCH /api/posts/{id}", h.requireViewer(h.handleUpdatePost))
	mux.HandleFunc("DELETE /api/posts/{id}", h.requireViewer(h.handleDeletePost))

	// Comments
	mux.HandleFunc("GET /api/posts/{id}/comments", h.handleListPostComments)
	mux.HandleFunc("POST /api/posts/{id}/comments", h.requireViewer(h.handleCreatePostComment))
	mux.HandleFunc("GET /api/articles/{id}/comments", h.handleListArticleComments)

	// Articles (legacy, read-only)
	mux.HandleFunc("GET /api/articles", h.handleListArticles)
	mux.HandleFunc("GET /api/articles/{id}", h.handleShowArticle)

	h.logger.Info("api routes registered")
}

// requireViewer rejects anonymous requests with 401 before invoking next.
func (h *Handler) requireViewer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.ViewerFromContext(r.Context()) == nil {
			h.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps store errors onto the API error taxonomy. notFoundMsg
// names the entity ("post not found") without revealing why it is missing.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	var vErr *store.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": vErr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		h.logger.Error("store error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

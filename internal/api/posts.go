// ABOUTME: Post CRUD handlers for the JSON API
// ABOUTME: Applies the visibility scope on list and the policy checks on show/update/destroy

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// PostResponse is the JSON shape of a post.
type PostResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	AuthorID   string `json:"author_id"`
	Visibility string `json:"visibility"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// postPayload is the JSON request body for create and update.
type postPayload struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Visibility string `json:"visibility,omitempty"`
}

func makePostResponse(p *store.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		AuthorID:   p.AuthorID,
		Visibility: string(p.Visibility),
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListPosts handles GET /api/posts. The listing is scoped to the
// viewer and recomputed on every request.
func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	posts, err := h.store.ListPosts(r.Context(), auth.ScopeFor(viewer))
	if err != nil {
		h.writeStoreError(w, err, "posts not found")
		return
	}

	responses := make([]PostResponse, len(posts))
	for i, p := range posts {
		responses[i] = makePostResponse(p)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"posts": responses})
}

// handleShowPost handles GET /api/posts/{id}. A post the viewer may not
// read is reported as not found, exactly like a missing one.
func (h *Handler) handleShowPost(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	post, err := h.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}
	if !auth.CanView(viewer, post) {
		h.writeError(w, http.StatusNotFound, "post not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"post": makePostResponse(post)})
}

// handleCreatePost handles POST /api/posts. The authenticated viewer
// becomes the author; validation failures persist nothing.
func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post := &store.Post{
		ID:         uuid.NewString(),
		Title:      payload.Title,
		Body:       payload.Body,
		AuthorID:   viewer.ID,
		Visibility: store.Visibility(payload.Visibility),
	}
	if err := h.store.CreatePost(r.Context(), post); err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"post": makePostResponse(post)})
}

// handleUpdatePost handles PUT and PATCH /api/posts/{id}. Only the author
// and admins may update; everyone else gets the same 404 a missing post
// would produce. The update is all-or-nothing.
func (h *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	post, err := h.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}
	if !auth.CanModify(viewer, post) {
		h.writeError(w, http.StatusNotFound, "post not found")
		return
	}

	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post.Title = payload.Title
	post.Body = payload.Body
	if payload.Visibility != "" {
		post.Visibility = store.Visibility(payload.Visibility)
	}

	if err := h.store.UpdatePost(r.Context(), post); err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"post": makePostResponse(post)})
}

// handleDeletePost handles DELETE /api/posts/{id}. Comments on the post are
// not cleaned up; only user deletion cascades to comments.
func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	post, err := h.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}
	if !auth.CanModify(viewer, post) {
		h.writeError(w, http.StatusNotFound, "post not found")
		return
	}

	if err := h.store.DeletePost(r.Context(), post.ID); err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{})
}

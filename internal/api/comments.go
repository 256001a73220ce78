// ABOUTME: Comment endpoints for posts and articles
// ABOUTME: Reading comments follows the target's read gate; posting requires a viewer

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// CommentResponse is the JSON shape of a comment. AuthorID is empty for
// anonymous comments and for comments whose author was deleted.
type CommentResponse struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	AuthorID  string `json:"author_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// commentPayload is the JSON request body for creating a comment.
type commentPayload struct {
	Body string `json:"body"`
}

func makeCommentResponse(c *store.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Body:      c.Body,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) writeComments(w http.ResponseWriter, comments []*store.Comment) {
	responses := make([]CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = makeCommentResponse(c)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"comments": responses})
}

// handleListPostComments handles GET /api/posts/{id}/comments. Comments are
// as readable as the post they hang off: a post the viewer cannot see yields
// the same 404 for its comments.
func (h *Handler) handleListPostComments(w http.ResponseWriter, r *http.Request) {
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

	comments, err := h.store.ListComments(r.Context(), store.CommentableRef{
		Kind: store.CommentablePost,
		ID:   post.ID,
	})
	if err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}
	h.writeComments(w, comments)
}

// handleCreatePostComment handles POST /api/posts/{id}/comments. The target
// post must be viewable by the commenter.
func (h *Handler) handleCreatePostComment(w http.ResponseWriter, r *http.Request) {
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

	var payload commentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment := &store.Comment{
		ID:   uuid.NewString(),
		Body: payload.Body,
		Commentable: store.CommentableRef{
			Kind: store.CommentablePost,
			ID:   post.ID,
		},
		AuthorID: viewer.ID,
	}
	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		h.writeStoreError(w, err, "post not found")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"comment": makeCommentResponse(comment)})
}

// handleListArticleComments handles GET /api/articles/{id}/comments.
// Articles have no visibility setting, so the only gate is existence.
func (h *Handler) handleListArticleComments(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.GetArticle(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err, "article not found")
		return
	}

	comments, err := h.store.ListComments(r.Context(), store.CommentableRef{
		Kind: store.CommentableArticle,
		ID:   article.ID,
	})
	if err != nil {
		h.writeStoreError(w, err, "article not found")
		return
	}
	h.writeComments(w, comments)
}

// ABOUTME: Read-only article endpoints
// ABOUTME: Articles predate posts and carry no visibility setting

package api

import (
	"net/http"
	"time"

	"github.com/2389/inkwell/internal/store"
)

// ArticleResponse is the JSON shape of an article.
type ArticleResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

func makeArticleResponse(a *store.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		AuthorID:  a.AuthorID,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListArticles handles GET /api/articles.
func (h *Handler) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.store.ListArticles(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "articles not found")
		return
	}

	responses := make([]ArticleResponse, len(articles))
	for i, a := range articles {
		responses[i] = makeArticleResponse(a)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"articles": responses})
}

// handleShowArticle handles GET /api/articles/{id}.
func (h *Handler) handleShowArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.GetArticle(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err, "article not found")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"article": makeArticleResponse(article)})
}

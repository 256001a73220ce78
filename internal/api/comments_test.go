// ABOUTME: Tests for comment and article API handlers
// ABOUTME: Comment reads follow the target post's visibility gate

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/2389/inkwell/internal/store"
)

func seedArticle(t *testing.T, ts *testServer, id, authorID string) {
	t.Helper()
	article := &store.Article{
		ID:       id,
		Title:    "archived thoughts",
		Body:     "from before posts existed",
		AuthorID: authorID,
	}
	if err := ts.store.CreateArticle(t.Context(), article); err != nil {
		t.Fatalf("seeding article: %v", err)
	}
}

func TestPostComments(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	reader := ts.createUser(t, "reader", "reader@example.com", store.RoleUser)
	seedPosts(t, ts, author.ID)

	t.Run("create requires auth", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts/author-visible/comments",
			map[string]string{"body": "nice"}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("create and list", func(t *testing.T) {
		cookie := ts.sessionFor(t, reader.ID)
		rec := ts.do(t, http.MethodPost, "/api/posts/author-visible/comments",
			map[string]string{"body": "first"}, cookie)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
		rec = ts.do(t, http.MethodPost, "/api/posts/author-visible/comments",
			map[string]string{"body": "second"}, cookie)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}

		rec = ts.do(t, http.MethodGet, "/api/posts/author-visible/comments", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Comments []CommentResponse `json:"comments"`
		}
		decode(t, rec, &resp)
		if len(resp.Comments) != 2 {
			t.Fatalf("got %d comments, want 2", len(resp.Comments))
		}
		if resp.Comments[0].AuthorID != reader.ID {
			t.Errorf("author_id = %q, want %q", resp.Comments[0].AuthorID, reader.ID)
		}
	})

	t.Run("hidden post gates its comments", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/posts/author-hidden/comments", nil,
			ts.sessionFor(t, reader.ID))
		if rec.Code != http.StatusNotFound {
			t.Errorf("list status = %d, want 404", rec.Code)
		}
		rec = ts.do(t, http.MethodPost, "/api/posts/author-hidden/comments",
			map[string]string{"body": "sneaky"}, ts.sessionFor(t, reader.ID))
		if rec.Code != http.StatusNotFound {
			t.Errorf("create status = %d, want 404", rec.Code)
		}
	})

	t.Run("empty body rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts/author-visible/comments",
			map[string]string{"body": ""}, ts.sessionFor(t, reader.ID))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
		}
	})
}

func TestCommentsSurviveTheirPost(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	seedPosts(t, ts, author.ID)
	cookie := ts.sessionFor(t, author.ID)

	rec := ts.do(t, http.MethodPost, "/api/posts/author-visible/comments",
		map[string]string{"body": "soon orphaned"}, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/posts/author-visible", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete post status = %d", rec.Code)
	}

	// The post is gone, so its comments are unreachable through the API, but
	// the rows themselves were not cascaded.
	rec = ts.do(t, http.MethodGet, "/api/posts/author-visible/comments", nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("comments of deleted post: status %d, want 404", rec.Code)
	}
	comments, err := ts.store.ListComments(t.Context(), store.CommentableRef{
		Kind: store.CommentablePost,
		ID:   "author-visible",
	})
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("got %d orphaned comments, want 1", len(comments))
	}
}

func TestArticles(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	seedArticle(t, ts, "article-1", author.ID)

	rec := ts.do(t, http.MethodGet, "/api/articles", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var listResp struct {
		Articles []ArticleResponse `json:"articles"`
	}
	decode(t, rec, &listResp)
	if len(listResp.Articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(listResp.Articles))
	}

	rec = ts.do(t, http.MethodGet, "/api/articles/article-1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("show status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/articles/no-such-article", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing article: status %d, want 404", rec.Code)
	}
}

func TestArticleComments(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	seedArticle(t, ts, "article-1", author.ID)

	comment := &store.Comment{
		ID:   "c1",
		Body: "still relevant",
		Commentable: store.CommentableRef{
			Kind: store.CommentableArticle,
			ID:   "article-1",
		},
		CreatedAt: time.Now(),
	}
	if err := ts.store.CreateComment(t.Context(), comment); err != nil {
		t.Fatalf("seeding comment: %v", err)
	}

	rec := ts.do(t, http.MethodGet, "/api/articles/article-1/comments", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Comments []CommentResponse `json:"comments"`
	}
	decode(t, rec, &resp)
	if len(resp.Comments) != 1 || resp.Comments[0].Body != "still relevant" {
		t.Errorf("comments = %+v, want the seeded article comment", resp.Comments)
	}
}

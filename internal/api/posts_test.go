// ABOUTME: Tests for post API handlers
// ABOUTME: Covers visibility scoping, the 404-on-permission-failure rule, and write gates

package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/2389/inkwell/internal/store"
)

// seedPosts creates one post per visibility for the author, oldest first.
func seedPosts(t *testing.T, ts *testServer, authorID string) {
	t.Helper()

	base := time.Now().Add(-time.Hour)
	for i, v := range []store.Visibility{
		store.VisibilityVisible,
		store.VisibilityHidden,
		store.VisibilityLimited,
	} {
		post := &store.Post{
			ID:         authorID + "-" + string(v),
			Title:      string(v) + " post",
			Body:       "body",
			AuthorID:   authorID,
			Visibility: v,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := ts.store.CreatePost(t.Context(), post); err != nil {
			t.Fatalf("seeding post: %v", err)
		}
	}
}

type postListResponse struct {
	Posts []PostResponse `json:"posts"`
}

func listedIDs(t *testing.T, ts *testServer, cookie *http.Cookie) []string {
	t.Helper()

	rec := ts.do(t, http.MethodGet, "/api/posts", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list posts: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp postListResponse
	decode(t, rec, &resp)
	ids := make([]string, len(resp.Posts))
	for i, p := range resp.Posts {
		ids[i] = p.ID
	}
	return ids
}

func TestListPosts_Scoping(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	reader := ts.createUser(t, "reader", "reader@example.com", store.RoleUser)
	admin := ts.createUser(t, "admin", "admin@example.com", store.RoleAdmin)
	seedPosts(t, ts, author.ID)

	contains := func(ids []string, id string) bool {
		for _, got := range ids {
			if got == id {
				return true
			}
		}
		return false
	}

	// Anonymous visitors see only the public post.
	ids := listedIDs(t, ts, nil)
	if len(ids) != 1 || ids[0] != "author-visible" {
		t.Errorf("anonymous listing = %v, want only author-visible", ids)
	}

	// Another authenticated user sees visible and limited, not hidden.
	ids = listedIDs(t, ts, ts.sessionFor(t, reader.ID))
	if len(ids) != 2 || contains(ids, "author-hidden") {
		t.Errorf("reader listing = %v, want visible and limited only", ids)
	}

	// The author also sees their own hidden post.
	ids = listedIDs(t, ts, ts.sessionFor(t, author.ID))
	if len(ids) != 3 {
		t.Errorf("author listing = %v, want all three", ids)
	}

	// Admins see everything.
	ids = listedIDs(t, ts, ts.sessionFor(t, admin.ID))
	if len(ids) != 3 {
		t.Errorf("admin listing = %v, want all three", ids)
	}
}

func TestListPosts_NewestFirst(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"oldest", "middle", "newest"} {
		post := &store.Post{
			ID:        id,
			Title:     id,
			Body:      "body",
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := ts.store.CreatePost(t.Context(), post); err != nil {
			t.Fatalf("seeding post: %v", err)
		}
	}

	ids := listedIDs(t, ts, nil)
	want := []string{"newest", "middle", "oldest"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("listing order = %v, want %v", ids, want)
		}
	}
}

func TestShowPost_PermissionFailureIs404(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	reader := ts.createUser(t, "reader", "reader@example.com", store.RoleUser)
	admin := ts.createUser(t, "admin", "admin@example.com", store.RoleAdmin)
	seedPosts(t, ts, author.ID)

	tests := []struct {
		name       string
		path       string
		cookie     *http.Cookie
		wantStatus int
	}{
		{"anonymous reads visible", "/api/posts/author-visible", nil, http.StatusOK},
		{"anonymous denied hidden", "/api/posts/author-hidden", nil, http.StatusNotFound},
		{"reader denied hidden", "/api/posts/author-hidden", ts.sessionFor(t, reader.ID), http.StatusNotFound},
		{"reader denied limited", "/api/posts/author-limited", ts.sessionFor(t, reader.ID), http.StatusNotFound},
		{"author reads own hidden", "/api/posts/author-hidden", ts.sessionFor(t, author.ID), http.StatusOK},
		{"admin reads hidden", "/api/posts/author-hidden", ts.sessionFor(t, admin.ID), http.StatusOK},
		{"missing post", "/api/posts/no-such-post", ts.sessionFor(t, admin.ID), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.path, nil, tt.cookie)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			// Denied and missing posts produce identical bodies.
			if tt.wantStatus == http.StatusNotFound && !strings.Contains(rec.Body.String(), "post not found") {
				t.Errorf("404 body = %s, want generic not-found message", rec.Body.String())
			}
		})
	}
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	cookie := ts.sessionFor(t, author.ID)

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{"title": "t", "body": "b"}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("defaults to visible and sets author", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{
			"title": "Hello",
			"body":  "First post",
		}, cookie)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Post PostResponse `json:"post"`
		}
		decode(t, rec, &resp)
		if resp.Post.AuthorID != author.ID {
			t.Errorf("author_id = %q, want %q", resp.Post.AuthorID, author.ID)
		}
		if resp.Post.Visibility != "visible" {
			t.Errorf("visibility = %q, want visible", resp.Post.Visibility)
		}
	})

	t.Run("validation failure persists nothing", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/posts", map[string]string{
			"title": strings.Repeat("x", store.MaxTitleLength+1),
			"body":  "b",
		}, cookie)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
		}
		var resp struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		decode(t, rec, &resp)
		if _, ok := resp.Fields["title"]; !ok {
			t.Errorf("fields = %v, want title violation", resp.Fields)
		}
	})
}

func TestUpdatePost_NonAuthorGets404AndRowUntouched(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	intruder := ts.createUser(t, "intruder", "intruder@example.com", store.RoleUser)
	seedPosts(t, ts, author.ID)

	rec := ts.do(t, http.MethodPatch, "/api/posts/author-visible", map[string]string{
		"title": "defaced",
		"body":  "defaced",
	}, ts.sessionFor(t, intruder.ID))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	post, err := ts.store.GetPost(t.Context(), "author-visible")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Title != "visible post" {
		t.Errorf("title = %q, post was modified by a non-author", post.Title)
	}
}

func TestUpdatePost_AuthorAndAdmin(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	admin := ts.createUser(t, "admin", "admin@example.com", store.RoleAdmin)
	seedPosts(t, ts, author.ID)

	rec := ts.do(t, http.MethodPut, "/api/posts/author-visible", map[string]string{
		"title":      "edited by author",
		"body":       "new body",
		"visibility": "hidden",
	}, ts.sessionFor(t, author.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("author update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPut, "/api/posts/author-visible", map[string]string{
		"title": "edited by admin",
		"body":  "new body",
	}, ts.sessionFor(t, admin.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update status = %d, body %s", rec.Code, rec.Body.String())
	}

	post, err := ts.store.GetPost(t.Context(), "author-visible")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Title != "edited by admin" {
		t.Errorf("title = %q, want admin's edit", post.Title)
	}
}

func TestUpdatePost_ValidationFailureLeavesRowUntouched(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	seedPosts(t, ts, author.ID)

	rec := ts.do(t, http.MethodPatch, "/api/posts/author-visible", map[string]string{
		"title": "good title",
		"body":  strings.Repeat("x", store.MaxBodyLength+1),
	}, ts.sessionFor(t, author.ID))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	post, err := ts.store.GetPost(t.Context(), "author-visible")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Title != "visible post" {
		t.Errorf("title = %q, partial update applied", post.Title)
	}
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	author := ts.createUser(t, "author", "author@example.com", store.RoleUser)
	intruder := ts.createUser(t, "intruder", "intruder@example.com", store.RoleUser)
	seedPosts(t, ts, author.ID)

	rec := ts.do(t, http.MethodDelete, "/api/posts/author-visible", nil, ts.sessionFor(t, intruder.ID))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("intruder delete status = %d, want 404", rec.Code)
	}
	if _, err := ts.store.GetPost(t.Context(), "author-visible"); err != nil {
		t.Fatalf("post deleted by non-author: %v", err)
	}

	rec = ts.do(t, http.MethodDelete, "/api/posts/author-visible", nil, ts.sessionFor(t, author.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("author delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if _, err := ts.store.GetPost(t.Context(), "author-visible"); err == nil {
		t.Error("post still present after author delete")
	}
}

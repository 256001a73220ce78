// ABOUTME: Post pages: scoped listing, show with comments, and CRUD forms
// ABOUTME: Read denials render the 404 page; write denials redirect home

package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// handleListPosts renders the front page: every post the viewer may see,
// newest first.
func (web *Web) handleListPosts(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	posts, err := web.store.ListPosts(r.Context(), auth.ScopeFor(viewer))
	if err != nil {
		web.logger.Error("failed to list posts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	items := make([]postItem, len(posts))
	for i, p := range posts {
		items[i] = postItem{
			ID:         p.ID,
			Title:      p.Title,
			Visibility: p.Visibility,
			Mine:       viewer != nil && viewer.ID == p.AuthorID,
		}
	}

	web.render(w, "posts.html", postsPageData{
		Title:     "Posts",
		Viewer:    viewer,
		Posts:     items,
		CSRFToken: web.ensureCSRFToken(w, r),
	})
}

// handleShowPost renders a single post with its comments and a comment form.
func (web *Web) handleShowPost(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	post, err := web.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil || !auth.CanView(viewer, post) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			web.logger.Error("failed to load post", "error", err)
		}
		web.renderNotFound(w, viewer)
		return
	}

	comments, err := web.store.ListComments(r.Context(), store.CommentableRef{
		Kind: store.CommentablePost,
		ID:   post.ID,
	})
	if err != nil {
		web.logger.Error("failed to list comments", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	web.render(w, "post.html", postDetailData{
		Title:     post.Title,
		Viewer:    viewer,
		Post:      post,
		BodyHTML:  renderMarkdown(post.Body),
		CanModify: auth.CanModify(viewer, post),
		Comments:  makeCommentItems(comments),
		CSRFToken: web.ensureCSRFToken(w, r),
	})
}

// handleNewPost renders the empty post form.
func (web *Web) handleNewPost(w http.ResponseWriter, r *http.Request) {
	web.render(w, "post_form.html", postFormData{
		Title:     "New Post",
		Viewer:    auth.ViewerFromContext(r.Context()),
		Post:      &store.Post{Visibility: store.VisibilityVisible},
		CSRFToken: web.ensureCSRFToken(w, r),
	})
}

// handleCreatePost processes the new-post form. Validation failures
// re-render the form with the submitted values and inline errors.
func (web *Web) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	if err := r.ParseForm(); err != nil || !web.validateCSRF(r) {
		http.Redirect(w, r, "/posts/new", http.StatusSeeOther)
		return
	}

	post := &store.Post{
		ID:         uuid.NewString(),
		Title:      r.FormValue("title"),
		Body:       r.FormValue("body"),
		AuthorID:   viewer.ID,
		Visibility: store.Visibility(r.FormValue("visibility")),
	}

	if err := web.store.CreatePost(r.Context(), post); err != nil {
		var vErr *store.ValidationError
		if errors.As(err, &vErr) {
			web.renderStatus(w, http.StatusUnprocessableEntity, "post_form.html", postFormData{
				Title:     "New Post",
				Viewer:    viewer,
				Post:      post,
				Errors:    vErr.Fields,
				CSRFToken: web.ensureCSRFToken(w, r),
			})
			return
		}
		web.logger.Error("failed to create post", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
}

// modifiablePost loads a post and applies the write gate. A nil return means
// the response has already been written: missing posts get the 404 page,
// posts the viewer may not modify bounce back to the front page.
func (web *Web) modifiablePost(w http.ResponseWriter, r *http.Request) *store.Post {
	viewer := auth.ViewerFromContext(r.Context())

	post, err := web.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			web.logger.Error("failed to load post", "error", err)
		}
		web.renderNotFound(w, viewer)
		return nil
	}
	if !auth.CanModify(viewer, post) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}
	return post
}

// handleEditPost renders the edit form for a post the viewer may modify.
func (web *Web) handleEditPost(w http.ResponseWriter, r *http.Request) {
	post := web.modifiablePost(w, r)
	if post == nil {
		return
	}

	web.render(w, "post_form.html", postFormData{
		Title:     "Edit Post",
		Viewer:    auth.ViewerFromContext(r.Context()),
		Post:      post,
		Editing:   true,
		CSRFToken: web.ensureCSRFToken(w, r),
	})
}

// handleUpdatePost processes the edit form. The update is all-or-nothing:
// a validation failure leaves the stored post untouched.
func (web *Web) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	post := web.modifiablePost(w, r)
	if post == nil {
		return
	}

	if err := r.ParseForm(); err != nil || !web.validateCSRF(r) {
		http.Redirect(w, r, "/posts/"+post.ID+"/edit", http.StatusSeeOther)
		return
	}

	post.Title = r.FormValue("title")
	post.Body = r.FormValue("body")
	if v := r.FormValue("visibility"); v != "" {
		post.Visibility = store.Visibility(v)
	}

	if err := web.store.UpdatePost(r.Context(), post); err != nil {
		var vErr *store.ValidationError
		if errors.As(err, &vErr) {
			web.renderStatus(w, http.StatusUnprocessableEntity, "post_form.html", postFormData{
				Title:     "Edit Post",
				Viewer:    auth.ViewerFromContext(r.Context()),
				Post:      post,
				Editing:   true,
				Errors:    vErr.Fields,
				CSRFToken: web.ensureCSRFToken(w, r),
			})
			return
		}
		web.logger.Error("failed to update post", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
}

// handleDeletePost processes the delete form. Comments on the post survive.
func (web *Web) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	post := web.modifiablePost(w, r)
	if post == nil {
		return
	}

	if err := r.ParseForm(); err != nil || !web.validateCSRF(r) {
		http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
		return
	}

	if err := web.store.DeletePost(r.Context(), post.ID); err != nil {
		web.logger.Error("failed to delete post", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCreateComment processes the comment form on a post page. Anyone who
// can see the post may comment; anonymous comments carry no author.
func (web *Web) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	post, err := web.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil || !auth.CanView(viewer, post) {
		web.renderNotFound(w, viewer)
		return
	}

	if err := r.ParseForm(); err != nil || !web.validateCSRF(r) {
		http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
		return
	}

	comment := &store.Comment{
		ID:   uuid.NewString(),
		Body: r.FormValue("body"),
		Commentable: store.CommentableRef{
			Kind: store.CommentablePost,
			ID:   post.ID,
		},
	}
	if viewer != nil {
		comment.AuthorID = viewer.ID
	}

	if err := web.store.CreateComment(r.Context(), comment); err != nil {
		var vErr *store.ValidationError
		if !errors.As(err, &vErr) {
			web.logger.Error("failed to create comment", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		// Invalid comments are dropped; the page re-renders without them.
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusSeeOther)
}

// handleListArticles renders the article archive.
func (web *Web) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := web.store.ListArticles(r.Context())
	if err != nil {
		web.logger.Error("failed to list articles", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	web.render(w, "articles.html", articlesPageData{
		Title:     "Articles",
		Viewer:    auth.ViewerFromContext(r.Context()),
		Articles:  articles,
		CSRFToken: web.ensureCSRFToken(w, r),
	})
}

// handleShowArticle renders a single archived article with its comments.
func (web *Web) handleShowArticle(w http.ResponseWriter, r *http.Request) {
	viewer := auth.ViewerFromContext(r.Context())

	article, err := web.store.GetArticle(r.Context(), r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			web.logger.Error("failed to load article", "error", err)
		}
		web.renderNotFound(w, viewer)
		return
	}

	comments, err := web.store.ListComments(r.Context(), store.CommentableRef{
		Kind: store.CommentableArticle,
		ID:   article.ID,
	})
	if err != nil {
		web.logger.Error("failed to list comments", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	web.render(w, "article.html", articleDetailData{
		Title:     article.Title,
		Viewer:    viewer,
		Article:   article,
		BodyHTML:  renderMarkdown(article.Body),
		Comments:  makeCommentItems(comments),
		CSRFToken: web.ensureCSRFToken(w, r),
	})
}

// ABOUTME: Template rendering for the HTML surface
// ABOUTME: Post and article bodies are Markdown, rendered with goldmark

package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/2389/inkwell/internal/auth"
	"github.com/2389/inkwell/internal/store"
)

// markdown converts Markdown bodies to HTML. Raw HTML in the source is
// escaped by goldmark's default renderer, so author input stays inert.
var markdown = goldmark.New()

// renderMarkdown renders a Markdown body to HTML for embedding in a page.
func renderMarkdown(body string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		// Fall back to the raw text, escaped by the template engine.
		return template.HTML(template.HTMLEscapeString(body))
	}
	return template.HTML(buf.String())
}

// Template data types
type loginData struct {
	Title     string
	Viewer    *auth.Viewer
	Error     string
	CSRFToken string
}

type postItem struct {
	ID         string
	Title      string
	Visibility store.Visibility
	Mine       bool
}

type postsPageData struct {
	Title     string
	Viewer    *auth.Viewer
	Posts     []postItem
	CSRFToken string
}

type commentItem struct {
	Body      string
	Anonymous bool
}

type postDetailData struct {
	Title     string
	Viewer    *auth.Viewer
	Post      *store.Post
	BodyHTML  template.HTML
	CanModify bool
	Comments  []commentItem
	CSRFToken string
}

type postFormData struct {
	Title     string
	Viewer    *auth.Viewer
	Post      *store.Post
	Editing   bool
	Errors    map[string]string
	CSRFToken string
}

type articlesPageData struct {
	Title     string
	Viewer    *auth.Viewer
	Articles  []*store.Article
	CSRFToken string
}

type articleDetailData struct {
	Title     string
	Viewer    *auth.Viewer
	Article   *store.Article
	BodyHTML  template.HTML
	Comments  []commentItem
	CSRFToken string
}

func (web *Web) render(w http.ResponseWriter, page string, data any) {
	web.renderStatus(w, http.StatusOK, page, data)
}

func (web *Web) renderStatus(w http.ResponseWriter, status int, page string, data any) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		web.logger.Error("failed to render page", "page", page, "error", err)
	}
}

func (web *Web) renderLoginPage(w http.ResponseWriter, errorMsg, csrfToken string) {
	web.render(w, "login.html", loginData{
		Title:     "Login",
		Error:     errorMsg,
		CSRFToken: csrfToken,
	})
}

// renderNotFound renders the shared 404 page. Read denials use it
// too, so a denied page and a missing one look identical.
func (web *Web) renderNotFound(w http.ResponseWriter, viewer *auth.Viewer) {
	data := struct {
		Title     string
		Viewer    *auth.Viewer
		CSRFToken string
	}{Title: "Not Found", Viewer: viewer}
	web.renderStatus(w, http.StatusNotFound, "not_found.html", data)
}

func makeCommentItems(comments []*store.Comment) []commentItem {
	items := make([]commentItem, len(comments))
	for i, c := range comments {
		items[i] = commentItem{Body: c.Body, Anonymous: c.AuthorID == ""}
	}
	return items
}

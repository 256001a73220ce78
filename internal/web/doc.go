// Package web implements the HTML surface of inkwell.
//
// Pages are rendered server-side from templates embedded in the binary.
// Post and article bodies are authored in Markdown and rendered to HTML at
// request time.
//
// The surface shares identity resolution and the permission policy with the
// JSON API, but handles failures the browser way: anonymous requests to
// gated pages redirect to /login with 303, form validation failures
// re-render the form with inline errors, and permission failures are
// indistinguishable from missing pages. All state-changing forms carry a
// CSRF token validated against a cookie.
package web

// Package api implements the JSON surface of inkwell under /api.
//
// # Surfaces and gates
//
// All routes assume the auth.ResolveViewer middleware already ran, so the
// current viewer (or anonymity) is available from the request context.
// Endpoints that require authentication respond 401 with a JSON error for
// anonymous requests; they never redirect (the HTML surface owns redirects).
//
// # Error responses
//
//	404 {"error":"post not found"}                       missing OR permission denied
//	422 {"error":"validation failed","fields":{...}}     constraint violations
//	422 {"error":"invalid email or password"}            bad login, generic on purpose
//	401 {"error":"authentication required"}              anonymous on a gated route
//	500 {"error":"internal error"}                       anything unexpected
//
// Permission failures on show/update/destroy deliberately use 404 rather
// than 403 so responses cannot confirm that a hidden or foreign post exists.
package api

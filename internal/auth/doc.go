// Package auth provides authentication and authorization for inkwell.
//
// # Identity resolution
//
// Every request passes through the ResolveViewer middleware, which attaches a
// *Viewer to the request context when it can resolve one:
//
//   - Session cookie: an opaque token minted at login, looked up in the
//     sessions table and mapped to a user row.
//   - Bearer token: an HS256-signed JWT whose "sub" claim is a user ID,
//     intended for API clients and the admin CLI.
//
// Resolution failures never abort the request; they leave it anonymous.
// Surface-specific gates decide what anonymous means: the JSON API responds
// 401, the HTML surface redirects to the login page.
//
// The viewer travels via WithViewer/ViewerFromContext, never through globals.
//
// # Authorization policy
//
// All read/write permission decisions live here, not in the handlers:
//
//	CanView(viewer, post)   // visible post, or admin, or the post's author
//	CanModify(viewer, post) // admin, or the post's author
//	ScopeFor(viewer)        // the store.PostScope for list queries
//
// Handlers that deny access based on these checks respond "not found", never
// "forbidden", so a denied request cannot confirm that a hidden or foreign
// resource exists.
//
// # Passwords and tokens
//
// Passwords are stored as bcrypt hashes. Login compares against a fixed dummy
// hash when the email is unknown so response timing does not reveal which
// emails are registered. API tokens are minted and verified by JWTVerifier.
package auth

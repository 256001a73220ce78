// Package store provides persistence for inkwell.
//
// # Entities
//
// The store persists five entity kinds:
//
//   - User: an account with a unique email, a bcrypt password hash, and a
//     role ("user" or "admin").
//   - Post: authored content with a visibility setting controlling who may
//     read and list it.
//   - Comment: a short note attached to a commentable entity (a post or an
//     article), optionally authored.
//   - Article: a legacy authored entity that can still receive comments.
//   - Session: an opaque login token mapping back to a user, with expiry.
//
// # Deletion semantics
//
// Deleting a user cascades to that user's posts, comments, articles, and
// sessions (enforced with foreign keys). Deleting a post does NOT delete the
// comments attached to it: comments reference their target through a
// polymorphic (kind, id) pair that carries no foreign key. Callers that want
// tidy comment lists must prune them explicitly.
//
// # Errors
//
// Lookups return ErrNotFound (or an entity-specific sentinel wrapping the
// same idea) when no row matches. Writes that violate validation rules return
// a *ValidationError carrying per-field messages; nothing is persisted in
// that case.
//
// # Implementations
//
// SQLiteStore is the production implementation, backed by modernc.org/sqlite
// with WAL mode and foreign keys enabled. MockStore is an in-memory
// implementation for handler tests.
package store

// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides user/post/comment persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas go in the DSN so the driver applies them to every pooled
	// connection. A plain PRAGMA exec would only configure the connection
	// it happens to run on, and foreign_keys is what enforces the
	// user-delete cascade.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
//
// Note: comments carry no foreign key to posts or articles. The commentable
// reference is polymorphic, so deleting a post leaves its comments behind.
// Only deleting a user cascades (to their posts, articles, comments, and
// sessions).
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    TEXT NOT NULL,

			CHECK (role IN ('user', 'admin'))
		);

		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);

		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			visibility TEXT NOT NULL DEFAULT 'visible',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,

			CHECK (visibility IN ('visible', 'hidden', 'limited'))
		);

		CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
		CREATE INDEX IF NOT EXISTS idx_posts_visibility ON posts(visibility);
		CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC);

		CREATE TABLE IF NOT EXISTS articles (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_articles_author ON articles(author_id);

		CREATE TABLE IF NOT EXISTS comments (
			id               TEXT PRIMARY KEY,
			body             TEXT NOT NULL,
			commentable_kind TEXT NOT NULL,
			commentable_id   TEXT NOT NULL,
			author_id        TEXT REFERENCES users(id) ON DELETE CASCADE,
			created_at       TEXT NOT NULL,

			CHECK (commentable_kind IN ('post', 'article'))
		);

		CREATE INDEX IF NOT EXISTS idx_comments_commentable
			ON comments(commentable_kind, commentable_id);
		CREATE INDEX IF NOT EXISTS idx_comments_author ON comments(author_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// formatTime converts a time to the canonical storage format.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime converts a stored timestamp back into a time.Time.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// ABOUTME: Post store methods including the viewer-scoped listing query
// ABOUTME: Validation runs before every write so failed writes persist nothing

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreatePost validates and persists a new post. Visibility defaults to
// visible when unset.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *Post) error {
	if post.Visibility == "" {
		post.Visibility = VisibilityVisible
	}
	if err := post.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	query := `
		INSERT INTO posts (id, title, body, author_id, visibility, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Body,
		post.AuthorID,
		post.Visibility,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	s.logger.Info("created post", "id", post.ID, "author_id", post.AuthorID, "visibility", post.Visibility)
	return nil
}

// GetPost retrieves a post by ID. Visibility is not checked here; callers
// gate reads through the authorization policy.
func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	query := `
		SELECT id, title, body, author_id, visibility, created_at, updated_at
		FROM posts
		WHERE id = ?
	`
	return s.scanPost(s.db.QueryRowContext(ctx, query, id))
}

// ListPosts returns the posts the scope permits, newest created first.
// The filter runs in SQL on every call; results are never cached because
// both the viewer and the underlying rows change between requests.
func (s *SQLiteStore) ListPosts(ctx context.Context, scope PostScope) ([]*Post, error) {
	query := `
		SELECT id, title, body, author_id, visibility, created_at, updated_at
		FROM posts
	`
	var args []any

	switch {
	case scope.Admin:
		// No filter: admins list everything.
	case scope.ViewerID != "":
		query += `
		WHERE visibility IN (?, ?) OR (visibility = ? AND author_id = ?)
		`
		args = append(args, VisibilityVisible, VisibilityLimited, VisibilityHidden, scope.ViewerID)
	default:
		query += `
		WHERE visibility = ?
		`
		args = append(args, VisibilityVisible)
	}

	query += `
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []*Post
	for rows.Next() {
		post, err := s.scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

// UpdatePost validates and persists changes to a post's title, body, and
// visibility. The update is all-or-nothing: a validation failure leaves the
// stored row untouched.
func (s *SQLiteStore) UpdatePost(ctx context.Context, post *Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	post.UpdatedAt = time.Now()

	query := `
		UPDATE posts
		SET title = ?, body = ?, visibility = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		post.Title,
		post.Body,
		post.Visibility,
		formatTime(post.UpdatedAt),
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("updated post", "id", post.ID)
	return nil
}

// DeletePost deletes a post. Comments attached to the post are left in
// place: the commentable reference carries no foreign key, so there is no
// cascade (only deleting a user cascades).
func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted post", "id", id)
	return nil
}

func (s *SQLiteStore) scanPost(row *sql.Row) (*Post, error) {
	var post Post
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.AuthorID,
		&post.Visibility,
		&createdAtStr,
		&updatedAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post: %w", err)
	}

	if post.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, err
	}

	return &post, nil
}

func (s *SQLiteStore) scanPostRow(rows *sql.Rows) (*Post, error) {
	var post Post
	var createdAtStr, updatedAtStr string

	if err := rows.Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.AuthorID,
		&post.Visibility,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	var err error
	if post.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, err
	}

	return &post, nil
}

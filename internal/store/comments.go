// ABOUTME: Comment store methods for the polymorphic commentable reference
// ABOUTME: Comments survive post deletion; only user deletion cascades to them

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateComment validates and persists a new comment. AuthorID may be empty
// for anonymous comments.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment *Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO comments (id, body, commentable_kind, commentable_id, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var authorID sql.NullString
	if comment.AuthorID != "" {
		authorID = sql.NullString{String: comment.AuthorID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.Body,
		comment.Commentable.Kind,
		comment.Commentable.ID,
		authorID,
		formatTime(comment.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}

	s.logger.Info("created comment", "id", comment.ID,
		"commentable_kind", comment.Commentable.Kind, "commentable_id", comment.Commentable.ID)
	return nil
}

// GetComment retrieves a comment by ID.
func (s *SQLiteStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	query := `
		SELECT id, body, commentable_kind, commentable_id, author_id, created_at
		FROM comments
		WHERE id = ?
	`

	var comment Comment
	var authorID sql.NullString
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.Body,
		&comment.Commentable.Kind,
		&comment.Commentable.ID,
		&authorID,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying comment: %w", err)
	}

	comment.AuthorID = authorID.String
	comment.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListComments returns the comments attached to the given target, newest first.
func (s *SQLiteStore) ListComments(ctx context.Context, ref CommentableRef) ([]*Comment, error) {
	query := `
		SELECT id, body, commentable_kind, commentable_id, author_id, created_at
		FROM comments
		WHERE commentable_kind = ? AND commentable_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []*Comment
	for rows.Next() {
		var comment Comment
		var authorID sql.NullString
		var createdAtStr string

		if err := rows.Scan(
			&comment.ID,
			&comment.Body,
			&comment.Commentable.Kind,
			&comment.Commentable.ID,
			&authorID,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}

		comment.AuthorID = authorID.String
		comment.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

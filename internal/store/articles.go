// ABOUTME: Article store methods for the legacy authored entity
// ABOUTME: Articles have no visibility setting and a read-mostly surface

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateArticle persists a new article.
func (s *SQLiteStore) CreateArticle(ctx context.Context, article *Article) error {
	if article.Title == "" || article.Body == "" || article.AuthorID == "" {
		fields := map[string]string{}
		if article.Title == "" {
			fields["title"] = "is required"
		}
		if article.Body == "" {
			fields["body"] = "is required"
		}
		if article.AuthorID == "" {
			fields["author"] = "is required"
		}
		return &ValidationError{Fields: fields}
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO articles (id, title, body, author_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Body,
		article.AuthorID,
		formatTime(article.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}

	s.logger.Info("created article", "id", article.ID, "author_id", article.AuthorID)
	return nil
}

// GetArticle retrieves an article by ID.
func (s *SQLiteStore) GetArticle(ctx context.Context, id string) (*Article, error) {
	query := `
		SELECT id, title, body, author_id, created_at
		FROM articles
		WHERE id = ?
	`

	var article Article
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Body,
		&article.AuthorID,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying article: %w", err)
	}

	article.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}

	return &article, nil
}

// ListArticles returns all articles, newest first.
func (s *SQLiteStore) ListArticles(ctx context.Context) ([]*Article, error) {
	query := `
		SELECT id, title, body, author_id, created_at
		FROM articles
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []*Article
	for rows.Next() {
		var article Article
		var createdAtStr string

		if err := rows.Scan(&article.ID, &article.Title, &article.Body, &article.AuthorID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}

		article.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, err
		}
		articles = append(articles, &article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}

	return articles, nil
}

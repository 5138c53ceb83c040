package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bookmark is a saved query expression
type Bookmark struct {
	ID         int64
	Expression string
	CreatedAt  time.Time
}

// SaveBookmark stores a query expression. It returns false when the
// expression was already saved.
func (s *SQLiteStore) SaveBookmark(ctx context.Context, expression string) (bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false, fmt.Errorf("expression cannot be empty")
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM query_bookmarks WHERE expression = ?)", expression).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	if exists {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_bookmarks (expression, created_at)
		VALUES (?, ?)
	`, expression, time.Now().UTC().Format(timestampLayout))
	if err != nil {
		return false, fmt.Errorf("failed to save bookmark: %w", err)
	}
	return true, nil
}

// DeleteBookmark removes a bookmark by id
func (s *SQLiteStore) DeleteBookmark(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM query_bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return nil
}

// Bookmark returns one bookmark by id
func (s *SQLiteStore) Bookmark(ctx context.Context, id int64) (Bookmark, error) {
	var b Bookmark
	var createdAt string
	err := s.db.QueryRowContext(ctx, "SELECT id, expression, created_at FROM query_bookmarks WHERE id = ?", id).
		Scan(&b.ID, &b.Expression, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bookmark{}, fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
		}
		return Bookmark{}, fmt.Errorf("failed to load bookmark %d: %w", id, err)
	}
	b.CreatedAt = parseTimestamp(createdAt)
	return b, nil
}

// Bookmarks returns the bookmarks containing search (case-insensitive),
// newest first. An empty search returns all of them.
func (s *SQLiteStore) Bookmarks(ctx context.Context, search string) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expression, created_at
		FROM query_bookmarks
		WHERE expression LIKE ?
		ORDER BY id DESC
	`, "%"+strings.TrimSpace(search)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Expression, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.CreatedAt = parseTimestamp(createdAt)
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}

package newsletter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classkit/newsletter-studio/internal/section"
)

// Store provides database operations for newsletters and templates.
type Store struct {
	db      *sql.DB
	factory *section.Factory
}

// NewStore creates a new newsletter store. The factory supplies default
// sections when a stored record decodes to empty content.
func NewStore(db *sql.DB, factory *section.Factory) *Store {
	return &Store{db: db, factory: factory}
}

// CreateNewsletter persists a new newsletter. The store assigns the id;
// it is immutable thereafter.
func (s *Store) CreateNewsletter(ctx context.Context, n *Newsletter) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	if n.Status == "" {
		n.Status = StatusDraft
	}

	content, err := EncodeContent(n.Content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `INSERT INTO newsletters (id, user_id, title, content, settings, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, content,
		n.Settings, n.Status, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create newsletter: %w", err)
	}
	return nil
}

// GetNewsletter retrieves a newsletter by id, scoped to its owner.
func (s *Store) GetNewsletter(ctx context.Context, userID string, id uuid.UUID) (*Newsletter, error) {
	query := `SELECT id, user_id, title, content, settings, status, created_at, updated_at
		FROM newsletters WHERE id = $1 AND user_id = $2`

	n := &Newsletter{}
	var content []byte
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Title, &content, &n.Settings, &n.Status,
		&n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get newsletter: %w", err)
	}

	n.Content = DecodeContent(content, s.factory)
	return n, nil
}

// ListNewsletters retrieves all newsletters for a user, newest first.
func (s *Store) ListNewsletters(ctx context.Context, userID string) ([]*Newsletter, error) {
	query := `SELECT id, user_id, title, content, settings, status, created_at, updated_at
		FROM newsletters WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", err)
	}
	defer rows.Close()

	var newsletters []*Newsletter
	for rows.Next() {
		n := &Newsletter{}
		var content []byte
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &content, &n.Settings,
			&n.Status, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan newsletter: %w", err)
		}
		n.Content = DecodeContent(content, s.factory)
		newsletters = append(newsletters, n)
	}
	return newsletters, rows.Err()
}

// UpdateNewsletter persists the document exactly as held in memory: no
// field renaming, no default substitution at save time.
func (s *Store) UpdateNewsletter(ctx context.Context, n *Newsletter) error {
	n.UpdatedAt = time.Now()

	content, err := EncodeContent(n.Content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `UPDATE newsletters SET title = $1, content = $2, settings = $3, status = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7`

	result, err := s.db.ExecContext(ctx, query, n.Title, content, n.Settings,
		n.Status, n.UpdatedAt, n.ID, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to update newsletter: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("newsletter %w", ErrNotFound)
	}
	return nil
}

// DeleteNewsletter removes a newsletter.
func (s *Store) DeleteNewsletter(ctx context.Context, userID string, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM newsletters WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete newsletter: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("newsletter %w", ErrNotFound)
	}
	return nil
}

// DuplicateNewsletter creates a draft copy of an existing newsletter
// with the same content and settings.
func (s *Store) DuplicateNewsletter(ctx context.Context, userID string, id uuid.UUID) (*Newsletter, error) {
	original, err := s.GetNewsletter(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("newsletter %w", ErrNotFound)
	}

	dup := &Newsletter{
		UserID:   userID,
		Title:    original.Title + " (Copy)",
		Content:  original.Content,
		Settings: original.Settings,
		Status:   StatusDraft,
	}
	if err := s.CreateNewsletter(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}

package newsletter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTemplateRequest carries the user-facing fields of a new
// template; content and settings come from the source newsletter.
type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
	IsGlobal    bool   `json:"is_global"`
}

// CreateTemplate persists a template.
func (s *Store) CreateTemplate(ctx context.Context, t *Template) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	content, err := EncodeContent(t.Content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `INSERT INTO newsletter_templates (id, user_id, name, description, content, settings, is_public, is_global, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.db.ExecContext(ctx, query, t.ID, t.UserID, t.Name, t.Description,
		content, t.Settings, t.IsPublic, t.IsGlobal, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template visible to the user: their own, or
// any public/global one.
func (s *Store) GetTemplate(ctx context.Context, userID string, id uuid.UUID) (*Template, error) {
	query := `SELECT id, user_id, name, description, content, settings, is_public, is_global, created_at, updated_at
		FROM newsletter_templates
		WHERE id = $1 AND (user_id = $2 OR is_public OR is_global)`

	t := &Template{}
	var content []byte
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Name, &t.Description, &content, &t.Settings,
		&t.IsPublic, &t.IsGlobal, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	t.Content = DecodeContent(content, s.factory)
	return t, nil
}

// ListTemplates retrieves templates visible to a user: their own plus
// public and global ones, global first, then by name.
func (s *Store) ListTemplates(ctx context.Context, userID string) ([]*Template, error) {
	query := `SELECT id, user_id, name, description, content, settings, is_public, is_global, created_at, updated_at
		FROM newsletter_templates
		WHERE user_id = $1 OR is_public OR is_global
		ORDER BY is_global DESC, name`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		t := &Template{}
		var content []byte
		err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &content,
			&t.Settings, &t.IsPublic, &t.IsGlobal, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		t.Content = DecodeContent(content, s.factory)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template owned by the user.
func (s *Store) DeleteTemplate(ctx context.Context, userID string, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM newsletter_templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("template %w", ErrNotFound)
	}
	return nil
}

// DeriveTemplate copies a newsletter's content and settings verbatim
// into a new template.
func (s *Store) DeriveTemplate(ctx context.Context, userID string, newsletterID uuid.UUID, req *CreateTemplateRequest) (*Template, error) {
	n, err := s.GetNewsletter(ctx, userID, newsletterID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("newsletter %w", ErrNotFound)
	}

	name := req.Name
	if name == "" {
		name = n.Title
	}
	t := &Template{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		Content:     n.Content,
		Settings:    n.Settings,
		IsPublic:    req.IsPublic,
		IsGlobal:    req.IsGlobal,
	}
	if err := s.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// InstantiateTemplate copies a template's content verbatim into a new
// draft newsletter owned by the user.
func (s *Store) InstantiateTemplate(ctx context.Context, userID string, templateID uuid.UUID, title string) (*Newsletter, error) {
	t, err := s.GetTemplate(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("template %w", ErrNotFound)
	}

	if title == "" {
		title = t.Name
	}
	n := &Newsletter{
		UserID:   userID,
		Title:    title,
		Content:  t.Content,
		Settings: t.Settings,
		Status:   StatusDraft,
	}
	if err := s.CreateNewsletter(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Package newsletter holds the document aggregate: a newsletter's
// ordered section list, theme and metadata, the codec that moves it
// through its persisted JSON content blob, and the stores backing it.
package newsletter

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/classkit/newsletter-studio/internal/section"
)

// ErrNotFound reports that no newsletter or template matched the id
// for the requesting user.
var ErrNotFound = errors.New("not found")

// Status constants
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ContentVersion is the compatibility tag written into every content
// blob. It is preserved on load and never branched on.
const ContentVersion = "1.0"

// JSON helper type for JSONB fields
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, j)
}

// Theme is a free-form style dictionary applied uniformly across a
// document's rendered sections. Custom colors are permitted; themes are
// never validated against a closed palette.
type Theme map[string]interface{}

// DefaultTheme returns the theme applied to new documents and to loads
// that carry no stored theme.
func DefaultTheme() Theme {
	return Theme{
		"primaryColor":    "#C8102E",
		"backgroundColor": "#FFFFFF",
		"fontFamily":      "Georgia, 'Times New Roman', serif",
		"accentColor":     "#1a1a2e",
	}
}

// String returns the theme value for key as a string, or fallback when
// absent or not a string.
func (t Theme) String(key, fallback string) string {
	if v, ok := t[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Content is the serialized body of a newsletter or template.
type Content struct {
	Version  string            `json:"version"`
	Sections []section.Section `json:"sections"`
	Theme    Theme             `json:"theme"`
}

// Newsletter is the document aggregate: sections, theme and metadata
// coordinated as one consistent unit.
type Newsletter struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   Content   `json:"content" db:"content"`
	Settings  JSON      `json:"settings" db:"settings"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Template is a reusable content blueprint derived from a newsletter.
type Template struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Content     Content   `json:"content" db:"content"`
	Settings    JSON      `json:"settings" db:"settings"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	IsGlobal    bool      `json:"is_global" db:"is_global"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

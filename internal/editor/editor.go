// Package editor implements the per-type section editors: each section
// type has one editor that renders a read-only view or an editable
// form, and whose field setters always emit the section's entire
// recomputed data object, never a partial patch. The document aggregate
// merges the replacement by section id.
package editor

import (
	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// Mode selects between the read-only view and the editable form.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// UpdateFunc receives the section id and the full replacement data
// object. Editors never send diffs.
type UpdateFunc func(id string, data section.Data)

// DeleteFunc removes the section with the given id from the document.
type DeleteFunc func(id string)

// Callbacks are handed to every editor by the owning session.
type Callbacks struct {
	Update UpdateFunc
	Delete DeleteFunc
}

// Editor renders one section type. Render must never panic on missing
// or malformed data fields; absent fields get empty-state copy instead.
type Editor interface {
	Type() section.Type
	Render(s section.Section, theme newsletter.Theme, mode Mode) string
}

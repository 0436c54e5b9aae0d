package editor

import (
	"fmt"
	"html"
	"log"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// Registry maps section types to their editors. Lookup for a type the
// registry does not know returns a visibly flagged placeholder editor:
// a document saved by a newer build may carry section types this build
// cannot edit, and those must render inert, not crash.
type Registry struct {
	editors map[section.Type]Editor
	unknown Editor
}

// NewRegistry builds a registry covering all six section types. The
// factory supplies fresh event ids for the events editor.
func NewRegistry(factory *section.Factory, callbacks Callbacks) *Registry {
	r := &Registry{
		editors: make(map[section.Type]Editor),
		unknown: &unknownEditor{},
	}
	for _, e := range []Editor{
		NewHeaderEditor(callbacks),
		NewTitleEditor(callbacks),
		NewRichTextEditor(callbacks),
		NewEventsEditor(factory, callbacks),
		NewContactEditor(callbacks),
		NewImageEditor(callbacks),
	} {
		r.editors[e.Type()] = e
	}
	return r
}

// For returns the editor for a section type, or the unknown-type
// placeholder editor.
func (r *Registry) For(t section.Type) Editor {
	if e, ok := r.editors[t]; ok {
		return e
	}
	log.Printf("editor: no editor registered for section type %q, using placeholder", t)
	return r.unknown
}

// Render dispatches a section to its editor.
func (r *Registry) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	return r.For(s.Type).Render(s, theme, mode)
}

// unknownEditor renders a flagged placeholder for section types this
// build does not recognize. The section's stored data is untouched.
type unknownEditor struct{}

func (e *unknownEditor) Type() section.Type { return "" }

func (e *unknownEditor) Render(s section.Section, _ newsletter.Theme, _ Mode) string {
	return fmt.Sprintf(`<div class="section section-unknown" data-section-id="%s">
  <p class="unknown-type-notice">Unknown section type "%s" — preserved but not editable in this version.</p>
</div>`, html.EscapeString(s.ID), html.EscapeString(string(s.Type)))
}

package editor

import (
	"fmt"
	"html"
	"strings"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// ContactEditor edits the teacher contact block.
type ContactEditor struct {
	callbacks Callbacks
}

func NewContactEditor(callbacks Callbacks) *ContactEditor {
	return &ContactEditor{callbacks: callbacks}
}

func (e *ContactEditor) Type() section.Type { return section.TypeContact }

// Set replaces the whole contact record.
func (e *ContactEditor) Set(s section.Section, d section.ContactData) {
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetField replaces one named field, emitting the full data object.
func (e *ContactEditor) SetField(s section.Section, field, value string) {
	d := s.Contact()
	switch field {
	case "title":
		d.Title = value
	case "name":
		d.Name = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	case "room":
		d.Room = value
	case "message":
		d.Message = value
	default:
		return
	}
	e.callbacks.Update(s.ID, s.WithData(d))
}

func (e *ContactEditor) Delete(s section.Section) {
	e.callbacks.Delete(s.ID)
}

func (e *ContactEditor) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	d := s.Contact()
	title := d.Title
	if title == "" {
		title = "Get In Touch"
	}

	if mode == ModeEdit {
		return fmt.Sprintf(`<div class="section section-contact editing" data-section-id="%s">
  <input type="text" name="title" value="%s">
  <input type="text" name="name" value="%s" placeholder="Name">
  <input type="email" name="email" value="%s" placeholder="Email">
  <input type="tel" name="phone" value="%s" placeholder="Phone">
  <input type="text" name="room" value="%s" placeholder="Room">
  <textarea name="message">%s</textarea>
</div>`, html.EscapeString(s.ID), html.EscapeString(title), html.EscapeString(d.Name),
			html.EscapeString(d.Email), html.EscapeString(d.Phone), html.EscapeString(d.Room),
			html.EscapeString(d.Message))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="section section-contact" data-section-id="%s">
  <h2 style="color:%s">%s</h2>
`, html.EscapeString(s.ID), html.EscapeString(theme.String("primaryColor", "#1a1a2e")), html.EscapeString(title))

	if d.Message != "" {
		fmt.Fprintf(&b, "  <p>%s</p>\n", html.EscapeString(d.Message))
	}

	lines := []struct{ label, value string }{
		{"Teacher", d.Name},
		{"Email", d.Email},
		{"Phone", d.Phone},
		{"Room", d.Room},
	}
	var any bool
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		if !any {
			b.WriteString("  <ul class=\"contact-details\">\n")
			any = true
		}
		fmt.Fprintf(&b, "    <li><strong>%s:</strong> %s</li>\n", l.label, html.EscapeString(l.value))
	}
	if any {
		b.WriteString("  </ul>\n")
	}
	b.WriteString("</div>")
	return b.String()
}

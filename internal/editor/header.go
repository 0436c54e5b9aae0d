package editor

import (
	"fmt"
	"html"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// HeaderEditor edits the newsletter masthead: a title/subtitle pair
// with a style block.
type HeaderEditor struct {
	callbacks Callbacks
}

func NewHeaderEditor(callbacks Callbacks) *HeaderEditor {
	return &HeaderEditor{callbacks: callbacks}
}

func (e *HeaderEditor) Type() section.Type { return section.TypeHeader }

// SetTitle replaces the header title and emits the full data object.
func (e *HeaderEditor) SetTitle(s section.Section, title string) {
	d := s.Header()
	d.Title = title
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetSubtitle replaces the header subtitle.
func (e *HeaderEditor) SetSubtitle(s section.Section, subtitle string) {
	d := s.Header()
	d.Subtitle = subtitle
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetStyle replaces the header style block.
func (e *HeaderEditor) SetStyle(s section.Section, style section.TextStyle) {
	d := s.Header()
	d.Style = style
	e.callbacks.Update(s.ID, s.WithData(d))
}

// Delete removes the section.
func (e *HeaderEditor) Delete(s section.Section) {
	e.callbacks.Delete(s.ID)
}

func (e *HeaderEditor) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	d := s.Header()
	if mode == ModeEdit {
		return fmt.Sprintf(`<div class="section section-header editing" data-section-id="%s">
  <input type="text" name="title" value="%s" placeholder="Newsletter title">
  <input type="text" name="subtitle" value="%s" placeholder="Subtitle">
</div>`, html.EscapeString(s.ID), html.EscapeString(d.Title), html.EscapeString(d.Subtitle))
	}

	color := d.Style.Color
	if color == "" {
		color = theme.String("primaryColor", "#1a1a2e")
	}
	out := fmt.Sprintf(`<div class="section section-header" data-section-id="%s" style="text-align:%s">
  <h1 style="color:%s;font-size:%s">%s</h1>`,
		html.EscapeString(s.ID),
		styleOr(d.Style.TextAlign, "center"),
		html.EscapeString(color),
		styleOr(d.Style.FontSize, "32px"),
		html.EscapeString(d.Title))
	if d.Subtitle != "" {
		out += fmt.Sprintf("\n  <p class=\"subtitle\">%s</p>", html.EscapeString(d.Subtitle))
	}
	return out + "\n</div>"
}

// styleOr returns a CSS value or its fallback when empty. Values land
// inside style attributes, so they are escaped here too.
func styleOr(v, fallback string) string {
	if v == "" {
		v = fallback
	}
	return html.EscapeString(v)
}

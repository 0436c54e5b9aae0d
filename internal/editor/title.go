package editor

import (
	"fmt"
	"html"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// TitleEditor edits a section heading. Its title is deliberately
// independent of the newsletter's own top-level title.
type TitleEditor struct {
	callbacks Callbacks
}

func NewTitleEditor(callbacks Callbacks) *TitleEditor {
	return &TitleEditor{callbacks: callbacks}
}

func (e *TitleEditor) Type() section.Type { return section.TypeTitle }

func (e *TitleEditor) SetTitle(s section.Section, title string) {
	d := s.Title()
	d.Title = title
	e.callbacks.Update(s.ID, s.WithData(d))
}

func (e *TitleEditor) SetSubtitle(s section.Section, subtitle string) {
	d := s.Title()
	d.Subtitle = subtitle
	e.callbacks.Update(s.ID, s.WithData(d))
}

func (e *TitleEditor) SetStyle(s section.Section, style section.TextStyle) {
	d := s.Title()
	d.Style = style
	e.callbacks.Update(s.ID, s.WithData(d))
}

func (e *TitleEditor) Delete(s section.Section) {
	e.callbacks.Delete(s.ID)
}

func (e *TitleEditor) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	d := s.Title()
	if mode == ModeEdit {
		return fmt.Sprintf(`<div class="section section-title editing" data-section-id="%s">
  <input type="text" name="title" value="%s" placeholder="Section title">
  <input type="text" name="subtitle" value="%s" placeholder="Subtitle (optional)">
</div>`, html.EscapeString(s.ID), html.EscapeString(d.Title), html.EscapeString(d.Subtitle))
	}

	color := d.Style.Color
	if color == "" {
		color = theme.String("primaryColor", "#1a1a2e")
	}
	out := fmt.Sprintf(`<div class="section section-title" data-section-id="%s" style="text-align:%s">
  <h2 style="color:%s;font-size:%s">%s</h2>`,
		html.EscapeString(s.ID),
		styleOr(d.Style.TextAlign, "left"),
		html.EscapeString(color),
		styleOr(d.Style.FontSize, "24px"),
		html.EscapeString(d.Title))
	if d.Subtitle != "" {
		out += fmt.Sprintf("\n  <p class=\"subtitle\">%s</p>", html.EscapeString(d.Subtitle))
	}
	return out + "\n</div>"
}

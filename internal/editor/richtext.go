package editor

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// Inline markup recognized by the rich text parser. The authoring
// format is deliberately tiny: bold, italic, bullet and numbered list
// prefixes, and image embeds.
var (
	imagePattern   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	boldPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern  = regexp.MustCompile(`\*([^*\n]+)\*`)
	orderedPattern = regexp.MustCompile(`^\d+\.\s+`)
)

// sanitizer strips anything the parser did not intend to produce
// before rendered content leaves this package.
var sanitizer = bluemonday.UGCPolicy()

// RenderContent converts the rich text authoring format to HTML. Text
// is escaped before markup substitution, and the result is sanitized,
// so stored content can never inject markup of its own.
func RenderContent(content string) string {
	var b strings.Builder
	list := ""

	closeList := func() {
		switch list {
		case "ul":
			b.WriteString("</ul>\n")
		case "ol":
			b.WriteString("</ol>\n")
		}
		list = ""
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			closeList()
		case strings.HasPrefix(trimmed, "• "):
			if list != "ul" {
				closeList()
				b.WriteString("<ul>\n")
				list = "ul"
			}
			b.WriteString("<li>" + renderInline(strings.TrimPrefix(trimmed, "• ")) + "</li>\n")
		case orderedPattern.MatchString(trimmed):
			if list != "ol" {
				closeList()
				b.WriteString("<ol>\n")
				list = "ol"
			}
			b.WriteString("<li>" + renderInline(orderedPattern.ReplaceAllString(trimmed, "")) + "</li>\n")
		default:
			closeList()
			b.WriteString("<p>" + renderInline(trimmed) + "</p>\n")
		}
	}
	closeList()

	return sanitizer.Sanitize(strings.TrimRight(b.String(), "\n"))
}

func renderInline(text string) string {
	out := html.EscapeString(text)
	out = imagePattern.ReplaceAllString(out, `<img src="$2" alt="$1">`)
	out = boldPattern.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicPattern.ReplaceAllString(out, "<em>$1</em>")
	return out
}

// InsertFormatting wraps the selected range of content in the given
// marker (e.g. "**" for bold). With an empty selection the marker pair
// is inserted at the cursor. Returns the new content and the selection
// range after insertion, so the caller can restore the cursor.
func InsertFormatting(content string, start, end int, marker string) (string, int, int) {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > len(content) {
		end = len(content)
	}
	if start > len(content) {
		start = len(content)
	}

	out := content[:start] + marker + content[start:end] + marker + content[end:]
	return out, start + len(marker), end + len(marker)
}

// AppendContent merges new text (AI-generated copy, an image embed)
// into existing content with a blank-line separator. Existing content
// is never replaced.
func AppendContent(existing, addition string) string {
	existing = strings.TrimRight(existing, " \t\n")
	if existing == "" {
		return addition
	}
	return existing + "\n\n" + addition
}

// RichTextEditor edits free-form text with the inline authoring format.
type RichTextEditor struct {
	callbacks Callbacks
}

func NewRichTextEditor(callbacks Callbacks) *RichTextEditor {
	return &RichTextEditor{callbacks: callbacks}
}

func (e *RichTextEditor) Type() section.Type { return section.TypeRichText }

// SetContent replaces the text wholesale and emits the full data object.
func (e *RichTextEditor) SetContent(s section.Section, content string) {
	d := s.RichText()
	d.Content = content
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetStyle replaces the style block.
func (e *RichTextEditor) SetStyle(s section.Section, style section.TextStyle) {
	d := s.RichText()
	d.Style = style
	e.callbacks.Update(s.ID, s.WithData(d))
}

// Append merges generated or pasted text after the existing content.
func (e *RichTextEditor) Append(s section.Section, text string) {
	d := s.RichText()
	d.Content = AppendContent(d.Content, text)
	e.callbacks.Update(s.ID, s.WithData(d))
}

// InsertImage appends an image embed in the authoring format.
func (e *RichTextEditor) InsertImage(s section.Section, alt, url string) {
	e.Append(s, fmt.Sprintf("![%s](%s)", alt, url))
}

func (e *RichTextEditor) Delete(s section.Section) {
	e.callbacks.Delete(s.ID)
}

func (e *RichTextEditor) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	d := s.RichText()
	if mode == ModeEdit {
		return fmt.Sprintf(`<div class="section section-richtext editing" data-section-id="%s">
  <div class="toolbar">
    <button data-marker="**">B</button>
    <button data-marker="*">I</button>
    <button data-prefix="• ">List</button>
    <button data-prefix="1. ">Numbered</button>
  </div>
  <textarea name="content">%s</textarea>
</div>`, html.EscapeString(s.ID), html.EscapeString(d.Content))
	}

	color := d.Style.Color
	if color == "" {
		color = theme.String("textColor", "#333333")
	}
	return fmt.Sprintf(`<div class="section section-richtext" data-section-id="%s" style="color:%s;font-size:%s;text-align:%s">
%s
</div>`,
		html.EscapeString(s.ID),
		html.EscapeString(color),
		styleOr(d.Style.FontSize, "16px"),
		styleOr(d.Style.TextAlign, "left"),
		RenderContent(d.Content))
}

// Package render turns a newsletter's sorted section list and theme
// into a standalone HTML document. Section bodies come from the editor
// view renderers; this package owns the page shell, rendered through a
// Liquid template so themes stay free-form style dictionaries.
package render

import (
	"fmt"
	"html"
	"time"

	"github.com/osteele/liquid"

	"github.com/classkit/newsletter-studio/internal/editor"
	"github.com/classkit/newsletter-studio/internal/newsletter"
)

const pageShell = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ title | escape }}</title>
    <style>
        body { font-family: {{ theme.fontFamily | default: "Georgia, serif" }}; background: {{ theme.backgroundColor | default: "#FFFFFF" }}; color: #333; max-width: 720px; margin: 0 auto; padding: 24px; line-height: 1.6; }
        h1, h2 { color: {{ theme.primaryColor | default: "#1a1a2e" }}; }
        .section { margin-bottom: 28px; }
        .section-header { border-bottom: 4px solid {{ theme.accentColor | default: "#1a1a2e" }}; padding-bottom: 12px; }
        .subtitle { color: #666; }
        .event-date { color: {{ theme.accentColor | default: "#1a1a2e" }}; font-weight: bold; margin-right: 8px; }
        .section-image img { max-width: 100%; height: auto; }
        .section-image.size-small img { max-width: 33%; }
        .section-image.size-medium img { max-width: 66%; }
        .section-image.align-left { text-align: left; }
        .section-image.align-center { text-align: center; }
        .section-image.align-right { text-align: right; }
        .section-image.layout-rounded img { border-radius: 12px; }
        .section-image.layout-circle img { border-radius: 50%; }
        .caption { color: #666; font-size: 14px; }
        .section-unknown { border: 1px dashed #999; padding: 12px; color: #666; }
        .footer { color: #999; font-size: 12px; margin-top: 40px; text-align: center; }
    </style>
</head>
<body>
{% for body in sections %}{{ body }}
{% endfor %}
    <p class="footer">{{ generated_on | friendly_date }}</p>
</body>
</html>`

// Renderer renders newsletters to HTML.
type Renderer struct {
	registry *editor.Registry
	shell    *liquid.Template
}

// NewRenderer parses the page shell once and registers the Liquid
// filters the shell uses.
func NewRenderer(registry *editor.Registry) (*Renderer, error) {
	engine := liquid.NewEngine()

	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	engine.RegisterFilter("escape", func(s string) string {
		return html.EscapeString(s)
	})

	engine.RegisterFilter("friendly_date", func(t interface{}) string {
		if ts, ok := t.(time.Time); ok {
			return ts.Format("January 2, 2006")
		}
		return fmt.Sprintf("%v", t)
	})

	shell, err := engine.ParseString(pageShell)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page shell: %w", err)
	}

	return &Renderer{registry: registry, shell: shell}, nil
}

// RenderHTML renders the newsletter's sections in visual order inside
// the themed page shell. The newsletter is read, never mutated: section
// bodies are built from a sorted snapshot of the list.
func (r *Renderer) RenderHTML(n *newsletter.Newsletter) (string, error) {
	theme := n.Content.Theme
	if theme == nil {
		theme = newsletter.DefaultTheme()
	}

	sorted := n.SortedSections()
	bodies := make([]string, 0, len(sorted))
	for _, s := range sorted {
		bodies = append(bodies, r.registry.Render(s, theme, editor.ModeView))
	}

	out, err := r.shell.RenderString(map[string]interface{}{
		"title":        n.Title,
		"theme":        map[string]interface{}(theme),
		"sections":     bodies,
		"generated_on": time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	return out, nil
}

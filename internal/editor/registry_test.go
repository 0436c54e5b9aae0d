package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

func testRegistry() *Registry {
	factory := section.NewFactory(section.NewSequenceGenerator("sec"))
	return NewRegistry(factory, Callbacks{})
}

func TestRegistryCoversAllKnownTypes(t *testing.T) {
	r := testRegistry()
	for _, typ := range section.KnownTypes {
		e := r.For(typ)
		assert.Equal(t, typ, e.Type(), "editor registered for %s", typ)
	}
}

func TestRegistryUnknownTypeGetsPlaceholder(t *testing.T) {
	r := testRegistry()
	s := section.Section{ID: "f-1", Type: "futureType", Order: 0, Data: section.Data{"x": 1}}

	out := r.Render(s, newsletter.DefaultTheme(), ModeView)
	assert.Contains(t, out, "futureType")
	assert.Contains(t, out, "Unknown section type")

	// Placeholder must be inert in edit mode too.
	out = r.Render(s, newsletter.DefaultTheme(), ModeEdit)
	assert.Contains(t, out, "Unknown section type")
}

func TestRegistryRenderDoesNotPanicOnMissingData(t *testing.T) {
	r := testRegistry()
	theme := newsletter.DefaultTheme()
	for _, typ := range section.KnownTypes {
		s := section.Section{ID: "bare", Type: typ, Order: 0}
		assert.NotPanics(t, func() {
			r.Render(s, theme, ModeView)
			r.Render(s, theme, ModeEdit)
		}, "type %s with nil data", typ)
	}
}

package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
}

func TestFactoryDefaults(t *testing.T) {
	f := NewFactory(NewSequenceGenerator("s")).WithClock(fixedClock)

	tests := []struct {
		name string
		typ  Type
		key  string
	}{
		{"header has title", TypeHeader, "title"},
		{"rich text has content", TypeRichText, "content"},
		{"events has events", TypeEvents, "events"},
		{"contact has message", TypeContact, "message"},
		{"image has size", TypeImage, "size"},
		{"title has style", TypeTitle, "style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.New(tt.typ, 3)
			assert.Equal(t, tt.typ, s.Type)
			assert.Equal(t, 3, s.Order)
			assert.NotEmpty(t, s.ID)
			assert.Contains(t, s.Data, tt.key)
		})
	}
}

func TestFactoryEventsPlaceholderDatedToday(t *testing.T) {
	f := NewFactory(NewSequenceGenerator("s")).WithClock(fixedClock)
	s := f.New(TypeEvents, 0)

	events := s.EventList()
	require.Len(t, events.Events, 1)
	assert.Equal(t, "2026-03-09", events.Events[0].Date)
	assert.NotEmpty(t, events.Events[0].ID)
}

func TestFactoryUnknownTypeYieldsBaseSection(t *testing.T) {
	f := NewFactory(NewSequenceGenerator("s"))
	s := f.New(Type("hologram"), 5)

	assert.Equal(t, Type("hologram"), s.Type)
	assert.Equal(t, 5, s.Order)
	assert.NotEmpty(t, s.ID)
	assert.Nil(t, s.Data)

	// Decoding absent data must not panic and yields the empty state.
	assert.Empty(t, s.EventList().Events)
	assert.Empty(t, s.RichText().Content)
}

func TestULIDGeneratorUniqueness(t *testing.T) {
	g := NewULIDGenerator()
	const n = 10000

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := g.NewID()
		require.False(t, seen[id], "duplicate id %s at iteration %d", id, i)
		seen[id] = true
	}
}

func TestFactoryUniqueIDsInTightLoop(t *testing.T) {
	f := NewFactory(nil)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := f.New(TypeRichText, i)
		require.False(t, seen[s.ID])
		seen[s.ID] = true
	}
}

func TestWithDataPreservesUnknownKeys(t *testing.T) {
	s := Section{
		ID:   "a",
		Type: TypeRichText,
		Data: Data{
			"content":      "hello",
			"style":        map[string]interface{}{"fontSize": "16px"},
			"futureField":  "kept",
			"nestedFuture": map[string]interface{}{"x": float64(1)},
		},
	}

	rt := s.RichText()
	rt.Content = "edited"
	merged := s.WithData(rt)

	assert.Equal(t, "edited", merged["content"])
	assert.Equal(t, "kept", merged["futureField"])
	assert.Equal(t, map[string]interface{}{"x": float64(1)}, merged["nestedFuture"])
	// The original section data is untouched.
	assert.Equal(t, "hello", s.Data["content"])
}

func TestDataCloneIsIndependent(t *testing.T) {
	d := Data{"a": "1", "nested": map[string]interface{}{"b": "2"}}
	c := d.Clone()
	c["a"] = "changed"
	c["nested"].(map[string]interface{})["b"] = "changed"

	assert.Equal(t, "1", d["a"])
	assert.Equal(t, "2", d["nested"].(map[string]interface{})["b"])
}

func TestTypeKnown(t *testing.T) {
	for _, typ := range KnownTypes {
		assert.True(t, typ.Known(), "%s should be known", typ)
	}
	assert.False(t, Type("futureType").Known())
	assert.False(t, Type("").Known())
}

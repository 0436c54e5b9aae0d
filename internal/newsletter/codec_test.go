package newsletter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classkit/newsletter-studio/internal/section"
)

func TestContentRoundTrip(t *testing.T) {
	f := testFactory()
	n := New(f, "u")
	n.AddSection(f.New(section.TypeImage, 0))
	n.Reorder(4, 1)
	n.UpdateSection(n.SortedSections()[0].ID, section.Data{"title": "edited", "extra": "kept"})

	raw, err := EncodeContent(n.Content)
	require.NoError(t, err)

	decoded := DecodeContent(raw, f)

	require.Len(t, decoded.Sections, len(n.Content.Sections))
	assert.Equal(t, n.Content.Version, decoded.Version)
	assert.Equal(t, n.Content.Theme, decoded.Theme)

	want := n.SortedSections()
	got := (&Newsletter{Content: decoded}).SortedSections()
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].Order, got[i].Order)
		assertDataEqual(t, want[i].Data, got[i].Data)
	}
}

// assertDataEqual compares data maps through JSON so int/float64
// differences from encoding do not produce false failures.
func assertDataEqual(t *testing.T, want, got section.Data) {
	t.Helper()
	w, _ := json.Marshal(want)
	g, _ := json.Marshal(got)
	assert.JSONEq(t, string(w), string(g))
}

func TestDecodeEmptyContentSubstitutesDefaults(t *testing.T) {
	f := testFactory()

	for _, raw := range [][]byte{
		nil,
		[]byte(`{}`),
		[]byte(`{"version":"1.0","sections":[]}`),
		[]byte(`{"version":"1.0","sections":null}`),
	} {
		c := DecodeContent(raw, f)
		require.Len(t, c.Sections, 4, "raw=%s", raw)
		assert.Equal(t, ContentVersion, c.Version)
		assert.NotEmpty(t, c.Theme)
	}
}

func TestDecodeNonEmptySectionsNeverSubstituted(t *testing.T) {
	f := testFactory()
	raw := []byte(`{"version":"2.3","sections":[{"id":"x1","type":"futureType","order":0,"data":{"payload":{"deep":true}}}],"theme":{"primaryColor":"#123456"}}`)

	c := DecodeContent(raw, f)

	require.Len(t, c.Sections, 1, "a non-empty stored list is used verbatim, even with unknown types")
	assert.Equal(t, "x1", c.Sections[0].ID)
	assert.Equal(t, section.Type("futureType"), c.Sections[0].Type)
	assert.Equal(t, "2.3", c.Version, "version tag preserved, not branched on")
	assert.Equal(t, "#123456", c.Theme["primaryColor"])
}

func TestUnknownSectionTypeSurvivesRoundTrip(t *testing.T) {
	f := testFactory()
	raw := []byte(`{"version":"1.0","sections":[{"id":"fut-1","type":"futureType","order":0,"data":{"widget":"gauge","nested":{"a":[1,2,3]}}}],"theme":{"primaryColor":"#000"}}`)

	c := DecodeContent(raw, f)
	encoded, err := EncodeContent(c)
	require.NoError(t, err)

	again := DecodeContent(encoded, f)
	require.Len(t, again.Sections, 1)
	assert.Equal(t, "fut-1", again.Sections[0].ID)
	assertDataEqual(t, c.Sections[0].Data, again.Sections[0].Data)
}

func TestDecodeMalformedContentFallsBackToDefaults(t *testing.T) {
	f := testFactory()

	for _, raw := range [][]byte{
		[]byte(`"legacy string content"`),
		[]byte(`not json at all`),
		[]byte(`[1,2,3]`),
	} {
		c := DecodeContent(raw, f)
		require.Len(t, c.Sections, 4, "raw=%s", raw)
		assert.Equal(t, ContentVersion, c.Version)
	}
}

func TestParseContentKeepsEmptySections(t *testing.T) {
	c, err := ParseContent([]byte(`{"version":"1.0","sections":[],"theme":{"primaryColor":"#000"}}`))
	require.NoError(t, err)
	assert.Empty(t, c.Sections, "a saved empty list stays empty")
	assert.Equal(t, "#000", c.Theme["primaryColor"])
}

func TestParseContentRejectsMalformed(t *testing.T) {
	for _, raw := range [][]byte{
		[]byte(`"legacy string content"`),
		[]byte(`not json at all`),
		[]byte(`[1,2,3]`),
	} {
		_, err := ParseContent(raw)
		assert.Error(t, err, "raw=%s", raw)
	}
}

func TestEncodeDoesNotSubstituteDefaults(t *testing.T) {
	// Saving an explicitly emptied document must not re-add defaults;
	// defaults apply only at load time.
	raw, err := EncodeContent(Content{Version: ContentVersion, Sections: []section.Section{}, Theme: Theme{}})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.JSONEq(t, `[]`, string(decoded["sections"]))
}

package newsletter

import (
	"sort"

	"github.com/classkit/newsletter-studio/internal/section"
)

// DefaultSectionTypes is the section set a brand-new document starts
// with, in visual order. The same set substitutes for an empty stored
// section list at load time (and only then).
var DefaultSectionTypes = []section.Type{
	section.TypeTitle,
	section.TypeRichText,
	section.TypeEvents,
	section.TypeContact,
}

// New creates an empty draft newsletter with the four default sections
// and the default theme.
func New(factory *section.Factory, userID string) *Newsletter {
	return &Newsletter{
		UserID: userID,
		Title:  "Untitled Newsletter",
		Content: Content{
			Version:  ContentVersion,
			Sections: defaultSections(factory),
			Theme:    DefaultTheme(),
		},
		Settings: JSON{},
		Status:   StatusDraft,
	}
}

func defaultSections(factory *section.Factory) []section.Section {
	sections := make([]section.Section, 0, len(DefaultSectionTypes))
	for i, t := range DefaultSectionTypes {
		sections = append(sections, factory.New(t, i))
	}
	return sections
}

// SortedSections returns a copy of the section list in visual order:
// ascending by order, ties broken by original array position. The
// in-memory array order is never assumed to match visual order between
// a delete and the next reorder, so display and export always go
// through here.
func (n *Newsletter) SortedSections() []section.Section {
	out := make([]section.Section, len(n.Content.Sections))
	copy(out, n.Content.Sections)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// AddSection appends s with order = max(existing orders)+1, or 0 when
// the document is empty. Position changes are a separate Reorder.
func (n *Newsletter) AddSection(s section.Section) {
	s.Order = 0
	for _, existing := range n.Content.Sections {
		if existing.Order >= s.Order {
			s.Order = existing.Order + 1
		}
	}
	n.Content.Sections = append(n.Content.Sections, s.Clone())
}

// Reorder moves the section at sourceIndex in the visual (order-sorted)
// list to destIndex, then renormalizes every section's order to its new
// array index. The renormalization is what keeps order values a
// contiguous 0..n-1 sequence; it runs even for no-op moves. Out-of-range
// indices are ignored.
func (n *Newsletter) Reorder(sourceIndex, destIndex int) {
	sorted := n.SortedSections()
	if sourceIndex < 0 || sourceIndex >= len(sorted) || destIndex < 0 || destIndex >= len(sorted) {
		return
	}

	moved := sorted[sourceIndex]
	sorted = append(sorted[:sourceIndex], sorted[sourceIndex+1:]...)
	sorted = append(sorted, section.Section{})
	copy(sorted[destIndex+1:], sorted[destIndex:])
	sorted[destIndex] = moved

	for i := range sorted {
		sorted[i].Order = i
	}
	n.Content.Sections = sorted
}

// UpdateSection replaces the data of the section with the given id.
// Sections that don't match keep their existing value so editors
// watching them see no spurious change. If duplicate ids ever occur
// (a factory defect that must not happen by construction), every match
// is updated, so the last section with that id wins for rendering.
func (n *Newsletter) UpdateSection(id string, data section.Data) bool {
	updated := false
	for i := range n.Content.Sections {
		if n.Content.Sections[i].ID == id {
			n.Content.Sections[i].Data = data.Clone()
			updated = true
		}
	}
	return updated
}

// DeleteSection filters out the section with the given id. Remaining
// orders are deliberately left untouched: gaps are permitted until the
// next reorder.
func (n *Newsletter) DeleteSection(id string) bool {
	kept := n.Content.Sections[:0]
	deleted := false
	for _, s := range n.Content.Sections {
		if s.ID == id && !deleted {
			deleted = true
			continue
		}
		kept = append(kept, s)
	}
	n.Content.Sections = kept
	return deleted
}

// RenameTitle updates the document's own title. This is deliberately
// decoupled from any title-type section's data.title; the two are
// distinct fields.
func (n *Newsletter) RenameTitle(title string) {
	n.Title = title
}

// MergeSettings lays the given keys over the document's settings map
// (shallow merge).
func (n *Newsletter) MergeSettings(patch JSON) {
	if len(patch) == 0 {
		return
	}
	if n.Settings == nil {
		n.Settings = JSON{}
	}
	for k, v := range patch {
		n.Settings[k] = v
	}
}

// Section returns the section with the given id, or false.
func (n *Newsletter) Section(id string) (section.Section, bool) {
	for _, s := range n.Content.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return section.Section{}, false
}

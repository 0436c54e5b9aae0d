// Package section defines the typed content blocks a newsletter is
// assembled from: the closed set of section types, their default data
// shapes, and the factory that mints new sections.
package section

import "encoding/json"

// Type identifies the kind of content a section holds.
type Type string

const (
	TypeHeader   Type = "header"
	TypeTitle    Type = "title"
	TypeRichText Type = "richText"
	TypeEvents   Type = "events"
	TypeContact  Type = "contact"
	TypeImage    Type = "image"
)

// KnownTypes lists every section type this build understands, in the
// order the section picker presents them.
var KnownTypes = []Type{TypeHeader, TypeTitle, TypeRichText, TypeEvents, TypeContact, TypeImage}

// Known reports whether t is a section type this build understands.
// Documents may carry types from newer schema versions; those render as
// inert placeholders rather than failing.
func (t Type) Known() bool {
	switch t {
	case TypeHeader, TypeTitle, TypeRichText, TypeEvents, TypeContact, TypeImage:
		return true
	}
	return false
}

// Data is a section's type-specific payload. It stays a plain map so
// keys written by newer schema versions survive a load→save round trip
// untouched. Typed views (HeaderData, EventsData, ...) decode the keys
// the current build knows about; editors merge changes back into a copy
// of the original map instead of rebuilding it.
type Data map[string]interface{}

// Clone returns a deep copy of the data map. Sections hand Clone()d
// data to editors so in-progress edits never alias the stored document.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return Data{}
	}
	var out Data
	if err := json.Unmarshal(raw, &out); err != nil {
		return Data{}
	}
	return out
}

// Section is one typed block of newsletter content.
//
// ID is process-unique and stable across edits and reorders. Order is a
// sort key only: it is not required to be contiguous between a delete
// and the next reorder, and display always sorts a copy of the list.
// Type never changes after creation; edits touch Data and Order only.
type Section struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	Order int    `json:"order"`
	Data  Data   `json:"data,omitempty"`
}

// Clone returns a copy of the section whose data does not alias the
// original.
func (s Section) Clone() Section {
	s.Data = s.Data.Clone()
	return s
}

// decodeData unmarshals the known keys of d into dst, tolerating
// missing fields and unknown extras. A nil map leaves dst at its zero
// value, which every typed view treats as "render the empty state".
func decodeData(d Data, dst interface{}) {
	if d == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// mergeData re-encodes src and lays its keys over a copy of base,
// preserving any keys base carries that src does not model.
func mergeData(base Data, src interface{}) Data {
	out := base.Clone()
	if out == nil {
		out = Data{}
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return out
	}
	var overlay map[string]interface{}
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return out
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

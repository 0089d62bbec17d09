package entity

import "fmt"

// Location is the position of a matched token in the aggregated source text.
type Location struct {
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Text   string `json:"text" yaml:"text"`
}

// IsZero reports whether the location was never set.
func (l Location) IsZero() bool {
	return l.Line == 0 && l.Column == 0 && l.Text == ""
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Token is a captured value together with where it was matched. Value is the
// semantic value (e.g. "1" for the text "[1]").
type Token struct {
	Value    string
	Location Location
}

// SourceMap mirrors the attributes of an entity or property. Only attributes
// that were captured have an entry.
type SourceMap map[Field]Location

// Set records loc for field. A later capture of the same field replaces the
// earlier one.
func (m SourceMap) Set(field Field, loc Location) {
	m[field] = loc
}

// Get returns the location recorded for field.
func (m SourceMap) Get(field Field) (Location, bool) {
	loc, ok := m[field]
	return loc, ok
}

// Has reports whether field has a recorded location.
func (m SourceMap) Has(field Field) bool {
	_, ok := m[field]
	return ok
}

// Clone returns a shallow copy of the map.
func (m SourceMap) Clone() SourceMap {
	out := make(SourceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

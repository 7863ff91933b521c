// Package attr defines the presentation attributes of a code block
// and normalizes the loosely typed attribute maps
// that arrive from the block editor.
//
// Older versions of the editor stored some attributes under other names.
// These legacy names are migrated onto their canonical names
// before anything else looks at the attributes.
package attr

// Canonical attribute names.
const (
	Language         = "language"
	HighlightedLines = "highlightedLines"
	ShowLineNumbers  = "showLineNumbers"
	WrapLines        = "wrapLines"
)

// Legacy attribute names.
const (
	SelectedLines = "selectedLines" // now HighlightedLines
	ShowLines     = "showLines"     // now ShowLineNumbers
)

// _legacy maps legacy attribute names to their canonical names.
var _legacy = []struct{ from, to string }{
	{SelectedLines, HighlightedLines},
	{ShowLines, ShowLineNumbers},
}

// Attributes are the normalized presentation attributes of a code block.
//
// The zero value is the default for every attribute.
type Attributes struct {
	// Language is the slug of the code's language.
	// If empty, the language is auto-detected.
	Language string `json:"language"`

	// HighlightedLines lists 1-based lines to emphasize
	// in the form "1,3-5".
	HighlightedLines string `json:"highlightedLines"`

	// ShowLineNumbers requests a line number gutter.
	ShowLineNumbers bool `json:"showLineNumbers"`

	// WrapLines requests soft-wrapping of long lines.
	WrapLines bool `json:"wrapLines"`
}

// NeedsLines reports whether the highlighted code
// must be split into individually addressable lines.
func (a Attributes) NeedsLines() bool {
	return a.ShowLineNumbers || len(a.HighlightedLines) > 0
}

// Map returns the attributes as a map keyed by canonical names.
func (a Attributes) Map() map[string]any {
	return map[string]any{
		Language:         a.Language,
		HighlightedLines: a.HighlightedLines,
		ShowLineNumbers:  a.ShowLineNumbers,
		WrapLines:        a.WrapLines,
	}
}

// Normalize returns a copy of raw with legacy attribute names
// rewritten to their canonical names
// and every missing canonical attribute set to its default.
//
// If both a legacy name and its canonical name are present,
// the legacy value wins.
// Unknown keys are preserved.
// Normalize is idempotent and does not modify raw.
func Normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+4)
	for k, v := range raw {
		out[k] = v
	}

	for _, l := range _legacy {
		if v, ok := out[l.from]; ok {
			out[l.to] = v
			delete(out, l.from)
		}
	}

	for k, v := range (Attributes{}).Map() {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// FromMap normalizes raw and decodes it into Attributes.
// Values of an unexpected type are replaced with their defaults.
func FromMap(raw map[string]any) Attributes {
	m := Normalize(raw)

	var a Attributes
	a.Language, _ = m[Language].(string)
	a.HighlightedLines, _ = m[HighlightedLines].(string)
	a.ShowLineNumbers, _ = m[ShowLineNumbers].(bool)
	a.WrapLines, _ = m[WrapLines].(bool)
	return a
}

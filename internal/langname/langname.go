// Package langname provides human readable names for language slugs.
package langname

import (
	"bytes"
	_ "embed"
	"strings"

	"go.abhg.dev/codeblock/internal/highlight"
	"go.abhg.dev/codeblock/internal/must"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

//go:embed names.yaml
var _namesYAML []byte

// _names maps language slugs to display names.
var _names = parseNames(_namesYAML)

func parseNames(data []byte) map[string]string {
	names := make(map[string]string)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	must.NotErrorf(dec.Decode(&names), "parse embedded language names")
	return names
}

var _title = cases.Title(language.English)

// Name returns a human readable name for a language slug.
//
// Known slugs use their curated name.
// Otherwise, the highlighter's name for the language is used,
// falling back to a title-cased slug.
func Name(slug string) string {
	if name, ok := _names[slug]; ok {
		return name
	}
	if l := highlight.Lexer(slug); l != nil {
		if name := l.Config().Name; len(name) > 0 {
			return name
		}
	}
	return _title.String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
}

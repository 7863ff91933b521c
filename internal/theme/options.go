package theme

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/highlight"
)

//go:embed static/style.css
var _baseCSS string

// Options are the presentation settings chosen by the site operator.
type Options struct {
	// ThemeName names the highlighting theme.
	// Defaults to highlight.DefaultStyleName if empty.
	ThemeName string

	// HighlightedLineColor overrides the derived highlighted line color.
	HighlightedLineColor string
}

// Theme returns the effective theme name.
func (o *Options) Theme() string {
	if o.ThemeName == "" {
		return highlight.DefaultStyleName
	}
	return o.ThemeName
}

// LineColor returns the highlighted line color:
// the configured color if any, otherwise one derived from the theme.
func (o *Options) LineColor(p Provider) string {
	if c := strings.TrimSpace(o.HighlightedLineColor); c != "" {
		return c
	}
	return DefaultLineColor(p, o.Theme())
}

// DefaultLineColor derives a highlighted line color from a theme.
//
// Dark themes get their background tinted toward white.
// Light themes and themes the provider cannot describe
// get DefaultHighlightedColor.
func DefaultLineColor(p Provider, name string) string {
	bg, err := p.BackgroundColor(name)
	if err != nil || !bg.IsDark() {
		return DefaultHighlightedColor
	}
	return bg.Tint(DarkTint).Hex()
}

// WriteStylesheet writes the base stylesheet for code blocks
// followed by the rule coloring highlighted lines.
func WriteStylesheet(w io.Writer, lineColor string) error {
	if _, err := io.WriteString(w, _baseCSS); err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(WriteLineRule(w, lineColor))
}

// WriteLineRule writes the CSS rule giving highlighted lines their color.
func WriteLineRule(w io.Writer, color string) error {
	_, err := fmt.Fprintf(w, ".%v > mark.shcb-loc { background-color: %v; }\n", highlight.CodeClass, color)
	return errtrace.Wrap(err)
}

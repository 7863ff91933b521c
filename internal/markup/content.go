package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	_brRe = regexp.MustCompile(`(?i)<br\s*/?>`)

	// A URL alone on its line.
	// Hosts turn these into embeds.
	_isolatedURLRe = regexp.MustCompile(`(?m)^(\s*https?:)//([^\s<>"]+\s*)$`)
)

// Decode turns the stored contents of a code block into plain source code.
//
// The block editor serializes line breaks as <br> tags
// and escapes special characters as entities.
// Other inline markup (bold text, links) is left as-is
// and will be highlighted as literal text.
func Decode(content string) string {
	content = _brRe.ReplaceAllString(content, "\n")
	return html.UnescapeString(content)
}

// Escape re-escapes highlighted HTML the way the block editor does
// so that the host's shortcode and auto-embed processing
// leaves the code alone.
//
// Ampersands are already escaped by the highlighter.
func Escape(content string) string {
	content = strings.ReplaceAll(content, "[", "&#91;")
	return _isolatedURLRe.ReplaceAllString(content, "$1&#47;&#47;$2")
}

package highlight

import (
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyleName is the style used when none is configured.
const DefaultStyleName = "github"

// PlainStyle is a minimal syntax highlighting style for Chroma.
// It leaves most text as-is, and fades comments ever so slightly.
var PlainStyle = chroma.MustNewStyle("plain", map[chroma.TokenType]string{
	chroma.Comment:    "#666666",
	chroma.PreWrapper: "bg:#eeeeee",
	chroma.Background: "bg:#eeeeee",
})

func init() {
	styles.Register(PlainStyle)
}

// Style looks up a registered style by name.
func Style(name string) (*chroma.Style, bool) {
	s, ok := styles.Registry[name]
	return s, ok
}

// StyleNames returns the names of all registered styles in sorted order.
func StyleNames() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

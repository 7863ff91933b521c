package theme

import (
	"errors"
	"fmt"
	"slices"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"go.abhg.dev/codeblock/internal/highlight"
)

// ErrUnknownTheme indicates that a theme name is not recognized.
var ErrUnknownTheme = errors.New("unrecognized theme")

// Provider supplies information about the available themes.
type Provider interface {
	// BackgroundColor returns the base background color of a theme.
	// It returns an error wrapping ErrUnknownTheme for unknown themes.
	BackgroundColor(name string) (RGB, error)

	// AvailableThemes lists the names of all known themes.
	AvailableThemes() []string
}

// ChromaProvider is a Provider backed by Chroma's registered styles.
type ChromaProvider struct{}

var _ Provider = ChromaProvider{}

// BackgroundColor returns the background of the named Chroma style.
// Styles without a background are treated as white.
func (ChromaProvider) BackgroundColor(name string) (RGB, error) {
	style, ok := highlight.Style(name)
	if !ok {
		return RGB{}, errtrace.Wrap(fmt.Errorf("%w: %q", ErrUnknownTheme, name))
	}

	bg := style.Get(chroma.Background).Background
	if !bg.IsSet() {
		return RGB{R: 255, G: 255, B: 255}, nil
	}
	return RGB{
		R: float64(bg.Red()),
		G: float64(bg.Green()),
		B: float64(bg.Blue()),
	}, nil
}

// AvailableThemes returns the names of all registered Chroma styles.
func (ChromaProvider) AvailableThemes() []string {
	return highlight.StyleNames()
}

// ValidateTheme reports an error wrapping ErrUnknownTheme
// if name is not one of the provider's themes.
func ValidateTheme(p Provider, name string) error {
	if !slices.Contains(p.AvailableThemes(), name) {
		return errtrace.Wrap(fmt.Errorf("%w: %q", ErrUnknownTheme, name))
	}
	return nil
}

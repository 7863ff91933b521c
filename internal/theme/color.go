// Package theme derives presentation defaults from syntax highlighting themes.
//
// The main product is the background color of highlighted lines.
// Dark themes get a lighter tint of their own background;
// light themes use a fixed light blue.
// An explicitly configured color always takes precedence.
package theme

import (
	"fmt"
	"math"
)

const (
	// DefaultHighlightedColor is the highlighted line color for light themes.
	DefaultHighlightedColor = "#ddf6ff"

	// DarkTint is how far a dark theme's background is tinted toward white
	// to get its highlighted line color.
	DarkTint = 0.15

	// darkThreshold is the luminance at or below which a theme is dark.
	darkThreshold = 0.6
)

// RGB is a color with channels in the range [0, 255].
//
// Channels are floating point so that derived colors
// are only rounded when formatted.
type RGB struct {
	R, G, B float64
}

// Luminance returns the relative luminance of the color
// between 0 (black) and 1 (white).
func (c RGB) Luminance() float64 {
	return 0.2126*(c.R/255) + 0.7152*(c.G/255) + 0.0722*(c.B/255)
}

// IsDark reports whether a background of this color is considered dark.
func (c RGB) IsDark() bool {
	return c.Luminance() <= darkThreshold
}

// Tint moves every channel the given fraction of the way toward white.
func (c RGB) Tint(f float64) RGB {
	return RGB{
		R: c.R + (255-c.R)*f,
		G: c.G + (255-c.G)*f,
		B: c.B + (255-c.B)*f,
	}
}

// Hex formats the color as #RRGGBB, rounding each channel.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Package drawing captures freehand strokes over a media block and
// composites them onto a high-DPI bitmap.
//
// A Session owns the in-progress edit: it turns pointer input into paths,
// keeps the ordered path list and renders it through a Surface. Nothing is
// persisted until Save returns the updated list to the caller.
package drawing

import (
	"image/color"
	"strconv"
	"strings"
)

// Tool selects how a new stroke is painted.
type Tool string

const (
	Pen    Tool = "pen"
	Eraser Tool = "eraser"
)

const (
	// PenWidth is the brush width of pen strokes, in CSS pixels.
	PenWidth = 3.0
	// EraserWidth is the brush width of eraser strokes, in CSS pixels.
	EraserWidth = 20.0
	// GlowRadius is the blur radius of the soft glow under pen strokes.
	GlowRadius = 4.0
	// DefaultColor is the pen color of a new session.
	DefaultColor = "#000000"
)

var namedColors = map[string]color.NRGBA{
	"black":  {0, 0, 0, 255},
	"white":  {255, 255, 255, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 128, 0, 255},
	"blue":   {0, 0, 255, 255},
	"yellow": {255, 255, 0, 255},
	"orange": {255, 165, 0, 255},
	"purple": {128, 0, 128, 255},
	"pink":   {255, 192, 203, 255},
	"gray":   {128, 128, 128, 255},
	"grey":   {128, 128, 128, 255},
}

// ParseColor converts a CSS hex color (#rgb, #rrggbb, #rrggbbaa) or a basic
// color name. The second result is false when s could not be parsed, in which
// case opaque black is returned.
func ParseColor(s string) (color.NRGBA, bool) {
	black := color.NRGBA{A: 255}
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return black, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return black, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return black, false
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, true
}

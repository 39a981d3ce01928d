// Package colorutil provides shared color utilities for the annotation studio.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common UI colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Palette is the set of highly saturated colors offered for annotations.
// Classes cycle through it in order.
var Palette = []color.RGBA{
	{255, 0, 0, 255},   // Red
	{0, 255, 0, 255},   // Green
	{0, 0, 255, 255},   // Blue
	{255, 255, 0, 255}, // Yellow
	{255, 0, 255, 255}, // Magenta
	{0, 255, 255, 255}, // Cyan
	{255, 128, 0, 255}, // Orange
	{128, 0, 255, 255}, // Purple
	{0, 255, 128, 255}, // Spring Green
	{255, 0, 128, 255}, // Rose
	{128, 255, 0, 255}, // Lime
	{0, 128, 255, 255}, // Sky Blue
}

// PaletteColor returns the n-th palette color, wrapping around.
func PaletteColor(n int) color.RGBA {
	if n < 0 {
		n = -n
	}
	return Palette[n%len(Palette)]
}

// ToHex formats a color as "#RRGGBB".
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FromHex parses "#RRGGBB" (case-insensitive, leading '#' optional).
// Invalid input returns White.
func FromHex(s string) color.RGBA {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return White
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return White
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

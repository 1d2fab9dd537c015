// Package typography derives label font sizes from viewport geometry.
package typography

import "unicode/utf8"

const (
	// HeightFactor scales the viewport height into a font size bound.
	HeightFactor = 0.45
	// WidthFactor scales the viewport width shared by all glyphs.
	WidthFactor = 0.80

	MinFontSize = 24
	MaxFontSize = 280

	// PlaceholderText stands in for an empty label when measuring.
	PlaceholderText = "00:00:00"
)

// FitFontSize returns the largest size that fits text both vertically and
// horizontally inside a width x height viewport, clamped to
// [MinFontSize, MaxFontSize].
func FitFontSize(width, height int, text string) int {
	if text == "" {
		text = PlaceholderText
	}
	glyphs := utf8.RuneCountInString(text)
	if glyphs < 1 {
		glyphs = 1
	}

	byHeight := float64(height) * HeightFactor
	byWidth := float64(width) * WidthFactor / float64(glyphs)
	return Clamp(int(min(byHeight, byWidth)))
}

// Clamp bounds a font size to the supported range.
func Clamp(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

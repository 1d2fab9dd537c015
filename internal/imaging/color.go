package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"focustimer/internal/core/model"
)

// FallbackHex is the neutral background used whenever no image color is known.
const FallbackHex = "#f0f0f3"

// FallbackColor is FallbackHex as a color value.
var FallbackColor = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf3, A: 0xff}

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Hex formats an RGB color as #rrggbb.
func Hex(value color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", value.R, value.G, value.B)
}

// ParseHex parses #rrggbb (the leading # is optional).
func ParseHex(value string) (color.NRGBA, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(trimmed) != 6 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: want 6 hex digits", value)
	}
	rgb, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
	}
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
}

// ParseHexOr parses value and falls back when it is malformed.
func ParseHexOr(value string, fallback color.NRGBA) color.NRGBA {
	parsed, err := ParseHex(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Luminance returns the relative luminance of value in [0,1].
func Luminance(value color.NRGBA) float64 {
	return 0.2126*float64(value.R)/255 + 0.7152*float64(value.G)/255 + 0.0722*float64(value.B)/255
}

// ContrastForeground picks black text on light backgrounds and white otherwise.
func ContrastForeground(background color.NRGBA) color.NRGBA {
	if Luminance(background) > 0.6 {
		return black
	}
	return white
}

// TextColor picks the label color for a background: the contrast tint when
// dynamic tint is on, the configured time color otherwise.
func TextColor(appearance model.Appearance, background color.NRGBA) color.NRGBA {
	if appearance.TintDynamic {
		return ContrastForeground(background)
	}
	return ParseHexOr(appearance.TimeColor, black)
}

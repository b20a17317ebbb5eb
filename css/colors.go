package css

import (
	"strconv"
	"strings"
)

// Color represents an RGBA color with 0-255 channels.
type Color struct {
	R, G, B, A uint8
}

// NamedColors maps the CSS2 basic color keywords to their values.
// Reference: https://www.w3.org/TR/CSS2/syndata.html#color-units
var NamedColors = map[string]Color{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"silver":  {R: 192, G: 192, B: 192, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"maroon":  {R: 128, G: 0, B: 0, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"fuchsia": {R: 255, G: 0, B: 255, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"lime":    {R: 0, G: 255, B: 0, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
	"aqua":    {R: 0, G: 255, B: 255, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},

	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a named color or a #rgb, #rgba, #rrggbb or #rrggbbaa
// hex color.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))

	if color, ok := NamedColors[s]; ok {
		return color, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHashColor(s[1:])
	}
	return Color{}, false
}

// parseHashColor parses the hex digits of a hash color.
func parseHashColor(hex string) (Color, bool) {
	for _, r := range hex {
		if !isHexDigit(r) {
			return Color{}, false
		}
	}

	channel := func(s string) uint8 {
		if len(s) == 1 {
			s += s
		}
		v, _ := strconv.ParseUint(s, 16, 8)
		return uint8(v)
	}

	switch len(hex) {
	case 3:
		return Color{R: channel(hex[0:1]), G: channel(hex[1:2]), B: channel(hex[2:3]), A: 255}, true
	case 4:
		return Color{R: channel(hex[0:1]), G: channel(hex[1:2]), B: channel(hex[2:3]), A: channel(hex[3:4])}, true
	case 6:
		return Color{R: channel(hex[0:2]), G: channel(hex[2:4]), B: channel(hex[4:6]), A: 255}, true
	case 8:
		return Color{R: channel(hex[0:2]), G: channel(hex[2:4]), B: channel(hex[4:6]), A: channel(hex[6:8])}, true
	default:
		return Color{}, false
	}
}

// ColorToString converts a Color to a CSS hex color string.
func ColorToString(c Color) string {
	if c.A == 255 {
		return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
	}
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B) + hexByte(c.A)
}

func hexByte(b uint8) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}

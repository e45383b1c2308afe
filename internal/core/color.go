package core

import (
	"strconv"
	"strings"
)

// Color represents a foreground color for a screen cell.
type Color uint8

// Palette colors. Ball tags and rarity colors map onto these.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	colorCount
)

// palette holds the RGB value of each color; ColorDefault has none.
var palette = [colorCount]uint32{
	ColorRed:           0xCD3131,
	ColorGreen:         0x0DBC79,
	ColorYellow:        0xE5E510,
	ColorBlue:          0x2472C8,
	ColorMagenta:       0xBC3FBC,
	ColorCyan:          0x11A8CD,
	ColorWhite:         0xE5E5E5,
	ColorBrightRed:     0xEF4444,
	ColorBrightGreen:   0x10B981,
	ColorBrightYellow:  0xF5F543,
	ColorBrightBlue:    0x6366F1,
	ColorBrightMagenta: 0xD670D6,
	ColorBrightCyan:    0x29B8DB,
	ColorBrightWhite:   0xFFFFFF,
	ColorOrange:        0xF59E0B,
	ColorGray:          0x8A8A8A,
}

// Hex returns the color as "#RRGGBB", or "" for ColorDefault.
func (c Color) Hex() string {
	if c == ColorDefault || c >= colorCount {
		return ""
	}
	s := strconv.FormatUint(uint64(palette[c]), 16)
	return "#" + strings.ToUpper(strings.Repeat("0", 6-len(s))+s)
}

// Colors returns every palette color except ColorDefault.
func Colors() []Color {
	out := make([]Color, 0, colorCount-1)
	for c := ColorRed; c < colorCount; c++ {
		out = append(out, c)
	}
	return out
}

// NearestColor maps a "#RRGGBB" string to the closest palette color.
// Malformed input yields ColorBrightWhite.
func NearestColor(hex string) Color {
	rgb, ok := parseHex(hex)
	if !ok {
		return ColorBrightWhite
	}

	best, bestDist := ColorBrightWhite, -1
	for _, c := range Colors() {
		d := rgbDistance(rgb, palette[c])
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func parseHex(hex string) (uint32, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func rgbDistance(a, b uint32) int {
	dr := int(a>>16&0xFF) - int(b>>16&0xFF)
	dg := int(a>>8&0xFF) - int(b>>8&0xFF)
	db := int(a&0xFF) - int(b&0xFF)
	return dr*dr + dg*dg + db*db
}

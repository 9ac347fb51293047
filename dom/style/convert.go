package style

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color interprets a property value as a color. Recognized are hex
// notation (#rgb and #rrggbb), rgb()/rgba() and the basic named colors.
// Transparent colors do not convert.
func (p Property) Color() (colorful.Color, bool) {
	s := strings.ToLower(strings.TrimSpace(string(p)))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) == 4 {
			s = "#" + s[1:2] + s[1:2] + s[2:3] + s[2:3] + s[3:4] + s[3:4]
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGBFunction(s)
	}
	return colorful.Color{}, false
}

func parseRGBFunction(s string) (colorful.Color, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return colorful.Color{}, false
	}
	args := strings.Split(s[open+1:end], ",")
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, false
	}
	if len(args) == 4 {
		if a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64); err != nil || a == 0 {
			return colorful.Color{}, false
		}
	}
	var rgb [3]float64
	for i := 0; i < 3; i++ {
		v := strings.TrimSpace(args[i])
		scale := 255.0
		if strings.HasSuffix(v, "%") {
			v, scale = strings.TrimSuffix(v, "%"), 100.0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return colorful.Color{}, false
		}
		rgb[i] = f / scale
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Clamped(), true
}

// IsTransparent is true for color values which do not paint anything.
func IsTransparent(p Property) bool {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(p))), " ", "")
	switch s {
	case "transparent", "", "default":
		return true
	}
	return strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ",0)")
}

// NormalizeColor returns a canonical form of a color value: lower case
// #rrggbb, or "transparent". Values which are not colors are returned
// unchanged.
func NormalizeColor(p Property) Property {
	if IsTransparent(p) {
		return "transparent"
	}
	if c, ok := p.Color(); ok {
		return Property(c.Hex())
	}
	return p
}

// ColorString formats a color in #rrggbb notation. nil is transparent.
func ColorString(c color.Color) string {
	if c == nil {
		return "transparent"
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "transparent"
	}
	return cf.Hex()
}

var namedColors = map[string]string{
	"black":   "#000000",
	"silver":  "#c0c0c0",
	"gray":    "#808080",
	"grey":    "#808080",
	"white":   "#ffffff",
	"maroon":  "#800000",
	"red":     "#ff0000",
	"purple":  "#800080",
	"fuchsia": "#ff00ff",
	"magenta": "#ff00ff",
	"green":   "#008000",
	"lime":    "#00ff00",
	"olive":   "#808000",
	"yellow":  "#ffff00",
	"navy":    "#000080",
	"blue":    "#0000ff",
	"teal":    "#008080",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"orange":  "#ffa500",
}

package css

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	dimenLarger  uint32 = 0x0a00
	dimenSmaller uint32 = 0x0b00
	relativeMask uint32 = 0xff00
)

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d      dimen.DU
	factor float64 // for relative dimensions
	flags  uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage factor
	| FontRel factor
	| Larger | Smaller
*/

func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Pixels creates a CSS dimension with a fixed value of px pixels.
func Pixels(px float64) DimenT {
	return JustDimen(PixelsToDU(px))
}

// Percentage creates a CSS dimension with a %-relative value, e.g. 80 for 80%.
func Percentage(n float64) DimenT {
	return DimenT{factor: n / 100, flags: dimenPercent}
}

// EM creates a CSS dimension relative to the font size of the parent.
func EM(n float64) DimenT {
	return DimenT{factor: n, flags: dimenEM}
}

// Larger is the font size keyword "larger".
func Larger() DimenT {
	return DimenT{factor: relativeFontStep, flags: dimenLarger}
}

// Smaller is the font size keyword "smaller".
func Smaller() DimenT {
	return DimenT{factor: 1 / relativeFontStep, flags: dimenSmaller}
}

const relativeFontStep = 1.2

// IsAbsolute is true for fixed dimensions.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsRelative is true for dimensions which have to be resolved against a
// reference value.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask > 0
}

// Resolve returns the absolute value of d, given the value it is relative to
// (for font sizes this is the parent's font size). Auto, inherit and initial
// do not resolve.
func (d DimenT) Resolve(reference dimen.DU) (dimen.DU, bool) {
	switch {
	case d.IsAbsolute():
		return d.d, true
	case d.IsRelative():
		return dimen.DU(math.Round(float64(reference) * d.factor)), true
	}
	return 0, false
}

func (d DimenT) String() string {
	switch d.flags & kindMask {
	case dimenAuto:
		return "auto"
	case dimenInherit:
		return "inherit"
	case dimenInitial:
		return "initial"
	case dimenAbsolute:
		return FormatPixels(DUToPixels(d.d))
	}
	switch d.flags & relativeMask {
	case dimenPercent:
		return strconv.FormatFloat(d.factor*100, 'f', -1, 64) + "%"
	case dimenEM:
		return strconv.FormatFloat(d.factor, 'f', -1, 64) + "em"
	case dimenLarger:
		return "larger"
	case dimenSmaller:
		return "smaller"
	}
	return "none"
}

// --- Parsing ---------------------------------------------------------------

// ParseDimen parses a CSS length or font size value. Supported are
// px, pt, em, rem (treated as em), %, the absolute font size keywords
// (xx-small … xx-large), larger, smaller, auto, inherit and initial.
func ParseDimen(s string) (DimenT, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return DimenT{}, fmt.Errorf("css: empty dimension")
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "larger":
		return Larger(), nil
	case "smaller":
		return Smaller(), nil
	case "0":
		return JustDimen(0), nil
	}
	if px, ok := fontSizeKeywords[s]; ok {
		return Pixels(px), nil
	}
	num, unit := splitUnit(s)
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return DimenT{}, fmt.Errorf("css: cannot parse dimension %q", s)
	}
	switch unit {
	case "px":
		return Pixels(f), nil
	case "pt":
		return JustDimen(dimen.DU(math.Round(f * float64(dimen.PT)))), nil
	case "em", "rem":
		return EM(f), nil
	case "%":
		return Percentage(f), nil
	}
	return DimenT{}, fmt.Errorf("css: unsupported unit %q in %q", unit, s)
}

func splitUnit(s string) (string, string) {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	return s[:i], s[i:]
}

// --- Pixels ----------------------------------------------------------------

// A CSS pixel is 0.75 points.
const pointsPerPixel = 0.75

// PixelsToDU converts CSS pixels to design units.
func PixelsToDU(px float64) dimen.DU {
	return dimen.DU(math.Round(px * pointsPerPixel * float64(dimen.PT)))
}

// DUToPixels converts design units to CSS pixels.
func DUToPixels(d dimen.DU) float64 {
	px := float64(d) / float64(dimen.PT) / pointsPerPixel
	return math.Round(px*100) / 100
}

// FormatPixels formats a pixel value the way computed styles carry it,
// e.g. "13px" or "14.4px".
func FormatPixels(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}

// fontSizeKeywords maps absolute font size keywords to pixels, for a
// medium font size of 16px.
var fontSizeKeywords = map[string]float64{
	"xx-small":          9,
	"x-small":           10,
	"small":             13,
	"medium":            16,
	"large":             18,
	"x-large":           24,
	"xx-large":          32,
	"-webkit-xxx-large": 48,
}

// legacyFontSizes is the table for <font size=1…7>, in pixels.
var legacyFontSizes = [...]float64{0, 10, 13, 16, 18, 24, 32, 48}

// LegacyFontSizePixels returns the pixel size of a legacy font size 1…7.
func LegacyFontSizePixels(n int) (float64, bool) {
	if n < 1 || n >= len(legacyFontSizes) {
		return 0, false
	}
	return legacyFontSizes[n], true
}

// LegacyFontSizeForPixels returns the legacy font size exactly matching a
// pixel size. It fails if no table entry matches.
func LegacyFontSizeForPixels(px float64) (int, bool) {
	for n := 1; n < len(legacyFontSizes); n++ {
		if legacyFontSizes[n] == px {
			return n, true
		}
	}
	return 0, false
}

// ParseLegacyFontSize interprets the value of a <font size> attribute.
// Values may be absolute ("5") or relative to 3 ("+1", "-2") and are
// clamped to 1…7.
func ParseLegacyFontSize(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	rel := v[0] == '+' || v[0] == '-'
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	if rel {
		n += 3
	}
	if n < 1 {
		n = 1
	} else if n > 7 {
		n = 7
	}
	return n, true
}

// ---------------------------------------------------------------------------

func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

type Matcher struct {
	dimen DimenT
}

func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case (m.dimen.flags&kindMask) != dimenNone && (m.dimen.flags&kindMask) == (d.flags&kindMask):
		return m
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&relativeMask == dimenPercent) != (d.flags&relativeMask == dimenPercent) {
			return nil
		}
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	}
	return nil
}

func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags&kindMask == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

// Percentage matches %-relative dimensions and extracts the percentage.
func (m *Matcher) Percentage(p *float64) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.factor * 100
		}
		return m
	}
	return nil
}

// FontRelative matches em-relative dimensions and the keywords larger and
// smaller, extracting the factor to apply to the parent font size.
func (m *Matcher) FontRelative(f *float64) *Matcher {
	switch m.dimen.flags & relativeMask {
	case dimenEM, dimenLarger, dimenSmaller:
		if f != nil {
			*f = m.dimen.factor
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

type DimenPatterns[T any] struct {
	Auto     T
	Inherit  T
	Initial  T
	Just     T
	Relative T
	Default  T
}

func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

type MatchExpr[T any] struct {
	dimen DimenT
}

func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch m.dimen.flags & kindMask {
	case dimenAuto:
		return patterns.Auto
	case dimenAbsolute:
		return patterns.Just
	case dimenInitial:
		return patterns.Initial
	case dimenInherit:
		return patterns.Inherit
	}
	if m.dimen.IsRelative() {
		return patterns.Relative
	}
	return patterns.Default
}

func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.dimen.d
	return m
}

// WithFactor extracts the factor of a relative dimension.
func (m *MatchExpr[T]) WithFactor(f *float64) *MatchExpr[T] {
	*f = m.dimen.factor
	return m
}

func (m *MatchExpr[T]) Const(x T) T {
	return x
}

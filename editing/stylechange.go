package editing

import (
	"strconv"
	"strings"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/css"
)

// StyleChange is the markup needed to get an EditingStyle at a position,
// given the style already in effect there. Unless the editor styles with
// CSS, properties with a legacy HTML encoding are turned into flags for
// <b>, <i>, <u>, <strike>, <sub>, <sup> and attributes of <font>. The
// rest remains as CSS text for a style span.
type StyleChange struct {
	CSSStyle         string // residual declarations
	ApplyBold        bool
	ApplyItalic      bool
	ApplyUnderline   bool
	ApplyLineThrough bool
	ApplySubscript   bool
	ApplySuperscript bool
	FontColor        string // <font color>
	FontFace         string // <font face>
	FontSize         string // <font size>
}

// NewStyleChange computes the style change needed at pos.
func NewStyleChange(ed *Editor, s *EditingStyle, pos dom.Position) StyleChange {
	var sc StyleChange
	if s == nil || s.props.IsEmpty() || pos.IsNull() {
		return sc
	}
	computed := computedStyleForComparison(ed.styles, pos.ContainerNode())
	ps := getPropertiesNotIn(s.props, computed)
	reconcileTextDecorationProperties(ps)
	if !ed.settings.StyleWithCSS {
		sc.extractTextStyles(ps)
	}
	if ps.Has("unicode-bidi") && !ps.Has("direction") {
		if dir, ok := s.props.Get("direction"); ok {
			ps.Set("direction", dir, false)
		}
	}
	sc.CSSStyle = strings.TrimSpace(ps.Text())
	return sc
}

// ApplyFontColor is true if a <font color> is needed.
func (sc StyleChange) ApplyFontColor() bool { return sc.FontColor != "" }

// ApplyFontFace is true if a <font face> is needed.
func (sc StyleChange) ApplyFontFace() bool { return sc.FontFace != "" }

// ApplyFontSize is true if a <font size> is needed.
func (sc StyleChange) ApplyFontSize() bool { return sc.FontSize != "" }

// NeedsFontElement is true if any <font> attribute is needed.
func (sc StyleChange) NeedsFontElement() bool {
	return sc.ApplyFontColor() || sc.ApplyFontFace() || sc.ApplyFontSize()
}

// IsEmpty is true if nothing has to be applied.
func (sc StyleChange) IsEmpty() bool {
	return sc == StyleChange{}
}

// reconcileTextDecorationProperties turns the decorations in effect into
// text-decoration and drops a text-decoration of none.
func reconcileTextDecorationProperties(ps *style.PropertySet) {
	if v, ok := ps.Get(style.TextDecorationsInEffect); ok {
		ps.Set("text-decoration", v, false)
		ps.Remove(style.TextDecorationsInEffect)
	}
	if v, ok := ps.Get("text-decoration"); ok && len(v.Fields()) == 0 {
		ps.Remove("text-decoration")
	}
}

// styleExtraction is a row of the table of properties with a legacy HTML
// encoding. extract moves whatever it can encode from ps into the style
// change.
type styleExtraction struct {
	property string
	encoding string // element or attribute used
	extract  func(sc *StyleChange, ps *style.PropertySet)
}

var legacyStyleTable = []styleExtraction{
	{property: "font-weight", encoding: "<b>", extract: extractBold},
	{property: "font-style", encoding: "<i>", extract: extractItalic},
	{property: "text-decoration", encoding: "<u>, <strike>", extract: extractTextDecoration},
	{property: "vertical-align", encoding: "<sub>, <sup>", extract: extractVerticalAlign},
	{property: "color", encoding: "<font color>", extract: extractFontColor},
	{property: "font-family", encoding: "<font face>", extract: extractFontFace},
	{property: "font-size", encoding: "<font size>", extract: extractFontSize},
}

func (sc *StyleChange) extractTextStyles(ps *style.PropertySet) {
	for _, row := range legacyStyleTable {
		if ps.Has(row.property) {
			row.extract(sc, ps)
		}
	}
}

func extractBold(sc *StyleChange, ps *style.PropertySet) {
	if css.NormalizeFontWeight(ps.Value("font-weight")) == "bold" {
		ps.Remove("font-weight")
		sc.ApplyBold = true
	}
}

func extractItalic(sc *StyleChange, ps *style.PropertySet) {
	switch lower(ps.Value("font-style").String()) {
	case "italic", "oblique":
		ps.Remove("font-style")
		sc.ApplyItalic = true
	}
}

func extractTextDecoration(sc *StyleChange, ps *style.PropertySet) {
	var kept []string
	for _, f := range ps.Value("text-decoration").Fields() {
		switch f {
		case "underline":
			sc.ApplyUnderline = true
		case "line-through":
			sc.ApplyLineThrough = true
		default:
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		ps.Remove("text-decoration")
		return
	}
	ps.Set("text-decoration", style.Property(strings.Join(kept, " ")), false)
}

func extractVerticalAlign(sc *StyleChange, ps *style.PropertySet) {
	switch lower(ps.Value("vertical-align").String()) {
	case "sub":
		ps.Remove("vertical-align")
		sc.ApplySubscript = true
	case "super":
		ps.Remove("vertical-align")
		sc.ApplySuperscript = true
	}
}

func extractFontColor(sc *StyleChange, ps *style.PropertySet) {
	v := ps.Value("color")
	if c, ok := v.Color(); ok {
		sc.FontColor = style.ColorString(c)
	} else {
		sc.FontColor = v.String()
	}
	ps.Remove("color")
}

func extractFontFace(sc *StyleChange, ps *style.PropertySet) {
	sc.FontFace = strings.ReplaceAll(ps.Value("font-family").String(), "'", "")
	ps.Remove("font-family")
}

func extractFontSize(sc *StyleChange, ps *style.PropertySet) {
	if n := legacyFontSizeFromCSSValue(ps.Value("font-size")); n > 0 {
		sc.FontSize = strconv.Itoa(n)
		ps.Remove("font-size")
	}
}

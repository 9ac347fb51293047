package editing

import (
	"sort"

	cssval "github.com/npillmayer/richedit/css"
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"golang.org/x/net/html"
)

// styleSpanClass marks spans created by style application. Such spans may
// be reused and removed freely by later style changes.
const styleSpanClass = "richedit-style-span"

// elementEquivalent maps a presentational element to the style it implies,
// e.g. <b> to font-weight: bold.
type elementEquivalent struct {
	tag      string
	property string
	value    string
	list     bool // value is one item of a list-valued property
}

// matches is true if elem is an element of this tag.
func (eq elementEquivalent) matches(elem *html.Node) bool {
	return dom.IsElement(elem, eq.tag)
}

func (eq elementEquivalent) propertyExistsInStyle(ps *style.PropertySet) bool {
	if eq.list {
		return ps.Has(style.TextDecorationsInEffect) || ps.Has("text-decoration")
	}
	return ps.Has(eq.property)
}

// valueIsPresentInStyle is true if elem matches and ps requests exactly the
// style elem implies.
func (eq elementEquivalent) valueIsPresentInStyle(elem *html.Node, ps *style.PropertySet) bool {
	if !eq.matches(elem) {
		return false
	}
	if eq.list {
		v, ok := ps.Get(style.TextDecorationsInEffect)
		if !ok {
			v, ok = ps.Get("text-decoration")
		}
		return ok && containsField(v, eq.value)
	}
	v, ok := ps.Get(eq.property)
	return ok && normalizedValue(eq.property, v) == normalizedValue(eq.property, style.Property(eq.value))
}

func (eq elementEquivalent) addToStyle(elem *html.Node, ps *style.PropertySet) {
	if eq.list {
		fields := unionFields(ps.Value(eq.property).Fields(), []string{eq.value})
		ps.Set(eq.property, style.Property(canonicalDecorations(fields)), false)
		return
	}
	ps.Set(eq.property, style.Property(eq.value), false)
}

var elementEquivalents = []elementEquivalent{
	{tag: "b", property: "font-weight", value: "bold"},
	{tag: "strong", property: "font-weight", value: "bold"},
	{tag: "sub", property: "vertical-align", value: "sub"},
	{tag: "sup", property: "vertical-align", value: "super"},
	{tag: "i", property: "font-style", value: "italic"},
	{tag: "em", property: "font-style", value: "italic"},
	{tag: "u", property: style.TextDecorationsInEffect, value: "underline", list: true},
	{tag: "s", property: style.TextDecorationsInEffect, value: "line-through", list: true},
	{tag: "strike", property: style.TextDecorationsInEffect, value: "line-through", list: true},
}

// attributeEquivalent maps a presentational attribute to a property, e.g.
// <font color> to color. An empty tag matches any element.
type attributeEquivalent struct {
	tag       string
	attribute string
	property  string
}

func (eq attributeEquivalent) matches(elem *html.Node) bool {
	if elem == nil || elem.Type != html.ElementNode {
		return false
	}
	if eq.tag != "" && !dom.IsElement(elem, eq.tag) {
		return false
	}
	return dom.HasAttribute(elem, eq.attribute)
}

func (eq attributeEquivalent) propertyExistsInStyle(ps *style.PropertySet) bool {
	return ps.Has(eq.property)
}

// valueAsProperty interprets the attribute of elem as a value of the
// equivalent property. ok is false for empty or uninterpretable values.
func (eq attributeEquivalent) valueAsProperty(elem *html.Node) (style.Property, bool) {
	v, _ := dom.AttributeValue(elem, eq.attribute)
	if v == "" {
		return style.NullStyle, false
	}
	switch eq.property {
	case "font-size":
		n, ok := cssval.ParseLegacyFontSize(v)
		if !ok {
			return style.NullStyle, false
		}
		px, _ := cssval.LegacyFontSizePixels(n)
		return style.Property(cssval.FormatPixels(px)), true
	case "direction":
		switch v = lower(v); v {
		case "ltr", "rtl":
			return style.Property(v), true
		}
		return style.NullStyle, false
	case "unicode-bidi":
		switch lower(v) {
		case "ltr", "rtl":
			return "embed", true
		}
		return style.NullStyle, false
	}
	return style.Property(v), true
}

func (eq attributeEquivalent) valueIsPresentInStyle(elem *html.Node, ps *style.PropertySet) bool {
	v, ok := eq.valueAsProperty(elem)
	sv, has := ps.Get(eq.property)
	if !ok || !has {
		return ok == has
	}
	return normalizedValue(eq.property, v) == normalizedValue(eq.property, sv)
}

func (eq attributeEquivalent) addToStyle(elem *html.Node, ps *style.PropertySet) {
	if v, ok := eq.valueAsProperty(elem); ok {
		ps.Set(eq.property, v, false)
	}
}

// Every attribute equivalent matches exactly one attribute of exactly one
// element, except for dir.
var attributeEquivalents = []attributeEquivalent{
	{tag: "font", attribute: "color", property: "color"},
	{tag: "font", attribute: "face", property: "font-family"},
	{tag: "font", attribute: "size", property: "font-size"},
	{attribute: "dir", property: "direction"},
	{attribute: "dir", property: "unicode-bidi"},
}

// areIdenticalElements is true if a and b are elements with the same tag
// name and exactly the same attributes, regardless of attribute order.
func areIdenticalElements(a, b *html.Node) bool {
	if a == nil || b == nil || a.Type != html.ElementNode || b.Type != html.ElementNode {
		return false
	}
	if a.Data != b.Data || a.Namespace != b.Namespace || len(a.Attr) != len(b.Attr) {
		return false
	}
	return sameAttributes(a.Attr, b.Attr)
}

func sameAttributes(a, b []html.Attribute) bool {
	sorted := func(attrs []html.Attribute) []html.Attribute {
		s := append([]html.Attribute(nil), attrs...)
		sort.Slice(s, func(i, j int) bool {
			if s[i].Namespace != s[j].Namespace {
				return s[i].Namespace < s[j].Namespace
			}
			return s[i].Key < s[j].Key
		})
		return s
	}
	sa, sb := sorted(a), sorted(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// isStyleSpan is true for a <span> created by style application.
func isStyleSpan(n *html.Node) bool {
	if !dom.IsElement(n, "span") {
		return false
	}
	v, _ := dom.AttributeValue(n, "class")
	return v == styleSpanClass
}

// isStyleSpanOrSpanWithOnlyStyleAttribute is true for spans whose only
// purpose is carrying style.
func isStyleSpanOrSpanWithOnlyStyleAttribute(n *html.Node) bool {
	if !dom.IsElement(n, "span") {
		return false
	}
	for _, a := range n.Attr {
		switch {
		case a.Key == "style":
		case a.Key == "class" && a.Val == styleSpanClass:
		default:
			return false
		}
	}
	return true
}

// isSpanWithoutAttributesOrUnstyledStyleSpan is true for spans which do
// not contribute anything and may be unwrapped.
func isSpanWithoutAttributesOrUnstyledStyleSpan(n *html.Node) bool {
	if !dom.IsElement(n, "span") {
		return false
	}
	if len(n.Attr) == 0 {
		return true
	}
	return isStyleSpan(n) && len(n.Attr) == 1 ||
		isStyleSpan(n) && len(n.Attr) == 2 && inlineStyle(n).IsEmpty() && dom.HasAttribute(n, "style")
}

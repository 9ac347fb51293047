package style

import (
	"strings"

	"github.com/npillmayer/richedit/css"
	"golang.org/x/net/html"
)

// Values "default" have the following semantics:
// Treat this as an inherent UA default, which should not be instantiated in memory,
// but rather will be treated implicitely by rendering code.
var nonInherited = map[string]string{
	"position":            "static",
	"background-color":    "transparent",
	"border-top-color":    "default",
	"border-left-color":   "default",
	"border-right-color":  "default",
	"border-bottom-color": "default",
	"flow-from":           "none",
	"flow-into":           "none",
	"text-decoration":     "none",
	"vertical-align":      "baseline",
	"unicode-bidi":        "normal",
	"overflow":            "visible",
	"page-break-after":    "auto",
	"page-break-before":   "auto",
	"page-break-inside":   "auto",
}

var isDimension = map[string]string{
	"width":                      "auto",
	"height":                     "auto",
	"min-width":                  "none",
	"min-height":                 "none",
	"max-width":                  "none",
	"max-height":                 "none",
	"top":                        "0",
	"right":                      "0",
	"bottom":                     "0",
	"left":                       "0",
	"margin-top":                 "0",
	"margin-left":                "0",
	"margin-right":               "0",
	"margin-bottom":              "0",
	"padding-top":                "0",
	"padding-left":               "0",
	"padding-right":              "0",
	"padding-bottom":             "0",
	"border-top-width":           "medium",
	"border-left-width":          "medium",
	"border-right-width":         "medium",
	"border-bottom-width":        "medium",
	"border-top-left-radius":     "0",
	"border-top-right-radius":    "0",
	"border-bottom-left-radius":  "0",
	"border-bottom-right-radius": "0",
}

// initialInherited are the initial values of inherited properties, i.e. the
// values of the document root if nothing else is specified.
var initialInherited = map[string]string{
	"color":                 "#000000",
	"font-family":           "serif",
	"font-size":             "16px",
	"font-style":            "normal",
	"font-variant":          "normal",
	"font-weight":           "normal",
	"letter-spacing":        "normal",
	"line-height":           "normal",
	"orphans":               "2",
	"widows":                "2",
	"text-align":            "start",
	"text-indent":           "0px",
	"text-transform":        "none",
	"white-space":           "normal",
	"word-spacing":          "0px",
	"direction":             "ltr",
	TextDecorationsInEffect: "none",
}

// GetUserAgentDefaultProperty returns the user-agent default property for a given key.
func GetUserAgentDefaultProperty(node *html.Node, key string) Property {
	if key == "display" {
		return DisplayPropertyForHTMLNode(node)
	}
	if dim, ok := isDimension[key]; ok {
		return Property(dim)
	}
	if p, ok := nonInherited[key]; ok {
		return Property(p)
	}
	if p, ok := initialInherited[key]; ok {
		return Property(p)
	}
	return NullStyle
}

// InitialValue returns the initial value of an inherited property, or
// NullStyle if key is not an inherited property known to the user agent.
func InitialValue(key string) Property {
	return Property(initialInherited[key])
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "script", "style", "title", "meta", "link", "template":
		return "none"
	case "html", "address", "article", "aside", "blockquote", "body", "center",
		"dd", "dir", "div", "dl", "dt", "fieldset", "figure", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "main", "nav",
		"ol", "p", "pre", "section", "ul", "menu", "listing", "xmp", "plaintext":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "caption":
		return "table-caption"
	case "thead":
		return "table-header-group"
	case "tbody":
		return "table-row-group"
	case "tfoot":
		return "table-footer-group"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "img", "input", "button", "select", "textarea":
		return "inline-block"
	}
	return "inline"
}

// PresentationalHints returns the style implied by an element's tag and
// legacy attributes, e.g. font-weight for <b> or color for <font color>.
// Hints have lower precedence than any author style.
func PresentationalHints(node *html.Node) []KeyValue {
	if node == nil || node.Type != html.ElementNode {
		return nil
	}
	var hints []KeyValue
	add := func(k, v string) {
		hints = append(hints, KeyValue{Key: k, Value: Property(v)})
	}
	switch node.Data {
	case "b", "strong", "th":
		add("font-weight", "bold")
	case "i", "em", "cite", "var", "dfn", "address":
		add("font-style", "italic")
	case "u", "ins":
		add("text-decoration", "underline")
	case "s", "strike", "del":
		add("text-decoration", "line-through")
	case "sub":
		add("vertical-align", "sub")
		add("font-size", "smaller")
	case "sup":
		add("vertical-align", "super")
		add("font-size", "smaller")
	case "big":
		add("font-size", "larger")
	case "small":
		add("font-size", "smaller")
	case "center":
		add("text-align", "center")
	case "pre", "listing", "xmp", "plaintext":
		add("white-space", "pre")
		add("font-family", "monospace")
	case "code", "tt", "kbd", "samp":
		add("font-family", "monospace")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		add("font-weight", "bold")
		add("font-size", headingSizes[node.Data])
	case "font":
		if v, ok := attr(node, "color"); ok {
			add("color", v)
		}
		if v, ok := attr(node, "face"); ok {
			add("font-family", v)
		}
		if v, ok := attr(node, "size"); ok {
			if n, ok := css.ParseLegacyFontSize(v); ok {
				px, _ := css.LegacyFontSizePixels(n)
				add("font-size", css.FormatPixels(px))
			}
		}
	}
	if v, ok := attr(node, "dir"); ok && node.Data != "bdo" {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "ltr" || v == "rtl" {
			add("direction", v)
			add("unicode-bidi", "embed")
		}
	}
	if v, ok := attr(node, "align"); ok && DisplayPropertyForHTMLNode(node) != "inline" {
		v = strings.ToLower(strings.TrimSpace(v))
		switch v {
		case "left", "right", "center", "justify":
			add("text-align", v)
		}
	}
	return hints
}

var headingSizes = map[string]string{
	"h1": "2em",
	"h2": "1.5em",
	"h3": "1.17em",
	"h4": "1em",
	"h5": "0.83em",
	"h6": "0.67em",
}

func attr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// InitializeDefaultPropertyValues creates an internal data structure to
// hold all the default values for CSS properties.
// In real-world browsers these are the user-agent CSS values.
func InitializeDefaultPropertyValues(additionalProps []KeyValue) *PropertyMap {
	m := make(map[string]*PropertyGroup, 15)
	root := NewPropertyGroup("Root")

	x := NewPropertyGroup(PGX) // special group for extension properties
	for _, kv := range additionalProps {
		x.Set(kv.Key, kv.Value)
	}
	m[PGX] = x

	margins := NewPropertyGroup(PGMargins)
	for _, k := range []string{"margin-top", "margin-left", "margin-right", "margin-bottom"} {
		margins.Set(k, "0")
	}
	margins.Parent = root
	m[PGMargins] = margins

	display := NewPropertyGroup(PGDisplay)
	display.Set("display", "block")
	display.Set("float", "none")
	display.Set("visibility", "visible")
	display.Set("position", "static")
	display.Set("vertical-align", "baseline")
	display.Set("unicode-bidi", "normal")
	display.Set("overflow", "visible")
	display.Parent = root
	m[PGDisplay] = display

	color := NewPropertyGroup(PGColor)
	color.Set("color", Property(initialInherited["color"]))
	color.Set("background-color", "transparent")
	color.Parent = root
	m[PGColor] = color

	font := NewPropertyGroup(PGFont)
	text := NewPropertyGroup(PGText)
	for k, v := range initialInherited {
		switch GroupNameFromPropertyKey(k) {
		case PGFont:
			font.Set(k, Property(v))
		case PGText:
			text.Set(k, Property(v))
		}
	}
	text.Set("text-decoration", "none")
	font.Parent = root
	text.Parent = root
	m[PGFont] = font
	m[PGText] = text

	return &PropertyMap{m}
}

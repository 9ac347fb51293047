package style

// Non-standard properties used by editing.
const (
	// TextDecorationsInEffect accumulates the text decorations of a node and
	// all of its ancestors, as text-decoration itself is not inherited.
	TextDecorationsInEffect = "-webkit-text-decorations-in-effect"
	// FontSizeDelta requests a relative change of the font size, in px.
	FontSizeDelta = "-webkit-font-size-delta"
)

// InheritableEditingProperties are the properties editing carries from one
// position to text inserted at another.
var InheritableEditingProperties = []string{
	"color",
	"font-family",
	"font-size",
	"font-style",
	"font-variant",
	"font-weight",
	"letter-spacing",
	"line-height",
	"orphans",
	"text-align",
	"text-indent",
	"text-transform",
	"white-space",
	"widows",
	"word-spacing",
	TextDecorationsInEffect,
}

// EditingProperties are all the properties editing reasons about: the
// inheritable ones plus the non-inherited background color and text
// decoration.
var EditingProperties = append(append([]string(nil), InheritableEditingProperties...),
	"background-color",
	"text-decoration",
)

// BlockProperties apply to a paragraph as a whole and are set on the
// enclosing block, never on inline wrappers.
var BlockProperties = []string{
	"orphans",
	"overflow",
	"page-break-after",
	"page-break-before",
	"page-break-inside",
	"text-align",
	"text-indent",
	"widows",
}

// TextOnlyProperties are compared on text nodes only when computing the
// tri-state of a style over a selection.
var TextOnlyProperties = []string{
	"text-decoration",
	TextDecorationsInEffect,
}

// DirectionProperties carry explicit text direction.
var DirectionProperties = []string{
	"unicode-bidi",
	"direction",
}

func contains(list []string, key string) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

// IsEditingProperty is a predicate for EditingProperties.
func IsEditingProperty(key string) bool {
	return contains(EditingProperties, key)
}

// IsInheritableEditingProperty is a predicate for InheritableEditingProperties.
func IsInheritableEditingProperty(key string) bool {
	return contains(InheritableEditingProperties, key)
}

// IsBlockProperty is a predicate for BlockProperties.
func IsBlockProperty(key string) bool {
	return contains(BlockProperties, key)
}

// IsTextOnlyProperty is a predicate for TextOnlyProperties.
func IsTextOnlyProperty(key string) bool {
	return contains(TextOnlyProperties, key)
}

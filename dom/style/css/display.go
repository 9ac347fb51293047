package css

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// DisplayMode is a type for CSS property "display". The low nibble holds
// the outer display type, the rest the inner one.
type DisplayMode uint16

// Flags for box context and display mode (outer and inner).
const (
	NoMode          DisplayMode = iota   // unset or error condition
	DisplayNone     DisplayMode = 0x0001 // CSS outer display = none
	BlockMode       DisplayMode = 0x0002 // CSS block context (inner or outer)
	InlineMode      DisplayMode = 0x0004 // CSS inline context
	ContentsMode    DisplayMode = 0x0008 // CSS display = contents, no box of its own
	FlowRootMode    DisplayMode = 0x0010 // CSS flow-root display property
	ListItemMode    DisplayMode = 0x0020 // CSS list-item display
	FlexMode        DisplayMode = 0x0040 // CSS inner display = flex
	GridMode        DisplayMode = 0x0080 // CSS inner display = grid
	TableMode       DisplayMode = 0x0100 // CSS table display property (inner or outer)
	InnerBlockMode  DisplayMode = 0x0200 // CSS inner block mode (inline-block)
	InnerInlineMode DisplayMode = 0x0400 // CSS inner inline mode (paragraphs)
	TableCellMode   DisplayMode = 0x0800 // table cells and captions
)

var displayModeNames = []struct {
	mode DisplayMode
	name string
}{
	{DisplayNone, "none"},
	{BlockMode, "block"},
	{InlineMode, "inline"},
	{ContentsMode, "contents"},
	{FlowRootMode, "flow-root"},
	{ListItemMode, "list-item"},
	{FlexMode, "flex"},
	{GridMode, "grid"},
	{TableMode, "table"},
	{InnerBlockMode, "inner-block"},
	{InnerInlineMode, "inner-inline"},
	{TableCellMode, "table-cell"},
}

// String lists the atomic modes of disp, e.g. "block|list-item".
func (disp DisplayMode) String() string {
	if disp == NoMode {
		return "no-mode"
	}
	var names []string
	for _, m := range displayModeNames {
		if disp.Contains(m.mode) {
			names = append(names, m.name)
		}
	}
	return strings.Join(names, "|")
}

// Outer returns outer mode
func (disp DisplayMode) Outer() DisplayMode {
	return disp & 0x000f
}

// Inner returns inner mode
func (disp DisplayMode) Inner() DisplayMode {
	return disp & 0xfff0
}

// IsBlockLevel return true if it has outer display level of BlockMode.
// Block-level elements start and end paragraphs: 'block', 'list-item',
// 'flex', 'grid' and the table displays are block-level.
func (disp DisplayMode) IsBlockLevel() bool {
	return disp.Outer() == BlockMode
}

// IsInlineLevel is true for modes which take part in the surrounding
// paragraph, including 'inline-block' and 'inline-table'.
func (disp DisplayMode) IsInlineLevel() bool {
	return disp.Outer() == InlineMode
}

// IsHidden is true for 'display: none'.
func (disp DisplayMode) IsHidden() bool {
	return disp.Outer() == DisplayNone
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// ParseDisplay returns mode flags from a display property string (outer and inner).
// Unknown values are treated as block-level and reported as an error.
func ParseDisplay(display string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(display)) {
	case "":
		return NoMode, nil
	case "none":
		return DisplayNone, nil
	case "contents":
		return ContentsMode, nil
	case "block", "flow":
		return BlockMode | InnerBlockMode, nil
	case "flow-root":
		return BlockMode | FlowRootMode, nil
	case "inline":
		return InlineMode | InnerInlineMode, nil
	case "list-item":
		return ListItemMode | BlockMode, nil
	case "inline-block":
		return InlineMode | InnerBlockMode, nil
	case "flex":
		return BlockMode | FlexMode, nil
	case "inline-flex":
		return InlineMode | FlexMode, nil
	case "grid":
		return BlockMode | GridMode, nil
	case "inline-grid":
		return InlineMode | GridMode, nil
	case "table", "table-row-group", "table-header-group", "table-footer-group", "table-row":
		return BlockMode | TableMode, nil
	case "table-cell", "table-caption":
		return BlockMode | TableMode | TableCellMode, nil
	case "inline-table":
		return InlineMode | TableMode, nil
	}
	return BlockMode, fmt.Errorf("unknown display mode: %s", display)
}

// DisplayMode returns the display mode of a node. Text nodes are inline,
// the document node is a block.
func (r *Resolver) DisplayMode(n *html.Node) DisplayMode {
	switch {
	case n == nil:
		return NoMode
	case n.Type == html.DocumentNode:
		return BlockMode | InnerBlockMode
	case n.Type != html.ElementNode:
		return InlineMode | InnerInlineMode
	}
	mode, err := ParseDisplay(r.ComputedProperty(n, "display").String())
	if err != nil {
		tracer().Debugf("%v", err)
	}
	return mode
}

// IsBlockLevel is true if n is laid out as a block, with respect to its
// computed display.
func (r *Resolver) IsBlockLevel(n *html.Node) bool {
	return r.DisplayMode(n).IsBlockLevel()
}

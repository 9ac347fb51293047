package editing

import (
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

const nbsp = ' '

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == nbsp
}

func isCollapsibleWhitespace(r rune) bool {
	return r == ' ' || r == '\n'
}

// preservesWhitespace is true if the white-space mode of a text node keeps
// runs of spaces.
func (c *CompositeEditCommand) preservesWhitespace(text *html.Node) bool {
	switch c.ed.styles.ComputedProperty(text, "white-space") {
	case "pre", "pre-wrap", "break-spaces":
		return true
	}
	return false
}

// preservesNewlines is true if newlines of a text node are rendered as line
// breaks.
func (c *CompositeEditCommand) preservesNewlines(text *html.Node) bool {
	switch c.ed.styles.ComputedProperty(text, "white-space") {
	case "pre", "pre-wrap", "pre-line", "break-spaces":
		return true
	}
	return false
}

// stringWithRebalancedWhitespace returns a run of whitespace of the same
// length which survives whitespace collapsing: spaces alternate with
// non-breaking spaces, and a run at the start or end of a paragraph starts
// or ends with a non-breaking space.
func stringWithRebalancedWhitespace(s string, startIsStartOfParagraph, endIsEndOfParagraph bool) string {
	rs := []rune(s)
	out := make([]rune, len(rs))
	prevWasSpace := false
	for i, r := range rs {
		if !isWhitespace(r) {
			out[i] = r
			prevWasSpace = false
			continue
		}
		if prevWasSpace || (i == 0 && startIsStartOfParagraph) || (i+1 == len(rs) && endIsEndOfParagraph) {
			out[i] = nbsp
			prevWasSpace = false
		} else {
			out[i] = ' '
			prevWasSpace = true
		}
	}
	return string(out)
}

// rebalanceWhitespaceAt rebalances the run of whitespace around a position
// inside a text node.
func (c *CompositeEditCommand) rebalanceWhitespaceAt(pos dom.Position) {
	text := pos.ContainerNode()
	if pos.AnchorType() != dom.OffsetInAnchor || !dom.IsText(text) || text.Parent == nil {
		return
	}
	rs := []rune(text.Data)
	if len(rs) == 0 || c.preservesWhitespace(text) {
		return
	}
	off := pos.Offset()
	atWhitespace := off < len(rs) && isWhitespace(rs[off])
	beforeWhitespace := off > 0 && off <= len(rs) && isWhitespace(rs[off-1])
	if !atWhitespace && !beforeWhitespace {
		return
	}
	c.rebalanceWhitespaceOnTextSubstring(text, off, off)
}

// rebalanceWhitespaceOnTextSubstring extends [start, end) to the maximal
// surrounding run of whitespace and replaces the run by its rebalanced
// form, if that differs.
func (c *CompositeEditCommand) rebalanceWhitespaceOnTextSubstring(text *html.Node, start, end int) {
	rs := []rune(text.Data)
	up := start
	for up > 0 && isWhitespace(rs[up-1]) {
		up--
	}
	down := end
	for down < len(rs) && isWhitespace(rs[down]) {
		down++
	}
	if up == down {
		return
	}
	l := c.layout()
	atStart := up == 0 && l.IsStartOfParagraph(l.VisiblePosition(dom.PositionInNode(text, up)))
	atEnd := down == len(rs) && l.IsEndOfParagraph(l.VisiblePosition(dom.PositionInNode(text, down)))
	run := string(rs[up:down])
	rebalanced := stringWithRebalancedWhitespace(run, atStart, atEnd)
	if rebalanced != run {
		c.replaceTextInNode(text, up, down-up, rebalanced)
	}
}

// rebalanceWhitespace rebalances whitespace at both ends of the ending
// selection.
func (c *CompositeEditCommand) rebalanceWhitespace() {
	sel := c.ending
	if sel.IsNone() {
		return
	}
	c.rebalanceWhitespaceAt(sel.Start())
	if sel.IsRange() {
		c.rebalanceWhitespaceAt(sel.End())
	}
}

// prepareWhitespaceAtPositionForSplit makes the whitespace around a
// position robust against content being inserted there: collapsed text is
// removed, and collapsible spaces adjacent to the position are replaced
// by non-breaking spaces, as they would collapse away at a new paragraph
// boundary.
func (c *CompositeEditCommand) prepareWhitespaceAtPositionForSplit(pos *dom.Position) {
	l := c.layout()
	container := pos.ContainerNode()
	if container == nil || !dom.IsText(container) && !canHaveChildrenForEditing(container) {
		return
	}
	release := c.ed.tracker.track(pos)
	defer release()
	upstream, downstream := l.Upstream(*pos), l.Downstream(*pos)
	c.deleteInsignificantTextBetween(upstream, downstream)
	if upstream.IsOrphan(c.doc()) {
		return
	}
	*pos = l.Downstream(upstream)
	vp := l.VisiblePosition(*pos)
	prev := l.Previous(vp, layout.Character)
	if !prev.IsNull() && isCollapsibleWhitespaceString(l.CharacterAfter(prev)) {
		if at := l.Downstream(prev.DeepEquivalent()); dom.IsText(at.ContainerNode()) {
			c.replaceCollapsibleCharacterWithNBSP(at)
		}
	}
	if isCollapsibleWhitespaceString(l.CharacterAfter(l.VisiblePosition(*pos))) {
		if at := l.Downstream(*pos); dom.IsText(at.ContainerNode()) {
			c.replaceCollapsibleCharacterWithNBSP(at)
		}
	}
}

func isCollapsibleWhitespaceString(s string) bool {
	rs := []rune(s)
	return len(rs) == 1 && isCollapsibleWhitespace(rs[0])
}

func (c *CompositeEditCommand) replaceCollapsibleCharacterWithNBSP(at dom.Position) {
	text, off := at.ContainerNode(), at.OffsetInContainer()
	rs := []rune(text.Data)
	if off < 0 || off >= len(rs) || !isCollapsibleWhitespace(rs[off]) || c.preservesWhitespace(text) {
		return
	}
	c.replaceTextInNode(text, off, 1, string(nbsp))
}

package editing

import (
	"github.com/npillmayer/richedit/dom"
	"golang.org/x/net/html"
)

// InsertLineBreakCommand inserts a line break at the ending selection,
// replacing a range selection. Text with preserved newlines receives a
// newline character, everything else a <br>.
type InsertLineBreakCommand struct {
	CompositeEditCommand
}

// NewInsertLineBreakCommand creates a command inserting a line break.
func NewInsertLineBreakCommand(ed *Editor) *InsertLineBreakCommand {
	cmd := &InsertLineBreakCommand{}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *InsertLineBreakCommand) EditingAction() EditAction {
	return EditActionTyping
}

func (cmd *InsertLineBreakCommand) preservesTypingStyle() bool { return true }

func (cmd *InsertLineBreakCommand) nodeToInsert(pos dom.Position) *html.Node {
	if text := pos.ContainerNode(); dom.IsText(text) && cmd.preservesNewlines(text) {
		return dom.CreateText("\n")
	}
	return dom.CreateElement("br")
}

func (cmd *InsertLineBreakCommand) doApply() {
	cmd.deleteSelection(false, true, false, false)
	sel := cmd.ending
	if !sel.IsNonOrphanedCaretOrRange(cmd.doc()) {
		return
	}
	cmd.doc().UpdateLayout()
	l := cmd.layout()
	caret := sel.VisibleStart(l)
	if caret.IsNull() {
		return
	}
	pos := l.Upstream(caret.DeepEquivalent())
	node := cmd.nodeToInsert(pos)
	container := pos.ContainerNode()
	offset := pos.OffsetInContainer()

	switch {
	case l.IsEndOfParagraph(caret) && !cmd.lineBreakExistsAtVisiblePosition(caret):
		// a single break at the end of a paragraph collapses, so it needs a
		// second one to open the new line
		needExtra := !dom.IsElement(container, "hr", "table")
		cmd.insertNodeAt(node, pos)
		if needExtra {
			cmd.insertNodeBefore(dom.CloneNode(node, false), node)
		}
		cmd.setEndingCaret(dom.PositionInParentBefore(node))
	case offset <= cmd.caretMinOffset(container):
		cmd.insertNodeAt(node, pos)
		l = cmd.layout()
		if !l.IsStartOfParagraph(l.VisiblePosition(dom.PositionInParentBefore(node))) {
			cmd.insertNodeBefore(dom.CloneNode(node, false), node)
		}
		cmd.setEndingCaret(dom.PositionInParentAfter(node))
	case offset >= cmd.caretMaxOffset(container) || !dom.IsText(container):
		cmd.insertNodeAt(node, pos)
		cmd.setEndingCaret(dom.PositionInParentAfter(node))
	default:
		cmd.splitTextNode(container, offset)
		cmd.insertNodeBefore(node, container)
		ending := dom.FirstPositionInNode(container)
		cmd.doc().UpdateLayout()
		if !cmd.layout().IsRenderedOffset(container, 0) {
			// whitespace after the split collapsed: replace it by a single
			// non-breaking space
			positionBeforeText := dom.PositionInParentBefore(container)
			cmd.deleteInsignificantTextDownstream(ending)
			if cmd.doc().Contains(container) {
				cmd.insertTextIntoNode(container, 0, string(nbsp))
			} else {
				nbspText := dom.CreateText(string(nbsp))
				cmd.insertNodeAt(nbspText, positionBeforeText)
				ending = dom.FirstPositionInNode(nbspText)
			}
		}
		cmd.setEndingCaret(ending)
	}
	tracer().Debugf("inserted line break %s", dom.NodeName(node))

	if ts := cmd.ed.typingStyle; ts != nil && !ts.IsEmpty() && cmd.doc().Contains(node) {
		// the break carries the typing style, so that it survives the
		// caret leaving the line
		cmd.applyStyleToRange(ts.Copy(), firstPositionInOrBeforeNode(node), lastPositionInOrAfterNode(node), EditActionUnspecified)
		cmd.setEndingCaret(cmd.ending.End())
	}
	cmd.rebalanceWhitespace()
}

// caretMinOffset is the first offset of n a caret may take.
func (c *CompositeEditCommand) caretMinOffset(n *html.Node) int {
	if dom.IsText(n) {
		if runs := c.layout().RenderedRuns(n); len(runs) > 0 {
			return runs[0].From
		}
	}
	return 0
}

// caretMaxOffset is the last offset of n a caret may take.
func (c *CompositeEditCommand) caretMaxOffset(n *html.Node) int {
	if dom.IsText(n) {
		if runs := c.layout().RenderedRuns(n); len(runs) > 0 {
			return runs[len(runs)-1].To
		}
		return dom.TextLength(n)
	}
	return dom.MaxOffset(n)
}

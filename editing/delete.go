package editing

import (
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// DeleteSelectionCommand removes the content of a range selection. The
// paragraphs the range started and ended in are merged afterwards, if
// requested. An emptied block keeps a placeholder, so that it still has a
// caret position.
type DeleteSelectionCommand struct {
	CompositeEditCommand
	selection                VisibleSelection
	hasSelection             bool
	smartDelete              bool
	mergeBlocksAfterDelete   bool
	replace                  bool // the deleted content is about to be replaced
	expandForSpecialElements bool
	start, end               dom.Position // tracked during deletion
	typingStyle              *EditingStyle
}

// NewDeleteSelectionCommand creates a command deleting the ending
// selection of the command it is applied in, or the editor's selection
// for a top-level command.
func NewDeleteSelectionCommand(ed *Editor, smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements bool) *DeleteSelectionCommand {
	cmd := &DeleteSelectionCommand{
		smartDelete:              smartDelete,
		mergeBlocksAfterDelete:   mergeBlocksAfterDelete,
		replace:                  replace,
		expandForSpecialElements: expandForSpecialElements,
	}
	cmd.init(ed, cmd)
	return cmd
}

func newDeleteSelectionCommandFor(ed *Editor, sel VisibleSelection, smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements bool) *DeleteSelectionCommand {
	cmd := NewDeleteSelectionCommand(ed, smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements)
	cmd.selection, cmd.hasSelection = sel, true
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *DeleteSelectionCommand) EditingAction() EditAction {
	return EditActionDelete
}

func (cmd *DeleteSelectionCommand) preservesTypingStyle() bool {
	return cmd.typingStyle != nil
}

func (cmd *DeleteSelectionCommand) doApply() {
	if !cmd.hasSelection {
		cmd.selection = cmd.ending
	}
	if !cmd.selection.IsNonOrphanedRange(cmd.doc()) {
		return
	}
	cmd.doc().UpdateLayout()
	l := cmd.layout()
	cmd.start, cmd.end = cmd.selection.Start(), cmd.selection.End()
	if cmd.expandForSpecialElements {
		cmd.expandOverSpecialElements()
	}
	if cmd.smartDelete {
		cmd.extendForSmartDelete()
	}
	startVP, endVP := l.VisiblePosition(cmd.start), l.VisiblePosition(cmd.end)
	merge := cmd.mergeBlocksAfterDelete && !l.InSameParagraph(startVP, endVP) &&
		enclosingTableCell(cmd.start) == enclosingTableCell(cmd.end)
	if !cmd.replace {
		cmd.saveTypingStyle()
	}
	tracer().Debugf("delete selection %s…%s, merge=%v", cmd.start, cmd.end, merge)
	release := cmd.ed.tracker.track(&cmd.start, &cmd.end)
	defer release()

	cmd.deleteRange()
	ending := cmd.start
	if merge {
		ending = cmd.mergeParagraphs()
	}
	if ending.IsOrphan(cmd.doc()) {
		ending = cmd.start
	}
	ending = cmd.addPlaceholderIfNeeded(ending)
	cmd.rebalanceWhitespaceAt(ending)
	if !cmd.replace {
		cmd.typingStyleAfterDelete(ending)
	}
	cmd.setEndingCaret(ending)
}

// --- Selection adjustments -------------------------------------------------

// isSpecialElement is true for elements which are deleted as a whole if
// the selection covers all of their content.
func isSpecialElement(n *html.Node) bool {
	if dom.IsElement(n, "a") && dom.HasAttribute(n, "href") {
		return true
	}
	return dom.IsTable(n) || dom.IsList(n)
}

// positionBeforeContainingSpecialElement returns the position before the
// highest special element p is the first caret position of.
func (cmd *DeleteSelectionCommand) positionBeforeContainingSpecialElement(p dom.Position) (dom.Position, *html.Node) {
	l := cmd.layout()
	vp := l.VisiblePosition(p)
	var special *html.Node
	root := dom.RootEditableElement(p.ContainerNode())
	for n := p.ContainerNode(); n != nil && n != root; n = n.Parent {
		if isSpecialElement(n) {
			if !l.VisiblePosition(dom.FirstPositionInNode(n)).Equal(vp) {
				break
			}
			special = n
		}
	}
	if special == nil {
		return p, nil
	}
	return dom.PositionInParentBefore(special), special
}

// positionAfterContainingSpecialElement returns the position after the
// highest special element p is the last caret position of.
func (cmd *DeleteSelectionCommand) positionAfterContainingSpecialElement(p dom.Position) (dom.Position, *html.Node) {
	l := cmd.layout()
	vp := l.VisiblePosition(p)
	var special *html.Node
	root := dom.RootEditableElement(p.ContainerNode())
	for n := p.ContainerNode(); n != nil && n != root; n = n.Parent {
		if isSpecialElement(n) {
			if !l.VisiblePosition(dom.LastPositionInNode(n)).Equal(vp) {
				break
			}
			special = n
		}
	}
	if special == nil {
		return p, nil
	}
	return dom.PositionInParentAfter(special), special
}

// expandOverSpecialElements widens the range to fully selected links,
// lists and tables, so that they are removed instead of being emptied.
func (cmd *DeleteSelectionCommand) expandOverSpecialElements() {
	l := cmd.layout()
	visibleStart, visibleEnd := l.VisiblePosition(cmd.start), l.VisiblePosition(cmd.end)
	s, startSpecial := cmd.positionBeforeContainingSpecialElement(cmd.start)
	e, endSpecial := cmd.positionAfterContainingSpecialElement(cmd.end)
	if startSpecial == nil && endSpecial == nil {
		return
	}
	if !l.VisiblePosition(s).Equal(visibleStart) || !l.VisiblePosition(e).Equal(visibleEnd) {
		return
	}
	// a special element is only included if it is fully selected
	if startSpecial != nil && endSpecial == nil && dom.PositionInParentAfter(startSpecial).Compare(cmd.end) > 0 {
		return
	}
	if endSpecial != nil && startSpecial == nil && cmd.start.Compare(dom.PositionInParentBefore(endSpecial)) > 0 {
		return
	}
	switch {
	case startSpecial != nil && endSpecial != nil && dom.IsAncestor(endSpecial, startSpecial):
		cmd.start = s
	case startSpecial != nil && endSpecial != nil && dom.IsAncestor(startSpecial, endSpecial):
		cmd.end = e
	default:
		cmd.start, cmd.end = s, e
	}
}

func isSpaceString(s string) bool {
	return s == " " || s == string(nbsp)
}

// extendForSmartDelete deletes one of the spaces around a deleted word, so
// that no double space is left behind.
func (cmd *DeleteSelectionCommand) extendForSmartDelete() {
	l := cmd.layout()
	startVP, endVP := l.VisiblePosition(cmd.start), l.VisiblePosition(cmd.end)
	before, after := l.CharacterBefore(startVP), l.CharacterAfter(endVP)
	switch {
	case isSpaceString(before) && (after == "" || isSpaceString(after) || isPunctuation(after)):
		if prev := l.Previous(startVP, layout.Character); !prev.IsNull() {
			cmd.start = l.Downstream(prev.DeepEquivalent())
		}
	case isSpaceString(after) && before == "":
		if next := l.Next(endVP, layout.Character); !next.IsNull() {
			cmd.end = l.Upstream(next.DeepEquivalent())
		}
	}
}

func isPunctuation(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsPunct(r)
}

func enclosingTableCell(p dom.Position) *html.Node {
	n := p.ContainerNode()
	return dom.EnclosingNodeOfType(n, dom.IsTableCell, dom.RootEditableElement(n))
}

// --- Typing style ----------------------------------------------------------

// saveTypingStyle remembers the style of the deleted content, so that
// typing at the place of the deletion continues in this style.
func (cmd *DeleteSelectionCommand) saveTypingStyle() {
	if cmd.start.ContainerNode() == cmd.end.ContainerNode() && dom.IsText(cmd.start.ContainerNode()) {
		return
	}
	cmd.typingStyle = EditingStyleAtPosition(cmd.ed.styles, cmd.start, EditingPropertiesInEffect)
}

func (cmd *DeleteSelectionCommand) typingStyleAfterDelete(ending dom.Position) {
	if cmd.typingStyle == nil {
		return
	}
	cmd.typingStyle.PrepareToApplyAt(cmd.ed.styles, ending)
	if cmd.typingStyle.IsEmpty() {
		cmd.typingStyle = nil
	}
	cmd.ed.typingStyle = cmd.typingStyle
}

// --- Deletion --------------------------------------------------------------

func isTableStructureNode(n *html.Node) bool {
	return dom.IsElement(n, "td", "th", "tr", "tbody", "thead", "tfoot", "caption", "colgroup", "col")
}

// deleteRange removes the content between start and end: the tail of a
// partially selected start text, all fully selected nodes and the head of
// a partially selected end text.
func (cmd *DeleteSelectionCommand) deleteRange() {
	startText, endText := cmd.start.ContainerNode(), cmd.end.ContainerNode()
	if startText == endText && dom.IsText(startText) {
		so, eo := cmd.start.OffsetInContainer(), cmd.end.OffsetInContainer()
		cmd.deleteTextFromNode(startText, so, eo-so)
		cmd.removeIfEmptyText(startText)
		return
	}
	contained := dom.ContainedNodes(cmd.start, cmd.end)
	if dom.IsText(startText) {
		so := cmd.start.OffsetInContainer()
		cmd.deleteTextFromNode(startText, so, dom.TextLength(startText)-so)
	}
	for _, n := range contained {
		if !cmd.doc().Contains(n) || !dom.IsContentEditable(n.Parent) {
			continue
		}
		if isTableStructureNode(n) {
			cmd.clearTableStructure(n)
			continue
		}
		cmd.removeNode(n)
	}
	if dom.IsText(endText) && cmd.doc().Contains(endText) {
		cmd.deleteTextFromNode(endText, 0, cmd.end.OffsetInContainer())
	}
	cmd.removeIfEmptyText(startText)
	cmd.removeIfEmptyText(endText)
}

// clearTableStructure removes the content of the cells of a partially
// selected table, keeping rows and cells.
func (cmd *DeleteSelectionCommand) clearTableStructure(n *html.Node) {
	if dom.IsTableCell(n) {
		cmd.removeChildrenInRange(n, 0, dom.ChildCount(n))
		cmd.appendBlockPlaceholder(n)
		return
	}
	for _, ch := range dom.Children(n) {
		if isTableStructureNode(ch) {
			cmd.clearTableStructure(ch)
		} else {
			cmd.removeNode(ch)
		}
	}
}

// removeIfEmptyText removes a text node without content, together with
// the inline ancestors it leaves empty.
func (cmd *DeleteSelectionCommand) removeIfEmptyText(text *html.Node) {
	if !dom.IsText(text) || text.Data != "" || !cmd.doc().Contains(text) {
		return
	}
	parent := text.Parent
	cmd.removeNode(text)
	for parent != nil && parent.FirstChild == nil && parent.Type == html.ElementNode &&
		!cmd.layout().IsBlock(parent) && !dom.IsReplaced(parent) && dom.IsContentEditable(parent.Parent) {
		next := parent.Parent
		cmd.removeNode(parent)
		parent = next
	}
}

// --- Merging ---------------------------------------------------------------

// mergeParagraphs moves the paragraph the deletion ended in to the end of
// the paragraph it started in. It returns the caret position for the
// ending selection.
func (cmd *DeleteSelectionCommand) mergeParagraphs() dom.Position {
	doc, l := cmd.doc(), cmd.layout()
	if cmd.start.IsOrphan(doc) || cmd.end.IsOrphan(doc) || cmd.end.Before(cmd.start) {
		return cmd.start
	}
	startBlock := dom.EnclosingBlock(cmd.start.ContainerNode())
	endBlock := dom.EnclosingBlock(cmd.end.ContainerNode())
	root := dom.RootEditableElement(cmd.start.ContainerNode())
	// the end block has been emptied out: nothing to move
	if endBlock != nil && endBlock != root && endBlock != startBlock &&
		!dom.IsAncestor(endBlock, cmd.start.ContainerNode()) && !cmd.hasRenderedChild(endBlock, nil) {
		cmd.removeNode(endBlock)
		return cmd.start
	}
	destination := l.VisiblePosition(cmd.start)
	startOfParagraphToMove := l.VisiblePosition(cmd.end)
	// the start block has been emptied out: give it a caret position
	if startBlock != nil && startBlock != root && !dom.IsAncestor(startBlock, cmd.end.ContainerNode()) &&
		!cmd.hasRenderedChild(startBlock, nil) {
		br := dom.CreateElement("br")
		cmd.insertNodeAt(br, cmd.start)
		destination = l.VisiblePosition(dom.PositionInParentBefore(br))
		startOfParagraphToMove = l.VisiblePosition(cmd.end)
	}
	if destination.IsNull() || startOfParagraphToMove.IsNull() || destination.Equal(startOfParagraphToMove) ||
		l.InSameParagraph(destination, startOfParagraphToMove) {
		return cmd.start
	}
	moved := startOfParagraphToMove.DeepEquivalent().DeepestNode()
	if !l.IsStartOfParagraph(destination) && isNonInlineObject(moved) {
		return cmd.start
	}
	endOfParagraphToMove := l.EndOfParagraph(startOfParagraphToMove)
	isEmpty := startOfParagraphToMove.Equal(endOfParagraphToMove)
	cmd.moveParagraphs(startOfParagraphToMove, endOfParagraphToMove, destination, false, !isEmpty)
	return cmd.ending.Start()
}

// isNonInlineObject is true for tables, horizontal rules and block images,
// which cannot be merged into a line of text.
func isNonInlineObject(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return dom.IsTable(n) || dom.IsElement(n, "hr") || dom.IsReplaced(n) && dom.IsBlock(n)
}

// addPlaceholderIfNeeded keeps an emptied block open. It returns the
// position for the caret.
func (cmd *DeleteSelectionCommand) addPlaceholderIfNeeded(pos dom.Position) dom.Position {
	c := pos.ContainerNode()
	if c == nil {
		return pos
	}
	block := dom.EnclosingBlock(c)
	if block == nil || !dom.IsContentEditable(block) {
		return pos
	}
	if br := cmd.addBlockPlaceholderIfNeeded(block); br != nil {
		return dom.PositionInParentBefore(br)
	}
	return pos
}

package editing

import (
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// InsertParagraphSeparatorCommand splits the paragraph at the ending
// selection into two blocks. Inline ancestors of the split point are
// recreated in the new block, and the style at the split point carries
// over to the new paragraph.
type InsertParagraphSeparatorCommand struct {
	CompositeEditCommand
	mustUseDefaultParagraphElement bool
	style                          *EditingStyle
}

// NewInsertParagraphSeparatorCommand creates a command splitting the
// current paragraph. With useDefaultParagraphElement the new block is
// always a default paragraph element instead of a copy of the block
// being split.
func NewInsertParagraphSeparatorCommand(ed *Editor, useDefaultParagraphElement bool) *InsertParagraphSeparatorCommand {
	cmd := &InsertParagraphSeparatorCommand{mustUseDefaultParagraphElement: useDefaultParagraphElement}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *InsertParagraphSeparatorCommand) EditingAction() EditAction {
	return EditActionTyping
}

func (cmd *InsertParagraphSeparatorCommand) preservesTypingStyle() bool { return true }

// calculateStyleBeforeInsertion remembers the style at pos if pos is at a
// paragraph boundary. Inside a paragraph the moved content keeps its
// style anyway.
func (cmd *InsertParagraphSeparatorCommand) calculateStyleBeforeInsertion(pos dom.Position) {
	l := cmd.layout()
	vp := l.VisiblePosition(pos)
	if !l.IsStartOfParagraph(vp) && !l.IsEndOfParagraph(vp) {
		return
	}
	cmd.style = EditingStyleAtPosition(cmd.ed.styles, pos, InheritableProperties)
	cmd.style.MergeTypingStyle(cmd.ed)
}

func (cmd *InsertParagraphSeparatorCommand) applyStyleAfterInsertion(originalEnclosingBlock *html.Node) {
	// headers are left, their style does not continue
	if cmd.style == nil || isHeaderElement(originalEnclosingBlock) {
		return
	}
	cmd.style.PrepareToApplyAt(cmd.ed.styles, cmd.ending.Start())
	if !cmd.style.IsEmpty() {
		cmd.applyStyle(cmd.style, EditActionUnspecified)
	}
}

func (cmd *InsertParagraphSeparatorCommand) shouldUseDefaultParagraphElement(block *html.Node) bool {
	if cmd.mustUseDefaultParagraphElement {
		return true
	}
	l := cmd.layout()
	if !l.IsEndOfBlock(cmd.ending.VisibleStart(l)) {
		return false
	}
	return isHeaderElement(block)
}

func (cmd *InsertParagraphSeparatorCommand) doApply() {
	if !cmd.ending.IsNonOrphanedCaretOrRange(cmd.doc()) {
		return
	}
	cmd.doc().UpdateLayout()
	insertionPosition := cmd.ending.Start()
	if cmd.ending.IsRange() {
		cmd.calculateStyleBeforeInsertion(insertionPosition)
		cmd.deleteSelection(false, true, false, false)
		insertionPosition = cmd.ending.Start()
	}
	l := cmd.layout()
	startBlock := dom.EnclosingBlock(insertionPosition.ParentAnchored().ContainerNode())
	canonical := l.VisiblePosition(insertionPosition).DeepEquivalent()
	if startBlock == nil || startBlock.Parent == nil || dom.IsTableCell(startBlock) ||
		dom.IsElement(startBlock, "form") || dom.IsElement(canonical.DeepestNode(), "table", "hr") {
		cmd.applyCommandToComposite(NewInsertLineBreakCommand(cmd.ed))
		return
	}
	insertionPosition = l.Upstream(insertionPosition)
	cmd.calculateStyleBeforeInsertion(insertionPosition)
	if cmd.breakOutOfEmptyListItem() {
		return
	}
	release := cmd.ed.tracker.track(&insertionPosition)
	defer release()

	// A paragraph directly in the editing host is wrapped into a block of
	// its own first, so that the split results in two sibling blocks.
	if startBlock == dom.RootEditableElement(startBlock) {
		vp := l.VisiblePosition(insertionPosition)
		if info, ok := l.Paragraph(vp); ok && !info.Empty {
			if block := cmd.wrapParagraphInNewBlock(info); block != nil {
				startBlock = block
				cmd.doc().UpdateLayout()
				l = cmd.layout()
			}
		}
	}

	vp := l.VisiblePosition(insertionPosition)
	isFirstInBlock := l.IsStartOfBlock(vp)
	isLastInBlock := l.IsEndOfBlock(vp)
	nestNewBlock := false
	var blockToInsert *html.Node
	switch {
	case startBlock == dom.RootEditableElement(startBlock):
		blockToInsert = cmd.ed.createDefaultParagraphElement()
		nestNewBlock = true
	case cmd.shouldUseDefaultParagraphElement(startBlock):
		blockToInsert = cmd.ed.createDefaultParagraphElement()
	default:
		blockToInsert = dom.CloneNode(startBlock, false)
		blockToInsert.Attr = withoutAttribute(blockToInsert.Attr, "id")
	}
	tracer().Debugf("insert paragraph separator at %s, block=%s", insertionPosition, dom.NodeName(startBlock))

	if isLastInBlock {
		if nestNewBlock {
			if isFirstInBlock && !cmd.lineBreakExistsAtVisiblePosition(vp) {
				// the block is empty: an extra block represents the
				// paragraph being left
				extra := cmd.ed.createDefaultParagraphElement()
				cmd.appendNode(extra, startBlock)
				cmd.appendBlockPlaceholder(extra)
			}
			cmd.appendNode(blockToInsert, startBlock)
		} else {
			if quote := dom.HighestEnclosingNodeOfType(canonical.ContainerNode(), dom.IsMailBlockquote,
				dom.RootEditableElement(startBlock)); quote != nil && dom.IsAncestorOrSelf(quote, startBlock) {
				startBlock = quote
			}
			sibling := startBlock
			if dom.IsElement(blockToInsert, "div") {
				sibling = highestVisuallyEquivalentDivBelowRoot(startBlock)
			}
			cmd.insertNodeAfter(blockToInsert, sibling)
		}
		ancestors := ancestorsInsideBlock(insertionPosition.DeepestNode(), startBlock)
		parent := cmd.cloneHierarchyUnderNewBlock(ancestors, blockToInsert)
		cmd.appendBlockPlaceholder(parent)
		cmd.setEndingCaret(dom.FirstPositionInNode(parent))
		cmd.applyStyleAfterInsertion(startBlock)
		return
	}

	prev := l.Previous(vp, layout.Character)
	if isFirstInBlock || prev.IsNull() || dom.EnclosingBlock(prev.DeepEquivalent().ContainerNode()) != startBlock {
		var ref *html.Node
		switch {
		case isFirstInBlock && !nestNewBlock:
			ref = startBlock
		case isFirstInBlock && nestNewBlock:
			ref = startBlock.FirstChild
		case insertionPosition.ContainerNode() == startBlock && nestNewBlock:
			ref = dom.ChildAt(startBlock, insertionPosition.OffsetInContainer())
		default:
			ref = insertionPosition.DeepestNode()
		}
		if ref == nil {
			return
		}
		insertionPosition = l.Downstream(insertionPosition)
		cmd.insertNodeBefore(blockToInsert, ref)
		ancestors := ancestorsInsideBlock(insertionPosition.DeepestNode(), startBlock)
		cmd.appendBlockPlaceholder(cmd.cloneHierarchyUnderNewBlock(ancestors, blockToInsert))
		cmd.setEndingCaret(insertionPosition)
		cmd.applyStyleAfterInsertion(startBlock)
		return
	}

	// General case: the content after the insertion point moves into the
	// new block.
	if l.IsStartOfParagraph(vp) {
		br := dom.CreateElement("br")
		cmd.insertNodeAt(br, insertionPosition)
		insertionPosition = dom.PositionInParentAfter(br)
		if dom.IsBR(vp.DeepEquivalent().DeepestNode()) {
			cmd.setEndingCaret(insertionPosition)
			return
		}
		l = cmd.layout()
	}
	insertionPosition = l.Downstream(insertionPosition)
	ancestors := ancestorsInsideBlock(insertionPosition.DeepestNode(), startBlock)

	// a space in front of the split point must not collapse at the end of
	// the paragraph
	if prev := l.Previous(l.VisiblePosition(insertionPosition), layout.Character); !prev.IsNull() &&
		isCollapsibleWhitespaceString(l.CharacterAfter(prev)) {
		if at := l.Downstream(prev.DeepEquivalent()); dom.IsText(at.ContainerNode()) {
			cmd.replaceCollapsibleCharacterWithNBSP(at)
		}
	}

	splitText := false
	if text := insertionPosition.ContainerNode(); dom.IsText(text) {
		off := insertionPosition.OffsetInContainer()
		if off > 0 && off < dom.TextLength(text) {
			cmd.splitTextNode(text, off)
			insertionPosition = dom.PositionInNode(text, 0)
			splitText = true
		}
	}
	vpAtSplit := cmd.layout().VisiblePosition(insertionPosition)
	if nestNewBlock {
		cmd.appendNode(blockToInsert, startBlock)
	} else {
		cmd.insertNodeAfter(blockToInsert, startBlock)
	}
	cmd.doc().UpdateLayout()
	parent := cmd.cloneHierarchyUnderNewBlock(ancestors, blockToInsert)
	l = cmd.layout()
	if l.IsEndOfParagraph(vpAtSplit) && !cmd.lineBreakExistsAtVisiblePosition(vpAtSplit) {
		cmd.appendNode(dom.CreateElement("br"), blockToInsert)
	}

	// move the start node and its following siblings
	if start := insertionPosition.DeepestNode(); start != nil && start != startBlock {
		n := start
		if insertionPosition.ContainerNode() == start && insertionPosition.OffsetInContainer() >= cmd.caretMaxOffset(start) {
			n = n.NextSibling
		}
		cmd.moveRemainingSiblingsToNewParent(n, blockToInsert, parent)
	}
	// move everything after the start node, level by level
	if len(ancestors) > 0 {
		for left := ancestors[0]; left != nil && left != startBlock; left = left.Parent {
			parent = parent.Parent
			if parent == nil {
				break
			}
			cmd.moveRemainingSiblingsToNewParent(left.NextSibling, blockToInsert, parent)
		}
	}

	if splitText && cmd.doc().Contains(insertionPosition.ContainerNode()) {
		text := insertionPosition.ContainerNode()
		cmd.doc().UpdateLayout()
		if !cmd.layout().IsRenderedOffset(text, 0) {
			cmd.deleteInsignificantTextDownstream(dom.PositionInNode(text, 0))
			if cmd.doc().Contains(text) {
				cmd.insertTextIntoNode(text, 0, string(nbsp))
			}
		}
	}
	cmd.setEndingCaret(dom.FirstPositionInNode(blockToInsert))
	cmd.applyStyleAfterInsertion(startBlock)
}

// wrapParagraphInNewBlock moves the top-level nodes of a paragraph of the
// editing host into a new default paragraph element.
func (cmd *InsertParagraphSeparatorCommand) wrapParagraphInNewBlock(info layout.ParagraphInfo) *html.Node {
	root := info.Block
	first := childContaining(root, info.Start.DeepestNode())
	last := childContaining(root, info.End.DeepestNode())
	if info.Terminator != nil {
		last = childContaining(root, info.Terminator)
	}
	if first == nil || last == nil {
		return nil
	}
	block := cmd.ed.createDefaultParagraphElement()
	cmd.insertNodeBefore(block, first)
	cmd.moveRemainingSiblingsToNewParent(first, last.NextSibling, block)
	return block
}

// childContaining returns the child of root which is or contains n.
func childContaining(root, n *html.Node) *html.Node {
	if n == nil || n == root || !dom.IsAncestor(root, n) {
		return nil
	}
	for n.Parent != root {
		n = n.Parent
	}
	return n
}

// ancestorsInsideBlock lists the elements between n and block, innermost
// first.
func ancestorsInsideBlock(n, block *html.Node) []*html.Node {
	if n == nil || n == block {
		return nil
	}
	var ancestors []*html.Node
	for p := n.Parent; p != nil && p != block; p = p.Parent {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

// cloneHierarchyUnderNewBlock recreates the ancestors, outermost first,
// below block and returns the innermost copy.
func (c *CompositeEditCommand) cloneHierarchyUnderNewBlock(ancestors []*html.Node, block *html.Node) *html.Node {
	parent := block
	for i := len(ancestors) - 1; i >= 0; i-- {
		child := dom.CloneNode(ancestors[i], false)
		c.appendNode(child, parent)
		parent = child
	}
	return parent
}

// highestVisuallyEquivalentDivBelowRoot climbs from a div through parent
// divs it is the only child of, stopping below the editing host.
func highestVisuallyEquivalentDivBelowRoot(startBlock *html.Node) *html.Node {
	root := dom.RootEditableElement(startBlock)
	cur := startBlock
	for cur.Parent != nil && cur.Parent != root && dom.IsElement(cur.Parent, "div") &&
		cur.Parent.FirstChild == cur && cur.Parent.LastChild == cur && len(cur.Parent.Attr) == 0 {
		cur = cur.Parent
	}
	return cur
}

func withoutAttribute(attrs []html.Attribute, key string) []html.Attribute {
	out := attrs[:0:0]
	for _, a := range attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	return out
}

package editing

import (
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// Building blocks for composite commands. Every mutation is performed by
// a child command, so that it is recorded for undo.

// --- Primitive wrappers ----------------------------------------------------

func (c *CompositeEditCommand) insertNodeBefore(n, ref *html.Node) {
	c.applyCommandToComposite(newInsertNodeBeforeCommand(c.ed, n, ref))
}

func (c *CompositeEditCommand) insertNodeAfter(n, ref *html.Node) {
	parent := ref.Parent
	if parent == nil {
		violation("insert node after", dom.ErrHierarchy, "reference node %s is detached", dom.NodeName(ref))
	}
	if parent.LastChild == ref {
		c.appendNode(n, parent)
		return
	}
	c.insertNodeBefore(n, ref.NextSibling)
}

// insertNodeAt inserts a node at an editing position. Positions within a
// container resolve to the child at the offset; positions at the start of
// a leaf insert before it; positions inside text split the text node and
// insert between the halves; all other positions insert after the leaf.
func (c *CompositeEditCommand) insertNodeAt(n *html.Node, pos dom.Position) {
	p := pos.ParentAnchored()
	ref, offset := p.ContainerNode(), p.Offset()
	if ref == nil {
		violation("insert node at", dom.ErrNotFound, "position %s has no container", pos)
	}
	switch {
	case canHaveChildrenForEditing(ref):
		if child := dom.ChildAt(ref, offset); child != nil {
			c.insertNodeBefore(n, child)
		} else {
			c.appendNode(n, ref)
		}
	case offset <= 0:
		c.insertNodeBefore(n, ref)
	case dom.IsText(ref) && offset < dom.TextLength(ref):
		c.splitTextNode(ref, offset)
		if !c.doc().Contains(ref) {
			tracer().Infof("insert node at: text node left the document")
			return
		}
		c.insertNodeBefore(n, ref)
	default:
		c.insertNodeAfter(n, ref)
	}
}

func canHaveChildrenForEditing(n *html.Node) bool {
	return dom.CanHaveChildren(n) && !dom.IsReplaced(n)
}

func (c *CompositeEditCommand) appendNode(n, parent *html.Node) {
	c.applyCommandToComposite(newAppendNodeCommand(c.ed, parent, n))
}

func (c *CompositeEditCommand) removeNode(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	c.applyCommandToComposite(newRemoveNodeCommand(c.ed, n))
}

// removeChildrenInRange removes the children [from, to) of n.
func (c *CompositeEditCommand) removeChildrenInRange(n *html.Node, from, to int) {
	var victims []*html.Node
	for i, ch := 0, n.FirstChild; ch != nil && i < to; i, ch = i+1, ch.NextSibling {
		if i >= from {
			victims = append(victims, ch)
		}
	}
	for _, v := range victims {
		c.removeNode(v)
	}
}

// removeNodePreservingChildren replaces a node by its children.
func (c *CompositeEditCommand) removeNodePreservingChildren(n *html.Node) {
	for _, ch := range dom.Children(n) {
		c.removeNode(ch)
		c.insertNodeBefore(ch, n)
	}
	c.removeNode(n)
}

// removeNodeAndPruneAncestors removes a node and then all of its ancestors
// which are left without rendered content.
func (c *CompositeEditCommand) removeNodeAndPruneAncestors(n *html.Node) {
	parent := n.Parent
	c.removeNode(n)
	c.prune(parent)
}

// prune removes the highest ancestor-or-self of n which has no rendered
// content, stopping at the editing host.
func (c *CompositeEditCommand) prune(n *html.Node) {
	if top := c.highestNodeToRemoveInPruning(n); top != nil {
		c.removeNode(top)
	}
}

func (c *CompositeEditCommand) highestNodeToRemoveInPruning(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	root := dom.RootEditableElement(n)
	var previous *html.Node
	for ; n != nil; n = n.Parent {
		if n == root || n.Type != html.ElementNode || !canHaveChildrenForEditing(n) ||
			!dom.IsContentEditable(n.Parent) || c.hasRenderedChild(n, previous) {
			return previous
		}
		previous = n
	}
	return nil
}

// hasRenderedChild is true if a child of n other than excluded has
// rendered content.
func (c *CompositeEditCommand) hasRenderedChild(n, excluded *html.Node) bool {
	l := c.layout()
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch != excluded && l.IsRendered(ch) {
			return true
		}
	}
	return false
}

func (c *CompositeEditCommand) splitTextNode(text *html.Node, offset int) {
	cmd := newSplitTextNodeCommand(c.ed, text, offset)
	c.applyCommandToComposite(cmd)
	if cmd.prefix != nil {
		c.ed.tracker.textSplit(text, cmd.prefix, offset)
	}
}

func (c *CompositeEditCommand) joinTextNodes(first, second *html.Node) {
	if first.NextSibling != second {
		return
	}
	c.ed.tracker.textJoining(first, second)
	c.applyCommandToComposite(newJoinTextNodesCommand(c.ed, first, second))
}

func (c *CompositeEditCommand) splitElement(elem, atChild *html.Node) {
	c.applyCommandToComposite(newSplitElementCommand(c.ed, elem, atChild))
}

func (c *CompositeEditCommand) mergeIdenticalElements(first, second *html.Node) {
	if first.NextSibling != second {
		// only whitespace may separate them; move second next to first
		c.removeNode(second)
		c.insertNodeAfter(second, first)
	}
	c.applyCommandToComposite(newMergeIdenticalElementsCommand(c.ed, first, second))
}

func (c *CompositeEditCommand) wrapContentsInSpan(elem *html.Node) *html.Node {
	cmd := newWrapContentsInSpanCommand(c.ed, elem)
	c.applyCommandToComposite(cmd)
	return cmd.span
}

func (c *CompositeEditCommand) insertTextIntoNode(text *html.Node, offset int, s string) {
	if s == "" {
		return
	}
	c.applyCommandToComposite(newInsertIntoTextNodeCommand(c.ed, text, offset, s))
	c.ed.tracker.textReplaced(text, offset, 0, len([]rune(s)))
}

func (c *CompositeEditCommand) deleteTextFromNode(text *html.Node, offset, count int) {
	if count <= 0 {
		return
	}
	c.applyCommandToComposite(newDeleteFromTextNodeCommand(c.ed, text, offset, count))
	c.ed.tracker.textReplaced(text, offset, count, 0)
}

func (c *CompositeEditCommand) replaceTextInNode(text *html.Node, offset, count int, s string) {
	c.deleteTextFromNode(text, offset, count)
	c.insertTextIntoNode(text, offset, s)
}

func (c *CompositeEditCommand) setNodeAttribute(elem *html.Node, name, value string) {
	c.applyCommandToComposite(newSetNodeAttributeCommand(c.ed, elem, name, value))
}

func (c *CompositeEditCommand) removeNodeAttribute(elem *html.Node, name string) {
	if !dom.HasAttribute(elem, name) {
		return
	}
	c.applyCommandToComposite(newRemoveNodeAttributeCommand(c.ed, elem, name))
}

func (c *CompositeEditCommand) removeCSSProperty(elem *html.Node, property string) {
	c.applyCommandToComposite(newRemoveCSSPropertyCommand(c.ed, elem, property))
}

// replaceElementWithSpanPreservingChildrenAndAttributes swaps elem for a
// <span> and returns the span.
func (c *CompositeEditCommand) replaceElementWithSpanPreservingChildrenAndAttributes(elem *html.Node) *html.Node {
	cmd := newReplaceNodeWithSpanCommand(c.ed, elem)
	c.applyCommandToComposite(cmd)
	return cmd.span
}

// --- Child commands --------------------------------------------------------

func (c *CompositeEditCommand) applyStyle(style *EditingStyle, action EditAction) {
	c.applyCommandToComposite(NewApplyStyleCommand(c.ed, style, action))
}

func (c *CompositeEditCommand) applyStyleToRange(style *EditingStyle, start, end dom.Position, action EditAction) {
	c.applyCommandToComposite(newApplyStyleCommandForRange(c.ed, style, start, end, action))
}

func (c *CompositeEditCommand) insertParagraphSeparator(useDefaultParagraphElement bool) {
	cmd := NewInsertParagraphSeparatorCommand(c.ed, useDefaultParagraphElement)
	c.applyCommandToComposite(cmd)
}

func (c *CompositeEditCommand) insertLineBreak() {
	c.applyCommandToComposite(NewInsertLineBreakCommand(c.ed))
}

// deleteSelection deletes the ending selection.
func (c *CompositeEditCommand) deleteSelection(smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements bool) {
	if !c.ending.IsRange() {
		return
	}
	cmd := NewDeleteSelectionCommand(c.ed, smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements)
	c.applyCommandToComposite(cmd)
}

// deleteSelectionOf deletes a given selection.
func (c *CompositeEditCommand) deleteSelectionOf(sel VisibleSelection, smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements bool) {
	if !sel.IsRange() {
		return
	}
	cmd := newDeleteSelectionCommandFor(c.ed, sel, smartDelete, mergeBlocksAfterDelete, replace, expandForSpecialElements)
	c.applyCommandToComposite(cmd)
}

// --- Selection helpers -----------------------------------------------------

func (c *CompositeEditCommand) visible(p dom.Position) layout.VisiblePosition {
	return c.layout().VisiblePosition(p)
}

func (c *CompositeEditCommand) setEndingCaret(p dom.Position) {
	c.setEndingSelection(NewCaret(c.layout(), p, Downstream))
}

func (c *CompositeEditCommand) setEndingRange(start, end dom.Position) {
	c.setEndingSelection(NewVisibleSelection(c.layout(), start, end, Downstream))
}

// rawSelection creates a selection without canonicalizing its ends.
func rawSelection(start, end dom.Position) VisibleSelection {
	if end.Before(start) {
		start, end = end, start
	}
	return VisibleSelection{base: start, extent: end, start: start, end: end}
}

// --- Placeholders ----------------------------------------------------------

// appendBlockPlaceholder appends a <br> holding an empty block open.
func (c *CompositeEditCommand) appendBlockPlaceholder(container *html.Node) *html.Node {
	if container == nil {
		return nil
	}
	br := dom.CreateElement("br")
	c.appendNode(br, container)
	return br
}

func (c *CompositeEditCommand) insertBlockPlaceholder(pos dom.Position) *html.Node {
	if pos.IsNull() {
		return nil
	}
	br := dom.CreateElement("br")
	c.insertNodeAt(br, pos)
	return br
}

// addBlockPlaceholderIfNeeded appends a placeholder to a block without
// rendered content.
func (c *CompositeEditCommand) addBlockPlaceholderIfNeeded(container *html.Node) *html.Node {
	if container == nil || !c.layout().IsBlock(container) || c.hasRenderedChild(container, nil) {
		return nil
	}
	return c.appendBlockPlaceholder(container)
}

// lineBreakAt returns the <br> right after a position, or nil.
func lineBreakAt(pos dom.Position) *html.Node {
	if pos.IsNull() {
		return nil
	}
	if pos.AnchorType() == dom.BeforeAnchor && dom.IsBR(pos.Anchor()) {
		return pos.Anchor()
	}
	if n := pos.NodeAfter(); dom.IsBR(n) {
		return n
	}
	return nil
}

// lineBreakExistsAt is true if a <br> or a preserved newline follows pos.
func (c *CompositeEditCommand) lineBreakExistsAt(pos dom.Position) bool {
	if lineBreakAt(pos) != nil {
		return true
	}
	text := pos.ContainerNode()
	if !dom.IsText(text) || !c.preservesNewlines(text) {
		return false
	}
	off := pos.OffsetInContainer()
	r := []rune(text.Data)
	return off < len(r) && r[off] == '\n'
}

func (c *CompositeEditCommand) lineBreakExistsAtVisiblePosition(vp layout.VisiblePosition) bool {
	return c.lineBreakExistsAt(c.layout().Downstream(vp.DeepEquivalent()))
}

// removePlaceholderAt removes the line break at a position.
func (c *CompositeEditCommand) removePlaceholderAt(pos dom.Position) {
	if br := lineBreakAt(pos); br != nil {
		c.removeNode(br)
		return
	}
	if text := pos.ContainerNode(); dom.IsText(text) {
		c.deleteTextFromNode(text, pos.OffsetInContainer(), 1)
	}
}

// insertNewDefaultParagraphElementAt inserts an empty paragraph element,
// held open by a placeholder.
func (c *CompositeEditCommand) insertNewDefaultParagraphElementAt(pos dom.Position) *html.Node {
	para := c.ed.createDefaultParagraphElement()
	para.AppendChild(dom.CreateElement("br"))
	c.insertNodeAt(para, pos)
	return para
}

// positionInsideTextNode returns an equivalent position inside a text
// node, creating an empty text node if necessary.
func (c *CompositeEditCommand) positionInsideTextNode(pos dom.Position) dom.Position {
	switch pos.AnchorType() {
	case dom.BeforeAnchor:
		if dom.IsText(pos.Anchor()) {
			return dom.PositionInNode(pos.Anchor(), 0)
		}
	case dom.AfterAnchor:
		if dom.IsText(pos.Anchor()) {
			return dom.PositionInNode(pos.Anchor(), dom.TextLength(pos.Anchor()))
		}
	case dom.OffsetInAnchor:
		if dom.IsText(pos.Anchor()) {
			return pos
		}
	}
	text := dom.CreateText("")
	c.insertNodeAt(text, pos)
	return dom.PositionInNode(text, 0)
}

// --- Insignificant text ----------------------------------------------------

// deleteInsignificantText removes collapsed whitespace in [start, end) of
// a text node. A text node without any rendered content is removed.
func (c *CompositeEditCommand) deleteInsignificantText(text *html.Node, start, end int) {
	if !dom.IsText(text) || start >= end || text.Parent == nil {
		return
	}
	if c.preservesWhitespace(text) {
		return
	}
	runs := c.layout().RenderedRuns(text)
	if len(runs) == 0 {
		if isAllCollapsibleWhitespace(text.Data) {
			c.removeNode(text)
		}
		return
	}
	length := dom.TextLength(text)
	if end > length {
		end = length
	}
	type gap struct{ from, to int }
	var gaps []gap
	prevEnd := 0
	for i := 0; i <= len(runs); i++ {
		gapEnd := length
		if i < len(runs) {
			gapEnd = runs[i].From
		}
		from, to := max(prevEnd, start), min(gapEnd, end)
		if from < to {
			gaps = append(gaps, gap{from, to})
		}
		if i < len(runs) {
			prevEnd = runs[i].To
		}
	}
	for i := len(gaps) - 1; i >= 0; i-- {
		c.deleteTextFromNode(text, gaps[i].from, gaps[i].to-gaps[i].from)
	}
}

// deleteInsignificantTextBetween removes collapsed whitespace from all text
// nodes between two positions.
func (c *CompositeEditCommand) deleteInsignificantTextBetween(start, end dom.Position) {
	if start.IsNull() || end.IsNull() || !start.Before(end) {
		return
	}
	startNode, endNode := start.DeepestNode(), end.DeepestNode()
	var texts []*html.Node
	for n := startNode; n != nil; n = dom.NextNode(n, nil) {
		if dom.IsText(n) {
			texts = append(texts, n)
		}
		if n == endNode {
			break
		}
	}
	for _, text := range texts {
		from, to := 0, dom.TextLength(text)
		if text == start.ContainerNode() {
			from = start.OffsetInContainer()
		}
		if text == end.ContainerNode() {
			to = end.OffsetInContainer()
		}
		c.deleteInsignificantText(text, from, to)
	}
}

// deleteInsignificantTextDownstream removes collapsed whitespace between
// pos and the next caret position.
func (c *CompositeEditCommand) deleteInsignificantTextDownstream(pos dom.Position) {
	l := c.layout()
	next := l.Next(l.VisiblePosition(pos), layout.Character)
	if next.IsNull() {
		return
	}
	c.deleteInsignificantTextBetween(pos, l.Downstream(next.DeepEquivalent()))
}

func isAllCollapsibleWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
		default:
			return false
		}
	}
	return true
}

// --- Tree surgery ----------------------------------------------------------

// splitTreeToNode splits the ancestors of start up to (excluding) ancestor,
// so that start becomes the first node of its subtree below ancestor.
// It returns the child of ancestor containing start afterwards.
func (c *CompositeEditCommand) splitTreeToNode(start, ancestor *html.Node, splitAncestor bool) *html.Node {
	node := start
	for ; node != nil && node.Parent != ancestor && node.Parent != nil; node = node.Parent {
		parent := node.Parent
		if !dom.IsContentEditable(parent) || !canHaveChildrenForEditing(parent) {
			break
		}
		if node.PrevSibling != nil {
			c.splitElement(parent, node)
		}
	}
	if splitAncestor && node != nil && node.Parent == ancestor && node.PrevSibling != nil {
		c.splitElement(ancestor, node)
		return ancestor
	}
	return node
}

// moveRemainingSiblingsToNewParent moves node and its following siblings,
// up to but excluding pastLast, to the end of newParent.
func (c *CompositeEditCommand) moveRemainingSiblingsToNewParent(node, pastLast, newParent *html.Node) {
	var moving []*html.Node
	for ; node != nil && node != pastLast; node = node.NextSibling {
		moving = append(moving, node)
	}
	for _, n := range moving {
		c.removeNode(n)
		c.appendNode(n, newParent)
	}
}

// --- Paragraph level helpers -----------------------------------------------

// cleanupAfterDeletion removes the placeholder or the empty block a
// deletion has left behind at the caret, unless the caret is the place
// content is going to be moved to.
func (c *CompositeEditCommand) cleanupAfterDeletion(destination layout.VisiblePosition) {
	l := c.layout()
	caret := c.ending.VisibleStart(l)
	if caret.IsNull() || caret.Equal(destination) || !l.IsStartOfParagraph(caret) || !l.IsEndOfParagraph(caret) {
		return
	}
	pos := l.Downstream(caret.DeepEquivalent())
	node := pos.DeepestNode()
	switch {
	case dom.IsBR(node):
		c.removeNodeAndPruneAncestors(node)
	case node.Type == html.ElementNode && l.IsBlock(node):
		if dom.IsAncestorOrSelf(node, destination.DeepEquivalent().ContainerNode()) {
			c.prune(node)
			return
		}
		c.removeNodeAndPruneAncestors(node)
	case c.lineBreakExistsAt(pos):
		if dom.TextLength(node) == 1 {
			c.removeNodeAndPruneAncestors(node)
		} else {
			c.deleteTextFromNode(node, pos.OffsetInContainer(), 1)
		}
	}
}

// moveParagraphContentsToNewBlockIfNecessary wraps the paragraph at pos in
// a new default paragraph element if it is not enclosed by a block of its
// own within the editing host. It returns the new block, or nil.
func (c *CompositeEditCommand) moveParagraphContentsToNewBlockIfNecessary(pos dom.Position) *html.Node {
	if pos.IsNull() {
		return nil
	}
	c.doc().UpdateLayout()
	l := c.layout()
	vp := l.VisiblePosition(pos)
	info, ok := l.Paragraph(vp)
	if !ok || info.Root == nil || info.Block != info.Root {
		return nil
	}
	upstreamStart := l.Upstream(info.Start)
	if !c.hasRenderedChild(info.Root, nil) {
		return c.insertNewDefaultParagraphElementAt(upstreamStart)
	}
	start, end := info.Start, info.End
	release := c.ed.tracker.track(&start, &end)
	defer release()
	newBlock := c.insertNewDefaultParagraphElementAt(upstreamStart)
	endWasBR := info.Terminator != nil
	c.moveParagraphs(l.VisiblePosition(start), l.VisiblePosition(end),
		l.VisiblePosition(dom.FirstPositionInNode(newBlock)), false, true)
	if last := newBlock.LastChild; dom.IsBR(last) && !endWasBR {
		c.removeNode(last)
	}
	return newBlock
}

// breakOutOfEmptyListItem turns an empty list item at the caret into a
// paragraph following the list, splitting the list if the item is in the
// middle of it. It returns false if the caret is not in an empty list
// item.
func (c *CompositeEditCommand) breakOutOfEmptyListItem() bool {
	l := c.layout()
	caret := c.ending.VisibleStart(l)
	if caret.IsNull() || !l.IsStartOfParagraph(caret) || !l.IsEndOfParagraph(caret) {
		return false
	}
	container := caret.DeepEquivalent().ContainerNode()
	item := dom.EnclosingNodeOfType(container, dom.IsListItem, dom.RootEditableElement(container))
	if item == nil || !dom.IsContentEditable(item.Parent) {
		return false
	}
	if c.hasRenderedChild(item, lineBreakAt(l.Downstream(caret.DeepEquivalent()))) {
		return false
	}
	list := item.Parent
	if !dom.IsList(list) || !dom.IsContentEditable(list.Parent) {
		return false
	}
	style := EditingStyleAtPosition(c.ed.styles, dom.FirstPositionInNode(item), InheritableProperties)
	var newBlock *html.Node
	if dom.IsList(list.Parent) || dom.IsListItem(list.Parent) {
		// nested list: the item moves up one level
		newBlock = dom.CreateElement("li")
	} else {
		newBlock = c.ed.createDefaultParagraphElement()
	}
	switch {
	case item.PrevSibling == nil && item.NextSibling == nil:
		c.insertNodeBefore(newBlock, list)
		c.removeNode(list)
	case item.PrevSibling == nil:
		c.insertNodeBefore(newBlock, list)
		c.removeNode(item)
	case item.NextSibling == nil:
		c.insertNodeAfter(newBlock, list)
		c.removeNode(item)
	default:
		c.splitElement(list, item.NextSibling)
		c.removeNode(item)
		c.insertNodeBefore(newBlock, list)
	}
	c.appendBlockPlaceholder(newBlock)
	c.setEndingCaret(dom.FirstPositionInNode(newBlock))
	style.PrepareToApplyAt(c.ed.styles, c.ending.Start())
	if !style.IsEmpty() {
		c.applyStyle(style, EditActionUnspecified)
	}
	return true
}

// breakOutOfEmptyMailBlockquotedParagraph moves an empty paragraph at the
// caret out of a quote, by inserting a new paragraph after the quote
// (or splitting it). It returns false if the caret is not in an empty
// quoted paragraph.
func (c *CompositeEditCommand) breakOutOfEmptyMailBlockquotedParagraph() bool {
	if !c.ending.IsCaret() {
		return false
	}
	l := c.layout()
	caret := c.ending.VisibleStart(l)
	container := caret.DeepEquivalent().ContainerNode()
	quote := dom.HighestEnclosingNodeOfType(container, dom.IsMailBlockquote, dom.RootEditableElement(container))
	if quote == nil {
		return false
	}
	if !l.IsStartOfParagraph(caret) || !l.IsEndOfParagraph(caret) {
		return false
	}
	previous := l.Previous(caret, layout.Character)
	// the empty quoted paragraph must not be the first of the quote
	if previous.IsNull() || !dom.IsAncestor(quote, previous.DeepEquivalent().ContainerNode()) {
		return false
	}
	br := dom.CreateElement("br")
	// a placeholder at the caret goes away together with the split
	if placeholder := lineBreakAt(l.Downstream(caret.DeepEquivalent())); placeholder != nil {
		c.removeNodeAndPruneAncestors(placeholder)
	}
	caretPos := c.ending.Start()
	if caretPos.IsOrphan(c.doc()) {
		caretPos = dom.PositionInParentAfter(lastQuotedNodeBefore(quote, previous.DeepEquivalent()))
	}
	if c.doc().Contains(quote) && l.IsEndOfBlock(l.VisiblePosition(dom.LastPositionInNode(quote))) &&
		!dom.IsAncestor(quote, l.Next(l.VisiblePosition(caretPos), layout.Character).DeepEquivalent().ContainerNode()) {
		c.insertNodeAfter(br, quote)
	} else {
		c.insertNodeAt(br, caretPos)
		c.setEndingCaret(dom.PositionInParentBefore(br))
		c.applyCommandToComposite(NewBreakBlockquoteCommand(c.ed))
		if br.Parent != nil {
			c.removeNode(br)
		}
		return true
	}
	c.setEndingCaret(dom.PositionInParentBefore(br))
	return true
}

func lastQuotedNodeBefore(quote *html.Node, p dom.Position) *html.Node {
	n := p.DeepestNode()
	for n != nil && n.Parent != quote && n.Parent != nil {
		n = n.Parent
	}
	if n == nil {
		return quote.LastChild
	}
	return n
}

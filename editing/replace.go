package editing

import (
	"unicode/utf8"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// ReplaceOptions control how ReplaceSelectionCommand inserts its fragment.
type ReplaceOptions uint8

// Replace options.
const (
	ReplaceSelectReplacement ReplaceOptions = 1 << iota // select the inserted content
	ReplaceSmartReplace                                 // add spaces around inserted words
	ReplaceMatchStyle                                   // inserted content takes the style at the insertion point
	ReplacePreventNesting                               // do not nest inserted blocks into the block at the insertion point
	ReplaceMovingParagraph                              // used by paragraph moves, suppresses merging
)

// ReplaceSelectionCommand replaces the selection with a fragment of
// detached nodes. The first and last paragraph of the fragment are merged
// with the paragraphs surrounding the insertion point.
type ReplaceSelectionCommand struct {
	CompositeEditCommand
	fragment        []*html.Node
	options         ReplaceOptions
	action          EditAction
	insertionStyle  *EditingStyle
	firstInserted   *html.Node
	lastInserted    *html.Node
	startOfInserted dom.Position
	endOfInserted   dom.Position
}

// NewReplaceSelectionCommand creates a command inserting fragment in place
// of the selection. The nodes of fragment must be detached; they are
// consumed by the command.
func NewReplaceSelectionCommand(ed *Editor, fragment []*html.Node, options ReplaceOptions, action EditAction) *ReplaceSelectionCommand {
	cmd := &ReplaceSelectionCommand{
		fragment: fragment,
		options:  options,
		action:   action,
	}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *ReplaceSelectionCommand) EditingAction() EditAction {
	return cmd.action
}

func (cmd *ReplaceSelectionCommand) has(o ReplaceOptions) bool {
	return cmd.options&o != 0
}

func (cmd *ReplaceSelectionCommand) doApply() {
	sel := cmd.ending
	if !sel.IsNonOrphanedCaretOrRange(cmd.doc()) || sel.RootEditableElement() == nil {
		return
	}
	cmd.doc().UpdateLayout()
	l := cmd.layout()
	visibleStart, visibleEnd := sel.VisibleStart(l), sel.VisibleEnd(l)
	selectionStartWasStartOfParagraph := l.IsStartOfParagraph(visibleStart)
	selectionEndWasEndOfParagraph := l.IsEndOfParagraph(visibleEnd)

	startBlock := dom.EnclosingBlock(visibleStart.DeepEquivalent().ContainerNode())
	preventNesting := cmd.has(ReplacePreventNesting) && fragmentHasBlocks(cmd.fragment)
	if preventNesting {
		if selectionStartWasStartOfParagraph && selectionEndWasEndOfParagraph ||
			startBlock == nil || startBlock == sel.RootEditableElement() ||
			dom.IsListItem(startBlock) || !sel.IsContentRichlyEditable() {
			preventNesting = false
		}
	}
	matchStyle := cmd.has(ReplaceMatchStyle) && !isPlainTextFragment(cmd.fragment)
	if matchStyle {
		cmd.insertionStyle = EditingStyleAtPosition(cmd.ed.styles, sel.Start(), InheritableProperties)
		cmd.insertionStyle.MergeTypingStyle(cmd.ed)
	}

	if sel.IsRange() {
		mergeBlocks := l.IsEndOfParagraph(visibleEnd) || l.IsStartOfBlock(visibleStart)
		cmd.deleteSelection(false, mergeBlocks, true, false)
		l = cmd.layout()
		visibleStart = cmd.ending.VisibleStart(l)
	}
	if preventNesting && !l.IsStartOfParagraph(visibleStart) && !l.IsEndOfParagraph(visibleStart) {
		// splitting the paragraph puts the insertion point between two blocks
		cmd.insertParagraphSeparator(false)
		l = cmd.layout()
		prev := l.Previous(cmd.ending.VisibleStart(l), layout.Character)
		cmd.setEndingSelection(NewCaret(l, prev.DeepEquivalent(), Downstream))
	}
	if len(cmd.fragment) == 0 {
		return
	}

	insertionPos := cmd.ending.Start()
	release := cmd.ed.tracker.track(&insertionPos)
	cmd.prepareWhitespaceAtPositionForSplit(&insertionPos)
	l = cmd.layout()
	var originalVisPosBeforeEndBR layout.VisiblePosition
	endBR := lineBreakAt(l.Downstream(insertionPos))
	if endBR != nil {
		originalVisPosBeforeEndBR = l.Previous(l.VisiblePosition(dom.PositionInParentBefore(endBR)), layout.Character)
	}
	if preventNesting {
		insertionPos = cmd.positionOutsideBlock(insertionPos)
	}
	cmd.ed.typingStyle = nil
	insertionPos = positionAvoidingPrecedingNodes(insertionPos)
	if !matchStyle {
		insertionPos = cmd.splitOutOfStyledInlines(insertionPos)
	}
	release()
	if insertionPos.IsOrphan(cmd.doc()) {
		tracer().Infof("replace selection: insertion point left the document")
		return
	}
	tracer().Debugf("replace selection: inserting %d node(s) at %s", len(cmd.fragment), insertionPos)

	cmd.insertFragment(insertionPos)
	if cmd.firstInserted == nil || !cmd.doc().Contains(cmd.firstInserted) {
		return
	}
	cmd.handleStyleSpans()
	cmd.removeRedundantStyles()
	if cmd.firstInserted == nil || !cmd.doc().Contains(cmd.firstInserted) {
		return
	}
	cmd.doc().UpdateLayout()
	if endBR != nil && cmd.doc().Contains(endBR) && (isPlainTextFragment(cmd.fragment) || cmd.shouldRemoveEndBR(endBR, originalVisPosBeforeEndBR)) {
		cmd.removeNodeAndPruneAncestors(endBR)
	}

	cmd.startOfInserted = firstPositionInOrBeforeNode(cmd.firstInserted)
	cmd.endOfInserted = lastPositionInOrAfterNode(dom.LastDescendant(cmd.lastInserted))
	release = cmd.ed.tracker.track(&cmd.startOfInserted, &cmd.endOfInserted)
	defer release()

	shouldMergeEnd := cmd.shouldMergeEnd(selectionEndWasEndOfParagraph)
	if cmd.shouldMergeStart(selectionStartWasStartOfParagraph) {
		cmd.mergeStart()
	}
	if shouldMergeEnd {
		cmd.mergeEnd()
	}
	if cmd.has(ReplaceSmartReplace) {
		cmd.addSpacesForSmartReplace()
	}
	cmd.completeHTMLReplacement(matchStyle)
}

// --- Insertion -------------------------------------------------------------

func (cmd *ReplaceSelectionCommand) insertFragment(pos dom.Position) {
	var ref *html.Node
	for _, n := range cmd.fragment {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		if ref == nil {
			cmd.insertNodeAt(n, pos)
			cmd.firstInserted = n
		} else {
			cmd.insertNodeAfter(n, ref)
		}
		if !cmd.doc().Contains(n) {
			return
		}
		ref = n
		cmd.lastInserted = n
	}
}

// positionOutsideBlock moves an insertion point at the start or end of a
// block to before or after the block.
func (cmd *ReplaceSelectionCommand) positionOutsideBlock(pos dom.Position) dom.Position {
	l := cmd.layout()
	vp := l.VisiblePosition(pos)
	block := dom.EnclosingBlock(pos.ContainerNode())
	if block == nil || dom.IsTableCell(block) || block == dom.RootEditableElement(block) {
		return pos
	}
	switch {
	case l.IsEndOfBlock(vp):
		return dom.PositionInParentAfter(block)
	case l.IsStartOfBlock(vp):
		return dom.PositionInParentBefore(block)
	}
	return pos
}

// positionAvoidingPrecedingNodes moves a position at the end of an inline
// container after that container, so the inserted content does not
// become part of it.
func positionAvoidingPrecedingNodes(pos dom.Position) dom.Position {
	for {
		c := pos.ContainerNode()
		if c == nil || c.Parent == nil || dom.IsBlock(c) || !dom.IsContentEditable(c.Parent) {
			return pos
		}
		if pos.OffsetInContainer() < dom.MaxOffset(c) {
			return pos
		}
		pos = dom.PositionInParentAfter(c)
	}
}

// splitOutOfStyledInlines splits the styled inline elements enclosing pos
// within its block, so that inserted content does not inherit their style.
func (cmd *ReplaceSelectionCommand) splitOutOfStyledInlines(pos dom.Position) dom.Position {
	if text := pos.ContainerNode(); dom.IsText(text) {
		off := pos.OffsetInContainer()
		if off > 0 && off < dom.TextLength(text) {
			cmd.splitTextNode(text, off)
			pos = dom.PositionInNode(text, 0)
		}
	}
	c := pos.ContainerNode()
	block := dom.EnclosingBlock(c)
	top := dom.HighestEnclosingNodeOfType(c, func(n *html.Node) bool {
		return n != block && !cmd.layout().IsBlock(n) && ElementIsStyledSpanOrHTMLEquivalent(n)
	}, block)
	if top == nil || top == block {
		return pos
	}
	splitStart := pos.NodeAfter()
	if splitStart == nil {
		splitStart = c
	}
	n := cmd.splitTreeToNode(splitStart, top.Parent, false)
	if n == nil {
		return pos
	}
	return dom.PositionInParentBefore(n)
}

// --- Style cleanup ---------------------------------------------------------

// unwrapInserted keeps the inserted range consistent when an inserted
// top-level node is unwrapped.
func (cmd *ReplaceSelectionCommand) unwrapInserted(n *html.Node) {
	first, last := n.FirstChild, n.LastChild
	if first == nil {
		if cmd.firstInserted == n && cmd.lastInserted == n {
			cmd.firstInserted, cmd.lastInserted = nil, nil
		} else if cmd.firstInserted == n {
			cmd.firstInserted = n.NextSibling
		} else if cmd.lastInserted == n {
			cmd.lastInserted = n.PrevSibling
		}
		cmd.removeNode(n)
		return
	}
	if cmd.firstInserted == n {
		cmd.firstInserted = first
	}
	if cmd.lastInserted == n {
		cmd.lastInserted = last
	}
	cmd.removeNodePreservingChildren(n)
}

// insertedTopLevel lists the inserted sibling nodes.
func (cmd *ReplaceSelectionCommand) insertedTopLevel() []*html.Node {
	var nodes []*html.Node
	for n := cmd.firstInserted; n != nil; n = n.NextSibling {
		nodes = append(nodes, n)
		if n == cmd.lastInserted {
			break
		}
	}
	return nodes
}

// handleStyleSpans reduces the style of inserted style spans to what
// differs from the style at the insertion point. Spans without remaining
// style are unwrapped.
func (cmd *ReplaceSelectionCommand) handleStyleSpans() {
	for _, n := range cmd.insertedTopLevel() {
		if !isStyleSpan(n) {
			continue
		}
		s := EditingStyleFromProperties(inlineStyle(n))
		if cmd.has(ReplaceMatchStyle) {
			s = NewEditingStyle()
		} else {
			s.PrepareToApplyAt(cmd.ed.styles, dom.FirstPositionInNode(n.Parent))
			s.RemoveBlockProperties()
		}
		if s.IsEmpty() {
			cmd.unwrapInserted(n)
			continue
		}
		cmd.setNodeAttribute(n, "style", s.Text())
	}
}

// removeRedundantStyles strips inline style and presentational elements
// from the inserted content which the context already provides.
func (cmd *ReplaceSelectionCommand) removeRedundantStyles() {
	if cmd.firstInserted == nil {
		return
	}
	var elems []*html.Node
	for _, top := range cmd.insertedTopLevel() {
		elems = append(elems, dom.FindAll(top, func(n *html.Node) bool {
			return n.Type == html.ElementNode
		})...)
	}
	for _, elem := range elems {
		if !cmd.doc().Contains(elem) || elem.Parent == nil {
			continue
		}
		context := computedStyleForComparison(cmd.ed.styles, elem.Parent)
		if dom.HasAttribute(elem, "style") {
			remaining := getPropertiesNotIn(inlineStyle(elem), context)
			if remaining.Len() == 0 {
				cmd.removeNodeAttribute(elem, "style")
			} else if remaining.Len() < inlineStyle(elem).Len() {
				cmd.setNodeAttribute(elem, "style", EditingStyleFromProperties(remaining).Text())
			}
		}
		if cmd.isRedundantStyleElement(elem) {
			cmd.unwrapInsertedOrNested(elem)
		}
	}
}

// isRedundantStyleElement is true for a bare presentational element or
// style span whose style is already in effect at its parent.
func (cmd *ReplaceSelectionCommand) isRedundantStyleElement(elem *html.Node) bool {
	if isSpanWithoutAttributesOrUnstyledStyleSpan(elem) {
		return true
	}
	if len(elem.Attr) > 0 {
		return false
	}
	parentStyle := computedStyleForComparison(cmd.ed.styles, elem.Parent)
	for _, eq := range elementEquivalents {
		if eq.matches(elem) && eq.valueIsPresentInStyle(elem, parentStyle) {
			return true
		}
	}
	return false
}

func (cmd *ReplaceSelectionCommand) unwrapInsertedOrNested(elem *html.Node) {
	for _, n := range cmd.insertedTopLevel() {
		if n == elem {
			cmd.unwrapInserted(elem)
			return
		}
	}
	if elem.FirstChild == nil {
		cmd.removeNode(elem)
		return
	}
	cmd.removeNodePreservingChildren(elem)
}

// --- Merging ---------------------------------------------------------------

// shouldRemoveEndBR is true if the <br> which followed the insertion point
// no longer ends a paragraph of its own.
func (cmd *ReplaceSelectionCommand) shouldRemoveEndBR(br *html.Node, originalVisPosBeforeEndBR layout.VisiblePosition) bool {
	if br == nil || br.Parent == nil {
		return false
	}
	l := cmd.layout()
	visiblePos := l.VisiblePosition(dom.PositionInParentBefore(br))
	// nothing was inserted before the <br>
	if !originalVisPosBeforeEndBR.IsNull() && visiblePos.Equal(l.Next(originalVisPosBeforeEndBR, layout.Character)) {
		return false
	}
	if l.IsEndOfBlock(visiblePos) && !l.IsStartOfParagraph(visiblePos) {
		return true
	}
	return l.IsStartOfParagraph(visiblePos) && l.IsEndOfParagraph(visiblePos)
}

func (cmd *ReplaceSelectionCommand) shouldMergeStart(selectionStartWasStartOfParagraph bool) bool {
	if cmd.has(ReplaceMovingParagraph) || cmd.startOfInserted.IsOrphan(cmd.doc()) {
		return false
	}
	l := cmd.layout()
	start := l.VisiblePosition(cmd.startOfInserted)
	prev := l.Previous(start, layout.Character)
	if prev.IsNull() || selectionStartWasStartOfParagraph || !l.IsStartOfParagraph(start) {
		return false
	}
	if dom.IsBR(start.DeepEquivalent().DeepestNode()) {
		return false
	}
	return shouldMerge(start, prev)
}

func (cmd *ReplaceSelectionCommand) shouldMergeEnd(selectionEndWasEndOfParagraph bool) bool {
	if cmd.has(ReplaceMovingParagraph) || cmd.endOfInserted.IsOrphan(cmd.doc()) {
		return false
	}
	l := cmd.layout()
	end := l.VisiblePosition(cmd.endOfInserted)
	next := l.Next(end, layout.Character)
	return !next.IsNull() && !selectionEndWasEndOfParagraph && l.IsEndOfParagraph(end) &&
		!dom.IsBR(end.DeepEquivalent().DeepestNode()) && shouldMerge(end, next)
}

// shouldMerge is true if the paragraph of source may be merged into the
// paragraph of destination.
func shouldMerge(source, destination layout.VisiblePosition) bool {
	if source.IsNull() || destination.IsNull() {
		return false
	}
	sourceNode := source.DeepEquivalent().DeepestNode()
	destinationNode := destination.DeepEquivalent().DeepestNode()
	sourceBlock := dom.EnclosingBlock(sourceNode)
	destinationBlock := dom.EnclosingBlock(destinationNode)
	return sourceBlock != nil &&
		(!dom.IsElement(sourceBlock, "blockquote") || dom.IsMailBlockquote(sourceBlock)) &&
		enclosingListChild(sourceBlock) == enclosingListChild(destinationNode) &&
		enclosingTableCellOf(sourceNode) == enclosingTableCellOf(destinationNode) &&
		(!isHeaderElement(sourceBlock) || destinationBlock != nil && sourceBlock.Data == destinationBlock.Data) &&
		!dom.IsBlock(sourceNode) && !dom.IsBlock(destinationNode)
}

func enclosingListChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	return dom.EnclosingNodeOfType(n, func(x *html.Node) bool {
		return x.Parent != nil && dom.IsList(x.Parent)
	}, dom.RootEditableElement(n))
}

func enclosingTableCellOf(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	return dom.EnclosingNodeOfType(n, dom.IsTableCell, dom.RootEditableElement(n))
}

func isHeaderElement(n *html.Node) bool {
	return dom.IsElement(n, "h1", "h2", "h3", "h4", "h5", "h6")
}

// mergeStart moves the first inserted paragraph into the paragraph which
// preceded the insertion point.
func (cmd *ReplaceSelectionCommand) mergeStart() {
	l := cmd.layout()
	startOfParagraphToMove := l.VisiblePosition(cmd.startOfInserted)
	destination := l.Previous(startOfParagraphToMove, layout.Character)
	endVP := l.VisiblePosition(cmd.endOfInserted)
	if l.StartOfParagraph(endVP).Equal(startOfParagraphToMove) {
		// the whole content is one paragraph: keep it apart from what
		// followed the insertion point
		cmd.insertNodeAt(dom.CreateElement("br"), cmd.endOfInserted)
		l = cmd.layout()
	}
	endNode := cmd.endOfInserted.ContainerNode()
	cmd.moveParagraphs(startOfParagraphToMove, l.EndOfParagraph(startOfParagraphToMove), destination, false, true)
	l = cmd.layout()
	cmd.startOfInserted = l.Downstream(cmd.ending.Start())
	if !cmd.doc().Contains(endNode) || cmd.endOfInserted.IsOrphan(cmd.doc()) {
		cmd.endOfInserted = l.Upstream(cmd.ending.End())
	}
}

// mergeEnd merges the last inserted paragraph with the paragraph which
// followed the insertion point.
func (cmd *ReplaceSelectionCommand) mergeEnd() {
	l := cmd.layout()
	startVP := l.VisiblePosition(cmd.startOfInserted)
	endVP := l.VisiblePosition(cmd.endOfInserted)
	mergeForward := !(l.InSameParagraph(startVP, endVP) && !l.IsStartOfParagraph(startVP))
	var destination, startOfParagraphToMove layout.VisiblePosition
	if mergeForward {
		destination = l.Next(endVP, layout.Character)
		startOfParagraphToMove = l.StartOfParagraph(endVP)
	} else {
		destination = endVP
		startOfParagraphToMove = l.Next(endVP, layout.Character)
	}
	if destination.IsNull() || startOfParagraphToMove.IsNull() {
		return
	}
	if l.EndOfParagraph(startOfParagraphToMove).Equal(destination) {
		// the paragraph to move is the destination: give it a line break
		// to merge into
		ref := startOfParagraphToMove.DeepEquivalent().DeepestNode()
		if ref == nil || ref.Parent == nil {
			return
		}
		br := dom.CreateElement("br")
		cmd.insertNodeBefore(br, ref)
		l = cmd.layout()
		destination = l.VisiblePosition(dom.PositionInParentBefore(br))
	}
	startNode := cmd.startOfInserted.ContainerNode()
	cmd.moveParagraphs(startOfParagraphToMove, l.EndOfParagraph(startOfParagraphToMove), destination, false, true)
	if mergeForward {
		l = cmd.layout()
		if !cmd.doc().Contains(startNode) || cmd.startOfInserted.IsOrphan(cmd.doc()) {
			cmd.startOfInserted = l.Downstream(cmd.ending.Start())
		}
		cmd.endOfInserted = l.Upstream(cmd.ending.End())
	}
}

// --- Completion ------------------------------------------------------------

// isSmartReplaceExempt is true for characters which need no separating
// space next to inserted words.
func isSmartReplaceExempt(s string, previous bool) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == nbsp || isWhitespace(r) {
		return true
	}
	if previous {
		return r == '(' || r == '[' || r == '{' || r == '"' || r == '\'' || r == '$' || r == '/'
	}
	return isPunctuation(s)
}

func (cmd *ReplaceSelectionCommand) addSpacesForSmartReplace() {
	l := cmd.layout()
	endVP := l.VisiblePosition(cmd.endOfInserted)
	if !l.IsEndOfParagraph(endVP) && !isSmartReplaceExempt(l.CharacterAfter(endVP), false) {
		pos := cmd.positionInsideTextNode(l.Upstream(cmd.endOfInserted))
		text, off := pos.ContainerNode(), pos.OffsetInContainer()
		cmd.insertTextIntoNode(text, off, string(nbsp))
		if cmd.endOfInserted.ContainerNode() == text {
			cmd.endOfInserted = dom.PositionInNode(text, cmd.endOfInserted.OffsetInContainer()+1)
		}
	}
	l = cmd.layout()
	startVP := l.VisiblePosition(cmd.startOfInserted)
	if !l.IsStartOfParagraph(startVP) && !isSmartReplaceExempt(l.CharacterBefore(startVP), true) {
		pos := cmd.positionInsideTextNode(l.Downstream(cmd.startOfInserted))
		text, off := pos.ContainerNode(), pos.OffsetInContainer()
		cmd.insertTextIntoNode(text, off, string(nbsp))
		cmd.startOfInserted = dom.PositionInNode(text, off)
	}
}

// completeHTMLReplacement normalizes whitespace and text nodes around the
// inserted content and sets the ending selection.
func (cmd *ReplaceSelectionCommand) completeHTMLReplacement(matchStyle bool) {
	start, end := cmd.startOfInserted, cmd.endOfInserted
	if start.IsNull() || start.IsOrphan(cmd.doc()) || end.IsNull() || end.IsOrphan(cmd.doc()) {
		return
	}
	release := cmd.ed.tracker.track(&start, &end)
	defer release()
	// start and end may be anchored at elements; whitespace lives in the
	// text at their deep equivalents
	cmd.rebalanceWhitespaceAt(cmd.layout().Upstream(start))
	cmd.rebalanceWhitespaceAt(cmd.layout().Downstream(end))
	if matchStyle && cmd.insertionStyle != nil && !cmd.insertionStyle.IsEmpty() {
		cmd.applyStyleToRange(cmd.insertionStyle, start, end, EditActionUnspecified)
	}
	cmd.mergeTextNodesAround(start)
	cmd.mergeTextNodesAround(end)
	if cmd.has(ReplaceSelectReplacement) {
		cmd.setEndingSelection(NewVisibleSelection(cmd.layout(), start, end, Downstream))
	} else {
		cmd.setEndingCaret(end)
	}
}

// mergeTextNodesAround joins the text node at pos with adjacent text
// siblings. Tracked positions follow the joined text.
func (cmd *ReplaceSelectionCommand) mergeTextNodesAround(pos dom.Position) {
	text := pos.ContainerNode()
	if !dom.IsText(text) {
		if before := pos.NodeBefore(); dom.IsText(before) {
			text = before
		} else {
			return
		}
	}
	if prev := text.PrevSibling; dom.IsText(prev) {
		cmd.joinTextNodes(prev, text)
	}
	if next := text.NextSibling; dom.IsText(next) {
		cmd.joinTextNodes(text, next)
	}
}

// --- Fragment helpers ------------------------------------------------------

func fragmentHasBlocks(fragment []*html.Node) bool {
	for _, n := range fragment {
		if dom.FindFirst(n, func(x *html.Node) bool {
			return x.Type == html.ElementNode && dom.IsBlock(x)
		}) != nil {
			return true
		}
	}
	return false
}

func isPlainTextFragment(fragment []*html.Node) bool {
	for _, n := range fragment {
		if !dom.IsText(n) {
			return false
		}
	}
	return len(fragment) > 0
}

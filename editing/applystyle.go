package editing

import (
	"math"

	cssval "github.com/npillmayer/richedit/css"
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/cssom/douceuradapter"
	"golang.org/x/net/html"
)

// propertyLevel tells how the properties of a style are applied.
type propertyLevel int8

const (
	propertyDefault      propertyLevel = iota // block properties to blocks, the rest inline
	forceBlockProperties                      // everything to the enclosing blocks
)

// removalMode controls removeInlineStyleFromElement.
type removalMode int8

const (
	removeIfNeeded removalMode = iota // remove conflicting style only
	removeAlways                      // remove matching style as well
	removeNone                        // only report if there is something to remove
)

// ApplyStyleCommand applies an EditingStyle to a range: block properties
// go to the enclosing blocks of the paragraphs in the range, everything
// else is applied inline, preferring presentational markup unless the
// editor styles with CSS. Style already in effect is not applied again,
// and conflicting style around the range is pushed down out of it.
type ApplyStyleCommand struct {
	CompositeEditCommand
	style      *EditingStyle
	action     EditAction
	level      propertyLevel
	start, end dom.Position
	hasRange   bool // start and end were given explicitly
	// styledInlineElement is applied (or removed) as an element, e.g. an <a>.
	styledInlineElement *html.Node
	// isInlineElementToRemove selects elements to unwrap unconditionally.
	isInlineElementToRemove func(*html.Node) bool
	removeOnly              bool
}

// NewApplyStyleCommand creates a command applying a style to the current
// selection.
func NewApplyStyleCommand(ed *Editor, s *EditingStyle, action EditAction) *ApplyStyleCommand {
	cmd := &ApplyStyleCommand{style: s.Copy(), action: action}
	cmd.init(ed, cmd)
	return cmd
}

// NewApplyParagraphStyleCommand creates a command applying all properties
// of a style to the blocks of the paragraphs in the selection.
func NewApplyParagraphStyleCommand(ed *Editor, s *EditingStyle, action EditAction) *ApplyStyleCommand {
	cmd := NewApplyStyleCommand(ed, s, action)
	cmd.level = forceBlockProperties
	return cmd
}

// NewApplyStyledElementCommand creates a command wrapping the selection
// into clones of elem, or, with removeOnly, removing elements of the same
// tag from the selection.
func NewApplyStyledElementCommand(ed *Editor, elem *html.Node, removeOnly bool, action EditAction) *ApplyStyleCommand {
	cmd := &ApplyStyleCommand{
		style:               NewEditingStyle(),
		action:              action,
		styledInlineElement: elem,
		removeOnly:          removeOnly,
	}
	cmd.init(ed, cmd)
	return cmd
}

func newApplyStyleCommandForRange(ed *Editor, s *EditingStyle, start, end dom.Position, action EditAction) *ApplyStyleCommand {
	cmd := NewApplyStyleCommand(ed, s, action)
	cmd.start, cmd.end, cmd.hasRange = start, end, true
	return cmd
}

// newRemoveInlineElementsCommand creates a command unwrapping all elements
// selected by isToRemove and removing the style s from the selection.
func newRemoveInlineElementsCommand(ed *Editor, s *EditingStyle, isToRemove func(*html.Node) bool, action EditAction) *ApplyStyleCommand {
	cmd := NewApplyStyleCommand(ed, s, action)
	cmd.isInlineElementToRemove = isToRemove
	cmd.removeOnly = true
	return cmd
}

// EditingAction returns the action the command was created for.
func (cmd *ApplyStyleCommand) EditingAction() EditAction { return cmd.action }

func (cmd *ApplyStyleCommand) doApply() {
	l := cmd.layout()
	if !cmd.hasRange {
		cmd.start = l.Downstream(cmd.ending.Start())
		cmd.end = l.Upstream(cmd.ending.End())
	}
	if cmd.start.IsNull() || cmd.end.IsNull() {
		return
	}
	if cmd.end.Before(cmd.start) {
		cmd.start, cmd.end = cmd.end, cmd.start
	}
	release := cmd.ed.tracker.track(&cmd.start, &cmd.end)
	defer release()
	tracer().Debugf("apply style %s to %s…%s", cmd.style, cmd.start, cmd.end)
	switch cmd.level {
	case propertyDefault:
		if block := cmd.style.ExtractAndRemoveBlockProperties(); !block.IsEmpty() {
			cmd.applyBlockStyle(block)
		}
		if !cmd.style.IsEmpty() || cmd.styledInlineElement != nil || cmd.isInlineElementToRemove != nil {
			cmd.applyRelativeFontStyleChange(cmd.style)
			cmd.applyInlineStyle(cmd.style)
		}
	case forceBlockProperties:
		cmd.applyBlockStyle(cmd.style)
	}
	if !cmd.start.IsOrphan(cmd.doc()) && !cmd.end.IsOrphan(cmd.doc()) {
		cmd.updateStartEnd(cmd.start, cmd.end)
	}
}

// updateStartEnd moves the range the command operates on, and the ending
// selection with it.
func (cmd *ApplyStyleCommand) updateStartEnd(start, end dom.Position) {
	if end.Before(start) {
		start, end = end, start
	}
	cmd.start, cmd.end = start, end
	cmd.setEndingSelection(NewVisibleSelection(cmd.layout(), start, end, Downstream))
}

func (cmd *ApplyStyleCommand) orderedRange() (dom.Position, dom.Position) {
	if cmd.end.Before(cmd.start) {
		return cmd.end, cmd.start
	}
	return cmd.start, cmd.end
}

// --- Block style -----------------------------------------------------------

// applyBlockStyle applies a style to the enclosing block of every
// paragraph in the range. Paragraphs without a block of their own get
// one. As that moves content, paragraphs are addressed by their character
// offset from the start of the editable content.
func (cmd *ApplyStyleCommand) applyBlockStyle(blockStyle *EditingStyle) {
	l := cmd.layout()
	start, end := cmd.orderedRange()
	visibleStart, visibleEnd := l.VisiblePosition(start), l.VisiblePosition(end)
	if visibleStart.IsNull() || visibleEnd.IsNull() {
		return
	}
	root := dom.RootEditableElement(visibleStart.DeepEquivalent().ContainerNode())
	if root == nil {
		return
	}
	base := l.StartOfEditableContent(root)
	startIndex := l.CharacterCount(base, visibleStart)
	endIndex := l.CharacterCount(base, visibleEnd)
	paraIndex := l.CharacterCount(base, l.StartOfParagraph(visibleStart))
	for {
		base = l.StartOfEditableContent(root)
		paragraphStart := l.PositionAtCharacterOffset(base, paraIndex)
		if paragraphStart.IsNull() {
			break
		}
		pos := paragraphStart.DeepEquivalent()
		change := NewStyleChange(cmd.ed, blockStyle, pos)
		if change.CSSStyle != "" || cmd.removeOnly {
			block := dom.EnclosingBlock(pos.ContainerNode())
			if !cmd.removeOnly {
				if newBlock := cmd.moveParagraphContentsToNewBlockIfNecessary(pos); newBlock != nil {
					block = newBlock
				}
			}
			if block != nil && block.Type == html.ElementNode {
				cmd.removeCSSStyle(blockStyle, block, removeIfNeeded, nil)
				if !cmd.removeOnly {
					cmd.addBlockStyle(change, block)
				}
			}
		}
		base = l.StartOfEditableContent(root)
		paragraphEnd := l.EndOfParagraph(l.PositionAtCharacterOffset(base, paraIndex))
		endOfThis := l.CharacterCount(base, paragraphEnd)
		if endOfThis >= endIndex || l.Next(paragraphEnd, layout.Character).IsNull() {
			break
		}
		paraIndex = endOfThis + 1
	}
	base = l.StartOfEditableContent(root)
	newStart := l.PositionAtCharacterOffset(base, startIndex)
	newEnd := l.PositionAtCharacterOffset(base, endIndex)
	if !newStart.IsNull() && !newEnd.IsNull() {
		cmd.updateStartEnd(newStart.DeepEquivalent(), newEnd.DeepEquivalent())
	}
}

// addBlockStyle adds the CSS of a style change to the inline style of a
// block. Legacy markup like <b> is for inline content only.
func (cmd *ApplyStyleCommand) addBlockStyle(change StyleChange, block *html.Node) {
	if block == nil || change.CSSStyle == "" {
		return
	}
	added, err := douceuradapter.ParseInlineStyle(change.CSSStyle)
	if err != nil {
		tracer().Errorf("add block style: %v", err)
		return
	}
	ps := inlineStyle(block)
	ps.Merge(added, true)
	cmd.setNodeAttribute(block, "style", ps.Text())
}

// removeCSSStyle removes the properties of a style from the inline style
// of an element. A style span left without style is unwrapped.
func (cmd *ApplyStyleCommand) removeCSSStyle(s *EditingStyle, elem *html.Node, mode removalMode, extracted *EditingStyle) bool {
	if elem.Parent == nil || !dom.IsContentEditable(elem.Parent) {
		return false
	}
	var properties []string
	if !s.ConflictsWithInlineStyleOfElement(elem, extracted, &properties) {
		return false
	}
	if mode == removeNone {
		return true
	}
	for _, prop := range properties {
		cmd.removeCSSProperty(elem, prop)
	}
	if isSpanWithoutAttributesOrUnstyledStyleSpan(elem) {
		cmd.removeNodePreservingChildren(elem)
	}
	return true
}

// --- Relative font size ----------------------------------------------------

const smallestFontSize = 0.1

// applyRelativeFontStyleChange changes the font size of the content of
// the range by the font size delta of a style. Sizes are captured before
// any change, so that nested content is changed by the delta only once.
func (cmd *ApplyStyleCommand) applyRelativeFontStyleChange(s *EditingStyle) {
	delta, ok := s.FontSizeDelta()
	if !ok {
		return
	}
	start, end := cmd.orderedRange()
	if cmd.isValidCaretPositionInTextNode(start) {
		cmd.splitTextAtStart(start, end)
		start, end = cmd.orderedRange()
	}
	if cmd.isValidCaretPositionInTextNode(end) {
		cmd.splitTextAtEnd(start, end)
		start, end = cmd.orderedRange()
	}
	beyondEnd := nodePastEnd(end)
	startNode := firstNodeAtOrAfter(cmd.layout().Upstream(start))
	if startNode == nil {
		return
	}
	var nodes []*html.Node
	startingSizes := make(map[*html.Node]float64)
	for n := startNode; n != nil && n != beyondEnd; n = dom.NextNode(n, nil) {
		nodes = append(nodes, n)
		startingSizes[n] = cmd.ed.styles.FontSizePixels(n)
	}
	minimum := math.Max(cmd.ed.settings.MinimumFontSize, smallestFontSize)
	var unstyledSpans []*html.Node
	var lastStyled *html.Node
	for _, n := range nodes {
		var elem *html.Node
		switch {
		case n.Type == html.ElementNode:
			if !cmd.nodeFullySelected(n, start, end) {
				continue
			}
			elem = n
		case dom.IsText(n) && cmd.layout().IsRendered(n) && n.Parent != lastStyled:
			span := createStyleSpanElement()
			cmd.surroundNodeRangeWithElement(n, n, span)
			elem = span
		default:
			continue
		}
		lastStyled = n
		ps := inlineStyle(elem)
		desired := math.Max(minimum, startingSizes[n]+delta)
		if ps.Has("font-size") {
			cmd.removeCSSProperty(elem, "font-size")
			ps.Remove("font-size")
		}
		if cmd.ed.styles.FontSizePixels(n) != desired {
			ps.Set("font-size", style.Property(cssval.FormatPixels(desired)), false)
			cmd.setNodeAttribute(elem, "style", ps.Text())
		}
		if ps.IsEmpty() {
			cmd.removeNodeAttribute(elem, "style")
			if isSpanWithoutAttributesOrUnstyledStyleSpan(elem) {
				unstyledSpans = append(unstyledSpans, elem)
			}
		}
	}
	for _, span := range unstyledSpans {
		cmd.removeNodePreservingChildren(span)
	}
}

// --- Inline style ----------------------------------------------------------

// applyInlineStyle splits the ends of the range out of their text nodes
// (and out of elements conflicting with the style), removes the style from
// the range, and finally applies it to the runs of inline content.
func (cmd *ApplyStyleCommand) applyInlineStyle(s *EditingStyle) {
	start, end := cmd.orderedRange()
	if start.IsNull() || end.IsNull() {
		return
	}
	var startSpanAncestor, endSpanAncestor *html.Node
	splitStart := cmd.isValidCaretPositionInTextNode(start)
	if splitStart {
		if cmd.shouldSplitTextElement(start.ContainerNode().Parent, s) {
			cmd.splitTextElementAtStart(start, end)
		} else {
			cmd.splitTextAtStart(start, end)
		}
		start, end = cmd.orderedRange()
		startSpanAncestor = styleSpanAncestorForNode(start.ContainerNode())
	}
	splitEnd := cmd.isValidCaretPositionInTextNode(end)
	if splitEnd {
		if cmd.shouldSplitTextElement(end.ContainerNode().Parent, s) {
			cmd.splitTextElementAtEnd(start, end)
		} else {
			cmd.splitTextAtEnd(start, end)
		}
		start, end = cmd.orderedRange()
		endSpanAncestor = styleSpanAncestorForNode(end.ContainerNode())
	}
	// Removing from the upstream position also catches style ending right
	// before the range, so that no redundant markup is created.
	removeStart := cmd.layout().Upstream(start)
	if removeStart.IsNull() {
		removeStart = start
	}
	direction, hasTextDirection := s.TextDirection()
	var styleWithoutEmbedding, embeddingStyle *EditingStyle
	if hasTextDirection {
		startUnsplit := cmd.splitAncestorsWithUnicodeBidi(start.DeepestNode(), true, direction)
		endUnsplit := cmd.splitAncestorsWithUnicodeBidi(end.DeepestNode(), false, direction)
		cmd.removeEmbeddingUpToEnclosingBlock(start.DeepestNode(), startUnsplit)
		cmd.removeEmbeddingUpToEnclosingBlock(end.DeepestNode(), endUnsplit)
		embeddingRemoveStart, embeddingRemoveEnd := removeStart, end
		if startUnsplit != nil && cmd.nodeFullySelected(startUnsplit, removeStart, end) {
			embeddingRemoveStart = dom.PositionInParentAfter(startUnsplit)
		}
		if endUnsplit != nil && cmd.nodeFullySelected(endUnsplit, removeStart, end) {
			embeddingRemoveEnd = cmd.layout().Downstream(dom.PositionInParentBefore(endUnsplit))
		}
		if !embeddingRemoveStart.Equal(removeStart) || !embeddingRemoveEnd.Equal(end) {
			styleWithoutEmbedding = s.Copy()
			embeddingStyle = styleWithoutEmbedding.ExtractAndRemoveTextDirection()
			if !embeddingRemoveEnd.Before(embeddingRemoveStart) {
				cmd.removeInlineStyle(embeddingStyle, embeddingRemoveStart, embeddingRemoveEnd)
			}
		}
	}
	toRemove := s
	if styleWithoutEmbedding != nil {
		toRemove = styleWithoutEmbedding
	}
	cmd.removeInlineStyle(toRemove, removeStart, end)
	start, end = cmd.orderedRange()
	if start.IsNull() || start.IsOrphan(cmd.doc()) || end.IsNull() || end.IsOrphan(cmd.doc()) {
		return
	}
	if splitStart && cmd.mergeStartWithPreviousIfIdentical(start, end) {
		start, end = cmd.orderedRange()
	}
	if splitEnd {
		cmd.mergeEndWithNextIfIdentical(start, end)
		start, end = cmd.orderedRange()
	}
	toApply := s
	if hasTextDirection {
		// no embedding below ancestors which already embed
		startNode, endNode := start.DeepestNode(), end.DeepestNode()
		embeddingStart := highestEmbeddingAncestor(cmd, startNode, dom.EnclosingBlock(startNode))
		embeddingEnd := highestEmbeddingAncestor(cmd, endNode, dom.EnclosingBlock(endNode))
		if embeddingStart != nil || embeddingEnd != nil {
			applyStart, applyEnd := start, end
			if embeddingStart != nil {
				applyStart = dom.PositionInParentAfter(embeddingStart)
			}
			if embeddingEnd != nil {
				applyEnd = dom.PositionInParentBefore(embeddingEnd)
			}
			if embeddingStyle == nil {
				styleWithoutEmbedding = s.Copy()
				embeddingStyle = styleWithoutEmbedding.ExtractAndRemoveTextDirection()
			}
			cmd.fixRangeAndApplyInlineStyle(embeddingStyle, applyStart, applyEnd)
			toApply = styleWithoutEmbedding
		}
	}
	cmd.fixRangeAndApplyInlineStyle(toApply, start, end)
	cmd.cleanupUnstyledStyleSpans(startSpanAncestor)
	if endSpanAncestor != startSpanAncestor {
		cmd.cleanupUnstyledStyleSpans(endSpanAncestor)
	}
}

// fixRangeAndApplyInlineStyle determines the nodes covered by a range and
// applies a style to them. The range is widened to the highest ancestor
// visibly contained in it, so that existing wrappers may be reused.
func (cmd *ApplyStyleCommand) fixRangeAndApplyInlineStyle(s *EditingStyle, start, end dom.Position) {
	startNode := firstNodeAtOrAfter(start)
	if startNode == nil || end.Before(firstPositionInOrBeforeNode(startNode)) {
		return
	}
	pastEnd := nodePastEnd(end)
	if start.Equal(end) {
		if br := start.NodeAfter(); dom.IsBR(br) {
			pastEnd = dom.NextNode(br, nil)
		}
	}
	root := dom.RootEditableElement(startNode)
	if startNode != root {
		for root != nil && startNode.Parent != root && startNode.Parent != nil &&
			cmd.isNodeVisiblyContainedWithin(startNode.Parent, start, end) {
			startNode = startNode.Parent
		}
	}
	cmd.applyInlineStyleToNodeRange(s, startNode, pastEnd)
}

// inlineRun is a run of siblings a style is applied to as a whole.
type inlineRun struct {
	start, end, pastEnd *html.Node
	position            dom.Position // where the style change is computed
	change              StyleChange
}

// applyInlineStyleToNodeRange applies a style to the runs of inline
// content between startNode and pastEnd. First the conflicting style of
// all runs is removed, then the style changes are computed, then applied.
func (cmd *ApplyStyleCommand) applyInlineStyleToNodeRange(s *EditingStyle, startNode, pastEnd *html.Node) {
	if cmd.removeOnly {
		return
	}
	l := cmd.layout()
	var runs []*inlineRun
	var next *html.Node
	for node := startNode; node != nil && node != pastEnd; node = next {
		next = dom.NextNode(node, nil)
		if !l.IsRendered(node) || !dom.IsContentEditable(node) {
			continue
		}
		if node.Type == html.ElementNode && !dom.IsRichlyEditable(node) {
			// plain text region, styled as a whole if fully covered
			if pastEnd != nil && dom.IsAncestor(node, pastEnd) {
				break
			}
			ps := inlineStyle(node)
			ps.Merge(s.props, true)
			cmd.setNodeAttribute(node, "style", ps.Text())
			next = dom.NextSkippingChildren(node, nil)
			continue
		}
		if cmd.layout().IsBlock(node) {
			continue
		}
		if node.FirstChild != nil {
			if dom.IsAncestorOrSelf(node, pastEnd) || containsNonEditableRegion(node) || !dom.IsContentEditable(node.Parent) {
				continue
			}
			if editingIgnoresContent(node) {
				next = dom.NextSkippingChildren(node, nil)
				continue
			}
		}
		runStart, runEnd := node, node
		for sib := node.NextSibling; sib != nil && sib != pastEnd && !dom.IsAncestorOrSelf(sib, pastEnd) &&
			(!cmd.layout().IsBlock(sib) || dom.IsBR(sib)) && !containsNonEditableRegion(sib); sib = sib.NextSibling {
			runEnd = sib
		}
		next = dom.NextSkippingChildren(runEnd, nil)
		runPastEnd := next
		if !cmd.shouldApplyInlineStyleToRun(s, runStart, runPastEnd) {
			continue
		}
		runs = append(runs, &inlineRun{start: runStart, end: runEnd, pastEnd: runPastEnd})
	}
	for _, run := range runs {
		cmd.removeConflictingInlineStyleFromRun(s, run)
		run.position = positionToComputeInlineStyleChange(run.start)
	}
	for _, run := range runs {
		run.change = NewStyleChange(cmd.ed, s, run.position)
	}
	for _, run := range runs {
		if cmd.doc().Contains(run.start) && cmd.doc().Contains(run.end) {
			cmd.applyInlineStyleChange(run.start, run.end, run.change, true)
		}
	}
}

// shouldApplyInlineStyleToRun is true if any leaf of the run renders
// without the style.
func (cmd *ApplyStyleCommand) shouldApplyInlineStyleToRun(s *EditingStyle, runStart, pastEnd *html.Node) bool {
	for n := runStart; n != nil && n != pastEnd; n = dom.NextNode(n, nil) {
		if n.FirstChild != nil {
			continue
		}
		if !s.StyleIsPresentInComputedStyleOfNode(cmd.ed.styles, n) {
			return true
		}
		if cmd.styledInlineElement != nil &&
			dom.EnclosingNodeOfType(n, isElementLike(cmd.styledInlineElement), nil) == nil {
			return true
		}
	}
	return false
}

func (cmd *ApplyStyleCommand) removeConflictingInlineStyleFromRun(s *EditingStyle, run *inlineRun) {
	var next *html.Node
	for node := run.start; node != nil && cmd.doc().Contains(node) && node != run.pastEnd; node = next {
		if editingIgnoresContent(node) {
			next = dom.NextSkippingChildren(node, nil)
		} else {
			next = dom.NextNode(node, nil)
		}
		if node.Type != html.ElementNode {
			continue
		}
		prev, nextSib, parent := node.PrevSibling, node.NextSibling, node.Parent
		cmd.removeInlineStyleFromElement(s, node, removeAlways, nil)
		if cmd.doc().Contains(node) {
			continue
		}
		if run.start == node {
			if prev != nil {
				run.start = prev.NextSibling
			} else {
				run.start = parent.FirstChild
			}
		}
		if run.end == node {
			if nextSib != nil {
				run.end = nextSib.PrevSibling
			} else {
				run.end = parent.LastChild
			}
		}
	}
}

// removeInlineStyleFromElement removes a style from an element: the
// element itself if it is a styled element to remove, its presentational
// meaning, its conflicting attributes and its conflicting inline style.
// In removeNone mode it only reports whether anything would be removed.
func (cmd *ApplyStyleCommand) removeInlineStyleFromElement(s *EditingStyle, elem *html.Node, mode removalMode, extracted *EditingStyle) bool {
	if elem.Parent == nil || !dom.IsContentEditable(elem.Parent) {
		return false
	}
	if cmd.isStyledInlineElementToRemove(elem) {
		if mode == removeNone {
			return true
		}
		if extracted != nil {
			extracted.MergeInlineStyleOfElement(elem, true)
		}
		cmd.removeNodePreservingChildren(elem)
		return true
	}
	removed := false
	if cmd.removeImplicitlyStyledElement(s, elem, mode, extracted) {
		removed = true
		if mode == removeNone {
			return true
		}
	}
	if !cmd.doc().Contains(elem) {
		return removed
	}
	if cmd.removeCSSStyle(s, elem, mode, extracted) {
		removed = true
	}
	return removed
}

func (cmd *ApplyStyleCommand) removeImplicitlyStyledElement(s *EditingStyle, elem *html.Node, mode removalMode, extracted *EditingStyle) bool {
	if mode == removeNone {
		return s.ConflictsWithImplicitStyleOfElement(elem, nil, false) || s.ConflictsWithImplicitStyleOfAttributes(elem)
	}
	if s.ConflictsWithImplicitStyleOfElement(elem, extracted, mode == removeAlways) {
		cmd.replaceWithSpanOrRemoveIfWithoutAttributes(elem)
		return true
	}
	var attributes []string
	if !s.ExtractConflictingImplicitStyleOfAttributes(elem, extracted != nil, extracted, &attributes, mode == removeAlways) {
		return false
	}
	for _, a := range attributes {
		cmd.removeNodeAttribute(elem, a)
	}
	if isEmptyFontTag(elem) || isSpanWithoutAttributesOrUnstyledStyleSpan(elem) {
		cmd.removeNodePreservingChildren(elem)
	}
	return true
}

// replaceWithSpanOrRemoveIfWithoutAttributes drops a presentational
// element, keeping its attributes on a span if it has any.
func (cmd *ApplyStyleCommand) replaceWithSpanOrRemoveIfWithoutAttributes(elem *html.Node) *html.Node {
	if hasNoAttributeOrOnlyStyleAttribute(elem, true) {
		cmd.removeNodePreservingChildren(elem)
		return nil
	}
	return cmd.replaceElementWithSpanPreservingChildrenAndAttributes(elem)
}

func (cmd *ApplyStyleCommand) shouldRemoveInlineStyleFromElement(s *EditingStyle, elem *html.Node) bool {
	return cmd.removeInlineStyleFromElement(s, elem, removeNone, nil)
}

func (cmd *ApplyStyleCommand) isStyledInlineElementToRemove(elem *html.Node) bool {
	if cmd.styledInlineElement != nil && isElementLike(cmd.styledInlineElement)(elem) {
		return true
	}
	return cmd.isInlineElementToRemove != nil && cmd.isInlineElementToRemove(elem)
}

// highestAncestorWithConflictingInlineStyle searches the ancestors of a
// node for style to remove, up to the nearest table cell or editing host.
func (cmd *ApplyStyleCommand) highestAncestorWithConflictingInlineStyle(s *EditingStyle, node *html.Node) *html.Node {
	if node == nil {
		return nil
	}
	var result *html.Node
	unsplittable := unsplittableElementFor(node)
	for n := node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && cmd.shouldRemoveInlineStyleFromElement(s, n) {
			result = n
		}
		if n == unsplittable {
			break
		}
	}
	return result
}

func unsplittableElementFor(n *html.Node) *html.Node {
	if cell := dom.EnclosingNodeOfType(n, dom.IsTableCell, dom.RootEditableElement(n)); cell != nil {
		return cell
	}
	return dom.RootEditableElement(n)
}

// pushDownInlineStyleAroundNode removes conflicting style from the
// ancestors of targetNode and re-applies it to everything around
// targetNode, i.e. to the siblings along the path down to it.
func (cmd *ApplyStyleCommand) pushDownInlineStyleAroundNode(s *EditingStyle, targetNode *html.Node) {
	highest := cmd.highestAncestorWithConflictingInlineStyle(s, targetNode)
	if highest == nil {
		return
	}
	var elementsToPushDown []*html.Node
	current := highest
	for current != nil && current != targetNode && dom.IsAncestor(current, targetNode) {
		children := dom.Children(current)
		var styled *html.Node
		if current.Type == html.ElementNode && cmd.isStyledInlineElementToRemove(current) {
			styled = current
			elementsToPushDown = append(elementsToPushDown, styled)
		}
		toPushDown := NewEditingStyle()
		if current.Type == html.ElementNode {
			cmd.removeInlineStyleFromElement(s, current, removeIfNeeded, toPushDown)
		}
		var nextCurrent *html.Node
		for _, child := range children {
			if child.Parent == nil {
				continue
			}
			if !dom.IsAncestorOrSelf(child, targetNode) {
				for _, elem := range elementsToPushDown {
					wrapper := dom.CloneNode(elem, false)
					removeAttr(wrapper, "style")
					cmd.surroundNodeRangeWithElement(child, child, wrapper)
				}
			}
			if child != targetNode || styled != nil {
				cmd.applyInlineStyleToPushDown(child, toPushDown)
			}
			if dom.IsAncestorOrSelf(child, targetNode) {
				nextCurrent = child
			}
		}
		current = nextCurrent
	}
}

// applyInlineStyleToPushDown applies style which has been removed from an
// ancestor to one of its former descendants.
func (cmd *ApplyStyleCommand) applyInlineStyleToPushDown(node *html.Node, s *EditingStyle) {
	if s == nil || s.IsEmpty() || !cmd.layout().IsRendered(node) || dom.IsElement(node, "iframe") {
		return
	}
	newInline := s
	if node.Type == html.ElementNode && dom.HasAttribute(node, "style") {
		newInline = s.Copy()
		newInline.MergeInlineStyleOfElement(node, true)
	}
	if node.Type == html.ElementNode && (cmd.layout().IsBlock(node) || node.FirstChild != nil) {
		// an element with content gets a style attribute
		attr := newInline.Copy()
		attr.CollapseTextDecorationProperties()
		cmd.setNodeAttribute(node, "style", attr.Text())
		return
	}
	if dom.IsText(node) && isAllCollapsibleWhitespace(node.Data) {
		return
	}
	// node itself must not be wrapped into a styled element here, or the
	// element would be removed and re-added over and over
	cmd.addInlineStyleIfNeeded(newInline, node, node, false)
}

// removeInlineStyle removes a style from all elements fully contained in
// a range, after pushing conflicting style of the ancestors of both ends
// down and out of the range.
func (cmd *ApplyStyleCommand) removeInlineStyle(s *EditingStyle, start, end dom.Position) {
	l := cmd.layout()
	pushDownStart := l.Downstream(start)
	if c := pushDownStart.ContainerNode(); dom.IsText(c) && pushDownStart.OffsetInContainer() == dom.TextLength(c) {
		// the text node is not selected at all
		if next := l.Next(l.VisiblePosition(pushDownStart), layout.Character); !next.IsNull() {
			pushDownStart = l.Downstream(next.DeepEquivalent())
		}
	}
	pushDownEnd := l.Upstream(end)
	if c := pushDownEnd.ContainerNode(); dom.IsText(c) && pushDownEnd.OffsetInContainer() == 0 {
		if prev := l.Previous(l.VisiblePosition(pushDownEnd), layout.Character); !prev.IsNull() {
			pushDownEnd = prev.DeepEquivalent()
		}
	}
	release := cmd.ed.tracker.track(&start, &end, &pushDownStart, &pushDownEnd)
	defer release()
	cmd.pushDownInlineStyleAroundNode(s, pushDownStart.DeepestNode())
	cmd.pushDownInlineStyleAroundNode(s, pushDownEnd.DeepestNode())
	if start.IsNull() || start.IsOrphan(cmd.doc()) {
		start = pushDownStart
	}
	if end.IsNull() || end.IsOrphan(cmd.doc()) {
		end = pushDownEnd
	}
	var next *html.Node
	for node := firstNodeAtOrAfter(start); node != nil; node = next {
		if editingIgnoresContent(node) {
			next = dom.NextSkippingChildren(node, nil)
		} else {
			next = dom.NextNode(node, nil)
		}
		if node.Type == html.ElementNode && cmd.nodeFullySelected(node, start, end) {
			var toPushDown *EditingStyle
			var firstChild *html.Node
			if cmd.isStyledInlineElementToRemove(node) {
				toPushDown = NewEditingStyle()
				firstChild = node.FirstChild
			}
			cmd.removeInlineStyleFromElement(s, node, removeIfNeeded, toPushDown)
			if toPushDown != nil {
				for child := firstChild; child != nil; child = child.NextSibling {
					cmd.applyInlineStyleToPushDown(child, toPushDown)
				}
			}
		}
		if next == nil || !cmd.doc().Contains(next) || end.Before(firstPositionInOrBeforeNode(next)) {
			break
		}
	}
	cmd.updateStartEnd(start, end)
}

// nodeFullySelected is true if the content of node lies within the range.
func (cmd *ApplyStyleCommand) nodeFullySelected(node *html.Node, start, end dom.Position) bool {
	last := cmd.layout().Upstream(lastPositionInOrAfterNode(node))
	if last.IsNull() {
		last = lastPositionInOrAfterNode(node)
	}
	return !firstPositionInOrBeforeNode(node).Before(start) && !end.Before(last)
}

// isNodeVisiblyContainedWithin is true if node lies within the range or
// renders exactly at its boundaries.
func (cmd *ApplyStyleCommand) isNodeVisiblyContainedWithin(node *html.Node, start, end dom.Position) bool {
	before, after := dom.PositionInParentBefore(node), dom.PositionInParentAfter(node)
	if !before.Before(start) && !end.Before(after) {
		return true
	}
	l := cmd.layout()
	startIsVisuallySame := l.VisiblePosition(before).Equal(l.VisiblePosition(start))
	if startIsVisuallySame && after.Before(end) {
		return true
	}
	endIsVisuallySame := l.VisiblePosition(after).Equal(l.VisiblePosition(end))
	if endIsVisuallySame && start.Before(before) {
		return true
	}
	return startIsVisuallySame && endIsVisuallySame
}

// --- Splitting and merging the ends ----------------------------------------

// isValidCaretPositionInTextNode is true for positions strictly inside a
// text node.
func (cmd *ApplyStyleCommand) isValidCaretPositionInTextNode(p dom.Position) bool {
	text := p.ContainerNode()
	if p.AnchorType() != dom.OffsetInAnchor || !dom.IsText(text) {
		return false
	}
	return p.Offset() > 0 && p.Offset() < dom.TextLength(text)
}

func (cmd *ApplyStyleCommand) shouldSplitTextElement(elem *html.Node, s *EditingStyle) bool {
	return elem != nil && elem.Type == html.ElementNode && cmd.shouldRemoveInlineStyleFromElement(s, elem)
}

func (cmd *ApplyStyleCommand) splitTextAtStart(start, end dom.Position) {
	text := start.ContainerNode()
	newEnd := end
	if end.AnchorType() == dom.OffsetInAnchor && end.ContainerNode() == text {
		newEnd = dom.PositionInNode(text, end.Offset()-start.Offset())
	}
	cmd.splitTextNode(text, start.Offset())
	cmd.updateStartEnd(dom.FirstPositionInNode(text), newEnd)
}

func (cmd *ApplyStyleCommand) splitTextAtEnd(start, end dom.Position) {
	text := end.ContainerNode()
	shouldUpdateStart := start.AnchorType() == dom.OffsetInAnchor && start.ContainerNode() == text
	cmd.splitTextNode(text, end.Offset())
	prefix := text.PrevSibling
	if !dom.IsText(prefix) {
		return
	}
	newStart := start
	if shouldUpdateStart {
		newStart = dom.PositionInNode(prefix, start.Offset())
	}
	cmd.updateStartEnd(newStart, dom.LastPositionInNode(prefix))
}

func (cmd *ApplyStyleCommand) splitTextElementAtStart(start, end dom.Position) {
	text := start.ContainerNode()
	newEnd := end
	if end.ContainerNode() == text {
		newEnd = dom.PositionInNode(text, end.OffsetInContainer()-start.Offset())
	}
	cmd.splitTextNodeContainingElement(text, start.Offset())
	cmd.updateStartEnd(dom.PositionBefore(text), newEnd)
}

func (cmd *ApplyStyleCommand) splitTextElementAtEnd(start, end dom.Position) {
	text := end.ContainerNode()
	shouldUpdateStart := start.ContainerNode() == text
	cmd.splitTextNodeContainingElement(text, end.Offset())
	parent := text.Parent
	if parent == nil || parent.PrevSibling == nil {
		return
	}
	firstText := parent.PrevSibling.LastChild
	if !dom.IsText(firstText) {
		return
	}
	newStart := start
	if shouldUpdateStart {
		newStart = dom.PositionInNode(firstText, start.OffsetInContainer())
	}
	cmd.updateStartEnd(newStart, dom.PositionAfter(firstText))
}

// splitTextNodeContainingElement splits a text node and its parent
// element. A block parent is not split; its content is wrapped into a
// span first, which is split instead.
func (cmd *ApplyStyleCommand) splitTextNodeContainingElement(text *html.Node, offset int) {
	cmd.splitTextNode(text, offset)
	parent := text.Parent
	if parent == nil || parent.Type != html.ElementNode || parent.Parent == nil ||
		parent.Parent.Type != html.ElementNode || !dom.IsContentEditable(parent.Parent) {
		return
	}
	if cmd.layout().IsBlock(parent) {
		cmd.wrapContentsInSpan(parent)
		first := parent.FirstChild
		if first == nil || first.Type != html.ElementNode {
			return
		}
		parent = first
	}
	cmd.splitElement(parent, text)
}

// mergeStartWithPreviousIfIdentical merges the element starting at the
// range start with an identical previous sibling.
func (cmd *ApplyStyleCommand) mergeStartWithPreviousIfIdentical(start, end dom.Position) bool {
	startNode, startOffset := start.ContainerNode(), start.OffsetInContainer()
	if startOffset != 0 || startNode == nil {
		return false
	}
	if isAtomicNode(startNode) {
		// earlier siblings could be unrendered; merging is skipped then
		if startNode.PrevSibling != nil {
			return false
		}
		startNode = startNode.Parent
	}
	if startNode == nil || startNode.Type != html.ElementNode {
		return false
	}
	prev := startNode.PrevSibling
	if prev == nil || !areIdenticalElements(startNode, prev) {
		return false
	}
	startChild := startNode.FirstChild
	cmd.mergeIdenticalElements(prev, startNode)
	adjustment := 0
	if startChild != nil {
		adjustment = dom.NodeIndex(startChild)
	}
	newEnd := end
	if end.ContainerNode() == startNode {
		newEnd = dom.PositionInNode(startNode, end.OffsetInContainer()+adjustment)
	}
	cmd.updateStartEnd(dom.PositionInNode(startNode, adjustment), newEnd)
	return true
}

// mergeEndWithNextIfIdentical merges the element ending at the range end
// with an identical next sibling.
func (cmd *ApplyStyleCommand) mergeEndWithNextIfIdentical(start, end dom.Position) bool {
	endNode := end.ContainerNode()
	if endNode == nil {
		return false
	}
	if isAtomicNode(endNode) {
		if end.OffsetInContainer() < dom.MaxOffset(endNode) || endNode.NextSibling != nil {
			return false
		}
		endNode = endNode.Parent
	}
	if endNode == nil || endNode.Type != html.ElementNode || dom.IsBR(endNode) {
		return false
	}
	next := endNode.NextSibling
	if next == nil || !areIdenticalElements(endNode, next) {
		return false
	}
	nextChild := next.FirstChild
	cmd.mergeIdenticalElements(endNode, next)
	shouldUpdateStart := start.ContainerNode() == endNode
	endOffset := dom.ChildCount(next)
	if nextChild != nil {
		endOffset = dom.NodeIndex(nextChild)
	}
	newStart := start
	if shouldUpdateStart {
		newStart = dom.PositionInNode(next, start.OffsetInContainer())
	}
	cmd.updateStartEnd(newStart, dom.PositionInNode(next, endOffset))
	return true
}

// --- Writing direction -----------------------------------------------------

// splitAncestorsWithUnicodeBidi splits the ancestors of node up to the
// highest one with an explicit unicode-bidi. The highest ancestor may stay
// unsplit if it already embeds the requested direction; it is returned
// then.
func (cmd *ApplyStyleCommand) splitAncestorsWithUnicodeBidi(node *html.Node, before bool, allowedDirection string) *html.Node {
	block := dom.EnclosingBlock(node)
	if node == nil || block == nil {
		return nil
	}
	var highest, nextHighest *html.Node
	var highestBidi string
	for n := node.Parent; n != nil && n != block; n = n.Parent {
		bidi := lower(cmd.ed.styles.ComputedProperty(n, "unicode-bidi").String())
		if bidi != "" && bidi != "normal" {
			highestBidi = bidi
			nextHighest, highest = highest, n
		}
	}
	if highest == nil {
		return nil
	}
	var unsplittable *html.Node
	if allowedDirection != "" && highestBidi != "bidi-override" && highest.Type == html.ElementNode {
		ancestorStyle := EditingStyleForNode(cmd.ed.styles, highest, InheritableProperties)
		ancestorStyle.SetProperty("unicode-bidi", style.Property(highestBidi))
		if dir, ok := ancestorStyle.TextDirection(); ok && dir == allowedDirection {
			if nextHighest == nil {
				return highest
			}
			unsplittable, highest = highest, nextHighest
		}
	}
	for current := node; current != nil && current.Parent != nil; current = current.Parent {
		parent := current.Parent
		if before && current.PrevSibling != nil {
			cmd.splitElement(parent, current)
		} else if !before && current.NextSibling != nil {
			cmd.splitElement(parent, current.NextSibling)
		}
		if parent == highest {
			break
		}
	}
	return unsplittable
}

// removeEmbeddingUpToEnclosingBlock resets unicode-bidi on the ancestors
// of node inside its block.
func (cmd *ApplyStyleCommand) removeEmbeddingUpToEnclosingBlock(node, unsplitAncestor *html.Node) {
	block := dom.EnclosingBlock(node)
	if node == nil || block == nil {
		return
	}
	for n := node.Parent; n != nil && n != block && n != unsplitAncestor; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		bidi := lower(cmd.ed.styles.ComputedProperty(n, "unicode-bidi").String())
		if bidi == "" || bidi == "normal" {
			continue
		}
		if dom.HasAttribute(n, "dir") {
			cmd.removeNodeAttribute(n, "dir")
			continue
		}
		ps := inlineStyle(n)
		ps.Set("unicode-bidi", "normal", false)
		ps.Remove("direction")
		cmd.setNodeAttribute(n, "style", ps.Text())
		if isSpanWithoutAttributesOrUnstyledStyleSpan(n) {
			cmd.removeNodePreservingChildren(n)
		}
	}
}

// highestEmbeddingAncestor returns the nearest ancestor-or-self of
// startNode below enclosing with unicode-bidi: embed.
func highestEmbeddingAncestor(cmd *ApplyStyleCommand, startNode, enclosing *html.Node) *html.Node {
	for n := startNode; n != nil && n != enclosing; n = n.Parent {
		if n.Type == html.ElementNode && lower(cmd.ed.styles.ComputedProperty(n, "unicode-bidi").String()) == "embed" {
			return n
		}
	}
	return nil
}

// --- Adding markup ---------------------------------------------------------

// surroundNodeRangeWithElement moves the siblings from startNode to
// endNode into elem, then merges elem with identical neighbours.
func (cmd *ApplyStyleCommand) surroundNodeRangeWithElement(startNode, endNode, elem *html.Node) {
	cmd.insertNodeBefore(elem, startNode)
	for node := startNode; node != nil; {
		next := node.NextSibling
		if dom.IsContentEditable(node) {
			cmd.removeNode(node)
			cmd.appendNode(node, elem)
		}
		if node == endNode {
			break
		}
		node = next
	}
	nextSib, prevSib := elem.NextSibling, elem.PrevSibling
	if nextSib != nil && nextSib.Type == html.ElementNode && dom.IsContentEditable(nextSib) && areIdenticalElements(elem, nextSib) {
		cmd.mergeIdenticalElements(elem, nextSib)
	}
	if prevSib != nil && prevSib.Type == html.ElementNode && dom.IsContentEditable(prevSib) {
		merged := prevSib.NextSibling
		if merged != nil && merged.Type == html.ElementNode && dom.IsContentEditable(merged) && areIdenticalElements(prevSib, merged) {
			cmd.mergeIdenticalElements(prevSib, merged)
		}
	}
}

// addInlineStyleIfNeeded applies the style change needed for a style to a
// run of siblings.
func (cmd *ApplyStyleCommand) addInlineStyleIfNeeded(s *EditingStyle, start, end *html.Node, addStyledElement bool) {
	if start == nil || end == nil || !cmd.doc().Contains(start) || !cmd.doc().Contains(end) {
		return
	}
	change := NewStyleChange(cmd.ed, s, positionToComputeInlineStyleChange(start))
	cmd.applyInlineStyleChange(start, end, change, addStyledElement)
}

// applyInlineStyleChange wraps a run of siblings into the markup of a
// style change. An existing <font> or span wrapping the run alone is
// reused.
func (cmd *ApplyStyleCommand) applyInlineStyleChange(startNode, endNode *html.Node, change StyleChange, addStyledElement bool) {
	var fontContainer, styleContainer *html.Node
	for container := startNode; container != nil && startNode == endNode; container = container.FirstChild {
		if dom.IsElement(container, "font") {
			fontContainer = container
		}
		styleContainerIsNotSpan := styleContainer == nil || !dom.IsElement(styleContainer, "span")
		if container.Type == html.ElementNode &&
			(dom.IsElement(container, "span") || styleContainerIsNotSpan && container.FirstChild != nil) {
			styleContainer = container
		}
		if container.FirstChild == nil {
			break
		}
		startNode, endNode = container.FirstChild, container.LastChild
	}
	// <font> goes outside of CSS, so that CSS font sizes win
	if change.NeedsFontElement() {
		if fontContainer != nil {
			cmd.setFontAttributes(fontContainer, change, true)
		} else {
			font := dom.CreateElement("font")
			cmd.setFontAttributes(font, change, false)
			cmd.surroundNodeRangeWithElement(startNode, endNode, font)
		}
	}
	if change.CSSStyle != "" {
		if styleContainer != nil {
			text := change.CSSStyle
			if existing, ok := dom.AttributeValue(styleContainer, "style"); ok && existing != "" {
				text = existing + " " + text
			}
			cmd.setNodeAttribute(styleContainer, "style", text)
		} else {
			span := createStyleSpanElement()
			span.Attr = append(span.Attr, html.Attribute{Key: "style", Val: change.CSSStyle})
			cmd.surroundNodeRangeWithElement(startNode, endNode, span)
		}
	}
	wrap := func(tag string) {
		cmd.surroundNodeRangeWithElement(startNode, endNode, dom.CreateElement(tag))
	}
	if change.ApplyBold {
		wrap("b")
	}
	if change.ApplyItalic {
		wrap("i")
	}
	if change.ApplyUnderline {
		wrap("u")
	}
	if change.ApplyLineThrough {
		wrap("strike")
	}
	if change.ApplySubscript {
		wrap("sub")
	} else if change.ApplySuperscript {
		wrap("sup")
	}
	if cmd.styledInlineElement != nil && addStyledElement {
		cmd.surroundNodeRangeWithElement(startNode, endNode, dom.CloneNode(cmd.styledInlineElement, false))
	}
}

func (cmd *ApplyStyleCommand) setFontAttributes(font *html.Node, change StyleChange, undoable bool) {
	attrs := []struct{ key, value string }{
		{"color", change.FontColor},
		{"face", change.FontFace},
		{"size", change.FontSize},
	}
	for _, a := range attrs {
		if a.value == "" {
			continue
		}
		if undoable {
			cmd.setNodeAttribute(font, a.key, a.value)
		} else {
			font.Attr = append(font.Attr, html.Attribute{Key: a.key, Val: a.value})
		}
	}
}

// cleanupUnstyledStyleSpans unwraps the spans below ancestor which carry
// no style any more.
func (cmd *ApplyStyleCommand) cleanupUnstyledStyleSpans(ancestor *html.Node) {
	if ancestor == nil {
		return
	}
	for _, n := range dom.Children(ancestor) {
		if isSpanWithoutAttributesOrUnstyledStyleSpan(n) {
			cmd.removeNodePreservingChildren(n)
		}
	}
}

// styleSpanAncestorForNode returns the parent of the nearest style span
// enclosing node. Splitting a span creates siblings, so that all of them
// are children of the returned node.
func styleSpanAncestorForNode(n *html.Node) *html.Node {
	for n != nil && (n.Type != html.ElementNode || !isStyleSpanOrSpanWithOnlyStyleAttribute(n)) {
		n = n.Parent
	}
	if n == nil {
		return nil
	}
	return n.Parent
}

// --- Node helpers ----------------------------------------------------------

func createStyleSpanElement() *html.Node {
	span := dom.CreateElement("span")
	span.Attr = append(span.Attr, html.Attribute{Key: "class", Val: styleSpanClass})
	return span
}

// positionToComputeInlineStyleChange is the position whose computed style
// a run starting at node is compared with.
func positionToComputeInlineStyleChange(node *html.Node) dom.Position {
	if node.Type != html.ElementNode {
		return dom.PositionInParentBefore(node)
	}
	return firstPositionInOrBeforeNode(node)
}

// editingIgnoresContent is true for elements whose content is not edited,
// like images or line breaks.
func editingIgnoresContent(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && !canHaveChildrenForEditing(n)
}

func isAtomicNode(n *html.Node) bool {
	return n != nil && (n.FirstChild == nil || editingIgnoresContent(n))
}

func firstPositionInOrBeforeNode(n *html.Node) dom.Position {
	if editingIgnoresContent(n) {
		return dom.PositionBefore(n)
	}
	return dom.FirstPositionInNode(n)
}

func lastPositionInOrAfterNode(n *html.Node) dom.Position {
	if editingIgnoresContent(n) {
		return dom.PositionAfter(n)
	}
	return dom.LastPositionInNode(n)
}

// firstNodeAtOrAfter returns the first node whose content starts at or
// after a position. A position inside a text node yields the text node,
// unless it is at its end.
func firstNodeAtOrAfter(p dom.Position) *html.Node {
	c := p.ContainerNode()
	if c == nil {
		return nil
	}
	if dom.IsText(c) {
		if p.OffsetInContainer() >= dom.TextLength(c) {
			return dom.NextNode(c, nil)
		}
		return c
	}
	if n := dom.ChildAt(c, p.OffsetInContainer()); n != nil {
		return n
	}
	return dom.NextSkippingChildren(c, nil)
}

// nodePastEnd returns the first node not covered by a range ending at p.
func nodePastEnd(p dom.Position) *html.Node {
	c := p.ContainerNode()
	if c == nil {
		return nil
	}
	if dom.IsText(c) {
		if p.OffsetInContainer() >= dom.TextLength(c) {
			return dom.NextSkippingChildren(c, nil)
		}
		return c
	}
	if n := dom.ChildAt(c, p.OffsetInContainer()); n != nil {
		return n
	}
	return dom.NextSkippingChildren(c, nil)
}

func containsNonEditableRegion(n *html.Node) bool {
	return dom.FindFirst(n, func(d *html.Node) bool {
		return !dom.IsContentEditable(d)
	}) != nil
}

// isElementLike returns a predicate matching elements with the tag of
// elem.
func isElementLike(elem *html.Node) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n != nil && n.Type == html.ElementNode && n.Data == elem.Data && n.Namespace == elem.Namespace
	}
}

// hasNoAttributeOrOnlyStyleAttribute is true if an element carries nothing
// but style: the style span class and a style attribute, which has to be
// empty if styleMustBeEmpty is set.
func hasNoAttributeOrOnlyStyleAttribute(elem *html.Node, styleMustBeEmpty bool) bool {
	matched := 0
	for _, a := range elem.Attr {
		switch {
		case a.Key == "class" && a.Val == styleSpanClass:
			matched++
		case a.Key == "style" && (!styleMustBeEmpty || inlineStyle(elem).IsEmpty()):
			matched++
		}
	}
	return matched == len(elem.Attr)
}

func isEmptyFontTag(elem *html.Node) bool {
	return dom.IsElement(elem, "font") && hasNoAttributeOrOnlyStyleAttribute(elem, true)
}

// removeAttr removes an attribute of a detached node.
func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

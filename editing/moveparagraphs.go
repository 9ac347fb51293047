package editing

import (
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// moveParagraphs relocates the paragraphs from start to end to
// destination. The paragraphs are copied into a fragment, deleted from
// their old place and re-inserted at the destination with a replace
// command. With preserveStyle the fragment carries the style the content
// had at its old place; otherwise it takes on the style of the
// destination. With preserveSelection a selection within the moved
// paragraphs is restored relative to the moved content.
func (c *CompositeEditCommand) moveParagraphs(startOfParagraphToMove, endOfParagraphToMove, destination layout.VisiblePosition, preserveSelection, preserveStyle bool) {
	if startOfParagraphToMove.IsNull() || destination.IsNull() || startOfParagraphToMove.Equal(destination) {
		return
	}
	l := c.layout()
	start := l.Downstream(startOfParagraphToMove.DeepEquivalent())
	end := l.Upstream(endOfParagraphToMove.DeepEquivalent())
	dest := destination.DeepEquivalent()
	if !dest.Before(start) && !end.Before(dest) {
		tracer().Infof("move paragraphs: destination %s lies within the moved range", dest)
		return
	}
	tracer().Debugf("move paragraphs %s…%s to %s", start, end, dest)

	// selection offsets relative to the start of the moved paragraphs
	startIndex, endIndex := -1, -1
	originalIsDirectional := c.ending.IsDirectional()
	if preserveSelection && !c.ending.IsNone() {
		visibleStart, visibleEnd := c.ending.VisibleStart(l), c.ending.VisibleEnd(l)
		startAfterParagraph := visibleStart.DeepEquivalent().After(endOfParagraphToMove.DeepEquivalent())
		endBeforeParagraph := visibleEnd.DeepEquivalent().Before(startOfParagraphToMove.DeepEquivalent())
		if !startAfterParagraph && !endBeforeParagraph {
			if visibleStart.DeepEquivalent().Before(startOfParagraphToMove.DeepEquivalent()) {
				startIndex = 0
			} else {
				startIndex = l.CharacterCount(startOfParagraphToMove, visibleStart)
			}
			if visibleEnd.DeepEquivalent().After(endOfParagraphToMove.DeepEquivalent()) {
				endIndex = l.CharacterCount(startOfParagraphToMove, endOfParagraphToMove)
			} else {
				endIndex = l.CharacterCount(startOfParagraphToMove, visibleEnd)
			}
		}
	}

	beforeParagraph := l.Previous(startOfParagraphToMove, layout.Character).DeepEquivalent()
	afterParagraph := l.Next(endOfParagraphToMove, layout.Character).DeepEquivalent()

	var fragment []*html.Node
	if !startOfParagraphToMove.Equal(endOfParagraphToMove) {
		fragment = c.fragmentForRange(start, end, preserveStyle)
	}
	var styleInEmptyParagraph *EditingStyle
	if preserveStyle && startOfParagraphToMove.Equal(endOfParagraphToMove) {
		styleInEmptyParagraph = EditingStyleAtPosition(c.ed.styles, start, InheritableProperties)
		styleInEmptyParagraph.MergeTypingStyle(c.ed)
		// the moved paragraph assumes the block style of the destination
		styleInEmptyParagraph.RemoveBlockProperties()
	}

	release := c.ed.tracker.track(&dest, &beforeParagraph, &afterParagraph)
	defer release()
	c.setEndingSelection(rawSelection(start, end))
	c.deleteSelectionOf(rawSelection(start, end), false, false, false, false)
	if dest.IsOrphan(c.doc()) {
		tracer().Infof("move paragraphs: destination left the document")
		return
	}
	c.cleanupAfterDeletion(l.VisiblePosition(dest))

	// Deleting the paragraphs may have pruned a block, which joins the
	// paragraphs before and after it into one.
	if !beforeParagraph.IsNull() && !beforeParagraph.IsOrphan(c.doc()) {
		before := l.VisiblePosition(beforeParagraph)
		after := l.VisiblePosition(afterParagraph)
		if !l.IsEndOfParagraph(before) || !afterParagraph.IsNull() && before.Equal(after) {
			c.insertNodeAt(dom.CreateElement("br"), beforeParagraph)
		}
	}

	destination = l.VisiblePosition(dest)
	destinationIndex := l.CharacterCount(l.StartOfEditableContent(dest.ContainerNode()), destination)
	c.setEndingSelection(NewCaret(l, destination.DeepEquivalent(), Downstream))
	options := ReplaceSelectReplacement | ReplaceMovingParagraph
	if !preserveStyle {
		options |= ReplaceMatchStyle
	}
	c.applyCommandToComposite(NewReplaceSelectionCommand(c.ed, fragment, options, EditActionUnspecified))

	caret := c.ending.VisibleStart(l)
	if styleInEmptyParagraph != nil && c.ending.IsCaret() && l.IsStartOfParagraph(caret) && l.IsEndOfParagraph(caret) {
		styleInEmptyParagraph.PrepareToApplyAt(c.ed.styles, c.ending.Start())
		if !styleInEmptyParagraph.IsEmpty() {
			c.applyStyle(styleInEmptyParagraph, EditActionUnspecified)
		}
	}
	if preserveSelection && startIndex >= 0 {
		origin := l.StartOfEditableContent(c.ending.Start().ContainerNode())
		s := l.PositionAtCharacterOffset(origin, destinationIndex+startIndex)
		e := l.PositionAtCharacterOffset(origin, destinationIndex+endIndex)
		if !s.IsNull() && !e.IsNull() {
			sel := selectionFromVisible(l, s, e)
			sel.directional = originalIsDirectional
			c.setEndingSelection(sel)
		}
	}
}

// fragmentForRange copies the content between start and end into a list
// of detached nodes. Partially selected elements are copied without their
// unselected children. With preserveStyle the copy is wrapped in a style
// span carrying the inheritable style of the content.
func (c *CompositeEditCommand) fragmentForRange(start, end dom.Position, preserveStyle bool) []*html.Node {
	ca := dom.CommonAncestor(start.ContainerNode(), end.ContainerNode())
	if ca == nil || !start.Before(end) {
		return nil
	}
	var nodes []*html.Node
	if dom.IsText(ca) {
		s := dom.Substring(ca.Data, start.OffsetInContainer(), end.OffsetInContainer())
		nodes = []*html.Node{dom.CreateText(s)}
	} else {
		nodes = cloneChildrenInRange(ca, start, end)
	}
	if !preserveStyle || len(nodes) == 0 {
		return nodes
	}
	context := ca
	if dom.IsText(context) {
		context = context.Parent
	}
	s := EditingStyleForNode(c.ed.styles, context, InheritableProperties)
	s.RemoveBlockProperties()
	if s.IsEmpty() {
		return nodes
	}
	span := createStyleSpanElement()
	span.Attr = append(span.Attr, html.Attribute{Key: "style", Val: s.Text()})
	for _, n := range nodes {
		span.AppendChild(n)
	}
	return []*html.Node{span}
}

// cloneChildrenInRange copies the children of p which intersect the range
// [start, end).
func cloneChildrenInRange(p *html.Node, start, end dom.Position) []*html.Node {
	var out []*html.Node
	i := 0
	for ch := p.FirstChild; ch != nil; ch, i = ch.NextSibling, i+1 {
		before, after := dom.PositionInNode(p, i), dom.PositionInNode(p, i+1)
		if after.Compare(start) <= 0 {
			continue
		}
		if before.Compare(end) >= 0 {
			break
		}
		if before.Compare(start) >= 0 && after.Compare(end) <= 0 {
			out = append(out, dom.CloneNode(ch, true))
			continue
		}
		if dom.IsText(ch) {
			from, to := 0, dom.TextLength(ch)
			if start.ContainerNode() == ch {
				from = start.OffsetInContainer()
			}
			if end.ContainerNode() == ch {
				to = end.OffsetInContainer()
			}
			if from < to {
				out = append(out, dom.CreateText(dom.Substring(ch.Data, from, to)))
			}
			continue
		}
		shallow := dom.CloneNode(ch, false)
		for _, n := range cloneChildrenInRange(ch, start, end) {
			shallow.AppendChild(n)
		}
		out = append(out, shallow)
	}
	return out
}

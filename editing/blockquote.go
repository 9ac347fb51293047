package editing

import (
	"strconv"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// BreakBlockquoteCommand breaks a quote at the caret: the quoted content
// after the caret moves into a copy of the quote, and an unquoted line
// break between both halves takes the caret.
type BreakBlockquoteCommand struct {
	CompositeEditCommand
}

// NewBreakBlockquoteCommand creates a command breaking the quote at the
// ending selection.
func NewBreakBlockquoteCommand(ed *Editor) *BreakBlockquoteCommand {
	cmd := &BreakBlockquoteCommand{}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *BreakBlockquoteCommand) EditingAction() EditAction {
	return EditActionTyping
}

func isFirstVisiblePositionInNode(l *layout.Layout, vp layout.VisiblePosition, n *html.Node) bool {
	if vp.IsNull() || n == nil {
		return false
	}
	prev := l.Previous(vp, layout.Character)
	return prev.IsNull() || !dom.IsAncestorOrSelf(n, prev.DeepEquivalent().DeepestNode())
}

func isLastVisiblePositionInNode(l *layout.Layout, vp layout.VisiblePosition, n *html.Node) bool {
	if vp.IsNull() || n == nil {
		return false
	}
	next := l.Next(vp, layout.Character)
	return next.IsNull() || !dom.IsAncestorOrSelf(n, next.DeepEquivalent().DeepestNode())
}

func (cmd *BreakBlockquoteCommand) doApply() {
	if cmd.ending.IsNone() {
		return
	}
	cmd.deleteSelection(false, false, false, false)
	l := cmd.layout()
	visiblePos := cmd.ending.VisibleStart(l)
	if visiblePos.IsNull() {
		return
	}
	pos := l.Downstream(cmd.ending.Start())

	var topBlockquote *html.Node
	for n := pos.DeepestNode(); n != nil; n = n.Parent {
		if n != pos.DeepestNode() && dom.IsMailBlockquote(n) {
			topBlockquote = n
		}
	}
	if topBlockquote == nil || topBlockquote.Parent == nil {
		return
	}
	breakNode := dom.CreateElement("br")
	isLastVisPosInNode := isLastVisiblePositionInNode(l, visiblePos, topBlockquote)
	if isFirstVisiblePositionInNode(l, visiblePos, topBlockquote) && !isLastVisPosInNode {
		cmd.insertNodeBefore(breakNode, topBlockquote)
		cmd.setEndingCaret(dom.PositionInParentBefore(breakNode))
		cmd.rebalanceWhitespace()
		return
	}
	cmd.insertNodeAfter(breakNode, topBlockquote)
	if isLastVisPosInNode {
		cmd.setEndingCaret(dom.PositionInParentBefore(breakNode))
		cmd.rebalanceWhitespace()
		return
	}
	l = cmd.layout()

	// a line break right at the caret stays, moving it would open an
	// empty paragraph in the new quote
	if cmd.lineBreakExistsAtVisiblePosition(visiblePos) {
		if next := l.Next(visiblePos, layout.Character); !next.IsNull() {
			pos = l.Downstream(next.DeepEquivalent())
		}
	}
	// do not split at the very beginning of a nested quote
	for {
		vp := l.VisiblePosition(pos)
		quote := dom.EnclosingNodeOfType(pos.DeepestNode(), dom.IsMailBlockquote, topBlockquote.Parent)
		if quote == nil || quote == topBlockquote || !isFirstVisiblePositionInNode(l, vp, quote) {
			break
		}
		prev := l.Previous(vp, layout.Character)
		if prev.IsNull() {
			break
		}
		pos = l.Downstream(prev.DeepEquivalent())
	}

	startNode := pos.ContainerNode()
	if text := startNode; dom.IsText(text) {
		off := pos.OffsetInContainer()
		if off >= dom.TextLength(text) {
			startNode = dom.NextNode(text, nil)
		} else if off > 0 {
			cmd.splitTextNode(text, off)
		}
	} else if off := pos.OffsetInContainer(); off > 0 || pos.NodeAfter() != nil {
		if child := pos.NodeAfter(); child != nil {
			startNode = child
		} else {
			startNode = dom.NextNode(startNode, nil)
		}
	}
	if startNode == nil {
		return
	}
	if !dom.IsAncestor(topBlockquote, startNode) {
		cmd.setEndingCaret(firstPositionInOrBeforeNode(startNode))
		return
	}
	tracer().Debugf("break blockquote at %s", dom.NodeName(startNode))

	var ancestors []*html.Node
	for n := startNode.Parent; n != nil && n != topBlockquote; n = n.Parent {
		ancestors = append(ancestors, n)
	}
	clonedBlockquote := dom.CloneNode(topBlockquote, false)
	cmd.insertNodeAfter(clonedBlockquote, breakNode)
	clonedAncestor := clonedBlockquote
	for i := len(ancestors) - 1; i >= 0; i-- {
		clonedChild := dom.CloneNode(ancestors[i], false)
		if dom.IsElement(clonedChild, "ol") {
			// list numbering continues in the cloned list
			clonedChild.Attr = withoutAttribute(clonedChild.Attr, "start")
			clonedChild.Attr = append(clonedChild.Attr, html.Attribute{
				Key: "start", Val: strconv.Itoa(listItemsBefore(ancestors, i) + listStart(ancestors[i])),
			})
		}
		cmd.appendNode(clonedChild, clonedAncestor)
		clonedAncestor = clonedChild
	}
	cmd.moveRemainingSiblingsToNewParent(startNode, nil, clonedAncestor)
	if len(ancestors) > 0 {
		clonedParent := clonedAncestor.Parent
		for ancestor := ancestors[0]; ancestor != nil && ancestor != topBlockquote && clonedParent != nil; ancestor = ancestor.Parent {
			cmd.moveRemainingSiblingsToNewParent(ancestor.NextSibling, nil, clonedParent)
			clonedParent = clonedParent.Parent
		}
		if originalParent := ancestors[0]; originalParent.FirstChild == nil {
			cmd.removeNode(originalParent)
		}
	}
	cmd.addBlockPlaceholderIfNeeded(clonedBlockquote)
	cmd.setEndingCaret(dom.PositionInParentBefore(breakNode))
	cmd.rebalanceWhitespace()
}

// listStart is the number of the first item of an ordered list.
func listStart(ol *html.Node) int {
	if v, ok := dom.AttributeValue(ol, "start"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 1
}

// listItemsBefore counts the items of ancestors[i] in front of the item
// containing the split point, the item itself included if it is split.
func listItemsBefore(ancestors []*html.Node, i int) int {
	if i == 0 {
		return 0
	}
	item := ancestors[i-1]
	count := 0
	for n := ancestors[i].FirstChild; n != nil && n != item; n = n.NextSibling {
		if dom.IsListItem(n) {
			count++
		}
	}
	return count + 1
}

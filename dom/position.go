package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// AnchorType discriminates how a Position relates to its anchor node.
type AnchorType uint8

// Anchor types of positions.
const (
	OffsetInAnchor AnchorType = iota // offset counts children or code points of the anchor
	BeforeAnchor                     // immediately before the anchor node
	AfterAnchor                      // immediately after the anchor node
	BeforeChildren                   // before all children of the anchor
	AfterChildren                    // after all children of the anchor
)

func (t AnchorType) String() string {
	switch t {
	case OffsetInAnchor:
		return "offset"
	case BeforeAnchor:
		return "before"
	case AfterAnchor:
		return "after"
	case BeforeChildren:
		return "before-children"
	case AfterChildren:
		return "after-children"
	}
	return "?"
}

// Position is a boundary point in a document tree. Positions are values;
// they are evaluated against the live tree whenever they are used.
// A position becomes orphaned when its anchor leaves the document.
type Position struct {
	anchor     *html.Node
	offset     int
	anchorType AnchorType
}

// NullPosition is the zero position.
var NullPosition = Position{}

// PositionInNode creates a position at an offset within a container node.
func PositionInNode(n *html.Node, offset int) Position {
	if n == nil {
		return NullPosition
	}
	return Position{anchor: n, offset: offset, anchorType: OffsetInAnchor}
}

// PositionBefore creates a position immediately before n.
// It stays valid as long as n is attached, regardless of sibling changes.
func PositionBefore(n *html.Node) Position {
	if n == nil {
		return NullPosition
	}
	return Position{anchor: n, anchorType: BeforeAnchor}
}

// PositionAfter creates a position immediately after n.
func PositionAfter(n *html.Node) Position {
	if n == nil {
		return NullPosition
	}
	return Position{anchor: n, anchorType: AfterAnchor}
}

// FirstPositionInNode creates a position before the first child (or
// character) of n.
func FirstPositionInNode(n *html.Node) Position {
	if n == nil {
		return NullPosition
	}
	if n.Type == html.TextNode {
		return PositionInNode(n, 0)
	}
	return Position{anchor: n, anchorType: BeforeChildren}
}

// LastPositionInNode creates a position after the last child (or character)
// of n.
func LastPositionInNode(n *html.Node) Position {
	if n == nil {
		return NullPosition
	}
	if n.Type == html.TextNode {
		return PositionInNode(n, TextLength(n))
	}
	return Position{anchor: n, anchorType: AfterChildren}
}

// PositionInParentBefore is the parent-anchored equivalent of PositionBefore:
// (parent, index of n).
func PositionInParentBefore(n *html.Node) Position {
	if n == nil || n.Parent == nil {
		return NullPosition
	}
	return PositionInNode(n.Parent, NodeIndex(n))
}

// PositionInParentAfter is the parent-anchored equivalent of PositionAfter.
func PositionInParentAfter(n *html.Node) Position {
	if n == nil || n.Parent == nil {
		return NullPosition
	}
	return PositionInNode(n.Parent, NodeIndex(n)+1)
}

// IsNull is true for the zero position.
func (p Position) IsNull() bool {
	return p.anchor == nil
}

// Anchor returns the anchor node.
func (p Position) Anchor() *html.Node {
	return p.anchor
}

// AnchorType returns the anchor type.
func (p Position) AnchorType() AnchorType {
	return p.anchorType
}

// Offset returns the raw offset. It is meaningful for OffsetInAnchor only.
func (p Position) Offset() int {
	return p.offset
}

// ContainerNode returns the node containing the boundary point.
func (p Position) ContainerNode() *html.Node {
	switch p.anchorType {
	case BeforeAnchor, AfterAnchor:
		if p.anchor == nil {
			return nil
		}
		return p.anchor.Parent
	}
	return p.anchor
}

// OffsetInContainer returns the offset of the boundary point within
// ContainerNode().
func (p Position) OffsetInContainer() int {
	switch p.anchorType {
	case BeforeAnchor:
		return NodeIndex(p.anchor)
	case AfterAnchor:
		return NodeIndex(p.anchor) + 1
	case BeforeChildren:
		return 0
	case AfterChildren:
		if p.anchor.Type == html.TextNode {
			return TextLength(p.anchor)
		}
		return ChildCount(p.anchor)
	}
	return p.offset
}

// ParentAnchored returns the equivalent position of type OffsetInAnchor.
func (p Position) ParentAnchored() Position {
	if p.IsNull() {
		return p
	}
	c := p.ContainerNode()
	if c == nil {
		return NullPosition
	}
	return PositionInNode(c, p.OffsetInContainer())
}

// IsOrphan is true if the position's anchor is not part of doc, or the
// offset has become invalid.
func (p Position) IsOrphan(doc *Document) bool {
	if p.IsNull() {
		return true
	}
	c := p.ContainerNode()
	if c == nil || !doc.Contains(c) {
		return true
	}
	off := p.OffsetInContainer()
	return off < 0 || off > MaxOffset(c)
}

// MaxOffset returns the largest valid offset within a container node.
func MaxOffset(n *html.Node) int {
	if n.Type == html.TextNode {
		return TextLength(n)
	}
	return ChildCount(n)
}

// NodeAfter returns the child node immediately after the boundary point,
// or nil if the container is a text node or the point is at its end.
func (p Position) NodeAfter() *html.Node {
	c := p.ContainerNode()
	if c == nil || c.Type == html.TextNode {
		return nil
	}
	return ChildAt(c, p.OffsetInContainer())
}

// NodeBefore returns the child node immediately before the boundary point.
func (p Position) NodeBefore() *html.Node {
	c := p.ContainerNode()
	if c == nil || c.Type == html.TextNode {
		return nil
	}
	off := p.OffsetInContainer()
	if off <= 0 {
		return nil
	}
	return ChildAt(c, off-1)
}

// DeepestNode returns the node a position points into: the container for
// text positions, otherwise the child after the boundary (or before it at
// the end of a container).
func (p Position) DeepestNode() *html.Node {
	c := p.ContainerNode()
	if c == nil || c.Type == html.TextNode {
		return c
	}
	if n := p.NodeAfter(); n != nil {
		return n
	}
	if n := p.NodeBefore(); n != nil {
		return n
	}
	return c
}

// Equal compares the boundary points of two positions.
func (p Position) Equal(q Position) bool {
	if p.IsNull() || q.IsNull() {
		return p.IsNull() && q.IsNull()
	}
	return p.ContainerNode() == q.ContainerNode() && p.OffsetInContainer() == q.OffsetInContainer()
}

// Compare compares the boundary points of two positions in document order.
// It returns -1 if p is before q, 0 if they are equal, and 1 if p is after q.
// Positions in disconnected trees compare as equal.
func (p Position) Compare(q Position) int {
	a, aoff := p.ContainerNode(), p.OffsetInContainer()
	b, boff := q.ContainerNode(), q.OffsetInContainer()
	return compareBoundaryPoints(a, aoff, b, boff)
}

// Before is shorthand for p.Compare(q) < 0.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

// After is shorthand for p.Compare(q) > 0.
func (p Position) After(q Position) bool {
	return p.Compare(q) > 0
}

func (p Position) String() string {
	if p.IsNull() {
		return "(null)"
	}
	if p.anchorType == OffsetInAnchor {
		return fmt.Sprintf("(%s,%d)", NodeName(p.anchor), p.offset)
	}
	return fmt.Sprintf("(%s %s)", p.anchorType, NodeName(p.anchor))
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareBoundaryPoints follows the DOM boundary-point comparison algorithm.
func compareBoundaryPoints(a *html.Node, aoff int, b *html.Node, boff int) int {
	if a == nil || b == nil {
		return 0
	}
	if a == b {
		return cmpInt(aoff, boff)
	}
	if IsAncestor(a, b) {
		c := b
		for c.Parent != a {
			c = c.Parent
		}
		if NodeIndex(c) < aoff {
			return 1
		}
		return -1
	}
	if IsAncestor(b, a) {
		return -compareBoundaryPoints(b, boff, a, aoff)
	}
	return compareTreeOrder(a, b)
}

// compareTreeOrder compares two nodes which are not ancestors of each other.
func compareTreeOrder(a, b *html.Node) int {
	ca := CommonAncestor(a, b)
	if ca == nil {
		return 0
	}
	ac, bc := a, b
	for ac.Parent != ca {
		ac = ac.Parent
	}
	for bc.Parent != ca {
		bc = bc.Parent
	}
	return cmpInt(NodeIndex(ac), NodeIndex(bc))
}

// CompareNodes compares two nodes in document (pre-)order. An ancestor
// comes before its descendants.
func CompareNodes(a, b *html.Node) int {
	switch {
	case a == b:
		return 0
	case IsAncestor(a, b):
		return -1
	case IsAncestor(b, a):
		return 1
	}
	return compareTreeOrder(a, b)
}

// ContainedNodes returns the maximal nodes lying completely within the range
// [start, end), in document order. Partially selected nodes are not part of
// the result, but their fully selected descendants are.
func ContainedNodes(start, end Position) []*html.Node {
	sc, ec := start.ContainerNode(), end.ContainerNode()
	ca := CommonAncestor(sc, ec)
	if ca == nil || !start.Before(end) {
		return nil
	}
	var out []*html.Node
	var walk func(p *html.Node)
	walk = func(p *html.Node) {
		i := 0
		for c := p.FirstChild; c != nil; c, i = c.NextSibling, i+1 {
			before, after := PositionInNode(p, i), PositionInNode(p, i+1)
			if after.Compare(start) <= 0 {
				continue
			}
			if before.Compare(end) >= 0 {
				break
			}
			if before.Compare(start) >= 0 && after.Compare(end) <= 0 {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(ca)
	return out
}

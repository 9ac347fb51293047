package editing

import (
	"github.com/npillmayer/richedit/dom"
	"golang.org/x/net/html"
)

// positionTracker keeps positions valid while the document changes
// underneath them, the way live ranges follow DOM mutations. Algorithms
// which hold positions across mutations register them for the duration of
// their work.
//
// Child list changes are observed. Changes of character data are reported
// explicitly by the commands performing them, as only they know which
// range of the text was replaced.
//
// Positions within a removed subtree collapse to the place the subtree was
// removed from. If the subtree comes back, as it does when nodes are
// moved, the positions are restored.
type positionTracker struct {
	doc       *dom.Document
	positions []*dom.Position
	detached  map[*dom.Position]dom.Position // original of collapsed positions
}

func newPositionTracker(doc *dom.Document) *positionTracker {
	return &positionTracker{doc: doc, detached: make(map[*dom.Position]dom.Position)}
}

var _ dom.MutationObserver = (*positionTracker)(nil)

// track registers positions for updates. The returned function ends the
// tracking.
func (t *positionTracker) track(ps ...*dom.Position) (release func()) {
	t.positions = append(t.positions, ps...)
	return func() {
		kept := t.positions[:0]
		for _, p := range t.positions {
			if !containsPosition(ps, p) {
				kept = append(kept, p)
			} else {
				delete(t.detached, p)
			}
		}
		t.positions = kept
	}
}

func containsPosition(ps []*dom.Position, p *dom.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// OnChildListMutation is part of interface dom.MutationObserver.
func (t *positionTracker) OnChildListMutation(target *html.Node, added, removed []*html.Node, prev, next *html.Node) {
	if len(t.positions) == 0 {
		return
	}
	index := 0
	if prev != nil {
		index = dom.NodeIndex(prev) + 1
	}
	for _, n := range removed {
		for _, p := range t.positions {
			if q := updatePositionForRemoval(*p, target, n, index); !q.Equal(*p) {
				if _, ok := t.detached[p]; !ok && dom.IsAncestorOrSelf(n, p.Anchor()) {
					t.detached[p] = *p
				}
				*p = q
			}
		}
	}
	for _, n := range added {
		i := dom.NodeIndex(n)
		for _, p := range t.positions {
			*p = updatePositionForInsertion(*p, target, i)
		}
	}
	if len(added) > 0 {
		t.restoreReattached()
	}
}

// restoreReattached restores collapsed positions whose anchor is part of
// the document again.
func (t *positionTracker) restoreReattached() {
	for p, original := range t.detached {
		if t.doc.Contains(original.Anchor()) {
			*p = original
			delete(t.detached, p)
		}
	}
}

// OnAttributeMutation is part of interface dom.MutationObserver.
func (t *positionTracker) OnAttributeMutation(*html.Node, string, string) {}

// OnCharacterDataMutation is part of interface dom.MutationObserver.
func (t *positionTracker) OnCharacterDataMutation(*html.Node, string) {}

// updatePositionForRemoval adjusts p after node has been removed from
// parent, where it was the child at index. Positions within the removed
// subtree collapse to the point where it was.
func updatePositionForRemoval(p dom.Position, parent, node *html.Node, index int) dom.Position {
	if p.IsNull() {
		return p
	}
	if dom.IsAncestorOrSelf(node, p.Anchor()) {
		return dom.PositionInNode(parent, index)
	}
	if p.AnchorType() == dom.OffsetInAnchor && p.Anchor() == parent && p.Offset() > index {
		return dom.PositionInNode(parent, p.Offset()-1)
	}
	return p
}

// updatePositionForInsertion adjusts p after a child has been inserted
// into parent at index.
func updatePositionForInsertion(p dom.Position, parent *html.Node, index int) dom.Position {
	if p.AnchorType() == dom.OffsetInAnchor && p.Anchor() == parent && p.Offset() > index {
		return dom.PositionInNode(parent, p.Offset()+1)
	}
	return p
}

// textReplaced adjusts positions after count code points at offset of a
// text node have been replaced by inserted code points.
func (t *positionTracker) textReplaced(text *html.Node, offset, count, inserted int) {
	for _, p := range t.positions {
		if p.AnchorType() != dom.OffsetInAnchor || p.Anchor() != text {
			continue
		}
		delete(t.detached, p)
		// a position at the end of a replaced run stays after the replacement
		switch off := p.Offset(); {
		case off > offset+count, count > 0 && off == offset+count:
			*p = dom.PositionInNode(text, off-count+inserted)
		case off > offset:
			*p = dom.PositionInNode(text, offset)
		}
	}
}

// textSplit adjusts positions after a text node has been split at offset
// into prefix and the remainder.
func (t *positionTracker) textSplit(text, prefix *html.Node, offset int) {
	for _, p := range t.positions {
		if p.AnchorType() != dom.OffsetInAnchor || p.Anchor() != text {
			continue
		}
		if off := p.Offset(); off < offset {
			*p = dom.PositionInNode(prefix, off)
		} else {
			*p = dom.PositionInNode(text, off-offset)
		}
	}
}

// textJoining adjusts positions before first is merged into its next
// sibling second.
func (t *positionTracker) textJoining(first, second *html.Node) {
	n := dom.TextLength(first)
	for _, p := range t.positions {
		if p.AnchorType() != dom.OffsetInAnchor {
			continue
		}
		switch p.Anchor() {
		case first:
			*p = dom.PositionInNode(second, p.Offset())
		case second:
			*p = dom.PositionInNode(second, p.Offset()+n)
		}
	}
}

package editing

import (
	"fmt"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// Affinity tells on which side of a line break a caret is drawn.
type Affinity int8

// Affinities.
const (
	Downstream Affinity = iota
	Upstream
)

func (a Affinity) String() string {
	if a == Upstream {
		return "upstream"
	}
	return "downstream"
}

// VisibleSelection is a snapshot of a selection: a base (where the user
// started selecting) and an extent (where the selection currently ends),
// together with the canonical start and end positions of the selected
// range. A selection with equal start and end is a caret.
//
// VisibleSelections are values. They do not follow changes of the
// document; commands record them before and after they change it.
type VisibleSelection struct {
	base, extent dom.Position
	start, end   dom.Position
	affinity     Affinity
	directional  bool
}

// NoSelection is the empty selection.
var NoSelection = VisibleSelection{}

// NewVisibleSelection creates a selection between base and extent, which
// may be given in any order. Positions are canonicalized with respect to
// the caret model l: a range starts right before its first rendered unit
// and ends right after its last one. Positions outside of the rendered
// document are kept as they are.
func NewVisibleSelection(l *layout.Layout, base, extent dom.Position, affinity Affinity) VisibleSelection {
	s := VisibleSelection{base: base, extent: extent, affinity: affinity}
	s.validate(l)
	return s
}

// NewCaret creates a caret selection.
func NewCaret(l *layout.Layout, p dom.Position, affinity Affinity) VisibleSelection {
	return NewVisibleSelection(l, p, p, affinity)
}

// selectionFromVisible creates a selection from two visible positions.
func selectionFromVisible(l *layout.Layout, a, b layout.VisiblePosition) VisibleSelection {
	return NewVisibleSelection(l, a.DeepEquivalent(), b.DeepEquivalent(), Downstream)
}

func (s *VisibleSelection) validate(l *layout.Layout) {
	if s.base.IsNull() {
		*s = VisibleSelection{}
		return
	}
	if s.extent.IsNull() {
		s.extent = s.base
	}
	first, last := s.base, s.extent
	if last.Before(first) {
		first, last = last, first
	}
	s.start, s.end = first, last
	if l == nil {
		return
	}
	vfirst, vlast := l.VisiblePosition(first), l.VisiblePosition(last)
	if vfirst.IsNull() || vlast.IsNull() {
		return
	}
	if vfirst.Equal(vlast) {
		p := vfirst.DeepEquivalent()
		s.base, s.extent, s.start, s.end = p, p, p, p
		return
	}
	s.start = l.Downstream(first)
	s.end = l.Upstream(last)
	s.directional = s.directional || !first.Equal(s.base)
}

// Base returns the position where selecting started.
func (s VisibleSelection) Base() dom.Position { return s.base }

// Extent returns the position where the selection currently ends.
func (s VisibleSelection) Extent() dom.Position { return s.extent }

// Start returns the canonical start of the selected range.
func (s VisibleSelection) Start() dom.Position { return s.start }

// End returns the canonical end of the selected range.
func (s VisibleSelection) End() dom.Position { return s.end }

// Affinity returns the affinity of the caret.
func (s VisibleSelection) Affinity() Affinity { return s.affinity }

// IsDirectional is true if the extent of the selection precedes its base.
func (s VisibleSelection) IsDirectional() bool { return s.directional }

// IsNone is true for the empty selection.
func (s VisibleSelection) IsNone() bool { return s.start.IsNull() }

// IsCaret is true for a collapsed selection.
func (s VisibleSelection) IsCaret() bool {
	return !s.IsNone() && s.start.Equal(s.end)
}

// IsRange is true for a selection spanning content.
func (s VisibleSelection) IsRange() bool {
	return !s.IsNone() && !s.start.Equal(s.end)
}

// VisibleStart returns the caret position of the start of the selection.
func (s VisibleSelection) VisibleStart(l *layout.Layout) layout.VisiblePosition {
	return l.VisiblePosition(s.start)
}

// VisibleEnd returns the caret position of the end of the selection.
func (s VisibleSelection) VisibleEnd(l *layout.Layout) layout.VisiblePosition {
	return l.VisiblePosition(s.end)
}

// IsContentEditable is true if the selection starts within an editing host.
func (s VisibleSelection) IsContentEditable() bool {
	return !s.IsNone() && dom.IsContentEditable(s.start.ContainerNode())
}

// IsContentRichlyEditable is true if the selection starts within an editing
// host accepting markup.
func (s VisibleSelection) IsContentRichlyEditable() bool {
	return !s.IsNone() && dom.IsRichlyEditable(s.start.ContainerNode())
}

// RootEditableElement returns the editing host containing the start of the
// selection, or nil.
func (s VisibleSelection) RootEditableElement() *html.Node {
	if s.IsNone() {
		return nil
	}
	return dom.RootEditableElement(s.start.ContainerNode())
}

// IsNonOrphanedCaretOrRange is true if the selection is not empty and both
// of its ends are positions within doc.
func (s VisibleSelection) IsNonOrphanedCaretOrRange(doc *dom.Document) bool {
	return !s.IsNone() && !s.start.IsOrphan(doc) && !s.end.IsOrphan(doc)
}

// IsNonOrphanedRange is like IsNonOrphanedCaretOrRange, for ranges only.
func (s VisibleSelection) IsNonOrphanedRange(doc *dom.Document) bool {
	return s.IsRange() && s.IsNonOrphanedCaretOrRange(doc)
}

// Equal compares the canonical ends of two selections.
func (s VisibleSelection) Equal(other VisibleSelection) bool {
	return s.start.Equal(other.start) && s.end.Equal(other.end)
}

func (s VisibleSelection) String() string {
	switch {
	case s.IsNone():
		return "selection(none)"
	case s.IsCaret():
		return fmt.Sprintf("caret%s", s.start)
	}
	return fmt.Sprintf("range[%s…%s]", s.start, s.end)
}

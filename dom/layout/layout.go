package layout

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
)

// Granularity is the unit of caret movement.
type Granularity int8

// Granularities for caret movement.
const (
	Character Granularity = iota
	Word
	Paragraph
)

func (g Granularity) String() string {
	switch g {
	case Character:
		return "character"
	case Word:
		return "word"
	case Paragraph:
		return "paragraph"
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// StyleSource provides computed style values. A css.Resolver is a
// StyleSource.
type StyleSource interface {
	ComputedProperty(n *html.Node, key string) style.Property
	IsBlockLevel(n *html.Node) bool // from the computed display
}

// Run is a range of rendered code points within a text node.
type Run struct {
	From, To int
}

// Layout is the caret model of a document. It is re-built lazily whenever
// the document's version has changed.
type Layout struct {
	doc      *dom.Document
	styles   StyleSource
	version  uint64
	valid    bool
	paras    []*paragraph
	stops    []stop
	rendered map[*html.Node]bool
	runs     map[*html.Node][]Run
}

// New creates a caret model for a document. styles may be nil, in which
// case display and white-space handling are derived from element tags.
func New(doc *dom.Document, styles StyleSource) *Layout {
	l := &Layout{doc: doc, styles: styles}
	doc.OnLayout(func(*dom.Document) {
		l.valid = false
	})
	return l
}

// IsBlock is true if n is laid out as a block. With a style source the
// computed display decides, otherwise the element's tag.
func (l *Layout) IsBlock(n *html.Node) bool {
	if l.styles == nil || n == nil || n.Type != html.ElementNode {
		return dom.IsBlock(n)
	}
	return l.styles.IsBlockLevel(n)
}

// EnclosingBlock returns the nearest ancestor-or-self of n which is laid
// out as a block.
func (l *Layout) EnclosingBlock(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && l.IsBlock(p) {
			return p
		}
	}
	return nil
}

// Document returns the document this layout is computed for.
func (l *Layout) Document() *dom.Document {
	return l.doc
}

func (l *Layout) ensure() {
	if l.valid && l.version == l.doc.Version() {
		return
	}
	l.build()
	l.version = l.doc.Version()
	l.valid = true
}

// --- Visible positions -----------------------------------------------------

// VisiblePosition is the canonical representative of all DOM positions
// rendering as the same caret position. The zero value is a null position.
type VisiblePosition struct {
	pos dom.Position
}

// DeepEquivalent returns the canonical DOM position.
func (vp VisiblePosition) DeepEquivalent() dom.Position {
	return vp.pos
}

// IsNull is true for the null visible position.
func (vp VisiblePosition) IsNull() bool {
	return vp.pos.IsNull()
}

// Equal is true if two visible positions denote the same caret position.
func (vp VisiblePosition) Equal(other VisiblePosition) bool {
	return vp.pos.Equal(other.pos)
}

func (vp VisiblePosition) String() string {
	return "visible" + vp.pos.String()
}

// locate returns the index of the caret stop a position maps to, or -1.
func (l *Layout) locate(p dom.Position) int {
	l.ensure()
	if p.IsNull() || len(l.stops) == 0 || !l.doc.Contains(p.ContainerNode()) {
		return -1
	}
	i := sort.Search(len(l.stops), func(i int) bool {
		return l.stops[i].extent.Compare(p) >= 0
	})
	if i == len(l.stops) {
		i = len(l.stops) - 1
	}
	return i
}

func (l *Layout) visible(i int) VisiblePosition {
	if i < 0 || i >= len(l.stops) {
		return VisiblePosition{}
	}
	return VisiblePosition{pos: l.stops[i].up}
}

// VisiblePosition canonicalizes a DOM position. Positions outside of the
// document yield a null visible position.
func (l *Layout) VisiblePosition(p dom.Position) VisiblePosition {
	return l.visible(l.locate(p))
}

// Upstream returns the position right after the rendered content preceding
// the caret position of p.
func (l *Layout) Upstream(p dom.Position) dom.Position {
	if i := l.locate(p); i >= 0 {
		return l.stops[i].up
	}
	return dom.NullPosition
}

// Downstream returns the position right before the rendered content
// following the caret position of p.
func (l *Layout) Downstream(p dom.Position) dom.Position {
	if i := l.locate(p); i >= 0 {
		return l.stops[i].down
	}
	return dom.NullPosition
}

// --- Navigation ------------------------------------------------------------

// Next returns the visible position following vp at a given granularity.
// Movement does not leave the editing host of vp; if it would, the result
// is null.
func (l *Layout) Next(vp VisiblePosition, g Granularity) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	s := l.stops[i]
	p := l.paras[s.para]
	j := i + 1
	switch g {
	case Word:
		if k, ok := nextWordEnd(p, s.k); ok {
			j = p.first + k
		} else if s.k < len(p.units) {
			j = p.last()
		}
	case Paragraph:
		if s.k < len(p.units) {
			j = p.last()
		}
	}
	return l.clamped(i, j)
}

// Previous returns the visible position preceding vp at a given
// granularity. Movement does not leave the editing host of vp; if it would,
// the result is null.
func (l *Layout) Previous(vp VisiblePosition, g Granularity) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	s := l.stops[i]
	p := l.paras[s.para]
	j := i - 1
	switch g {
	case Word:
		if k, ok := previousWordStart(p, s.k); ok {
			j = p.first + k
		} else if s.k > 0 {
			j = p.first
		}
	case Paragraph:
		if s.k > 0 {
			j = p.first
		}
	}
	return l.clamped(i, j)
}

func (l *Layout) clamped(from, to int) VisiblePosition {
	if to < 0 || to >= len(l.stops) {
		return VisiblePosition{}
	}
	if l.paras[l.stops[from].para].root != l.paras[l.stops[to].para].root {
		return VisiblePosition{}
	}
	return l.visible(to)
}

type segment struct {
	from, to int // unit indices
}

// words returns the word segments of a paragraph, in terms of unit indices.
func words(p *paragraph) []segment {
	// rune offsets of unit boundaries
	bounds := make([]int, len(p.units)+1)
	for k, u := range p.units {
		bounds[k+1] = bounds[k] + len([]rune(u.text))
	}
	unitAt := func(offset int) int {
		return sort.SearchInts(bounds, offset)
	}
	var segs []segment
	text, state, offset := p.text(), -1, 0
	for len(text) > 0 {
		var w string
		w, text, state = uniseg.FirstWordInString(text, state)
		n := len([]rune(w))
		if isWord(w) {
			segs = append(segs, segment{from: unitAt(offset), to: unitAt(offset + n)})
		}
		offset += n
	}
	return segs
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func previousWordStart(p *paragraph, k int) (int, bool) {
	segs := words(p)
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].from < k {
			return segs[i].from, true
		}
	}
	return 0, false
}

func nextWordEnd(p *paragraph, k int) (int, bool) {
	for _, seg := range words(p) {
		if seg.to > k {
			return seg.to, true
		}
	}
	return 0, false
}

// StartOfWord returns the start of the word containing or preceding vp,
// staying within the paragraph.
func (l *Layout) StartOfWord(vp VisiblePosition) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	s := l.stops[i]
	p := l.paras[s.para]
	for _, seg := range words(p) {
		if seg.from <= s.k && s.k <= seg.to {
			return l.visible(p.first + seg.from)
		}
	}
	return vp
}

// EndOfWord returns the end of the word containing or following vp,
// staying within the paragraph.
func (l *Layout) EndOfWord(vp VisiblePosition) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	s := l.stops[i]
	p := l.paras[s.para]
	for _, seg := range words(p) {
		if seg.from <= s.k && s.k <= seg.to {
			return l.visible(p.first + seg.to)
		}
	}
	return vp
}

// --- Paragraphs ------------------------------------------------------------

// ParagraphInfo describes the paragraph containing a visible position.
type ParagraphInfo struct {
	Index      int          // index of the paragraph in the document
	Block      *html.Node   // enclosing block
	Root       *html.Node   // editing host, or nil
	Terminator *html.Node   // terminating <br>, or nil
	Start      dom.Position // canonical start position
	End        dom.Position // canonical end position
	Empty      bool         // has no rendered content
}

func (l *Layout) info(p *paragraph) ParagraphInfo {
	return ParagraphInfo{
		Index:      p.index,
		Block:      p.block,
		Root:       p.root,
		Terminator: p.terminator,
		Start:      l.stops[p.first].up,
		End:        l.stops[p.last()].up,
		Empty:      len(p.units) == 0,
	}
}

// Paragraph returns information about the paragraph containing vp. ok is
// false for null positions.
func (l *Layout) Paragraph(vp VisiblePosition) (ParagraphInfo, bool) {
	i := l.locate(vp.pos)
	if i < 0 {
		return ParagraphInfo{}, false
	}
	return l.info(l.paras[l.stops[i].para]), true
}

// ParagraphsInRange returns the paragraphs touched by the range [a, b].
func (l *Layout) ParagraphsInRange(a, b VisiblePosition) []ParagraphInfo {
	i, j := l.locate(a.pos), l.locate(b.pos)
	if i < 0 || j < 0 {
		return nil
	}
	if j < i {
		i, j = j, i
	}
	var out []ParagraphInfo
	for k := l.stops[i].para; k <= l.stops[j].para; k++ {
		out = append(out, l.info(l.paras[k]))
	}
	return out
}

// StartOfParagraph returns the first caret position of the paragraph
// containing vp.
func (l *Layout) StartOfParagraph(vp VisiblePosition) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	return l.visible(l.paras[l.stops[i].para].first)
}

// EndOfParagraph returns the last caret position of the paragraph
// containing vp.
func (l *Layout) EndOfParagraph(vp VisiblePosition) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	return l.visible(l.paras[l.stops[i].para].last())
}

// IsStartOfParagraph is true if vp is the first caret position of its
// paragraph.
func (l *Layout) IsStartOfParagraph(vp VisiblePosition) bool {
	i := l.locate(vp.pos)
	return i >= 0 && l.stops[i].k == 0
}

// IsEndOfParagraph is true if vp is the last caret position of its
// paragraph.
func (l *Layout) IsEndOfParagraph(vp VisiblePosition) bool {
	i := l.locate(vp.pos)
	return i >= 0 && i == l.paras[l.stops[i].para].last()
}

// InSameParagraph is true if both positions are in one paragraph.
func (l *Layout) InSameParagraph(a, b VisiblePosition) bool {
	i, j := l.locate(a.pos), l.locate(b.pos)
	return i >= 0 && j >= 0 && l.stops[i].para == l.stops[j].para
}

// IsStartOfBlock is true if vp is at the start of its paragraph and no
// other paragraph of the same block precedes it.
func (l *Layout) IsStartOfBlock(vp VisiblePosition) bool {
	i := l.locate(vp.pos)
	if i < 0 || l.stops[i].k != 0 {
		return false
	}
	pi := l.stops[i].para
	return pi == 0 || !dom.IsAncestorOrSelf(l.paras[pi].block, l.paras[pi-1].block)
}

// IsEndOfBlock is true if vp is at the end of its paragraph and no other
// paragraph of the same block follows it.
func (l *Layout) IsEndOfBlock(vp VisiblePosition) bool {
	i := l.locate(vp.pos)
	if i < 0 {
		return false
	}
	pi := l.stops[i].para
	if i != l.paras[pi].last() {
		return false
	}
	return pi == len(l.paras)-1 || !dom.IsAncestorOrSelf(l.paras[pi].block, l.paras[pi+1].block)
}

// StartOfEditableContent returns the first caret position within the
// editing host of n.
func (l *Layout) StartOfEditableContent(n *html.Node) VisiblePosition {
	l.ensure()
	root := dom.RootEditableElement(n)
	if root == nil {
		return VisiblePosition{}
	}
	for _, p := range l.paras {
		if p.root == root {
			return l.visible(p.first)
		}
	}
	return VisiblePosition{}
}

// EndOfEditableContent returns the last caret position within the editing
// host of n.
func (l *Layout) EndOfEditableContent(n *html.Node) VisiblePosition {
	l.ensure()
	root := dom.RootEditableElement(n)
	if root == nil {
		return VisiblePosition{}
	}
	for k := len(l.paras) - 1; k >= 0; k-- {
		if l.paras[k].root == root {
			return l.visible(l.paras[k].last())
		}
	}
	return VisiblePosition{}
}

// --- Rendered content ------------------------------------------------------

// IsRendered is true if n produces rendered content: a text node with
// non-collapsed characters, a replaced element, a <br>, or an element
// containing any of these. Editing hosts and the body are rendered even if
// empty.
func (l *Layout) IsRendered(n *html.Node) bool {
	l.ensure()
	return l.rendered[n]
}

// RenderedRuns returns the ranges of rendered code points of a text node,
// in ascending order.
func (l *Layout) RenderedRuns(text *html.Node) []Run {
	l.ensure()
	return append([]Run(nil), l.runs[text]...)
}

// IsRenderedOffset is true if the code point at offset in a text node is
// rendered, i.e. not collapsed away.
func (l *Layout) IsRenderedOffset(text *html.Node, offset int) bool {
	for _, r := range l.RenderedRuns(text) {
		if r.From <= offset && offset < r.To {
			return true
		}
	}
	return false
}

// --- Text ------------------------------------------------------------------

// CharacterCount returns the number of caret steps between a and b.
// A paragraph boundary counts as one character. The result is negative if
// b precedes a.
func (l *Layout) CharacterCount(a, b VisiblePosition) int {
	i, j := l.locate(a.pos), l.locate(b.pos)
	if i < 0 || j < 0 {
		return 0
	}
	return j - i
}

// PositionAtCharacterOffset moves n caret steps from vp, clamped to the
// document.
func (l *Layout) PositionAtCharacterOffset(vp VisiblePosition, n int) VisiblePosition {
	i := l.locate(vp.pos)
	if i < 0 {
		return VisiblePosition{}
	}
	j := i + n
	if j < 0 {
		j = 0
	} else if j >= len(l.stops) {
		j = len(l.stops) - 1
	}
	return l.visible(j)
}

// PlainText returns the rendered text between two visible positions.
// Paragraph boundaries are rendered as newlines.
func (l *Layout) PlainText(a, b VisiblePosition) string {
	i, j := l.locate(a.pos), l.locate(b.pos)
	if i < 0 || j < 0 {
		return ""
	}
	if j < i {
		i, j = j, i
	}
	var sb strings.Builder
	for k := i; k < j; k++ {
		sb.WriteString(l.textAfter(k))
	}
	return sb.String()
}

// textAfter is the text between stop k and stop k+1.
func (l *Layout) textAfter(k int) string {
	s := l.stops[k]
	p := l.paras[s.para]
	if s.k < len(p.units) {
		return p.units[s.k].text
	}
	return "\n"
}

// CharacterBefore returns the rendered character preceding vp, or "" at
// the start of a paragraph.
func (l *Layout) CharacterBefore(vp VisiblePosition) string {
	i := l.locate(vp.pos)
	if i < 0 || l.stops[i].k == 0 {
		return ""
	}
	return l.textAfter(i - 1)
}

// CharacterAfter returns the rendered character following vp, or "" at
// the end of a paragraph.
func (l *Layout) CharacterAfter(vp VisiblePosition) string {
	i := l.locate(vp.pos)
	if i < 0 || i == l.paras[l.stops[i].para].last() {
		return ""
	}
	return l.textAfter(i)
}

// ParagraphText returns the rendered text of the paragraph containing vp.
func (l *Layout) ParagraphText(vp VisiblePosition) string {
	i := l.locate(vp.pos)
	if i < 0 {
		return ""
	}
	return l.paras[l.stops[i].para].text()
}

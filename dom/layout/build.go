package layout

import (
	"strings"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// objectReplacement stands in for replaced elements in plain text.
const objectReplacement = "￼"

// unit is the smallest piece of rendered content: a grapheme cluster of a
// text node or a replaced element.
type unit struct {
	node     *html.Node
	from, to int // code point range within a text node
	text     string
}

func (u unit) before() dom.Position {
	if u.node.Type == html.TextNode {
		return dom.PositionInNode(u.node, u.from)
	}
	return dom.PositionInParentBefore(u.node)
}

func (u unit) after() dom.Position {
	if u.node.Type == html.TextNode {
		return dom.PositionInNode(u.node, u.to)
	}
	return dom.PositionInParentAfter(u.node)
}

type paragraph struct {
	index      int
	block      *html.Node   // enclosing block
	root       *html.Node   // root editable element, nil if not editable
	units      []unit       // rendered content
	start      dom.Position // position of an empty paragraph
	end        dom.Position // position where the paragraph ends
	terminator *html.Node   // <br> ending the paragraph, if any
	first      int          // index of the first caret stop
}

func (p *paragraph) last() int {
	return p.first + len(p.units)
}

// stop is a caret stop. Positions up to and including extent map to it.
type stop struct {
	para     int
	k        int // index within paragraph
	up, down dom.Position
	extent   dom.Position
}

type builder struct {
	l       *Layout
	cur     *paragraph
	pending *unit      // collapsible space waiting for more content
	brLast  *paragraph // closed by <br>, nothing opened since
}

func (l *Layout) build() {
	l.paras = l.paras[:0]
	l.stops = l.stops[:0]
	l.rendered = make(map[*html.Node]bool)
	l.runs = make(map[*html.Node][]Run)
	b := &builder{l: l}
	root := l.doc.Root()
	if root == nil {
		return
	}
	b.visit(root)
	b.close(dom.NullPosition)
	tracer().Debugf("layout: %d paragraphs, %d caret stops", len(l.paras), len(l.stops))
}

func (b *builder) visit(n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		b.block(n)
	case html.TextNode:
		b.text(n)
	case html.ElementNode:
		switch {
		case b.hidden(n):
			return
		case dom.IsBR(n):
			b.lineBreak(n)
		case dom.IsReplaced(n):
			if b.l.IsBlock(n) { // <hr> and friends sit on a line of their own
				b.close(dom.PositionInParentBefore(n))
				b.addUnit(unit{node: n, text: objectReplacement}, n)
				b.close(dom.PositionInParentAfter(n))
				return
			}
			b.addUnit(unit{node: n, text: objectReplacement}, n)
		case b.l.IsBlock(n):
			b.block(n)
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				b.visit(c)
			}
		}
	}
}

func (b *builder) hidden(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Title, atom.Template, atom.Noscript:
		return true
	}
	if b.l.styles != nil {
		return b.l.styles.ComputedProperty(n, "display") == "none"
	}
	return style.DisplayPropertyForHTMLNode(n) == "none"
}

func (b *builder) preservesWhitespace(text *html.Node) bool {
	if b.l.styles != nil {
		switch b.l.styles.ComputedProperty(text, "white-space") {
		case "pre", "pre-wrap", "break-spaces":
			return true
		}
		return false
	}
	return dom.EnclosingNodeOfType(text, func(n *html.Node) bool {
		return dom.IsElement(n, "pre", "textarea", "listing", "xmp", "plaintext")
	}, nil) != nil
}

func (b *builder) block(n *html.Node) {
	b.close(dom.PositionInParentBefore(n))
	b.brLast = nil
	before := len(b.l.paras)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.visit(c)
	}
	if n.Type != html.ElementNode {
		return
	}
	end := dom.PositionInNode(n, dom.ChildCount(n))
	if b.cur != nil {
		b.close(end)
	} else if b.brLast != nil && dom.IsAncestorOrSelf(n, b.brLast.terminator) {
		// a <br> at the end of a block does not open another line
		b.l.stops[b.brLast.last()].extent = end
		b.brLast = nil
	}
	if len(b.l.paras) == before && b.hostsEmptyParagraph(n) {
		b.open(n, dom.PositionInNode(n, 0))
		b.close(end)
		b.markRendered(n)
	}
}

// hostsEmptyParagraph is true for blocks which keep a caret position even
// if they have no content: the body and editing hosts.
func (b *builder) hostsEmptyParagraph(n *html.Node) bool {
	if n.DataAtom == atom.Body {
		return true
	}
	return dom.IsContentEditable(n) && (n.Parent == nil || !dom.IsContentEditable(n.Parent))
}

func isCollapsible(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func (b *builder) text(n *html.Node) {
	if n.Data == "" {
		return
	}
	pre := b.preservesWhitespace(n)
	offset := 0
	g := uniseg.NewGraphemes(n.Data)
	for g.Next() {
		runes := g.Runes()
		u := unit{node: n, from: offset, to: offset + len(runes), text: g.Str()}
		offset = u.to
		if !pre && len(runes) == 1 && isCollapsible(runes[0]) {
			if b.cur == nil || len(b.cur.units) == 0 || b.pending != nil {
				continue // leading or collapsed
			}
			if last := b.cur.units[len(b.cur.units)-1]; last.text == " " && last.node.Type == html.TextNode {
				continue
			}
			u.text = " "
			b.pending = &u
			continue
		}
		b.addUnit(u, n)
	}
}

func (b *builder) addUnit(u unit, n *html.Node) {
	if b.cur == nil {
		b.open(n, u.before())
	}
	if b.pending != nil {
		b.cur.units = append(b.cur.units, *b.pending)
		b.markRendered(b.pending.node)
		b.recordRun(*b.pending)
		b.pending = nil
	}
	b.cur.units = append(b.cur.units, u)
	b.markRendered(n)
	b.recordRun(u)
}

// recordRun remembers which code points of a text node are rendered.
func (b *builder) recordRun(u unit) {
	if u.node.Type != html.TextNode {
		return
	}
	runs := b.l.runs[u.node]
	if k := len(runs) - 1; k >= 0 && runs[k].To == u.from {
		runs[k].To = u.to
	} else {
		runs = append(runs, Run{From: u.from, To: u.to})
	}
	b.l.runs[u.node] = runs
}

func (b *builder) lineBreak(br *html.Node) {
	b.markRendered(br)
	if b.cur == nil {
		b.open(br, dom.PositionInParentBefore(br))
	}
	p := b.cur
	p.terminator = br
	b.close(dom.PositionInParentBefore(br))
	b.brLast = p
}

func (b *builder) open(n *html.Node, start dom.Position) {
	block := b.l.EnclosingBlock(n)
	b.cur = &paragraph{
		block: block,
		root:  dom.RootEditableElement(n),
		start: start,
	}
	b.brLast = nil
}

func (b *builder) close(end dom.Position) {
	p := b.cur
	if p == nil {
		return
	}
	b.cur, b.pending = nil, nil
	if end.IsNull() {
		if len(p.units) > 0 {
			end = p.units[len(p.units)-1].after()
		} else {
			end = p.start
		}
	}
	p.end = end
	p.index = len(b.l.paras)
	p.first = len(b.l.stops)
	n := len(p.units)
	for k := 0; k <= n; k++ {
		var up, down dom.Position
		switch {
		case n == 0:
			up, down = p.start, p.start
		case k == 0:
			up, down = p.units[0].before(), p.units[0].before()
		case k == n:
			up, down = p.units[n-1].after(), p.units[n-1].after()
		default:
			up, down = p.units[k-1].after(), p.units[k].before()
		}
		extent := down
		if k == n {
			extent = end
		}
		b.l.stops = append(b.l.stops, stop{para: p.index, k: k, up: up, down: down, extent: extent})
	}
	b.l.paras = append(b.l.paras, p)
}

func (b *builder) markRendered(n *html.Node) {
	for ; n != nil; n = n.Parent {
		if b.l.rendered[n] {
			return
		}
		b.l.rendered[n] = true
	}
}

func (p *paragraph) text() string {
	var sb strings.Builder
	for _, u := range p.units {
		sb.WriteString(u.text)
	}
	return sb.String()
}

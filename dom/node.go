package dom

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/richedit/dom/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeName returns a short, human readable name for a node, used in traces
// and error messages.
func NodeName(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	case html.ElementNode:
		return n.Data
	}
	return "#node"
}

// IsText is a predicate for text nodes.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement is a predicate for element nodes. If tags are given, the element
// has to have one of these tag names.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// AttributeValue returns the value of an attribute together with a flag
// indicating whether the attribute is present.
func AttributeValue(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute is a predicate for the presence of an attribute.
func HasAttribute(n *html.Node, key string) bool {
	_, ok := AttributeValue(n, key)
	return ok
}

// --- Structure -------------------------------------------------------------

// IsAncestor returns true if anc is a proper ancestor of n.
func IsAncestor(anc, n *html.Node) bool {
	if anc == nil || n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == anc {
			return true
		}
	}
	return false
}

// IsAncestorOrSelf returns true if anc == n or anc is an ancestor of n.
func IsAncestorOrSelf(anc, n *html.Node) bool {
	return anc != nil && (anc == n || IsAncestor(anc, n))
}

// CommonAncestor returns the deepest node which is an ancestor-or-self of
// both a and b, or nil if they are in different trees.
func CommonAncestor(a, b *html.Node) *html.Node {
	for p := a; p != nil; p = p.Parent {
		if IsAncestorOrSelf(p, b) {
			return p
		}
	}
	return nil
}

// NodeIndex returns the index of n within the children of its parent,
// or -1 for a detached node.
func NodeIndex(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return i
		}
		i++
	}
	return -1
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	cnt := 0
	if n == nil {
		return 0
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cnt++
	}
	return cnt
}

// ChildAt returns the child at index i, or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	if n == nil || i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Children returns the children of n as a slice. The slice is a snapshot and
// stays valid while the tree is mutated.
func Children(n *html.Node) []*html.Node {
	var chs []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		chs = append(chs, c)
	}
	return chs
}

// NextNode returns the next node in document order (pre-order), not leaving
// the subtree of stayWithin. stayWithin may be nil.
func NextNode(n, stayWithin *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return NextSkippingChildren(n, stayWithin)
}

// NextSkippingChildren returns the next node in document order which is
// not a descendant of n, not leaving the subtree of stayWithin.
func NextSkippingChildren(n, stayWithin *html.Node) *html.Node {
	for ; n != nil && n != stayWithin; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// PreviousNode returns the previous node in document order, not leaving the
// subtree of stayWithin.
func PreviousNode(n, stayWithin *html.Node) *html.Node {
	if n == nil || n == stayWithin {
		return nil
	}
	if n.PrevSibling != nil {
		return LastDescendant(n.PrevSibling)
	}
	if n.Parent == stayWithin {
		return nil
	}
	return n.Parent
}

// LastDescendant returns the last node in document order within the subtree
// of n, which may be n itself.
func LastDescendant(n *html.Node) *html.Node {
	for n != nil && n.LastChild != nil {
		n = n.LastChild
	}
	return n
}

// TextContent concatenates the character data of all text nodes within
// the subtree of n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	for c := n; c != nil; c = NextNode(c, n) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// TextLength returns the length of a text node's data in code points.
func TextLength(n *html.Node) int {
	if n == nil || n.Type != html.TextNode {
		return 0
	}
	return utf8.RuneCountInString(n.Data)
}

// Substring returns the code points [from, to) of s.
func Substring(s string, from, to int) string {
	r := []rune(s)
	if from < 0 {
		from = 0
	}
	if to > len(r) {
		to = len(r)
	}
	if from >= to {
		return ""
	}
	return string(r[from:to])
}

// --- Element categories ----------------------------------------------------

// CanHaveChildren is false for text nodes, comments and void elements.
func CanHaveChildren(n *html.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case html.DocumentNode:
		return true
	case html.ElementNode:
		return !voidElements[n.DataAtom]
	}
	return false
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

// IsBlock is a predicate for elements which are laid out as blocks.
// The display mode is derived from the element's tag.
func IsBlock(n *html.Node) bool {
	if n == nil {
		return false
	}
	if n.Type == html.DocumentNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	switch style.DisplayPropertyForHTMLNode(n) {
	case "inline", "inline-block", "none", "":
		return false
	}
	return true
}

// IsInline is a predicate for rendered, non-block nodes.
func IsInline(n *html.Node) bool {
	if IsText(n) {
		return true
	}
	return IsElement(n) && !IsBlock(n) && style.DisplayPropertyForHTMLNode(n) != "none"
}

// IsBR is a predicate for <br> elements.
func IsBR(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == atom.Br
}

// IsReplaced is a predicate for elements rendered as an opaque box
// (images, rules and the like). Editing ignores their content.
func IsReplaced(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Img, atom.Hr, atom.Input, atom.Iframe, atom.Object, atom.Embed, atom.Video,
		atom.Audio, atom.Canvas, atom.Textarea, atom.Select, atom.Button:
		return true
	}
	return false
}

// IsList is a predicate for <ul> and <ol>.
func IsList(n *html.Node) bool {
	return IsElement(n, "ul", "ol")
}

// IsListItem is a predicate for <li>.
func IsListItem(n *html.Node) bool {
	return IsElement(n, "li")
}

// IsTable is a predicate for <table>.
func IsTable(n *html.Node) bool {
	return IsElement(n, "table")
}

// IsTableCell is a predicate for <td> and <th>.
func IsTableCell(n *html.Node) bool {
	return IsElement(n, "td", "th")
}

// IsMailBlockquote is true for <blockquote type="cite">, the markup mail
// clients use for quoted content.
func IsMailBlockquote(n *html.Node) bool {
	if !IsElement(n, "blockquote") {
		return false
	}
	t, _ := AttributeValue(n, "type")
	return strings.EqualFold(t, "cite")
}

// --- Editability -----------------------------------------------------------

type editability int8

const (
	notEditable editability = iota
	plaintextOnly
	richlyEditable
)

func editabilityOf(n *html.Node) editability {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		v, ok := AttributeValue(p, "contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "true":
			return richlyEditable
		case "plaintext-only":
			return plaintextOnly
		case "false":
			return notEditable
		}
	}
	return notEditable
}

// IsContentEditable is true if n is within an editing host.
func IsContentEditable(n *html.Node) bool {
	return editabilityOf(n) != notEditable
}

// IsRichlyEditable is true if n is within an editing host which accepts
// markup, i.e. not a plaintext-only host.
func IsRichlyEditable(n *html.Node) bool {
	return editabilityOf(n) == richlyEditable
}

// RootEditableElement returns the editing host containing n, i.e. the
// highest editable ancestor-or-self of n. Returns nil for non-editable nodes.
func RootEditableElement(n *html.Node) *html.Node {
	if !IsContentEditable(n) {
		return nil
	}
	var root *html.Node
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if !IsContentEditable(p) {
			break
		}
		root = p
	}
	return root
}

// EnclosingBlock returns the nearest block ancestor-or-self of n.
func EnclosingBlock(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && IsBlock(p) {
			return p
		}
	}
	return nil
}

// EnclosingNodeOfType returns the nearest ancestor-or-self of n matching
// pred, not looking beyond stopAt (which is included in the search).
func EnclosingNodeOfType(n *html.Node, pred func(*html.Node) bool, stopAt *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if pred(p) {
			return p
		}
		if p == stopAt {
			break
		}
	}
	return nil
}

// HighestEnclosingNodeOfType returns the highest ancestor-or-self of n
// matching pred, not looking beyond stopAt (which is included).
func HighestEnclosingNodeOfType(n *html.Node, pred func(*html.Node) bool, stopAt *html.Node) *html.Node {
	var found *html.Node
	for p := n; p != nil; p = p.Parent {
		if pred(p) {
			found = p
		}
		if p == stopAt {
			break
		}
	}
	return found
}

package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Errors returned by the mutation primitives of a Document.
var (
	ErrHierarchy   = errors.New("dom: hierarchy request error")
	ErrNotFound    = errors.New("dom: node not found")
	ErrIndexSize   = errors.New("dom: index or size out of range")
	ErrNotEditable = errors.New("dom: node is not editable")
)

// Document owns an HTML parse tree. All mutations of the tree should be
// performed through a Document, otherwise observers will not be notified
// and caches keyed on the document's version will go stale.
type Document struct {
	root            *html.Node
	observers       []*observerEntry
	version         uint64 // incremented on every mutation
	laidOut         uint64 // version at the time of the last layout update
	layoutListeners []func(*Document)
}

// NewDocument creates a document for a parse tree. root should be a node of
// type html.DocumentNode, but any node will do for fragments.
func NewDocument(root *html.Node) *Document {
	return &Document{root: root, version: 1}
}

// Parse reads HTML from r and wraps the result into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: cannot parse document: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the root node of the document.
func (doc *Document) Root() *html.Node {
	return doc.root
}

// Body returns the <body> element of the document, or nil.
func (doc *Document) Body() *html.Node {
	return findFirst(doc.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
}

// ElementByID returns the first element with a given id attribute, or nil.
func (doc *Document) ElementByID(id string) *html.Node {
	return findFirst(doc.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := AttributeValue(n, "id")
		return ok && v == id
	})
}

// Contains is a predicate: is n connected to the root of this document?
func (doc *Document) Contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == doc.root {
			return true
		}
	}
	return false
}

// Version returns the modification counter of the document.
func (doc *Document) Version() uint64 {
	return doc.version
}

// NeedsLayout is true if the document has been modified since the last call
// to UpdateLayout.
func (doc *Document) NeedsLayout() bool {
	return doc.laidOut != doc.version
}

// UpdateLayout flushes pending layout. Layout itself is computed lazily by
// whoever registered with OnLayout; a Document just tells them it is time.
func (doc *Document) UpdateLayout() {
	if !doc.NeedsLayout() {
		return
	}
	doc.laidOut = doc.version
	for _, l := range doc.layoutListeners {
		l(doc)
	}
}

// OnLayout registers a listener to be called on every effective layout update.
func (doc *Document) OnLayout(listener func(*Document)) {
	doc.layoutListeners = append(doc.layoutListeners, listener)
}

func (doc *Document) changed() {
	doc.version++
}

// --- Mutation primitives ---------------------------------------------------

// InsertBefore inserts n as a child of parent, immediately before ref.
// If ref is nil, n is appended. If n is currently attached somewhere else,
// it is detached first (and observers are told about it).
func (doc *Document) InsertBefore(parent, n, ref *html.Node) error {
	if parent == nil || n == nil {
		return fmt.Errorf("insert before: missing node: %w", ErrHierarchy)
	}
	if n == parent || IsAncestor(n, parent) {
		return fmt.Errorf("insert before: node would become its own ancestor: %w", ErrHierarchy)
	}
	if !CanHaveChildren(parent) {
		return fmt.Errorf("insert before: <%s> cannot have children: %w", NodeName(parent), ErrHierarchy)
	}
	if ref != nil && ref.Parent != parent {
		return fmt.Errorf("insert before: reference node is not a child: %w", ErrNotFound)
	}
	if n == ref {
		return nil
	}
	if n.Parent != nil {
		if err := doc.RemoveChild(n.Parent, n); err != nil {
			return err
		}
	}
	parent.InsertBefore(n, ref)
	doc.changed()
	tracer().Debugf("dom: inserted %s into %s", NodeName(n), NodeName(parent))
	doc.notifyChildList(parent, []*html.Node{n}, nil, n.PrevSibling, n.NextSibling)
	return nil
}

// AppendChild appends n to the children of parent.
func (doc *Document) AppendChild(parent, n *html.Node) error {
	return doc.InsertBefore(parent, n, nil)
}

// RemoveChild detaches n from parent.
func (doc *Document) RemoveChild(parent, n *html.Node) error {
	if parent == nil || n == nil {
		return fmt.Errorf("remove child: missing node: %w", ErrHierarchy)
	}
	if n.Parent != parent {
		return fmt.Errorf("remove child: node is not a child of %s: %w", NodeName(parent), ErrNotFound)
	}
	prev, next := n.PrevSibling, n.NextSibling
	parent.RemoveChild(n)
	doc.changed()
	tracer().Debugf("dom: removed %s from %s", NodeName(n), NodeName(parent))
	doc.notifyChildList(parent, nil, []*html.Node{n}, prev, next)
	return nil
}

// SetAttribute sets an attribute of an element node, replacing an existing one.
func (doc *Document) SetAttribute(n *html.Node, key, value string) error {
	if n == nil || n.Type != html.ElementNode {
		return fmt.Errorf("set attribute %q: not an element: %w", key, ErrHierarchy)
	}
	old, _ := AttributeValue(n, key)
	found := false
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			found = true
			break
		}
	}
	if !found {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
	}
	doc.changed()
	doc.notifyAttribute(n, key, old)
	return nil
}

// RemoveAttribute removes an attribute from an element node. Removing
// a non-existent attribute is not an error.
func (doc *Document) RemoveAttribute(n *html.Node, key string) error {
	if n == nil || n.Type != html.ElementNode {
		return fmt.Errorf("remove attribute %q: not an element: %w", key, ErrHierarchy)
	}
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			old := n.Attr[i].Val
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			doc.changed()
			doc.notifyAttribute(n, key, old)
			return nil
		}
	}
	return nil
}

// SetData replaces the character data of a text node.
func (doc *Document) SetData(n *html.Node, data string) error {
	if n == nil || n.Type != html.TextNode {
		return fmt.Errorf("set data: not a text node: %w", ErrHierarchy)
	}
	old := n.Data
	n.Data = data
	doc.changed()
	doc.notifyCharacterData(n, old)
	return nil
}

// InsertData inserts s into a text node at a code point offset.
func (doc *Document) InsertData(n *html.Node, offset int, s string) error {
	return doc.ReplaceData(n, offset, 0, s)
}

// DeleteData removes count code points from a text node, starting at offset.
func (doc *Document) DeleteData(n *html.Node, offset, count int) error {
	return doc.ReplaceData(n, offset, count, "")
}

// ReplaceData replaces count code points, starting at offset, with s.
func (doc *Document) ReplaceData(n *html.Node, offset, count int, s string) error {
	if n == nil || n.Type != html.TextNode {
		return fmt.Errorf("replace data: not a text node: %w", ErrHierarchy)
	}
	r := []rune(n.Data)
	if offset < 0 || count < 0 || offset > len(r) {
		return fmt.Errorf("replace data at %d: %w", offset, ErrIndexSize)
	}
	if offset+count > len(r) {
		count = len(r) - offset
	}
	data := string(r[:offset]) + s + string(r[offset+count:])
	return doc.SetData(n, data)
}

// SplitText splits a text node at a code point offset. The text before
// offset moves into a new text node, which is inserted as the previous
// sibling of n. n keeps the text from offset on. SplitText returns the new
// node.
func (doc *Document) SplitText(n *html.Node, offset int) (*html.Node, error) {
	if n == nil || n.Type != html.TextNode {
		return nil, fmt.Errorf("split text: not a text node: %w", ErrHierarchy)
	}
	if n.Parent == nil {
		return nil, fmt.Errorf("split text: node is detached: %w", ErrHierarchy)
	}
	r := []rune(n.Data)
	if offset < 0 || offset > len(r) {
		return nil, fmt.Errorf("split text at %d: %w", offset, ErrIndexSize)
	}
	prefix := CreateText(string(r[:offset]))
	if err := doc.SetData(n, string(r[offset:])); err != nil {
		return nil, err
	}
	if err := doc.InsertBefore(n.Parent, prefix, n); err != nil {
		return nil, err
	}
	return prefix, nil
}

// --- Node creation ---------------------------------------------------------

// CreateElement creates a detached element node for a tag name.
func CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
}

// CreateText creates a detached text node.
func CreateText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// CloneNode returns a detached copy of n. If deep is set, children are
// copied recursively.
func CloneNode(n *html.Node, deep bool) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	if deep {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.AppendChild(CloneNode(ch, true))
		}
	}
	return c
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n; c != nil; c = NextNode(c, n) {
		if pred(c) {
			return c
		}
	}
	return nil
}

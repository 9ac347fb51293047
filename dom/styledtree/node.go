package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/tree"
	"golang.org/x/net/html"
)

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree
	htmlNode            *html.Node
	computedStyles      *style.PropertyMap
}

// NewNodeForHTMLNode creates a new styled node linked to an HTML node.
func NewNodeForHTMLNode(html *html.Node) *StyNode {
	sn := &StyNode{}
	sn.Payload = sn // Payload will always reference the node itself
	sn.htmlNode = html
	sn.computedStyles = style.NewPropertyMap()
	return sn
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// HTMLNode gets the HTML DOM node corresponding to this styled node.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.Payload.htmlNode
}

// ParentStyles returns the styled node of the parent element, or nil.
func (sn *StyNode) ParentStyles() *StyNode {
	return Node(sn.Parent())
}

// LinkParent makes p the style parent of sn. The link is a back-reference;
// p does not hold on to sn.
func (sn *StyNode) LinkParent(p *StyNode) {
	if p == nil {
		sn.SetParent(nil)
		return
	}
	sn.SetParent(&p.Node)
}

// Styles returns the computed style properties of the node.
func (sn *StyNode) Styles() *style.PropertyMap {
	return sn.computedStyles
}

// SetStyles sets the styling properties of a styled node.
func (sn *StyNode) SetStyles(styles *style.PropertyMap) {
	sn.computedStyles = styles
}

// GetPropertyValue returns the property value for a given key.
// If the property is not set locally and is inherited, it cascades to the
// ancestors. Non-inherited properties fall back to the user agent default.
func (sn *StyNode) GetPropertyValue(key string) style.Property {
	if sn == nil {
		return style.NullStyle
	}
	p, ok := sn.computedStyles.Property(key)
	if ok && !p.IsEmpty() && !p.IsInherit() {
		return p
	}
	// not found in local dicts => cascade, if allowed
	if p.IsInherit() || style.IsCascading(key) {
		tracer().P("key", key).Debugf("styling: cascading for key %s", key)
		for it := sn.ParentStyles(); it != nil; it = it.ParentStyles() {
			if p, ok := it.computedStyles.Property(key); ok && !p.IsEmpty() && !p.IsInherit() {
				return p
			}
		}
		return style.InitialValue(key)
	}
	return style.GetUserAgentDefaultProperty(sn.htmlNode, key)
}

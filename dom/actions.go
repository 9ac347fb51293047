package dom

import (
	"golang.org/x/net/html"
)

// NodePredicate matches nodes of a DOM during a walk.
type NodePredicate func(n *html.Node) bool

// NodeIsText is a predicate to match text-nodes of a DOM.
var NodeIsText NodePredicate = IsText

// NodeIsBR is a predicate to match line breaks.
var NodeIsBR NodePredicate = IsBR

// NodeIsBlock is a predicate to match block-level elements.
var NodeIsBlock NodePredicate = IsBlock

// And combines predicates.
func (pred NodePredicate) And(other NodePredicate) NodePredicate {
	return func(n *html.Node) bool {
		return pred(n) && other(n)
	}
}

// FindAll walks the subtree of root in document order and collects all
// nodes matching pred, root included.
func FindAll(root *html.Node, pred NodePredicate) []*html.Node {
	var found []*html.Node
	for n := root; n != nil; n = NextNode(n, root) {
		if pred(n) {
			found = append(found, n)
		}
	}
	return found
}

// FindFirst returns the first node of the subtree of root matching pred.
func FindFirst(root *html.Node, pred NodePredicate) *html.Node {
	return findFirst(root, pred)
}

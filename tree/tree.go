package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrSkipChildren may be returned by an Action to prune a top-down
// traversal below the current node. It is not reported as an error.
var ErrSkipChildren = errors.New("skip children")

// Action is a function type to operate on tree nodes.
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) error

// TopDown traverses a tree starting at (and including) node.
// The traversal guarantees that parents are always processed before
// their children, and that siblings are processed in order.
//
// If the action function returns ErrSkipChildren for a node,
// descending the branch below this node is skipped. Any other error aborts
// the traversal and is returned.
func TopDown[T comparable](node *Node[T], action Action[T]) error {
	if node == nil {
		return nil
	}
	position := 0
	if node.parent != nil {
		position = node.parent.IndexOfChild(node)
	}
	return topDown(node, node.parent, position, action)
}

func topDown[T comparable](node, parent *Node[T], position int, action Action[T]) error {
	if err := action(node, parent, position); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}
	for i, ch := range node.Children() {
		if err := topDown(ch, node, i, action); err != nil {
			return err
		}
	}
	return nil
}

// BottomUp traverses a tree starting at (and including) node.
// The traversal guarantees that parents are not processed before
// all of their children. Children are processed in reverse order, i.e. the
// traversal visits the tree in reverse post-order.
//
// An error returned by the action aborts the traversal.
func BottomUp[T comparable](node *Node[T], action Action[T]) error {
	if node == nil {
		return nil
	}
	position := 0
	if node.parent != nil {
		position = node.parent.IndexOfChild(node)
	}
	return bottomUp(node, node.parent, position, action)
}

func bottomUp[T comparable](node, parent *Node[T], position int, action Action[T]) error {
	chs := node.Children()
	for i := len(chs) - 1; i >= 0; i-- {
		if err := bottomUp(chs[i], node, i, action); err != nil {
			return err
		}
	}
	return action(node, parent, position)
}

// Leaves returns the leaf nodes of the subtree of node in order.
func Leaves[T comparable](node *Node[T]) []*Node[T] {
	var leaves []*Node[T]
	_ = TopDown(node, func(n, _ *Node[T], _ int) error {
		if n.ChildCount() == 0 {
			leaves = append(leaves, n)
		}
		return nil
	})
	return leaves
}

// CalcRank is an action for bottom-up processing. It Calculates the 'rank'-member
// for each node, meaning: the number of child-nodes + 1.
// The root node will hold the number of nodes in the entire tree.
// Leaf nodes will have a rank of 1.
func CalcRank[T comparable](n *Node[T], parent *Node[T], position int) error {
	r := uint32(1)
	for _, ch := range n.children {
		r += ch.Rank
	}
	n.Rank = r
	return nil
}

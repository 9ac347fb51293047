package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() *Node[string] {
	// a -> (b -> (d, e), c)
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	d, e := NewNode("d"), NewNode("e")
	a.AddChild(b).AddChild(c)
	b.AddChild(d).AddChild(e)
	return a
}

func TestInsertAndIsolate(t *testing.T) {
	root := NewNode("root")
	x, y, z := NewNode("x"), NewNode("y"), NewNode("z")
	root.AddChild(x).AddChild(z)
	root.InsertChildAt(1, y)
	require.Equal(t, 3, root.ChildCount())
	ch, ok := root.Child(1)
	require.True(t, ok)
	assert.Equal(t, "y", ch.Payload)
	assert.Equal(t, root, y.Parent())
	y.Isolate()
	assert.Equal(t, 2, root.ChildCount())
	assert.Nil(t, y.Parent())
	assert.Equal(t, 1, root.IndexOfChild(z))
	other := NewNode("other")
	other.AddChild(z) // re-parenting isolates first
	assert.Equal(t, 1, root.ChildCount())
	assert.Equal(t, other, z.Parent())
}

func TestTopDownOrder(t *testing.T) {
	var visited []string
	err := TopDown(buildTree(), func(n, parent *Node[string], position int) error {
		visited = append(visited, n.Payload)
		if n.Payload == "b" && parent.Payload != "a" {
			return errors.New("wrong parent")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "e", "c"}, visited)
}

func TestTopDownSkip(t *testing.T) {
	var visited []string
	err := TopDown(buildTree(), func(n, _ *Node[string], _ int) error {
		visited = append(visited, n.Payload)
		if n.Payload == "b" {
			return ErrSkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, visited)
}

func TestBottomUpRank(t *testing.T) {
	root := buildTree()
	var visited []string
	err := BottomUp(root, func(n, parent *Node[string], position int) error {
		visited = append(visited, n.Payload)
		return CalcRank(n, parent, position)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "e", "d", "b", "a"}, visited)
	assert.Equal(t, uint32(5), root.Rank)
	leaves := Leaves(root)
	require.Len(t, leaves, 3)
	assert.Equal(t, "d", leaves[0].Payload)
	assert.Equal(t, 2, leaves[0].Depth())
	assert.Equal(t, root, leaves[2].Root())
}

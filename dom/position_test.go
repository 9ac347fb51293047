package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionEquivalents(t *testing.T) {
	doc := parse(t, `<body><div id="a"><b id="b">xy</b><i id="i">z</i></div></body>`)
	a, b, i := doc.ElementByID("a"), doc.ElementByID("b"), doc.ElementByID("i")
	assert.True(t, PositionBefore(i).Equal(PositionInNode(a, 1)))
	assert.True(t, PositionAfter(b).Equal(PositionInParentBefore(i)))
	assert.True(t, PositionInParentAfter(i).Equal(LastPositionInNode(a)))
	assert.True(t, FirstPositionInNode(a).Equal(PositionInNode(a, 0)))
	assert.Equal(t, 2, LastPositionInNode(b.FirstChild).Offset())
	assert.Same(t, i, PositionInNode(a, 1).NodeAfter())
	assert.Same(t, b, PositionInNode(a, 1).NodeBefore())
	assert.Nil(t, PositionInNode(b.FirstChild, 1).NodeAfter())
	assert.Same(t, i, LastPositionInNode(a).DeepestNode())
	assert.Equal(t, PositionInNode(a, 2), LastPositionInNode(a).ParentAnchored())
	assert.True(t, NullPosition.IsNull())
	assert.True(t, NullPosition.Equal(PositionInNode(nil, 3)))
}

func TestPositionOrder(t *testing.T) {
	doc := parse(t, `<body><div id="a"><b id="b">xy</b><i id="i">z</i></div></body>`)
	a, b, i := doc.ElementByID("a"), doc.ElementByID("b"), doc.ElementByID("i")
	inB := PositionInNode(b.FirstChild, 1)
	inI := PositionInNode(i.FirstChild, 0)
	assert.True(t, inB.Before(inI))
	assert.True(t, inI.After(inB))
	assert.True(t, PositionInNode(a, 0).Before(inB))
	assert.True(t, PositionInNode(a, 1).After(inB))
	assert.True(t, PositionInNode(a, 1).Before(inI))
	assert.Equal(t, 0, inB.Compare(inB))
	assert.Equal(t, -1, CompareNodes(a, b))
	assert.Equal(t, 1, CompareNodes(i, b))
}

func TestOrphanedPosition(t *testing.T) {
	doc := parse(t, `<body><div id="a"><b id="b">xy</b></div></body>`)
	b := doc.ElementByID("b")
	p := PositionInNode(b.FirstChild, 1)
	assert.False(t, p.IsOrphan(doc))
	assert.True(t, PositionInNode(b.FirstChild, 3).IsOrphan(doc))
	require.NoError(t, doc.RemoveChild(b.Parent, b))
	assert.True(t, p.IsOrphan(doc))
}

func TestContainedNodes(t *testing.T) {
	doc := parse(t, `<body><div id="a"><b id="b">xy</b><i id="i">z</i><u id="u">w</u></div></body>`)
	b, i, u := doc.ElementByID("b"), doc.ElementByID("i"), doc.ElementByID("u")
	nodes := ContainedNodes(PositionInNode(b.FirstChild, 1), LastPositionInNode(u))
	require.Len(t, nodes, 2)
	assert.Same(t, i, nodes[0])
	assert.Same(t, u.FirstChild, nodes[1])
	assert.Empty(t, ContainedNodes(PositionInNode(u.FirstChild, 1), PositionInNode(b.FirstChild, 1)))
}

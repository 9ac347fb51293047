package editing

import (
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerFollowsChildListMutations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	doc, err := dom.ParseString(`<body><div id="r"><span id="s">ab</span><i id="i">cd</i></div></body>`)
	require.NoError(t, err)
	tr := newPositionTracker(doc)
	defer doc.Observe(tr)()
	r, i := doc.ElementByID("r"), doc.ElementByID("i")
	afterItalic := dom.PositionInNode(r, 2)
	inItalic := dom.PositionInNode(i.FirstChild, 1)
	release := tr.track(&afterItalic, &inItalic)
	//
	require.NoError(t, doc.RemoveChild(r, doc.ElementByID("s")))
	assert.True(t, afterItalic.Equal(dom.PositionInNode(r, 1)))
	assert.True(t, inItalic.Equal(dom.PositionInNode(i.FirstChild, 1)))
	//
	require.NoError(t, doc.RemoveChild(r, i))
	assert.True(t, afterItalic.Equal(dom.PositionInNode(r, 0)))
	assert.True(t, inItalic.Equal(dom.PositionInNode(r, 0)), "collapsed to the removal point")
	//
	require.NoError(t, doc.AppendChild(r, i))
	assert.True(t, inItalic.Equal(dom.PositionInNode(i.FirstChild, 1)), "restored when reattached")
	//
	release()
	require.NoError(t, doc.RemoveChild(r, i))
	assert.True(t, inItalic.Equal(dom.PositionInNode(i.FirstChild, 1)), "released positions stay put")
}

func TestTrackerFollowsTextChanges(t *testing.T) {
	doc, err := dom.ParseString(`<body><div id="r">abcdef</div></body>`)
	require.NoError(t, err)
	tr := newPositionTracker(doc)
	text := doc.ElementByID("r").FirstChild
	p, q := dom.PositionInNode(text, 4), dom.PositionInNode(text, 1)
	defer tr.track(&p, &q)()
	//
	tr.textReplaced(text, 2, 1, 3) // "ab" + 3 code points + "def"
	assert.Equal(t, 6, p.Offset())
	assert.Equal(t, 1, q.Offset())
	//
	prefix := dom.CreateText("ab")
	tr.textSplit(text, prefix, 2)
	assert.Same(t, prefix, q.Anchor())
	assert.Equal(t, 1, q.Offset())
	assert.Same(t, text, p.Anchor())
	assert.Equal(t, 4, p.Offset())
	//
	tr.textJoining(prefix, text)
	assert.Same(t, text, q.Anchor())
	assert.Equal(t, 1, q.Offset())
	assert.Equal(t, 6, p.Offset())
}

func TestTrackerKeepsPositionAfterReplacedRun(t *testing.T) {
	doc, err := dom.ParseString(`<body><div id="r">ab  cd</div></body>`)
	require.NoError(t, err)
	tr := newPositionTracker(doc)
	text := doc.ElementByID("r").FirstChild
	atEnd, inside, before := dom.PositionInNode(text, 4), dom.PositionInNode(text, 3), dom.PositionInNode(text, 2)
	defer tr.track(&atEnd, &inside, &before)()
	//
	tr.textReplaced(text, 2, 2, 2) // the run "  " is replaced by two code points
	assert.Equal(t, 4, atEnd.Offset(), "end of the run stays after the replacement")
	assert.Equal(t, 2, inside.Offset(), "inside the run collapses to its start")
	assert.Equal(t, 2, before.Offset())
	//
	tr.textReplaced(text, 4, 0, 1) // pure insertion at a tracked offset
	assert.Equal(t, 4, atEnd.Offset())
}

package layout

import (
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style/css"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collapseHTML = `<body><div id="a">  Hello   <b>big</b>  world  </div><p id="p">x<br>y<br></p></body>`

func setup(t *testing.T, markup string) (*dom.Document, *Layout) {
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	return doc, New(doc, nil)
}

func TestWhitespaceCollapsing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, collapseHTML)
	first := l.VisiblePosition(dom.PositionInNode(doc.Body(), 0))
	last := l.VisiblePosition(dom.LastPositionInNode(doc.Body()))
	require.False(t, first.IsNull())
	assert.Equal(t, "Hello big world\nx\ny", l.PlainText(first, last))
	assert.Equal(t, 19, l.CharacterCount(first, last))
	assert.Equal(t, -19, l.CharacterCount(last, first))
	//
	t1 := doc.ElementByID("a").FirstChild
	assert.Equal(t, []Run{{From: 2, To: 8}}, l.RenderedRuns(t1))
	assert.True(t, l.IsRenderedOffset(t1, 7))
	assert.False(t, l.IsRenderedOffset(t1, 8))
	assert.False(t, l.IsRenderedOffset(t1, 0))
}

func TestCanonicalPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, collapseHTML)
	t1 := doc.ElementByID("a").FirstChild
	tb := doc.ElementByID("a").FirstChild.NextSibling.FirstChild
	vp := l.VisiblePosition(dom.PositionInNode(t1, 0))
	assert.True(t, vp.DeepEquivalent().Equal(dom.PositionInNode(t1, 2)), vp.String())
	assert.True(t, vp.Equal(l.VisiblePosition(dom.PositionInNode(doc.ElementByID("a"), 0))))
	// inside collapsed white space
	inside := dom.PositionInNode(t1, 9)
	assert.True(t, l.Upstream(inside).Equal(dom.PositionInNode(t1, 8)))
	assert.True(t, l.Downstream(inside).Equal(dom.PositionInNode(tb, 0)))
	assert.True(t, l.VisiblePosition(inside).Equal(l.VisiblePosition(dom.PositionInNode(tb, 0))))
	// detached nodes have no visible position
	assert.True(t, l.VisiblePosition(dom.PositionInNode(dom.CreateText("x"), 0)).IsNull())
}

func TestWordAndParagraphNavigation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, collapseHTML)
	start := l.VisiblePosition(dom.PositionInNode(doc.ElementByID("a"), 0))
	end := l.EndOfParagraph(start)
	assert.True(t, l.IsEndOfParagraph(end))
	assert.True(t, l.IsStartOfParagraph(start))
	assert.Equal(t, "Hello big world", l.ParagraphText(start))
	//
	w := l.Previous(end, Word)
	assert.Equal(t, "w", l.CharacterAfter(w))
	assert.Equal(t, " ", l.CharacterBefore(w))
	assert.Equal(t, 5, l.CharacterCount(w, end))
	h := l.Next(start, Word)
	assert.Equal(t, 5, l.CharacterCount(start, h))
	assert.True(t, l.Next(start, Paragraph).Equal(end))
	assert.True(t, l.Previous(end, Paragraph).Equal(start))
	assert.True(t, l.StartOfWord(l.PositionAtCharacterOffset(start, 7)).Equal(l.PositionAtCharacterOffset(start, 6)))
	assert.True(t, l.EndOfWord(l.PositionAtCharacterOffset(start, 7)).Equal(l.PositionAtCharacterOffset(start, 9)))
	// crossing a paragraph boundary
	x := l.Next(end, Character)
	assert.Equal(t, "x", l.CharacterAfter(x))
	assert.Equal(t, "", l.CharacterBefore(x))
	assert.True(t, l.Previous(x, Character).Equal(end))
	assert.True(t, l.Previous(x, Word).Equal(end))
}

func TestLineBreaks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, collapseHTML)
	p := doc.ElementByID("p")
	x := l.VisiblePosition(dom.PositionInNode(p, 0))
	info, ok := l.Paragraph(x)
	require.True(t, ok)
	assert.Equal(t, "br", dom.NodeName(info.Terminator))
	assert.Equal(t, p, info.Block)
	assert.False(t, info.Empty)
	assert.True(t, l.IsStartOfBlock(x))
	assert.False(t, l.IsEndOfBlock(l.EndOfParagraph(x)))
	// the trailing <br> does not open another line
	last := l.VisiblePosition(dom.LastPositionInNode(p))
	assert.Equal(t, "y", l.CharacterBefore(last))
	assert.True(t, l.IsEndOfBlock(last))
	assert.Len(t, l.ParagraphsInRange(x, last), 2)
}

func TestEmptyLinesAndRenderedness(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, `<body><div id="d">a<br><br></div><div id="e" contenteditable="true"></div><div id="n"><span id="s"> </span></div></body>`)
	d := doc.ElementByID("d")
	a := l.VisiblePosition(dom.PositionInNode(d, 0))
	blank := l.Next(l.EndOfParagraph(a), Character)
	info, ok := l.Paragraph(blank)
	require.True(t, ok)
	assert.True(t, info.Empty)
	assert.True(t, blank.DeepEquivalent().Equal(dom.PositionInNode(d, 2)))
	assert.True(t, l.VisiblePosition(dom.LastPositionInNode(d)).Equal(blank))
	//
	e := doc.ElementByID("e")
	assert.True(t, l.IsRendered(e))
	assert.True(t, l.StartOfEditableContent(e).Equal(l.EndOfEditableContent(e)))
	assert.False(t, l.IsRendered(doc.ElementByID("n")))
	assert.False(t, l.IsRendered(doc.ElementByID("s")))
	assert.True(t, l.IsRendered(d))
}

func TestEditingHostBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, `<body>a<div id="e" contenteditable>bc</div>d</body>`)
	e := doc.ElementByID("e")
	start := l.StartOfEditableContent(e)
	end := l.EndOfEditableContent(e)
	assert.Equal(t, "bc", l.PlainText(start, end))
	assert.True(t, l.Previous(start, Character).IsNull())
	assert.True(t, l.Next(end, Character).IsNull())
	assert.False(t, l.Next(start, Character).IsNull())
	assert.True(t, l.StartOfEditableContent(doc.Body()).IsNull())
}

func TestPreformattedAndHidden(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, err := dom.ParseString(`<body><pre id="pre">a  b</pre><div id="h" style="display: none">gone</div><p id="q">c<img src="x.png">d</p></body>`)
	require.NoError(t, err)
	l := New(doc, css.NewResolver(doc))
	pre := l.VisiblePosition(dom.PositionInNode(doc.ElementByID("pre"), 0))
	assert.Equal(t, "a  b", l.ParagraphText(pre))
	assert.False(t, l.IsRendered(doc.ElementByID("h")))
	q := l.VisiblePosition(dom.PositionInNode(doc.ElementByID("q"), 0))
	assert.Equal(t, "c"+objectReplacement+"d", l.ParagraphText(q))
	assert.Equal(t, "a  b\nc"+objectReplacement+"d", l.PlainText(pre, l.EndOfParagraph(q)))
}

func TestLayoutFollowsMutations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	doc, l := setup(t, `<body><div id="a">Hello</div></body>`)
	a := doc.ElementByID("a")
	vp := l.VisiblePosition(dom.PositionInNode(a, 0))
	assert.Equal(t, "Hello", l.ParagraphText(vp))
	require.NoError(t, doc.InsertData(a.FirstChild, 5, " world"))
	assert.Equal(t, "Hello world", l.ParagraphText(vp))
	doc.UpdateLayout()
	end := l.EndOfParagraph(vp)
	assert.True(t, end.DeepEquivalent().Equal(dom.PositionInNode(a.FirstChild, 11)))
	assert.Equal(t, "d", l.CharacterBefore(end))
}

func TestBlocksFollowComputedDisplay(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.layout")
	defer teardown()
	//
	markup := `<body><div id="a">one <span id="s" style="display: block">two</span> three` +
		`<div id="i" style="display: inline">four</div></div></body>`
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	l := New(doc, css.NewResolver(doc))
	s, i := doc.ElementByID("s"), doc.ElementByID("i")
	assert.True(t, l.IsBlock(s))
	assert.False(t, l.IsBlock(i))
	assert.Same(t, s, l.EnclosingBlock(s.FirstChild))
	assert.Same(t, doc.ElementByID("a"), l.EnclosingBlock(i.FirstChild))
	assert.Equal(t, "two", l.ParagraphText(l.VisiblePosition(dom.PositionInNode(s.FirstChild, 1))))
	assert.Equal(t, "threefour", l.ParagraphText(l.VisiblePosition(dom.PositionInNode(i.FirstChild, 1))))
	//
	// without computed styles the tag decides
	plain := New(doc, nil)
	assert.False(t, plain.IsBlock(s))
	assert.Equal(t, "one two three", plain.ParagraphText(plain.VisiblePosition(dom.PositionInNode(s.FirstChild, 1))))
}

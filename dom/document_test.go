package dom

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseString(markup)
	require.NoError(t, err)
	return doc
}

func TestMutationsNotifyObservers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.dom")
	defer teardown()
	//
	doc := parse(t, `<body><div id="a">hello</div></body>`)
	a := doc.ElementByID("a")
	var childLists, attrs, data int
	cancel := doc.Observe(MutationFuncs{
		ChildList:     func(*html.Node, []*html.Node, []*html.Node, *html.Node, *html.Node) { childLists++ },
		Attribute:     func(_ *html.Node, name, old string) { attrs++ },
		CharacterData: func(_ *html.Node, old string) { data++ },
	})
	v := doc.Version()
	b := CreateElement("B")
	require.NoError(t, doc.AppendChild(a, b))
	assert.Equal(t, "b", b.Data)
	require.NoError(t, doc.SetAttribute(b, "class", "x"))
	require.NoError(t, doc.RemoveAttribute(b, "class"))
	require.NoError(t, doc.RemoveAttribute(b, "class")) // no-op
	require.NoError(t, doc.InsertData(a.FirstChild, 5, " world"))
	assert.Equal(t, 1, childLists)
	assert.Equal(t, 2, attrs)
	assert.Equal(t, 1, data)
	assert.Greater(t, doc.Version(), v)
	assert.Equal(t, "hello world<b></b>", InnerMarkup(a))
	//
	cancel()
	require.NoError(t, doc.RemoveChild(a, b))
	assert.Equal(t, 1, childLists)
}

func TestObserverMayMutate(t *testing.T) {
	doc := parse(t, `<body><div id="a">x</div></body>`)
	a := doc.ElementByID("a")
	defer doc.Observe(MutationFuncs{
		CharacterData: func(n *html.Node, old string) {
			if n.Data == "xy" {
				require.NoError(t, doc.SetData(n, "xyz"))
			}
		},
	})()
	require.NoError(t, doc.InsertData(a.FirstChild, 1, "y"))
	assert.Equal(t, "xyz", a.FirstChild.Data)
}

func TestHierarchyErrors(t *testing.T) {
	doc := parse(t, `<body><div id="a"><p id="p">x</p></div><div id="b"></div></body>`)
	a, p := doc.ElementByID("a"), doc.ElementByID("p")
	assert.True(t, errors.Is(doc.AppendChild(p, a), ErrHierarchy))
	assert.True(t, errors.Is(doc.AppendChild(CreateElement("br"), CreateText("x")), ErrHierarchy))
	assert.True(t, errors.Is(doc.InsertBefore(a, CreateText("x"), doc.ElementByID("b")), ErrNotFound))
	assert.True(t, errors.Is(doc.RemoveChild(doc.ElementByID("b"), p), ErrNotFound))
	assert.True(t, errors.Is(doc.SetData(a, "x"), ErrHierarchy))
	assert.True(t, errors.Is(doc.ReplaceData(p.FirstChild, 5, 0, "y"), ErrIndexSize))
	_, err := doc.SplitText(CreateText("detached"), 2)
	assert.True(t, errors.Is(err, ErrHierarchy))
}

func TestMoveNodeReportsRemovalAndInsertion(t *testing.T) {
	doc := parse(t, `<body><div id="a"><i id="i">x</i></div><div id="b"></div></body>`)
	var removed, added int
	defer doc.Observe(MutationFuncs{
		ChildList: func(_ *html.Node, a, r []*html.Node, _, _ *html.Node) {
			added += len(a)
			removed += len(r)
		},
	})()
	require.NoError(t, doc.AppendChild(doc.ElementByID("b"), doc.ElementByID("i")))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, added)
	assert.Equal(t, "", InnerMarkup(doc.ElementByID("a")))
}

func TestSplitText(t *testing.T) {
	doc := parse(t, `<body><div id="a">héllo</div></body>`)
	text := doc.ElementByID("a").FirstChild
	prefix, err := doc.SplitText(text, 2)
	require.NoError(t, err)
	assert.Equal(t, "hé", prefix.Data)
	assert.Equal(t, "llo", text.Data)
	assert.Same(t, prefix, text.PrevSibling)
}

func TestReplaceDataClampsCount(t *testing.T) {
	doc := parse(t, `<body><div id="a">abc</div></body>`)
	text := doc.ElementByID("a").FirstChild
	require.NoError(t, doc.ReplaceData(text, 1, 10, "X"))
	assert.Equal(t, "aX", text.Data)
	require.NoError(t, doc.DeleteData(text, 0, 1))
	assert.Equal(t, "X", text.Data)
}

func TestLayoutListeners(t *testing.T) {
	doc := parse(t, `<body><div id="a">abc</div></body>`)
	calls := 0
	doc.OnLayout(func(*Document) { calls++ })
	doc.UpdateLayout()
	doc.UpdateLayout()
	assert.Equal(t, 1, calls)
	require.NoError(t, doc.SetData(doc.ElementByID("a").FirstChild, "x"))
	assert.True(t, doc.NeedsLayout())
	doc.UpdateLayout()
	assert.Equal(t, 2, calls)
}

func TestCloneNode(t *testing.T) {
	doc := parse(t, `<body><div id="a" class="c"><b>x</b></div></body>`)
	a := doc.ElementByID("a")
	shallow := CloneNode(a, false)
	assert.Nil(t, shallow.FirstChild)
	assert.Nil(t, shallow.Parent)
	deep := CloneNode(a, true)
	assert.Equal(t, Markup(a), Markup(deep))
	deep.Attr[0].Val = "changed"
	v, _ := AttributeValue(a, "id")
	assert.Equal(t, "a", v)
	assert.False(t, doc.Contains(deep))
	assert.True(t, doc.Contains(a.FirstChild))
}

func TestEditability(t *testing.T) {
	doc := parse(t, `<body><div id="h" contenteditable="true"><p id="p">x</p>`+
		`<span id="n" contenteditable="false">y</span></div>`+
		`<div id="t" contenteditable="plaintext-only">z</div><div id="o">o</div></body>`)
	h, p := doc.ElementByID("h"), doc.ElementByID("p")
	assert.True(t, IsRichlyEditable(p.FirstChild))
	assert.Same(t, h, RootEditableElement(p.FirstChild))
	assert.False(t, IsContentEditable(doc.ElementByID("n").FirstChild))
	assert.True(t, IsContentEditable(doc.ElementByID("t")))
	assert.False(t, IsRichlyEditable(doc.ElementByID("t")))
	assert.Nil(t, RootEditableElement(doc.ElementByID("o")))
	assert.Same(t, p, EnclosingBlock(p.FirstChild))
}

func TestMarkupHelpers(t *testing.T) {
	doc := parse(t, `<body><div id="a"><b>x</b>y</div></body>`)
	a := doc.ElementByID("a")
	assert.Equal(t, `<b>x</b>y`, InnerMarkup(a))
	assert.Equal(t, "", MarkupDiff("same", "same"))
	assert.NotEqual(t, "", MarkupDiff("<b>x</b>", "<i>x</i>"))
	dump := DumpTree(a)
	assert.Contains(t, dump, `<div id="a">`)
	assert.Contains(t, dump, `#text "y"`)
	nodes, err := ParseFragment(a, "<u>z</u>tail")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.True(t, IsElement(nodes[0], "u"))
	assert.Nil(t, nodes[0].Parent)
}

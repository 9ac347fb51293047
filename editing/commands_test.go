package editing

import (
	"strings"
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestBreakBlockquote(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">`+
		`<blockquote type="cite">ab</blockquote></div></body>`)
	before := inner(doc, "r")
	root := doc.ElementByID("r")
	text := dom.FindFirst(root, dom.IsText)
	ed.SetCaret(dom.PositionInNode(text, 1))
	require.NoError(t, ed.InsertParagraphSeparatorInQuotedContent())
	t.Logf("after break: %s", inner(doc, "r"))
	quotes := dom.FindAll(root, func(n *html.Node) bool { return dom.IsMailBlockquote(n) })
	require.Len(t, quotes, 2)
	assert.Equal(t, "a", dom.TextContent(quotes[0]))
	assert.Equal(t, "b", dom.TextContent(quotes[1]))
	br := quotes[0].NextSibling
	assert.True(t, dom.IsBR(br))
	assert.False(t, dom.IsMailBlockquote(ed.Selection().Start().ContainerNode()))
	//
	require.NoError(t, ed.Undo())
	requireMarkup(t, before, inner(doc, "r"))
}

func TestInsertLineBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	ed.SetCaret(dom.PositionInNode(doc.ElementByID("r").FirstChild, 5))
	require.NoError(t, ed.InsertLineBreak())
	markup := inner(doc, "r")
	assert.True(t, strings.HasPrefix(markup, "Hello<br/>"), markup)
	assert.Equal(t, "Helloworld", strings.Join(strings.Fields(dom.TextContent(doc.ElementByID("r"))), ""))
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
}

func TestApplyParagraphStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true"><div id="p">ab</div></div></body>`)
	ed.SetCaret(dom.PositionInNode(doc.ElementByID("p").FirstChild, 1))
	center := EditingStyleForProperty("text-align", "center")
	require.NoError(t, ed.ApplyParagraphStyle(center, EditActionAlign))
	v, _ := dom.AttributeValue(doc.ElementByID("p"), "style")
	assert.Contains(t, v, "text-align: center")
	assert.Equal(t, "center", ed.Styles().ComputedProperty(doc.ElementByID("p"), "text-align").String())
	require.NoError(t, ed.Undo())
	requireMarkup(t, `<div id="p">ab</div>`, inner(doc, "r"))
}

func TestDumpCommandTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.Select(dom.PositionInNode(text, 0), dom.PositionInNode(text, 5))
	cmd := NewApplyStyleCommand(ed, EditingStyleForProperty("font-style", "italic"), EditActionItalics)
	require.NoError(t, ed.Apply(cmd))
	dump := DumpCommandTree(cmd)
	t.Logf("\n%s", dump)
	assert.True(t, strings.HasPrefix(dump, "ApplyStyleCommand"))
	assert.Equal(t, "<nil>", DumpCommandTree(nil))
}

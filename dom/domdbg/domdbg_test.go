package domdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style/css"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const page = `<html><head><style>b { color: red }</style></head>
<body><div id="ed" contenteditable="true">Hello <b>world</b></div><p>static</p></body></html>`

func TestGraphVizOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.dom")
	defer teardown()
	//
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	ed := doc.ElementByID("ed")
	require.NotNil(t, ed)
	out := &bytes.Buffer{}
	err = ToGraphViz(doc.Body(), nil, out, Options{
		Highlight: map[*html.Node]string{ed.FirstChild: "caret"},
	})
	require.NoError(t, err)
	dot := out.String()
	assert.True(t, strings.HasPrefix(dot, "digraph g {"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `label="div"`)
	assert.Contains(t, dot, `label="p"`)
	assert.Contains(t, dot, "Hello")
	assert.Contains(t, dot, `xlabel="caret"`)
	assert.Contains(t, dot, "palegreen3", "editing host is highlighted")
	assert.Contains(t, dot, "grey80", "non-editable elements are greyed out")
	assert.NotContains(t, dot, "Mrecord", "no styles without a resolver")
	// body, div, text, b, text, p, text
	assert.Equal(t, 6, strings.Count(dot, "[weight=1]"))
}

func TestGraphVizWithStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.dom")
	defer teardown()
	//
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	ed := doc.ElementByID("ed")
	out := &bytes.Buffer{}
	err = ToGraphViz(ed, css.NewResolver(doc), out, Options{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `label="b"`)
}

func TestShortText(t *testing.T) {
	n := &html.Node{Type: html.TextNode, Data: "a b"}
	assert.Equal(t, `"\"a␣b\""`, shortText(n))
	n.Data = "0123456789abc"
	assert.Equal(t, `"\"0123456789...\""`, shortText(n))
}

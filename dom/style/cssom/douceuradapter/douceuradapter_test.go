package douceuradapter

import (
	"strings"
	"testing"

	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/cssom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParseInlineStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	ps, err := ParseInlineStyle("font-weight: bold; COLOR: red !important; margin: 1px 2px")
	require.NoError(t, err)
	assert.Equal(t, style.Property("bold"), ps.Value("font-weight"))
	assert.Equal(t, style.Property("red"), ps.Value("color"))
	assert.True(t, ps.IsImportant("color"))
	assert.False(t, ps.IsImportant("font-weight"))
	assert.Equal(t, style.Property("2px"), ps.Value("margin-left"))
	empty, err := ParseInlineStyle("  ")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	doc, err := html.Parse(strings.NewReader(`<html><head><style>p { color: blue } .x { font-style: italic }</style></head>
<body><style>b { font-weight: normal }</style><p>x</p></body></html>`))
	require.NoError(t, err)
	sheets := ExtractStyleElements(doc)
	require.Len(t, sheets, 2)
	sheets[0].AppendRules(sheets[1])
	rules := sheets[0].Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "p", rules[0].Selector())
	assert.Equal(t, style.Property("blue"), rules[0].Value("color"))
	ps := cssom.Declarations(rules[2])
	assert.Equal(t, "font-weight: normal;", ps.Text())
}

func TestParseInlineStyleWithoutTrailingSemicolon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	for _, text := range []string{"font-weight: bold", " font-weight: bold ", "font-weight: bold;"} {
		ps, err := ParseInlineStyle(text)
		require.NoError(t, err, text)
		assert.Equal(t, style.Property("bold"), ps.Value("font-weight"), text)
	}
	ps, err := ParseInlineStyle("text-align: center; font-weight: 600")
	require.NoError(t, err)
	assert.Equal(t, style.Property("center"), ps.Value("text-align"))
	assert.Equal(t, style.Property("600"), ps.Value("font-weight"))
}

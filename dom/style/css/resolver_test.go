package css

import (
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testHTML = `<html><head><style>
p { color: blue; font-size: 20px }
p.quiet { color: gray !important }
#loud { color: red }
</style></head><body>
<p id="loud" class="quiet">Hello <b>bold <i id="bi">italic</i></b> <span id="sp" style="font-size: 2em; font-weight: 600">big</span></p>
<div id="d" style="text-decoration: underline"><u id="u">x</u><font id="f" color="green" size="5">y</font><s><span id="n" style="font-weight: inherit">z</span></s></div>
</body></html>`

func TestResolverCascade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	r := NewResolver(doc)
	loud := doc.ElementByID("loud")
	assert.Equal(t, style.Property("#808080"), r.ComputedProperty(loud, "color"), "important rule wins")
	assert.Equal(t, style.Property("20px"), r.ComputedProperty(loud, "font-size"))
	bi := doc.ElementByID("bi")
	assert.Equal(t, style.Property("bold"), r.ComputedProperty(bi, "font-weight"))
	assert.Equal(t, style.Property("italic"), r.ComputedProperty(bi.FirstChild, "font-style"), "text node")
	sp := doc.ElementByID("sp")
	assert.Equal(t, style.Property("40px"), r.ComputedProperty(sp, "font-size"))
	assert.Equal(t, style.Property("600"), r.ComputedProperty(sp, "font-weight"))
	assert.Equal(t, style.Property("normal"), r.ComputedProperty(loud, "font-weight"))
}

func TestResolverLegacyAndDecorations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	r := NewResolver(doc)
	f := doc.ElementByID("f")
	assert.Equal(t, style.Property("#008000"), r.ComputedProperty(f, "color"))
	assert.Equal(t, style.Property("24px"), r.ComputedProperty(f, "font-size"))
	u := doc.ElementByID("u")
	assert.Equal(t, style.Property("underline"), r.ComputedProperty(u, style.TextDecorationsInEffect))
	n := doc.ElementByID("n")
	assert.Equal(t, style.Property("underline line-through"), r.ComputedProperty(n, style.TextDecorationsInEffect))
	assert.Equal(t, style.Property("none"), r.ComputedProperty(n, "text-decoration"))
	assert.Equal(t, style.Property("transparent"), r.ComputedProperty(n, "background-color"))
}

func TestResolverInvalidatesOnMutation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	r := NewResolver(doc)
	sp := doc.ElementByID("sp")
	assert.Equal(t, style.Property("600"), r.ComputedProperty(sp, "font-weight"))
	require.NoError(t, doc.SetAttribute(sp, "style", "font-weight: bold"))
	assert.Equal(t, style.Property("bold"), r.ComputedProperty(sp, "font-weight"))
	assert.Equal(t, 20.0, r.FontSizePixels(sp))
	assert.True(t, r.DisplayMode(doc.ElementByID("d")).IsBlockLevel())
	assert.True(t, r.DisplayMode(sp).Contains(InlineMode))
}

func TestResolverExtraSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	doc, err := dom.ParseString(`<body><p class="x">a</p></body>`)
	require.NoError(t, err)
	sheet, err := douceuradapter.ParseStyleSheet(`.x { text-align: center } p { text-align: right }`)
	require.NoError(t, err)
	r := NewResolver(doc, sheet)
	p := dom.FindFirst(doc.Root(), func(n *html.Node) bool { return dom.IsElement(n, "p") })
	assert.Equal(t, style.Property("center"), r.ComputedProperty(p, "text-align"), "specificity beats order")
}

func TestDisplayModes(t *testing.T) {
	for display, want := range map[string]struct {
		block, inline, hidden bool
	}{
		"block":        {block: true},
		"list-item":    {block: true},
		"table-cell":   {block: true},
		"flex":         {block: true},
		"inline":       {inline: true},
		"inline-block": {inline: true},
		"inline-table": {inline: true},
		"none":         {hidden: true},
		"contents":     {},
	} {
		mode, err := ParseDisplay(display)
		require.NoError(t, err, display)
		assert.Equal(t, want.block, mode.IsBlockLevel(), display)
		assert.Equal(t, want.inline, mode.IsInlineLevel(), display)
		assert.Equal(t, want.hidden, mode.IsHidden(), display)
	}
	mode, err := ParseDisplay("ruby-text")
	assert.Error(t, err)
	assert.True(t, mode.IsBlockLevel())
	assert.Equal(t, "block|list-item", (ListItemMode | BlockMode).String())
	assert.Equal(t, "no-mode", NoMode.String())
}

func TestResolverDisplayFollowsAuthorStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.style")
	defer teardown()
	//
	doc, err := dom.ParseString(`<body><span id="s" style="display: block">a</span><div id="d">b</div></body>`)
	require.NoError(t, err)
	r := NewResolver(doc)
	s := doc.ElementByID("s")
	assert.True(t, r.IsBlockLevel(s))
	assert.True(t, r.IsBlockLevel(doc.ElementByID("d")))
	assert.False(t, r.IsBlockLevel(s.FirstChild), "text is inline")
	assert.True(t, r.DisplayMode(doc.Root()).IsBlockLevel())
	require.NoError(t, doc.SetAttribute(s, "style", "display: inline"))
	assert.False(t, r.IsBlockLevel(s))
}

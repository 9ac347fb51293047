package editing

import (
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStyle(t *testing.T, text string) *EditingStyle {
	t.Helper()
	s, err := EditingStyleFromText(text)
	require.NoError(t, err)
	return s
}

func TestEditingStyleFromText(t *testing.T) {
	s := mustStyle(t, "font-weight: bold; color: red")
	assert.Equal(t, style.Property("bold"), s.Value("font-weight"))
	assert.Equal(t, style.Property("red"), s.Value("color"))
	assert.False(t, s.IsEmpty())
	assert.True(t, NewEditingStyle().IsEmpty())
}

func TestEditingStyleFontSizeDelta(t *testing.T) {
	s := EditingStyleForProperty(style.FontSizeDelta, "2px")
	delta, ok := s.FontSizeDelta()
	require.True(t, ok)
	assert.Equal(t, 2.0, delta)
	assert.False(t, s.IsEmpty())
	assert.False(t, s.Properties().Has(style.FontSizeDelta))
	//
	s.SetProperty("font-size", "24px")
	assert.Equal(t, 5, s.LegacyFontSize())
}

func TestExtractBlockProperties(t *testing.T) {
	s := mustStyle(t, "text-align: center; font-weight: bold")
	block := s.ExtractAndRemoveBlockProperties()
	assert.Equal(t, style.Property("center"), block.Value("text-align"))
	assert.False(t, block.Properties().Has("font-weight"))
	assert.False(t, s.Properties().Has("text-align"))
	assert.True(t, s.Properties().Has("font-weight"))
}

func TestEditingStyleTextDirection(t *testing.T) {
	dir, ok := mustStyle(t, "unicode-bidi: embed; direction: RTL").TextDirection()
	require.True(t, ok)
	assert.Equal(t, "rtl", dir)
	_, ok = mustStyle(t, "direction: rtl").TextDirection()
	assert.False(t, ok)
}

func TestTriStateOfStyle(t *testing.T) {
	bold := mustStyle(t, "font-weight: bold")
	boldItalic := mustStyle(t, "font-weight: bold; font-style: italic")
	assert.Equal(t, TriStateTrue, bold.TriStateOfStyle(boldItalic))
	assert.Equal(t, TriStateMixed, boldItalic.TriStateOfStyle(bold))
	assert.Equal(t, TriStateFalse, bold.TriStateOfStyle(NewEditingStyle()))
	assert.Equal(t, TriStateFalse, bold.TriStateOfStyle(mustStyle(t, "font-weight: normal")))
	assert.Equal(t, TriStateTrue, bold.TriStateOfStyle(mustStyle(t, "font-weight: 700")))
}

func TestStyleChangeLegacyMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	pos := dom.PositionInNode(doc.ElementByID("r").FirstChild, 2)
	s := mustStyle(t, "font-weight: bold; font-style: italic; text-decoration: underline; color: red; font-family: 'Times'")
	sc := NewStyleChange(ed, s, pos)
	assert.True(t, sc.ApplyBold)
	assert.True(t, sc.ApplyItalic)
	assert.True(t, sc.ApplyUnderline)
	assert.False(t, sc.ApplyLineThrough)
	assert.Equal(t, "#ff0000", sc.FontColor)
	assert.Equal(t, "Times", sc.FontFace)
	assert.True(t, sc.NeedsFontElement())
	assert.False(t, sc.ApplyFontSize())
	assert.Equal(t, "", sc.CSSStyle)
}

func TestStyleChangeWithCSS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	settings := DefaultSettings()
	settings.StyleWithCSS = true
	ed, doc := setupEditor(t, helloHTML, WithSettings(settings))
	pos := dom.PositionInNode(doc.ElementByID("r").FirstChild, 2)
	sc := NewStyleChange(ed, mustStyle(t, "font-weight: bold; vertical-align: sub"), pos)
	assert.False(t, sc.ApplyBold)
	assert.False(t, sc.ApplySubscript)
	assert.Contains(t, sc.CSSStyle, "font-weight: bold")
	assert.Contains(t, sc.CSSStyle, "vertical-align: sub")
}

func TestStyleChangeIsEmptyWhereStyleIsInEffect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div contenteditable="true"><b id="b">bold</b></div></body>`)
	pos := dom.PositionInNode(doc.ElementByID("b").FirstChild, 1)
	assert.True(t, NewStyleChange(ed, mustStyle(t, "font-weight: bold"), pos).IsEmpty())
	assert.True(t, NewStyleChange(ed, nil, pos).IsEmpty())
	sc := NewStyleChange(ed, mustStyle(t, "vertical-align: super"), pos)
	assert.True(t, sc.ApplySuperscript)
}

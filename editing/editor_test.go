package editing

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const helloHTML = `<body><div id="r" contenteditable="true">Hello world</div></body>`

func setupEditor(t *testing.T, markup string, opts ...Option) (*Editor, *dom.Document) {
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	ed := NewEditor(doc, opts...)
	t.Cleanup(ed.Close)
	return ed, doc
}

func inner(doc *dom.Document, id string) string {
	return dom.InnerMarkup(doc.ElementByID(id))
}

func requireMarkup(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Logf("diff: %s", dom.MarkupDiff(expected, actual))
	}
	require.Equal(t, expected, actual)
}

func TestApplyBold(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.Select(dom.PositionInNode(text, 6), dom.PositionInNode(text, 11))
	require.True(t, ed.Selection().IsRange())
	//
	bold := EditingStyleForProperty("font-weight", "bold")
	require.NoError(t, ed.Apply(NewApplyStyleCommand(ed, bold, EditActionBold)))
	requireMarkup(t, "Hello <b>world</b>", inner(doc, "r"))
	b := dom.FindFirst(doc.ElementByID("r"), func(n *html.Node) bool { return dom.IsElement(n, "b") })
	require.NotNil(t, b)
	assert.True(t, fontWeightIsBold(ed.Styles().ComputedProperty(b, "font-weight")))
	assert.False(t, fontWeightIsBold(ed.Styles().ComputedProperty(doc.ElementByID("r"), "font-weight")))
	assert.Equal(t, TriStateTrue, ed.SelectionHasStyle(bold))
	//
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
	require.NoError(t, ed.Redo())
	requireMarkup(t, "Hello <b>world</b>", inner(doc, "r"))
	t.Logf("\n%s", DumpComposition(ed.UndoStack().steps[0]))
}

func TestApplyBoldWithCSS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	settings := DefaultSettings()
	settings.StyleWithCSS = true
	ed, doc := setupEditor(t, helloHTML, WithSettings(settings))
	text := doc.ElementByID("r").FirstChild
	ed.Select(dom.PositionInNode(text, 6), dom.PositionInNode(text, 11))
	require.NoError(t, ed.Apply(NewApplyStyleCommand(ed, EditingStyleForProperty("font-weight", "bold"), EditActionBold)))
	markup := inner(doc, "r")
	assert.NotContains(t, markup, "<b>")
	assert.Contains(t, markup, "<span")
	assert.Contains(t, markup, "font-weight")
	assert.True(t, strings.HasPrefix(markup, "Hello "), markup)
}

func TestEnterThenType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 11))
	before := ed.Selection()
	//
	require.NoError(t, ed.InsertParagraphSeparator())
	require.NoError(t, ed.InsertText("X", 0))
	requireMarkup(t, "<div>Hello world</div><div>X</div>", inner(doc, "r"))
	assert.Equal(t, 1, ed.UndoStack().Len())
	t.Logf("\n%s", DumpCommandTree(ed.LastEditCommand()))
	//
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
	assert.True(t, ed.Selection().Equal(before), ed.Selection().String())
	assert.False(t, ed.CanUndo())
	assert.True(t, ed.CanRedo())
}

func TestTypingCoalesces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 11))
	before := ed.Selection()
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, ed.InsertText(s, 0))
	}
	requireMarkup(t, "Hello worldabc", inner(doc, "r"))
	assert.Equal(t, 1, ed.UndoStack().Len())
	tc, ok := ed.LastEditCommand().(*TypingCommand)
	require.True(t, ok)
	assert.True(t, tc.IsOpenForMoreTyping())
	//
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
	assert.True(t, ed.Selection().Equal(before))
	assert.False(t, tc.IsOpenForMoreTyping())
	assert.ErrorIs(t, ed.Undo(), ErrNothingToUndo)
}

func TestClosedTypingStartsNewStep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 11))
	require.NoError(t, ed.InsertText("a", 0))
	ed.CloseTyping()
	require.NoError(t, ed.InsertText("b", 0))
	assert.Equal(t, 2, ed.UndoStack().Len())
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello worlda", inner(doc, "r"))
}

func TestDeleteKeyCoalesces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 11))
	require.NoError(t, ed.DeleteKeyPressed(layout.Character, 0))
	require.NoError(t, ed.DeleteKeyPressed(layout.Character, 0))
	requireMarkup(t, "Hello wor", inner(doc, "r"))
	assert.Equal(t, 1, ed.UndoStack().Len())
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
}

func TestDeleteRefusedByClient(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	asked := 0
	client := ClientFuncs{ShouldDelete: func(VisibleSelection) bool {
		asked++
		return false
	}}
	ed, doc := setupEditor(t, helloHTML, WithClient(client))
	text := doc.ElementByID("r").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 11))
	require.NoError(t, ed.DeleteKeyPressed(layout.Character, 0))
	assert.Equal(t, 1, asked)
	requireMarkup(t, "Hello world", inner(doc, "r"))
	assert.Equal(t, 0, ed.UndoStack().Len())
}

func TestKillRingCollectsWordDeletes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 11))
	require.NoError(t, ed.DeleteKeyPressed(layout.Word, 0))
	assert.Equal(t, 1, ed.KillRing().Len())
	assert.Equal(t, "world", ed.KillRing().Yank())
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
}

func TestNotifications(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	var applied, unapplied, reapplied, typed int
	client := ClientFuncs{
		Applied:   func(EditCommand) { applied++ },
		Unapplied: func(*EditCommandComposition) { unapplied++ },
		Reapplied: func(*EditCommandComposition) { reapplied++ },
		Typed:     func(VisibleSelection) { typed++ },
	}
	ed, doc := setupEditor(t, helloHTML, WithClient(client))
	ed.SetCaret(dom.PositionInNode(doc.ElementByID("r").FirstChild, 5))
	require.NoError(t, ed.InsertText("!", 0))
	require.NoError(t, ed.InsertText("?", 0))
	assert.Equal(t, 2, applied)
	assert.Equal(t, 2, typed)
	require.NoError(t, ed.Undo())
	require.NoError(t, ed.Redo())
	assert.Equal(t, 1, unapplied)
	assert.Equal(t, 1, reapplied)
	requireMarkup(t, "Hello!? world", inner(doc, "r"))
	assert.ErrorIs(t, ed.Redo(), ErrNothingToRedo)
}

func TestNonEditableSelectionIsRefused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="n">Hello world</div></body>`)
	text := doc.ElementByID("n").FirstChild
	ed.Select(dom.PositionInNode(text, 0), dom.PositionInNode(text, 5))
	err := ed.Apply(NewApplyStyleCommand(ed, EditingStyleForProperty("font-style", "italic"), EditActionItalics))
	require.NoError(t, err)
	requireMarkup(t, "Hello world", inner(doc, "n"))
	assert.Equal(t, 0, ed.UndoStack().Len())
	assert.Nil(t, ed.LastEditCommand())
}

func TestCommandIsAppliedOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.Select(dom.PositionInNode(text, 0), dom.PositionInNode(text, 5))
	cmd := NewApplyStyleCommand(ed, EditingStyleForProperty("font-weight", "bold"), EditActionBold)
	require.NoError(t, ed.Apply(cmd))
	var iv *InvariantViolation
	require.True(t, errors.As(ed.Apply(cmd), &iv))
	assert.Equal(t, "apply", iv.Op)
}

func TestStaleUndoStepIsDropped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	host := doc.ElementByID("r")
	ed.SetCaret(dom.PositionInNode(host.FirstChild, 11))
	require.NoError(t, ed.InsertText("!", 0))
	require.Equal(t, 1, ed.UndoStack().Len())
	// the editing host goes away behind the editor's back
	require.NoError(t, doc.RemoveChild(host.Parent, host))
	err := ed.Undo()
	assert.ErrorIs(t, err, ErrCompositionStale)
	assert.Equal(t, 0, ed.UndoStack().Len())
}

func TestReentrantObserver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">Hello world<span id="v">!</span></div></body>`)
	victim := doc.ElementByID("v")
	cancel := doc.Observe(dom.MutationFuncs{
		CharacterData: func(target *html.Node, old string) {
			if victim.Parent != nil {
				require.NoError(t, doc.RemoveChild(victim.Parent, victim))
			}
		},
	})
	defer cancel()
	ed.SetCaret(dom.PositionInNode(doc.ElementByID("r").FirstChild, 5))
	require.NoError(t, ed.InsertText(",", 0))
	requireMarkup(t, "Hello, world", inner(doc, "r"))
	assert.False(t, doc.Contains(victim))
}

func TestRemoveFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">a <b>bold</b> and <i>italic</i> z</div></body>`)
	root := doc.ElementByID("r")
	ed.Select(dom.FirstPositionInNode(root), dom.LastPositionInNode(root))
	require.NoError(t, ed.RemoveFormat())
	markup := inner(doc, "r")
	assert.NotContains(t, markup, "<b>")
	assert.NotContains(t, markup, "<i>")
	assert.Equal(t, "a bold and italic z", dom.TextContent(root))
	require.NoError(t, ed.Undo())
	requireMarkup(t, "a <b>bold</b> and <i>italic</i> z", inner(doc, "r"))
}

func TestTypingStyleAtCaret(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	ed.SetCaret(dom.PositionInNode(doc.ElementByID("r").FirstChild, 11))
	require.NoError(t, ed.ApplyStyle(EditingStyleForProperty("font-style", "italic"), EditActionItalics))
	require.NotNil(t, ed.TypingStyle())
	assert.Equal(t, 0, ed.UndoStack().Len())
	require.NoError(t, ed.InsertText("!", 0))
	requireMarkup(t, "Hello world<i>!</i>", inner(doc, "r"))
	assert.Nil(t, ed.TypingStyle())
}

func TestInsertHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.Select(dom.PositionInNode(text, 6), dom.PositionInNode(text, 11))
	require.NoError(t, ed.InsertHTML("<u>there</u>", 0))
	assert.Equal(t, "Hello there", dom.TextContent(doc.ElementByID("r")))
	assert.Contains(t, inner(doc, "r"), "<u>there</u>")
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", inner(doc, "r"))
}

func TestInsertHTMLRebalancesWhitespaceAtBoundaries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, helloHTML)
	text := doc.ElementByID("r").FirstChild
	ed.Select(dom.PositionInNode(text, 6), dom.PositionInNode(text, 11))
	require.NoError(t, ed.InsertHTML("<i>there</i>", 0))
	assert.NotContains(t, dom.TextContent(doc.ElementByID("r")), "\u00a0")
	assert.Equal(t, "Hello there", dom.TextContent(doc.ElementByID("r")))
}

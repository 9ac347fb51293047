package editing

import (
	"strings"
	"testing"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"pgregory.net/rapid"
)

func TestTypingUndoRedoRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	keys := rapid.SampledFrom([]string{"a", "b", " ", "<del>", "<close>"})
	rapid.Check(t, func(rt *rapid.T) {
		doc, err := dom.ParseString(helloHTML)
		if err != nil {
			rt.Fatalf("parse: %v", err)
		}
		ed := NewEditor(doc)
		defer ed.Close()
		root := doc.ElementByID("r")
		original := dom.InnerMarkup(root)
		ed.SetCaret(dom.LastPositionInNode(root.FirstChild))
		model := []rune("Hello world")
		for _, k := range rapid.SliceOfN(keys, 1, 20).Draw(rt, "keys") {
			switch k {
			case "<del>":
				err = ed.DeleteKeyPressed(layout.Character, 0)
				if len(model) > 0 {
					model = model[:len(model)-1]
				}
			case "<close>":
				ed.CloseTyping()
			default:
				err = ed.InsertText(k, 0)
				model = append(model, []rune(k)...)
			}
			if err != nil {
				rt.Fatalf("key %q: %v", k, err)
			}
		}
		if got := visibleText(root); got != string(model) {
			rt.Fatalf("typed text out of order: expected %q, got %q", model, got)
		}
		edited := dom.InnerMarkup(root)
		for ed.CanUndo() {
			if err := ed.Undo(); err != nil {
				rt.Fatalf("undo: %v", err)
			}
		}
		if got := dom.InnerMarkup(root); got != original {
			rt.Fatalf("undo did not restore %q, got %q", original, got)
		}
		for ed.CanRedo() {
			if err := ed.Redo(); err != nil {
				rt.Fatalf("redo: %v", err)
			}
		}
		if got := dom.InnerMarkup(root); got != edited {
			rt.Fatalf("redo did not restore %q, got %q", edited, got)
		}
	})
}

func TestTypeTextWithNewlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true"><div>ab</div></div></body>`)
	text := dom.FindFirst(doc.ElementByID("r"), dom.IsText)
	ed.SetCaret(dom.LastPositionInNode(text))
	require.NoError(t, ed.InsertText("x\ny", 0))
	requireMarkup(t, "<div>abx</div><div>y</div>", inner(doc, "r"))
	require.NoError(t, ed.Undo())
	requireMarkup(t, "<div>ab</div>", inner(doc, "r"))
}

func TestTypingKindNames(t *testing.T) {
	assert.Equal(t, "insert-text", TypingInsertText.String())
	assert.NotEqual(t, TypingDeleteKey.String(), TypingForwardDeleteKey.String())
}

// visibleText is the text content of n with non-breaking spaces read as spaces.
func visibleText(n *html.Node) string {
	return strings.ReplaceAll(dom.TextContent(n), "\u00a0", " ")
}

func TestTypeKeystrokesAroundWhitespace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	cases := []struct {
		markup string
		caret  int
		keys   []string
		text   string
	}{
		{"Hello world", 11, []string{" ", " ", "x"}, "Hello world \u00a0x"},
		{"ab cd", 3, []string{" ", "x"}, "ab \u00a0xcd"},
		{"ab", 2, []string{" ", "c", " ", "d"}, "ab c d"},
	}
	for _, c := range cases {
		ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">`+c.markup+`</div></body>`)
		text := doc.ElementByID("r").FirstChild
		ed.SetCaret(dom.PositionInNode(text, c.caret))
		for _, k := range c.keys {
			require.NoError(t, ed.InsertText(k, 0))
		}
		assert.Equal(t, c.text, dom.TextContent(doc.ElementByID("r")), c.markup)
		// one keystroke at a time gives the same result as typing all at once
		ed2, doc2 := setupEditor(t, `<body><div id="r" contenteditable="true">`+c.markup+`</div></body>`)
		ed2.SetCaret(dom.PositionInNode(doc2.ElementByID("r").FirstChild, c.caret))
		require.NoError(t, ed2.InsertText(strings.Join(c.keys, ""), 0))
		assert.Equal(t, dom.TextContent(doc2.ElementByID("r")), dom.TextContent(doc.ElementByID("r")), c.markup)
	}
}

func TestFailedKeystrokeIsTakenBack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	fail := false
	client := ClientFuncs{Typed: func(VisibleSelection) {
		if fail {
			panic(&InvariantViolation{Op: "typing", Detail: "rejected by client"})
		}
	}}
	ed, doc := setupEditor(t, helloHTML, WithClient(client))
	root := doc.ElementByID("r")
	ed.SetCaret(dom.PositionInNode(root.FirstChild, 11))
	require.NoError(t, ed.InsertText("a", 0))
	steps := ed.UndoStack().Len()
	//
	fail = true
	err := ed.InsertText("b", 0)
	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "Hello worlda", dom.TextContent(root), "the failed keystroke is reverted")
	//
	fail = false
	require.NoError(t, ed.InsertText("c", 0))
	assert.Equal(t, "Hello worldac", dom.TextContent(root))
	assert.Equal(t, steps, ed.UndoStack().Len(), "typing still coalesces")
	require.NoError(t, ed.Undo())
	requireMarkup(t, "Hello world", dom.InnerMarkup(root))
	require.NoError(t, ed.Redo())
	assert.Equal(t, "Hello worldac", dom.TextContent(root))
}

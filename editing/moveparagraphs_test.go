package editing

import (
	"sort"
	"strings"
	"testing"
	"unicode"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moveParagraphTestCommand moves the paragraph containing one position to
// another position.
type moveParagraphTestCommand struct {
	CompositeEditCommand
	paragraph, destination dom.Position
}

func newMoveParagraphTestCommand(ed *Editor, paragraph, destination dom.Position) *moveParagraphTestCommand {
	cmd := &moveParagraphTestCommand{paragraph: paragraph, destination: destination}
	cmd.init(ed, cmd)
	return cmd
}

func (cmd *moveParagraphTestCommand) doApply() {
	l := cmd.layout()
	vp := l.VisiblePosition(cmd.paragraph)
	cmd.moveParagraphs(l.StartOfParagraph(vp), l.EndOfParagraph(vp), l.VisiblePosition(cmd.destination), true, true)
}

func sortedLetters(s string) string {
	var rs []rune
	for _, r := range s {
		if !unicode.IsSpace(r) {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return string(rs)
}

func TestMoveParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	for name, moved := range map[string]string{
		"plain text":  `two`,
		"nested span": `t<span>w</span>o`,
	} {
		t.Run(name, func(t *testing.T) {
			ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">`+
				`<div id="d"><br></div><div id="a">one</div><div id="b">`+moved+`</div></div></body>`)
			root := doc.ElementByID("r")
			before := dom.InnerMarkup(root)
			letters := sortedLetters(dom.TextContent(root))
			ed.SetCaret(dom.FirstPositionInNode(doc.ElementByID("d")))
			//
			from := dom.FirstPositionInNode(doc.ElementByID("b"))
			to := dom.FirstPositionInNode(doc.ElementByID("d"))
			require.NoError(t, ed.Apply(newMoveParagraphTestCommand(ed, from, to)))
			t.Logf("after move: %s", dom.InnerMarkup(root))
			text := dom.TextContent(root)
			assert.Equal(t, letters, sortedLetters(text))
			assert.Equal(t, 1, strings.Count(text, "two"), "moved text appears once")
			assert.Equal(t, 1, strings.Count(text, "one"))
			assert.Less(t, strings.Index(text, "two"), strings.Index(text, "one"))
			//
			require.NoError(t, ed.Undo())
			requireMarkup(t, before, dom.InnerMarkup(root))
			require.NoError(t, ed.Redo())
			assert.Equal(t, letters, sortedLetters(dom.TextContent(root)))
		})
	}
}

func TestMoveEmptyParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">`+
		`<div id="a">one</div><div id="e"><br></div><div id="b">two</div></div></body>`)
	root := doc.ElementByID("r")
	before := dom.InnerMarkup(root)
	ed.SetCaret(dom.FirstPositionInNode(doc.ElementByID("a")))
	from := dom.FirstPositionInNode(doc.ElementByID("e"))
	to := dom.LastPositionInNode(doc.ElementByID("b").FirstChild)
	require.NoError(t, ed.Apply(newMoveParagraphTestCommand(ed, from, to)))
	// the empty line is taken out; a destination within a non-empty
	// paragraph does not open a new one
	requireMarkup(t, `<div id="a">one</div><div id="b">two</div>`, dom.InnerMarkup(root))
	require.True(t, ed.CanUndo())
	require.NoError(t, ed.Undo())
	requireMarkup(t, before, dom.InnerMarkup(root))
	require.NoError(t, ed.Redo())
	requireMarkup(t, `<div id="a">one</div><div id="b">two</div>`, dom.InnerMarkup(root))
}

func TestMoveParagraphIntoItselfIsRefused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true"><div id="a">one two</div></div></body>`)
	root := doc.ElementByID("r")
	before := dom.InnerMarkup(root)
	text := doc.ElementByID("a").FirstChild
	ed.SetCaret(dom.PositionInNode(text, 1))
	require.NoError(t, ed.Apply(newMoveParagraphTestCommand(ed, dom.PositionInNode(text, 0), dom.PositionInNode(text, 4))))
	requireMarkup(t, before, dom.InnerMarkup(root))
}

// Moving a paragraph out from between two others leaves the neighbours
// around the removed content. Text which ends up between them, when the
// recomputed neighbour positions differ, is not trimmed.
func TestMoveParagraphTrimsBetweenNeighbours(t *testing.T) {
	t.Skip("known gap: content between the recomputed neighbours of a moved paragraph is not trimmed")
	teardown := gotestingadapter.QuickConfig(t, "richedit.editing")
	defer teardown()
	//
	ed, doc := setupEditor(t, `<body><div id="r" contenteditable="true">`+
		`<div id="d"><br></div>one <span id="b">two</span> <div id="c">three</div></div></body>`)
	root := doc.ElementByID("r")
	ed.SetCaret(dom.FirstPositionInNode(doc.ElementByID("d")))
	from := dom.FirstPositionInNode(doc.ElementByID("b"))
	to := dom.FirstPositionInNode(doc.ElementByID("d"))
	require.NoError(t, ed.Apply(newMoveParagraphTestCommand(ed, from, to)))
	requireMarkup(t, `<div id="d">one two</div><div id="c">three</div>`, dom.InnerMarkup(root))
}

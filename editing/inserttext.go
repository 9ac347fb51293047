package editing

import (
	"unicode/utf8"

	"github.com/npillmayer/richedit/dom"
	"golang.org/x/net/html"
)

// InsertTextCommand inserts a run of text without line breaks at the
// ending selection. A range selection is deleted first. The typing style
// of the editor is applied to the inserted text.
type InsertTextCommand struct {
	CompositeEditCommand
	text               string
	selectInsertedText bool
	charactersAdded    int
}

// NewInsertTextCommand creates a command inserting text. With
// selectInsertedText the command ends with the inserted text selected,
// otherwise with a caret after it.
func NewInsertTextCommand(ed *Editor, text string, selectInsertedText bool) *InsertTextCommand {
	cmd := &InsertTextCommand{text: text, selectInsertedText: selectInsertedText}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *InsertTextCommand) EditingAction() EditAction {
	return EditActionTyping
}

// CharactersAdded returns the number of characters the command inserted.
func (cmd *InsertTextCommand) CharactersAdded() int {
	return cmd.charactersAdded
}

func (cmd *InsertTextCommand) doApply() {
	if cmd.ending.IsNone() {
		return
	}
	if cmd.ending.IsRange() {
		cmd.deleteSelection(false, true, true, false)
		if cmd.ending.IsNone() {
			return
		}
	}
	if cmd.text == "" {
		return
	}
	cmd.doc().UpdateLayout()
	l := cmd.layout()
	startPosition := cmd.ending.Start()

	// a placeholder collapses once text is inserted in front of it
	var placeholder *html.Node
	vp := l.VisiblePosition(startPosition)
	if l.IsStartOfParagraph(vp) && l.IsEndOfBlock(vp) {
		placeholder = lineBreakAt(l.Downstream(vp.DeepEquivalent()))
	}

	startPosition = l.Upstream(startPosition)
	var positionBeforeStartNode dom.Position
	if c := startPosition.ContainerNode(); c != nil && c.Parent != nil {
		positionBeforeStartNode = dom.PositionInParentBefore(c)
	}
	var endPosition dom.Position
	release := cmd.ed.tracker.track(&startPosition, &endPosition, &positionBeforeStartNode)
	defer release()
	cmd.deleteInsignificantTextBetween(l.Upstream(startPosition), l.Downstream(startPosition))
	if startPosition.IsOrphan(cmd.doc()) {
		startPosition = positionBeforeStartNode
	}
	if startPosition.IsNull() {
		tracer().Infof("insert text: no insertion point left")
		return
	}

	startPosition = cmd.positionInsideTextNode(startPosition)
	text, offset := startPosition.ContainerNode(), startPosition.OffsetInContainer()
	n := utf8.RuneCountInString(cmd.text)
	cmd.insertTextIntoNode(text, offset, cmd.text)
	startPosition = dom.PositionInNode(text, offset)
	endPosition = dom.PositionInNode(text, offset+n)
	tracer().Debugf("insert text %q at %s", cmd.text, startPosition)
	if placeholder != nil && cmd.doc().Contains(placeholder) {
		cmd.removeNode(placeholder)
	}
	cmd.rebalanceWhitespaceAt(endPosition)
	if !isAllSpaces(cmd.text) {
		cmd.rebalanceWhitespaceAt(startPosition)
	}
	cmd.charactersAdded += n

	cmd.setEndingSelection(rawSelection(startPosition, endPosition))
	if ts := cmd.ed.typingStyle; ts != nil {
		ts = ts.Copy()
		ts.prepareToApplyAt(cmd.ed.styles, endPosition, true)
		if !ts.IsEmpty() {
			cmd.applyStyleToRange(ts, startPosition, endPosition, EditActionUnspecified)
		}
	}
	if cmd.selectInsertedText {
		cmd.setEndingRange(startPosition, endPosition)
	} else {
		cmd.setEndingCaret(endPosition)
	}
}

func isAllSpaces(s string) bool {
	for _, r := range s {
		if r != ' ' {
			return false
		}
	}
	return s != ""
}

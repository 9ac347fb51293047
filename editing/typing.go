package editing

import (
	"strings"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"golang.org/x/net/html"
)

// TypingKind is the keystroke operation a typing command performs.
type TypingKind int8

// Typing operations.
const (
	TypingDeleteSelection TypingKind = iota
	TypingDeleteKey
	TypingForwardDeleteKey
	TypingInsertText
	TypingInsertLineBreak
	TypingInsertParagraphSeparator
	TypingInsertParagraphSeparatorInQuotedContent
)

var typingKindNames = [...]string{
	"delete-selection", "delete-key", "forward-delete-key", "insert-text",
	"insert-line-break", "insert-paragraph-separator",
	"insert-paragraph-separator-in-quoted-content",
}

func (k TypingKind) String() string {
	if int(k) < len(typingKindNames) {
		return typingKindNames[k]
	}
	return "typing(?)"
}

// TypingOptions modify keystroke operations.
type TypingOptions uint8

// Typing options.
const (
	TypingSelectInsertedText TypingOptions = 1 << iota
	TypingKillRing                         // deleted text goes to the kill ring
	TypingSmartDelete                      // delete word-separating spaces, too
	TypingPreventSpellChecking
)

// TypingCommand collects a burst of keystrokes into a single undo step.
// The first keystroke creates the command; as long as the command is the
// last one applied and is open for more typing, further keystrokes are
// added to it instead of creating new commands.
type TypingCommand struct {
	CompositeEditCommand
	kind                   TypingKind
	text                   string
	options                TypingOptions
	granularity            layout.Granularity
	smartDelete            bool
	openForMoreTyping      bool
	preserveStyle          bool
	openedByBackwardDelete bool
}

// NewTypingCommand creates a typing command performing a first keystroke
// operation. text is used for TypingInsertText only, granularity for the
// deletion keys only.
func NewTypingCommand(ed *Editor, kind TypingKind, text string, options TypingOptions, granularity layout.Granularity) *TypingCommand {
	cmd := &TypingCommand{
		kind:              kind,
		text:              text,
		options:           options,
		granularity:       granularity,
		smartDelete:       options&TypingSmartDelete != 0,
		openForMoreTyping: true,
	}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *TypingCommand) EditingAction() EditAction {
	return EditActionTyping
}

// Kind returns the operation the command was created for.
func (cmd *TypingCommand) Kind() TypingKind {
	return cmd.kind
}

// IsOpenForMoreTyping is true as long as keystrokes are added to the
// command.
func (cmd *TypingCommand) IsOpenForMoreTyping() bool {
	return cmd.openForMoreTyping
}

// CloseTyping ends the undo step of the command. The next keystroke will
// start a new one.
func (cmd *TypingCommand) CloseTyping() {
	cmd.openForMoreTyping = false
}

func (cmd *TypingCommand) preservesTypingStyle() bool {
	return cmd.preserveStyle
}

func (cmd *TypingCommand) doApply() {
	if !cmd.ending.IsNonOrphanedCaretOrRange(cmd.doc()) {
		return
	}
	if cmd.kind == TypingDeleteKey {
		cmd.openedByBackwardDelete = true
	}
	tracer().Debugf("typing command opened by %s", cmd.kind)
	cmd.perform(cmd.kind, cmd.text, cmd.options, cmd.granularity)
}

// perform executes one keystroke operation.
func (cmd *TypingCommand) perform(kind TypingKind, text string, options TypingOptions, g layout.Granularity) {
	killRing := options&TypingKillRing != 0
	switch kind {
	case TypingDeleteSelection:
		cmd.deleteTypedSelection(cmd.smartDelete)
	case TypingDeleteKey:
		cmd.deleteKeyPressed(g, killRing)
	case TypingForwardDeleteKey:
		cmd.forwardDeleteKeyPressed(g, killRing)
	case TypingInsertLineBreak:
		cmd.typeLineBreak()
	case TypingInsertParagraphSeparator:
		cmd.typeParagraphSeparator()
	case TypingInsertParagraphSeparatorInQuotedContent:
		cmd.typeParagraphSeparatorInQuotedContent()
	case TypingInsertText:
		cmd.typeText(text, options&TypingSelectInsertedText != 0)
	}
}

// updatePreservesTypingStyle classifies operations: deletions and breaks
// keep the typing style for the characters typed next, inserted text and
// quote breaks do not.
func (cmd *TypingCommand) updatePreservesTypingStyle(kind TypingKind) {
	switch kind {
	case TypingDeleteSelection, TypingDeleteKey, TypingForwardDeleteKey,
		TypingInsertParagraphSeparator, TypingInsertLineBreak:
		cmd.preserveStyle = true
	case TypingInsertParagraphSeparatorInQuotedContent, TypingInsertText:
		cmd.preserveStyle = false
	}
}

// typingAddedToOpenCommand finishes every successful keystroke.
func (cmd *TypingCommand) typingAddedToOpenCommand(kind TypingKind) {
	cmd.updatePreservesTypingStyle(kind)
	if cmd.options&TypingPreventSpellChecking == 0 {
		cmd.ed.client.MarkMisspellingsAfterTyping(cmd.ending)
	}
	cmd.ed.appliedEditing(cmd)
}

// --- Insertion -------------------------------------------------------------

// typeText inserts text, turning newlines into paragraph separators.
func (cmd *TypingCommand) typeText(text string, selectInsertedText bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			cmd.typeParagraphSeparator()
		}
		if line != "" {
			last := i == len(lines)-1
			cmd.typeTextRunWithoutNewlines(line, selectInsertedText && last)
		}
	}
}

func (cmd *TypingCommand) typeTextRunWithoutNewlines(text string, selectInsertedText bool) {
	cmd.applyCommandToComposite(NewInsertTextCommand(cmd.ed, text, selectInsertedText))
	cmd.typingAddedToOpenCommand(TypingInsertText)
}

func (cmd *TypingCommand) typeLineBreak() {
	cmd.applyCommandToComposite(NewInsertLineBreakCommand(cmd.ed))
	cmd.typingAddedToOpenCommand(TypingInsertLineBreak)
}

func (cmd *TypingCommand) typeParagraphSeparator() {
	cmd.applyCommandToComposite(NewInsertParagraphSeparatorCommand(cmd.ed, false))
	cmd.typingAddedToOpenCommand(TypingInsertParagraphSeparator)
}

func (cmd *TypingCommand) typeParagraphSeparatorInQuotedContent() {
	// quotes inside tables are not broken
	if dom.EnclosingNodeOfType(cmd.ending.Start().ContainerNode(), isTableStructure, nil) != nil {
		cmd.typeParagraphSeparator()
		return
	}
	cmd.applyCommandToComposite(NewBreakBlockquoteCommand(cmd.ed))
	cmd.typingAddedToOpenCommand(TypingInsertParagraphSeparatorInQuotedContent)
}

func isTableStructure(n *html.Node) bool {
	return dom.IsElement(n, "table", "tbody", "thead", "tfoot", "tr", "td", "th", "caption", "colgroup", "col")
}

// --- Deletion --------------------------------------------------------------

func (cmd *TypingCommand) deleteTypedSelection(smartDelete bool) {
	cmd.deleteSelection(smartDelete, true, false, true)
	cmd.typingAddedToOpenCommand(TypingDeleteSelection)
}

// extendSelection extends a caret selection backward or forward by a
// granularity. The caret stays the base of the selection.
func (cmd *TypingCommand) extendSelection(sel VisibleSelection, forward bool, g layout.Granularity) VisibleSelection {
	l := cmd.layout()
	var extent layout.VisiblePosition
	if forward {
		extent = l.Next(sel.VisibleEnd(l), g)
	} else {
		extent = l.Previous(sel.VisibleStart(l), g)
	}
	if extent.IsNull() {
		return sel
	}
	return NewVisibleSelection(l, sel.Base(), extent.DeepEquivalent(), Downstream)
}

func (cmd *TypingCommand) deleteKeyPressed(g layout.Granularity, killRing bool) {
	l := cmd.layout()
	var selectionToDelete, selectionAfterUndo VisibleSelection
	switch {
	case cmd.ending.IsRange():
		selectionToDelete = cmd.ending
		selectionAfterUndo = selectionToDelete
	case cmd.ending.IsCaret():
		// after breaking out of an empty quoted paragraph the deletion
		// goes on, so that content is deleted and not just the quote
		if cmd.breakOutOfEmptyMailBlockquotedParagraph() {
			cmd.typingAddedToOpenCommand(TypingDeleteKey)
			l = cmd.layout()
		}
		cmd.smartDelete = false
		selection := cmd.extendSelection(cmd.ending, false, g)
		if killRing && selection.IsCaret() && g != layout.Character {
			selection = cmd.extendSelection(selection, false, layout.Character)
		}
		visibleStart := cmd.ending.VisibleStart(l)
		if l.Previous(visibleStart, layout.Character).IsNull() {
			if cmd.breakOutOfEmptyListItem() {
				cmd.typingAddedToOpenCommand(TypingDeleteKey)
				return
			}
			if l.Next(visibleStart, layout.Character).IsNull() && cmd.makeEditableRootEmpty() {
				cmd.typingAddedToOpenCommand(TypingDeleteKey)
				return
			}
		}
		if isEmptyTableCell(visibleStart.DeepEquivalent().ContainerNode()) {
			return
		}
		if l.IsStartOfParagraph(visibleStart) && firstPositionAfterTable(l, l.Previous(visibleStart, layout.Character)) != nil {
			// the content moves into the last cell, unless it is a table
			// itself
			if lastPositionBeforeTable(l, visibleStart) != nil {
				return
			}
			selection = cmd.extendSelection(selection, false, g)
		} else if table := firstPositionAfterTable(l, visibleStart); table != nil {
			// right after a table the table gets selected, nothing is deleted
			cmd.setEndingSelection(NewVisibleSelection(l, dom.PositionInParentBefore(table), cmd.ending.Start(), Downstream))
			cmd.typingAddedToOpenCommand(TypingDeleteKey)
			return
		}
		selectionToDelete = selection
		if g == layout.Character {
			selectionToDelete = lastCodePointOnly(selectionToDelete)
		}
		if !cmd.starting.IsRange() || !selectionToDelete.Base().Equal(cmd.starting.Start()) {
			selectionAfterUndo = selectionToDelete
		} else {
			selectionAfterUndo = rawSelection(cmd.starting.End(), selectionToDelete.Extent())
		}
	default:
		return
	}
	if selectionToDelete.IsNone() || selectionToDelete.IsCaret() {
		return
	}
	if !cmd.ed.client.ShouldDeleteSelection(selectionToDelete) {
		tracer().Infof("delete key: deletion refused by client")
		return
	}
	if killRing || g != layout.Character {
		cmd.ed.addToKillRing(selectionToDelete, true)
	}
	// undo selects everything deleted, unless it undoes more than this
	// deletion
	if cmd.openedByBackwardDelete {
		cmd.setStartingSelection(selectionAfterUndo)
	}
	cmd.deleteSelectionOf(selectionToDelete, cmd.smartDelete, true, false, true)
	cmd.smartDelete = false
	cmd.typingAddedToOpenCommand(TypingDeleteKey)
}

func (cmd *TypingCommand) forwardDeleteKeyPressed(g layout.Granularity, killRing bool) {
	l := cmd.layout()
	var selectionToDelete, selectionAfterUndo VisibleSelection
	switch {
	case cmd.ending.IsRange():
		selectionToDelete = cmd.ending
		selectionAfterUndo = selectionToDelete
	case cmd.ending.IsCaret():
		cmd.smartDelete = false
		selection := cmd.extendSelection(cmd.ending, true, g)
		if killRing && selection.IsCaret() && g != layout.Character {
			selection = cmd.extendSelection(selection, true, layout.Character)
		}
		downstreamEnd := l.Downstream(cmd.ending.End())
		visibleEnd := cmd.ending.VisibleEnd(l)
		if visibleEnd.Equal(l.EndOfParagraph(visibleEnd)) {
			if next := l.Next(visibleEnd, layout.Character); !next.IsNull() {
				downstreamEnd = l.Downstream(next.DeepEquivalent())
			}
		}
		// tables are selected first, then deleted
		if table := downstreamEnd.ContainerNode(); dom.IsTable(table) &&
			downstreamEnd.OffsetInContainer() <= cmd.caretMinOffset(table) {
			cmd.setEndingSelection(NewVisibleSelection(l, cmd.ending.End(), dom.PositionInParentAfter(table), Downstream))
			cmd.typingAddedToOpenCommand(TypingForwardDeleteKey)
			return
		}
		if table := lastPositionBeforeTable(l, visibleEnd); table != nil && l.IsEndOfParagraph(visibleEnd) {
			cmd.setEndingSelection(NewVisibleSelection(l, cmd.ending.End(), dom.PositionInParentAfter(table), Downstream))
			cmd.typingAddedToOpenCommand(TypingForwardDeleteKey)
			return
		}
		// deleting to the end of a paragraph at its end merges the next one
		if g == layout.Paragraph && selection.IsCaret() && l.IsEndOfParagraph(selection.VisibleEnd(l)) {
			selection = cmd.extendSelection(selection, true, layout.Character)
		}
		selectionToDelete = selection
		if !cmd.starting.IsRange() || !selectionToDelete.Base().Equal(cmd.starting.Start()) {
			selectionAfterUndo = selectionToDelete
		} else {
			// the starting range grows by what is deleted after it
			extent := cmd.starting.End()
			if extent.ContainerNode() != selectionToDelete.End().ContainerNode() {
				extent = selectionToDelete.Extent()
			} else {
				extra := selectionToDelete.End().OffsetInContainer()
				if selectionToDelete.Start().ContainerNode() == selectionToDelete.End().ContainerNode() {
					extra -= selectionToDelete.Start().OffsetInContainer()
				}
				extent = dom.PositionInNode(extent.ContainerNode(), extent.OffsetInContainer()+extra)
			}
			selectionAfterUndo = rawSelection(cmd.starting.Start(), extent)
		}
	default:
		return
	}
	if selectionToDelete.IsNone() || selectionToDelete.IsCaret() {
		return
	}
	if !cmd.ed.client.ShouldDeleteSelection(selectionToDelete) {
		tracer().Infof("forward delete key: deletion refused by client")
		return
	}
	if killRing || g != layout.Character {
		cmd.ed.addToKillRing(selectionToDelete, false)
	}
	cmd.setStartingSelection(selectionAfterUndo)
	cmd.deleteSelectionOf(selectionToDelete, cmd.smartDelete, true, false, true)
	cmd.smartDelete = false
	cmd.typingAddedToOpenCommand(TypingForwardDeleteKey)
}

// makeEditableRootEmpty removes all content of the editing host of the
// caret, leaving a placeholder.
func (cmd *TypingCommand) makeEditableRootEmpty() bool {
	root := cmd.ending.RootEditableElement()
	if root == nil || root.FirstChild == nil {
		return false
	}
	if root.FirstChild == root.LastChild && dom.IsBR(root.FirstChild) && cmd.layout().IsBlock(root) {
		// a single break may be the placeholder
		return false
	}
	for root.FirstChild != nil {
		cmd.removeNode(root.FirstChild)
	}
	cmd.addBlockPlaceholderIfNeeded(root)
	cmd.setEndingCaret(dom.FirstPositionInNode(root))
	return true
}

// lastCodePointOnly shrinks a backward character deletion within one text
// node to the last code point, so that a cluster of combining characters
// is deleted one mark at a time.
func lastCodePointOnly(sel VisibleSelection) VisibleSelection {
	start, end := sel.Start(), sel.End()
	text := end.ContainerNode()
	if !dom.IsText(text) || start.ContainerNode() != text {
		return sel
	}
	if end.OffsetInContainer()-start.OffsetInContainer() <= 1 {
		return sel
	}
	return rawSelection(dom.PositionInNode(text, end.OffsetInContainer()-1), end)
}

func isEmptyTableCell(n *html.Node) bool {
	if n != nil && dom.IsBR(n) {
		n = n.Parent
	}
	if !dom.IsTableCell(n) {
		return false
	}
	return n.FirstChild == nil || (n.FirstChild == n.LastChild && dom.IsBR(n.FirstChild))
}

// firstPositionAfterTable returns the table vp immediately follows.
func firstPositionAfterTable(l *layout.Layout, vp layout.VisiblePosition) *html.Node {
	if vp.IsNull() {
		return nil
	}
	p := l.Upstream(vp.DeepEquivalent())
	if p.AnchorType() == dom.AfterAnchor && dom.IsTable(p.Anchor()) {
		return p.Anchor()
	}
	if n := p.NodeBefore(); dom.IsTable(n) {
		return n
	}
	return nil
}

// lastPositionBeforeTable returns the table vp immediately precedes.
func lastPositionBeforeTable(l *layout.Layout, vp layout.VisiblePosition) *html.Node {
	if vp.IsNull() {
		return nil
	}
	p := l.Downstream(vp.DeepEquivalent())
	if p.AnchorType() == dom.BeforeAnchor && dom.IsTable(p.Anchor()) {
		return p.Anchor()
	}
	if n := p.NodeAfter(); dom.IsTable(n) {
		return n
	}
	return nil
}

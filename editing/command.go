package editing

import (
	"fmt"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"github.com/npillmayer/richedit/tree"
)

// EditAction classifies a top-level command for the host application,
// e.g. to label undo menu entries.
type EditAction int8

// Edit actions.
const (
	EditActionUnspecified EditAction = iota
	EditActionTyping
	EditActionPaste
	EditActionDrag
	EditActionCut
	EditActionDelete
	EditActionInsert
	EditActionSetWritingDirection
	EditActionSetColor
	EditActionSetBackgroundColor
	EditActionSetFont
	EditActionChangeAttributes
	EditActionBold
	EditActionItalics
	EditActionUnderline
	EditActionStrikethrough
	EditActionSubscript
	EditActionSuperscript
	EditActionUnscript
	EditActionAlign
	EditActionRemoveFormat
)

var editActionNames = map[EditAction]string{
	EditActionUnspecified:         "unspecified",
	EditActionTyping:              "typing",
	EditActionPaste:               "paste",
	EditActionDrag:                "drag",
	EditActionCut:                 "cut",
	EditActionDelete:              "delete",
	EditActionInsert:              "insert",
	EditActionSetWritingDirection: "set-writing-direction",
	EditActionSetColor:            "set-color",
	EditActionSetBackgroundColor:  "set-background-color",
	EditActionSetFont:             "set-font",
	EditActionChangeAttributes:    "change-attributes",
	EditActionBold:                "bold",
	EditActionItalics:             "italics",
	EditActionUnderline:           "underline",
	EditActionStrikethrough:       "strikethrough",
	EditActionSubscript:           "subscript",
	EditActionSuperscript:         "superscript",
	EditActionUnscript:            "unscript",
	EditActionAlign:               "align",
	EditActionRemoveFormat:        "remove-format",
}

func (a EditAction) String() string {
	if s, ok := editActionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("edit-action(%d)", int(a))
}

// ParseEditAction looks up an edit action by name, e.g. "bold".
func ParseEditAction(name string) (EditAction, bool) {
	for a, s := range editActionNames {
		if s == name {
			return a, true
		}
	}
	return EditActionUnspecified, false
}

// allowedOutsideRichlyEditableContent is true for actions which may run
// even if the selection is not in richly editable content.
func (a EditAction) allowedOutsideRichlyEditableContent() bool {
	switch a {
	case EditActionTyping, EditActionPaste, EditActionDrag,
		EditActionSetWritingDirection, EditActionCut, EditActionUnspecified:
		return true
	}
	return false
}

// EditCommand is a reversible change of a document. Commands form a
// tree: composite commands build themselves from child commands, which
// are executed as soon as they are added. The leaves of the tree are
// simple commands performing a single DOM mutation.
//
// The set of commands is closed; clients create commands with the
// constructors of this package and execute them with Editor.Apply.
type EditCommand interface {
	EditingAction() EditAction
	StartingSelection() VisibleSelection
	EndingSelection() VisibleSelection
	base() *commandBase
	doApply()
	doUnapply()
	doReapply()
	isSimple() bool
	preservesTypingStyle() bool
}

// commandBase holds the state every command has.
type commandBase struct {
	ed          *Editor
	self        EditCommand
	node        *tree.Node[EditCommand] // position in the command tree
	starting    VisibleSelection
	ending      VisibleSelection
	composition *EditCommandComposition // top-level commands only
}

func (b *commandBase) init(ed *Editor, self EditCommand) {
	b.ed = ed
	b.self = self
	b.node = tree.NewNode(self)
	b.starting = ed.selection
	b.ending = ed.selection
}

func (b *commandBase) base() *commandBase { return b }

// EditingAction returns the action a command performs.
func (b *commandBase) EditingAction() EditAction { return EditActionUnspecified }

// StartingSelection is the selection before the command was applied.
func (b *commandBase) StartingSelection() VisibleSelection { return b.starting }

// EndingSelection is the selection after the command was applied.
func (b *commandBase) EndingSelection() VisibleSelection { return b.ending }

func (b *commandBase) preservesTypingStyle() bool { return false }

func (b *commandBase) doc() *dom.Document { return b.ed.doc }

func (b *commandBase) layout() *layout.Layout { return b.ed.layout }

func (b *commandBase) parent() *commandBase {
	p := b.node.Parent()
	if p == nil {
		return nil
	}
	return p.Payload.base()
}

func (b *commandBase) isTopLevel() bool {
	return b.parent() == nil
}

// setStartingSelection sets the starting selection of a command. As long
// as the command is the first child of its parent, the parent started with
// the same selection.
func (b *commandBase) setStartingSelection(s VisibleSelection) {
	for cmd := b; cmd != nil; {
		if cmd.composition != nil {
			cmd.composition.setStartingSelection(s)
		}
		cmd.starting = s
		p := cmd.parent()
		if p == nil {
			break
		}
		if first, ok := p.node.Child(0); !ok || first != cmd.node {
			break
		}
		cmd = p
	}
}

// setEndingSelection sets the ending selection of a command and all of
// its ancestors.
func (b *commandBase) setEndingSelection(s VisibleSelection) {
	for cmd := b; cmd != nil; cmd = cmd.parent() {
		if cmd.composition != nil {
			cmd.composition.setEndingSelection(s)
		}
		cmd.ending = s
	}
}

// ensureComposition returns the composition of the top-level command,
// creating it on first use.
func (b *commandBase) ensureComposition() *EditCommandComposition {
	top := b
	for p := top.parent(); p != nil; p = top.parent() {
		top = p
	}
	if top.composition == nil {
		top.composition = newComposition(top.doc(), top.starting, top.ending, top.self.EditingAction())
	}
	return top.composition
}

// --- Simple commands -------------------------------------------------------

// SimpleEditCommand is the base of commands performing a single DOM
// mutation. Re-applying a simple command applies it again.
type SimpleEditCommand struct {
	commandBase
}

func (s *SimpleEditCommand) isSimple() bool { return true }

func (s *SimpleEditCommand) doReapply() {
	s.self.doApply()
}

// --- Composite commands ----------------------------------------------------

// CompositeEditCommand is the base of commands built from child commands.
// Children execute in the order they are added and are undone in reverse
// order.
type CompositeEditCommand struct {
	commandBase
}

func (c *CompositeEditCommand) isSimple() bool { return false }

func (c *CompositeEditCommand) children() []EditCommand {
	var cmds []EditCommand
	for _, ch := range c.node.Children() {
		cmds = append(cmds, ch.Payload)
	}
	return cmds
}

func (c *CompositeEditCommand) doUnapply() {
	cmds := c.children()
	for i := len(cmds) - 1; i >= 0; i-- {
		cmds[i].doUnapply()
	}
}

func (c *CompositeEditCommand) doReapply() {
	for _, cmd := range c.children() {
		cmd.doReapply()
	}
}

// applyCommandToComposite adds a child command and executes it at once.
// Simple commands are recorded in the composition of the top-level
// command, which undo and redo replay.
func (c *CompositeEditCommand) applyCommandToComposite(cmd EditCommand) {
	cb := cmd.base()
	c.node.AddChild(cb.node)
	cb.starting = c.ending
	cb.ending = c.ending
	cmd.doApply()
	if cmd.isSimple() {
		cb.node.SetParent(nil)
		c.ensureComposition().append(cmd)
	}
}

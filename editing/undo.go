package editing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/npillmayer/richedit/dom"
	"golang.org/x/net/html"
)

// EditCommandComposition is the undo step of a top-level command. It holds
// the simple commands of the whole command tree in execution order, and
// replays them backwards for undo and forwards for redo.
type EditCommandComposition struct {
	id           uuid.UUID
	doc          *dom.Document
	action       EditAction
	commands     []EditCommand // simple commands only
	starting     VisibleSelection
	ending       VisibleSelection
	startingRoot *html.Node // editing host of the starting selection
	endingRoot   *html.Node // editing host of the ending selection
	registered   bool       // pushed onto an undo stack
}

func newComposition(doc *dom.Document, starting, ending VisibleSelection, action EditAction) *EditCommandComposition {
	c := &EditCommandComposition{
		id:     uuid.New(),
		doc:    doc,
		action: action,
	}
	c.setStartingSelection(starting)
	c.setEndingSelection(ending)
	return c
}

// ID identifies the undo step.
func (c *EditCommandComposition) ID() uuid.UUID { return c.id }

// EditingAction returns the action of the top-level command.
func (c *EditCommandComposition) EditingAction() EditAction { return c.action }

// StartingSelection is the selection restored by undo.
func (c *EditCommandComposition) StartingSelection() VisibleSelection { return c.starting }

// EndingSelection is the selection restored by redo.
func (c *EditCommandComposition) EndingSelection() VisibleSelection { return c.ending }

// Len returns the number of simple commands in the undo step.
func (c *EditCommandComposition) Len() int { return len(c.commands) }

func (c *EditCommandComposition) String() string {
	return fmt.Sprintf("composition(%s, %s, %d steps)", c.id.String()[:8], c.action, len(c.commands))
}

func (c *EditCommandComposition) append(cmd EditCommand) {
	c.commands = append(c.commands, cmd)
}

func (c *EditCommandComposition) setStartingSelection(s VisibleSelection) {
	c.starting = s
	c.startingRoot = s.RootEditableElement()
}

func (c *EditCommandComposition) setEndingSelection(s VisibleSelection) {
	c.ending = s
	c.endingRoot = s.RootEditableElement()
}

// unapply reverts the simple commands in reverse order. It refuses to run
// if the editing host the composition ended in has left the document.
func (c *EditCommandComposition) unapply() error {
	if c.endingRoot != nil && !c.doc.Contains(c.endingRoot) {
		return fmt.Errorf("cannot undo %s: %w", c, ErrCompositionStale)
	}
	c.doc.UpdateLayout()
	for i := len(c.commands) - 1; i >= 0; i-- {
		c.commands[i].doUnapply()
	}
	return nil
}

// rollback reverts and forgets the simple commands recorded after the
// first n.
func (c *EditCommandComposition) rollback(n int) {
	if c == nil || n >= len(c.commands) {
		return
	}
	for i := len(c.commands) - 1; i >= n; i-- {
		c.commands[i].doUnapply()
	}
	c.commands = c.commands[:n]
}

// reapply re-does the simple commands in forward order.
func (c *EditCommandComposition) reapply() error {
	if c.startingRoot != nil && !c.doc.Contains(c.startingRoot) {
		return fmt.Errorf("cannot redo %s: %w", c, ErrCompositionStale)
	}
	c.doc.UpdateLayout()
	for _, cmd := range c.commands {
		cmd.doReapply()
	}
	return nil
}

// --- Undo stack ------------------------------------------------------------

// UndoStack manages the undo steps of an editor. It maintains a list of
// compositions and an index pointing to the current position in the
// history:
//
//   - -1 means we're at the base state (nothing to undo)
//   - 0 to len(steps)-1 points to the last applied step
//
// Pushing a new step after undoing discards the steps which could have
// been redone.
type UndoStack struct {
	steps     []*EditCommandComposition
	undoIndex int
	limit     int // 0 = unlimited
}

// NewUndoStack creates an empty undo stack keeping at most limit steps.
// A limit of 0 keeps all steps.
func NewUndoStack(limit int) *UndoStack {
	return &UndoStack{undoIndex: -1, limit: limit}
}

// push registers an applied step.
func (u *UndoStack) push(c *EditCommandComposition) {
	c.registered = true
	u.steps = append(u.steps[:u.undoIndex+1], c)
	if u.limit > 0 && len(u.steps) > u.limit {
		u.steps = u.steps[len(u.steps)-u.limit:]
	}
	u.undoIndex = len(u.steps) - 1
}

// nextUndo returns the step to undo next.
func (u *UndoStack) nextUndo() (*EditCommandComposition, bool) {
	if u.undoIndex < 0 {
		return nil, false
	}
	return u.steps[u.undoIndex], true
}

// nextRedo returns the step to redo next.
func (u *UndoStack) nextRedo() (*EditCommandComposition, bool) {
	if u.undoIndex >= len(u.steps)-1 {
		return nil, false
	}
	return u.steps[u.undoIndex+1], true
}

func (u *UndoStack) undone() { u.undoIndex-- }

func (u *UndoStack) redone() { u.undoIndex++ }

// drop removes a step which cannot be replayed any more. Steps which
// depend on it cannot be replayed either and are dropped as well.
func (u *UndoStack) drop(c *EditCommandComposition) {
	for i, s := range u.steps {
		if s != c {
			continue
		}
		if i <= u.undoIndex {
			// everything up to and including c is lost for undo
			u.steps = u.steps[i+1:]
			u.undoIndex -= i + 1
		} else {
			// c and all later redo steps are lost
			u.steps = u.steps[:i]
		}
		return
	}
}

// CanUndo returns true if there are steps to undo.
func (u *UndoStack) CanUndo() bool {
	return u.undoIndex >= 0
}

// CanRedo returns true if there are steps to redo.
func (u *UndoStack) CanRedo() bool {
	return u.undoIndex < len(u.steps)-1
}

// Len returns the number of steps in the history.
func (u *UndoStack) Len() int {
	return len(u.steps)
}

// Clear resets the history to the empty state.
func (u *UndoStack) Clear() {
	u.steps = u.steps[:0]
	u.undoIndex = -1
}

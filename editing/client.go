package editing

// Client is the host application of an Editor. It decides about policy
// questions and is notified about edits.
type Client interface {
	// ShouldDeleteSelection is asked before a keystroke deletes content.
	// Returning false cancels the keystroke.
	ShouldDeleteSelection(sel VisibleSelection) bool
	// AppliedEditing is called after a top-level command has been applied,
	// and after typing has been added to an open typing command.
	AppliedEditing(cmd EditCommand)
	// UnappliedEditing is called after an undo step.
	UnappliedEditing(c *EditCommandComposition)
	// ReappliedEditing is called after a redo step.
	ReappliedEditing(c *EditCommandComposition)
	// MarkMisspellingsAfterTyping is called after typing has been added
	// to an open typing command, with the selection after typing.
	MarkMisspellingsAfterTyping(sel VisibleSelection)
}

// ClientFuncs adapts plain functions to interface Client. Nil functions
// are skipped; a nil ShouldDelete allows every deletion.
type ClientFuncs struct {
	ShouldDelete func(sel VisibleSelection) bool
	Applied      func(cmd EditCommand)
	Unapplied    func(c *EditCommandComposition)
	Reapplied    func(c *EditCommandComposition)
	Typed        func(sel VisibleSelection)
}

// ShouldDeleteSelection is part of interface Client.
func (f ClientFuncs) ShouldDeleteSelection(sel VisibleSelection) bool {
	if f.ShouldDelete == nil {
		return true
	}
	return f.ShouldDelete(sel)
}

// AppliedEditing is part of interface Client.
func (f ClientFuncs) AppliedEditing(cmd EditCommand) {
	if f.Applied != nil {
		f.Applied(cmd)
	}
}

// UnappliedEditing is part of interface Client.
func (f ClientFuncs) UnappliedEditing(c *EditCommandComposition) {
	if f.Unapplied != nil {
		f.Unapplied(c)
	}
}

// ReappliedEditing is part of interface Client.
func (f ClientFuncs) ReappliedEditing(c *EditCommandComposition) {
	if f.Reapplied != nil {
		f.Reapplied(c)
	}
}

// MarkMisspellingsAfterTyping is part of interface Client.
func (f ClientFuncs) MarkMisspellingsAfterTyping(sel VisibleSelection) {
	if f.Typed != nil {
		f.Typed(sel)
	}
}

var _ Client = ClientFuncs{}

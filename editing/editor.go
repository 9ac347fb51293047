package editing

import (
	"fmt"

	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/layout"
	"github.com/npillmayer/richedit/dom/style/css"
	"github.com/npillmayer/richedit/dom/style/cssom"
	"golang.org/x/net/html"
)

// Editor is an editing session on a document. It holds everything commands
// need besides the document itself: computed styles, the caret model, the
// selection, the typing style, the undo history and the kill ring.
//
// An Editor is not safe for concurrent use. Commands run synchronously on
// the goroutine calling Apply, Undo, Redo or one of the typing methods.
type Editor struct {
	doc             *dom.Document
	styles          *css.Resolver
	layout          *layout.Layout
	settings        Settings
	selection       VisibleSelection
	typingStyle     *EditingStyle
	tracker         *positionTracker
	client          Client
	undo            *UndoStack
	killRing        *KillRing
	killed          bool // the command being applied added to the kill ring
	lastEditCommand EditCommand
	sheets          []cssom.StyleSheet
	cancelTracking  func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithSettings sets the settings of an editor.
func WithSettings(s Settings) Option {
	return func(ed *Editor) {
		ed.settings = s
	}
}

// WithClient sets the host application notified about edits.
func WithClient(c Client) Option {
	return func(ed *Editor) {
		if c != nil {
			ed.client = c
		}
	}
}

// WithStyleSheets adds author style sheets to the ones found in the
// document.
func WithStyleSheets(sheets ...cssom.StyleSheet) Option {
	return func(ed *Editor) {
		ed.sheets = append(ed.sheets, sheets...)
	}
}

// NewEditor creates an editing session for a document. The selection is
// empty until set by the client.
func NewEditor(doc *dom.Document, opts ...Option) *Editor {
	ed := &Editor{
		doc:      doc,
		settings: DefaultSettings(),
		client:   ClientFuncs{},
	}
	for _, opt := range opts {
		opt(ed)
	}
	if err := ed.settings.Validate(); err != nil {
		tracer().Errorf("invalid settings, using defaults: %v", err)
		ed.settings = DefaultSettings()
	}
	ed.styles = css.NewResolver(doc, ed.sheets...)
	ed.layout = layout.New(doc, ed.styles)
	ed.tracker = newPositionTracker(doc)
	ed.cancelTracking = doc.Observe(ed.tracker)
	ed.undo = NewUndoStack(ed.settings.UndoLevels)
	ed.killRing = NewKillRing(ed.settings.KillRingCapacity)
	return ed
}

// Close detaches the editor from its document.
func (ed *Editor) Close() {
	if ed.cancelTracking != nil {
		ed.cancelTracking()
		ed.cancelTracking = nil
	}
}

// Document returns the document being edited.
func (ed *Editor) Document() *dom.Document { return ed.doc }

// Layout returns the caret model of the document.
func (ed *Editor) Layout() *layout.Layout { return ed.layout }

// Styles returns the computed-style resolver of the document.
func (ed *Editor) Styles() *css.Resolver { return ed.styles }

// Settings returns the settings of the editor.
func (ed *Editor) Settings() Settings { return ed.settings }

// UndoStack returns the undo history.
func (ed *Editor) UndoStack() *UndoStack { return ed.undo }

// KillRing returns the kill ring.
func (ed *Editor) KillRing() *KillRing { return ed.killRing }

// LastEditCommand returns the command applied last, or nil.
func (ed *Editor) LastEditCommand() EditCommand { return ed.lastEditCommand }

// Selection returns the current selection.
func (ed *Editor) Selection() VisibleSelection { return ed.selection }

// SetSelection replaces the current selection. Moving the selection away
// from where typing ended closes the typing command, and the typing style
// and the kill ring sequence are reset.
func (ed *Editor) SetSelection(sel VisibleSelection) {
	if sel.Equal(ed.selection) {
		return
	}
	ed.CloseTyping()
	ed.typingStyle = nil
	ed.killRing.StartNewSequence()
	ed.selection = sel
}

// Select sets a range selection between base and extent.
func (ed *Editor) Select(base, extent dom.Position) {
	ed.doc.UpdateLayout()
	ed.SetSelection(NewVisibleSelection(ed.layout, base, extent, Downstream))
}

// SetCaret sets a caret selection.
func (ed *Editor) SetCaret(p dom.Position) {
	ed.Select(p, p)
}

// TypingStyle returns the style applied to the next typed characters, or
// nil.
func (ed *Editor) TypingStyle() *EditingStyle { return ed.typingStyle }

// SetTypingStyle sets the style applied to the next typed characters.
func (ed *Editor) SetTypingStyle(s *EditingStyle) {
	ed.typingStyle = s
}

// CanUndo is true if there are undo steps.
func (ed *Editor) CanUndo() bool { return ed.undo.CanUndo() }

// CanRedo is true if there are undone steps to redo.
func (ed *Editor) CanRedo() bool { return ed.undo.CanRedo() }

func (ed *Editor) createDefaultParagraphElement() *html.Node {
	return dom.CreateElement(ed.settings.ParagraphElement)
}

// --- Applying commands -----------------------------------------------------

// Apply executes a top-level command with the current selection. Commands
// other than typing, pasting, dragging, cutting and changing the writing
// direction are refused without error if the selection is not within
// richly editable content.
//
// If the command detects a violated invariant, the changes it made so far
// are reverted and an *InvariantViolation is returned.
func (ed *Editor) Apply(cmd EditCommand) (err error) {
	b := cmd.base()
	if b.ed != ed {
		return &InvariantViolation{Op: "apply", Detail: "command was created for another editor"}
	}
	if !b.isTopLevel() || b.composition != nil {
		return &InvariantViolation{Op: "apply", Detail: fmt.Sprintf("%T is not a fresh top-level command", cmd)}
	}
	defer func() {
		if err != nil && b.composition != nil && !b.composition.registered {
			// partial changes of a failed command are taken back
			if uerr := b.composition.unapply(); uerr != nil {
				tracer().Errorf("cannot revert failed command: %v", uerr)
			}
			b.composition = nil
		}
	}()
	defer recoverViolation(&err)

	b.starting, b.ending = ed.selection, ed.selection
	if !ed.selection.IsContentRichlyEditable() && !cmd.EditingAction().allowedOutsideRichlyEditableContent() {
		tracer().Infof("%s refused: selection is not richly editable", cmd.EditingAction())
		return nil
	}
	ed.doc.UpdateLayout()
	ed.killed = false
	cmd.doApply()
	if _, isTyping := cmd.(*TypingCommand); !isTyping {
		// typing commands report each keystroke themselves
		ed.appliedEditing(cmd)
	}
	return nil
}

// appliedEditing is called after a top-level command has been applied,
// and by typing commands after each keystroke.
func (ed *Editor) appliedEditing(cmd EditCommand) {
	b := cmd.base()
	if c := b.composition; c != nil && !c.registered {
		ed.undo.push(c)
	}
	ed.lastEditCommand = cmd
	ed.selection = b.ending
	if !cmd.preservesTypingStyle() {
		ed.typingStyle = nil
	}
	if !ed.killed {
		ed.killRing.StartNewSequence()
	}
	ed.killed = false
	ed.client.AppliedEditing(cmd)
}

// Undo reverts the last applied undo step and restores the selection it
// started with.
func (ed *Editor) Undo() (err error) {
	defer recoverViolation(&err)
	c, ok := ed.undo.nextUndo()
	if !ok {
		return ErrNothingToUndo
	}
	ed.CloseTyping()
	if err := c.unapply(); err != nil {
		ed.undo.drop(c)
		return err
	}
	ed.undo.undone()
	ed.selection = c.StartingSelection()
	ed.typingStyle = nil
	ed.lastEditCommand = nil
	ed.client.UnappliedEditing(c)
	return nil
}

// Redo re-applies the last undone step and restores the selection it ended
// with.
func (ed *Editor) Redo() (err error) {
	defer recoverViolation(&err)
	c, ok := ed.undo.nextRedo()
	if !ok {
		return ErrNothingToRedo
	}
	ed.CloseTyping()
	if err := c.reapply(); err != nil {
		ed.undo.drop(c)
		return err
	}
	ed.undo.redone()
	ed.selection = c.EndingSelection()
	ed.typingStyle = nil
	ed.lastEditCommand = nil
	ed.client.ReappliedEditing(c)
	return nil
}

// --- Typing ----------------------------------------------------------------

// CloseTyping ends the current typing undo step, if any.
func (ed *Editor) CloseTyping() {
	if tc, ok := ed.lastEditCommand.(*TypingCommand); ok {
		tc.CloseTyping()
	}
}

func (ed *Editor) lastTypingCommandIfStillOpen() *TypingCommand {
	tc, ok := ed.lastEditCommand.(*TypingCommand)
	if !ok || !tc.openForMoreTyping {
		return nil
	}
	if !tc.ending.Equal(ed.selection) {
		tc.CloseTyping()
		return nil
	}
	return tc
}

// typing adds a keystroke to the open typing command, or applies a new
// typing command.
func (ed *Editor) typing(kind TypingKind, text string, opts TypingOptions, g layout.Granularity, coalesce bool) (err error) {
	if coalesce {
		if tc := ed.lastTypingCommandIfStillOpen(); tc != nil {
			return ed.continueTyping(tc, kind, text, opts, g)
		}
	}
	return ed.Apply(NewTypingCommand(ed, kind, text, opts, g))
}

// continueTyping adds a keystroke to an open typing command. Like Apply,
// a keystroke which detects a violated invariant takes back its changes;
// the typing command keeps the keystrokes before it.
func (ed *Editor) continueTyping(tc *TypingCommand, kind TypingKind, text string, opts TypingOptions, g layout.Granularity) (err error) {
	var mark int
	var compEnding VisibleSelection
	if tc.composition != nil {
		mark, compEnding = tc.composition.Len(), tc.composition.ending
	}
	children, ending := tc.node.ChildCount(), tc.ending
	defer func() {
		if err == nil {
			return
		}
		tc.composition.rollback(mark)
		if tc.composition != nil && tc.composition.registered {
			tc.composition.setEndingSelection(compEnding)
		}
		tc.node.RemoveChildrenFrom(children)
		tc.ending = ending
	}()
	defer recoverViolation(&err)
	ed.doc.UpdateLayout()
	ed.killed = false
	tc.options = opts
	tc.smartDelete = opts&TypingSmartDelete != 0
	tc.perform(kind, text, opts, g)
	return nil
}

// InsertText types text at the selection, replacing a range selection.
// Newlines start new paragraphs.
func (ed *Editor) InsertText(text string, opts TypingOptions) error {
	return ed.typing(TypingInsertText, text, opts, layout.Character, true)
}

// InsertLineBreak types a line break.
func (ed *Editor) InsertLineBreak() error {
	return ed.typing(TypingInsertLineBreak, "", 0, layout.Character, true)
}

// InsertParagraphSeparator types a paragraph separator (Enter).
func (ed *Editor) InsertParagraphSeparator() error {
	return ed.typing(TypingInsertParagraphSeparator, "", 0, layout.Character, true)
}

// InsertParagraphSeparatorInQuotedContent types a paragraph separator
// which breaks out of a mail quote.
func (ed *Editor) InsertParagraphSeparatorInQuotedContent() error {
	return ed.typing(TypingInsertParagraphSeparatorInQuotedContent, "", 0, layout.Character, true)
}

// DeleteKeyPressed deletes backward by a granularity, or deletes a range
// selection. Only character deletions are added to an open typing command.
func (ed *Editor) DeleteKeyPressed(g layout.Granularity, opts TypingOptions) error {
	if ed.settings.SmartInsertDelete && g == layout.Word {
		opts |= TypingSmartDelete
	}
	return ed.typing(TypingDeleteKey, "", opts, g, g == layout.Character)
}

// ForwardDeleteKeyPressed deletes forward by a granularity, or deletes a
// range selection.
func (ed *Editor) ForwardDeleteKeyPressed(g layout.Granularity, opts TypingOptions) error {
	if ed.settings.SmartInsertDelete && g == layout.Word {
		opts |= TypingSmartDelete
	}
	return ed.typing(TypingForwardDeleteKey, "", opts, g, g == layout.Character)
}

// DeleteSelection deletes a range selection as a typing operation.
func (ed *Editor) DeleteSelection(opts TypingOptions) error {
	if ed.lastTypingCommandIfStillOpen() == nil && !ed.selection.IsRange() {
		return nil
	}
	if ed.settings.SmartInsertDelete {
		opts |= TypingSmartDelete
	}
	return ed.typing(TypingDeleteSelection, "", opts, layout.Character, true)
}

// Yank types the newest kill ring entry.
func (ed *Editor) Yank() error {
	text := ed.killRing.Yank()
	if text == "" {
		return nil
	}
	ed.CloseTyping()
	return ed.InsertText(text, 0)
}

func (ed *Editor) addToKillRing(sel VisibleSelection, prepend bool) {
	text := ed.layout.PlainText(sel.VisibleStart(ed.layout), sel.VisibleEnd(ed.layout))
	if text == "" {
		return
	}
	if prepend {
		ed.killRing.Prepend(text)
	} else {
		ed.killRing.Append(text)
	}
	ed.killed = true
}

// --- Style -----------------------------------------------------------------

// ApplyStyle applies a style to a range selection. For a caret the style
// becomes part of the typing style, except for block properties, which
// are applied to the paragraph at once.
func (ed *Editor) ApplyStyle(s *EditingStyle, action EditAction) error {
	switch {
	case s == nil || s.IsEmpty() || ed.selection.IsNone():
		return nil
	case ed.selection.IsCaret():
		return ed.computeAndSetTypingStyle(s, action)
	}
	return ed.Apply(NewApplyStyleCommand(ed, s, action))
}

// ApplyParagraphStyle applies all properties of a style to the blocks of
// the paragraphs in the selection.
func (ed *Editor) ApplyParagraphStyle(s *EditingStyle, action EditAction) error {
	if s == nil || s.IsEmpty() || ed.selection.IsNone() {
		return nil
	}
	return ed.Apply(NewApplyParagraphStyleCommand(ed, s, action))
}

func (ed *Editor) computeAndSetTypingStyle(s *EditingStyle, action EditAction) error {
	var ts *EditingStyle
	if ed.typingStyle != nil {
		ts = ed.typingStyle.Copy()
		ts.mergeStyle(s.props, true)
	} else {
		ts = s.Copy()
	}
	ed.doc.UpdateLayout()
	ts.prepareToApplyAt(ed.styles, ed.selection.VisibleStart(ed.layout).DeepEquivalent(), true)
	if block := ts.ExtractAndRemoveBlockProperties(); !block.IsEmpty() {
		if err := ed.Apply(NewApplyStyleCommand(ed, block, action)); err != nil {
			return err
		}
	}
	ed.typingStyle = ts
	return nil
}

// RemoveFormat removes text formatting from the selection.
func (ed *Editor) RemoveFormat() error {
	return ed.Apply(NewRemoveFormatCommand(ed))
}

// SelectionHasStyle tells if a style is in effect for all, none or some of
// the selection.
func (ed *Editor) SelectionHasStyle(s *EditingStyle) TriState {
	ed.doc.UpdateLayout()
	return s.TriStateOfSelection(ed, ed.selection)
}

// --- Pasting ---------------------------------------------------------------

// InsertHTML replaces the selection with an HTML fragment.
func (ed *Editor) InsertHTML(markup string, options ReplaceOptions) error {
	if ed.selection.IsNone() {
		return nil
	}
	context := ed.selection.Start().ContainerNode()
	for context != nil && context.Type != html.ElementNode {
		context = context.Parent
	}
	fragment, err := dom.ParseFragment(context, markup)
	if err != nil {
		return fmt.Errorf("editing: insert HTML: %w", err)
	}
	if len(fragment) == 0 {
		return nil
	}
	return ed.Apply(NewReplaceSelectionCommand(ed, fragment, options, EditActionPaste))
}

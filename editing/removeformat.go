package editing

import (
	"github.com/npillmayer/richedit/dom"
	"golang.org/x/net/html"
)

// RemoveFormatCommand removes all text formatting from the selection. The
// content takes the style of the editing host, presentational elements
// are unwrapped.
type RemoveFormatCommand struct {
	CompositeEditCommand
}

// NewRemoveFormatCommand creates a command removing the formatting of the
// current selection.
func NewRemoveFormatCommand(ed *Editor) *RemoveFormatCommand {
	cmd := &RemoveFormatCommand{}
	cmd.init(ed, cmd)
	return cmd
}

// EditingAction is part of interface EditCommand.
func (cmd *RemoveFormatCommand) EditingAction() EditAction {
	return EditActionRemoveFormat
}

var removeFormatTags = []string{
	"acronym", "b", "bdo", "big", "cite", "code", "dfn", "em", "font", "i",
	"ins", "kbd", "nobr", "q", "s", "samp", "small", "strike", "strong",
	"sub", "sup", "tt", "u", "var",
}

func isElementForRemoveFormat(n *html.Node) bool {
	return dom.IsElement(n, removeFormatTags...)
}

func (cmd *RemoveFormatCommand) doApply() {
	if !cmd.ending.IsNonOrphanedCaretOrRange(cmd.doc()) {
		return
	}
	root := cmd.ending.RootEditableElement()
	if root == nil {
		return
	}
	defaultStyle := EditingStyleForNode(cmd.ed.styles, root, InheritableProperties)
	// everything goes except a transparent background
	defaultStyle.props.Set("background-color", "transparent", false)
	tracer().Debugf("remove format with default style %s", defaultStyle)
	cmd.applyCommandToComposite(newRemoveInlineElementsCommand(cmd.ed, defaultStyle, isElementForRemoveFormat, cmd.EditingAction()))
}

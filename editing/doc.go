/*
Package editing implements undoable editing of content-editable regions of
an HTML document.

Every change to a document is expressed as an edit command. Composite
commands (typing, deleting, applying style, inserting paragraphs, pasting)
build themselves out of other commands while they execute: each request for
a sub-step creates a child command and applies it immediately. The leaves of
this tree are simple commands, tiny DOM mutations which know how to revert
themselves. The simple commands of one top-level command are collected in
an EditCommandComposition, which is the unit of undo and redo.

All state of an editing session (the document, its caret model and computed
styles, the current selection, the typing style, the undo stack and the
kill ring) is held by an Editor. Commands receive the Editor on
construction; there are no globals.

The algorithms follow the behaviour of the editing engines of web browsers:
positions are canonicalized with respect to collapsed white space, legacy
markup (<b>, <i>, <font>) is produced for style unless the editor is in
style-with-CSS mode, and white space at paragraph boundaries is turned into
non-breaking spaces where it would otherwise collapse.

Mutation observers registered with the document are notified synchronously
during command execution and may change the document themselves. Commands
therefore check that nodes they hold on to are still part of the document
before they use them again, and quietly skip a step if not.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package editing

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'richedit.editing'.
func tracer() tracing.Trace {
	return tracing.Select("richedit.editing")
}

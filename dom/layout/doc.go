/*
Package layout provides the caret model of a document.

Editing needs to know what a user sees: which characters are rendered,
where collapsed whitespace is, where paragraphs start and end, and which of
many structurally different positions denote the same visual caret
position. A full layout engine is out of scope; instead this package
derives a caret model from the DOM.

A document is broken into paragraphs. Paragraphs are terminated by <br>
elements and by block boundaries. The content of a paragraph is a sequence
of units: grapheme clusters of text (after collapsing white space the way
CSS white-space: normal does) and replaced elements like images. Between
any two units, and at both ends of a paragraph, there is a caret stop.

Every DOM position maps to exactly one caret stop: VisiblePosition is the
canonical representative. Each stop knows its upstream position (right
after the preceding unit) and its downstream position (right before the
following unit).

The model is cached and re-built after the document has changed.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'richedit.layout'.
func tracer() tracing.Trace {
	return tracing.Select("richedit.layout")
}

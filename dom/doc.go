/*
Package dom provides the document model the editing engine operates on.

Status

Early draft, the API may change frequently.

Overview

Nodes of a document are plain *html.Node values from golang.org/x/net/html.
We do not wrap them into a node type of our own. Instead, type Document owns
the root of a parse tree and offers the mutation primitives every edit has
to go through: inserting and removing children, setting attributes and
changing character data. Funnelling all mutations through a Document gives
us a single place to

    - keep a modification counter, which layout and style caches key on,
    - notify mutation observers synchronously after each change.

Mutation observers may themselves change the document. Clients performing
multi-step operations therefore must not assume that a node they looked up
before a mutation is still part of the document afterwards. Use
Document.Contains to re-check.

Positions

Type Position denotes a boundary point in the tree. It consists of an anchor
node, an offset and an anchor type. Offsets into text nodes count Unicode
code points, not bytes; offsets into elements count children.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'richedit.dom'
func tracer() tracing.Trace {
	return tracing.Select("richedit.dom")
}

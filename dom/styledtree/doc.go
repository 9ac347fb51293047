/*
Package styledtree holds computed styles of DOM nodes.

Overview

A StyNode links an HTML node to its computed style properties. StyNodes
form a tree parallel to the DOM: the parent of a StyNode is the StyNode of
the parent element, which makes it possible to cascade inherited properties
which are not stored locally.

StyNodes are created and cached by the style resolver. They are snapshots:
after a mutation of the document they have to be re-computed.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'richedit.style'.
func tracer() tracing.Trace {
	return tracing.Select("richedit.style")
}

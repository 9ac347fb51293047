/*
Package cssom provides the object model for CSS style sheets, as far as
editing needs it.

Editing has to know about the computed style of DOM nodes: whether some
text is bold already, which color it inherits, whether a <span> is
redundant. Computed styles are derived from style sheets, and this package
de-couples the representation of style sheets from the engine computing
styles from them (see package css). Concrete implementations of interfaces
StyleSheet and Rule may be found in sub-packages, e.g. douceuradapter.

Selector matching is done with https://godoc.org/github.com/andybalholm/cascadia,
which operates on the parse trees of golang.org/x/net/html.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'richedit.style'.
func tracer() tracing.Trace {
	return tracing.Select("richedit.style")
}

/*
Package css computes the styles of DOM nodes.

CSS properties are plentyful and some of them are complicated.
This package trys to shield clients from the cumbersome handling of
CSS properties resulting of (1) the textual nature of CSS properties
and (2) the complicated semantics of computing style attributes for a
given node.

A Resolver computes the style of a node from user agent defaults,
presentational hints of legacy markup, style sheet rules and inline style
attributes. Values are normalized the way editing expects them: font sizes
in px, font weights as "bold" or "normal", colors as #rrggbb. Computed
styles are cached until the document changes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

// see
// https://developer.mozilla.org/en-US/docs/Web/CSS/Reference#dom-css_cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'richedit.style'.
func tracer() tracing.Trace {
	return tracing.Select("richedit.style")
}

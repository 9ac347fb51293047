package css

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	cssval "github.com/npillmayer/richedit/css"
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/cssom"
	"github.com/npillmayer/richedit/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/richedit/dom/styledtree"
	"github.com/patrickmn/go-cache"
	"golang.org/x/net/html"
)

// computedProperties are the properties a Resolver computes for every
// element. Other properties are available through the cascade of the
// styled node, but are not normalized.
var computedProperties = append(append([]string(nil), style.EditingProperties...),
	"display",
	"direction",
	"unicode-bidi",
	"vertical-align",
	"overflow",
	"page-break-after",
	"page-break-before",
	"page-break-inside",
)

type compiledRule struct {
	sel   cascadia.Sel
	spec  cascadia.Specificity
	order int
	decls *style.PropertySet
}

// Resolver computes the style of DOM nodes of a document. It is the
// computed-style collaborator of editing.
//
// Computed styles are cached. The cache is flushed whenever the document's
// version changes or the document performs a layout update.
type Resolver struct {
	doc     *dom.Document
	rules   []compiledRule
	cache   *cache.Cache
	version uint64
}

// NewResolver creates a resolver for a document. Style sheets embedded in
// <style> elements of the document are picked up automatically; more may
// be given as arguments.
func NewResolver(doc *dom.Document, sheets ...cssom.StyleSheet) *Resolver {
	r := &Resolver{
		doc:     doc,
		cache:   cache.New(cache.NoExpiration, 0),
		version: doc.Version(),
	}
	for _, s := range douceuradapter.ExtractStyleElements(doc.Root()) {
		r.AddStyleSheet(s)
	}
	for _, s := range sheets {
		r.AddStyleSheet(s)
	}
	doc.OnLayout(func(*dom.Document) {
		r.Invalidate()
	})
	return r
}

// AddStyleSheet adds the rules of a style sheet, in order, after the rules
// already present. Rules with selectors cascadia cannot parse are dropped.
func (r *Resolver) AddStyleSheet(sheet cssom.StyleSheet) {
	if sheet == nil {
		return
	}
	for _, rule := range sheet.Rules() {
		group, err := cascadia.ParseGroup(rule.Selector())
		if err != nil {
			tracer().Infof("style resolver: dropping rule %q: %v", rule.Selector(), err)
			continue
		}
		decls := cssom.Declarations(rule)
		for _, sel := range group {
			if sel.PseudoElement() != "" {
				continue
			}
			r.rules = append(r.rules, compiledRule{
				sel:   sel,
				spec:  sel.Specificity(),
				order: len(r.rules),
				decls: decls,
			})
		}
	}
	r.Invalidate()
}

// Invalidate flushes all cached computed styles.
func (r *Resolver) Invalidate() {
	r.cache.Flush()
	r.version = r.doc.Version()
}

func (r *Resolver) checkVersion() {
	if r.version != r.doc.Version() {
		r.Invalidate()
	}
}

// ComputedStyle returns the styled node holding the computed style of n.
// Text nodes share the style of their parent element. Returns nil for
// nodes outside of any element.
func (r *Resolver) ComputedStyle(n *html.Node) *styledtree.StyNode {
	r.checkVersion()
	for n != nil && n.Type != html.ElementNode {
		n = n.Parent
	}
	if n == nil {
		return nil
	}
	return r.computedStyle(n)
}

func (r *Resolver) computedStyle(n *html.Node) *styledtree.StyNode {
	key := fmt.Sprintf("%p", n)
	if sn, ok := r.cache.Get(key); ok {
		return sn.(*styledtree.StyNode)
	}
	var parent *styledtree.StyNode
	if p := n.Parent; p != nil && p.Type == html.ElementNode {
		parent = r.computedStyle(p)
	}
	sn := styledtree.NewNodeForHTMLNode(n)
	sn.LinkParent(parent)
	r.compute(sn, parent)
	r.cache.Set(key, sn, cache.NoExpiration)
	return sn
}

// ComputedProperty returns the computed value of a property of n.
func (r *Resolver) ComputedProperty(n *html.Node, key string) style.Property {
	sn := r.ComputedStyle(n)
	if sn == nil {
		if v := style.InitialValue(key); !v.IsEmpty() {
			return v
		}
		return style.GetUserAgentDefaultProperty(nil, key)
	}
	return sn.GetPropertyValue(key)
}

// ComputedStyleSet returns the computed values of a list of properties as
// a property set.
func (r *Resolver) ComputedStyleSet(n *html.Node, keys []string) *style.PropertySet {
	ps := style.NewPropertySet()
	for _, k := range keys {
		ps.Set(k, r.ComputedProperty(n, k), false)
	}
	return ps
}

// FontSizePixels returns the computed font size of n in pixels.
func (r *Resolver) FontSizePixels(n *html.Node) float64 {
	px, ok := r.ComputedProperty(n, "font-size").PixelValue()
	if !ok {
		return 16
	}
	return px
}

// --- Computation -----------------------------------------------------------

func (r *Resolver) compute(sn *styledtree.StyNode, parent *styledtree.StyNode) {
	n := sn.HTMLNode()
	values := make(map[string]style.Property, len(computedProperties))
	inherited := func(key string) style.Property {
		if parent != nil {
			return parent.GetPropertyValue(key)
		}
		return style.InitialValue(key)
	}
	for _, key := range computedProperties {
		if style.IsCascading(key) {
			values[key] = inherited(key)
		} else {
			values[key] = style.GetUserAgentDefaultProperty(n, key)
		}
	}
	for _, kv := range style.PresentationalHints(n) {
		values[kv.Key] = kv.Value
	}
	matched := r.matchingRules(n)
	inline := style.NewPropertySet()
	if v, ok := dom.AttributeValue(n, "style"); ok {
		inline = douceuradapter.MustParseInlineStyle(v)
	}
	for _, important := range []bool{false, true} {
		for _, rule := range matched {
			for _, d := range rule.decls.Declarations() {
				if d.Important == important {
					values[d.Key] = d.Value
				}
			}
		}
		for _, d := range inline.Declarations() {
			if d.Important == important {
				values[d.Key] = d.Value
			}
		}
	}
	pm := style.NewPropertyMap()
	for key, v := range values {
		switch {
		case v.IsInherit():
			v = inherited(key)
		case v.IsInitial():
			v = style.GetUserAgentDefaultProperty(n, key)
		}
		pm.Add(key, normalize(key, v, parent))
	}
	decorations := decorationsInEffect(inherited(style.TextDecorationsInEffect),
		pm.GetPropertyValue("text-decoration"))
	pm.Add(style.TextDecorationsInEffect, decorations)
	sn.SetStyles(pm)
}

// matchingRules returns the rules matching n in cascade order, i.e. sorted
// by specificity and then by order of appearance.
func (r *Resolver) matchingRules(n *html.Node) []compiledRule {
	var matched []compiledRule
	for _, rule := range r.rules {
		if rule.sel.Match(n) {
			matched = append(matched, rule)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].spec != matched[j].spec {
			return matched[i].spec.Less(matched[j].spec)
		}
		return matched[i].order < matched[j].order
	})
	return matched
}

func normalize(key string, v style.Property, parent *styledtree.StyNode) style.Property {
	switch key {
	case "font-size":
		return normalizeFontSize(v, parent)
	case "font-weight":
		return NormalizeFontWeight(v)
	case "color", "background-color":
		return style.NormalizeColor(v)
	case "text-decoration":
		return normalizeDecorations(v.Fields())
	case "font-family":
		return v
	}
	return style.Property(strings.ToLower(strings.TrimSpace(v.String())))
}

func normalizeFontSize(v style.Property, parent *styledtree.StyNode) style.Property {
	parentPx := 16.0
	if parent != nil {
		if px, ok := parent.GetPropertyValue("font-size").PixelValue(); ok {
			parentPx = px
		}
	}
	d, err := cssval.ParseDimen(v.String())
	if err != nil {
		tracer().Debugf("font-size %q: %v", v, err)
		return style.Property(cssval.FormatPixels(parentPx))
	}
	du, ok := d.Resolve(cssval.PixelsToDU(parentPx))
	if !ok {
		return style.Property(cssval.FormatPixels(parentPx))
	}
	return style.Property(cssval.FormatPixels(cssval.DUToPixels(du)))
}

// NormalizeFontWeight maps font weights to "bold" (for bold and bolder)
// and "normal" (for normal, lighter and 400). Other numeric weights are
// kept.
func NormalizeFontWeight(v style.Property) style.Property {
	s := strings.ToLower(strings.TrimSpace(v.String()))
	switch s {
	case "bold", "bolder", "700":
		return "bold"
	case "normal", "lighter", "400", "":
		return "normal"
	}
	return style.Property(s)
}

var decorationOrder = []string{"underline", "overline", "line-through", "blink"}

func normalizeDecorations(fields []string) style.Property {
	set := map[string]bool{}
	for _, f := range fields {
		set[f] = true
	}
	var out []string
	for _, d := range decorationOrder {
		if set[d] {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return style.Property(strings.Join(out, " "))
}

func decorationsInEffect(inherited, own style.Property) style.Property {
	return normalizeDecorations(append(inherited.Fields(), own.Fields()...))
}

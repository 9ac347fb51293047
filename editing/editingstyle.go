package editing

import (
	"fmt"
	"strconv"
	"strings"

	cssval "github.com/npillmayer/richedit/css"
	"github.com/npillmayer/richedit/dom"
	"github.com/npillmayer/richedit/dom/style"
	"github.com/npillmayer/richedit/dom/style/css"
	"github.com/npillmayer/richedit/dom/style/cssom/douceuradapter"
	"golang.org/x/net/html"
)

// PropertiesToInclude selects the properties an EditingStyle is created
// with from the computed style of a node.
type PropertiesToInclude int8

// Property selections.
const (
	// InheritableProperties are the properties carried over to inserted
	// text.
	InheritableProperties PropertiesToInclude = iota
	// EditingPropertiesInEffect adds the background color in effect and the
	// text decorations in effect.
	EditingPropertiesInEffect
)

// TriState is the answer to "is a style present in the selection".
type TriState int8

// Tri-state values.
const (
	TriStateFalse TriState = iota
	TriStateTrue
	TriStateMixed
)

func (ts TriState) String() string {
	switch ts {
	case TriStateTrue:
		return "true"
	case TriStateMixed:
		return "mixed"
	}
	return "false"
}

// EditingStyle is a set of CSS declarations editing wants to apply, remove
// or compare. Besides plain properties it may carry a relative font size
// change, requested with the non-standard property -webkit-font-size-delta.
type EditingStyle struct {
	props            *style.PropertySet
	fontSizeDelta    float64
	hasFontSizeDelta bool
}

// NewEditingStyle creates an empty style.
func NewEditingStyle() *EditingStyle {
	return &EditingStyle{props: style.NewPropertySet()}
}

// EditingStyleFromText creates a style from CSS declarations, e.g.
// "font-weight: bold; color: red".
func EditingStyleFromText(text string) (*EditingStyle, error) {
	ps, err := douceuradapter.ParseInlineStyle(text)
	if err != nil {
		return nil, fmt.Errorf("editing style %q: %w", text, err)
	}
	return EditingStyleFromProperties(ps), nil
}

// EditingStyleFromProperties creates a style from a copy of a property set.
func EditingStyleFromProperties(ps *style.PropertySet) *EditingStyle {
	s := &EditingStyle{props: ps.Copy()}
	s.extractFontSizeDelta()
	return s
}

// EditingStyleForProperty creates a style with a single property.
func EditingStyleForProperty(key string, value style.Property) *EditingStyle {
	s := NewEditingStyle()
	s.SetProperty(key, value)
	return s
}

// EditingStyleForNode creates a style from the computed style of a node.
func EditingStyleForNode(r *css.Resolver, n *html.Node, which PropertiesToInclude) *EditingStyle {
	s := NewEditingStyle()
	if n == nil || r == nil {
		return s
	}
	s.props = r.ComputedStyleSet(n, style.InheritableEditingProperties)
	if which == EditingPropertiesInEffect {
		if bg, ok := backgroundColorInEffect(r, n); ok {
			s.props.Set("background-color", bg, false)
		}
		s.props.Set("text-decoration", r.ComputedProperty(n, style.TextDecorationsInEffect), false)
	}
	return s
}

// EditingStyleAtPosition creates a style from the computed style at a
// position, i.e. of its container node.
func EditingStyleAtPosition(r *css.Resolver, p dom.Position, which PropertiesToInclude) *EditingStyle {
	if p.IsNull() {
		return NewEditingStyle()
	}
	return EditingStyleForNode(r, p.ContainerNode(), which)
}

// StyleAtSelectionStart returns the style text typed at the start of a
// selection would get, including the typing style of the editor.
func StyleAtSelectionStart(ed *Editor, sel VisibleSelection, useBackgroundColorInEffect bool) *EditingStyle {
	if sel.IsNone() {
		return NewEditingStyle()
	}
	pos := sel.Start()
	if sel.IsRange() {
		// the end of a text node is not part of a range starting there
		pos = ed.layout.Downstream(pos)
	}
	s := EditingStyleAtPosition(ed.styles, pos, EditingPropertiesInEffect)
	s.MergeTypingStyle(ed)
	if useBackgroundColorInEffect && (sel.IsRange() || hasTransparentBackgroundColor(s.props)) {
		ca := dom.CommonAncestor(sel.Start().ContainerNode(), sel.End().ContainerNode())
		if bg, ok := backgroundColorInEffect(ed.styles, ca); ok {
			s.props.Set("background-color", bg, false)
		}
	}
	return s
}

func (s *EditingStyle) extractFontSizeDelta() {
	if s.props.Has("font-size") {
		// an explicit font size overrides a relative change
		s.props.Remove(style.FontSizeDelta)
		return
	}
	v, ok := s.props.Get(style.FontSizeDelta)
	if !ok {
		return
	}
	s.props.Remove(style.FontSizeDelta)
	if px, ok := v.PixelValue(); ok {
		s.fontSizeDelta, s.hasFontSizeDelta = px, true
	} else if f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64); err == nil {
		s.fontSizeDelta, s.hasFontSizeDelta = f, true
	}
}

// IsEmpty is true if the style neither sets properties nor changes the
// font size.
func (s *EditingStyle) IsEmpty() bool {
	return s == nil || s.props.IsEmpty() && s.fontSizeDelta == 0
}

// Copy returns an independent copy.
func (s *EditingStyle) Copy() *EditingStyle {
	if s == nil {
		return NewEditingStyle()
	}
	return &EditingStyle{
		props:            s.props.Copy(),
		fontSizeDelta:    s.fontSizeDelta,
		hasFontSizeDelta: s.hasFontSizeDelta,
	}
}

// Properties returns a copy of the declarations of the style.
func (s *EditingStyle) Properties() *style.PropertySet {
	return s.props.Copy()
}

// Value returns the value of a property, or NullStyle.
func (s *EditingStyle) Value(key string) style.Property {
	return s.props.Value(key)
}

// FontSizeDelta returns the relative font size change in px.
func (s *EditingStyle) FontSizeDelta() (float64, bool) {
	return s.fontSizeDelta, s.hasFontSizeDelta
}

// SetProperty sets a property. Setting the font size delta property
// records a relative font size change instead.
func (s *EditingStyle) SetProperty(key string, value style.Property) {
	s.props.Set(key, value, false)
	if key == style.FontSizeDelta || key == "font-size" {
		s.extractFontSizeDelta()
	}
}

// Text serializes the declarations of the style.
func (s *EditingStyle) Text() string {
	return s.props.Text()
}

func (s *EditingStyle) String() string {
	if s.hasFontSizeDelta {
		return fmt.Sprintf("%s{delta %gpx}", s.props, s.fontSizeDelta)
	}
	return s.props.String()
}

// TextDirection returns the writing direction the style embeds, if any.
func (s *EditingStyle) TextDirection() (string, bool) {
	if s == nil || lower(s.props.Value("unicode-bidi").String()) != "embed" {
		return "", false
	}
	switch d := lower(s.props.Value("direction").String()); d {
	case "ltr", "rtl":
		return d, true
	}
	return "", false
}

// ExtractAndRemoveBlockProperties moves the block properties of the style
// into a new style.
func (s *EditingStyle) ExtractAndRemoveBlockProperties() *EditingStyle {
	block := &EditingStyle{props: s.props.CopyProperties(style.BlockProperties)}
	s.props.RemoveAll(style.BlockProperties)
	return block
}

// ExtractAndRemoveTextDirection moves the direction properties of the
// style into a new style.
func (s *EditingStyle) ExtractAndRemoveTextDirection() *EditingStyle {
	dir := &EditingStyle{props: s.props.CopyProperties(style.DirectionProperties)}
	s.props.RemoveAll(style.DirectionProperties)
	return dir
}

// RemoveBlockProperties removes all block properties.
func (s *EditingStyle) RemoveBlockProperties() {
	s.props.RemoveAll(style.BlockProperties)
}

// RemoveStyleAddedByNode removes the properties which n sets on top of
// the style of its parent.
func (s *EditingStyle) RemoveStyleAddedByNode(r *css.Resolver, n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	parentStyle := EditingStyleForNode(r, n.Parent, EditingPropertiesInEffect)
	nodeStyle := EditingStyleForNode(r, n, EditingPropertiesInEffect)
	removeEquivalentProperties(nodeStyle.props, parentStyle.props)
	removeEquivalentProperties(s.props, nodeStyle.props)
}

// RemoveStyleConflictingWithStyleOfNode removes all properties which n
// sets differently from its parent.
func (s *EditingStyle) RemoveStyleConflictingWithStyleOfNode(r *css.Resolver, n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	parentStyle := EditingStyleForNode(r, n.Parent, EditingPropertiesInEffect)
	nodeStyle := EditingStyleForNode(r, n, EditingPropertiesInEffect)
	removeEquivalentProperties(nodeStyle.props, parentStyle.props)
	s.props.RemoveAll(nodeStyle.props.Keys())
}

// CollapseTextDecorationProperties replaces the text decorations in effect
// by a text-decoration property.
func (s *EditingStyle) CollapseTextDecorationProperties() {
	v, ok := s.props.Get(style.TextDecorationsInEffect)
	if !ok {
		return
	}
	if len(v.Fields()) > 0 {
		s.props.Set("text-decoration", v, s.props.IsImportant(style.TextDecorationsInEffect))
	} else {
		s.props.Remove("text-decoration")
	}
	s.props.Remove(style.TextDecorationsInEffect)
}

// TriStateOfStyle compares the style with another one: true if other has
// all of its properties, false if it has none, mixed otherwise.
func (s *EditingStyle) TriStateOfStyle(other *EditingStyle) TriState {
	return s.triStateOf(other.props, false)
}

func (s *EditingStyle) triStateOf(base *style.PropertySet, ignoreTextOnlyProperties bool) TriState {
	difference := getPropertiesNotIn(s.props, base)
	if ignoreTextOnlyProperties {
		difference.RemoveAll(style.TextOnlyProperties)
	}
	switch {
	case difference.IsEmpty():
		return TriStateTrue
	case difference.Len() == s.props.Len():
		return TriStateFalse
	}
	return TriStateMixed
}

// TriStateOfSelection tells if the style is present in all, none or some
// of the rendered content of a selection.
func (s *EditingStyle) TriStateOfSelection(ed *Editor, sel VisibleSelection) TriState {
	if sel.IsNone() {
		return TriStateFalse
	}
	if sel.IsCaret() {
		return s.TriStateOfStyle(StyleAtSelectionStart(ed, sel, false))
	}
	state, first := TriStateFalse, true
	startNode, endNode := sel.Start().DeepestNode(), sel.End().DeepestNode()
	for n := startNode; n != nil; n = dom.NextNode(n, nil) {
		if ed.layout.IsRendered(n) && dom.IsContentEditable(n) {
			nodeState := s.triStateOf(computedStyleForComparison(ed.styles, n), !dom.IsText(n))
			if first {
				state, first = nodeState, false
			} else if state != nodeState && dom.IsText(n) {
				return TriStateMixed
			}
		}
		if n == endNode {
			break
		}
	}
	return state
}

// computedStyleForComparison returns the computed properties style
// comparisons look at.
func computedStyleForComparison(r *css.Resolver, n *html.Node) *style.PropertySet {
	return r.ComputedStyleSet(n, comparedProperties)
}

var comparedProperties = append(append([]string(nil), style.EditingProperties...),
	"direction", "unicode-bidi", "vertical-align")

// ConflictsWithInlineStyleOfElement is true if the inline style of elem
// sets properties of this style. The conflicting properties are collected
// into conflicting, and their values into extracted, if given.
func (s *EditingStyle) ConflictsWithInlineStyleOfElement(elem *html.Node, extracted *EditingStyle, conflicting *[]string) bool {
	if elem == nil || elem.Type != html.ElementNode || !dom.HasAttribute(elem, "style") {
		return false
	}
	inline := inlineStyle(elem)
	found := false
	record := func(key string) {
		found = true
		if conflicting != nil {
			*conflicting = append(*conflicting, key)
		}
		if extracted != nil {
			if v, ok := inline.Get(key); ok {
				extracted.props.Set(key, v, inline.IsImportant(key))
			}
		}
	}
	for _, key := range s.props.Keys() {
		if key == style.TextDecorationsInEffect && inline.Has("text-decoration") {
			record("text-decoration")
			if conflicting == nil {
				return true
			}
			continue
		}
		if !inline.Has(key) {
			continue
		}
		if key == "unicode-bidi" && inline.Has("direction") {
			record("direction")
		}
		record(key)
		if conflicting == nil {
			return true
		}
	}
	return found
}

// ConflictsWithImplicitStyleOfElement is true if elem is a presentational
// element (like <b>) implying a property of this style. Unless
// extractMatching is set, an element implying exactly the requested value
// does not conflict. The implied style is added to extracted, if given.
func (s *EditingStyle) ConflictsWithImplicitStyleOfElement(elem *html.Node, extracted *EditingStyle, extractMatching bool) bool {
	for _, eq := range elementEquivalents {
		if eq.matches(elem) && eq.propertyExistsInStyle(s.props) &&
			(extractMatching || !eq.valueIsPresentInStyle(elem, s.props)) {
			if extracted != nil {
				eq.addToStyle(elem, extracted.props)
			}
			return true
		}
	}
	return false
}

// ConflictsWithImplicitStyleOfAttributes is true if elem carries a
// presentational attribute (like <font color>) implying a different value
// of a property of this style.
func (s *EditingStyle) ConflictsWithImplicitStyleOfAttributes(elem *html.Node) bool {
	for _, eq := range attributeEquivalents {
		if eq.matches(elem) && eq.propertyExistsInStyle(s.props) && !eq.valueIsPresentInStyle(elem, s.props) {
			return true
		}
	}
	return false
}

// ExtractConflictingImplicitStyleOfAttributes collects the presentational
// attributes of elem which imply properties of this style. The names of
// the attributes are appended to attributes, their style to extracted.
func (s *EditingStyle) ExtractConflictingImplicitStyleOfAttributes(elem *html.Node, preserveWritingDirection bool,
	extracted *EditingStyle, attributes *[]string, extractMatching bool) bool {
	removed := false
	for _, eq := range attributeEquivalents {
		if preserveWritingDirection && eq.attribute == "dir" {
			continue // pushed down separately
		}
		if !eq.matches(elem) || !eq.propertyExistsInStyle(s.props) ||
			(!extractMatching && eq.valueIsPresentInStyle(elem, s.props)) {
			continue
		}
		if extracted != nil {
			eq.addToStyle(elem, extracted.props)
		}
		if !containsString(*attributes, eq.attribute) {
			*attributes = append(*attributes, eq.attribute)
		}
		removed = true
	}
	return removed
}

// StyleIsPresentInComputedStyleOfNode is true if n renders with all the
// properties of this style.
func (s *EditingStyle) StyleIsPresentInComputedStyleOfNode(r *css.Resolver, n *html.Node) bool {
	return s.IsEmpty() || getPropertiesNotIn(s.props, computedStyleForComparison(r, n)).IsEmpty()
}

// ElementIsStyledSpanOrHTMLEquivalent is true for elements which exist
// for the sake of style only: spans, presentational elements and <font>,
// with no attributes other than presentational ones, the style span class,
// and a style attribute setting editing properties only.
func ElementIsStyledSpanOrHTMLEquivalent(elem *html.Node) bool {
	if elem == nil || elem.Type != html.ElementNode {
		return false
	}
	isSpanOrEquivalent := dom.IsElement(elem, "span")
	for _, eq := range elementEquivalents {
		if eq.matches(elem) {
			isSpanOrEquivalent = true
			break
		}
	}
	if len(elem.Attr) == 0 {
		return isSpanOrEquivalent
	}
	matched := 0
	for _, eq := range attributeEquivalents {
		if eq.matches(elem) && eq.attribute != "dir" {
			matched++
		}
	}
	if !isSpanOrEquivalent && matched == 0 {
		return false
	}
	if v, _ := dom.AttributeValue(elem, "class"); v == styleSpanClass {
		matched++
	}
	if dom.HasAttribute(elem, "style") {
		for _, key := range inlineStyle(elem).Keys() {
			if !style.IsEditingProperty(key) {
				return false
			}
		}
		matched++
	}
	return matched >= len(elem.Attr)
}

// PrepareToApplyAt removes the properties which are already in effect at
// pos, leaving what has to be applied there to get this style.
func (s *EditingStyle) PrepareToApplyAt(r *css.Resolver, pos dom.Position) {
	s.prepareToApplyAt(r, pos, false)
}

func (s *EditingStyle) prepareToApplyAt(r *css.Resolver, pos dom.Position, preserveWritingDirection bool) {
	if s.props.IsEmpty() {
		return
	}
	atPosition := EditingStyleAtPosition(r, pos, EditingPropertiesInEffect).props
	var unicodeBidi, direction style.Property
	if preserveWritingDirection {
		unicodeBidi, direction = s.props.Value("unicode-bidi"), s.props.Value("direction")
	}
	removeEquivalentProperties(s.props, atPosition)
	if textAlignResolvingStartAndEnd(s.props) == textAlignResolvingStartAndEnd(atPosition) {
		s.props.Remove("text-align")
	}
	if colorOf(s.props, "color") == colorOf(atPosition, "color") {
		s.props.Remove("color")
	}
	if hasTransparentBackgroundColor(s.props) ||
		s.props.Has("background-color") && colorOf(s.props, "background-color") == backgroundColorInEffectAt(r, pos) {
		s.props.Remove("background-color")
	}
	if !unicodeBidi.IsEmpty() {
		s.props.Set("unicode-bidi", unicodeBidi, false)
		if !direction.IsEmpty() {
			s.props.Set("direction", direction, false)
		}
	}
}

// MergeTypingStyle merges the typing style of the editor into this style,
// overriding existing values.
func (s *EditingStyle) MergeTypingStyle(ed *Editor) {
	if ed.typingStyle == nil || ed.typingStyle == s {
		return
	}
	s.mergeStyle(ed.typingStyle.props, true)
}

// MergeInlineStyleOfElement merges the inline style of elem into this
// style.
func (s *EditingStyle) MergeInlineStyleOfElement(elem *html.Node, override bool) {
	if elem == nil || !dom.HasAttribute(elem, "style") {
		return
	}
	s.mergeStyle(inlineStyle(elem), override)
}

// mergeStyle merges declarations. Text decoration lists are united instead
// of being replaced.
func (s *EditingStyle) mergeStyle(ps *style.PropertySet, override bool) {
	for _, d := range ps.Declarations() {
		existing, has := s.props.Get(d.Key)
		if isTextDecorationProperty(d.Key) && has && len(existing.Fields()) > 0 && len(d.Value.Fields()) > 0 {
			merged := unionFields(existing.Fields(), d.Value.Fields())
			s.props.Set(d.Key, style.Property(strings.Join(merged, " ")), d.Important)
			continue
		}
		if override || !has {
			s.props.SetDeclaration(d)
		}
	}
	if override || !s.props.Has("font-size") {
		s.extractFontSizeDelta()
	}
}

// LegacyFontSize returns the <font size> equivalent of the font size of
// the style, or 0 if there is none matching exactly.
func (s *EditingStyle) LegacyFontSize() int {
	v, ok := s.props.Get("font-size")
	if !ok {
		return 0
	}
	return legacyFontSizeFromCSSValue(v)
}

func legacyFontSizeFromCSSValue(v style.Property) int {
	d, err := cssval.ParseDimen(v.String())
	if err != nil || !d.IsAbsolute() {
		return 0
	}
	du, _ := d.Resolve(0)
	n, _ := cssval.LegacyFontSizeForPixels(cssval.DUToPixels(du))
	return n
}

// --- Property value comparison ---------------------------------------------

// getPropertiesNotIn returns the declarations of ps which base does not
// have in effect.
func getPropertiesNotIn(ps, base *style.PropertySet) *style.PropertySet {
	result := ps.Copy()
	removeEquivalentProperties(result, base)
	inEffect, _ := base.Get(style.TextDecorationsInEffect)
	diffTextDecorations(result, "text-decoration", inEffect)
	diffTextDecorations(result, style.TextDecorationsInEffect, inEffect)
	if baseWeight, ok := base.Get("font-weight"); ok {
		if w, ok := result.Get("font-weight"); ok && !fontWeightNeedsResolving(w) &&
			fontWeightIsBold(w) == fontWeightIsBold(baseWeight) {
			result.Remove("font-weight")
		}
	}
	if base.Has("color") && colorOf(result, "color") == colorOf(base, "color") {
		result.Remove("color")
	}
	if base.Has("text-align") && textAlignResolvingStartAndEnd(result) == textAlignResolvingStartAndEnd(base) {
		result.Remove("text-align")
	}
	if base.Has("background-color") && colorOf(result, "background-color") == colorOf(base, "background-color") {
		result.Remove("background-color")
	}
	return result
}

// removeEquivalentProperties removes the declarations of ps which other
// has with an equal value.
func removeEquivalentProperties(ps, other *style.PropertySet) {
	for _, key := range ps.Keys() {
		ov, ok := other.Get(key)
		if ok && normalizedValue(key, ps.Value(key)) == normalizedValue(key, ov) {
			ps.Remove(key)
		}
	}
}

// diffTextDecorations removes the decorations of ref from a decoration
// list property of ps.
func diffTextDecorations(ps *style.PropertySet, key string, ref style.Property) {
	v, ok := ps.Get(key)
	if !ok || len(v.Fields()) == 0 || len(ref.Fields()) == 0 {
		return
	}
	var kept []string
	for _, f := range v.Fields() {
		if !containsField(ref, f) {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		ps.Remove(key)
		return
	}
	ps.Set(key, style.Property(strings.Join(kept, " ")), ps.IsImportant(key))
}

func fontWeightNeedsResolving(v style.Property) bool {
	switch lower(v.String()) {
	case "bolder", "lighter":
		return true
	}
	return false
}

// fontWeightIsBold is true for bold and for numeric weights of 600 and
// above.
func fontWeightIsBold(v style.Property) bool {
	s := lower(v.String())
	if s == "bold" || s == "bolder" {
		return true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 600
	}
	return false
}

// colorOf returns a normalized color property, transparent if absent.
func colorOf(ps *style.PropertySet, key string) string {
	v, ok := ps.Get(key)
	if !ok {
		return "transparent"
	}
	return style.NormalizeColor(v).String()
}

func textAlignResolvingStartAndEnd(ps *style.PropertySet) string {
	switch v := lower(ps.Value("text-align").String()); v {
	case "start", "-webkit-auto":
		return "left"
	case "end":
		return "right"
	default:
		return v
	}
}

func hasTransparentBackgroundColor(ps *style.PropertySet) bool {
	v, ok := ps.Get("background-color")
	return ok && style.IsTransparent(v)
}

// backgroundColorInEffect returns the background color of the nearest
// ancestor-or-self of n painting a background.
func backgroundColorInEffect(r *css.Resolver, n *html.Node) (style.Property, bool) {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if bg := r.ComputedProperty(n, "background-color"); !style.IsTransparent(bg) {
			return style.NormalizeColor(bg), true
		}
	}
	return style.NullStyle, false
}

func backgroundColorInEffectAt(r *css.Resolver, pos dom.Position) string {
	if bg, ok := backgroundColorInEffect(r, pos.ContainerNode()); ok {
		return bg.String()
	}
	return "transparent"
}

// normalizedValue returns a canonical form of a property value for
// comparisons.
func normalizedValue(key string, v style.Property) string {
	switch key {
	case "color", "background-color":
		return style.NormalizeColor(v).String()
	case "font-weight":
		return css.NormalizeFontWeight(v).String()
	case "text-decoration", style.TextDecorationsInEffect:
		return canonicalDecorations(v.Fields())
	case "font-size":
		if d, err := cssval.ParseDimen(v.String()); err == nil && d.IsAbsolute() {
			return d.String()
		}
	case "font-family":
		families := strings.Split(v.String(), ",")
		for i, f := range families {
			families[i] = strings.Trim(lower(f), `"'`)
		}
		return strings.Join(families, ",")
	}
	return lower(v.String())
}

var decorationOrder = []string{"underline", "overline", "line-through", "blink"}

func canonicalDecorations(fields []string) string {
	var out []string
	for _, d := range decorationOrder {
		if containsString(fields, d) {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, " ")
}

func isTextDecorationProperty(key string) bool {
	return key == "text-decoration" || key == style.TextDecorationsInEffect
}

func containsField(v style.Property, item string) bool {
	return containsString(v.Fields(), item)
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func unionFields(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, f := range b {
		if !containsString(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

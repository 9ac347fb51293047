package cssom

import "github.com/npillmayer/richedit/dom/style"

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple implementations of CSS-stylesheets from the
// computation of styles, we introduce an interface
// for CSS stylesheets. Clients for the styling engine will have to
// provide a concrete implementation of this interface (e.g., see
// package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	AppendRules(StyleSheet) // append rules from another stylesheet
	Empty() bool            // does this stylesheet contain any rules?
	Rules() []Rule          // all the rules of a stylesheet
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Selector() string            // the prelude / selectors of the rule
	Properties() []string        // property keys, e.g. "margin-top"
	Value(string) style.Property // property value for key, e.g. "15px"
	IsImportant(string) bool     // is property key marked as important?
}

// Declarations collects the declarations of a rule into a property set,
// splitting up compound properties.
func Declarations(r Rule) *style.PropertySet {
	ps := style.NewPropertySet()
	for _, key := range r.Properties() {
		v, imp := r.Value(key), r.IsImportant(key)
		if style.IsCompoundProperty(key) {
			kvs, err := style.SplitCompoundProperty(key, v)
			if err != nil {
				tracer().Infof("cssom: dropping %s: %v", key, err)
				continue
			}
			for _, kv := range kvs {
				ps.Set(kv.Key, kv.Value, imp)
			}
			continue
		}
		ps.Set(key, v, imp)
	}
	return ps
}

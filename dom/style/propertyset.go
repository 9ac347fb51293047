package style

import (
	"strings"
)

// Declaration is a single property declaration, as found in a style
// attribute or a style rule.
type Declaration struct {
	Key       string
	Value     Property
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Key + ": " + d.Value.String() + " !important;"
	}
	return d.Key + ": " + d.Value.String() + ";"
}

// PropertySet is an ordered set of declarations, keyed by property name.
// Setting a property which is already present keeps its position.
// The zero value is an empty set, ready to use.
type PropertySet struct {
	decls []Declaration
}

// NewPropertySet creates a property set from a list of declarations. Later
// declarations for the same property win.
func NewPropertySet(decls ...Declaration) *PropertySet {
	ps := &PropertySet{}
	for _, d := range decls {
		ps.SetDeclaration(d)
	}
	return ps
}

// Len returns the number of properties in the set.
func (ps *PropertySet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.decls)
}

// IsEmpty is true for an empty (or nil) set.
func (ps *PropertySet) IsEmpty() bool {
	return ps.Len() == 0
}

func (ps *PropertySet) index(key string) int {
	if ps == nil {
		return -1
	}
	for i, d := range ps.decls {
		if d.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value of a property.
func (ps *PropertySet) Get(key string) (Property, bool) {
	if i := ps.index(key); i >= 0 {
		return ps.decls[i].Value, true
	}
	return NullStyle, false
}

// Value returns the value of a property or NullStyle.
func (ps *PropertySet) Value(key string) Property {
	v, _ := ps.Get(key)
	return v
}

// Has is true if the set contains a declaration for key.
func (ps *PropertySet) Has(key string) bool {
	return ps.index(key) >= 0
}

// IsImportant is true if the declaration for key carries !important.
func (ps *PropertySet) IsImportant(key string) bool {
	if i := ps.index(key); i >= 0 {
		return ps.decls[i].Important
	}
	return false
}

// Set sets a property. Values are trimmed; an empty value removes the
// property.
func (ps *PropertySet) Set(key string, value Property, important bool) {
	ps.SetDeclaration(Declaration{Key: key, Value: value, Important: important})
}

// SetDeclaration sets a property from a declaration.
func (ps *PropertySet) SetDeclaration(d Declaration) {
	d.Key = strings.ToLower(strings.TrimSpace(d.Key))
	d.Value = Property(strings.TrimSpace(d.Value.String()))
	if d.Value.IsEmpty() {
		ps.Remove(d.Key)
		return
	}
	if i := ps.index(d.Key); i >= 0 {
		ps.decls[i] = d
		return
	}
	ps.decls = append(ps.decls, d)
}

// Remove deletes a property. It returns true if the property was present.
func (ps *PropertySet) Remove(key string) bool {
	i := ps.index(key)
	if i < 0 {
		return false
	}
	ps.decls = append(ps.decls[:i], ps.decls[i+1:]...)
	return true
}

// RemoveAll deletes a list of properties.
func (ps *PropertySet) RemoveAll(keys []string) {
	for _, k := range keys {
		ps.Remove(k)
	}
}

// Keys returns the property names in declaration order.
func (ps *PropertySet) Keys() []string {
	if ps == nil {
		return nil
	}
	keys := make([]string, len(ps.decls))
	for i, d := range ps.decls {
		keys[i] = d.Key
	}
	return keys
}

// Declarations returns a copy of the declarations in order.
func (ps *PropertySet) Declarations() []Declaration {
	if ps == nil {
		return nil
	}
	decls := make([]Declaration, len(ps.decls))
	copy(decls, ps.decls)
	return decls
}

// Copy returns an independent copy. Copying nil yields an empty set.
func (ps *PropertySet) Copy() *PropertySet {
	return &PropertySet{decls: ps.Declarations()}
}

// CopyProperties returns a new set containing the declarations for keys
// only, in the order of keys.
func (ps *PropertySet) CopyProperties(keys []string) *PropertySet {
	r := &PropertySet{}
	for _, k := range keys {
		if i := ps.index(k); i >= 0 {
			r.decls = append(r.decls, ps.decls[i])
		}
	}
	return r
}

// Merge copies all declarations of other into ps. Existing declarations
// are overwritten only if overwrite is set.
func (ps *PropertySet) Merge(other *PropertySet, overwrite bool) {
	for _, d := range other.Declarations() {
		if !overwrite && ps.Has(d.Key) {
			continue
		}
		ps.SetDeclaration(d)
	}
}

// Equal compares two sets, ignoring declaration order.
func (ps *PropertySet) Equal(other *PropertySet) bool {
	if ps.Len() != other.Len() {
		return false
	}
	for _, d := range ps.Declarations() {
		i := other.index(d.Key)
		if i < 0 || other.decls[i] != d {
			return false
		}
	}
	return true
}

// Text serializes the set in CSS declaration syntax, e.g.
//
//     font-weight: bold; color: #ff0000;
//
func (ps *PropertySet) Text() string {
	if ps.IsEmpty() {
		return ""
	}
	parts := make([]string, len(ps.decls))
	for i, d := range ps.decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

func (ps *PropertySet) String() string {
	return "{" + ps.Text() + "}"
}

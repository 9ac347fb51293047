package dom

import "golang.org/x/net/html"

// MutationObserver receives synchronous notifications about changes of a
// document. Callbacks fire after the change has been applied and may
// themselves mutate the document.
type MutationObserver interface {
	// OnChildListMutation is called after children have been added to or
	// removed from target. prev and next are the siblings surrounding the change.
	OnChildListMutation(target *html.Node, added, removed []*html.Node, prev, next *html.Node)
	// OnAttributeMutation is called after attribute name of target changed.
	OnAttributeMutation(target *html.Node, name, oldValue string)
	// OnCharacterDataMutation is called after the data of a text node changed.
	OnCharacterDataMutation(target *html.Node, oldValue string)
}

// MutationFuncs adapts plain functions to interface MutationObserver.
// Nil functions are skipped.
type MutationFuncs struct {
	ChildList     func(target *html.Node, added, removed []*html.Node, prev, next *html.Node)
	Attribute     func(target *html.Node, name, oldValue string)
	CharacterData func(target *html.Node, oldValue string)
}

// OnChildListMutation is part of interface MutationObserver.
func (f MutationFuncs) OnChildListMutation(target *html.Node, added, removed []*html.Node, prev, next *html.Node) {
	if f.ChildList != nil {
		f.ChildList(target, added, removed, prev, next)
	}
}

// OnAttributeMutation is part of interface MutationObserver.
func (f MutationFuncs) OnAttributeMutation(target *html.Node, name, oldValue string) {
	if f.Attribute != nil {
		f.Attribute(target, name, oldValue)
	}
}

// OnCharacterDataMutation is part of interface MutationObserver.
func (f MutationFuncs) OnCharacterDataMutation(target *html.Node, oldValue string) {
	if f.CharacterData != nil {
		f.CharacterData(target, oldValue)
	}
}

var _ MutationObserver = MutationFuncs{}

type observerEntry struct {
	observer MutationObserver
}

// Observe registers a mutation observer. The returned function unregisters it.
func (doc *Document) Observe(o MutationObserver) (cancel func()) {
	entry := &observerEntry{observer: o}
	doc.observers = append(doc.observers, entry)
	return func() {
		for i, e := range doc.observers {
			if e == entry {
				doc.observers = append(doc.observers[:i:i], doc.observers[i+1:]...)
				return
			}
		}
	}
}

// Observers may register or unregister while being notified, so we always
// iterate over a snapshot.
func (doc *Document) snapshotObservers() []*observerEntry {
	if len(doc.observers) == 0 {
		return nil
	}
	obs := make([]*observerEntry, len(doc.observers))
	copy(obs, doc.observers)
	return obs
}

func (doc *Document) notifyChildList(target *html.Node, added, removed []*html.Node, prev, next *html.Node) {
	for _, e := range doc.snapshotObservers() {
		e.observer.OnChildListMutation(target, added, removed, prev, next)
	}
}

func (doc *Document) notifyAttribute(target *html.Node, name, old string) {
	for _, e := range doc.snapshotObservers() {
		e.observer.OnAttributeMutation(target, name, old)
	}
}

func (doc *Document) notifyCharacterData(target *html.Node, old string) {
	for _, e := range doc.snapshotObservers() {
		e.observer.OnCharacterDataMutation(target, old)
	}
}

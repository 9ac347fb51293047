package editing

// KillRing is a bounded history of deleted text, in the manner of Emacs.
// Consecutive deletions form a sequence and are collected into a single
// entry; starting a new sequence makes the next deletion open a new entry.
type KillRing struct {
	entries  []string // oldest first
	capacity int
	open     bool // the newest entry accepts more text
}

// NewKillRing creates a kill ring holding at most capacity entries.
func NewKillRing(capacity int) *KillRing {
	if capacity < 1 {
		capacity = 1
	}
	return &KillRing{capacity: capacity}
}

// Append adds text at the end of the current entry. Forward deletion
// appends.
func (kr *KillRing) Append(text string) {
	if kr.open && len(kr.entries) > 0 {
		kr.entries[len(kr.entries)-1] += text
		return
	}
	kr.push(text)
}

// Prepend adds text in front of the current entry. Backward deletion
// prepends, so that the entry reads in document order.
func (kr *KillRing) Prepend(text string) {
	if kr.open && len(kr.entries) > 0 {
		kr.entries[len(kr.entries)-1] = text + kr.entries[len(kr.entries)-1]
		return
	}
	kr.push(text)
}

func (kr *KillRing) push(text string) {
	kr.entries = append(kr.entries, text)
	if len(kr.entries) > kr.capacity {
		kr.entries = kr.entries[len(kr.entries)-kr.capacity:]
	}
	kr.open = true
}

// StartNewSequence closes the current entry.
func (kr *KillRing) StartNewSequence() {
	kr.open = false
}

// Yank returns the newest entry, or "" for an empty ring.
func (kr *KillRing) Yank() string {
	if len(kr.entries) == 0 {
		return ""
	}
	return kr.entries[len(kr.entries)-1]
}

// Len returns the number of entries.
func (kr *KillRing) Len() int {
	return len(kr.entries)
}

// Entries returns a copy of all entries, newest first.
func (kr *KillRing) Entries() []string {
	out := make([]string, len(kr.entries))
	for i, e := range kr.entries {
		out[len(out)-1-i] = e
	}
	return out
}

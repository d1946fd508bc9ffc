package editor

import "sort"

// Change replaces the rune range [From, To) with Insert.
type Change struct {
	From   int
	To     int
	Insert string
}

// Transaction describes a replace-range-and-reselect edit. Applied to a
// document it atomically updates both text and selection.
type Transaction struct {
	changes   []Change
	selection *Selection
}

// NewTransaction creates a transaction from the given changes. Changes must
// not overlap; they are applied as one atomic edit.
func NewTransaction(changes ...Change) Transaction {
	return Transaction{changes: changes}
}

// Replace creates a transaction replacing the rune range [from, to).
func Replace(from, to int, insert string) Transaction {
	return NewTransaction(Change{From: from, To: to, Insert: insert})
}

// WithSelection attaches the selection the document should have after the
// transaction is applied. Without one, the existing selection is clamped into
// the new text bounds.
func (t Transaction) WithSelection(sel Selection) Transaction {
	t.selection = &sel
	return t
}

// applyToText applies the changes to the given text and returns the result.
func (t Transaction) applyToText(text string) string {
	if len(t.changes) == 0 {
		return text
	}

	changes := make([]Change, len(t.changes))
	copy(changes, t.changes)
	sort.Slice(changes, func(i, j int) bool { return changes[i].From < changes[j].From })

	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	at := 0
	for _, c := range changes {
		from := clampOffset(c.From, len(runes))
		to := clampOffset(c.To, len(runes))
		if from < at {
			continue // overlapping change, already consumed
		}
		out = append(out, runes[at:from]...)
		out = append(out, []rune(c.Insert)...)
		at = to
	}
	out = append(out, runes[at:]...)
	return string(out)
}

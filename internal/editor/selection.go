// Package editor implements the document, selection and transaction model that
// the Quill application and its test harness operate on. Text is addressed in
// rune offsets throughout.
package editor

import "fmt"

// Position is a zero-based row/column location in a document.
type Position struct {
	Row int
	Col int
}

// Range is a single selection range. Anchor is the stationary end and Head the
// moving end; Head < Anchor describes a reversed range. A range with
// Anchor == Head is a collapsed cursor.
type Range struct {
	Anchor int
	Head   int
}

// From returns the lower bound of the range.
func (r Range) From() int {
	if r.Head < r.Anchor {
		return r.Head
	}
	return r.Anchor
}

// To returns the upper bound of the range.
func (r Range) To() int {
	if r.Head > r.Anchor {
		return r.Head
	}
	return r.Anchor
}

// IsEmpty reports whether the range is a collapsed cursor.
func (r Range) IsEmpty() bool {
	return r.Anchor == r.Head
}

// Selection is a non-empty ordered set of ranges with one designated primary.
type Selection struct {
	Ranges  []Range
	Primary int
}

// PointSelection creates a single collapsed cursor at the given offset.
func PointSelection(at int) Selection {
	return Selection{Ranges: []Range{{Anchor: at, Head: at}}, Primary: 0}
}

// SingleSelection creates a selection with one range.
func SingleSelection(anchor, head int) Selection {
	return Selection{Ranges: []Range{{Anchor: anchor, Head: head}}, Primary: 0}
}

// PrimaryRange returns the primary range of the selection.
func (s Selection) PrimaryRange() Range {
	return s.Ranges[s.Primary]
}

// Validate checks the selection invariants against a text of textLen runes:
// at least one range, primary index in bounds, all offsets within [0, textLen].
func (s Selection) Validate(textLen int) error {
	if len(s.Ranges) == 0 {
		return fmt.Errorf("selection has no ranges")
	}
	if s.Primary < 0 || s.Primary >= len(s.Ranges) {
		return fmt.Errorf("primary index %d out of bounds for %d ranges", s.Primary, len(s.Ranges))
	}
	for i, r := range s.Ranges {
		if r.From() < 0 || r.To() > textLen {
			return fmt.Errorf("range %d (%d..%d) out of bounds for text of length %d", i, r.Anchor, r.Head, textLen)
		}
	}
	return nil
}

// clamp forces every range of the selection into [0, textLen].
func (s Selection) clamp(textLen int) Selection {
	clamped := Selection{Ranges: make([]Range, len(s.Ranges)), Primary: s.Primary}
	for i, r := range s.Ranges {
		clamped.Ranges[i] = Range{Anchor: clampOffset(r.Anchor, textLen), Head: clampOffset(r.Head, textLen)}
	}
	return clamped
}

func clampOffset(at, textLen int) int {
	if at < 0 {
		return 0
	}
	if at > textLen {
		return textLen
	}
	return at
}

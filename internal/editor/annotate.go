package editor

import (
	"fmt"
	"sort"
	"strings"
)

// Annotated literals embed selection markers inline with text fixtures:
//
//	#[...|...]#   the primary range
//	#(...|...)#   a secondary range
//
// The enclosed text is the selected region. The pipe marks the head and must
// sit at one end of the region: "#[ab|]#" is a forward range, "#[|ab]#" a
// reversed one, and "#[|]#" a collapsed cursor. Exactly one primary marker is
// required.

// ParseAnnotated strips selection markers from an annotated literal, returning
// the plain text and the selection the markers describe. It fails fast on
// malformed literals.
func ParseAnnotated(annotated string) (string, Selection, error) {
	var out []rune
	var ranges []Range
	primary := -1

	runes := []rune(annotated)
	for i := 0; i < len(runes); i++ {
		if i+1 >= len(runes) || runes[i] != '#' || (runes[i+1] != '[' && runes[i+1] != '(') {
			out = append(out, runes[i])
			continue
		}

		isPrimary := runes[i+1] == '['
		closer := ']'
		if !isPrimary {
			closer = ')'
		}

		end := -1
		for j := i + 2; j+1 < len(runes); j++ {
			if runes[j] == closer && runes[j+1] == '#' {
				end = j
				break
			}
		}
		if end < 0 {
			return "", Selection{}, fmt.Errorf("unclosed selection marker at offset %d in %q", i, annotated)
		}

		r, stripped, err := parseMarkerBody(runes[i+2:end], len(out))
		if err != nil {
			return "", Selection{}, fmt.Errorf("invalid selection marker at offset %d in %q: %w", i, annotated, err)
		}

		if isPrimary {
			if primary >= 0 {
				return "", Selection{}, fmt.Errorf("multiple primary selection markers in %q", annotated)
			}
			primary = len(ranges)
		}
		ranges = append(ranges, r)
		out = append(out, stripped...)
		i = end + 1 // lands on the trailing '#'; the loop increment steps past it
	}

	if primary < 0 {
		return "", Selection{}, fmt.Errorf("no primary selection marker in %q", annotated)
	}

	return string(out), Selection{Ranges: ranges, Primary: primary}, nil
}

// parseMarkerBody interprets the text between a marker's delimiters. at is the
// rune offset of the marker in the stripped output.
func parseMarkerBody(body []rune, at int) (Range, []rune, error) {
	pipe := -1
	for i, r := range body {
		if r != '|' {
			continue
		}
		if pipe >= 0 {
			return Range{}, nil, fmt.Errorf("more than one head marker")
		}
		pipe = i
	}

	switch pipe {
	case -1:
		return Range{}, nil, fmt.Errorf("missing head marker")
	case 0:
		stripped := body[1:]
		return Range{Anchor: at + len(stripped), Head: at}, stripped, nil
	case len(body) - 1:
		stripped := body[:len(body)-1]
		return Range{Anchor: at, Head: at + len(stripped)}, stripped, nil
	default:
		return Range{}, nil, fmt.Errorf("head marker must sit at one end of the region")
	}
}

// Annotate renders text with the selection embedded as markers. It is the
// inverse of ParseAnnotated and is used for debug snapshots and failure
// diagnostics. Ranges must not overlap.
func Annotate(text string, sel Selection) string {
	type marked struct {
		r       Range
		primary bool
	}
	marks := make([]marked, len(sel.Ranges))
	for i, r := range sel.Ranges {
		marks[i] = marked{r: r, primary: i == sel.Primary}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].r.From() < marks[j].r.From() })

	runes := []rune(text)
	var sb strings.Builder
	at := 0
	for _, m := range marks {
		from := clampOffset(m.r.From(), len(runes))
		to := clampOffset(m.r.To(), len(runes))
		openMark, closeMark := "#(", ")#"
		if m.primary {
			openMark, closeMark = "#[", "]#"
		}

		sb.WriteString(string(runes[at:from]))
		sb.WriteString(openMark)
		if m.r.Head < m.r.Anchor {
			sb.WriteByte('|')
			sb.WriteString(string(runes[from:to]))
		} else {
			sb.WriteString(string(runes[from:to]))
			sb.WriteByte('|')
		}
		sb.WriteString(closeMark)
		at = to
	}
	sb.WriteString(string(runes[at:]))
	return sb.String()
}

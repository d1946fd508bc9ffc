// Package keys defines the key event model shared by the editor and its test
// harness, along with a parser for human-readable key macro strings.
package keys

import (
	"fmt"
	"strings"
)

// Code identifies a key that is not an ordinary printable rune.
type Code int

// Named key codes. CodeRune marks an event that carries a printable rune.
const (
	CodeRune Code = iota
	CodeEscape
	CodeEnter
	CodeTab
	CodeBackspace
	CodeDelete
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeHome
	CodeEnd
)

// Modifier is a bit set of modifier keys held during a key press.
type Modifier uint8

// Modifier bits.
const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// Event describes a single key press: either a printable rune or a named key,
// plus any modifiers.
type Event struct {
	Code Code
	Rune rune // valid when Code == CodeRune
	Mod  Modifier
}

// namesToCodes maps the names accepted inside <...> macro groups.
var namesToCodes = map[string]Code{
	"esc":       CodeEscape,
	"ret":       CodeEnter,
	"tab":       CodeTab,
	"backspace": CodeBackspace,
	"bs":        CodeBackspace,
	"del":       CodeDelete,
	"up":        CodeUp,
	"down":      CodeDown,
	"left":      CodeLeft,
	"right":     CodeRight,
	"home":      CodeHome,
	"end":       CodeEnd,
}

var codesToNames = map[Code]string{
	CodeEscape:    "esc",
	CodeEnter:     "ret",
	CodeTab:       "tab",
	CodeBackspace: "backspace",
	CodeDelete:    "del",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeHome:      "home",
	CodeEnd:       "end",
}

// Rune creates an unmodified printable rune event.
func RuneEvent(r rune) Event {
	return Event{Code: CodeRune, Rune: r}
}

// String renders the event in macro syntax. Plain unmodified runes render as
// themselves; everything else renders as a <...> group. This is the canonical
// form used for keymap lookups.
func (e Event) String() string {
	name := ""
	if e.Code == CodeRune {
		name = string(e.Rune)
	} else {
		name = codesToNames[e.Code]
	}

	if e.Mod == 0 && e.Code == CodeRune {
		return name
	}

	var sb strings.Builder
	sb.WriteByte('<')
	if e.Mod&ModCtrl != 0 {
		sb.WriteString("c-")
	}
	if e.Mod&ModAlt != 0 {
		sb.WriteString("a-")
	}
	if e.Mod&ModShift != 0 {
		sb.WriteString("s-")
	}
	sb.WriteString(name)
	sb.WriteByte('>')
	return sb.String()
}

// ParseMacro converts a human-readable key sequence such as "ihello<esc>:wq<ret>"
// into its ordered key events. It is total over well-formed macros and returns
// a parse error for malformed <...> groups.
func ParseMacro(macro string) ([]Event, error) {
	var events []Event

	runes := []rune(macro)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '<' {
			events = append(events, RuneEvent(r))
			continue
		}

		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '>' {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("unclosed '<' at offset %d in macro %q", i, macro)
		}

		ev, err := parseGroup(string(runes[i+1 : end]))
		if err != nil {
			return nil, fmt.Errorf("invalid key group at offset %d in macro %q: %w", i, macro, err)
		}
		events = append(events, ev)
		i = end
	}

	return events, nil
}

// parseGroup parses the interior of a <...> group, e.g. "esc" or "c-a-x".
func parseGroup(group string) (Event, error) {
	if group == "" {
		return Event{}, fmt.Errorf("empty key group")
	}

	var mod Modifier
	rest := group
	for len(rest) > 2 && rest[1] == '-' {
		switch rest[0] {
		case 'c', 'C':
			mod |= ModCtrl
		case 'a', 'A':
			mod |= ModAlt
		case 's', 'S':
			mod |= ModShift
		default:
			return Event{}, fmt.Errorf("unknown modifier %q", rest[0])
		}
		rest = rest[2:]
	}

	if code, ok := namesToCodes[strings.ToLower(rest)]; ok {
		return Event{Code: code, Mod: mod}, nil
	}

	r := []rune(rest)
	if len(r) != 1 {
		return Event{}, fmt.Errorf("unknown key name %q", rest)
	}
	return Event{Code: CodeRune, Rune: r[0], Mod: mod}, nil
}

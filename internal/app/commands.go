package app

import (
	"strings"
	"unicode"

	"quill/internal/editor"
	"quill/internal/logger"
	"quill/pkg/keys"
)

// normalCommands is the dispatch table for named editor commands. Keymap
// entries resolve to these by name.
var normalCommands = map[string]func(*Application){
	"move_char_left":       func(a *Application) { a.moveChars(-1) },
	"move_char_right":      func(a *Application) { a.moveChars(1) },
	"move_line_up":         func(a *Application) { a.moveLines(-1) },
	"move_line_down":       func(a *Application) { a.moveLines(1) },
	"goto_line_start":      (*Application).gotoLineStart,
	"goto_line_end":        (*Application).gotoLineEnd,
	"move_next_word_start": (*Application).moveNextWordStart,
	"delete_char_forward":  (*Application).deleteCharForward,
	"delete_selection":     (*Application).deleteSelection,
	"change_selection":     (*Application).changeSelection,
	"collapse_selection":   (*Application).collapseSelection,
	"select_all":           (*Application).selectAll,
	"insert_mode":          (*Application).enterInsertMode,
	"append_mode":          (*Application).enterAppendMode,
	"insert_at_line_end":   (*Application).insertAtLineEnd,
	"open_below":           (*Application).openBelow,
	"command_mode":         (*Application).enterCommandMode,
	"normal_mode":          (*Application).enterNormalMode,
}

// handleNormalKey dispatches a normal-mode key through the binding table.
// Unbound keys are ignored.
func (a *Application) handleNormalKey(ev keys.Event) {
	name := ev.String()
	command, bound := a.cfg.Keys.Normal[name]
	if !bound {
		a.logger.Debug("Unbound key", "mode", a.mode.String(), "key", name)
		return
	}
	logger.KeyDispatch(a.mode.String(), name, command)
	if fn, ok := normalCommands[command]; ok {
		fn(a)
		return
	}
	a.Editor.SetError("unknown command bound to " + name + ": " + command)
}

// handleInsertKey handles one insert-mode key. Bound keys (by default only
// <esc>) win over literal insertion.
func (a *Application) handleInsertKey(ev keys.Event) {
	if command, bound := a.cfg.Keys.Insert[ev.String()]; bound {
		logger.KeyDispatch(a.mode.String(), ev.String(), command)
		if fn, ok := normalCommands[command]; ok {
			fn(a)
			return
		}
	}

	switch ev.Code {
	case keys.CodeRune:
		if ev.Mod == 0 {
			a.insertText(string(ev.Rune))
		}
	case keys.CodeEnter:
		doc := a.Editor.Current()
		if doc != nil {
			a.insertText(doc.LineEnding())
		}
	case keys.CodeTab:
		a.insertText("\t")
	case keys.CodeBackspace:
		a.deleteBackward()
	case keys.CodeDelete:
		a.deleteCharForward()
	}
}

// handleCommandKey accumulates the command line and executes it on <ret>.
func (a *Application) handleCommandKey(ev keys.Event) {
	switch ev.Code {
	case keys.CodeEscape:
		a.cmdline = nil
		a.mode = ModeNormal
	case keys.CodeEnter:
		line := string(a.cmdline)
		a.cmdline = nil
		a.mode = ModeNormal
		a.executeCommand(line)
	case keys.CodeBackspace:
		if len(a.cmdline) > 0 {
			a.cmdline = a.cmdline[:len(a.cmdline)-1]
		}
	case keys.CodeRune:
		if ev.Mod == 0 {
			a.cmdline = append(a.cmdline, ev.Rune)
		}
	}
}

// executeCommand runs one command-line command (the text typed after ':').
func (a *Application) executeCommand(line string) {
	name, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	a.logger.Debug("Executing command line", "command", name)

	switch name {
	case "":
		// empty command line is a no-op
	case "q":
		if a.Editor.AnyModified() {
			a.Editor.SetError("unsaved changes, use :q! to force quit")
			return
		}
		a.quit()
	case "q!":
		a.quit()
	case "w":
		a.scheduleSave(arg, false)
	case "wq":
		a.scheduleSave(arg, true)
	default:
		a.Editor.SetError("no such command: " + name)
	}
}

// scheduleSave queues the actual write as an internal reaction, so saves
// complete during the drain-to-idle phase rather than inline with the
// keystroke. quitAfter quits only when the write succeeded.
func (a *Application) scheduleSave(path string, quitAfter bool) {
	a.schedule(func() {
		if err := a.Editor.SaveCurrent(path); err != nil {
			a.Editor.SetError("write failed: " + err.Error())
			return
		}
		doc := a.Editor.Current()
		if doc != nil {
			a.Editor.SetStatus("written " + doc.Path())
		}
		if quitAfter {
			a.schedule(a.quit)
		}
	})
}

// Movement

func (a *Application) moveChars(delta int) {
	a.remapCursors(func(r editor.Range, text []rune) int {
		return r.Head + delta
	})
}

func (a *Application) moveLines(dir int) {
	a.remapCursors(func(r editor.Range, text []rune) int {
		return verticalMove(text, r.Head, dir)
	})
}

func (a *Application) gotoLineStart() {
	a.remapCursors(func(r editor.Range, text []rune) int {
		return lineStart(text, r.Head)
	})
}

func (a *Application) gotoLineEnd() {
	a.remapCursors(func(r editor.Range, text []rune) int {
		return lineEnd(text, r.Head)
	})
}

func (a *Application) moveNextWordStart() {
	a.remapCursors(func(r editor.Range, text []rune) int {
		return nextWordStart(text, r.Head)
	})
}

func (a *Application) collapseSelection() {
	a.remapCursors(func(r editor.Range, text []rune) int {
		return r.Head
	})
}

// remapCursors collapses every range to the offset the mapper returns,
// clamped into bounds.
func (a *Application) remapCursors(mapper func(r editor.Range, text []rune) int) {
	doc := a.Editor.Current()
	if doc == nil {
		return
	}
	text := []rune(doc.Text())
	sel := doc.Selection()
	remapped := editor.Selection{Ranges: make([]editor.Range, len(sel.Ranges)), Primary: sel.Primary}
	for i, r := range sel.Ranges {
		at := mapper(r, text)
		remapped.Ranges[i] = editor.Range{Anchor: at, Head: at}
	}
	doc.SetSelection(remapped)
}

func (a *Application) selectAll() {
	doc := a.Editor.Current()
	if doc == nil {
		return
	}
	doc.SetSelection(editor.SingleSelection(0, doc.Len()))
}

// Editing

// deleteSelection removes the text of every non-empty range and leaves a
// collapsed cursor where each range was.
func (a *Application) deleteSelection() {
	a.deleteRanges(func(r editor.Range, textLen int) (int, int) {
		return r.From(), r.To()
	})
}

// deleteCharForward deletes the character under each collapsed cursor; ranges
// with extent delete their selected text instead.
func (a *Application) deleteCharForward() {
	a.deleteRanges(func(r editor.Range, textLen int) (int, int) {
		if !r.IsEmpty() {
			return r.From(), r.To()
		}
		if r.Head >= textLen {
			return r.Head, r.Head
		}
		return r.Head, r.Head + 1
	})
}

// deleteBackward deletes the character before each collapsed cursor.
func (a *Application) deleteBackward() {
	a.deleteRanges(func(r editor.Range, textLen int) (int, int) {
		if !r.IsEmpty() {
			return r.From(), r.To()
		}
		if r.Head == 0 {
			return 0, 0
		}
		return r.Head - 1, r.Head
	})
}

func (a *Application) changeSelection() {
	a.deleteSelection()
	a.mode = ModeInsert
}

// deleteRanges builds one atomic transaction deleting the span the bounds
// function returns for each range, reselecting collapsed cursors at the
// deletion points. Ranges are assumed to be in document order.
func (a *Application) deleteRanges(bounds func(r editor.Range, textLen int) (int, int)) {
	doc := a.Editor.Current()
	if doc == nil {
		return
	}
	sel := doc.Selection()
	textLen := doc.Len()

	changes := make([]editor.Change, 0, len(sel.Ranges))
	newRanges := make([]editor.Range, len(sel.Ranges))
	shift := 0
	for i, r := range sel.Ranges {
		from, to := bounds(r, textLen)
		changes = append(changes, editor.Change{From: from, To: to})
		at := from - shift
		newRanges[i] = editor.Range{Anchor: at, Head: at}
		shift += to - from
	}

	doc.Apply(editor.NewTransaction(changes...).
		WithSelection(editor.Selection{Ranges: newRanges, Primary: sel.Primary}))
}

// insertText inserts text at every cursor head as one atomic transaction.
func (a *Application) insertText(text string) {
	doc := a.Editor.Current()
	if doc == nil {
		return
	}
	sel := doc.Selection()
	insLen := len([]rune(text))

	changes := make([]editor.Change, 0, len(sel.Ranges))
	newRanges := make([]editor.Range, len(sel.Ranges))
	shift := 0
	for i, r := range sel.Ranges {
		changes = append(changes, editor.Change{From: r.Head, To: r.Head, Insert: text})
		at := r.Head + shift + insLen
		newRanges[i] = editor.Range{Anchor: at, Head: at}
		shift += insLen
	}

	doc.Apply(editor.NewTransaction(changes...).
		WithSelection(editor.Selection{Ranges: newRanges, Primary: sel.Primary}))
}

// Mode switches

func (a *Application) enterInsertMode() {
	a.remapCursors(func(r editor.Range, text []rune) int { return r.From() })
	a.mode = ModeInsert
}

func (a *Application) enterAppendMode() {
	a.remapCursors(func(r editor.Range, text []rune) int { return r.To() })
	a.mode = ModeInsert
}

func (a *Application) insertAtLineEnd() {
	a.gotoLineEnd()
	a.mode = ModeInsert
}

func (a *Application) openBelow() {
	doc := a.Editor.Current()
	if doc == nil {
		return
	}
	a.gotoLineEnd()
	a.mode = ModeInsert
	a.insertText(doc.LineEnding())
}

func (a *Application) enterCommandMode() {
	a.cmdline = nil
	a.mode = ModeCommand
}

func (a *Application) enterNormalMode() {
	a.mode = ModeNormal
}

// Text scanning helpers. Lines terminate at '\n' or '\r'.

func lineStart(text []rune, at int) int {
	if at > len(text) {
		at = len(text)
	}
	for at > 0 && text[at-1] != '\n' && text[at-1] != '\r' {
		at--
	}
	return at
}

func lineEnd(text []rune, at int) int {
	if at < 0 {
		at = 0
	}
	for at < len(text) && text[at] != '\n' && text[at] != '\r' {
		at++
	}
	return at
}

// verticalMove returns the offset at the same column on the adjacent line,
// clamped to that line's length. at is returned unchanged on the first or
// last line.
func verticalMove(text []rune, at, dir int) int {
	start := lineStart(text, at)
	col := at - start

	if dir < 0 {
		if start == 0 {
			return at
		}
		prevEnd := start - 1
		if text[prevEnd] == '\n' && prevEnd > 0 && text[prevEnd-1] == '\r' {
			prevEnd--
		}
		prevStart := lineStart(text, prevEnd)
		if col > prevEnd-prevStart {
			col = prevEnd - prevStart
		}
		return prevStart + col
	}

	end := lineEnd(text, at)
	if end >= len(text) {
		return at
	}
	nextStart := end + 1
	if text[end] == '\r' && nextStart < len(text) && text[nextStart] == '\n' {
		nextStart++
	}
	nextEnd := lineEnd(text, nextStart)
	if col > nextEnd-nextStart {
		col = nextEnd - nextStart
	}
	return nextStart + col
}

func nextWordStart(text []rune, at int) int {
	n := len(text)
	if at >= n {
		return n
	}
	i := at
	for i < n && !unicode.IsSpace(text[i]) {
		i++
	}
	for i < n && unicode.IsSpace(text[i]) {
		i++
	}
	return i
}

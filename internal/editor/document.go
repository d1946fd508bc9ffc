package editor

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// NativeLineEnding is the host-canonical line ending sequence.
var NativeLineEnding = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// ErrNoPath is returned when a save is requested for a document that has no
// backing file path.
var ErrNoPath = fmt.Errorf("document has no path")

// Document holds an immutable text snapshot plus a mutable selection. All
// mutation goes through Apply so that text and selection update atomically.
type Document struct {
	ID uuid.UUID

	path       string
	text       string
	selection  Selection
	lineEnding string
	language   string
	modified   bool

	// Last failed write, surfaced again when the application closes.
	flushErr error
}

// NewDocument creates an unnamed document with a collapsed cursor at offset 0.
func NewDocument(text string) *Document {
	lineEnding := NativeLineEnding
	if strings.Contains(text, "\r\n") {
		lineEnding = "\r\n"
	}
	return &Document{
		ID:         uuid.New(),
		text:       text,
		selection:  PointSelection(0),
		lineEnding: lineEnding,
	}
}

// Text returns the document's text.
func (d *Document) Text() string { return d.text }

// Len returns the document's length in runes.
func (d *Document) Len() int { return len([]rune(d.text)) }

// Path returns the backing file path, or "" for scratch documents.
func (d *Document) Path() string { return d.path }

// Language returns the name of the language configuration attached to the
// document, or "" when none matched.
func (d *Document) Language() string { return d.language }

// LineEnding returns the line ending sequence the document uses.
func (d *Document) LineEnding() string { return d.lineEnding }

// Modified reports whether the document has unsaved changes.
func (d *Document) Modified() bool { return d.modified }

// FlushError returns the last failed write error, if any.
func (d *Document) FlushError() error { return d.flushErr }

// Selection returns the document's current selection.
func (d *Document) Selection() Selection { return d.selection }

// SetSelection replaces the document's selection, clamped into bounds.
func (d *Document) SetSelection(sel Selection) {
	d.selection = sel.clamp(d.Len())
}

// Apply applies a transaction, updating text and selection atomically.
func (d *Document) Apply(t Transaction) {
	d.text = t.applyToText(d.text)
	if t.selection != nil {
		d.selection = t.selection.clamp(d.Len())
	} else {
		d.selection = d.selection.clamp(d.Len())
	}
	d.modified = true
}

// OffsetOf converts a row/column position into a rune offset, clamping both
// coordinates into bounds.
func (d *Document) OffsetOf(pos Position) int {
	lines := strings.Split(d.text, d.lineEnding)
	if pos.Row >= len(lines) {
		return d.Len()
	}
	if pos.Row < 0 {
		pos.Row = 0
	}
	offset := 0
	for i := 0; i < pos.Row; i++ {
		offset += len([]rune(lines[i])) + len([]rune(d.lineEnding))
	}
	col := pos.Col
	lineLen := len([]rune(lines[pos.Row]))
	if col > lineLen {
		col = lineLen
	}
	if col < 0 {
		col = 0
	}
	return offset + col
}

// save writes the document to its path. insertFinalNewline appends the
// document's line ending when the text does not already end with it. A failed
// write is remembered and surfaced again by the editor's close pass.
func (d *Document) save(insertFinalNewline bool) error {
	if d.path == "" {
		return ErrNoPath
	}

	content := d.text
	if insertFinalNewline && content != "" && !strings.HasSuffix(content, d.lineEnding) {
		content += d.lineEnding
	}

	if err := os.WriteFile(d.path, []byte(content), 0o644); err != nil {
		d.flushErr = fmt.Errorf("writing document %s: %w", d.path, err)
		return d.flushErr
	}

	d.modified = false
	d.flushErr = nil
	return nil
}

package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"quill/internal/config"
	"quill/internal/logger"
	"quill/internal/syntax"
)

// Severity classifies status messages.
type Severity int

// Status severities, in increasing order of concern.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Editor owns the open documents, the focus, and the most recent status
// message. It is the stateful core the application drives.
type Editor struct {
	cfg    config.EditorConfig
	loader *syntax.Loader

	docs  []*Document
	focus int

	statusMsg string
	statusSev Severity
	hasStatus bool

	logger *log.Logger
}

// New creates an editor with no open documents.
func New(cfg config.EditorConfig, loader *syntax.Loader) *Editor {
	return &Editor{
		cfg:    cfg,
		loader: loader,
		focus:  -1,
		logger: logger.NewStyledLogger("Editor"),
	}
}

// NewScratch opens an empty unnamed document and focuses it.
func (e *Editor) NewScratch() *Document {
	doc := NewDocument("")
	doc.lineEnding = lineEndingFor(e.cfg.DefaultLineEnding)
	e.docs = append(e.docs, doc)
	e.focus = len(e.docs) - 1
	return doc
}

// Open reads the file at path into a new focused document. A missing file
// yields an empty document bound to the path. Each requested position becomes
// one cursor, so accumulated positions produce a multi-cursor selection.
func (e *Editor) Open(path string, positions []Position) (*Document, error) {
	text := ""
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		text = string(data)
	case os.IsNotExist(err):
		// new file; created on first save
	default:
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	doc := NewDocument(text)
	doc.path = path
	if text == "" {
		doc.lineEnding = lineEndingFor(e.cfg.DefaultLineEnding)
	}
	if lang, ok := e.loader.LanguageFor(path); ok {
		doc.language = lang.Name
	}
	doc.modified = false

	if len(positions) > 0 {
		sel := Selection{Primary: 0}
		for _, pos := range positions {
			at := doc.OffsetOf(pos)
			sel.Ranges = append(sel.Ranges, Range{Anchor: at, Head: at})
		}
		doc.SetSelection(sel)
	}

	e.docs = append(e.docs, doc)
	e.focus = len(e.docs) - 1
	logger.DocumentOperation("open", path, "id", doc.ID, "language", doc.language, "runes", doc.Len())
	return doc, nil
}

// FocusFirst moves focus to the first open document.
func (e *Editor) FocusFirst() {
	if len(e.docs) > 0 {
		e.focus = 0
	}
}

// Current returns the focused document, or nil when none is open.
func (e *Editor) Current() *Document {
	if e.focus < 0 || e.focus >= len(e.docs) {
		return nil
	}
	return e.docs[e.focus]
}

// Documents returns the open documents in open order.
func (e *Editor) Documents() []*Document { return e.docs }

// AnyModified reports whether any open document has unsaved changes.
func (e *Editor) AnyModified() bool {
	for _, doc := range e.docs {
		if doc.Modified() {
			return true
		}
	}
	return false
}

// SaveCurrent writes the focused document. A non-empty path rebinds the
// document to that path first.
func (e *Editor) SaveCurrent(path string) error {
	doc := e.Current()
	if doc == nil {
		return fmt.Errorf("no document to save")
	}
	if path != "" {
		doc.path = path
	}
	if err := doc.save(e.cfg.InsertFinalNewline); err != nil {
		return err
	}
	logger.DocumentOperation("save", doc.path, "id", doc.ID, "runes", doc.Len())
	return nil
}

// SaveDocument writes the given document to its own path.
func (e *Editor) SaveDocument(doc *Document) error {
	if err := doc.save(e.cfg.InsertFinalNewline); err != nil {
		return err
	}
	logger.DocumentOperation("save", doc.path, "id", doc.ID, "runes", doc.Len())
	return nil
}

// SetStatus records an informational status message.
func (e *Editor) SetStatus(msg string) {
	e.statusMsg, e.statusSev, e.hasStatus = msg, SeverityInfo, true
}

// SetError records an error status message.
func (e *Editor) SetError(msg string) {
	e.statusMsg, e.statusSev, e.hasStatus = msg, SeverityError, true
	e.logger.Error("Editor error", "error", msg)
}

// Status returns the most recent status message and its severity. ok is false
// when no message has been set.
func (e *Editor) Status() (msg string, sev Severity, ok bool) {
	return e.statusMsg, e.statusSev, e.hasStatus
}

// CloseAll closes every open document and collects the errors encountered.
// Unsaved scratch content is discarded; what fails the close is an earlier
// write that never reached disk.
func (e *Editor) CloseAll() []error {
	var errs []error
	for _, doc := range e.docs {
		if err := doc.FlushError(); err != nil {
			errs = append(errs, err)
		}
	}
	e.docs = nil
	e.focus = -1
	return errs
}

// Snapshot renders the focused document with its selection markers embedded,
// for debug logging.
func (e *Editor) Snapshot() string {
	doc := e.Current()
	if doc == nil {
		return "<no document>"
	}
	name := doc.Path()
	if name == "" {
		name = "[scratch]"
	}
	return fmt.Sprintf("%s\n-----\n%s", name, Annotate(doc.Text(), doc.Selection()))
}

// lineEndingFor resolves the configured default line ending name.
func lineEndingFor(name string) string {
	switch strings.ToLower(name) {
	case "lf":
		return "\n"
	case "crlf":
		return "\r\n"
	default:
		return NativeLineEnding
	}
}

// Package app implements the Quill application: the live editor instance that
// consumes key events from an injected input channel and runs them through a
// modal key handling loop until it quiesces or terminates.
package app

import (
	"fmt"

	"github.com/charmbracelet/log"

	"quill/internal/config"
	"quill/internal/editor"
	"quill/internal/logger"
	"quill/internal/syntax"
	"quill/pkg/keys"
)

// Mode is the application's input mode.
type Mode int

// Input modes.
const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeCommand:
		return "command"
	default:
		return "normal"
	}
}

// Input is the envelope delivered on the application's input channel: a key
// event or an input-source error.
type Input struct {
	Key keys.Event
	Err error
}

// FileEntry is one file to open, with the initial cursor positions requested
// for it. Multiple positions produce a multi-cursor selection.
type FileEntry struct {
	Path      string
	Positions []editor.Position
}

// Args are the application launch arguments.
type Args struct {
	Files            []FileEntry
	WorkingDirectory string
}

// AddFile registers a file to open with an initial cursor position. A nil
// position defaults to the document origin. Repeated calls for the same path
// accumulate positions rather than overwriting.
func (a *Args) AddFile(path string, pos *editor.Position) {
	p := editor.Position{}
	if pos != nil {
		p = *pos
	}
	for i := range a.Files {
		if a.Files[i].Path == path {
			a.Files[i].Positions = append(a.Files[i].Positions, p)
			return
		}
	}
	a.Files = append(a.Files, FileEntry{Path: path, Positions: []editor.Position{p}})
}

// Application is the process-under-test: it owns the editor state and the
// event loop that consumes injected input.
type Application struct {
	Editor *editor.Editor

	cfg     *config.Config
	mode    Mode
	cmdline []rune

	// Self-scheduled reactions, drained before the loop reports idle.
	jobs []func()

	alive  bool
	logger *log.Logger
}

// New constructs an application from launch arguments, a configuration and a
// language loader. Files are opened in argument order; with no files a scratch
// document is created. The first opened document gets focus.
func New(args Args, cfg *config.Config, loader *syntax.Loader) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if loader == nil {
		loader = syntax.DefaultLoader()
	}

	a := &Application{
		Editor: editor.New(cfg.Editor, loader),
		cfg:    cfg,
		mode:   ModeNormal,
		alive:  true,
		logger: logger.NewStyledLogger("App"),
	}

	if len(args.Files) == 0 {
		a.Editor.NewScratch()
	} else {
		for _, entry := range args.Files {
			if _, err := a.Editor.Open(entry.Path, entry.Positions); err != nil {
				return nil, fmt.Errorf("opening %s: %w", entry.Path, err)
			}
		}
		a.Editor.FocusFirst()
	}

	return a, nil
}

// Alive reports whether the application has not yet terminated.
func (a *Application) Alive() bool { return a.alive }

// Mode returns the current input mode.
func (a *Application) Mode() Mode { return a.mode }

// CommandLine returns the pending command-line content, for diagnostics.
func (a *Application) CommandLine() string { return string(a.cmdline) }

// Status returns the editor's most recent status message and severity.
func (a *Application) Status() (string, editor.Severity, bool) {
	return a.Editor.Status()
}

// SpliceDocument replaces the entire content of the focused document with the
// given text and selection, as a single replace-and-reselect edit.
func (a *Application) SpliceDocument(text string, sel editor.Selection) {
	doc := a.Editor.Current()
	if doc == nil {
		return
	}
	doc.Apply(editor.Replace(0, doc.Len(), text).WithSelection(sel))
}

// Close closes all open documents and returns every error encountered. There
// may be more than one, e.g. multiple documents failing to flush.
func (a *Application) Close() []error {
	a.alive = false
	return a.Editor.CloseAll()
}

// quit marks the application as terminated; the running loop observes it on
// its next iteration.
func (a *Application) quit() {
	a.logger.Debug("Application quitting")
	a.alive = false
}

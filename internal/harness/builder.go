package harness

import (
	"fmt"
	"os"

	"quill/internal/app"
	"quill/internal/config"
	"quill/internal/editor"
	"quill/internal/keymap"
	"quill/internal/syntax"
)

// AppBuilder assembles a runnable application instance from a test
// configuration. It accumulates settings through chained calls and validates
// unsupported configurations in the one-shot Build.
type AppBuilder struct {
	args   app.Args
	cfg    *config.Config
	loader *syntax.Loader

	inputText string
	inputSel  editor.Selection
	hasInput  bool

	err error
}

// NewAppBuilder creates a builder with defaults suitable for integration
// tests: the compiled-in configuration and language set.
func NewAppBuilder() *AppBuilder {
	return &AppBuilder{
		cfg:    testConfig(),
		loader: syntax.DefaultLoader(),
	}
}

// testConfig returns a configuration with defaults more suitable for
// integration tests.
func testConfig() *config.Config {
	cfg := config.Default()
	// a synthesized final newline would make expected-output literals lie
	cfg.Editor.InsertFinalNewline = false
	return cfg
}

// WithFile registers a file to open with an initial cursor position (document
// origin when nil). Repeated calls for the same path accumulate positions
// rather than overwriting.
func (b *AppBuilder) WithFile(path string, pos *editor.Position) *AppBuilder {
	b.args.AddFile(path, pos)
	return b
}

// WithWorkingDirectory requests a working directory change for the
// application. In-process tests do not support this; Build rejects it.
func (b *AppBuilder) WithWorkingDirectory(dir string) *AppBuilder {
	b.args.WorkingDirectory = dir
	return b
}

// WithConfig replaces the configuration wholesale, except that the caller's
// key bindings are treated as overrides and re-merged onto the compiled-in
// default table, override wins.
func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	merged := *cfg
	merged.Keys = keymap.Merge(keymap.Default(), cfg.Keys)
	b.cfg = &merged
	return b
}

// WithInputText records an annotated literal to splice into the newly built
// application's active document, replacing its entire content. Malformed
// literals surface as a Build error.
func (b *AppBuilder) WithInputText(annotated string) *AppBuilder {
	text, sel, err := editor.ParseAnnotated(annotated)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("parsing input text: %w", err)
		}
		return b
	}
	b.inputText, b.inputSel, b.hasInput = text, sel, true
	return b
}

// WithLangLoader replaces the language configuration loader.
func (b *AppBuilder) WithLangLoader(loader *syntax.Loader) *AppBuilder {
	b.loader = loader
	return b
}

// Build validates the accumulated configuration and constructs the
// application. The input-text override is spliced in after construction, as a
// single whole-document replace-and-reselect edit on the active document.
func (b *AppBuilder) Build() (*app.Application, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.args.WorkingDirectory != "" {
		return nil, fmt.Errorf("changing the working directory to %q is not supported for in-process tests", b.args.WorkingDirectory)
	}
	if len(b.args.Files) > 0 {
		first := b.args.Files[0].Path
		if info, err := os.Stat(first); err == nil && info.IsDir() {
			return nil, fmt.Errorf("having the directory %q as the first file argument is not supported for in-process tests", first)
		}
	}

	a, err := app.New(b.args, b.cfg, b.loader)
	if err != nil {
		return nil, err
	}

	if b.hasInput {
		a.SpliceDocument(b.inputText, b.inputSel)
	}

	return a, nil
}

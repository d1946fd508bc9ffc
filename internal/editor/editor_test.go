package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/config"
	"quill/internal/logger"
	"quill/internal/syntax"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return New(config.Default().Editor, syntax.DefaultLoader())
}

// TestEditor_NewScratch tests scratch document creation and focus.
func TestEditor_NewScratch(t *testing.T) {
	e := newTestEditor(t)
	require.Nil(t, e.Current())

	doc := e.NewScratch()

	assert.Same(t, doc, e.Current())
	assert.Equal(t, "", doc.Text())
	assert.Equal(t, "", doc.Path())
}

// TestEditor_OpenExisting tests opening a file with language detection.
func TestEditor_OpenExisting(t *testing.T) {
	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	doc, err := e.Open(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "package main\n", doc.Text())
	assert.Equal(t, "go", doc.Language())
	assert.False(t, doc.Modified())
}

// TestEditor_OpenMissing tests that a missing file yields an empty document
// bound to the path, created on first save.
func TestEditor_OpenMissing(t *testing.T) {
	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "new.txt")

	doc, err := e.Open(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "", doc.Text())
	assert.Equal(t, path, doc.Path())
}

// TestEditor_OpenWithPositions tests that accumulated positions become a
// multi-cursor selection.
func TestEditor_OpenWithPositions(t *testing.T) {
	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "two.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	doc, err := e.Open(path, []Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}})
	require.NoError(t, err)

	sel := doc.Selection()
	require.Len(t, sel.Ranges, 2)
	assert.Equal(t, Range{Anchor: 0, Head: 0}, sel.Ranges[0])
	assert.Equal(t, Range{Anchor: 5, Head: 5}, sel.Ranges[1])
}

// TestEditor_FocusFirst tests that focus returns to the first opened document.
func TestEditor_FocusFirst(t *testing.T) {
	e := newTestEditor(t)
	dir := t.TempDir()
	first, err := e.Open(filepath.Join(dir, "a.txt"), nil)
	require.NoError(t, err)
	_, err = e.Open(filepath.Join(dir, "b.txt"), nil)
	require.NoError(t, err)

	e.FocusFirst()
	assert.Same(t, first, e.Current())
}

// TestEditor_SaveCurrent tests saving and the rebind-to-path form.
func TestEditor_SaveCurrent(t *testing.T) {
	e := newTestEditor(t)
	doc := e.NewScratch()
	doc.Apply(Replace(0, 0, "content"))
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, e.SaveCurrent(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.False(t, doc.Modified())
	assert.Equal(t, path, doc.Path())
}

// TestEditor_SaveCurrent_NoPath tests that saving a pathless scratch document fails.
func TestEditor_SaveCurrent_NoPath(t *testing.T) {
	e := newTestEditor(t)
	e.NewScratch()

	assert.ErrorIs(t, e.SaveCurrent(""), ErrNoPath)
}

// TestEditor_SaveCurrent_InsertFinalNewline tests the trailing newline policy.
func TestEditor_SaveCurrent_InsertFinalNewline(t *testing.T) {
	cfg := config.Default().Editor
	cfg.InsertFinalNewline = true
	e := New(cfg, syntax.DefaultLoader())
	doc := e.NewScratch()
	doc.Apply(Replace(0, 0, "no trailing newline"))

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, e.SaveCurrent(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "no trailing newline"+doc.LineEnding(), string(data))
}

// TestEditor_Open_LogsDocumentID tests that open operations log the document's
// identity for correlation across later save and close entries.
func TestEditor_Open_LogsDocumentID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "quill.log")
	require.NoError(t, logger.Configure("debug", logPath))

	e := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	doc, err := e.Open(path, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), doc.ID.String())
	assert.Contains(t, string(data), "operation=open")
}

// TestEditor_Status tests status message recording and severity.
func TestEditor_Status(t *testing.T) {
	e := newTestEditor(t)

	_, _, ok := e.Status()
	assert.False(t, ok)

	e.SetStatus("saved")
	msg, sev, ok := e.Status()
	require.True(t, ok)
	assert.Equal(t, "saved", msg)
	assert.Equal(t, SeverityInfo, sev)

	e.SetError("boom")
	msg, sev, _ = e.Status()
	assert.Equal(t, "boom", msg)
	assert.Equal(t, SeverityError, sev)
}

// TestEditor_CloseAll_CollectsFlushErrors tests that failed writes surface
// again when the editor closes.
func TestEditor_CloseAll_CollectsFlushErrors(t *testing.T) {
	e := newTestEditor(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ro.txt")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o444))

	doc, err := e.Open(path, nil)
	require.NoError(t, err)
	doc.Apply(Replace(0, 0, "denied"))

	saveErr := e.SaveCurrent("")
	if saveErr == nil {
		t.Skip("filesystem allows writing a read-only file (running as root?)")
	}

	errs := e.CloseAll()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], doc.FlushError())
}

// TestEditor_CloseAll_Clean tests that a clean close reports no errors.
func TestEditor_CloseAll_Clean(t *testing.T) {
	e := newTestEditor(t)
	e.NewScratch()

	assert.Empty(t, e.CloseAll())
	assert.Nil(t, e.Current())
}

// TestEditor_Snapshot tests the annotated debug rendering.
func TestEditor_Snapshot(t *testing.T) {
	e := newTestEditor(t)
	doc := e.NewScratch()
	doc.Apply(Replace(0, 0, "hello").WithSelection(SingleSelection(0, 2)))

	snapshot := e.Snapshot()
	assert.Contains(t, snapshot, "[scratch]")
	assert.Contains(t, snapshot, "#[he|]#llo")
}

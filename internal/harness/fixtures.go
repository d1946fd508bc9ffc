package harness

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempFile is a tracked temporary file fixture. The handle's cached view may
// go stale after the application writes to the path, so readers go through
// Reload.
type TempFile struct {
	file *os.File
	path string
}

// TempFileWithContents creates a uniquely-named temporary file holding the
// given text. The content is flushed and synced before returning, so callers
// can assume it is on durable storage.
func TempFileWithContents(content string) (*TempFile, error) {
	f, err := os.CreateTemp("", "quill-fixture-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, fmt.Errorf("syncing temp file: %w", err)
	}
	return &TempFile{file: f, path: f.Name()}, nil
}

// NewReadonlyTempfile creates a temporary file with write permission stripped,
// for exercising persistence-denied failure paths.
func NewReadonlyTempfile() (*TempFile, error) {
	return NewReadonlyTempfileInDir("")
}

// NewReadonlyTempfileInDir is NewReadonlyTempfile in a specific directory. It
// fails when the filesystem does not support permission changes.
func NewReadonlyTempfileInDir(dir string) (*TempFile, error) {
	f, err := os.CreateTemp(dir, "quill-fixture-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tf := &TempFile{file: f, path: f.Name()}

	if err := f.Chmod(0o444); err != nil {
		tf.Close()
		return nil, fmt.Errorf("stripping write permission: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		tf.Close()
		return nil, fmt.Errorf("checking permissions: %w", err)
	}
	if info.Mode().Perm()&0o222 != 0 {
		tf.Close()
		return nil, fmt.Errorf("filesystem does not support permission changes on %s", tf.path)
	}

	return tf, nil
}

// Path returns the fixture's file path.
func (tf *TempFile) Path() string { return tf.path }

// Reload reopens the tracked handle from disk, discarding any stale cached
// view.
func (tf *TempFile) Reload() error {
	if tf.file != nil {
		tf.file.Close()
	}
	f, err := os.Open(tf.path)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", tf.path, err)
	}
	tf.file = f
	return nil
}

// Contents reloads the file from disk and returns its full contents.
func (tf *TempFile) Contents() (string, error) {
	if err := tf.Reload(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(tf.file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", tf.path, err)
	}
	return string(data), nil
}

// Close closes the handle and removes the file.
func (tf *TempFile) Close() error {
	if tf.file != nil {
		tf.file.Close()
		tf.file = nil
	}
	return os.Remove(tf.path)
}

// AssertFileHasContent reloads the fixture from disk and asserts its full
// contents equal the expected string exactly.
func AssertFileHasContent(t *testing.T, tf *TempFile, content string) {
	t.Helper()
	actual, err := tf.Contents()
	require.NoError(t, err)
	require.Equal(t, content, actual, "file content mismatch for %s", tf.Path())
}

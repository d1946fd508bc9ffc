// Package harness provides the deterministic integration-test harness for
// Quill: it synthesizes key events, drives the application's event loop to a
// quiescent point, and asserts exact resulting state, without real terminal
// I/O or wall-clock timing races.
package harness

import (
	"strings"

	"quill/internal/editor"
)

// LineFeedPolicy specifies how test fixture literals are prepared with respect
// to line endings before they become input or expected-output state.
type LineFeedPolicy int

const (
	// Native replaces every line feed with the host-canonical line ending
	// and appends one if the text does not already end with it.
	Native LineFeedPolicy = iota

	// AsIs does not modify the text in any way. What you give is what you
	// test.
	AsIs
)

// Apply applies the line feed policy to the given text.
func (p LineFeedPolicy) Apply(text string) string {
	if p == AsIs {
		return text
	}

	// fixture literals in this code base are always LF
	out := strings.ReplaceAll(text, "\n", editor.NativeLineEnding)
	if !strings.HasSuffix(out, editor.NativeLineEnding) {
		out += editor.NativeLineEnding
	}
	return out
}

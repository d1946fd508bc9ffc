package harness

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"

	"quill/internal/app"
	"quill/internal/editor"
)

// Run is the convenience entry point for the common single-document case:
// build a default-configured application, splice in the test case's input
// text and selection, run its keys as one step, and assert that the resulting
// document text equals OutText exactly and that exactly one selection exists,
// equal to OutSelection. Multi-cursor results must be asserted manually
// through KeySequences with a custom validation.
func Run(t *testing.T, tc TestCase) {
	t.Helper()
	RunWithBuilder(t, NewAppBuilder(), tc)
}

// RunWithBuilder is Run against an application built from the given builder.
func RunWithBuilder(t *testing.T, b *AppBuilder, tc TestCase) {
	t.Helper()

	a, err := b.Build()
	require.NoError(t, err, "building application")
	a.SpliceDocument(tc.InText, tc.InSelection)

	err = KeySequence(a, tc.InKeys, func(a *app.Application) {
		doc := a.Editor.Current()
		require.NotNil(t, doc, "no focused document after run")

		if doc.Text() != tc.OutText {
			t.Fatalf("document text mismatch after %q:\n%s", tc.InKeys, textDiff(tc.OutText, doc.Text()))
		}

		sel := doc.Selection()
		require.Len(t, sel.Ranges, 1,
			"expected exactly one selection, got %d; assert multi-cursor results with a custom validation", len(sel.Ranges))
		require.Equal(t, tc.OutSelection, sel,
			"selection mismatch after %q:\nexpected: %s\nactual:   %s",
			tc.InKeys, editor.Annotate(tc.OutText, tc.OutSelection), editor.Annotate(doc.Text(), sel))
	}, false)
	require.NoError(t, err)
}

// KeySequenceWithInput splices a test case's input state into the application
// (building a default one when a is nil), then runs its keys as a single step
// with the given validation.
func KeySequenceWithInput(a *app.Application, tc TestCase, validate func(*app.Application), expectExit bool) error {
	if a == nil {
		var err error
		a, err = NewAppBuilder().Build()
		if err != nil {
			return err
		}
	}
	a.SpliceDocument(tc.InText, tc.InSelection)
	return KeySequence(a, tc.InKeys, validate, expectExit)
}

// RunEventLoopUntilIdle drains the application's self-scheduled reactions
// without injecting any input.
func RunEventLoopUntilIdle(a *app.Application) {
	input := make(chan app.Input)
	a.EventLoopUntilIdle(input)
}

// AssertStatusNotError fails the test when the application's most recent
// status message is an error.
func AssertStatusNotError(t *testing.T, a *app.Application) {
	t.Helper()
	msg, sev, ok := a.Status()
	if ok {
		require.NotEqual(t, editor.SeverityError, sev, "unexpected error status: %s", msg)
	}
}

// textDiff renders a readable diff between expected and actual text.
func textDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	return dmp.DiffPrettyText(diffs)
}

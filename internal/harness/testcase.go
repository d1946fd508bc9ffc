package harness

import (
	"fmt"

	"quill/internal/editor"
)

// TestCase bundles an input document state, a key-sequence script, and the
// expected output state into one comparable unit. Input and output are given
// as annotated literals with inline selection markers; construction applies
// the line feed policy first, then strips the markers. A TestCase is immutable
// once built.
type TestCase struct {
	InText      string
	InSelection editor.Selection
	InKeys      string
	OutText     string
	OutSelection editor.Selection

	LineFeed LineFeedPolicy
}

// NewTestCase builds a test case from (input, keys, output) literals with the
// default Native line feed policy.
func NewTestCase(input, keys, output string) (TestCase, error) {
	return NewTestCaseWith(Native, input, keys, output)
}

// NewTestCaseWith builds a test case with an explicit line feed policy. It
// fails fast on malformed annotated literals.
func NewTestCaseWith(policy LineFeedPolicy, input, keys, output string) (TestCase, error) {
	inText, inSel, err := editor.ParseAnnotated(policy.Apply(input))
	if err != nil {
		return TestCase{}, fmt.Errorf("parsing input literal: %w", err)
	}
	outText, outSel, err := editor.ParseAnnotated(policy.Apply(output))
	if err != nil {
		return TestCase{}, fmt.Errorf("parsing output literal: %w", err)
	}

	return TestCase{
		InText:       inText,
		InSelection:  inSel,
		InKeys:       keys,
		OutText:      outText,
		OutSelection: outSel,
		LineFeed:     policy,
	}, nil
}

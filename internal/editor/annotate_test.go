package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseAnnotated_Forward tests a forward primary range.
func TestParseAnnotated_Forward(t *testing.T) {
	text, sel, err := ParseAnnotated("#[ab|]#c")
	require.NoError(t, err)

	assert.Equal(t, "abc", text)
	require.Len(t, sel.Ranges, 1)
	assert.Equal(t, Range{Anchor: 0, Head: 2}, sel.Ranges[0])
	assert.Equal(t, 0, sel.Primary)
}

// TestParseAnnotated_Reversed tests a reversed primary range.
func TestParseAnnotated_Reversed(t *testing.T) {
	text, sel, err := ParseAnnotated("#[|ab]#c")
	require.NoError(t, err)

	assert.Equal(t, "abc", text)
	assert.Equal(t, Range{Anchor: 2, Head: 0}, sel.PrimaryRange())
}

// TestParseAnnotated_Collapsed tests a zero-width cursor marker.
func TestParseAnnotated_Collapsed(t *testing.T) {
	text, sel, err := ParseAnnotated("a#[|]#bc")
	require.NoError(t, err)

	assert.Equal(t, "abc", text)
	assert.Equal(t, Range{Anchor: 1, Head: 1}, sel.PrimaryRange())
	assert.True(t, sel.PrimaryRange().IsEmpty())
}

// TestParseAnnotated_SecondaryRanges tests secondary markers and primary tracking.
func TestParseAnnotated_SecondaryRanges(t *testing.T) {
	text, sel, err := ParseAnnotated("#(a|)#b#[c|]#")
	require.NoError(t, err)

	assert.Equal(t, "abc", text)
	require.Len(t, sel.Ranges, 2)
	assert.Equal(t, Range{Anchor: 0, Head: 1}, sel.Ranges[0])
	assert.Equal(t, Range{Anchor: 2, Head: 3}, sel.Ranges[1])
	assert.Equal(t, 1, sel.Primary)
}

// TestParseAnnotated_Errors tests fail-fast behavior on malformed literals.
func TestParseAnnotated_Errors(t *testing.T) {
	tests := []struct {
		name      string
		annotated string
	}{
		{name: "no primary", annotated: "abc"},
		{name: "only secondary", annotated: "#(a|)#bc"},
		{name: "multiple primaries", annotated: "#[a|]##[b|]#"},
		{name: "unclosed marker", annotated: "#[ab|c"},
		{name: "missing head marker", annotated: "#[ab]#"},
		{name: "head marker in the middle", annotated: "#[a|b]#"},
		{name: "two head markers", annotated: "#[a||]#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseAnnotated(tt.annotated)
			assert.Error(t, err)
		})
	}
}

// TestParseAnnotated_ValidSelections tests that parsed selections satisfy the
// selection invariants over the stripped text.
func TestParseAnnotated_ValidSelections(t *testing.T) {
	for _, annotated := range []string{
		"#[|]#",
		"#[|]#hello",
		"hel#[lo|]#",
		"#(h|)#e#[ll|]#o#(!|)#",
	} {
		text, sel, err := ParseAnnotated(annotated)
		require.NoError(t, err, "parsing %q", annotated)
		assert.NoError(t, sel.Validate(len([]rune(text))), "selection of %q", annotated)
	}
}

// TestAnnotate_RoundTrip tests that Annotate inverts ParseAnnotated.
func TestAnnotate_RoundTrip(t *testing.T) {
	for _, annotated := range []string{
		"#[|]#",
		"#[|]#hello",
		"he#[ll|]#o",
		"he#[|ll]#o",
		"#(a|)#b#[c|]#",
		"one #[two|]# three",
	} {
		text, sel, err := ParseAnnotated(annotated)
		require.NoError(t, err, "parsing %q", annotated)
		assert.Equal(t, annotated, Annotate(text, sel), "round-tripping %q", annotated)
	}
}

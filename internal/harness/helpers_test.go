package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/app"
	"quill/internal/config"
	"quill/internal/editor"
	"quill/internal/keymap"
)

func mustTestCase(t *testing.T, input, keys, output string) TestCase {
	t.Helper()
	tc, err := NewTestCase(input, keys, output)
	require.NoError(t, err)
	return tc
}

// TestRun_Editing drives complete edit scenarios end to end: splice the input
// literal, inject the keys, quiesce, assert text and selection exactly.
func TestRun_Editing(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		keys   string
		output string
	}{
		{name: "delete char forward", input: "#[|]#abc", keys: "x", output: "#[|]#bc"},
		{name: "insert text", input: "#[|]#world", keys: "ihello <esc>", output: "hello #[|]#world"},
		{name: "next word start", input: "#[|]#one two", keys: "w", output: "one #[|]#two"},
		{name: "delete reversed selection", input: "#[|ab]#c", keys: "d", output: "#[|]#c"},
		{name: "change selection", input: "#[ab|]#c", keys: "cxy<esc>", output: "xy#[|]#c"},
		{name: "open line below", input: "#[|]#one", keys: "ohi<esc>", output: "one\nhi#[|]#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Run(t, mustTestCase(t, tt.input, tt.keys, tt.output))
		})
	}
}

// TestRun_DeleteToEmpty tests deleting the whole document. An empty result is
// only expressible under AsIs, since Native always terminates the literal.
func TestRun_DeleteToEmpty(t *testing.T) {
	tc, err := NewTestCaseWith(AsIs, "#[|]#hello", "%d", "#[|]#")
	require.NoError(t, err)

	Run(t, tc)
}

// TestRunWithBuilder_CustomKeymap tests a scenario under overridden key
// bindings.
func TestRunWithBuilder_CustomKeymap(t *testing.T) {
	cfg := config.Default()
	cfg.Keys = keymap.Keymap{Normal: map[string]string{"Q": "select_all"}}

	tc, err := NewTestCaseWith(AsIs, "a#[|]#bc", "Qd", "#[|]#")
	require.NoError(t, err)

	RunWithBuilder(t, NewAppBuilder().WithConfig(cfg), tc)
}

// TestKeySequenceWithInput_MultiCursor tests a multi-cursor result, which Run
// refuses to assert, through a custom validation.
func TestKeySequenceWithInput_MultiCursor(t *testing.T) {
	tc, err := NewTestCaseWith(AsIs, "#[|]#one #(|)#two", "ix<esc>", "x#[|]#one x#(|)#two")
	require.NoError(t, err)

	err = KeySequenceWithInput(nil, tc, func(a *app.Application) {
		doc := a.Editor.Current()
		require.NotNil(t, doc)
		assert.Equal(t, "x#[|]#one x#(|)#two", editor.Annotate(doc.Text(), doc.Selection()))
		AssertStatusNotError(t, a)
	}, false)
	require.NoError(t, err)
}

// TestAssertStatusNotError tests both status polarities against a live
// application.
func TestAssertStatusNotError(t *testing.T) {
	a, err := NewAppBuilder().Build()
	require.NoError(t, err)
	defer a.Close()

	AssertStatusNotError(t, a)

	a.Editor.SetStatus("all good")
	AssertStatusNotError(t, a)
}

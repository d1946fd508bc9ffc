package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultLoader_DetectsByExtension tests extension-based language resolution.
func TestDefaultLoader_DetectsByExtension(t *testing.T) {
	loader := DefaultLoader()

	tests := []struct {
		path     string
		expected string
		found    bool
	}{
		{path: "main.go", expected: "go", found: true},
		{path: "lib.rs", expected: "rust", found: true},
		{path: "notes.md", expected: "markdown", found: true},
		{path: "config.yaml", expected: "yaml", found: true},
		{path: "README", found: false},
		{path: "binary.xyz", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, ok := loader.LanguageFor(tt.path)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.expected, lang.Name)
			}
		})
	}
}

// TestLoaderWithOverrides_ReplacesByName tests that an override replaces the
// default entry with the same name.
func TestLoaderWithOverrides_ReplacesByName(t *testing.T) {
	loader, err := LoaderWithOverrides(`
languages:
  - name: go
    file-types: [go, gotmpl]
    comment-token: "//"
`)
	require.NoError(t, err)

	lang, ok := loader.LanguageFor("page.gotmpl")
	require.True(t, ok)
	assert.Equal(t, "go", lang.Name)

	// unrelated defaults survive
	_, ok = loader.LanguageFor("lib.rs")
	assert.True(t, ok)
}

// TestLoaderWithOverrides_AppendsUnknown tests that a new language is appended.
func TestLoaderWithOverrides_AppendsUnknown(t *testing.T) {
	loader, err := LoaderWithOverrides(`
languages:
  - name: ini
    file-types: [ini]
    comment-token: ";"
`)
	require.NoError(t, err)

	lang, ok := loader.LanguageFor("settings.ini")
	require.True(t, ok)
	assert.Equal(t, "ini", lang.Name)
	assert.Len(t, loader.Languages(), len(DefaultLoader().Languages())+1)
}

// TestLoaderWithOverrides_Malformed tests that a malformed document fails.
func TestLoaderWithOverrides_Malformed(t *testing.T) {
	_, err := LoaderWithOverrides("languages: [unbalanced")
	assert.Error(t, err)
}

// TestLoaderWithOverrides_Empty tests that an empty override document is the default set.
func TestLoaderWithOverrides_Empty(t *testing.T) {
	loader, err := LoaderWithOverrides("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLoader().Languages(), loader.Languages())
}

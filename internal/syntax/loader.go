// Package syntax provides the language configuration loader: a compiled-in
// default language set plus YAML overrides merged on top, with extension-based
// detection.
package syntax

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LanguageConfig describes one language entry.
type LanguageConfig struct {
	Name         string   `yaml:"name"`
	FileTypes    []string `yaml:"file-types"`
	CommentToken string   `yaml:"comment-token"`
}

// Loader resolves language configurations by file path.
type Loader struct {
	languages   []LanguageConfig
	byExtension map[string]int
}

// defaultLanguages is the compiled-in language set.
func defaultLanguages() []LanguageConfig {
	return []LanguageConfig{
		{Name: "go", FileTypes: []string{"go"}, CommentToken: "//"},
		{Name: "rust", FileTypes: []string{"rs"}, CommentToken: "//"},
		{Name: "markdown", FileTypes: []string{"md", "markdown"}, CommentToken: ""},
		{Name: "yaml", FileTypes: []string{"yml", "yaml"}, CommentToken: "#"},
		{Name: "text", FileTypes: []string{"txt"}, CommentToken: ""},
	}
}

// DefaultLoader creates a loader with the compiled-in language set.
func DefaultLoader() *Loader {
	return newLoader(defaultLanguages())
}

// LoaderWithOverrides creates a loader from the compiled-in set with a raw
// YAML document of the form {languages: [...]} merged on top. Entries override
// defaults by name; unknown names are appended.
func LoaderWithOverrides(overrides string) (*Loader, error) {
	var doc struct {
		Languages []LanguageConfig `yaml:"languages"`
	}
	if err := yaml.Unmarshal([]byte(overrides), &doc); err != nil {
		return nil, fmt.Errorf("parsing language overrides: %w", err)
	}

	languages := defaultLanguages()
	for _, override := range doc.Languages {
		replaced := false
		for i, lang := range languages {
			if lang.Name == override.Name {
				languages[i] = override
				replaced = true
				break
			}
		}
		if !replaced {
			languages = append(languages, override)
		}
	}

	return newLoader(languages), nil
}

func newLoader(languages []LanguageConfig) *Loader {
	loader := &Loader{
		languages:   languages,
		byExtension: make(map[string]int),
	}
	for i, lang := range languages {
		for _, ft := range lang.FileTypes {
			loader.byExtension[ft] = i
		}
	}
	return loader
}

// LanguageFor resolves the language configuration for a file path by
// extension. ok is false when no language matches.
func (l *Loader) LanguageFor(path string) (LanguageConfig, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return LanguageConfig{}, false
	}
	i, ok := l.byExtension[ext]
	if !ok {
		return LanguageConfig{}, false
	}
	return l.languages[i], true
}

// Languages returns the loader's language set in resolution order.
func (l *Loader) Languages() []LanguageConfig { return l.languages }

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// TestInput represents a parsed test input file.
type TestInput struct {
	Settings *TestSettings // optional settings header
	Template string        // template source after ---
}

// TestSettings represents the JSON header of a test input.
type TestSettings struct {
	Filename string                 `json:"filename"`
	Tags     map[string]TagSettings `json:"tags"`
}

// TagSettings mirrors a tag definition without depending on the lexer.
type TagSettings struct {
	Block      bool `json:"block"`
	Seekable   bool `json:"seekable"`
	SelfClosed bool `json:"selfClosed"`
	NoNewLine  bool `json:"noNewLine"`
}

// HasTags returns true if the input declares its own tag set.
func (s *TestSettings) HasTags() bool {
	return s != nil && len(s.Tags) > 0
}

// ParseTestInputFile reads and parses a test input file.
func ParseTestInputFile(path string) (*TestInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTestInput(string(content))
}

// ParseTestInput parses test input content.
// Format: JSON settings\n---\ntemplate
func ParseTestInput(content string) (*TestInput, error) {
	input := &TestInput{}

	parts := strings.SplitN(content, "\n---\n", 2)
	if len(parts) < 2 {
		input.Template = content
		return input, nil
	}

	if strings.TrimSpace(parts[0]) != "" {
		input.Settings = &TestSettings{}
		if err := json.Unmarshal([]byte(parts[0]), input.Settings); err != nil {
			return nil, err
		}
	}
	input.Template = parts[1]
	return input, nil
}

// GlobTestInputs finds all test input files in dir.
func GlobTestInputs(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.txt"))
}

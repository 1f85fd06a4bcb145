// Package testutil reads the input fixtures and golden snapshots used by
// the lexer tests.
package testutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot is a parsed golden file.
type Snapshot struct {
	Source    string            // test that owns the snapshot
	InputFile string            // fixture the snapshot was produced from
	Meta      map[string]string // all header fields
	Expected  string            // expected output
}

// ParseSnapshotFile parses a .snap file.
func ParseSnapshotFile(path string) (*Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(string(content))
}

// ParseSnapshot parses the content of a .snap file.
// Format: ---\n<key: value header>\n---\n<expected output>
func ParseSnapshot(content string) (*Snapshot, error) {
	snap := &Snapshot{
		Meta: make(map[string]string),
	}

	content = strings.TrimPrefix(content, "---\n")
	parts := strings.SplitN(content, "\n---\n", 2)
	if len(parts) < 2 {
		snap.Expected = content
		return snap, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(parts[0]))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		snap.Meta[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	snap.Source = snap.Meta["source"]
	snap.InputFile = snap.Meta["input_file"]
	snap.Expected = parts[1]
	return snap, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// SnapshotPath returns the snapshot file for a given input file.
func SnapshotPath(snapshotDir, inputFile string) string {
	name := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	return filepath.Join(snapshotDir, name+".snap")
}

// Normalize trims trailing newlines and terminates the text with exactly
// one, so editors adding a final newline do not break comparisons.
func Normalize(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}

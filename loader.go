package edgelexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathLoader returns a loader reading templates below dir. Names use
// forward slashes and may not escape dir. Names without an extension get
// ".edge" appended.
func PathLoader(dir string) LoaderFunc {
	return func(name string) (string, error) {
		path := dir
		for _, piece := range strings.Split(name, "/") {
			if piece == "" || piece == "." || piece == ".." || strings.Contains(piece, "\\") {
				return "", fmt.Errorf("invalid template name: %s", name)
			}
			path = filepath.Join(path, piece)
		}
		if filepath.Ext(path) == "" {
			path += ".edge"
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(contents), nil
	}
}

// MapLoader returns a loader serving templates from memory.
func MapLoader(sources map[string]string) LoaderFunc {
	return func(name string) (string, error) {
		source, ok := sources[name]
		if !ok {
			return "", os.ErrNotExist
		}
		return source, nil
	}
}

// Package registry loads tag definitions from CUE, JSON and YAML files.
//
// Every file holds a document of the form
//
//	tags: {
//		"if":   {block: true, seekable: true}
//		"else": {}
//	}
//
// and is validated against a closed schema before it is decoded.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"go.yaml.in/yaml/v3"

	"github.com/edgelexer/edgelexer/lexer"
)

// ErrUnsupportedFormat is returned for files that are neither CUE, JSON
// nor YAML.
var ErrUnsupportedFormat = errors.New("registry: unsupported file format")

// Loader reads registry files once, on first use. Later files override
// tags defined by earlier ones.
type Loader struct {
	getTags func() (lexer.Tags, error)
}

// NewLoader creates a loader for the given files.
func NewLoader(filePaths ...string) Loader {
	return Loader{
		getTags: sync.OnceValues(func() (lexer.Tags, error) {
			ctx := cuecontext.New()
			schemaValue := ctx.CompileString("close({" + schema + "})")
			if err := schemaValue.Err(); err != nil {
				return nil, err
			}

			ret := lexer.Tags{}
			for _, filePath := range filePaths {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return nil, fmt.Errorf("registry: %w", err)
				}
				tags, err := decode(ctx, schemaValue, filePath, content)
				if err != nil {
					return nil, fmt.Errorf("registry: %s: %w", filePath, err)
				}
				for name, def := range tags {
					ret[name] = def
				}
			}
			return ret, nil
		}),
	}
}

// Tags returns the merged tag set.
func (l Loader) Tags() (lexer.Tags, error) {
	return l.getTags()
}

// Load reads the given files and returns the merged tag set.
func Load(filePaths ...string) (lexer.Tags, error) {
	return NewLoader(filePaths...).Tags()
}

// Parse decodes a single registry document. The format is picked from
// the extension of filename.
func Parse(filename string, content []byte) (lexer.Tags, error) {
	ctx := cuecontext.New()
	schemaValue := ctx.CompileString("close({" + schema + "})")
	if err := schemaValue.Err(); err != nil {
		return nil, err
	}
	return decode(ctx, schemaValue, filename, content)
}

func decode(ctx *cue.Context, schemaValue cue.Value, filename string, content []byte) (lexer.Tags, error) {
	var value cue.Value
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue", ".json":
		value = ctx.CompileBytes(content, cue.Filename(filename))
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			doc = map[string]any{}
		}
		value = ctx.Encode(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err := value.Err(); err != nil {
		return nil, err
	}

	unified := schemaValue.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	tags := lexer.Tags{}
	tagsValue := unified.LookupPath(cue.ParsePath("tags"))
	if !tagsValue.Exists() {
		return tags, nil
	}
	if err := tagsValue.Decode(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}

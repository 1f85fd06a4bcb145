package registry

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/edgelexer/edgelexer/lexer"
)

type document struct {
	Tags lexer.Tags `yaml:"tags"`
}

// WriteYAML writes tags as a registry document that Load can read back.
func WriteYAML(w io.Writer, tags lexer.Tags) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Tags: tags}); err != nil {
		return err
	}
	return enc.Close()
}

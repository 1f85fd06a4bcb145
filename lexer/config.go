package lexer

// TagDefinition describes how the lexer treats a registered tag.
type TagDefinition struct {
	// Block tags collect children until a matching @end.
	Block bool `json:"block" yaml:"block"`
	// Seekable tags take a parenthesized argument list.
	Seekable bool `json:"seekable" yaml:"seekable"`
	// SelfClosed is informational for downstream compilers; the lexer
	// decides self-closing from the @! prefix.
	SelfClosed bool `json:"selfClosed" yaml:"selfClosed"`
	// NoNewLine suppresses the newline token following the tag.
	NoNewLine bool `json:"noNewLine" yaml:"noNewLine"`
}

// Registry resolves tag names to definitions.
type Registry interface {
	Lookup(name string) (TagDefinition, bool)
}

// Tags is a static registry.
type Tags map[string]TagDefinition

// Lookup implements Registry.
func (t Tags) Lookup(name string) (TagDefinition, bool) {
	def, ok := t[name]
	return def, ok
}

// ClaimFunc claims tags that are not known ahead of time.
type ClaimFunc func(name string) (TagDefinition, bool)

// Lookup implements Registry.
func (fn ClaimFunc) Lookup(name string) (TagDefinition, bool) {
	if fn == nil {
		return TagDefinition{}, false
	}
	return fn(name)
}

type chainRegistry []Registry

func (c chainRegistry) Lookup(name string) (TagDefinition, bool) {
	for _, r := range c {
		if def, ok := r.Lookup(name); ok {
			return def, true
		}
	}
	return TagDefinition{}, false
}

// WithClaim returns a registry that consults registry first and falls
// back to claim for unknown names.
func WithClaim(registry Registry, claim ClaimFunc) Registry {
	if claim == nil {
		if registry == nil {
			return Tags(nil)
		}
		return registry
	}
	if registry == nil {
		return claim
	}
	return chainRegistry{registry, claim}
}

// DefaultFilename is used for error attribution when no filename is set.
const DefaultFilename = "eval.edge"

// Options holds the tokenizer settings.
type Options struct {
	// Filename is recorded on every token and error.
	Filename string
	// OnLine, when set, rewrites each physical line before it is
	// interpreted.
	OnLine func(line string) string
	// ClaimTag is consulted for tag names the registry does not know.
	ClaimTag ClaimFunc
}

// DefaultOptions returns the default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Filename: DefaultFilename,
	}
}

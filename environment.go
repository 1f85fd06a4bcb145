package edgelexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgelexer/edgelexer/lexer"
)

// LoaderFunc is a function that loads template source by name.
type LoaderFunc func(name string) (string, error)

// Environment holds the tag registry and the templates tokenized with it.
// It is safe for concurrent use.
type Environment struct {
	mu          sync.RWMutex
	tags        lexer.Tags // copy on write
	claim       lexer.ClaimFunc
	onLine      func(string) string
	loader      LoaderFunc
	templates   map[string]*Template
	logger      *slog.Logger
	concurrency int
}

// NewEnvironment creates an environment with the default Edge tags.
func NewEnvironment() *Environment {
	env := EmptyEnvironment()
	env.tags = DefaultTags()
	return env
}

// EmptyEnvironment creates an environment with no tags registered.
func EmptyEnvironment() *Environment {
	return &Environment{
		tags:        lexer.Tags{},
		templates:   make(map[string]*Template),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// AddTag registers or replaces a tag. Templates tokenized before the call
// are not affected.
func (e *Environment) AddTag(name string, def lexer.TagDefinition) {
	e.AddTags(lexer.Tags{name: def})
}

// AddTags registers or replaces several tags at once.
func (e *Environment) AddTags(tags lexer.Tags) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := maps.Clone(e.tags)
	maps.Copy(next, tags)
	e.tags = next
}

// RemoveTag unregisters a tag.
func (e *Environment) RemoveTag(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := maps.Clone(e.tags)
	delete(next, name)
	e.tags = next
}

// Tags returns a copy of the registered tags.
func (e *Environment) Tags() lexer.Tags {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.tags)
}

// SetClaimFunc sets the callback consulted for unregistered tag names.
func (e *Environment) SetClaimFunc(claim lexer.ClaimFunc) {
	e.mu.Lock()
	e.claim = claim
	e.mu.Unlock()
}

// SetOnLine sets a hook that rewrites every line before it is tokenized.
func (e *Environment) SetOnLine(fn func(line string) string) {
	e.mu.Lock()
	e.onLine = fn
	e.mu.Unlock()
}

// SetLoader sets the template loader function.
func (e *Environment) SetLoader(loader LoaderFunc) {
	e.mu.Lock()
	e.loader = loader
	e.mu.Unlock()
}

// SetLogger sets the logger. A nil logger discards everything.
func (e *Environment) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.mu.Lock()
	e.logger = logger
	e.mu.Unlock()
}

// SetConcurrency bounds the number of templates TokenizeAll works on at
// the same time. Values below one mean GOMAXPROCS.
func (e *Environment) SetConcurrency(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	e.mu.Lock()
	e.concurrency = n
	e.mu.Unlock()
}

// AddTemplate tokenizes source and stores the result under name.
func (e *Environment) AddTemplate(name, source string) error {
	tmpl, err := e.tokenize(name, source)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.templates[name] = tmpl
	e.mu.Unlock()
	return nil
}

// GetTemplate returns a stored template, loading and tokenizing it through
// the loader on first use.
func (e *Environment) GetTemplate(name string) (*Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	loader := e.loader
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	if loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	source, err := loader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, name, err)
	}
	if err := e.AddTemplate(name, source); err != nil {
		return nil, err
	}

	e.mu.RLock()
	tmpl = e.templates[name]
	e.mu.RUnlock()
	return tmpl, nil
}

// TemplateFromString tokenizes source without storing it.
func (e *Environment) TemplateFromString(source string) (*Template, error) {
	return e.TemplateFromNamedString(lexer.DefaultFilename, source)
}

// TemplateFromNamedString tokenizes source under name without storing it.
func (e *Environment) TemplateFromNamedString(name, source string) (*Template, error) {
	return e.tokenize(name, source)
}

// TokenizeAll loads and tokenizes the named templates concurrently. The
// result is in the order of names. The first failure cancels the
// remaining work and is returned.
func (e *Environment) TokenizeAll(ctx context.Context, names []string) ([]*Template, error) {
	e.mu.RLock()
	limit := e.concurrency
	e.mu.RUnlock()

	ret := make([]*Template, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tmpl, err := e.GetTemplate(name)
			if err != nil {
				return err
			}
			ret[i] = tmpl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (e *Environment) tokenize(name, source string) (*Template, error) {
	e.mu.RLock()
	registry := e.tags
	opts := lexer.Options{
		Filename: name,
		OnLine:   e.onLine,
		ClaimTag: e.claim,
	}
	logger := e.logger
	e.mu.RUnlock()

	start := time.Now()
	tokens, err := lexer.Tokenize(source, registry, opts)
	if err != nil {
		logger.Warn("tokenize failed", "template", name, "err", err)
		return nil, err
	}
	logger.Debug("tokenized template",
		"template", name,
		"tokens", len(tokens),
		"duration", time.Since(start),
	)
	return &Template{name: name, source: source, tokens: tokens}, nil
}

// Template is a tokenized template. Its tokens are shared and must not
// be modified.
type Template struct {
	name   string
	source string
	tokens []lexer.Token
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Source returns the template source.
func (t *Template) Source() string {
	return t.source
}

// Tokens returns the top-level tokens.
func (t *Template) Tokens() []lexer.Token {
	return t.tokens
}

// Nodes returns the serializable form of the token tree.
func (t *Template) Nodes() []lexer.Node {
	return lexer.Nodes(t.tokens)
}

// String renders the token tree for debugging.
func (t *Template) String() string {
	return lexer.FormatTokens(t.tokens)
}

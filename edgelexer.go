// Package edgelexer tokenizes Edge templates.
//
// Edge templates embed three constructs in plain text: tags
// (@if(user) ... @end), interpolations ({{ expr }}, {{{ expr }}}) and
// comments ({{-- text --}}). The lexer turns a template into a tree of
// tokens for a downstream compiler. It does not evaluate anything.
//
// # Quick Start
//
//	env := edgelexer.NewEnvironment()
//	tmpl, err := env.TemplateFromString("Hello {{ name }}!")
//	if err != nil {
//	    log.Fatalf("%+v", err)
//	}
//	fmt.Print(tmpl)
//
// # Tags
//
// Only registered tags are recognized; anything else starting with @ is
// plain text. The Environment starts with the Edge tag set (see
// DefaultTags). More tags can be added one by one, loaded from CUE, JSON
// or YAML files with the registry package, or claimed on demand:
//
//	env.AddTag("svg", lexer.TagDefinition{Seekable: true})
//
//	env.SetClaimFunc(func(name string) (lexer.TagDefinition, bool) {
//	    if strings.HasPrefix(name, "x.") {
//	        return lexer.TagDefinition{Seekable: true}, true
//	    }
//	    return lexer.TagDefinition{}, false
//	})
//
// # Error Handling
//
// Malformed input yields a *Error carrying a code, a message and the
// position of the problem. Formatting the error with %+v prints the
// offending lines of the template:
//
//	_, err := env.TemplateFromString("@if(user)")
//	if edgelexer.IsCode(err, edgelexer.ErrUnclosedTag) {
//	    fmt.Printf("%+v\n", err)
//	}
//
// # Loading Templates
//
// GetTemplate tokenizes a template on first use and caches the result;
// TokenizeAll does the same for many templates concurrently:
//
//	env.SetLoader(edgelexer.PathLoader("views"))
//	templates, err := env.TokenizeAll(ctx, []string{"home", "partials/nav"})
package edgelexer

import "github.com/edgelexer/edgelexer/lexer"

// Token is one node of a token tree.
type Token = lexer.Token

// TagDefinition describes how the lexer treats a registered tag.
type TagDefinition = lexer.TagDefinition

// Tokenize tokenizes source with the default Edge tags.
func Tokenize(name, source string) ([]Token, error) {
	return lexer.Tokenize(source, DefaultTags(), lexer.Options{Filename: name})
}

package edgelexer

import "github.com/edgelexer/edgelexer/lexer"

// DefaultTags returns the tags understood by the Edge template engine.
// The returned map is a fresh copy and may be modified.
func DefaultTags() lexer.Tags {
	return lexer.Tags{
		// conditionals
		"if":     {Block: true, Seekable: true},
		"elseif": {Seekable: true},
		"else":   {},
		"unless": {Block: true, Seekable: true},

		// loops
		"each": {Block: true, Seekable: true},

		// components
		"component": {Block: true, Seekable: true},
		"slot":      {Block: true, Seekable: true},
		"inject":    {Block: true, Seekable: true},

		// partials
		"include":   {Seekable: true},
		"includeIf": {Seekable: true},

		// stacks
		"stack":      {Seekable: true},
		"pushTo":     {Block: true, Seekable: true},
		"pushOnceTo": {Block: true, Seekable: true},

		// variables and evaluation
		"let":      {Seekable: true, NoNewLine: true},
		"assign":   {Seekable: true, NoNewLine: true},
		"eval":     {Seekable: true, NoNewLine: true},
		"newError": {Seekable: true, NoNewLine: true},
		"debugger": {NoNewLine: true},
	}
}

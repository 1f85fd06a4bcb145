// Package lexer provides tokenization for Edge templates.
package lexer

import (
	"fmt"

	"github.com/edgelexer/edgelexer/syntax"
)

// TokenType represents the type of a token.
type TokenType int

const (
	TokenRaw     TokenType = iota // plain text of one line
	TokenNewLine                  // end of a physical line

	// Tags
	TokenTag        // @name(args)
	TokenEscapedTag // @@name(args)

	// Interpolation
	TokenMustache            // {{ expr }}
	TokenSafeMustache        // {{{ expr }}}
	TokenEscapedMustache     // @{{ expr }}
	TokenEscapedSafeMustache // @{{{ expr }}}

	TokenComment // {{-- text --}}
)

// tokenTypeNames maps token types to the names used when tokens are
// serialized.
var tokenTypeNames = map[TokenType]string{
	TokenRaw:                 "raw",
	TokenNewLine:             "newline",
	TokenTag:                 "tag",
	TokenEscapedTag:          "e__tag",
	TokenMustache:            "mustache",
	TokenSafeMustache:        "s__mustache",
	TokenEscapedMustache:     "e__mustache",
	TokenEscapedSafeMustache: "es__mustache",
	TokenComment:             "comment",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MustacheKind distinguishes the four interpolation flavours.
type MustacheKind int

const (
	MustachePlain MustacheKind = iota
	MustacheSafe
	MustacheEscaped
	MustacheEscapedSafe
)

func mustacheKind(safe, escaped bool) MustacheKind {
	switch {
	case safe && escaped:
		return MustacheEscapedSafe
	case safe:
		return MustacheSafe
	case escaped:
		return MustacheEscaped
	default:
		return MustachePlain
	}
}

func (k MustacheKind) String() string {
	switch k {
	case MustachePlain:
		return "plain"
	case MustacheSafe:
		return "safe"
	case MustacheEscaped:
		return "escaped"
	case MustacheEscapedSafe:
		return "escapedSafe"
	default:
		return fmt.Sprintf("MustacheKind(%d)", k)
	}
}

// Safe reports whether the mustache used triple braces.
func (k MustacheKind) Safe() bool {
	return k == MustacheSafe || k == MustacheEscapedSafe
}

// Escaped reports whether the mustache was prefixed with @.
func (k MustacheKind) Escaped() bool {
	return k == MustacheEscaped || k == MustacheEscapedSafe
}

// Token is one node of the token tree. It is implemented by *Raw,
// *NewLine, *Tag, *Mustache and *Comment. Only *Tag has children.
type Token interface {
	Type() TokenType
	Source() string
	isToken()
}

// Location represents a location range in template source.
type Location = syntax.Location

// Position is a point in template source.
type Position = syntax.Position

// Raw is a run of plain text on a single line.
type Raw struct {
	Value    string
	Line     int
	Filename string
}

// NewLine marks the end of Line.
type NewLine struct {
	Line     int
	Filename string
}

// Tag is a registered @tag. Block tags collect the tokens up to their
// closing @end in Children.
type Tag struct {
	Name       string
	Args       string
	Escaped    bool
	SelfClosed bool
	Loc        Location
	Children   []Token
	Filename   string
}

// Mustache is an interpolation expression.
type Mustache struct {
	Kind     MustacheKind
	Args     string
	Loc      Location
	Filename string
}

// Comment is a {{-- --}} comment. Value holds the text between the
// delimiters verbatim.
type Comment struct {
	Value    string
	Loc      Location
	Filename string
}

func (*Raw) Type() TokenType     { return TokenRaw }
func (*NewLine) Type() TokenType { return TokenNewLine }
func (*Comment) Type() TokenType { return TokenComment }

func (t *Tag) Type() TokenType {
	if t.Escaped {
		return TokenEscapedTag
	}
	return TokenTag
}

func (m *Mustache) Type() TokenType {
	switch m.Kind {
	case MustacheSafe:
		return TokenSafeMustache
	case MustacheEscaped:
		return TokenEscapedMustache
	case MustacheEscapedSafe:
		return TokenEscapedSafeMustache
	default:
		return TokenMustache
	}
}

func (r *Raw) Source() string      { return r.Filename }
func (n *NewLine) Source() string  { return n.Filename }
func (t *Tag) Source() string      { return t.Filename }
func (m *Mustache) Source() string { return m.Filename }
func (c *Comment) Source() string  { return c.Filename }

func (*Raw) isToken()      {}
func (*NewLine) isToken()  {}
func (*Tag) isToken()      {}
func (*Mustache) isToken() {}
func (*Comment) isToken()  {}

// String returns a debug representation of the token.
func (r *Raw) String() string {
	return fmt.Sprintf("Raw(%d, %q)", r.Line, r.Value)
}

func (n *NewLine) String() string {
	return fmt.Sprintf("NewLine(%d)", n.Line)
}

func (t *Tag) String() string {
	name := "Tag"
	if t.Escaped {
		name = "EscapedTag"
	}
	bang := ""
	if t.SelfClosed {
		bang = "!"
	}
	return fmt.Sprintf("%s(%s%s, %q) %s", name, bang, t.Name, t.Args, t.Loc)
}

func (m *Mustache) String() string {
	return fmt.Sprintf("Mustache(%s, %q) %s", m.Kind, m.Args, m.Loc)
}

func (c *Comment) String() string {
	return fmt.Sprintf("Comment(%q) %s", c.Value, c.Loc)
}

package lexer

import (
	goerrors "errors"
	"fmt"

	"github.com/edgelexer/edgelexer/internal/errors"
)

// ErrorCode identifies the kind of malformed input.
type ErrorCode int

const (
	// ErrCannotSeekStatement is raised when content follows the closing
	// paren of a tag on the same line.
	ErrCannotSeekStatement ErrorCode = iota
	// ErrUnclosedParen is raised when the input ends inside tag arguments.
	ErrUnclosedParen
	// ErrUnopenedParen is raised when a seekable tag has no "(" on its line.
	ErrUnopenedParen
	// ErrUnclosedCurlyBrace is raised when the input ends inside a mustache
	// or a comment.
	ErrUnclosedCurlyBrace
	// ErrUnclosedTag is raised when a block tag is never closed.
	ErrUnclosedTag
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCannotSeekStatement:
		return "E_CANNOT_SEEK_STATEMENT"
	case ErrUnclosedParen:
		return "E_UNCLOSED_PAREN"
	case ErrUnopenedParen:
		return "E_UNOPENED_PAREN"
	case ErrUnclosedCurlyBrace:
		return "E_UNCLOSED_CURLY_BRACE"
	case ErrUnclosedTag:
		return "E_UNCLOSED_TAG"
	default:
		return fmt.Sprintf("ErrorCode(%d)", c)
	}
}

// ErrAlreadyParsed is returned when Parse is called twice on the same
// Tokenizer.
var ErrAlreadyParsed = goerrors.New("tokenizer: template already parsed")

// Error is a positioned tokenization error.
type Error struct {
	Code     ErrorCode
	Message  string
	Line     int
	Col      int
	Filename string
	Source   string // template source (for error display)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (at %s:%d:%d)", e.Code, e.Message, e.Filename, e.Line, e.Col)
}

// Is matches another *Error with the same code, so callers can write
// errors.Is(err, &lexer.Error{Code: lexer.ErrUnclosedTag}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Pos returns the position the error points at.
func (e *Error) Pos() Position {
	return Position{Line: e.Line, Col: e.Col}
}

// WithSource attaches the template source, enabling the excerpt printed
// by the %+v verb.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// Format implements fmt.Formatter. %+v appends a source excerpt when the
// source is known.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = fmt.Fprint(f, e.Error())
		if f.Flag('+') && e.Source != "" {
			errors.Render(f, errors.Excerpt{
				Source: e.Source,
				Name:   e.Filename,
				Line:   e.Line,
				Col:    e.Col,
				Label:  e.Code.String(),
			})
		}
	case 's':
		_, _ = fmt.Fprint(f, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	}
}

func newError(code ErrorCode, msg string, pos Position, filename string) *Error {
	return &Error{
		Code:     code,
		Message:  msg,
		Line:     pos.Line,
		Col:      pos.Col,
		Filename: filename,
	}
}

func cannotSeekStatement(chars string, pos Position, filename string) *Error {
	return newError(ErrCannotSeekStatement, `Unexpected token "`+chars+`"`, pos, filename)
}

func unclosedParen(pos Position, filename string) *Error {
	return newError(ErrUnclosedParen, `Missing token ")"`, pos, filename)
}

func unopenedParen(pos Position, filename string) *Error {
	return newError(ErrUnopenedParen, `Missing token "("`, pos, filename)
}

func unclosedCurlyBrace(pos Position, filename string) *Error {
	return newError(ErrUnclosedCurlyBrace, `Missing token "}"`, pos, filename)
}

func unclosedTag(name string, pos Position, filename string) *Error {
	return newError(ErrUnclosedTag, "Unclosed tag "+name, pos, filename)
}

package edgelexer

import (
	"errors"

	"github.com/edgelexer/edgelexer/lexer"
)

// Error is a positioned tokenization error.
type Error = lexer.Error

// ErrorCode identifies the kind of malformed input.
type ErrorCode = lexer.ErrorCode

const (
	ErrCannotSeekStatement = lexer.ErrCannotSeekStatement
	ErrUnclosedParen       = lexer.ErrUnclosedParen
	ErrUnopenedParen       = lexer.ErrUnopenedParen
	ErrUnclosedCurlyBrace  = lexer.ErrUnclosedCurlyBrace
	ErrUnclosedTag         = lexer.ErrUnclosedTag
)

// ErrTemplateNotFound is returned when a template is neither registered
// nor found by the loader.
var ErrTemplateNotFound = errors.New("template not found")

// IsCode reports whether err wraps a tokenization error with the given
// code.
func IsCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}

package lexer

import (
	"strings"
	"unicode/utf8"
)

// ScanState is the result of feeding a chunk to a Scanner.
type ScanState int

const (
	ScanSeeking ScanState = iota
	ScanClosed
)

func (s ScanState) String() string {
	if s == ScanClosed {
		return "closed"
	}
	return "seeking"
}

// Scanner looks for the first unnested occurrence of a terminator across
// chunks fed one line at a time. Nested occurrences of the tolerated
// open/close pair keep the scanner open, so for a terminator of ")" and
// the pair ( ) the input "2 + 2 * (3))" matches "2 + 2 * (3)".
//
// Lines are fed separately, with a "\n" chunk between them.
type Scanner struct {
	pattern       string
	tolerateOpen  rune
	tolerateClose rune
	depth         int

	// held is a prefix of pattern found at the end of the previous chunk;
	// it is completed or released by the next chunk.
	held string

	closed   bool
	match    strings.Builder
	leftOver string
	loc      Position
}

// NewScanner creates a scanner for pattern starting at line/col, the
// position right after the construct's opening delimiter.
func NewScanner(pattern string, tolerate [2]rune, line, col int) *Scanner {
	return &Scanner{
		pattern:       pattern,
		tolerateOpen:  tolerate[0],
		tolerateClose: tolerate[1],
		loc:           Position{Line: line, Col: col},
	}
}

// Scan feeds a chunk to the scanner.
func (s *Scanner) Scan(chunk string) ScanState {
	if s.closed {
		return ScanClosed
	}

	if chunk == "\n" {
		s.release()
		s.loc.Line++
		s.loc.Col = 0
		s.match.WriteByte('\n')
		return ScanSeeking
	}

	// Whitespace-only chunks are dropped without touching the match or
	// the column.
	if strings.TrimSpace(chunk) == "" {
		return ScanSeeking
	}

	text := s.held + chunk
	counted := len(s.held)
	s.held = ""

	i := 0
	for i < len(text) {
		rest := text[i:]
		if s.depth == 0 {
			if strings.HasPrefix(rest, s.pattern) {
				i += len(s.pattern)
				s.closed = true
				break
			}
			if len(rest) < len(s.pattern) && strings.HasPrefix(s.pattern, rest) {
				s.held = rest
				i = len(text)
				break
			}
		}
		i += s.consume(rest)
	}

	s.loc.Col += utf8.RuneCountInString(text[counted:i])
	if !s.closed {
		return ScanSeeking
	}
	s.leftOver = text[i:]
	return ScanClosed
}

// consume appends the first rune of text to the match, tracking the
// toleration depth, and returns its size in bytes.
func (s *Scanner) consume(text string) int {
	r, size := utf8.DecodeRuneInString(text)
	switch r {
	case s.tolerateOpen:
		s.depth++
	case s.tolerateClose:
		s.depth--
	}
	s.match.WriteString(text[:size])
	return size
}

// release treats held characters as ordinary content; a terminator never
// spans lines.
func (s *Scanner) release() {
	for s.held != "" {
		size := s.consume(s.held)
		s.held = s.held[size:]
	}
}

// Closed reports whether the terminator has been found.
func (s *Scanner) Closed() bool {
	return s.closed
}

// Match returns the text collected before the terminator.
func (s *Scanner) Match() string {
	return s.match.String()
}

// LeftOver returns the text following the terminator on the closing chunk.
func (s *Scanner) LeftOver() string {
	return s.leftOver
}

// Loc returns the current position. Once closed it points right after the
// terminator.
func (s *Scanner) Loc() Position {
	return s.loc
}

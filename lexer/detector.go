package lexer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// tagPattern matches leading whitespace, one or two @, an optional bang,
// the tag name and up to two trailing spaces.
var tagPattern = regexp.MustCompile(`^(\s*)(@{1,2})(!)?([a-zA-Z._]+)(\s{0,2})`)

// RuntimeTag is a tag detected at the start of a line.
type RuntimeTag struct {
	TagDefinition

	Name       string
	Filename   string
	Line       int
	Escaped    bool // @@name
	SelfClosed bool // @!name
	HasBrace   bool // seekable and "(" follows at Col

	StartCol int // column of the first @
	NameEnd  int // column right after the name
	Col      int // column after the name and up to two spaces
}

// Start returns the position of the first @.
func (t *RuntimeTag) Start() Position {
	return Position{Line: t.Line, Col: t.StartCol}
}

// DetectTag returns the registered tag line starts with, or nil. Names
// the registry does not know are not tags.
func DetectTag(line, filename string, lineNo, col int, registry Registry) *RuntimeTag {
	match := tagPattern.FindStringSubmatch(line)
	if match == nil {
		return nil
	}

	name := match[4]
	if registry == nil {
		return nil
	}
	def, ok := registry.Lookup(name)
	if !ok {
		return nil
	}

	tag := &RuntimeTag{
		TagDefinition: def,
		Name:          name,
		Filename:      filename,
		Line:          lineNo,
		Escaped:       match[2] == "@@",
		SelfClosed:    match[3] != "",
	}

	tag.StartCol = col + utf8.RuneCountInString(match[1])
	tag.NameEnd = tag.StartCol + len(match[2]) + len(match[3]) + len(name)
	tag.Col = tag.NameEnd + utf8.RuneCountInString(match[5])

	// The regexp only matches ASCII after the leading whitespace, so
	// the byte length of the match locates the next character.
	tag.HasBrace = def.Seekable && strings.HasPrefix(line[len(match[0]):], "(")
	return tag
}

// RuntimeMustache is a mustache or comment opening found in a line.
type RuntimeMustache struct {
	Filename  string
	Line      int
	IsComment bool // {{--
	Safe      bool // {{{
	Escaped   bool // @{{

	RealCol int // column of {{ within the scanned text
	Col     int // absolute column of {{
}

// Start returns the position of the first character of the construct,
// which is the escaping @ when present.
func (m *RuntimeMustache) Start() Position {
	if m.Escaped {
		return Position{Line: m.Line, Col: m.Col - 1}
	}
	return Position{Line: m.Line, Col: m.Col}
}

// openLen returns the number of characters in the opening delimiter.
func (m *RuntimeMustache) openLen() int {
	switch {
	case m.IsComment:
		return 4
	case m.Safe:
		return 3
	default:
		return 2
	}
}

// closing returns the terminator the scanner looks for.
func (m *RuntimeMustache) closing() string {
	switch {
	case m.IsComment:
		return "--}}"
	case m.Safe:
		return "}}}"
	default:
		return "}}"
	}
}

// DetectMustache finds the first {{ in line. col is the absolute column
// line starts at, non-zero when line is the rest of a partly consumed
// physical line.
func DetectMustache(line, filename string, lineNo, col int) *RuntimeMustache {
	idx := strings.Index(line, "{{")
	if idx == -1 {
		return nil
	}

	realCol := utf8.RuneCountInString(line[:idx])
	m := &RuntimeMustache{
		Filename: filename,
		Line:     lineNo,
		RealCol:  realCol,
		Col:      col + realCol,
	}

	after := line[idx+2:]
	if strings.HasPrefix(after, "--") {
		m.IsComment = true
		return m
	}

	m.Safe = strings.HasPrefix(after, "{")
	m.Escaped = idx > 0 && line[idx-1] == '@'
	return m
}

package lexer

import (
	"regexp"
	"strings"
)

var lineSplitter = regexp.MustCompile(`\r\n|\r|\n`)

// statement is a construct spanning more than one scan call: either a
// tag waiting for its closing paren or a mustache/comment waiting for
// its closing braces. The tokenizer holds at most one.
type statement interface {
	scanner() *Scanner
}

type pendingTag struct {
	sc  *Scanner
	tag *RuntimeTag
}

type pendingMustache struct {
	sc       *Scanner
	mustache *RuntimeMustache
}

func (p *pendingTag) scanner() *Scanner      { return p.sc }
func (p *pendingMustache) scanner() *Scanner { return p.sc }

// Tokenizer converts a template into a tree of tokens. A Tokenizer
// holds the state of one parse and cannot be reused.
type Tokenizer struct {
	template string
	registry Registry
	opts     Options

	tokens     []Token
	statement  statement
	openedTags []*Tag
	line       int

	dropNewLine    bool
	isLastLineATag bool
	parsed         bool
}

// NewTokenizer creates a Tokenizer for template. Tag names are resolved
// through registry and then through opts.ClaimTag.
func NewTokenizer(template string, registry Registry, opts Options) *Tokenizer {
	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	return &Tokenizer{
		template: template,
		registry: WithClaim(registry, opts.ClaimTag),
		opts:     opts,
	}
}

// Tokenize returns the token tree of template.
func Tokenize(template string, registry Registry, opts Options) ([]Token, error) {
	return NewTokenizer(template, registry, opts).Parse()
}

// Parse tokenizes the template. On malformed input it returns a *Error
// and no tokens.
func (t *Tokenizer) Parse() ([]Token, error) {
	if t.parsed {
		return nil, ErrAlreadyParsed
	}
	t.parsed = true

	for _, line := range lineSplitter.Split(t.template, -1) {
		t.line++
		if t.opts.OnLine != nil {
			line = t.opts.OnLine(line)
		}
		if err := t.processText(line); err != nil {
			return nil, err.WithSource(t.template)
		}
	}

	if err := t.checkForErrors(); err != nil {
		return nil, err.WithSource(t.template)
	}
	return t.tokens, nil
}

// Tokens returns the top-level tokens collected so far.
func (t *Tokenizer) Tokens() []Token {
	return t.tokens
}

// Pending reports whether a tag or mustache statement is still waiting
// for its closing delimiter.
func (t *Tokenizer) Pending() bool {
	return t.statement != nil
}

func (t *Tokenizer) processText(line string) *Error {
	if t.statement != nil {
		t.statement.scanner().Scan("\n")
	}
	switch st := t.statement.(type) {
	case *pendingTag:
		return t.feedTag(st, line)
	case *pendingMustache:
		t.feedMustache(st, line)
		return nil
	}

	if t.isClosingTag(line) {
		t.closeTag(line)
		return nil
	}

	if tag := DetectTag(line, t.opts.Filename, t.line, 0, t.registry); tag != nil {
		// Tags never share a line, so two tags in a row keep the line
		// break between them.
		if t.isLastLineATag {
			t.pushNewLine()
		}
		t.isLastLineATag = true
		return t.processTag(tag, line)
	}
	t.isLastLineATag = false

	t.pushNewLine()
	if !strings.Contains(line, "{{") {
		t.consumeNode(t.rawNode(line))
		return nil
	}
	t.processMustaches(line, 0)
	return nil
}

func (t *Tokenizer) processTag(tag *RuntimeTag, line string) *Error {
	if tag.Seekable && !tag.HasBrace {
		return unopenedParen(Position{Line: tag.Line, Col: tag.Col}, tag.Filename)
	}

	if !tag.Seekable {
		t.consumeTag(tag, "", Position{Line: tag.Line, Col: tag.NameEnd})
		if tag.NoNewLine || strings.HasSuffix(strings.TrimSpace(line), "~") {
			t.dropNewLine = true
		}
		return nil
	}

	st := &pendingTag{
		sc:  NewScanner(")", [2]rune{'(', ')'}, tag.Line, tag.Col+1),
		tag: tag,
	}
	t.statement = st
	return t.feedTag(st, line[byteIndex(line, tag.Col)+1:])
}

func (t *Tokenizer) feedTag(st *pendingTag, text string) *Error {
	if st.sc.Scan(text) != ScanClosed {
		return nil
	}
	t.statement = nil

	leftOver := st.sc.LeftOver()
	switch strings.TrimSpace(leftOver) {
	case "":
	case "~":
		t.dropNewLine = true
	default:
		return cannotSeekStatement(leftOver, st.sc.Loc(), st.tag.Filename)
	}
	if st.tag.NoNewLine {
		t.dropNewLine = true
	}

	t.consumeTag(st.tag, st.sc.Match(), st.sc.Loc())
	return nil
}

// consumeTag materializes a detected tag. Block tags are kept open until
// their end marker; everything else goes straight into the tree.
func (t *Tokenizer) consumeTag(tag *RuntimeTag, args string, end Position) {
	node := &Tag{
		Name:       tag.Name,
		Args:       args,
		Escaped:    tag.Escaped,
		SelfClosed: tag.SelfClosed,
		Loc:        Location{Start: tag.Start(), End: end},
		Filename:   tag.Filename,
	}
	if tag.Block && !tag.SelfClosed {
		t.openedTags = append(t.openedTags, node)
		return
	}
	t.consumeNode(node)
}

// isClosingTag reports whether line closes the most recently opened tag,
// either by name (@endif) or with the generic @end.
func (t *Tokenizer) isClosingTag(line string) bool {
	if len(t.openedTags) == 0 {
		return false
	}
	line = strings.TrimSpace(line)
	end := "@end" + t.openedTags[len(t.openedTags)-1].Name
	return line == end || line == end+"~" || line == "@end" || line == "@end~"
}

func (t *Tokenizer) closeTag(line string) {
	n := len(t.openedTags)
	tag := t.openedTags[n-1]
	t.openedTags = t.openedTags[:n-1]
	t.consumeNode(tag)

	if strings.HasSuffix(strings.TrimSpace(line), "~") {
		t.dropNewLine = true
	}
}

// processMustaches tokenizes text, the rest of the current line starting
// at column col, into raw text, mustaches and comments.
func (t *Tokenizer) processMustaches(text string, col int) {
	for text != "" {
		m := DetectMustache(text, t.opts.Filename, t.line, col)
		if m == nil {
			t.consumeNode(t.rawNode(text))
			return
		}

		idx := strings.Index(text, "{{")
		left := text[:idx]
		if m.Escaped {
			left = left[:len(left)-1]
		}
		if left != "" {
			t.consumeNode(t.rawNode(left))
		}

		open := m.openLen()
		st := &pendingMustache{
			sc:       NewScanner(m.closing(), [2]rune{'{', '}'}, m.Line, m.Col+open),
			mustache: m,
		}
		t.statement = st
		if st.sc.Scan(text[idx+open:]) != ScanClosed {
			return
		}
		t.finishMustache(st)
		text, col = st.sc.LeftOver(), st.sc.Loc().Col
	}
}

func (t *Tokenizer) feedMustache(st *pendingMustache, text string) {
	if st.sc.Scan(text) != ScanClosed {
		return
	}
	t.finishMustache(st)
	t.processMustaches(st.sc.LeftOver(), st.sc.Loc().Col)
}

func (t *Tokenizer) finishMustache(st *pendingMustache) {
	t.statement = nil

	m := st.mustache
	loc := Location{Start: m.Start(), End: st.sc.Loc()}
	if m.IsComment {
		t.consumeNode(&Comment{
			Value:    st.sc.Match(),
			Loc:      loc,
			Filename: m.Filename,
		})
		return
	}
	t.consumeNode(&Mustache{
		Kind:     mustacheKind(m.Safe, m.Escaped),
		Args:     st.sc.Match(),
		Loc:      loc,
		Filename: m.Filename,
	})
}

// pushNewLine emits the newline ending the previous line, unless this is
// the first line or the previous construct asked to drop it.
func (t *Tokenizer) pushNewLine() {
	if t.line == 1 {
		return
	}
	if t.dropNewLine {
		t.dropNewLine = false
		return
	}
	t.consumeNode(&NewLine{Line: t.line - 1, Filename: t.opts.Filename})
}

func (t *Tokenizer) rawNode(value string) *Raw {
	return &Raw{Value: value, Line: t.line, Filename: t.opts.Filename}
}

// consumeNode adds tok to the innermost open tag, or to the top level.
func (t *Tokenizer) consumeNode(tok Token) {
	if n := len(t.openedTags); n > 0 {
		t.openedTags[n-1].Children = append(t.openedTags[n-1].Children, tok)
		return
	}
	t.tokens = append(t.tokens, tok)
}

func (t *Tokenizer) checkForErrors() *Error {
	switch st := t.statement.(type) {
	case *pendingTag:
		return unclosedParen(Position{Line: st.tag.Line, Col: st.tag.Col}, st.tag.Filename)
	case *pendingMustache:
		return unclosedCurlyBrace(Position{Line: st.mustache.Line, Col: st.mustache.Col}, st.mustache.Filename)
	}

	if n := len(t.openedTags); n > 0 {
		tag := t.openedTags[n-1]
		return unclosedTag(tag.Name, tag.Loc.Start, tag.Filename)
	}
	return nil
}

// byteIndex converts a column into a byte offset within s.
func byteIndex(s string, col int) int {
	for i := range s {
		if col == 0 {
			return i
		}
		col--
	}
	return len(s)
}

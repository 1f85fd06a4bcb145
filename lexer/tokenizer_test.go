package lexer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testTags = Tags{
	"if":        {Block: true, Seekable: true},
	"each":      {Block: true, Seekable: true},
	"component": {Block: true, Seekable: true},
	"else":      {},
	"include":   {Seekable: true},
	"debugger":  {NoNewLine: true},
}

const file = DefaultFilename

func loc(sl, sc, el, ec int) Location {
	return Location{Start: Position{Line: sl, Col: sc}, End: Position{Line: el, Col: ec}}
}

func mustTokenize(t *testing.T, src string, opts Options) []Token {
	t.Helper()
	tokens, err := Tokenize(src, testTags, opts)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	return tokens
}

func tokenizeErr(t *testing.T, src string) *Error {
	t.Helper()
	tokens, err := Tokenize(src, testTags, DefaultOptions())
	if err == nil {
		t.Fatalf("Tokenize(%q) succeeded with %v, want error", src, tokens)
	}
	if tokens != nil {
		t.Errorf("Tokenize(%q) returned tokens alongside an error", src)
	}
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error %v is not a *Error", err)
	}
	return lexErr
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "raw",
			src:  "Hello world",
			want: []Token{&Raw{Value: "Hello world", Line: 1, Filename: file}},
		},
		{
			name: "raw lines",
			src:  "Hello\n\nworld",
			want: []Token{
				&Raw{Value: "Hello", Line: 1, Filename: file},
				&NewLine{Line: 1, Filename: file},
				&Raw{Value: "", Line: 2, Filename: file},
				&NewLine{Line: 2, Filename: file},
				&Raw{Value: "world", Line: 3, Filename: file},
			},
		},
		{
			name: "crlf",
			src:  "Hello\r\nworld",
			want: []Token{
				&Raw{Value: "Hello", Line: 1, Filename: file},
				&NewLine{Line: 1, Filename: file},
				&Raw{Value: "world", Line: 2, Filename: file},
			},
		},
		{
			name: "mustache",
			src:  "Hello {{ username }}",
			want: []Token{
				&Raw{Value: "Hello ", Line: 1, Filename: file},
				&Mustache{Kind: MustachePlain, Args: " username ", Loc: loc(1, 6, 1, 20), Filename: file},
			},
		},
		{
			name: "safe mustache",
			src:  "{{{ html }}}",
			want: []Token{
				&Mustache{Kind: MustacheSafe, Args: " html ", Loc: loc(1, 0, 1, 12), Filename: file},
			},
		},
		{
			name: "escaped mustache",
			src:  "Hello @{{ username }}",
			want: []Token{
				&Raw{Value: "Hello ", Line: 1, Filename: file},
				&Mustache{Kind: MustacheEscaped, Args: " username ", Loc: loc(1, 6, 1, 21), Filename: file},
			},
		},
		{
			name: "escaped safe mustache",
			src:  "@{{{ html }}}",
			want: []Token{
				&Mustache{Kind: MustacheEscapedSafe, Args: " html ", Loc: loc(1, 0, 1, 13), Filename: file},
			},
		},
		{
			name: "many mustaches on a line",
			src:  "{{ a }} and {{ b }}!",
			want: []Token{
				&Mustache{Args: " a ", Loc: loc(1, 0, 1, 7), Filename: file},
				&Raw{Value: " and ", Line: 1, Filename: file},
				&Mustache{Args: " b ", Loc: loc(1, 12, 1, 19), Filename: file},
				&Raw{Value: "!", Line: 1, Filename: file},
			},
		},
		{
			name: "mustache with nested braces",
			src:  "{{ fn({ a: 1 }) }}",
			want: []Token{
				&Mustache{Args: " fn({ a: 1 }) ", Loc: loc(1, 0, 1, 18), Filename: file},
			},
		},
		{
			name: "multiline mustache",
			src:  "{{\n  user\n}} ok",
			want: []Token{
				&Mustache{Args: "\n  user\n", Loc: loc(1, 0, 3, 2), Filename: file},
				&Raw{Value: " ok", Line: 3, Filename: file},
			},
		},
		{
			name: "comment",
			src:  "{{-- note --}}",
			want: []Token{
				&Comment{Value: " note ", Loc: loc(1, 0, 1, 14), Filename: file},
			},
		},
		{
			name: "multiline comment",
			src:  "{{--\n hi\n--}}",
			want: []Token{
				&Comment{Value: "\n hi\n", Loc: loc(1, 0, 3, 4), Filename: file},
			},
		},
		{
			name: "unicode columns",
			src:  "é {{ x }}",
			want: []Token{
				&Raw{Value: "é ", Line: 1, Filename: file},
				&Mustache{Args: " x ", Loc: loc(1, 2, 1, 9), Filename: file},
			},
		},
		{
			name: "block tag",
			src:  "@if(username)\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "username", Loc: loc(1, 0, 1, 13), Filename: file},
			},
		},
		{
			name: "block tag with children",
			src:  "@if(username)\n  Hello\n@endif",
			want: []Token{
				&Tag{Name: "if", Args: "username", Loc: loc(1, 0, 1, 13), Filename: file, Children: []Token{
					&NewLine{Line: 1, Filename: file},
					&Raw{Value: "  Hello", Line: 2, Filename: file},
				}},
			},
		},
		{
			name: "indented tag",
			src:  "  @if (a)\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "a", Loc: loc(1, 2, 1, 9), Filename: file},
			},
		},
		{
			name: "nested parens",
			src:  "@if((2 + 2) * 3 === 12)\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "(2 + 2) * 3 === 12", Loc: loc(1, 0, 1, 23), Filename: file},
			},
		},
		{
			name: "multiline args",
			src:  "@if(\n  username\n)\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "\n  username\n", Loc: loc(1, 0, 3, 1), Filename: file},
			},
		},
		{
			name: "escaped tag",
			src:  "@@if(username)\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "username", Escaped: true, Loc: loc(1, 0, 1, 14), Filename: file},
			},
		},
		{
			name: "self closed tag",
			src:  "@!component('button')",
			want: []Token{
				&Tag{Name: "component", Args: "'button'", SelfClosed: true, Loc: loc(1, 0, 1, 21), Filename: file},
			},
		},
		{
			name: "unregistered tag is raw",
			src:  "@foo('x')",
			want: []Token{&Raw{Value: "@foo('x')", Line: 1, Filename: file}},
		},
		{
			name: "inline tag",
			src:  "@if(a)\nyes\n@else\nno\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "a", Loc: loc(1, 0, 1, 6), Filename: file, Children: []Token{
					&NewLine{Line: 1, Filename: file},
					&Raw{Value: "yes", Line: 2, Filename: file},
					&Tag{Name: "else", Loc: loc(3, 0, 3, 5), Filename: file},
					&NewLine{Line: 3, Filename: file},
					&Raw{Value: "no", Line: 4, Filename: file},
				}},
			},
		},
		{
			name: "consecutive tags",
			src:  "@include('a')\n@include('b')",
			want: []Token{
				&Tag{Name: "include", Args: "'a'", Loc: loc(1, 0, 1, 13), Filename: file},
				&NewLine{Line: 1, Filename: file},
				&Tag{Name: "include", Args: "'b'", Loc: loc(2, 0, 2, 13), Filename: file},
			},
		},
		{
			name: "nested blocks",
			src:  "@each(user in users)\n@if(user.admin)\n{{ user.name }}\n@end\n@end",
			want: []Token{
				&Tag{Name: "each", Args: "user in users", Loc: loc(1, 0, 1, 20), Filename: file, Children: []Token{
					&NewLine{Line: 1, Filename: file},
					&Tag{Name: "if", Args: "user.admin", Loc: loc(2, 0, 2, 15), Filename: file, Children: []Token{
						&NewLine{Line: 2, Filename: file},
						&Mustache{Args: " user.name ", Loc: loc(3, 0, 3, 15), Filename: file},
					}},
				}},
			},
		},
		{
			name: "tilde after tag",
			src:  "@if(a)~\nHello\n@end",
			want: []Token{
				&Tag{Name: "if", Args: "a", Loc: loc(1, 0, 1, 6), Filename: file, Children: []Token{
					&Raw{Value: "Hello", Line: 2, Filename: file},
				}},
			},
		},
		{
			name: "tilde after end",
			src:  "@if(a)\nHi\n@end~\nBye",
			want: []Token{
				&Tag{Name: "if", Args: "a", Loc: loc(1, 0, 1, 6), Filename: file, Children: []Token{
					&NewLine{Line: 1, Filename: file},
					&Raw{Value: "Hi", Line: 2, Filename: file},
				}},
				&Raw{Value: "Bye", Line: 4, Filename: file},
			},
		},
		{
			name: "no new line tag",
			src:  "@debugger\nHello",
			want: []Token{
				&Tag{Name: "debugger", Loc: loc(1, 0, 1, 9), Filename: file},
				&Raw{Value: "Hello", Line: 2, Filename: file},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustTokenize(t, tt.src, DefaultOptions())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		code    ErrorCode
		message string
		pos     Position
	}{
		{
			name:    "content after tag",
			src:     "@include('foo') hello world",
			code:    ErrCannotSeekStatement,
			message: `Unexpected token " hello world"`,
			pos:     Position{Line: 1, Col: 15},
		},
		{
			name:    "content after multiline tag",
			src:     "@if(\na\n) x\n@end",
			code:    ErrCannotSeekStatement,
			message: `Unexpected token " x"`,
			pos:     Position{Line: 3, Col: 1},
		},
		{
			name:    "missing open paren",
			src:     "@if\n(username)\n@end",
			code:    ErrUnopenedParen,
			message: `Missing token "("`,
			pos:     Position{Line: 1, Col: 3},
		},
		{
			name:    "missing close paren",
			src:     "@if(\nusername",
			code:    ErrUnclosedParen,
			message: `Missing token ")"`,
			pos:     Position{Line: 1, Col: 3},
		},
		{
			name:    "missing close brace",
			src:     "Hello {{ username",
			code:    ErrUnclosedCurlyBrace,
			message: `Missing token "}"`,
			pos:     Position{Line: 1, Col: 6},
		},
		{
			name:    "safe mustache closed as plain",
			src:     "{{{ x }}",
			code:    ErrUnclosedCurlyBrace,
			message: `Missing token "}"`,
			pos:     Position{Line: 1, Col: 0},
		},
		{
			name:    "unclosed comment",
			src:     "a\n{{-- note",
			code:    ErrUnclosedCurlyBrace,
			message: `Missing token "}"`,
			pos:     Position{Line: 2, Col: 0},
		},
		{
			name:    "unclosed tag",
			src:     "@if(username)\nHello",
			code:    ErrUnclosedTag,
			message: "Unclosed tag if",
			pos:     Position{Line: 1, Col: 0},
		},
		{
			name:    "unclosed outer tag",
			src:     "@if(a)\n  @each(b)\n  @end",
			code:    ErrUnclosedTag,
			message: "Unclosed tag if",
			pos:     Position{Line: 1, Col: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tokenizeErr(t, tt.src)
			if err.Code != tt.code {
				t.Errorf("Code = %s, want %s", err.Code, tt.code)
			}
			if err.Message != tt.message {
				t.Errorf("Message = %q, want %q", err.Message, tt.message)
			}
			if err.Pos() != tt.pos {
				t.Errorf("Pos() = %v, want %v", err.Pos(), tt.pos)
			}
			if err.Filename != file {
				t.Errorf("Filename = %q, want %q", err.Filename, file)
			}
			if err.Source != tt.src {
				t.Errorf("Source was not attached")
			}
		})
	}
}

func TestTokenizeBlockTagsAreClosed(t *testing.T) {
	for _, src := range []string{
		"@if(a)",
		"@if(a)\n@each(b)\n@end",
		"@component('x')\n{{ y }}",
	} {
		_, err := Tokenize(src, testTags, DefaultOptions())
		if !errors.Is(err, &Error{Code: ErrUnclosedTag}) {
			t.Errorf("Tokenize(%q) error = %v, want E_UNCLOSED_TAG", src, err)
		}
	}
}

func TestTokenizeSpansMatchSource(t *testing.T) {
	// Single line constructs span exactly the characters they were
	// written with, delimiters included.
	src := `Hi {{ a }} @{{ b }} {{{ c }}} {{-- d --}}`
	tokens := mustTokenize(t, src, DefaultOptions())

	want := []string{"{{ a }}", "@{{ b }}", "{{{ c }}}", "{{-- d --}}"}
	var got []string
	for _, tok := range tokens {
		var l Location
		switch tok := tok.(type) {
		case *Mustache:
			l = tok.Loc
		case *Comment:
			l = tok.Loc
		default:
			continue
		}
		if !l.SingleLine() {
			t.Fatalf("%v spans more than one line", tok)
		}
		runes := []rune(src)
		got = append(got, string(runes[l.Start.Col:l.End.Col]))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeFilename(t *testing.T) {
	opts := DefaultOptions()
	opts.Filename = "views/home.edge"
	tokens := mustTokenize(t, "@if(a)\n{{ b }}\n@end", opts)
	Walk(tokens, func(tok Token, _ int) bool {
		if tok.Source() != "views/home.edge" {
			t.Errorf("%v: Source() = %q", tok, tok.Source())
		}
		return true
	})

	_, err := Tokenize("{{ x", testTags, opts)
	var lexErr *Error
	if !errors.As(err, &lexErr) || lexErr.Filename != "views/home.edge" {
		t.Errorf("error filename not set: %v", err)
	}
}

func TestTokenizeEmptyFilenameUsesDefault(t *testing.T) {
	tokens := mustTokenize(t, "x", Options{})
	if got := tokens[0].Source(); got != DefaultFilename {
		t.Errorf("Source() = %q, want %q", got, DefaultFilename)
	}
}

func TestTokenizeClaimTag(t *testing.T) {
	var claimed []string
	opts := DefaultOptions()
	opts.ClaimTag = func(name string) (TagDefinition, bool) {
		claimed = append(claimed, name)
		if name == "svg" {
			return TagDefinition{Seekable: true}, true
		}
		return TagDefinition{}, false
	}

	tokens := mustTokenize(t, "@svg('logo')\n@if(a)\n@end\n@unknown", opts)
	want := []Token{
		&Tag{Name: "svg", Args: "'logo'", Loc: loc(1, 0, 1, 12), Filename: file},
		&NewLine{Line: 1, Filename: file},
		&Tag{Name: "if", Args: "a", Loc: loc(2, 0, 2, 6), Filename: file},
		&NewLine{Line: 3, Filename: file},
		&Raw{Value: "@unknown", Line: 4, Filename: file},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"svg", "unknown"}, claimed); diff != "" {
		t.Errorf("claimed names mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOnLine(t *testing.T) {
	opts := DefaultOptions()
	opts.OnLine = func(line string) string {
		return strings.TrimPrefix(line, "> ")
	}
	tokens := mustTokenize(t, "> @if(a)\n> {{ b }}\n> @end", opts)
	want := []Token{
		&Tag{Name: "if", Args: "a", Loc: loc(1, 0, 1, 6), Filename: file, Children: []Token{
			&NewLine{Line: 1, Filename: file},
			&Mustache{Args: " b ", Loc: loc(2, 0, 2, 7), Filename: file},
		}},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerSingleUse(t *testing.T) {
	tk := NewTokenizer("Hello", testTags, DefaultOptions())
	if tk.Pending() {
		t.Fatal("fresh tokenizer has a pending statement")
	}
	if _, err := tk.Parse(); err != nil {
		t.Fatalf("first Parse() failed: %v", err)
	}
	if len(tk.Tokens()) != 1 {
		t.Errorf("Tokens() = %v, want one token", tk.Tokens())
	}
	if _, err := tk.Parse(); !errors.Is(err, ErrAlreadyParsed) {
		t.Errorf("second Parse() error = %v, want ErrAlreadyParsed", err)
	}
}

func TestTokenizerPendingAfterError(t *testing.T) {
	tk := NewTokenizer("{{ x", testTags, DefaultOptions())
	if _, err := tk.Parse(); err == nil {
		t.Fatal("expected error")
	}
	if !tk.Pending() {
		t.Error("expected the unclosed mustache to be pending")
	}
}

func TestErrorVerboseFormat(t *testing.T) {
	err := tokenizeErr(t, "@if(username)\nHello")
	out := fmt.Sprintf("%+v", err)
	for _, want := range []string{
		"E_UNCLOSED_TAG: Unclosed tag if (at eval.edge:1:0)",
		" eval.edge ",
		"   1 > @if(username)\n",
		"     i ^ E_UNCLOSED_TAG\n",
		"   2 | Hello\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("%%+v output missing %q:\n%s", want, out)
		}
	}
	if short := fmt.Sprintf("%v", err); strings.Contains(short, "\n") {
		t.Errorf("%%v output should be a single line, got %q", short)
	}
}

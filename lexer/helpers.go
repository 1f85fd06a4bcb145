package lexer

// IsTag reports whether tok is a tag, escaped or not. When name is given
// the tag must also have that name.
func IsTag(tok Token, name ...string) bool {
	tag, ok := tok.(*Tag)
	if !ok {
		return false
	}
	return len(name) == 0 || tag.Name == name[0]
}

// IsEscapedTag reports whether tok is an @@ tag, optionally with the
// given name.
func IsEscapedTag(tok Token, name ...string) bool {
	tag, ok := tok.(*Tag)
	if !ok || !tag.Escaped {
		return false
	}
	return len(name) == 0 || tag.Name == name[0]
}

// IsMustache reports whether tok is any kind of mustache.
func IsMustache(tok Token) bool {
	_, ok := tok.(*Mustache)
	return ok
}

// IsSafeMustache reports whether tok is a {{{ }}} mustache.
func IsSafeMustache(tok Token) bool {
	m, ok := tok.(*Mustache)
	return ok && m.Kind.Safe()
}

// IsEscapedMustache reports whether tok is an @{{ }} mustache.
func IsEscapedMustache(tok Token) bool {
	m, ok := tok.(*Mustache)
	return ok && m.Kind.Escaped()
}

// LineAndColumn returns where tok starts. Raw and newline tokens only
// know their line and report column 0.
func LineAndColumn(tok Token) (line, col int) {
	switch t := tok.(type) {
	case *Raw:
		return t.Line, 0
	case *NewLine:
		return t.Line, 0
	case *Tag:
		return t.Loc.Start.Line, t.Loc.Start.Col
	case *Mustache:
		return t.Loc.Start.Line, t.Loc.Start.Col
	case *Comment:
		return t.Loc.Start.Line, t.Loc.Start.Col
	}
	return 0, 0
}

// Walk visits tokens depth-first, children after their tag. Returning
// false from fn skips the children of the visited tag.
func Walk(tokens []Token, fn func(tok Token, depth int) bool) {
	walk(tokens, 0, fn)
}

func walk(tokens []Token, depth int, fn func(Token, int) bool) {
	for _, tok := range tokens {
		if !fn(tok, depth) {
			continue
		}
		if tag, ok := tok.(*Tag); ok {
			walk(tag.Children, depth+1, fn)
		}
	}
}

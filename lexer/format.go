package lexer

import (
	"fmt"
	"strings"
)

// FormatTokens renders a token tree one token per line, children
// indented under their tag.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	Walk(tokens, func(tok Token, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(tok.(fmt.Stringer).String())
		sb.WriteString("\n")
		return true
	})
	return sb.String()
}

// Node is the serializable form of a token.
type Node struct {
	Type       TokenType  `json:"type" yaml:"type"`
	Filename   string     `json:"filename" yaml:"filename"`
	Line       int        `json:"line,omitempty" yaml:"line,omitempty"`
	Value      *string    `json:"value,omitempty" yaml:"value,omitempty"`
	Properties *NodeProps `json:"properties,omitempty" yaml:"properties,omitempty"`
	Loc        *Location  `json:"loc,omitempty" yaml:"loc,omitempty"`
	Children   []Node     `json:"children,omitempty" yaml:"children,omitempty"`
}

// NodeProps holds the properties of tag and mustache nodes.
type NodeProps struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	JSArg      string `json:"jsArg" yaml:"jsArg"`
	SelfClosed *bool  `json:"selfclosed,omitempty" yaml:"selfclosed,omitempty"`
}

// Nodes converts a token tree into its serializable form.
func Nodes(tokens []Token) []Node {
	nodes := make([]Node, 0, len(tokens))
	for _, tok := range tokens {
		nodes = append(nodes, node(tok))
	}
	return nodes
}

func node(tok Token) Node {
	n := Node{Type: tok.Type(), Filename: tok.Source()}
	switch t := tok.(type) {
	case *Raw:
		n.Line = t.Line
		n.Value = &t.Value
	case *NewLine:
		n.Line = t.Line
	case *Tag:
		selfClosed := t.SelfClosed
		n.Properties = &NodeProps{Name: t.Name, JSArg: t.Args, SelfClosed: &selfClosed}
		n.Loc = &t.Loc
		n.Children = Nodes(t.Children)
	case *Mustache:
		n.Properties = &NodeProps{JSArg: t.Args}
		n.Loc = &t.Loc
	case *Comment:
		n.Value = &t.Value
		n.Loc = &t.Loc
	}
	return n
}

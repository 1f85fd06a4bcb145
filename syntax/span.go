package syntax

import "fmt"

// Position is a point in template source. Line is 1-indexed, Col is
// 0-indexed and counts characters from the start of the line.
type Position struct {
	Line int `json:"line" yaml:"line"`
	Col  int `json:"col" yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// Location represents a location range in template source. End points
// right after the last character of the construct.
type Location struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

func (l Location) String() string {
	return l.Start.String() + "-" + l.End.String()
}

// SingleLine reports whether the location starts and ends on the same line.
func (l Location) SingleLine() bool {
	return l.Start.Line == l.End.Line
}

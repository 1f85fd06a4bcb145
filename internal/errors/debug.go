// Package errors renders template source excerpts for positioned errors.
package errors

import (
	"fmt"
	"io"
	"strings"
)

// Excerpt describes the part of a template an error points at.
type Excerpt struct {
	Source string // full template source
	Name   string // template name, shown in the title bar
	Line   int    // 1-indexed
	Col    int    // 0-indexed
	Width  int    // number of carets, at least one is drawn
	Label  string // printed after the carets
}

// Render writes the excerpt: up to three lines of context around the
// failing line and a caret line under the failing column.
func Render(w io.Writer, ex Excerpt) {
	title := fmt.Sprintf(" %s ", templateTitle(ex.Name))
	_, _ = fmt.Fprint(w, "\n")
	_, _ = fmt.Fprintln(w, centerLine(title, '-', 79))

	lines := SplitLines(ex.Source)
	lineIdx := ex.Line - 1
	if lineIdx >= len(lines) {
		lineIdx = len(lines) - 1
	}
	if lineIdx < 0 {
		lineIdx = 0
	}

	skip := lineIdx - 3
	if skip < 0 {
		skip = 0
	}
	for idx := skip; idx < lineIdx && idx < len(lines); idx++ {
		_, _ = fmt.Fprintf(w, "%4d | %s\n", idx+1, lines[idx])
	}

	if lineIdx < len(lines) {
		_, _ = fmt.Fprintf(w, "%4d > %s\n", lineIdx+1, lines[lineIdx])
	}

	col := ex.Col
	if col < 0 {
		col = 0
	}
	_, _ = fmt.Fprintf(
		w,
		"     i %s%s %s\n",
		strings.Repeat(" ", col),
		strings.Repeat("^", caretWidth(ex.Width)),
		ex.Label,
	)

	for idx := lineIdx + 1; idx <= lineIdx+3 && idx < len(lines); idx++ {
		_, _ = fmt.Fprintf(w, "%4d | %s\n", idx+1, lines[idx])
	}
	_, _ = fmt.Fprint(w, strings.Repeat("~", 79))
}

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines splits source on CR, LF and CRLF.
func SplitLines(source string) []string {
	return strings.Split(newlineReplacer.Replace(source), "\n")
}

func caretWidth(width int) int {
	if width < 1 {
		return 1
	}
	return width
}

func templateTitle(name string) string {
	if name == "" {
		return "Template Source"
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) == 0 {
		return "Template Source"
	}
	return parts[len(parts)-1]
}

func centerLine(title string, fill rune, width int) string {
	if len(title) >= width {
		return title
	}
	pad := width - len(title)
	left := pad / 2
	right := pad - left
	return strings.Repeat(string(fill), left) + title + strings.Repeat(string(fill), right)
}

// Package source owns the source text of a translation unit and renders
// caret-pointed diagnostics against it. It is the leaf of the compiler
// pipeline: every other component holds a *Source (or a Loc into one) but
// never mutates it.
package source

import "strings"

// Source is an immutable (optional path, code) pair shared by every token
// produced from it. Tokens keep only a Loc into the Source, never a copy
// of the text.
type Source struct {
	// Path is empty when the source was read from standard input.
	Path string
	Code string

	lines []string
}

// New wraps code (and its optional path) into a Source, appending a
// trailing newline if one is not already present so that line-based
// scanning in the lexer and preprocessor never has to special-case the
// last line.
func New(path, code string) *Source {
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return &Source{Path: path, Code: code}
}

// Loc is a (row, col) position, both 1-based, reported in diagnostics and
// carried by every token and AST node.
type Loc struct {
	Row int
	Col int
}

// DisplayPath returns the path used in diagnostic headers: the real path,
// or "-" when the source was read from standard input.
func (s *Source) DisplayPath() string {
	if s.Path == "" {
		return "-"
	}
	return s.Path
}

func (s *Source) line(row int) string {
	if s.lines == nil {
		// Code always ends in "\n" (see New), so the final split element
		// is an empty trailing line we don't want to index into.
		all := strings.Split(s.Code, "\n")
		if len(all) > 0 {
			all = all[:len(all)-1]
		}
		s.lines = all
	}
	if row < 1 || row > len(s.lines) {
		return ""
	}
	return s.lines[row-1]
}

// tabWidth is the column width a tab expands to for caret alignment, per
// §4.1: "tabs widened to 4 spaces, caret column corrected accordingly".
const tabWidth = 4

// renderLineAndCaret returns the source line with tabs expanded, plus the
// column (1-based, in the expanded line) the caret should land under.
func (s *Source) renderLineAndCaret(loc Loc) (string, int) {
	raw := s.line(loc.Row)

	var widened strings.Builder
	caretCol := loc.Col
	for i, r := range raw {
		col := i + 1
		if col >= loc.Col {
			break
		}
		if r == '\t' {
			caretCol += tabWidth - 1
		}
	}
	for _, r := range raw {
		if r == '\t' {
			widened.WriteString(strings.Repeat(" ", tabWidth))
		} else {
			widened.WriteRune(r)
		}
	}

	return widened.String(), caretCol
}

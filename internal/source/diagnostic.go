package source

import (
	"fmt"
	"strings"
)

// Category groups a Diagnostic by the pipeline stage that raised it, per
// §7's error categories. It carries no behavior of its own; it exists so
// callers (tests, the CLI) can distinguish "the lexer choked" from "this
// is a type error" without parsing the message text.
type Category string

const (
	CategoryIO           Category = "io"
	CategoryLexical      Category = "lexical"
	CategoryPreprocessor Category = "preprocessor"
	CategorySyntax       Category = "syntax"
	CategorySemantic     Category = "semantic"
)

// Diagnostic is a fatal compiler error tied to a location in a Source. It
// implements error so it can be returned and wrapped like any other Go
// error; §4.1/§7 require that compilation never partially recovers from
// one, so every pipeline stage returns at the first Diagnostic it builds
// and nothing downstream runs. Only the CLI entry point (cmd/cc64) turns
// a returned Diagnostic into a process exit — library code here never
// calls os.Exit itself, which keeps the pipeline testable.
type Diagnostic struct {
	Category Category
	Message  string
	Src      *Source
	Loc      Loc
}

// Fatalf builds a Diagnostic at loc in src, categorized as category.
func Fatalf(src *Source, loc Loc, category Category, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Src:      src,
		Loc:      loc,
	}
}

// Error implements the error interface and renders the full caret-pointed
// diagnostic: "path:row: <line text>", a caret under the offending
// column, then the message — matching §4.1 exactly.
func (d *Diagnostic) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s:%d: ", d.Src.DisplayPath(), d.Loc.Row)
	prefixLen := sb.Len()

	line, caretCol := d.Src.renderLineAndCaret(d.Loc)
	sb.WriteString(line)
	sb.WriteByte('\n')

	sb.WriteString(strings.Repeat(" ", prefixLen+caretCol-1))
	sb.WriteString("^ ")
	sb.WriteString(d.Message)

	return sb.String()
}

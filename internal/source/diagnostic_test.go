package source

import (
	"strings"
	"testing"
)

func TestNewAppendsTrailingNewline(t *testing.T) {
	s := New("a.c", "int main(){return 0;}")
	if !strings.HasSuffix(s.Code, "\n") {
		t.Fatalf("expected trailing newline, got %q", s.Code)
	}

	s2 := New("a.c", "int main(){return 0;}\n")
	if strings.Count(s2.Code, "\n") != 1 {
		t.Fatalf("expected New to not double the existing newline, got %q", s2.Code)
	}
}

func TestDisplayPath(t *testing.T) {
	if got := New("", "x\n").DisplayPath(); got != "-" {
		t.Fatalf("expected - for stdin source, got %q", got)
	}
	if got := New("foo.c", "x\n").DisplayPath(); got != "foo.c" {
		t.Fatalf("expected foo.c, got %q", got)
	}
}

func TestDiagnosticCaretAlignment(t *testing.T) {
	src := New("a.c", "int x = y;\n")
	d := Fatalf(src, Loc{Row: 1, Col: 9}, CategorySemantic, "undeclared identifier %q", "y")

	lines := strings.Split(d.Error(), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), d.Error())
	}
	if lines[0] != "a.c:1: int x = y;" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	caretIdx := strings.IndexByte(lines[1], '^')
	// "a.c:1: " is 7 runes, plus col-1 (8) spaces before the 'y' column.
	if caretIdx != len("a.c:1: ")+8 {
		t.Fatalf("caret misaligned: line=%q idx=%d", lines[1], caretIdx)
	}
	if lines[2] != `undeclared identifier "y"` {
		t.Fatalf("unexpected message line: %q", lines[2])
	}
}

func TestDiagnosticCaretWidensTabs(t *testing.T) {
	// Columns: 1='\t' 2='i' 3='n' 4='t' 5='\t' 6='x' 7=';'
	src := New("a.c", "\tint\tx;\n")
	d := Fatalf(src, Loc{Row: 1, Col: 6}, CategorySyntax, "stray token")
	lines := strings.Split(d.Error(), "\n")

	widenedLine := "    int    x;" // two tabs each expanded to 4 spaces
	if lines[0] != "a.c:1: "+widenedLine {
		t.Fatalf("unexpected widened line: %q", lines[0])
	}

	caretIdx := strings.IndexByte(lines[1], '^')
	wantIdx := len("a.c:1: ") + strings.IndexByte(widenedLine, 'x')
	if caretIdx != wantIdx {
		t.Fatalf("caret misaligned: got %d want %d (line=%q)", caretIdx, wantIdx, lines[1])
	}
}

package lexer

import (
	"testing"

	"github.com/cwbudde/cc64/internal/source"
	"github.com/cwbudde/cc64/internal/token"
)

func mustLex(t *testing.T, code string) []token.Token {
	t.Helper()
	src := source.New("test.c", code)
	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexSkipsLineComments(t *testing.T) {
	toks := mustLex(t, "1 // comment\n2")
	var nums []int64
	for _, tok := range toks {
		if tok.Kind == token.Num {
			nums = append(nums, tok.IntVal)
		}
	}
	if len(nums) != 2 || nums[0] != 1 || nums[1] != 2 {
		t.Fatalf("expected [1 2], got %v", nums)
	}
}

func TestLexSkipsBlockComments(t *testing.T) {
	toks := mustLex(t, "1 /* multi\nline */ 2")
	var nums []int64
	for _, tok := range toks {
		if tok.Kind == token.Num {
			nums = append(nums, tok.IntVal)
		}
	}
	if len(nums) != 2 {
		t.Fatalf("expected two numbers, got %v", nums)
	}
}

func TestLexUnterminatedBlockCommentErrors(t *testing.T) {
	src := source.New("test.c", "1 /* never closed")
	_, err := Lex(src)
	if err == nil {
		t.Fatalf("expected an unterminated comment diagnostic")
	}
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	toks := mustLex(t, "int x return")
	if toks[0].Kind != token.Keyword || toks[0].Str != "int" {
		t.Fatalf("expected int to lex as a keyword, got %+v", toks[0])
	}
	if toks[1].Kind != token.Ident || toks[1].Str != "x" {
		t.Fatalf("expected x to lex as an identifier, got %+v", toks[1])
	}
	if toks[2].Kind != token.Keyword || toks[2].Str != "return" {
		t.Fatalf("expected return to lex as a keyword, got %+v", toks[2])
	}
}

func TestLexCharLiteralDecodesEscape(t *testing.T) {
	toks := mustLex(t, `'\n'`)
	if toks[0].Kind != token.Num || toks[0].IntVal != 10 {
		t.Fatalf("expected '\\n' to decode to 10, got %+v", toks[0])
	}
}

func TestLexCharLiteralOctalEscape(t *testing.T) {
	toks := mustLex(t, `'\101'`)
	if toks[0].Kind != token.Num || toks[0].IntVal != 'A' {
		t.Fatalf("expected octal escape to decode to 'A' (65), got %+v", toks[0])
	}
}

func TestLexHexEscapeClampsOnOverflow(t *testing.T) {
	toks := mustLex(t, `'\xfff'`)
	if toks[0].Kind != token.Num || toks[0].IntVal != -1 {
		t.Fatalf("expected \\xfff to clamp to 255 (-1 as a signed char), got %+v", toks[0])
	}
}

func TestLexEmptyCharLiteralErrors(t *testing.T) {
	src := source.New("test.c", "''")
	_, err := Lex(src)
	if err == nil {
		t.Fatalf("expected an empty character constant diagnostic")
	}
}

func TestLexStringLiteralAppendsNUL(t *testing.T) {
	toks := mustLex(t, `"hi"`)
	if toks[0].Kind != token.Str {
		t.Fatalf("expected a string token, got %+v", toks[0])
	}
	if len(toks[0].Bytes) != 3 || toks[0].Bytes[2] != 0 {
		t.Fatalf("expected \"hi\\0\", got %v", toks[0].Bytes)
	}
}

func TestLexNewlinesBecomeLineFeedTokens(t *testing.T) {
	toks := mustLex(t, "1\n2")
	ks := kinds(toks)
	foundLineFeed := false
	for _, k := range ks {
		if k == token.LineFeed {
			foundLineFeed = true
		}
	}
	if !foundLineFeed {
		t.Fatalf("expected a LineFeed token between the two numbers, got %v", ks)
	}
}

func TestLexTwoCharPunctuatorsPreferredOverOneChar(t *testing.T) {
	toks := mustLex(t, "<=")
	if toks[0].Kind != token.Punctuator || toks[0].Str != "<=" {
		t.Fatalf("expected a single <= punctuator, got %+v", toks[0])
	}
}

func TestLexUnknownCharacterErrors(t *testing.T) {
	src := source.New("test.c", "1 @ 2")
	_, err := Lex(src)
	if err == nil {
		t.Fatalf("expected an unexpected character diagnostic")
	}
}

func TestDumpRendersOneTokenPerLine(t *testing.T) {
	toks := mustLex(t, "1 x")
	out := Dump(toks)
	if out == "" {
		t.Fatalf("expected non-empty dump output")
	}
}

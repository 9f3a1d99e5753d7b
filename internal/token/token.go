// Package token defines the lexical token vocabulary shared by the lexer,
// preprocessor, and parser.
package token

import "github.com/cwbudde/cc64/internal/source"

// Kind discriminates the token variants of §3: Punctuator, Ident,
// Keyword, Num, Str, LineFeed, EOF.
type Kind int

const (
	Punctuator Kind = iota
	Ident
	Keyword
	Num
	Str
	LineFeed
	EOF
)

func (k Kind) String() string {
	switch k {
	case Punctuator:
		return "Punctuator"
	case Ident:
		return "Ident"
	case Keyword:
		return "Keyword"
	case Num:
		return "Num"
	case Str:
		return "Str"
	case LineFeed:
		return "LineFeed"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is the discriminated value described in §3: every variant carries
// (token_str, source, loc); Num and Str additionally carry a decoded
// value.
type Token struct {
	Kind Kind
	Str  string
	Src  *source.Source
	Loc  source.Loc

	IntVal int64  // valid when Kind == Num (and for CHAR literals, see lexer)
	Bytes  []byte // valid when Kind == Str; includes the trailing NUL
}

// Keywords is the fixed keyword set of §4.2. The lexer consults this to
// decide whether a maximal identifier-shaped run becomes a Keyword or an
// Ident token.
var Keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
	"while":  true,
	"int":    true,
	"char":   true,
	"sizeof": true,
	"struct": true,
	"union":  true,
}

// Punctuators is the fixed punctuator set of §4.2, used for longest-match
// scanning. Ordered longest-first is not required here — the lexer tries
// two-byte candidates before falling back to one byte.
var Punctuators = []string{
	"==", "!=", "<=", ">=", "->",
	"<", ">", "=", "+", "-", "*", "/", "(", ")", ";", "{", "}", "&", ",", "[", "]", ".", "#",
}

// IsIdentStart reports whether r can start an identifier: [A-Za-z_].
func IsIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdentCont reports whether r can continue an identifier: [A-Za-z0-9_].
func IsIdentCont(r rune) bool {
	return IsIdentStart(r) || (r >= '0' && r <= '9')
}

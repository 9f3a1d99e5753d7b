package parser

import (
	"fmt"

	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/source"
	"github.com/cwbudde/cc64/internal/token"
)

// maxParams is the ABI-register-set bound of §4.4: at most six
// parameters per function definition, and at most six arguments per call.
const maxParams = 6

// Parser walks a flat token vector (the preprocessor's output) building
// the AST and populating a ParseContext as it goes.
type Parser struct {
	toks []token.Token
	pos  int
	ctx  *ParseContext
}

// Parse runs the whole recursive-descent parse over toks (which must end
// in a single EOF token, as produced by the lexer/preprocessor) and
// returns the populated ParseContext, or the first diagnostic raised.
func Parse(toks []token.Token) (*ParseContext, *source.Diagnostic) {
	p := &Parser{toks: filterLineFeeds(toks), ctx: New()}
	if err := p.program(); err != nil {
		return nil, p.toDiagnostic(err)
	}
	return p.ctx, nil
}

// filterLineFeeds drops LineFeed tokens: they exist only so the
// preprocessor can delimit directive lines; the parser's grammar never
// references them.
func filterLineFeeds(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.LineFeed {
			out = append(out, t)
		}
	}
	return out
}

// --- cursor helpers ---------------------------------------------------------

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *Parser) atPunct(s string) bool {
	c := p.cur()
	return c.Kind == token.Punctuator && c.Str == s
}

func (p *Parser) atKeyword(s string) bool {
	c := p.cur()
	return c.Kind == token.Keyword && c.Str == s
}

func (p *Parser) atTypeSpecifier() bool {
	return p.atKeyword("int") || p.atKeyword("char") || p.atKeyword("struct") || p.atKeyword("union")
}

func (p *Parser) consumePunct(s string) (token.Token, error) {
	if !p.atPunct(s) {
		return token.Token{}, p.errf("expected %q", s)
	}
	return p.advance(), nil
}

func (p *Parser) consumeIdent() (token.Token, error) {
	if p.cur().Kind != token.Ident {
		return token.Token{}, p.errf("expected an identifier")
	}
	return p.advance(), nil
}

// parseError is an internal syntax/semantic failure tied to a token.
// semantic distinguishes a failed ast-package type-construction (§4.4's
// typing table) from a plain grammar mismatch, so toDiagnostic can file
// it under the right §7 category.
type parseError struct {
	tok      token.Token
	msg      string
	semantic bool
}

func (e *parseError) Error() string { return e.msg }

func (p *Parser) errf(format string, args ...any) error {
	return &parseError{tok: p.cur(), msg: fmt.Sprintf(format, args...)}
}

// wrapSemantic turns an error returned by an ast package constructor into
// a parseError categorized as semantic.
func wrapSemantic(tok token.Token, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*ast.Error); ok {
		return &parseError{tok: tok, msg: ae.Msg, semantic: true}
	}
	return &parseError{tok: tok, msg: err.Error(), semantic: true}
}

// toDiagnostic converts a parse-time error into a caret-pointed
// source.Diagnostic, defaulting the category to Syntax unless the error
// was raised by the ast package's semantic builders (wrapped with the
// offending token but no category, so Semantic is the right default
// since every ast.Error originates from §4.4's typing table).
func (p *Parser) toDiagnostic(err error) *source.Diagnostic {
	pe, ok := err.(*parseError)
	if !ok {
		return source.Fatalf(nil, source.Loc{}, source.CategorySyntax, "%s", err.Error())
	}
	category := source.CategorySyntax
	if pe.semantic {
		category = source.CategorySemantic
	}
	return source.Fatalf(pe.tok.Src, pe.tok.Loc, category, "%s", pe.msg)
}

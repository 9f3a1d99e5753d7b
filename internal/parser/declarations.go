package parser

import (
	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/token"
	"github.com/cwbudde/cc64/internal/types"
)

// program implements the top production: a sequence of function
// definitions and global declarations, each disambiguated via the
// bounded lookahead of §4.4.
func (p *Parser) program() error {
	for !p.atEOF() {
		if err := p.topLevelItem(); err != nil {
			return err
		}
	}
	return nil
}

// topLevelItem parses one function_definition or global_declaration. It
// consumes type_specifier "*"* ident as a shared prefix, then branches on
// whether "(" follows. If the declarator looks like a function signature
// but doesn't pan out into "(" params ")" "{" (the only two failure
// points: a malformed parameter list, or a missing body), the whole
// probe is undone via Snapshot/Restore (§4.4, §9) and reported as a
// syntax error rather than silently misparsing it as something else.
func (p *Parser) topLevelItem() error {
	mark := p.pos
	snap := p.ctx.Snapshot()

	base, err := p.typeSpecifier()
	if err != nil {
		return err
	}
	// global_declaration's declarator is entirely optional: a bare
	// `struct P { ... };` defines (or references) a tag without
	// declaring any variable of it.
	if p.atPunct(";") {
		p.advance()
		return nil
	}
	typ, nameTok, err := p.starsAndIdent(base)
	if err != nil {
		return err
	}

	if p.atPunct("(") {
		params, perr := p.paramList()
		if perr == nil && p.atPunct("{") {
			return p.functionDefinition(nameTok, params)
		}
		p.pos = mark
		p.ctx.Restore(snap)
		if perr != nil {
			return perr
		}
		return p.errf("expected '{' to begin function body")
	}

	return p.globalDeclaration(typ, nameTok)
}

// functionDefinition parses the remainder of a function after its name
// and parameter list have already been consumed up to (but not
// including) the opening "{": EnterFunction, declare each parameter into
// the function's top-level scope, parse the body, and register it.
func (p *Parser) functionDefinition(nameTok token.Token, params []paramSpec) error {
	p.ctx.EnterFunction(nameTok.Str)

	paramNodes := make([]*ast.Node, 0, len(params))
	for _, ps := range params {
		offset, err := p.ctx.DeclareLocal(ps.name, ps.typ)
		if err != nil {
			return wrapSemantic(ps.tok, err)
		}
		paramNodes = append(paramNodes, ast.NewLVar(ps.tok, ps.typ, offset))
	}

	if _, err := p.consumePunct("{"); err != nil {
		return err
	}
	body, err := p.compoundStmt()
	if err != nil {
		return err
	}

	p.ctx.LeaveFunction(paramNodes, body)
	return nil
}

// paramSpec is one parsed (possibly array-decayed) function parameter.
type paramSpec struct {
	name string
	typ  *types.Type
	tok  token.Token
}

// paramList parses "(" (param ("," param)*)? ")", already positioned on
// the opening "(". Arrays decay to pointers, matching C's parameter
// convention. At most maxParams entries are allowed (§4.4).
func (p *Parser) paramList() ([]paramSpec, error) {
	if _, err := p.consumePunct("("); err != nil {
		return nil, err
	}
	var params []paramSpec
	if p.atPunct(")") {
		p.advance()
		return params, nil
	}
	for {
		base, err := p.typeSpecifier()
		if err != nil {
			return nil, err
		}
		typ, nameTok, err := p.starsAndIdent(base)
		if err != nil {
			return nil, err
		}
		if typ.Kind == types.KindArray {
			typ = types.NewPointer(typ.Base)
		}
		if len(params) >= maxParams {
			return nil, &parseError{tok: nameTok, msg: "more than six parameters", semantic: true}
		}
		params = append(params, paramSpec{name: nameTok.Str, typ: typ, tok: nameTok})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.consumePunct(")"); err != nil {
		return nil, err
	}
	return params, nil
}

// globalDeclaration parses the remainder of `type_specifier declarator
// ("=" initializer)? ("," ...)* ";"` given that the first declarator's
// type and name token have already been parsed by the caller.
func (p *Parser) globalDeclaration(typ *types.Type, nameTok token.Token) error {
	for {
		var init []*ast.Node
		if p.atPunct("=") {
			p.advance()
			var err error
			init, err = p.globalInitializer(typ, nameTok)
			if err != nil {
				return err
			}
		}
		if err := p.ctx.DeclareGlobal(nameTok.Str, typ, init); err != nil {
			return wrapSemantic(nameTok, err)
		}

		if !p.atPunct(",") {
			break
		}
		p.advance()
		base := baseOf(typ)
		var err error
		typ, nameTok, err = p.starsAndIdent(base)
		if err != nil {
			return err
		}
	}
	_, err := p.consumePunct(";")
	return err
}

// baseOf strips pointer/array wrapping applied by a previous declarator
// in the same declaration so that subsequent comma-separated declarators
// start from the shared type_specifier again (`int *p, a[3];` applies
// "*" and "[3]" independently to the declaration's base type, "int").
func baseOf(t *types.Type) *types.Type {
	for t.Kind == types.KindPointer || t.Kind == types.KindArray {
		t = t.Base
	}
	return t
}

// typeSpecifier parses `"int" | "char" | struct_or_union_specifier`.
func (p *Parser) typeSpecifier() (*types.Type, error) {
	switch {
	case p.atKeyword("int"):
		p.advance()
		return types.Int, nil
	case p.atKeyword("char"):
		p.advance()
		return types.Char, nil
	case p.atKeyword("struct"):
		p.advance()
		return p.structOrUnionBody(types.NewStruct)
	case p.atKeyword("union"):
		p.advance()
		return p.structOrUnionBody(types.NewUnion)
	default:
		return nil, p.errf("expected a type specifier")
	}
}

type aggregateCtor func(tag string, fields []types.Member, defTok token.Token) (*types.Type, error)

// structOrUnionBody parses the part of struct_or_union_specifier after
// the leading "struct"/"union" keyword: an optional tag, then either a
// "{" member_decls "}" definition or a bare reference to a
// previously-declared tag.
func (p *Parser) structOrUnionBody(ctor aggregateCtor) (*types.Type, error) {
	defTok := p.cur()
	var tag string
	if p.cur().Kind == token.Ident {
		tag = p.advance().Str
	}

	if !p.atPunct("{") {
		if tag == "" {
			return nil, p.errf("expected a tag or '{' after struct/union")
		}
		t, ok := p.ctx.LookupTag(tag)
		if !ok {
			return nil, &parseError{tok: defTok, msg: "undefined tag '" + tag + "'", semantic: true}
		}
		return t, nil
	}
	p.advance() // "{"

	var fields []types.Member
	for !p.atPunct("}") {
		base, err := p.typeSpecifier()
		if err != nil {
			return nil, err
		}
		for {
			typ, nameTok, err := p.starsAndIdent(base)
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.Member{Name: nameTok.Str, Type: typ})
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.consumePunct(";"); err != nil {
			return nil, err
		}
	}
	p.advance() // "}"

	t, err := ctor(tag, fields, defTok)
	if err != nil {
		return nil, wrapSemantic(defTok, err)
	}
	if tag != "" {
		if err := p.ctx.DeclareTag(tag, t); err != nil {
			return nil, wrapSemantic(defTok, err)
		}
	}
	return t, nil
}

// starsAndIdent parses `"*"* ident ("[" constant_expr "]")*` given the
// already-parsed base type, returning the fully-built type and the name
// token.
func (p *Parser) starsAndIdent(base *types.Type) (*types.Type, token.Token, error) {
	t := base
	for p.atPunct("*") {
		p.advance()
		t = types.NewPointer(t)
	}
	nameTok, err := p.consumeIdent()
	if err != nil {
		return nil, token.Token{}, err
	}

	var dims []int64
	for p.atPunct("[") {
		p.advance()
		boundTok := p.cur()
		expr, err := p.expr()
		if err != nil {
			return nil, token.Token{}, err
		}
		n, ok := evalConst(expr)
		if !ok || n <= 0 {
			return nil, token.Token{}, &parseError{tok: boundTok, msg: "array bound must be a positive constant expression", semantic: true}
		}
		dims = append(dims, n)
		if _, err := p.consumePunct("]"); err != nil {
			return nil, token.Token{}, err
		}
	}
	for i := len(dims) - 1; i >= 0; i-- {
		t = types.NewArray(t, dims[i])
	}
	return t, nameTok, nil
}

// evalConst attempts to fold n to a compile-time integer constant,
// recursing through Num and the arithmetic operators (§4.4's "try
// evaluate to an integer"). Used for array bounds and scalar global
// initializers.
func evalConst(n *ast.Node) (int64, bool) {
	switch n.Kind {
	case ast.KindNum:
		return n.Val, true
	case ast.KindAdd:
		l, lok := evalConst(n.Lhs)
		r, rok := evalConst(n.Rhs)
		return l + r, lok && rok
	case ast.KindSub:
		l, lok := evalConst(n.Lhs)
		r, rok := evalConst(n.Rhs)
		return l - r, lok && rok
	case ast.KindMul:
		l, lok := evalConst(n.Lhs)
		r, rok := evalConst(n.Rhs)
		return l * r, lok && rok
	case ast.KindDiv:
		l, lok := evalConst(n.Lhs)
		r, rok := evalConst(n.Rhs)
		if !lok || !rok || r == 0 {
			return 0, false
		}
		return l / r, true
	case ast.KindEq:
		return evalConstCompare(n, func(l, r int64) bool { return l == r })
	case ast.KindNeq:
		return evalConstCompare(n, func(l, r int64) bool { return l != r })
	case ast.KindLT:
		return evalConstCompare(n, func(l, r int64) bool { return l < r })
	case ast.KindLTE:
		return evalConstCompare(n, func(l, r int64) bool { return l <= r })
	default:
		return 0, false
	}
}

// evalConstCompare folds a comparison node's operands and applies cmp,
// matching §4.5's "1 if true else 0" contract for relational operators.
func evalConstCompare(n *ast.Node, cmp func(l, r int64) bool) (int64, bool) {
	l, lok := evalConst(n.Lhs)
	r, rok := evalConst(n.Rhs)
	if !lok || !rok {
		return 0, false
	}
	if cmp(l, r) {
		return 1, true
	}
	return 0, true
}

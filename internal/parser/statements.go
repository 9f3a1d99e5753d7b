package parser

import "github.com/cwbudde/cc64/internal/ast"

// compoundStmt parses the statement sequence up to and including the
// closing "}", with the opening "{" already consumed by the caller
// (§4.4's grammar factors braces into the caller, `stmt := ... "{"
// compound_stmt`). It pushes a child scope on entry and pops it on exit.
func (p *Parser) compoundStmt() (*ast.Node, error) {
	tok := p.cur()
	p.ctx.PushScope()
	defer p.ctx.PopScope()

	var body []*ast.Node
	for !p.atPunct("}") {
		if p.atEOF() {
			return nil, p.errf("unterminated block, expected '}'")
		}
		items, err := p.blockItem()
		if err != nil {
			return nil, err
		}
		body = append(body, items...)
	}
	p.advance() // "}"
	return ast.NewBlock(tok, body), nil
}

// blockItem parses one element of a compound_stmt's body: either a local
// declaration (which can expand to several assignment statements for an
// initialized array) or a single ordinary statement.
func (p *Parser) blockItem() ([]*ast.Node, error) {
	if p.atTypeSpecifier() {
		return p.localDeclaration()
	}
	s, err := p.stmt()
	if err != nil {
		return nil, err
	}
	return []*ast.Node{s}, nil
}

// localDeclaration parses `type_specifier (declarator ("=" initializer)?
// ("," ...)*)? ";"` inside a function body, declaring each name into the
// current scope and returning the runtime statements its initializer (if
// any) expands to.
func (p *Parser) localDeclaration() ([]*ast.Node, error) {
	base, err := p.typeSpecifier()
	if err != nil {
		return nil, err
	}
	if p.atPunct(";") {
		p.advance()
		return nil, nil
	}

	var stmts []*ast.Node
	for {
		typ, nameTok, err := p.starsAndIdent(base)
		if err != nil {
			return nil, err
		}
		offset, err := p.ctx.DeclareLocal(nameTok.Str, typ)
		if err != nil {
			return nil, wrapSemantic(nameTok, err)
		}
		lvar := ast.NewLVar(nameTok, typ, offset)

		if p.atPunct("=") {
			p.advance()
			init, err := p.localInitializer(nameTok, typ, lvar)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, init...)
		}

		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.consumePunct(";"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// stmt parses one statement per §4.4's `stmt` production (excluding
// local declarations, handled by blockItem before stmt is ever called).
func (p *Parser) stmt() (*ast.Node, error) {
	switch {
	case p.atKeyword("return"):
		tok := p.advance()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumePunct(";"); err != nil {
			return nil, err
		}
		return ast.NewReturn(tok, e), nil

	case p.atPunct("{"):
		p.advance()
		return p.compoundStmt()

	case p.atKeyword("if"):
		tok := p.advance()
		if _, err := p.consumePunct("("); err != nil {
			return nil, err
		}
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumePunct(")"); err != nil {
			return nil, err
		}
		then, err := p.stmt()
		if err != nil {
			return nil, err
		}
		var els *ast.Node
		if p.atKeyword("else") {
			p.advance()
			els, err = p.stmt()
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIf(tok, cond, then, els), nil

	case p.atKeyword("for"):
		tok := p.advance()
		if _, err := p.consumePunct("("); err != nil {
			return nil, err
		}
		init, err := p.exprStmt()
		if err != nil {
			return nil, err
		}
		var cond *ast.Node
		if !p.atPunct(";") {
			cond, err = p.expr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.consumePunct(";"); err != nil {
			return nil, err
		}
		var inc *ast.Node
		if !p.atPunct(")") {
			inc, err = p.expr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.consumePunct(")"); err != nil {
			return nil, err
		}
		body, err := p.stmt()
		if err != nil {
			return nil, err
		}
		return ast.NewFor(tok, init, cond, inc, body), nil

	case p.atKeyword("while"):
		tok := p.advance()
		if _, err := p.consumePunct("("); err != nil {
			return nil, err
		}
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumePunct(")"); err != nil {
			return nil, err
		}
		body, err := p.stmt()
		if err != nil {
			return nil, err
		}
		return ast.NewFor(tok, nil, cond, nil, body), nil

	case p.atPunct(";"):
		tok := p.advance()
		return ast.NewBlock(tok, nil), nil

	default:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumePunct(";"); err != nil {
			return nil, err
		}
		return e, nil
	}
}

// exprStmt parses a for-loop's init clause: `expr? ";"`, consuming the
// terminating ";" itself.
func (p *Parser) exprStmt() (*ast.Node, error) {
	if p.atPunct(";") {
		p.advance()
		return nil, nil
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumePunct(";"); err != nil {
		return nil, err
	}
	return e, nil
}

package parser

import (
	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/token"
	"github.com/cwbudde/cc64/internal/types"
)

// expr is the entry point for every expression context; §4.4's grammar
// has `expr := assign` with no comma operator.
func (p *Parser) expr() (*ast.Node, error) { return p.assign() }

// assign := equality ("=" assign)?  — right-associative.
func (p *Parser) assign() (*ast.Node, error) {
	lhs, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.atPunct("=") {
		tok := p.advance()
		rhs, err := p.assign()
		if err != nil {
			return nil, err
		}
		n, err := ast.NewAssign(tok, lhs, rhs)
		if err != nil {
			return nil, wrapSemantic(tok, err)
		}
		return n, nil
	}
	return lhs, nil
}

func (p *Parser) equality() (*ast.Node, error) {
	lhs, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("=="):
			tok := p.advance()
			rhs, err := p.relational()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewEq(tok, lhs, rhs)
		case p.atPunct("!="):
			tok := p.advance()
			rhs, err := p.relational()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewNeq(tok, lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

// relational handles <, <=, >, >= by swapping operands for the latter
// two, since the AST only has LT/LTE nodes (§3).
func (p *Parser) relational() (*ast.Node, error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("<"):
			tok := p.advance()
			rhs, err := p.additive()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewLT(tok, lhs, rhs)
		case p.atPunct("<="):
			tok := p.advance()
			rhs, err := p.additive()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewLTE(tok, lhs, rhs)
		case p.atPunct(">"):
			tok := p.advance()
			rhs, err := p.additive()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewLT(tok, rhs, lhs)
		case p.atPunct(">="):
			tok := p.advance()
			rhs, err := p.additive()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewLTE(tok, rhs, lhs)
		default:
			return lhs, nil
		}
	}
}

func (p *Parser) additive() (*ast.Node, error) {
	lhs, err := p.mul()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("+"):
			tok := p.advance()
			rhs, err := p.mul()
			if err != nil {
				return nil, err
			}
			lhs, err = ast.NewAdd(tok, lhs, rhs)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
		case p.atPunct("-"):
			tok := p.advance()
			rhs, err := p.mul()
			if err != nil {
				return nil, err
			}
			lhs, err = ast.NewSub(tok, lhs, rhs)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
		default:
			return lhs, nil
		}
	}
}

func (p *Parser) mul() (*ast.Node, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("*"):
			tok := p.advance()
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			lhs, err = ast.NewMul(tok, lhs, rhs)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
		case p.atPunct("/"):
			tok := p.advance()
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			lhs, err = ast.NewDiv(tok, lhs, rhs)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
		default:
			return lhs, nil
		}
	}
}

// unary := ("+"|"-"|"&"|"*"|"sizeof")? unary | postfix
func (p *Parser) unary() (*ast.Node, error) {
	switch {
	case p.atPunct("+"):
		p.advance()
		return p.unary()
	case p.atPunct("-"):
		tok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		n, err := ast.NewSub(tok, ast.NewNum(tok, 0), operand)
		if err != nil {
			return nil, wrapSemantic(tok, err)
		}
		return n, nil
	case p.atPunct("&"):
		tok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		n, err := ast.NewAddr(tok, operand)
		if err != nil {
			return nil, wrapSemantic(tok, err)
		}
		return n, nil
	case p.atPunct("*"):
		tok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		n, err := ast.NewDeref(tok, operand)
		if err != nil {
			return nil, wrapSemantic(tok, err)
		}
		return n, nil
	case p.atKeyword("sizeof"):
		tok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewNum(tok, operand.Type.Size()), nil
	default:
		return p.postfix()
	}
}

// postfix := primary ("[" expr "]" | "." ident | "->" ident)*
func (p *Parser) postfix() (*ast.Node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("["):
			tok := p.advance()
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumePunct("]"); err != nil {
				return nil, err
			}
			sum, err := ast.NewAdd(tok, n, idx)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
			n, err = ast.NewDeref(tok, sum)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}

		case p.atPunct("."):
			tok := p.advance()
			nameTok, err := p.consumeIdent()
			if err != nil {
				return nil, err
			}
			n, err = ast.NewMember(tok, n, nameTok.Str)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}

		case p.atPunct("->"):
			tok := p.advance()
			nameTok, err := p.consumeIdent()
			if err != nil {
				return nil, err
			}
			deref, err := ast.NewDeref(tok, n)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
			n, err = ast.NewMember(tok, deref, nameTok.Str)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}

		default:
			return n, nil
		}
	}
}

// primary := "(" "{" compound_stmt ")" | "(" expr ")" | num | str
//          | ident ("(" args? ")")?
func (p *Parser) primary() (*ast.Node, error) {
	switch {
	case p.atPunct("("):
		tok := p.advance()
		if p.atPunct("{") {
			p.advance()
			block, err := p.compoundStmt()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumePunct(")"); err != nil {
				return nil, err
			}
			n, err := ast.NewStmtExpr(tok, block)
			if err != nil {
				return nil, wrapSemantic(tok, err)
			}
			return n, nil
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumePunct(")"); err != nil {
			return nil, err
		}
		return e, nil

	case p.cur().Kind == token.Num:
		tok := p.advance()
		return ast.NewNum(tok, tok.IntVal), nil

	case p.cur().Kind == token.Str:
		tok := p.advance()
		label := p.ctx.InternString(tok.Bytes)
		return ast.NewGVar(tok, label, types.NewArray(types.Char, int64(len(tok.Bytes)))), nil

	case p.cur().Kind == token.Ident:
		return p.identOrCall()

	default:
		return nil, p.errf("expected an expression")
	}
}

func (p *Parser) identOrCall() (*ast.Node, error) {
	tok := p.advance()

	if p.atPunct("(") {
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		return ast.NewCall(tok, tok.Str, args), nil
	}

	if typ, off, ok := p.ctx.LookupLocal(tok.Str); ok {
		return ast.NewLVar(tok, typ, off), nil
	}
	if typ, ok := p.ctx.LookupGlobal(tok.Str); ok {
		return ast.NewGVar(tok, tok.Str, typ), nil
	}
	return nil, &parseError{tok: tok, msg: "undefined identifier '" + tok.Str + "'", semantic: true}
}

// argList parses "(" (assign ("," assign)*)? ")", already positioned on
// "(". At most maxParams arguments are allowed (§4.4).
func (p *Parser) argList() ([]*ast.Node, error) {
	if _, err := p.consumePunct("("); err != nil {
		return nil, err
	}
	var args []*ast.Node
	if p.atPunct(")") {
		p.advance()
		return args, nil
	}
	for {
		tok := p.cur()
		a, err := p.assign()
		if err != nil {
			return nil, err
		}
		if len(args) >= maxParams {
			return nil, &parseError{tok: tok, msg: "more than six arguments", semantic: true}
		}
		args = append(args, a)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.consumePunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

package parser

import (
	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/token"
	"github.com/cwbudde/cc64/internal/types"
)

// globalInitializer parses the right side of `gvar = initializer` for a
// global of type typ: a single constant expression for scalars, or a
// brace-enclosed list for arrays, padded/truncated to typ.FlatLen() and
// stored flattened on the GVar entry for codegen to emit as
// `.byte`/`.quad` (§4.4).
func (p *Parser) globalInitializer(typ *types.Type, nameTok token.Token) ([]*ast.Node, error) {
	if typ.Kind != types.KindArray {
		tok := p.cur()
		e, err := p.assign()
		if err != nil {
			return nil, err
		}
		if err := checkGlobalConstant(e); err != nil {
			return nil, wrapSemantic(tok, err)
		}
		return []*ast.Node{e}, nil
	}

	elems, err := p.initializerList()
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		if err := checkGlobalConstant(e); err != nil {
			return nil, wrapSemantic(nameTok, err)
		}
	}
	return padOrTruncate(elems, typ.FlatLen(), nameTok), nil
}

// checkGlobalConstant implements PART 4's rule: a global scalar
// initializer must be a constant integer expression, or the address of
// another global.
func checkGlobalConstant(e *ast.Node) error {
	if _, ok := evalConst(e); ok {
		return nil
	}
	if e.Kind == ast.KindAddr && e.Operand.Kind == ast.KindGVar {
		return nil
	}
	return &ast.Error{Msg: "global initializer must be a constant expression or the address of a global"}
}

// initializerList parses a brace-enclosed, comma-separated (trailing
// comma allowed) list of initializers, flattening nested brace groups
// (for multi-dimensional arrays) into one sequence of scalar expressions.
func (p *Parser) initializerList() ([]*ast.Node, error) {
	if _, err := p.consumePunct("{"); err != nil {
		return nil, err
	}
	var out []*ast.Node
	for !p.atPunct("}") {
		var elems []*ast.Node
		var err error
		if p.atPunct("{") {
			elems, err = p.initializerList()
		} else {
			var e *ast.Node
			e, err = p.assign()
			elems = []*ast.Node{e}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)

		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.consumePunct("}"); err != nil {
		return nil, err
	}
	return out, nil
}

// padOrTruncate adjusts elems to exactly n entries, per §4.4: shorter
// lists are zero-padded, longer ones truncated.
func padOrTruncate(elems []*ast.Node, n int64, at token.Token) []*ast.Node {
	out := make([]*ast.Node, 0, n)
	for i := int64(0); i < n; i++ {
		if i < int64(len(elems)) {
			out = append(out, elems[i])
		} else {
			out = append(out, ast.NewNum(at, 0))
		}
	}
	return out
}

// localInitializer expands `type name = initializer;` for a local
// variable already declared at frameOffset into the sequence of runtime
// assignment statements the function body should execute, per §4.4:
// scalars become one Assign; arrays expand to
// `*((base*)&arr + i) = v_i` for each flattened element.
func (p *Parser) localInitializer(nameTok token.Token, typ *types.Type, lvar *ast.Node) ([]*ast.Node, error) {
	if typ.Kind != types.KindArray {
		rhs, err := p.assign()
		if err != nil {
			return nil, err
		}
		assign, err := ast.NewAssign(nameTok, lvar, rhs)
		if err != nil {
			return nil, wrapSemantic(nameTok, err)
		}
		return []*ast.Node{assign}, nil
	}

	elems, err := p.initializerList()
	if err != nil {
		return nil, err
	}
	elems = padOrTruncate(elems, typ.FlatLen(), nameTok)

	addr, err := ast.NewAddr(nameTok, lvar)
	if err != nil {
		return nil, wrapSemantic(nameTok, err)
	}
	// (base*)&arr: the address is unchanged, only its pointee type is
	// reinterpreted from "pointer to array" to "pointer to scalar
	// element" — stripping every array dimension, not just the
	// outermost, so a flattened index into int[2][3] scales by
	// sizeof(int) rather than sizeof(int[3]).
	elem := typ
	for elem.Kind == types.KindArray {
		elem = elem.Base
	}
	addr.Type = types.NewPointer(elem)

	stmts := make([]*ast.Node, 0, len(elems))
	for i, v := range elems {
		idx := ast.NewNum(nameTok, int64(i))
		ptr, err := ast.NewAdd(nameTok, addr, idx)
		if err != nil {
			return nil, wrapSemantic(nameTok, err)
		}
		deref, err := ast.NewDeref(nameTok, ptr)
		if err != nil {
			return nil, wrapSemantic(nameTok, err)
		}
		assign, err := ast.NewAssign(nameTok, deref, v)
		if err != nil {
			return nil, wrapSemantic(nameTok, err)
		}
		stmts = append(stmts, assign)
	}
	return stmts, nil
}

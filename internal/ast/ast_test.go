package ast

import (
	"testing"

	"github.com/cwbudde/cc64/internal/source"
	"github.com/cwbudde/cc64/internal/token"
	"github.com/cwbudde/cc64/internal/types"
)

func tok(str string) token.Token {
	src := source.New("", "x")
	return token.Token{Kind: token.Ident, Str: str, Src: src, Loc: source.Loc{Row: 1, Col: 1}}
}

func TestAddArrayDecaysAndScales(t *testing.T) {
	arr := &Node{Kind: KindLVar, Tok: tok("x"), Type: types.NewArray(types.Int, 3)}
	idx := NewNum(tok("1"), 1)

	n, err := NewAdd(tok("+"), arr, idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Lhs.Kind != KindAddr {
		t.Fatalf("expected array operand to decay to Addr, got %v", n.Lhs.Kind)
	}
	if n.Rhs.Kind != KindMul || n.Rhs.Rhs.Val != types.Int.Size() {
		t.Fatalf("expected integer operand scaled by sizeof(int), got %+v", n.Rhs)
	}
	if !n.Type.Equal(types.NewPointer(types.Int)) {
		t.Fatalf("expected pointer-to-int result type, got %s", n.Type)
	}
}

func TestSubPointerPointerRewritesToDivision(t *testing.T) {
	p1 := &Node{Kind: KindLVar, Tok: tok("p1"), Type: types.NewPointer(types.Int)}
	p2 := &Node{Kind: KindLVar, Tok: tok("p2"), Type: types.NewPointer(types.Int)}

	n, err := NewSub(tok("-"), p2, p1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindDiv {
		t.Fatalf("expected rewritten node to be Div, got %v", n.Kind)
	}
	if n.Lhs.Kind != KindSub {
		t.Fatalf("expected dividend to be the raw pointer subtraction, got %v", n.Lhs.Kind)
	}
	if !n.Type.Equal(types.Int) {
		t.Fatalf("expected Int result, got %s", n.Type)
	}
}

func TestSubPointerPointerMismatchedBaseIsError(t *testing.T) {
	p1 := &Node{Kind: KindLVar, Tok: tok("p1"), Type: types.NewPointer(types.Int)}
	p2 := &Node{Kind: KindLVar, Tok: tok("p2"), Type: types.NewPointer(types.Char)}
	if _, err := NewSub(tok("-"), p2, p1); err == nil {
		t.Fatalf("expected error subtracting pointers of different base types")
	}
}

func TestAddrRequiresLvalue(t *testing.T) {
	n := NewNum(tok("1"), 1)
	if _, err := NewAddr(tok("&"), n); err == nil {
		t.Fatalf("expected error taking address of a non-lvalue")
	}
}

func TestDerefDecaysArrayFirst(t *testing.T) {
	arr := &Node{Kind: KindGVar, Tok: tok("x"), Type: types.NewArray(types.Char, 4)}
	n, err := NewDeref(tok("*"), arr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Type.Equal(types.Char) {
		t.Fatalf("expected char base type, got %s", n.Type)
	}
}

func TestStmtExprRejectsVoidTail(t *testing.T) {
	block := NewBlock(tok("{"), []*Node{NewReturn(tok("return"), NewNum(tok("0"), 0))})
	if _, err := NewStmtExpr(tok("("), block); err == nil {
		t.Fatalf("expected error for statement expression with void (Statement-typed) tail")
	}
}

func TestStmtExprRejectsEmptyBlock(t *testing.T) {
	block := NewBlock(tok("{"), nil)
	if _, err := NewStmtExpr(tok("("), block); err == nil {
		t.Fatalf("expected error for empty statement expression")
	}
}

func TestMemberLooksUpOffsetAndType(t *testing.T) {
	st, err := types.NewStruct("P", []types.Member{
		{Name: "x", Type: types.Int},
		{Name: "y", Type: types.Char},
	}, tok("struct"))
	if err != nil {
		t.Fatalf("unexpected error building struct: %v", err)
	}
	base := &Node{Kind: KindLVar, Tok: tok("p"), Type: st}
	n, err := NewMember(tok("."), base, "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.MemberOffset != 8 {
		t.Fatalf("expected y at offset 8, got %d", n.MemberOffset)
	}
	if !n.Type.Equal(types.Char) {
		t.Fatalf("expected char member type, got %s", n.Type)
	}
}

func TestAssignDecaysArrayRhsToMatchingPointerLhs(t *testing.T) {
	lhs := &Node{Kind: KindLVar, Tok: tok("p"), Type: types.NewPointer(types.Int)}
	rhs := &Node{Kind: KindGVar, Tok: tok("a"), Type: types.NewArray(types.Int, 4)}
	n, err := NewAssign(tok("="), lhs, rhs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Rhs.Kind != KindAddr {
		t.Fatalf("expected array rhs to decay to Addr, got %v", n.Rhs.Kind)
	}
}

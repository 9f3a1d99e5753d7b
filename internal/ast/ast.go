// Package ast defines the AST node of §3: a single discriminated Node
// type whose Kind selects which of its fields are meaningful, plus the
// constructors that implement §4.4's "CType::new" contract — each
// computes the node's type from its children's types at construction
// time, performing array-to-pointer decay and pointer-arithmetic scaling
// by rewriting the edge to the child in place (§9).
package ast

import (
	"fmt"

	"github.com/cwbudde/cc64/internal/token"
	"github.com/cwbudde/cc64/internal/types"
)

// Kind discriminates the statement and expression node variants of §3.
type Kind int

const (
	KindDefun Kind = iota
	KindBlock
	KindReturn
	KindIf
	KindFor

	KindAssign
	KindEq
	KindNeq
	KindLT
	KindLTE
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindAddr
	KindDeref
	KindMember
	KindNum
	KindLVar
	KindGVar
	KindCall
	KindStmtExpr
)

// Node is the tagged AST value of §3: (token, kind, ctype) plus whichever
// kind-specific fields apply. Unused fields for a given Kind are zero.
type Node struct {
	Kind Kind
	Tok  token.Token
	Type *types.Type

	// Block
	Body []*Node

	// If / For: Cond/Then are shared; For additionally uses Init/Inc.
	// While desugars to For with only Cond set (Init == Inc == nil).
	Init *Node
	Cond *Node
	Inc  *Node
	Then *Node
	Else *Node

	// Defun
	Name      string
	Params    []*Node // LVar nodes, in declared order
	StackSize int64

	// Binary operators (Assign, Eq/Neq/LT/LTE, Add/Sub/Mul/Div)
	Lhs *Node
	Rhs *Node

	// Addr / Deref
	Operand *Node

	// Member
	Base         *Node
	MemberName   string
	MemberOffset int64

	// Num
	Val int64

	// LVar
	FrameOffset int64

	// Call
	Args []*Node
}

// Error is a semantic diagnostic raised while building or typing a node;
// it carries the offending token so the parser can turn it into a
// source.Diagnostic without re-deriving a location.
type Error struct {
	Tok token.Token
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errf(tok token.Token, format string, args ...any) error {
	return &Error{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

// --- statements ---------------------------------------------------------

// NewBlock wraps a (possibly empty) statement list; an empty Block is
// the null-statement of §3's grammar row `expr? ";"`.
func NewBlock(tok token.Token, body []*Node) *Node {
	return &Node{Kind: KindBlock, Tok: tok, Body: body, Type: types.Stmt}
}

func NewReturn(tok token.Token, expr *Node) *Node {
	return &Node{Kind: KindReturn, Tok: tok, Cond: expr, Type: types.Stmt}
}

func NewIf(tok token.Token, cond, then, els *Node) *Node {
	return &Node{Kind: KindIf, Tok: tok, Cond: cond, Then: then, Else: els, Type: types.Stmt}
}

// NewFor builds a For node; while(cond) body calls this with init=inc=nil.
func NewFor(tok token.Token, init, cond, inc, body *Node) *Node {
	return &Node{Kind: KindFor, Tok: tok, Init: init, Cond: cond, Inc: inc, Then: body, Type: types.Stmt}
}

// NewDefun builds a function definition node; StackSize is filled in by
// the parser once the function's scope has closed and its final frame
// size is known.
func NewDefun(tok token.Token, name string, params []*Node, body *Node) *Node {
	return &Node{Kind: KindDefun, Tok: tok, Name: name, Params: params, Then: body, Type: types.Stmt}
}

// --- lvalues / leaves ----------------------------------------------------

func NewNum(tok token.Token, val int64) *Node {
	return &Node{Kind: KindNum, Tok: tok, Val: val, Type: types.Int}
}

func NewLVar(tok token.Token, typ *types.Type, frameOffset int64) *Node {
	return &Node{Kind: KindLVar, Tok: tok, Type: typ, Name: tok.Str, FrameOffset: frameOffset}
}

func NewGVar(tok token.Token, name string, typ *types.Type) *Node {
	return &Node{Kind: KindGVar, Tok: tok, Name: name, Type: typ}
}

// isLvalue reports whether n designates a memory location, per the
// glossary: LVar, GVar, Deref, and Member chains.
func isLvalue(n *Node) bool {
	switch n.Kind {
	case KindLVar, KindGVar, KindDeref, KindMember:
		return true
	default:
		return false
	}
}

// NewAddr builds Addr(x); x must be an lvalue (§4.4).
func NewAddr(tok token.Token, operand *Node) (*Node, error) {
	if !isLvalue(operand) {
		return nil, errf(tok, "cannot take the address of a non-lvalue")
	}
	return &Node{Kind: KindAddr, Tok: tok, Operand: operand, Type: types.NewPointer(operand.Type)}, nil
}

// decay rewrites n into Addr(n) with pointer type when n is an array, so
// that callers needing pointer semantics see a plain pointer-typed
// operand. It is idempotent on non-arrays.
func decay(tok token.Token, n *Node) *Node {
	if n.Type.Kind != types.KindArray {
		return n
	}
	return &Node{Kind: KindAddr, Tok: tok, Operand: n, Type: types.NewPointer(n.Type.Base)}
}

// NewDeref builds Deref(p): the base type of p, decaying p first if it is
// an array (§4.4's row for Deref).
func NewDeref(tok token.Token, operand *Node) (*Node, error) {
	operand = decay(tok, operand)
	if operand.Type.Kind != types.KindPointer {
		return nil, errf(tok, "cannot dereference a non-pointer")
	}
	return &Node{Kind: KindDeref, Tok: tok, Operand: operand, Type: operand.Type.Base}, nil
}

// NewMember builds the Member node for base.name; base must already have
// struct/union type (the parser inserts a Deref for the `->` form before
// calling this).
func NewMember(tok token.Token, base *Node, name string) (*Node, error) {
	if base.Type.Kind != types.KindStruct && base.Type.Kind != types.KindUnion {
		return nil, errf(tok, "member access on a non-struct/union")
	}
	m, ok := base.Type.Member(name)
	if !ok {
		return nil, errf(tok, "no member named %q", name)
	}
	return &Node{Kind: KindMember, Tok: tok, Base: base, MemberName: name, MemberOffset: m.Offset, Type: m.Type}, nil
}

// --- assignment ----------------------------------------------------------

// NewAssign builds Assign(l, r): result type is l's type. If l is a
// pointer and r is an array whose base matches, r decays; aggregate
// assignment requires l and r to share the same nominal type.
func NewAssign(tok token.Token, lhs, rhs *Node) (*Node, error) {
	if !isLvalue(lhs) {
		return nil, errf(tok, "left side of assignment is not an lvalue")
	}
	if lhs.Type.Kind == types.KindPointer && rhs.Type.Kind == types.KindArray && lhs.Type.Base.Equal(rhs.Type.Base) {
		rhs = decay(tok, rhs)
	}
	if lhs.Type.Kind == types.KindStruct || lhs.Type.Kind == types.KindUnion {
		if !lhs.Type.Equal(rhs.Type) {
			return nil, errf(tok, "incompatible aggregate types in assignment")
		}
	}
	return &Node{Kind: KindAssign, Tok: tok, Lhs: lhs, Rhs: rhs, Type: lhs.Type}, nil
}

// --- comparisons -----------------------------------------------------------

func newCompare(kind Kind, tok token.Token, lhs, rhs *Node) *Node {
	return &Node{Kind: kind, Tok: tok, Lhs: lhs, Rhs: rhs, Type: types.Int}
}

func NewEq(tok token.Token, lhs, rhs *Node) *Node  { return newCompare(KindEq, tok, lhs, rhs) }
func NewNeq(tok token.Token, lhs, rhs *Node) *Node { return newCompare(KindNeq, tok, lhs, rhs) }
func NewLT(tok token.Token, lhs, rhs *Node) *Node  { return newCompare(KindLT, tok, lhs, rhs) }
func NewLTE(tok token.Token, lhs, rhs *Node) *Node { return newCompare(KindLTE, tok, lhs, rhs) }

// --- additive: integer/pointer scaling per §4.4 ---------------------------

// pointerBase returns the base type for pointer arithmetic if n is a
// pointer or (after decay) an array, else nil.
func pointerBase(n *Node) (*Node, *types.Type) {
	n = decay(n.Tok, n)
	if n.Type.Kind == types.KindPointer {
		return n, n.Type.Base
	}
	return n, nil
}

func scale(tok token.Token, n *Node, size int64) *Node {
	return &Node{
		Kind: KindMul, Tok: tok,
		Lhs:  n,
		Rhs:  NewNum(tok, size),
		Type: types.Int,
	}
}

// NewAdd implements the Add row: int+int is Int; ptr+int (or arr+int)
// scales the integer operand and decays the array operand, yielding the
// pointer's type.
func NewAdd(tok token.Token, lhs, rhs *Node) (*Node, error) {
	lhs2, lBase := pointerBase(lhs)
	rhs2, rBase := pointerBase(rhs)

	switch {
	case lBase == nil && rBase == nil:
		if !lhs.Type.IsInteger() || !rhs.Type.IsInteger() {
			return nil, errf(tok, "invalid operand to +")
		}
		return &Node{Kind: KindAdd, Tok: tok, Lhs: lhs, Rhs: rhs, Type: types.Int}, nil
	case lBase != nil && rBase == nil:
		if !rhs.Type.IsInteger() {
			return nil, errf(tok, "invalid operand to +")
		}
		return &Node{Kind: KindAdd, Tok: tok, Lhs: lhs2, Rhs: scale(tok, rhs, lBase.Size()), Type: lhs2.Type}, nil
	case lBase == nil && rBase != nil:
		if !lhs.Type.IsInteger() {
			return nil, errf(tok, "invalid operand to +")
		}
		return &Node{Kind: KindAdd, Tok: tok, Lhs: scale(tok, lhs, rBase.Size()), Rhs: rhs2, Type: rhs2.Type}, nil
	default:
		return nil, errf(tok, "invalid operand to +: pointer + pointer")
	}
}

// NewSub implements the Sub row: int-int is Int; ptr-int scales; ptr-ptr
// (same base) rewrites to (p2 - p1) / sizeof(base), yielding Int.
func NewSub(tok token.Token, lhs, rhs *Node) (*Node, error) {
	lhs2, lBase := pointerBase(lhs)
	rhs2, rBase := pointerBase(rhs)

	switch {
	case lBase == nil && rBase == nil:
		if !lhs.Type.IsInteger() || !rhs.Type.IsInteger() {
			return nil, errf(tok, "invalid operand to -")
		}
		return &Node{Kind: KindSub, Tok: tok, Lhs: lhs, Rhs: rhs, Type: types.Int}, nil
	case lBase != nil && rBase == nil:
		if !rhs.Type.IsInteger() {
			return nil, errf(tok, "invalid operand to -")
		}
		return &Node{Kind: KindSub, Tok: tok, Lhs: lhs2, Rhs: scale(tok, rhs, lBase.Size()), Type: lhs2.Type}, nil
	case lBase != nil && rBase != nil:
		if !lBase.Equal(rBase) {
			return nil, errf(tok, "subtracting pointers of different base types")
		}
		diff := &Node{Kind: KindSub, Tok: tok, Lhs: lhs2, Rhs: rhs2, Type: types.Int}
		return &Node{Kind: KindDiv, Tok: tok, Lhs: diff, Rhs: NewNum(tok, lBase.Size()), Type: types.Int}, nil
	default:
		return nil, errf(tok, "invalid operand to -")
	}
}

// --- multiplicative: integers only ---------------------------------------

func newArith(kind Kind, tok token.Token, lhs, rhs *Node, op string) (*Node, error) {
	if !lhs.Type.IsInteger() || !rhs.Type.IsInteger() {
		return nil, errf(tok, "invalid operand to %s", op)
	}
	return &Node{Kind: kind, Tok: tok, Lhs: lhs, Rhs: rhs, Type: types.Int}, nil
}

func NewMul(tok token.Token, lhs, rhs *Node) (*Node, error) {
	return newArith(KindMul, tok, lhs, rhs, "*")
}

func NewDiv(tok token.Token, lhs, rhs *Node) (*Node, error) {
	return newArith(KindDiv, tok, lhs, rhs, "/")
}

// --- calls / statement-expressions ---------------------------------------

// NewCall builds a Call node, decaying any array arguments (§4.4).
func NewCall(tok token.Token, name string, args []*Node) *Node {
	decayed := make([]*Node, len(args))
	for i, a := range args {
		decayed[i] = decay(a.Tok, a)
	}
	return &Node{Kind: KindCall, Tok: tok, Name: name, Args: decayed, Type: types.Int}
}

// NewStmtExpr builds the GNU statement-expression `({ ... })`: its type is
// the type of the block's last statement, which must be an expression
// statement (not bare Statement, and the block must be non-empty).
func NewStmtExpr(tok token.Token, block *Node) (*Node, error) {
	if len(block.Body) == 0 {
		return nil, errf(tok, "statement expression cannot be empty")
	}
	last := block.Body[len(block.Body)-1]
	if last.Type == types.Stmt {
		return nil, errf(tok, "statement expression with void tail")
	}
	return &Node{Kind: KindStmtExpr, Tok: tok, Body: block.Body, Type: last.Type}, nil
}

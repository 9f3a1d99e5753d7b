package codegen

import (
	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/types"
)

// genExpr evaluates n, leaving its value in %rax. For an aggregate-typed
// node (Array/Struct/Union), "value" means the address of the aggregate,
// per §4.5's uniform lvalue/rvalue convention.
func (g *generator) genExpr(n *ast.Node) {
	g.debugLine(n)
	switch n.Kind {
	case ast.KindNum:
		g.emit("mov $%d, %%rax", n.Val)

	case ast.KindLVar, ast.KindGVar, ast.KindDeref, ast.KindMember:
		g.genAddr(n)
		g.genLoad(n.Type)

	case ast.KindAddr:
		g.genAddr(n.Operand)

	case ast.KindAssign:
		g.genAssign(n)

	case ast.KindEq, ast.KindNeq, ast.KindLT, ast.KindLTE:
		g.genCompare(n)

	case ast.KindAdd:
		g.genBinary(n, "add")
	case ast.KindSub:
		g.genBinary(n, "sub")
	case ast.KindMul:
		g.genBinary(n, "imul")
	case ast.KindDiv:
		g.genDiv(n)

	case ast.KindCall:
		g.genCall(n)

	case ast.KindStmtExpr:
		g.genStmtExpr(n)

	default:
		panic("codegen: unhandled expression kind")
	}
}

// genAddr computes the address of the lvalue n into %rax.
func (g *generator) genAddr(n *ast.Node) {
	switch n.Kind {
	case ast.KindLVar:
		g.emit("lea -%d(%%rbp), %%rax", n.FrameOffset)
	case ast.KindGVar:
		g.emit("lea %s(%%rip), %%rax", n.Name)
	case ast.KindDeref:
		g.genExpr(n.Operand)
	case ast.KindMember:
		g.genAddr(n.Base)
		if n.MemberOffset != 0 {
			g.emit("add $%d, %%rax", n.MemberOffset)
		}
	default:
		panic("codegen: genAddr on a non-lvalue")
	}
}

// genLoad dereferences the address currently in %rax into a value of
// typ, left in %rax. Aggregates are left as their address (§4.5).
func (g *generator) genLoad(typ *types.Type) {
	switch typ.Kind {
	case types.KindChar:
		g.emit("movsbq (%%rax), %%rax")
	case types.KindInt, types.KindPointer:
		g.emit("mov (%%rax), %%rax")
	case types.KindArray, types.KindStruct, types.KindUnion:
		// the address already in %rax is the value.
	default:
		panic("codegen: cannot load a Statement-typed value")
	}
}

// genAssign implements §4.5's assignment contract: evaluate the rhs
// (an address, for aggregates), push, compute the lhs address, pop the
// rhs value into %rdi, then store by type.
func (g *generator) genAssign(n *ast.Node) {
	g.genExpr(n.Rhs)
	g.push()
	g.genAddr(n.Lhs)
	g.pop("rdi")
	g.genStore(n.Lhs.Type)
}

func (g *generator) genStore(typ *types.Type) {
	switch typ.Kind {
	case types.KindChar:
		g.emit("mov %%dil, (%%rax)")
		g.emit("movsbq %%dil, %%rax")
	case types.KindInt, types.KindPointer:
		g.emit("mov %%rdi, (%%rax)")
		g.emit("mov %%rdi, %%rax")
	case types.KindArray, types.KindStruct, types.KindUnion:
		g.genAggregateCopy(typ.Size())
	default:
		panic("codegen: cannot store a Statement-typed value")
	}
}

// genAggregateCopy copies size bytes from (%rdi) to (%rax), leaving %rax
// (the destination address) as the assignment expression's value.
func (g *generator) genAggregateCopy(size int64) {
	label := g.nextLabel()
	g.emit("mov $0, %%rcx")
	g.emitRaw(labelName("Lcopy", label) + ":")
	g.emit("cmp $%d, %%rcx", size)
	g.emit("je .Lcopyend%d", label)
	g.emit("mov (%%rdi,%%rcx,1), %%r8b")
	g.emit("mov %%r8b, (%%rax,%%rcx,1)")
	g.emit("inc %%rcx")
	g.emit("jmp .Lcopy%d", label)
	g.emitRaw(labelName("Lcopyend", label) + ":")
}

// genBinary evaluates rhs first (pushed), then lhs into %rax, pops rhs
// into %rdi, and applies op (§4.5: "evaluates the right side first").
func (g *generator) genBinary(n *ast.Node, op string) {
	g.genExpr(n.Rhs)
	g.push()
	g.genExpr(n.Lhs)
	g.pop("rdi")
	g.emit("%s %%rdi, %%rax", op)
}

func (g *generator) genDiv(n *ast.Node) {
	g.genExpr(n.Rhs)
	g.push()
	g.genExpr(n.Lhs)
	g.pop("rdi")
	g.emit("cqo")
	g.emit("idiv %%rdi")
}

func (g *generator) genCompare(n *ast.Node) {
	g.genExpr(n.Rhs)
	g.push()
	g.genExpr(n.Lhs)
	g.pop("rdi")
	g.emit("cmp %%rdi, %%rax")
	switch n.Kind {
	case ast.KindEq:
		g.emit("sete %%al")
	case ast.KindNeq:
		g.emit("setne %%al")
	case ast.KindLT:
		g.emit("setl %%al")
	case ast.KindLTE:
		g.emit("setle %%al")
	}
	g.emit("movzbq %%al, %%rax")
}

// genCall evaluates each argument left to right, pushing its value, then
// pops them into the argument registers in reverse order and corrects
// %rsp to a 16-byte boundary if the ambient virtual-stack depth is even
// (§4.5's call-site alignment rule).
func (g *generator) genCall(n *ast.Node) {
	for _, a := range n.Args {
		g.genExpr(a)
		g.push()
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		g.pop(argRegs64[i])
	}
	aligned := g.depth%2 == 0
	if aligned {
		g.emit("sub $8, %%rsp")
	}
	g.emit("mov $0, %%rax")
	g.emit("call %s", n.Name)
	if aligned {
		g.emit("add $8, %%rsp")
	}
}

// genStmtExpr evaluates every statement of a `({ ... })` block, discarding
// all but the last, whose value (an expression statement, per
// ast.NewStmtExpr) is left in %rax.
func (g *generator) genStmtExpr(n *ast.Node) {
	for i, stmt := range n.Body {
		if i == len(n.Body)-1 {
			g.genExpr(stmt)
			continue
		}
		g.genStmt(stmt)
	}
}

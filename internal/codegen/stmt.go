package codegen

import (
	"strconv"

	"github.com/cwbudde/cc64/internal/ast"
)

// genStmt emits code for a statement node. Expression nodes reached as a
// statement (an expr_stmt, or a For loop's init/inc clause) are evaluated
// for side effect only; their %rax result is discarded.
func (g *generator) genStmt(n *ast.Node) {
	if n == nil {
		return
	}
	g.debugLine(n)
	switch n.Kind {
	case ast.KindBlock:
		for _, c := range n.Body {
			g.genStmt(c)
		}
	case ast.KindReturn:
		if n.Cond != nil {
			g.genExpr(n.Cond)
		}
		g.emit("jmp %s", returnLabel(g.curFn.Name))
	case ast.KindIf:
		g.genIf(n)
	case ast.KindFor:
		g.genFor(n)
	default:
		g.genExpr(n)
	}
}

func (g *generator) genIf(n *ast.Node) {
	label := g.nextLabel()
	g.genExpr(n.Cond)
	g.emit("cmp $0, %%rax")
	if n.Else != nil {
		g.emit("je .Lelse%d", label)
	} else {
		g.emit("je .Lend%d", label)
	}
	g.genStmt(n.Then)
	if n.Else != nil {
		g.emit("jmp .Lend%d", label)
		g.emitRaw(labelName("Lelse", label) + ":")
		g.genStmt(n.Else)
	}
	g.emitRaw(labelName("Lend", label) + ":")
}

func (g *generator) genFor(n *ast.Node) {
	label := g.nextLabel()
	if n.Init != nil {
		g.genStmt(n.Init)
	}
	g.emitRaw(labelName("Lbegin", label) + ":")
	if n.Cond != nil {
		g.genExpr(n.Cond)
		g.emit("cmp $0, %%rax")
		g.emit("je .Lend%d", label)
	}
	g.genStmt(n.Then)
	if n.Inc != nil {
		g.genStmt(n.Inc)
	}
	g.emit("jmp .Lbegin%d", label)
	g.emitRaw(labelName("Lend", label) + ":")
}

func labelName(prefix string, n int) string {
	return "." + prefix + strconv.Itoa(n)
}

package ast

import (
	"fmt"
	"strings"
)

// Dump renders n as an indented s-expression tree, for the `cc64 parse`
// debug command. It is not used by any pipeline stage; it exists purely
// to make the parser's output inspectable.
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(kindName(n.Kind))

	switch n.Kind {
	case KindDefun:
		fmt.Fprintf(sb, " %s\n", n.Name)
		for _, p := range n.Params {
			dump(sb, p, depth+1)
		}
		dump(sb, n.Then, depth+1)
		return
	case KindNum:
		fmt.Fprintf(sb, " %d\n", n.Val)
		return
	case KindLVar:
		fmt.Fprintf(sb, " %s@-%d\n", n.Name, n.FrameOffset)
		return
	case KindGVar:
		fmt.Fprintf(sb, " %s\n", n.Name)
		return
	case KindMember:
		fmt.Fprintf(sb, " .%s\n", n.MemberName)
		dump(sb, n.Base, depth+1)
		return
	case KindCall:
		fmt.Fprintf(sb, " %s\n", n.Name)
		for _, a := range n.Args {
			dump(sb, a, depth+1)
		}
		return
	}

	sb.WriteString("\n")
	for _, c := range []*Node{n.Init, n.Cond, n.Lhs, n.Rhs, n.Operand, n.Then, n.Else} {
		dump(sb, c, depth+1)
	}
	for _, c := range n.Body {
		dump(sb, c, depth+1)
	}
}

func kindName(k Kind) string {
	switch k {
	case KindDefun:
		return "Defun"
	case KindBlock:
		return "Block"
	case KindReturn:
		return "Return"
	case KindIf:
		return "If"
	case KindFor:
		return "For"
	case KindAssign:
		return "Assign"
	case KindEq:
		return "Eq"
	case KindNeq:
		return "Neq"
	case KindLT:
		return "LT"
	case KindLTE:
		return "LTE"
	case KindAdd:
		return "Add"
	case KindSub:
		return "Sub"
	case KindMul:
		return "Mul"
	case KindDiv:
		return "Div"
	case KindAddr:
		return "Addr"
	case KindDeref:
		return "Deref"
	case KindMember:
		return "Member"
	case KindNum:
		return "Num"
	case KindLVar:
		return "LVar"
	case KindGVar:
		return "GVar"
	case KindCall:
		return "Call"
	case KindStmtExpr:
		return "StmtExpr"
	default:
		return "?"
	}
}

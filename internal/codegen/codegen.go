// Package codegen implements §4.5: walking the AST and ParseContext to
// emit AT&T-syntax x86-64 assembly for the System V AMD64 Linux ABI.
package codegen

import (
	"fmt"
	"strings"

	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/parser"
	"github.com/cwbudde/cc64/internal/types"
)

// argRegs64/argRegs8 are the System V AMD64 integer argument registers,
// 8-byte and 1-byte views, in parameter order (§4.5).
var argRegs64 = [...]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
var argRegs8 = [...]string{"dil", "sil", "dl", "cl", "r8b", "r9b"}

// Options toggles the debug-line emission of §4.5; off by default since
// `.file`/`.loc` directives are only useful when the produced assembly
// will be assembled with debug info.
type Options struct {
	EmitDebugLines bool
}

// Generate walks ctx's string table, globals, and functions (in that
// order, per §5's "strictly the textual order of definitions": strings
// first, then globals, then functions) and returns the complete
// AT&T-syntax assembly text.
func Generate(ctx *parser.ParseContext, opts Options) string {
	g := &generator{ctx: ctx, opts: opts, fileNumbers: map[string]int{}}
	g.genStrings()
	g.genGlobals()
	g.genFunctions()
	return g.out.String()
}

type generator struct {
	ctx  *parser.ParseContext
	opts Options
	out  strings.Builder

	depth        int // virtual evaluation-stack depth
	labelCounter int // function-local label counter
	curFn        *parser.Function

	fileNumbers map[string]int
	nextFileNum int
	lastPath    string
}

func (g *generator) emit(format string, args ...any) {
	fmt.Fprintf(&g.out, "  "+format+"\n", args...)
}

func (g *generator) emitRaw(line string) {
	g.out.WriteString(line)
	g.out.WriteByte('\n')
}

func (g *generator) push() {
	g.emit("push %%rax")
	g.depth++
}

func (g *generator) pop(reg string) {
	g.emit("pop %%%s", reg)
	g.depth--
}

func (g *generator) nextLabel() int {
	n := g.labelCounter
	g.labelCounter++
	return n
}

// --- sections ---------------------------------------------------------

func (g *generator) genStrings() {
	if len(g.ctx.Strings) == 0 {
		return
	}
	g.emitRaw(".section .rodata")
	for _, s := range g.ctx.Strings {
		g.emitRaw(s.Label + ":")
		for _, b := range s.Bytes {
			g.emit(".byte 0x%02x", b)
		}
	}
}

func (g *generator) genGlobals() {
	if len(g.ctx.Globals) == 0 {
		return
	}
	g.emitRaw(".data")
	for _, gv := range g.ctx.Globals {
		g.emitRaw(".globl " + gv.Name)
		g.emitRaw(gv.Name + ":")
		if gv.Init == nil {
			g.emit(".zero %d", gv.Type.Size())
			continue
		}
		elemType := gv.Type
		for elemType.Kind == types.KindArray {
			elemType = elemType.Base
		}
		for _, elem := range gv.Init {
			g.genGlobalElement(elem, elemType)
		}
	}
}

// genGlobalElement emits one scalar initializer element: either a
// `.quad` reference to another global's address, or a `.byte`/`.quad`
// numeric constant sized by elemType.
func (g *generator) genGlobalElement(elem *ast.Node, elemType *types.Type) {
	if elem.Kind == ast.KindAddr && elem.Operand.Kind == ast.KindGVar {
		g.emit(".quad %s", elem.Operand.Name)
		return
	}
	val, _ := evalConstForCodegen(elem)
	if elemType.Size() == 1 {
		g.emit(".byte %d", uint8(val))
		return
	}
	g.emit(".quad %d", val)
}

// evalConstForCodegen mirrors parser.evalConst's semantics for the
// narrow set of node kinds the parser has already validated as global
// constant expressions by the time codegen runs.
func evalConstForCodegen(n *ast.Node) (int64, bool) {
	switch n.Kind {
	case ast.KindNum:
		return n.Val, true
	case ast.KindAdd:
		l, lok := evalConstForCodegen(n.Lhs)
		r, rok := evalConstForCodegen(n.Rhs)
		return l + r, lok && rok
	case ast.KindSub:
		l, lok := evalConstForCodegen(n.Lhs)
		r, rok := evalConstForCodegen(n.Rhs)
		return l - r, lok && rok
	case ast.KindMul:
		l, lok := evalConstForCodegen(n.Lhs)
		r, rok := evalConstForCodegen(n.Rhs)
		return l * r, lok && rok
	case ast.KindDiv:
		l, lok := evalConstForCodegen(n.Lhs)
		r, rok := evalConstForCodegen(n.Rhs)
		if r == 0 {
			return 0, false
		}
		return l / r, lok && rok
	case ast.KindEq, ast.KindNeq, ast.KindLT, ast.KindLTE:
		l, lok := evalConstForCodegen(n.Lhs)
		r, rok := evalConstForCodegen(n.Rhs)
		holds := map[ast.Kind]bool{ast.KindEq: l == r, ast.KindNeq: l != r, ast.KindLT: l < r, ast.KindLTE: l <= r}[n.Kind]
		if holds {
			return 1, lok && rok
		}
		return 0, lok && rok
	default:
		return 0, false
	}
}

func (g *generator) genFunctions() {
	if len(g.ctx.Functions) > 0 {
		g.emitRaw(".text")
	}
	for _, fn := range g.ctx.Functions {
		g.genFunction(fn)
	}
}

// alignUp16 rounds n up to the next multiple of 16 (§4.5's stack frame
// alignment rule).
func alignUp16(n int64) int64 {
	return (n + 15) / 16 * 16
}

func (g *generator) genFunction(fn *parser.Function) {
	g.curFn = fn
	g.labelCounter = 0
	g.depth = 0

	g.emitRaw(".globl " + fn.Name)
	g.emitRaw(fn.Name + ":")
	g.emit("push %%rbp")
	g.emit("mov %%rsp, %%rbp")
	g.emit("sub $%d, %%rsp", alignUp16(fn.StackSize))

	for i, p := range fn.Params {
		if p.Type.Size() == 1 {
			g.emit("mov %%%s, -%d(%%rbp)", argRegs8[i], p.FrameOffset)
		} else {
			g.emit("mov %%%s, -%d(%%rbp)", argRegs64[i], p.FrameOffset)
		}
	}

	g.genStmt(fn.Body)

	g.emitRaw(returnLabel(fn.Name) + ":")
	g.emit("mov %%rbp, %%rsp")
	g.emit("pop %%rbp")
	g.emit("ret")
}

func returnLabel(fnName string) string {
	return ".L" + fnName + "__return"
}

// --- debug line directives ----------------------------------------------

func (g *generator) debugLine(n *ast.Node) {
	if !g.opts.EmitDebugLines || n.Tok.Src == nil {
		return
	}
	path := n.Tok.Src.DisplayPath()
	num, seen := g.fileNumbers[path]
	if !seen {
		g.nextFileNum++
		num = g.nextFileNum
		g.fileNumbers[path] = num
		g.emit(".file %d %q", num, path)
	}
	// §4.5/§9: row+1, column omitted — an acknowledged quirk of the
	// observable contract this generator mirrors rather than "fixes".
	g.emit(".loc %d %d", num, n.Tok.Loc.Row+1)
	g.lastPath = path
}

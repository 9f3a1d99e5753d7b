package codegen

import (
	"strings"
	"testing"

	"github.com/cwbudde/cc64/internal/parser"
	"github.com/cwbudde/cc64/internal/preprocessor"
	"github.com/cwbudde/cc64/internal/source"
)

func mustGenerate(t *testing.T, code string) string {
	t.Helper()
	src := source.New("test.c", code)
	toks, err := preprocessor.New(nil).Process(src)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	ctx, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse failed: %v", perr)
	}
	return Generate(ctx, Options{})
}

func TestGenerateReturnsConstant(t *testing.T) {
	asm := mustGenerate(t, "int main(){ return 42; }")
	if !strings.Contains(asm, "main:") {
		t.Fatalf("expected a main: label, got:\n%s", asm)
	}
	if !strings.Contains(asm, "mov $42, %rax") {
		t.Fatalf("expected the constant to be materialized into %%rax, got:\n%s", asm)
	}
	if !strings.Contains(asm, "jmp .Lmain__return") {
		t.Fatalf("expected return to jump to the function's return label, got:\n%s", asm)
	}
}

func TestGenerateFunctionCallPassesArgsInRegisters(t *testing.T) {
	asm := mustGenerate(t, "int f(int a,int b){ return a-b; } int main(){ return f(10,3); }")
	if !strings.Contains(asm, "call f") {
		t.Fatalf("expected a call to f, got:\n%s", asm)
	}
	if !strings.Contains(asm, "pop %rdi") || !strings.Contains(asm, "pop %rsi") {
		t.Fatalf("expected args popped into rdi/rsi, got:\n%s", asm)
	}
}

func TestGenerateForLoopEmitsLabels(t *testing.T) {
	asm := mustGenerate(t, "int main(){ int i; int s=0; for(i=0;i<5;i=i+1) s=s+i; return s; }")
	if !strings.Contains(asm, ".Lbegin0:") || !strings.Contains(asm, ".Lend0:") {
		t.Fatalf("expected for-loop begin/end labels, got:\n%s", asm)
	}
}

func TestGenerateIfElseEmitsBothBranches(t *testing.T) {
	asm := mustGenerate(t, "int main(){ int a=1; if(a) return 1; else return 2; }")
	if !strings.Contains(asm, ".Lelse0:") || !strings.Contains(asm, ".Lend0:") {
		t.Fatalf("expected if/else labels, got:\n%s", asm)
	}
}

func TestGenerateGlobalArrayInitializer(t *testing.T) {
	asm := mustGenerate(t, "int g[3] = {1,2,3}; int main(){ return g[0]; }")
	if !strings.Contains(asm, ".data") || !strings.Contains(asm, ".quad 1") {
		t.Fatalf("expected a .data section with flattened initializer, got:\n%s", asm)
	}
}

func TestGenerateStringLiteralGoesToRodata(t *testing.T) {
	asm := mustGenerate(t, `int main(){ char *s = "hi"; return 0; }`)
	if !strings.Contains(asm, ".section .rodata") {
		t.Fatalf("expected a .rodata section, got:\n%s", asm)
	}
	if !strings.Contains(asm, ".byte 0x68") { // 'h'
		t.Fatalf("expected the string's bytes emitted, got:\n%s", asm)
	}
}

func TestGenerateStructMemberStore(t *testing.T) {
	asm := mustGenerate(t, "struct P{ int x; char y; }; int main(){ struct P p; p.x=41; p.y=1; return p.x+p.y; }")
	if !strings.Contains(asm, "mov %dil, (%rax)") {
		t.Fatalf("expected a byte store for the char member, got:\n%s", asm)
	}
}

func TestGenerateDebugLinesOptIn(t *testing.T) {
	src := source.New("test.c", "int main(){ return 0; }")
	toks, err := preprocessor.New(nil).Process(src)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	ctx, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse failed: %v", perr)
	}
	asm := Generate(ctx, Options{EmitDebugLines: true})
	if !strings.Contains(asm, ".file 1 \"test.c\"") {
		t.Fatalf("expected a .file directive when debug lines are on, got:\n%s", asm)
	}
	plain := Generate(ctx, Options{})
	if strings.Contains(plain, ".file") {
		t.Fatalf("expected no .file directive when debug lines are off, got:\n%s", plain)
	}
}

func TestGenerateStackAlignmentAtCallSite(t *testing.T) {
	// A call nested as the right operand of "-" is evaluated before the
	// left operand is pushed, so it runs at virtual-stack depth 0 and takes
	// the even-depth `sub $8, %rsp` correction; exercised here just to
	// confirm it doesn't panic and produces a call.
	asm := mustGenerate(t, "int f(){ return 1; } int main(){ return 10 - f(); }")
	if !strings.Contains(asm, "call f") {
		t.Fatalf("expected a call to f, got:\n%s", asm)
	}
}

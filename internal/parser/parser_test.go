package parser

import (
	"testing"

	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/preprocessor"
	"github.com/cwbudde/cc64/internal/source"
	"github.com/cwbudde/cc64/internal/types"
)

func mustParse(t *testing.T, code string) *ParseContext {
	t.Helper()
	src := source.New("test.c", code)
	pp := preprocessor.New(nil)
	toks, err := pp.Process(src)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	ctx, perr := Parse(toks)
	if perr != nil {
		t.Fatalf("parse failed: %v", perr)
	}
	return ctx
}

func parseExpectError(t *testing.T, code string) {
	t.Helper()
	src := source.New("test.c", code)
	pp := preprocessor.New(nil)
	toks, err := pp.Process(src)
	if err != nil {
		return
	}
	if _, perr := Parse(toks); perr == nil {
		t.Fatalf("expected a diagnostic parsing %q", code)
	}
}

func TestParseMainReturningConstant(t *testing.T) {
	ctx := mustParse(t, "int main(){ return 0; }")
	if len(ctx.Functions) != 1 || ctx.Functions[0].Name != "main" {
		t.Fatalf("expected one function named main, got %+v", ctx.Functions)
	}
}

func TestParseLocalsAllocateFrameOffsets(t *testing.T) {
	ctx := mustParse(t, "int main(){ int a=3; int b=4; return a*b-2; }")
	fn := ctx.Functions[0]
	if fn.StackSize != 16 {
		t.Fatalf("expected stack size 16 for two ints, got %d", fn.StackSize)
	}
}

func TestParseArrayIndexing(t *testing.T) {
	ctx := mustParse(t, "int main(){ int x[3]; x[0]=1; x[1]=2; x[2]=3; return x[0]+x[1]+x[2]; }")
	fn := ctx.Functions[0]
	if fn.StackSize != 24 {
		t.Fatalf("expected 24 bytes for int[3], got %d", fn.StackSize)
	}
}

func TestParseFunctionCallWithParams(t *testing.T) {
	ctx := mustParse(t, "int f(int a,int b){ return a-b; } int main(){ return f(10,3); }")
	if len(ctx.Functions) != 2 {
		t.Fatalf("expected two functions, got %d", len(ctx.Functions))
	}
	f := ctx.Functions[0]
	if len(f.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(f.Params))
	}
}

func TestParseForLoop(t *testing.T) {
	ctx := mustParse(t, "int main(){ int i; int s=0; for(i=0;i<5;i=i+1) s=s+i; return s; }")
	fn := ctx.Functions[0]
	var forNode *ast.Node
	for _, n := range fn.Body.Body {
		if n.Kind == ast.KindFor {
			forNode = n
		}
	}
	if forNode == nil {
		t.Fatalf("expected a For node in body, got %+v", fn.Body.Body)
	}
}

func TestParseStructMemberAccess(t *testing.T) {
	ctx := mustParse(t, "struct P{ int x; char y; }; int main(){ struct P p; p.x=41; p.y=1; return p.x+p.y; }")
	fn := ctx.Functions[0]
	if fn.StackSize != 16 {
		t.Fatalf("expected struct P (int+char, aligned to 8) to occupy 16 bytes, got %d", fn.StackSize)
	}
}

func TestParseGlobalArrayInitializer(t *testing.T) {
	ctx := mustParse(t, "int g[3] = {1,2,3}; int main(){ return g[0]; }")
	if len(ctx.Globals) != 1 {
		t.Fatalf("expected one global, got %d", len(ctx.Globals))
	}
	g := ctx.Globals[0]
	if len(g.Init) != 3 {
		t.Fatalf("expected 3 flattened initializer elements, got %d", len(g.Init))
	}
}

func TestParseGlobalArrayInitializerPadsShortList(t *testing.T) {
	ctx := mustParse(t, "int g[3] = {1}; int main(){ return g[0]; }")
	g := ctx.Globals[0]
	if len(g.Init) != 3 || g.Init[1].Val != 0 || g.Init[2].Val != 0 {
		t.Fatalf("expected padded initializer list, got %+v", g.Init)
	}
}

func TestParseGlobalInitializerRejectsNonConstant(t *testing.T) {
	parseExpectError(t, "int x; int g = x; int main(){ return 0; }")
}

func TestParseGlobalInitializerAcceptsAddressOfGlobal(t *testing.T) {
	ctx := mustParse(t, "int x; int *p = &x; int main(){ return 0; }")
	if len(ctx.Globals) != 2 {
		t.Fatalf("expected two globals, got %d", len(ctx.Globals))
	}
}

func TestParseStringLiteralsGetDistinctLabels(t *testing.T) {
	ctx := mustParse(t, `int main(){ char *a = "hi"; char *b = "hi"; return 0; }`)
	if len(ctx.Strings) != 2 {
		t.Fatalf("expected two distinct string-literal entries (no dedup), got %d", len(ctx.Strings))
	}
	if ctx.Strings[0].Label == ctx.Strings[1].Label {
		t.Fatalf("expected distinct labels, got %s twice", ctx.Strings[0].Label)
	}
}

func TestParseRedeclarationInSameScopeIsError(t *testing.T) {
	parseExpectError(t, "int main(){ int a; int a; return 0; }")
}

func TestParseScopeShadowing(t *testing.T) {
	ctx := mustParse(t, "int main(){ int a=1; { int a=2; } return a; }")
	fn := ctx.Functions[0]
	// outer 'a' plus inner 'a' each allocate 8 bytes: total frame is 16,
	// even though only the outer is live at the return statement.
	if fn.StackSize != 16 {
		t.Fatalf("expected frame to grow monotonically across scopes, got %d", fn.StackSize)
	}
}

func TestParseSizeofArray(t *testing.T) {
	ctx := mustParse(t, "int main(){ int x[3]; return sizeof(x); }")
	fn := ctx.Functions[0]
	ret := fn.Body.Body[len(fn.Body.Body)-1]
	if ret.Kind != ast.KindReturn || ret.Cond.Kind != ast.KindNum || ret.Cond.Val != 3*types.Int.Size() {
		t.Fatalf("expected sizeof(int[3]) == 24, got %+v", ret.Cond)
	}
}

func TestParseMoreThanSixParamsIsError(t *testing.T) {
	parseExpectError(t, "int f(int a,int b,int c,int d,int e,int g,int h){ return 0; } int main(){ return 0; }")
}

func TestParseUndefinedIdentifierIsError(t *testing.T) {
	parseExpectError(t, "int main(){ return y; }")
}

func TestParseDuplicateTagIsError(t *testing.T) {
	parseExpectError(t, "struct P{ int x; }; struct P{ int y; }; int main(){ return 0; }")
}

func TestParseEmptyStructIsError(t *testing.T) {
	parseExpectError(t, "struct P{ }; int main(){ return 0; }")
}

func TestParseArrayBoundMustBePositiveConstant(t *testing.T) {
	parseExpectError(t, "int main(){ int x[0]; return 0; }")
}

func TestParseStatementExpression(t *testing.T) {
	ctx := mustParse(t, "int main(){ return ({ int a=1; int b=2; a+b; }); }")
	fn := ctx.Functions[0]
	ret := fn.Body.Body[len(fn.Body.Body)-1]
	if ret.Cond.Kind != ast.KindStmtExpr {
		t.Fatalf("expected a StmtExpr inside return, got %v", ret.Cond.Kind)
	}
}

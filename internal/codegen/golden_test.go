package codegen

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGenerateGoldenAssembly snapshots the full assembly text for a
// handful of representative programs, one fixture per pipeline scenario
// (scalar return, a function call, a for loop) instead of DWScript
// script fixtures.
func TestGenerateGoldenAssembly(t *testing.T) {
	fixtures := []struct {
		name string
		code string
	}{
		{"scalar_return", "int main(){ return 0; }"},
		{"function_call", "int f(int a,int b){ return a-b; } int main(){ return f(10,3); }"},
		{"for_loop", "int main(){ int i; int s=0; for(i=0;i<5;i=i+1) s=s+i; return s; }"},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			asm := mustGenerate(t, fx.code)
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_asm", fx.name), asm)
		})
	}
}

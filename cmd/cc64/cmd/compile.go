package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/cc64/internal/codegen"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <path>",
	Short: "Compile a source file to x86-64 assembly (the default pipeline)",
	Long: `compile runs the full pipeline — lex, preprocess, parse, generate —
and writes the resulting AT&T-syntax assembly to standard output.

This is also what plain "cc64 <path>" runs; the subcommand exists
alongside lex/parse/version for explicitness and symmetry with them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, path string) error {
	ctx, err := parse(path, options())
	if err != nil {
		return err
	}
	asm := codegen.Generate(ctx, codegen.Options{EmitDebugLines: emitDebugLines})
	_, err = fmt.Fprint(os.Stdout, asm)
	return err
}

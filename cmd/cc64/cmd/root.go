package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0-dev"

var (
	includeDirs    []string
	emitDebugLines bool
)

var rootCmd = &cobra.Command{
	Use:   "cc64 <path>",
	Short: "A single-pass compiler from a C subset to x86-64 assembly",
	Long: `cc64 compiles a small subset of C directly to AT&T-syntax x86-64
assembly in a single pass: no intermediate representation, no
optimization, one translation unit in, one .s file out.

Invoked with exactly one argument: a source path, or "-" to read from
standard input. The assembly is written to standard output; diagnostics
go to standard error.`,
	Version: Version,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd, args[0])
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("cc64 version %s\n", Version))
	rootCmd.PersistentFlags().StringArrayVarP(&includeDirs, "include", "I", nil, "add dir to the #include search path")
	rootCmd.PersistentFlags().BoolVar(&emitDebugLines, "debug-lines", false, "emit .file/.loc directives in the generated assembly")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/cc64/internal/ast"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Parse a source file and dump the resulting AST",
	Long: `parse runs the pipeline through the parser (without generating
assembly) and prints one s-expression tree per top-level function
definition, in declaration order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := parse(args[0], options())
		if err != nil {
			return err
		}
		for _, fn := range ctx.Functions {
			if _, err := fmt.Fprint(os.Stdout, ast.Dump(fn.Node)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/cc64/internal/lexer"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex <path>",
	Short: "Tokenize a source file and print the resulting tokens",
	Long: `lex runs the preprocessor-expanded token stream through the lexer's
debug dump and prints one token per line: useful for inspecting how a
file tokenizes without running the rest of the pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toks, err := tokenize(args[0], options())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(os.Stdout, lexer.Dump(toks))
		return err
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

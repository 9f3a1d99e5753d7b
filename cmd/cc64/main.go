// Command cc64 compiles a C subset to x86-64 AT&T assembly (§6).
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/cc64/cmd/cc64/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

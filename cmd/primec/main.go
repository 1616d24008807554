// Command primec drives the text-filter, lexer, parser, and semantic
// validator over source files, per spec.md §6's external CLI contract.
// Code generation and byte-code lowering stay out of scope: this binary
// is the front-end driver only.
package main

import (
	"fmt"
	"os"

	"github.com/primelang/primec/cmd/primec/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		os.Exit(0)
	}
	if ee, ok := err.(*cmd.ExitErr); !ok || !ee.Printed {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cmd.ExitCode(err))
}

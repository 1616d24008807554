package cmd

import (
	"fmt"
	"strings"

	"github.com/primelang/primec/internal/ast"
	"github.com/spf13/cobra"
)

// dumpProgram renders prog deterministically in source order, depth-first,
// per spec.md §6's AST-dump contract. ast.Dump is the canonical renderer;
// this just captures it into a string for printing or snapshotting.
func dumpProgram(prog *ast.Program) string {
	var sb strings.Builder
	ast.Dump(&sb, prog)
	return sb.String()
}

var parseFilterList string

var parseCmd = &cobra.Command{
	Use:   "parse <input>",
	Short: "Filter, lex, and parse a source file, printing the AST dump",
	Long: `Run the text-filter pipeline, lexer, and parser over a source file
and print its AST: one line per top-level definition or execution, in
source order, with indented transform and statement listings — the
--dump-stage=ast contract from spec.md §6.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseFilterList, "filters", "", "comma-separated filter names (default: the conventional order)")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	prog, _, err := buildProgram(src, splitCommaList(parseFilterList))
	if err != nil {
		return err
	}
	fmt.Print(dumpProgram(prog))
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	cerrors "github.com/primelang/primec/internal/errors"
	"github.com/primelang/primec/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	checkEntry          string
	checkDefaultEffects string
	checkFilterList     string
	checkEmit           string
	checkOutput         string
	checkDumpStage      string
	checkShowSource     bool
)

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Run the full front-end pipeline and report diagnostics",
	Long: `Run the text-filter pipeline, lexer, parser, and semantic validator
over a source file. Exits 0 on success, 2 on a parse or semantic error,
matching spec.md §6's external CLI contract.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkEntry, "entry", "/main", "entry definition path (normalized to /name)")
	checkCmd.Flags().StringVar(&checkDefaultEffects, "default-effects", "", "comma-separated ambient effects available when a definition declares none")
	checkCmd.Flags().StringVar(&checkFilterList, "filters", "", "comma-separated filter names (default: the conventional order)")
	checkCmd.Flags().StringVar(&checkEmit, "emit", "", "emit target (cpp|exe) — not available in this build")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "output file for --emit")
	checkCmd.Flags().StringVar(&checkDumpStage, "dump-stage", "", "print an intermediate stage instead of checking (ast)")
	checkCmd.Flags().BoolVar(&checkShowSource, "show-source", false, "render a source-line-and-caret view for diagnostics, not just a one-line message")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkEmit != "" {
		return toolErr(fmt.Errorf("emit backend not available in this build: %q", checkEmit))
	}

	src, err := readSource(args[0])
	if err != nil {
		return reportErr(cmd, err, args[0], src)
	}
	prog, _, err := buildProgram(src, splitCommaList(checkFilterList))
	if err != nil {
		return reportErr(cmd, err, args[0], src)
	}

	if checkDumpStage == "ast" {
		fmt.Print(dumpProgram(prog))
		return nil
	}

	entry := normalizeEntry(checkEntry)
	if err := semantic.Validate(prog, entry, splitCommaList(checkDefaultEffects)); err != nil {
		return reportErr(cmd, frontEndErr(err), args[0], src)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("%s: OK\n", args[0])
	}
	return nil
}

// reportErr renders err for the user. With --show-source it unwraps to the
// underlying *errors.CompilerError (when there is a single one — a joined
// multi-error lexical failure falls back to the plain message) and
// prints the teacher-style source-line-plus-caret view itself, marking the
// *ExitErr as already printed so main.go's fallback doesn't repeat it.
func reportErr(cmd *cobra.Command, err error, path, src string) error {
	if !checkShowSource || err == nil {
		return err
	}
	var ce *cerrors.CompilerError
	if !errors.As(err, &ce) {
		return err
	}
	ce.File = path
	ce.Source = src
	fmt.Fprintln(cmd.ErrOrStderr(), ce.FormatWithSource(false))
	if ee, ok := err.(*ExitErr); ok {
		ee.Printed = true
	}
	return err
}

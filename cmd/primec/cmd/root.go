package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "primec",
	Short: "Front-end compiler for the path/transform systems language",
	Long: `primec is the front-end driver for a small systems language whose
programs are organized as slash-delimited path names carrying bracketed
transform lists.

It runs the text-filter pipeline, lexer, parser, and semantic validator
over a source file and reports diagnostics. Code generation and
byte-code lowering are out of scope for this binary.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, returning the error that determines the
// process exit code (see ExitCode).
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

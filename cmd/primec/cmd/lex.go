package cmd

import (
	"fmt"

	"github.com/primelang/primec/internal/lexer"
	"github.com/primelang/primec/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexShowPos    bool
	lexShowType   bool
	lexOnlyErrors bool
	lexSkipFilter bool
)

var lexCmd = &cobra.Command{
	Use:   "lex <input>",
	Short: "Tokenize a source file and print the resulting tokens",
	Long: `Tokenize a source file and print the resulting token stream.

By default the source is run through the text-filter pipeline first, the
same way "primec check" does; pass --no-filter to tokenize the raw
surface syntax instead (useful for debugging the filter pipeline itself).`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only illegal tokens")
	lexCmd.Flags().BoolVar(&lexSkipFilter, "no-filter", false, "tokenize raw source, skipping the text-filter pipeline")
}

func runLex(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	input := src
	if !lexSkipFilter {
		input, err = filterSource(src, nil)
		if err != nil {
			return err
		}
	}

	toks, errs := lexer.Tokenize(input)

	errorCount := 0
	for _, tok := range toks {
		if lexOnlyErrors && tok.Type != token.ILLEGAL {
			continue
		}
		printToken(tok)
	}
	for _, e := range errs {
		errorCount++
		fmt.Printf("ILLEGAL %q @%s\n", e.Message, e.Pos)
	}

	if errorCount > 0 {
		return frontEndErr(fmt.Errorf("found %d lexical error(s)", errorCount))
	}
	return nil
}

func printToken(tok token.Token) {
	var out string
	if lexShowType {
		out = fmt.Sprintf("[%-8s]", tok.Type)
	}
	if tok.Literal == "" {
		out += fmt.Sprintf(" %s", tok.Type)
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(out)
}

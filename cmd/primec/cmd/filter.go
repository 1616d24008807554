package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var filterList string

var filterCmd = &cobra.Command{
	Use:   "filter <input>",
	Short: "Run only the text-filter pipeline and print the rewritten source",
	Long: `Run the text-filter pipeline over a source file and print the
rewritten, canonical call-based form — without lexing or parsing it.

By default the conventional filter order (collections, operators,
implicit-i32, implicit-utf8) runs; --filters overrides it.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringVar(&filterList, "filters", "", "comma-separated filter names (default: the conventional order)")
}

func runFilter(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	out, err := filterSource(src, splitCommaList(filterList))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

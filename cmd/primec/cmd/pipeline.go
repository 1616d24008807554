package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/primelang/primec/internal/ast"
	cerrors "github.com/primelang/primec/internal/errors"
	"github.com/primelang/primec/internal/lexer"
	"github.com/primelang/primec/internal/parser"
	"github.com/primelang/primec/internal/textfilter"
	"github.com/primelang/primec/internal/token"
	"github.com/primelang/primec/internal/transformrule"
)

// readSource loads the source file at path.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", frontEndErr(fmt.Errorf("read %s: %w", path, err))
	}
	return string(data), nil
}

// filterSource runs the text-filter pipeline with filters, or the
// conventional default order when filters is empty.
func filterSource(src string, filters []string) (string, error) {
	if len(filters) == 0 {
		filters = textfilter.DefaultFilters
	}
	out, err := textfilter.Run(src, textfilter.Options{Filters: filters})
	if err != nil {
		return "", frontEndErr(err)
	}
	return out, nil
}

// lexFiltered tokenizes already-filtered source, joining any accumulated
// lexical errors into a single front-end error.
func lexFiltered(filtered string) ([]token.Token, error) {
	toks, errs := lexer.Tokenize(filtered)
	if len(errs) > 0 {
		lines := make([]string, 0, len(errs))
		for _, e := range errs {
			lines = append(lines, cerrors.NewAt(cerrors.Lexical, e.Message, e.Pos).Format())
		}
		return nil, frontEndErr(fmt.Errorf("%s", strings.Join(lines, "\n")))
	}
	return toks, nil
}

// parseTokens parses a token stream and applies the (currently empty)
// ambient transform-rule set — a program this CLI runs carries no
// external rule file, so ApplyRules is a deliberate no-op wiring of that
// stage rather than a dropped concern.
func parseTokens(toks []token.Token) (*ast.Program, error) {
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, frontEndErr(err)
	}
	transformrule.ApplyRules(prog, nil)
	return prog, nil
}

// buildProgram runs the full front-end pipeline: text filter, lex, parse.
func buildProgram(src string, filters []string) (*ast.Program, string, error) {
	filtered, err := filterSource(src, filters)
	if err != nil {
		return nil, "", err
	}
	toks, err := lexFiltered(filtered)
	if err != nil {
		return nil, filtered, err
	}
	prog, err := parseTokens(toks)
	if err != nil {
		return nil, filtered, err
	}
	return prog, filtered, nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeEntry applies spec.md §6's "default /main, normalized to
// /name" rule: a bare name gets a leading slash prepended.
func normalizeEntry(entry string) string {
	if entry == "" {
		return "/main"
	}
	if strings.HasPrefix(entry, "/") {
		return entry
	}
	return "/" + entry
}

package cmd

import (
	"testing"
)

func TestRunLexReportsIllegalTokens(t *testing.T) {
	lexShowPos = false
	lexShowType = false
	lexOnlyErrors = true
	lexSkipFilter = true
	path := writeTempSource(t, "widget() { `oops }\n")
	if err := runLex(lexCmd, []string{path}); err == nil {
		t.Fatalf("expected a lexical error for the illegal backtick byte")
	}
}

func TestRunLexAcceptsCleanInput(t *testing.T) {
	lexShowPos = false
	lexShowType = false
	lexOnlyErrors = false
	lexSkipFilter = false
	path := writeTempSource(t, "main() { }\n")
	if err := runLex(lexCmd, []string{path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.prime")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write temp source: %v", err)
	}
	return path
}

func resetCheckFlags() {
	checkEntry = "/main"
	checkDefaultEffects = ""
	checkFilterList = ""
	checkEmit = ""
	checkOutput = ""
	checkDumpStage = ""
}

func TestRunCheckAcceptsValidProgram(t *testing.T) {
	resetCheckFlags()
	path := writeTempSource(t, "[return<i32>]\nmain() { return(1i32) }\n")
	if err := runCheck(checkCmd, []string{path}); err != nil {
		t.Fatalf("expected acceptance, got: %v", err)
	}
}

func TestRunCheckRejectsSemanticError(t *testing.T) {
	resetCheckFlags()
	path := writeTempSource(t, "main() { print_line(1i32) }\n")
	err := runCheck(checkCmd, []string{path})
	if err == nil {
		t.Fatalf("expected rejection: print_line requires io_out")
	}
	if ExitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d", ExitCode(err))
	}
}

func TestRunCheckAcceptsWithDefaultEffectsFlag(t *testing.T) {
	resetCheckFlags()
	checkDefaultEffects = "io_out"
	path := writeTempSource(t, "main() { print_line(1i32) }\n")
	if err := runCheck(checkCmd, []string{path}); err != nil {
		t.Fatalf("expected acceptance with --default-effects=io_out, got: %v", err)
	}
}

func TestRunCheckRejectsEmitWithExitCode3(t *testing.T) {
	resetCheckFlags()
	checkEmit = "cpp"
	path := writeTempSource(t, "main() { }\n")
	err := runCheck(checkCmd, []string{path})
	if err == nil {
		t.Fatalf("expected rejection: emit backend not available")
	}
	if ExitCode(err) != 3 {
		t.Fatalf("expected exit code 3, got %d", ExitCode(err))
	}
}

func TestRunCheckDumpStageAstPrintsWithoutValidating(t *testing.T) {
	resetCheckFlags()
	checkDumpStage = "ast"
	path := writeTempSource(t, "main([i32] argc) { }\n")
	if err := runCheck(checkCmd, []string{path}); err != nil {
		t.Fatalf("expected the ast dump to skip entry-parameter validation, got: %v", err)
	}
}

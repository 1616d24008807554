package cmd

import "testing"

func TestDefinesPath(t *testing.T) {
	prog, _, err := buildProgram("main() { }\n", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !definesPath(prog, "/main") {
		t.Fatalf("expected /main to be defined")
	}
	if definesPath(prog, "/other") {
		t.Fatalf("expected /other not to be defined")
	}
}

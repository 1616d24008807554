package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEntry(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty defaults to /main", "", "/main"},
		{"bare name gets a leading slash", "main", "/main"},
		{"already-slashed path is unchanged", "/demo/main", "/demo/main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeEntry(tt.in); got != tt.want {
				t.Fatalf("normalizeEntry(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty string yields nil", "", nil},
		{"single name", "io_out", []string{"io_out"}},
		{"multiple names with spaces trimmed", "io_out, io_err,  heap_alloc", []string{"io_out", "io_err", "heap_alloc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCommaList(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("splitCommaList(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("splitCommaList(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestBalanceDelta(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"no brackets", "quit", 0},
		{"opens a block", "main() {", 1},
		{"closes a block", "}", -1},
		{"balanced on one line", "main() { }", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := balanceDelta(tt.in); got != tt.want {
				t.Fatalf("balanceDelta(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildProgramRunsFullFrontEnd(t *testing.T) {
	prog, filtered, err := buildProgram("[return<i32>]\nmain() { return(1i32) }\n", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filtered == "" {
		t.Fatalf("expected non-empty filtered source")
	}
	if len(prog.Definitions) != 1 || prog.Definitions[0].FullPath != "/main" {
		t.Fatalf("expected a single /main definition, got %+v", prog.Definitions)
	}
}

func TestBuildProgramReportsParseErrorsAsExitErr(t *testing.T) {
	_, _, err := buildProgram("widget() { } widget() { }\n", nil)
	if err == nil {
		t.Fatalf("expected a duplicate-definition error")
	}
	var ee *ExitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected an *ExitErr, got %T", err)
	}
	if ee.Code != 2 {
		t.Fatalf("expected exit code 2, got %d", ee.Code)
	}
}

func TestDumpProgramIsSourceOrderDepthFirst(t *testing.T) {
	prog, _, err := buildProgram("a() { }\nb() { }\n", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dump := dumpProgram(prog)
	if !strings.Contains(dump, "/a") || !strings.Contains(dump, "/b") {
		t.Fatalf("expected dump to mention both definitions, got %q", dump)
	}
	if strings.Index(dump, "/a") > strings.Index(dump, "/b") {
		t.Fatalf("expected /a to precede /b in source order, got %q", dump)
	}
}

package cmd

import (
	"strings"
	"testing"
)

func TestRunFilterRewritesOperators(t *testing.T) {
	filterList = ""
	path := writeTempSource(t, "main() { [i32] x{1+2} }\n")
	out, err := filterSource(mustReadSource(t, path), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "plus(") {
		t.Fatalf("expected the operator filter to rewrite + into plus(...), got %q", out)
	}
}

func mustReadSource(t *testing.T, path string) string {
	t.Helper()
	src, err := readSource(path)
	if err != nil {
		t.Fatalf("unexpected error reading %s: %v", path, err)
	}
	return src
}

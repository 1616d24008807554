package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDumpProgramSnapshots locks down the --dump-stage=ast surface against
// accidental reformatting, the way fixture_test.go locks down interpreter
// output in the teacher repo.
func TestDumpProgramSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{
			name: "minimal_entry",
			src:  "main() { }\n",
		},
		{
			name: "binding_and_return",
			src:  "[return<i32>]\nmain() { [i32] x{1i32} return(x) }\n",
		},
		{
			name: "top_level_execution",
			src:  "widget() { }\nwidget()\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog, _, err := buildProgram(tc.src, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			snaps.MatchSnapshot(t, tc.name, dumpProgram(prog))
		})
	}
}

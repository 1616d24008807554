package cmd

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(frontEndErr(errors.New("boom"))); got != 2 {
		t.Fatalf("ExitCode(frontEndErr) = %d, want 2", got)
	}
	if got := ExitCode(toolErr(errors.New("boom"))); got != 3 {
		t.Fatalf("ExitCode(toolErr) = %d, want 3", got)
	}
	if got := ExitCode(errors.New("plain error")); got != 2 {
		t.Fatalf("ExitCode(plain error) = %d, want 2", got)
	}
}

func TestFrontEndErrAndToolErrPassNilThrough(t *testing.T) {
	if frontEndErr(nil) != nil {
		t.Fatalf("expected frontEndErr(nil) to stay nil")
	}
	if toolErr(nil) != nil {
		t.Fatalf("expected toolErr(nil) to stay nil")
	}
}

// Package errors formats compiler diagnostics as a single human-readable
// line, per spec.md §7: every error is fatal to the current invocation,
// carries enough context (path, parameter, transform name) to be
// actionable without line numbers, and is surfaced as a (category,
// message) pair. Grounded on the teacher's internal/errors.CompilerError,
// simplified to the no-line-number contract and with the teacher's
// source-context/caret rendering kept as an opt-in extra.
package errors

import (
	"fmt"
	"strings"

	"github.com/primelang/primec/internal/token"
)

// Category classifies a CompilerError into one of the four buckets from
// spec.md §7.
type Category string

const (
	Lexical       Category = "lexical"
	Syntactic     Category = "syntactic"
	Semantic      Category = "semantic"
	FilterRewrite Category = "filter"
)

// CompilerError is a single fatal diagnostic.
type CompilerError struct {
	Category Category
	Message  string
	Pos      token.Position // zero value if not applicable (e.g. whole-file filter errors)
	Source   string
	File     string
}

// New creates a CompilerError with no position context.
func New(category Category, message string) *CompilerError {
	return &CompilerError{Category: category, Message: message}
}

// NewAt creates a CompilerError anchored to a source position.
func NewAt(category Category, message string, pos token.Position) *CompilerError {
	return &CompilerError{Category: category, Message: message, Pos: pos}
}

// Error implements the error interface as a single line, matching the
// "no partial output, one line on stderr" contract.
func (e *CompilerError) Error() string {
	return e.Format()
}

// Format renders "<category>: <message>", with position appended when set.
func (e *CompilerError) Format() string {
	if e.Pos == (token.Position{}) {
		return fmt.Sprintf("%s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Category, e.Message, e.Pos)
}

// FormatWithSource renders the teacher-style source-line-plus-caret view.
// This is an ambient CLI nicety (`primec check --show-source`), not part of
// the spec's invariants.
func (e *CompilerError) FormatWithSource(color bool) string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s: %s:%d:%d\n", e.Category, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s: line %d:%d\n", e.Category, e.Pos.Line, e.Pos.Column))
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line >= 1 && e.Pos.Line <= len(lines) {
		srcLine := lines[e.Pos.Line-1]
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(srcLine)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(e.Pos.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteByte('^')
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// FormatErrors joins multiple errors, one per line.
func FormatErrors(errs []*CompilerError) string {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Format())
	}
	return strings.Join(lines, "\n")
}

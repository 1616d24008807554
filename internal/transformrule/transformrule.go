// Package transformrule applies path-scoped transform rules to a parsed
// Program, appending semantic-phase transforms to the definitions and
// executions whose fullPath matches a rule.
//
// Ported directly from original_source/src/TransformRules.cpp:
// ruleMatchesPath, selectRuleTransforms (last-match-wins by scanning the
// whole rule list, not relying on map ordering), and ApplyRules (renamed
// from applySemanticTransformRules).
package transformrule

import (
	"strings"

	"github.com/primelang/primec/internal/ast"
)

// Rule is a single path-scoped transform rule.
type Rule struct {
	Path       string
	Wildcard   bool
	Recursive  bool
	Transforms []string
}

// Matches reports whether rule applies to path, per the three match kinds
// from spec.md §4.4: exact, wildcard-non-recursive (single trailing
// segment), wildcard-recursive (any trailing remainder).
func (r Rule) Matches(path string) bool {
	if !r.Wildcard {
		return path == r.Path
	}
	if r.Path == "" {
		if path == "" || path[0] != '/' {
			return false
		}
		if r.Recursive {
			return true
		}
		return !strings.Contains(path[1:], "/")
	}
	if len(path) <= len(r.Path) {
		return false
	}
	if !strings.HasPrefix(path, r.Path) {
		return false
	}
	if path[len(r.Path)] != '/' {
		return false
	}
	if r.Recursive {
		return true
	}
	rest := path[len(r.Path)+1:]
	return !strings.Contains(rest, "/")
}

// SelectTransforms scans rules in order and returns the transform-name list
// of the last rule matching path, or nil if none match. Scanning the full
// list (rather than stopping at the first match) is what makes later rules
// win, matching the original's single mutable "best match" pointer.
func SelectTransforms(rules []Rule, path string) []string {
	var selected []string
	for _, r := range rules {
		if r.Matches(path) {
			selected = r.Transforms
		}
	}
	return selected
}

// ApplyRules appends matching rule transforms, phase Semantic, to every
// definition and execution in p. No-op if rules is empty.
func ApplyRules(p *ast.Program, rules []Rule) {
	if len(rules) == 0 {
		return
	}
	for _, def := range p.Definitions {
		applyTo(def.FullPath, &def.Transforms, rules)
	}
	for _, exec := range p.Executions {
		applyTo(exec.FullPath, &exec.Transforms, rules)
	}
}

func applyTo(path string, transforms *[]*ast.Transform, rules []Rule) {
	names := SelectTransforms(rules, path)
	for _, name := range names {
		*transforms = append(*transforms, &ast.Transform{
			Name:  name,
			Phase: ast.PhaseSemantic,
		})
	}
}

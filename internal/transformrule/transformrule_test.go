package transformrule

import (
	"testing"

	"github.com/primelang/primec/internal/ast"
)

func TestExactMatch(t *testing.T) {
	r := Rule{Path: "/demo/widget"}
	if !r.Matches("/demo/widget") {
		t.Fatal("expected exact match")
	}
	if r.Matches("/demo/widget/extra") {
		t.Fatal("expected no match for longer path")
	}
}

func TestWildcardNonRecursive(t *testing.T) {
	r := Rule{Path: "/demo", Wildcard: true}
	if !r.Matches("/demo/widget") {
		t.Fatal("expected single-segment wildcard match")
	}
	if r.Matches("/demo/widget/nested") {
		t.Fatal("expected no match across multiple segments")
	}
	if r.Matches("/other/widget") {
		t.Fatal("expected no match outside prefix")
	}
}

func TestWildcardRecursive(t *testing.T) {
	r := Rule{Path: "/demo", Wildcard: true, Recursive: true}
	if !r.Matches("/demo/widget/nested/deep") {
		t.Fatal("expected recursive wildcard to match any depth")
	}
}

func TestEmptyPathWildcardMatchesAllRoots(t *testing.T) {
	r := Rule{Path: "", Wildcard: true}
	if !r.Matches("/main") {
		t.Fatal("expected root wildcard to match top-level path")
	}
	if r.Matches("/demo/widget") {
		t.Fatal("expected root non-recursive wildcard to reject nested path")
	}
}

func TestLastMatchWins(t *testing.T) {
	rules := []Rule{
		{Path: "/demo", Wildcard: true, Recursive: true, Transforms: []string{"first"}},
		{Path: "/demo/widget", Transforms: []string{"second"}},
	}
	got := SelectTransforms(rules, "/demo/widget")
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("expected last matching rule to win, got %v", got)
	}
}

func TestApplyRulesAppendsSemanticPhase(t *testing.T) {
	def := &ast.Definition{FullPath: "/demo/widget"}
	p := &ast.Program{Definitions: []*ast.Definition{def}}
	rules := []Rule{{Path: "/demo", Wildcard: true, Recursive: true, Transforms: []string{"mut"}}}

	ApplyRules(p, rules)

	if len(def.Transforms) != 1 {
		t.Fatalf("expected one appended transform, got %d", len(def.Transforms))
	}
	if def.Transforms[0].Name != "mut" || def.Transforms[0].Phase != ast.PhaseSemantic {
		t.Fatalf("unexpected transform: %+v", def.Transforms[0])
	}
}

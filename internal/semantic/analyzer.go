package semantic

import (
	"github.com/primelang/primec/internal/ast"
)

// Analyzer holds the mutable, fullPath-keyed maps the three passes share —
// following the teacher's single Analyzer-with-maps idiom (analyzer.go) but
// fail-fast: each pass returns on the first violation instead of
// accumulating a diagnostics list, matching spec.md §4.5's "each check
// failure stops the pass and emits one error" contract.
type Analyzer struct {
	prog *ast.Program

	entry         string
	defaultEffect []string

	defs map[string]*ast.Definition

	returnKinds map[string]*Kind   // fullPath -> resolved return kind ("void" if none)
	effects     map[string][]string
	caps        map[string][]string

	inferring map[string]bool // fullPath currently being inferred (cycle detection)
}

// Validate runs the three passes over prog in order. entry defaults to
// "/main" and defaultEffects to nil (no ambient effects) when empty.
func Validate(prog *ast.Program, entry string, defaultEffects []string) error {
	if entry == "" {
		entry = "/main"
	}
	a := &Analyzer{
		prog:          prog,
		entry:         entry,
		defaultEffect: defaultEffects,
		defs:          map[string]*ast.Definition{},
		returnKinds:   map[string]*Kind{},
		effects:       map[string][]string{},
		caps:          map[string][]string{},
		inferring:     map[string]bool{},
	}
	if err := a.runDeclarationPass(); err != nil {
		return err
	}
	if err := a.runTypeResolutionPass(); err != nil {
		return err
	}
	if err := a.runValidationPass(); err != nil {
		return err
	}
	return nil
}

// scope binds names visible at a point in a definition's body to their
// resolved kind, built up in source order as bindings are encountered.
type scope struct {
	vars   map[string]*Kind
	mut    map[string]bool
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]*Kind{}, mut: map[string]bool{}, parent: parent}
}

func (s *scope) lookup(name string) (*Kind, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if k, ok := cur.vars[name]; ok {
			return k, true
		}
	}
	return nil, false
}

func (s *scope) isMutable(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			return cur.mut[name]
		}
	}
	return false
}

func (s *scope) bind(name string, k *Kind, mutable bool) {
	s.vars[name] = k
	s.mut[name] = mutable
}

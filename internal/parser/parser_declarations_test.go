package parser_test

import (
	"testing"

	"github.com/primelang/primec/internal/ast"
	"github.com/primelang/primec/internal/lexer"
	"github.com/primelang/primec/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, errs := lexer.Tokenize(src)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseImportRequiresTwoSegments(t *testing.T) {
	toks, _ := lexer.Tokenize("import /math\n")
	if _, err := parser.Parse(toks); err == nil {
		t.Fatalf("expected an error for a single-segment import path")
	}
}

func TestParseImportAcceptsDeepPath(t *testing.T) {
	prog := mustParse(t, "import /math/trig\n")
	if len(prog.Imports) != 1 || prog.Imports[0] != "/math/trig" {
		t.Fatalf("unexpected imports: %v", prog.Imports)
	}
}

func TestParseNamespaceNestsPaths(t *testing.T) {
	prog := mustParse(t, "namespace demo { widget() { } }")
	if len(prog.Definitions) != 1 {
		t.Fatalf("expected one definition, got %d", len(prog.Definitions))
	}
	if prog.Definitions[0].FullPath != "/demo/widget" {
		t.Fatalf("unexpected full path: %q", prog.Definitions[0].FullPath)
	}
}

func TestParseDefinitionRequiresBrace(t *testing.T) {
	prog := mustParse(t, "widget() { }\n")
	if len(prog.Definitions) != 1 || len(prog.Executions) != 0 {
		t.Fatalf("expected exactly one definition, got defs=%d execs=%d", len(prog.Definitions), len(prog.Executions))
	}
}

func TestParseExecutionHasNoBody(t *testing.T) {
	prog := mustParse(t, "widget(1i32, 2i32)\n")
	if len(prog.Executions) != 1 || len(prog.Definitions) != 0 {
		t.Fatalf("expected exactly one execution, got defs=%d execs=%d", len(prog.Definitions), len(prog.Executions))
	}
	exec := prog.Executions[0]
	if exec.HasBody {
		t.Fatalf("expected a top-level execution to never carry a body")
	}
	if len(exec.Args) != 2 {
		t.Fatalf("expected two arguments, got %d", len(exec.Args))
	}
}

func TestParseDefinitionWithTransformAndParams(t *testing.T) {
	prog := mustParse(t, "[return<i32>] add([i32] a, [i32] b) { return(a) }\n")
	if len(prog.Definitions) != 1 {
		t.Fatalf("expected one definition, got %d", len(prog.Definitions))
	}
	def := prog.Definitions[0]
	if len(def.Transforms) != 1 || def.Transforms[0].Name != "return" {
		t.Fatalf("unexpected transforms: %v", def.Transforms)
	}
	if len(def.Params) != 2 {
		t.Fatalf("expected two parameters, got %d", len(def.Params))
	}
	for _, param := range def.Params {
		if !param.IsBinding {
			t.Fatalf("expected every parameter to be a binding, got %+v", param)
		}
	}
	if !def.HasReturnStmt {
		t.Fatalf("expected HasReturnStmt to be set")
	}
}

func TestParseDefinitionRetainsTemplateParams(t *testing.T) {
	prog := mustParse(t, "box<T>([T] value) { }\n")
	if len(prog.Definitions) != 1 {
		t.Fatalf("expected one definition, got %d", len(prog.Definitions))
	}
	def := prog.Definitions[0]
	if len(def.TemplateParams) != 1 || def.TemplateParams[0] != "T" {
		t.Fatalf("unexpected template params: %v", def.TemplateParams)
	}
}

func TestParseExecutionRetainsTemplateArgs(t *testing.T) {
	prog := mustParse(t, "box<i32>(1i32)\n")
	if len(prog.Executions) != 1 {
		t.Fatalf("expected one execution, got %d", len(prog.Executions))
	}
	exec := prog.Executions[0]
	if len(exec.TemplateArgs) != 1 || exec.TemplateArgs[0] != "i32" {
		t.Fatalf("unexpected template args: %v", exec.TemplateArgs)
	}
}

func TestParseStructLikeDefinition(t *testing.T) {
	prog := mustParse(t, "[struct] point() { x{0i32} y{0i32} }\n")
	if len(prog.Definitions) != 1 {
		t.Fatalf("expected one definition, got %d", len(prog.Definitions))
	}
	if !prog.Definitions[0].IsStructLike {
		t.Fatalf("expected the definition to be recognized as struct-like")
	}
}

func TestParseDuplicateDefinitionIsError(t *testing.T) {
	toks, _ := lexer.Tokenize("widget() { } widget() { }\n")
	if _, err := parser.Parse(toks); err == nil {
		t.Fatalf("expected a duplicate-definition error")
	}
}

func TestParseReservedWordRejectedAsDefinitionName(t *testing.T) {
	toks, _ := lexer.Tokenize("return() { }\n")
	if _, err := parser.Parse(toks); err == nil {
		t.Fatalf("expected reserved keyword to be rejected as a definition name")
	}
}

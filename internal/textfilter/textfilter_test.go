package textfilter

import (
	"strings"
	"testing"
)

func runDefault(t *testing.T, src string) string {
	t.Helper()
	out, err := Run(src, Options{Filters: DefaultFilters})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestCollectionsArrayBraceToCall(t *testing.T) {
	out, err := applyCollections("array<i32>{1i32, 2i32, 3i32}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "array<i32>(1i32, 2i32, 3i32)" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCollectionsArrayBracketToCall(t *testing.T) {
	out, err := applyCollections("array<i32>[1i32, 2i32]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "array<i32>(1i32, 2i32)" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCollectionsMapFlattensPairs(t *testing.T) {
	out, err := applyCollections("map<i32, i32>[1i32=2i32, 3i32=4i32]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "map<i32, i32>(1i32, 2i32, 3i32, 4i32)"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestCollectionsIdempotent(t *testing.T) {
	first, err := applyCollections("array<i32>{1i32, 2i32}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := applyCollections(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected idempotence, got %q then %q", first, second)
	}
}

func TestCollectionsPreservesComparisonOperators(t *testing.T) {
	out, err := applyCollections("array<i32>{a == b, c != d}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "a == b") || !strings.Contains(out, "c != d") {
		t.Fatalf("expected comparison operators preserved, got %q", out)
	}
}

func TestOperatorsPlusRewrite(t *testing.T) {
	out, err := applyOperators("plus_expr(a + b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "plus(a, b)") {
		t.Fatalf("expected plus(a, b), got %q", out)
	}
}

func TestOperatorsPrecedence(t *testing.T) {
	out, err := applyOperators("a + b * c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "plus(a, multiply(b, c))"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestOperatorsAssignRightAssociative(t *testing.T) {
	out, err := applyOperators("a = b = c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "assign(a, assign(b, c))"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestOperatorsUnaryForms(t *testing.T) {
	tests := map[string]string{
		"!x":  "not(x)",
		"-x":  "negate(x)",
		"&x":  "location(x)",
		"*x":  "dereference(x)",
		"++x": "increment(x)",
		"x++": "increment(x)",
		"--x": "decrement(x)",
		"x--": "decrement(x)",
	}
	for in, want := range tests {
		out, err := applyOperators(in)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", in, err)
		}
		if out != want {
			t.Fatalf("input %q: expected %q, got %q", in, want, out)
		}
	}
}

func TestOperatorsNestedCallArguments(t *testing.T) {
	out, err := applyOperators("call(a + b, c)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "call(plus(a, b), c)"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestImplicitI32InsertsSuffix(t *testing.T) {
	out, err := applyImplicitI32("call(1, 2i64, 3.5)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "call(1i32, 2i64, 3.5)"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestImplicitI32Idempotent(t *testing.T) {
	first, err := applyImplicitI32("call(1, 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := applyImplicitI32(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected idempotence, got %q then %q", first, second)
	}
}

func TestImplicitUtf8InsertsSuffix(t *testing.T) {
	out, err := applyImplicitUtf8(`call("hi", 'lo'ascii)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `call("hi"utf8, 'lo'ascii)`
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestImplicitUtf8Idempotent(t *testing.T) {
	first, err := applyImplicitUtf8(`call("hi")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := applyImplicitUtf8(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected idempotence, got %q then %q", first, second)
	}
}

func TestCommentBytesPreservedVerbatim(t *testing.T) {
	src := "a /* keep {this} untouched == weird */ + b"
	out, err := applyOperators(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "/* keep {this} untouched == weird */") {
		t.Fatalf("expected comment bytes preserved, got %q", out)
	}
}

func TestStringBytesPreservedVerbatim(t *testing.T) {
	src := `call("a + b")`
	out, err := applyOperators(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"a + b"`) {
		t.Fatalf("expected string contents preserved verbatim, got %q", out)
	}
}

func TestEndToEndReturnAPlusB(t *testing.T) {
	out := runDefault(t, "main(){ return(a+b) }\n")
	if !strings.Contains(out, "plus(a, b)") {
		t.Fatalf("expected filtered output to contain plus(a, b), got %q", out)
	}
}

func TestEndToEndMapLiteral(t *testing.T) {
	out := runDefault(t, "main(){ make(map<i32, i32>[1i32=2i32, 3i32=4i32]) }\n")
	if !strings.Contains(out, "map<i32, i32>(1i32, 2i32, 3i32, 4i32)") {
		t.Fatalf("expected flattened map literal, got %q", out)
	}
}

func TestUnterminatedBlockCommentIsFilterError(t *testing.T) {
	_, err := Run("a /* never closed", Options{Filters: DefaultFilters})
	if err == nil {
		t.Fatalf("expected an unterminated-comment error")
	}
}

func TestAppendOperatorsAddsOperatorsOnce(t *testing.T) {
	out, err := applyFilterList("a+b", []string{"append_operators"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "plus(a, b)" {
		t.Fatalf("expected append_operators to materialize operators, got %q", out)
	}
}

func TestAppendOperatorsDoesNotDuplicateOperators(t *testing.T) {
	out, err := applyFilterList("a+b", []string{"operators", "append_operators"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "plus(a, b)" {
		t.Fatalf("expected single application of operators, got %q", out)
	}
}

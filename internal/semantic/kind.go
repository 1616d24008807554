// Package semantic implements the three-pass validator of spec.md §4.5:
// structural indexing, parameter/return-type resolution, and body/statement/
// call checking. Grounded on the teacher's internal/semantic/passes split
// (declaration_pass.go / type_resolution_pass.go / validation_pass.go) and
// analyzer.go's single mutable analyzer-with-maps-keyed-by-fullPath idiom.
package semantic

import (
	"strings"

	"github.com/primelang/primec/internal/ast"
	"github.com/primelang/primec/internal/registry"
)

// Kind is a resolved value type: a primitive, a struct-like definition
// reference, or a templated family (Pointer/Reference/array/vector/map).
type Kind struct {
	Name string // "i32", "i64", "u64", "f32", "f64", "bool", "string", "void",
	// "struct", "Pointer", "Reference", "array", "vector", "map"
	Path string // struct-like FullPath, when Name == "struct"
	Elem *Kind  // Pointer/Reference/array/vector element
	Key  *Kind  // map key
	Val  *Kind  // map value
}

func primitiveKind(name string) *Kind {
	switch name {
	case "int":
		return &Kind{Name: "i32"}
	case "float":
		return &Kind{Name: "f64"}
	default:
		return &Kind{Name: name}
	}
}

func structKind(path string) *Kind { return &Kind{Name: "struct", Path: path} }

func (k *Kind) String() string {
	if k == nil {
		return "<unknown>"
	}
	switch k.Name {
	case "struct":
		return k.Path
	case "Pointer", "Reference", "array", "vector":
		return k.Name + "<" + k.Elem.String() + ">"
	case "map":
		return k.Name + "<" + k.Key.String() + ", " + k.Val.String() + ">"
	default:
		return k.Name
	}
}

func (k *Kind) isPrimitive() bool {
	return k != nil && registry.IsPrimitiveName(k.Name)
}

func (k *Kind) isNumeric() bool {
	switch k.Name {
	case "i32", "i64", "u64", "f32", "f64":
		return true
	default:
		return false
	}
}

func kindsEqual(a, b *Kind) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Path != b.Path {
		return false
	}
	if !kindsEqual(a.Elem, b.Elem) {
		return false
	}
	if !kindsEqual(a.Key, b.Key) {
		return false
	}
	return kindsEqual(a.Val, b.Val)
}

// promotionTable is the numeric-promotion rule from spec.md §4.5, read as
// promotionTable[left][right] -> result name, "" meaning invalid (⊥).
var promotionTable = map[string]map[string]string{
	"i32":  {"i32": "i32", "i64": "i64", "f32": "f32", "f64": "f64"},
	"i64":  {"i32": "i64", "i64": "i64", "f64": "f64"},
	"u64":  {"u64": "u64"},
	"f32":  {"i32": "f32", "f32": "f32", "f64": "f64"},
	"f64":  {"i32": "f64", "i64": "f64", "f32": "f64", "f64": "f64"},
	"bool": {},
}

// promote resolves the arithmetic result kind of two numeric operand kinds
// per the promotion table, returning (nil, false) for ⊥ (invalid) pairs.
func promote(left, right *Kind) (*Kind, bool) {
	if left == nil || right == nil {
		return nil, false
	}
	row, ok := promotionTable[left.Name]
	if !ok {
		return nil, false
	}
	name, ok := row[right.Name]
	if !ok {
		return nil, false
	}
	return &Kind{Name: name}, true
}

// comparisonOperandsValid applies the widening/exclusion rules spec.md §4.5
// lists for comparison builtins: bool widens to i32 when paired with a
// signed integer, string only compares against string, mixed signed/unsigned
// and mixed int/float are always invalid.
func comparisonOperandsValid(left, right *Kind) bool {
	if left == nil || right == nil {
		return false
	}
	if left.Name == "string" || right.Name == "string" {
		return left.Name == "string" && right.Name == "string"
	}
	l, r := left.Name, right.Name
	if l == "bool" {
		l = "i32"
	}
	if r == "bool" {
		r = "i32"
	}
	isFloat := func(n string) bool { return n == "f32" || n == "f64" }
	if isFloat(l) != isFloat(r) {
		return false
	}
	_, ok := promote(&Kind{Name: l}, &Kind{Name: r})
	return ok
}

// resolveTypeTransform interprets a single `[T]` transform as a declared
// type: a primitive name, a templated family with the right template arity,
// or a path naming a struct-like definition already indexed.
func (a *Analyzer) resolveTypeTransform(t *ast.Transform) (*Kind, error) {
	if registry.IsPrimitiveName(t.Name) {
		return primitiveKind(t.Name), nil
	}
	switch t.Name {
	case "Pointer", "Reference":
		if len(t.TemplateArgs) != 1 {
			return nil, semErrf("%s requires exactly one template argument", t.Name)
		}
		elem, err := a.resolveTypeName(t.TemplateArgs[0])
		if err != nil {
			return nil, err
		}
		if !elem.isPrimitive() {
			return nil, semErrf("%s target must be a primitive type, found %q", t.Name, elem.String())
		}
		return &Kind{Name: t.Name, Elem: elem}, nil
	case "array", "vector":
		if len(t.TemplateArgs) != 1 {
			return nil, semErrf("%s requires exactly one template argument", t.Name)
		}
		elem, err := a.resolveTypeName(t.TemplateArgs[0])
		if err != nil {
			return nil, err
		}
		return &Kind{Name: t.Name, Elem: elem}, nil
	case "map":
		if len(t.TemplateArgs) != 2 {
			return nil, semErrf("map requires exactly two template arguments")
		}
		key, err := a.resolveTypeName(t.TemplateArgs[0])
		if err != nil {
			return nil, err
		}
		val, err := a.resolveTypeName(t.TemplateArgs[1])
		if err != nil {
			return nil, err
		}
		return &Kind{Name: "map", Key: key, Val: val}, nil
	}
	if path, ok := a.structPath(t.Name); ok {
		return structKind(path), nil
	}
	return nil, semErrf("unknown type name: %q", t.Name)
}

// resolveDeclaredType picks the one type transform out of a binding's or
// parameter's transform list, ignoring any binding qualifiers (mut, copy,
// restrict, public, private, package, static, align_bytes, align_kbytes)
// that compose alongside it in the same bracketed list, e.g. [mut, i32] x.
func (a *Analyzer) resolveDeclaredType(transforms []*ast.Transform) (*Kind, error) {
	var typeTransform *ast.Transform
	for _, t := range transforms {
		if registry.IsBindingQualifierName(t.Name) {
			continue
		}
		if typeTransform != nil {
			return nil, semErrf("must declare exactly one type, found both %q and %q", typeTransform.Name, t.Name)
		}
		typeTransform = t
	}
	if typeTransform == nil {
		return nil, semErrf("must declare exactly one type")
	}
	return a.resolveTypeTransform(typeTransform)
}

// resolveTypeName resolves a bare type-name token used as a template
// argument: either a known primitive, or a struct-like path.
func (a *Analyzer) resolveTypeName(name string) (*Kind, error) {
	if registry.IsPrimitiveName(name) {
		return primitiveKind(name), nil
	}
	if path, ok := a.structPath(name); ok {
		return structKind(path), nil
	}
	return nil, semErrf("unknown type name: %q", name)
}

// structPath resolves a literal-spelled name or path to a struct-like
// definition's FullPath.
func (a *Analyzer) structPath(name string) (string, bool) {
	if d, ok := a.defs[name]; ok && d.IsStructLike {
		return d.FullPath, true
	}
	for path, d := range a.defs {
		if d.IsStructLike && d.Name == name {
			return path, true
		}
	}
	return "", false
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

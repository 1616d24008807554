package semantic

import (
	"github.com/primelang/primec/internal/ast"
)

// runTypeResolutionPass is Pass B: resolve every definition's parameter
// kinds, then resolve (or infer) every definition's return kind. Grounded
// on the teacher's type_resolution_pass.go for the pass shape; cycle
// detection follows original_source's Semantics.cpp inferenceStack
// DFS-with-visited-set, reimplemented here as Analyzer.inferring.
func (a *Analyzer) runTypeResolutionPass() error {
	for _, d := range a.prog.Definitions {
		if err := a.resolveParams(d); err != nil {
			return err
		}
	}
	for _, d := range a.prog.Definitions {
		if _, err := a.resolveReturnKind(d.FullPath); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) resolveParams(d *ast.Definition) error {
	for _, p := range d.Params {
		if !p.IsBinding {
			return semErrf("definition %s: parameter %q must be a binding", d.FullPath, p.Name)
		}
		if _, err := a.resolveDeclaredType(p.Transforms); err != nil {
			return semErrf("definition %s: parameter %q: %v", d.FullPath, p.Name, err)
		}
		if def := p.Binding(); def != nil {
			if !isPureExpr(def) {
				return semErrf("definition %s: parameter %q default value must be a literal or pure expression", d.FullPath, p.Name)
			}
		}
	}
	return nil
}

// isPureExpr reports whether e contains no binding introduction and no
// block-argument call anywhere in its tree, per spec.md §4.5's definition
// of a legal parameter default value.
func isPureExpr(e ast.Expr) bool {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return true
	}
	if call.IsBinding || call.HasBodyArguments {
		return false
	}
	for _, arg := range call.Args {
		if !isPureExpr(arg) {
			return false
		}
	}
	return true
}

// resolveReturnKind returns the definition's return kind, resolving it
// explicitly from a `return<T>` transform (already recorded in
// Analyzer.returnKinds by the declaration pass) or inferring it from the
// body. Struct-like definitions and void-bodied definitions with no
// `return` statement resolve to a "void" kind.
func (a *Analyzer) resolveReturnKind(path string) (*Kind, error) {
	if k, ok := a.returnKinds[path]; ok {
		return k, nil
	}
	d, ok := a.defs[path]
	if !ok {
		return nil, semErrf("unknown definition: %s", path)
	}
	if d.IsStructLike || !d.HasReturnStmt {
		k := primitiveKind("void")
		a.returnKinds[path] = k
		return k, nil
	}

	if a.inferring[path] {
		return nil, semErrf("definition %s: explicit annotation required", path)
	}
	a.inferring[path] = true
	defer delete(a.inferring, path)

	sc := newScope(nil)
	for _, p := range d.Params {
		pk, err := a.resolveDeclaredType(p.Transforms)
		if err != nil {
			return nil, err
		}
		sc.bind(p.Name, pk, hasMutTransform(p.Transforms))
	}

	kind, _, err := a.inferBlockKind(d.Body, sc)
	if err != nil {
		return nil, err
	}
	if kind == nil {
		return nil, semErrf("definition %s: explicit annotation required", path)
	}
	a.returnKinds[path] = kind
	return kind, nil
}

func hasMutTransform(transforms []*ast.Transform) bool {
	for _, t := range transforms {
		if t.Name == "mut" {
			return true
		}
	}
	return false
}

// inferBlockKind walks a statement list in order, threading a local scope
// through bindings, and reports the kind the block "produces": the kind of
// its trailing return(...) argument if one terminates the block, or the
// kind of its last expression statement (the "block envelope" rule).
func (a *Analyzer) inferBlockKind(body []ast.Expr, sc *scope) (*Kind, bool, error) {
	var last *Kind
	sawReturn := false
	for _, stmt := range body {
		call, ok := stmt.(*ast.CallExpr)
		if !ok {
			k, err := a.inferExprKind(stmt, sc)
			if err != nil {
				return nil, false, err
			}
			last = k
			continue
		}
		switch {
		case call.IsBinding:
			var k *Kind
			var err error
			if len(call.Transforms) > 0 {
				k, err = a.resolveDeclaredType(call.Transforms)
			} else if init := call.Binding(); init != nil {
				k, err = a.inferExprKind(init, sc)
			}
			if err != nil {
				return nil, false, err
			}
			sc.bind(call.Name, k, hasMutTransform(call.Transforms))
			last = nil
		case call.Name == "return":
			if len(call.Args) == 1 {
				k, err := a.inferExprKind(call.Args[0], sc)
				if err != nil {
					return nil, false, err
				}
				last = k
			} else {
				last = primitiveKind("void")
			}
			sawReturn = true
		default:
			k, err := a.inferExprKind(call, sc)
			if err != nil {
				return nil, false, err
			}
			last = k
		}
	}
	return last, sawReturn, nil
}

// inferExprKind computes the value kind of an expression used in value
// context, per spec.md §4.5's propagation rule: literal kinds propagate
// through arithmetic, comparison, clamp, lerp, min/max, assign, and
// block-valued if.
func (a *Analyzer) inferExprKind(e ast.Expr, sc *scope) (*Kind, error) {
	switch v := e.(type) {
	case *ast.IntLiteral:
		if v.Unsigned {
			return &Kind{Name: "u64"}, nil
		}
		if v.Width == 64 {
			return &Kind{Name: "i64"}, nil
		}
		return &Kind{Name: "i32"}, nil
	case *ast.FloatLiteral:
		return &Kind{Name: "f" + itoa(v.Width)}, nil
	case *ast.BoolLiteral:
		return &Kind{Name: "bool"}, nil
	case *ast.StringLiteral:
		return &Kind{Name: "string"}, nil
	case *ast.NameExpr:
		if k, ok := sc.lookup(v.Name); ok {
			return k, nil
		}
		return nil, semErrf("unknown identifier: %s", v.Name)
	case *ast.CallExpr:
		return a.inferCallKind(v, sc)
	default:
		return nil, semErrf("cannot infer a kind for this expression")
	}
}

func (a *Analyzer) inferCallKind(call *ast.CallExpr, sc *scope) (*Kind, error) {
	switch call.Name {
	case "plus", "minus", "multiply", "divide", "clamp", "lerp", "min", "max":
		if len(call.Args) < 2 {
			return nil, semErrf("%s requires at least two operands", call.Name)
		}
		left, err := a.inferExprKind(call.Args[0], sc)
		if err != nil {
			return nil, err
		}
		// spec.md §4.5: pointer arithmetic requires the pointer on the left
		// with an integer offset, and only plus/minus admit it; the pointer
		// kind itself is the result (offset never changes the pointee type).
		if left != nil && left.Name == "Pointer" {
			if call.Name != "plus" && call.Name != "minus" {
				return nil, semErrf("%s: pointer operands only support plus and minus", call.Name)
			}
			if len(call.Args) != 2 {
				return nil, semErrf("%s: pointer arithmetic requires exactly two operands", call.Name)
			}
			offset, err := a.inferExprKind(call.Args[1], sc)
			if err != nil {
				return nil, err
			}
			if offset == nil || offset.Name == "f32" || offset.Name == "f64" || offset.Name == "bool" || !offset.isNumeric() {
				return nil, semErrf("%s: pointer arithmetic requires an integer offset, found %s", call.Name, offset.String())
			}
			return left, nil
		}
		for _, arg := range call.Args[1:] {
			right, err := a.inferExprKind(arg, sc)
			if err != nil {
				return nil, err
			}
			if right != nil && right.Name == "Pointer" {
				return nil, semErrf("%s: pointer operand must be on the left", call.Name)
			}
			k, ok := promote(left, right)
			if !ok {
				return nil, semErrf("%s: invalid mixed operands %s and %s", call.Name, left.String(), right.String())
			}
			left = k
		}
		return left, nil

	case "equal", "not_equal", "less_than", "less_equal", "greater_than", "greater_equal", "and", "or":
		if len(call.Args) != 2 {
			return nil, semErrf("%s requires exactly two operands", call.Name)
		}
		left, err := a.inferExprKind(call.Args[0], sc)
		if err != nil {
			return nil, err
		}
		right, err := a.inferExprKind(call.Args[1], sc)
		if err != nil {
			return nil, err
		}
		if !comparisonOperandsValid(left, right) {
			return nil, semErrf("%s: invalid operand kinds %s and %s", call.Name, left.String(), right.String())
		}
		return &Kind{Name: "bool"}, nil

	case "negate":
		if len(call.Args) != 1 {
			return nil, semErrf("negate requires exactly one operand")
		}
		k, err := a.inferExprKind(call.Args[0], sc)
		if err != nil {
			return nil, err
		}
		if k.Name == "u64" {
			return nil, semErrf("negate does not accept an unsigned operand")
		}
		return k, nil

	case "not":
		if len(call.Args) != 1 {
			return nil, semErrf("not requires exactly one operand")
		}
		return a.inferExprKind(call.Args[0], sc)

	case "assign":
		if len(call.Args) != 2 {
			return nil, semErrf("assign requires exactly two operands")
		}
		return a.inferExprKind(call.Args[1], sc)

	case "if":
		return a.inferIfKind(call, sc)

	case "convert":
		if len(call.TemplateArgs) != 1 {
			return nil, semErrf("convert requires exactly one template argument")
		}
		return a.resolveTypeName(call.TemplateArgs[0])

	default:
		if callee, ok := a.defs[call.Name]; ok {
			return a.resolveReturnKind(callee.FullPath)
		}
		if path, ok := a.resolveCalleePath(call); ok {
			return a.resolveReturnKind(path)
		}
		return nil, semErrf("unknown identifier: %s", call.Name)
	}
}

// resolveCalleePath finds a definition whose last path segment matches the
// call's bare name, mirroring how a same-namespace call is written without
// its full slash path.
func (a *Analyzer) resolveCalleePath(call *ast.CallExpr) (string, bool) {
	for path, d := range a.defs {
		if d.Name == call.Name {
			return path, true
		}
	}
	return "", false
}

func (a *Analyzer) inferIfKind(call *ast.CallExpr, sc *scope) (*Kind, error) {
	if len(call.Args) != 3 {
		return nil, nil // not block-valued; validated separately in Pass C
	}
	thenCall, ok1 := call.Args[1].(*ast.CallExpr)
	elseCall, ok2 := call.Args[2].(*ast.CallExpr)
	if !ok1 || !ok2 || !thenCall.HasBodyArguments || !elseCall.HasBodyArguments {
		return nil, nil
	}
	thenKind, _, err := a.inferBlockKind(thenCall.BodyArguments, newScope(sc))
	if err != nil {
		return nil, err
	}
	elseKind, _, err := a.inferBlockKind(elseCall.BodyArguments, newScope(sc))
	if err != nil {
		return nil, err
	}
	if thenKind == nil || elseKind == nil || !kindsEqual(thenKind, elseKind) {
		return nil, nil
	}
	return thenKind, nil
}

func itoa(n int) string {
	if n == 32 {
		return "32"
	}
	return "64"
}

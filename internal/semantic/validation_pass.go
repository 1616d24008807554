package semantic

import (
	"github.com/primelang/primec/internal/ast"
	"github.com/primelang/primec/internal/registry"
)

// controlCallNames are calls that only have meaning as a statement: direct
// uses in expression context are rejected, except for a fully block-valued
// `if` (both branches supply `{ }` bodies), which produces a value per
// spec.md §4.5's "only block-valued if ... can produce values" rule.
var controlCallNames = map[string]bool{
	"then":   true,
	"else":   true,
	"return": true,
}

// runValidationPass is Pass C: walk every definition and execution body
// checking statement shape, control-flow return coverage, builtin operand
// kinds, assignment targets, collection arities, named-argument resolution,
// and the entry-point parameter constraint. Grounded on the teacher's
// validation_pass.go for the pass shape.
func (a *Analyzer) runValidationPass() error {
	for _, d := range a.prog.Definitions {
		if err := a.checkDefinition(d); err != nil {
			return err
		}
	}
	for _, e := range a.prog.Executions {
		if err := a.checkExecution(e); err != nil {
			return err
		}
	}
	return a.checkEntry()
}

func (a *Analyzer) resolveActiveEffects(path string) []string {
	if e, ok := a.effects[path]; ok {
		return e
	}
	return a.defaultEffect
}

func effectActive(active []string, name string) bool {
	for _, e := range active {
		if e == name {
			return true
		}
	}
	return false
}

func (a *Analyzer) checkDefinition(d *ast.Definition) error {
	if d.IsStructLike {
		return nil // struct-like bodies are field bindings only; declaration pass already validated them
	}
	active := a.resolveActiveEffects(d.FullPath)
	for _, c := range a.caps[d.FullPath] {
		if !effectActive(active, c) {
			return semErrf("definition %s: capability %q is not in the active effect set", d.FullPath, c)
		}
	}

	sc := newScope(nil)
	for _, p := range d.Params {
		k, err := a.resolveDeclaredType(p.Transforms)
		if err != nil {
			return err
		}
		if err := a.checkInitializerKind(p, k, sc, active); err != nil {
			return semErrf("definition %s: parameter %q: %v", d.FullPath, p.Name, err)
		}
		sc.bind(p.Name, k, hasMutTransform(p.Transforms))
	}

	retKind, err := a.resolveReturnKind(d.FullPath)
	if err != nil {
		return err
	}

	returns, err := a.checkBlock(d.Body, sc, active, retKind)
	if err != nil {
		return semErrf("definition %s: %v", d.FullPath, err)
	}
	if retKind.Name != "void" && !returns {
		return semErrf("definition %s: not all control paths return a value", d.FullPath)
	}
	return nil
}

func (a *Analyzer) checkExecution(e *ast.Execution) error {
	active := a.defaultEffect
	sc := newScope(nil)
	_, err := a.checkBlock(e.Body, sc, active, primitiveKind("void"))
	if err != nil {
		return semErrf("execution %s: %v", e.FullPath, err)
	}
	return a.checkCall(&ast.CallExpr{Name: lastSegment(e.FullPath), NamespacePrefix: "", Args: e.Args, ArgNames: e.ArgNames}, sc, active, false)
}

// checkBlock validates every statement in a body in order, threading scope,
// and reports whether the block is guaranteed to return a value on every
// path (required when retKind is non-void).
func (a *Analyzer) checkBlock(body []ast.Expr, sc *scope, active []string, retKind *Kind) (bool, error) {
	returns := false
	for _, stmt := range body {
		call, ok := stmt.(*ast.CallExpr)
		if !ok {
			return returns, semErrf("statements must be calls or bindings")
		}
		switch {
		case call.IsBinding:
			if err := a.checkBinding(call, sc, active); err != nil {
				return returns, err
			}
		case call.Name == "return":
			if err := a.checkReturnStmt(call, sc, retKind); err != nil {
				return returns, err
			}
			returns = true
		case call.Name == "if":
			ok, err := a.checkIfStatement(call, sc, active, retKind)
			if err != nil {
				return returns, err
			}
			if ok {
				returns = true
			}
		default:
			if err := a.checkCall(call, sc, active, false); err != nil {
				return returns, err
			}
		}
	}
	return returns, nil
}

func (a *Analyzer) checkBinding(call *ast.CallExpr, sc *scope, active []string) error {
	k, err := a.resolveDeclaredType(call.Transforms)
	if err != nil {
		return semErrf("binding %q: %v", call.Name, err)
	}
	if init := call.Binding(); init != nil {
		if err := a.checkInitializerKind(call, k, sc, active); err != nil {
			return semErrf("binding %q: %v", call.Name, err)
		}
	} else if k.Name == "Reference" {
		return semErrf("binding %q: Reference requires an initializer", call.Name)
	}
	sc.bind(call.Name, k, hasMutTransform(call.Transforms))
	return nil
}

// checkInitializerKind enforces the Reference/Pointer initializer shape
// rule: Reference<T> requires `location(x)`; Pointer<T> targets (already
// primitive-checked at type-resolution time) accept any matching-kind
// initializer. Other kinds require the initializer's inferred kind to match.
func (a *Analyzer) checkInitializerKind(binding *ast.CallExpr, k *Kind, sc *scope, active []string) error {
	init := binding.Binding()
	if init == nil {
		return nil
	}
	if !isPureExpr(init) {
		return semErrf("initializer must be a literal or pure expression")
	}
	if k.Name == "Reference" {
		call, ok := init.(*ast.CallExpr)
		if !ok || call.Name != "location" {
			return semErrf("Reference initializer must be location(x)")
		}
		return nil
	}
	initKind, err := a.checkExprValue(init, sc, active)
	if err != nil {
		return err
	}
	if !kindsEqual(initKind, k) {
		return semErrf("initializer kind %s does not match declared kind %s", initKind.String(), k.String())
	}
	return nil
}

func (a *Analyzer) checkReturnStmt(call *ast.CallExpr, sc *scope, retKind *Kind) error {
	if retKind.Name == "void" {
		if len(call.Args) != 0 {
			return semErrf("return value not allowed for void definition")
		}
		return nil
	}
	if len(call.Args) != 1 {
		return semErrf("return requires exactly one value for a non-void definition")
	}
	k, err := a.inferExprKind(call.Args[0], sc)
	if err != nil {
		return err
	}
	if !kindsEqual(k, retKind) {
		if _, ok := promote(k, retKind); !ok {
			return semErrf("return kind %s does not match declared return kind %s", k.String(), retKind.String())
		}
	}
	return nil
}

// checkIfStatement validates an `if` used as a statement: a bare `then`
// block (rejected — "if with only a then is rejected"), or a `then`/`else`
// pair, each independently checked as a nested block. Reports whether both
// branches are guaranteed to return, satisfying the enclosing block's
// return-coverage requirement.
func (a *Analyzer) checkIfStatement(call *ast.CallExpr, sc *scope, active []string, retKind *Kind) (bool, error) {
	if len(call.Args) == 2 {
		return false, semErrf("if with only a then is rejected")
	}
	if len(call.Args) != 3 {
		return false, semErrf("if requires a condition, a then block, and an else block")
	}
	if _, err := a.checkCondExpr(call.Args[0], sc, active); err != nil {
		return false, err
	}
	thenCall, ok := call.Args[1].(*ast.CallExpr)
	if !ok || thenCall.Name != "then" || !thenCall.HasBodyArguments {
		return false, semErrf("if requires a then block")
	}
	thenReturns, err := a.checkBlock(thenCall.BodyArguments, newScope(sc), active, retKind)
	if err != nil {
		return false, err
	}
	elseCall, ok := call.Args[2].(*ast.CallExpr)
	if !ok || elseCall.Name != "else" || !elseCall.HasBodyArguments {
		return false, semErrf("if's third argument must be an else block")
	}
	elseReturns, err := a.checkBlock(elseCall.BodyArguments, newScope(sc), active, retKind)
	if err != nil {
		return false, err
	}
	return thenReturns && elseReturns, nil
}

func (a *Analyzer) checkCondExpr(e ast.Expr, sc *scope, active []string) (*Kind, error) {
	k, err := a.checkExprValue(e, sc, active)
	if err != nil {
		return nil, err
	}
	if k.Name != "bool" {
		return nil, semErrf("if condition must be bool, found %s", k.String())
	}
	return k, nil
}

// checkExprValue validates e in expression (value-producing) context,
// rejecting bare control calls per spec.md §4.5's "control calls ... are
// rejected in expression context" rule.
func (a *Analyzer) checkExprValue(e ast.Expr, sc *scope, active []string) (*Kind, error) {
	if call, ok := e.(*ast.CallExpr); ok {
		if controlCallNames[call.Name] {
			return nil, semErrf("%s cannot appear in expression context", call.Name)
		}
		if call.Name == "if" {
			k, err := a.inferIfKind(call, sc)
			if err != nil {
				return nil, err
			}
			if k == nil {
				return nil, semErrf("if used as an expression must provide matching-kind then and else blocks")
			}
			return k, nil
		}
		if err := a.checkCall(call, sc, active, true); err != nil {
			return nil, err
		}
	}
	return a.inferExprKind(e, sc)
}

// checkCall validates a call's argument shapes: named-argument resolution
// against the callee's declared parameters (when the callee is a known
// user definition — builtins reject named arguments entirely), collection
// literal arities, index-builtin dispatch targets, print-builtin effect
// requirements, assign-target mutability, and convert<T> target kinds.
func (a *Analyzer) checkCall(call *ast.CallExpr, sc *scope, active []string, exprCtx bool) error {
	if isBuiltinName(call.Name) {
		for _, n := range call.ArgNames {
			if n != "" {
				return semErrf("%s: builtins do not accept named arguments", call.Name)
			}
		}
	} else if callee, ok := a.lookupCallee(call); ok {
		if err := a.checkNamedArgs(call, callee); err != nil {
			return err
		}
	}

	for _, arg := range call.Args {
		if _, err := a.checkExprValue(arg, sc, active); err != nil {
			return err
		}
	}

	switch call.Name {
	case "array", "vector":
		if len(call.TemplateArgs) != 1 {
			return semErrf("%s requires exactly one template type argument", call.Name)
		}
	case "map":
		if len(call.TemplateArgs) != 2 {
			return semErrf("map requires exactly two template type arguments")
		}
		if len(call.Args)%2 != 0 {
			return semErrf("map literal requires an even number of key/value arguments")
		}
	case "count", "at", "at_unsafe":
		if len(call.Args) == 0 {
			return semErrf("%s requires a collection target", call.Name)
		}
		target, err := a.inferExprKind(call.Args[0], sc)
		if err != nil {
			return err
		}
		switch target.Name {
		case "array", "vector", "map", "string":
		default:
			return semErrf("%s must be dispatched on an array, vector, map, or string target", call.Name)
		}
		if call.Name != "count" {
			if len(call.Args) != 2 {
				return semErrf("%s requires a collection and an integer index", call.Name)
			}
			idxKind, err := a.inferExprKind(call.Args[1], sc)
			if err != nil {
				return err
			}
			if !idxKind.isNumeric() || idxKind.Name == "f32" || idxKind.Name == "f64" {
				return semErrf("%s index must be an integer", call.Name)
			}
		}
	case "print", "print_line", "print_error", "print_line_error":
		effect := registry.PrintBuiltins[call.Name]
		if !effectActive(active, effect) {
			return semErrf("%s requires the %s effect", call.Name, effect)
		}
		for _, arg := range call.Args {
			k, err := a.inferExprKind(arg, sc)
			if err != nil {
				return err
			}
			if !isPrintable(k) {
				return semErrf("%s: %s is not printable", call.Name, k.String())
			}
		}
	case "assign":
		if len(call.Args) != 2 {
			return semErrf("assign requires exactly two operands")
		}
		if err := a.checkAssignTarget(call.Args[0], sc); err != nil {
			return err
		}
	case "convert":
		if len(call.TemplateArgs) != 1 {
			return semErrf("convert requires exactly one template argument")
		}
		k, err := a.resolveTypeName(call.TemplateArgs[0])
		if err != nil {
			return err
		}
		if !k.isPrimitive() {
			return semErrf("convert target must be a recognized primitive type")
		}
	}
	return nil
}

func (a *Analyzer) checkAssignTarget(target ast.Expr, sc *scope) error {
	switch v := target.(type) {
	case *ast.NameExpr:
		if !sc.isMutable(v.Name) {
			return semErrf("assign target %q is not mutable", v.Name)
		}
		return nil
	case *ast.CallExpr:
		if v.Name == "dereference" && len(v.Args) == 1 {
			name, ok := v.Args[0].(*ast.NameExpr)
			if !ok || !sc.isMutable(name.Name) {
				return semErrf("assign target must dereference a mutable pointer or reference")
			}
			return nil
		}
	}
	return semErrf("invalid assign target")
}

func (a *Analyzer) checkNamedArgs(call *ast.CallExpr, callee *ast.Definition) error {
	seenNamed := false
	used := map[string]bool{}
	for _, name := range call.ArgNames {
		if name == "" {
			if seenNamed {
				return semErrf("%s: positional argument after a named argument", call.Name)
			}
			continue
		}
		seenNamed = true
		if used[name] {
			return semErrf("%s: duplicate named argument %q", call.Name, name)
		}
		used[name] = true
		found := false
		for _, p := range callee.Params {
			if p.Name == name {
				found = true
				break
			}
		}
		if !found {
			return semErrf("%s: unknown named argument %q", call.Name, name)
		}
	}
	return nil
}

func (a *Analyzer) lookupCallee(call *ast.CallExpr) (*ast.Definition, bool) {
	if d, ok := a.defs[call.Name]; ok {
		return d, true
	}
	if path, ok := a.resolveCalleePath(call); ok {
		return a.defs[path], true
	}
	return nil, false
}

func isPrintable(k *Kind) bool {
	switch k.Name {
	case "string", "i32", "i64", "u64", "f32", "f64", "bool":
		return true
	default:
		return false
	}
}

var builtinNames = map[string]bool{
	"plus": true, "minus": true, "multiply": true, "divide": true,
	"equal": true, "not_equal": true, "less_than": true, "less_equal": true,
	"greater_than": true, "greater_equal": true, "and": true, "or": true, "not": true,
	"negate": true, "location": true, "dereference": true, "assign": true,
	"clamp": true, "lerp": true, "min": true, "max": true, "convert": true,
	"array": true, "vector": true, "map": true,
	"count": true, "at": true, "at_unsafe": true,
	"print": true, "print_line": true, "print_error": true, "print_line_error": true,
	"if": true, "then": true, "else": true, "return": true,
}

func isBuiltinName(name string) bool { return builtinNames[name] }

func (a *Analyzer) checkEntry() error {
	d, ok := a.defs[a.entry]
	if !ok {
		return semErrf("entry definition %s not found", a.entry)
	}
	if len(d.Params) == 0 {
		return nil
	}
	if len(d.Params) != 1 {
		return semErrf("entry definition %s must declare at most one parameter", a.entry)
	}
	p := d.Params[0]
	if p.Binding() != nil {
		return semErrf("entry definition %s parameter must not have a default value", a.entry)
	}
	k, err := a.resolveDeclaredType(p.Transforms)
	if err != nil {
		return semErrf("entry definition %s: %v", a.entry, err)
	}
	if k.Name != "array" || k.Elem == nil || k.Elem.Name != "string" {
		return semErrf("entry definition %s parameter must be array<string>", a.entry)
	}
	return nil
}

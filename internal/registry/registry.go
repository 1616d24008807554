// Package registry holds the process-lifetime constant tables describing
// known names in the language: reserved path/identifier segments, the
// text-filter names the pipeline understands, the semantic transform
// names the validator understands, primitive type names, and the
// effect vocabulary. All tables are read-only after package init, matching
// the "shared state: none at runtime" resource model.
package registry

// reservedWords is the single central set consulted by the parser whenever
// an identifier is introduced (definition name, namespace name, slash-path
// segment, parameter or binding name, named-argument label). Transform
// names are not checked against it. Keeping exactly one set avoids the
// duplicated-list drift the design notes warn about.
var reservedWords = map[string]struct{}{
	"mut":       {},
	"return":    {},
	"import":    {},
	"namespace": {},
	"if":        {},
	"else":      {},
	"for":       {},
	"while":     {},
	"loop":      {},
	"true":      {},
	"false":     {},
	"include":   {},
}

// IsReserved reports whether name is a reserved keyword and therefore
// illegal as a path segment, definition name, parameter name, or
// named-argument label.
func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// textFilterNames are the filters the text-filter pipeline's active-filter
// list may name.
var textFilterNames = map[string]struct{}{
	"collections":      {},
	"operators":        {},
	"implicit-utf8":    {},
	"implicit-i32":     {},
	"append_operators": {},
}

// IsTextFilterName reports whether name is a recognized text-filter name
// (distinct from a text-phase *transform* name attached to a definition;
// see IsTextTransformName).
func IsTextFilterName(name string) bool {
	_, ok := textFilterNames[name]
	return ok
}

// textOnlyTransformNames are transform names that only ever apply at text
// phase: grouping them inside an explicit `text(...)` list is redundant,
// and they are never promoted to semantic phase.
var textOnlyTransformNames = map[string]struct{}{
	"collections":      {},
	"operators":        {},
	"implicit-utf8":    {},
	"implicit-i32":     {},
	"append_operators": {},
}

// semanticOnlyTransformNames are names that only ever apply at semantic
// phase. A name not present in either table defaults to semantic phase
// unless it is explicitly wrapped in a `text(...)` group.
var semanticOnlyTransformNames = map[string]struct{}{
	"return":         {},
	"effects":        {},
	"capabilities":   {},
	"struct":         {},
	"pod":            {},
	"stack":          {},
	"heap":           {},
	"buffer":         {},
	"handle":         {},
	"gpu_lane":       {},
	"mut":            {},
	"copy":           {},
	"restrict":       {},
	"public":         {},
	"private":        {},
	"package":        {},
	"static":         {},
	"align_bytes":    {},
	"align_kbytes":   {},
}

// IsTextTransformName reports whether name is valid inside a text-phase
// transform group (either a registered text filter name, or any other name
// not registered as semantic-only — unknown names are accepted as
// forward-compatible text-phase markers the pipeline simply ignores).
func IsTextTransformName(name string) bool {
	if _, ok := textOnlyTransformNames[name]; ok {
		return true
	}
	_, semanticOnly := semanticOnlyTransformNames[name]
	return !semanticOnly
}

// IsSemanticTransformName reports whether name is registered as a
// semantic-phase-only transform.
func IsSemanticTransformName(name string) bool {
	_, ok := semanticOnlyTransformNames[name]
	return ok
}

// PrimitiveNames are the scalar type names usable as a return type or a
// binding's declared type.
var PrimitiveNames = map[string]struct{}{
	"int":    {},
	"i32":    {},
	"i64":    {},
	"u64":    {},
	"float":  {},
	"f32":    {},
	"f64":    {},
	"bool":   {},
	"void":   {},
	"string": {},
}

// IsPrimitiveName reports whether name is a recognized primitive type name.
func IsPrimitiveName(name string) bool {
	_, ok := PrimitiveNames[name]
	return ok
}

// TemplatedTypeFamilies are the generic type constructors: Pointer<T>,
// Reference<T>, array<T>, vector<T>, map<K,V>.
var TemplatedTypeFamilies = map[string]struct{}{
	"Pointer":   {},
	"Reference": {},
	"array":     {},
	"vector":    {},
	"map":       {},
}

// IsTemplatedTypeFamily reports whether name is a known generic type
// constructor.
func IsTemplatedTypeFamily(name string) bool {
	_, ok := TemplatedTypeFamilies[name]
	return ok
}

// ReturnTypeNames are the legal explicit `return<T>` targets, per spec.md
// §3 ("Well-known transform names"). Note this set additionally includes
// "int" and "float" as aliases accepted by the grammar alongside their
// explicit-width forms; the validator normalizes both to a width before
// recording a definition's return kind.
var ReturnTypeNames = PrimitiveNames

// IsReturnTypeName reports whether name may appear as `return<name>`.
func IsReturnTypeName(name string) bool {
	_, ok := ReturnTypeNames[name]
	return ok
}

// Effects is the known effect vocabulary from spec.md §6. Programs may
// declare additional lower_snake_case effects; the validator only checks
// the subset-of-declared-effects capability rule, not membership in this
// table, and no other package reads this set.
var Effects = []string{
	"io_out",
	"io_err",
	"heap_alloc",
	"pathspace_notify",
	"pathspace_insert",
	"pathspace_take",
}

// StorageClassNames are the struct-family / storage-class transform names.
var StorageClassNames = map[string]struct{}{
	"struct":   {},
	"pod":      {},
	"stack":    {},
	"heap":     {},
	"buffer":   {},
	"handle":   {},
	"gpu_lane": {},
}

// IsStorageClassName reports whether name is a storage-class / struct-family
// transform name.
func IsStorageClassName(name string) bool {
	_, ok := StorageClassNames[name]
	return ok
}

// BindingQualifierNames are the binding qualifiers a binding or parameter's
// transform list may carry alongside its one declared type, per spec.md §3
// ("Binding qualifiers"). They compose with a type transform in the same
// bracketed list, e.g. [mut, i32] x{1i32}.
var BindingQualifierNames = map[string]struct{}{
	"mut":          {},
	"copy":         {},
	"restrict":     {},
	"public":       {},
	"private":      {},
	"package":      {},
	"static":       {},
	"align_bytes":  {},
	"align_kbytes": {},
}

// IsBindingQualifierName reports whether name is a binding qualifier rather
// than a type name.
func IsBindingQualifierName(name string) bool {
	_, ok := BindingQualifierNames[name]
	return ok
}

// PrintBuiltins map a builtin print call name to the effect it requires.
var PrintBuiltins = map[string]string{
	"print":            "io_out",
	"print_line":       "io_out",
	"print_error":      "io_err",
	"print_line_error": "io_err",
}

package semantic

import (
	"github.com/primelang/primec/internal/ast"
	"github.com/primelang/primec/internal/registry"
)

// runDeclarationPass is Pass A: build the fullPath -> Definition index and
// pre-validate each definition's transform list in isolation, before any
// cross-definition type resolution happens. Grounded on the teacher's
// declaration_pass.go (symbol indexing ahead of type resolution).
func (a *Analyzer) runDeclarationPass() error {
	for _, d := range a.prog.Definitions {
		if _, dup := a.defs[d.FullPath]; dup {
			return semErrf("duplicate definition: %s", d.FullPath)
		}
		a.defs[d.FullPath] = d
	}
	for _, d := range a.prog.Definitions {
		if err := a.validateDefinitionTransforms(d); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) validateDefinitionTransforms(d *ast.Definition) error {
	var sawReturn *ast.Transform
	seenEffects := map[string]bool{}
	seenCaps := map[string]bool{}
	var effects, caps []string

	for _, t := range d.Transforms {
		switch {
		case t.Name == "return":
			if len(t.TemplateArgs) != 1 || !registry.IsReturnTypeName(t.TemplateArgs[0]) {
				return semErrf("definition %s: return transform requires a single recognized type argument", d.FullPath)
			}
			if sawReturn != nil && sawReturn.TemplateArgs[0] != t.TemplateArgs[0] {
				return semErrf("definition %s: conflicting return transforms", d.FullPath)
			}
			sawReturn = t

		case t.Name == "effects":
			for _, v := range t.ValueArgs {
				if seenEffects[v] {
					return semErrf("definition %s: duplicate effect %q", d.FullPath, v)
				}
				seenEffects[v] = true
				effects = append(effects, v)
			}
			if len(t.TemplateArgs) > 0 {
				return semErrf("definition %s: effects transform takes no template arguments", d.FullPath)
			}

		case t.Name == "capabilities":
			for _, v := range t.ValueArgs {
				if seenCaps[v] {
					return semErrf("definition %s: duplicate capability %q", d.FullPath, v)
				}
				seenCaps[v] = true
				caps = append(caps, v)
			}
			if len(t.TemplateArgs) > 0 {
				return semErrf("definition %s: capabilities transform takes no template arguments", d.FullPath)
			}

		case t.Name == "align_bytes" || t.Name == "align_kbytes":
			if len(t.ValueArgs) != 1 {
				return semErrf("definition %s: %s requires a single integer argument", d.FullPath, t.Name)
			}
			if !isPositiveIntLiteralText(t.ValueArgs[0]) {
				return semErrf("definition %s: %s argument must be a positive integer", d.FullPath, t.Name)
			}
			if len(t.TemplateArgs) > 0 {
				return semErrf("definition %s: %s takes no template arguments", d.FullPath, t.Name)
			}

		case registry.IsStorageClassName(t.Name):
			if len(t.TemplateArgs) > 0 || len(t.ValueArgs) > 0 {
				return semErrf("definition %s: storage-class transform %q accepts no arguments", d.FullPath, t.Name)
			}
		}
	}

	if len(effects) > 0 {
		a.effects[d.FullPath] = effects
	}
	if len(caps) > 0 {
		a.caps[d.FullPath] = caps
	}

	// Lifecycle helpers only make sense attached to a struct's storage;
	// a bare /foo/init with no enclosing struct-like definition has
	// nothing to initialize. Grounded on original_source's
	// Semantics.cpp:951-955.
	if d.Name == "init" || d.Name == "deinit" {
		parent, ok := a.defs[d.NamespacePrefix]
		if !ok || !parent.IsStructLike {
			return semErrf("definition %s: lifecycle helper %q must be nested inside a struct", d.FullPath, d.Name)
		}
	}

	if d.IsStructLike {
		if len(d.Params) > 0 {
			return semErrf("definition %s: struct-like definitions cannot declare parameters", d.FullPath)
		}
		if sawReturn != nil {
			return semErrf("definition %s: struct-like definitions cannot declare a return type", d.FullPath)
		}
		if d.HasReturnStmt {
			return semErrf("definition %s: struct-like definitions cannot contain a return statement", d.FullPath)
		}
		if hasStorageClass(d.Transforms, "stack") {
			for _, field := range d.Body {
				call, ok := field.(*ast.CallExpr)
				if !ok || !call.IsBinding || call.Binding() == nil {
					return semErrf("definition %s: stack-storage struct fields require initializers", d.FullPath)
				}
			}
		}
	}

	if sawReturn != nil {
		a.returnKinds[d.FullPath] = primitiveKind(sawReturn.TemplateArgs[0])
	}

	return nil
}

func hasStorageClass(transforms []*ast.Transform, name string) bool {
	for _, t := range transforms {
		if t.Name == name {
			return true
		}
	}
	return false
}

func isPositiveIntLiteralText(s string) bool {
	for _, suffix := range []string{"i32", "i64", "u64"} {
		if len(s) > len(suffix) && s[len(s)-len(suffix):] == suffix {
			s = s[:len(s)-len(suffix)]
			break
		}
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != "0"
}

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump renders the deterministic AST-dump surface from spec.md §6: one
// line per definition or execution with its full path, followed by
// indented listings of transforms and statements, in source order,
// depth-first. The exact bytes are not a contract, but the ordering is.
func Dump(w io.Writer, p *Program) {
	for _, imp := range p.Imports {
		fmt.Fprintf(w, "import %s\n", imp)
	}
	for _, decl := range p.TopLevel {
		switch d := decl.(type) {
		case *Definition:
			dumpDefinition(w, d)
		case *Execution:
			dumpExecution(w, d)
		}
	}
}

func dumpDefinition(w io.Writer, d *Definition) {
	fmt.Fprintf(w, "def %s\n", d.FullPath)
	if len(d.TemplateParams) > 0 {
		fmt.Fprintf(w, "%stemplate <%s>\n", indent(1), strings.Join(d.TemplateParams, ", "))
	}
	dumpTransforms(w, 1, d.Transforms)
	for _, p := range d.Params {
		fmt.Fprintf(w, "%sparam %s\n", indent(1), p.String())
	}
	for _, stmt := range d.Body {
		dumpExpr(w, 1, stmt)
	}
}

func dumpExecution(w io.Writer, e *Execution) {
	fmt.Fprintf(w, "exec %s\n", e.FullPath)
	if len(e.TemplateArgs) > 0 {
		fmt.Fprintf(w, "%stemplate <%s>\n", indent(1), strings.Join(e.TemplateArgs, ", "))
	}
	dumpTransforms(w, 1, e.Transforms)
	for i, a := range e.Args {
		name := ""
		if i < len(e.ArgNames) {
			name = e.ArgNames[i]
		}
		if name != "" {
			fmt.Fprintf(w, "%sarg [%s] %s\n", indent(1), name, a.String())
		} else {
			fmt.Fprintf(w, "%sarg %s\n", indent(1), a.String())
		}
	}
	for _, stmt := range e.Body {
		dumpExpr(w, 1, stmt)
	}
}

func dumpTransforms(w io.Writer, depth int, transforms []*Transform) {
	for _, t := range transforms {
		fmt.Fprintf(w, "%stransform %s\n", indent(depth), t.String())
	}
}

func dumpExpr(w io.Writer, depth int, e Expr) {
	fmt.Fprintf(w, "%sstmt %s\n", indent(depth), e.String())
	if call, ok := e.(*CallExpr); ok && call.HasBodyArguments {
		for _, b := range call.BodyArguments {
			dumpExpr(w, depth+1, b)
		}
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// Package ast defines the annotated abstract syntax tree produced by the
// parser and decorated in place by the transform-rule engine. Grounded on
// the teacher's internal/ast node shape (Node/Expression marker-interface
// idiom) but flattened to this language's uniform call-based grammar: one
// concrete type per Expr variant instead of one type per language
// construct.
package ast

import (
	"strconv"
	"strings"

	"github.com/primelang/primec/internal/token"
)

// Node is satisfied by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Expr is satisfied by every expression-position node.
type Expr interface {
	Node
	exprNode()
}

// Phase tags whether a Transform applies during the text-filter pass or the
// semantic-analysis pass.
type Phase int

const (
	PhaseSemantic Phase = iota // default
	PhaseText
)

func (p Phase) String() string {
	if p == PhaseText {
		return "text"
	}
	return "semantic"
}

// Transform is a bracketed decorator attached to a definition, execution,
// parameter, or binding.
type Transform struct {
	Name         string
	TemplateArgs []string
	ValueArgs    []string
	Phase        Phase
	PosV         token.Position
}

func (t *Transform) Pos() token.Position { return t.PosV }

func (t *Transform) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.TemplateArgs) > 0 {
		sb.WriteString("<")
		sb.WriteString(strings.Join(t.TemplateArgs, ", "))
		sb.WriteString(">")
	}
	if len(t.ValueArgs) > 0 {
		sb.WriteString("(")
		sb.WriteString(strings.Join(t.ValueArgs, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// IntLiteral is an integer literal with its required width/signedness
// suffix already resolved. Value holds the raw bit pattern as int64; a
// u64 literal at or above 1<<63 is stored via a bit-reinterpreting cast
// and must be read back through uint64(Value), not compared as signed.
type IntLiteral struct {
	Value    int64
	Width    int // 32 or 64
	Unsigned bool
	// AtSignedBoundary marks a magnitude equal to exactly one past the
	// width's positive signed max (2^31 for i32, 2^63 for i64) — the one
	// magnitude that is valid only when immediately negated
	// (-2147483648i32 is a legal i32, but the bare literal 2147483648i32
	// is not). The parser accepts the token at lex/parse time (since
	// internal/textfilter rewrites unary minus into a separate
	// negate(...) call, never a literal sign) and defers the final
	// accept/reject decision to validateIntLiteralBoundaries, which checks
	// every such literal is the sole argument of a negate(...) call.
	AtSignedBoundary bool
	PosV             token.Position
}

func (l *IntLiteral) exprNode()          {}
func (l *IntLiteral) Pos() token.Position { return l.PosV }
func (l *IntLiteral) String() string {
	suffix := "i32"
	switch {
	case l.Unsigned:
		suffix = "u64"
	case l.Width == 64:
		suffix = "i64"
	}
	if l.Unsigned {
		return strconv.FormatUint(uint64(l.Value), 10) + suffix
	}
	return strconv.FormatInt(l.Value, 10) + suffix
}

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Text  string // original literal text, minus suffix
	Width int    // 32 or 64
	PosV  token.Position
}

func (l *FloatLiteral) exprNode()           {}
func (l *FloatLiteral) Pos() token.Position { return l.PosV }
func (l *FloatLiteral) String() string {
	if l.Width == 32 {
		return l.Text + "f32"
	}
	return l.Text + "f64"
}

// BoolLiteral is a `true`/`false` literal.
type BoolLiteral struct {
	Value bool
	PosV  token.Position
}

func (l *BoolLiteral) exprNode()           {}
func (l *BoolLiteral) Pos() token.Position { return l.PosV }
func (l *BoolLiteral) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

// StringLiteral carries the raw lexed text, quotes and suffix included, so
// that re-lexing the token reproduces it (the lexer-level round-trip
// invariant in spec.md §8). Value and Suffix are filled in by the parser
// from internal/stringlit.Decode once the suffix/ascii-range/raw-quote
// invariants have been checked.
type StringLiteral struct {
	Raw    string
	Value  string
	Suffix string
	PosV   token.Position
}

func (l *StringLiteral) exprNode()           {}
func (l *StringLiteral) Pos() token.Position { return l.PosV }
func (l *StringLiteral) String() string      { return l.Raw }

// NameExpr references a bound identifier.
type NameExpr struct {
	Name string
	PosV token.Position
}

func (n *NameExpr) exprNode()           {}
func (n *NameExpr) Pos() token.Position { return n.PosV }
func (n *NameExpr) String() string      { return n.Name }

// CallExpr represents name(args), name<T,...>(args), receiver.method(args),
// and — when IsBinding is true — a local/field binding introduction
// `[transforms] name{initializer}`.
type CallExpr struct {
	Name            string
	NamespacePrefix string
	TemplateArgs    []string
	Args            []Expr
	ArgNames        []string // parallel to Args; "" entries mean positional
	IsMethodCall    bool
	IsBinding       bool
	Transforms      []*Transform
	HasBodyArguments bool
	BodyArguments   []Expr
	PosV            token.Position
}

func (c *CallExpr) exprNode()           {}
func (c *CallExpr) Pos() token.Position { return c.PosV }

func (c *CallExpr) String() string {
	var sb strings.Builder
	if len(c.Transforms) > 0 {
		sb.WriteString("[")
		for i, t := range c.Transforms {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
		sb.WriteString("] ")
	}
	if c.NamespacePrefix != "" {
		sb.WriteString(c.NamespacePrefix)
		sb.WriteString(".")
	}
	sb.WriteString(c.Name)
	if len(c.TemplateArgs) > 0 {
		sb.WriteString("<")
		sb.WriteString(strings.Join(c.TemplateArgs, ", "))
		sb.WriteString(">")
	}
	if c.IsBinding {
		if len(c.Args) > 0 {
			sb.WriteString("{")
			sb.WriteString(c.Args[0].String())
			sb.WriteString("}")
		}
		return sb.String()
	}
	sb.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i < len(c.ArgNames) && c.ArgNames[i] != "" {
			sb.WriteString("[")
			sb.WriteString(c.ArgNames[i])
			sb.WriteString("] ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	if c.HasBodyArguments {
		sb.WriteString(" { ... }")
	}
	return sb.String()
}

// Binding is the initializer expression of a call in binding position, or
// nil if absent.
func (c *CallExpr) Binding() Expr {
	if len(c.Args) == 0 {
		return nil
	}
	return c.Args[0]
}

// Definition is a named, path-qualified callable or struct-like unit.
type Definition struct {
	FullPath        string
	Name            string
	NamespacePrefix string
	TemplateParams  []string // generic parameter names from the definition's optional <…> list
	Transforms      []*Transform
	Params          []*CallExpr // each IsBinding == true
	Body            []Expr
	HasReturnStmt   bool
	HasValueExpr    bool
	IsStructLike    bool
	PosV            token.Position
}

func (d *Definition) Pos() token.Position { return d.PosV }
func (d *Definition) String() string      { return d.FullPath }

// Execution is a call evaluated at program scope.
type Execution struct {
	FullPath     string
	TemplateArgs []string // explicit generic arguments from the call's optional <…> list
	Args         []Expr
	ArgNames     []string
	Transforms   []*Transform
	HasBody      bool
	Body         []Expr
	PosV         token.Position
}

func (e *Execution) Pos() token.Position { return e.PosV }
func (e *Execution) String() string      { return e.FullPath }

// TopLevelDecl is satisfied by *Definition and *Execution; it lets Program
// preserve the interleaved source order of both in TopLevel while still
// exposing typed Definitions/Executions slices for the passes that only
// care about one kind.
type TopLevelDecl interface {
	Node
	topLevelDecl()
}

func (d *Definition) topLevelDecl() {}
func (e *Execution) topLevelDecl()  {}

// Program is the root AST node: imports plus an ordered set of top-level
// definitions and executions, each preserved in source order for
// diagnostics and for the deterministic AST-dump surface.
type Program struct {
	Imports     []string
	Definitions []*Definition
	Executions  []*Execution
	TopLevel    []TopLevelDecl // interleaved, source order
}

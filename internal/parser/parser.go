// Package parser builds a Program from a flat token stream produced by
// internal/lexer, after internal/textfilter has already linearized every
// operator and collection literal into canonical call form. Because the
// surface grammar is therefore a uniform call/binding shape with no infix
// precedence left to resolve, this is a small straightforward recursive
// descent rather than the teacher's Pratt-precedence engine — grounded on
// teacher's internal/parser for idiom (accumulated-style error type,
// cursor-based lookahead) but restructured to fail-fast, per spec.md §4.2's
// "parsing is fail-fast" contract.
package parser

import (
	"fmt"
	"strings"

	"github.com/primelang/primec/internal/ast"
	cerrors "github.com/primelang/primec/internal/errors"
	"github.com/primelang/primec/internal/registry"
	"github.com/primelang/primec/internal/token"
)

// Parser is a cursor over a fixed token slice.
type Parser struct {
	toks []token.Token
	pos  int
	prog *ast.Program // the Program under construction, for type-like lookups
}

// New creates a Parser over toks (normally internal/lexer.Tokenize's
// output, trailing EOF included).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Type == token.EOF }

func (p *Parser) errorf(format string, args ...interface{}) error {
	return cerrors.NewAt(cerrors.Syntactic, fmt.Sprintf(format, args...), p.cur().Pos)
}

// expect consumes the current token if it matches tt, else returns a
// syntactic error.
func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if p.cur().Type != tt {
		return token.Token{}, p.errorf("expected %s, found %s %q", tt, p.cur().Type, p.cur().Literal)
	}
	return p.advance(), nil
}

// curIsKeyword reports whether the current token is an IDENT whose
// literal matches kw exactly (there are no true keyword tokens in this
// grammar — see internal/registry's reserved-word discipline).
func (p *Parser) curIsKeyword(kw string) bool {
	return p.cur().Type == token.IDENT && p.cur().Literal == kw
}

// Parse builds the Program from the full token stream.
func Parse(toks []token.Token) (*ast.Program, error) {
	p := New(toks)
	prog := &ast.Program{}
	p.prog = prog
	for !p.atEOF() {
		if err := p.parseTopLevelItem(prog, ""); err != nil {
			return nil, err
		}
	}
	if err := validateIntLiteralBoundaries(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// validateIntLiteralBoundaries enforces spec.md §8's boundary rule: a
// literal magnitude sitting exactly one past a signed width's positive max
// (2147483648 for i32, 1<<63 for i64) is only legal as the sole argument of
// a negate(...) call; anywhere else it is an out-of-range error, per
// ast.IntLiteral.AtSignedBoundary's doc comment.
func validateIntLiteralBoundaries(prog *ast.Program) error {
	for _, d := range prog.Definitions {
		for _, p := range d.Params {
			if err := checkBoundaryExpr(p, false); err != nil {
				return err
			}
		}
		for _, s := range d.Body {
			if err := checkBoundaryExpr(s, false); err != nil {
				return err
			}
		}
	}
	for _, e := range prog.Executions {
		for _, a := range e.Args {
			if err := checkBoundaryExpr(a, false); err != nil {
				return err
			}
		}
		for _, s := range e.Body {
			if err := checkBoundaryExpr(s, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkBoundaryExpr walks e, reporting an error for any AtSignedBoundary
// int literal not immediately passed as negate(...)'s sole argument.
// exempt is true for the one position — negate's sole argument — where the
// boundary magnitude is legal.
func checkBoundaryExpr(e ast.Expr, exempt bool) error {
	lit, isLit := e.(*ast.IntLiteral)
	if isLit {
		if lit.AtSignedBoundary && !exempt {
			return cerrors.NewAt(cerrors.Lexical, "integer literal out of range: "+lit.String(), lit.PosV)
		}
		return nil
	}
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil
	}
	argExempt := call.Name == "negate" && len(call.Args) == 1
	for _, arg := range call.Args {
		if err := checkBoundaryExpr(arg, argExempt); err != nil {
			return err
		}
	}
	for _, b := range call.BodyArguments {
		if err := checkBoundaryExpr(b, false); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseTopLevelItem(prog *ast.Program, nsPrefix string) error {
	if p.curIsKeyword("import") {
		return p.parseImport(prog)
	}
	if p.curIsKeyword("namespace") {
		return p.parseNamespace(prog, nsPrefix)
	}
	return p.parseDefOrExec(prog, nsPrefix)
}

// parseImport parses `import /path/segments`; a single-segment path is
// rejected in favor of deeper, more specific import paths.
func (p *Parser) parseImport(prog *ast.Program) error {
	p.advance() // "import"
	if p.cur().Type != token.PATH {
		return p.errorf("import requires an absolute slash path, found %s %q", p.cur().Type, p.cur().Literal)
	}
	path := p.advance().Literal
	if strings.Count(path, "/") < 2 {
		return cerrors.NewAt(cerrors.Syntactic, "import path must have at least two segments, found "+path, p.cur().Pos)
	}
	if err := validatePathSegments(path); err != nil {
		return err
	}
	prog.Imports = append(prog.Imports, path)
	return nil
}

// parseNamespace parses `namespace IDENT { ... }`, recursing into its body
// with an extended namespace prefix; namespaces may nest.
func (p *Parser) parseNamespace(prog *ast.Program, nsPrefix string) error {
	p.advance() // "namespace"
	if p.cur().Type != token.IDENT {
		return p.errorf("namespace requires a simple identifier, found %s %q", p.cur().Type, p.cur().Literal)
	}
	name := p.advance().Literal
	if registry.IsReserved(name) {
		return cerrors.NewAt(cerrors.Syntactic, "reserved keyword used as namespace name: "+name, p.cur().Pos)
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return err
	}
	childPrefix := nsPrefix + "/" + name
	for p.cur().Type != token.RBRACE {
		if p.atEOF() {
			return p.errorf("unterminated namespace body for %s", name)
		}
		if err := p.parseTopLevelItem(prog, childPrefix); err != nil {
			return err
		}
	}
	p.advance() // "}"
	return nil
}

func validatePathSegments(path string) error {
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if seg == "" {
			return cerrors.New(cerrors.Syntactic, "invalid slash-path segment in "+path)
		}
		if registry.IsReserved(seg) {
			return cerrors.New(cerrors.Syntactic, "reserved keyword used as path segment: "+seg)
		}
	}
	return nil
}

// parseDefOrExec parses `[transforms] name<templ>(items)` then, per the
// state machine in spec.md §4.2, becomes a Definition iff a `{` follows
// immediately — otherwise it is a body-less top-level Execution.
func (p *Parser) parseDefOrExec(prog *ast.Program, nsPrefix string) error {
	pos := p.cur().Pos
	transforms, err := p.parseOptionalTransformList()
	if err != nil {
		return err
	}

	if p.cur().Type != token.IDENT && p.cur().Type != token.PATH {
		return p.errorf("expected a definition or execution name, found %s %q", p.cur().Type, p.cur().Literal)
	}
	nameTok := p.advance()
	fullPath, name, namespacePrefix, err := resolveName(nameTok, nsPrefix)
	if err != nil {
		return err
	}

	templateArgs, err := p.parseOptionalTemplateArgNames()
	if err != nil {
		return err
	}

	// Whether this paren list holds parameter bindings or call arguments
	// is not decidable token-by-token (both share the `[...]` bracket
	// shape) without knowing up front whether a `{` follows the closing
	// `)` — so peek past the whole balanced paren span first.
	isDefinition := p.parenListIsFollowedByBrace()

	if _, err := p.expect(token.LPAREN); err != nil {
		return err
	}
	var items []ast.Expr
	var itemNames []string
	if isDefinition {
		items, err = p.parseParamList(token.RPAREN)
	} else {
		items, itemNames, err = p.parseArgList(token.RPAREN)
	}
	if err != nil {
		return err
	}

	if p.cur().Type == token.LBRACE {
		p.advance()
		body, err := p.parseStatements()
		if err != nil {
			return err
		}
		if err := registerPathUnique(prog, fullPath); err != nil {
			return err
		}
		params := make([]*ast.CallExpr, len(items))
		for i, it := range items {
			bind, ok := it.(*ast.CallExpr)
			if !ok || !bind.IsBinding {
				return cerrors.NewAt(cerrors.Syntactic, "definition parameters must be bindings", it.Pos())
			}
			params[i] = bind
		}
		def := &ast.Definition{
			FullPath:        fullPath,
			Name:            name,
			NamespacePrefix: namespacePrefix,
			TemplateParams:  templateArgs,
			Transforms:      transforms,
			Params:          params,
			Body:            body,
			PosV:            pos,
		}
		for _, s := range body {
			if call, ok := s.(*ast.CallExpr); ok && call.Name == "return" {
				def.HasReturnStmt = true
			}
		}
		def.IsStructLike = isStructLikeDefinition(def)
		prog.Definitions = append(prog.Definitions, def)
		prog.TopLevel = append(prog.TopLevel, def)
		return nil
	}

	exec := &ast.Execution{
		FullPath:     fullPath,
		TemplateArgs: templateArgs,
		Args:         items,
		ArgNames:     itemNames,
		Transforms:   transforms,
		PosV:         pos,
	}
	prog.Executions = append(prog.Executions, exec)
	prog.TopLevel = append(prog.TopLevel, exec)
	return nil
}

func registerPathUnique(prog *ast.Program, path string) error {
	for _, d := range prog.Definitions {
		if d.FullPath == path {
			return cerrors.New(cerrors.Semantic, "duplicate definition: "+path)
		}
	}
	return nil
}

func resolveName(tok token.Token, nsPrefix string) (fullPath, name, namespacePrefix string, err error) {
	if tok.Type == token.PATH {
		if err := validatePathSegments(tok.Literal); err != nil {
			return "", "", "", err
		}
		idx := strings.LastIndex(tok.Literal, "/")
		return tok.Literal, tok.Literal[idx+1:], tok.Literal[:idx], nil
	}
	if registry.IsReserved(tok.Literal) {
		return "", "", "", cerrors.NewAt(cerrors.Syntactic, "reserved keyword used as definition name: "+tok.Literal, tok.Pos)
	}
	return nsPrefix + "/" + tok.Literal, tok.Literal, nsPrefix, nil
}

// isStructLikeDefinition implements the implicit struct-like heuristic
// from spec.md §3: no return transform, no parameters, no return
// statement, and every statement is a binding.
func isStructLikeDefinition(d *ast.Definition) bool {
	for _, t := range d.Transforms {
		if registry.IsStorageClassName(t.Name) {
			return true
		}
		if t.Name == "return" {
			return false
		}
	}
	if len(d.Params) > 0 || d.HasReturnStmt {
		return false
	}
	for _, s := range d.Body {
		call, ok := s.(*ast.CallExpr)
		if !ok || !call.IsBinding {
			return false
		}
	}
	return true
}

// parseOptionalTransformList parses a leading `[name<templ>(vals), …]`
// list, or returns nil if none is present.
func (p *Parser) parseOptionalTransformList() ([]*ast.Transform, error) {
	if p.cur().Type != token.LBRACK {
		return nil, nil
	}
	p.advance()
	var transforms []*ast.Transform
	for p.cur().Type != token.RBRACK {
		if p.atEOF() {
			return nil, p.errorf("unterminated transform list")
		}
		t, err := p.parseOneTransform()
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	if len(transforms) == 0 {
		return nil, cerrors.NewAt(cerrors.Syntactic, "empty transform list", p.cur().Pos)
	}
	return transforms, nil
}

func (p *Parser) parseOneTransform() (*ast.Transform, error) {
	pos := p.cur().Pos
	if p.cur().Type != token.IDENT {
		return nil, p.errorf("expected transform name, found %s %q", p.cur().Type, p.cur().Literal)
	}
	name := p.advance().Literal

	var templateArgs []string
	if p.cur().Type == token.LESS {
		p.advance()
		for p.cur().Type != token.GREATER {
			if p.cur().Type != token.IDENT {
				return nil, p.errorf("expected template argument, found %s %q", p.cur().Type, p.cur().Literal)
			}
			templateArgs = append(templateArgs, p.advance().Literal)
			if p.cur().Type == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.GREATER); err != nil {
			return nil, err
		}
	}

	var valueArgs []string
	if p.cur().Type == token.LPAREN {
		p.advance()
		for p.cur().Type != token.RPAREN {
			if p.cur().Type != token.IDENT && !p.cur().Type.IsLiteral() {
				return nil, p.errorf("expected transform value, found %s %q", p.cur().Type, p.cur().Literal)
			}
			valueArgs = append(valueArgs, p.advance().Literal)
			if p.cur().Type == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	phase := ast.PhaseSemantic
	if registry.IsTextFilterName(name) {
		phase = ast.PhaseText
	}
	return &ast.Transform{Name: name, TemplateArgs: templateArgs, ValueArgs: valueArgs, Phase: phase, PosV: pos}, nil
}

func (p *Parser) parseOptionalTemplateArgNames() ([]string, error) {
	if p.cur().Type != token.LESS {
		return nil, nil
	}
	p.advance()
	var names []string
	for p.cur().Type != token.GREATER {
		if p.cur().Type != token.IDENT {
			return nil, p.errorf("expected template argument name, found %s %q", p.cur().Type, p.cur().Literal)
		}
		names = append(names, p.advance().Literal)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.GREATER); err != nil {
		return nil, err
	}
	return names, nil
}

// parseStatements parses a `{`-delimited body (the `{` already consumed)
// up to and consuming the matching `}`.
func (p *Parser) parseStatements() ([]ast.Expr, error) {
	var stmts []ast.Expr
	for p.cur().Type != token.RBRACE {
		if p.atEOF() {
			return nil, p.errorf("unterminated body")
		}
		stmt, err := p.parseExprOrBinding()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // "}"
	return stmts, nil
}

// parseArgList parses a call/execution argument list: each item is either
// a plain value expression or a named one via the `foo([name] expr)`
// bracket syntax. Unlike a parameter list, no `[transforms…]` binding
// prefix is recognized here — arguments are values, never declarations —
// which is what lets a bare `[name]` unambiguously mean a named-argument
// label in this position.
func (p *Parser) parseArgList(end token.Type) ([]ast.Expr, []string, error) {
	var items []ast.Expr
	var names []string
	for p.cur().Type != end {
		if p.atEOF() {
			return nil, nil, p.errorf("unterminated list, expected %s", end)
		}
		name := ""
		if p.cur().Type == token.LBRACK {
			p.advance()
			if p.cur().Type != token.IDENT {
				return nil, nil, p.errorf("expected argument name, found %s %q", p.cur().Type, p.cur().Literal)
			}
			if registry.IsReserved(p.cur().Literal) {
				return nil, nil, cerrors.NewAt(cerrors.Syntactic, "reserved keyword used as named-argument label: "+p.cur().Literal, p.cur().Pos)
			}
			name = p.advance().Literal
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, nil, err
			}
		}
		item, err := p.parseValueExpr()
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
		names = append(names, name)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(end); err != nil {
		return nil, nil, err
	}
	return items, names, nil
}

// parseParamList parses a definition's parameter list: each item goes
// through the full `[transforms…] name` binding grammar (the caller
// verifies every result is IsBinding).
func (p *Parser) parseParamList(end token.Type) ([]ast.Expr, error) {
	var items []ast.Expr
	for p.cur().Type != end {
		if p.atEOF() {
			return nil, p.errorf("unterminated parameter list, expected %s", end)
		}
		item, err := p.parseExprOrBinding()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return items, nil
}

// parenListIsFollowedByBrace peeks from the current `(` token to its
// matching `)` (tracking LPAREN/RPAREN depth only — braces and brackets
// nested inside are already internally balanced by the lexer) and reports
// whether a `{` immediately follows. Per the state machine in spec.md
// §4.2, that `{` is what turns a top-level `name(...)` into a Definition.
func (p *Parser) parenListIsFollowedByBrace() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Type == token.LBRACE
			}
		case token.EOF:
			return false
		}
	}
	return false
}


package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/primelang/primec/internal/ast"
	cerrors "github.com/primelang/primec/internal/errors"
	"github.com/primelang/primec/internal/registry"
	"github.com/primelang/primec/internal/stringlit"
	"github.com/primelang/primec/internal/token"
)

// parseExprOrBinding is used in statement and parameter position: it
// additionally recognizes a leading `[transforms…]` binding prefix that
// parseValueExpr (call-argument position) deliberately does not.
func (p *Parser) parseExprOrBinding() (ast.Expr, error) {
	pos := p.cur().Pos
	transforms, err := p.parseOptionalTransformList()
	if err != nil {
		return nil, err
	}
	if transforms != nil {
		return p.parseBindingAfterTransforms(transforms, pos)
	}
	return p.parseValueExpr()
}

// parseValueExpr parses a plain expression with no leading transform
// prefix: a literal, a bare name reference, or a call — used for call
// arguments, where a leading `[name]` instead means a named-argument
// label (see parseArgList).
func (p *Parser) parseValueExpr() (ast.Expr, error) {
	pos := p.cur().Pos
	switch {
	case p.cur().Type == token.INT:
		return p.parseIntLiteral(p.advance())
	case p.cur().Type == token.FLOAT:
		return p.parseFloatLiteral(p.advance())
	case p.cur().Type == token.STRING:
		tok := p.advance()
		lit, err := stringlit.Decode(tok.Literal)
		if err != nil {
			return nil, cerrors.NewAt(cerrors.Lexical, err.Error(), pos)
		}
		return &ast.StringLiteral{Raw: tok.Literal, Value: lit.Value, Suffix: string(lit.Suffix), PosV: pos}, nil
	case p.cur().Type == token.IDENT:
		if p.cur().Literal == "true" || p.cur().Literal == "false" {
			tok := p.advance()
			return &ast.BoolLiteral{Value: tok.Literal == "true", PosV: pos}, nil
		}
		return p.parseNameOrCall(pos)
	case p.cur().Type == token.PATH:
		return p.parseNameOrCall(pos)
	default:
		return nil, p.errorf("expected an expression, found %s %q", p.cur().Type, p.cur().Literal)
	}
}

// parseBindingAfterTransforms handles every shape that can follow a
// leading `[transforms]` list: a bare parameter name, a brace-delimited
// initializer, or (when the transforms look type-like) the single-argument
// call-shaped initializer shorthand `name(expr)`.
func (p *Parser) parseBindingAfterTransforms(transforms []*ast.Transform, pos token.Position) (ast.Expr, error) {
	if p.cur().Type != token.IDENT {
		return nil, p.errorf("expected a binding name after transforms, found %s %q", p.cur().Type, p.cur().Literal)
	}
	if registry.IsReserved(p.cur().Literal) {
		return nil, cerrors.NewAt(cerrors.Syntactic, "reserved keyword used as binding name: "+p.cur().Literal, p.cur().Pos)
	}
	name := p.advance().Literal

	switch p.cur().Type {
	case token.LBRACE:
		p.advance()
		init, err := p.parseExprOrBinding()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: name, IsBinding: true, Transforms: transforms, Args: []ast.Expr{init}, PosV: pos}, nil

	case token.LPAREN:
		p.advance()
		items, names, err := p.parseArgList(token.RPAREN)
		if err != nil {
			return nil, err
		}
		if p.isTypeLikeTransforms(transforms) && len(items) == 1 && names[0] == "" {
			return &ast.CallExpr{Name: name, IsBinding: true, Transforms: transforms, Args: items, PosV: pos}, nil
		}
		call := &ast.CallExpr{Name: name, Transforms: transforms, Args: items, ArgNames: names, PosV: pos}
		if p.cur().Type == token.LBRACE {
			p.advance()
			body, err := p.parseStatements()
			if err != nil {
				return nil, err
			}
			call.HasBodyArguments = true
			call.BodyArguments = body
		}
		return call, nil

	default:
		return &ast.CallExpr{Name: name, IsBinding: true, Transforms: transforms, PosV: pos}, nil
	}
}

// isTypeLikeTransforms resolves the Open Question on the `name(expr)`
// initializer shorthand conservatively: EVERY transform in the list must
// read as a declared type — a primitive name, a templated type family
// (array, vector, map, Pointer, Reference), or a path matching a
// struct-like definition already seen earlier in the Program (literal
// spelling only, no forward references at parse time). Any other leading
// transform leaves `name(expr)` a plain call.
func (p *Parser) isTypeLikeTransforms(transforms []*ast.Transform) bool {
	if len(transforms) == 0 {
		return false
	}
	for _, t := range transforms {
		if registry.IsPrimitiveName(t.Name) || registry.IsTemplatedTypeFamily(t.Name) {
			continue
		}
		if p.isKnownStructLikePath(t.Name) {
			continue
		}
		return false
	}
	return true
}

func (p *Parser) isKnownStructLikePath(name string) bool {
	if p.prog == nil {
		return false
	}
	for _, d := range p.prog.Definitions {
		if d.IsStructLike && (d.Name == name || d.FullPath == name) {
			return true
		}
	}
	return false
}

// parseNameOrCall parses a (possibly dotted or slash-path) name, an
// optional `<templateArgs>`, and an optional `(args)` call with optional
// trailing `{ body }` block argument. With no call parens it is a bare
// name reference.
func (p *Parser) parseNameOrCall(pos token.Position) (ast.Expr, error) {
	namespacePrefix, name, isMethodCall, err := p.parseNameHead()
	if err != nil {
		return nil, err
	}

	templateArgs, err := p.parseOptionalTemplateArgNames()
	if err != nil {
		return nil, err
	}

	// A bare name directly followed by `{` is the binding-initializer
	// shorthand with no leading transform list (e.g. a local `x{1}`).
	if p.cur().Type == token.LBRACE && namespacePrefix == "" && len(templateArgs) == 0 {
		p.advance()
		init, err := p.parseExprOrBinding()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: name, IsBinding: true, Args: []ast.Expr{init}, PosV: pos}, nil
	}

	if p.cur().Type != token.LPAREN {
		if namespacePrefix != "" || len(templateArgs) > 0 {
			full := name
			if namespacePrefix != "" {
				full = namespacePrefix + "." + name
			}
			return &ast.NameExpr{Name: full, PosV: pos}, nil
		}
		return &ast.NameExpr{Name: name, PosV: pos}, nil
	}

	p.advance() // "("
	items, names, err := p.parseArgList(token.RPAREN)
	if err != nil {
		return nil, err
	}
	call := &ast.CallExpr{
		Name:            name,
		NamespacePrefix: namespacePrefix,
		TemplateArgs:    templateArgs,
		Args:            items,
		ArgNames:        names,
		IsMethodCall:    isMethodCall,
		PosV:            pos,
	}
	if p.cur().Type == token.LBRACE {
		p.advance()
		body, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		call.HasBodyArguments = true
		call.BodyArguments = body
	}
	return call, nil
}

// parseNameHead consumes either an absolute slash path or a dotted
// identifier chain (`receiver.method`), reporting whether a dot made it a
// method-call shape. The namespace prefix is repurposed to carry the
// receiver name for a dotted chain, matching CallExpr.NamespacePrefix's
// dual use for both "ns.definition" and "receiver.method" shapes.
//
// Unlike a definition/namespace/binding name, a call TARGET is allowed to
// be a reserved word: `return(...)`, `if(...)`, `else(...)` are ordinary
// calls in this grammar, not name introductions, so registry.IsReserved
// is deliberately not consulted here.
func (p *Parser) parseNameHead() (namespacePrefix, name string, isMethodCall bool, err error) {
	if p.cur().Type == token.PATH {
		path := p.advance().Literal
		if err := validatePathSegments(path); err != nil {
			return "", "", false, err
		}
		idx := strings.LastIndex(path, "/")
		return path[:idx], path[idx+1:], false, nil
	}

	first := p.advance().Literal
	if p.cur().Type != token.DOT {
		return "", first, false, nil
	}
	p.advance() // "."
	if p.cur().Type != token.IDENT {
		return "", "", false, p.errorf("expected method name after '.', found %s %q", p.cur().Type, p.cur().Literal)
	}
	method := p.advance().Literal
	return first, method, true, nil
}

// parseIntLiteral splits the already-suffixed literal text into magnitude
// and width/signedness, range-checking the magnitude against the width.
// Because internal/textfilter rewrites unary minus into a `negate(...)`
// call rather than a literal sign, every literal this function sees is a
// non-negative magnitude — so i32's accepted range runs one past its
// positive max (2147483648), to admit the one value that is only valid
// when immediately negated; Parse's validateIntLiteralBoundaries re-checks
// that adjacency once the whole tree is built.
func (p *Parser) parseIntLiteral(tok token.Token) (*ast.IntLiteral, error) {
	lit := tok.Literal
	var width int
	var unsigned bool
	var numeral string
	switch {
	case strings.HasSuffix(lit, "i64"):
		width, numeral = 64, strings.TrimSuffix(lit, "i64")
	case strings.HasSuffix(lit, "u64"):
		width, unsigned, numeral = 64, true, strings.TrimSuffix(lit, "u64")
	case strings.HasSuffix(lit, "i32"):
		width, numeral = 32, strings.TrimSuffix(lit, "i32")
	default:
		return nil, cerrors.NewAt(cerrors.Syntactic, "integer literal requires an explicit i32/i64/u64 suffix: "+lit, tok.Pos)
	}

	var mag uint64
	var err error
	if strings.HasPrefix(numeral, "0x") || strings.HasPrefix(numeral, "0X") {
		mag, err = strconv.ParseUint(numeral[2:], 16, 64)
	} else {
		mag, err = strconv.ParseUint(numeral, 10, 64)
	}
	if err != nil {
		return nil, cerrors.NewAt(cerrors.Lexical, "malformed integer literal: "+lit, tok.Pos)
	}

	var maxMag uint64
	switch {
	case unsigned:
		maxMag = math.MaxUint64
	case width == 32:
		maxMag = 1 << 31
	default:
		maxMag = 1 << 63
	}
	if mag > maxMag {
		return nil, cerrors.NewAt(cerrors.Lexical, "integer literal out of range: "+lit, tok.Pos)
	}

	atBoundary := !unsigned && mag == maxMag
	return &ast.IntLiteral{Value: int64(mag), Width: width, Unsigned: unsigned, AtSignedBoundary: atBoundary, PosV: tok.Pos}, nil
}

func (p *Parser) parseFloatLiteral(tok token.Token) (*ast.FloatLiteral, error) {
	lit := tok.Literal
	width := 64
	text := lit
	switch {
	case strings.HasSuffix(lit, "f32"):
		width, text = 32, strings.TrimSuffix(lit, "f32")
	case strings.HasSuffix(lit, "f64"):
		width, text = 64, strings.TrimSuffix(lit, "f64")
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return nil, cerrors.NewAt(cerrors.Lexical, "malformed float literal: "+lit, tok.Pos)
	}
	return &ast.FloatLiteral{Text: text, Width: width, PosV: tok.Pos}, nil
}

package lexer

import (
	"testing"

	"github.com/primelang/primec/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `def /demo/widget(mut x) { call(x, y) }`

	tests := []struct {
		expectedLiteral string
		expectedType    token.Type
	}{
		{"def", token.IDENT},
		{"/demo/widget", token.PATH},
		{"(", token.LPAREN},
		{"mut", token.IDENT},
		{"x", token.IDENT},
		{")", token.RPAREN},
		{"{", token.LBRACE},
		{"call", token.IDENT},
		{"(", token.LPAREN},
		{"x", token.IDENT},
		{",", token.COMMA},
		{"y", token.IDENT},
		{")", token.RPAREN},
		{"}", token.RBRACE},
		{"", token.EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", l.Errors())
	}
}

func TestDelimiters(t *testing.T) {
	input := "( ) [ ] { } < > , . : ;"
	want := []token.Type{
		token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK,
		token.LBRACE, token.RBRACE, token.LESS, token.GREATER,
		token.COMMA, token.DOT, token.COLON, token.SEMICOLON, token.EOF,
	}
	l := New(input)
	for i, want := range want {
		got := l.NextToken()
		if got.Type != want {
			t.Fatalf("token %d: expected %s, got %s", i, want, got.Type)
		}
	}
}

func TestLineAndBlockComments(t *testing.T) {
	input := `a // trailing comment
	/* block
	   comment */ b`
	l := New(input)

	first := l.NextToken()
	if first.Literal != "a" {
		t.Fatalf("expected first token 'a', got %q", first.Literal)
	}
	second := l.NextToken()
	if second.Literal != "b" {
		t.Fatalf("expected second token 'b', got %q", second.Literal)
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", l.Errors())
	}
}

func TestLineCommentAllowsNonASCIIText(t *testing.T) {
	input := "a // héllo wörld\nb"
	l := New(input)
	first := l.NextToken()
	second := l.NextToken()
	if first.Literal != "a" || second.Literal != "b" {
		t.Fatalf("unexpected tokens: %q, %q", first.Literal, second.Literal)
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors for non-ASCII comment text, got %v", l.Errors())
	}
}

func TestBlockCommentAllowsNonASCIIText(t *testing.T) {
	input := "a /* héllo */ b"
	l := New(input)
	first := l.NextToken()
	second := l.NextToken()
	if first.Literal != "a" || second.Literal != "b" {
		t.Fatalf("unexpected tokens: %q, %q", first.Literal, second.Literal)
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected no errors for non-ASCII comment text, got %v", l.Errors())
	}
}

func TestNonASCIIByteOutsideCommentOrStringIsStillRejected(t *testing.T) {
	input := "a \xc3\xa9 b"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a non-ASCII byte outside comment/string to be rejected")
	}
}

func TestTokenize(t *testing.T) {
	toks, errs := Tokenize("a(b)")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("expected trailing EOF, got %s", toks[len(toks)-1].Type)
	}
}

package lexer

import "testing"

func TestLineAndColumnTracking(t *testing.T) {
	input := "a\nbb\nccc"
	l := New(input)

	tok := l.NextToken()
	if tok.Pos.Line != 1 {
		t.Fatalf("expected line 1 for 'a', got %d", tok.Pos.Line)
	}

	tok = l.NextToken()
	if tok.Literal != "bb" || tok.Pos.Line != 2 {
		t.Fatalf("expected 'bb' on line 2, got %q on line %d", tok.Literal, tok.Pos.Line)
	}

	tok = l.NextToken()
	if tok.Literal != "ccc" || tok.Pos.Line != 3 {
		t.Fatalf("expected 'ccc' on line 3, got %q on line %d", tok.Literal, tok.Pos.Line)
	}
}

func TestSaveAndRestoreState(t *testing.T) {
	l := New("one two three")
	l.NextToken() // one
	saved := l.SaveState()

	second := l.NextToken()
	if second.Literal != "two" {
		t.Fatalf("expected 'two', got %q", second.Literal)
	}

	l.RestoreState(saved)
	replay := l.NextToken()
	if replay.Literal != "two" {
		t.Fatalf("expected restored lexer to re-scan 'two', got %q", replay.Literal)
	}
}

package token

import "testing"

func sampleTokens() []Token {
	return []Token{
		{Type: TokenTypeLiteral, Literal: "int", Line: 1},
		{Type: TokenIdent, Literal: "x", Line: 1},
		{Type: TokenSemicolon, Literal: ";", Line: 1},
	}
}

func TestStreamNextAndPeek(t *testing.T) {
	s := NewStream(sampleTokens())

	if got := s.Peek(); got.Literal != "int" {
		t.Fatalf("Peek() expected='int', got=%q", got.Literal)
	}
	if got := s.Next(); got.Literal != "int" {
		t.Fatalf("Next() expected='int', got=%q", got.Literal)
	}
	if got := s.Next(); got.Literal != "x" {
		t.Fatalf("Next() expected='x', got=%q", got.Literal)
	}
	if !s.HasMore() {
		t.Fatalf("HasMore() expected=true before the last token")
	}
	s.Next()
	if s.HasMore() {
		t.Fatalf("HasMore() expected=false after the last token")
	}
	if s.Pos() != s.Len() {
		t.Errorf("Pos() expected=%d, got=%d", s.Len(), s.Pos())
	}
}

func TestStreamEOFSentinel(t *testing.T) {
	s := NewStream(nil)

	for i := 0; i < 3; i++ {
		tok := s.Next()
		if !tok.IsEOF() {
			t.Fatalf("Next() #%d expected EOF sentinel, got=%+v", i, tok)
		}
		if tok.Type != TokenUnknown || tok.Literal != "EOF" || tok.Line != -1 {
			t.Errorf("sentinel expected={UNKNOWN EOF -1}, got=%+v", tok)
		}
	}
	if !s.Peek().IsEOF() {
		t.Errorf("Peek() on empty stream expected EOF sentinel")
	}
}

func TestStreamRewindIsSingleStep(t *testing.T) {
	s := NewStream(sampleTokens())
	s.Next()
	s.Next()

	s.Rewind()
	if s.Pos() != 1 {
		t.Fatalf("Pos() after Rewind expected=1, got=%d", s.Pos())
	}
	s.Rewind() // second rewind without an intervening Next is ignored
	if s.Pos() != 1 {
		t.Fatalf("Pos() after double Rewind expected=1, got=%d", s.Pos())
	}
	if got := s.Next(); got.Literal != "x" {
		t.Errorf("Next() after Rewind expected='x', got=%q", got.Literal)
	}
}

func TestStreamRewindAfterSentinel(t *testing.T) {
	s := NewStream(sampleTokens()[:1])
	s.Next()
	s.Next() // sentinel, does not advance

	s.Rewind()
	if s.Pos() != 1 {
		t.Errorf("Rewind after sentinel must not move the cursor, Pos()=%d", s.Pos())
	}
}

func TestStreamLast(t *testing.T) {
	toks := sampleTokens()
	toks[2].Line = 4
	s := NewStream(toks)

	if got := s.Last(); got.Literal != ";" || got.Line != 4 {
		t.Errorf("Last() expected=';' on line 4, got=%+v", got)
	}
	if s.Pos() != 0 {
		t.Errorf("Last() must not move the cursor, Pos()=%d", s.Pos())
	}
	if !NewStream(nil).Last().IsEOF() {
		t.Errorf("Last() on empty stream expected EOF sentinel")
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		word     string
		expected TokenType
	}{
		{"if", TokenKeyword},
		{"return", TokenKeyword},
		{"procedure", TokenProcedure},
		{"function", TokenFunction},
		{"int", TokenTypeLiteral},
		{"void", TokenTypeLiteral},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"string", TokenIdent},
		{"float", TokenIdent},
		{"_tmp1", TokenIdent},
	}

	for _, tt := range tests {
		if got := LookupIdent(tt.word); got != tt.expected {
			t.Errorf("LookupIdent(%q) expected=%s, got=%s", tt.word, tt.expected, got)
		}
	}
	if !IsReserved("while") || IsReserved("string") {
		t.Errorf("IsReserved mismatch for 'while'/'string'")
	}
}

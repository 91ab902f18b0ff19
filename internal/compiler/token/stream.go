package token

import "strings"

// Stream is a cursor over a fixed token sequence. It supports one token of
// lookahead (Peek) and a single-step Rewind of the last consumed token.
type Stream struct {
	tokens []Token
	pos    int

	// canRewind is set by a Next that advanced and cleared by Rewind, so at
	// most one token can be pushed back between reads.
	canRewind bool
}

func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Next returns the token at the cursor and advances past it. Once the
// stream is exhausted it keeps returning the EOF sentinel.
func (s *Stream) Next() Token {
	if s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		s.pos++
		s.canRewind = true
		return tok
	}
	s.canRewind = false
	return EOF
}

// Peek returns the token Next would return, without consuming it.
func (s *Stream) Peek() Token {
	if s.pos < len(s.tokens) {
		return s.tokens[s.pos]
	}
	return EOF
}

// Rewind un-consumes the token returned by the last Next. It is a no-op
// when that Next returned the sentinel or when Rewind was already called.
func (s *Stream) Rewind() {
	if !s.canRewind || s.pos == 0 {
		return
	}
	s.pos--
	s.canRewind = false
}

// HasMore reports whether the cursor is before the end of the sequence.
func (s *Stream) HasMore() bool {
	return s.pos < len(s.tokens)
}

// Last returns the final token of the sequence, or the sentinel when the
// sequence is empty.
func (s *Stream) Last() Token {
	if len(s.tokens) == 0 {
		return EOF
	}
	return s.tokens[len(s.tokens)-1]
}

// Pos returns the cursor index, 0 <= Pos() <= Len().
func (s *Stream) Pos() int { return s.pos }

func (s *Stream) Len() int { return len(s.tokens) }

// Lexemes joins the literals of toks with single spaces.
func Lexemes(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Literal
	}
	return strings.Join(parts, " ")
}

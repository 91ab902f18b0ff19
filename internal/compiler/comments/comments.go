// Package comments removes // and /* */ comments from source text before
// it reaches the lexer. Every newline is echoed verbatim, so line numbers in
// the stripped text match the input file.
package comments

import (
	"strings"

	"github.com/arnavsurve/minic/internal/compiler/diag"
)

type state int

const (
	stateCode state = iota
	stateLineComment
	stateBlockComment
	stateLiteral
)

type stripper struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line  int
	state state
	out   strings.Builder

	quote          byte // delimiter of the literal being copied
	blockStartLine int
	sawCode        bool
}

// Strip returns src with all comments removed. Failures are reported to h
// and returned as an error wrapping diag.ErrAborted; the returned text is
// then empty and must not be used.
func Strip(src string, h *diag.Handler) (string, error) {
	s := &stripper{input: src, line: 1}
	s.readChar()

	for !s.atEOF() {
		if s.ch == '\n' {
			if s.state == stateLineComment {
				s.state = stateCode
			}
			s.out.WriteByte('\n')
			s.line++
			s.readChar()
			continue
		}

		switch s.state {
		case stateCode:
			if !s.code(h) {
				return "", h.Aborted("strip comments")
			}
		case stateLineComment:
			s.readChar()
		case stateBlockComment:
			s.blockComment()
		case stateLiteral:
			s.literal()
		}
	}

	if s.state == stateBlockComment {
		h.Add(s.blockStartLine, diag.Lexical, "Lexical Error: Unterminated block comment.")
		return "", h.Aborted("strip comments")
	}
	if !s.sawCode {
		h.Add(1, diag.Lexical, "Lexical Error: Entire file was enclosed in a comment.")
		return "", h.Aborted("strip comments")
	}
	return s.out.String(), nil
}

func (s *stripper) readChar() {
	if s.readPosition >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPosition]
	}
	s.position = s.readPosition
	s.readPosition++
}

func (s *stripper) atEOF() bool {
	return s.position >= len(s.input)
}

func (s *stripper) peekChar() byte {
	if s.readPosition >= len(s.input) {
		return 0
	}
	return s.input[s.readPosition]
}

// code handles one character outside comments and literals. It returns
// false after reporting an unmatched closing comment.
func (s *stripper) code(h *diag.Handler) bool {
	switch {
	case s.ch == '/' && s.peekChar() == '/':
		s.state = stateLineComment
		s.readChar()
		s.readChar()
	case s.ch == '/' && s.peekChar() == '*':
		s.state = stateBlockComment
		s.blockStartLine = s.line
		s.readChar()
		s.readChar()
	case s.ch == '*' && s.peekChar() == '/':
		h.Add(s.line, diag.Lexical, "Lexical Error: Unmatched closing comment '*/'.")
		return false
	case s.ch == '"' || s.ch == '\'':
		s.quote = s.ch
		s.state = stateLiteral
		s.sawCode = true
		s.out.WriteByte(s.ch)
		s.readChar()
	default:
		if !isSpace(s.ch) {
			s.sawCode = true
		}
		s.out.WriteByte(s.ch)
		s.readChar()
	}
	return true
}

func (s *stripper) blockComment() {
	if s.ch != '*' {
		s.readChar()
		return
	}
	// a run of '*' may precede the closing '/'
	for s.ch == '*' {
		s.readChar()
	}
	if s.ch == '/' {
		s.state = stateCode
		s.readChar()
	}
}

// literal copies string and char literal contents untouched, so comment
// markers inside quotes survive.
func (s *stripper) literal() {
	s.out.WriteByte(s.ch)
	switch s.ch {
	case '\\':
		if s.readPosition < len(s.input) && s.peekChar() != '\n' {
			s.readChar()
			s.out.WriteByte(s.ch)
		}
	case s.quote:
		s.state = stateCode
	}
	s.readChar()
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

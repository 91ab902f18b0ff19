package lexer

import (
	"github.com/arnavsurve/minic/internal/compiler/diag"
	"github.com/arnavsurve/minic/internal/compiler/token"
)

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line int // line of the current char

	diags  *diag.Handler
	tokens []token.Token
}

// NewLexer prepares a lexer over comment-free source text. startLine is the
// line number of the first character; diagnostics go to h.
func NewLexer(input string, startLine int, h *diag.Handler) *Lexer {
	l := &Lexer{input: input, line: startLine, diags: h}
	l.readChar()
	return l
}

// readChar advances the lexer's position and updates the current character.
// The line counter moves as soon as a newline becomes the current char.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NULL (EOF)
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
	}
}

// Returns the next character without consuming it
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Tokenize scans the whole input. Any lexical error makes the result
// unusable: the token slice is nil and the error wraps diag.ErrAborted.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	l.tokens = l.tokens[:0]

	for {
		l.skipWhitespace()
		if l.atEOF() {
			break
		}
		if !l.scanToken() {
			return nil, l.diags.Aborted("tokenize")
		}
	}

	if l.diags.HasErrors() {
		return nil, l.diags.Aborted("tokenize")
	}
	return l.tokens, nil
}

// scanToken consumes one token starting at the current char. It returns
// false when a fatal error stopped the scan.
func (l *Lexer) scanToken() bool {
	startLine := l.line

	switch {
	case isLetter(l.ch):
		ident := l.readIdentifier()
		l.emit(token.LookupIdent(ident), ident, startLine)
		return true
	case isDigit(l.ch):
		return l.readInteger(startLine)
	case l.ch == '"':
		return l.readString(startLine)
	case l.ch == '\'':
		return l.readCharLiteral(startLine)
	}

	if tokType, ok := punctuation[l.ch]; ok {
		l.emit(tokType, string(l.ch), startLine)
		l.readChar()
		return true
	}
	if isOperatorStart(l.ch) {
		l.readOperator(startLine)
		return true
	}

	// Unknown characters still produce a token, but the file is failed
	// once scanning completes.
	lit := string(l.ch)
	l.diags.Addf(startLine, diag.Lexical, "Unknown token encountered: '%s'", lit)
	l.emit(token.TokenUnknown, lit, startLine)
	l.readChar()
	return true
}

func (l *Lexer) emit(tokenType token.TokenType, literal string, line int) {
	l.tokens = append(l.tokens, token.Token{Type: tokenType, Literal: literal, Line: line})
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\n' || l.ch == '\t' || l.ch == '\r' || l.ch == '\v' || l.ch == '\f' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readInteger scans a digit run. A letter inside the run (e.g. 12ab) fails
// the whole file rather than splitting the token.
func (l *Lexer) readInteger(startLine int) bool {
	start := l.position
	invalid := false
	for isDigit(l.ch) || isAlpha(l.ch) {
		if isAlpha(l.ch) {
			invalid = true
		}
		l.readChar()
	}
	literal := l.input[start:l.position]

	if invalid {
		l.diags.Addf(startLine, diag.Lexical, "Syntax error: invalid integer '%s'", literal)
		return false
	}
	l.emit(token.TokenInt, literal, startLine)
	return true
}

// readOperator applies maximal munch: the two-character operators are
// tried before the single-character ones.
func (l *Lexer) readOperator(startLine int) {
	pair := string(l.ch) + string(l.peekChar())
	if tokType, ok := twoCharOperators[pair]; ok {
		l.readChar()
		l.readChar()
		l.emit(tokType, pair, startLine)
		return
	}

	lit := string(l.ch)
	if tokType, ok := oneCharOperators[l.ch]; ok {
		l.emit(tokType, lit, startLine)
	} else {
		// lone '&' or '|'
		l.diags.Addf(startLine, diag.Lexical, "Unknown token encountered: '%s'", lit)
		l.emit(token.TokenUnknown, lit, startLine)
	}
	l.readChar()
}

// readString scans a double-quoted literal, delimiters included. Escapes are
// kept verbatim; \x swallows the hex digits that follow it.
func (l *Lexer) readString(startLine int) bool {
	start := l.position
	l.readChar() // Consume opening "

	for l.ch != '"' {
		if l.atEOF() {
			l.diags.Add(startLine, diag.Lexical, "Syntax error: unterminated string literal starting here.")
			return false
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				continue
			}
			if l.ch == 'x' {
				for isHexDigit(l.peekChar()) {
					l.readChar()
				}
			}
		}
		l.readChar()
	}

	l.readChar() // Consume closing "
	l.emit(token.TokenString, l.input[start:l.position], startLine)
	return true
}

// readCharLiteral scans a char literal: exactly one character or one escape
// sequence between single quotes.
func (l *Lexer) readCharLiteral(startLine int) bool {
	start := l.position
	l.readChar() // Consume opening '

	switch {
	case l.atEOF() || l.ch == '\n':
		return l.unterminatedChar(startLine)
	case l.ch == '\'':
		l.diags.Add(startLine, diag.Lexical, "Syntax error: empty character literal.")
		return false
	case l.ch == '\\':
		l.readChar()
		if l.atEOF() || l.ch == '\n' {
			return l.unterminatedChar(startLine)
		}
		if l.ch == 'x' {
			for isHexDigit(l.peekChar()) {
				l.readChar()
			}
		}
	}
	l.readChar() // Consume the character (or last char of the escape)

	if l.ch != '\'' {
		if l.atEOF() || l.ch == '\n' {
			return l.unterminatedChar(startLine)
		}
		l.diags.Add(startLine, diag.Lexical, "Syntax error: character literal must contain exactly one character.")
		return false
	}

	l.readChar() // Consume closing '
	l.emit(token.TokenChar, l.input[start:l.position], startLine)
	return true
}

func (l *Lexer) unterminatedChar(startLine int) bool {
	if l.atEOF() {
		l.diags.Add(startLine, diag.Lexical, "Syntax error: unterminated character literal at end of file.")
	} else {
		l.diags.Add(startLine, diag.Lexical, "Syntax error: unterminated character literal.")
	}
	return false
}

func isLetter(ch byte) bool {
	return isAlpha(ch) || ch == '_'
}

func isAlpha(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isOperatorStart(ch byte) bool {
	switch ch {
	case '+', '-', '=', '<', '>', '!', '&', '|', '*', '/', '%':
		return true
	}
	return false
}

var twoCharOperators = map[string]token.TokenType{
	"==": token.TokenEqual,
	"!=": token.TokenNotEqual,
	"&&": token.TokenAnd,
	"||": token.TokenOr,
	">=": token.TokenGTEqual,
	"<=": token.TokenLTEqual,
}

var oneCharOperators = map[byte]token.TokenType{
	'=': token.TokenAssign,
	'+': token.TokenPlus,
	'-': token.TokenMinus,
	'*': token.TokenAsterisk,
	'/': token.TokenSlash,
	'%': token.TokenModulo,
	'<': token.TokenLT,
	'>': token.TokenGT,
	'!': token.TokenNot,
}

var punctuation = map[byte]token.TokenType{
	'(': token.TokenLParen,
	')': token.TokenRParen,
	'{': token.TokenLBrace,
	'}': token.TokenRBrace,
	'[': token.TokenLBracket,
	']': token.TokenRBracket,
	';': token.TokenSemicolon,
	',': token.TokenComma,
}

// Tokenize is a convenience wrapper for NewLexer(...).Tokenize().
func Tokenize(input string, startLine int, h *diag.Handler) ([]token.Token, error) {
	return NewLexer(input, startLine, h).Tokenize()
}

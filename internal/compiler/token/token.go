package token

// TokenType is the kind of a lexed token. Its value doubles as the
// KIND_NAME written to token list files.
type TokenType string

const (
	// Literals & Identifiers
	TokenIdent  TokenType = "IDENTIFIER"   // x, string, main
	TokenInt    TokenType = "INTEGER"      // 42
	TokenString TokenType = "STRING"       // "..."
	TokenChar   TokenType = "CHAR_LITERAL" // 'a', '\n', '\x41'
	TokenTrue   TokenType = "BOOLEAN_TRUE"
	TokenFalse  TokenType = "BOOLEAN_FALSE"

	// Keywords
	TokenKeyword     TokenType = "KEYWORD"   // if, else, while, for, return
	TokenTypeLiteral TokenType = "TYPE"      // int, bool, char, void
	TokenProcedure   TokenType = "PROCEDURE" // procedure
	TokenFunction    TokenType = "FUNCTION"  // function

	// Punctuation
	TokenLParen    TokenType = "L_PAREN"   // (
	TokenRParen    TokenType = "R_PAREN"   // )
	TokenLBracket  TokenType = "L_BRACKET" // [
	TokenRBracket  TokenType = "R_BRACKET" // ]
	TokenLBrace    TokenType = "L_BRACE"   // {
	TokenRBrace    TokenType = "R_BRACE"   // }
	TokenSemicolon TokenType = "SEMICOLON" // ;
	TokenComma     TokenType = "COMMA"     // ,

	// Operators
	TokenAssign    TokenType = "ASSIGNMENT_OPERATOR" // =
	TokenPlus      TokenType = "PLUS"                // +
	TokenMinus     TokenType = "MINUS"               // -
	TokenAsterisk  TokenType = "ASTERISK"            // *
	TokenSlash     TokenType = "DIVIDE"              // /
	TokenModulo    TokenType = "MODULO"              // %
	TokenLT        TokenType = "LT"                  // <
	TokenGT        TokenType = "GT"                  // >
	TokenLTEqual   TokenType = "LT_EQUAL"            // <=
	TokenGTEqual   TokenType = "GT_EQUAL"            // >=
	TokenAnd       TokenType = "BOOLEAN_AND"         // &&
	TokenOr        TokenType = "BOOLEAN_OR"          // ||
	TokenNot       TokenType = "BOOLEAN_NOT"         // !
	TokenEqual     TokenType = "BOOLEAN_EQUAL"       // ==
	TokenNotEqual  TokenType = "BOOLEAN_NOT_EQUAL"   // !=
	TokenLogicalOr TokenType = "LOGICAL_OR"          // accepted by the parser, never lexed

	// Special
	TokenUnknown TokenType = "UNKNOWN"
)

// EOFLiteral is the lexeme of the end-of-stream sentinel.
const EOFLiteral = "EOF"

type Token struct {
	Type    TokenType
	Literal string
	Line    int
}

// EOF is the sentinel returned once a Stream is exhausted.
var EOF = Token{Type: TokenUnknown, Literal: EOFLiteral, Line: -1}

// IsEOF reports whether t is the end-of-stream sentinel.
func (t Token) IsEOF() bool {
	return t == EOF
}

// IsKeyword reports whether t is the keyword with the given spelling.
func (t Token) IsKeyword(word string) bool {
	return t.Type == TokenKeyword && t.Literal == word
}

// IsBinaryOperator reports whether t can join two operands in an expression.
func (t Token) IsBinaryOperator() bool {
	switch t.Type {
	case TokenPlus, TokenMinus, TokenAsterisk, TokenSlash, TokenModulo,
		TokenEqual, TokenNotEqual, TokenLT, TokenGT, TokenLTEqual, TokenGTEqual,
		TokenAnd, TokenOr, TokenLogicalOr:
		return true
	}
	return false
}

// reserved maps every reserved word to the token type it lexes as.
// "string" is deliberately absent: it is an ordinary identifier.
var reserved = map[string]TokenType{
	"if":        TokenKeyword,
	"else":      TokenKeyword,
	"while":     TokenKeyword,
	"for":       TokenKeyword,
	"return":    TokenKeyword,
	"procedure": TokenProcedure,
	"function":  TokenFunction,
	"int":       TokenTypeLiteral,
	"bool":      TokenTypeLiteral,
	"char":      TokenTypeLiteral,
	"void":      TokenTypeLiteral,
	"true":      TokenTrue,
	"false":     TokenFalse,
}

// LookupIdent returns the token type for a scanned word: the reserved
// word's type, or TokenIdent.
func LookupIdent(ident string) TokenType {
	if tokType, ok := reserved[ident]; ok {
		return tokType
	}
	return TokenIdent
}

// IsReserved reports whether word may not be used as a name.
func IsReserved(word string) bool {
	_, ok := reserved[word]
	return ok
}

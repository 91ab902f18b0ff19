package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/arnavsurve/minic/internal/compiler/cst"
	"github.com/arnavsurve/minic/internal/compiler/diag"
	"github.com/arnavsurve/minic/internal/compiler/scope"
	"github.com/arnavsurve/minic/internal/compiler/symbols"
	"github.com/arnavsurve/minic/internal/compiler/token"
)

// Parser is a recursive-descent parser that builds a CST and fills the
// symbol table as declarations are seen. Any reported error aborts the
// parse: every parse function returns nil after reporting, and callers
// propagate the nil without adding diagnostics of their own.
type Parser struct {
	stream *token.Stream
	diags  *diag.Handler
	table  *scope.Table
	logger *slog.Logger
}

type Option func(*Parser)

// WithLogger routes parse traces (scope changes, operator nodes) to l at
// debug level.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

func New(s *token.Stream, h *diag.Handler, opts ...Option) *Parser {
	p := &Parser{
		stream: s,
		diags:  h,
		table:  scope.NewTable(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table returns the symbol table populated by ParseProgram.
func (p *Parser) Table() *scope.Table { return p.table }

// --- Error reporting ---

// addError reports at tok's line. Errors raised on the sentinel are
// reported at the line of the last real token.
func (p *Parser) addError(tok token.Token, format string, args ...any) {
	if tok.IsEOF() {
		tok = p.stream.Last()
	}
	p.diags.Add(tok.Line, diag.Syntactic, fmt.Sprintf(format, args...))
}

func (p *Parser) addSemanticError(tok token.Token, err error) {
	p.diags.Add(tok.Line, diag.Semantic, err.Error())
}

// expect consumes the next token and reports msg unless it has type tt.
func (p *Parser) expect(tt token.TokenType, msg string) (token.Token, bool) {
	tok := p.stream.Next()
	if tok.Type != tt {
		p.addError(tok, "%s", msg)
		return tok, false
	}
	return tok, true
}

// ParseProgram parses the whole stream. It returns nil if any diagnostic
// was reported while parsing.
//
//	Program := (ProcedureDecl | FunctionDecl | Statement)*
func (p *Parser) ParseProgram() *cst.Node {
	root := cst.New(cst.LabelProgram, "", -1)

	for p.stream.HasMore() {
		tok := p.stream.Next()

		var node *cst.Node
		switch tok.Type {
		case token.TokenProcedure:
			node = p.parseProcedure(cst.LabelProcedure, token.Token{})
		case token.TokenFunction:
			ret := p.stream.Next()
			if ret.Type != token.TokenTypeLiteral {
				p.addError(ret, "Expected return type after 'function'.")
				return nil
			}
			node = p.parseProcedure(cst.LabelFunction, ret)
		default:
			p.stream.Rewind()
			node = p.parseStatement()
		}
		if node == nil {
			return nil
		}
		root.AddChild(node)
	}
	return root
}

// parseProcedure is entered with the 'procedure' keyword (or the return
// type of a function) already consumed.
//
//	ProcedureDecl := 'procedure' ID '(' Params ')' '{' Statement* '}'
//	FunctionDecl  := 'function' TYPE ID '(' Params ')' '{' Statement* '}'
func (p *Parser) parseProcedure(label string, ret token.Token) *cst.Node {
	name := p.stream.Next()
	if name.Type != token.TokenIdent {
		if token.IsReserved(name.Literal) {
			p.addError(name, "Syntax error: cannot define a function with reserved word '%s'", name.Literal)
		} else {
			p.addError(name, "Expected procedure or function name.")
		}
		return nil
	}

	entry := symbols.Entry{
		Name:     name.Literal,
		Kind:     symbols.KindProcedure,
		DataType: symbols.NotApplicable,
		Scope:    p.table.CurrentScope(),
	}
	if label == cst.LabelFunction {
		entry.Kind = symbols.KindFunction
		entry.DataType = ret.Literal
	}
	if v := p.table.AddEntry(entry); v != nil {
		p.addSemanticError(name, v)
		return nil
	}

	id := p.table.EnterScope(name.Literal)
	p.logger.Debug("enter scope", "owner", name.Literal, "scope", id, "line", name.Line)
	defer func() {
		p.table.ExitScope()
		p.logger.Debug("exit scope", "owner", name.Literal, "scope", id)
	}()

	node := cst.New(label, name.Literal, name.Line)
	if label == cst.LabelFunction {
		node.AddChild(cst.New(cst.LabelReturnType, ret.Literal, ret.Line))
	}

	open, ok := p.expect(token.TokenLParen, "Expected '(' after procedure or function name.")
	if !ok {
		return nil
	}
	node.AddChild(cst.NewSymbol("(", open.Line))

	if !p.parseParameters(node, name.Literal, id) {
		return nil
	}

	brace, ok := p.expect(token.TokenLBrace, "Expected '{' at the start of procedure or function body.")
	if !ok {
		return nil
	}
	node.AddChild(cst.NewSymbol("{", brace.Line))

	closing, ok := p.parseBlock(node)
	if !ok {
		return nil
	}
	node.AddChild(cst.NewSymbol("}", closing.Line))
	return node
}

// parseParameters consumes the parameter list through its closing ')'.
// 'void' is only accepted as the sole token of the list.
//
//	Params    := ('void' | ParamList)?
//	ParamList := Param (',' Param)*
func (p *Parser) parseParameters(node *cst.Node, owner string, scopeID int) bool {
	switch first := p.stream.Peek(); {
	case first.Type == token.TokenRParen:
		p.stream.Next()
		node.AddChild(cst.NewSymbol(")", first.Line))
		return true

	case first.Type == token.TokenTypeLiteral && first.Literal == "void":
		p.stream.Next()
		node.AddChild(cst.New(cst.LabelParameterType, "void", first.Line))
		closing, ok := p.expect(token.TokenRParen, "Expected ')' after 'void'.")
		if !ok {
			return false
		}
		node.AddChild(cst.NewSymbol(")", closing.Line))
		return true

	case first.IsEOF():
		p.addError(first, "Expected ')' to close the parameter list.")
		return false

	case first.Type != token.TokenTypeLiteral:
		p.addError(first, "Expected parameter type or ')' in parameter list.")
		return false
	}

	for {
		if !p.parseParameter(node, owner, scopeID) {
			return false
		}

		sep := p.stream.Next()
		switch {
		case sep.Type == token.TokenRParen:
			node.AddChild(cst.NewSymbol(")", sep.Line))
			return true
		case sep.Type == token.TokenComma:
			node.AddChild(cst.NewSymbol(",", sep.Line))
		case sep.IsEOF():
			p.addError(sep, "Expected ')' to close the parameter list.")
			return false
		default:
			p.addError(sep, "Expected ',' or ')' in parameter list.")
			return false
		}
	}
}

// parseParameter parses one TYPE ID ('[' INT ']')? and records it in the
// owner's parameter list.
func (p *Parser) parseParameter(node *cst.Node, owner string, scopeID int) bool {
	tok := p.stream.Next()
	switch {
	case tok.IsEOF():
		p.addError(tok, "Expected ')' to close the parameter list.")
		return false
	case tok.Type != token.TokenTypeLiteral:
		p.addError(tok, "Expected parameter type after ','.")
		return false
	case tok.Literal == "void":
		p.addError(tok, "Syntax error: 'void' must be the only parameter.")
		return false
	}

	typeNode := cst.New(cst.LabelParameterType, tok.Literal, tok.Line)
	name := p.stream.Next()
	if name.Type != token.TokenIdent {
		if token.IsReserved(name.Literal) {
			p.addError(name, "Syntax error: reserved word '%s' cannot be used as a parameter name.", name.Literal)
		} else {
			p.addError(name, "Expected parameter name after type.")
		}
		return false
	}

	param := cst.New(cst.LabelParameter, name.Literal, name.Line)
	entry := symbols.Entry{
		Name:     name.Literal,
		Kind:     symbols.KindParameter,
		DataType: tok.Literal,
		Scope:    scopeID,
	}

	if p.stream.Peek().Type == token.TokenLBracket {
		p.stream.Next()
		sizeTok := p.stream.Next()
		if sizeTok.Type != token.TokenInt {
			p.addError(sizeTok, "Expected integer size for array parameter.")
			return false
		}
		size, err := strconv.Atoi(sizeTok.Literal)
		if err != nil || size <= 0 {
			p.addError(sizeTok, "Syntax error: array parameter size must be a positive integer.")
			return false
		}
		if _, ok := p.expect(token.TokenRBracket, "Expected ']' after array size."); !ok {
			return false
		}
		entry.IsArray = true
		entry.ArraySize = size
		param.AddChild(cst.New(cst.LabelArraySize, strconv.Itoa(size), name.Line))
	}

	if p.table.HasParameter(owner, name.Literal) {
		p.diags.Addf(name.Line, diag.Semantic, "parameter %q is already defined", name.Literal)
		return false
	}
	p.table.AddFunctionParameter(owner, entry)
	node.AddChild(typeNode.AddChild(param))
	return true
}

// parseBlock appends statements to parent until the closing '}' and
// returns that brace.
func (p *Parser) parseBlock(parent *cst.Node) (token.Token, bool) {
	for p.stream.HasMore() {
		tok := p.stream.Next()
		if tok.Type == token.TokenRBrace {
			return tok, true
		}
		p.stream.Rewind()

		stmt := p.parseStatement()
		if stmt == nil {
			return tok, false
		}
		parent.AddChild(stmt)
	}
	p.addError(token.EOF, "Expected '}' before end of input.")
	return token.EOF, false
}

// --- Statements ---

func (p *Parser) parseStatement() *cst.Node {
	tok := p.stream.Next()

	switch {
	case tok.Type == token.TokenTypeLiteral:
		return p.parseDeclaration(tok)
	case tok.Type == token.TokenIdent:
		return p.parseIdentifierStatement(tok)
	case tok.IsKeyword("for"):
		return p.parseForStatement(tok)
	case tok.IsKeyword("if"):
		return p.parseIfStatement(tok)
	case tok.IsKeyword("while"):
		return p.parseWhileStatement(tok)
	case tok.IsKeyword("return"):
		return p.parseReturnStatement(tok)
	}

	p.addError(tok, "Invalid statement.")
	return nil
}

// parseDeclaration handles one or more comma-separated names after a type.
//
//	Declaration := TYPE Declarator (',' Declarator)* ';'
//	Declarator  := ID ('[' ('+'|'-')? INT ']')?
func (p *Parser) parseDeclaration(typeTok token.Token) *cst.Node {
	decl := cst.New(cst.LabelDeclaration, typeTok.Literal, typeTok.Line)

	for {
		name := p.stream.Next()
		if name.Type != token.TokenIdent {
			if token.IsReserved(name.Literal) {
				p.addError(name, "Syntax error: reserved word '%s' cannot be used as a variable name.", name.Literal)
			} else {
				p.addError(name, "Expected variable name after type.")
			}
			return nil
		}

		variable := cst.New(cst.LabelVariable, name.Literal, name.Line)
		entry := symbols.Entry{
			Name:     name.Literal,
			Kind:     symbols.KindDatatype,
			DataType: typeTok.Literal,
			Scope:    p.table.CurrentScope(),
		}

		if p.stream.Peek().Type == token.TokenLBracket {
			p.stream.Next()
			size, sizeNode, ok := p.parseArraySize()
			if !ok {
				return nil
			}
			if _, ok := p.expect(token.TokenRBracket, "Expected ']' after array size."); !ok {
				return nil
			}
			variable.Label = cst.LabelArrayDeclaration
			variable.AddChild(sizeNode)
			entry.IsArray = true
			entry.ArraySize = size
		}

		decl.AddChild(variable)
		if v := p.table.AddEntry(entry); v != nil {
			p.addSemanticError(name, v)
			return nil
		}

		next := p.stream.Peek()
		switch next.Type {
		case token.TokenComma:
			p.stream.Next()
		case token.TokenSemicolon:
			p.stream.Next()
			return decl
		default:
			p.addError(next, "Expected ';' after variable declaration.")
			return nil
		}
	}
}

// parseArraySize reads an optionally signed size literal; the '[' has
// been consumed.
func (p *Parser) parseArraySize() (int, *cst.Node, bool) {
	first := p.stream.Peek()
	var sign string
	if first.Type == token.TokenPlus || first.Type == token.TokenMinus {
		sign = p.stream.Next().Literal
	}

	num := p.stream.Next()
	if num.Type != token.TokenInt {
		if sign != "" {
			p.addError(num, "Expected integer after '+' or '-' in array size.")
		} else {
			p.addError(num, "Expected integer size for array declaration.")
		}
		return 0, nil, false
	}

	value := sign + num.Literal
	size, err := strconv.Atoi(value)
	if err != nil || size <= 0 {
		p.addError(num, "Syntax error: array declaration size must be a positive integer.")
		return 0, nil, false
	}
	return size, cst.New(cst.LabelArraySize, value, first.Line), true
}

// parseIdentifierStatement disambiguates on the token after the name.
//
//	ID '[' Expr ']' '=' Expr ';'
//	ID '=' Expr ';'
//	ID '(' ... ')' ';'
func (p *Parser) parseIdentifierStatement(id token.Token) *cst.Node {
	switch p.stream.Peek().Type {
	case token.TokenLBracket:
		p.stream.Next()
		index := p.parseExpression()
		if index == nil {
			return nil
		}
		if _, ok := p.expect(token.TokenRBracket, "Expected ']' after array index."); !ok {
			return nil
		}
		assign, ok := p.expect(token.TokenAssign, "Expected '=' after array element.")
		if !ok {
			return nil
		}
		rhs := p.parseExpression()
		if rhs == nil {
			return nil
		}
		if _, ok := p.expect(token.TokenSemicolon, "Expected ';' after assignment."); !ok {
			return nil
		}
		access := cst.New(cst.LabelArrayAccess, id.Literal, id.Line).AddChild(index)
		return cst.New(cst.LabelAssignment, "[]", assign.Line).AddChild(access).AddChild(rhs)

	case token.TokenAssign:
		p.stream.Next()
		node := cst.New(cst.LabelAssignment, id.Literal, id.Line)
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if _, ok := p.expect(token.TokenSemicolon, "Expected ';' after assignment statement."); !ok {
			return nil
		}
		return node.AddChild(expr)

	case token.TokenLParen:
		// Arguments of a call statement are skipped, not parsed.
		p.stream.Next()
		for p.stream.HasMore() {
			if p.stream.Next().Type == token.TokenRParen {
				break
			}
		}
		if _, ok := p.expect(token.TokenSemicolon, "Expected ';' after function call."); !ok {
			return nil
		}
		return cst.New(cst.LabelFunctionCall, id.Literal, id.Line)
	}

	p.addError(id, "Invalid statement.")
	return nil
}

//	ForStatement := 'for' '(' Statement Expr ';' ForStep ')' '{' Statement* '}'
//	ForStep      := ID '++' | ID '--' | ID '=' Expr
func (p *Parser) parseForStatement(kw token.Token) *cst.Node {
	node := cst.New(cst.LabelForStatement, "for", kw.Line)

	if _, ok := p.expect(token.TokenLParen, "Expected '(' after 'for'."); !ok {
		return nil
	}
	init := p.parseStatement()
	if init == nil {
		return nil
	}
	node.AddChild(init)

	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	node.AddChild(cond)
	if _, ok := p.expect(token.TokenSemicolon, "Expected ';' after 'for' loop condition."); !ok {
		return nil
	}

	step := p.parseForStep()
	if step == nil {
		return nil
	}
	node.AddChild(step)

	if _, ok := p.expect(token.TokenRParen, "Expected ')' after 'for' loop header."); !ok {
		return nil
	}
	if _, ok := p.expect(token.TokenLBrace, "Expected '{' after 'for' loop header."); !ok {
		return nil
	}
	if _, ok := p.parseBlock(node); !ok {
		return nil
	}
	return node
}

func (p *Parser) parseForStep() *cst.Node {
	id := p.stream.Next()
	next := p.stream.Peek()

	if id.Type == token.TokenIdent && (next.Type == token.TokenPlus || next.Type == token.TokenMinus) {
		p.stream.Next()
		// The lexer emits ++ and -- as two single-character tokens.
		second := p.stream.Next()
		if second.Type != next.Type {
			p.addError(id, "Expected increment expression (i++, i--, or assignment) in 'for' loop increment.")
			return nil
		}
		op := next.Literal + second.Literal
		p.logger.Debug("for step", "var", id.Literal, "op", op, "line", id.Line)
		return cst.New(cst.LabelIncrement, id.Literal, id.Line).
			AddChild(cst.New(cst.LabelOperator, op, next.Line))
	}

	if id.Type == token.TokenIdent && next.Type == token.TokenAssign {
		p.stream.Next()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		return cst.New(cst.LabelAssignment, id.Literal, id.Line).AddChild(expr)
	}

	p.addError(id, "Expected increment expression (i++, i--, or assignment) in 'for' loop increment.")
	return nil
}

//	IfStatement := 'if' '(' Expr ')' '{' Statement* '}' ('else' '{' Statement* '}')?
func (p *Parser) parseIfStatement(kw token.Token) *cst.Node {
	node := cst.New(cst.LabelIfStatement, "if", kw.Line)

	if _, ok := p.expect(token.TokenLParen, "Expected '(' after 'if' keyword."); !ok {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	node.AddChild(cond)
	if _, ok := p.expect(token.TokenRParen, "Expected ')' after 'if' condition."); !ok {
		return nil
	}
	if _, ok := p.expect(token.TokenLBrace, "Expected '{' after 'if' condition."); !ok {
		return nil
	}
	if _, ok := p.parseBlock(node); !ok {
		return nil
	}

	if next := p.stream.Peek(); next.IsKeyword("else") {
		p.stream.Next()
		elseNode := cst.New(cst.LabelElseStatement, "else", next.Line)
		if _, ok := p.expect(token.TokenLBrace, "Expected '{' after 'else' keyword."); !ok {
			return nil
		}
		if _, ok := p.parseBlock(elseNode); !ok {
			return nil
		}
		node.AddChild(elseNode)
	}
	return node
}

//	WhileStatement := 'while' '(' Expr ')' '{' Statement* '}'
func (p *Parser) parseWhileStatement(kw token.Token) *cst.Node {
	node := cst.New(cst.LabelWhileStatement, "while", kw.Line)

	if _, ok := p.expect(token.TokenLParen, "Expected '(' after 'while' keyword."); !ok {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	node.AddChild(cond)
	if _, ok := p.expect(token.TokenRParen, "Expected ')' after 'while' condition."); !ok {
		return nil
	}
	if _, ok := p.expect(token.TokenLBrace, "Expected '{' after 'while' condition."); !ok {
		return nil
	}
	if _, ok := p.parseBlock(node); !ok {
		return nil
	}
	return node
}

//	ReturnStatement := 'return' Expr? ';'
func (p *Parser) parseReturnStatement(kw token.Token) *cst.Node {
	node := cst.New(cst.LabelReturn, "return", kw.Line)

	if p.stream.Peek().Type == token.TokenSemicolon {
		p.stream.Next()
		return node
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	node.AddChild(expr)
	if _, ok := p.expect(token.TokenSemicolon, "Expected ';' after return statement."); !ok {
		return nil
	}
	return node
}

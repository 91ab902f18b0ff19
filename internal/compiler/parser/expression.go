package parser

import (
	"github.com/arnavsurve/minic/internal/compiler/cst"
	"github.com/arnavsurve/minic/internal/compiler/token"
)

// parseExpression is right-recursive and precedence-agnostic:
// 1 + 2 * 3 and 1 * 2 + 3 both group to the right.
//
//	Expr := Primary (BinOp Expr)?
func (p *Parser) parseExpression() *cst.Node {
	lhs, ok := p.parsePrimary()
	if !ok {
		return nil
	}

	op := p.stream.Peek()
	if !op.IsBinaryOperator() {
		return lhs
	}
	p.stream.Next()

	node := cst.New(cst.LabelOperator, op.Literal, op.Line).AddChild(lhs)
	rhs := p.parseExpression()
	if rhs == nil {
		return nil
	}
	node.AddChild(rhs)
	p.logger.Debug("operator", "op", op.Literal, "line", op.Line, "operands", len(node.Children))
	return node
}

// parsePrimary returns the leading operand. A '-' that is not followed by
// an integer is pushed back and yields (nil, true), so the caller turns it
// into an Operator node with only a right operand.
func (p *Parser) parsePrimary() (*cst.Node, bool) {
	tok := p.stream.Next()

	switch tok.Type {
	case token.TokenInt, token.TokenChar, token.TokenString:
		return cst.New(cst.LabelOperand, tok.Literal, tok.Line), true

	case token.TokenMinus:
		if next := p.stream.Peek(); next.Type == token.TokenInt {
			p.stream.Next()
			return cst.New(cst.LabelOperand, "-"+next.Literal, next.Line), true
		}
		p.stream.Rewind()
		return nil, true

	case token.TokenNot:
		operand := p.parseExpression()
		if operand == nil {
			return nil, false
		}
		return cst.New(cst.LabelOperator, tok.Literal, tok.Line).AddChild(operand), true

	case token.TokenIdent:
		switch p.stream.Peek().Type {
		case token.TokenLParen:
			p.stream.Next()
			return p.parseCallExpression(tok)
		case token.TokenLBracket:
			p.stream.Next()
			index := p.parseExpression()
			if index == nil {
				return nil, false
			}
			if _, ok := p.expect(token.TokenRBracket, "Expected ']' after array index."); !ok {
				return nil, false
			}
			return cst.New(cst.LabelArrayAccess, tok.Literal, tok.Line).AddChild(index), true
		}
		return cst.New(cst.LabelOperand, tok.Literal, tok.Line), true

	case token.TokenLParen:
		inner := p.parseExpression()
		if inner == nil {
			return nil, false
		}
		if _, ok := p.expect(token.TokenRParen, "Expected ')' after expression."); !ok {
			return nil, false
		}
		return inner, true

	case token.TokenUnknown:
		if tok.Literal == `\` {
			return p.parseEscapeSequence(tok)
		}
	}

	p.addError(tok, "Invalid expression.")
	return nil, false
}

// parseCallExpression parses arguments into child nodes; the '(' has been
// consumed.
//
//	Call := ID '(' (Expr (',' Expr)*)? ')'
func (p *Parser) parseCallExpression(id token.Token) (*cst.Node, bool) {
	call := cst.New(cst.LabelFunctionCall, id.Literal, id.Line)

	for {
		if p.stream.Peek().Type == token.TokenRParen {
			p.stream.Next()
			return call, true
		}
		if !p.stream.HasMore() {
			p.addError(token.EOF, "Expected ',' or ')' in function call argument list.")
			return nil, false
		}

		arg := p.parseExpression()
		if arg == nil {
			return nil, false
		}
		call.AddChild(arg)

		switch next := p.stream.Peek(); next.Type {
		case token.TokenComma:
			p.stream.Next()
		case token.TokenRParen:
		default:
			p.addError(next, "Expected ',' or ')' in function call argument list.")
			return nil, false
		}
	}
}

// parseEscapeSequence accepts a bare \x0 or \n that reached the parser
// outside a literal.
func (p *Parser) parseEscapeSequence(backslash token.Token) (*cst.Node, bool) {
	next := p.stream.Next()
	if next.Literal != "x0" && next.Literal != "n" {
		p.addError(backslash, "Invalid or unrecognized escape sequence: \\%s", next.Literal)
		return nil, false
	}
	p.logger.Debug("escape sequence", "seq", `\`+next.Literal, "line", backslash.Line)
	return cst.New(cst.LabelEscapeSequence, `\`+next.Literal, backslash.Line), true
}

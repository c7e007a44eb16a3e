package parser

import (
	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/token"
)

// parseExpr parses the comma operator, the lowest-precedence production:
//
//	expression → commaExpr
//	commaExpr  → assignment ( "," assignment )*
func (p *parser) parseExpr() ast.Expr {
	first := p.parseAssignment()
	if p.tok != token.COMMA {
		return first
	}

	exprs := []ast.Expr{first}
	var commas []token.Pos
	for p.tok == token.COMMA {
		commas = append(commas, p.expect(token.COMMA))
		exprs = append(exprs, p.parseAssignment())
	}
	return &ast.ExprListExpr{Exprs: exprs, Commas: commas}
}

// compoundAssignOps maps a compound assignment token to the binary operator
// it desugars to, e.g. `x += 1` becomes `x = x + 1`.
var compoundAssignOps = map[token.Token]token.Token{
	token.PLUS_EQUAL:  token.PLUS,
	token.MINUS_EQUAL: token.MINUS,
	token.STAR_EQUAL:  token.STAR,
	token.SLASH_EQUAL: token.SLASH,
}

// parseAssignment parses assignment, ..., i.e. everything one level above
// the comma operator:
//
//	assignment → ( call "." )? IDENT ( "=" | "+=" | "-=" | "*=" | "/=" ) assignment | ternary
func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseTernary()

	if p.tok == token.EQUAL {
		equals := p.expect(token.EQUAL)
		value := p.parseAssignment()
		return p.makeAssign(expr, equals, value)
	}
	if binOp, ok := compoundAssignOps[p.tok]; ok {
		opPos := p.val.Pos
		p.advance()
		value := p.parseAssignment()
		desugared := &ast.BinaryExpr{Left: expr, Op: binOp, OpPos: opPos, Right: value}
		return p.makeAssign(expr, opPos, desugared)
	}
	return expr
}

// makeAssign validates that target is a legal assignment target and builds
// the corresponding AssignExpr or SetExpr.
func (p *parser) makeAssign(target ast.Expr, equals token.Pos, value ast.Expr) ast.Expr {
	switch t := ast.Unwrap(target).(type) {
	case *ast.VariableExpr:
		return &ast.AssignExpr{Name: t.Name, Equals: equals, Value: value}
	case *ast.GetExpr:
		return &ast.SetExpr{Object: t.Object, Dot: t.Dot, Name: t.Name, Equals: equals, Value: value}
	default:
		start, _ := target.Span()
		p.error(start, "invalid assignment target")
		return target
	}
}

func (p *parser) parseTernary() ast.Expr {
	cond := p.parseOr()
	if p.tok != token.QUESTION {
		return cond
	}
	question := p.expect(token.QUESTION)
	then := p.parseTernary()
	colon := p.expect(token.COLON)
	els := p.parseTernary()
	return &ast.TernaryExpr{Cond: cond, Question: question, Then: then, Colon: colon, Else: els}
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.tok == token.OR {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.tok == token.AND {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.tok == token.BANG_EQUAL || p.tok == token.EQUAL_EQUAL {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

func (p *parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for tokenIn(p.tok, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseTerm()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

func (p *parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.tok == token.PLUS || p.tok == token.MINUS {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseFactor()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

func (p *parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.tok == token.STAR || p.tok == token.SLASH {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok == token.BANG || p.tok == token.MINUS {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseUnary()
		return &ast.UnaryExpr{Op: op, OpPos: opPos, Right: right}
	}
	return p.parseCall()
}

// parseCall parses a primary expression followed by any number of call or
// property-access suffixes: call → primary ( "(" arguments? ")" | "." IDENT )*
func (p *parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.tok {
		case token.LPAREN:
			expr = p.finishCall(expr)
		case token.DOT:
			dot := p.expect(token.DOT)
			name := p.parseIdent()
			expr = &ast.GetExpr{Object: expr, Dot: dot, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) *ast.CallExpr {
	call := &ast.CallExpr{Callee: callee}
	call.Lparen = p.expect(token.LPAREN)
	if p.tok != token.RPAREN {
		call.Args = append(call.Args, p.parseAssignment())
		for p.tok == token.COMMA {
			call.Commas = append(call.Commas, p.expect(token.COMMA))
			if len(call.Args) >= maxArgs {
				p.error(p.val.Pos, "can't have more than 255 arguments")
			}
			call.Args = append(call.Args, p.parseAssignment())
		}
	}
	call.Rparen = p.expect(token.RPAREN)
	return call
}

// parsePrimary parses the atoms of an expression:
//
//	primary → "true" | "false" | "nil" | "this" | NUMBER | STRING | IDENT
//	        | "(" expression ")" | "super" "." IDENT | lambda
func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.FALSE:
		pos := p.expect(token.FALSE)
		return &ast.LiteralExpr{Type: token.FALSE, Start: pos, Raw: "false", Value: false}
	case token.TRUE:
		pos := p.expect(token.TRUE)
		return &ast.LiteralExpr{Type: token.TRUE, Start: pos, Raw: "true", Value: true}
	case token.NIL:
		pos := p.expect(token.NIL)
		return &ast.LiteralExpr{Type: token.NIL, Start: pos, Raw: "nil", Value: nil}
	case token.NUMBER:
		v := p.val
		p.expect(token.NUMBER)
		return &ast.LiteralExpr{Type: token.NUMBER, Start: v.Pos, Raw: v.Raw, Value: v.Num}
	case token.STRING:
		v := p.val
		p.expect(token.STRING)
		return &ast.LiteralExpr{Type: token.STRING, Start: v.Pos, Raw: v.Raw, Value: v.Str}
	case token.THIS:
		pos := p.expect(token.THIS)
		return &ast.ThisExpr{Keyword: pos}
	case token.SUPER:
		kw := p.expect(token.SUPER)
		dot := p.expect(token.DOT)
		method := p.parseIdent()
		return &ast.SuperExpr{Keyword: kw, Dot: dot, Method: method}
	case token.IDENT:
		name := p.parseIdent()
		return &ast.VariableExpr{Name: name}
	case token.LPAREN:
		lparen := p.expect(token.LPAREN)
		expr := p.parseExpr()
		rparen := p.expect(token.RPAREN)
		return &ast.GroupingExpr{Lparen: lparen, Expr: expr, Rparen: rparen}
	case token.FUN:
		return p.parseLambda()
	default:
		p.errorExpected(p.val.Pos, "expression")
		panic(errPanicMode)
	}
}

func (p *parser) parseLambda() *ast.LambdaExpr {
	var lam ast.LambdaExpr
	lam.Fun = p.expect(token.FUN)

	p.expect(token.LPAREN)
	if p.tok != token.RPAREN {
		lam.Params = append(lam.Params, p.parseIdent())
		for p.tok == token.COMMA {
			p.advance()
			if len(lam.Params) >= maxArgs {
				p.error(p.val.Pos, "can't have more than 255 parameters")
			}
			lam.Params = append(lam.Params, p.parseIdent())
		}
	}
	p.expect(token.RPAREN)

	p.expect(token.LBRACE)
	lam.Body = p.parseBlockStmts()
	lam.Rbrace = p.val.Pos
	p.expect(token.RBRACE)
	return &lam
}

package parser

import (
	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/token"
)

// parseDecl parses a declaration, recovering into a *ast.BadStmt if parsing
// panics with errPanicMode.
func (p *parser) parseDecl() (stmt ast.Stmt) {
	start := p.val.Pos

	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				stmt = &ast.BadStmt{Start: start, End: p.syncAfterError()}
				return
			}
			panic(err)
		}
	}()

	switch p.tok {
	case token.CLASS:
		return p.parseClassDecl()
	case token.FUN:
		// "fun" IDENT starts a declaration; "fun" "(" is a lambda expression
		// in statement position (e.g. an IIFE), which parseStmt's default
		// falls through to via parseExprStmt -> parsePrimary.
		if p.peek() == token.IDENT {
			return p.parseFunDecl()
		}
		return p.parseStmt()
	case token.VAR:
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl() *ast.ClassStmt {
	var stmt ast.ClassStmt
	stmt.Class = p.expect(token.CLASS)
	stmt.Name = p.parseIdent()

	if p.tok == token.LESS {
		p.advance()
		name := p.parseIdent()
		stmt.Superclass = &ast.VariableExpr{Name: name}
	}

	p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.CLASS {
			classPos := p.expect(token.CLASS)
			stmt.StaticMethods = append(stmt.StaticMethods, p.parseFunction(classPos))
			continue
		}
		stmt.Methods = append(stmt.Methods, p.parseFunction(token.NoPos))
	}
	stmt.Rbrace = p.expect(token.RBRACE)
	return &stmt
}

func (p *parser) parseFunDecl() *ast.FunctionStmt {
	fun := p.expect(token.FUN)
	return p.parseFunction(fun)
}

// parseFunction parses the IDENT "(" parameters? ")" block production
// shared by function declarations and methods. funPos is the position of
// the leading keyword (`fun` for a function declaration, `class` for a
// static method), or token.NoPos for an instance method (which has no
// leading keyword; its name position is used instead).
func (p *parser) parseFunction(funPos token.Pos) *ast.FunctionStmt {
	var f ast.FunctionStmt
	f.Name = p.parseIdent()
	if funPos.IsValid() {
		f.Fun = funPos
	} else {
		f.Fun = f.Name.Pos
	}

	p.expect(token.LPAREN)
	if p.tok != token.RPAREN {
		f.Params = append(f.Params, p.parseIdent())
		for p.tok == token.COMMA {
			p.advance()
			if len(f.Params) >= maxArgs {
				p.error(p.val.Pos, "can't have more than 255 parameters")
			}
			f.Params = append(f.Params, p.parseIdent())
		}
	}
	p.expect(token.RPAREN)

	p.expect(token.LBRACE)
	f.Body = p.parseBlockStmts()
	f.Rbrace = p.val.Pos
	p.expect(token.RBRACE)
	return &f
}

func (p *parser) parseVarDecl() *ast.VarStmt {
	var stmt ast.VarStmt
	stmt.Var = p.expect(token.VAR)
	stmt.Name = p.parseIdent()
	if p.tok == token.EQUAL {
		p.advance()
		stmt.Init = p.parseExpr()
	}
	stmt.Semi = p.expect(token.SEMICOLON)
	return &stmt
}

func (p *parser) parseIdent() ast.Ident {
	pos := p.val.Pos
	lit := p.val.Raw
	p.expect(token.IDENT)
	return ast.Ident{Name: lit, Pos: pos}
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.LBRACE:
		return p.parseBlockStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.PRINT:
		return p.parsePrintStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseBlockStmt() *ast.BlockStmt {
	var stmt ast.BlockStmt
	stmt.Lbrace = p.expect(token.LBRACE)
	stmt.Stmts = p.parseBlockStmts()
	stmt.Rbrace = p.expect(token.RBRACE)
	return &stmt
}

// parseBlockStmts parses declarations until a closing brace or EOF, leaving
// the terminating token unconsumed.
func (p *parser) parseBlockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if stmt := p.parseDecl(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	var stmt ast.IfStmt
	stmt.If = p.expect(token.IF)
	p.expect(token.LPAREN)
	stmt.Cond = p.parseExpr()
	p.expect(token.RPAREN)
	stmt.Then = p.parseStmt()
	if p.tok == token.ELSE {
		stmt.Else = p.expect(token.ELSE)
		stmt.Other = p.parseStmt()
	}
	return &stmt
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	var stmt ast.WhileStmt
	stmt.While = p.expect(token.WHILE)
	p.expect(token.LPAREN)
	stmt.Cond = p.parseExpr()
	p.expect(token.RPAREN)

	p.loopDepth++
	stmt.Body = p.parseStmt()
	p.loopDepth--
	return &stmt
}

// parseForStmt desugars a for loop into an (optionally block-wrapped)
// *ast.WhileStmt, the usual Lox implementation strategy: the loop has no
// dedicated runtime representation.
func (p *parser) parseForStmt() ast.Stmt {
	forPos := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	switch p.tok {
	case token.SEMICOLON:
		p.advance()
	case token.VAR:
		init = p.parseVarDecl()
	default:
		init = p.parseExprStmt()
	}

	var cond ast.Expr
	if p.tok != token.SEMICOLON {
		cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON)

	var post ast.Expr
	if p.tok != token.RPAREN {
		post = p.parseExpr()
	}
	p.expect(token.RPAREN)

	p.loopDepth++
	body := p.parseStmt()
	p.loopDepth--

	if post != nil {
		end, _ := post.Span()
		body = &ast.BlockStmt{
			Lbrace: forPos,
			Stmts:  []ast.Stmt{body, &ast.ExpressionStmt{Expr: post, Semi: end}},
			Rbrace: end,
		}
	}

	if cond == nil {
		cond = &ast.LiteralExpr{Type: token.TRUE, Start: forPos, Raw: "true", Value: true}
	}
	loop := ast.Stmt(&ast.WhileStmt{While: forPos, Cond: cond, Body: body})

	if init != nil {
		loop = &ast.BlockStmt{Lbrace: forPos, Stmts: []ast.Stmt{init, loop}, Rbrace: forPos}
	}
	return loop
}

func (p *parser) parsePrintStmt() *ast.PrintStmt {
	var stmt ast.PrintStmt
	stmt.Print = p.expect(token.PRINT)
	stmt.Expr = p.parseExpr()
	stmt.Semi = p.expect(token.SEMICOLON)
	return &stmt
}

func (p *parser) parseReturnStmt() *ast.ReturnStmt {
	var stmt ast.ReturnStmt
	stmt.Return = p.expect(token.RETURN)
	if p.tok != token.SEMICOLON {
		stmt.Value = p.parseExpr()
	}
	stmt.Semi = p.expect(token.SEMICOLON)
	return &stmt
}

func (p *parser) parseBreakStmt() *ast.BreakStmt {
	var stmt ast.BreakStmt
	stmt.Break = p.expect(token.BREAK)
	if p.loopDepth == 0 {
		p.error(stmt.Break, "can't use 'break' outside of a loop")
	}
	stmt.Semi = p.expect(token.SEMICOLON)
	return &stmt
}

func (p *parser) parseExprStmt() *ast.ExpressionStmt {
	var stmt ast.ExpressionStmt
	stmt.Expr = p.parseExpr()
	stmt.Semi = p.expect(token.SEMICOLON)
	return &stmt
}

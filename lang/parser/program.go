package parser

import (
	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/token"
)

func (p *parser) parseProgram() *ast.Program {
	var prog ast.Program
	for p.tok != token.EOF {
		if stmt := p.parseDecl(); stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}
	prog.EOF = p.expect(token.EOF)
	return &prog
}

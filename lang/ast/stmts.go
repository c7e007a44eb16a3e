package ast

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/token"
)

type (
	// BadStmt is a placeholder for a statement that failed to parse. It spans
	// the tokens skipped while synchronizing after the error.
	BadStmt struct {
		Start token.Pos
		End   token.Pos
	}

	// ExpressionStmt represents an expression evaluated for its side effects,
	// e.g. a call, terminated by a semicolon.
	ExpressionStmt struct {
		Expr Expr
		Semi token.Pos
	}

	// PrintStmt represents a print statement: print expr;
	PrintStmt struct {
		Print token.Pos
		Expr  Expr
		Semi  token.Pos
	}

	// VarStmt represents a variable declaration, with an optional initializer:
	// var x; or var x = expr;
	VarStmt struct {
		Var  token.Pos
		Name Ident
		Init Expr // may be nil
		Semi token.Pos
	}

	// BlockStmt represents a brace-delimited sequence of statements
	// introducing its own lexical scope.
	BlockStmt struct {
		Lbrace token.Pos
		Stmts  []Stmt
		Rbrace token.Pos
	}

	// IfStmt represents an if statement with an optional else branch.
	IfStmt struct {
		If    token.Pos
		Cond  Expr
		Then  Stmt
		Else  token.Pos // zero if no else branch
		Other Stmt      // else branch, may be nil
	}

	// WhileStmt represents a while loop. For loops desugar into a WhileStmt
	// (optionally wrapped in a BlockStmt for the initializer) during parsing.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  Stmt
	}

	// BreakStmt represents a break statement terminating the nearest
	// enclosing loop.
	BreakStmt struct {
		Break token.Pos
		Semi  token.Pos
	}

	// FunctionStmt represents a function declaration.
	FunctionStmt struct {
		Fun    token.Pos
		Name   Ident
		Params []Ident
		Body   []Stmt
		Rbrace token.Pos
	}

	// ReturnStmt represents a return statement, with an optional value.
	ReturnStmt struct {
		Return token.Pos
		Value  Expr // may be nil
		Semi   token.Pos
	}

	// ClassStmt represents a class declaration, with an optional superclass.
	// A method preceded by the `class` modifier is a static method, callable
	// on the class itself rather than on instances.
	ClassStmt struct {
		Class         token.Pos
		Name          Ident
		Superclass    *VariableExpr // may be nil
		Methods       []*FunctionStmt
		StaticMethods []*FunctionStmt
		Rbrace        token.Pos
	}
)

func (n *BadStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "!bad stmt!", nil) }
func (n *BadStmt) Span() (start, end token.Pos)  { return n.Start, n.End }
func (n *BadStmt) Walk(_ Visitor)                {}
func (n *BadStmt) stmt()                         {}

func (n *ExpressionStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExpressionStmt) Span() (start, end token.Pos) {
	start, _ = n.Expr.Span()
	return start, n.Semi + token.Pos(len(token.SEMICOLON.String()))
}
func (n *ExpressionStmt) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *ExpressionStmt) stmt()          {}

func (n *PrintStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "print", nil) }
func (n *PrintStmt) Span() (start, end token.Pos) {
	return n.Print, n.Semi + token.Pos(len(token.SEMICOLON.String()))
}
func (n *PrintStmt) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *PrintStmt) stmt()          {}

func (n *VarStmt) Format(f fmt.State, verb rune) {
	var init int
	if n.Init != nil {
		init = 1
	}
	format(f, verb, n, "var "+n.Name.Name, map[string]int{"init": init})
}
func (n *VarStmt) Span() (start, end token.Pos) {
	return n.Var, n.Semi + token.Pos(len(token.SEMICOLON.String()))
}
func (n *VarStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
}
func (n *VarStmt) stmt() {}

func (n *BlockStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *BlockStmt) Span() (start, end token.Pos) {
	return n.Lbrace, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *BlockStmt) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *BlockStmt) stmt() {}

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Other != nil {
		lbl += " else"
	}
	format(f, verb, n, lbl, nil)
}
func (n *IfStmt) Span() (start, end token.Pos) {
	if n.Other != nil {
		_, end = n.Other.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Other != nil {
		Walk(v, n.Other)
	}
}
func (n *IfStmt) stmt() {}

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.While, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) stmt() {}

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos) {
	return n.Break, n.Semi + token.Pos(len(token.SEMICOLON.String()))
}
func (n *BreakStmt) Walk(_ Visitor) {}
func (n *BreakStmt) stmt()          {}

func (n *FunctionStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fun "+n.Name.Name, map[string]int{"params": len(n.Params)})
}
func (n *FunctionStmt) Span() (start, end token.Pos) {
	return n.Fun, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *FunctionStmt) Walk(v Visitor) {
	for _, s := range n.Body {
		Walk(v, s)
	}
}
func (n *FunctionStmt) stmt() {}

func (n *ReturnStmt) Format(f fmt.State, verb rune) {
	var val int
	if n.Value != nil {
		val = 1
	}
	format(f, verb, n, "return", map[string]int{"value": val})
}
func (n *ReturnStmt) Span() (start, end token.Pos) {
	return n.Return, n.Semi + token.Pos(len(token.SEMICOLON.String()))
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) stmt() {}

func (n *ClassStmt) Format(f fmt.State, verb rune) {
	var inherits int
	if n.Superclass != nil {
		inherits = 1
	}
	format(f, verb, n, "class "+n.Name.Name, map[string]int{
		"inherits": inherits,
		"methods":  len(n.Methods),
		"static":   len(n.StaticMethods),
	})
}
func (n *ClassStmt) Span() (start, end token.Pos) {
	return n.Class, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *ClassStmt) Walk(v Visitor) {
	if n.Superclass != nil {
		Walk(v, n.Superclass)
	}
	for _, m := range n.Methods {
		Walk(v, m)
	}
	for _, m := range n.StaticMethods {
		Walk(v, m)
	}
}
func (n *ClassStmt) stmt() {}

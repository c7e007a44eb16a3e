package ast

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/token"
)

// Unwrap removes any wrapping GroupingExpr, recursively, until it reaches a
// non-grouping expression.
func Unwrap(e Expr) Expr {
	if g, ok := e.(*GroupingExpr); ok {
		return Unwrap(g.Expr)
	}
	return e
}

// IsAssignable reports whether e is a valid assignment target: a bare
// variable reference or a property access.
func IsAssignable(e Expr) bool {
	switch Unwrap(e).(type) {
	case *VariableExpr, *GetExpr:
		return true
	default:
		return false
	}
}

// BindingKind classifies how the resolver statically resolved a variable
// reference.
type BindingKind int

//nolint:revive
const (
	// BindUnresolved is the zero value. The resolver never produces it: a
	// name it cannot resolve is reported as an error and left with a nil
	// Binding, and the interpreter has no by-name lookup to fall back on.
	BindUnresolved BindingKind = iota
	// BindLocal means the reference resolves to a fixed (depth, slot) inside
	// the environment chain.
	BindLocal
	// BindGlobal means the reference resolves to a fixed slot in the global
	// environment, found by name ahead of time.
	BindGlobal
)

func (k BindingKind) String() string {
	switch k {
	case BindLocal:
		return "local"
	case BindGlobal:
		return "global"
	default:
		return "unresolved"
	}
}

// Binding records where the resolver determined a name reference lives, so
// the interpreter can address it directly instead of walking the
// environment chain by name. It is attached inline on the AST node that
// performs the lookup (VariableExpr, AssignExpr, ThisExpr, SuperExpr)
// rather than kept in an external side table.
type Binding struct {
	Kind  BindingKind
	Depth int // number of enclosing environments to walk, when Kind == BindLocal
	Slot  int // slot index within the resolved environment
}

// Ident is a bare name reference together with its source position. It is
// not itself an Expr; it appears as a field of the expressions and
// statements that name a variable, parameter, property or method.
type Ident struct {
	Name string
	Pos  token.Pos
}

func (id *Ident) Span() (start, end token.Pos) {
	return id.Pos, id.Pos + token.Pos(len(id.Name))
}

type (
	// BinaryExpr represents a binary operator expression, e.g. x + y.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// UnaryExpr represents a unary operator expression, e.g. -x or !x.
	UnaryExpr struct {
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// LiteralExpr represents a number, string, boolean or nil literal.
	LiteralExpr struct {
		Type  token.Token // NUMBER, STRING, TRUE, FALSE or NIL
		Start token.Pos
		Raw   string
		Value any // float64 | string | bool | nil
	}

	// GroupingExpr represents a parenthesized expression.
	GroupingExpr struct {
		Lparen token.Pos
		Expr   Expr
		Rparen token.Pos
	}

	// TernaryExpr represents the conditional operator cond ? then : els.
	TernaryExpr struct {
		Cond     Expr
		Question token.Pos
		Then     Expr
		Colon    token.Pos
		Else     Expr
	}

	// VariableExpr represents a reference to a named variable.
	VariableExpr struct {
		Name     Ident
		Resolved *Binding
	}

	// AssignExpr represents an assignment to a variable, e.g. x = y.
	AssignExpr struct {
		Name     Ident
		Equals   token.Pos
		Value    Expr
		Resolved *Binding
	}

	// ExprListExpr represents the comma operator: a sequence of expressions
	// evaluated left to right, yielding the value of the last one.
	ExprListExpr struct {
		Exprs  []Expr
		Commas []token.Pos // len(Exprs)-1
	}

	// CallExpr represents a function or method call, e.g. f(a, b).
	CallExpr struct {
		Callee Expr
		Lparen token.Pos
		Args   []Expr
		Commas []token.Pos // len(Args)-1
		Rparen token.Pos
	}

	// LambdaExpr represents an anonymous function literal: fun(params) {
	// body }.
	LambdaExpr struct {
		Fun    token.Pos
		Params []Ident
		Body   []Stmt
		Rbrace token.Pos
	}

	// GetExpr represents a property access, e.g. obj.field.
	GetExpr struct {
		Object Expr
		Dot    token.Pos
		Name   Ident
	}

	// SetExpr represents a property assignment, e.g. obj.field = value.
	SetExpr struct {
		Object Expr
		Dot    token.Pos
		Name   Ident
		Equals token.Pos
		Value  Expr
	}

	// ThisExpr represents the `this` keyword inside a method body.
	ThisExpr struct {
		Keyword  token.Pos
		Resolved *Binding
	}

	// SuperExpr represents a `super.method` reference inside a subclass
	// method body.
	SuperExpr struct {
		Keyword  token.Pos
		Dot      token.Pos
		Method   Ident
		Resolved *Binding
	}
)

func (n *BinaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.GoString(), nil)
}
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinaryExpr) expr() {}

func (n *UnaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Op.GoString(), nil)
}
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Right) }
func (n *UnaryExpr) expr()          {}

func (n *LiteralExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Type.String()+" "+n.Raw, nil)
}
func (n *LiteralExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Raw))
}
func (n *LiteralExpr) Walk(_ Visitor) {}
func (n *LiteralExpr) expr()          {}

func (n *GroupingExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "(expr)", nil) }
func (n *GroupingExpr) Span() (start, end token.Pos) {
	return n.Lparen, n.Rparen + token.Pos(len(token.RPAREN.String()))
}
func (n *GroupingExpr) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *GroupingExpr) expr()          {}

func (n *TernaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "cond ? a : b", nil) }
func (n *TernaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Cond.Span()
	_, end = n.Else.Span()
	return start, end
}
func (n *TernaryExpr) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	Walk(v, n.Else)
}
func (n *TernaryExpr) expr() {}

func (n *VariableExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name.Name, nil) }
func (n *VariableExpr) Span() (start, end token.Pos)  { return n.Name.Span() }
func (n *VariableExpr) Walk(_ Visitor)                {}
func (n *VariableExpr) expr()                         {}

func (n *AssignExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name.Name+" = ...", nil) }
func (n *AssignExpr) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *AssignExpr) Walk(v Visitor) { Walk(v, n.Value) }
func (n *AssignExpr) expr()          {}

func (n *ExprListExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "expr, expr", map[string]int{"exprs": len(n.Exprs)})
}
func (n *ExprListExpr) Span() (start, end token.Pos) {
	start, _ = n.Exprs[0].Span()
	_, end = n.Exprs[len(n.Exprs)-1].Span()
	return start, end
}
func (n *ExprListExpr) Walk(v Visitor) {
	for _, e := range n.Exprs {
		Walk(v, e)
	}
}
func (n *ExprListExpr) expr() {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Callee.Span()
	return start, n.Rparen + token.Pos(len(token.RPAREN.String()))
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) expr() {}

func (n *LambdaExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "lambda", map[string]int{"params": len(n.Params)})
}
func (n *LambdaExpr) Span() (start, end token.Pos) {
	return n.Fun, n.Rbrace + token.Pos(len(token.RBRACE.String()))
}
func (n *LambdaExpr) Walk(v Visitor) {
	for _, s := range n.Body {
		Walk(v, s)
	}
}
func (n *LambdaExpr) expr() {}

func (n *GetExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr."+n.Name.Name, nil) }
func (n *GetExpr) Span() (start, end token.Pos) {
	start, _ = n.Object.Span()
	_, end = n.Name.Span()
	return start, end
}
func (n *GetExpr) Walk(v Visitor) { Walk(v, n.Object) }
func (n *GetExpr) expr()          {}

func (n *SetExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "expr."+n.Name.Name+" = ...", nil)
}
func (n *SetExpr) Span() (start, end token.Pos) {
	start, _ = n.Object.Span()
	_, end = n.Value.Span()
	return start, end
}
func (n *SetExpr) Walk(v Visitor) {
	Walk(v, n.Object)
	Walk(v, n.Value)
}
func (n *SetExpr) expr() {}

func (n *ThisExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "this", nil) }
func (n *ThisExpr) Span() (start, end token.Pos) {
	return n.Keyword, n.Keyword + token.Pos(len(token.THIS.String()))
}
func (n *ThisExpr) Walk(_ Visitor) {}
func (n *ThisExpr) expr()          {}

func (n *SuperExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "super."+n.Method.Name, nil)
}
func (n *SuperExpr) Span() (start, end token.Pos) {
	_, end = n.Method.Span()
	return n.Keyword, end
}
func (n *SuperExpr) Walk(_ Visitor) {}
func (n *SuperExpr) expr()          {}

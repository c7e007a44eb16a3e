package interpreter

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/token"
)

func (in *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return literalValue(e), nil

	case *ast.GroupingExpr:
		return in.evalExpr(e.Expr)

	case *ast.VariableExpr:
		return in.lookup(e.Resolved, e.Name.Name), nil

	case *ast.AssignExpr:
		v, err := in.evalExpr(e.Value)
		if err != nil {
			return nil, err
		}
		in.assign(e.Resolved, v)
		return v, nil

	case *ast.UnaryExpr:
		return in.evalUnary(e)

	case *ast.BinaryExpr:
		return in.evalBinary(e)

	case *ast.TernaryExpr:
		cond, err := in.evalExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		if cond.Truth() {
			return in.evalExpr(e.Then)
		}
		return in.evalExpr(e.Else)

	case *ast.ExprListExpr:
		var v Value = Nil{}
		for _, sub := range e.Exprs {
			var err error
			v, err = in.evalExpr(sub)
			if err != nil {
				return nil, err
			}
		}
		return v, nil

	case *ast.CallExpr:
		return in.evalCall(e)

	case *ast.LambdaExpr:
		return &Lambda{decl: e, closure: in.env}, nil

	case *ast.GetExpr:
		return in.evalGet(e)

	case *ast.SetExpr:
		return in.evalSet(e)

	case *ast.ThisExpr:
		return in.lookup(e.Resolved, "this"), nil

	case *ast.SuperExpr:
		return in.evalSuper(e)

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", expr))
	}
}

func literalValue(e *ast.LiteralExpr) Value {
	switch v := e.Value.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal payload %T", e.Value))
	}
}

// lookup dispatches a resolved binding to the matching Environment read. A
// nil binding never reaches here in a successfully resolved program (every
// Variable/This/Super got one); it is the resolver's contract, not
// something the interpreter re-validates.
func (in *Interpreter) lookup(b *ast.Binding, name string) Value {
	if b.Kind == ast.BindGlobal {
		return in.globals.GetAt(0, b.Slot)
	}
	return in.env.GetAt(b.Depth, b.Slot)
}

func (in *Interpreter) assign(b *ast.Binding, v Value) {
	if b.Kind == ast.BindGlobal {
		in.globals.AssignAt(0, b.Slot, v)
		return
	}
	in.env.AssignAt(b.Depth, b.Slot, v)
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr) (Value, error) {
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.BANG:
		return Bool(!right.Truth()), nil
	case token.MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, in.errorf(e.OpPos, "Operand must be a number")
		}
		return -n, nil
	default:
		panic(fmt.Sprintf("interpreter: unhandled unary operator %v", e.Op))
	}
}

// evalBinary evaluates both operands unconditionally before combining them:
// and/or are ordinary strict binary operators here, not short-circuiting
// control flow, per the chosen Logical operators semantics.
func (in *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	left, err := in.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.AND:
		return Bool(left.Truth() && right.Truth()), nil
	case token.OR:
		return Bool(left.Truth() || right.Truth()), nil
	case token.EQUAL_EQUAL:
		return Bool(equal(left, right)), nil
	case token.BANG_EQUAL:
		return Bool(!equal(left, right)), nil
	case token.PLUS:
		return in.evalPlus(e.OpPos, left, right)
	case token.MINUS, token.STAR, token.SLASH,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL:
		ln, lok := left.(Number)
		rn, rok := right.(Number)
		if !lok || !rok {
			return nil, in.errorf(e.OpPos, "Operands must be numbers")
		}
		return in.evalNumeric(e.OpPos, e.Op, ln, rn)
	default:
		panic(fmt.Sprintf("interpreter: unhandled binary operator %v", e.Op))
	}
}

func (in *Interpreter) evalPlus(pos token.Pos, left, right Value) (Value, error) {
	ls, lIsStr := left.(String)
	rs, rIsStr := right.(String)
	if lIsStr || rIsStr {
		if !lIsStr {
			ls = String(stringify(left))
		}
		if !rIsStr {
			rs = String(stringify(right))
		}
		return ls + rs, nil
	}
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return nil, in.errorf(pos, "Operands must be two numbers or two strings")
	}
	return ln + rn, nil
}

func (in *Interpreter) evalNumeric(pos token.Pos, op token.Token, l, r Number) (Value, error) {
	switch op {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, in.errorf(pos, "Divide by zero")
		}
		return l / r, nil
	case token.LESS:
		return Bool(l < r), nil
	case token.LESS_EQUAL:
		return Bool(l <= r), nil
	case token.GREATER:
		return Bool(l > r), nil
	case token.GREATER_EQUAL:
		return Bool(l >= r), nil
	default:
		panic(fmt.Sprintf("interpreter: unhandled numeric operator %v", op))
	}
}

func (in *Interpreter) evalCall(e *ast.CallExpr) (Value, error) {
	callee, err := in.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}
	callable, ok := callee.(Callable)
	if !ok {
		return nil, in.errorf(e.Lparen, "Can only call functions and classes")
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if len(args) != callable.Arity() {
		return nil, in.errorf(e.Lparen, "Expected %d arguments but got %d", callable.Arity(), len(args))
	}
	return callable.Call(in, args)
}

func (in *Interpreter) evalGet(e *ast.GetExpr) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *Instance:
		if v, ok := o.Get(e.Name.Name); ok {
			return v, nil
		}
		return nil, in.errorf(e.Name.Pos, "Undefined property %q", e.Name.Name)
	case *Class:
		if v, ok := o.getStatic(e.Name.Name); ok {
			return v, nil
		}
		return nil, in.errorf(e.Name.Pos, "Undefined property %q", e.Name.Name)
	default:
		return nil, in.errorf(e.Dot, "Only instances have properties")
	}
}

func (in *Interpreter) evalSet(e *ast.SetExpr) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, in.errorf(e.Dot, "Only instances have fields")
	}
	v, err := in.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name.Name, v)
	return v, nil
}

// evalSuper reads the superclass from the binding the resolver attached to
// the `super` keyword, the instance (`this`) from one scope inside that,
// looks the method up on the superclass, and returns it bound to the
// instance.
func (in *Interpreter) evalSuper(e *ast.SuperExpr) (Value, error) {
	super := in.lookup(e.Resolved, "super").(*Class)
	thisBinding := &ast.Binding{Kind: e.Resolved.Kind, Depth: e.Resolved.Depth - 1, Slot: 0}
	this := in.lookup(thisBinding, "this").(*Instance)

	fn, ok := super.findMethod(e.Method.Name)
	if !ok {
		return nil, in.errorf(e.Method.Pos, "Undefined property %q", e.Method.Name)
	}
	return fn.bind(this), nil
}

// stringify implements the required display rules: nil/bool/number/string
// get their natural text, everything else (a Callable, a Class, an
// Instance) the type-specific placeholder its own String method produces.
func stringify(v Value) string {
	return v.String()
}

package interpreter

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/ast"
)

// Function is a named function, declared by a function statement or a
// method. Its closure is the environment active at the point it was
// declared, so it keeps seeing the bindings in scope there even after that
// scope has otherwise gone out of lexical reach.
type Function struct {
	decl          *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

var (
	_ Value    = (*Function)(nil)
	_ Callable = (*Function)(nil)
)

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Name) }
func (f *Function) Type() string   { return "function" }
func (f *Function) Truth() bool    { return true }
func (f *Function) Arity() int     { return len(f.decl.Params) }

func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for _, arg := range args {
		env.Define(arg)
	}
	signal, err := in.execBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}
	if f.isInitializer {
		return f.closure.GetAt(0, 0), nil
	}
	if signal.kind == ctrlReturn {
		return signal.value, nil
	}
	return Nil{}, nil
}

// bind returns a copy of the function whose closure has `this` defined in
// slot 0, enclosing the method's original closure — the standard technique
// for producing a bound method on Get.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define(instance)
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// Lambda is an anonymous function expression. It is never bound to a name,
// so it has no identifier to print and no init-method role.
type Lambda struct {
	decl    *ast.LambdaExpr
	closure *Environment
}

var (
	_ Value    = (*Lambda)(nil)
	_ Callable = (*Lambda)(nil)
)

func (l *Lambda) String() string { return "<fn>" }
func (l *Lambda) Type() string   { return "function" }
func (l *Lambda) Truth() bool    { return true }
func (l *Lambda) Arity() int     { return len(l.decl.Params) }

func (l *Lambda) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(l.closure)
	for _, arg := range args {
		env.Define(arg)
	}
	signal, err := in.execBlock(l.decl.Body, env)
	if err != nil {
		return nil, err
	}
	if signal.kind == ctrlReturn {
		return signal.value, nil
	}
	return Nil{}, nil
}

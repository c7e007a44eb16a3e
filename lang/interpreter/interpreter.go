package interpreter

import (
	"fmt"
	"time"

	"github.com/dolthub/swiss"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/token"
)

// Interpreter evaluates a resolved AST against an environment chain. The
// globals environment is created and seeded with native functions before
// any resolver runs, so that the resolver's BindGlobal slots line up with
// the slots Define assigns here (see GlobalNames).
type Interpreter struct {
	globals *Environment
	env     *Environment
	file    *token.File

	processStart time.Time
	Stdout       func(string)
}

// GlobalNames lists, in definition order, the names NewInterpreter defines
// into the global environment. The resolver must be seeded with this exact
// list before resolving any source, so its global slot numbering agrees
// with the interpreter's.
func GlobalNames() []string {
	return []string{"clock"}
}

// NewInterpreter creates an interpreter with its global environment
// pre-populated with native functions, in the order GlobalNames reports.
func NewInterpreter(stdout func(string)) *Interpreter {
	in := &Interpreter{
		globals:      NewEnvironment(nil),
		processStart: time.Now(),
		Stdout:       stdout,
	}
	in.env = in.globals
	in.globals.Define(&NativeFunction{
		FnName: "clock",
		Arty:   0,
		Fn: func(in *Interpreter, args []Value) (Value, error) {
			return Number(time.Since(in.processStart).Milliseconds()), nil
		},
	})
	return in
}

// Interpret executes every statement of prog in order against file's
// source positions, stopping at the first runtime error. It is always
// called with in.env at the top level (globals, or globals plus whatever
// earlier REPL lines defined), mirroring the resolver's notion of "top
// level": top-level function and class declarations are pre-declared into
// their global slot before any statement body runs, so that mutually
// recursive top-level declarations, resolved against the same hoisting
// pass, find their slots already reserved in the order the resolver
// computed them.
func (in *Interpreter) Interpret(file *token.File, prog *ast.Program) error {
	in.file = file
	slots := in.hoistTopLevel(prog.Stmts)

	for _, stmt := range prog.Stmts {
		switch s := stmt.(type) {
		case *ast.FunctionStmt:
			fn := &Function{decl: s, closure: in.env}
			in.env.AssignAt(0, slots[s], fn)
			continue
		case *ast.ClassStmt:
			class, err := in.buildClass(s)
			if err != nil {
				return err
			}
			in.env.AssignAt(0, slots[s], class)
			continue
		}
		// A break or return reaching the top level has nothing left to
		// unwind into; treat it as having completed that statement.
		if _, err := in.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// hoistTopLevel reserves a global slot, in textual order, for every
// top-level function and class declaration in stmts, before any of their
// bodies run. This must allocate slots in exactly the order
// resolver.hoistTopLevel declares the corresponding names, so the
// (depth=0, slot) coordinates the resolver already baked into the AST stay
// valid.
func (in *Interpreter) hoistTopLevel(stmts []ast.Stmt) map[ast.Stmt]int {
	slots := make(map[ast.Stmt]int, len(stmts))
	for _, stmt := range stmts {
		switch stmt.(type) {
		case *ast.FunctionStmt, *ast.ClassStmt:
			slots[stmt] = in.env.Define(Nil{})
		}
	}
	return slots
}

func (in *Interpreter) execStmt(stmt ast.Stmt) (ctrl, error) {
	switch s := stmt.(type) {
	case *ast.BadStmt:
		// a parse error already prevented this program from reaching here
		return ctrlSignalNone, nil

	case *ast.ExpressionStmt:
		if _, err := in.evalExpr(s.Expr); err != nil {
			return ctrlSignalNone, err
		}
		return ctrlSignalNone, nil

	case *ast.PrintStmt:
		v, err := in.evalExpr(s.Expr)
		if err != nil {
			return ctrlSignalNone, err
		}
		in.Stdout(stringify(v))
		return ctrlSignalNone, nil

	case *ast.VarStmt:
		var v Value = Nil{}
		if s.Init != nil {
			var err error
			v, err = in.evalExpr(s.Init)
			if err != nil {
				return ctrlSignalNone, err
			}
		}
		in.env.Define(v)
		return ctrlSignalNone, nil

	case *ast.BlockStmt:
		return in.execBlock(s.Stmts, NewEnvironment(in.env))

	case *ast.IfStmt:
		cond, err := in.evalExpr(s.Cond)
		if err != nil {
			return ctrlSignalNone, err
		}
		if cond.Truth() {
			return in.execStmt(s.Then)
		} else if s.Other != nil {
			return in.execStmt(s.Other)
		}
		return ctrlSignalNone, nil

	case *ast.WhileStmt:
		for {
			cond, err := in.evalExpr(s.Cond)
			if err != nil {
				return ctrlSignalNone, err
			}
			if !cond.Truth() {
				return ctrlSignalNone, nil
			}
			signal, err := in.execStmt(s.Body)
			if err != nil {
				return ctrlSignalNone, err
			}
			switch signal.kind {
			case ctrlBreak:
				return ctrlSignalNone, nil
			case ctrlReturn:
				return signal, nil
			}
		}

	case *ast.BreakStmt:
		return ctrlSignalBreak, nil

	case *ast.FunctionStmt:
		fn := &Function{decl: s, closure: in.env}
		in.env.Define(fn)
		return ctrlSignalNone, nil

	case *ast.ReturnStmt:
		v := Value(Nil{})
		if s.Value != nil {
			var err error
			v, err = in.evalExpr(s.Value)
			if err != nil {
				return ctrlSignalNone, err
			}
		}
		return ctrlSignalReturn(v), nil

	case *ast.ClassStmt:
		slot := in.env.Define(Nil{})
		class, err := in.buildClass(s)
		if err != nil {
			return ctrlSignalNone, err
		}
		in.env.AssignAt(0, slot, class)
		return ctrlSignalNone, nil

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", stmt))
	}
}

// execBlock runs stmts against env, always restoring the interpreter's
// previous environment before returning, on every exit path.
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) (ctrl, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, stmt := range stmts {
		signal, err := in.execStmt(stmt)
		if err != nil {
			return ctrlSignalNone, err
		}
		if signal.kind != ctrlNone {
			return signal, nil
		}
	}
	return ctrlSignalNone, nil
}

// buildClass implements the class-construction sequence minus the slot
// bookkeeping its two callers (top-level hoisting, ordinary statement
// execution) each handle themselves: evaluate the superclass, push its
// scope, build the method tables, tear the scope back down. The caller is
// responsible for having already reserved the class's own slot (so methods
// could, in principle, recurse through its name) and for writing the
// returned Class back into it.
//
// Every method and static method shares this same closure; no `this`
// environment is pushed here. That layer is added lazily, once per bound
// instance method call, by Function.bind — static methods never go
// through bind, so they never see one, matching the resolver's decision to
// resolve static method bodies outside of any `this` scope.
func (in *Interpreter) buildClass(s *ast.ClassStmt) (*Class, error) {
	var super *Class
	if s.Superclass != nil {
		v, err := in.evalExpr(s.Superclass)
		if err != nil {
			return nil, err
		}
		sc, ok := v.(*Class)
		if !ok {
			pos, _ := s.Superclass.Span()
			return nil, in.errorf(pos, "Superclass must be a class")
		}
		super = sc
	}

	env := in.env
	if super != nil {
		env = NewEnvironment(env)
		env.Define(super)
	}

	methods := swiss.NewMap[string, *Function](uint32(len(s.Methods)))
	for _, m := range s.Methods {
		methods.Put(m.Name.Name, &Function{decl: m, closure: env, isInitializer: m.Name.Name == "init"})
	}
	staticMethods := swiss.NewMap[string, *Function](uint32(len(s.StaticMethods)))
	for _, m := range s.StaticMethods {
		staticMethods.Put(m.Name.Name, &Function{decl: m, closure: env})
	}

	return &Class{Name: s.Name.Name, Superclass: super, methods: methods, staticMethods: staticMethods}, nil
}

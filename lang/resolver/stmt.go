package resolver

import (
	"github.com/mna/nenuphar-lox/lang/ast"
)

// resolveStmts resolves a sequence of statements. At the top level, it
// first hoists every top-level function and class name into the global
// scope, so that mutually recursive top-level declarations (one
// referencing another declared later in the same file) resolve correctly.
func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	if r.atTopLevel() {
		r.hoistTopLevel(stmts)
	}
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) hoistTopLevel(stmts []ast.Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.FunctionStmt:
			r.declare(s.Name)
			r.define(s.Name)
		case *ast.ClassStmt:
			r.declare(s.Name)
			r.define(s.Name)
		}
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BadStmt:
		// already reported by the parser

	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)

	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Other != nil {
			r.resolveStmt(s.Other)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--

	case *ast.BreakStmt:
		// loop nesting was already validated by the parser

	case *ast.FunctionStmt:
		if !r.atTopLevel() {
			r.declare(s.Name)
			r.define(s.Name)
		}
		r.resolveFunction(s.Params, s.Body, fnFunction)

	case *ast.ReturnStmt:
		if r.currentFunction == fnNone {
			r.errorf(s.Return, "can only return from functions or methods")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.errorf(s.Return, "Cannot return value from an initializer")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.ClassStmt:
		r.resolveClass(s)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveFunction(params []ast.Ident, body []ast.Stmt, typ functionType) {
	enclosingFn := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosingFn }()

	r.beginScope()
	for _, p := range params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(body)
	r.endScope()
}

func (r *resolver) resolveClass(s *ast.ClassStmt) {
	if !r.atTopLevel() {
		r.declare(s.Name)
		r.define(s.Name)
	}

	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	if s.Superclass != nil {
		if s.Superclass.Name.Name == s.Name.Name {
			r.errorf(s.Superclass.Name.Pos, "class cannot inherit from itself")
		} else {
			r.resolveExpr(s.Superclass)
		}
		r.currentClass = classSubclass

		r.beginScope()
		r.declareImplicit("super")
		defer r.endScope()
	}

	// Static methods resolve outside of any `this` scope: they are never
	// bound to an instance, so their closure never gets the environment
	// layer bind() would otherwise add, and their depths must not assume
	// one either.
	for _, m := range s.StaticMethods {
		r.resolveFunction(m.Params, m.Body, fnStatic)
	}

	// The `this` scope modeled here exists only for the resolver's depth
	// bookkeeping: at runtime, no environment is pushed for it when the
	// class is constructed. It comes into being lazily, once per bound
	// method, as the environment layer Function.bind adds — so instance
	// method bodies must resolve as if it already wraps their closure.
	r.beginScope()
	r.declareImplicit("this")
	defer r.endScope()

	for _, m := range s.Methods {
		typ := fnMethod
		if m.Name.Name == "init" {
			typ = fnInitializer
		}
		r.resolveFunction(m.Params, m.Body, typ)
	}
}

// declareImplicit introduces a compiler-generated binding (this, super)
// into the current scope at slot 0, pre-marked as used so that a method
// that never references it is not reported as declaring an unused variable.
func (r *resolver) declareImplicit(name string) {
	scope := r.scopes[len(r.scopes)-1]
	scope[name] = &varSlot{slot: len(scope), defined: true, used: true}
}

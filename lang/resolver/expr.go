package resolver

import "github.com/mna/nenuphar-lox/lang/ast"

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		// nothing to resolve

	case *ast.VariableExpr:
		e.Resolved = r.resolveName(e.Name)

	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		// Assigning to a variable is not a read of it: keep its used flag as
		// it was before the assignment.
		var target *varSlot
		for i := len(r.scopes) - 1; i >= 0 && target == nil; i-- {
			target = r.scopes[i][e.Name.Name]
		}
		if target == nil {
			target = r.globals.vars[e.Name.Name]
		}
		wasUsed := target != nil && target.used
		e.Resolved = r.resolveName(e.Name)
		if target != nil {
			target.used = wasUsed
		}

	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.UnaryExpr:
		r.resolveExpr(e.Right)

	case *ast.GroupingExpr:
		r.resolveExpr(e.Expr)

	case *ast.TernaryExpr:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)

	case *ast.ExprListExpr:
		for _, sub := range e.Exprs {
			r.resolveExpr(sub)
		}

	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.GetExpr:
		r.resolveExpr(e.Object)

	case *ast.SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.LambdaExpr:
		r.resolveFunction(e.Params, e.Body, fnLambda)

	case *ast.ThisExpr:
		if r.currentClass == classNone {
			r.errorf(e.Keyword, "can't use 'this' outside of a class")
			return
		}
		if r.currentFunction == fnStatic {
			r.errorf(e.Keyword, "can't use 'this' in a static method")
			return
		}
		e.Resolved = r.resolveName(ast.Ident{Name: "this", Pos: e.Keyword})

	case *ast.SuperExpr:
		if r.currentClass != classSubclass {
			r.errorf(e.Keyword, "can't use 'super' outside of a sub class")
		}
		e.Resolved = r.resolveName(ast.Ident{Name: "super", Pos: e.Keyword})

	default:
		panic("resolver: unhandled expression type")
	}
}

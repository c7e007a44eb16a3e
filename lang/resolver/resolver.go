// Package resolver implements a static resolution pass over a parsed Lox
// program: it walks the AST once, before interpretation, to bind every
// variable reference to the scope slot where it was declared.
//
// # Scopes
//
// The resolver maintains a stack of block scopes, pushed and popped exactly
// where the interpreter will push and pop an Environment: entering a
// function call, a block statement, or a lambda body. Each scope pairs a
// name→declared/defined flag map with a parallel name→slot map and a
// next-free-slot counter, so slot assignment mirrors the order in which the
// interpreter's Environment.Define calls will run. A variable reference
// found at stack depth d from the top resolves to
// Binding{Kind: BindLocal, Depth: d, Slot: i}, letting the interpreter walk
// exactly d Environment links and index slot i, instead of comparing names.
//
// Globals live in their own flat scope, seeded before resolution starts
// with the names of the interpreter's native functions (in the same order
// the interpreter defined them), so that the global slot numbering the
// resolver computes matches the interpreter's global Environment exactly. A
// top-level `var` declaration allocates a new global slot; references that
// resolve to it carry Binding{Kind: BindGlobal, Slot: i}.
//
// # Errors
//
// The resolver additionally rejects a handful of uses that are only
// detectable statically: reading a local variable from its own
// initializer, redeclaring a name twice in the same scope (local or
// global), returning a value from an initializer, and using this/super/
// return outside of the context that gives them meaning. It also reports,
// once a scope or the whole program finishes resolving, any declared
// variable that was never read.
package resolver

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/token"
)

// functionType tracks the kind of function body currently being resolved,
// to validate `return` and `this`.
type functionType int

//nolint:revive
const (
	fnNone functionType = iota
	fnFunction
	fnLambda
	fnMethod
	fnStatic
	fnInitializer
)

// classType tracks whether a class body is currently being resolved, and
// whether it declares a superclass, to validate `this` and `super`.
type classType int

//nolint:revive
const (
	classNone classType = iota
	classClass
	classSubclass
)

// varSlot is the resolver's bookkeeping for one declared name: its assigned
// slot, whether it has finished its initializer yet, and whether anything
// has read it since it was declared.
type varSlot struct {
	slot    int
	defined bool
	used    bool
	pos     token.Pos
}

// ResolveFiles statically resolves every variable reference in progs, which
// must be the successful parse result of the files registered in fset.
// globalNames lists the native function names already registered in the
// interpreter's global environment, in definition order; the resolver
// assigns them slots 0..len(globalNames)-1 before resolving any source.
// The returned error, if non-nil, is guaranteed to be a scanner.ErrorList.
func ResolveFiles(ctx context.Context, fset *token.FileSet, progs []*ast.Program, globalNames []string) error {
	if len(progs) == 0 {
		return nil
	}

	r := newResolver(globalNames)
	for _, prog := range progs {
		start, _ := prog.Span()
		r.file = fset.File(start)
		r.resolveStmts(prog.Stmts)
	}
	r.endGlobalScope()
	r.errors.Sort()
	return r.errors.Err()
}

// Resolve statically resolves a single program parsed from file, for use by
// the REPL and by multi-file runs: globals lets the caller carry the global
// scope forward across independently-parsed sources so that earlier
// top-level declarations remain visible and keep their slots.
func Resolve(file *token.File, prog *ast.Program, globals *Globals) error {
	r := resolver{file: file, globals: globals}
	r.resolveStmts(prog.Stmts)
	r.endGlobalScope()
	r.errors.Sort()
	return r.errors.Err()
}

// Globals is the resolver's persistent view of the global scope, reusable
// across REPL lines so that names defined on one line remain declared (and
// keep their slot) on the next.
type Globals struct {
	vars map[string]*varSlot
	next int
}

// NewGlobals seeds a Globals with the interpreter's native function names,
// in definition order.
func NewGlobals(names []string) *Globals {
	g := &Globals{vars: make(map[string]*varSlot)}
	for _, name := range names {
		g.vars[name] = &varSlot{slot: g.next, defined: true, used: true}
		g.next++
	}
	return g
}

func newResolver(globalNames []string) *resolver {
	return &resolver{globals: NewGlobals(globalNames)}
}

type resolver struct {
	file   *token.File
	errors scanner.ErrorList

	globals *Globals

	scopes          []map[string]*varSlot
	currentFunction functionType
	currentClass    classType
	loopDepth       int
}

func (r *resolver) errorf(pos token.Pos, format string, args ...interface{}) {
	r.errors.Add(r.file.Position(pos), fmt.Sprintf(format, args...))
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]*varSlot))
}

func (r *resolver) endScope() {
	r.reportUnused(r.scopes[len(r.scopes)-1], "local variable")
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) endGlobalScope() {
	r.reportUnused(r.globals.vars, "global variable")
}

func (r *resolver) reportUnused(vars map[string]*varSlot, kind string) {
	var stale []*varSlot
	names := make(map[*varSlot]string, len(vars))
	for name, v := range vars {
		if !v.used {
			stale = append(stale, v)
			names[v] = name
		}
	}
	slices.SortFunc(stale, func(a, b *varSlot) int { return int(a.pos) - int(b.pos) })
	for _, v := range stale {
		r.errorf(v.pos, "%s %q is never used", kind, names[v])
	}
}

// declare introduces name in the current innermost scope (or the global
// scope if none is open), in a "declared but not yet defined" state so its
// own initializer can detect a self-reference.
func (r *resolver) declare(name ast.Ident) {
	vars, kind := r.currentVars()
	if _, ok := vars[name.Name]; ok {
		if kind == "global scope" {
			r.errorf(name.Pos, "already declared in global scope")
		} else {
			r.errorf(name.Pos, "already declared in the same scope")
		}
	}
	slot := len(vars)
	if kind == "scope" {
		slot = r.nextLocalSlot()
	}
	vars[name.Name] = &varSlot{slot: slot, pos: name.Pos}
}

func (r *resolver) define(name ast.Ident) {
	vars, _ := r.currentVars()
	vars[name.Name].defined = true
}

func (r *resolver) currentVars() (map[string]*varSlot, string) {
	if len(r.scopes) == 0 {
		return r.globals.vars, "global scope"
	}
	return r.scopes[len(r.scopes)-1], "scope"
}

func (r *resolver) nextLocalSlot() int {
	return len(r.scopes[len(r.scopes)-1])
}

// resolveName looks up name starting from the innermost scope and returns
// the Binding to attach to the reference.
func (r *resolver) resolveName(name ast.Ident) *ast.Binding {
	for depth := 0; depth < len(r.scopes); depth++ {
		scope := r.scopes[len(r.scopes)-1-depth]
		if v, ok := scope[name.Name]; ok {
			if !v.defined {
				r.errorf(name.Pos, "can't read local variable %q in its own initializer", name.Name)
			}
			v.used = true
			return &ast.Binding{Kind: ast.BindLocal, Depth: depth, Slot: v.slot}
		}
	}
	if v, ok := r.globals.vars[name.Name]; ok {
		v.used = true
		return &ast.Binding{Kind: ast.BindGlobal, Slot: v.slot}
	}
	r.errorf(name.Pos, "undefined variable %q", name.Name)
	return nil
}

// atTopLevel reports whether resolution is currently at the top level (no
// block/function scope open), i.e. declarations go straight into globals.
func (r *resolver) atTopLevel() bool { return len(r.scopes) == 0 }

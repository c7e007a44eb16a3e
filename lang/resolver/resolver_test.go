package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/parser"
	"github.com/mna/nenuphar-lox/lang/resolver"
	"github.com/mna/nenuphar-lox/lang/token"
)

func resolveSrc(t *testing.T, src string, globals []string) (*ast.Program, error) {
	t.Helper()
	ctx := context.Background()
	fs := token.NewFileSet()
	prog, err := parser.ParseProgram(ctx, fs, "test.lox", []byte(src))
	require.NoError(t, err)
	err = resolver.ResolveFiles(ctx, fs, []*ast.Program{prog}, globals)
	return prog, err
}

func TestResolveLocalRoundTrip(t *testing.T) {
	_, err := resolveSrc(t, `{ var x = 1; print x; }`, nil)
	assert.NoError(t, err)
}

func TestResolveClosureCapturesLocal(t *testing.T) {
	prog, err := resolveSrc(t, `
fun make() {
	var i = 0;
	fun inc() { i = i + 1; return i; }
	return inc;
}
make();
`, nil)
	require.NoError(t, err)

	outer := prog.Stmts[0].(*ast.FunctionStmt)
	inner := outer.Body[1].(*ast.FunctionStmt)
	assign := inner.Body[0].(*ast.ExpressionStmt).Expr.(*ast.AssignExpr)
	require.NotNil(t, assign.Resolved)
	assert.Equal(t, ast.BindLocal, assign.Resolved.Kind)
	assert.Equal(t, 1, assign.Resolved.Depth)
}

func TestResolveSelfReadInInitializerIsError(t *testing.T) {
	_, err := resolveSrc(t, `{ var a = a; }`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own initializer")
}

func TestResolveRedeclarationInScopeIsError(t *testing.T) {
	_, err := resolveSrc(t, `{ var a = 1; var a = 2; }`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared in the same scope")
}

func TestResolveReturnOutsideFunctionIsError(t *testing.T) {
	_, err := resolveSrc(t, `return 1;`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can only return from")
}

func TestResolveReturnValueInInitializerIsError(t *testing.T) {
	_, err := resolveSrc(t, `class Foo { init() { return 1; } }`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot return value from an initializer")
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, err := resolveSrc(t, `print this;`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'this' outside of a class")
}

func TestResolveSuperOutsideSubclassIsError(t *testing.T) {
	_, err := resolveSrc(t, `class A { f() { return super.f(); } }`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'super' outside of a sub class")
}

func TestResolveClassSelfInheritanceIsError(t *testing.T) {
	_, err := resolveSrc(t, `class A < A {}`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inherit from itself")
}

func TestResolveMutualTopLevelRecursion(t *testing.T) {
	_, err := resolveSrc(t, `
fun isEven(n) { if (n == 0) return true; return isOdd(n - 1); }
fun isOdd(n) { if (n == 0) return false; return isEven(n - 1); }
`, nil)
	assert.NoError(t, err)
}

func TestResolveUnusedLocalIsError(t *testing.T) {
	_, err := resolveSrc(t, `fun f() { var x = 1; }`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never used")
}

func TestResolveGlobalSeeding(t *testing.T) {
	prog, err := resolveSrc(t, `print clock();`, []string{"clock"})
	require.NoError(t, err)
	call := prog.Stmts[0].(*ast.PrintStmt).Expr.(*ast.CallExpr)
	callee := call.Callee.(*ast.VariableExpr)
	require.NotNil(t, callee.Resolved)
	assert.Equal(t, ast.BindGlobal, callee.Resolved.Kind)
	assert.Equal(t, 0, callee.Resolved.Slot)
}

package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/parser"
	"github.com/mna/nenuphar-lox/lang/token"
)

func parse(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	fs := token.NewFileSet()
	return parser.ParseProgram(context.Background(), fs, "test.lox", []byte(src))
}

func TestParseVarAndPrint(t *testing.T) {
	prog, err := parse(t, `var x = 1 + 2; print x;`)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)

	v, ok := prog.Stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Name)
	bin, ok := v.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)

	_, ok = prog.Stmts[1].(*ast.PrintStmt)
	assert.True(t, ok)
}

func TestParseTernaryAndComma(t *testing.T) {
	prog, err := parse(t, `var x = 1, 2 > 1 ? "a" : "b";`)
	require.NoError(t, err)
	v := prog.Stmts[0].(*ast.VarStmt)
	list, ok := v.Init.(*ast.ExprListExpr)
	require.True(t, ok)
	require.Len(t, list.Exprs, 2)
	_, ok = list.Exprs[1].(*ast.TernaryExpr)
	assert.True(t, ok)
}

func TestParseAssignmentTargets(t *testing.T) {
	prog, err := parse(t, `x = 1; x.y = 2; x += 1;`)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 3)

	e1 := prog.Stmts[0].(*ast.ExpressionStmt).Expr
	_, ok := e1.(*ast.AssignExpr)
	assert.True(t, ok)

	e2 := prog.Stmts[1].(*ast.ExpressionStmt).Expr
	_, ok = e2.(*ast.SetExpr)
	assert.True(t, ok)

	e3 := prog.Stmts[2].(*ast.ExpressionStmt).Expr
	assign, ok := e3.(*ast.AssignExpr)
	require.True(t, ok)
	bin, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, err := parse(t, `1 = 2;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid assignment target")
}

func TestParseForDesugarsToWhile(t *testing.T) {
	prog, err := parse(t, `for (var i = 0; i < 10; i = i + 1) print i;`)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	block, ok := prog.Stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)
	_, ok = block.Stmts[0].(*ast.VarStmt)
	assert.True(t, ok)
	_, ok = block.Stmts[1].(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestParseBreakOutsideLoopIsError(t *testing.T) {
	_, err := parse(t, `break;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside of a loop")
}

func TestParseBreakInsideLoopIsOK(t *testing.T) {
	_, err := parse(t, `while (true) { break; }`)
	require.NoError(t, err)
}

func TestParseClassWithSuperclass(t *testing.T) {
	prog, err := parse(t, `class B < A { init() { this.x = 1; } greet() { return super.greet(); } }`)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	cls, ok := prog.Stmts[0].(*ast.ClassStmt)
	require.True(t, ok)
	require.NotNil(t, cls.Superclass)
	assert.Equal(t, "A", cls.Superclass.Name.Name)
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "init", cls.Methods[0].Name.Name)
}

func TestParseLambdaAndCall(t *testing.T) {
	prog, err := parse(t, `var f = fun (a, b) { return a + b; }; f(1, 2);`)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)

	v := prog.Stmts[0].(*ast.VarStmt)
	lam, ok := v.Init.(*ast.LambdaExpr)
	require.True(t, ok)
	assert.Len(t, lam.Params, 2)

	call := prog.Stmts[1].(*ast.ExpressionStmt).Expr.(*ast.CallExpr)
	assert.Len(t, call.Args, 2)
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	prog, err := parse(t, `var = 1; var y = 2;`)
	require.Error(t, err)
	require.Len(t, prog.Stmts, 2)
	_, ok := prog.Stmts[0].(*ast.BadStmt)
	assert.True(t, ok)
	v, ok := prog.Stmts[1].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "y", v.Name.Name)
}

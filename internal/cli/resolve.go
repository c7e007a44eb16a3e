package cli

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/interpreter"
	"github.com/mna/nenuphar-lox/lang/parser"
	"github.com/mna/nenuphar-lox/lang/resolver"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/token"
)

// Resolve runs the scanner, parser and resolver phases over args and prints
// the AST (parse errors, if any, stop before resolving since an invalid
// tree cannot be resolved).
func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	printer := ast.Printer{Output: stdio.Stdout, Pos: token.PosLong}

	fs, progs, perr := parser.ParseFiles(ctx, args...)
	if perr != nil {
		scanner.PrintError(stdio.Stderr, perr)
		return compileError{perr}
	}

	rerr := resolver.ResolveFiles(ctx, fs, progs, interpreter.GlobalNames())
	for _, prog := range progs {
		start, _ := prog.Span()
		if err := printer.Print(prog, fs.File(start)); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	if rerr != nil {
		scanner.PrintError(stdio.Stderr, rerr)
		return compileError{rerr}
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/parser"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/token"
)

// Parse runs the scanner and parser phases over args and prints the
// resulting AST.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	printer := ast.Printer{Output: stdio.Stdout, Pos: token.PosLong}

	fs, progs, err := parser.ParseFiles(ctx, args...)
	for _, prog := range progs {
		start, _ := prog.Span()
		if perr := printer.Print(prog, fs.File(start)); perr != nil {
			fmt.Fprintln(stdio.Stderr, perr)
			return perr
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return compileError{err}
	}
	return nil
}

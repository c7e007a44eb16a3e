package cli

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/token"
)

// Tokenize runs only the scanner phase over args (source file paths) and
// prints the resulting tokens, one per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	fs, toksByFile, err := scanner.ScanFiles(ctx, args...)
	for _, toks := range toksByFile {
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", token.FormatPos(token.PosLong, fs.File(tok.Value.Pos), tok.Value.Pos, true), tok.Token)
			if lit := tok.Token.Literal(tok.Value); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return compileError{err}
	}
	return nil
}

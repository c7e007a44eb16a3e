package cli

import (
	"context"
	"errors"
	"fmt"
	"go/scanner"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/hashicorp/go-multierror"
	"github.com/mna/mainer"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/interpreter"
	"github.com/mna/nenuphar-lox/lang/parser"
	"github.com/mna/nenuphar-lox/lang/resolver"
	"github.com/mna/nenuphar-lox/lang/token"
)

// compiledFile is one source file's program and the *token.File its
// positions were recorded against, once it has cleared the scan/parse/
// resolve pipeline.
type compiledFile struct {
	prog *ast.Program
	file *token.File
}

// Run implements the idle -> scanned -> parsed -> resolved -> interpret
// state machine over one or more source files, sharing a single
// *interpreter.Interpreter (and its globals) across them so a later file
// can see an earlier one's top-level declarations. Every file is scanned,
// parsed and resolved first; their compile errors are aggregated with
// go-multierror into one reportable error (alongside each phase's own
// go/scanner.ErrorList) before anything executes: execution runs only if
// every file compiled cleanly; file mode exits 65 on any compile error, 70
// on an uncaught runtime error.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return errors.New("run: at least one source file must be provided")
	}

	fs := token.NewFileSet()
	globals := resolver.NewGlobals(interpreter.GlobalNames())

	var (
		compileErrs *multierror.Error
		compiled    []compiledFile
	)
	for _, name := range args {
		src, err := os.ReadFile(name)
		if err != nil {
			compileErrs = multierror.Append(compileErrs, err)
			continue
		}
		prog, file, cerr := compile(ctx, fs, name, src, globals)
		if cerr != nil {
			compileErrs = multierror.Append(compileErrs, cerr)
			continue
		}
		compiled = append(compiled, compiledFile{prog: prog, file: file})
	}
	if compileErrs.ErrorOrNil() != nil {
		reportCompileError(stdio.Stderr, compileErrs)
		return compileError{compileErrs}
	}

	in := interpreter.NewInterpreter(func(line string) { fmt.Fprintln(stdio.Stdout, line) })
	for _, cf := range compiled {
		if rerr := in.Interpret(cf.file, cf.prog); rerr != nil {
			reportRuntimeError(stdio.Stderr, rerr)
			return runtimeErr{rerr}
		}
	}
	return nil
}

// Repl implements the interactive mode: each line is compiled and
// executed independently against the same *interpreter.Interpreter (and
// the same *resolver.Globals, so earlier top-level declarations keep their
// slot), and never exits on a compile or runtime error.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, _ []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	globals := resolver.NewGlobals(interpreter.GlobalNames())
	in := interpreter.NewInterpreter(func(line string) { fmt.Fprintln(stdio.Stdout, line) })
	fs := token.NewFileSet()

	for lineNo := 1; ; lineNo++ {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		Log.WithField("line", lineNo).Debug("repl line")
		name := fmt.Sprintf("<repl:%d>", lineNo)
		prog, file, cerr := compile(ctx, fs, name, []byte(line), globals)
		if cerr != nil {
			reportCompileError(stdio.Stderr, cerr)
			continue
		}
		if rerr := in.Interpret(file, prog); rerr != nil {
			reportRuntimeError(stdio.Stderr, rerr)
		}
	}
}

// compile runs the scanner, parser and resolver phases over src, sharing
// fs and globals with every other call against the same session (a single
// run or the whole lifetime of a REPL), and returns the resolved program
// ready to interpret.
func compile(_ context.Context, fs *token.FileSet, name string, src []byte, globals *resolver.Globals) (*ast.Program, *token.File, error) {
	prog, err := parser.ParseProgram(context.Background(), fs, name, src)
	if err != nil {
		return nil, nil, err
	}
	start, _ := prog.Span()
	file := fs.File(start)
	if err := resolver.Resolve(file, prog, globals); err != nil {
		return nil, nil, err
	}
	return prog, file, nil
}

// reportCompileError prints every scanner/parser/resolver error in err
// using the required error format, one line per error. A
// *multierror.Error (one per failed file in a multi-file Run) is unwrapped
// one level so each file's own go/scanner.ErrorList still gets the same
// per-error treatment.
func reportCompileError(w io.Writer, err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			reportCompileError(w, e)
		}
		return
	}

	var list scanner.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			fmt.Fprintf(w, "Error: %s on line %d, character %d.\n", e.Msg, e.Pos.Line, e.Pos.Column)
		}
		return
	}
	fmt.Fprintf(w, "Error: %s.\n", err)
}

// reportRuntimeError prints an uncaught interpreter.RuntimeError using
// the required error format.
func reportRuntimeError(w io.Writer, err error) {
	var rerr *interpreter.RuntimeError
	if errors.As(err, &rerr) {
		fmt.Fprintf(w, "%s\n[line %d, character %d]\n", rerr.Msg, rerr.Position.Line, rerr.Position.Column)
		return
	}
	fmt.Fprintf(w, "%s\n", err)
}

// Command lox is the compiler and all-in-one tool for the lox scripting
// language: it tokenizes, parses, resolves or runs a source file, or drops
// into an interactive REPL.
package main

import (
	"fmt"
	"os"

	heredoc "github.com/MakeNowJust/heredoc/v2"
	"github.com/mna/mainer"
	"github.com/spf13/cobra"

	"github.com/mna/nenuphar-lox/internal/cli"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return int(mainer.Failure)
	}
	return exitCode
}

// exitCode carries the last dispatched subcommand's mainer.ExitCode out to
// main, since cobra's Execute only reports success/failure as an error.
var exitCode int

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lox",
		Short:         "Compiler and all-in-one tool for the lox programming language",
		Version:       fmt.Sprintf("%s (%s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "trace CLI and REPL lifecycle events to stderr")

	root.AddCommand(
		newPipelineCmd("tokenize", "Print the tokens produced by the scanner", heredoc.Doc(`
			Run only the scanner phase over one or more source files and print
			the resulting tokens, one per line.
		`)),
		newPipelineCmd("parse", "Print the AST produced by the parser", heredoc.Doc(`
			Run the scanner and parser phases over one or more source files and
			print the resulting abstract syntax tree.
		`)),
		newPipelineCmd("resolve", "Print the AST with variable resolution applied", heredoc.Doc(`
			Run the scanner, parser and resolver phases over one or more source
			files and print the resulting abstract syntax tree.
		`)),
		newRunCmd(),
		newReplCmd(),
	)
	return root
}

// dispatch builds a cli.Cmd from the persistent --verbose flag, runs
// subcommand through it, and stashes its mainer.ExitCode for main to return.
func dispatch(cmd *cobra.Command, subcommand string, files []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	c := &cli.Cmd{BuildVersion: version, BuildDate: buildDate, Verbose: verbose}

	args := append([]string{subcommand}, files...)
	code := c.Main(args, mainer.CurrentStdio())
	exitCode = int(code)
	if code != mainer.Success {
		return fmt.Errorf("%s exited with code %d", subcommand, code)
	}
	return nil
}

func newPipelineCmd(name, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <path>...",
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, name, args)
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <path>...",
		Short: "Run one or more lox source files",
		Long: heredoc.Doc(`
			Scan, parse, resolve and interpret one or more source files, sharing
			a single interpreter across them. Exits 65 on a compile-time error,
			70 on an uncaught runtime error, 0 otherwise.
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, "run", args)
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive lox session",
		Long: heredoc.Doc(`
			Read, compile and execute one line at a time. Compile and runtime
			errors are printed but never exit the session; top-level
			declarations from earlier lines remain visible.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, "repl", nil)
		},
	}
}

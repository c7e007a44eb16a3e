package cli

import "github.com/mna/mainer"

// compileError reports a scanner, parser, or resolver failure: file mode
// exits 65.
type compileError struct{ err error }

func (e compileError) Error() string             { return e.err.Error() }
func (e compileError) Unwrap() error             { return e.err }
func (e compileError) ExitCode() mainer.ExitCode { return 65 }

// runtimeErr reports an uncaught interpreter.RuntimeError: file mode exits
// 70.
type runtimeErr struct{ err error }

func (e runtimeErr) Error() string             { return e.err.Error() }
func (e runtimeErr) Unwrap() error             { return e.err }
func (e runtimeErr) ExitCode() mainer.ExitCode { return 70 }

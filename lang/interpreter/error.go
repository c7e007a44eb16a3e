package interpreter

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/token"
)

// RuntimeError is raised by the interpreter for a dynamic failure: a type
// mismatch, a divide by zero, an unknown property, an arity mismatch. Its
// Position is already expanded (line, character) at the point the error
// was raised, so the driver can report it without holding on to a
// *token.FileSet of its own.
type RuntimeError struct {
	Position token.Position
	Msg      string
}

func (e *RuntimeError) Error() string { return e.Msg }

func (in *Interpreter) errorf(pos token.Pos, format string, args ...any) error {
	return &RuntimeError{Position: in.file.Position(pos), Msg: fmt.Sprintf(format, args...)}
}

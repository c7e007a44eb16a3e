package interpreter

// Callable is implemented by every value that can appear on the left of a
// call expression: native functions, user functions, lambdas, classes
// (construction), and bound methods.
type Callable interface {
	Value
	// Arity returns the number of arguments Call expects.
	Arity() int
	// Call invokes the callable with already-evaluated arguments.
	Call(in *Interpreter, args []Value) (Value, error)
}

// NativeFunction wraps a host Go function as a Lox callable, for builtins
// such as clock().
type NativeFunction struct {
	FnName string
	Arty   int
	Fn     func(in *Interpreter, args []Value) (Value, error)
}

var (
	_ Value    = (*NativeFunction)(nil)
	_ Callable = (*NativeFunction)(nil)
)

func (n *NativeFunction) String() string { return "<native fn>" }
func (n *NativeFunction) Type() string   { return "native function" }
func (n *NativeFunction) Truth() bool    { return true }
func (n *NativeFunction) Arity() int     { return n.Arty }
func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(in, args)
}

package interpreter

// ctrlKind distinguishes the three ways execStmt can finish: falling off
// the end, unwinding a break, or unwinding a return. It stands in for the
// exceptions the statement execution uses to implement break/return: every
// execStmt caller must check it and propagate anything it doesn't own.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlReturn
)

// ctrl is the control signal threaded out of statement execution. A
// ctrlReturn carries the returned Value; ctrlBreak and ctrlNone ignore it.
type ctrl struct {
	kind  ctrlKind
	value Value
}

var ctrlSignalNone = ctrl{kind: ctrlNone}
var ctrlSignalBreak = ctrl{kind: ctrlBreak}

func ctrlSignalReturn(v Value) ctrl { return ctrl{kind: ctrlReturn, value: v} }

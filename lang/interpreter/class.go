package interpreter

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Class is a Lox class value: a name, an optional superclass, and immutable
// method/static-method tables built once when the class statement executes.
type Class struct {
	Name          string
	Superclass    *Class
	methods       *swiss.Map[string, *Function]
	staticMethods *swiss.Map[string, *Function]
}

var (
	_ Value    = (*Class)(nil)
	_ Callable = (*Class)(nil)
)

func (c *Class) String() string { return c.Name }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() bool    { return true }

// Arity is the arity of the class's init method, or 0 if it declares none.
func (c *Class) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance: an empty field table plus a reference
// back to the class, then runs init (if declared) bound to it.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init, ok := c.findMethod("init"); ok {
		if _, err := init.bind(inst).Call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// findMethod looks up name on the class's own method table, then its
// superclass chain.
func (c *Class) findMethod(name string) (*Function, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if fn, ok := cls.methods.Get(name); ok {
			return fn, true
		}
	}
	return nil, false
}

// getStatic looks up a static method by name, returning it as a plain
// (unbound) Function value — static methods never see `this`.
func (c *Class) getStatic(name string) (Value, bool) {
	fn, ok := c.staticMethods.Get(name)
	return fn, ok
}

// Instance is a runtime object created by calling a Class. Its field map is
// mutable and unconstrained: any name can be assigned on it at any time.
type Instance struct {
	class  *Class
	fields *swiss.Map[string, Value]
}

var _ Value = (*Instance)(nil)

// NewInstance creates an instance of class with an empty field table.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: swiss.NewMap[string, Value](4)}
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.class.Name) }
func (i *Instance) Type() string   { return "instance" }
func (i *Instance) Truth() bool    { return true }

// Get implements property access: an instance's own fields shadow its
// class's methods.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields.Get(name); ok {
		return v, true
	}
	if fn, ok := i.class.findMethod(name); ok {
		return fn.bind(i), true
	}
	return nil, false
}

// Set writes a field unconditionally; new fields are created on assignment.
func (i *Instance) Set(name string, value Value) {
	i.fields.Put(name, value)
}

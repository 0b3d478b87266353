package eval

import (
	"fmt"
	"strings"

	"src.scenar.sh/pkg/parse"
)

// Operator is the callback of an operator. The operands are passed by
// pointer; when an operand is a variable, the value the callback leaves in it
// is stored back into the variable, which is how assignment operators work.
// A missing operand, like the right one of "$a++", is "".
type Operator func(left, right *string) string

// Function is the callback of a function.
type Function func(args []string) string

type operator struct {
	fn       Operator
	priority int
}

// AddOperator registers an operator. Operators with lower priorities are
// applied first; operators with equal priorities are applied from left to
// right.
//
// Registering an existing operator replaces its callback and priority. To
// extend an operator instead, get the old callback with Operator and call it
// from the new one.
func (ev *Evaler) AddOperator(name string, fn Operator, priority int) error {
	if err := parse.CheckName(name); err != nil {
		return fmt.Errorf("operator %q: %w", name, err)
	}
	ev.ops[name] = operator{fn, priority}
	ev.dirty = true
	return nil
}

// Operator returns the callback and priority of an operator.
func (ev *Evaler) Operator(name string) (Operator, int, bool) {
	op, ok := ev.ops[name]
	return op.fn, op.priority, ok
}

// AddFunction registers a function. Registering an existing function replaces
// it.
func (ev *Evaler) AddFunction(name string, fn Function) error {
	if err := parse.CheckName(name); err != nil {
		return fmt.Errorf("function %q: %w", name, err)
	}
	ev.fns[name] = fn
	ev.dirty = true
	return nil
}

// Function returns the callback of a function.
func (ev *Evaler) Function(name string) (Function, bool) {
	fn, ok := ev.fns[name]
	return fn, ok
}

// AddAttribute registers an attribute. Attributes can be written before
// operands and operators, and are only recorded; see Attributes.
func (ev *Evaler) AddAttribute(name string) error {
	if err := parse.CheckName(name); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	if !ev.attrs.Has(name) {
		ev.attrs.Add(name)
		ev.dirty = true
	}
	return nil
}

// SetMacro defines a macro, as if the script declared it with
// "#macro name{body}". Comments and whitespace outside string literals are
// removed from the body.
func (ev *Evaler) SetMacro(name, body string) error {
	if err := parse.CheckName(name); err != nil {
		return fmt.Errorf("macro %q: %w", name, err)
	}
	frag, err := parse.Strip(body)
	if err != nil {
		return fmt.Errorf("macro %q: %w", name, err)
	}
	ev.macros[name] = frag.Code
	ev.dirty = true
	return nil
}

// Macros returns a copy of all macros, including those declared by scripts.
func (ev *Evaler) Macros() map[string]string {
	macros := make(map[string]string, len(ev.macros))
	for name, body := range ev.macros {
		macros[name] = body
	}
	return macros
}

// Names returns the names of all operators, functions (including those
// declared by scripts), attributes and macros, each sorted.
func (ev *Evaler) Names() (ops, fns, attrs, macros []string) {
	fns = append(names(ev.fns), names(ev.closures)...)
	return names(ev.ops), fns, ev.attrs.Tokens(), names(ev.macros)
}

// Variables returns a copy of all variables of the innermost running Evaler.
func (ev *Evaler) Variables() map[string]string {
	a := ev.active()
	vars := make(map[string]string, len(a.vars))
	for name, value := range a.vars {
		vars[name] = value
	}
	return vars
}

// Variable returns the value of a variable of the innermost running Evaler.
func (ev *Evaler) Variable(name string) (string, bool) {
	value, ok := ev.active().vars[name]
	return value, ok
}

// SetVariable sets a variable of the innermost running Evaler, creating it
// if needed.
func (ev *Evaler) SetVariable(name, value string) error {
	if name == "" || strings.ContainsAny(name, "(){},;#\"$") {
		return fmt.Errorf("variable %q: %w", name, parse.ErrBadName)
	}
	ev.active().vars[name] = value
	return nil
}

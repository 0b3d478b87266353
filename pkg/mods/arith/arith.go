// Package arith implements integer arithmetic, comparison and assignment
// operators.
//
// Operands that are decimal integers are treated as numbers. Other operands
// are strings: "+" concatenates them, ">" and "<" compare their lengths, and
// the remaining arithmetic operators return "0".
package arith

import (
	"strconv"

	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/parse"
)

// Priorities of the operators.
const (
	Multiplicative = 0
	Additive       = 1
	Comparison     = 2
	Increment      = 4
	Assignment     = 100
)

// Install registers the operators on ev.
func Install(ev *eval.Evaler) error {
	ops := []struct {
		name     string
		fn       eval.Operator
		priority int
	}{
		{"*", binary(mul, zero), Multiplicative},
		{"/", binary(div, zero), Multiplicative},
		{"%", binary(mod, zero), Multiplicative},
		{"+", binary(add, concat), Additive},
		{"-", binary(sub, zero), Additive},
		{"==", compare(func(a, b string) bool { return a == b }), Comparison},
		{"!=", compare(func(a, b string) bool { return a != b }), Comparison},
		{">", order(func(c int) bool { return c > 0 }), Comparison},
		{"<", order(func(c int) bool { return c < 0 }), Comparison},
		{">=", order(func(c int) bool { return c >= 0 }), Comparison},
		{"<=", order(func(c int) bool { return c <= 0 }), Comparison},
		{"++", step(ev, 1), Increment},
		{"--", step(ev, -1), Increment},
		{"=", assign, Assignment},
		{"+=", update(binary(add, concat)), Assignment},
		{"-=", update(binary(sub, zero)), Assignment},
		{"*=", update(binary(mul, zero)), Assignment},
		{"/=", update(binary(div, zero)), Assignment},
	}
	for _, op := range ops {
		if err := ev.AddOperator(op.name, op.fn, op.priority); err != nil {
			return err
		}
	}
	return nil
}

// Atoi parses a decimal integer with an optional sign.
func Atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func mul(a, b int) int { return a * b }
func add(a, b int) int { return a + b }
func sub(a, b int) int { return a - b }

func div(a, b int) int {
	if b == 0 {
		return 0
	}
	return a / b
}

func mod(a, b int) int {
	if b == 0 {
		return 0
	}
	return a % b
}

func zero(string, string) string { return "0" }

func concat(a, b string) string { return a + b }

func binary(f func(a, b int) int, other func(a, b string) string) eval.Operator {
	return func(left, right *string) string {
		a, okA := Atoi(*left)
		b, okB := Atoi(*right)
		if okA && okB {
			return strconv.Itoa(f(a, b))
		}
		return other(*left, *right)
	}
}

func compare(f func(a, b string) bool) eval.Operator {
	return func(left, right *string) string { return boolString(f(*left, *right)) }
}

// Compares numbers by value and other strings by length.
func order(f func(c int) bool) eval.Operator {
	return func(left, right *string) string {
		a, okA := Atoi(*left)
		b, okB := Atoi(*right)
		if !okA || !okB {
			a, b = len(*left), len(*right)
		}
		switch {
		case a < b:
			return boolString(f(-1))
		case a > b:
			return boolString(f(1))
		}
		return boolString(f(0))
	}
}

func assign(left, right *string) string {
	*left = *right
	return *left
}

func update(op eval.Operator) eval.Operator {
	return func(left, right *string) string {
		*left = op(left, right)
		return *left
	}
}

// Returns the callback of "++" or "--". Written after a variable, the
// operator changes the variable and returns its old value; written before an
// operand, it changes the operand and returns the new value.
func step(ev *eval.Evaler, delta int) eval.Operator {
	return func(left, right *string) string {
		if postfix(ev) {
			old := *left
			n, _ := Atoi(old)
			*left = strconv.Itoa(n + delta)
			return old
		}
		n, _ := Atoi(*right)
		*right = strconv.Itoa(n + delta)
		return *right
	}
}

func postfix(ev *eval.Evaler) bool {
	n, ok := ev.CurrentNode()
	if !ok {
		return false
	}
	prev, ok := ev.NodeAt(n.ID - 1)
	return ok && prev.Kind == parse.Variable
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

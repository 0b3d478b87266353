// Package tt supports table-driven tests with little boilerplate.
//
// A test table is a list of cases, each built by chaining calls:
//
//	tt.Test(t, tt.Fn("Strip", parse.Strip), tt.Table{
//		tt.Args("a = 1").Rets("a=1", nil),
//	})
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Table represents a test table.
type Table []*Case

// Case represents a test case. It is created by the Args function, and offers
// setters that augment and return itself.
type Case struct {
	args []any
	rets []any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets modifies the test case so that it requires the return values to match
// the given values. Values implementing Matcher are matched with their Match
// method; other values are compared with cmp.Equal.
func (c *Case) Rets(matchers ...any) *Case {
	c.rets = matchers
	return c
}

// FnToTest describes a function to test.
type FnToTest struct {
	name string
	body any
}

// Fn makes a new FnToTest with the given function name and body.
func Fn(name string, body any) *FnToTest {
	return &FnToTest{name, body}
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test tests a function against test cases.
func Test(t T, fn *FnToTest, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		if !match(test.rets, rets) {
			t.Errorf("%s(%s) returns (-want +got):\n%s", fn.name,
				sprintCommaDelimited(test.args), cmp.Diff(test.rets, rets, cmpOpts...))
		}
	}
}

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }
func (anyMatcher) String() string      { return "<any>" }

func match(matchers, actual []any) bool {
	if len(matchers) != len(actual) {
		return false
	}
	for i, m := range matchers {
		if m, ok := m.(Matcher); ok {
			if !m.Match(actual[i]) {
				return false
			}
		} else if !cmp.Equal(m, actual[i], cmpOpts...) {
			return false
		}
	}
	return true
}

var cmpOpts = []cmp.Option{cmp.Comparer(errorEqual)}

func errorEqual(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Error() == b.Error()
}

func sprintCommaDelimited(args []any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%#v", arg)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	argsReflect := make([]reflect.Value, len(args))
	fnType := reflect.TypeOf(fn)
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) is the zero Value; use a typed nil instead.
			argsReflect[i] = reflect.Zero(paramType(fnType, i))
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}

func paramType(fnType reflect.Type, i int) reflect.Type {
	if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
		return fnType.In(fnType.NumIn() - 1).Elem()
	}
	return fnType.In(i)
}

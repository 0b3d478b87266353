// Package evaltest provides a framework for testing scripts.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("$a = 1; $a + 1").Returns("2"),
//	    That("$a = ").DoesNotParse())
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	setup  func(ev *eval.Evaler)
	verify func(t *testing.T, ev *eval.Evaler)
	want   result
}

type result struct {
	Value    *string
	Vars     map[string]string
	ParseErr errorMatcher
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// executed separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "1 + 1" evaluates to "2" reads:
//
//	That("1 + 1").Returns("2")
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that executes the given code in addition. Multiple
// arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Evaler before the code is executed.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// Passes returns an altered Case that runs an additional verification
// function after the code has been executed.
func (c Case) Passes(f func(t *testing.T, ev *eval.Evaler)) Case {
	c.verify = f
	return c
}

// Returns returns an altered Case that requires the last piece of code to
// evaluate to the given value.
func (c Case) Returns(value string) Case {
	c.want.Value = &value
	return c
}

// Sets returns an altered Case that requires the variable to have the given
// value after all the code has been executed.
func (c Case) Sets(name, value string) Case {
	vars := make(map[string]string, len(c.want.Vars)+1)
	for k, v := range c.want.Vars {
		vars[k] = v
	}
	vars[name] = value
	c.want.Vars = vars
	return c
}

// DoesNotParse returns an altered Case that requires some piece of the code
// to fail parsing.
func (c Case) DoesNotParse() Case {
	c.want.ParseErr = anyError{}
	return c
}

// DoesNotParseWith returns an altered Case that requires some piece of the
// code to fail parsing with an error whose message contains the given text.
func (c Case) DoesNotParseWith(text string) Case {
	c.want.ParseErr = errWithMessage{text}
	return c
}

// Test runs test cases. For each test case, a new Evaler is created with
// NewEvaler.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Evaler) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Evaler is created
// with NewEvaler and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Evaler), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			ev := eval.NewEvaler()
			setup(ev)
			if tc.setup != nil {
				tc.setup(ev)
			}

			value, parseErr := evalAll(ev, tc.codes)

			if tc.verify != nil {
				tc.verify(t, ev)
			}
			if tc.want.ParseErr == nil {
				if parseErr != nil {
					t.Fatalf("got parse error %v, want none", parseErr)
				}
			} else if !tc.want.ParseErr.matchError(parseErr) {
				t.Errorf("got parse error %v, want %v", parseErr, tc.want.ParseErr)
			}
			if tc.want.Value != nil && value != *tc.want.Value {
				t.Errorf("got value %q, want %q", value, *tc.want.Value)
			}
			for name, want := range tc.want.Vars {
				got, _ := ev.Variable(name)
				if got != want {
					t.Errorf("got $%s = %q, want %q", name, got, want)
				}
			}
		})
	}
}

// Evaluates each piece of code, returning the value of the last one and the
// last parse error.
func evalAll(ev *eval.Evaler, codes []string) (string, error) {
	var value string
	var parseErr error
	for _, code := range codes {
		v, err := ev.Eval(parse.Source{Name: "[test]", Code: code})
		if err != nil {
			parseErr = err
			continue
		}
		value = v
	}
	return value, parseErr
}

// VarsDiff returns a human-readable report of the differences between the
// variables of ev and want, or "" if there is none.
func VarsDiff(ev *eval.Evaler, want map[string]string) string {
	return cmp.Diff(want, ev.Variables())
}

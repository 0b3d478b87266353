// Package progtest contains utilities for testing [prog.Program]
// implementations by running them with arguments and checking their output
// and exit status.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.scenar.sh/pkg/must"
	"src.scenar.sh/pkg/prog"
)

// Case is a test case for Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit   int
	stdout output
	stderr output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + o.content
	}
	return o.content
}

// ThatScenar returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "scenar -c '1 +'" writes a parse
// error to stderr and exits with 2 can be written as:
//
//	ThatScenar("-c", "1 +").ExitsWith(2).WritesStderrContaining("parse error")
func ThatScenar(args ...string) Case {
	return Case{args: append([]string{"scenar"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations.
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit status.
func (c Case) ExitsWith(code int) Case {
	c.want.exit = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{s, false}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{s, true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{s, false}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{s, true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args[1:], " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exit != c.want.exit {
				t.Errorf("got exit %v, want %v", r.exit, c.want.exit)
			}
			if !matchOutput(r.stdout.content, c.want.stdout) {
				t.Errorf("got stdout %q, want %s", r.stdout.content, c.want.stdout)
			}
			if !matchOutput(r.stderr.content, c.want.stderr) {
				t.Errorf("got stderr %q, want %s", r.stderr.content, c.want.stderr)
			}
		})
	}
}

// Run runs a Program with the given arguments and stdin. It returns the
// program's exit status and its output to stdout and stderr.
func Run(p prog.Program, args []string, stdin string) (exit int, stdout, stderr string) {
	r := run(p, args, stdin)
	return r.exit, r.stdout.content, r.stderr.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	// Drain the outputs concurrently so that a program writing more than a
	// pipe buffer does not block.
	stdout, stderr := readAsync(r1), readAsync(r2)

	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return result{exit, output{content: <-stdout}, output{content: <-stderr}}
}

func readAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}

func matchOutput(got string, want output) bool {
	if want.partial {
		return strings.Contains(got, want.content)
	}
	return got == want.content
}

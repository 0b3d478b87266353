package shell

import (
	"fmt"
	"io"
	"strings"

	"src.scenar.sh/pkg/eval"
)

// Adds the functions that connect scripts to the shell: print writes its
// arguments to out, and exit stops the running script.
func addBuiltins(ev *eval.Evaler, out io.Writer) error {
	err := ev.AddFunction("print", func(args []string) string {
		s := strings.Join(args, " ")
		fmt.Fprintln(out, s)
		return s
	})
	if err != nil {
		return err
	}
	return ev.AddFunction("exit", func([]string) string {
		ev.Exit()
		return ""
	})
}

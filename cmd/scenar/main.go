// Scenar runs scripts written in a small language whose operators and
// functions are supplied by the host. This binary installs the base library
// modules, and can run scripts from files, arguments or stdin, run an
// interactive session, or serve as a language server.
package main

import (
	"io"
	"os"

	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/lsp"
	"src.scenar.sh/pkg/prog"
	"src.scenar.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			lsp.Program{NewEvaler: lspEvaler}, shell.Program{})))
}

// The language server checks scripts against the same registrations as the
// shell, but must not write to stdout.
func lspEvaler(f *prog.Flags) (*eval.Evaler, error) {
	rc, err := shell.LoadRC(f)
	if err != nil {
		return nil, err
	}
	return shell.NewEvaler(rc, io.Discard, nil)
}

// Package lsp implements a language server for scenar scripts.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/prog"
)

// Program is the LSP subprogram.
type Program struct {
	// Builds the Evaler whose registrations define the language the server
	// checks against. If nil, a bare Evaler is used.
	NewEvaler func(*prog.Flags) (*eval.Evaler, error)
}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.LSP {
		return prog.ErrNotSuitable
	}
	ev := eval.NewEvaler()
	if p.NewEvaler != nil {
		var err error
		ev, err = p.NewEvaler(f)
		if err != nil {
			return err
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer(ev)))
	<-conn.DisconnectNotify()
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}

// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoMatchingCmd is the error returned when a LastCmd or FirstCmd query
// completes with no result.
var ErrNoMatchingCmd = errors.New("no matching command line")

// ErrNoVar is returned by Var when there is no such variable.
var ErrNoVar = errors.New("no such variable")

// Store is an interface satisfied by the storage service.
type Store interface {
	NextCmdSeq() (int, error)
	AddCmd(text string) (int, error)
	DelCmd(seq int) error
	Cmd(seq int) (string, error)
	CmdsWithSeq(from, upto int) ([]Cmd, error)
	NextCmd(from int, prefix string) (Cmd, error)
	PrevCmd(upto int, prefix string) (Cmd, error)

	Var(name string) (string, error)
	SetVar(name, value string) error
	DelVar(name string) error
	Vars() (map[string]string, error)
}

// Cmd is an entry in the history of scripts and REPL lines.
type Cmd struct {
	Text string
	Seq  int
}

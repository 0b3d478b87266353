// Package shell is the entry point for running scripts from the command line,
// either from files, from arguments, from stdin or interactively.
package shell

import (
	"fmt"
	"io"
	"os"

	"src.scenar.sh/pkg/diag"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
	storemod "src.scenar.sh/pkg/mods/store"
	"src.scenar.sh/pkg/prog"
	"src.scenar.sh/pkg/store"
	"src.scenar.sh/pkg/store/storedefs"
	"src.scenar.sh/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct{}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.CodeInArg && len(args) == 0 {
		return prog.BadUsage("-c requires an argument")
	}
	if !sys.IsATTY(fds[2]) {
		diag.Plain()
	}
	rc, err := LoadRC(f)
	if err != nil {
		return err
	}

	interactive := len(args) == 0 && sys.IsATTY(fds[0])
	var st storedefs.Store
	if (interactive || len(rc.Persist) > 0) && !f.CompileOnly {
		db, err := openStore(f)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot open history database:", err)
		} else {
			defer db.Close()
			st = db
		}
	}
	ev, err := NewEvaler(rc, fds[1], st)
	if err != nil {
		return err
	}
	restore(ev, st, rc.Persist)

	if interactive {
		Interact(fds, &InteractConfig{Evaler: ev, Store: st, Persist: rc.Persist})
		return nil
	}
	return prog.Exit(script(ev, fds, args, &scriptCfg{
		Cmd: f.CodeInArg, CompileOnly: f.CompileOnly, JSON: f.JSON,
		Store: st, Persist: rc.Persist}))
}

// LoadRC reads the rc file named in f, or the default rc file. It returns an
// empty RC if -norc is given or the file does not exist.
func LoadRC(f *prog.Flags) (*RC, error) {
	if f.NoRc {
		return &RC{}, nil
	}
	path := f.RC
	if path == "" {
		var err error
		path, err = RCPath()
		if err != nil {
			logger.Println("cannot determine rc path:", err)
			return &RC{}, nil
		}
	}
	logger.Println("reading rc file", path)
	return ReadRC(path)
}

// NewEvaler creates an Evaler configured by rc, with print writing to out and
// the store functions working on st, which may be nil.
func NewEvaler(rc *RC, out io.Writer, st storedefs.Store) (*eval.Evaler, error) {
	ev := eval.NewEvaler()
	if err := addBuiltins(ev, out); err != nil {
		return nil, err
	}
	if err := storemod.Install(ev, st); err != nil {
		return nil, err
	}
	if err := rc.Apply(ev); err != nil {
		return nil, fmt.Errorf("rc: %w", err)
	}
	return ev, nil
}

func openStore(f *prog.Flags) (store.DBStore, error) {
	path := f.DB
	if path == "" {
		var err error
		path, err = DBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.NewStore(path)
}

// Sets the persisted variables saved in st.
func restore(ev *eval.Evaler, st storedefs.Store, names []string) {
	if st == nil {
		return
	}
	for _, name := range names {
		value, err := st.Var(name)
		if err != nil {
			continue
		}
		if err := ev.SetVariable(name, value); err != nil {
			logger.Printf("cannot restore $%s: %v", name, err)
		}
	}
}

// Saves the persisted variables of ev into st.
func persist(ev *eval.Evaler, st storedefs.Store, names []string) {
	if st == nil {
		return
	}
	for _, name := range names {
		value, ok := ev.Variable(name)
		if !ok {
			continue
		}
		if err := st.SetVar(name, value); err != nil {
			logger.Printf("cannot save $%s: %v", name, err)
		}
	}
}

// Package store gives scripts access to the saved variables and the history
// kept in a storedefs.Store.
//
//	save(name, value);   // returns value
//	saved(name);         // "" if not saved
//	forget(name);
//	history(seq);        // text of a history entry, "" if none
//	history_size();
//
// Without a store all functions return "".
package store

import (
	"strconv"

	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
	"src.scenar.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[mods/store] ")

type module struct{ s storedefs.Store }

// Install registers the functions on ev. The store may be nil.
func Install(ev *eval.Evaler, s storedefs.Store) error {
	m := module{s}
	fns := map[string]eval.Function{
		"save":         m.save,
		"saved":        m.saved,
		"forget":       m.forget,
		"history":      m.history,
		"history_size": m.historySize,
	}
	for name, fn := range fns {
		if err := ev.AddFunction(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (m module) save(args []string) string {
	if m.s == nil || len(args) < 2 {
		return ""
	}
	if err := m.s.SetVar(args[0], args[1]); err != nil {
		logger.Printf("save %s: %v", args[0], err)
		return ""
	}
	return args[1]
}

func (m module) saved(args []string) string {
	if m.s == nil || len(args) < 1 {
		return ""
	}
	value, err := m.s.Var(args[0])
	if err != nil && err != storedefs.ErrNoVar {
		logger.Printf("saved %s: %v", args[0], err)
	}
	return value
}

func (m module) forget(args []string) string {
	if m.s == nil || len(args) < 1 {
		return ""
	}
	if err := m.s.DelVar(args[0]); err != nil {
		logger.Printf("forget %s: %v", args[0], err)
	}
	return ""
}

func (m module) history(args []string) string {
	if m.s == nil || len(args) < 1 {
		return ""
	}
	seq, err := strconv.Atoi(args[0])
	if err != nil {
		return ""
	}
	text, _ := m.s.Cmd(seq)
	return text
}

func (m module) historySize(args []string) string {
	if m.s == nil {
		return ""
	}
	seq, err := m.s.NextCmdSeq()
	if err != nil {
		logger.Println("history_size:", err)
		return ""
	}
	return strconv.Itoa(seq - 1)
}

package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"src.scenar.sh/pkg/diag"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/parse"
	"src.scenar.sh/pkg/store/storedefs"
)

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	Evaler *eval.Evaler
	// Where lines are recorded. May be nil.
	Store storedefs.Store
	// Variables saved to Store after each line.
	Persist []string
}

var errNoHistory = errors.New("no history")

// Interact runs an interactive session. Each line is run as a script and its
// value, if not empty, is printed.
//
// A line of the form "!prefix" runs the last line in the history that starts
// with prefix instead, and "!!" runs the last line.
func Interact(fds [3]*os.File, cfg *InteractConfig) {
	ev := cfg.Evaler
	if ev == nil {
		ev = eval.NewEvaler()
	}
	var ed editor = newMinEditor(fds[0], fds[2])

	for cmdNum := 1; ; cmdNum++ {
		line, err := ed.ReadCode()
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "!") {
			line, err = recall(cfg.Store, line[1:])
			if err != nil {
				diag.Complain(fds[2], err.Error())
				continue
			}
			fmt.Fprintln(fds[2], line)
		}
		if cfg.Store != nil {
			if _, err := cfg.Store.AddCmd(line); err != nil {
				logger.Println("cannot add line to history:", err)
			}
		}

		value, err := ev.Eval(parse.Source{Name: fmt.Sprintf("[tty %v]", cmdNum), Code: line})
		if err != nil {
			diag.ShowError(fds[2], err)
			continue
		}
		if value != "" {
			fmt.Fprintln(fds[1], value)
		}
		persist(ev, cfg.Store, cfg.Persist)
	}
}

// Finds the last line in the history starting with prefix. The prefix "!"
// matches any line.
func recall(st storedefs.Store, prefix string) (string, error) {
	if st == nil {
		return "", errNoHistory
	}
	if prefix == "!" {
		prefix = ""
	}
	seq, err := st.NextCmdSeq()
	if err != nil {
		return "", err
	}
	cmd, err := st.PrevCmd(seq, prefix)
	if err == storedefs.ErrNoMatchingCmd {
		return "", fmt.Errorf("no history entry starting with %q", prefix)
	} else if err != nil {
		return "", err
	}
	return cmd.Text, nil
}

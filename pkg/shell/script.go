package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"src.scenar.sh/pkg/diag"
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/parse"
	"src.scenar.sh/pkg/store/storedefs"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool

	Store   storedefs.Store
	Persist []string
}

// Runs a script from a file, from the first argument or from stdin. The
// remaining arguments are bound to $0, $1 and so on.
func script(ev *eval.Evaler, fds [3]*os.File, args []string, cfg *scriptCfg) int {
	var name, code string
	switch {
	case cfg.Cmd:
		name, code = "code from -c", args[0]
		args = args[1:]
	case len(args) == 0:
		bytes, err := io.ReadAll(fds[0])
		if err != nil {
			fmt.Fprintln(fds[2], "cannot read script from stdin:", err)
			return 2
		}
		name, code = "[stdin]", string(bytes)
	default:
		var err error
		name, err = filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of script %q: %v\n", args[0], err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
		args = args[1:]
	}

	src := parse.Source{Name: name, Code: code}
	if cfg.CompileOnly {
		err := ev.Parse(src)
		if cfg.JSON {
			if err != nil {
				fmt.Fprintf(fds[1], "%s\n", errorToJSON(name, err))
			} else {
				fmt.Fprintf(fds[1], "%s\n", nodesToJSON(ev.Nodes()))
			}
		} else if err != nil {
			diag.ShowError(fds[2], err)
		}
		if err != nil {
			return 2
		}
		return 0
	}

	for i, arg := range args {
		ev.SetVariable(strconv.Itoa(i), arg)
	}
	_, err := ev.Eval(src)
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	persist(ev, cfg.Store, cfg.Persist)
	if cfg.Store != nil {
		if _, err := cfg.Store.AddCmd(code); err != nil {
			logger.Println("cannot add script to history:", err)
		}
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts a parse error into JSON. Errors without a position, like a failed
// balance check, are reported at offset 0.
func errorToJSON(name string, err error) []byte {
	converted := errorInJSON{FileName: name, Message: err.Error()}
	var parseErr *parse.Error
	if errors.As(err, &parseErr) {
		converted = errorInJSON{parseErr.Context.Name,
			parseErr.Context.From, parseErr.Context.To, parseErr.Message}
	}
	jsonError, errMarshal := json.Marshal([]errorInJSON{converted})
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}

func nodesToJSON(nodes []parse.Node) []byte {
	jsonNodes, err := json.Marshal(nodes)
	if err != nil {
		return []byte("[]")
	}
	return jsonNodes
}

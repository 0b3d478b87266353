// Package path provides functions for manipulating filesystem path names.
//
// The functions are named with a "path_" prefix, except for the predicates
// is_dir and is_regular, which return "1" or "0".
package path

import (
	"os"
	"path/filepath"

	"src.scenar.sh/pkg/eval"
)

// Fns maps the names of the functions to their callbacks.
var Fns = map[string]eval.Function{
	"path_abs":   abs,
	"path_base":  unary(filepath.Base),
	"path_clean": unary(filepath.Clean),
	"path_dir":   unary(filepath.Dir),
	"path_ext":   unary(filepath.Ext),
	"path_join":  join,
	"is_abs":     pred(filepath.IsAbs),
	"is_dir":     pred(isDir),
	"is_regular": pred(isRegular),
}

// Install registers the functions on ev.
func Install(ev *eval.Evaler) error {
	for name, fn := range Fns {
		if err := ev.AddFunction(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func unary(f func(string) string) eval.Function {
	return func(args []string) string { return f(arg(args, 0)) }
}

func pred(f func(string) bool) eval.Function {
	return func(args []string) string {
		if f(arg(args, 0)) {
			return "1"
		}
		return "0"
	}
}

func abs(args []string) string {
	p, err := filepath.Abs(arg(args, 0))
	if err != nil {
		return ""
	}
	return p
}

func join(args []string) string {
	return filepath.Join(args...)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsDir()
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

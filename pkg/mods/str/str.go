// Package str exposes functionality from Go's strings package as functions.
//
// Predicates return "1" or "0". Missing arguments are "".
package str

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"src.scenar.sh/pkg/eval"
)

// Fns maps the names of the functions to their callbacks.
var Fns = map[string]eval.Function{
	"contains":   pred(strings.Contains),
	"has_prefix": pred(strings.HasPrefix),
	"has_suffix": pred(strings.HasSuffix),
	"equal_fold": pred(strings.EqualFold),
	"index":      num(strings.Index),
	"last_index": num(strings.LastIndex),
	"count":      num(strings.Count),
	"to_upper":   unary(strings.ToUpper),
	"to_lower":   unary(strings.ToLower),
	"trim_space": unary(strings.TrimSpace),
	"trim":       binary(strings.Trim),
	"trim_left":  binary(strings.TrimLeft),
	"trim_right": binary(strings.TrimRight),
	"len":        length,
	"replace":    replace,
	"repeat":     repeat,
	"join":       join,
	"substr":     substr,
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

// Returns the i-th argument, or "" if there are not enough.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func pred(f func(a, b string) bool) eval.Function {
	return func(args []string) string {
		if f(arg(args, 0), arg(args, 1)) {
			return "1"
		}
		return "0"
	}
}

func num(f func(a, b string) int) eval.Function {
	return func(args []string) string {
		return strconv.Itoa(f(arg(args, 0), arg(args, 1)))
	}
}

func unary(f func(s string) string) eval.Function {
	return func(args []string) string { return f(arg(args, 0)) }
}

func binary(f func(a, b string) string) eval.Function {
	return func(args []string) string { return f(arg(args, 0), arg(args, 1)) }
}

// Counts code points, not bytes.
func length(args []string) string {
	return strconv.Itoa(utf8.RuneCountInString(arg(args, 0)))
}

// replace(s, old, new) replaces all instances of old.
func replace(args []string) string {
	return strings.ReplaceAll(arg(args, 0), arg(args, 1), arg(args, 2))
}

// repeat(s, n) returns "" when n is not a non-negative integer.
func repeat(args []string) string {
	n, err := strconv.Atoi(arg(args, 1))
	if err != nil || n < 0 {
		return ""
	}
	return strings.Repeat(arg(args, 0), n)
}

// join(sep, a, b, ...) joins the arguments after the first with it.
func join(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.Join(args[1:], args[0])
}

// substr(s, from, to) slices s by code points. A missing or invalid "to"
// means the end of s; indices are clamped to s.
func substr(args []string) string {
	s := []rune(arg(args, 0))
	from, err := strconv.Atoi(arg(args, 1))
	if err != nil || from < 0 {
		from = 0
	}
	to, err := strconv.Atoi(arg(args, 2))
	if err != nil || to > len(s) {
		to = len(s)
	}
	if from >= to {
		return ""
	}
	return string(s[from:to])
}

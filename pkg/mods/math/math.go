// Package math exposes functionality from Go's math package as functions.
//
// Unlike the arith operators, these functions accept decimal fractions.
// Arguments that are not numbers count as 0. Results are formatted without
// trailing zeros, so integral results look like integers.
package math

import (
	"math"
	"strconv"

	"src.scenar.sh/pkg/eval"
)

// Fns maps the names of the functions to their callbacks.
var Fns = map[string]eval.Function{
	"abs":   unary(math.Abs),
	"ceil":  unary(math.Ceil),
	"floor": unary(math.Floor),
	"round": unary(math.Round),
	"trunc": unary(math.Trunc),
	"sqrt":  unary(math.Sqrt),
	"log":   unary(math.Log),
	"pow":   binary(math.Pow),
	"max":   fold(math.Max),
	"min":   fold(math.Min),
	"pi":    constant(math.Pi),
	"e":     constant(math.E),
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

func parse(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func arg(args []string, i int) float64 {
	if i < len(args) {
		return parse(args[i])
	}
	return 0
}

func unary(f func(float64) float64) eval.Function {
	return func(args []string) string { return format(f(arg(args, 0))) }
}

func binary(f func(a, b float64) float64) eval.Function {
	return func(args []string) string { return format(f(arg(args, 0), arg(args, 1))) }
}

// Applies f to all arguments from left to right. With no arguments the result
// is "".
func fold(f func(a, b float64) float64) eval.Function {
	return func(args []string) string {
		if len(args) == 0 {
			return ""
		}
		acc := parse(args[0])
		for _, a := range args[1:] {
			acc = f(acc, parse(a))
		}
		return format(acc)
	}
}

func constant(f float64) eval.Function {
	return func([]string) string { return format(f) }
}

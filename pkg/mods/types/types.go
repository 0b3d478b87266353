// Package types lets scripts record type names for variables.
//
//	$a :: Int;
//	type($a);  // Int
//
// The type names are only recorded; nothing checks them.
package types

import (
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/parse"
)

// Priority of "::".
const DeclPriority = 0

type types struct {
	ev    *eval.Evaler
	names map[string]string
}

// Install registers the "::" operator and the type function on ev.
func Install(ev *eval.Evaler) error {
	t := &types{ev, make(map[string]string)}
	if err := ev.AddOperator("::", t.declare, DeclPriority); err != nil {
		return err
	}
	return ev.AddFunction("type", t.typeOf)
}

func (t *types) declare(left, right *string) string {
	op, ok := t.ev.CurrentNode()
	if !ok {
		return *left
	}
	if n, ok := t.ev.NodeAt(op.ID - 1); ok && n.Kind == parse.Variable {
		t.names[n.Text] = *right
	} else {
		t.names[*left] = *right
	}
	return *left
}

// Returns the type of the variable passed as the argument. If the argument is
// not a lone variable, its value is taken as the name of the variable.
func (t *types) typeOf(args []string) string {
	if len(args) == 0 {
		return ""
	}
	if fn, ok := t.ev.CurrentNode(); ok {
		arg, okA := t.ev.NodeAt(fn.ID + 1)
		v, okV := t.ev.NodeAt(fn.ID + 2)
		if okA && okV && arg.Kind == parse.Argument && arg.BodyEnd == v.ID && v.Kind == parse.Variable {
			return t.names[v.Text]
		}
	}
	return t.names[args[0]]
}

// Package structure implements structs with named fields on top of the "="
// and "." operators.
//
//	$s = Struct{name: "x", size: 1 + 1};
//	$s.size;       // "2"
//	$s.size = 3;
//	$s.color = 1;  // adds a field
//
// Fields that were never set read as "". Like containers, structs are
// identified by the name of their variable, and assigning any other value to
// that variable turns it back into a plain variable.
package structure

import (
	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
	"src.scenar.sh/pkg/mods/container"
	"src.scenar.sh/pkg/parse"
)

var logger = logutil.GetLogger("[structure] ")

type structs struct {
	ev     *eval.Evaler
	fields map[string]map[string]string
}

// Install registers the struct operators on ev. The "=" and "." callbacks
// registered before are used for values that are not structs.
func Install(ev *eval.Evaler) error {
	s := &structs{ev, make(map[string]map[string]string)}

	assign, _, _ := ev.Operator("=")
	if err := ev.AddOperator("=", s.assign(assign), 100); err != nil {
		return err
	}
	dot, _, _ := ev.Operator(".")
	return ev.AddOperator(".", s.dot(dot), container.MethodPriority)
}

func (s *structs) assign(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		if *right == "Struct" {
			if name, init, ok := s.declaration(); ok {
				s.fields[name] = container.EvalPairs(s.ev, init)
				logger.Printf("created struct %s with %d fields", name, len(s.fields[name]))
				*left = *right
				return *left
			}
		}
		if name, field, ok := s.fieldTarget(); ok {
			s.fields[name][field] = *right
			return *right
		}
		if name := s.node(-1, parse.Variable); name != "" {
			delete(s.fields, name)
		}
		if prev != nil {
			return prev(left, right)
		}
		*left = *right
		return *left
	}
}

func (s *structs) dot(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		if fields, ok := s.fields[s.node(-1, parse.Variable)]; ok {
			return fields[*right]
		}
		if prev != nil {
			return prev(left, right)
		}
		return *left + "." + *right
	}
}

// Returns the name of the variable and the initializer of the value in the
// assignment being executed.
func (s *structs) declaration() (name, init string, ok bool) {
	op, ok := s.ev.CurrentNode()
	if !ok {
		return "", "", false
	}
	variable, okL := s.ev.NodeAt(op.ID - 1)
	value, okR := s.ev.NodeAt(op.ID + 1)
	if !okL || !okR || variable.Kind != parse.Variable || value.Kind != parse.Value {
		return "", "", false
	}
	return variable.Text, value.Init, true
}

// Reports whether the assignment being executed writes a field, as in
// "$s.f = v", and returns the struct and the field.
func (s *structs) fieldTarget() (name, field string, ok bool) {
	field = s.node(-1, parse.Value)
	if field == "" || s.node(-2, parse.Operator) != "." {
		return "", "", false
	}
	name = s.node(-3, parse.Variable)
	_, ok = s.fields[name]
	return name, field, ok
}

// Returns the text of the node at the given offset from the node being
// executed if it has the given kind, or "".
func (s *structs) node(offset int, kind parse.Kind) string {
	op, ok := s.ev.CurrentNode()
	if !ok {
		return ""
	}
	n, ok := s.ev.NodeAt(op.ID + parse.NodeID(offset))
	if !ok || n.Kind != kind {
		return ""
	}
	return n.Text
}

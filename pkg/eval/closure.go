package eval

import (
	"strconv"

	"src.scenar.sh/pkg/parse"
)

// A function declared by a script with "function NAME { BODY }" is a closure:
// an Evaler of its own, with copies of the registries of the Evaler that
// declared it and a node table parsed from BODY.
//
// A call binds the arguments to the variables $0, $1, ... of the closure.
// Variables that exist both in the caller and in the closure are copied into
// the closure before the call and back after it; other variables of the
// closure are local to it and keep their values between calls.
//
// There is one Evaler per declared function. Recursive calls use the same
// Evaler, and therefore the same variables: a recursive call overwrites $0 of
// the call it is nested in. Reading the arguments before making a recursive
// call, as in "$0 * fact($0 - 1)", is safe.
//
// Closures are shared with forks of the Evaler that declared them.

// Collects the closures declared while parsing a script. They are only added
// to the declaring Evaler once the whole script has been parsed.
type declarer struct {
	parent   *Evaler
	src      parse.Source
	closures map[string]*Evaler
}

func newDeclarer(parent *Evaler, src parse.Source) *declarer {
	return &declarer{parent, src, make(map[string]*Evaler)}
}

func (d *declarer) declare(decl parse.FuncDecl) error {
	c := d.parent.forkRegistries(d.parent.sess)
	for name, sibling := range d.closures {
		c.closures[name] = sibling
	}
	c.macros = decl.Macros
	c.closures[decl.Name] = c

	inner := newDeclarer(c, d.src)
	tree, err := parse.ParseFragment(d.src, decl.Body, c.config(inner.declare))
	if err != nil {
		return err
	}
	c.install(decl.Body.Code, tree, inner.closures)
	d.closures[decl.Name] = c
	logger.Printf("declared function %s with %d nodes", decl.Name, len(tree.Nodes))
	return nil
}

func (ev *Evaler) callClosure(c *Evaler, args []string) string {
	for name := range c.vars {
		if value, ok := ev.vars[name]; ok && !isOrdinal(name) {
			c.vars[name] = value
		}
	}
	for i, arg := range args {
		c.vars[strconv.Itoa(i)] = arg
	}

	// The closure runs in the session of its caller, which differs from the
	// one it was declared in when the caller is a fork.
	last, current, sess := c.last, c.current, c.sess
	c.sess = ev.sess
	result := c.run()
	c.last, c.current, c.sess = last, current, sess

	for name, value := range c.vars {
		if _, ok := ev.vars[name]; ok && !isOrdinal(name) {
			ev.vars[name] = value
		}
	}
	return result
}

// Reports whether name is the name of an argument variable.
func isOrdinal(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

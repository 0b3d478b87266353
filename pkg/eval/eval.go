// Package eval evaluates scripts and keeps the registries that define the
// language.
//
// An Evaler starts out knowing no operators and no functions. The host
// registers them with AddOperator and AddFunction before running scripts, and
// may register more at any time; a registration causes the next script to be
// parsed again even if its text has not changed.
//
// All values are strings. Whether "2" is a number is up to the operators and
// functions that receive it.
//
// An Evaler is not safe for concurrent use. Callbacks run synchronously on
// the goroutine that called Run, and must not panic: the Evaler does not
// recover from panics in callbacks.
package eval

import (
	"errors"
	"fmt"
	"sort"

	"src.scenar.sh/pkg/logutil"
	"src.scenar.sh/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// ErrRunning is returned when a script is submitted to an Evaler that is
// already running one, for example from within a callback.
var ErrRunning = errors.New("evaler is already running a script")

// Evaler parses and runs scripts, and owns all state they create.
type Evaler struct {
	ops      map[string]operator
	fns      map[string]Function
	attrs    *parse.Matcher
	macros   map[string]string
	closures map[string]*Evaler

	vars map[string]string

	// Whether anything was registered since the last parse.
	dirty bool
	code  string
	tree  *parse.Tree
	plans map[parse.NodeID]*plan

	sess    *session
	running bool
	// Node whose callback is being called.
	current parse.NodeID
	// Value of the last expression statement.
	last string
	// Jump requested by the host.
	pending parse.NodeID
}

// State shared by an Evaler and the closures it declares.
type session struct {
	exit bool
	// Evalers currently running, innermost last.
	stack []*Evaler
}

func (s *session) push(ev *Evaler) { s.stack = append(s.stack, ev) }
func (s *session) pop()            { s.stack = s.stack[:len(s.stack)-1] }

// NewEvaler creates a new Evaler with empty registries.
func NewEvaler() *Evaler {
	return newEvaler(&session{})
}

func newEvaler(sess *session) *Evaler {
	return &Evaler{
		ops:      make(map[string]operator),
		fns:      make(map[string]Function),
		attrs:    &parse.Matcher{},
		macros:   make(map[string]string),
		closures: make(map[string]*Evaler),
		vars:     make(map[string]string),
		plans:    make(map[parse.NodeID]*plan),
		sess:     sess,
		current:  parse.NoNode,
		pending:  parse.NoNode,
	}
}

// Fork returns a new Evaler with copies of the registries and variables of
// ev. Closures declared in ev are shared. The script of ev is not copied.
func (ev *Evaler) Fork() *Evaler {
	fork := ev.forkRegistries(&session{})
	for name, value := range ev.vars {
		fork.vars[name] = value
	}
	return fork
}

func (ev *Evaler) forkRegistries(sess *session) *Evaler {
	fork := newEvaler(sess)
	for name, op := range ev.ops {
		fork.ops[name] = op
	}
	for name, fn := range ev.fns {
		fork.fns[name] = fn
	}
	fork.attrs = ev.attrs.Clone()
	for name, body := range ev.macros {
		fork.macros[name] = body
	}
	for name, c := range ev.closures {
		fork.closures[name] = c
	}
	return fork
}

// Returns the parser configuration for the current registries.
func (ev *Evaler) config(declare func(parse.FuncDecl) error) parse.Config {
	fnNames := append(names(ev.fns), names(ev.closures)...)
	return parse.Config{
		Operators:   parse.NewMatcher(names(ev.ops)...),
		Functions:   parse.NewMatcher(fnNames...),
		Attributes:  ev.attrs,
		Macros:      ev.macros,
		DeclareFunc: declare,
	}
}

func names[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses a script so that it can be run with Run.
//
// If the code is the same as that of the last successfully parsed script and
// nothing has been registered since, Parse does nothing. On failure, the last
// successfully parsed script is kept.
func (ev *Evaler) Parse(src parse.Source) error {
	if ev.running {
		return ErrRunning
	}
	if ev.tree != nil && !ev.dirty && src.Code == ev.code {
		logger.Printf("%s: not changed, skipping parse", src.Name)
		return nil
	}
	d := newDeclarer(ev, src)
	tree, err := parse.Parse(src, ev.config(d.declare))
	if err != nil {
		logger.Printf("%s: %v", src.Name, err)
		return err
	}
	ev.install(src.Code, tree, d.closures)
	logger.Printf("%s: parsed %d nodes", src.Name, len(tree.Nodes))
	return nil
}

// Check parses a script without keeping the result.
func (ev *Evaler) Check(src parse.Source) error {
	d := newDeclarer(ev, src)
	_, err := parse.Parse(src, ev.config(d.declare))
	return err
}

// Makes tree the current script.
func (ev *Evaler) install(code string, tree *parse.Tree, closures map[string]*Evaler) {
	ev.code, ev.tree, ev.dirty = code, tree, false
	ev.plans = make(map[parse.NodeID]*plan)
	ev.pending = parse.NoNode
	for name, c := range closures {
		ev.closures[name] = c
	}
	for name, body := range tree.Macros {
		ev.macros[name] = body
	}
	for _, name := range tree.Vars {
		if _, ok := ev.vars[name]; !ok {
			ev.vars[name] = ""
		}
	}
}

// Run runs the last successfully parsed script and returns the value of the
// last expression statement it executed. Results cached on the nodes by an
// earlier run are cleared first. It returns "" if no script has been
// parsed, or if Run is called from within a callback.
func (ev *Evaler) Run() string {
	if ev.tree == nil || ev.running {
		return ""
	}
	ev.sess.exit = false
	if len(ev.tree.Nodes) > 0 {
		ev.forget(0, parse.NodeID(len(ev.tree.Nodes)-1))
	}
	return ev.run()
}

// Eval parses and runs a script.
func (ev *Evaler) Eval(src parse.Source) (string, error) {
	if err := ev.Parse(src); err != nil {
		return "", err
	}
	return ev.Run(), nil
}

// Execute parses and runs a script. It returns the value of the script, or a
// description of the error if the script can't be parsed.
func (ev *Evaler) Execute(code string) string {
	value, err := ev.Eval(parse.Source{Name: "[script]", Code: code})
	if err != nil {
		return err.Error()
	}
	return value
}

// Exit makes the running script stop after the node being executed finishes.
// It is meant to be called from callbacks.
func (ev *Evaler) Exit() {
	ev.sess.exit = true
}

func (ev *Evaler) run() string {
	wasRunning := ev.running
	ev.running = true
	ev.sess.push(ev)
	defer func() {
		ev.sess.pop()
		ev.running = wasRunning
	}()

	ev.last = ""
	start := parse.NodeID(0)
	if ev.pending != parse.NoNode {
		start, ev.pending = ev.pending, parse.NoNode
	}
	sig := ev.walk(parse.Range{From: 0, To: parse.NodeID(len(ev.tree.Nodes))}, start)
	switch sig.flow {
	case breakLoop, continueLoop:
		logger.Printf("%s outside of a loop ends the script", sig.flow)
	case jump:
		if int(sig.target) != len(ev.tree.Nodes) {
			logger.Printf("jump to node %d outside of the script ends it", sig.target)
		}
	}
	return ev.last
}

// Returns the innermost running Evaler, which is the one callbacks see.
func (ev *Evaler) active() *Evaler {
	if n := len(ev.sess.stack); n > 0 {
		return ev.sess.stack[n-1]
	}
	return ev
}

func (ev *Evaler) String() string {
	if ev.tree == nil {
		return "<evaler>"
	}
	return fmt.Sprintf("<evaler %s>", ev.tree.Source.Name)
}

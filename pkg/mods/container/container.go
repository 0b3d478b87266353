// Package container implements vectors and maps on top of the "=" and "."
// operators.
//
// A container is created by assigning a Vector or Map value with an
// initializer to a variable:
//
//	$v = Vector{1, 2, 3};
//	$m = Map{a: 1, b: $x + 1};
//
// The items of the initializer are evaluated as scripts in a fork of the
// Evaler. Methods are called with ".", as in "$v.push_back(4)", and the ":"
// operator iterates over a container:
//
//	while ($x : $v) { ... }
//
// Containers are identified by the name of their variable. Assignments and
// method calls on other values are passed on to the callbacks that were
// registered before Install.
package container

import (
	"sort"
	"strconv"
	"strings"

	"src.scenar.sh/pkg/eval"
	"src.scenar.sh/pkg/logutil"
	"src.scenar.sh/pkg/parse"
)

var logger = logutil.GetLogger("[container] ")

// Priority of ".", which binds tighter than all arithmetic.
const MethodPriority = -1

// Priority of ":".
const IterPriority = 0

type containers struct {
	ev      *eval.Evaler
	vectors map[string][]string
	maps    map[string]map[string]string
}

// Install registers the container operators and methods on ev.
func Install(ev *eval.Evaler) error {
	c := &containers{ev, make(map[string][]string), make(map[string]map[string]string)}

	assign, _, _ := ev.Operator("=")
	if err := ev.AddOperator("=", c.assign(assign), 100); err != nil {
		return err
	}
	dot, _, _ := ev.Operator(".")
	if err := ev.AddOperator(".", c.dot(dot), MethodPriority); err != nil {
		return err
	}
	iter, _, _ := ev.Operator(":")
	if err := ev.AddOperator(":", c.iter(iter), IterPriority); err != nil {
		return err
	}

	methods := map[string]func(name string, args []string) string{
		"push_back": c.pushBack,
		"pop_back":  c.popBack,
		"insert":    c.insert,
		"erase":     c.erase,
		"size":      c.size,
		"empty":     c.empty,
		"clear":     c.clear,
		"at":        c.at,
		"set":       c.set,
	}
	for name, method := range methods {
		prev, _ := ev.Function(name)
		if err := ev.AddFunction(name, c.method(method, prev)); err != nil {
			return err
		}
	}
	return nil
}

func (c *containers) has(name string) bool {
	_, isVector := c.vectors[name]
	_, isMap := c.maps[name]
	return isVector || isMap
}

func (c *containers) assign(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		if *right == "Vector" || *right == "Map" {
			if name, init, ok := c.declaration(); ok {
				if *right == "Vector" {
					c.vectors[name] = c.evalItems(init)
					delete(c.maps, name)
				} else {
					c.maps[name] = c.evalPairs(init)
					delete(c.vectors, name)
				}
				logger.Printf("created %s %s", *right, name)
				*left = *right
				return *left
			}
		}
		if prev != nil {
			return prev(left, right)
		}
		*left = *right
		return *left
	}
}

// Returns the name of the variable and the initializer of the value in the
// assignment being executed. The initializer may be empty.
func (c *containers) declaration() (name, init string, ok bool) {
	op, ok := c.ev.CurrentNode()
	if !ok {
		return "", "", false
	}
	variable, okL := c.ev.NodeAt(op.ID - 1)
	value, okR := c.ev.NodeAt(op.ID + 1)
	if !okL || !okR || variable.Kind != parse.Variable || value.Kind != parse.Value {
		return "", "", false
	}
	return variable.Text, value.Init, true
}

func (c *containers) dot(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		if c.has(c.operandName(-1)) {
			return *right
		}
		if prev != nil {
			return prev(left, right)
		}
		return *left + "." + *right
	}
}

// Returns the name of the variable at the given offset from the node being
// executed, or "".
func (c *containers) operandName(offset int) string {
	op, ok := c.ev.CurrentNode()
	if !ok {
		return ""
	}
	n, ok := c.ev.NodeAt(op.ID + parse.NodeID(offset))
	if !ok || n.Kind != parse.Variable {
		return ""
	}
	return n.Text
}

// Returns the callback of ":". Each evaluation stores the next item of the
// container on the right in the variable on the left, and returns the
// position of the following item, or "0" once all items have been visited.
// The position is kept as the cached result of the operator node, so a loop
// condition "$x : $v" visits all items in turn. Entering the loop again
// clears it.
func (c *containers) iter(prev eval.Operator) eval.Operator {
	return func(left, right *string) string {
		name := c.operandName(1)
		if !c.has(name) {
			if prev != nil {
				return prev(left, right)
			}
			return *left + ":" + *right
		}
		op, _ := c.ev.CurrentNode()
		pos, err := strconv.Atoi(op.Result)
		if err != nil || pos < 0 {
			pos = 0
		}
		if v, ok := c.vectors[name]; ok {
			if pos >= len(v) {
				return "0"
			}
			*left = v[pos]
		} else {
			m := c.maps[name]
			if pos >= len(m) {
				return "0"
			}
			key := sortedKeys(m)[pos]
			*left = key + "\t" + m[key]
		}
		return strconv.Itoa(pos + 1)
	}
}

// Returns the callback of a method. The receiver is the variable before the
// "." preceding the call.
func (c *containers) method(f func(name string, args []string) string, prev eval.Function) eval.Function {
	return func(args []string) string {
		name := c.receiver()
		if c.has(name) {
			return f(name, args)
		}
		if prev != nil {
			return prev(args)
		}
		return ""
	}
}

func (c *containers) receiver() string {
	fn, ok := c.ev.CurrentNode()
	if !ok {
		return ""
	}
	if dot, ok := c.ev.NodeAt(fn.ID - 1); !ok || dot.Kind != parse.Operator || dot.Text != "." {
		return ""
	}
	recv, ok := c.ev.NodeAt(fn.ID - 2)
	if !ok || recv.Kind != parse.Variable {
		return ""
	}
	return recv.Text
}

func (c *containers) pushBack(name string, args []string) string {
	v, ok := c.vectors[name]
	if !ok {
		return "0"
	}
	c.vectors[name] = append(v, args...)
	return "1"
}

func (c *containers) popBack(name string, args []string) string {
	v, ok := c.vectors[name]
	if !ok || len(v) == 0 {
		return "0"
	}
	c.vectors[name] = v[:len(v)-1]
	return "1"
}

func (c *containers) insert(name string, args []string) string {
	if len(args) < 2 {
		return "0"
	}
	if m, ok := c.maps[name]; ok {
		m[args[0]] = args[1]
		return "1"
	}
	v := c.vectors[name]
	i, ok := index(args[0], len(v)+1)
	if !ok {
		return "0"
	}
	v = append(v, "")
	copy(v[i+1:], v[i:])
	v[i] = args[1]
	c.vectors[name] = v
	return "1"
}

func (c *containers) erase(name string, args []string) string {
	if len(args) < 1 {
		return "0"
	}
	if m, ok := c.maps[name]; ok {
		if _, ok := m[args[0]]; !ok {
			return "0"
		}
		delete(m, args[0])
		return "1"
	}
	v := c.vectors[name]
	i, ok := index(args[0], len(v))
	if !ok {
		return "0"
	}
	c.vectors[name] = append(v[:i], v[i+1:]...)
	return "1"
}

func (c *containers) size(name string, args []string) string {
	if m, ok := c.maps[name]; ok {
		return strconv.Itoa(len(m))
	}
	return strconv.Itoa(len(c.vectors[name]))
}

func (c *containers) empty(name string, args []string) string {
	if c.size(name, args) == "0" {
		return "1"
	}
	return "0"
}

func (c *containers) clear(name string, args []string) string {
	if _, ok := c.maps[name]; ok {
		c.maps[name] = make(map[string]string)
	} else {
		c.vectors[name] = nil
	}
	return "1"
}

func (c *containers) at(name string, args []string) string {
	if len(args) < 1 {
		return ""
	}
	if m, ok := c.maps[name]; ok {
		return m[args[0]]
	}
	v := c.vectors[name]
	if i, ok := index(args[0], len(v)); ok {
		return v[i]
	}
	return ""
}

func (c *containers) set(name string, args []string) string {
	if len(args) < 2 {
		return "0"
	}
	if m, ok := c.maps[name]; ok {
		if _, ok := m[args[0]]; !ok {
			return "0"
		}
		m[args[0]] = args[1]
		return "1"
	}
	v := c.vectors[name]
	i, ok := index(args[0], len(v))
	if !ok {
		return "0"
	}
	v[i] = args[1]
	return "1"
}

// Parses an index in [0, n).
func index(s string, n int) (int, bool) {
	i, err := strconv.Atoi(s)
	return i, err == nil && 0 <= i && i < n
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Evaluates each item of an initializer.
func (c *containers) evalItems(init string) []string {
	items := []string{}
	fork := c.ev.Fork()
	for _, item := range SplitItems(init) {
		items = append(items, evalItem(fork, item))
	}
	return items
}

func (c *containers) evalPairs(init string) map[string]string {
	return EvalPairs(c.ev, init)
}

// EvalPairs evaluates the values of the key:value pairs of an initializer in
// a fork of ev. Keys are taken as written; a pair without ':' sets the key to
// "".
func EvalPairs(ev *eval.Evaler, init string) map[string]string {
	pairs := make(map[string]string)
	fork := ev.Fork()
	for _, item := range SplitItems(init) {
		key, value, found := strings.Cut(item, ":")
		if found {
			pairs[key] = evalItem(fork, value)
		} else {
			pairs[key] = ""
		}
	}
	return pairs
}

func evalItem(ev *eval.Evaler, code string) string {
	value, err := ev.Eval(parse.Source{Name: "[initializer]", Code: code})
	if err != nil {
		logger.Printf("initializer item %q: %v", code, err)
		return ""
	}
	return value
}

// SplitItems splits an initializer at commas outside of brackets and string
// literals.
func SplitItems(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if j := strings.IndexByte(s[i+1:], '"'); j != -1 {
				i += j + 1
			}
		case '(', '{':
			depth++
		case ')', '}':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	return append(items, s[start:])
}

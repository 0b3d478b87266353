package eval

import (
	"sort"

	"src.scenar.sh/pkg/parse"
)

// An operator of an operator/operand run, with the nodes it applies to.
type opRef struct {
	id       parse.NodeID
	priority int
	// Operand nodes, or NoNode. The left operand may be another operator, in
	// which case the result of that operator is used, as in "$a++ + 1". The
	// right operand is never an operator.
	left, right parse.NodeID
}

// The operators of a run in the order they are applied. Plans only depend on
// the node table and the priorities, and are kept until the next parse.
type plan struct {
	r     parse.Range
	first parse.NodeID
	ops   []opRef
	// Index in ops of each operator node, by offset from r.From.
	index []int
}

func (ev *Evaler) plan(r parse.Range) *plan {
	if p, ok := ev.plans[r.From]; ok && p.r == r {
		return p
	}
	p := &plan{r: r, first: r.From, index: make([]int, r.Len())}
	nodes := ev.tree.Nodes
	var items []parse.NodeID
	for i := r.From; i < r.To; i = nodes[i].BodyEnd + 1 {
		items = append(items, i)
	}
	for k, id := range items {
		if nodes[id].Kind != parse.Operator {
			continue
		}
		op := opRef{id: id, left: parse.NoNode, right: parse.NoNode}
		if o, ok := ev.ops[nodes[id].Text]; ok {
			op.priority = o.priority
		}
		if k > 0 {
			op.left = items[k-1]
		}
		if k+1 < len(items) && nodes[items[k+1]].Kind != parse.Operator {
			op.right = items[k+1]
		}
		p.ops = append(p.ops, op)
	}
	sortOps(p.ops)
	for i := range p.index {
		p.index[i] = -1
	}
	for i, op := range p.ops {
		p.index[op.id-r.From] = i
	}
	ev.plans[r.From] = p
	return p
}

// Sorts operators by priority, keeping the order of operators with equal
// priorities. Runs rarely have more than a few operators.
func sortOps(ops []opRef) {
	less := func(i, j int) bool { return ops[i].priority < ops[j].priority }
	swap := func(i, j int) { ops[i], ops[j] = ops[j], ops[i] }
	switch n := len(ops); {
	case n <= 1:
	case n <= 3:
		if less(1, 0) {
			swap(0, 1)
		}
		if n == 3 {
			if less(2, 1) {
				swap(1, 2)
			}
			if less(1, 0) {
				swap(0, 1)
			}
		}
	case n < 10:
		for i := 1; i < n; i++ {
			for j := i; j > 0 && less(j, j-1); j-- {
				swap(j, j-1)
			}
		}
	default:
		sort.SliceStable(ops, less)
	}
}

// links is a union-find over the nodes of one run, valid for one evaluation
// of the run. An operand joins the set of the operator that consumes it, and
// the root of a set is the last operator applied to it, whose result is the
// value of the whole set.
type links struct {
	base   parse.NodeID
	parent []parse.NodeID
	done   []bool
}

func newLinks(r parse.Range) *links {
	l := &links{base: r.From, parent: make([]parse.NodeID, r.Len()), done: make([]bool, r.Len())}
	for i := range l.parent {
		l.parent[i] = r.From + parse.NodeID(i)
	}
	return l
}

func (l *links) find(id parse.NodeID) parse.NodeID {
	for {
		p := l.parent[id-l.base]
		if p == id {
			return id
		}
		// Path halving.
		gp := l.parent[p-l.base]
		l.parent[id-l.base] = gp
		id = gp
	}
}

func (l *links) join(id, root parse.NodeID) {
	l.parent[l.find(id)-l.base] = root
}

// Evaluates an operator/operand run.
func (ev *Evaler) calcExpression(r parse.Range) string {
	if r.Len() <= 0 {
		return ""
	}
	first := &ev.tree.Nodes[r.From]
	if first.Span().To == r.To {
		return ev.calcOperation(first)
	}
	p := ev.plan(r)
	l := newLinks(r)
	for i := range p.ops {
		ev.apply(p, &p.ops[i], l)
	}
	return ev.tree.Nodes[l.find(p.first)].Result
}

func (ev *Evaler) apply(p *plan, op *opRef, l *links) {
	if l.done[op.id-l.base] {
		return
	}
	l.done[op.id-l.base] = true
	left, leftVar := ev.operand(p, op.left, l)
	right, rightVar := ev.operand(p, op.right, l)

	n := &ev.tree.Nodes[op.id]
	n.Result = ev.callOperator(n, &left, &right)
	if leftVar != "" {
		ev.vars[leftVar] = left
	}
	if rightVar != "" {
		ev.vars[rightVar] = right
	}
	if op.left != parse.NoNode {
		l.join(op.left, op.id)
	}
	if op.right != parse.NoNode {
		l.join(op.right, op.id)
	}
}

// Returns the value of an operand, and the name of its variable if the
// operand is a variable that has not been consumed by another operator.
func (ev *Evaler) operand(p *plan, id parse.NodeID, l *links) (string, string) {
	if id == parse.NoNode {
		return "", ""
	}
	n := &ev.tree.Nodes[id]
	if n.Kind == parse.Operator {
		// An operator used as the left operand is applied first, regardless
		// of priorities.
		ev.apply(p, &p.ops[p.index[id-l.base]], l)
	}
	if root := l.find(id); root != id || n.Kind == parse.Operator {
		return ev.tree.Nodes[root].Result, ""
	}
	value := ev.calcOperation(n)
	if n.Kind == parse.Variable {
		return value, n.Text
	}
	return value, ""
}

func (ev *Evaler) callOperator(n *parse.Node, left, right *string) string {
	op, ok := ev.ops[n.Text]
	if !ok || op.fn == nil {
		logger.Printf("unknown operator %s at node %d", n.Text, n.ID)
		return ""
	}
	ev.current = n.ID
	return op.fn(left, right)
}

// Evaluates a node that can be an operand, and caches the result on it.
func (ev *Evaler) calcOperation(n *parse.Node) string {
	switch n.Kind {
	case parse.Variable:
		value, ok := ev.vars[n.Text]
		if !ok {
			ev.vars[n.Text] = ""
		}
		n.Result = value
	case parse.Value:
		n.Result = n.Text
	case parse.Expression, parse.Argument:
		n.Result = ev.calcExpression(n.Body())
	case parse.Function:
		n.Result = ev.call(n)
	case parse.Operator:
		var left, right string
		n.Result = ev.callOperator(n, &left, &right)
	default:
		logger.Printf("node %v is not an operand", n)
		return ""
	}
	return n.Result
}

// Calls a function with its arguments evaluated from left to right.
// Functions declared by the script take precedence over those registered by
// the host.
func (ev *Evaler) call(n *parse.Node) string {
	nodes := ev.tree.Nodes
	var args []string
	for i := n.ID + 1; i <= n.BodyEnd; i = nodes[i].BodyEnd + 1 {
		args = append(args, ev.calcOperation(&nodes[i]))
	}
	if c, ok := ev.closures[n.Text]; ok {
		return ev.callClosure(c, args)
	}
	fn, ok := ev.fns[n.Text]
	if !ok {
		logger.Printf("unknown function %s at node %d", n.Text, n.ID)
		return ""
	}
	ev.current = n.ID
	return fn(args)
}

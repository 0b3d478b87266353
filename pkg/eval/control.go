package eval

import (
	"strconv"

	"src.scenar.sh/pkg/parse"
)

// What to do after a node is executed.
type flow int

const (
	// Go on with the next node.
	next flow = iota
	breakLoop
	continueLoop
	// Go on with the node in signal.target.
	jump
	// Stop the script.
	exit
)

var flowNames = [...]string{
	next: "next", breakLoop: "break", continueLoop: "continue", jump: "jump", exit: "exit",
}

func (f flow) String() string { return flowNames[f] }

// Result of executing a node. Signals other than next propagate up the Go
// call stack until a walk or a loop handles them.
type signal struct {
	flow   flow
	target parse.NodeID
}

// State of the if/elseif/else chain that the walk is in.
type chain struct {
	head  parse.NodeID
	fired bool
}

// Executes the nodes of r, starting at from. A jump to a node in r continues
// from there; jumps elsewhere, breaks and continues are returned to the
// caller.
//
// A jump may land inside a nested node, for example in the middle of the body
// of an if. The rest of that body is then executed as if it were part of r.
func (ev *Evaler) walk(r parse.Range, from parse.NodeID) signal {
	ch := chain{head: parse.NoNode}
	for i := from; i < r.To; {
		if ev.sess.exit {
			return signal{flow: exit}
		}
		n := &ev.tree.Nodes[i]
		sig := ev.exec(n, &ch)
		if sig.flow == next && ev.pending != parse.NoNode {
			sig = signal{jump, ev.pending}
			ev.pending = parse.NoNode
		}
		switch sig.flow {
		case next:
			i = n.BodyEnd + 1
		case jump:
			if !r.Contains(sig.target) {
				return sig
			}
			logger.Printf("jumping from node %d to %d", i, sig.target)
			ev.forget(i, sig.target)
			i = sig.target
			ch = chain{head: parse.NoNode}
		default:
			return sig
		}
	}
	return signal{}
}

// Clears the results cached on the nodes between from and to, in either
// order, so that code jumped into does not see results of earlier passes.
func (ev *Evaler) forget(from, to parse.NodeID) {
	if from > to {
		from, to = to, from
	}
	for i := from; i <= to && int(i) < len(ev.tree.Nodes); i++ {
		ev.tree.Nodes[i].Result = ""
	}
}

// Executes one node at instruction level.
func (ev *Evaler) exec(n *parse.Node, ch *chain) signal {
	switch n.Kind {
	case parse.Expression:
		ev.last = ev.calcOperation(n)
	case parse.Sequence:
		body := n.Body()
		return ev.walk(body, body.From)
	case parse.If, parse.ElseIf, parse.Else, parse.While:
		return ev.calcCondition(n, ch)
	case parse.Break:
		return signal{flow: breakLoop}
	case parse.Continue:
		return signal{flow: continueLoop}
	case parse.Goto:
		if n.Target == parse.NoNode {
			logger.Printf("goto %s: label not resolved", n.Text)
			return signal{}
		}
		return signal{jump, n.Target}
	case parse.Macro:
		// Only marks where a macro was expanded.
	default:
		// Reached by a jump into the middle of an expression.
		ev.calcOperation(n)
	}
	return signal{}
}

// Executes a control node.
func (ev *Evaler) calcCondition(n *parse.Node, ch *chain) signal {
	switch n.Kind {
	case parse.If:
		fired := ev.test(n)
		*ch = chain{n.ID, fired}
		ev.markChain(n.ID, fired)
		if !fired {
			return signal{}
		}
		return ev.walkBody(n)
	case parse.ElseIf, parse.Else:
		if ev.chainFired(n, ch) {
			return signal{}
		}
		if n.Kind == parse.ElseIf && !ev.test(n) {
			return signal{}
		}
		*ch = chain{n.Chain, true}
		ev.markChain(n.Chain, true)
		n.Result = "1"
		return ev.walkBody(n)
	case parse.While:
		// Results cached by an earlier execution of the loop, such as the
		// cursor of an iteration, start over. Within one execution the
		// condition keeps its results and the body is cleared before each pass.
		ev.forget(n.ID, n.BodyEnd)
		body := n.Body()
		for {
			if ev.sess.exit {
				return signal{flow: exit}
			}
			if !ev.test(n) {
				return signal{}
			}
			if body.Len() > 0 {
				ev.forget(body.From, body.To-1)
			}
			sig := ev.walk(body, body.From)
			switch sig.flow {
			case breakLoop:
				return signal{}
			case next, continueLoop:
			default:
				return sig
			}
		}
	}
	return signal{}
}

func (ev *Evaler) walkBody(n *parse.Node) signal {
	body := n.Body()
	return ev.walk(body, body.From)
}

// Evaluates the condition of a control node and caches it on the node.
func (ev *Evaler) test(n *parse.Node) bool {
	n.Result = ev.calcExpression(n.Cond())
	return Truthy(n.Result)
}

// Reports whether a branch of the chain of n has already fired. The walk
// keeps track of the chain it is in; if n was reached by a jump, the result
// cached on the if that starts the chain is used instead.
func (ev *Evaler) chainFired(n *parse.Node, ch *chain) bool {
	if ch.head == n.Chain {
		return ch.fired
	}
	return n.Chain != parse.NoNode && ev.tree.Nodes[n.Chain].Result == "1"
}

func (ev *Evaler) markChain(head parse.NodeID, fired bool) {
	if fired {
		ev.tree.Nodes[head].Result = "1"
	} else {
		ev.tree.Nodes[head].Result = "0"
	}
}

// Truthy reports whether a value counts as true in a condition: a number is
// true if it is not zero, and any other value if it is not empty.
func Truthy(value string) bool {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f != 0
	}
	return value != ""
}

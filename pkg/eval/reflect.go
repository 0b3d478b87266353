package eval

import "src.scenar.sh/pkg/parse"

// The methods in this file give callbacks access to the node table of the
// innermost running Evaler, which is the closure being called if the callback
// was reached from one. Outside of Run they access the Evaler itself.
//
// A callback can use them to inspect its surroundings. For example, the
// callback of a function called as "$v.size()" finds the name "v" two nodes
// before the Function node returned by CurrentNode.

// Nodes returns a copy of the node table.
func (ev *Evaler) Nodes() []parse.Node {
	a := ev.active()
	if a.tree == nil {
		return nil
	}
	return append([]parse.Node(nil), a.tree.Nodes...)
}

// CurrentNode returns the Operator or Function node whose callback is being
// called, or was called last.
func (ev *Evaler) CurrentNode() (parse.Node, bool) {
	a := ev.active()
	return a.NodeAt(a.current)
}

// NodeAt returns the node with the given ID.
func (ev *Evaler) NodeAt(id parse.NodeID) (parse.Node, bool) {
	a := ev.active()
	if a.tree == nil || id < 0 || int(id) >= len(a.tree.Nodes) {
		return parse.Node{}, false
	}
	return a.tree.Nodes[id], true
}

// Attributes returns the attributes written before the node with the given
// ID.
func (ev *Evaler) Attributes(id parse.NodeID) []string {
	a := ev.active()
	if a.tree == nil {
		return nil
	}
	return append([]string(nil), a.tree.Attrs[id]...)
}

// JumpTo makes execution continue at the node with the given ID once the
// node being executed finishes. The ID may be the length of the node table,
// which ends the script. If no script is running, the next Run starts at the
// node.
func (ev *Evaler) JumpTo(id parse.NodeID) bool {
	a := ev.active()
	if a.tree == nil || id < 0 || int(id) > len(a.tree.Nodes) {
		return false
	}
	a.pending = id
	return true
}

// GotoLabel is like JumpTo, but jumps to a label of the script.
func (ev *Evaler) GotoLabel(name string) bool {
	a := ev.active()
	if a.tree == nil {
		return false
	}
	id, ok := a.tree.Labels[name]
	if !ok {
		logger.Printf("goto %s: no such label", name)
		return false
	}
	return a.JumpTo(id)
}

// Labels returns a copy of the labels of the script.
func (ev *Evaler) Labels() map[string]parse.NodeID {
	a := ev.active()
	if a.tree == nil {
		return nil
	}
	labels := make(map[string]parse.NodeID, len(a.tree.Labels))
	for name, id := range a.tree.Labels {
		labels[name] = id
	}
	return labels
}

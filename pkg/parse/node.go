package parse

import "fmt"

// NodeID is the index of a node in a node table.
type NodeID int

// NoNode is the NodeID used when a reference is absent.
const NoNode NodeID = -1

// Kind identifies the kind of a Node.
type Kind int

// Possible values of Kind.
const (
	// A bare {...} block of instructions.
	Sequence Kind = iota
	// An operator/operand run: an expression statement, a condition, or a
	// parenthesized subexpression.
	Expression
	Operator
	While
	If
	Else
	ElseIf
	Break
	Continue
	// A call of a native or script-defined function.
	Function
	// One element of a call's argument list.
	Argument
	// A marker left where a macro was expanded at instruction level.
	Macro
	Variable
	Value
	Goto
)

var kindNames = [...]string{
	Sequence:   "Sequence",
	Expression: "Expression",
	Operator:   "Operator",
	While:      "While",
	If:         "If",
	Else:       "Else",
	ElseIf:     "ElseIf",
	Break:      "Break",
	Continue:   "Continue",
	Function:   "Function",
	Argument:   "Argument",
	Macro:      "Macro",
	Variable:   "Variable",
	Value:      "Value",
	Goto:       "Goto",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name, so node tables dumped as JSON are
// readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is one entry of the flat node table. Nested structure is expressed by
// index ranges: a node's condition occupies (ID, CondEnd] and its body
// (CondEnd+1, BodyEnd]. Leaf nodes have CondEnd == BodyEnd == ID.
type Node struct {
	ID      NodeID
	Kind    Kind
	CondEnd NodeID
	BodyEnd NodeID
	// Variable name, literal text, operator symbol, function or macro name, or
	// label name of a goto.
	Text string
	// Raw text of a {...} initializer following a Variable or Value.
	Init string
	// For ElseIf and Else, the If that starts the chain.
	Chain NodeID
	// For Goto, the node to jump to. A target equal to the length of the table
	// means the end of the script.
	Target NodeID
	// Offset in the original source.
	Pos int

	// The last value computed for this node. Set during evaluation.
	Result string
}

// Range is a half-open range [From, To) of node IDs.
type Range struct {
	From, To NodeID
}

// Len returns the number of nodes in the range.
func (r Range) Len() int { return int(r.To - r.From) }

// Contains returns whether id lies within the range.
func (r Range) Contains(id NodeID) bool { return r.From <= id && id < r.To }

// Cond returns the range of the condition of the node.
func (n *Node) Cond() Range { return Range{n.ID + 1, n.CondEnd + 1} }

// Body returns the range of the body of the node. For Expression and Argument
// nodes this is the operator/operand run.
func (n *Node) Body() Range { return Range{n.CondEnd + 1, n.BodyEnd + 1} }

// Span returns the range of the node and everything nested in it.
func (n *Node) Span() Range { return Range{n.ID, n.BodyEnd + 1} }

func (n *Node) String() string {
	return fmt.Sprintf("%d:%s(%q)", n.ID, n.Kind, n.Text)
}

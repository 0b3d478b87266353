// Package parse implements the preprocessor and parser of the scenar
// scripting language.
//
// The parser produces a flat node table instead of a tree of pointers. A
// node's nested parts are the index ranges that follow it in the table; see
// Node for how the ranges are laid out.
//
// The grammar has no fixed operators or functions. Which tokens are operators,
// functions, attributes and macros is decided by the Config passed to Parse.
package parse

import (
	"src.scenar.sh/pkg/diag"
	"src.scenar.sh/pkg/errutil"
)

// Tree is the result of parsing a script.
type Tree struct {
	Source Source
	Nodes  []Node
	// Label name to the node that follows the label.
	Labels map[string]NodeID
	// Macros declared by the script.
	Macros map[string]string
	// Functions declared by the script, in order of declaration.
	Funcs []FuncDecl
	// Attributes attached to nodes.
	Attrs map[NodeID][]string
	// Names of referenced variables, in order of first reference.
	Vars []string
}

// FuncDecl is a function declared in a script with "function NAME {BODY}".
type FuncDecl struct {
	Name string
	Body Fragment
	// Macros visible at the point of declaration.
	Macros map[string]string
	Pos    int
}

// Config keeps the tokens known to the parser.
type Config struct {
	Operators  *Matcher
	Functions  *Matcher
	Attributes *Matcher
	// Macros defined outside the script.
	Macros map[string]string
	// DeclareFunc, if not nil, is called for each function declaration as
	// soon as it is parsed. An error aborts the parse and is returned as is.
	DeclareFunc func(FuncDecl) error
}

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

// ErrorTag returns "parse error".
func (ErrorTag) ErrorTag() string { return "parse error" }

// Error is a parse error, with the position in the original source.
type Error = diag.Error[ErrorTag]

// Parse preprocesses and parses a script. It returns a *MalformedError if the
// balance checks fail, or an *Error for the first parse error.
func Parse(src Source, cfg Config) (*Tree, error) {
	frag, err := Strip(src.Code)
	if err != nil {
		return nil, err
	}
	return ParseFragment(src, frag, cfg)
}

// ParseFragment parses an already stripped fragment of src. Error positions
// are reported through the offsets of the fragment.
func ParseFragment(src Source, frag Fragment, cfg Config) (t *Tree, err error) {
	defer errutil.Catch(&err)
	p := newParser(src, frag.Terminated(), cfg)
	p.parseSequence()
	if p.pos < len(p.code) {
		p.errorf(p.pos, "unexpected %q", p.peek())
	}
	p.resolveGotos()
	return p.tree, nil
}

package parse

import (
	"fmt"
	"strings"

	"src.scenar.sh/pkg/diag"
	"src.scenar.sh/pkg/errutil"
)

// Upper bound of macro expansions in one parse, reached by macros that
// expand to themselves.
const maxExpansions = 1000

type parser struct {
	src  Source
	code string
	offs []int
	pos  int

	ops   *Matcher
	attrs *Matcher
	// Functions known so far, including those declared by the script.
	funcs *Matcher
	// Macros known so far, including those declared by the script.
	macros     map[string]string
	macroNames *Matcher
	expansions int

	declare func(FuncDecl) error

	tree         *Tree
	gotos        []NodeID
	pendingAttrs []string
	varSeen      map[string]bool
}

func newParser(src Source, frag Fragment, cfg Config) *parser {
	p := &parser{
		src: src, code: frag.Code, offs: frag.Offsets,
		ops: cfg.Operators, attrs: cfg.Attributes, funcs: cfg.Functions.Clone(),
		macros: make(map[string]string), macroNames: &Matcher{},
		declare: cfg.DeclareFunc,
		tree: &Tree{
			Source: src,
			Labels: make(map[string]NodeID),
			Macros: make(map[string]string),
			Attrs:  make(map[NodeID][]string),
		},
		varSeen: make(map[string]bool),
	}
	for name, body := range cfg.Macros {
		p.defineMacro(name, body)
	}
	return p
}

func (p *parser) peek() byte {
	if p.pos < len(p.code) {
		return p.code[p.pos]
	}
	return 0
}

func (p *parser) rest() string { return p.code[p.pos:] }

func (p *parser) expect(c byte) {
	if p.peek() != c {
		p.errorf(p.pos, "expected %q", c)
	}
	p.pos++
}

// Raises a parse error at the original position of p.code[pos].
func (p *parser) errorf(pos int, format string, args ...any) {
	p.errorAt(p.offs[pos], format, args...)
}

// Raises a parse error at an offset in the original source.
func (p *parser) errorAt(offset int, format string, args ...any) {
	errutil.Throw(&Error{
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(p.src.Name, p.src.Code, diag.SpanRanging(offset, len(p.src.Code))),
	})
}

// Appends a leaf node at the current position, attaching pending attributes.
func (p *parser) add(kind Kind, text string) NodeID {
	id := NodeID(len(p.tree.Nodes))
	p.tree.Nodes = append(p.tree.Nodes, Node{
		ID: id, Kind: kind, CondEnd: id, BodyEnd: id, Text: text,
		Chain: NoNode, Target: NoNode, Pos: p.offs[p.pos],
	})
	if len(p.pendingAttrs) > 0 {
		p.tree.Attrs[id] = p.pendingAttrs
		p.pendingAttrs = nil
	}
	return id
}

// Sets the end of the node's body to the last node added.
func (p *parser) close(id NodeID) {
	p.tree.Nodes[id].BodyEnd = p.last()
}

func (p *parser) last() NodeID { return NodeID(len(p.tree.Nodes) - 1) }

func (p *parser) addVar(name string) {
	if !p.varSeen[name] {
		p.varSeen[name] = true
		p.tree.Vars = append(p.tree.Vars, name)
	}
}

// Returns the index of the bracket closing the one at pos, skipping string
// literals.
func (p *parser) matchClose(pos int) int {
	open := p.code[pos]
	closer := byte(')')
	if open == '{' {
		closer = '}'
	}
	depth := 0
	for i := pos; i < len(p.code); i++ {
		switch c := p.code[i]; c {
		case '"':
			j := strings.IndexByte(p.code[i+1:], '"')
			if j == -1 {
				p.errorf(i, "unterminated string literal")
			}
			i += j + 1
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	p.errorf(pos, "unmatched %q", open)
	panic("unreachable")
}

// Returns the end of a bare token starting at pos: the first structural
// character or operator occurrence.
func (p *parser) tokenEnd(pos int) int {
	end := pos
	for end < len(p.code) && !isStructural(p.code[end]) {
		end++
	}
	if i, _ := p.ops.Scan(p.code[:end], pos); i != -1 {
		end = i
	}
	return end
}

// Returns the identifier starting at pos.
func (p *parser) ident(pos int) string {
	end := pos
	for end < len(p.code) && isIdentByte(p.code[end]) {
		end++
	}
	return p.code[pos:end]
}

// Replaces p.code[from:to] with text. The inserted bytes are mapped to the
// original position of p.code[from].
func (p *parser) splice(from, to int, text string) {
	p.code = p.code[:from] + text + p.code[to:]
	offs := make([]int, 0, from+len(text)+len(p.offs)-to)
	offs = append(offs, p.offs[:from]...)
	for i := 0; i < len(text); i++ {
		offs = append(offs, p.offs[from])
	}
	offs = append(offs, p.offs[to:]...)
	p.offs = offs
}

func (p *parser) resolveGotos() {
	for _, id := range p.gotos {
		n := &p.tree.Nodes[id]
		target, ok := p.tree.Labels[n.Text]
		if !ok {
			p.errorAt(n.Pos, "unknown label %s", n.Text)
		}
		n.Target = target
	}
}

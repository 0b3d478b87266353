package parse

import (
	"strings"

	"src.scenar.sh/pkg/errutil"
)

// Parses instructions until a '}' or the end of the code.
func (p *parser) parseSequence() {
	chain := NoNode
	for p.pos < len(p.code) && p.peek() != '}' {
		p.parseStatement(&chain)
	}
}

// Parses one instruction. *chain is the If that an ElseIf or Else at this
// point would continue, or NoNode.
func (p *parser) parseStatement(chain *NodeID) {
	prev := *chain
	*chain = NoNode
	switch c := p.peek(); c {
	case ';':
		p.pos++
		*chain = prev
		return
	case '{':
		id := p.add(Sequence, "")
		p.parseBlock()
		p.close(id)
		return
	case '#':
		p.parseHash()
		return
	}

	switch kw := p.keyword(); kw {
	case "while":
		id := p.add(While, kw)
		p.pos += len(kw)
		p.parseCond(id)
		p.parseBody()
		p.close(id)
	case "if":
		id := p.add(If, kw)
		p.pos += len(kw)
		p.parseCond(id)
		p.parseBody()
		p.close(id)
		*chain = id
	case "elseif", "else":
		if prev == NoNode {
			p.errorf(p.pos, "%s without if", kw)
		}
		kind := Else
		if kw == "elseif" {
			kind = ElseIf
		}
		id := p.add(kind, kw)
		p.tree.Nodes[id].Chain = prev
		p.pos += len(kw)
		if kind == ElseIf {
			p.parseCond(id)
			*chain = prev
		}
		p.parseBody()
		p.close(id)
	case "break", "continue":
		kind := Break
		if kw == "continue" {
			kind = Continue
		}
		p.add(kind, kw)
		p.pos += len(kw)
		p.endSimple()
	case "goto":
		name := p.ident(p.pos + len(kw))
		id := p.add(Goto, name)
		p.gotos = append(p.gotos, id)
		p.pos += len(kw) + len(name)
		p.endSimple()
	case "label":
		name := p.ident(p.pos)
		if _, dup := p.tree.Labels[name]; dup {
			p.errorf(p.pos, "duplicate label %s", name)
		}
		p.tree.Labels[name] = NodeID(len(p.tree.Nodes))
		p.pos += len(name) + 1
		for p.peek() == ';' {
			p.pos++
		}
		if p.peek() == '}' {
			// A label that ends a block needs a node inside the block to
			// jump to; an empty block serves as one.
			p.add(Sequence, "")
		}
	case "function":
		p.parseFuncDecl()
	default:
		p.parseExprStatement()
	}
}

// Returns the keyword at the current position: one of the keywords, "label"
// for a label definition, or "". A keyword is not recognized when a function
// with a longer name matches.
func (p *parser) keyword() string {
	rest := p.rest()
	kw := ""
	switch {
	case strings.HasPrefix(rest, "while("):
		kw = "while"
	case strings.HasPrefix(rest, "if("):
		kw = "if"
	case strings.HasPrefix(rest, "elseif("):
		kw = "elseif"
	case strings.HasPrefix(rest, "else"):
		kw = "else"
	case strings.HasPrefix(rest, "break") && endsSimple(rest[len("break"):]):
		kw = "break"
	case strings.HasPrefix(rest, "continue") && endsSimple(rest[len("continue"):]):
		kw = "continue"
	case strings.HasPrefix(rest, "goto") && len(p.ident(p.pos+len("goto"))) > 0:
		kw = "goto"
	case strings.HasPrefix(rest, "function") && len(p.ident(p.pos+len("function"))) > 0:
		kw = "function"
	case strings.HasPrefix(rest, "l_"):
		name := p.ident(p.pos)
		if end := p.pos + len(name); len(name) > 2 && end < len(p.code) && p.code[end] == ':' &&
			(end+1 == len(p.code) || p.code[end+1] != ':') {
			return "label"
		}
	}
	if kw != "" && len(p.funcs.Prefix(p.code, p.pos)) > len(kw) {
		return ""
	}
	return kw
}

func endsSimple(rest string) bool {
	return rest == "" || rest[0] == ';' || rest[0] == '}'
}

// Consumes the end of a break, continue or goto.
func (p *parser) endSimple() {
	switch p.peek() {
	case ';':
		p.pos++
	case '}':
	default:
		p.errorf(p.pos, "expected ';'")
	}
}

// Parses a parenthesized condition into an Expression node following the
// control node id, and sets the end of the condition of id.
func (p *parser) parseCond(id NodeID) {
	p.expect('(')
	expr := p.add(Expression, "")
	p.parseExpr()
	if p.last() == expr {
		p.errorf(p.pos, "empty condition")
	}
	p.close(expr)
	p.expect(')')
	p.tree.Nodes[id].CondEnd = p.last()
}

// Parses the body of a control structure: a block, a single instruction, or a
// lone ';'.
func (p *parser) parseBody() {
	switch p.peek() {
	case '{':
		p.parseBlock()
	case ';':
		p.pos++
	case '}', 0:
		p.errorf(p.pos, "missing body")
	default:
		chain := NoNode
		p.parseStatement(&chain)
	}
}

func (p *parser) parseBlock() {
	p.expect('{')
	p.parseSequence()
	p.expect('}')
}

func (p *parser) parseExprStatement() {
	id := p.add(Expression, "")
	p.parseExpr()
	p.close(id)
	switch c := p.peek(); c {
	case ';':
		p.pos++
	case '}':
		// The statement ends the enclosing block.
	default:
		p.errorf(p.pos, "unexpected %q", c)
	}
}

func (p *parser) parseFuncDecl() {
	start := p.pos
	p.pos += len("function")
	name := p.ident(p.pos)
	if err := CheckName(name); err != nil {
		p.errorf(p.pos, "bad function name %s: %v", name, err)
	}
	p.pos += len(name)
	if p.peek() != '{' {
		p.errorf(p.pos, "expected '{' after function name")
	}
	end := p.matchClose(p.pos)
	decl := FuncDecl{
		Name:   name,
		Body:   Fragment{p.code, p.offs}.Slice(p.pos+1, end),
		Macros: p.visibleMacros(),
		Pos:    p.offs[start],
	}
	p.pos = end + 1
	p.funcs.Add(name)
	p.tree.Funcs = append(p.tree.Funcs, decl)
	if p.declare != nil {
		if err := p.declare(decl); err != nil {
			errutil.Throw(err)
		}
	}
}

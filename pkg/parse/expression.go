package parse

import "strings"

func isTerminator(c byte) bool {
	return c == ';' || c == ')' || c == '}' || c == ','
}

// Parses an operator/operand run, stopping before one of ";)}," or at the end
// of the code. The caller checks the terminator.
func (p *parser) parseExpr() {
	lastOperand := false
	for p.pos < len(p.code) && !isTerminator(p.peek()) {
		if p.peek() == '#' {
			if p.isMacroDecl() {
				p.errorf(p.pos, "macro declaration inside expression")
			}
			p.expandMacro()
			continue
		}
		if attr := p.attribute(); attr != "" {
			p.pendingAttrs = append(p.pendingAttrs, attr)
			p.pos += len(attr)
			continue
		}
		start := p.pos
		if op := p.operatorAt(); op != "" {
			p.add(Operator, op)
			p.pos += len(op)
			lastOperand = false
			continue
		}
		if lastOperand {
			p.errorf(start, "should be operator")
		}
		p.parseOperand()
		lastOperand = true
	}
	if len(p.pendingAttrs) > 0 {
		p.errorf(p.pos, "attribute %s not followed by an operand or operator", p.pendingAttrs[0])
	}
}

// Returns the operator at the current position, or "" if there is none or a
// function call matches instead.
func (p *parser) operatorAt() string {
	if p.peek() == '$' || p.peek() == '"' || p.peek() == '(' {
		return ""
	}
	if p.funcAt() != "" {
		return ""
	}
	return p.ops.Prefix(p.code, p.pos)
}

// Returns the function whose call starts at the current position, or "".
func (p *parser) funcAt() string {
	fn := p.funcs.Prefix(p.code, p.pos)
	if fn == "" {
		return ""
	}
	if end := p.pos + len(fn); end < len(p.code) && p.code[end] == '(' {
		return fn
	}
	return ""
}

// Returns the attribute at the current position, unless a longer function or
// operator matches.
func (p *parser) attribute() string {
	attr := p.attrs.Prefix(p.code, p.pos)
	if attr == "" || len(p.funcAt()) > len(attr) || len(p.ops.Prefix(p.code, p.pos)) > len(attr) {
		return ""
	}
	return attr
}

func (p *parser) parseOperand() {
	switch c := p.peek(); {
	case c == '$':
		p.parseVariable()
	case c == '"':
		p.parseQuoted()
	case c == '(':
		id := p.add(Expression, "")
		p.pos++
		p.parseExpr()
		if p.last() == id {
			p.errorf(p.pos, "empty parentheses")
		}
		p.close(id)
		p.expect(')')
	case c == '{':
		p.errorf(p.pos, "unexpected '{'")
	default:
		if fn := p.funcAt(); fn != "" {
			p.parseCall(fn)
		} else {
			p.parseValue()
		}
	}
}

func (p *parser) parseVariable() {
	end := p.tokenEnd(p.pos + 1)
	name := p.code[p.pos+1 : end]
	if name == "" {
		p.errorf(p.pos, "empty variable name")
	}
	id := p.add(Variable, name)
	p.addVar(name)
	p.pos = end
	switch p.peek() {
	case '{':
		p.parseInit(id)
	case '(':
		p.errorf(p.pos, "unexpected '(' after variable $%s", name)
	}
}

func (p *parser) parseValue() {
	end := p.tokenEnd(p.pos)
	if end == p.pos {
		p.errorf(p.pos, "unexpected %q", p.peek())
	}
	text := p.code[p.pos:end]
	id := p.add(Value, text)
	p.pos = end
	switch p.peek() {
	case '{':
		p.parseInit(id)
	case '(':
		p.errorf(p.pos-len(text), "unknown function %s", text)
	}
}

// Parses a string literal. The quotes are not part of the value.
func (p *parser) parseQuoted() {
	end := strings.IndexByte(p.code[p.pos+1:], '"')
	if end == -1 {
		p.errorf(p.pos, "unterminated string literal")
	}
	end += p.pos + 1
	p.add(Value, p.code[p.pos+1:end])
	p.pos = end + 1
}

// Parses a {...} initializer following a Variable or Value. The text between
// the braces is kept unparsed.
func (p *parser) parseInit(id NodeID) {
	end := p.matchClose(p.pos)
	p.tree.Nodes[id].Init = p.code[p.pos+1 : end]
	p.pos = end + 1
}

// Parses a function call and its comma-separated arguments. Each argument is
// an Argument node followed by its operator/operand run.
func (p *parser) parseCall(fn string) {
	id := p.add(Function, fn)
	p.pos += len(fn)
	p.expect('(')
	if p.peek() == ')' {
		p.pos++
		return
	}
	for {
		arg := p.add(Argument, "")
		p.parseExpr()
		if p.last() == arg {
			p.errorf(p.pos, "empty argument")
		}
		p.close(arg)
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			p.close(id)
			return
		default:
			p.errorf(p.pos, "expected ',' or ')'")
		}
	}
}

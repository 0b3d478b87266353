package parse

import (
	"strconv"
	"strings"
)

const macroKeyword = "macro"

func (p *parser) defineMacro(name, body string) {
	p.macros[name] = body
	p.macroNames.Add(name)
}

func (p *parser) visibleMacros() map[string]string {
	macros := make(map[string]string, len(p.macros))
	for name, body := range p.macros {
		macros[name] = body
	}
	return macros
}

// Parses a '#' at instruction level: a macro declaration, or a macro
// reference that is expanded in place and marked with a Macro node.
func (p *parser) parseHash() {
	if p.isMacroDecl() {
		p.parseMacroDecl()
		return
	}
	name := p.expandMacro()
	p.add(Macro, name)
}

func (p *parser) isMacroDecl() bool {
	return strings.HasPrefix(p.code[p.pos+1:], macroKeyword) &&
		len(p.macroNames.Prefix(p.code, p.pos+1)) <= len(macroKeyword)
}

func (p *parser) parseMacroDecl() {
	p.pos += 1 + len(macroKeyword)
	name := p.ident(p.pos)
	if err := CheckName(name); err != nil {
		p.errorf(p.pos, "bad macro name %s: %v", name, err)
	}
	p.pos += len(name)
	if p.peek() != '{' {
		p.errorf(p.pos, "expected '{' after macro name")
	}
	end := p.matchClose(p.pos)
	body := p.code[p.pos+1 : end]
	p.pos = end + 1
	p.defineMacro(name, body)
	p.tree.Macros[name] = body
}

// Replaces the macro reference at the current position with its expansion and
// returns the name of the macro. The position does not change, so parsing
// continues with the expanded text.
func (p *parser) expandMacro() string {
	hash := p.pos
	name := p.macroNames.Prefix(p.code, hash+1)
	if name == "" {
		p.errorf(hash, "unknown macro %s", p.ident(hash+1))
	}
	end := hash + 1 + len(name)
	var args []string
	if end < len(p.code) && p.code[end] == '(' {
		closer := p.matchClose(end)
		args = splitArgs(p.code[end+1 : closer])
		end = closer + 1
	}
	p.expansions++
	if p.expansions > maxExpansions {
		p.errorf(hash, "too many macro expansions; is macro %s recursive?", name)
	}
	p.splice(hash, end, substitute(p.macros[name], args))
	return name
}

// Substitutes $N in body with the N-th argument, counting from 1. Placeholders
// without a corresponding argument are kept.
func substitute(body string, args []string) string {
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '$' {
			j := i + 1
			for j < len(body) && '0' <= body[j] && body[j] <= '9' {
				j++
			}
			if n, err := strconv.Atoi(body[i+1 : j]); err == nil && 1 <= n && n <= len(args) {
				sb.WriteString(args[n-1])
				i = j - 1
				continue
			}
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}

// Splits macro arguments at commas that are not nested in brackets or string
// literals.
func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	var args []string
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
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

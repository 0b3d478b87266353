package parse

import "strings"

// MalformedError is returned when a script fails the balance checks that run
// before parsing. It carries no position.
type MalformedError struct {
	Problems []string
}

func (e *MalformedError) Error() string {
	return "malformed script: " + strings.Join(e.Problems, ", ")
}

// Strip removes "//" comments and all whitespace outside double-quoted string
// literals, and checks that quotes, braces and parentheses are balanced.
// Braces and parentheses inside string literals are not counted.
func Strip(code string) (Fragment, error) {
	var sb strings.Builder
	offsets := make([]int, 0, len(code)+1)
	var braces, parens int
	inString := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		if inString {
			sb.WriteByte(c)
			offsets = append(offsets, i)
			if c == '"' {
				inString = false
			}
			continue
		}
		switch {
		case c == '/' && i+1 < len(code) && code[i+1] == '/':
			for i < len(code) && code[i] != '\n' {
				i++
			}
			continue
		case isSpace(c):
			continue
		case c == '"':
			inString = true
		case c == '{':
			braces++
		case c == '}':
			braces--
		case c == '(':
			parens++
		case c == ')':
			parens--
		}
		sb.WriteByte(c)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(code))

	var problems []string
	if inString {
		problems = append(problems, "unterminated string literal")
	}
	if braces != 0 {
		problems = append(problems, "unbalanced braces")
	}
	if parens != 0 {
		problems = append(problems, "unbalanced parentheses")
	}
	if problems != nil {
		return Fragment{}, &MalformedError{problems}
	}
	return Fragment{sb.String(), offsets}, nil
}

// Preprocess is like Strip, but also terminates the result with a ';'.
func Preprocess(code string) (Fragment, error) {
	f, err := Strip(code)
	if err != nil {
		return Fragment{}, err
	}
	return f.Terminated(), nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

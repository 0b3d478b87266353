package parse

import (
	"errors"
	"strings"
)

// Keywords of the instruction grammar. Registered names may not be equal to
// any of them.
var keywords = []string{
	"while", "if", "elseif", "else", "break", "continue", "goto", "function",
	"macro",
}

// Characters with a fixed meaning in the grammar.
const structural = "(){},;#\"$"

// Errors returned by CheckName.
var (
	ErrReservedName = errors.New("name is a reserved keyword")
	ErrBadName      = errors.New("name is empty or contains a structural character")
)

// IsKeyword returns whether name is a keyword.
func IsKeyword(name string) bool {
	for _, kw := range keywords {
		if name == kw {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the keywords.
func Keywords() []string {
	return append([]string(nil), keywords...)
}

// CheckName checks whether name can be registered as an operator, function,
// attribute or macro.
func CheckName(name string) error {
	switch {
	case IsKeyword(name):
		return ErrReservedName
	case name == "" || strings.ContainsAny(name, structural) || strings.IndexFunc(name, isSpaceRune) != -1:
		return ErrBadName
	}
	return nil
}

func isStructural(c byte) bool {
	return strings.IndexByte(structural, c) != -1
}

func isSpaceRune(r rune) bool {
	return r < 0x80 && isSpace(byte(r))
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

package parse

import (
	"sort"
	"strings"
)

// Matcher finds registered tokens in stripped script text. When several
// tokens match at the same position, the longest one wins, so "++" is
// preferred over "+".
//
// The zero value and nil are both empty matchers that match nothing.
type Matcher struct {
	tokens map[string]struct{}
	// Tokens grouped by their first byte, longest first.
	byFirst map[byte][]string
}

// NewMatcher returns a Matcher for the given tokens.
func NewMatcher(tokens ...string) *Matcher {
	m := &Matcher{}
	for _, token := range tokens {
		m.Add(token)
	}
	return m
}

// Add adds a token. Adding an empty or existing token has no effect.
func (m *Matcher) Add(token string) {
	if token == "" || m.Has(token) {
		return
	}
	if m.tokens == nil {
		m.tokens = make(map[string]struct{})
		m.byFirst = make(map[byte][]string)
	}
	m.tokens[token] = struct{}{}
	group := append(m.byFirst[token[0]], token)
	sort.SliceStable(group, func(i, j int) bool { return len(group[i]) > len(group[j]) })
	m.byFirst[token[0]] = group
}

// Has returns whether token has been added.
func (m *Matcher) Has(token string) bool {
	if m == nil {
		return false
	}
	_, ok := m.tokens[token]
	return ok
}

// Len returns the number of tokens.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.tokens)
}

// Tokens returns all tokens in lexicographical order.
func (m *Matcher) Tokens() []string {
	if m == nil {
		return nil
	}
	tokens := make([]string, 0, len(m.tokens))
	for token := range m.tokens {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Clone returns an independent copy of the Matcher.
func (m *Matcher) Clone() *Matcher {
	clone := &Matcher{}
	if m == nil {
		return clone
	}
	for token := range m.tokens {
		clone.Add(token)
	}
	return clone
}

// Prefix returns the longest token that s has at pos, or "" if there is none.
func (m *Matcher) Prefix(s string, pos int) string {
	if m == nil || pos >= len(s) {
		return ""
	}
	for _, token := range m.byFirst[s[pos]] {
		if strings.HasPrefix(s[pos:], token) {
			return token
		}
	}
	return ""
}

// Scan finds the earliest occurrence of any token in s at or after pos. It
// returns the position and the longest token at that position, or -1 and ""
// if there is none.
func (m *Matcher) Scan(s string, pos int) (int, string) {
	if m.Len() == 0 {
		return -1, ""
	}
	for i := pos; i < len(s); i++ {
		if token := m.Prefix(s, i); token != "" {
			return i, token
		}
	}
	return -1, ""
}

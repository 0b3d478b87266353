package evaltest

import (
	"fmt"
	"strings"
)

type errorMatcher interface{ matchError(error) bool }

// anyError is an error that can be passed to Case.DoesNotParse to match any
// non-nil error.
type anyError struct{}

func (anyError) Error() string { return "any error" }

func (anyError) matchError(e error) bool { return e != nil }

// An errorMatcher for errors whose message contains a text.
type errWithMessage struct{ text string }

func (e errWithMessage) Error() string {
	return fmt.Sprintf("error with message containing %q", e.text)
}

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && strings.Contains(e2.Error(), e.text)
}

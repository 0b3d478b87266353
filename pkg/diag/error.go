package diag

import (
	"fmt"
	"strings"
)

// Error represents an error with context that can be showed. The type
// parameter T identifies the kind of the error.
type Error[T ErrorTag] struct {
	Message string
	Context Context
}

// ErrorTag is used to parameterize [Error] into different concrete types. The
// ErrorTag method is called with a zero receiver, and its return value is used
// in [Error.Error] and [Error.Show].
type ErrorTag interface {
	ErrorTag() string
}

// Error returns a plain text representation of the error.
func (e *Error[T]) Error() string {
	return errorTag[T]() + ": " + e.Context.Describe() + ": " + e.Message
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error.
func (e *Error[T]) Show(indent string) string {
	tag := errorTag[T]()
	header := fmt.Sprintf("%s%s: %s%s%s\n", indent,
		strings.ToUpper(tag[:1])+tag[1:], messageStart, e.Message, messageEnd)
	return header + e.Context.ShowCompact(indent+"  ")
}

func errorTag[T ErrorTag]() string {
	var t T
	return t.ErrorTag()
}

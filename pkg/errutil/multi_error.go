// Package errutil contains utilities for raising and combining errors.
package errutil

import "strings"

// Multi combines errors into one. Nil errors are dropped; if no error is
// left, Multi returns nil, and if one is left, it is returned as is.
//
// Errors returned by Multi are flattened, so Multi(Multi(err1, err2), err3)
// is the same as Multi(err1, err2, err3). The combined error works with
// errors.Is and errors.As through its Unwrap method.
func Multi(errs ...error) error {
	var all multiError
	for _, err := range errs {
		switch err := err.(type) {
		case nil:
		case multiError:
			all = append(all, err...)
		default:
			all = append(all, err)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

type multiError []error

func (me multiError) Error() string {
	msgs := make([]string, len(me))
	for i, err := range me {
		msgs[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

func (me multiError) Unwrap() []error { return me }

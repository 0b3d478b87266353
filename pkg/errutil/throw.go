package errutil

// Thrown wraps an error raised by Throw, so that it can be recognized by
// Catch.
type Thrown struct {
	Error error
}

// Throw panics with err wrapped so that it can be caught by Catch.
func Throw(err error) {
	panic(Thrown{err})
}

// Catch catches an error thrown by Throw and stops the panic. Panics not
// caused by Throw are propagated.
func Catch(perr *error) {
	r := recover()
	if r == nil {
		return
	}
	if exc, ok := r.(Thrown); ok {
		*perr = exc.Error
	} else {
		panic(r)
	}
}

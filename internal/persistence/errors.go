package persistence

import "fmt"

// DecodeError reports a stored draft that could not be turned back into a
// valid document. Load recovers from it by returning the default document.
type DecodeError struct {
	Key   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode draft %q: %v", e.Key, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// WriteError reports a failed write or delete of the draft slot. The
// in-memory document stays authoritative when it occurs.
type WriteError struct {
	Key   string
	Op    string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s draft %q: %v", e.Op, e.Key, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

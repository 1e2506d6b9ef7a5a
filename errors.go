package svo

import "fmt"

// InvariantError describes a broken structural invariant of the tree: a
// child slot outside [0,8), a node index past the end of the store, or a
// descent through a node that was never subdivided. It is raised with
// panic, never returned.
type InvariantError struct {
	Op     string
	Index  int64
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("svo: %s: index %d: %s", e.Op, e.Index, e.Detail)
}

// LengthError reports a failed conversion of a slice into a fixed-size
// array.
type LengthError struct {
	Expected int
	Got      int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("svo: invalid length: expected %d, got %d", e.Expected, e.Got)
}

func invariant(op string, index int64, format string, args ...any) {
	panic(&InvariantError{Op: op, Index: index, Detail: fmt.Sprintf(format, args...)})
}

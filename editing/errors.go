package editing

import (
	"errors"
	"fmt"
)

// Errors returned by an Editor.
var (
	ErrNothingToUndo    = errors.New("editing: nothing to undo")
	ErrNothingToRedo    = errors.New("editing: nothing to redo")
	ErrCompositionStale = errors.New("editing: undo step does not apply to the document any more")
)

// InvariantViolation is raised when an editing operation is asked to do
// something structurally impossible, e.g. to insert a node before the body
// element. Inside command execution it is raised as a panic; the public
// methods of Editor recover it and return it as an error.
type InvariantViolation struct {
	Op     string // operation which detected the violation
	Detail string
	Err    error // underlying DOM error, if any
}

func (iv *InvariantViolation) Error() string {
	if iv.Err != nil {
		return fmt.Sprintf("editing: %s: %s: %v", iv.Op, iv.Detail, iv.Err)
	}
	return fmt.Sprintf("editing: %s: %s", iv.Op, iv.Detail)
}

// Unwrap returns the underlying DOM error.
func (iv *InvariantViolation) Unwrap() error {
	return iv.Err
}

// violation raises an InvariantViolation.
func violation(op string, err error, format string, args ...interface{}) {
	iv := &InvariantViolation{Op: op, Detail: fmt.Sprintf(format, args...), Err: err}
	tracer().Errorf(iv.Error())
	panic(iv)
}

// check raises an InvariantViolation if a DOM primitive failed.
func check(op string, err error) {
	if err != nil {
		violation(op, err, "DOM mutation failed")
	}
}

// recoverViolation converts a panicking InvariantViolation into an error.
// Any other panic is re-raised. Use it deferred.
func recoverViolation(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if iv, ok := r.(*InvariantViolation); ok {
		*err = iv
		return
	}
	panic(r)
}

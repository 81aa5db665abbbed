package errors

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic converts a recovered value into an internal error carrying the
// stack. It returns nil for a nil value.
func RecoverPanic(r interface{}) *Error {
	if r == nil {
		return nil
	}

	var err error
	switch v := r.(type) {
	case error:
		err = v
	case string:
		err = fmt.Errorf("panic: %s", v)
	default:
		err = fmt.Errorf("panic: %v", v)
	}

	return ErrInternal.
		WithCause(err).
		WithDetail("panic", true).
		WithDetail("stack_trace", string(debug.Stack()))
}

package pixz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error provides rich context about pixel lookup failures.
// It wraps the underlying error with the coordinate that was being queried,
// when the failure occurred, and the path of nodes the query traveled
// through. Wrapping nodes prepend their name to Path; the underlying Err is
// never replaced, so errors.Is and errors.As keep working against whatever
// the failing leaf produced.
type Error struct {
	Timestamp time.Time
	Err       error
	Path      []Name
	X         int
	Y         int
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error) Error() string {
	location := fmt.Sprintf("lookup (%d, %d)", e.X, e.Y)
	if len(e.Path) > 0 {
		location = fmt.Sprintf("%s at %q", location, e.Path[len(e.Path)-1])
	}

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// newError wraps a leaf error in the failure channel, rooted at name.
func newError(name Name, x, y int, start time.Time, err error) *Error {
	return &Error{
		Path:      []Name{name},
		X:         x,
		Y:         y,
		Err:       err,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Timeout:   errors.Is(err, context.DeadlineExceeded),
		Canceled:  errors.Is(err, context.Canceled),
	}
}

// relayError prepends name to an error propagating from a wrapped source.
// The underlying error is relayed unchanged.
func relayError(err *Error, name Name) *Error {
	err.Path = append([]Name{name}, err.Path...)
	return err
}

// recoverToError converts a panic inside a user-supplied function into a
// failure on the lookup's error channel, so one poisoned coordinate cannot
// take down a caller iterating a whole image.
func recoverToError[P any](pixel *P, ok *bool, err **Error, name Name, x, y int) {
	if r := recover(); r != nil {
		var zero P
		*pixel = zero
		*ok = false
		*err = &Error{
			Path:      []Name{name},
			X:         x,
			Y:         y,
			Err:       fmt.Errorf("panic: %v", r),
			Timestamp: time.Now(),
		}
	}
}

// Package timeout races an operation against a deadline.
package timeout

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultDuration = 60 * time.Second
	DefaultMessage  = "Request timeout: The operation took too long to complete"
)

// ErrTimeout matches every *Error via errors.Is.
var ErrTimeout = errors.New("timeout")

// Error is returned when the deadline fires before the operation finishes.
type Error struct {
	Message string
	After   time.Duration
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrTimeout
}

// WithTimeout runs op and returns its result, or an *Error carrying message if
// d elapses first. A losing op is abandoned rather than cancelled: it keeps the
// caller's ctx and its result is discarded. The timer is always stopped.
// Zero d and empty message fall back to the defaults.
func WithTimeout[T any](ctx context.Context, d time.Duration, message string, op func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		d = DefaultDuration
	}
	if message == "" {
		message = DefaultMessage
	}

	type outcome struct {
		val T
		err error
	}
	// Buffered so an abandoned op can always deliver and exit.
	done := make(chan outcome, 1)
	go func() {
		var out outcome
		defer func() {
			if r := recover(); r != nil {
				out.err = fmt.Errorf("operation panicked: %v", r)
			}
			done <- out
		}()
		out.val, out.err = op(ctx)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case out := <-done:
		return out.val, out.err
	case <-timer.C:
		return zero, &Error{Message: message, After: d}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

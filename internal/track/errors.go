package track

import (
	"errors"
	"fmt"
)

// Domain errors for the tracking loop.
var (
	// ErrInvalidConfig indicates tracker tuning that can never fly safely.
	ErrInvalidConfig = errors.New("track: invalid configuration")

	// ErrUnknownParam indicates a SetParam name with no tunable behind it.
	ErrUnknownParam = errors.New("track: unknown parameter")
)

// SendError wraps an actuation failure with the command that was being sent.
// By the time a SendError is returned a safe stop has already been attempted.
type SendError struct {
	Command Command
	Wrapped error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("track: send rc %+v: %v", e.Command, e.Wrapped)
}

func (e *SendError) Unwrap() error {
	return e.Wrapped
}

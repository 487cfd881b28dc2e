package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a command exceeds its timeout.
	ErrTimeout = errors.New("command timeout")
	// ErrEmptyCommand is returned when there is nothing to run.
	ErrEmptyCommand = errors.New("empty command")
)

// StartError is returned when a command cannot be launched.
type StartError struct {
	Cmd   string
	Cause error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", e.Cmd, e.Cause)
}

func (e *StartError) Unwrap() error { return e.Cause }

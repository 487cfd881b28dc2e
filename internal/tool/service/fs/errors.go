package fs

import "fmt"

// AtomicWriteError is returned when a step of an atomic write fails.
// Op names the step: create, write, sync, close, rename or chmod.
type AtomicWriteError struct {
	Op    string
	Path  string
	Cause error
}

func (e *AtomicWriteError) Error() string {
	return fmt.Sprintf("atomic write %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *AtomicWriteError) Unwrap() error { return e.Cause }

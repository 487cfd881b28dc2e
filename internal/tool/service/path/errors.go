package path

import (
	"errors"
	"fmt"
)

// WorkspaceRootError reports a plugin directory that cannot serve as a
// workspace root: missing, unresolvable, or not a directory.
type WorkspaceRootError struct {
	Root  string
	Cause error
}

func (e *WorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}

func (e *WorkspaceRootError) Unwrap() error { return e.Cause }

var (
	// ErrOutsideWorkspace is returned for paths that lexically resolve
	// outside the plugin directory.
	ErrOutsideWorkspace = errors.New("path is outside workspace root")
	// ErrWorkspaceRootNotSet is returned by a zero Resolver.
	ErrWorkspaceRootNotSet = errors.New("workspace root not set")
	ErrNotADirectory       = errors.New("not a directory")
)

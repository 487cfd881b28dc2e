// Package path resolves tool paths against an explicit workspace root.
//
// Tools never depend on the process working directory: every relative path
// the model supplies is joined onto the root held by a Resolver.
package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver provides path resolution within a workspace boundary.
type Resolver struct {
	workspaceRoot string
}

// NewResolver creates a new path resolver for the given workspace.
// The root should already be canonical; see CanonicaliseRoot.
func NewResolver(workspaceRoot string) *Resolver {
	return &Resolver{
		workspaceRoot: filepath.Clean(workspaceRoot),
	}
}

// CanonicaliseRoot makes a workspace root absolute and resolves symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs resolves a path to absolute form and checks it stays inside the workspace.
// Relative paths are taken relative to the workspace root.
func (r *Resolver) Abs(path string) (string, error) {
	if r.workspaceRoot == "" || r.workspaceRoot == "." {
		return "", ErrWorkspaceRootNotSet
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Join(r.workspaceRoot, path)
	}

	if abs != r.workspaceRoot && !strings.HasPrefix(abs, r.workspaceRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}

	return abs, nil
}

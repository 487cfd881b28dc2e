// Package fs provides the filesystem primitives the workspace tools run on.
package fs

import (
	"os"
	"path/filepath"
	"slices"
)

// OSFileSystem implements filesystem operations using the local OS filesystem primitives.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat returns file info for a path (follows symlinks).
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file.
func (fs *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFileAtomic writes content to a file atomically using temp file + rename pattern.
// If the process crashes mid-write, the original file remains intact.
// The temp file is created in the same directory as the target so the rename is atomic.
func (fs *OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &AtomicWriteError{Op: "create", Path: dir, Cause: err}
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(content); err != nil {
		return &AtomicWriteError{Op: "write", Path: tmpPath, Cause: err}
	}
	if err = tmpFile.Sync(); err != nil {
		return &AtomicWriteError{Op: "sync", Path: tmpPath, Cause: err}
	}
	if err = tmpFile.Close(); err != nil {
		return &AtomicWriteError{Op: "close", Path: tmpPath, Cause: err}
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return &AtomicWriteError{Op: "chmod", Path: tmpPath, Cause: err}
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return &AtomicWriteError{Op: "rename", Path: path, Cause: err}
	}

	return nil
}

// EnsureDirs creates a directory and its parents if they don't exist.
func (fs *OSFileSystem) EnsureDirs(path string) error {
	return os.MkdirAll(path, 0o755)
}

// ListDir returns the names of the immediate children of a directory, sorted.
func (fs *OSFileSystem) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)

	return names, nil
}

package file

import (
	"os"
	"path/filepath"
	"time"
)

// Mocks shared across the tests in this package.

type mockFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

type mockFile struct {
	content []byte
	mode    os.FileMode
}

// mockFileSystem is an in-memory filesystem keyed by absolute path.
type mockFileSystem struct {
	files  map[string]*mockFile
	dirs   map[string]bool
	errors map[string]error
	writes int
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{
		files:  make(map[string]*mockFile),
		dirs:   map[string]bool{"/workspace": true},
		errors: make(map[string]error),
	}
}

func (m *mockFileSystem) createFile(path string, content []byte, mode os.FileMode) {
	m.files[path] = &mockFile{content: content, mode: mode}
}

func (m *mockFileSystem) createDir(path string) {
	m.dirs[path] = true
}

func (m *mockFileSystem) setOperationError(operation string, err error) {
	m.errors[operation] = err
}

func (m *mockFileSystem) content(path string) string {
	f, ok := m.files[path]
	if !ok {
		return ""
	}
	return string(f.content)
}

func (m *mockFileSystem) Stat(path string) (os.FileInfo, error) {
	if err := m.errors["Stat"]; err != nil {
		return nil, err
	}
	if m.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), mode: os.ModeDir | 0o755, isDir: true}, nil
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return &mockFileInfo{name: filepath.Base(path), size: int64(len(f.content)), mode: f.mode}, nil
}

func (m *mockFileSystem) ReadFile(path string) ([]byte, error) {
	if err := m.errors["ReadFile"]; err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return f.content, nil
}

func (m *mockFileSystem) EnsureDirs(path string) error {
	if err := m.errors["EnsureDirs"]; err != nil {
		return err
	}
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *mockFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if err := m.errors["WriteFileAtomic"]; err != nil {
		return err
	}
	if !m.dirs[filepath.Dir(path)] {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	m.writes++
	m.files[path] = &mockFile{content: append([]byte(nil), content...), mode: perm}
	return nil
}

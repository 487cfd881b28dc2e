package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/fs"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T) (string, *ListFilesTool) {
	t.Helper()
	root, err := path.CanonicaliseRoot(t.TempDir())
	require.NoError(t, err)
	return root, NewListFilesTool(fs.NewOSFileSystem(), path.NewResolver(root))
}

func TestListFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("immediate children only", func(t *testing.T) {
		root, lt := newWorkspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "b", "deep"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "b", "deep", "c.txt"), nil, 0o644))

		out, err := lt.Execute(ctx, map[string]any{"path": "."})

		require.NoError(t, err)
		assert.Equal(t, "a.txt\nb", out)
	})

	t.Run("default path is workspace root", func(t *testing.T) {
		root, lt := newWorkspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "z.txt"), nil, 0o644))

		out, err := lt.Execute(ctx, map[string]any{})

		require.NoError(t, err)
		assert.Equal(t, "z.txt", out)
	})

	t.Run("subdirectory entries are prefixed", func(t *testing.T) {
		root, lt := newWorkspace(t)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.py"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", "__init__.py"), nil, 0o644))

		out, err := lt.Execute(ctx, map[string]any{"path": "./src/"})

		require.NoError(t, err)
		assert.Equal(t, "src/__init__.py\nsrc/main.py", out)
	})

	// Missing and empty directories are indistinguishable.
	t.Run("missing and empty both list as empty", func(t *testing.T) {
		root, lt := newWorkspace(t)
		require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

		empty, err := lt.Execute(ctx, map[string]any{"path": "empty"})
		require.NoError(t, err)
		missing, err := lt.Execute(ctx, map[string]any{"path": "missing"})
		require.NoError(t, err)

		assert.Equal(t, "", empty)
		assert.Equal(t, empty, missing)
	})

	t.Run("file path lists as empty", func(t *testing.T) {
		root, lt := newWorkspace(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))

		out, err := lt.Execute(ctx, map[string]any{"path": "a.txt"})

		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("outside workspace", func(t *testing.T) {
		_, lt := newWorkspace(t)

		out, err := lt.Execute(ctx, map[string]any{"path": "../.."})

		require.NoError(t, err)
		assert.Contains(t, out, "Error listing files: ")
	})
}

type failingFS struct{}

func (failingFS) Stat(string) (os.FileInfo, error) { return nil, errors.New("stat exploded") }
func (failingFS) ListDir(string) ([]string, error) { return nil, nil }

func TestListFiles_StatFailure(t *testing.T) {
	lt := NewListFilesTool(failingFS{}, path.NewResolver("/workspace"))

	out, err := lt.Execute(context.Background(), map[string]any{"path": "."})

	require.NoError(t, err)
	assert.Equal(t, "Error listing files: stat exploded", out)
}

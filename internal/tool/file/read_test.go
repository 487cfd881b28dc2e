package file

import (
	"context"
	"errors"
	"testing"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReadTool(fs *mockFileSystem, cfg *config.Config) *ReadFileTool {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewReadFileTool(fs, path.NewResolver("/workspace"), cfg)
}

func TestReadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("returns full contents", func(t *testing.T) {
		fs := newMockFileSystem()
		fs.createFile("/workspace/notes.txt", []byte("line one\nline two\n"), 0o644)

		out, err := newReadTool(fs, nil).Execute(ctx, map[string]any{"path": "notes.txt"})

		require.NoError(t, err)
		assert.Equal(t, "line one\nline two\n", out)
	})

	t.Run("absolute path inside workspace", func(t *testing.T) {
		fs := newMockFileSystem()
		fs.createFile("/workspace/a.txt", []byte("abc"), 0o644)

		out, err := newReadTool(fs, nil).Execute(ctx, map[string]any{"path": "/workspace/a.txt"})

		require.NoError(t, err)
		assert.Equal(t, "abc", out)
	})

	t.Run("missing file", func(t *testing.T) {
		out, err := newReadTool(newMockFileSystem(), nil).Execute(ctx, map[string]any{"path": "nope.txt"})

		require.NoError(t, err)
		assert.Contains(t, out, "Error reading file: ")
		assert.Contains(t, out, "file does not exist")
	})

	t.Run("directory", func(t *testing.T) {
		fs := newMockFileSystem()
		fs.createDir("/workspace/src")

		out, err := newReadTool(fs, nil).Execute(ctx, map[string]any{"path": "src"})

		require.NoError(t, err)
		assert.Equal(t, "Error reading file: "+ErrIsDirectory.Error(), out)
	})

	t.Run("outside workspace", func(t *testing.T) {
		out, err := newReadTool(newMockFileSystem(), nil).Execute(ctx, map[string]any{"path": "../etc/passwd"})

		require.NoError(t, err)
		assert.Contains(t, out, "Error reading file: ")
		assert.Contains(t, out, path.ErrOutsideWorkspace.Error())
	})

	t.Run("too large", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.MaxFileSize = 4
		fs := newMockFileSystem()
		fs.createFile("/workspace/big.txt", []byte("12345"), 0o644)

		out, err := newReadTool(fs, cfg).Execute(ctx, map[string]any{"path": "big.txt"})

		require.NoError(t, err)
		assert.Contains(t, out, "file too large")
	})

	t.Run("read failure", func(t *testing.T) {
		fs := newMockFileSystem()
		fs.createFile("/workspace/a.txt", []byte("abc"), 0o644)
		fs.setOperationError("ReadFile", errors.New("disk on fire"))

		out, err := newReadTool(fs, nil).Execute(ctx, map[string]any{"path": "a.txt"})

		require.NoError(t, err)
		assert.Equal(t, "Error reading file: disk on fire", out)
	})

	t.Run("missing argument is a call error", func(t *testing.T) {
		_, err := newReadTool(newMockFileSystem(), nil).Execute(ctx, map[string]any{})

		var argErr *tool.ArgumentError
		assert.ErrorAs(t, err, &argErr)
	})
}

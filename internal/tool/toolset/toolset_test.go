package toolset

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byName(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not built", name)
	return nil
}

func TestBuild_AllToolsInOrder(t *testing.T) {
	tools, err := Build(t.TempDir(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"read_file", "write_file", "edit_file", "list_files", "execute_shell_command"}, Names(tools))
	for _, decl := range tool.Declarations(tools) {
		assert.NotEmpty(t, decl.Description, decl.Name)
		require.NotNil(t, decl.Parameters, decl.Name)
		assert.Equal(t, tool.TypeObject, decl.Parameters.Type)
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope"), config.DefaultConfig(), nil)

	var rootErr *path.WorkspaceRootError
	assert.ErrorAs(t, err, &rootErr)
}

// The tools resolve against their own root, not the process working directory.
func TestBuild_ToolsShareWorkspace(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	root := t.TempDir()
	tools, err := Build(root, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := byName(t, tools, "write_file").Execute(ctx, map[string]any{"path": "src/main.py", "content": "print('a')\n"})
	require.NoError(t, err)
	assert.Equal(t, "Successfully wrote 11 characters to src/main.py", out)

	out, err = byName(t, tools, "edit_file").Execute(ctx, map[string]any{
		"file_path": "src/main.py", "search_block": "'a'", "replace_block": "'b'",
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully edited src/main.py.", out)

	out, err = byName(t, tools, "read_file").Execute(ctx, map[string]any{"path": "src/main.py"})
	require.NoError(t, err)
	assert.Equal(t, "print('b')\n", out)

	out, err = byName(t, tools, "list_files").Execute(ctx, map[string]any{"path": "src"})
	require.NoError(t, err)
	assert.Equal(t, "src/main.py", out)

	out, err = byName(t, tools, "execute_shell_command").Execute(ctx, map[string]any{"command": "cat src/main.py"})
	require.NoError(t, err)
	assert.Equal(t, "Exit Code: 0\nSTDOUT:\nprint('b')\n\nSTDERR:\n", out)

	data, err := os.ReadFile(filepath.Join(root, "src", "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('b')\n", string(data))
}

package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
)

// ListFilesTool lists the immediate children of a workspace directory.
type ListFilesTool struct {
	fs           fileSystem
	pathResolver pathResolver
}

// NewListFilesTool creates a new ListFilesTool with injected dependencies.
func NewListFilesTool(fs fileSystem, pathResolver pathResolver) *ListFilesTool {
	if fs == nil {
		panic("fs is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &ListFilesTool{fs: fs, pathResolver: pathResolver}
}

func (t *ListFilesTool) Name() string {
	return "list_files"
}

func (t *ListFilesTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "list_files",
		Description: "Lists all files and directories in a specified path.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "The directory path to list. Defaults to the current directory."},
			},
		},
	}
}

// Execute returns one line per child, sorted, each rendered as the requested
// path joined with the child's name (the bare name when listing ".").
// Descendants are not included. A missing path, or one that is not a
// directory, lists as empty: callers cannot tell it apart from an empty
// directory.
func (t *ListFilesTool) Execute(_ context.Context, args map[string]any) (string, error) {
	req, err := tool.DecodeArgs[ListFilesRequest](t.Declaration(), args)
	if err != nil {
		return "", err
	}

	out, err := t.list(req.DirPath())
	if err != nil {
		return "Error listing files: " + err.Error(), nil
	}
	return out, nil
}

func (t *ListFilesTool) list(dir string) (string, error) {
	abs, err := t.pathResolver.Abs(dir)
	if err != nil {
		return "", err
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	if !info.IsDir() {
		return "", nil
	}

	names, err := t.fs.ListDir(abs)
	if err != nil {
		return "", err
	}

	entries := make([]string, len(names))
	for i, name := range names {
		entries[i] = filepath.ToSlash(filepath.Join(dir, name))
	}
	return strings.Join(entries, "\n"), nil
}

package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
)

// WriteFileTool creates or overwrites a workspace file.
type WriteFileTool struct {
	fileOps      fileWriter
	pathResolver pathResolver
	maxFileSize  int64
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, pathResolver pathResolver, cfg *config.Config) *WriteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	return &WriteFileTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
		maxFileSize:  cfg.Tools.MaxFileSize,
	}
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name: "write_file",
		Description: "Writes content to a specified file, creating the file if it doesn't exist. " +
			"If the file already exists, it will be overwritten with the new content.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path":    {Type: tool.TypeString, Description: "The path to the file to be written."},
				"content": {Type: tool.TypeString, Description: "The content to write to the file."},
			},
			Required: []string{"path", "content"},
		},
	}
}

// Execute writes content to path, creating missing parent directories.
// The reported length counts characters, not bytes.
func (t *WriteFileTool) Execute(_ context.Context, args map[string]any) (string, error) {
	req, err := tool.DecodeArgs[WriteFileRequest](t.Declaration(), args)
	if err != nil {
		return "", err
	}

	if err := t.write(req.Path, req.Content); err != nil {
		return "Error writing to file: " + err.Error(), nil
	}
	return fmt.Sprintf("Successfully wrote %d characters to %s", utf8.RuneCountInString(req.Content), req.Path), nil
}

func (t *WriteFileTool) write(path, content string) error {
	if int64(len(content)) > t.maxFileSize {
		return &TooLargeError{Path: path, Size: int64(len(content)), Limit: t.maxFileSize}
	}

	abs, err := t.pathResolver.Abs(path)
	if err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	info, err := t.fileOps.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return ErrIsDirectory
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if err := t.fileOps.EnsureDirs(filepath.Dir(abs)); err != nil {
		return err
	}
	return t.fileOps.WriteFileAtomic(abs, []byte(content), perm)
}

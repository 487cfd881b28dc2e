package file

import (
	"context"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
)

// ReadFileTool returns the full contents of a workspace file.
type ReadFileTool struct {
	fileOps      fileReader
	pathResolver pathResolver
	maxFileSize  int64
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, pathResolver pathResolver, cfg *config.Config) *ReadFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	return &ReadFileTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
		maxFileSize:  cfg.Tools.MaxFileSize,
	}
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "read_file",
		Description: "Reads the entire content of a specified file.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "The absolute or relative path to the file."},
			},
			Required: []string{"path"},
		},
	}
}

// Execute reads the file at path. Failures are reported as
// "Error reading file: <cause>".
func (t *ReadFileTool) Execute(_ context.Context, args map[string]any) (string, error) {
	req, err := tool.DecodeArgs[ReadFileRequest](t.Declaration(), args)
	if err != nil {
		return "", err
	}

	content, err := t.read(req.Path)
	if err != nil {
		return "Error reading file: " + err.Error(), nil
	}
	return content, nil
}

func (t *ReadFileTool) read(path string) (string, error) {
	abs, err := t.pathResolver.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrIsDirectory
	}
	if info.Size() > t.maxFileSize {
		return "", &TooLargeError{Path: path, Size: info.Size(), Limit: t.maxFileSize}
	}

	data, err := t.fileOps.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

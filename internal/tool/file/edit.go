package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
)

// EditFileTool replaces a block of text in an existing file.
type EditFileTool struct {
	fileOps      fileEditor
	pathResolver pathResolver
	matchCount   int
	matchCutoff  float64
}

// NewEditFileTool creates a new EditFileTool with injected dependencies.
func NewEditFileTool(fileOps fileEditor, pathResolver pathResolver, cfg *config.Config) *EditFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	return &EditFileTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
		matchCount:   cfg.Tools.CloseMatchCount,
		matchCutoff:  cfg.Tools.CloseMatchCutoff,
	}
}

func (t *EditFileTool) Name() string {
	return "edit_file"
}

func (t *EditFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name: "edit_file",
		Description: "Replaces a specified block of text in a file with a new block of text. " +
			"If the `search_block` is not found exactly as provided, the tool will fail and " +
			"suggest close matches to help with correction.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path":     {Type: tool.TypeString, Description: "The path to the file to be edited."},
				"search_block":  {Type: tool.TypeString, Description: "The exact block of text to search for in the file."},
				"replace_block": {Type: tool.TypeString, Description: "The block of text that will replace the `search_block`."},
			},
			Required: []string{"file_path", "search_block", "replace_block"},
		},
	}
}

// Execute replaces the first literal occurrence of the search block.
// An empty search block matches at the start of the file, so the replacement
// is prepended. When the block is absent the file is left untouched and the
// closest lines to the block's first line are suggested.
func (t *EditFileTool) Execute(_ context.Context, args map[string]any) (string, error) {
	req, err := tool.DecodeArgs[EditFileRequest](t.Declaration(), args)
	if err != nil {
		return "", err
	}

	msg, err := t.edit(req)
	if err != nil {
		return "An unexpected error occurred: " + err.Error(), nil
	}
	return msg, nil
}

func (t *EditFileTool) edit(req EditFileRequest) (string, error) {
	abs, err := t.pathResolver.Abs(req.FilePath)
	if err != nil {
		return "", err
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "Error: File not found at " + req.FilePath, nil
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrIsDirectory
	}

	data, err := t.fileOps.ReadFile(abs)
	if err != nil {
		return "", err
	}
	content := string(data)

	if !strings.Contains(content, req.SearchBlock) {
		return t.notFound(req, content), nil
	}

	updated := strings.Replace(content, req.SearchBlock, req.ReplaceBlock, 1)
	if err := t.fileOps.WriteFileAtomic(abs, []byte(updated), info.Mode().Perm()); err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully edited %s.", req.FilePath), nil
}

func (t *EditFileTool) notFound(req EditFileRequest, content string) string {
	var first string
	if lines := splitLines(req.SearchBlock); len(lines) > 0 {
		first = lines[0]
	}
	matches := CloseMatches(first, splitLines(content), t.matchCount, t.matchCutoff)

	var b strings.Builder
	fmt.Fprintf(&b, "Error: The `search_block` was not found in %s.\n", req.FilePath)
	b.WriteString("Here are the closest matching lines from the file to help you correct the `search_block`:\n")
	if len(matches) == 0 {
		b.WriteString("No close matches found.")
		return b.String()
	}
	for i, m := range matches {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- `%s`", m)
	}
	return b.String()
}

// Package toolset assembles the workspace tools for one plugin directory.
package toolset

import (
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/directory"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/file"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/executor"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/fs"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/path"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/shell"
	"go.uber.org/zap"
)

// Build returns read_file, write_file, edit_file, list_files and
// execute_shell_command bound to workspaceRoot. The root must exist.
func Build(workspaceRoot string, cfg *config.Config, logger *zap.Logger) ([]tool.Tool, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	root, err := path.CanonicaliseRoot(workspaceRoot)
	if err != nil {
		return nil, err
	}

	osFS := fs.NewOSFileSystem()
	resolver := path.NewResolver(root)
	commandExecutor := executor.NewOSCommandExecutor(cfg, logger)

	return []tool.Tool{
		file.NewReadFileTool(osFS, resolver, cfg),
		file.NewWriteFileTool(osFS, resolver, cfg),
		file.NewEditFileTool(osFS, resolver, cfg),
		directory.NewListFilesTool(osFS, resolver),
		shell.NewShellTool(commandExecutor, resolver, cfg, logger),
	}, nil
}

// Names returns the tool names in order.
func Names(tools []tool.Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return names
}

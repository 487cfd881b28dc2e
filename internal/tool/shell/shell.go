package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/executor"
	"go.uber.org/zap"
)

// ShellTool executes commands in the workspace through the system shell.
type ShellTool struct {
	commandExecutor commandExecutor
	pathResolver    pathResolver
	defaultTimeout  int
	logger          *zap.Logger
}

// NewShellTool creates a new ShellTool with injected dependencies.
func NewShellTool(commandExecutor commandExecutor, pathResolver pathResolver, cfg *config.Config, logger *zap.Logger) *ShellTool {
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShellTool{
		commandExecutor: commandExecutor,
		pathResolver:    pathResolver,
		defaultTimeout:  cfg.Tools.DefaultShellTimeout,
		logger:          logger,
	}
}

func (t *ShellTool) Name() string {
	return "execute_shell_command"
}

func (t *ShellTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "execute_shell_command",
		Description: "Executes a shell command in the plugin's working directory.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"command": {Type: tool.TypeString, Description: "The shell command to execute."},
				"timeout": {Type: tool.TypeInteger, Description: "Timeout in seconds. Defaults to 30 seconds if not specified."},
			},
			Required: []string{"command"},
		},
	}
}

// Execute runs the command with `sh -c` in the workspace root and reports the
// exit code with both output streams. A non-zero exit is a normal result.
func (t *ShellTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	req, err := tool.DecodeArgs[ShellRequest](t.Declaration(), args)
	if err != nil {
		return "", err
	}

	timeout, err := resolveTimeout(req, t.defaultTimeout)
	if err != nil {
		return "", err
	}

	dir, err := t.pathResolver.Abs(".")
	if err != nil {
		return "", err
	}

	t.logger.Debug("executing command", zap.String("command", req.Command), zap.Int("timeout_seconds", timeout))

	res, err := t.commandExecutor.RunShell(ctx, req.Command, dir, time.Duration(timeout)*time.Second)
	switch {
	case errors.Is(err, executor.ErrTimeout):
		return fmt.Sprintf("Error executing command: Command '%s' timed out after %d seconds", req.Command, timeout), nil
	case ctx.Err() != nil:
		return "", ctx.Err()
	case err != nil:
		return "Error executing command: " + err.Error(), nil
	}

	if res.Truncated {
		t.logger.Warn("command output truncated", zap.String("command", req.Command))
	}
	return fmt.Sprintf("Exit Code: %d\nSTDOUT:\n%s\nSTDERR:\n%s", res.ExitCode, res.Stdout, res.Stderr), nil
}

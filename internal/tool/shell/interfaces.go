package shell

import (
	"context"
	"time"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/service/executor"
)

// pathResolver defines workspace path resolution operations.
type pathResolver interface {
	Abs(path string) (string, error)
}

// commandExecutor defines the interface for executing shell commands.
type commandExecutor interface {
	RunShell(ctx context.Context, command, dir string, timeout time.Duration) (*executor.Result, error)
}

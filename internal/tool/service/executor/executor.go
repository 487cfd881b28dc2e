// Package executor runs shell commands with a wall-clock timeout.
//
// Commands run in their own process group so that a timeout terminates
// everything the shell spawned, not only the shell itself.
package executor

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"go.uber.org/zap"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// OSCommandExecutor implements command execution using os/exec.
type OSCommandExecutor struct {
	maxOutput   int
	gracePeriod time.Duration
	logger      *zap.Logger
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config, logger *zap.Logger) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSCommandExecutor{
		maxOutput:   int(cfg.Tools.DefaultMaxCommandOutputSize),
		gracePeriod: time.Duration(cfg.Tools.GracefulShutdownMs) * time.Millisecond,
		logger:      logger,
	}
}

// RunShell runs command through `sh -c` in dir.
func (e *OSCommandExecutor) RunShell(ctx context.Context, command, dir string, timeout time.Duration) (*Result, error) {
	return e.RunWithTimeout(ctx, []string{"sh", "-c", command}, dir, nil, timeout)
}

// RunWithTimeout executes a command with a timeout and graceful shutdown.
//
// A non-zero exit is not an error: it is reported through Result.ExitCode.
// On timeout the process group is interrupted, then killed after the grace
// period, and ErrTimeout is returned together with the output captured so far.
// A nil env inherits the current environment.
func (e *OSCommandExecutor) RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	stdout := newCollector(e.maxOutput)
	stderr := newCollector(e.maxOutput)

	// CommandContext is not used: it kills only the direct child and skips
	// the graceful interrupt.
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = e.gracePeriod
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &StartError{Cmd: command[0], Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var execErr error
	select {
	case execErr = <-done:
	case <-ctx.Done():
		killGroup(cmd)
		<-done
		execErr = ctx.Err()
	case <-timer.C:
		e.logger.Debug("command timed out, interrupting",
			zap.Strings("command", command), zap.Duration("timeout", timeout))
		interruptGroup(cmd)
		grace := time.NewTimer(e.gracePeriod)
		select {
		case <-done:
		case <-grace.C:
			killGroup(cmd)
			<-done
		}
		grace.Stop()
		execErr = ErrTimeout
	}

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}

	var exitErr *exec.ExitError
	switch {
	case execErr == nil:
		res.ExitCode = 0
	case errors.As(execErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	case errors.Is(execErr, exec.ErrWaitDelay):
		// Exited, but a background child kept the pipes open.
		res.ExitCode = cmd.ProcessState.ExitCode()
		return res, nil
	default:
		res.ExitCode = -1
		return res, execErr
	}

	return res, nil
}

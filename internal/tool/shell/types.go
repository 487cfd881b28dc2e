package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TimeoutEnvVar overrides the configured default timeout when a call gives none.
const TimeoutEnvVar = "SHELL_COMMAND_TIMEOUT"

type ShellRequest struct {
	Command string `json:"command"`
	Timeout *int   `json:"timeout,omitempty"`
}

func (r *ShellRequest) Validate() error {
	if r.Timeout != nil && *r.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// resolveTimeout picks the timeout in seconds: the request's value, then
// SHELL_COMMAND_TIMEOUT, then fallback.
func resolveTimeout(req ShellRequest, fallback int) (int, error) {
	if req.Timeout != nil {
		return *req.Timeout, nil
	}
	if v, ok := os.LookupEnv(TimeoutEnvVar); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid %s %q: %w", TimeoutEnvVar, v, ErrInvalidTimeout)
		}
		return n, nil
	}
	return fallback, nil
}

package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		errs = append(errs, "provider.temperature must be between 0 and 2")
	}
	if c.Provider.MaxOutputTokens < 1 {
		errs = append(errs, "provider.max_output_tokens must be >= 1")
	}

	if c.Agent.MaxTurns < 1 {
		errs = append(errs, "agent.max_turns must be >= 1")
	}

	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.CloseMatchCount < 1 {
		errs = append(errs, "tools.close_match_count must be >= 1")
	}
	if c.Tools.CloseMatchCutoff < 0 || c.Tools.CloseMatchCutoff > 1 {
		errs = append(errs, "tools.close_match_cutoff must be between 0 and 1")
	}
	if c.Tools.DefaultMaxCommandOutputSize < 1 {
		errs = append(errs, "tools.default_max_command_output_size must be >= 1")
	}
	if c.Tools.DefaultShellTimeout < 1 {
		errs = append(errs, "tools.default_shell_timeout must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 1 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 1")
	}

	if c.Paths.PluginsReal == "" {
		errs = append(errs, "paths.plugins_real must not be empty")
	}
	if c.Paths.Playbooks == "" {
		errs = append(errs, "paths.playbooks must not be empty")
	}
	if c.Paths.Output == "" {
		errs = append(errs, "paths.output must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

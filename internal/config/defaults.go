package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider ProviderConfig `json:"provider"`
	Agent    AgentConfig    `json:"agent"`
	Tools    ToolsConfig    `json:"tools"`
	Paths    PathsConfig    `json:"paths"`
	UI       UIConfig       `json:"ui"`
}

type ProviderConfig struct {
	Model           string  `json:"model"`             // Default: "gemini-2.5-flash"
	Temperature     float32 `json:"temperature"`       // Default: 0
	MaxOutputTokens int32   `json:"max_output_tokens"` // Default: 8192
}

type AgentConfig struct {
	MaxTurns int `json:"max_turns"` // Default: 50
}

type ToolsConfig struct {
	// File Operations
	MaxFileSize int64 `json:"max_file_size"` // Default: 20 * 1024 * 1024 (20MB)

	// Edit suggestions
	CloseMatchCount  int     `json:"close_match_count"`  // Default: 5
	CloseMatchCutoff float64 `json:"close_match_cutoff"` // Default: 0.6

	// Command Execution
	DefaultMaxCommandOutputSize int64 `json:"default_max_command_output_size"` // Default: 10 * 1024 * 1024 (10MB)
	DefaultShellTimeout         int   `json:"default_shell_timeout"`           // Default: 30 (seconds)
	GracefulShutdownMs          int   `json:"graceful_shutdown_ms"`            // Default: 2000

	// Human-in-the-loop
	DestructiveTools []string `json:"destructive_tools"` // Default: edit_file, execute_shell_command
}

type PathsConfig struct {
	PluginsReal string `json:"plugins_real"` // Default: "plugins_real"
	Playbooks   string `json:"playbooks"`    // Default: "playbooks"
	Output      string `json:"output"`       // Default: "output"
}

type UIConfig struct {
	ColorPrimary string `json:"color_primary"` // Default: "63"
	ColorWarning string `json:"color_warning"` // Default: "214"
	GlamourStyle string `json:"glamour_style"` // Default: "auto"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:           "gemini-2.5-flash",
			Temperature:     0,
			MaxOutputTokens: 8192,
		},
		Agent: AgentConfig{
			MaxTurns: 50,
		},
		Tools: ToolsConfig{
			MaxFileSize:                 20 * 1024 * 1024,
			CloseMatchCount:             5,
			CloseMatchCutoff:            0.6,
			DefaultMaxCommandOutputSize: 10 * 1024 * 1024,
			DefaultShellTimeout:         30,
			GracefulShutdownMs:          2000,
			DestructiveTools:            []string{"edit_file", "execute_shell_command"},
		},
		Paths: PathsConfig{
			PluginsReal: "plugins_real",
			Playbooks:   "playbooks",
			Output:      "output",
		},
		UI: UIConfig{
			ColorPrimary: "63",
			ColorWarning: "214",
			GlamourStyle: "auto",
		},
	}
}

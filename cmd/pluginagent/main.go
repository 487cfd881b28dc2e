// Package main provides the pluginagent command-line interface. It runs
// playbooks against plugin workspaces with a Gemini-backed agent.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/logging"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/orchestrator"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider/gemini"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the process dependencies shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	loadConfig  func() (*config.Config, error)
	newLogger   func(verbose bool) (*zap.Logger, error)
	newProvider func(cfg *config.Config, logger *zap.Logger) orchestrator.ProviderFactory
	listModels  func(ctx context.Context, apiKey string) ([]gemini.ModelInfo, error)
	getenv      func(string) string

	verbose bool
	root    string
	apiKey  string

	cfg    *config.Config
	logger *zap.Logger
}

func newApp() *app {
	return &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		loadConfig:  config.Load,
		newLogger:   logging.New,
		newProvider: geminiProviderFactory,
		listModels:  listGeminiModels,
		getenv:      os.Getenv,
	}
}

func geminiProviderFactory(cfg *config.Config, logger *zap.Logger) orchestrator.ProviderFactory {
	return func(ctx context.Context, credential string) (provider.Provider, error) {
		client, err := gemini.Dial(ctx, credential)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.New(client, cfg.Provider, logger), nil
	}
}

func listGeminiModels(ctx context.Context, apiKey string) ([]gemini.ModelInfo, error) {
	client, err := gemini.Dial(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return client.ListModels(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pluginagent",
		Short: "Run agent playbooks against plugin workspaces",
		Long: `pluginagent drives an LLM agent through a playbook against a plugin
workspace. The agent can read, write, edit and list files in the workspace
and run shell commands there. Every tool call is published as an event.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			cfg, err := a.loadConfig()
			if err != nil {
				fmt.Fprintf(a.stderr, "Warning: failed to load config: %v\n", err)
				fmt.Fprintf(a.stderr, "Using default configuration.\n")
				cfg = config.DefaultConfig()
			}
			a.cfg = cfg

			if a.root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				a.root = wd
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.root, "root", "", "Project root holding plugins and playbooks (default: working directory)")
	root.PersistentFlags().StringVar(&a.apiKey, "api-key", "", "Gemini API key (overrides .env files and GEMINI_API_KEY)")

	root.AddCommand(a.runCmd(), a.modelsCmd(), a.createVirtualCmd())
	return root
}

// credential resolves the API key from the flag, the project .env, the
// environment, then ~/.env.
func (a *app) credential() (string, error) {
	resolver := config.NewCredentialResolverWith(config.OSFileSystem{}, a.getenv, a.logger)
	cred, err := resolver.Resolve(a.apiKey, a.root)
	if err != nil {
		return "", err
	}
	if err := config.ValidateAPIKey(cred.Key); err != nil {
		a.logger.Warn("suspicious API key", zap.String("source", string(cred.Source)), zap.Error(err))
	}
	return cred.Key, nil
}

// execute runs the CLI and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp().execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

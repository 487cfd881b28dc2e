package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/agent"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/metrics"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/orchestrator"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/prompt"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const renderWidth = 100

type runOptions struct {
	bug         string
	hitl        bool
	env         string
	metricsFile string
}

func (a *app) runCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <plugin_name> <playbook_name>",
		Short: "Run a playbook against a plugin",
		Long: `Runs <playbook_name> (playbooks/<playbook_name>.md) against the plugin
workspace plugins_real/<plugin_name>. With --env virtual the plugin is looked
up in the virtual output directory instead.

Example:
  pluginagent run my-first-plugin playbook_fix_bug --bug "greet fails on empty names" --hitl`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0], args[1], opts)
		},
	}
	cmd.Flags().StringVar(&opts.bug, "bug", "", "Description of the bug to fix, substituted for {bug_description}")
	cmd.Flags().BoolVar(&opts.hitl, "hitl", false, "Ask for confirmation before destructive tool calls")
	cmd.Flags().StringVar(&opts.env, "env", string(prompt.EnvReal), "Plugin environment: real or virtual")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write tool metrics in prometheus text format to this file")
	return cmd
}

func (a *app) run(cmd *cobra.Command, pluginName, playbookName string, opts runOptions) error {
	env := prompt.Environment(opts.env)
	if _, err := prompt.Instructions(env); err != nil {
		return err
	}

	pluginPath, playbookPath, err := a.resolvePaths(env, pluginName, playbookName)
	if err != nil {
		return err
	}

	credential, err := a.credential()
	if err != nil {
		return err
	}

	bus := event.NewToolBus()
	subs := a.printToolCalls(bus)
	defer func() {
		for _, sub := range subs {
			bus.Unsubscribe(sub)
		}
	}()

	if opts.metricsFile != "" {
		collector := metrics.NewCollector()
		collector.Attach(bus)
		defer func() {
			collector.Detach(bus)
			if err := collector.WriteToTextfile(opts.metricsFile); err != nil {
				a.logger.Warn("failed to write metrics", zap.Error(err))
			}
		}()
	}

	factory := orchestrator.NewDriverFactory(a.newProvider(a.cfg, a.logger),
		agent.WithMaxTurns(a.cfg.Agent.MaxTurns),
		agent.WithLogger(a.logger))
	orchOpts := []orchestrator.Option{
		orchestrator.WithConfig(a.cfg),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithAgentFactory(factory),
	}
	if opts.hitl {
		orchOpts = append(orchOpts, orchestrator.WithConfirmer(ui.NewConsoleConfirmer(a.stdin, a.stderr, a.cfg.UI)))
	}
	orch := orchestrator.New(bus, orchOpts...)

	fmt.Fprintf(a.stdout, "Running playbook '%s' on plugin '%s'...\n", playbookName, pluginName)

	params := map[string]string{"bug_description": opts.bug}
	out, err := orch.Run(cmd.Context(), orchestrator.Request{
		PlaybookPath: playbookPath,
		PluginPath:   pluginPath,
		Environment:  env,
		Credential:   credential,
		Params:       params,
	})
	if err != nil {
		return err
	}

	var renderer ui.MarkdownRenderer
	if r, err := ui.NewGlamourRenderer(a.cfg.UI.GlamourStyle, renderWidth); err == nil {
		renderer = r
	} else {
		a.logger.Debug("markdown rendering disabled", zap.Error(err))
	}

	fmt.Fprintln(a.stdout, "\n--- Agent's Final Response ---")
	fmt.Fprint(a.stdout, ui.RenderMarkdown(out, renderer))
	fmt.Fprintln(a.stdout, "----------------------------")
	return nil
}

// resolvePaths locates the plugin directory and playbook file under the
// project root. Configured paths that are absolute are used as is.
func (a *app) resolvePaths(env prompt.Environment, pluginName, playbookName string) (string, string, error) {
	pluginsDir := a.cfg.Paths.PluginsReal
	if env == prompt.EnvVirtual {
		pluginsDir = a.cfg.Paths.Output
	}

	pluginPath := filepath.Join(a.underRoot(pluginsDir), pluginName)
	if info, err := os.Stat(pluginPath); err != nil || !info.IsDir() {
		return "", "", fmt.Errorf("plugin '%s' not found at %s", pluginName, pluginPath)
	}

	playbookPath := filepath.Join(a.underRoot(a.cfg.Paths.Playbooks), playbookName+".md")
	if info, err := os.Stat(playbookPath); err != nil || !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("playbook '%s' not found at %s", playbookName, playbookPath)
	}
	return pluginPath, playbookPath, nil
}

func (a *app) underRoot(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.root, p)
}

// printToolCalls echoes each tool call and failure to stderr as it happens.
func (a *app) printToolCalls(bus *event.ToolBus) []event.Subscription {
	return []event.Subscription{
		bus.Subscribe(event.ToolRequested, func(e event.ToolEvent) {
			fmt.Fprintf(a.stderr, "• %s\n", ui.DescribeCall(e.Name, e.Args))
		}),
		bus.Subscribe(event.ToolFailed, func(e event.ToolEvent) {
			fmt.Fprintf(a.stderr, "  ✘ %s: %s\n", e.Name, e.Error)
		}),
	}
}

// Package orchestrator runs one playbook against one plugin workspace.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/agent"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/plugin"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/prompt"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/observe"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool/toolset"
	"go.uber.org/zap"
)

// ErrNoAgent is returned when neither an agent nor an agent factory is configured.
var ErrNoAgent = errors.New("no agent or agent factory configured")

// Request describes one run.
type Request struct {
	PlaybookPath string
	PluginPath   string
	Environment  prompt.Environment
	Credential   string
	// Params fill extra {key} placeholders in the prompt template.
	Params map[string]string
}

// Agent runs a conversation to completion.
type Agent interface {
	Execute(ctx context.Context, prompt string) (string, error)
}

// AgentFactory builds the agent for one run from the credential and the
// observed tools bound to the plugin workspace.
type AgentFactory func(ctx context.Context, credential string, tools []tool.Tool) (Agent, error)

// ProviderFactory creates a model backend for a credential.
type ProviderFactory func(ctx context.Context, credential string) (provider.Provider, error)

// NewDriverFactory returns an AgentFactory building an agent.Driver over the
// provider created by newProvider.
func NewDriverFactory(newProvider ProviderFactory, opts ...agent.Option) AgentFactory {
	return func(ctx context.Context, credential string, tools []tool.Tool) (Agent, error) {
		p, err := newProvider(ctx, credential)
		if err != nil {
			return nil, err
		}
		d, err := agent.New(p, tools, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAgentFactory sets how a run obtains its agent.
func WithAgentFactory(f AgentFactory) Option {
	return func(o *Orchestrator) { o.factory = f }
}

// WithAgent makes every run use a, ignoring the factory. Run then builds no
// tool set of its own: a publishes tool events only if its tools were
// wrapped with observe on the orchestrator's bus.
func WithAgent(a Agent) Option {
	return func(o *Orchestrator) { o.agent = a }
}

// WithConfirmer enables human confirmation of destructive tools.
func WithConfirmer(c observe.Confirmer) Option {
	return func(o *Orchestrator) { o.confirmer = c }
}

// WithConfig overrides the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(o *Orchestrator) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithLogger sets the logger passed down to tools and the observer.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator sequences a run: load, construct the prompt, wire the tools,
// drive the agent. It never retries.
type Orchestrator struct {
	bus       *event.ToolBus
	cfg       *config.Config
	factory   AgentFactory
	agent     Agent
	confirmer observe.Confirmer
	logger    *zap.Logger
}

// New creates an Orchestrator publishing tool events on bus.
func New(bus *event.ToolBus, opts ...Option) *Orchestrator {
	if bus == nil {
		panic("bus is required")
	}
	o := &Orchestrator{
		bus:    bus,
		cfg:    config.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Bus returns the bus tool events are published on.
func (o *Orchestrator) Bus() *event.ToolBus {
	return o.bus
}

// Run executes req and returns the agent's final text. Any failure aborts the
// run; the underlying error stays reachable with errors.Is / errors.As.
func (o *Orchestrator) Run(ctx context.Context, req Request) (string, error) {
	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID))

	profile, err := plugin.LoadProfile(req.PluginPath)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}

	playbook, err := plugin.LoadPlaybook(req.PlaybookPath)
	if err != nil {
		return "", fmt.Errorf("load playbook: %w", err)
	}

	text, err := prompt.Construct(playbook.PromptTemplate, profile, req.Environment, req.Params)
	if err != nil {
		return "", fmt.Errorf("construct prompt: %w", err)
	}

	a, err := o.agentFor(ctx, req, runID)
	if err != nil {
		return "", err
	}

	log.Info("run started",
		zap.String("plugin", profile.Name),
		zap.String("playbook", req.PlaybookPath),
		zap.String("environment", string(req.Environment)),
		zap.Bool("hitl", o.confirmer != nil))

	out, err := a.Execute(ctx, text)
	if err != nil {
		log.Warn("run failed", zap.Error(err))
		return "", fmt.Errorf("run agent: %w", err)
	}

	log.Info("run finished", zap.Int("response_len", len(out)))
	return out, nil
}

// agentFor returns the injected agent, or builds the plugin's tool set,
// wraps it on the bus and asks the factory for an agent over it.
func (o *Orchestrator) agentFor(ctx context.Context, req Request, runID string) (Agent, error) {
	if o.agent != nil {
		o.logger.Debug("using injected agent; no tool set built", zap.String("run_id", runID))
		return o.agent, nil
	}
	if o.factory == nil {
		return nil, fmt.Errorf("create agent: %w", ErrNoAgent)
	}

	tools, err := toolset.Build(req.PluginPath, o.cfg, o.logger)
	if err != nil {
		return nil, fmt.Errorf("build tools: %w", err)
	}

	observeOpts := []observe.Option{observe.WithRunID(runID), observe.WithLogger(o.logger)}
	if o.confirmer != nil {
		observeOpts = append(observeOpts,
			observe.WithConfirmer(o.confirmer),
			observe.WithDestructive(o.cfg.Tools.DestructiveTools...))
	}
	wrapped := observe.WrapAll(tools, o.bus, observeOpts...)

	a, err := o.factory(ctx, req.Credential, wrapped)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return a, nil
}

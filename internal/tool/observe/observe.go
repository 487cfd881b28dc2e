// Package observe wraps tools so every invocation is published on the event
// bus, optionally gated by a human confirmation for destructive tools.
package observe

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"go.uber.org/zap"
)

// ErrRejected is returned when the user declines a destructive tool call.
var ErrRejected = errors.New("tool execution rejected by user")

// DefaultDestructive lists the tools gated by confirmation when none are configured.
var DefaultDestructive = []string{"edit_file", "execute_shell_command"}

// Confirmer asks a human whether a tool call may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, toolName string, args map[string]any) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, toolName string, args map[string]any) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, toolName string, args map[string]any) (bool, error) {
	return f(ctx, toolName, args)
}

// Option configures a wrapped tool.
type Option func(*Tool)

// WithConfirmer enables the confirmation gate.
func WithConfirmer(c Confirmer) Option {
	return func(t *Tool) { t.confirmer = c }
}

// WithDestructive replaces the set of tool names that require confirmation.
func WithDestructive(names ...string) Option {
	return func(t *Tool) { t.destructive = slices.Clone(names) }
}

// WithRunID tags every published event with id.
func WithRunID(id string) Option {
	return func(t *Tool) { t.runID = id }
}

// WithLogger sets the logger used for per-call logging.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tool) {
		if l != nil {
			t.logger = l
		}
	}
}

// Tool is a tool.Tool that publishes its lifecycle on a bus.
type Tool struct {
	inner       tool.Tool
	bus         *event.ToolBus
	confirmer   Confirmer
	destructive []string
	runID       string
	logger      *zap.Logger
}

// Wrap returns inner decorated with event publication. The wrapper keeps the
// inner tool's name and declaration.
func Wrap(inner tool.Tool, bus *event.ToolBus, opts ...Option) *Tool {
	if inner == nil {
		panic("inner tool is required")
	}
	if bus == nil {
		panic("bus is required")
	}
	t := &Tool{
		inner:       inner,
		bus:         bus,
		destructive: DefaultDestructive,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WrapAll wraps each tool with the same options.
func WrapAll(tools []tool.Tool, bus *event.ToolBus, opts ...Option) []tool.Tool {
	out := make([]tool.Tool, len(tools))
	for i, t := range tools {
		out[i] = Wrap(t, bus, opts...)
	}
	return out
}

func (t *Tool) Name() string {
	return t.inner.Name()
}

func (t *Tool) Declaration() tool.Declaration {
	return t.inner.Declaration()
}

// Unwrap returns the wrapped tool.
func (t *Tool) Unwrap() tool.Tool {
	return t.inner
}

// Execute publishes tool_requested, then exactly one of tool_completed or
// tool_failed. Errors from the inner tool, the confirmer, or a rejection are
// returned unchanged after tool_failed is published.
func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	name := t.inner.Name()
	log := t.logger.With(zap.String("tool", name), zap.String("run_id", t.runID))

	t.publish(event.ToolRequested, event.ToolEvent{Args: args})
	log.Debug("tool requested", zap.Any("args", args))

	if t.needsConfirmation(name) {
		approved, err := t.confirmer.Confirm(ctx, name, maps.Clone(args))
		if err == nil && !approved {
			err = ErrRejected
		}
		if err != nil {
			return "", t.fail(log, args, err)
		}
	}

	result, err := t.inner.Execute(ctx, args)
	if err != nil {
		return "", t.fail(log, args, err)
	}

	t.publish(event.ToolCompleted, event.ToolEvent{Args: args, Result: result})
	log.Info("tool completed", zap.Int("result_len", len(result)))
	return result, nil
}

func (t *Tool) needsConfirmation(name string) bool {
	return t.confirmer != nil && slices.Contains(t.destructive, name)
}

func (t *Tool) fail(log *zap.Logger, args map[string]any, err error) error {
	t.publish(event.ToolFailed, event.ToolEvent{Args: args, Error: err.Error()})
	log.Warn("tool failed", zap.Error(err))
	return err
}

// publish sends a copy of the event so listeners never share the caller's args map.
func (t *Tool) publish(name event.Name, ev event.ToolEvent) {
	ev.RunID = t.runID
	ev.Name = t.inner.Name()
	t.bus.Publish(name, ev.Clone())
}

// Package agent drives one conversation between a model and a fixed tool set.
package agent

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"go.uber.org/zap"
)

// DefaultMaxTurns bounds the number of model calls in one conversation.
const DefaultMaxTurns = 50

// ToolCallRecord is one executed (or attempted) tool call.
type ToolCallRecord struct {
	Name   string
	Args   map[string]any
	Result string
	Err    error
}

// Option configures a Driver.
type Option func(*Driver)

// WithMaxTurns sets the maximum number of model calls per conversation.
// Values below 1 keep the default.
func WithMaxTurns(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxTurns = n
		}
	}
}

// WithLogger sets the driver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// Driver runs the model/tool loop: send the history, execute the requested
// tool, append its result, repeat until the model answers with text.
// Only one model call or tool call is outstanding at a time.
type Driver struct {
	provider provider.Provider
	tools    map[string]tool.Tool
	decls    []tool.Declaration
	maxTurns int
	logger   *zap.Logger

	running atomic.Bool

	mu      sync.Mutex
	state   State
	history []provider.Message
	calls   []ToolCallRecord
	final   string
}

// New creates a driver over tools. The name→tool mapping is fixed here.
func New(p provider.Provider, tools []tool.Tool, opts ...Option) (*Driver, error) {
	if p == nil {
		panic("provider is required")
	}

	byName := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTool, t.Name())
		}
		byName[t.Name()] = t
	}

	d := &Driver{
		provider: p,
		tools:    byName,
		decls:    tool.Declarations(tools),
		maxTurns: DefaultMaxTurns,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Execute runs the conversation for prompt to completion and returns the
// model's final text. Intermediate calls are available from ToolCalls.
func (d *Driver) Execute(ctx context.Context, prompt string) (string, error) {
	for _, err := range d.Steps(ctx, prompt) {
		if err != nil {
			return "", err
		}
	}
	return d.FinalText(), nil
}

// Steps starts a conversation for prompt and yields each tool call after it
// is appended to the history and before it executes. Breaking out of the
// loop leaves the call unexecuted. A non-nil error is yielded at most once
// and ends the sequence. When the sequence ends without error the final text
// is available from FinalText.
func (d *Driver) Steps(ctx context.Context, prompt string) iter.Seq2[provider.ToolCall, error] {
	return func(yield func(provider.ToolCall, error) bool) {
		if !d.running.CompareAndSwap(false, true) {
			yield(provider.ToolCall{}, ErrBusy)
			return
		}
		defer d.running.Store(false)

		d.reset(prompt)

		for turn := 0; ; turn++ {
			if err := ctx.Err(); err != nil {
				yield(provider.ToolCall{}, err)
				return
			}
			if turn >= d.maxTurns {
				yield(provider.ToolCall{}, fmt.Errorf("%w (%d)", ErrMaxTurns, d.maxTurns))
				return
			}

			history := d.transition(StateAwaitingModel, nil)
			d.logger.Debug("awaiting model", zap.Int("turn", turn), zap.Int("history_len", len(history)))

			msg, err := d.provider.Generate(ctx, history, d.decls)
			if err != nil {
				yield(provider.ToolCall{}, fmt.Errorf("generate: %w", err))
				return
			}

			if msg.ToolCall == nil {
				d.finish(msg.Text)
				d.logger.Debug("conversation done", zap.Int("turns", turn+1))
				return
			}

			call := provider.ToolCall{Name: msg.ToolCall.Name, Args: maps.Clone(msg.ToolCall.Args)}
			if call.Args == nil {
				call.Args = map[string]any{}
			}
			requested := provider.ModelToolCall(call.Name, maps.Clone(call.Args))
			d.transition(StateToolRequested, &requested)

			if !yield(provider.ToolCall{Name: call.Name, Args: maps.Clone(call.Args)}, nil) {
				return
			}

			result, err := d.execute(ctx, call)
			if err != nil {
				yield(provider.ToolCall{}, err)
				return
			}
			answered := provider.ToolResultMessage(call.Name, result)
			d.transition(StateAwaitingModel, &answered)
		}
	}
}

func (d *Driver) execute(ctx context.Context, call provider.ToolCall) (string, error) {
	t, ok := d.tools[call.Name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
		d.record(ToolCallRecord{Name: call.Name, Args: call.Args, Err: err})
		d.logger.Error("model requested unknown tool", zap.String("tool", call.Name))
		return "", err
	}

	d.transition(StateToolExecuting, nil)
	d.logger.Info("executing tool", zap.String("tool", call.Name))

	result, err := t.Execute(ctx, maps.Clone(call.Args))
	d.record(ToolCallRecord{Name: call.Name, Args: call.Args, Result: result, Err: err})
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", call.Name, err)
	}
	return result, nil
}

func (d *Driver) reset(prompt string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = StateIdle
	d.history = []provider.Message{provider.UserText(prompt)}
	d.calls = nil
	d.final = ""
}

// transition moves to state, appending msg to the history when non-nil, and
// returns a snapshot of the history.
func (d *Driver) transition(state State, msg *provider.Message) []provider.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state
	if msg != nil {
		d.history = append(d.history, *msg)
	}
	return slices.Clone(d.history)
}

func (d *Driver) finish(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, provider.ModelText(text))
	d.final = text
	d.state = StateDone
}

func (d *Driver) record(r ToolCallRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, r)
}

// State returns the driver's current state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// FinalText returns the model's final answer, or "" before StateDone.
func (d *Driver) FinalText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.final
}

// ToolCalls returns every tool call attempted in the current conversation.
func (d *Driver) ToolCalls() []ToolCallRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// History returns a copy of the conversation history.
func (d *Driver) History() []provider.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]provider.Message, len(d.history))
	for i, m := range d.history {
		out[i] = m.Clone()
	}
	return out
}

// Package evaluation runs playbooks and captures their tool events for assertions.
package evaluation

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/orchestrator"
)

// Record is a captured tool event together with the event name it was
// published under.
type Record struct {
	Event event.Name
	event.ToolEvent
}

// Runner runs one playbook request.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) (string, error)
}

// Harness runs a request while listening on the bus the runner publishes to.
type Harness struct {
	runner Runner
	bus    *event.ToolBus

	mu     sync.Mutex
	events []Record
}

// NewHarness creates a harness. bus must be the bus runner publishes on.
func NewHarness(runner Runner, bus *event.ToolBus) *Harness {
	if runner == nil {
		panic("runner is required")
	}
	if bus == nil {
		panic("bus is required")
	}
	return &Harness{runner: runner, bus: bus}
}

// RunAndCapture clears previously captured events, subscribes to every tool
// event, runs req and unsubscribes again, whether or not the run failed.
// Events stay available from Events even when an error is returned.
func (h *Harness) RunAndCapture(ctx context.Context, req orchestrator.Request) (string, error) {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()

	subs := make([]event.Subscription, 0, len(event.ToolNames))
	for _, name := range event.ToolNames {
		subs = append(subs, h.bus.Subscribe(name, func(ev event.ToolEvent) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.events = append(h.events, Record{Event: name, ToolEvent: ev.Clone()})
		}))
	}
	defer func() {
		for _, sub := range subs {
			h.bus.Unsubscribe(sub)
		}
	}()

	return h.runner.Run(ctx, req)
}

// Events returns the events captured by the last run in publication order.
func (h *Harness) Events() Events {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(Events(h.events))
}

// Events is an ordered list of captured records.
type Events []Record

// Filter keeps records published under name.
func (e Events) Filter(name event.Name) Events {
	return e.where(func(r Record) bool { return r.Event == name })
}

// ByTool keeps records of the named tool.
func (e Events) ByTool(tool string) Events {
	return e.where(func(r Record) bool { return r.Name == tool })
}

// WithArg keeps records whose string argument key contains substr.
func (e Events) WithArg(key, substr string) Events {
	return e.where(func(r Record) bool { return strings.Contains(r.Arg(key), substr) })
}

// Tools returns the tool name of each record.
func (e Events) Tools() []string {
	names := make([]string, len(e))
	for i, r := range e {
		names[i] = r.Name
	}
	return names
}

func (e Events) where(keep func(Record) bool) Events {
	var out Events
	for _, r := range e {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Package metrics counts tool lifecycle events as prometheus metrics.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pluginagent"

// Collector records tool events published on a bus.
type Collector struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     prometheus.Counter

	now func() time.Time

	mu      sync.Mutex
	started map[callKey]time.Time
	seen    map[string]struct{}
	subs    []event.Subscription
}

type callKey struct {
	runID string
	tool  string
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_events_total",
			Help:      "Tool lifecycle events by tool and event name.",
		}, []string{"tool", "event"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Time from tool_requested to tool_completed or tool_failed.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool", "outcome"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Distinct run IDs that emitted at least one tool event.",
		}),
		now:     time.Now,
		started: make(map[callKey]time.Time),
		seen:    make(map[string]struct{}),
	}
	c.registry.MustRegister(c.events, c.duration, c.runs)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Attach subscribes the collector to every tool event on bus.
func (c *Collector) Attach(bus *event.ToolBus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range event.ToolNames {
		c.subs = append(c.subs, bus.Subscribe(name, func(e event.ToolEvent) { c.observe(name, e) }))
	}
}

// Detach removes the subscriptions made by Attach.
func (c *Collector) Detach(bus *event.ToolBus) {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		bus.Unsubscribe(sub)
	}
}

func (c *Collector) observe(name event.Name, e event.ToolEvent) {
	c.events.WithLabelValues(e.Name, string(name)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[e.RunID]; !ok {
		c.seen[e.RunID] = struct{}{}
		c.runs.Inc()
	}

	key := callKey{runID: e.RunID, tool: e.Name}
	switch name {
	case event.ToolRequested:
		c.started[key] = c.now()
	case event.ToolCompleted, event.ToolFailed:
		start, ok := c.started[key]
		if !ok {
			return
		}
		delete(c.started, key)
		outcome := "completed"
		if name == event.ToolFailed {
			outcome = "failed"
		}
		c.duration.WithLabelValues(e.Name, outcome).Observe(c.now().Sub(start).Seconds())
	}
}

// WriteToTextfile writes the collected metrics in the text exposition format,
// for pickup by a node exporter textfile collector.
func (c *Collector) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

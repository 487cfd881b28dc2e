package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttached(t *testing.T) (*Collector, *event.ToolBus) {
	t.Helper()
	bus := event.NewToolBus()
	c := NewCollector()
	c.Attach(bus)
	return c, bus
}

func TestCollector_CountsEventsByToolAndName(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r1", Name: "read_file"})
	bus.Publish(event.ToolCompleted, event.ToolEvent{RunID: "r1", Name: "read_file", Result: "x"})
	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r1", Name: "write_file"})
	bus.Publish(event.ToolFailed, event.ToolEvent{RunID: "r1", Name: "write_file", Error: "rejected"})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("read_file", "tool_requested")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("read_file", "tool_completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("write_file", "tool_failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.events.WithLabelValues("write_file", "tool_completed")))
}

func TestCollector_CountsDistinctRuns(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r1", Name: "list_files"})
	bus.Publish(event.ToolCompleted, event.ToolEvent{RunID: "r1", Name: "list_files"})
	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r2", Name: "list_files"})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.runs))
}

func TestCollector_ObservesDuration(t *testing.T) {
	c, bus := newAttached(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(250 * time.Millisecond)}
	c.now = func() time.Time {
		now := ticks[0]
		ticks = ticks[1:]
		return now
	}

	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r1", Name: "execute_shell_command"})
	bus.Publish(event.ToolCompleted, event.ToolEvent{RunID: "r1", Name: "execute_shell_command"})

	expected := `
# HELP pluginagent_tool_duration_seconds Time from tool_requested to tool_completed or tool_failed.
# TYPE pluginagent_tool_duration_seconds histogram
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.005"} 0
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.01"} 0
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.025"} 0
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.05"} 0
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.1"} 0
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.25"} 1
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="0.5"} 1
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="1"} 1
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="2.5"} 1
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="5"} 1
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="10"} 1
pluginagent_tool_duration_seconds_bucket{outcome="completed",tool="execute_shell_command",le="+Inf"} 1
pluginagent_tool_duration_seconds_sum{outcome="completed",tool="execute_shell_command"} 0.25
pluginagent_tool_duration_seconds_count{outcome="completed",tool="execute_shell_command"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(c.duration, strings.NewReader(expected)))
}

func TestCollector_FailedWithoutRequest_NoDuration(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(event.ToolFailed, event.ToolEvent{RunID: "r1", Name: "edit_file"})

	assert.Equal(t, 0, testutil.CollectAndCount(c.duration))
}

func TestCollector_Detach(t *testing.T) {
	c, bus := newAttached(t)
	c.Detach(bus)

	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r1", Name: "read_file"})

	assert.Equal(t, 0, testutil.CollectAndCount(c.events))
	for _, name := range event.ToolNames {
		assert.Equal(t, 0, bus.Len(name))
	}
}

func TestCollector_WriteToTextfile(t *testing.T) {
	c, bus := newAttached(t)
	bus.Publish(event.ToolRequested, event.ToolEvent{RunID: "r1", Name: "read_file"})
	path := filepath.Join(t.TempDir(), "pluginagent.prom")

	require.NoError(t, c.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `pluginagent_tool_events_total{event="tool_requested",tool="read_file"} 1`)
	assert.Contains(t, string(data), "pluginagent_runs_total 1")
}

func TestCollector_WriteToTextfile_BadDir(t *testing.T) {
	c := NewCollector()

	err := c.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))

	assert.ErrorContains(t, err, "write metrics")
}

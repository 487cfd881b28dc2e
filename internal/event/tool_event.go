package event

import "maps"

// Tool lifecycle event names.
const (
	ToolRequested Name = "tool_requested"
	ToolCompleted Name = "tool_completed"
	ToolFailed    Name = "tool_failed"
)

// ToolNames lists every tool lifecycle event in emission order.
var ToolNames = []Name{ToolRequested, ToolCompleted, ToolFailed}

// ToolEvent is the payload of a tool lifecycle event.
// Result is set only for ToolCompleted, Error only for ToolFailed.
type ToolEvent struct {
	RunID  string
	Name   string
	Args   map[string]any
	Result string
	Error  string
}

// ToolBus is the bus carrying tool lifecycle events.
type ToolBus = Bus[ToolEvent]

// NewToolBus creates an empty ToolBus.
func NewToolBus() *ToolBus {
	return NewBus[ToolEvent]()
}

// Clone returns a copy of e whose Args map is not shared with e.
func (e ToolEvent) Clone() ToolEvent {
	e.Args = maps.Clone(e.Args)
	return e
}

// Arg returns the named argument rendered as a string, or "" if absent
// or not a string.
func (e ToolEvent) Arg(key string) string {
	s, _ := e.Args[key].(string)
	return s
}

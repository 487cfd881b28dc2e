package agent

// State is the position of a driver in its conversation.
type State int

const (
	StateIdle State = iota
	StateAwaitingModel
	StateToolRequested
	StateToolExecuting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingModel:
		return "awaiting_model"
	case StateToolRequested:
		return "tool_requested"
	case StateToolExecuting:
		return "tool_executing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

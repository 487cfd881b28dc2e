package agent

import "errors"

var (
	// ErrUnknownTool is returned when the model requests a tool the driver
	// was not constructed with.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMaxTurns is returned when the model keeps requesting tools past the
	// configured number of turns.
	ErrMaxTurns = errors.New("max turns reached")

	// ErrDuplicateTool is returned by New when two tools share a name.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrBusy is returned when a conversation is started while another is
	// still running on the same driver.
	ErrBusy = errors.New("driver is already running")
)

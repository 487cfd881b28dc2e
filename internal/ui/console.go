package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
)

// ConsoleConfirmer asks for tool approval on a terminal. Answering "always"
// approves every later call of the same tool without prompting.
type ConsoleConfirmer struct {
	styles Styles
	run    func(ctx context.Context, m tea.Model) (tea.Model, error)

	mu     sync.Mutex
	always map[string]bool
}

// NewConsoleConfirmer creates a confirmer reading keys from in and drawing to out.
func NewConsoleConfirmer(in io.Reader, out io.Writer, cfg config.UIConfig) *ConsoleConfirmer {
	return &ConsoleConfirmer{
		styles: NewStyles(cfg),
		run: func(ctx context.Context, m tea.Model) (tea.Model, error) {
			p := tea.NewProgram(m,
				tea.WithContext(ctx),
				tea.WithInput(in),
				tea.WithOutput(out),
			)
			return p.Run()
		},
		always: make(map[string]bool),
	}
}

// Confirm blocks until the user answers. It implements observe.Confirmer.
func (c *ConsoleConfirmer) Confirm(ctx context.Context, toolName string, args map[string]any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.always[toolName] {
		return true, nil
	}

	final, err := c.run(ctx, newConfirmModel(toolName, args, c.styles))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("confirmation prompt: unexpected model %T", final)
	}

	switch m.decision {
	case DecisionAllowAlways:
		c.always[toolName] = true
		return true, nil
	case DecisionAllow:
		return true, nil
	default:
		return false, nil
	}
}

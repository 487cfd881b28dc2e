package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
)

// Styles holds the lipgloss styles used by the console prompts.
type Styles struct {
	Box      lipgloss.Style
	Title    lipgloss.Style
	Detail   lipgloss.Style
	Removed  lipgloss.Style
	Added    lipgloss.Style
	Approved lipgloss.Style
	Rejected lipgloss.Style
}

// NewStyles builds the prompt styles from the configured colors.
func NewStyles(cfg config.UIConfig) Styles {
	primary := lipgloss.Color(cfg.ColorPrimary)
	warning := lipgloss.Color(cfg.ColorWarning)

	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warning).
			Padding(0, 1),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(warning),
		Detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Removed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Added:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Approved: lipgloss.NewStyle().Foreground(primary),
		Rejected: lipgloss.NewStyle().Foreground(warning),
	}
}

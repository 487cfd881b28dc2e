package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Decision is the user's answer to a confirmation prompt.
type Decision string

const (
	DecisionPending     Decision = ""
	DecisionAllow       Decision = "allow"
	DecisionDeny        Decision = "deny"
	DecisionAllowAlways Decision = "allow_always"
)

type confirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Always key.Binding
	Cancel key.Binding
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Always}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Cancel}}
}

func defaultConfirmKeys() confirmKeyMap {
	return confirmKeyMap{
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "allow")),
		No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "deny")),
		Always: key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "always allow this tool")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "deny")),
	}
}

// confirmModel is the bubbletea model behind a single y/n prompt.
type confirmModel struct {
	toolName string
	args     map[string]any
	styles   Styles
	keys     confirmKeyMap
	help     help.Model
	decision Decision
}

func newConfirmModel(toolName string, args map[string]any, styles Styles) confirmModel {
	return confirmModel{
		toolName: toolName,
		args:     args,
		styles:   styles,
		keys:     defaultConfirmKeys(),
		help:     help.New(),
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.decision = DecisionAllow
	case key.Matches(keyMsg, m.keys.Always):
		m.decision = DecisionAllowAlways
	case key.Matches(keyMsg, m.keys.No), key.Matches(keyMsg, m.keys.Cancel):
		m.decision = DecisionDeny
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	summary := DescribeCall(m.toolName, m.args)

	switch m.decision {
	case DecisionAllow, DecisionAllowAlways:
		return m.styles.Approved.Render("✔ "+summary) + "\n"
	case DecisionDeny:
		return m.styles.Rejected.Render("✘ "+summary) + "\n"
	}

	lines := []string{m.styles.Title.Render(fmt.Sprintf("Allow %s?", summary))}
	if preview := RenderPreview(m.toolName, m.args, m.styles); preview != "" {
		lines = append(lines, "", preview)
	}
	lines = append(lines, "", m.help.ShortHelpView(m.keys.ShortHelp()))

	return m.styles.Box.Render(strings.Join(lines, "\n")) + "\n"
}

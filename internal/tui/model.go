// Package tui wires the health monitor and the generation workflow into a
// single Bubble Tea program.
package tui

import (
	"context"

	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/alkime/avatarcast/internal/tui/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

// Config carries the root model's dependencies.
type Config struct {
	Cancel    context.CancelFunc
	Gateway   workflow.Gateway
	Languages []gateway.Language
}

type model struct {
	cancel context.CancelFunc
	health workflow.HealthMonitor
	flow   workflow.Model
}

// New creates the root TUI model.
func New(cfg Config) tea.Model {
	return model{
		cancel: cfg.Cancel,
		health: workflow.NewHealthMonitor(cfg.Gateway),
		flow:   workflow.NewModel(cfg.Gateway, cfg.Languages),
	}
}

func (m model) Init() tea.Cmd {
	// Health check runs independently of the workflow from the start.
	return tea.Batch(m.health.Init(), m.flow.Init())
}

func (m model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := teaMsg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		if m.cancel != nil {
			m.cancel()
		}

		return m, tea.Quit
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Delegate to sub-models; each picks out its own messages.
	m.health, cmd = m.health.Update(teaMsg)
	cmds = append(cmds, cmd)

	m.flow, cmd = m.flow.Update(teaMsg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	health := m.health.View()
	if health != "" {
		health += "\n\n"
	}

	return health + m.flow.View()
}

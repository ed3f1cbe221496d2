package workflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alkime/avatarcast/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// How long the all-clear notice stays visible.
	healthyNoticeWindow = 3 * time.Second
	// Delay before the single re-check after a service start.
	startRecheckDelay = 5 * time.Second
)

type healthState int

const (
	healthChecking healthState = iota
	healthHealthy
	healthDegraded
	healthUnreachable
	healthStarting
)

type healthKeyMap struct {
	Remediate key.Binding
}

func defaultHealthKeyMap() healthKeyMap {
	return healthKeyMap{
		Remediate: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "start services"),
		),
	}
}

// HealthMonitor checks service health on startup and offers a single manual
// remediation when the service is unreachable. It never retries on its own:
// one successful start request schedules exactly one re-check.
type HealthMonitor struct {
	gw      Gateway
	spinner spinner.Model
	keys    healthKeyMap
	state   healthState
	notice  string
}

// NewHealthMonitor creates a monitor in the checking state.
func NewHealthMonitor(gw Gateway) HealthMonitor {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return HealthMonitor{
		gw:      gw,
		spinner: sp,
		keys:    defaultHealthKeyMap(),
		state:   healthChecking,
		notice:  "Checking service status...",
	}
}

// Init starts the spinner and issues the initial health check.
func (h HealthMonitor) Init() tea.Cmd {
	return tea.Batch(h.spinner.Tick, h.checkCmd())
}

// Update handles health messages and the remediation key.
func (h HealthMonitor) Update(teaMsg tea.Msg) (HealthMonitor, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case healthCheckedMsg:
		if typedMsg.err != nil {
			h.state = healthUnreachable
			h.notice = "Cannot reach the service. Press ctrl+s to start services."
			slog.Error("Health check failed", "error", typedMsg.err)

			return h, nil
		}

		if typedMsg.report.OK() {
			h.state = healthHealthy
			h.notice = "All services running"

			return h, tea.Tick(healthyNoticeWindow, func(time.Time) tea.Msg {
				return healthNoticeTickMsg{}
			})
		}

		h.state = healthDegraded
		failed := typedMsg.report.FailedServices()
		h.notice = "Some services are unavailable: " + strings.Join(failed, ", ")
		slog.Warn("Service health degraded", "failed_services", failed)

		return h, nil

	case healthNoticeTickMsg:
		// Only the healthy notice auto-clears; a late tick after the state
		// moved on must not blank a warning.
		if h.state == healthHealthy {
			h.notice = ""
		}

		return h, nil

	case servicesStartedMsg:
		if typedMsg.err != nil {
			h.state = healthUnreachable
			h.notice = "Failed to start services: " + typedMsg.err.Error()
			slog.Error("Service start failed", "error", typedMsg.err)

			return h, nil
		}

		h.notice = typedMsg.message + ", re-checking shortly..."

		return h, tea.Tick(startRecheckDelay, func(time.Time) tea.Msg {
			return healthRecheckTickMsg{}
		})

	case healthRecheckTickMsg:
		if h.state != healthStarting {
			return h, nil
		}
		h.state = healthChecking
		h.notice = "Checking service status..."

		return h, h.checkCmd()

	case tea.KeyMsg:
		if h.state == healthUnreachable && key.Matches(typedMsg, h.keys.Remediate) {
			h.state = healthStarting
			h.notice = "Starting services, please wait..."

			return h, h.startCmd()
		}

		return h, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(typedMsg)

		return h, cmd
	}

	return h, nil
}

// View renders the one-line status notice.
func (h HealthMonitor) View() string {
	if h.notice == "" {
		return ""
	}

	switch h.state {
	case healthChecking, healthStarting:
		return h.spinner.View() + " " + style.Subtitle.Render(h.notice)
	case healthHealthy:
		return style.Success.Render(h.notice)
	case healthDegraded:
		return style.Warning.Render(h.notice)
	default:
		return style.Error.Render(h.notice)
	}
}

func (h HealthMonitor) checkCmd() tea.Cmd {
	gw := h.gw
	return func() tea.Msg {
		report, err := gw.CheckHealth(context.Background())
		return healthCheckedMsg{report: report, err: err}
	}
}

func (h HealthMonitor) startCmd() tea.Cmd {
	gw := h.gw
	return func() tea.Msg {
		message, err := gw.StartServices(context.Background())
		return servicesStartedMsg{message: message, err: err}
	}
}

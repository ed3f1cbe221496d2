// Package workflow implements the talking-avatar generation workflow: a
// three-stage state machine (input, settings, preview) driven entirely by
// user events and completed asynchronous calls.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/alkime/avatarcast/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// How long the full progress bar stays visible after success.
const progressGraceWindow = time.Second

type stageID int

const (
	stageInput stageID = iota
	stageSettings
	stagePreview
)

var stageNames = []string{"Input", "Settings", "Preview"}

type workflowKeyMap struct {
	Next  key.Binding
	Back  key.Binding
	Reset key.Binding
}

func defaultWorkflowKeyMap() workflowKeyMap {
	return workflowKeyMap{
		Next: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "back"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "new video"),
		),
	}
}

// Model is the workflow state machine. It owns the current stage and the
// generation attempt counter; stage data lives in the stage models and is
// read only as a snapshot when a transition or submission is requested.
type Model struct {
	gw   Gateway
	keys workflowKeyMap

	stage    stageID
	input    inputModel
	settings settingsModel
	preview  previewModel

	// validationMsg is the inline message shown when a guard blocks a
	// forward transition.
	validationMsg string

	// attempt numbers generation submissions so results and grace timers
	// from superseded attempts are dropped.
	attempt int
}

// NewModel creates the workflow over the given gateway. languages are the
// filter options offered on the settings stage.
func NewModel(gw Gateway, languages []gateway.Language) Model {
	return Model{
		gw:       gw,
		keys:     defaultWorkflowKeyMap(),
		stage:    stageInput,
		input:    newInputModel(gw),
		settings: newSettingsModel(gw, languages),
		preview:  newPreviewModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.input.Init(), m.settings.Init())
}

func (m Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case voicesLoadedMsg, avatarsLoadedMsg:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(typedMsg)

		return m, cmd

	case uploadFinishedMsg:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(typedMsg)

		return m, cmd

	case generateFinishedMsg:
		return m.applyGenerationResult(typedMsg)

	case progressGraceTickMsg:
		// A stale tick from a superseded attempt must not touch the bar.
		if typedMsg.attempt == m.attempt && m.preview.state == previewSucceeded {
			m.preview = m.preview.hideProgressBar()
		}

		return m, nil

	case spinner.TickMsg, progress.FrameMsg:
		// Tick messages carry component ids; every model ignores ticks
		// that are not its own, so broadcast is safe.
		return m.broadcast(typedMsg)

	case tea.KeyMsg:
		switch {
		case key.Matches(typedMsg, m.keys.Reset):
			return m.resetWorkflow()
		case key.Matches(typedMsg, m.keys.Next):
			return m.advance()
		case key.Matches(typedMsg, m.keys.Back):
			return m.back(), nil
		}
	}

	return m.routeToStage(teaMsg)
}

// broadcast sends a message to all stage models.
func (m Model) broadcast(teaMsg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(teaMsg)
	cmds = append(cmds, cmd)
	m.settings, cmd = m.settings.Update(teaMsg)
	cmds = append(cmds, cmd)
	m.preview, cmd = m.preview.Update(teaMsg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// routeToStage delivers a message to the current stage model only.
func (m Model) routeToStage(teaMsg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.stage {
	case stageInput:
		m.input, cmd = m.input.Update(teaMsg)
	case stageSettings:
		m.settings, cmd = m.settings.Update(teaMsg)
	case stagePreview:
		m.preview, cmd = m.preview.Update(teaMsg)
	}

	return m, cmd
}

// advance validates the current stage's exit precondition and moves
// forward. Leaving settings composes the request snapshot and submits it.
func (m Model) advance() (Model, tea.Cmd) {
	switch m.stage {
	case stageInput:
		if err := m.input.validate(); err != nil {
			m.validationMsg = err.Error()
			return m, nil
		}
		m.validationMsg = ""
		m.stage = stageSettings

		return m, nil

	case stageSettings:
		if err := m.settings.validate(); err != nil {
			m.validationMsg = err.Error()
			return m, nil
		}
		m.validationMsg = ""
		m.stage = stagePreview

		// Snapshot the stage data now; the request is never composed
		// earlier than submission.
		req := m.composeRequest()
		m.attempt++
		m.preview = m.preview.beginSubmit()
		slog.Info("Submitting generation request",
			"attempt", m.attempt,
			"voice_id", req.VoiceID,
			"avatar_id", req.AvatarID,
			"video_mode", req.VideoMode,
		)

		return m, tea.Batch(m.preview.Init(), m.submitCmd(m.attempt, req))
	}

	return m, nil
}

// back moves to the previous stage unconditionally.
func (m Model) back() Model {
	m.validationMsg = ""

	switch m.stage {
	case stageSettings:
		m.stage = stageInput
	case stagePreview:
		m.stage = stageSettings
	}

	return m
}

// resetWorkflow returns to the input stage with all run state cleared. Any
// in-flight generation result is orphaned by the attempt bump.
func (m Model) resetWorkflow() (Model, tea.Cmd) {
	m.stage = stageInput
	m.attempt++
	m.validationMsg = ""
	m.input = m.input.reset()
	m.settings = m.settings.reset()
	m.preview = m.preview.reset()

	return m, m.input.Init()
}

func (m Model) composeRequest() gateway.GenerationRequest {
	filter := m.settings.Filter()
	req := gateway.GenerationRequest{
		Language:  filter.Language,
		Gender:    filter.Gender,
		VoiceID:   m.settings.SelectedVoiceID(),
		AvatarID:  m.settings.SelectedAvatarID(),
		VideoMode: m.settings.VideoMode(),
	}

	if m.input.TextMode() {
		req.Text = m.input.Text()
	} else {
		asset := m.input.Asset()
		req.FileID = asset.FileID
		req.FileExt = asset.FileExt
	}

	return req
}

func (m Model) applyGenerationResult(msg generateFinishedMsg) (Model, tea.Cmd) {
	if msg.attempt != m.attempt {
		slog.Debug("Dropping generation result from superseded attempt",
			"got_attempt", msg.attempt, "want_attempt", m.attempt)
		return m, nil
	}

	if msg.err != nil {
		m.preview = m.preview.finishFailure(userMessage(msg.err))
		slog.Error("Generation failed", "error", msg.err)

		return m, nil
	}

	m.preview = m.preview.finishSuccess(msg.result)
	slog.Info("Generation complete", "final_video_id", msg.result.FinalVideoID)

	attempt := m.attempt

	return m, tea.Tick(progressGraceWindow, func(time.Time) tea.Msg {
		return progressGraceTickMsg{attempt: attempt}
	})
}

func (m Model) submitCmd(attempt int, req gateway.GenerationRequest) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		result, err := gw.Generate(context.Background(), req)
		return generateFinishedMsg{attempt: attempt, result: result, err: err}
	}
}

// userMessage extracts the message to surface for a failed operation: the
// server-supplied one when available, a generic one for transport failures.
func userMessage(err error) string {
	var svcErr *gateway.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}

	return "could not reach the service, please retry"
}

func (m Model) View() string {
	var sb strings.Builder

	// Breadcrumb with the current stage highlighted
	crumbs := make([]string, len(stageNames))
	for i, name := range stageNames {
		if stageID(i) == m.stage {
			crumbs[i] = style.Key.Render(name)
		} else {
			crumbs[i] = style.Muted.Render(name)
		}
	}
	sb.WriteString(strings.Join(crumbs, style.Muted.Render(" → ")))
	sb.WriteString("\n\n")

	if m.validationMsg != "" {
		sb.WriteString(style.Error.Render(m.validationMsg))
		sb.WriteString("\n\n")
	}

	switch m.stage {
	case stageInput:
		sb.WriteString(m.input.View())
	case stageSettings:
		sb.WriteString(m.settings.View())
	case stagePreview:
		sb.WriteString(m.preview.View())
	}

	sb.WriteString("\n\n")
	sb.WriteString(style.Help.Render("ctrl+n next • ctrl+b back • ctrl+r new video • ctrl+c quit"))

	return sb.String()
}

package workflow

import (
	"context"
	"testing"

	"github.com/alkime/avatarcast/internal/gateway"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// mockGateway implements Gateway for testing and records the calls made.
type mockGateway struct {
	health    gateway.HealthReport
	healthErr error

	startMsg string
	startErr error

	uploadAsset gateway.UploadedAsset
	uploadErr   error

	voices    []gateway.Voice
	voicesErr error

	avatars    []gateway.Avatar
	avatarsErr error

	result      gateway.GenerationResult
	generateErr error

	voiceCalls   int
	avatarCalls  int
	generateReqs []gateway.GenerationRequest
}

func (m *mockGateway) CheckHealth(_ context.Context) (gateway.HealthReport, error) {
	return m.health, m.healthErr
}

func (m *mockGateway) StartServices(_ context.Context) (string, error) {
	return m.startMsg, m.startErr
}

func (m *mockGateway) Upload(_ context.Context, _ []byte, _ string) (gateway.UploadedAsset, error) {
	return m.uploadAsset, m.uploadErr
}

func (m *mockGateway) Voices(_ context.Context, _ gateway.CatalogFilter) ([]gateway.Voice, error) {
	m.voiceCalls++
	return m.voices, m.voicesErr
}

func (m *mockGateway) Avatars(_ context.Context, _ gateway.CatalogFilter) ([]gateway.Avatar, error) {
	m.avatarCalls++
	return m.avatars, m.avatarsErr
}

func (m *mockGateway) Generate(_ context.Context, req gateway.GenerationRequest) (gateway.GenerationResult, error) {
	m.generateReqs = append(m.generateReqs, req)
	return m.result, m.generateErr
}

func testLanguages() []gateway.Language {
	return []gateway.Language{
		{Code: "zh-CN", Name: "Mandarin"},
		{Code: "en-US", Name: "English (US)"},
	}
}

// collectMsgs executes a command tree synchronously and returns the
// produced messages. Only safe for commands that resolve immediately
// (mocked gateway calls, spinner ticks); timer commands are never executed
// by tests, their messages are constructed directly instead.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, collectMsgs(t, sub)...)
		}

		return out
	}

	return []tea.Msg{msg}
}

// findMsg returns the first message of type T produced by cmd.
func findMsg[T any](t *testing.T, cmd tea.Cmd) (T, bool) {
	t.Helper()

	for _, msg := range collectMsgs(t, cmd) {
		if typed, ok := msg.(T); ok {
			return typed, true
		}
	}

	var zero T

	return zero, false
}

func keyPress(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

func runePress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

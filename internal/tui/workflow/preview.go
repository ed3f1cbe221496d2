package workflow

import (
	"strings"

	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/alkime/avatarcast/internal/tui/style"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type previewState int

const (
	previewIdle previewState = iota
	previewSubmitting
	previewSucceeded
	previewFailed
)

// previewModel reports generation progress and exposes the final result.
// Progress is a three-point signal (10% on submit, 100% on success, 0% on
// failure); the backend provides no incremental stream.
type previewModel struct {
	spinner  spinner.Model
	progress progress.Model

	state        previewState
	percent      float64
	statusMsg    string
	showProgress bool
	result       gateway.GenerationResult
}

func newPreviewModel() previewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Points

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	return previewModel{
		spinner:  sp,
		progress: p,
	}
}

func (pm previewModel) Init() tea.Cmd {
	if pm.state == previewSubmitting {
		return pm.spinner.Tick
	}

	return nil
}

func (pm previewModel) Update(teaMsg tea.Msg) (previewModel, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case spinner.TickMsg:
		if pm.state == previewSubmitting {
			var cmd tea.Cmd
			pm.spinner, cmd = pm.spinner.Update(typedMsg)

			return pm, cmd
		}

		return pm, nil

	case progress.FrameMsg:
		progressModel, cmd := pm.progress.Update(typedMsg)
		pm.progress = progressModel.(progress.Model) //nolint:forcetypeassert // bubbles library contract

		return pm, cmd
	}

	return pm, nil
}

// beginSubmit enters the submitting sub-state: progress shown, prior result
// hidden.
func (pm previewModel) beginSubmit() previewModel {
	pm.state = previewSubmitting
	pm.percent = 0.10
	pm.statusMsg = "Processing request..."
	pm.showProgress = true
	pm.result = gateway.GenerationResult{}

	return pm
}

func (pm previewModel) finishSuccess(result gateway.GenerationResult) previewModel {
	pm.state = previewSucceeded
	pm.percent = 1.0
	pm.statusMsg = "Video generation complete!"
	pm.result = result

	return pm
}

func (pm previewModel) finishFailure(message string) previewModel {
	pm.state = previewFailed
	pm.percent = 0
	pm.statusMsg = "Video generation failed: " + message

	return pm
}

// hideProgressBar ends the post-success confirmation window.
func (pm previewModel) hideProgressBar() previewModel {
	pm.showProgress = false

	return pm
}

func (pm previewModel) reset() previewModel {
	pm.state = previewIdle
	pm.percent = 0
	pm.statusMsg = ""
	pm.showProgress = false
	pm.result = gateway.GenerationResult{}

	return pm
}

func (pm previewModel) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Preview"))
	sb.WriteString("\n\n")

	if pm.showProgress {
		if pm.state == previewSubmitting {
			sb.WriteString(pm.spinner.View())
			sb.WriteString(" ")
		}
		sb.WriteString(pm.progress.ViewAs(pm.percent))
		sb.WriteString("\n")
	}

	switch pm.state {
	case previewSubmitting:
		sb.WriteString(style.Subtitle.Render(pm.statusMsg))
		sb.WriteString("\n")
	case previewSucceeded:
		sb.WriteString(style.Success.Render(pm.statusMsg))
		sb.WriteString("\n\n")
		sb.WriteString(style.Label.Render("Preview: "))
		sb.WriteString(style.Muted.Render(pm.result.PreviewURL))
		sb.WriteString("\n")
		sb.WriteString(style.Label.Render("Download: "))
		sb.WriteString(style.Muted.Render(pm.result.DownloadURL))
		sb.WriteString("\n")
	case previewFailed:
		sb.WriteString(style.Error.Render(pm.statusMsg))
		sb.WriteString("\n")
	}

	return sb.String()
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/alkime/avatarcast/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputMode int

const (
	modeText inputMode = iota
	modeFile
)

type uploadState int

const (
	uploadIdle uploadState = iota
	uploadInFlight
	uploadDone
	uploadFailed
)

type inputKeyMap struct {
	ToggleMode key.Binding
	Upload     key.Binding
}

func defaultInputKeyMap() inputKeyMap {
	return inputKeyMap{
		ToggleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch text/file input"),
		),
		Upload: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "upload file"),
		),
	}
}

// inputModel manages the choice between raw-text input and uploaded-file
// input, and owns the upload result for the lifetime of one workflow run.
type inputModel struct {
	gw      Gateway
	keys    inputKeyMap
	spinner spinner.Model

	mode      inputMode
	text      textarea.Model
	path      textinput.Model
	upload    uploadState
	asset     gateway.UploadedAsset
	uploadErr string
}

func newInputModel(gw Gateway) inputModel {
	ta := textarea.New()
	ta.Placeholder = "Enter the speech text..."
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Path to a script or narration file (txt, docx, pdf, mp3, wav)"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return inputModel{
		gw:      gw,
		keys:    defaultInputKeyMap(),
		spinner: sp,
		mode:    modeText,
		text:    ta,
		path:    ti,
	}
}

func (im inputModel) Init() tea.Cmd {
	return textarea.Blink
}

func (im inputModel) Update(teaMsg tea.Msg) (inputModel, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case uploadFinishedMsg:
		if typedMsg.err != nil {
			im.upload = uploadFailed
			im.uploadErr = typedMsg.err.Error()
			slog.Error("Upload failed", "error", typedMsg.err)

			return im, nil
		}

		im.upload = uploadDone
		im.asset = typedMsg.asset
		im.uploadErr = ""
		slog.Info("File uploaded", "file_id", typedMsg.asset.FileID, "ext", typedMsg.asset.FileExt)

		// A recognized text upload pre-fills the text editor as a
		// convenience, not a mode lock: the user may switch back to file
		// mode and the seeded text stays.
		if typedMsg.asset.ExtractedText != "" {
			im.mode = modeText
			im.text.SetValue(typedMsg.asset.ExtractedText)
			im.text.Focus()
			im.path.Blur()
		}

		return im, nil

	case spinner.TickMsg:
		if im.upload == uploadInFlight {
			var cmd tea.Cmd
			im.spinner, cmd = im.spinner.Update(typedMsg)

			return im, cmd
		}

		return im, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(typedMsg, im.keys.ToggleMode):
			return im.toggleMode(), nil

		case im.mode == modeFile && key.Matches(typedMsg, im.keys.Upload):
			path := strings.TrimSpace(im.path.Value())
			if path == "" || im.upload == uploadInFlight {
				return im, nil
			}
			im.upload = uploadInFlight
			im.uploadErr = ""

			return im, tea.Batch(im.spinner.Tick, im.uploadCmd(path))
		}
	}

	// Remaining messages (typing, blink) go to the focused control.
	var cmd tea.Cmd
	if im.mode == modeText {
		im.text, cmd = im.text.Update(teaMsg)
	} else {
		im.path, cmd = im.path.Update(teaMsg)
	}

	return im, cmd
}

func (im inputModel) toggleMode() inputModel {
	if im.mode == modeText {
		im.mode = modeFile
		im.text.Blur()
		im.path.Focus()
	} else {
		im.mode = modeText
		im.path.Blur()
		im.text.Focus()
	}

	return im
}

func (im inputModel) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Speech input"))
	sb.WriteString("\n\n")

	if im.mode == modeText {
		sb.WriteString(im.text.View())
	} else {
		sb.WriteString(im.path.View())
		sb.WriteString("\n")

		switch im.upload {
		case uploadInFlight:
			sb.WriteString(im.spinner.View())
			sb.WriteString(" ")
			sb.WriteString(style.Subtitle.Render("Uploading file, please wait..."))
		case uploadDone:
			sb.WriteString(style.Success.Render("File uploaded"))
			sb.WriteString(" ")
			sb.WriteString(style.Muted.Render(im.asset.FileID + "." + im.asset.FileExt))
		case uploadFailed:
			sb.WriteString(style.Error.Render("Upload failed: " + im.uploadErr))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(style.Help.Render(im.keys.ToggleMode.Help().Key + " " + im.keys.ToggleMode.Help().Desc))

	return sb.String()
}

// validate is the exit precondition for the input stage.
func (im inputModel) validate() error {
	if im.mode == modeText {
		if strings.TrimSpace(im.text.Value()) == "" {
			return validationErr("enter the speech text before continuing")
		}

		return nil
	}

	if im.upload != uploadDone {
		return validationErr("upload a file before continuing")
	}

	return nil
}

// Text returns the trimmed text payload snapshot.
func (im inputModel) Text() string {
	return strings.TrimSpace(im.text.Value())
}

// Asset returns the current uploaded asset snapshot.
func (im inputModel) Asset() gateway.UploadedAsset {
	return im.asset
}

func (im inputModel) TextMode() bool {
	return im.mode == modeText
}

// reset clears text, path and the uploaded asset for a fresh run.
func (im inputModel) reset() inputModel {
	im.text.SetValue("")
	im.path.SetValue("")
	im.mode = modeText
	im.text.Focus()
	im.path.Blur()
	im.upload = uploadIdle
	im.asset = gateway.UploadedAsset{}
	im.uploadErr = ""

	return im
}

func (im inputModel) uploadCmd(path string) tea.Cmd {
	gw := im.gw
	return func() tea.Msg {
		contents, err := os.ReadFile(path)
		if err != nil {
			return uploadFinishedMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}

		asset, err := gw.Upload(context.Background(), contents, filepath.Base(path))

		return uploadFinishedMsg{asset: asset, err: err}
	}
}

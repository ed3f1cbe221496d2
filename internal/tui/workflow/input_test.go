package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/avatarcast/internal/gateway"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestInputValidateTextMode(t *testing.T) {
	input := newInputModel(&mockGateway{})

	require.Error(t, input.validate(), "empty text must block the stage exit")

	input.text.SetValue("   ")
	require.Error(t, input.validate(), "whitespace-only text must block the stage exit")

	input.text.SetValue("hello world")
	assert.NoError(t, input.validate())
	assert.Equal(t, "hello world", input.Text())
}

func TestInputValidateFileMode(t *testing.T) {
	input := newInputModel(&mockGateway{})
	input = input.toggleMode()

	require.Error(t, input.validate(), "file mode without a completed upload must block")

	asset := gateway.UploadedAsset{FileID: "f-123", FileExt: "mp3"}
	input, _ = input.Update(uploadFinishedMsg{asset: asset})

	assert.NoError(t, input.validate())
	assert.Equal(t, asset, input.Asset())
	assert.False(t, input.TextMode(), "an audio upload stays in file mode")
}

func TestInputUploadFailureBlocksAdvance(t *testing.T) {
	gw := &mockGateway{
		uploadErr: &gateway.ServiceError{Op: "upload", Message: "file type not supported"},
	}
	input := newInputModel(gw)
	input = input.toggleMode()
	input.path.SetValue(writeTempFile(t, "narration.ogg", "not really audio"))

	input, cmd := input.Update(keyPress(tea.KeyEnter))
	require.Equal(t, uploadInFlight, input.upload)

	finished, ok := findMsg[uploadFinishedMsg](t, cmd)
	require.True(t, ok)
	require.Error(t, finished.err)

	input, _ = input.Update(finished)
	assert.Equal(t, uploadFailed, input.upload)
	assert.Contains(t, input.uploadErr, "file type not supported")
	assert.Error(t, input.validate())
}

func TestInputUploadUnreadablePath(t *testing.T) {
	input := newInputModel(&mockGateway{})
	input = input.toggleMode()
	input.path.SetValue(filepath.Join(t.TempDir(), "missing.txt"))

	input, cmd := input.Update(keyPress(tea.KeyEnter))

	finished, ok := findMsg[uploadFinishedMsg](t, cmd)
	require.True(t, ok)
	require.Error(t, finished.err)

	input, _ = input.Update(finished)
	assert.Equal(t, uploadFailed, input.upload)
}

func TestInputExtractedTextSwitchesToTextMode(t *testing.T) {
	gw := &mockGateway{
		uploadAsset: gateway.UploadedAsset{
			FileID:        "f-456",
			FileExt:       "txt",
			ExtractedText: "script contents",
		},
	}
	input := newInputModel(gw)
	input = input.toggleMode()
	input.path.SetValue(writeTempFile(t, "script.txt", "script contents"))

	input, cmd := input.Update(keyPress(tea.KeyEnter))

	finished, ok := findMsg[uploadFinishedMsg](t, cmd)
	require.True(t, ok)
	require.NoError(t, finished.err)

	input, _ = input.Update(finished)
	assert.True(t, input.TextMode())
	assert.Equal(t, "script contents", input.Text())

	// Switching back to file mode keeps the seeded text.
	input = input.toggleMode()
	input = input.toggleMode()
	assert.Equal(t, "script contents", input.Text())
}

func TestInputEnterIgnoredWhileUploadInFlight(t *testing.T) {
	input := newInputModel(&mockGateway{})
	input = input.toggleMode()
	input.path.SetValue(writeTempFile(t, "a.txt", "a"))
	input.upload = uploadInFlight

	_, cmd := input.Update(keyPress(tea.KeyEnter))
	assert.Nil(t, cmd, "a second upload must not start while one is in flight")
}

func TestInputResetClearsRunState(t *testing.T) {
	input := newInputModel(&mockGateway{})
	input.text.SetValue("hello")
	input, _ = input.Update(uploadFinishedMsg{asset: gateway.UploadedAsset{FileID: "f-1", FileExt: "wav"}})

	input = input.reset()

	assert.Empty(t, input.Text())
	assert.Equal(t, gateway.UploadedAsset{}, input.Asset())
	assert.Equal(t, uploadIdle, input.upload)
	assert.True(t, input.TextMode())
}

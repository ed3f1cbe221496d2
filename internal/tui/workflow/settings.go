package workflow

import (
	"fmt"
	"strings"

	"github.com/alkime/avatarcast/internal/gateway"
	"github.com/alkime/avatarcast/internal/tui/style"
	"github.com/alkime/avatarcast/pkg/collections"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type settingsFocus int

const (
	focusVoices settingsFocus = iota
	focusAvatars
)

type settingsKeyMap struct {
	Language  key.Binding
	Gender    key.Binding
	VideoMode key.Binding
	Focus     key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
}

func defaultSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Language: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "cycle language"),
		),
		Gender: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "cycle gender"),
		),
		VideoMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle video mode"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch voices/avatars"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "select"),
		),
	}
}

// settingsModel owns the catalog filter, the loaded catalogs and the
// voice/avatar selections.
type settingsModel struct {
	keys     settingsKeyMap
	spinner  spinner.Model
	catalogs Catalogs

	languages []gateway.Language
	genders   []string
	modes     []string

	langIdx   int
	genderIdx int
	modeIdx   int

	focus        settingsFocus
	voiceCursor  int
	avatarCursor int

	initCmd tea.Cmd
}

func newSettingsModel(gw Gateway, languages []gateway.Language) settingsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	sm := settingsModel{
		keys:      defaultSettingsKeyMap(),
		spinner:   sp,
		languages: languages,
		genders:   []string{"female", "male"},
		modes:     []string{gateway.ModeSceneSwitching, gateway.ModePictureInPicture},
	}
	sm.catalogs = NewCatalogs(gw, sm.filterFromOptions())

	// Issue the initial loads here so the generation counters live in the
	// model value the program starts with; Init cannot mutate it.
	sm.initCmd = sm.catalogs.Reload()

	return sm
}

func (sm settingsModel) filterFromOptions() gateway.CatalogFilter {
	return gateway.CatalogFilter{
		Language: sm.languages[sm.langIdx].Code,
		Gender:   sm.genders[sm.genderIdx],
	}
}

func (sm settingsModel) Init() tea.Cmd {
	return tea.Batch(sm.spinner.Tick, sm.initCmd)
}

func (sm settingsModel) Update(teaMsg tea.Msg) (settingsModel, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case voicesLoadedMsg, avatarsLoadedMsg:
		var cmd tea.Cmd
		sm.catalogs, cmd = sm.catalogs.Update(typedMsg)
		sm.voiceCursor = clampCursor(sm.voiceCursor, len(sm.catalogs.Voices()))
		sm.avatarCursor = clampCursor(sm.avatarCursor, len(sm.catalogs.Avatars()))

		return sm, cmd

	case spinner.TickMsg:
		if sm.catalogs.VoiceState() == loadLoading || sm.catalogs.AvatarState() == loadLoading {
			var cmd tea.Cmd
			sm.spinner, cmd = sm.spinner.Update(typedMsg)

			return sm, cmd
		}

		return sm, nil

	case tea.KeyMsg:
		return sm.handleKey(typedMsg)
	}

	return sm, nil
}

func (sm settingsModel) handleKey(keyMsg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch {
	case key.Matches(keyMsg, sm.keys.Language):
		sm.langIdx = (sm.langIdx + 1) % len(sm.languages)

		return sm.applyFilter()

	case key.Matches(keyMsg, sm.keys.Gender):
		sm.genderIdx = (sm.genderIdx + 1) % len(sm.genders)

		return sm.applyFilter()

	case key.Matches(keyMsg, sm.keys.VideoMode):
		sm.modeIdx = (sm.modeIdx + 1) % len(sm.modes)

		return sm, nil

	case key.Matches(keyMsg, sm.keys.Focus):
		if sm.focus == focusVoices {
			sm.focus = focusAvatars
		} else {
			sm.focus = focusVoices
		}

		return sm, nil

	case key.Matches(keyMsg, sm.keys.Up):
		sm = sm.moveCursor(-1)

		return sm, nil

	case key.Matches(keyMsg, sm.keys.Down):
		sm = sm.moveCursor(1)

		return sm, nil

	case key.Matches(keyMsg, sm.keys.Select):
		return sm.selectHighlighted(), nil
	}

	return sm, nil
}

func (sm settingsModel) applyFilter() (settingsModel, tea.Cmd) {
	sm.voiceCursor = 0
	sm.avatarCursor = 0
	cmd := sm.catalogs.SetFilter(sm.filterFromOptions())

	return sm, tea.Batch(sm.spinner.Tick, cmd)
}

func (sm settingsModel) moveCursor(delta int) settingsModel {
	if sm.focus == focusVoices {
		sm.voiceCursor = clampCursor(sm.voiceCursor+delta, len(sm.catalogs.Voices()))
	} else {
		sm.avatarCursor = clampCursor(sm.avatarCursor+delta, len(sm.catalogs.Avatars()))
	}

	return sm
}

func (sm settingsModel) selectHighlighted() settingsModel {
	if sm.focus == focusVoices {
		voices := sm.catalogs.Voices()
		if sm.catalogs.VoiceState() == loadReady && len(voices) > 0 {
			sm.catalogs.SelectVoice(voices[sm.voiceCursor].ID)
		}

		return sm
	}

	avatars := sm.catalogs.Avatars()
	if sm.catalogs.AvatarState() == loadReady && len(avatars) > 0 {
		sm.catalogs.SelectAvatar(avatars[sm.avatarCursor].ID)
	}

	return sm
}

func (sm settingsModel) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Voice and avatar settings"))
	sb.WriteString("\n\n")

	filter := sm.catalogs.Filter()
	sb.WriteString(style.Label.Render("Language: "))
	sb.WriteString(sm.languages[sm.langIdx].Name)
	sb.WriteString("  ")
	sb.WriteString(style.Label.Render("Gender: "))
	sb.WriteString(filter.Gender)
	sb.WriteString("  ")
	sb.WriteString(style.Label.Render("Video mode: "))
	sb.WriteString(sm.modes[sm.modeIdx])
	sb.WriteString("\n\n")

	sb.WriteString(sm.renderCatalog("Voices", sm.catalogs.VoiceState(),
		collections.Apply(sm.catalogs.Voices(), func(v gateway.Voice) catalogRow {
			return catalogRow{id: v.ID, name: v.Name}
		}),
		sm.voiceCursor, sm.catalogs.SelectedVoiceID(), sm.focus == focusVoices))
	sb.WriteString("\n")
	sb.WriteString(sm.renderCatalog("Avatars", sm.catalogs.AvatarState(),
		collections.Apply(sm.catalogs.Avatars(), func(a gateway.Avatar) catalogRow {
			return catalogRow{id: a.ID, name: a.Name}
		}),
		sm.avatarCursor, sm.catalogs.SelectedAvatarID(), sm.focus == focusAvatars))

	sb.WriteString("\n")
	sb.WriteString(style.Help.Render("l language • g gender • m mode • tab focus • ↑/↓ move • enter select"))

	return sb.String()
}

type catalogRow struct {
	id   string
	name string
}

func (sm settingsModel) renderCatalog(title string, state loadState, rows []catalogRow, cursor int, selectedID string, focused bool) string {
	var sb strings.Builder

	header := title
	if focused {
		header = "» " + title
	}
	sb.WriteString(style.Label.Render(header))
	sb.WriteString("\n")

	switch state {
	case loadLoading:
		sb.WriteString(sm.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(style.Subtitle.Render("Loading..."))
		sb.WriteString("\n")
	case loadFailed:
		sb.WriteString(style.Error.Render("Load failed, change the filter to retry"))
		sb.WriteString("\n")
	case loadReady:
		if len(rows) == 0 {
			sb.WriteString(style.Muted.Render("None available"))
			sb.WriteString("\n")
			break
		}
		for i, row := range rows {
			marker := "  "
			if i == cursor && focused {
				marker = "> "
			}
			line := fmt.Sprintf("%s%s", marker, row.name)
			if row.id == selectedID {
				line += " ✓"
				sb.WriteString(style.Selected.Render(line))
			} else {
				sb.WriteString(line)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// validate is the exit precondition for the settings stage.
func (sm settingsModel) validate() error {
	if sm.catalogs.SelectedVoiceID() == "" {
		return validationErr("select a voice before generating")
	}
	if sm.catalogs.SelectedAvatarID() == "" {
		return validationErr("select an avatar before generating")
	}

	return nil
}

func (sm settingsModel) VideoMode() string {
	return sm.modes[sm.modeIdx]
}

// Snapshot accessors read by the workflow at transition and submit time.

func (sm settingsModel) Filter() gateway.CatalogFilter {
	return sm.catalogs.Filter()
}

func (sm settingsModel) SelectedVoiceID() string {
	return sm.catalogs.SelectedVoiceID()
}

func (sm settingsModel) SelectedAvatarID() string {
	return sm.catalogs.SelectedAvatarID()
}

// reset clears the selections but keeps the loaded catalogs and filter.
func (sm settingsModel) reset() settingsModel {
	sm.catalogs.ClearSelections()

	return sm
}

func clampCursor(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}

	return cursor
}

package workflow

import (
	"context"
	"log/slog"

	"github.com/alkime/avatarcast/internal/gateway"
	tea "github.com/charmbracelet/bubbletea"
)

type loadState int

const (
	loadLoading loadState = iota
	loadReady
	loadFailed
)

// Catalogs owns the voice and avatar catalogs and the current selections.
// Every reload carries a per-catalog generation number; a response is
// applied only if it is still the latest issued for that catalog, so a slow
// early response can never clobber a faster later one.
type Catalogs struct {
	gw     Gateway
	filter gateway.CatalogFilter

	voiceState loadState
	voices     []gateway.Voice
	voiceGen   uint64

	avatarState loadState
	avatars     []gateway.Avatar
	avatarGen   uint64

	selectedVoiceID  string
	selectedAvatarID string
}

// NewCatalogs creates an unloaded catalog controller for the given filter.
// Call SetFilter (or Reload) to issue the first loads.
func NewCatalogs(gw Gateway, filter gateway.CatalogFilter) Catalogs {
	return Catalogs{
		gw:     gw,
		filter: filter,
	}
}

// SetFilter installs a new filter and issues fresh reloads for both
// catalogs. Selections are cleared: catalog ids are filter-scoped, so a
// selection from the previous filter would silently reference the wrong
// catalog.
func (c *Catalogs) SetFilter(filter gateway.CatalogFilter) tea.Cmd {
	c.filter = filter
	c.selectedVoiceID = ""
	c.selectedAvatarID = ""

	return c.Reload()
}

// Reload re-queries both catalogs with the current filter. Prior pending
// requests are superseded, not cancelled; their responses are dropped on
// arrival.
func (c *Catalogs) Reload() tea.Cmd {
	c.voiceGen++
	c.voiceState = loadLoading
	c.avatarGen++
	c.avatarState = loadLoading

	return tea.Batch(
		c.loadVoicesCmd(c.voiceGen, c.filter),
		c.loadAvatarsCmd(c.avatarGen, c.filter),
	)
}

// Update applies catalog load results, dropping stale generations.
func (c Catalogs) Update(teaMsg tea.Msg) (Catalogs, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case voicesLoadedMsg:
		if typedMsg.gen != c.voiceGen {
			slog.Debug("Dropping stale voice catalog response",
				"got_gen", typedMsg.gen, "want_gen", c.voiceGen)
			return c, nil
		}
		if typedMsg.err != nil {
			c.voiceState = loadFailed
			slog.Error("Voice catalog load failed", "error", typedMsg.err)
			return c, nil
		}
		c.voiceState = loadReady
		c.voices = typedMsg.voices

		return c, nil

	case avatarsLoadedMsg:
		if typedMsg.gen != c.avatarGen {
			slog.Debug("Dropping stale avatar catalog response",
				"got_gen", typedMsg.gen, "want_gen", c.avatarGen)
			return c, nil
		}
		if typedMsg.err != nil {
			c.avatarState = loadFailed
			slog.Error("Avatar catalog load failed", "error", typedMsg.err)
			return c, nil
		}
		c.avatarState = loadReady
		c.avatars = typedMsg.avatars

		return c, nil
	}

	return c, nil
}

// SelectVoice records the chosen voice id. Pure assignment: the id is not
// checked against the loaded catalog.
func (c *Catalogs) SelectVoice(id string) {
	c.selectedVoiceID = id
}

// SelectAvatar records the chosen avatar id. Pure assignment, as above.
func (c *Catalogs) SelectAvatar(id string) {
	c.selectedAvatarID = id
}

// ClearSelections drops both selections, e.g. on workflow reset.
func (c *Catalogs) ClearSelections() {
	c.selectedVoiceID = ""
	c.selectedAvatarID = ""
}

func (c Catalogs) Filter() gateway.CatalogFilter { return c.filter }
func (c Catalogs) Voices() []gateway.Voice       { return c.voices }
func (c Catalogs) Avatars() []gateway.Avatar     { return c.avatars }
func (c Catalogs) VoiceState() loadState         { return c.voiceState }
func (c Catalogs) AvatarState() loadState        { return c.avatarState }
func (c Catalogs) SelectedVoiceID() string       { return c.selectedVoiceID }
func (c Catalogs) SelectedAvatarID() string      { return c.selectedAvatarID }

func (c Catalogs) loadVoicesCmd(gen uint64, filter gateway.CatalogFilter) tea.Cmd {
	gw := c.gw
	return func() tea.Msg {
		voices, err := gw.Voices(context.Background(), filter)
		return voicesLoadedMsg{gen: gen, voices: voices, err: err}
	}
}

func (c Catalogs) loadAvatarsCmd(gen uint64, filter gateway.CatalogFilter) tea.Cmd {
	gw := c.gw
	return func() tea.Msg {
		avatars, err := gw.Avatars(context.Background(), filter)
		return avatarsLoadedMsg{gen: gen, avatars: avatars, err: err}
	}
}

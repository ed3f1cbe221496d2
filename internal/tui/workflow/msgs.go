package workflow

import "github.com/alkime/avatarcast/internal/gateway"

// Async results come back as messages. Messages that can arrive stale carry
// the generation or attempt they were issued under so the receiver can drop
// them ("last request started wins").

type healthCheckedMsg struct {
	report gateway.HealthReport
	err    error
}

// healthNoticeTickMsg clears the healthy notice after its display window.
type healthNoticeTickMsg struct{}

type servicesStartedMsg struct {
	message string
	err     error
}

// healthRecheckTickMsg fires the single scheduled re-check after a
// successful service start.
type healthRecheckTickMsg struct{}

type voicesLoadedMsg struct {
	gen    uint64
	voices []gateway.Voice
	err    error
}

type avatarsLoadedMsg struct {
	gen     uint64
	avatars []gateway.Avatar
	err     error
}

type uploadFinishedMsg struct {
	asset gateway.UploadedAsset
	err   error
}

type generateFinishedMsg struct {
	attempt int
	result  gateway.GenerationResult
	err     error
}

// progressGraceTickMsg hides the progress bar after the post-success grace
// window. Stale ticks (older attempt) are no-ops.
type progressGraceTickMsg struct {
	attempt int
}

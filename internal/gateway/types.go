// Package gateway provides a typed client for the avatar video service API.
package gateway

// CatalogFilter selects which voices and avatars a catalog query returns.
// The same filter value drives both catalogs.
type CatalogFilter struct {
	Language string
	Gender   string
}

// HealthReport is the decoded /api/health response.
type HealthReport struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Services map[string]string `json:"services"`
}

// OK reports whether every backing service is healthy.
func (h HealthReport) OK() bool {
	return h.Status == "ok"
}

// FailedServices returns the names of services not reporting "ok".
func (h HealthReport) FailedServices() []string {
	var failed []string
	for name, status := range h.Services {
		if status != "ok" {
			failed = append(failed, name)
		}
	}
	return failed
}

// Voice is a selectable TTS voice.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Avatar is a selectable presenter avatar.
type Avatar struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
}

// Language is a supported speech language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UploadedAsset identifies a file stored by the service.
// ExtractedText is non-empty when the service recognized text content
// (plain-text scripts) and extracted it during upload.
type UploadedAsset struct {
	FileID        string `json:"file_id"`
	FileExt       string `json:"file_ext"`
	ExtractedText string `json:"text"`
}

// Video composition modes understood by the service.
const (
	ModeSceneSwitching   = "scene_switching"
	ModePictureInPicture = "picture_in_picture"
)

// GenerationRequest is the wire shape of POST /api/generate.
// Exactly one of Text or FileID+FileExt is set; the request is composed
// from current workflow snapshots only at submit time.
type GenerationRequest struct {
	Language  string `json:"language"`
	Gender    string `json:"gender"`
	VoiceID   string `json:"voice_id"`
	AvatarID  string `json:"avatar_id"`
	VideoMode string `json:"video_mode"`
	Text      string `json:"text,omitempty"`
	FileID    string `json:"file_id,omitempty"`
	FileExt   string `json:"file_ext,omitempty"`
}

// GenerationResult is a successful /api/generate response.
type GenerationResult struct {
	FinalVideoID string `json:"final_video_id"`
	PreviewURL   string `json:"preview_url"`
	DownloadURL  string `json:"download_url"`
}

package workflow

import (
	"context"

	"github.com/alkime/avatarcast/internal/gateway"
)

// Gateway is the remote service surface the workflow drives.
// *gateway.Client satisfies it.
type Gateway interface {
	CheckHealth(ctx context.Context) (gateway.HealthReport, error)
	StartServices(ctx context.Context) (string, error)
	Upload(ctx context.Context, contents []byte, filename string) (gateway.UploadedAsset, error)
	Voices(ctx context.Context, filter gateway.CatalogFilter) ([]gateway.Voice, error)
	Avatars(ctx context.Context, filter gateway.CatalogFilter) ([]gateway.Avatar, error)
	Generate(ctx context.Context, req gateway.GenerationRequest) (gateway.GenerationResult, error)
}

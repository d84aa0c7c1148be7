package repository

import (
	"context"

	"social-flood/domain/dto"
)

// IPublisher submits one platform-specific post to the remote posting
// endpoint. Implementations classify failures as model.PlatformError so the
// orchestrator can attach them to the variant without losing the kind.
type IPublisher interface {
	PublishPost(ctx context.Context, req dto.PlatformPostRequest) (*dto.PostResponse, error)
}

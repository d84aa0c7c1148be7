package repository

import (
	"context"

	"social-flood/domain/model"
)

// IConnectState tracks which platforms a user has an OAuth popup in flight
// for, so a later reconcile knows what to re-aggregate. Entries expire on
// their own; an abandoned popup simply ages out.
type IConnectState interface {
	MarkPending(ctx context.Context, userID string, platform model.Platform) error
	PendingPlatforms(ctx context.Context, userID string) ([]model.Platform, error)
	ClearPending(ctx context.Context, userID string, platform model.Platform) error
}

package repository

import (
	"context"

	"social-flood/domain/model"
)

// IConnectionAPI is the remote authorization service seen from the core.
// The primary transport is the cookie-session connections API; platforms
// flagged RequiresUserID use the legacy per-user shape and globally
// authenticated platforms use their dedicated listing endpoint.
type IConnectionAPI interface {
	// ListConnections returns every connection of the session user.
	ListConnections(ctx context.Context) ([]model.Connection, error)
	// LegacyStatus fetches one platform's connection for an explicit user id.
	LegacyStatus(ctx context.Context, platform model.Platform, userID string) (*model.Connection, error)
	// GlobalAccounts lists every attached account of a globally-authenticated
	// platform.
	GlobalAccounts(ctx context.Context, platform model.Platform) ([]model.Connection, error)
	// ConnectURL returns the external authorization URL to open in a popup.
	ConnectURL(platform model.Platform, userID string) string
	// Disconnect removes a connection by id.
	Disconnect(ctx context.Context, connectionID string) error
	// RefreshConnection refreshes a connection's token and returns the
	// updated copy.
	RefreshConnection(ctx context.Context, connectionID string) (*model.Connection, error)
	// ConnectionDetails fetches one connection by id.
	ConnectionDetails(ctx context.Context, connectionID string) (*model.Connection, error)
}

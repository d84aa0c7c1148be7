package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"social-flood/domain/dto"
	"social-flood/domain/model"
	"social-flood/domain/repository"
	"social-flood/infrastructure/logger"

	"golang.org/x/oauth2"
)

// IOAuthUsecase coordinates the popup connect flow. BeginConnect is
// fire-and-forget: the popup is a separate browsing context we never observe.
// Completion is detected indirectly by Reconcile re-running the aggregator;
// a popup the user abandons changes nothing and its pending marker expires.
type IOAuthUsecase interface {
	BeginConnect(ctx context.Context, platform model.Platform, userID string) (dto.ConnectBeginResponse, error)
	Reconcile(ctx context.Context, userID string) (map[model.Platform]model.ConnectionSnapshot, error)
}

type oauthUsecase struct {
	api         repository.IConnectionAPI
	connections IConnectionUsecase
	state       repository.IConnectState
	directOAuth map[model.Platform]*oauth2.Config
}

func NewOAuthUsecase(api repository.IConnectionAPI, connections IConnectionUsecase, state repository.IConnectState, directOAuth map[model.Platform]*oauth2.Config) IOAuthUsecase {
	if directOAuth == nil {
		directOAuth = map[model.Platform]*oauth2.Config{}
	}
	return &oauthUsecase{api: api, connections: connections, state: state, directOAuth: directOAuth}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// BeginConnect resolves the external authorization URL to open in a detached
// window and marks the flow pending for a later reconcile.
func (u *oauthUsecase) BeginConnect(ctx context.Context, platform model.Platform, userID string) (dto.ConnectBeginResponse, error) {
	d := model.Descriptor(platform)
	if !model.IsKnownPlatform(platform) {
		return dto.ConnectBeginResponse{}, model.NewPlatformError(platform, model.ErrValidationFailed, "unknown platform")
	}
	if !d.Available {
		return dto.ConnectBeginResponse{}, model.NewPlatformError(platform, model.ErrValidationFailed, "platform not yet available")
	}
	if d.RequiresUserID && userID == "" {
		return dto.ConnectBeginResponse{}, model.NewPlatformError(platform, model.ErrValidationFailed, "user identifier required")
	}

	var authURL string
	if cfg, ok := u.directOAuth[platform]; ok && cfg.ClientID != "" {
		// Direct authorize flow with client credentials configured locally;
		// the remote service still handles the callback.
		authURL = cfg.AuthCodeURL(randomState(), oauth2.AccessTypeOffline)
	} else {
		authURL = u.api.ConnectURL(platform, userID)
	}

	if err := u.state.MarkPending(ctx, userID, platform); err != nil {
		logger.GetLogger().WithField("platform", platform).WithField("error", err).Warn("failed to mark connect pending")
	}
	return dto.ConnectBeginResponse{Platform: platform, AuthURL: authURL}, nil
}

// Reconcile re-runs the aggregator. The remote status endpoint is the only
// source of truth for whether a popup flow completed; pending markers whose
// platform turned out connected are cleared.
func (u *oauthUsecase) Reconcile(ctx context.Context, userID string) (map[model.Platform]model.ConnectionSnapshot, error) {
	snaps, err := u.connections.Refresh(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	pending, err := u.state.PendingPlatforms(ctx, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to list pending connects")
		return snaps, nil
	}
	for _, p := range pending {
		if snap, ok := snaps[p]; ok && snap.Connected() {
			if err := u.state.ClearPending(ctx, userID, p); err != nil {
				logger.GetLogger().WithField("platform", p).WithField("error", err).Warn("failed to clear pending connect")
			}
		}
	}
	return snaps, nil
}

package usecase_test

import (
	"context"
	"testing"
	"time"

	"social-flood/domain/model"
	"social-flood/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockConnectionAPI struct {
	mock.Mock
}

func (m *MockConnectionAPI) ListConnections(ctx context.Context) ([]model.Connection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Connection), args.Error(1)
}

func (m *MockConnectionAPI) LegacyStatus(ctx context.Context, platform model.Platform, userID string) (*model.Connection, error) {
	args := m.Called(ctx, platform, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func (m *MockConnectionAPI) GlobalAccounts(ctx context.Context, platform model.Platform) ([]model.Connection, error) {
	args := m.Called(ctx, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Connection), args.Error(1)
}

func (m *MockConnectionAPI) ConnectURL(platform model.Platform, userID string) string {
	args := m.Called(platform, userID)
	return args.String(0)
}

func (m *MockConnectionAPI) Disconnect(ctx context.Context, connectionID string) error {
	args := m.Called(ctx, connectionID)
	return args.Error(0)
}

func (m *MockConnectionAPI) RefreshConnection(ctx context.Context, connectionID string) (*model.Connection, error) {
	args := m.Called(ctx, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func (m *MockConnectionAPI) ConnectionDetails(ctx context.Context, connectionID string) (*model.Connection, error) {
	args := m.Called(ctx, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func activeConnection(platform model.Platform) model.Connection {
	return model.Connection{
		ID:             "conn-" + string(platform),
		Platform:       platform,
		PlatformUserID: "ext-1",
		IsActive:       true,
		ExpiresAt:      time.Now().Add(time.Hour),
	}
}

func TestConnectionUsecase_RefreshSessionPlatforms(t *testing.T) {
	mockAPI := new(MockConnectionAPI)
	mockAPI.On("ListConnections", mock.Anything).
		Return([]model.Connection{activeConnection(model.PlatformTwitter)}, nil)

	u := usecase.NewConnectionUsecase(mockAPI)
	snaps, err := u.Refresh(context.Background(), []model.Platform{model.PlatformTwitter, model.PlatformLinkedIn}, "")

	assert.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.True(t, snaps[model.PlatformTwitter].Connected())
	assert.False(t, snaps[model.PlatformLinkedIn].Connected())
	assert.Nil(t, snaps[model.PlatformLinkedIn].FetchError)
	assert.Equal(t, 1, u.ActiveCount())
	mockAPI.AssertNumberOfCalls(t, "ListConnections", 1)
}

func TestConnectionUsecase_RefreshFailureIsolation(t *testing.T) {
	// The shared listing call fails; the global platform still resolves.
	mockAPI := new(MockConnectionAPI)
	mockAPI.On("ListConnections", mock.Anything).
		Return(nil, model.NewPlatformError("", model.ErrUnauthenticated, "no session"))
	mockAPI.On("GlobalAccounts", mock.Anything, model.PlatformTikTok).
		Return([]model.Connection{activeConnection(model.PlatformTikTok)}, nil)

	u := usecase.NewConnectionUsecase(mockAPI)
	snaps, err := u.Refresh(context.Background(), []model.Platform{model.PlatformTwitter, model.PlatformBluesky, model.PlatformTikTok}, "")

	assert.NoError(t, err)
	assert.Len(t, snaps, 3)
	for _, p := range []model.Platform{model.PlatformTwitter, model.PlatformBluesky} {
		assert.NotNil(t, snaps[p].FetchError)
		assert.Equal(t, model.ErrUnauthenticated, snaps[p].FetchError.Kind)
		assert.Equal(t, p, snaps[p].FetchError.Platform, "each snapshot carries its own platform")
	}
	assert.True(t, snaps[model.PlatformTikTok].Connected())
}

func TestConnectionUsecase_LegacyPlatformNeedsUserID(t *testing.T) {
	mockAPI := new(MockConnectionAPI)

	u := usecase.NewConnectionUsecase(mockAPI)
	snaps, err := u.Refresh(context.Background(), []model.Platform{model.PlatformInstagram}, "")

	assert.NoError(t, err)
	assert.NotNil(t, snaps[model.PlatformInstagram].FetchError)
	assert.Equal(t, model.ErrValidationFailed, snaps[model.PlatformInstagram].FetchError.Kind)
	mockAPI.AssertNotCalled(t, "LegacyStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConnectionUsecase_LegacyPlatformWithUserID(t *testing.T) {
	conn := activeConnection(model.PlatformInstagram)
	mockAPI := new(MockConnectionAPI)
	mockAPI.On("LegacyStatus", mock.Anything, model.PlatformInstagram, "user-9").Return(&conn, nil)

	u := usecase.NewConnectionUsecase(mockAPI)
	snaps, err := u.Refresh(context.Background(), []model.Platform{model.PlatformInstagram}, "user-9")

	assert.NoError(t, err)
	assert.True(t, snaps[model.PlatformInstagram].Connected())
}

func TestConnectionUsecase_GlobalAccountsPicksFirstActive(t *testing.T) {
	inactive := activeConnection(model.PlatformTikTok)
	inactive.ID = "conn-old"
	inactive.IsActive = false
	active := activeConnection(model.PlatformTikTok)

	mockAPI := new(MockConnectionAPI)
	mockAPI.On("GlobalAccounts", mock.Anything, model.PlatformTikTok).
		Return([]model.Connection{inactive, active}, nil)

	u := usecase.NewConnectionUsecase(mockAPI)
	snaps, err := u.Refresh(context.Background(), []model.Platform{model.PlatformTikTok}, "")

	assert.NoError(t, err)
	snap := snaps[model.PlatformTikTok]
	assert.Len(t, snap.Accounts, 2)
	assert.NotNil(t, snap.Connection)
	assert.Equal(t, active.ID, snap.Connection.ID)
}

func TestConnectionUsecase_StaleRefreshNeverOverwrites(t *testing.T) {
	slowStarted := make(chan struct{})
	release := make(chan struct{})

	stale := activeConnection(model.PlatformTwitter)
	stale.ID = "conn-stale"
	fresh := activeConnection(model.PlatformTwitter)
	fresh.ID = "conn-fresh"

	mockAPI := new(MockConnectionAPI)
	mockAPI.On("ListConnections", mock.Anything).
		Run(func(args mock.Arguments) {
			close(slowStarted)
			<-release
		}).
		Return([]model.Connection{stale}, nil).Once()
	mockAPI.On("ListConnections", mock.Anything).
		Return([]model.Connection{fresh}, nil).Once()

	u := usecase.NewConnectionUsecase(mockAPI)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = u.Refresh(context.Background(), []model.Platform{model.PlatformTwitter}, "")
	}()
	<-slowStarted

	// A second refresh starts and finishes while the first is stuck.
	_, err := u.Refresh(context.Background(), []model.Platform{model.PlatformTwitter}, "")
	assert.NoError(t, err)

	close(release)
	<-done

	snaps := u.Snapshots()
	assert.Equal(t, "conn-fresh", snaps[model.PlatformTwitter].Connection.ID)
}

func TestConnectionUsecase_DisconnectPassesThroughNotFound(t *testing.T) {
	mockAPI := new(MockConnectionAPI)
	mockAPI.On("Disconnect", mock.Anything, "conn-gone").
		Return(model.NewPlatformError("", model.ErrNotFound, "connection not found"))

	u := usecase.NewConnectionUsecase(mockAPI)
	err := u.Disconnect(context.Background(), "conn-gone")

	assert.Error(t, err)
	assert.Equal(t, model.ErrNotFound, model.KindOf(err))
}

func TestConnectionUsecase_RefreshOneExpired(t *testing.T) {
	mockAPI := new(MockConnectionAPI)
	mockAPI.On("RefreshConnection", mock.Anything, "conn-1").
		Return(nil, model.NewPlatformError("", model.ErrExpired, "refresh token expired"))

	u := usecase.NewConnectionUsecase(mockAPI)
	_, err := u.RefreshOne(context.Background(), "conn-1")

	assert.Error(t, err)
	assert.Equal(t, model.ErrExpired, model.KindOf(err))
}

package usecase

import (
	"context"
	"sync"

	"social-flood/domain/model"
	"social-flood/domain/repository"
	"social-flood/infrastructure/logger"
)

// IConnectionUsecase aggregates per-platform connection state into a unified
// view. Refresh issues one status lookup per platform concurrently and joins
// with an all-complete collect: one platform failing never hides the others.
type IConnectionUsecase interface {
	Refresh(ctx context.Context, platforms []model.Platform, userID string) (map[model.Platform]model.ConnectionSnapshot, error)
	Snapshots() map[model.Platform]model.ConnectionSnapshot
	ActiveCount() int
	Disconnect(ctx context.Context, connectionID string) error
	RefreshOne(ctx context.Context, connectionID string) (*model.Connection, error)
	Details(ctx context.Context, connectionID string) (*model.Connection, error)
}

type connectionUsecase struct {
	api repository.IConnectionAPI

	mu        sync.Mutex
	issued    uint64
	committed uint64
	snapshots map[model.Platform]model.ConnectionSnapshot
}

func NewConnectionUsecase(api repository.IConnectionAPI) IConnectionUsecase {
	return &connectionUsecase{
		api:       api,
		snapshots: make(map[model.Platform]model.ConnectionSnapshot),
	}
}

// nextToken tags a refresh invocation. Tokens increase monotonically; only
// the highest token ever commits, so a stale in-flight refresh can never
// overwrite a newer result.
func (u *connectionUsecase) nextToken() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.issued++
	return u.issued
}

func (u *connectionUsecase) Refresh(ctx context.Context, platforms []model.Platform, userID string) (map[model.Platform]model.ConnectionSnapshot, error) {
	if len(platforms) == 0 {
		platforms = model.AvailablePlatforms()
	}
	token := u.nextToken()

	// Partition by transport shape. Session platforms share one listing
	// call, so they form a single concurrent task; legacy and global
	// platforms each get their own lookup.
	var session, legacy, global []model.Platform
	for _, p := range platforms {
		d := model.Descriptor(p)
		switch {
		case d.GlobalAuth:
			global = append(global, p)
		case d.RequiresUserID:
			legacy = append(legacy, p)
		default:
			session = append(session, p)
		}
	}

	results := make(chan model.ConnectionSnapshot, len(platforms))
	var wg sync.WaitGroup

	if len(session) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conns, err := u.api.ListConnections(ctx)
			if err != nil {
				for _, p := range session {
					results <- model.ConnectionSnapshot{Platform: p, FetchError: asPlatformError(p, err)}
				}
				return
			}
			byPlatform := make(map[model.Platform]*model.Connection, len(conns))
			for i := range conns {
				c := conns[i]
				if existing, ok := byPlatform[c.Platform]; ok && existing.IsActive {
					continue
				}
				byPlatform[c.Platform] = &conns[i]
			}
			for _, p := range session {
				results <- model.ConnectionSnapshot{Platform: p, Connection: byPlatform[p]}
			}
		}()
	}

	for _, p := range legacy {
		wg.Add(1)
		go func(p model.Platform) {
			defer wg.Done()
			if userID == "" {
				results <- model.ConnectionSnapshot{
					Platform:   p,
					FetchError: model.NewPlatformError(p, model.ErrValidationFailed, "user identifier required"),
				}
				return
			}
			conn, err := u.api.LegacyStatus(ctx, p, userID)
			if err != nil {
				results <- model.ConnectionSnapshot{Platform: p, FetchError: asPlatformError(p, err)}
				return
			}
			results <- model.ConnectionSnapshot{Platform: p, Connection: conn}
		}(p)
	}

	for _, p := range global {
		wg.Add(1)
		go func(p model.Platform) {
			defer wg.Done()
			accounts, err := u.api.GlobalAccounts(ctx, p)
			if err != nil {
				results <- model.ConnectionSnapshot{Platform: p, FetchError: asPlatformError(p, err)}
				return
			}
			snap := model.ConnectionSnapshot{Platform: p, Accounts: accounts}
			for i := range accounts {
				if accounts[i].IsActive {
					snap.Connection = &accounts[i]
					break
				}
			}
			results <- snap
		}(p)
	}

	wg.Wait()
	close(results)

	out := make(map[model.Platform]model.ConnectionSnapshot, len(platforms))
	for snap := range results {
		out[snap.Platform] = snap
		if snap.FetchError != nil {
			logger.GetLogger().
				WithField("platform", snap.Platform).
				WithField("kind", snap.FetchError.Kind).
				Warn("connection status lookup failed")
		}
	}

	u.commit(token, out)
	return out, nil
}

// commit installs the result map unless a later refresh already did.
func (u *connectionUsecase) commit(token uint64, snaps map[model.Platform]model.ConnectionSnapshot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if token <= u.committed {
		logger.GetLogger().WithField("token", token).Debug("discarding superseded refresh result")
		return
	}
	u.committed = token
	u.snapshots = snaps
}

// Snapshots returns a copy of the committed snapshot map.
func (u *connectionUsecase) Snapshots() map[model.Platform]model.ConnectionSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[model.Platform]model.ConnectionSnapshot, len(u.snapshots))
	for k, v := range u.snapshots {
		out[k] = v
	}
	return out
}

// ActiveCount counts committed snapshots holding an active connection.
func (u *connectionUsecase) ActiveCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, s := range u.snapshots {
		if s.Connected() {
			n++
		}
	}
	return n
}

// Disconnect removes a connection server-side. The committed snapshot is left
// untouched; callers re-run Refresh to observe the new state.
func (u *connectionUsecase) Disconnect(ctx context.Context, connectionID string) error {
	return u.api.Disconnect(ctx, connectionID)
}

// RefreshOne refreshes a single connection's token server-side. As with
// Disconnect, the snapshot map is only updated by a subsequent Refresh.
func (u *connectionUsecase) RefreshOne(ctx context.Context, connectionID string) (*model.Connection, error) {
	return u.api.RefreshConnection(ctx, connectionID)
}

// Details fetches a single connection by id.
func (u *connectionUsecase) Details(ctx context.Context, connectionID string) (*model.Connection, error) {
	return u.api.ConnectionDetails(ctx, connectionID)
}

// asPlatformError copies the classified error so one shared failure (e.g. a
// failed listing call feeding several platforms) tags each snapshot with its
// own platform.
func asPlatformError(p model.Platform, err error) *model.PlatformError {
	if pe, ok := err.(*model.PlatformError); ok {
		out := *pe
		out.Platform = p
		return &out
	}
	return model.NewPlatformError(p, model.ErrNetworkError, err.Error())
}

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"social-flood/domain/model"
	"social-flood/domain/repository"

	"github.com/redis/go-redis/v9"
)

// pendingTTL bounds how long an unfinished popup flow stays interesting.
// An abandoned popup leaves no trace once the entry expires.
const pendingTTL = 10 * time.Minute

// ConnectState tracks in-flight OAuth popup flows in redis, one key per
// (user, platform), expiring on their own.
type ConnectState struct {
	client *redis.Client
}

var _ repository.IConnectState = (*ConnectState)(nil)

func NewConnectState(client *redis.Client) *ConnectState {
	return &ConnectState{client: client}
}

func pendingKey(userID string, platform model.Platform) string {
	return fmt.Sprintf("connect:pending:%s:%s", userID, platform)
}

func (s *ConnectState) MarkPending(ctx context.Context, userID string, platform model.Platform) error {
	return s.client.Set(ctx, pendingKey(userID, platform), "1", pendingTTL).Err()
}

func (s *ConnectState) PendingPlatforms(ctx context.Context, userID string) ([]model.Platform, error) {
	out := make([]model.Platform, 0, 4)
	for _, p := range model.AllPlatforms() {
		n, err := s.client.Exists(ctx, pendingKey(userID, p)).Result()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ConnectState) ClearPending(ctx context.Context, userID string, platform model.Platform) error {
	return s.client.Del(ctx, pendingKey(userID, platform)).Err()
}

// MemoryConnectState is the fallback used when redis is not available, with
// the same expiry semantics.
type MemoryConnectState struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ repository.IConnectState = (*MemoryConnectState)(nil)

func NewMemoryConnectState() *MemoryConnectState {
	return &MemoryConnectState{entries: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryConnectState) MarkPending(_ context.Context, userID string, platform model.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pendingKey(userID, platform)] = s.now().Add(pendingTTL)
	return nil
}

func (s *MemoryConnectState) PendingPlatforms(_ context.Context, userID string) ([]model.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	out := make([]model.Platform, 0, 4)
	for _, p := range model.AllPlatforms() {
		key := pendingKey(userID, p)
		exp, ok := s.entries[key]
		if !ok {
			continue
		}
		if now.After(exp) {
			delete(s.entries, key)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryConnectState) ClearPending(_ context.Context, userID string, platform model.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, pendingKey(userID, platform))
	return nil
}

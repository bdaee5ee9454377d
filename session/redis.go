package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goflare.io/display/models/enum"
)

// RedisStore keeps each id-set in a Redis set that expires ttl after the
// session's last write.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) HasBeenShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) (bool, error) {
	return s.isMember(ctx, sessionID, shownKey(sessionID, mode), promotionID)
}

func (s *RedisStore) MarkShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) error {
	return s.add(ctx, sessionID, shownKey(sessionID, mode), promotionID)
}

func (s *RedisStore) HasBeenDismissed(ctx context.Context, sessionID, promotionID string) (bool, error) {
	return s.isMember(ctx, sessionID, dismissedKey(sessionID), promotionID)
}

func (s *RedisStore) MarkDismissed(ctx context.Context, sessionID, promotionID string) error {
	return s.add(ctx, sessionID, dismissedKey(sessionID), promotionID)
}

func (s *RedisStore) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	shown := make(map[enum.DisplayMode]*redis.StringSliceCmd, len(enum.DisplayModes))
	var dismissed *redis.StringSliceCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, mode := range enum.DisplayModes {
			shown[mode] = pipe.SMembers(ctx, shownKey(sessionID, mode))
		}
		dismissed = pipe.SMembers(ctx, dismissedKey(sessionID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	snap := NewSnapshot()
	for mode, cmd := range shown {
		snap.AddShown(mode, cmd.Val()...)
	}
	snap.AddDismissed(dismissed.Val()...)
	return snap, nil
}

func (s *RedisStore) isMember(ctx context.Context, sessionID, key, promotionID string) (bool, error) {
	if sessionID == "" {
		return false, ErrInvalidSession
	}
	ok, err := s.client.SIsMember(ctx, key, promotionID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session set %s: %w", key, err)
	}
	return ok, nil
}

func (s *RedisStore) add(ctx context.Context, sessionID, key, promotionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, promotionID)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session set %s: %w", key, err)
	}
	return nil
}

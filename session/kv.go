package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"goflare.io/display/models/enum"
)

// KeyValueStore is the minimal string storage the KV-backed Store needs.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// MemoryKV is a process-local KeyValueStore.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// KVStore stores each id-set as a JSON array under one key.
type KVStore struct {
	kv KeyValueStore
	mu sync.Mutex
}

func NewKVStore(kv KeyValueStore) *KVStore {
	return &KVStore{kv: kv}
}

var _ Store = (*KVStore)(nil)

func (s *KVStore) HasBeenShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) (bool, error) {
	return s.contains(ctx, sessionID, shownKey(sessionID, mode), promotionID)
}

func (s *KVStore) MarkShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) error {
	return s.add(ctx, sessionID, shownKey(sessionID, mode), promotionID)
}

func (s *KVStore) HasBeenDismissed(ctx context.Context, sessionID, promotionID string) (bool, error) {
	return s.contains(ctx, sessionID, dismissedKey(sessionID), promotionID)
}

func (s *KVStore) MarkDismissed(ctx context.Context, sessionID, promotionID string) error {
	return s.add(ctx, sessionID, dismissedKey(sessionID), promotionID)
}

func (s *KVStore) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	keys, err := s.kv.Keys(ctx, sessionPrefix(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}

	snap := NewSnapshot()
	dismissed := dismissedKey(sessionID)
	for _, key := range keys {
		ids, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		if key == dismissed {
			snap.AddDismissed(ids...)
			continue
		}
		for _, mode := range enum.DisplayModes {
			if key == shownKey(sessionID, mode) {
				snap.AddShown(mode, ids...)
				break
			}
		}
	}
	return snap, nil
}

func (s *KVStore) contains(ctx context.Context, sessionID, key, promotionID string) (bool, error) {
	if sessionID == "" {
		return false, ErrInvalidSession
	}
	ids, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, promotionID), nil
}

func (s *KVStore) add(ctx context.Context, sessionID, key, promotionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if slices.Contains(ids, promotionID) {
		return nil
	}

	data, err := json.Marshal(append(ids, promotionID))
	if err != nil {
		return fmt.Errorf("failed to encode session set: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write session set %s: %w", key, err)
	}
	return nil
}

// load treats an unreadable value as an empty set.
func (s *KVStore) load(ctx context.Context, key string) ([]string, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read session set %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

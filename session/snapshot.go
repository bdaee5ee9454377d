package session

import (
	"goflare.io/display/models/enum"
)

// Snapshot is a point-in-time copy of a session's dedup sets. A nil
// Snapshot behaves as an empty session.
type Snapshot struct {
	shown     map[enum.DisplayMode]map[string]struct{}
	dismissed map[string]struct{}
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		shown:     make(map[enum.DisplayMode]map[string]struct{}),
		dismissed: make(map[string]struct{}),
	}
}

func (s *Snapshot) HasBeenShown(mode enum.DisplayMode, promotionID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.shown[mode][promotionID]
	return ok
}

func (s *Snapshot) HasBeenDismissed(promotionID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.dismissed[promotionID]
	return ok
}

func (s *Snapshot) AddShown(mode enum.DisplayMode, ids ...string) {
	set, ok := s.shown[mode]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		s.shown[mode] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

func (s *Snapshot) AddDismissed(ids ...string) {
	for _, id := range ids {
		s.dismissed[id] = struct{}{}
	}
}

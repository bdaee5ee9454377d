// Package session tracks, per browsing session, which promotions have been
// shown in each display mode and which banners have been dismissed.
//
// All mutations are set additions, so concurrent writers sharing a session
// id converge without coordination.
package session

import (
	"context"
	"errors"
	"fmt"

	"goflare.io/display/models/enum"
)

var ErrInvalidSession = errors.New("session id is required")

// Store is the dedup backing keyed by session id.
type Store interface {
	HasBeenShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) (bool, error)
	MarkShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) error
	HasBeenDismissed(ctx context.Context, sessionID, promotionID string) (bool, error)
	MarkDismissed(ctx context.Context, sessionID, promotionID string) error
	Snapshot(ctx context.Context, sessionID string) (*Snapshot, error)
}

const keyPrefix = "promo:session:"

func sessionPrefix(sessionID string) string {
	return keyPrefix + sessionID + ":"
}

func shownKey(sessionID string, mode enum.DisplayMode) string {
	return fmt.Sprintf("%sshown:%s", sessionPrefix(sessionID), mode)
}

func dismissedKey(sessionID string) string {
	return sessionPrefix(sessionID) + "dismissed:" + string(enum.DisplayModeBanner)
}

// Session binds a Store to one session id.
type Session struct {
	id    string
	store Store
}

func New(store Store, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	return &Session{id: sessionID, store: store}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) HasBeenShown(ctx context.Context, mode enum.DisplayMode, promotionID string) (bool, error) {
	return s.store.HasBeenShown(ctx, s.id, mode, promotionID)
}

// MarkShown is idempotent.
func (s *Session) MarkShown(ctx context.Context, mode enum.DisplayMode, promotionID string) error {
	return s.store.MarkShown(ctx, s.id, mode, promotionID)
}

func (s *Session) HasBeenDismissed(ctx context.Context, promotionID string) (bool, error) {
	return s.store.HasBeenDismissed(ctx, s.id, promotionID)
}

// MarkDismissed is idempotent.
func (s *Session) MarkDismissed(ctx context.Context, promotionID string) error {
	return s.store.MarkDismissed(ctx, s.id, promotionID)
}

func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	return s.store.Snapshot(ctx, s.id)
}

// Package notification gates push-style promotion display behind the
// environment's permission state.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

var (
	ErrNotSupported           = errors.New("notifications are not supported in this environment")
	ErrPermissionDenied       = errors.New("notification permission denied")
	ErrPermissionNotRequested = errors.New("notification permission not yet requested")
)

// Payload is what the environment renders for one notification.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag"`
}

// PayloadFor builds a payload from p. The tag is the promotion id so the
// environment can collapse repeats.
func PayloadFor(p *models.Promotion) Payload {
	return Payload{
		Title: p.Title,
		Body:  p.Description,
		Icon:  p.ImageURL,
		URL:   p.LinkURL,
		Tag:   p.ID,
	}
}

// Environment is the host capable of showing notifications.
type Environment interface {
	Supported() bool
	Permission(ctx context.Context) (enum.Permission, error)
	RequestPermission(ctx context.Context) (enum.Permission, error)
	Show(ctx context.Context, payload Payload) error
}

type Notifier struct {
	env    Environment
	logger *zap.Logger

	mu         sync.Mutex
	permission enum.Permission
}

func NewNotifier(env Environment, logger *zap.Logger) *Notifier {
	return &Notifier{
		env:        env,
		logger:     logger,
		permission: enum.PermissionDefault,
	}
}

func (n *Notifier) Supported() bool {
	return n.env != nil && n.env.Supported()
}

// Permission returns the current permission. Once granted or denied the
// answer is cached.
func (n *Notifier) Permission(ctx context.Context) (enum.Permission, error) {
	if !n.Supported() {
		return enum.PermissionDefault, ErrNotSupported
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.permission.IsTerminal() {
		return n.permission, nil
	}

	current, err := n.env.Permission(ctx)
	if err != nil {
		return enum.PermissionDefault, fmt.Errorf("failed to read notification permission: %w", err)
	}
	n.advance(current)
	return n.permission, nil
}

// RequestPermission prompts the user unless the permission is already
// granted or denied, in which case the existing answer is returned.
func (n *Notifier) RequestPermission(ctx context.Context) (enum.Permission, error) {
	if !n.Supported() {
		return enum.PermissionDefault, ErrNotSupported
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.permission.IsTerminal() {
		return n.permission, nil
	}

	answer, err := n.env.RequestPermission(ctx)
	if err != nil {
		return enum.PermissionDefault, fmt.Errorf("failed to request notification permission: %w", err)
	}
	n.advance(answer)
	return n.permission, nil
}

// Show displays payload if permission has been granted.
func (n *Notifier) Show(ctx context.Context, payload Payload) error {
	permission, err := n.Permission(ctx)
	if err != nil {
		return err
	}

	switch permission {
	case enum.PermissionGranted:
	case enum.PermissionDenied:
		return ErrPermissionDenied
	default:
		return ErrPermissionNotRequested
	}

	if err := n.env.Show(ctx, payload); err != nil {
		n.logger.Warn("Failed to show notification",
			zap.Error(err),
			zap.String("promotion_id", payload.Tag))
		return fmt.Errorf("failed to show notification: %w", err)
	}
	return nil
}

// advance applies the default -> granted|denied transition. Terminal states
// never change and unknown values are ignored.
func (n *Notifier) advance(next enum.Permission) {
	if !next.IsValid() {
		n.logger.Warn("Ignoring unknown notification permission", zap.String("permission", string(next)))
		return
	}
	if n.permission.IsTerminal() {
		return
	}
	n.permission = next
}

package display

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"goflare.io/display/carousel"
	"goflare.io/display/metrics"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
	"goflare.io/display/notification"
	"goflare.io/display/scheduler"
	"goflare.io/display/session"
	"goflare.io/display/targeting"
)

type Display interface {
	Schedule(ctx context.Context, req Request) *scheduler.Buckets

	MarkShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) error
	Dismiss(ctx context.Context, in Interaction) error
	RecordView(ctx context.Context, in Interaction) error
	RecordClick(ctx context.Context, in Interaction) error

	NewCarousel(tctx models.TargetingContext, items []*models.Promotion, opts ...carousel.Option) *carousel.Carousel

	NotificationPermission(ctx context.Context) (enum.Permission, error)
	RequestNotificationPermission(ctx context.Context) (enum.Permission, error)
	ShowNotification(ctx context.Context, tctx models.TargetingContext, p *models.Promotion) error

	Track(ctx context.Context, event models.AnalyticsEvent)
	TrackUsage(ctx context.Context, sessionID string, usage models.PromotionUsage) (*models.PromotionUsage, error)
}

// RecordSource supplies the raw promotion pool.
type RecordSource interface {
	ListDisplayable(ctx context.Context, now time.Time) ([]*models.Promotion, error)
}

// Tracker is the analytics emitter.
type Tracker interface {
	Track(ctx context.Context, event models.AnalyticsEvent)
	TrackUsage(ctx context.Context, sessionID string, usage models.PromotionUsage) (*models.PromotionUsage, error)
}

type Options struct {
	MaxCarouselItems int
	// Clock drives carousel autoplay; nil uses the system clock.
	Clock carousel.Clock
}

// Request asks for the display buckets of one visitor.
type Request struct {
	Context   models.TargetingContext
	Placement enum.CarouselPosition
}

// Interaction is a visitor action on a single promotion.
type Interaction struct {
	Context     models.TargetingContext
	PromotionID string
	Mode        enum.DisplayMode
	Data        map[string]any
	Device      models.DeviceInfo
}

var _ Display = (*Engine)(nil)

type Engine struct {
	promotions RecordSource
	store      session.Store
	scheduler  *scheduler.Scheduler
	tracker    Tracker
	notifier   *notification.Notifier
	clock      carousel.Clock
	now        func() time.Time
	logger     *zap.Logger
}

// NewEngine wires the display pipeline. notifier may be nil when the host
// cannot show notifications.
func NewEngine(
	promotions RecordSource,
	store session.Store,
	lookup targeting.CustomerLookup,
	tracker Tracker,
	notifier *notification.Notifier,
	opts Options,
	logger *zap.Logger,
) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = carousel.SystemClock()
	}
	if notifier == nil {
		notifier = notification.NewNotifier(nil, logger)
	}

	return &Engine{
		promotions: promotions,
		store:      store,
		scheduler:  scheduler.NewScheduler(targeting.NewFilter(lookup, logger), opts.MaxCarouselItems, logger),
		tracker:    tracker,
		notifier:   notifier,
		clock:      clock,
		now:        time.Now,
		logger:     logger,
	}
}

// Schedule returns the ranked buckets for req. Record or session store
// failures yield four empty buckets.
func (e *Engine) Schedule(ctx context.Context, req Request) *scheduler.Buckets {
	start := time.Now()
	status := metrics.StatusSuccess
	defer func() {
		metrics.RecordScheduleDuration(status, time.Since(start).Seconds())
	}()

	sess, err := session.New(e.store, req.Context.SessionID)
	if err != nil {
		status = metrics.StatusFailure
		e.logger.Warn("Scheduling without a session", zap.Error(err))
		return scheduler.NewBuckets()
	}

	now := e.now()
	promotions, err := e.promotions.ListDisplayable(ctx, now)
	if err != nil {
		status = metrics.StatusFailure
		e.logger.Error("Failed to fetch promotions",
			zap.Error(err),
			zap.String("session_id", sess.ID()))
		return scheduler.NewBuckets()
	}

	snapshot, err := sess.Snapshot(ctx)
	if err != nil {
		status = metrics.StatusFailure
		e.logger.Error("Failed to load session snapshot",
			zap.Error(err),
			zap.String("session_id", sess.ID()))
		return scheduler.NewBuckets()
	}

	buckets := e.scheduler.Schedule(ctx, scheduler.Request{
		Promotions: promotions,
		Context:    req.Context,
		Placement:  req.Placement,
		Snapshot:   snapshot,
		Now:        now,
	})

	for _, mode := range enum.DisplayModes {
		metrics.SetScheduledItems(string(mode), len(buckets.Mode(mode)))
	}
	return buckets
}

func (e *Engine) MarkShown(ctx context.Context, sessionID string, mode enum.DisplayMode, promotionID string) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid display mode %q", mode)
	}
	sess, err := session.New(e.store, sessionID)
	if err != nil {
		return err
	}
	return sess.MarkShown(ctx, mode, promotionID)
}

// Dismiss hides a banner for the rest of the session and records a dismiss event.
func (e *Engine) Dismiss(ctx context.Context, in Interaction) error {
	sess, err := session.New(e.store, in.Context.SessionID)
	if err != nil {
		return err
	}
	if err := sess.MarkDismissed(ctx, in.PromotionID); err != nil {
		return fmt.Errorf("failed to mark promotion dismissed: %w", err)
	}

	e.track(ctx, in, enum.EventTypeDismiss)
	return nil
}

// RecordView records a view. Modal and notification views also mark the
// promotion shown so it is not offered again this session.
func (e *Engine) RecordView(ctx context.Context, in Interaction) error {
	if in.Context.SessionID == "" {
		return session.ErrInvalidSession
	}

	switch in.Mode {
	case enum.DisplayModeModal, enum.DisplayModeNotification:
		if err := e.MarkShown(ctx, in.Context.SessionID, in.Mode, in.PromotionID); err != nil {
			return fmt.Errorf("failed to mark promotion shown: %w", err)
		}
	}

	e.track(ctx, in, enum.EventTypeView)
	return nil
}

func (e *Engine) RecordClick(ctx context.Context, in Interaction) error {
	if in.Context.SessionID == "" {
		return session.ErrInvalidSession
	}
	e.track(ctx, in, enum.EventTypeClick)
	return nil
}

// NewCarousel mounts a carousel that records a view for every index change.
// The interval comes from the first item's display settings unless overridden.
func (e *Engine) NewCarousel(tctx models.TargetingContext, items []*models.Promotion, opts ...carousel.Option) *carousel.Carousel {
	interval := models.DefaultCarouselInterval
	if len(items) > 0 && items[0].DisplaySettings.CarouselInterval > 0 {
		interval = items[0].DisplaySettings.CarouselInterval
	}

	onView := func(item *models.Promotion, index int) {
		e.track(context.Background(), Interaction{
			Context:     tctx,
			PromotionID: item.ID,
			Mode:        enum.DisplayModeCarousel,
			Data:        map[string]any{"index": index},
		}, enum.EventTypeView)
	}

	base := []carousel.Option{
		carousel.WithClock(e.clock),
		carousel.WithInterval(interval),
		carousel.WithOnView(onView),
		carousel.WithLogger(e.logger),
	}
	return carousel.Mount(items, append(base, opts...)...)
}

func (e *Engine) NotificationPermission(ctx context.Context) (enum.Permission, error) {
	return e.notifier.Permission(ctx)
}

func (e *Engine) RequestNotificationPermission(ctx context.Context) (enum.Permission, error) {
	return e.notifier.RequestPermission(ctx)
}

// ShowNotification shows p through the notifier. On success the promotion
// is marked shown in the notification namespace and a view is recorded.
func (e *Engine) ShowNotification(ctx context.Context, tctx models.TargetingContext, p *models.Promotion) error {
	if err := e.notifier.Show(ctx, notification.PayloadFor(p)); err != nil {
		return err
	}

	return e.RecordView(ctx, Interaction{
		Context:     tctx,
		PromotionID: p.ID,
		Mode:        enum.DisplayModeNotification,
	})
}

func (e *Engine) Track(ctx context.Context, event models.AnalyticsEvent) {
	e.tracker.Track(ctx, event)
}

func (e *Engine) TrackUsage(ctx context.Context, sessionID string, usage models.PromotionUsage) (*models.PromotionUsage, error) {
	return e.tracker.TrackUsage(ctx, sessionID, usage)
}

func (e *Engine) track(ctx context.Context, in Interaction, eventType enum.EventType) {
	data := make(map[string]any, len(in.Data)+1)
	for k, v := range in.Data {
		data[k] = v
	}
	if in.Mode != "" {
		data["display_mode"] = string(in.Mode)
	}

	e.tracker.Track(ctx, models.AnalyticsEvent{
		PromotionID: in.PromotionID,
		EventType:   eventType,
		SessionID:   in.Context.SessionID,
		CustomerID:  in.Context.CustomerID,
		BranchID:    in.Context.BranchID,
		EventData:   data,
		Device:      in.Device,
	})
}

package analytics

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"goflare.io/display/metrics"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

var ErrInvalidEvent = errors.New("invalid analytics event")

type Options struct {
	Workers      int
	QueueSize    int
	RateLimit    float64 // events per second, 0 disables limiting
	Burst        int
	WriteTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Workers:      4,
		QueueSize:    1024,
		Burst:        100,
		WriteTimeout: 5 * time.Second,
	}
}

// Tracker emits analytics events. Track never fails from the caller's point
// of view; writes happen on the dispatcher's workers and errors are logged.
type Tracker struct {
	sink         Sink
	usages       UsageRecorder
	publisher    Publisher
	dispatcher   *Dispatcher
	limiter      *rate.Limiter
	writeTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewTracker builds a tracker over repo. publisher may be nil.
func NewTracker(repo Repository, publisher Publisher, opts Options, logger *zap.Logger) *Tracker {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultOptions().WriteTimeout
	}

	t := &Tracker{
		sink:         repo,
		usages:       repo,
		publisher:    publisher,
		writeTimeout: opts.WriteTimeout,
		logger:       logger,
		now:          time.Now,
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	t.dispatcher = NewDispatcher(opts.Workers, opts.QueueSize, t.handle, logger)
	return t
}

func (t *Tracker) Start() {
	t.dispatcher.Run()
}

func (t *Tracker) Stop() {
	t.dispatcher.Stop()
}

// Track queues event for asynchronous recording. The caller's copy is not
// retained; ID and CreatedAt are filled in when empty.
func (t *Tracker) Track(ctx context.Context, event models.AnalyticsEvent) {
	if event.PromotionID == "" || !event.EventType.IsValid() {
		t.drop(&event, ErrInvalidEvent, "Rejected analytics event")
		return
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = t.now().UTC()
	}
	event.EventData = maps.Clone(event.EventData)

	if t.limiter != nil && !t.limiter.Allow() {
		t.drop(&event, nil, "Analytics rate limit exceeded")
		return
	}

	if err := t.dispatcher.Submit(context.WithoutCancel(ctx), &event); err != nil {
		t.drop(&event, err, "Failed to enqueue analytics event")
	}
}

// TrackUsage stores the usage record and then emits a use event. The usage
// record is authoritative: only its failure is returned.
func (t *Tracker) TrackUsage(ctx context.Context, sessionID string, usage models.PromotionUsage) (*models.PromotionUsage, error) {
	if usage.PromotionID == "" || usage.OrderID == "" {
		return nil, fmt.Errorf("%w: promotion id and order id are required", ErrInvalidEvent)
	}
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	if usage.UsedAt.IsZero() {
		usage.UsedAt = t.now().UTC()
	}

	if err := t.usages.InsertUsage(ctx, &usage); err != nil {
		t.logger.Error("Failed to record promotion usage",
			zap.Error(err),
			zap.String("promotion_id", usage.PromotionID),
			zap.String("order_id", usage.OrderID))
		return nil, err
	}

	data := map[string]any{"order_id": usage.OrderID}
	if usage.DiscountApplied != nil {
		data["discount_applied"] = usage.DiscountApplied.String()
	}
	if usage.OriginalAmount != nil {
		data["original_amount"] = usage.OriginalAmount.String()
	}
	if usage.FinalAmount != nil {
		data["final_amount"] = usage.FinalAmount.String()
	}

	t.Track(ctx, models.AnalyticsEvent{
		PromotionID: usage.PromotionID,
		EventType:   enum.EventTypeUse,
		SessionID:   sessionID,
		CustomerID:  usage.CustomerID,
		BranchID:    usage.BranchID,
		EventData:   data,
		CreatedAt:   usage.UsedAt,
	})

	return &usage, nil
}

func (t *Tracker) handle(ctx context.Context, event *models.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()

	status := metrics.StatusSuccess

	if err := t.sink.Record(ctx, event); err != nil {
		status = metrics.StatusFailure
		t.logger.Error("Failed to record analytics event",
			zap.Error(err),
			zap.String("event_type", string(event.EventType)),
			zap.String("promotion_id", event.PromotionID),
			zap.String("session_id", event.SessionID))
	}

	if err := t.sink.Increment(ctx, event.PromotionID, event.EventType); err != nil {
		status = metrics.StatusFailure
		t.logger.Error("Failed to increment promotion counter",
			zap.Error(err),
			zap.String("event_type", string(event.EventType)),
			zap.String("promotion_id", event.PromotionID))
	}

	if t.publisher != nil {
		if err := t.publisher.Publish(ctx, event); err != nil {
			t.logger.Warn("Failed to publish analytics event",
				zap.Error(err),
				zap.String("event_type", string(event.EventType)),
				zap.String("promotion_id", event.PromotionID))
		}
	}

	metrics.RecordAnalyticsEvent(string(event.EventType), status)
}

func (t *Tracker) drop(event *models.AnalyticsEvent, err error, msg string) {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("promotion_id", event.PromotionID),
		zap.String("session_id", event.SessionID),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	t.logger.Warn(msg, fields...)
	metrics.RecordAnalyticsEvent(string(event.EventType), metrics.StatusDropped)
}

package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/display/driver"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

// Sink is the append-only analytics store with per-promotion counters.
type Sink interface {
	Record(ctx context.Context, event *models.AnalyticsEvent) error
	Increment(ctx context.Context, promotionID string, eventType enum.EventType) error
}

// UsageRecorder persists structured usage records.
type UsageRecorder interface {
	InsertUsage(ctx context.Context, usage *models.PromotionUsage) error
}

type Repository interface {
	Sink
	UsageRecorder
}

var _ Repository = (*repository)(nil)

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

const insertEventQuery = `
INSERT INTO promotion_analytics (
	id, promotion_id, event_type, session_id, customer_id, branch_id, event_data, device_info, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *repository) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	eventData, err := json.Marshal(event.EventData)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	deviceInfo, err := json.Marshal(event.Device)
	if err != nil {
		return fmt.Errorf("failed to encode device info: %w", err)
	}

	_, err = r.conn.Exec(ctx, insertEventQuery,
		event.ID,
		event.PromotionID,
		string(event.EventType),
		event.SessionID,
		nullString(event.CustomerID),
		nullString(event.BranchID),
		eventData,
		deviceInfo,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// Increment bumps the counter column for eventType in a single UPDATE so the
// addition happens server side.
func (r *repository) Increment(ctx context.Context, promotionID string, eventType enum.EventType) error {
	column, ok := eventType.Counter()
	if !ok {
		return nil
	}

	query := fmt.Sprintf("UPDATE promotions SET %[1]s = %[1]s + 1 WHERE id = $1", column)
	tag, err := r.conn.Exec(ctx, query, promotionID)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Counter increment matched no promotion",
			zap.String("promotion_id", promotionID),
			zap.String("column", column))
	}
	return nil
}

const insertUsageQuery = `
INSERT INTO promotion_usages (
	id, promotion_id, order_id, customer_id, branch_id, discount_applied, original_amount, final_amount, used_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *repository) InsertUsage(ctx context.Context, usage *models.PromotionUsage) error {
	_, err := r.conn.Exec(ctx, insertUsageQuery,
		usage.ID,
		usage.PromotionID,
		usage.OrderID,
		nullString(usage.CustomerID),
		nullString(usage.BranchID),
		nullDecimal(usage.DiscountApplied),
		nullDecimal(usage.OriginalAmount),
		nullDecimal(usage.FinalAmount),
		usage.UsedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert promotion usage: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

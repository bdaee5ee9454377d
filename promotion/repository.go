package promotion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/display/driver"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

var ErrNotFound = errors.New("promotion not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	ListActive(ctx context.Context, tx pgx.Tx, now time.Time) ([]*models.Promotion, error)
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Promotion, error)
}

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

// NULL bounds scan as the zero time.Time, which eligibility treats as missing.
const selectColumns = `
	id,
	title,
	COALESCE(description, ''),
	COALESCE(image_url, ''),
	COALESCE(link_url, ''),
	COALESCE(valid_from, '0001-01-01 00:00:00+00'::timestamptz),
	COALESCE(valid_until, '0001-01-01 00:00:00+00'::timestamptz),
	is_active,
	COALESCE(target_audience, 'all'),
	COALESCE(target_branch_ids, '{}'),
	COALESCE(display_mode, ''),
	COALESCE(display_priority, 0),
	COALESCE(display_settings::text, ''),
	created_at,
	COALESCE(total_views, 0),
	COALESCE(total_clicks, 0),
	COALESCE(total_conversions, 0),
	COALESCE(total_uses, 0)`

const listActiveQuery = `SELECT` + selectColumns + `
FROM promotions
WHERE is_active = true AND valid_until >= $1
ORDER BY display_priority DESC, created_at DESC`

const getPromotionQuery = `SELECT` + selectColumns + `
FROM promotions
WHERE id = $1`

func (r *repository) ListActive(ctx context.Context, tx pgx.Tx, now time.Time) ([]*models.Promotion, error) {
	rows, err := tx.Query(ctx, listActiveQuery, now)
	if err != nil {
		r.logger.Error("error listing active promotions", zap.Error(err))
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}
	defer rows.Close()

	promotions := make([]*models.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate promotions: %w", err)
	}

	return promotions, nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Promotion, error) {
	p, err := scanPromotion(tx.QueryRow(ctx, getPromotionQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("error getting promotion", zap.Error(err), zap.String("promotion_id", id))
		return nil, fmt.Errorf("failed to get promotion %s: %w", id, err)
	}
	return p, nil
}

func scanPromotion(row pgx.Row) (*models.Promotion, error) {
	var (
		p        models.Promotion
		audience string
		mode     string
		settings string
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.ImageURL,
		&p.LinkURL,
		&p.ValidFrom,
		&p.ValidUntil,
		&p.IsActive,
		&audience,
		&p.TargetBranchIDs,
		&mode,
		&p.DisplayPriority,
		&settings,
		&p.CreatedAt,
		&p.TotalViews,
		&p.TotalClicks,
		&p.TotalConversions,
		&p.TotalUses,
	)
	if err != nil {
		return nil, err
	}

	p.TargetAudience = enum.TargetAudience(audience)
	p.DisplayMode = enum.DisplayMode(mode)
	p.DisplaySettings = models.ParseDisplaySettings([]byte(settings))
	return &p, nil
}

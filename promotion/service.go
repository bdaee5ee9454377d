package promotion

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/display/driver"
	"goflare.io/display/models"
)

const activeCacheKey = "promo:active"

// DefaultCacheTTL bounds how stale the cached active set may be.
const DefaultCacheTTL = 30 * time.Second

type Service interface {
	// ListDisplayable returns active promotions that have not yet expired at now.
	ListDisplayable(ctx context.Context, now time.Time) ([]*models.Promotion, error)
	GetByID(ctx context.Context, id string) (*models.Promotion, error)
	Invalidate(ctx context.Context) error
}

var _ Service = (*service)(nil)

type service struct {
	repo               Repository
	transactionManager *driver.TransactionManager
	cache              driver.Cache
	cacheTTL           time.Duration
	logger             *zap.Logger
}

// NewService builds the record source. cache may be nil.
func NewService(repo Repository, tm *driver.TransactionManager, cache driver.Cache, cacheTTL time.Duration, logger *zap.Logger) Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &service{
		repo:               repo,
		transactionManager: tm,
		cache:              cache,
		cacheTTL:           cacheTTL,
		logger:             logger,
	}
}

func (s *service) ListDisplayable(ctx context.Context, now time.Time) ([]*models.Promotion, error) {
	if s.cache != nil {
		var cached []*models.Promotion
		found, err := s.cache.Get(ctx, activeCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Failed to read cached promotions", zap.Error(err))
		} else if found {
			return unexpired(cached, now), nil
		}
	}

	var promotions []*models.Promotion
	err := s.transactionManager.ExecuteReadOnlyTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		promotions, err = s.repo.ListActive(ctx, tx, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, activeCacheKey, promotions, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache promotions", zap.Error(err))
		}
	}

	return promotions, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*models.Promotion, error) {
	var p *models.Promotion
	err := s.transactionManager.ExecuteReadOnlyTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		p, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	return p, err
}

func (s *service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, activeCacheKey)
}

// unexpired drops entries that expired after the cache was filled.
func unexpired(promotions []*models.Promotion, now time.Time) []*models.Promotion {
	kept := make([]*models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if !p.ValidUntil.Before(now) {
			kept = append(kept, p)
		}
	}
	return kept
}

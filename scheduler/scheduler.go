// Package scheduler groups displayable promotions by display mode and ranks
// each group.
package scheduler

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"goflare.io/display/eligibility"
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
	"goflare.io/display/session"
	"goflare.io/display/targeting"
)

const DefaultMaxCarouselItems = 10

// Buckets holds the ranked promotions per display mode. Every slice is
// non-nil.
type Buckets struct {
	Banner       []*models.Promotion `json:"banner"`
	Modal        []*models.Promotion `json:"modal"`
	Notification []*models.Promotion `json:"notification"`
	Carousel     []*models.Promotion `json:"carousel"`
}

func NewBuckets() *Buckets {
	return &Buckets{
		Banner:       []*models.Promotion{},
		Modal:        []*models.Promotion{},
		Notification: []*models.Promotion{},
		Carousel:     []*models.Promotion{},
	}
}

// Mode returns the bucket for mode.
func (b *Buckets) Mode(mode enum.DisplayMode) []*models.Promotion {
	switch mode {
	case enum.DisplayModeBanner:
		return b.Banner
	case enum.DisplayModeModal:
		return b.Modal
	case enum.DisplayModeNotification:
		return b.Notification
	case enum.DisplayModeCarousel:
		return b.Carousel
	}
	return nil
}

func (b *Buckets) add(mode enum.DisplayMode, p *models.Promotion) {
	switch mode {
	case enum.DisplayModeBanner:
		b.Banner = append(b.Banner, p)
	case enum.DisplayModeModal:
		b.Modal = append(b.Modal, p)
	case enum.DisplayModeNotification:
		b.Notification = append(b.Notification, p)
	case enum.DisplayModeCarousel:
		b.Carousel = append(b.Carousel, p)
	}
}

// Request describes one scheduling pass.
type Request struct {
	Promotions []*models.Promotion
	Context    models.TargetingContext
	// Placement is the page asking for carousel items; empty accepts any
	// carouselPosition.
	Placement enum.CarouselPosition
	Snapshot  *session.Snapshot
	Now       time.Time
}

type Scheduler struct {
	filter           *targeting.Filter
	maxCarouselItems int
	logger           *zap.Logger
}

func NewScheduler(filter *targeting.Filter, maxCarouselItems int, logger *zap.Logger) *Scheduler {
	if maxCarouselItems <= 0 {
		maxCarouselItems = DefaultMaxCarouselItems
	}
	return &Scheduler{
		filter:           filter,
		maxCarouselItems: maxCarouselItems,
		logger:           logger,
	}
}

// Schedule filters by eligibility then targeting, classifies into buckets,
// drops ids the snapshot has already seen (shown for modal and
// notification, dismissed for banner) and ranks every bucket by priority
// then recency. The output depends only on the request.
func (s *Scheduler) Schedule(ctx context.Context, req Request) *Buckets {
	buckets := NewBuckets()

	candidates := eligibility.Filter(req.Promotions, req.Now)
	candidates = s.filter.Apply(ctx, candidates, req.Context)

	for _, p := range candidates {
		for _, mode := range ResolveModes(p) {
			if excluded(req, mode, p) {
				continue
			}
			buckets.add(mode, p)
		}
	}

	Rank(buckets.Banner)
	Rank(buckets.Modal)
	Rank(buckets.Notification)
	Rank(buckets.Carousel)

	if len(buckets.Carousel) > s.maxCarouselItems {
		buckets.Carousel = buckets.Carousel[:s.maxCarouselItems]
	}

	s.logger.Debug("scheduled promotions",
		zap.String("session_id", req.Context.SessionID),
		zap.Int("candidates", len(candidates)),
		zap.Int("banner", len(buckets.Banner)),
		zap.Int("modal", len(buckets.Modal)),
		zap.Int("notification", len(buckets.Notification)),
		zap.Int("carousel", len(buckets.Carousel)))

	return buckets
}

func excluded(req Request, mode enum.DisplayMode, p *models.Promotion) bool {
	switch mode {
	case enum.DisplayModeBanner:
		return req.Snapshot.HasBeenDismissed(p.ID)
	case enum.DisplayModeModal, enum.DisplayModeNotification:
		return req.Snapshot.HasBeenShown(mode, p.ID)
	case enum.DisplayModeCarousel:
		return !p.DisplaySettings.CarouselPosition.Accepts(req.Placement)
	}
	return false
}

// Rank sorts in place by DisplayPriority descending, then CreatedAt
// descending. Full ties keep their input order.
func Rank(promotions []*models.Promotion) {
	slices.SortStableFunc(promotions, func(a, b *models.Promotion) int {
		if c := cmp.Compare(b.DisplayPriority, a.DisplayPriority); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/display/models"
	"goflare.io/display/models/enum"
	"goflare.io/display/session"
	"goflare.io/display/targeting"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func promo(id string, priority int, created time.Time, mutate ...func(*models.Promotion)) *models.Promotion {
	p := &models.Promotion{
		ID:              id,
		IsActive:        true,
		ValidFrom:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		TargetAudience:  enum.TargetAudienceAll,
		DisplayPriority: priority,
		DisplaySettings: models.DefaultDisplaySettings(),
		CreatedAt:       created,
	}
	for _, m := range mutate {
		m(p)
	}
	return p
}

func withModes(modes ...enum.DisplayMode) func(*models.Promotion) {
	return func(p *models.Promotion) {
		for _, mode := range modes {
			switch mode {
			case enum.DisplayModeBanner:
				p.DisplaySettings.ShowAsBanner = true
			case enum.DisplayModeModal:
				p.DisplaySettings.ShowAsModal = true
			case enum.DisplayModeNotification:
				p.DisplaySettings.ShowAsNotification = true
			case enum.DisplayModeCarousel:
				p.DisplaySettings.ShowAsCarousel = true
			}
		}
	}
}

func ids(promotions []*models.Promotion) []string {
	out := make([]string, 0, len(promotions))
	for _, p := range promotions {
		out = append(out, p.ID)
	}
	return out
}

func newScheduler() *Scheduler {
	return NewScheduler(targeting.NewFilter(nil, zap.NewNop()), 0, zap.NewNop())
}

func TestResolveModes(t *testing.T) {
	explicit := promo("a", 0, now, withModes(enum.DisplayModeModal, enum.DisplayModeCarousel))
	explicit.DisplayMode = enum.DisplayModeBanner
	assert.Equal(t, []enum.DisplayMode{enum.DisplayModeModal, enum.DisplayModeCarousel}, ResolveModes(explicit))

	field := promo("b", 0, now)
	field.DisplayMode = enum.DisplayModeNotification
	assert.Equal(t, []enum.DisplayMode{enum.DisplayModeNotification}, ResolveModes(field))

	unknown := promo("c", 0, now)
	unknown.DisplayMode = enum.DisplayMode("popup")
	assert.Equal(t, []enum.DisplayMode{enum.DisplayModeBanner}, ResolveModes(unknown))

	assert.Equal(t, []enum.DisplayMode{enum.DisplayModeBanner}, ResolveModes(promo("d", 0, now)))
}

func TestSchedule_EmptyInput(t *testing.T) {
	buckets := newScheduler().Schedule(context.Background(), Request{Now: now})

	require.NotNil(t, buckets)
	for _, mode := range enum.DisplayModes {
		assert.NotNil(t, buckets.Mode(mode), mode)
		assert.Empty(t, buckets.Mode(mode), mode)
	}
}

func TestSchedule_PriorityThenRecency(t *testing.T) {
	t1 := now.Add(-3 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-1 * time.Hour)
	a := promo("A", 5, t1)
	b := promo("B", 10, t2)
	c := promo("C", 10, t3)

	buckets := newScheduler().Schedule(context.Background(), Request{
		Promotions: []*models.Promotion{a, b, c},
		Now:        now,
	})

	assert.Equal(t, []string{"C", "B", "A"}, ids(buckets.Banner))
}

func TestRank_IsStable(t *testing.T) {
	created := now.Add(-time.Hour)
	list := []*models.Promotion{
		promo("x", 1, created),
		promo("y", 1, created),
		promo("z", 2, created),
		promo("w", 1, created),
	}

	Rank(list)

	assert.Equal(t, []string{"z", "x", "y", "w"}, ids(list))
}

func TestSchedule_ModalDedupLeavesBannerAlone(t *testing.T) {
	p1 := promo("P1", 1, now, withModes(enum.DisplayModeBanner, enum.DisplayModeModal))

	snap := session.NewSnapshot()
	snap.AddShown(enum.DisplayModeModal, "P1")

	buckets := newScheduler().Schedule(context.Background(), Request{
		Promotions: []*models.Promotion{p1},
		Snapshot:   snap,
		Now:        now,
	})

	assert.Empty(t, buckets.Modal)
	assert.Equal(t, []string{"P1"}, ids(buckets.Banner))
}

func TestSchedule_DismissedBannerStillShowsAsModal(t *testing.T) {
	p1 := promo("P1", 1, now, withModes(enum.DisplayModeBanner, enum.DisplayModeModal, enum.DisplayModeNotification))

	snap := session.NewSnapshot()
	snap.AddDismissed("P1")
	snap.AddShown(enum.DisplayModeNotification, "P1")

	buckets := newScheduler().Schedule(context.Background(), Request{
		Promotions: []*models.Promotion{p1},
		Snapshot:   snap,
		Now:        now,
	})

	assert.Empty(t, buckets.Banner)
	assert.Empty(t, buckets.Notification)
	assert.Equal(t, []string{"P1"}, ids(buckets.Modal))
}

func TestSchedule_CarouselIgnoresShownSets(t *testing.T) {
	p1 := promo("P1", 1, now, withModes(enum.DisplayModeCarousel))

	snap := session.NewSnapshot()
	snap.AddShown(enum.DisplayModeCarousel, "P1")
	snap.AddDismissed("P1")

	buckets := newScheduler().Schedule(context.Background(), Request{
		Promotions: []*models.Promotion{p1},
		Snapshot:   snap,
		Now:        now,
	})

	assert.Equal(t, []string{"P1"}, ids(buckets.Carousel))
}

func TestSchedule_FiltersIneligibleAndUntargeted(t *testing.T) {
	inactive := promo("inactive", 1, now, func(p *models.Promotion) { p.IsActive = false })
	expired := promo("expired", 1, now, func(p *models.Promotion) { p.ValidUntil = now.Add(-time.Minute) })
	b1 := promo("b1", 1, now, func(p *models.Promotion) {
		p.TargetAudience = enum.TargetAudienceSpecificBranch
		p.TargetBranchIDs = []string{"B1"}
	})
	open := promo("open", 1, now)

	promotions := []*models.Promotion{inactive, expired, b1, open}
	s := newScheduler()

	atB2 := s.Schedule(context.Background(), Request{
		Promotions: promotions,
		Context:    models.TargetingContext{SessionID: "S", BranchID: "B2"},
		Now:        now,
	})
	assert.Equal(t, []string{"open"}, ids(atB2.Banner))

	atB1 := s.Schedule(context.Background(), Request{
		Promotions: promotions,
		Context:    models.TargetingContext{SessionID: "S", BranchID: "B1"},
		Now:        now,
	})
	assert.ElementsMatch(t, []string{"b1", "open"}, ids(atB1.Banner))
}

func TestSchedule_TruncatesCarouselOnly(t *testing.T) {
	var promotions []*models.Promotion
	for i := 0; i < 15; i++ {
		promotions = append(promotions, promo(string(rune('a'+i)), i, now,
			withModes(enum.DisplayModeCarousel, enum.DisplayModeBanner)))
	}

	buckets := newScheduler().Schedule(context.Background(), Request{Promotions: promotions, Now: now})

	assert.Len(t, buckets.Carousel, DefaultMaxCarouselItems)
	assert.Len(t, buckets.Banner, 15)
	assert.Equal(t, "o", buckets.Carousel[0].ID)
}

func TestSchedule_CarouselPlacement(t *testing.T) {
	home := promo("home", 1, now, withModes(enum.DisplayModeCarousel), func(p *models.Promotion) {
		p.DisplaySettings.CarouselPosition = enum.CarouselPositionHomepage
	})
	promos := promo("promos", 1, now, withModes(enum.DisplayModeCarousel), func(p *models.Promotion) {
		p.DisplaySettings.CarouselPosition = enum.CarouselPositionPromotions
	})
	both := promo("both", 1, now, withModes(enum.DisplayModeCarousel))

	all := []*models.Promotion{home, promos, both}
	s := newScheduler()

	onHome := s.Schedule(context.Background(), Request{Promotions: all, Placement: enum.CarouselPositionHomepage, Now: now})
	assert.Equal(t, []string{"home", "both"}, ids(onHome.Carousel))

	anywhere := s.Schedule(context.Background(), Request{Promotions: all, Now: now})
	assert.Equal(t, []string{"home", "promos", "both"}, ids(anywhere.Carousel))
}

func TestSchedule_IsRepeatable(t *testing.T) {
	promotions := []*models.Promotion{
		promo("a", 3, now.Add(-time.Hour), withModes(enum.DisplayModeModal)),
		promo("b", 3, now.Add(-2*time.Hour), withModes(enum.DisplayModeModal, enum.DisplayModeBanner)),
		promo("c", 9, now.Add(-3*time.Hour)),
	}
	snap := session.NewSnapshot()
	snap.AddShown(enum.DisplayModeModal, "b")

	s := newScheduler()
	req := Request{Promotions: promotions, Snapshot: snap, Now: now}

	assert.Equal(t, s.Schedule(context.Background(), req), s.Schedule(context.Background(), req))
	assert.Equal(t, []string{"a", "b", "c"}, ids(promotions), "input order is not mutated")
}

package carousel

import (
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goflare.io/display/models"
)

// manualClock fires due callbacks synchronously from Advance.
type manualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending map[int]*manualTimer
}

type manualTimer struct {
	clock    *manualClock
	id       int
	deadline time.Duration
	fn       func()
}

func newManualClock() *manualClock {
	return &manualClock{pending: make(map[int]*manualTimer)}
}

func (m *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{clock: m, id: m.seq, deadline: m.now + d, fn: f}
	m.pending[t.id] = t
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	_, ok := t.clock.pending[t.id]
	delete(t.clock.pending, t.id)
	return ok
}

func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due []*manualTimer
		for _, t := range m.pending {
			if t.deadline <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].deadline != due[j].deadline {
				return due[i].deadline < due[j].deadline
			}
			return due[i].id < due[j].id
		})
		next := due[0]
		delete(m.pending, next.id)
		m.now = next.deadline
		m.mu.Unlock()

		next.fn()
	}
}

func (m *manualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

type viewRecorder struct {
	mu    sync.Mutex
	views []string
}

func (r *viewRecorder) record(item *models.Promotion, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, fmt.Sprintf("%s@%d", item.ID, index))
}

func (r *viewRecorder) Views() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.views...)
}

func items(n int) []*models.Promotion {
	out := make([]*models.Promotion, n)
	for i := range out {
		out[i] = &models.Promotion{ID: fmt.Sprintf("p%d", i)}
	}
	return out
}

const interval = 3000 * time.Millisecond

func mount(t *testing.T, n int) (*Carousel, *manualClock, *viewRecorder) {
	t.Helper()
	clock := newManualClock()
	rec := &viewRecorder{}
	c := Mount(items(n), WithClock(clock), WithInterval(interval), WithOnView(rec.record))
	t.Cleanup(c.Unmount)
	return c, clock, rec
}

func TestMount_States(t *testing.T) {
	empty, clock, _ := mount(t, 0)
	assert.Equal(t, StateIdle, empty.State())
	assert.Nil(t, empty.Current())
	assert.Zero(t, clock.Pending())

	single, clock, _ := mount(t, 1)
	assert.Equal(t, StateIdle, single.State())
	assert.False(t, single.IsPlaying())
	assert.Zero(t, clock.Pending())

	multi, clock, _ := mount(t, 3)
	assert.Equal(t, StatePlaying, multi.State())
	assert.Equal(t, 0, multi.Index())
	assert.Equal(t, 1, clock.Pending())
}

func TestAutoplay_WrapsAround(t *testing.T) {
	c, clock, rec := mount(t, 4)

	clock.Advance(3 * interval)
	assert.Equal(t, 3, c.Index())

	clock.Advance(interval)
	assert.Equal(t, 0, c.Index())

	assert.Equal(t, []string{"p1@1", "p2@2", "p3@3", "p0@0"}, rec.Views())
}

func TestAutoplay_DoesNotTickEarly(t *testing.T) {
	c, clock, rec := mount(t, 2)

	clock.Advance(interval - time.Millisecond)
	assert.Equal(t, 0, c.Index())
	assert.Empty(t, rec.Views())
}

func TestHover_SuppressesTicks(t *testing.T) {
	c, clock, rec := mount(t, 4)

	require.NoError(t, c.HoverEnter())
	clock.Advance(10 * interval)

	assert.Equal(t, 0, c.Index())
	assert.True(t, c.IsPlaying())
	assert.True(t, c.IsHovered())
	assert.Empty(t, rec.Views())

	require.NoError(t, c.HoverLeave())
	clock.Advance(interval)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, []string{"p1@1"}, rec.Views())
}

func TestManualNavigation_RestartsInterval(t *testing.T) {
	c, clock, rec := mount(t, 4)

	clock.Advance(2 * time.Second)
	require.NoError(t, c.Next())
	assert.Equal(t, 1, c.Index())

	// the original tick would have fired here
	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Index())

	clock.Advance(time.Second)
	assert.Equal(t, 2, c.Index())

	require.NoError(t, c.Previous())
	require.NoError(t, c.Previous())
	require.NoError(t, c.Previous())
	assert.Equal(t, 3, c.Index())

	assert.Equal(t, []string{"p1@1", "p2@2", "p1@1", "p0@0", "p3@3"}, rec.Views())
	assert.True(t, c.IsPlaying())
}

func TestGoTo(t *testing.T) {
	c, clock, rec := mount(t, 4)

	require.NoError(t, c.GoTo(2))
	assert.Equal(t, 2, c.Index())

	require.NoError(t, c.GoTo(2))
	assert.Equal(t, []string{"p2@2"}, rec.Views(), "jumping to the active index is not a change")

	assert.ErrorIs(t, c.GoTo(4), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.GoTo(-1), ErrIndexOutOfRange)

	clock.Advance(interval)
	assert.Equal(t, 3, c.Index())
}

func TestTogglePlayPause(t *testing.T) {
	c, clock, rec := mount(t, 3)

	require.NoError(t, c.TogglePlayPause())
	assert.Equal(t, StatePaused, c.State())
	assert.Zero(t, clock.Pending())

	clock.Advance(5 * interval)
	assert.Equal(t, 0, c.Index())

	require.NoError(t, c.Next())
	assert.Equal(t, 1, c.Index())
	assert.Zero(t, clock.Pending(), "navigation does not resume a paused carousel")

	require.NoError(t, c.TogglePlayPause())
	assert.Equal(t, StatePlaying, c.State())
	clock.Advance(interval)
	assert.Equal(t, 2, c.Index())

	assert.Equal(t, []string{"p1@1", "p2@2"}, rec.Views())
}

func TestTogglePlayPause_WhileHovered(t *testing.T) {
	c, clock, _ := mount(t, 3)

	require.NoError(t, c.HoverEnter())
	require.NoError(t, c.TogglePlayPause())
	require.NoError(t, c.TogglePlayPause())
	assert.True(t, c.IsPlaying())
	assert.Zero(t, clock.Pending())

	require.NoError(t, c.HoverLeave())
	assert.Equal(t, 1, clock.Pending())
	clock.Advance(interval)
	assert.Equal(t, 1, c.Index())
}

func TestTogglePlayPause_SingleItemNeverPlays(t *testing.T) {
	c, clock, _ := mount(t, 1)

	require.NoError(t, c.TogglePlayPause())
	assert.False(t, c.IsPlaying())
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, clock.Pending())
}

func TestUnmount_CancelsTimer(t *testing.T) {
	c, clock, rec := mount(t, 3)

	c.Unmount()
	assert.Zero(t, clock.Pending())
	assert.Equal(t, StateUnmounted, c.State())

	clock.Advance(10 * interval)
	assert.Equal(t, 0, c.Index())
	assert.Empty(t, rec.Views())

	assert.ErrorIs(t, c.Next(), ErrUnmounted)
	assert.ErrorIs(t, c.Previous(), ErrUnmounted)
	assert.ErrorIs(t, c.GoTo(1), ErrUnmounted)
	assert.ErrorIs(t, c.GoTo(99), ErrUnmounted)
	assert.ErrorIs(t, c.HoverEnter(), ErrUnmounted)
	assert.ErrorIs(t, c.HoverLeave(), ErrUnmounted)
	assert.ErrorIs(t, c.TogglePlayPause(), ErrUnmounted)
}

func TestStaleTimerIsIgnored(t *testing.T) {
	clock := newManualClock()
	var fire func()
	capture := clockFunc(func(d time.Duration, f func()) Timer {
		fire = f
		return clock.AfterFunc(d, f)
	})
	rec := &viewRecorder{}
	c := Mount(items(3), WithClock(capture), WithInterval(interval), WithOnView(rec.record))

	stale := fire
	c.Unmount()
	stale()

	assert.Equal(t, 0, c.Index())
	assert.Empty(t, rec.Views())
}

func TestPanickingViewCallbackKeepsTicking(t *testing.T) {
	clock := newManualClock()
	calls := 0
	c := Mount(items(3), WithClock(clock), WithInterval(interval), WithOnView(func(*models.Promotion, int) {
		calls++
		panic("render failed")
	}))
	defer c.Unmount()

	clock.Advance(interval)
	clock.Advance(interval)

	assert.Equal(t, 2, c.Index())
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, clock.Pending())
}

func TestSystemClock(t *testing.T) {
	done := make(chan int, 1)
	c := Mount(items(2), WithInterval(10*time.Millisecond), WithOnView(func(_ *models.Promotion, index int) {
		select {
		case done <- index:
		default:
		}
	}))
	defer c.Unmount()

	select {
	case index := <-done:
		assert.Equal(t, 1, index)
	case <-time.After(2 * time.Second):
		t.Fatal("carousel never advanced")
	}
}

type clockFunc func(d time.Duration, f func()) Timer

func (fn clockFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// Package carousel implements the autoplay state machine behind a rotating
// promotion display.
//
// A Carousel is created with its items fixed and is driven by user input
// (Next, Previous, GoTo, hover, play/pause) and by its own timer. Every
// change of the active index reports exactly one view through the
// configured callback.
package carousel

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"goflare.io/display/models"
)

var (
	ErrUnmounted       = errors.New("carousel is unmounted")
	ErrIndexOutOfRange = errors.New("carousel index out of range")
)

type State string

const (
	StateIdle      State = "idle"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
	StateUnmounted State = "unmounted"
)

// ViewFunc is called, outside the carousel lock, each time a new item
// becomes active.
type ViewFunc func(item *models.Promotion, index int)

type Option func(*Carousel)

func WithClock(clock Clock) Option {
	return func(c *Carousel) { c.clock = clock }
}

func WithInterval(d time.Duration) Option {
	return func(c *Carousel) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithOnView(fn ViewFunc) Option {
	return func(c *Carousel) { c.onView = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Carousel) { c.logger = logger }
}

type Carousel struct {
	mu sync.Mutex

	items     []*models.Promotion
	index     int
	playing   bool
	hovered   bool
	unmounted bool

	interval time.Duration
	clock    Clock
	timer    Timer
	// generation invalidates callbacks of timers that fired while being
	// stopped or replaced.
	generation uint64

	onView ViewFunc
	logger *zap.Logger
}

// Mount creates a carousel at index 0. It starts playing when there is more
// than one item.
func Mount(items []*models.Promotion, opts ...Option) *Carousel {
	c := &Carousel{
		items:    append([]*models.Promotion(nil), items...),
		interval: models.DefaultCarouselInterval,
		clock:    SystemClock(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) > 1 {
		c.playing = true
		c.startTimerLocked()
	}
	return c
}

func (c *Carousel) Items() []*models.Promotion {
	return append([]*models.Promotion(nil), c.items...)
}

func (c *Carousel) Len() int {
	return len(c.items)
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Current returns the active item, or nil when the carousel is empty.
func (c *Carousel) Current() *models.Promotion {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return nil
	}
	return c.items[c.index]
}

func (c *Carousel) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Carousel) IsHovered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.unmounted:
		return StateUnmounted
	case len(c.items) < 2:
		return StateIdle
	case c.playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

func (c *Carousel) Next() error {
	return c.navigate(func(n int) int { return (c.index + 1) % n })
}

func (c *Carousel) Previous() error {
	return c.navigate(func(n int) int { return (c.index - 1 + n) % n })
}

// GoTo jumps to index directly.
func (c *Carousel) GoTo(index int) error {
	c.mu.Lock()
	n, unmounted := len(c.items), c.unmounted
	c.mu.Unlock()
	if unmounted {
		return ErrUnmounted
	}
	if index < 0 || index >= n {
		return ErrIndexOutOfRange
	}
	return c.navigate(func(int) int { return index })
}

// navigate moves to the index computed by target and restarts the autoplay
// interval.
func (c *Carousel) navigate(target func(n int) int) error {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return ErrUnmounted
	}
	if len(c.items) == 0 {
		c.mu.Unlock()
		return nil
	}

	changed := c.setIndexLocked(target(len(c.items)))
	if c.timer != nil {
		c.startTimerLocked()
	}
	item, index := c.items[c.index], c.index
	c.mu.Unlock()

	if changed {
		c.emitView(item, index)
	}
	return nil
}

// HoverEnter suppresses autoplay ticks without changing IsPlaying.
func (c *Carousel) HoverEnter() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	c.hovered = true
	return nil
}

// HoverLeave resumes advancing on the next tick boundary.
func (c *Carousel) HoverLeave() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	c.hovered = false
	if c.playing && c.timer == nil {
		c.startTimerLocked()
	}
	return nil
}

// TogglePlayPause flips IsPlaying. Carousels with fewer than two items
// never play.
func (c *Carousel) TogglePlayPause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return ErrUnmounted
	}
	if len(c.items) < 2 {
		return nil
	}

	c.playing = !c.playing
	if !c.playing {
		c.stopTimerLocked()
		return nil
	}
	if !c.hovered {
		c.startTimerLocked()
	}
	return nil
}

// Unmount cancels the pending timer. No tick fires afterwards and every
// later call returns ErrUnmounted.
func (c *Carousel) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmounted = true
	c.playing = false
	c.stopTimerLocked()
}

func (c *Carousel) startTimerLocked() {
	c.stopTimerLocked()
	generation := c.generation
	c.timer = c.clock.AfterFunc(c.interval, func() { c.tick(generation) })
}

func (c *Carousel) stopTimerLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Carousel) tick(generation uint64) {
	c.mu.Lock()
	if c.unmounted || generation != c.generation || !c.playing {
		c.mu.Unlock()
		return
	}

	// 重新排程下一次 tick
	c.startTimerLocked()
	if c.hovered || len(c.items) < 2 {
		c.mu.Unlock()
		return
	}

	c.setIndexLocked((c.index + 1) % len(c.items))
	item, index := c.items[c.index], c.index
	c.mu.Unlock()

	c.emitView(item, index)
}

func (c *Carousel) setIndexLocked(index int) bool {
	if index == c.index {
		return false
	}
	c.index = index
	return true
}

// emitView recovers panics raised by the view callback.
func (c *Carousel) emitView(item *models.Promotion, index int) {
	if c.onView == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("carousel view callback panicked",
				zap.Any("panic", r),
				zap.String("promotion_id", item.ID),
				zap.Int("index", index))
		}
	}()
	c.onView(item, index)
}

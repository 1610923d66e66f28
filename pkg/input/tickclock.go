package input

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPolls is the number of samples taken per controller second
	DefaultPolls = 50
	// DefaultInterval is the delay between samples
	DefaultInterval = 20 * time.Millisecond
)

var log = logrus.WithField("module", "input")

// Sleeper blocks the caller for d
type Sleeper func(d time.Duration)

// TickClock is the only place controller time passes. Each Tick is one second
// made of fixed sub-interval polls, so no press is missed between phase decisions.
type TickClock struct {
	source     InputSource
	polls      int
	interval   time.Duration
	activeLow  bool
	sleep      Sleeper
	debouncers map[Button]*Debouncer
	elapsed    time.Duration
	ticks      uint64
}

// Option configures a TickClock
type Option func(*TickClock)

// WithPolls sets the polls per tick and the delay after each poll
func WithPolls(polls int, interval time.Duration) Option {
	return func(c *TickClock) {
		c.polls = polls
		c.interval = interval
	}
}

// WithSettle sets the debounce window for every button
func WithSettle(settle time.Duration) Option {
	return func(c *TickClock) {
		for _, b := range Buttons {
			c.debouncers[b] = NewDebouncer(settle)
		}
	}
}

// WithActiveLow treats a low raw level as pressed
func WithActiveLow(activeLow bool) Option {
	return func(c *TickClock) {
		c.activeLow = activeLow
	}
}

// WithSleeper replaces time.Sleep, for tests
func WithSleeper(sleep Sleeper) Option {
	return func(c *TickClock) {
		c.sleep = sleep
	}
}

// NewTickClock creates a clock polling source
func NewTickClock(source InputSource, opts ...Option) *TickClock {
	c := &TickClock{
		source:     source,
		polls:      DefaultPolls,
		interval:   DefaultInterval,
		sleep:      time.Sleep,
		debouncers: make(map[Button]*Debouncer, len(Buttons)),
	}
	for _, b := range Buttons {
		c.debouncers[b] = NewDebouncer(DefaultSettle)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Tick advances one second. Every press edge seen during the second is handed
// to handle before Tick returns.
func (c *TickClock) Tick(handle func(Button)) error {
	for i := 0; i < c.polls; i++ {
		if err := c.poll(handle); err != nil {
			return err
		}
		c.sleep(c.interval)
		c.elapsed += c.interval
	}
	c.ticks++
	return nil
}

// Pause lets d pass without sampling inputs
func (c *TickClock) Pause(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	c.sleep(d)
	c.elapsed += d
	return nil
}

// Ticks returns the number of completed seconds
func (c *TickClock) Ticks() uint64 {
	return c.ticks
}

// Elapsed returns the clock's accumulated time
func (c *TickClock) Elapsed() time.Duration {
	return c.elapsed
}

func (c *TickClock) poll(handle func(Button)) error {
	levels, err := c.source.Read()
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	if c.activeLow {
		levels = levels.Invert()
	}

	for _, b := range Buttons {
		if !c.debouncers[b].Update(levels.Get(b), c.elapsed) {
			continue
		}
		log.WithFields(logrus.Fields{
			"button":  b.String(),
			"elapsed": c.elapsed,
		}).Debug("press edge")
		if handle != nil {
			handle(b)
		}
	}
	return nil
}

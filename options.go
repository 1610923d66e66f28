package crossing

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/anggasct/crossing/pkg/display"
	"github.com/anggasct/crossing/pkg/policy"
)

// Timing holds the fixed phase lengths
type Timing struct {
	YellowSeconds int
	WalkSeconds   int
	StopNotice    time.Duration // how long "PEDESTRIAN STOP" is held
	Banner        time.Duration // how long each boot screen is held
}

// DefaultTiming returns 3s yellow, 8s walk, 500ms stop notice and 1s boot screens
func DefaultTiming() Timing {
	return Timing{
		YellowSeconds: 3,
		WalkSeconds:   8,
		StopNotice:    500 * time.Millisecond,
		Banner:        time.Second,
	}
}

// Validate checks every timing value
func (t Timing) Validate() error {
	var result *multierror.Error
	if t.YellowSeconds <= 0 {
		result = multierror.Append(result, fmt.Errorf("yellow must be positive, got %d", t.YellowSeconds))
	}
	if t.WalkSeconds <= 0 {
		result = multierror.Append(result, fmt.Errorf("walk must be positive, got %d", t.WalkSeconds))
	}
	if t.StopNotice < 0 {
		result = multierror.Append(result, fmt.Errorf("stop notice must not be negative, got %s", t.StopNotice))
	}
	if t.Banner < 0 {
		result = multierror.Append(result, fmt.Errorf("banner must not be negative, got %s", t.Banner))
	}
	return result.ErrorOrNil()
}

// Option configures a Controller
type Option func(*Controller)

// WithCycle replaces the default phase sequence
func WithCycle(cycle *Cycle) Option {
	return func(c *Controller) {
		c.cycle = cycle
	}
}

// WithPolicy replaces the default green time table
func WithPolicy(p policy.GreenTimePolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithTiming replaces the default yellow, walk and notice durations
func WithTiming(t Timing) Option {
	return func(c *Controller) {
		c.timing = t
	}
}

// WithPresenter sets the display formatter
func WithPresenter(p *display.Presenter) Option {
	return func(c *Controller) {
		c.presenter = p
	}
}

// WithObserver registers an observer before Start
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers.AddObserver(o)
	}
}

// WithID overrides the generated controller ID
func WithID(id string) Option {
	return func(c *Controller) {
		c.id = id
	}
}

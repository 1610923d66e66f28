package crossing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anggasct/crossing/pkg/display"
	"github.com/anggasct/crossing/pkg/input"
	"github.com/anggasct/crossing/pkg/policy"
)

// Clock is the controller's only source of elapsed time.
// Tick blocks for one second and hands every button press seen during that
// second to handle before returning. Pause lets time pass without sampling.
type Clock interface {
	Tick(handle func(input.Button)) error
	Pause(d time.Duration) error
}

// Controller sequences the intersection phases. It is driven from a single
// goroutine; the read accessors may be called from others.
type Controller struct {
	id string

	mutex      sync.RWMutex
	started    bool
	phase      Phase
	remaining  int
	allocation policy.Allocation
	queues     map[Approach]*ApproachState
	pedestrian PedestrianLatch
	resume     Approach
	steps      uint64

	cycle     *Cycle
	policy    policy.GreenTimePolicy
	timing    Timing
	clock     Clock
	lamps     lampDriver
	sink      display.Sink
	presenter *display.Presenter
	observers *ObserverManager

	// first display failure raised while handling presses inside a tick
	edgeErr error
}

// New creates a controller. Nothing is driven until Start.
func New(clock Clock, out SignalOutput, sink display.Sink, opts ...Option) (*Controller, error) {
	c := &Controller{
		id: uuid.New().String(),
		queues: map[Approach]*ApproachState{
			NorthSouth: NewApproachState(NorthSouth),
			EastWest:   NewApproachState(EastWest),
		},
		cycle:     DefaultCycle(),
		policy:    policy.Default(),
		timing:    DefaultTiming(),
		clock:     clock,
		lamps:     lampDriver{out: out},
		sink:      sink,
		presenter: display.NewPresenter(display.DefaultWidth),
		observers: NewObserverManager(),
	}

	for _, opt := range opts {
		opt(c)
	}

	switch {
	case clock == nil:
		return nil, NewConfigurationError("Controller", errors.New("clock is required"))
	case out == nil:
		return nil, NewConfigurationError("Controller", errors.New("signal output is required"))
	case sink == nil:
		return nil, NewConfigurationError("Controller", errors.New("display sink is required"))
	case c.cycle == nil:
		return nil, NewConfigurationError("Controller", errors.New("cycle is required"))
	case c.policy == nil:
		return nil, NewConfigurationError("Controller", errors.New("green time policy is required"))
	case c.presenter == nil:
		return nil, NewConfigurationError("Controller", errors.New("presenter is required"))
	}
	if err := c.timing.Validate(); err != nil {
		return nil, NewConfigurationError("Timing", err)
	}

	c.phase = c.cycle.Initial()
	return c, nil
}

// ID returns the controller identifier
func (c *Controller) ID() string {
	return c.id
}

// Status returns a snapshot of the controller state
func (c *Controller) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		ID:                c.id,
		Started:           c.started,
		Phase:             c.phase,
		Remaining:         c.remaining,
		Allocation:        c.allocation,
		NS:                c.queues[NorthSouth].Pending(),
		EW:                c.queues[EastWest].Pending(),
		PedestrianWaiting: c.pedestrian.Requested(),
		Resume:            c.resume,
		Steps:             c.steps,
	}
}

// Phase returns the current phase
func (c *Controller) Phase() Phase {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.phase
}

// Pending returns the vehicles latched for a
func (c *Controller) Pending(a Approach) uint {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.queues[a].Pending()
}

// PedestrianWaiting reports whether a crossing request is latched
func (c *Controller) PedestrianWaiting() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.pedestrian.Requested()
}

// Started reports whether Start has been called
func (c *Controller) Started() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.started
}

// AddObserver adds an observer
func (c *Controller) AddObserver(o Observer) {
	c.observers.AddObserver(o)
}

// RemoveObserver removes an observer
func (c *Controller) RemoveObserver(o Observer) {
	c.observers.RemoveObserver(o)
}

// Start shows the boot screens, puts every head to red and enters the initial phase
func (c *Controller) Start() error {
	if c.Started() {
		return NewControllerError(ErrCodeAlreadyStarted, "Start", "controller is already started")
	}

	if err := c.show(c.presenter.Banner("Starting...")); err != nil {
		return err
	}
	if err := c.pause(c.timing.Banner); err != nil {
		return err
	}
	if err := c.lamps.dontWalk(); err != nil {
		return c.fail(NewIOError("signal output", c.Phase(), err))
	}
	if err := c.show(c.presenter.Banner("Ready")); err != nil {
		return err
	}
	if err := c.pause(c.timing.Banner); err != nil {
		return err
	}

	c.mutex.Lock()
	c.started = true
	c.mutex.Unlock()

	c.observers.NotifyControllerStarted(c.Status())
	return c.enter(c.Phase())
}

// Stop leaves every vehicle and pedestrian head at red
func (c *Controller) Stop() error {
	if !c.Started() {
		return NewNotStartedError("Stop")
	}

	c.mutex.Lock()
	c.started = false
	c.remaining = 0
	c.mutex.Unlock()

	if err := c.lamps.dontWalk(); err != nil {
		return c.fail(NewIOError("signal output", c.Phase(), err))
	}
	c.observers.NotifyControllerStopped(c.Status())
	return nil
}

// Step runs the current phase to completion and moves to the next one.
// A countdown, once started, is never cut short.
func (c *Controller) Step() *PhaseResult {
	phase := c.Phase()
	result := NewPhaseResult(phase)

	if !c.Started() {
		return result.WithError(NewNotStartedError("Step"))
	}

	var err error
	switch {
	case phase.IsGreen():
		err = c.runGreen(result)
	case phase.IsYellow():
		err = c.runYellow(result)
	default:
		err = c.runWalk(result)
	}
	if err != nil {
		return result.WithError(err)
	}

	c.mutex.Lock()
	c.remaining = 0
	c.steps++
	if a, ok := phase.Approach(); ok && phase.IsYellow() {
		c.resume = a.Opposite()
	}
	status := c.statusLocked()
	c.mutex.Unlock()

	c.observers.NotifyPhaseExit(phase, status)

	next, err := c.cycle.Next(status)
	if err != nil {
		return result.WithError(c.fail(err))
	}

	c.mutex.Lock()
	c.phase = next.To
	c.mutex.Unlock()

	c.observers.NotifyTransition(phase, next.To, c.Status())
	result.Next = next.To

	if err := c.enter(next.To); err != nil {
		return result.WithError(err)
	}
	return result
}

// Run starts the controller if needed and steps through phases until ctx is
// done. Cancellation is only observed between phases.
func (c *Controller) Run(ctx context.Context) error {
	if !c.Started() {
		if err := c.Start(); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if result := c.Step(); result.Error != nil {
			return result.Error
		}
	}
}

// enter sets the lamps for phase. A vehicle green freezes its allocation here.
func (c *Controller) enter(phase Phase) error {
	var err error

	switch {
	case phase.IsGreen():
		a, _ := phase.Approach()
		c.mutex.Lock()
		c.allocation = c.policy.Allocate(c.queues[a].Pending())
		c.mutex.Unlock()
		err = c.lamps.release(a, false)
	case phase.IsYellow():
		a, _ := phase.Approach()
		err = c.lamps.release(a, true)
	default:
		err = c.lamps.walk()
	}
	if err != nil {
		return c.fail(NewIOError("signal output", phase, err))
	}

	c.observers.NotifyPhaseEnter(phase, c.Status())
	return nil
}

func (c *Controller) runGreen(result *PhaseResult) error {
	a, _ := result.Phase.Approach()
	other := a.Opposite()

	c.mutex.RLock()
	alloc := c.allocation
	c.mutex.RUnlock()

	result.Allocation = alloc
	result.Seconds = alloc.Total()

	err := c.countdown(alloc.Total(), func(remaining int) display.Frame {
		return c.presenter.Green(a.String(), other.String(), alloc.Base, alloc.Extra, remaining, c.Pending(other))
	})
	if err != nil {
		return err
	}

	c.mutex.Lock()
	served := c.queues[a].Reset()
	status := c.statusLocked()
	c.mutex.Unlock()

	result.Served = served
	c.observers.NotifyQueueServed(a, served, status)
	return nil
}

func (c *Controller) runYellow(result *PhaseResult) error {
	a, _ := result.Phase.Approach()
	other := a.Opposite()
	result.Seconds = c.timing.YellowSeconds

	return c.countdown(c.timing.YellowSeconds, func(remaining int) display.Frame {
		return c.presenter.Yellow(a.String(), other.String(), remaining, c.Pending(other))
	})
}

func (c *Controller) runWalk(result *PhaseResult) error {
	result.Seconds = c.timing.WalkSeconds

	if err := c.countdown(c.timing.WalkSeconds, c.presenter.Walk); err != nil {
		return err
	}

	if err := c.lamps.dontWalk(); err != nil {
		return c.fail(NewIOError("signal output", PedGreen, err))
	}
	if err := c.show(c.presenter.WalkEnd()); err != nil {
		return err
	}
	if err := c.pause(c.timing.StopNotice); err != nil {
		return err
	}

	c.mutex.Lock()
	c.pedestrian.Consume()
	status := c.statusLocked()
	c.mutex.Unlock()

	result.PedestrianServed = true
	c.observers.NotifyPedestrianServed(status)
	return nil
}

// countdown shows render(remaining) and advances the clock once per second,
// from seconds down to 1
func (c *Controller) countdown(seconds int, render func(remaining int) display.Frame) error {
	for remaining := seconds; remaining > 0; remaining-- {
		c.mutex.Lock()
		c.remaining = remaining
		status := c.statusLocked()
		c.mutex.Unlock()

		if err := c.show(render(remaining)); err != nil {
			return err
		}
		c.observers.NotifyTick(status)

		if err := c.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) tick() error {
	c.edgeErr = nil
	if err := c.clock.Tick(c.handlePress); err != nil {
		return c.fail(NewIOError("clock tick", c.Phase(), err))
	}
	return c.edgeErr
}

// handlePress routes one debounced press to its counter or the pedestrian latch
func (c *Controller) handlePress(b input.Button) {
	var frame display.Frame

	switch b {
	case input.ButtonNS, input.ButtonEW:
		a := NorthSouth
		if b == input.ButtonEW {
			a = EastWest
		}

		c.mutex.Lock()
		counted := c.queues[a].Press(c.phase)
		count := c.queues[a].Pending()
		status := c.statusLocked()
		c.mutex.Unlock()

		if counted {
			frame = c.presenter.Counted(a.String(), count)
			c.observers.NotifyVehicleCounted(a, status)
		} else {
			frame = c.presenter.NotStopped(a.String())
			c.observers.NotifyVehicleRejected(a, status)
		}
	case input.ButtonPedestrian:
		c.mutex.Lock()
		already := c.pedestrian.Request()
		status := c.statusLocked()
		c.mutex.Unlock()

		frame = c.presenter.PedestrianStored()
		c.observers.NotifyPedestrianRequest(already, status)
	default:
		return
	}

	if err := c.show(frame); err != nil && c.edgeErr == nil {
		c.edgeErr = err
	}
}

func (c *Controller) show(f display.Frame) error {
	if err := c.sink.Show(f); err != nil {
		return c.fail(NewIOError("display", c.Phase(), err))
	}
	return nil
}

func (c *Controller) pause(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if err := c.clock.Pause(d); err != nil {
		return c.fail(NewIOError("clock pause", c.Phase(), err))
	}
	return nil
}

func (c *Controller) fail(err error) error {
	c.observers.NotifyError(err, c.Status())
	return err
}

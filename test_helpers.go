package crossing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anggasct/crossing/pkg/display"
	"github.com/anggasct/crossing/pkg/input"
)

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex        sync.RWMutex
	Transitions  []TransitionEvent
	PhaseEnters  []PhaseEvent
	PhaseExits   []PhaseEvent
	Ticks        []Status
	Counted      []ApproachEvent
	Rejected     []ApproachEvent
	PedRequests  []bool // alreadyLatched per press
	PedServed    []Status
	QueuesServed []QueueEvent
	Errors       []error
	Started      []Status
	Stopped      []Status

	// Hooks run after the event is recorded
	OnEnter    func(phase Phase, s Status)
	OnExit     func(phase Phase, s Status)
	OnEachTick func(s Status)
}

type TransitionEvent struct {
	From   Phase
	To     Phase
	Status Status
}

type PhaseEvent struct {
	Phase  Phase
	Status Status
}

type ApproachEvent struct {
	Approach Approach
	Status   Status
}

type QueueEvent struct {
	Approach Approach
	Served   uint
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

// Observer interface implementations
func (o *TestObserver) OnTransition(from Phase, to Phase, s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = append(o.Transitions, TransitionEvent{From: from, To: to, Status: s})
}

func (o *TestObserver) OnPhaseEnter(phase Phase, s Status) {
	o.mutex.Lock()
	o.PhaseEnters = append(o.PhaseEnters, PhaseEvent{Phase: phase, Status: s})
	hook := o.OnEnter
	o.mutex.Unlock()
	if hook != nil {
		hook(phase, s)
	}
}

// ExtendedObserver interface implementations
func (o *TestObserver) OnPhaseExit(phase Phase, s Status) {
	o.mutex.Lock()
	o.PhaseExits = append(o.PhaseExits, PhaseEvent{Phase: phase, Status: s})
	hook := o.OnExit
	o.mutex.Unlock()
	if hook != nil {
		hook(phase, s)
	}
}

func (o *TestObserver) OnTick(s Status) {
	o.mutex.Lock()
	o.Ticks = append(o.Ticks, s)
	hook := o.OnEachTick
	o.mutex.Unlock()
	if hook != nil {
		hook(s)
	}
}

func (o *TestObserver) OnVehicleCounted(a Approach, s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Counted = append(o.Counted, ApproachEvent{Approach: a, Status: s})
}

func (o *TestObserver) OnVehicleRejected(a Approach, s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Rejected = append(o.Rejected, ApproachEvent{Approach: a, Status: s})
}

func (o *TestObserver) OnPedestrianRequest(alreadyLatched bool, s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.PedRequests = append(o.PedRequests, alreadyLatched)
}

func (o *TestObserver) OnPedestrianServed(s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.PedServed = append(o.PedServed, s)
}

func (o *TestObserver) OnQueueServed(a Approach, served uint, s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.QueuesServed = append(o.QueuesServed, QueueEvent{Approach: a, Served: served})
}

func (o *TestObserver) OnError(err error, s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

func (o *TestObserver) OnControllerStarted(s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, s)
}

func (o *TestObserver) OnControllerStopped(s Status) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Stopped = append(o.Stopped, s)
}

// EnteredPhases returns the phases entered so far, in order
func (o *TestObserver) EnteredPhases() []Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	phases := make([]Phase, 0, len(o.PhaseEnters))
	for _, e := range o.PhaseEnters {
		phases = append(phases, e.Phase)
	}
	return phases
}

// ScriptedClock advances instantly and replays scripted presses
type ScriptedClock struct {
	mutex   sync.Mutex
	ticks   int
	presses map[int][]input.Button

	// Script, when set, is asked for extra presses at every tick
	Script func(tick int) []input.Button
	Pauses []time.Duration
	Err    error
}

// NewScriptedClock creates a clock with no presses
func NewScriptedClock() *ScriptedClock {
	return &ScriptedClock{presses: make(map[int][]input.Button)}
}

// PressAt schedules buttons during the given 1-based tick
func (c *ScriptedClock) PressAt(tick int, buttons ...input.Button) *ScriptedClock {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.presses[tick] = append(c.presses[tick], buttons...)
	return c
}

// Tick implements Clock
func (c *ScriptedClock) Tick(handle func(input.Button)) error {
	c.mutex.Lock()
	if c.Err != nil {
		err := c.Err
		c.mutex.Unlock()
		return err
	}
	c.ticks++
	n := c.ticks
	presses := append([]input.Button(nil), c.presses[n]...)
	script := c.Script
	c.mutex.Unlock()

	if script != nil {
		presses = append(presses, script(n)...)
	}
	for _, b := range presses {
		handle(b)
	}
	return nil
}

// Pause implements Clock
func (c *ScriptedClock) Pause(d time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.Pauses = append(c.Pauses, d)
	return nil
}

// Ticks returns the number of completed ticks
func (c *ScriptedClock) Ticks() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.ticks
}

// RecordingOutput is a LampSet that checks the safety rules after every write
type RecordingOutput struct {
	LampSet
	Writes     int
	Violations []string
	Err        error
}

// SetLamp implements SignalOutput
func (o *RecordingOutput) SetLamp(lamp Lamp, on bool) error {
	if o.Err != nil {
		return o.Err
	}
	if err := o.LampSet.SetLamp(lamp, on); err != nil {
		return err
	}
	o.Writes++
	for _, c := range o.LampSet.Conflicts() {
		o.Violations = append(o.Violations, lamp.String()+": "+c)
	}
	return nil
}

// RecordingSink keeps every frame shown
type RecordingSink struct {
	mutex  sync.Mutex
	Frames []display.Frame
	Err    error
}

// Show implements display.Sink
func (s *RecordingSink) Show(f display.Frame) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Frames = append(s.Frames, f)
	return nil
}

// Contains reports whether f was ever shown
func (s *RecordingSink) Contains(f display.Frame) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, shown := range s.Frames {
		if shown == f {
			return true
		}
	}
	return false
}

// Last returns the most recent frame
func (s *RecordingSink) Last() display.Frame {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.Frames) == 0 {
		return display.Frame{}
	}
	return s.Frames[len(s.Frames)-1]
}

// Test controller builders

// TestRig bundles a controller with its recording collaborators
type TestRig struct {
	Controller *Controller
	Clock      *ScriptedClock
	Output     *RecordingOutput
	Sink       *RecordingSink
	Observer   *TestObserver
}

// CreateTestRig creates a controller wired to in-memory fakes
func CreateTestRig(t *testing.T, opts ...Option) *TestRig {
	t.Helper()
	rig := &TestRig{
		Clock:    NewScriptedClock(),
		Output:   &RecordingOutput{},
		Sink:     &RecordingSink{},
		Observer: NewTestObserver(),
	}
	opts = append([]Option{WithObserver(rig.Observer), WithID("test-controller")}, opts...)
	c, err := New(rig.Clock, rig.Output, rig.Sink, opts...)
	if err != nil {
		t.Fatalf("Expected no error creating controller, got: %v", err)
	}
	rig.Controller = c
	return rig
}

// StartedRig creates a rig and starts its controller
func StartedRig(t *testing.T, opts ...Option) *TestRig {
	t.Helper()
	rig := CreateTestRig(t, opts...)
	if err := rig.Controller.Start(); err != nil {
		t.Fatalf("Expected no error starting controller, got: %v", err)
	}
	return rig
}

// StepUntil steps until the controller is in phase, failing after limit steps
func (r *TestRig) StepUntil(t *testing.T, phase Phase, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if r.Controller.Phase() == phase {
			return
		}
		if res := r.Controller.Step(); res.Error != nil {
			t.Fatalf("Step failed: %v", res.Error)
		}
	}
	if r.Controller.Phase() != phase {
		t.Fatalf("Expected to reach %s within %d steps, still in %s", phase, limit, r.Controller.Phase())
	}
}

// Test assertions and utilities

// AssertPhase checks the controller's current phase
func AssertPhase(t *testing.T, c *Controller, expected Phase) {
	t.Helper()
	if got := c.Phase(); got != expected {
		t.Errorf("Expected phase %s, got %s", expected, got)
	}
}

// AssertPending checks the latched vehicle count for a
func AssertPending(t *testing.T, c *Controller, a Approach, expected uint) {
	t.Helper()
	if got := c.Pending(a); got != expected {
		t.Errorf("Expected %s pending %d, got %d", a, expected, got)
	}
}

// AssertStep checks a phase result
func AssertStep(t *testing.T, result *PhaseResult, phase Phase, seconds int, next Phase) {
	t.Helper()
	if result.Error != nil {
		t.Fatalf("Expected %s to complete, got error: %v", phase, result.Error)
	}
	if result.Phase != phase {
		t.Errorf("Expected phase %s, got %s", phase, result.Phase)
	}
	if result.Seconds != seconds {
		t.Errorf("Expected %s to last %ds, got %ds", phase, seconds, result.Seconds)
	}
	if result.Next != next {
		t.Errorf("Expected %s to be followed by %s, got %s", phase, next, result.Next)
	}
}

// AssertLamps checks that exactly the given lamps are on
func AssertLamps(t *testing.T, lamps *LampSet, expected ...Lamp) {
	t.Helper()
	want := make(map[Lamp]bool, len(expected))
	for _, l := range expected {
		want[l] = true
	}
	for _, l := range Lamps {
		if lamps.On(l) != want[l] {
			t.Errorf("Expected %s on=%t, lamps are %s", l, want[l], lamps)
		}
	}
}

// AssertNoViolations checks that no lamp write ever broke a safety rule
func AssertNoViolations(t *testing.T, out *RecordingOutput) {
	t.Helper()
	if len(out.Violations) > 0 {
		t.Errorf("Expected no signal conflicts, got %v", out.Violations)
	}
}

// AssertErrorCode checks the code carried by err
func AssertErrorCode(t *testing.T, err error, expected ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %d, got nil", expected)
	}
	if got := GetErrorCode(err); got != expected {
		t.Errorf("Expected error code %d, got %d (%v)", expected, got, err)
	}
}

// ErrTestIO is a canned boundary failure
var ErrTestIO = errors.New("test i/o failure")

// Reset clears all recorded events
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = nil
	o.PhaseEnters = nil
	o.PhaseExits = nil
	o.Ticks = nil
	o.Counted = nil
	o.Rejected = nil
	o.PedRequests = nil
	o.PedServed = nil
	o.QueuesServed = nil
	o.Errors = nil
	o.Started = nil
	o.Stopped = nil
}

// TransitionCount returns the number of recorded transitions
func (o *TestObserver) TransitionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Transitions)
}

// ErrorCount returns the number of recorded errors
func (o *TestObserver) ErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Errors)
}

// LastTransition returns the most recent transition, or nil
func (o *TestObserver) LastTransition() *TransitionEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Transitions) == 0 {
		return nil
	}
	last := o.Transitions[len(o.Transitions)-1]
	return &last
}

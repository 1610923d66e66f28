package crossing

import "github.com/anggasct/crossing/pkg/policy"

// Status is a read-only snapshot of the controller
type Status struct {
	ID                string
	Started           bool
	Phase             Phase
	Remaining         int // seconds left in the current countdown, 0 between phases
	Allocation        policy.Allocation
	NS                uint
	EW                uint
	PedestrianWaiting bool
	Resume            Approach // approach whose green follows a pedestrian phase
	Steps             uint64   // completed phases
}

// Pending returns the latched count for a
func (s Status) Pending(a Approach) uint {
	if a == EastWest {
		return s.EW
	}
	return s.NS
}

// PhaseResult represents the outcome of running one phase
type PhaseResult struct {
	Phase            Phase
	Next             Phase
	Seconds          int
	Allocation       policy.Allocation
	Served           uint // vehicles released by a completed green
	PedestrianServed bool
	Error            error
}

// NewPhaseResult creates a new phase result
func NewPhaseResult(phase Phase) *PhaseResult {
	return &PhaseResult{
		Phase: phase,
		Next:  phase,
	}
}

// WithError adds an error to the phase result
func (r *PhaseResult) WithError(err error) *PhaseResult {
	r.Error = err
	return r
}

// Success returns true if the phase ran to completion and a transition was taken
func (r *PhaseResult) Success() bool {
	return r.Error == nil
}

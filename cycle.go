package crossing

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Cycle is a validated transition table over the phases
type Cycle struct {
	initial     Phase
	transitions map[Phase][]Transition
}

// Initial returns the phase the controller starts in
func (c *Cycle) Initial() Phase {
	return c.initial
}

// Transitions returns the transitions leaving from, in evaluation order
func (c *Cycle) Transitions(from Phase) []Transition {
	out := make([]Transition, len(c.transitions[from]))
	copy(out, c.transitions[from])
	return out
}

// Next returns the first transition leaving s.Phase whose guard holds
func (c *Cycle) Next(s Status) (Transition, error) {
	for _, t := range c.transitions[s.Phase] {
		ok, err := t.Allows(s)
		if err != nil {
			return Transition{}, &TransitionError{From: s.Phase, Reason: err.Error()}
		}
		if ok {
			return t, nil
		}
	}
	return Transition{}, NewNoTransitionError(s.Phase)
}

// CycleBuilder is the entry point for describing a phase sequence
type CycleBuilder interface {
	Phase(p Phase) PhaseBuilder
	Build() (*Cycle, error)
}

// PhaseBuilder configures one phase
type PhaseBuilder interface {
	Initial() PhaseBuilder
	To(target Phase) TransitionBuilder

	Phase(p Phase) PhaseBuilder
	Build() (*Cycle, error)
}

// TransitionBuilder configures the most recent transition
type TransitionBuilder interface {
	When(label string, guard GuardFunc) TransitionBuilder
	Unless(label string, guard GuardFunc) TransitionBuilder

	// Another transition from the same phase, tried after this one
	To(target Phase) TransitionBuilder

	Phase(p Phase) PhaseBuilder
	Build() (*Cycle, error)
}

type cycleBuilderImpl struct {
	initial     Phase
	hasInitial  bool
	order       []Phase
	transitions map[Phase][]*Transition
}

// NewCycle creates a new cycle builder
func NewCycle() CycleBuilder {
	return &cycleBuilderImpl{
		transitions: make(map[Phase][]*Transition),
	}
}

// Phase starts or resumes the description of p
func (cb *cycleBuilderImpl) Phase(p Phase) PhaseBuilder {
	if _, exists := cb.transitions[p]; !exists {
		cb.transitions[p] = make([]*Transition, 0)
		cb.order = append(cb.order, p)
	}
	return &phaseBuilderImpl{cycle: cb, phase: p}
}

// Build validates the table and freezes it
func (cb *cycleBuilderImpl) Build() (*Cycle, error) {
	if err := cb.validate(); err != nil {
		return nil, NewConfigurationError("Cycle", err)
	}

	cycle := &Cycle{
		initial:     cb.initial,
		transitions: make(map[Phase][]Transition, len(cb.transitions)),
	}
	for from, ts := range cb.transitions {
		for _, t := range ts {
			cycle.transitions[from] = append(cycle.transitions[from], *t)
		}
	}
	return cycle, nil
}

func (cb *cycleBuilderImpl) validate() error {
	var result *multierror.Error

	if !cb.hasInitial {
		result = multierror.Append(result, fmt.Errorf("no initial phase defined"))
	}

	for _, from := range cb.order {
		ts := cb.transitions[from]
		if !from.Valid() {
			result = multierror.Append(result, fmt.Errorf("phase %d is not a valid phase", int(from)))
			continue
		}
		if len(ts) == 0 {
			result = multierror.Append(result, fmt.Errorf("phase '%s' has no outgoing transition", from))
			continue
		}
		for _, t := range ts {
			if !t.To.Valid() {
				result = multierror.Append(result, fmt.Errorf("phase '%s' targets invalid phase %d", from, int(t.To)))
				continue
			}
			if _, defined := cb.transitions[t.To]; !defined {
				result = multierror.Append(result, fmt.Errorf("phase '%s' targets undefined phase '%s'", from, t.To))
			}
		}
		if ts[len(ts)-1].Guarded() {
			result = multierror.Append(result, fmt.Errorf("phase '%s' has no unguarded fallback transition", from))
		}
	}

	return result.ErrorOrNil()
}

type phaseBuilderImpl struct {
	cycle *cycleBuilderImpl
	phase Phase
}

// Initial marks the phase as the starting phase
func (pb *phaseBuilderImpl) Initial() PhaseBuilder {
	pb.cycle.initial = pb.phase
	pb.cycle.hasInitial = true
	return pb
}

// To adds an unguarded transition to target
func (pb *phaseBuilderImpl) To(target Phase) TransitionBuilder {
	t := NewTransition(pb.phase, target)
	pb.cycle.transitions[pb.phase] = append(pb.cycle.transitions[pb.phase], t)
	return &transitionBuilderImpl{phase: pb, transition: t}
}

func (pb *phaseBuilderImpl) Phase(p Phase) PhaseBuilder {
	return pb.cycle.Phase(p)
}

func (pb *phaseBuilderImpl) Build() (*Cycle, error) {
	return pb.cycle.Build()
}

type transitionBuilderImpl struct {
	phase      *phaseBuilderImpl
	transition *Transition
}

// When adds a guard condition
func (tb *transitionBuilderImpl) When(label string, guard GuardFunc) TransitionBuilder {
	tb.transition.WithGuard(label, guard)
	return tb
}

// Unless adds a negated guard condition
func (tb *transitionBuilderImpl) Unless(label string, guard GuardFunc) TransitionBuilder {
	tb.transition.WithGuard("not "+label, func(s Status) bool {
		return !guard(s)
	})
	return tb
}

func (tb *transitionBuilderImpl) To(target Phase) TransitionBuilder {
	return tb.phase.To(target)
}

func (tb *transitionBuilderImpl) Phase(p Phase) PhaseBuilder {
	return tb.phase.Phase(p)
}

func (tb *transitionBuilderImpl) Build() (*Cycle, error) {
	return tb.phase.Build()
}

// DefaultCycle returns the fixed intersection sequence. A latched pedestrian
// request is served after either yellow, before the crossing approach's green.
func DefaultCycle() *Cycle {
	cycle, err := NewCycle().
		Phase(NSGreen).Initial().
		To(NSYellow).
		Phase(NSYellow).
		To(PedGreen).When("pedestrian waiting", PedestrianRequested).
		To(EWGreen).
		Phase(EWGreen).
		To(EWYellow).
		Phase(EWYellow).
		To(PedGreen).When("pedestrian waiting", PedestrianRequested).
		To(NSGreen).
		Phase(PedGreen).
		To(EWGreen).When("resume EW", Resuming(EastWest)).
		To(NSGreen).
		Build()
	if err != nil {
		panic(fmt.Sprintf("default cycle: %v", err))
	}
	return cycle
}

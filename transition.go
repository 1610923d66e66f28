package crossing

import "fmt"

// GuardFunc decides whether a transition may be taken
type GuardFunc func(s Status) bool

// Transition moves the controller from one phase to the next once a phase completes
type Transition struct {
	From  Phase
	To    Phase
	Guard GuardFunc
	Label string // describes the guard, shown in graphs and logs
}

// NewTransition creates a new unguarded transition
func NewTransition(from, to Phase) *Transition {
	return &Transition{
		From: from,
		To:   to,
	}
}

// WithGuard adds a guard condition to the transition
func (t *Transition) WithGuard(label string, guard GuardFunc) *Transition {
	t.Label = label
	t.Guard = guard
	return t
}

// Guarded reports whether the transition has a guard
func (t Transition) Guarded() bool {
	return t.Guard != nil
}

// Allows evaluates the guard against s, recovering from a panicking guard
func (t Transition) Allows(s Status) (allowed bool, err error) {
	if t.Guard == nil {
		return true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			allowed = false
			err = fmt.Errorf("guard panic: %v", r)
		}
	}()

	return t.Guard(s), nil
}

// PedestrianRequested holds while a crossing request is latched
func PedestrianRequested(s Status) bool {
	return s.PedestrianWaiting
}

// Resuming holds when a is the approach due to follow a pedestrian phase
func Resuming(a Approach) GuardFunc {
	return func(s Status) bool {
		return s.Resume == a
	}
}

package observers

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/anggasct/crossing"
)

// ValidationObserver checks a running controller against its cycle and, when
// given a lamp mirror, against the signal safety rules
type ValidationObserver struct {
	crossing.BaseObserver

	cycle      *crossing.Cycle
	lamps      *crossing.LampSet
	visited    map[crossing.Phase]bool
	violations []string
	mutex      sync.RWMutex
}

// NewValidationObserver creates a validator for cycle. lamps may be nil.
func NewValidationObserver(cycle *crossing.Cycle, lamps *crossing.LampSet) *ValidationObserver {
	return &ValidationObserver{
		cycle:      cycle,
		lamps:      lamps,
		visited:    make(map[crossing.Phase]bool),
		violations: make([]string, 0),
	}
}

// addViolation adds a violation
func (o *ValidationObserver) addViolation(message string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, message)
}

func (o *ValidationObserver) checkLamps(where string) {
	if o.lamps == nil {
		return
	}
	for _, c := range o.lamps.Conflicts() {
		o.addViolation(fmt.Sprintf("%s: %s", where, c))
	}
}

// OnTransition checks that the transition is in the cycle
func (o *ValidationObserver) OnTransition(from crossing.Phase, to crossing.Phase, s crossing.Status) {
	if o.cycle == nil {
		return
	}
	allowed := lo.ContainsBy(o.cycle.Transitions(from), func(t crossing.Transition) bool {
		return t.To == to
	})
	if !allowed {
		o.addViolation(fmt.Sprintf("Invalid transition from '%s' to '%s'", from, to))
	}
}

// OnPhaseEnter marks the phase visited and checks the lamps
func (o *ValidationObserver) OnPhaseEnter(phase crossing.Phase, s crossing.Status) {
	o.mutex.Lock()
	o.visited[phase] = true
	o.mutex.Unlock()

	o.checkLamps(phase.String() + " entry")
}

// OnTick checks the lamps once per second
func (o *ValidationObserver) OnTick(s crossing.Status) {
	o.checkLamps(fmt.Sprintf("%s T=%d", s.Phase, s.Remaining))
}

// OnError records errors as violations
func (o *ValidationObserver) OnError(err error, s crossing.Status) {
	o.addViolation(fmt.Sprintf("Error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedPhases returns phases that have not been entered yet
func (o *ValidationObserver) GetUnvisitedPhases() []crossing.Phase {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return lo.Filter(crossing.Phases, func(p crossing.Phase, _ int) bool {
		return !o.visited[p]
	})
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visited = make(map[crossing.Phase]bool)
	o.violations = make([]string, 0)
}

package crossing

// ApproachState is the vehicle queue latched for one approach while it is stopped
type ApproachState struct {
	approach Approach
	pending  uint
}

// NewApproachState creates an empty queue for a
func NewApproachState(a Approach) *ApproachState {
	return &ApproachState{approach: a}
}

// Approach returns the direction this queue belongs to
func (s *ApproachState) Approach() Approach {
	return s.approach
}

// Pending returns the latched vehicle count
func (s *ApproachState) Pending() uint {
	return s.pending
}

// Press counts one vehicle if the approach is stopped during phase.
// Presses while the approach is green or yellow are discarded.
func (s *ApproachState) Press(phase Phase) bool {
	if !phase.Stopped(s.approach) {
		return false
	}
	s.pending++
	return true
}

// Reset clears the queue once its green has been served and returns the served count
func (s *ApproachState) Reset() uint {
	served := s.pending
	s.pending = 0
	return served
}

package crossing

// PedestrianLatch remembers a crossing request until a walk phase has been served
type PedestrianLatch struct {
	requested bool
}

// Request sets the latch and reports whether it was already set
func (l *PedestrianLatch) Request() (alreadySet bool) {
	alreadySet = l.requested
	l.requested = true
	return alreadySet
}

// Requested reports whether a request is waiting
func (l *PedestrianLatch) Requested() bool {
	return l.requested
}

// Consume clears the latch after a completed walk phase
func (l *PedestrianLatch) Consume() {
	l.requested = false
}

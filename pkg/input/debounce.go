package input

import "time"

// DefaultSettle is how long a contact must stay put before another change counts
const DefaultSettle = 30 * time.Millisecond

// Debouncer tracks one button's accepted level and when it last changed.
// Time is supplied by the caller, so the same state works for any polling cadence.
type Debouncer struct {
	settle    time.Duration
	level     bool
	changedAt time.Duration
	changed   bool
}

// NewDebouncer creates a debouncer that starts released
func NewDebouncer(settle time.Duration) *Debouncer {
	return &Debouncer{settle: settle}
}

// Update feeds one sample taken at now and reports whether it is a new press
func (d *Debouncer) Update(active bool, now time.Duration) bool {
	if active == d.level {
		return false
	}

	// contact bounce after the last accepted change
	if d.changed && now-d.changedAt < d.settle {
		return false
	}

	d.level = active
	d.changedAt = now
	d.changed = true

	return active
}

// Level returns the accepted level
func (d *Debouncer) Level() bool {
	return d.level
}

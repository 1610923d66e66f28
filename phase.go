package crossing

import "github.com/samber/lo"

// Phase is the signal phase currently shown at the intersection
type Phase int

const (
	// NSGreen serves the north-south approach
	NSGreen Phase = iota
	// NSYellow clears the north-south approach
	NSYellow
	// EWGreen serves the east-west approach
	EWGreen
	// EWYellow clears the east-west approach
	EWYellow
	// PedGreen serves the pedestrian crossing with all vehicles stopped
	PedGreen
)

// Phases lists every phase in cycle order
var Phases = []Phase{NSGreen, NSYellow, EWGreen, EWYellow, PedGreen}

func (p Phase) String() string {
	switch p {
	case NSGreen:
		return "NS_GREEN"
	case NSYellow:
		return "NS_YELLOW"
	case EWGreen:
		return "EW_GREEN"
	case EWYellow:
		return "EW_YELLOW"
	case PedGreen:
		return "PED_GREEN"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether p is one of the five phases
func (p Phase) Valid() bool {
	return lo.Contains(Phases, p)
}

// IsGreen reports whether p is a vehicle green
func (p Phase) IsGreen() bool {
	return p == NSGreen || p == EWGreen
}

// IsYellow reports whether p is a vehicle yellow
func (p Phase) IsYellow() bool {
	return p == NSYellow || p == EWYellow
}

// Approach returns the vehicle approach p serves; ok is false for PedGreen
func (p Phase) Approach() (a Approach, ok bool) {
	switch p {
	case NSGreen, NSYellow:
		return NorthSouth, true
	case EWGreen, EWYellow:
		return EastWest, true
	}
	return 0, false
}

// Stopped reports whether approach a faces red during p
func (p Phase) Stopped(a Approach) bool {
	served, ok := p.Approach()
	return !ok || served != a
}

// Approach is one of the two perpendicular vehicle directions
type Approach int

const (
	// NorthSouth is the NS approach
	NorthSouth Approach = iota
	// EastWest is the EW approach
	EastWest
)

// Approaches lists both approaches
var Approaches = []Approach{NorthSouth, EastWest}

func (a Approach) String() string {
	if a == EastWest {
		return "EW"
	}
	return "NS"
}

// Opposite returns the crossing approach
func (a Approach) Opposite() Approach {
	if a == EastWest {
		return NorthSouth
	}
	return EastWest
}

// Green returns the phase serving a
func (a Approach) Green() Phase {
	if a == EastWest {
		return EWGreen
	}
	return NSGreen
}

// Yellow returns the phase clearing a
func (a Approach) Yellow() Phase {
	if a == EastWest {
		return EWYellow
	}
	return NSYellow
}

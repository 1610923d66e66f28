// Package input samples the intersection push buttons and turns them into
// debounced press edges, one controller second at a time.
package input

// Button identifies one of the three momentary inputs
type Button int

const (
	// ButtonNS is the north-south vehicle count request
	ButtonNS Button = iota
	// ButtonEW is the east-west vehicle count request
	ButtonEW
	// ButtonPedestrian is the pedestrian crossing request
	ButtonPedestrian
)

// Buttons lists every input in polling order
var Buttons = []Button{ButtonNS, ButtonEW, ButtonPedestrian}

func (b Button) String() string {
	switch b {
	case ButtonNS:
		return "NS"
	case ButtonEW:
		return "EW"
	case ButtonPedestrian:
		return "PED"
	default:
		return "UNKNOWN"
	}
}

// Levels is one sample of all three inputs
type Levels struct {
	NS  bool
	EW  bool
	Ped bool
}

// Get returns the level of b
func (l Levels) Get(b Button) bool {
	switch b {
	case ButtonNS:
		return l.NS
	case ButtonEW:
		return l.EW
	case ButtonPedestrian:
		return l.Ped
	}
	return false
}

// Invert flips every level, for pull-up wiring where pressed reads low
func (l Levels) Invert() Levels {
	return Levels{NS: !l.NS, EW: !l.EW, Ped: !l.Ped}
}

// InputSource reports the raw level of the buttons
type InputSource interface {
	Read() (Levels, error)
}

// SourceFunc adapts a function to InputSource
type SourceFunc func() (Levels, error)

// Read calls f
func (f SourceFunc) Read() (Levels, error) {
	return f()
}

package crossing

import (
	"fmt"
	"strings"
	"sync"
)

// Lamp is one binary signal output
type Lamp int

// The order within each vehicle head is red, yellow, green
const (
	LampNSRed Lamp = iota
	LampNSYellow
	LampNSGreen
	LampEWRed
	LampEWYellow
	LampEWGreen
	LampPedRed
	LampPedGreen
	lampCount
)

// Lamps lists every output
var Lamps = []Lamp{LampNSRed, LampNSYellow, LampNSGreen, LampEWRed, LampEWYellow, LampEWGreen, LampPedRed, LampPedGreen}

func (l Lamp) String() string {
	switch l {
	case LampNSRed:
		return "NS_RED"
	case LampNSYellow:
		return "NS_YELLOW"
	case LampNSGreen:
		return "NS_GREEN"
	case LampEWRed:
		return "EW_RED"
	case LampEWYellow:
		return "EW_YELLOW"
	case LampEWGreen:
		return "EW_GREEN"
	case LampPedRed:
		return "PED_RED"
	case LampPedGreen:
		return "PED_GREEN"
	default:
		return "UNKNOWN"
	}
}

// SignalOutput drives the physical lamps
type SignalOutput interface {
	SetLamp(lamp Lamp, on bool) error
}

// LampSet holds the asserted state of every lamp. It is itself a SignalOutput,
// which makes it usable as an in-memory output or as a mirror of a real one.
type LampSet struct {
	mutex sync.RWMutex
	on    [lampCount]bool
}

// SetLamp records lamp as on or off
func (s *LampSet) SetLamp(lamp Lamp, on bool) error {
	if lamp < 0 || lamp >= lampCount {
		return fmt.Errorf("unknown lamp %d", lamp)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.on[lamp] = on
	return nil
}

// On reports whether lamp is asserted
func (s *LampSet) On(lamp Lamp) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if lamp < 0 || lamp >= lampCount {
		return false
	}
	return s.on[lamp]
}

// Conflicts lists every safety rule the current lamp state breaks
func (s *LampSet) Conflicts() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var conflicts []string
	state := s.on

	if state[LampNSGreen] && state[LampEWGreen] {
		conflicts = append(conflicts, "both vehicle greens asserted")
	}
	nsMoving := state[LampNSGreen] || state[LampNSYellow]
	ewMoving := state[LampEWGreen] || state[LampEWYellow]
	if nsMoving && ewMoving {
		conflicts = append(conflicts, "both approaches released")
	}
	for _, heads := range [][3]Lamp{{LampNSRed, LampNSYellow, LampNSGreen}, {LampEWRed, LampEWYellow, LampEWGreen}} {
		lit := 0
		for _, l := range heads {
			if state[l] {
				lit++
			}
		}
		if lit > 1 {
			conflicts = append(conflicts, fmt.Sprintf("%s head shows %d colors", headName(heads[0]), lit))
		}
	}
	if state[LampPedGreen] && (nsMoving || ewMoving) {
		conflicts = append(conflicts, "walk asserted with vehicles released")
	}
	if state[LampPedGreen] && state[LampPedRed] {
		conflicts = append(conflicts, "pedestrian head shows 2 colors")
	}

	return conflicts
}

func (s *LampSet) String() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var lit []string
	for _, l := range Lamps {
		if s.on[l] {
			lit = append(lit, l.String())
		}
	}
	return "[" + strings.Join(lit, " ") + "]"
}

// lampDriver writes lamp sequences that never pass through a conflicting state
type lampDriver struct {
	out SignalOutput
}

func (d lampDriver) write(writes ...lampWrite) error {
	for _, w := range writes {
		if err := d.out.SetLamp(w.lamp, w.on); err != nil {
			return fmt.Errorf("set %s=%t: %w", w.lamp, w.on, err)
		}
	}
	return nil
}

type lampWrite struct {
	lamp Lamp
	on   bool
}

func off(l Lamp) lampWrite { return lampWrite{lamp: l, on: false} }
func on(l Lamp) lampWrite  { return lampWrite{lamp: l, on: true} }

// allVehicleRed drops every release before lighting the reds
func (d lampDriver) allVehicleRed() error {
	return d.write(
		off(LampNSGreen), off(LampNSYellow), off(LampEWGreen), off(LampEWYellow),
		on(LampNSRed), on(LampEWRed),
	)
}

// release shows green or yellow on a, starting from all red
func (d lampDriver) release(a Approach, yellow bool) error {
	if err := d.allVehicleRed(); err != nil {
		return err
	}
	red, lamp := LampNSRed, LampNSGreen // yellow sits just below green in each head
	if a == EastWest {
		red, lamp = LampEWRed, LampEWGreen
	}
	if yellow {
		lamp--
	}
	return d.write(off(red), on(lamp))
}

func (d lampDriver) walk() error {
	if err := d.allVehicleRed(); err != nil {
		return err
	}
	return d.write(off(LampPedRed), on(LampPedGreen))
}

func (d lampDriver) dontWalk() error {
	if err := d.allVehicleRed(); err != nil {
		return err
	}
	return d.write(off(LampPedGreen), on(LampPedRed))
}

func headName(red Lamp) string {
	if red == LampEWRed {
		return "EW"
	}
	return "NS"
}

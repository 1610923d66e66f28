// Package console adapts a terminal to the controller's buttons and lamps
package console

import (
	"bufio"
	"io"
	"sync"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossing/pkg/input"
)

var log = logrus.WithField("module", "console")

// DefaultHold is the number of reads a simulated press stays active, and then
// inactive, so the debouncer sees a clean edge at 20 ms sampling
const DefaultHold = 3

// Keys maps typed characters to buttons
var Keys = map[rune]input.Button{
	'n': input.ButtonNS,
	'e': input.ButtonEW,
	'p': input.ButtonPedestrian,
}

// KeyboardSource turns typed lines into button levels. Every mapped character
// is one press; presses are replayed as held pulses across successive reads.
type KeyboardSource struct {
	mutex   sync.Mutex
	hold    int
	queued  map[input.Button]int
	pulse   map[input.Button]int // reads left in the current pulse, high for the first hold
	pressed chan input.Button
}

// NewKeyboardSource starts reading r in the background until EOF
func NewKeyboardSource(r io.Reader, hold int) *KeyboardSource {
	if hold <= 0 {
		hold = DefaultHold
	}
	s := &KeyboardSource{
		hold:    hold,
		queued:  make(map[input.Button]int),
		pulse:   make(map[input.Button]int),
		pressed: make(chan input.Button, 64),
	}
	go s.scan(r)
	return s
}

func (s *KeyboardSource) scan(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, ch := range scanner.Text() {
			b, ok := Keys[unicode.ToLower(ch)]
			if !ok {
				continue
			}
			select {
			case s.pressed <- b:
			default:
				log.WithField("button", b.String()).Warn("press dropped, queue full")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Error("keyboard read failed")
	}
	log.Debug("keyboard closed")
}

// Press queues one press directly
func (s *KeyboardSource) Press(b input.Button) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.queued[b]++
}

// Read implements input.InputSource
func (s *KeyboardSource) Read() (input.Levels, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for drained := false; !drained; {
		select {
		case b := <-s.pressed:
			s.queued[b]++
		default:
			drained = true
		}
	}

	var levels input.Levels
	for _, b := range input.Buttons {
		if s.pulse[b] == 0 && s.queued[b] > 0 {
			s.queued[b]--
			s.pulse[b] = 2 * s.hold
		}
		if s.pulse[b] == 0 {
			continue
		}
		high := s.pulse[b] > s.hold
		s.pulse[b]--
		switch b {
		case input.ButtonNS:
			levels.NS = high
		case input.ButtonEW:
			levels.EW = high
		case input.ButtonPedestrian:
			levels.Ped = high
		}
	}
	return levels, nil
}

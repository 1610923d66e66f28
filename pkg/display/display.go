// Package display renders controller status onto a two-line text panel
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultWidth matches a 16x2 character LCD
const DefaultWidth = 16

// Frame is one screenful of the panel
type Frame struct {
	Line1 string
	Line2 string
}

func (f Frame) String() string {
	return f.Line1 + " | " + f.Line2
}

// Sink receives rendered frames
type Sink interface {
	Show(f Frame) error
}

// Presenter formats controller data into frames
type Presenter struct {
	width int
}

// NewPresenter creates a presenter clipping lines to width; zero or less disables clipping
func NewPresenter(width int) *Presenter {
	return &Presenter{width: width}
}

// Green renders a vehicle green countdown, e.g. "NSG 10+10s" / "T=20 EW=3"
func (p *Presenter) Green(approach, other string, base, extra, remaining int, otherCount uint) Frame {
	return Frame{
		Line1: p.clip(fmt.Sprintf("%sG %d+%ds", approach, base, extra)),
		Line2: p.fit(fmt.Sprintf("T=%d", remaining), fmt.Sprintf("%s=%d", other, otherCount)),
	}
}

// Yellow renders a yellow countdown, e.g. "NSY T=3s" / "EW=5"
func (p *Presenter) Yellow(approach, other string, remaining int, otherCount uint) Frame {
	return Frame{
		Line1: p.clip(fmt.Sprintf("%sY T=%ds", approach, remaining)),
		Line2: p.fit(fmt.Sprintf("%s=%d", other, otherCount)),
	}
}

// Walk renders the pedestrian countdown
func (p *Presenter) Walk(remaining int) Frame {
	return p.frame("PEDESTRIAN", fmt.Sprintf("T=%d WALK", remaining))
}

// WalkEnd renders the pedestrian stop notice
func (p *Presenter) WalkEnd() Frame {
	return p.frame("PEDESTRIAN", "STOP")
}

// Counted acknowledges an accepted vehicle press
func (p *Presenter) Counted(approach string, count uint) Frame {
	return Frame{
		Line1: p.clip(fmt.Sprintf("%s RED: Count", approach)),
		Line2: p.fit(fmt.Sprintf("%s=%d", approach, count)),
	}
}

// NotStopped acknowledges a press on an approach that is being served
func (p *Presenter) NotStopped(approach string) Frame {
	return p.frame(fmt.Sprintf("%s not RED", approach), "No count")
}

// PedestrianStored acknowledges a pedestrian request
func (p *Presenter) PedestrianStored() Frame {
	return p.frame("Pedestrian Req", "Stored")
}

// Banner renders the boot screen
func (p *Presenter) Banner(status string) Frame {
	return p.frame("Traffic System", status)
}

func (p *Presenter) frame(line1, line2 string) Frame {
	return Frame{Line1: p.clip(line1), Line2: p.clip(line2)}
}

func (p *Presenter) clip(s string) string {
	if p.fits(s) {
		return s
	}
	return s[:p.width]
}

// fit joins "label=value" fields with spaces. Numbers are never cut: when the
// line is too wide, labels are dropped from the last field backwards, and a
// value longer than the panel is shown whole.
func (p *Presenter) fit(fields ...string) string {
	line := strings.Join(fields, " ")
	for i := len(fields) - 1; i >= 0 && !p.fits(line); i-- {
		if eq := strings.IndexByte(fields[i], '='); eq >= 0 {
			fields[i] = fields[i][eq+1:]
			line = strings.Join(fields, " ")
		}
	}
	for len(fields) > 1 && !p.fits(line) {
		fields = fields[1:]
		line = strings.Join(fields, " ")
	}
	return line
}

func (p *Presenter) fits(s string) bool {
	return p.width <= 0 || len(s) <= p.width
}

// WriterSink prints every frame as one line to w
type WriterSink struct {
	mutex sync.Mutex
	w     io.Writer
	last  Frame
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Show writes f
func (s *WriterSink) Show(f Frame) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.last = f
	_, err := fmt.Fprintf(s.w, "[%-16s][%-16s]\n", f.Line1, f.Line2)
	return err
}

// Last returns the most recent frame
func (s *WriterSink) Last() Frame {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.last
}

package console

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossing"
)

// LampPrinter is a SignalOutput that mirrors every write into a LampSet and logs it
type LampPrinter struct {
	lamps *crossing.LampSet
	entry *logrus.Entry
}

// NewLampPrinter creates a printer logging through entry, or the console logger when nil
func NewLampPrinter(entry *logrus.Entry) *LampPrinter {
	if entry == nil {
		entry = log
	}
	return &LampPrinter{lamps: &crossing.LampSet{}, entry: entry}
}

// SetLamp implements crossing.SignalOutput
func (p *LampPrinter) SetLamp(lamp crossing.Lamp, on bool) error {
	if err := p.lamps.SetLamp(lamp, on); err != nil {
		return err
	}
	p.entry.WithFields(logrus.Fields{
		"lamp": lamp.String(),
		"on":   on,
	}).Trace("lamp")
	return nil
}

// Lamps returns the mirrored lamp state
func (p *LampPrinter) Lamps() *crossing.LampSet {
	return p.lamps
}

// Heads renders the three signal heads, e.g. "NS:G EW:R PED:DONT WALK"
func (p *LampPrinter) Heads() string {
	return fmt.Sprintf("NS:%s EW:%s PED:%s",
		p.head(crossing.LampNSRed, crossing.LampNSYellow, crossing.LampNSGreen),
		p.head(crossing.LampEWRed, crossing.LampEWYellow, crossing.LampEWGreen),
		p.walk())
}

func (p *LampPrinter) head(red, yellow, green crossing.Lamp) string {
	out := ""
	if p.lamps.On(red) {
		out += "R"
	}
	if p.lamps.On(yellow) {
		out += "Y"
	}
	if p.lamps.On(green) {
		out += "G"
	}
	if out == "" {
		return "-"
	}
	return out
}

func (p *LampPrinter) walk() string {
	switch {
	case p.lamps.On(crossing.LampPedGreen) && p.lamps.On(crossing.LampPedRed):
		return "WALK+DONT WALK"
	case p.lamps.On(crossing.LampPedGreen):
		return "WALK"
	case p.lamps.On(crossing.LampPedRed):
		return "DONT WALK"
	}
	return "-"
}

// HeadsObserver logs the signal heads each time a phase is entered
type HeadsObserver struct {
	crossing.BaseObserver
	printer *LampPrinter
}

// NewHeadsObserver creates an observer reporting printer's heads
func NewHeadsObserver(printer *LampPrinter) *HeadsObserver {
	return &HeadsObserver{printer: printer}
}

// OnPhaseEnter logs the heads after the phase's lamps are set
func (o *HeadsObserver) OnPhaseEnter(phase crossing.Phase, s crossing.Status) {
	o.printer.entry.WithField("phase", phase.String()).Info(o.printer.Heads())
}

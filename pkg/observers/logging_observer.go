// Package observers provides observers for monitoring the intersection controller
package observers

import (
	"github.com/sirupsen/logrus"

	"github.com/anggasct/crossing"
)

var log = logrus.WithField("module", "controller")

// LoggingObserver logs controller events as structured logrus entries
type LoggingObserver struct {
	entry *logrus.Entry
}

// NewLoggingObserver creates a logging observer writing through entry
func NewLoggingObserver(entry *logrus.Entry) *LoggingObserver {
	if entry == nil {
		entry = log
	}
	return &LoggingObserver{entry: entry}
}

// NewDefaultLoggingObserver logs through the standard logger under module=controller
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(log)
}

func (o *LoggingObserver) with(s crossing.Status) *logrus.Entry {
	return o.entry.WithFields(logrus.Fields{
		"controller": s.ID,
		"phase":      s.Phase.String(),
	})
}

// OnTransition logs transitions
func (o *LoggingObserver) OnTransition(from crossing.Phase, to crossing.Phase, s crossing.Status) {
	o.with(s).WithField("from", from.String()).Infof("%s -> %s", from, to)
}

// OnPhaseEnter logs phase entry with the frozen green allocation
func (o *LoggingObserver) OnPhaseEnter(phase crossing.Phase, s crossing.Status) {
	entry := o.with(s)
	if phase.IsGreen() {
		a, _ := phase.Approach()
		entry = entry.WithFields(logrus.Fields{
			"approach": a.String(),
			"count":    s.Pending(a),
			"base":     s.Allocation.Base,
			"extra":    s.Allocation.Extra,
		})
	}
	entry.Debug("phase entered")
}

// OnPhaseExit logs phase completion
func (o *LoggingObserver) OnPhaseExit(phase crossing.Phase, s crossing.Status) {
	o.with(s).Debug("phase complete")
}

// OnTick logs each countdown second
func (o *LoggingObserver) OnTick(s crossing.Status) {
	o.with(s).WithFields(logrus.Fields{
		"remaining": s.Remaining,
		"ns":        s.NS,
		"ew":        s.EW,
	}).Trace("tick")
}

// OnVehicleCounted logs an accepted vehicle press
func (o *LoggingObserver) OnVehicleCounted(a crossing.Approach, s crossing.Status) {
	o.with(s).WithFields(logrus.Fields{
		"approach": a.String(),
		"count":    s.Pending(a),
	}).Info("vehicle counted")
}

// OnVehicleRejected logs a press on an approach that is being served
func (o *LoggingObserver) OnVehicleRejected(a crossing.Approach, s crossing.Status) {
	o.with(s).WithField("approach", a.String()).Debug("vehicle press ignored, approach not red")
}

// OnPedestrianRequest logs pedestrian presses
func (o *LoggingObserver) OnPedestrianRequest(alreadyLatched bool, s crossing.Status) {
	entry := o.with(s).WithField("latched", alreadyLatched)
	if alreadyLatched {
		entry.Debug("pedestrian request repeated")
		return
	}
	entry.Info("pedestrian request stored")
}

// OnPedestrianServed logs the end of a walk phase
func (o *LoggingObserver) OnPedestrianServed(s crossing.Status) {
	o.with(s).Info("pedestrian crossing served")
}

// OnQueueServed logs a cleared vehicle queue
func (o *LoggingObserver) OnQueueServed(a crossing.Approach, served uint, s crossing.Status) {
	o.with(s).WithFields(logrus.Fields{
		"approach": a.String(),
		"count":    served,
	}).Info("queue served")
}

// OnError logs errors
func (o *LoggingObserver) OnError(err error, s crossing.Status) {
	o.with(s).WithError(err).Error("controller error")
}

// OnControllerStarted logs startup
func (o *LoggingObserver) OnControllerStarted(s crossing.Status) {
	o.with(s).Info("controller started")
}

// OnControllerStopped logs shutdown
func (o *LoggingObserver) OnControllerStopped(s crossing.Status) {
	o.with(s).WithField("steps", s.Steps).Info("controller stopped")
}

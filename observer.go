package crossing

import (
	"fmt"
	"sync"
)

// Observer represents an entity that observes the controller
type Observer interface {
	// Required methods

	// OnTransition is called when the controller moves to the next phase
	OnTransition(from Phase, to Phase, s Status)

	// OnPhaseEnter is called after a phase's lamps are set
	OnPhaseEnter(phase Phase, s Status)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnPhaseExit is called when a phase's countdown has completed
	OnPhaseExit(phase Phase, s Status)

	// OnTick is called once per countdown second, before the clock advances
	OnTick(s Status)

	// OnVehicleCounted is called when a press on a stopped approach is counted
	OnVehicleCounted(a Approach, s Status)

	// OnVehicleRejected is called when a press arrives while a is being served
	OnVehicleRejected(a Approach, s Status)

	// OnPedestrianRequest is called for every pedestrian press
	OnPedestrianRequest(alreadyLatched bool, s Status)

	// OnPedestrianServed is called after a walk phase clears the latch
	OnPedestrianServed(s Status)

	// OnQueueServed is called when a green ends and its queue is reset
	OnQueueServed(a Approach, served uint, s Status)

	// OnError is called when the controller hits a boundary failure
	OnError(err error, s Status)

	// OnControllerStarted is called after Start
	OnControllerStarted(s Status)

	// OnControllerStopped is called after Stop
	OnControllerStopped(s Status)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

func (o *BaseObserver) OnTransition(from Phase, to Phase, s Status)       {}
func (o *BaseObserver) OnPhaseEnter(phase Phase, s Status)                {}
func (o *BaseObserver) OnPhaseExit(phase Phase, s Status)                 {}
func (o *BaseObserver) OnTick(s Status)                                   {}
func (o *BaseObserver) OnVehicleCounted(a Approach, s Status)             {}
func (o *BaseObserver) OnVehicleRejected(a Approach, s Status)            {}
func (o *BaseObserver) OnPedestrianRequest(alreadyLatched bool, s Status) {}
func (o *BaseObserver) OnPedestrianServed(s Status)                       {}
func (o *BaseObserver) OnQueueServed(a Approach, served uint, s Status)   {}
func (o *BaseObserver) OnError(err error, s Status)                       {}
func (o *BaseObserver) OnControllerStarted(s Status)                      {}
func (o *BaseObserver) OnControllerStopped(s Status)                      {}

// ObserverManager manages a collection of observers
type ObserverManager struct {
	mutex     sync.RWMutex
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

func (om *ObserverManager) snapshot() []Observer {
	om.mutex.RLock()
	defer om.mutex.RUnlock()
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)
	return observers
}

// notify calls fn on every observer. A panicking observer is reported through
// OnError and does not stop the others.
func (om *ObserverManager) notify(method string, s Status, fn func(Observer)) {
	for _, observer := range om.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { _ = recover() }()
							extObs.OnError(fmt.Errorf("observer panic in %s: %v", method, r), s)
						}()
					}
				}
			}()
			fn(observer)
		}()
	}
}

func (om *ObserverManager) notifyExtended(method string, s Status, fn func(ExtendedObserver)) {
	om.notify(method, s, func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			fn(extObs)
		}
	})
}

// NotifyTransition notifies all observers of a phase change
func (om *ObserverManager) NotifyTransition(from, to Phase, s Status) {
	om.notify("OnTransition", s, func(o Observer) { o.OnTransition(from, to, s) })
}

// NotifyPhaseEnter notifies all observers of phase entry
func (om *ObserverManager) NotifyPhaseEnter(phase Phase, s Status) {
	om.notify("OnPhaseEnter", s, func(o Observer) { o.OnPhaseEnter(phase, s) })
}

// NotifyPhaseExit notifies all observers of phase completion
func (om *ObserverManager) NotifyPhaseExit(phase Phase, s Status) {
	om.notifyExtended("OnPhaseExit", s, func(o ExtendedObserver) { o.OnPhaseExit(phase, s) })
}

// NotifyTick notifies all observers of a countdown second
func (om *ObserverManager) NotifyTick(s Status) {
	om.notifyExtended("OnTick", s, func(o ExtendedObserver) { o.OnTick(s) })
}

// NotifyVehicleCounted notifies all observers of a counted press
func (om *ObserverManager) NotifyVehicleCounted(a Approach, s Status) {
	om.notifyExtended("OnVehicleCounted", s, func(o ExtendedObserver) { o.OnVehicleCounted(a, s) })
}

// NotifyVehicleRejected notifies all observers of a discarded press
func (om *ObserverManager) NotifyVehicleRejected(a Approach, s Status) {
	om.notifyExtended("OnVehicleRejected", s, func(o ExtendedObserver) { o.OnVehicleRejected(a, s) })
}

// NotifyPedestrianRequest notifies all observers of a pedestrian press
func (om *ObserverManager) NotifyPedestrianRequest(alreadyLatched bool, s Status) {
	om.notifyExtended("OnPedestrianRequest", s, func(o ExtendedObserver) { o.OnPedestrianRequest(alreadyLatched, s) })
}

// NotifyPedestrianServed notifies all observers that the latch was consumed
func (om *ObserverManager) NotifyPedestrianServed(s Status) {
	om.notifyExtended("OnPedestrianServed", s, func(o ExtendedObserver) { o.OnPedestrianServed(s) })
}

// NotifyQueueServed notifies all observers that a queue was reset
func (om *ObserverManager) NotifyQueueServed(a Approach, served uint, s Status) {
	om.notifyExtended("OnQueueServed", s, func(o ExtendedObserver) { o.OnQueueServed(a, served, s) })
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(err error, s Status) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { _ = recover() }()
				extObs.OnError(err, s)
			}()
		}
	}
}

// NotifyControllerStarted notifies all observers that the controller has started
func (om *ObserverManager) NotifyControllerStarted(s Status) {
	om.notifyExtended("OnControllerStarted", s, func(o ExtendedObserver) { o.OnControllerStarted(s) })
}

// NotifyControllerStopped notifies all observers that the controller has stopped
func (om *ObserverManager) NotifyControllerStopped(s Status) {
	om.notifyExtended("OnControllerStopped", s, func(o ExtendedObserver) { o.OnControllerStopped(s) })
}

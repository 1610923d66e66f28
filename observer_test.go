package crossing

import (
	"sync"
	"testing"

	"github.com/anggasct/crossing/pkg/input"
)

func TestObserver_BasicInterface(t *testing.T) {
	observer := NewTestObserver()

	var _ Observer = observer

	var _ ExtendedObserver = observer

	var _ ExtendedObserver = &BaseObserver{}
}

func TestObserver_Transitions(t *testing.T) {
	rig := StartedRig(t)
	rig.Observer.Reset()

	rig.Controller.Step()

	if rig.Observer.TransitionCount() != 1 {
		t.Fatalf("Expected 1 transition, got %d", rig.Observer.TransitionCount())
	}
	last := rig.Observer.LastTransition()
	if last.From != NSGreen || last.To != NSYellow {
		t.Errorf("Expected NS_GREEN -> NS_YELLOW, got %s -> %s", last.From, last.To)
	}
	if last.Status.Phase != NSYellow {
		t.Errorf("Expected status to show the new phase, got %s", last.Status.Phase)
	}
	if len(rig.Observer.PhaseExits) != 1 || rig.Observer.PhaseExits[0].Phase != NSGreen {
		t.Errorf("Expected NS_GREEN exit, got %v", rig.Observer.PhaseExits)
	}
	if len(rig.Observer.Ticks) != 10 {
		t.Errorf("Expected 10 ticks, got %d", len(rig.Observer.Ticks))
	}
	if rig.Observer.Ticks[0].Remaining != 10 || rig.Observer.Ticks[9].Remaining != 1 {
		t.Errorf("Expected countdown from 10 to 1, got %d..%d",
			rig.Observer.Ticks[0].Remaining, rig.Observer.Ticks[9].Remaining)
	}
	if len(rig.Observer.QueuesServed) != 1 || rig.Observer.QueuesServed[0].Approach != NorthSouth {
		t.Errorf("Expected NS queue to be served, got %v", rig.Observer.QueuesServed)
	}
}

func TestObserver_Presses(t *testing.T) {
	rig := StartedRig(t)
	rig.Clock.PressAt(3, input.ButtonEW, input.ButtonNS, input.ButtonPedestrian)
	rig.Controller.Step()

	if len(rig.Observer.Counted) != 1 || rig.Observer.Counted[0].Approach != EastWest {
		t.Errorf("Expected EW press to be counted, got %v", rig.Observer.Counted)
	}
	if rig.Observer.Counted[0].Status.EW != 1 {
		t.Errorf("Expected status to carry the new count, got %d", rig.Observer.Counted[0].Status.EW)
	}
	if len(rig.Observer.Rejected) != 1 || rig.Observer.Rejected[0].Approach != NorthSouth {
		t.Errorf("Expected NS press to be rejected, got %v", rig.Observer.Rejected)
	}
	if len(rig.Observer.PedRequests) != 1 || rig.Observer.PedRequests[0] {
		t.Errorf("Expected one fresh pedestrian request, got %v", rig.Observer.PedRequests)
	}
}

func TestObserverManager_AddRemove(t *testing.T) {
	om := NewObserverManager()
	first := NewTestObserver()
	second := NewTestObserver()

	om.AddObserver(first)
	om.AddObserver(second)
	om.NotifyPhaseEnter(EWGreen, Status{Phase: EWGreen})

	om.RemoveObserver(first)
	om.NotifyPhaseEnter(EWYellow, Status{Phase: EWYellow})

	if len(first.PhaseEnters) != 1 {
		t.Errorf("Expected removed observer to see 1 event, got %d", len(first.PhaseEnters))
	}
	if len(second.PhaseEnters) != 2 {
		t.Errorf("Expected remaining observer to see 2 events, got %d", len(second.PhaseEnters))
	}
}

type basicObserver struct {
	transitions int
}

func (o *basicObserver) OnTransition(from Phase, to Phase, s Status) { o.transitions++ }
func (o *basicObserver) OnPhaseEnter(phase Phase, s Status)          {}

func TestObserverManager_BasicObserverSkipsExtended(t *testing.T) {
	om := NewObserverManager()
	basic := &basicObserver{}
	om.AddObserver(basic)

	om.NotifyTick(Status{})
	om.NotifyVehicleCounted(NorthSouth, Status{})
	om.NotifyError(ErrTestIO, Status{})
	om.NotifyTransition(NSGreen, NSYellow, Status{})

	if basic.transitions != 1 {
		t.Errorf("Expected 1 transition, got %d", basic.transitions)
	}
}

func TestObserverManager_Concurrent(t *testing.T) {
	om := NewObserverManager()
	observer := NewTestObserver()
	om.AddObserver(observer)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			extra := NewTestObserver()
			om.AddObserver(extra)
			om.NotifyTick(Status{})
			om.RemoveObserver(extra)
		}()
	}
	wg.Wait()

	if len(observer.Ticks) != 10 {
		t.Errorf("Expected 10 ticks, got %d", len(observer.Ticks))
	}
}

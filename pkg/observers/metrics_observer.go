package observers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/anggasct/crossing"
)

const namespace = "crossing"

// Press outcomes used as the "result" label
const (
	PressCounted  = "counted"
	PressRejected = "rejected"
	PressStored   = "stored"
	PressRepeated = "repeated"
)

// MetricsObserver exports controller activity as prometheus collectors
type MetricsObserver struct {
	phases      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	presses     *prometheus.CounterVec
	served      *prometheus.CounterVec
	pedestrians prometheus.Counter
	errors      prometheus.Counter
	pending     *prometheus.GaugeVec
	current     prometheus.Gauge
	green       *prometheus.HistogramVec
}

// NewMetricsObserver registers the collectors with reg, labelled with the controller ID
func NewMetricsObserver(reg prometheus.Registerer, controllerID string) *MetricsObserver {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"controller": controllerID}

	return &MetricsObserver{
		phases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "phases_total",
			Help:        "Phases entered, by phase.",
			ConstLabels: labels,
		}, []string{"phase"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "transitions_total",
			Help:        "Phase transitions taken.",
			ConstLabels: labels,
		}, []string{"from", "to"}),
		presses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "presses_total",
			Help:        "Debounced button presses, by button and outcome.",
			ConstLabels: labels,
		}, []string{"button", "result"}),
		served: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "vehicles_served_total",
			Help:        "Vehicles released by completed greens.",
			ConstLabels: labels,
		}, []string{"approach"}),
		pedestrians: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "pedestrian_phases_total",
			Help:        "Completed walk phases.",
			ConstLabels: labels,
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "errors_total",
			Help:        "Boundary failures reported by the controller.",
			ConstLabels: labels,
		}),
		pending: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "pending_vehicles",
			Help:        "Vehicles latched while the approach is red.",
			ConstLabels: labels,
		}, []string{"approach"}),
		current: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "current_phase",
			Help:        "Index of the current phase.",
			ConstLabels: labels,
		}),
		green: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "green_seconds",
			Help:        "Green time allocated at entry.",
			Buckets:     []float64{10, 20, 30, 40},
			ConstLabels: labels,
		}, []string{"approach"}),
	}
}

func (o *MetricsObserver) setPending(s crossing.Status) {
	for _, a := range crossing.Approaches {
		o.pending.WithLabelValues(a.String()).Set(float64(s.Pending(a)))
	}
}

// OnTransition records transition metrics
func (o *MetricsObserver) OnTransition(from crossing.Phase, to crossing.Phase, s crossing.Status) {
	o.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// OnPhaseEnter records phase entry metrics
func (o *MetricsObserver) OnPhaseEnter(phase crossing.Phase, s crossing.Status) {
	o.phases.WithLabelValues(phase.String()).Inc()
	o.current.Set(float64(phase))
	if a, ok := phase.Approach(); ok && phase.IsGreen() {
		o.green.WithLabelValues(a.String()).Observe(float64(s.Allocation.Total()))
	}
}

func (o *MetricsObserver) OnPhaseExit(phase crossing.Phase, s crossing.Status) {}

func (o *MetricsObserver) OnTick(s crossing.Status) {}

// OnVehicleCounted records an accepted press
func (o *MetricsObserver) OnVehicleCounted(a crossing.Approach, s crossing.Status) {
	o.presses.WithLabelValues(a.String(), PressCounted).Inc()
	o.setPending(s)
}

// OnVehicleRejected records a discarded press
func (o *MetricsObserver) OnVehicleRejected(a crossing.Approach, s crossing.Status) {
	o.presses.WithLabelValues(a.String(), PressRejected).Inc()
}

// OnPedestrianRequest records a pedestrian press
func (o *MetricsObserver) OnPedestrianRequest(alreadyLatched bool, s crossing.Status) {
	result := PressStored
	if alreadyLatched {
		result = PressRepeated
	}
	o.presses.WithLabelValues(crossing.ButtonPedestrian.String(), result).Inc()
}

// OnPedestrianServed records a completed walk
func (o *MetricsObserver) OnPedestrianServed(s crossing.Status) {
	o.pedestrians.Inc()
}

// OnQueueServed records released vehicles
func (o *MetricsObserver) OnQueueServed(a crossing.Approach, served uint, s crossing.Status) {
	o.served.WithLabelValues(a.String()).Add(float64(served))
	o.setPending(s)
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error, s crossing.Status) {
	o.errors.Inc()
}

func (o *MetricsObserver) OnControllerStarted(s crossing.Status) {
	o.setPending(s)
}

func (o *MetricsObserver) OnControllerStopped(s crossing.Status) {}

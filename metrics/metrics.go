// Package metrics records the work of a showerplot run as Prometheus metrics,
// written out in the node exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tonnysoyyo/showerplot/muon"
)

// Recorder collects the metrics of one run on its own registry.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	eventsRead    *prometheus.CounterVec
	particlesRead *prometheus.CounterVec
	passDuration  *prometheus.GaugeVec

	muons            prometheus.Gauge
	muonEnergy       prometheus.Gauge
	histogramEntries *prometheus.GaugeVec
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry registers the metrics on registry instead of a new one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// NewRecorder creates a Recorder. Metrics are named showerplot_* unless
// WithNamespace says otherwise.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "showerplot",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(r.registry)
	r.eventsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "events_read_total",
		Help:      "Number of shower events read, by pass",
	}, []string{"pass"})

	r.particlesRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "particles_read_total",
		Help:      "Number of particles read, by pass",
	}, []string{"pass"})

	r.passDuration = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "pass_duration_seconds",
		Help:      "Wall time of the last pass over the input, by pass",
	}, []string{"pass"})

	r.muons = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "muons",
		Help:      "Number of muons and antimuons in the input",
	})

	r.muonEnergy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "muon_energy_gev",
		Help:      "Total kinetic energy of the muons in GeV",
	})

	r.histogramEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "histogram_entries",
		Help:      "Number of entries of each output histogram",
	}, []string{"histogram"})

	return r
}

// ObservePass implements muon.PassObserver.
func (r *Recorder) ObservePass(pass string, events, particles int, elapsed time.Duration) {
	r.eventsRead.WithLabelValues(pass).Add(float64(events))
	r.particlesRead.WithLabelValues(pass).Add(float64(particles))
	r.passDuration.WithLabelValues(pass).Set(elapsed.Seconds())
}

// RecordSummary sets the result gauges from s.
func (r *Recorder) RecordSummary(s muon.Summary) {
	r.muons.Set(float64(s.MuonCount))
	r.muonEnergy.Set(s.MuonEnergySum)
	r.histogramEntries.WithLabelValues(muon.EnergyHistName).Set(float64(s.EnergyEntries))
	r.histogramEntries.WithLabelValues(muon.PositionHistName).Set(float64(s.PositionEntries))
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes every metric to path, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var _ muon.PassObserver = (*Recorder)(nil)

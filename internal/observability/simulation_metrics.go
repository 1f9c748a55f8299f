package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SimulationCollector exposes simulation-engine Prometheus metrics. It
// implements the engine's Recorder interface and the strategy layer's
// Dijkstra timer, so both feed metrics without importing this package.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	SimulationsStarted *prometheus.CounterVec
	SimulationDuration *prometheus.HistogramVec
	StepDuration       prometheus.Histogram
	DijkstraDuration   prometheus.Histogram
	RegisteredSims     prometheus.Gauge
}

// NewSimulationCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	started := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulations_started_total",
		Help: "Cumulative number of simulations started, labeled by containment strategy.",
	}, []string{"strategy"})
	started, err := registerCounterVec(reg, started, "simulations_started_total")
	if err != nil {
		return nil, err
	}

	simDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Wall-clock duration of complete simulation runs, labeled by containment strategy.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"strategy"})
	simDuration, err = registerHistogramVec(reg, simDuration, "simulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	stepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_step_duration_seconds",
		Help:    "Duration of single simulation ticks.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
	stepDuration, err = registerHistogram(reg, stepDuration, "simulation_step_duration_seconds")
	if err != nil {
		return nil, err
	}

	dijkstra := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dijkstra_duration_seconds",
		Help:    "Duration of uncached one-to-all shortest-path computations.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	dijkstra, err = registerHistogram(reg, dijkstra, "dijkstra_duration_seconds")
	if err != nil {
		return nil, err
	}

	registered := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulations_registered",
		Help: "Current number of simulation instances held in the registry.",
	})
	registered, err = registerGauge(reg, registered, "simulations_registered")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:           gatherer,
		SimulationsStarted: started,
		SimulationDuration: simDuration,
		StepDuration:       stepDuration,
		DijkstraDuration:   dijkstra,
		RegisteredSims:     registered,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SimulationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// SimulationStarted counts a new run of the named strategy.
func (c *SimulationCollector) SimulationStarted(strategyName string) {
	if c == nil || c.SimulationsStarted == nil {
		return
	}
	c.SimulationsStarted.WithLabelValues(strategyName).Inc()
}

// ObserveSimulationDuration records a complete run's wall-clock duration.
func (c *SimulationCollector) ObserveSimulationDuration(strategyName string, d time.Duration) {
	if c == nil || c.SimulationDuration == nil {
		return
	}
	c.SimulationDuration.WithLabelValues(strategyName).Observe(d.Seconds())
}

// ObserveStepDuration records a single tick duration measurement.
func (c *SimulationCollector) ObserveStepDuration(d time.Duration) {
	if c == nil || c.StepDuration == nil {
		return
	}
	c.StepDuration.Observe(d.Seconds())
}

// ObserveDijkstraDuration records an uncached shortest-path run duration.
func (c *SimulationCollector) ObserveDijkstraDuration(d time.Duration) {
	if c == nil || c.DijkstraDuration == nil {
		return
	}
	c.DijkstraDuration.Observe(d.Seconds())
}

// SetRegisteredSimulations updates the registry depth gauge.
func (c *SimulationCollector) SetRegisteredSimulations(count int) {
	if c == nil || c.RegisteredSims == nil {
		return
	}
	c.RegisteredSims.Set(float64(count))
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

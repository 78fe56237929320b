package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cycle outcomes recorded by RecordWorkerCycle.
const (
	OutcomeSubmitted = "submitted"
	OutcomeClosed    = "closed"
	OutcomeError     = "error"
)

var (
	registerOnce sync.Once

	workerCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chainctl",
			Subsystem: "worker",
			Name:      "cycles_total",
			Help:      "Worker poll cycles by outcome.",
		},
		[]string{"worker", "outcome"},
	)
	workerCompute = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chainctl",
			Subsystem: "worker",
			Name:      "compute_duration_seconds",
			Help:      "Time spent folding one work unit.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"worker"},
	)
	workerSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chainctl",
			Subsystem: "worker",
			Name:      "steps_applied_total",
			Help:      "Chain steps applied, counting every iteration.",
		},
		[]string{"worker"},
	)
	workersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chainctl",
			Subsystem: "worker",
			Name:      "active",
			Help:      "Workers currently running.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(workerCycles, workerCompute, workerSteps, workersActive)
	})
}

func RecordWorkerCycle(worker, outcome string) {
	RegisterMetrics()
	workerCycles.WithLabelValues(worker, outcome).Inc()
}

func RecordWorkerCompute(worker string, steps uint64, duration time.Duration) {
	RegisterMetrics()
	workerSteps.WithLabelValues(worker).Add(float64(steps))
	workerCompute.WithLabelValues(worker).Observe(duration.Seconds())
}

// WorkerStarted bumps the active gauge; call the returned func on exit.
func WorkerStarted() func() {
	RegisterMetrics()
	workersActive.Inc()
	return workersActive.Dec
}

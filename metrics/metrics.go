// Package metrics exposes Prometheus collectors describing dispatch activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

const namespace = "dispatchor"

// Metrics groups dispatcher collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	Submitted     *prometheus.CounterVec
	Rejected      prometheus.Counter
	ForcedWaits   *prometheus.CounterVec
	Undeliverable *prometheus.CounterVec
	Admitted      *prometheus.CounterVec
	Completed     *prometheus.CounterVec
	Waiting       *prometheus.HistogramVec
	Turnaround    *prometheus.HistogramVec
	Available     *prometheus.GaugeVec
}

// New creates collectors and registers them with reg. A nil registerer
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	ret := &Metrics{
		Submitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "requests_submitted_total", Help: "Requests accepted at intake"},
			[]string{"service"},
		),
		Rejected: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "requests_rejected_total", Help: "Requests rejected for invalid routing"},
		),
		ForcedWaits: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "forced_waits_total", Help: "Admission retries caused by missing capacity"},
			[]string{"service"},
		),
		Undeliverable: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "requests_undeliverable_total", Help: "Requests whose demand exceeds every worker capacity"},
			[]string{"service"},
		),
		Admitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "requests_admitted_total", Help: "Requests admitted to a worker"},
			[]string{"service", "worker"},
		),
		Completed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "requests_completed_total", Help: "Requests that finished execution"},
			[]string{"service", "worker"},
		),
		Waiting: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "waiting_seconds", Help: "Time between arrival and start", Buckets: prometheus.ExponentialBuckets(0.001, 4, 10)},
			[]string{"service"},
		),
		Turnaround: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "turnaround_seconds", Help: "Time between arrival and finish", Buckets: prometheus.ExponentialBuckets(0.001, 4, 10)},
			[]string{"service"},
		),
		Available: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "worker_available_capacity", Help: "Currently available worker capacity"},
			[]string{"service", "worker"},
		),
	}
	if reg == nil {
		return ret, nil
	}
	var errs error
	for _, collector := range ret.Collectors() {
		errs = multierr.Append(errs, reg.Register(collector))
	}
	if errs != nil {
		return nil, errs
	}
	return ret, nil
}

// Collectors returns all collectors
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Submitted, m.Rejected, m.ForcedWaits, m.Undeliverable,
		m.Admitted, m.Completed, m.Waiting, m.Turnaround, m.Available,
	}
}

// RecordSubmitted counts an accepted request
func (m *Metrics) RecordSubmitted(serviceID int) {
	if m == nil {
		return
	}
	m.Submitted.WithLabelValues(label(serviceID)).Inc()
}

// RecordRejected counts a routing rejection
func (m *Metrics) RecordRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

// RecordForcedWait counts an admission retry
func (m *Metrics) RecordForcedWait(serviceID int) {
	if m == nil {
		return
	}
	m.ForcedWaits.WithLabelValues(label(serviceID)).Inc()
}

// RecordUndeliverable counts a request failed for undeliverable demand
func (m *Metrics) RecordUndeliverable(serviceID int) {
	if m == nil {
		return
	}
	m.Undeliverable.WithLabelValues(label(serviceID)).Inc()
}

// RecordAdmitted counts an admission and updates the worker capacity gauge
func (m *Metrics) RecordAdmitted(serviceID, worker, available int) {
	if m == nil {
		return
	}
	m.Admitted.WithLabelValues(label(serviceID), label(worker)).Inc()
	m.SetAvailable(serviceID, worker, available)
}

// RecordCompleted counts a completion and observes its timings
func (m *Metrics) RecordCompleted(serviceID, worker, available int, waiting, turnaround time.Duration) {
	if m == nil {
		return
	}
	service := label(serviceID)
	m.Completed.WithLabelValues(service, label(worker)).Inc()
	m.Waiting.WithLabelValues(service).Observe(waiting.Seconds())
	m.Turnaround.WithLabelValues(service).Observe(turnaround.Seconds())
	m.SetAvailable(serviceID, worker, available)
}

// SetAvailable sets the worker capacity gauge
func (m *Metrics) SetAvailable(serviceID, worker, available int) {
	if m == nil {
		return
	}
	m.Available.WithLabelValues(label(serviceID), label(worker)).Set(float64(available))
}

func label(v int) string {
	return strconv.Itoa(v)
}

package metrics

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/primecalc/internal/parallel"
)

// RunSample is what a finished run contributes to the metrics.
type RunSample struct {
	Mode      string // "primes" or "sum"
	Strategy  string
	Elapsed   float64 // seconds
	Imbalance float64
	Workers   []parallel.WorkerStats
}

// Metrics owns a private registry so tests and embedders never collide
// with the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	failuresTotal  *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	workerDuration *prometheus.HistogramVec
	imbalance      *prometheus.GaugeVec
	elements       *prometheus.CounterVec
	largestPrime   prometheus.Gauge
	heapAlloc      prometheus.Gauge
}

// NewMetrics registers the primecalc collectors plus the Go runtime
// collector on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primecalc_runs_total",
			Help: "Completed runs by mode and strategy.",
		}, []string{"mode", "strategy"}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primecalc_run_failures_total",
			Help: "Runs that returned an error, by mode.",
		}, []string{"mode"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "primecalc_run_duration_seconds",
			Help:    "Wall time of a run.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"mode", "strategy"}),
		workerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "primecalc_worker_duration_seconds",
			Help:    "Wall time of a single worker.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"mode", "strategy"}),
		imbalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "primecalc_load_imbalance_ratio",
			Help: "Slowest worker duration over mean worker duration for the last run.",
		}, []string{"mode", "strategy"}),
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "primecalc_elements_processed_total",
			Help: "Range elements folded by workers.",
		}, []string{"mode"}),
		largestPrime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "primecalc_largest_prime",
			Help: "Largest prime found by the last primes run.",
		}),
		heapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "primecalc_heap_alloc_bytes",
			Help: "Heap bytes in use after the last run.",
		}),
	}
	m.registry.MustRegister(
		m.runsTotal, m.failuresTotal, m.runDuration, m.workerDuration,
		m.imbalance, m.elements, m.largestPrime, m.heapAlloc,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRun records a successful run.
func (m *Metrics) ObserveRun(s RunSample) {
	m.runsTotal.WithLabelValues(s.Mode, s.Strategy).Inc()
	m.runDuration.WithLabelValues(s.Mode, s.Strategy).Observe(s.Elapsed)
	m.imbalance.WithLabelValues(s.Mode, s.Strategy).Set(s.Imbalance)
	worker := m.workerDuration.WithLabelValues(s.Mode, s.Strategy)
	var total uint64
	for _, w := range s.Workers {
		worker.Observe(w.Duration.Seconds())
		total += w.Elements
	}
	m.elements.WithLabelValues(s.Mode).Add(float64(total))
}

// ObserveFailure counts a run that returned an error.
func (m *Metrics) ObserveFailure(mode string) {
	m.failuresTotal.WithLabelValues(mode).Inc()
}

// SetLargestPrime records the largest prime of the last primes run.
func (m *Metrics) SetLargestPrime(p uint64) { m.largestPrime.Set(float64(p)) }

// ObserveMemory records a memory snapshot.
func (m *Metrics) ObserveMemory(s MemorySnapshot) { m.heapAlloc.Set(float64(s.HeapAlloc)) }

// Gather returns every metric family sorted by name.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	return families, nil
}

// WriteText writes every metric family in the Prometheus text format,
// sorted by name.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteTextFile writes the text exposition to path, replacing any
// existing file.
func (m *Metrics) WriteTextFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing metrics file: %w", cerr)
		}
	}()
	return m.WriteText(f)
}

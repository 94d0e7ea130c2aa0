// Package metrics holds the prometheus counters of a Frame Notes process.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultMiss  = "miss"
)

// Metrics groups the counters behind a private registry so that several
// instances can coexist in one process (tests, embedded use).
type Metrics struct {
	Registry *prometheus.Registry

	writes  *prometheus.CounterVec
	reads   *prometheus.CounterVec
	commits prometheus.Counter
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framenotes_store_writes_total",
			Help: "Writes issued to a note store, by store and result.",
		}, []string{"store", "result"}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framenotes_store_reads_total",
			Help: "Reads issued to a note store, by store and result.",
		}, []string{"store", "result"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framenotes_autosave_commits_total",
			Help: "Debounced note commits that reached the store.",
		}),
	}
	m.Registry.MustRegister(m.writes, m.reads, m.commits)
	return m
}

// Write counts one write. A nil receiver is a no-op.
func (m *Metrics) Write(store, result string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(store, result).Inc()
}

// Read counts one read. A nil receiver is a no-op.
func (m *Metrics) Read(store, result string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(store, result).Inc()
}

// Commit counts one autosave commit. A nil receiver is a no-op.
func (m *Metrics) Commit() {
	if m == nil {
		return
	}
	m.commits.Inc()
}

// WriteText dumps every gathered family in the prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	for _, f := range families {
		if _, err := expfmt.MetricFamilyToText(w, f); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot flattens the counters into "name{label=value,...}" keys.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			out[seriesName(f.GetName(), metric.GetLabel())] = metric.GetCounter().GetValue()
		}
	}
	return out, nil
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.GetName() + "=" + l.GetValue()
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

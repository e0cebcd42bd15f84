// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package preprocess

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "scankey"

// Metrics count what preprocessing did. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Scans            prometheus.Counter
	Unsatisfiable    prometheus.Counter
	KeysEliminated   prometheus.Counter
	SkipArrays       prometheus.Counter
	ArraysCollapsed  prometheus.Counter
	AssertionFailure prometheus.Counter
}

// NewMetrics returns unregistered metrics.
func NewMetrics() *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "preprocess",
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		Scans:            counter("scans_total", "Number of scan key lists preprocessed."),
		Unsatisfiable:    counter("unsatisfiable_total", "Number of scans found to be unsatisfiable."),
		KeysEliminated:   counter("keys_eliminated_total", "Number of scan keys proven redundant."),
		SkipArrays:       counter("skip_arrays_total", "Number of skip arrays synthesized."),
		ArraysCollapsed:  counter("arrays_collapsed_total", "Number of single element arrays turned into scalar keys."),
		AssertionFailure: counter("assertion_failures_total", "Number of malformed scan key lists rejected."),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Scans, m.Unsatisfiable, m.KeysEliminated, m.SkipArrays, m.ArraysCollapsed, m.AssertionFailure,
	}
}

// Register registers every metric with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	var err error
	for _, c := range m.collectors() {
		err = errors.CombineErrors(err, reg.Register(c))
	}
	return err
}

func (m *Metrics) record(res *Result, inputKeys, skipArrays, collapsed int) {
	if m == nil {
		return
	}
	m.Scans.Inc()
	if !res.Satisfiable {
		m.Unsatisfiable.Inc()
		return
	}
	m.SkipArrays.Add(float64(skipArrays))
	m.ArraysCollapsed.Add(float64(collapsed))
	if eliminated := inputKeys + skipArrays - len(res.Keys); eliminated > 0 {
		m.KeysEliminated.Add(float64(eliminated))
	}
}

func (m *Metrics) recordError() {
	if m == nil {
		return
	}
	m.Scans.Inc()
	m.AssertionFailure.Inc()
}

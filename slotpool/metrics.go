// Copyright 2024 The slotpool Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotpool

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes batching quality and occupancy as Prometheus
// instruments. It is entirely optional: a Pool constructed with a nil
// Config.Registry never touches this type, so embedding the pool in a
// process with no metrics story costs nothing.
type Metrics struct {
	decommitCalls   prometheus.Counter
	decommitBytes   prometheus.Counter
	decommitBatch   prometheus.Histogram
	cleanSlots      prometheus.Gauge
	dirtyRangeCount prometheus.Gauge
}

// NewMetrics builds and registers a Metrics against reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		decommitCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slotpool_decommit_calls_total",
			Help:      "Number of batched decommit syscalls issued.",
		}),
		decommitBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slotpool_decommit_bytes_total",
			Help:      "Total bytes released via decommit.",
		}),
		decommitBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slotpool_decommit_batch_slots",
			Help:      "Number of slots covered by each decommit call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		cleanSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slotpool_clean_slots",
			Help:      "Slots currently in the clean stack.",
		}),
		dirtyRangeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slotpool_dirty_ranges",
			Help:      "Live dirty ranges awaiting decommit.",
		}),
	}
	reg.MustRegister(m.decommitCalls, m.decommitBytes, m.decommitBatch, m.cleanSlots, m.dirtyRangeCount)
	return m
}

func (m *Metrics) observeDecommit(slots int, bytes int64) {
	if m == nil {
		return
	}
	m.decommitCalls.Inc()
	m.decommitBytes.Add(float64(bytes))
	m.decommitBatch.Observe(float64(slots))
}

func (m *Metrics) setOccupancy(clean, dirtyRanges int) {
	if m == nil {
		return
	}
	m.cleanSlots.Set(float64(clean))
	m.dirtyRangeCount.Set(float64(dirtyRanges))
}

// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is the "Metrics & logging hooks" component from §4: counted
// SDUs, PDUs, discard-timer expiries, and the one-shot threshold crossings.
// It implements prometheus.Collector directly (constant descriptors +
// MustNewConstMetric at Collect time) the way
// runZeroInc-conniver/pkg/exporter/exporter.go's TCPInfoCollector does,
// rather than registering package-global promauto counters — one
// collector instance per entity, labelled by bearer id and direction.
type metrics struct {
	bearerID string
	dir      string

	sdus            uint64
	sduBytes        uint64
	pdus            uint64
	discardTimeouts uint64
	statusReportsRx uint64
	statusReportsTx uint64
	maxCountReached uint64
	protocolFailure uint64

	descs map[string]*prometheus.Desc
}

func newMetrics(bearerID string, dir Direction) *metrics {
	dirStr := "uplink"
	if dir == Downlink {
		dirStr = "downlink"
	}

	labels := []string{"bearer_id", "direction"}
	mk := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("pdcp_tx_"+name, help, labels, nil)
	}

	return &metrics{
		bearerID: bearerID,
		dir:      dirStr,
		descs: map[string]*prometheus.Desc{
			"sdus_total":              mk("sdus_total", "SDUs accepted from the upper layer."),
			"sdu_bytes_total":         mk("sdu_bytes_total", "SDU bytes accepted from the upper layer."),
			"pdus_total":              mk("pdus_total", "Protected PDUs delivered to the lower layer."),
			"discard_timeouts_total":  mk("discard_timeouts_total", "Discard-timer expiries."),
			"status_reports_rx_total": mk("status_reports_rx_total", "Status reports received."),
			"status_reports_tx_total": mk("status_reports_tx_total", "Status reports sent."),
			"max_count_reached_total": mk("max_count_reached_total", "Soft COUNT threshold crossings."),
			"protocol_failure_total":  mk("protocol_failure_total", "Hard COUNT threshold crossings."),
		},
	}
}

func (m *metrics) onSDU(n int) {
	atomic.AddUint64(&m.sdus, 1)
	atomic.AddUint64(&m.sduBytes, uint64(n))
}

func (m *metrics) onPDU()             { atomic.AddUint64(&m.pdus, 1) }
func (m *metrics) onDiscardTimeout()  { atomic.AddUint64(&m.discardTimeouts, 1) }
func (m *metrics) onStatusReportRx()  { atomic.AddUint64(&m.statusReportsRx, 1) }
func (m *metrics) onStatusReportTx()  { atomic.AddUint64(&m.statusReportsTx, 1) }
func (m *metrics) onMaxCountReached() { atomic.AddUint64(&m.maxCountReached, 1) }
func (m *metrics) onProtocolFailure() { atomic.AddUint64(&m.protocolFailure, 1) }

// Describe implements prometheus.Collector.
func (m *metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range m.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (m *metrics) Collect(ch chan<- prometheus.Metric) {
	labels := []string{m.bearerID, m.dir}
	emit := func(name string, v uint64) {
		ch <- prometheus.MustNewConstMetric(m.descs[name], prometheus.CounterValue, float64(v), labels...)
	}
	emit("sdus_total", atomic.LoadUint64(&m.sdus))
	emit("sdu_bytes_total", atomic.LoadUint64(&m.sduBytes))
	emit("pdus_total", atomic.LoadUint64(&m.pdus))
	emit("discard_timeouts_total", atomic.LoadUint64(&m.discardTimeouts))
	emit("status_reports_rx_total", atomic.LoadUint64(&m.statusReportsRx))
	emit("status_reports_tx_total", atomic.LoadUint64(&m.statusReportsTx))
	emit("max_count_reached_total", atomic.LoadUint64(&m.maxCountReached))
	emit("protocol_failure_total", atomic.LoadUint64(&m.protocolFailure))
}

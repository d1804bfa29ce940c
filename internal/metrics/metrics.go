// Package metrics provides Prometheus counters for the burn workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "token_inferno"

// Metrics holds the workflow counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Lookups         *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	BurnsSubmitted  prometheus.Counter
	BurnsConfirmed  prometheus.Counter
	BurnsFailed     *prometheus.CounterVec
	LedgerRecords   *prometheus.CounterVec
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "lookups_total",
			Help:      "Token lookups by outcome",
		}, []string{"result"}),
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "classifications_total",
			Help:      "Token classifications by verdict",
		}, []string{"special"}),
		BurnsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "burn",
			Name:      "submitted_total",
			Help:      "Burn transactions accepted by the node",
		}),
		BurnsConfirmed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "burn",
			Name:      "confirmed_total",
			Help:      "Burn transactions mined successfully",
		}),
		BurnsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "burn",
			Name:      "failed_total",
			Help:      "Failed burns by failure kind",
		}, []string{"kind"}),
		LedgerRecords: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "records_total",
			Help:      "Confirmed burns seen by the ledger, recorded or skipped as duplicate",
		}, []string{"result"}),
	}
}

func (m *Metrics) Lookup(result string) {
	if m != nil {
		m.Lookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Classified(special bool) {
	if m == nil {
		return
	}
	v := "false"
	if special {
		v = "true"
	}
	m.Classifications.WithLabelValues(v).Inc()
}

func (m *Metrics) Submitted() {
	if m != nil {
		m.BurnsSubmitted.Inc()
	}
}

func (m *Metrics) Confirmed() {
	if m != nil {
		m.BurnsConfirmed.Inc()
	}
}

func (m *Metrics) Failed(kind string) {
	if m != nil {
		m.BurnsFailed.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) Recorded(result string) {
	if m != nil {
		m.LedgerRecords.WithLabelValues(result).Inc()
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "housecup_transitions_total",
	Help: "Match commands by operation and outcome kind",
}, []string{"operation", "outcome"})

var VersionConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "housecup_version_conflicts_total",
	Help: "Conditional updates rejected because the match changed concurrently",
}, []string{"operation"})

var SealsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "housecup_seals_total",
	Help: "Matches sealed by sector and scoring regime",
}, []string{"sector", "regime"})

var BufferedProvisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "housecup_buffered_provisions_total",
	Help: "Matches written to the offline buffer because the primary store was unreachable",
})

var BufferFlushedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "housecup_buffer_flushed_total",
	Help: "Buffered matches replayed into the primary store, by result",
}, []string{"result"})

var NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "housecup_notifications_total",
	Help: "Change notifications received by source",
}, []string{"source"})

var RefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "housecup_standings_refreshes_total",
	Help: "Standings refreshes by trigger",
}, []string{"trigger"})

var StandingsComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "housecup_standings_compute_duration_s",
	Help: "Duration of a standings recomputation from the ledger",
	Buckets: []float64{
		0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2,
	},
})

var SubscribersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "housecup_standings_subscribers",
	Help: "Open standings websocket connections by scope",
}, []string{"scope"})

var StoreQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "housecup_store_query_duration_seconds",
	Help: "Duration of primary store queries by operation",
}, []string{"query"})

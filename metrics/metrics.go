// Package metrics provides Prometheus metrics for the trade journal.
// Pass --metrics to any command to dump them on exit.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// Journal Metrics
	TradesRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradejournal_trades_recorded_total",
			Help: "Total number of trades appended to the journal",
		},
	)

	SnapshotLoadErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradejournal_snapshot_load_errors_total",
			Help: "Snapshots that could not be read or decoded at startup",
		},
	)

	SnapshotSaveErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradejournal_snapshot_save_errors_total",
			Help: "Snapshot writes that failed after a mutation",
		},
	)

	// Analysis Metrics
	AnalysisRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradejournal_analysis_requests_total",
			Help: "Total number of AI analysis requests made",
		},
	)

	AnalysisErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_analysis_errors_total",
			Help: "AI analysis failures by kind",
		},
		[]string{"kind"}, // network, read, api, parse, empty, disabled
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradejournal_analysis_duration_seconds",
			Help:    "Time taken by the AI analysis call",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// WriteText writes every registered metric in the Prometheus text format.
func WriteText(w io.Writer) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

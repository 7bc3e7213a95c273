// Package metrics counts what a run did. The tool is a batch CLI, so the
// prometheus registry is gathered once at the end of a run and logged as a
// summary instead of being served.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Metrics aggregates per-run extraction counters
type Metrics struct {
	registry *prometheus.Registry

	ClipsPlanned    *prometheus.CounterVec
	ClipsExtracted  *prometheus.CounterVec
	ClipsSkipped    *prometheus.CounterVec
	ClipsFailed     *prometheus.CounterVec
	ClipsRejected   *prometheus.CounterVec
	StrategyUsed    *prometheus.CounterVec
	GamesProcessed  prometheus.Counter
	PeriodsMissing  prometheus.Counter
	RecordsSkipped  prometheus.Counter
}

// New creates a fresh registry and its counters
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ClipsPlanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchclips_clips_planned_total",
			Help: "Clip requests produced by correlation, by rule.",
		}, []string{"rule"}),
		ClipsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchclips_clips_extracted_total",
			Help: "Clips successfully extracted, by rule.",
		}, []string{"rule"}),
		ClipsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchclips_clips_skipped_total",
			Help: "Clips skipped because their artifact already existed, by rule.",
		}, []string{"rule"}),
		ClipsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchclips_clips_failed_total",
			Help: "Clips whose strategy cascade was exhausted, by rule.",
		}, []string{"rule"}),
		ClipsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchclips_clips_rejected_total",
			Help: "Clip requests dropped by the planner, by rule.",
		}, []string{"rule"}),
		StrategyUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchclips_strategy_success_total",
			Help: "Successful extractions by strategy.",
		}, []string{"strategy"}),
		GamesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchclips_games_processed_total",
			Help: "Games fully processed.",
		}),
		PeriodsMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchclips_periods_missing_total",
			Help: "Period videos that were absent.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchclips_annotations_skipped_total",
			Help: "Annotation records that failed to parse.",
		}),
	}

	m.registry.MustRegister(
		m.ClipsPlanned, m.ClipsExtracted, m.ClipsSkipped, m.ClipsFailed,
		m.ClipsRejected, m.StrategyUsed,
		m.GamesProcessed, m.PeriodsMissing, m.RecordsSkipped,
	)
	return m
}

// LogSummary gathers the registry and logs every non-zero counter
func (m *Metrics) LogSummary(logger zerolog.Logger) {
	families, err := m.registry.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to gather run metrics")
		return
	}

	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			ev := logger.Info().Float64("value", value)
			for _, label := range metric.GetLabel() {
				ev = ev.Str(label.GetName(), label.GetValue())
			}
			ev.Msg(fam.GetName())
		}
	}
}

package telemetry

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const metricNamespace = "corte"

const (
	resultSuccess = "success"
	resultError   = "error"
)

// SettlementMetrics holds the Prometheus collectors of the settlement service
type SettlementMetrics struct {
	created        *prometheus.CounterVec
	conflicts      *prometheus.CounterVec
	breakdownTiers *prometheus.CounterVec
	skipped        prometheus.Counter
	exports        *prometheus.CounterVec
}

// NewSettlementMetrics creates the settlement collectors and registers them
// with reg. A nil registerer uses the default registry.
func NewSettlementMetrics(reg prometheus.Registerer) (*SettlementMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &SettlementMetrics{
		created: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "settlements_created_total",
				Help:      "Settlements created by type",
			},
			[]string{"type"},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "settlement_conflicts_total",
				Help:      "Rejected duplicate settlement submissions by type and detecting stage",
			},
			[]string{"type", "stage"},
		),
		breakdownTiers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "breakdown_tier_total",
				Help:      "Displayed settlement breakdowns by data source tier",
			},
			[]string{"tier"},
		),
		skipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "breakdown_skipped_total",
				Help:      "Orders whose payment breakdown could not be parsed",
			},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "statement_exports_total",
				Help:      "Statement exports by format and result",
			},
			[]string{"format", "result"},
		),
	}

	for _, c := range []prometheus.Collector{m.created, m.conflicts, m.breakdownTiers, m.skipped, m.exports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordCreated counts a stored settlement
func (m *SettlementMetrics) RecordCreated(settlementType string) {
	m.created.WithLabelValues(settlementType).Inc()
}

// RecordConflict counts a rejected duplicate submission
func (m *SettlementMetrics) RecordConflict(settlementType, stage string) {
	m.conflicts.WithLabelValues(settlementType, stage).Inc()
}

// RecordBreakdownTier counts the tier a displayed breakdown came from
func (m *SettlementMetrics) RecordBreakdownTier(tier string) {
	m.breakdownTiers.WithLabelValues(tier).Inc()
}

// RecordSkippedBreakdowns counts unparsable order breakdowns
func (m *SettlementMetrics) RecordSkippedBreakdowns(n int) {
	if n > 0 {
		m.skipped.Add(float64(n))
	}
}

// RecordExport counts a statement export attempt
func (m *SettlementMetrics) RecordExport(format string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.exports.WithLabelValues(format, result).Inc()
}

// RegisterDBCollectors exposes the connection pool stats and the number of
// settlements still waiting for review.
func RegisterDBCollectors(reg prometheus.Registerer, db *sql.DB, logger *zap.Logger) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(collectors.NewDBStatsCollector(db, metricNamespace)); err != nil {
		return err
	}
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "settlements_pending",
			Help:      "Settlements waiting for review",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM settlements WHERE state = 'pending'")
		},
	))
}

func queryCount(db *sql.DB, logger *zap.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Warn("metrics query failed", zap.Error(err))
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}

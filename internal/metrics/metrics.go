package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

var (
	MatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talent_bridge_match_runs_total",
			Help: "Total number of match runs by outcome",
		},
		[]string{"outcome"},
	)

	MatchRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "talent_bridge_match_run_duration_seconds",
			Help:    "Duration of match runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	MatchCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "talent_bridge_match_candidates",
			Help:    "Number of candidates scored per completed run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	CandidateScores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "talent_bridge_candidate_scores_total",
			Help: "Total number of candidate scores computed",
		},
	)

	ResultCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talent_bridge_result_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"},
	)
)

// PoolStats is the database pool view exported as gauges.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
}

// RegisterPoolGauges exports stats through reg. stats is called on every scrape.
func RegisterPoolGauges(reg prometheus.Registerer, stats func() PoolStats) error {
	gauges := []struct {
		name, help string
		value      func(PoolStats) int32
	}{
		{"talent_bridge_db_pool_total_conns", "Connections currently open in the pool", func(s PoolStats) int32 { return s.Total }},
		{"talent_bridge_db_pool_idle_conns", "Idle connections in the pool", func(s PoolStats) int32 { return s.Idle }},
		{"talent_bridge_db_pool_acquired_conns", "Connections checked out of the pool", func(s PoolStats) int32 { return s.Acquired }},
	}
	for _, g := range gauges {
		value := g.value
		err := reg.Register(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help},
			func() float64 { return float64(value(stats())) },
		))
		if err != nil {
			return err
		}
	}
	return nil
}

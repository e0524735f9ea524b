package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ranking Prometheus metrics.
var (
	CatalogFitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assessrank",
			Name:      "catalog_fit_duration_seconds",
			Help:      "Time spent fitting the TF-IDF vector space",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	CatalogFitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assessrank",
			Name:      "catalog_fits_total",
			Help:      "Catalog fit attempts",
		},
		[]string{"status"},
	)

	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "assessrank",
			Name:      "catalog_items",
			Help:      "Items in the published vector space",
		},
	)

	VocabularyTerms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "assessrank",
			Name:      "vocabulary_terms",
			Help:      "Terms in the published vocabulary",
		},
	)

	RankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assessrank",
			Name:      "rank_requests_total",
			Help:      "Ranking requests",
		},
		[]string{"status"},
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assessrank",
			Name:      "rank_duration_seconds",
			Help:      "Ranking latency including cache lookup",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	RankCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assessrank",
			Name:      "rank_cache_total",
			Help:      "Ranked-result cache hits, misses and errors",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	EvaluationRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assessrank",
			Name:      "evaluation_runs_total",
			Help:      "Evaluation runs",
		},
		[]string{"status"},
	)

	EvaluationMeanRecall = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "assessrank",
			Name:      "evaluation_mean_recall",
			Help:      "Mean Recall@k of the last evaluation run",
		},
		[]string{"k"},
	)

	EvaluationMAP = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "assessrank",
			Name:      "evaluation_map",
			Help:      "MAP@k of the last evaluation run",
		},
		[]string{"k"},
	)
)

var rankingMetricsRegistered bool

// RegisterRankingMetrics registers ranking metrics. Must be called once from main.
func RegisterRankingMetrics() {
	if rankingMetricsRegistered {
		return
	}
	prometheus.MustRegister(CatalogFitDuration)
	prometheus.MustRegister(CatalogFitsTotal)
	prometheus.MustRegister(CatalogItems)
	prometheus.MustRegister(VocabularyTerms)
	prometheus.MustRegister(RankRequestsTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RankCacheTotal)
	prometheus.MustRegister(EvaluationRunsTotal)
	prometheus.MustRegister(EvaluationMeanRecall)
	prometheus.MustRegister(EvaluationMAP)
	rankingMetricsRegistered = true
}

// StatusLabel maps an error to the "status" label value.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

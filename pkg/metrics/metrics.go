package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of the recommendation ranking, per algorithm
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_rank_latency_seconds",
		Help:    "Latency of hybrid recommendation ranking",
		Buckets: prometheus.DefBuckets,
	}, []string{"algo"})

	// Total number of recommendation requests served
	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Total number of recommendation requests",
	}, []string{"algo"})

	PricingRecommendations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_recommendations_total",
		Help: "Total number of price recommendations by strategy",
	}, []string{"strategy"})

	// Guardrail clamps, bound is "floor" or "ceiling"
	PricingGuardrailClamps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_guardrail_clamps_total",
		Help: "How many recommended prices were clamped by a guardrail",
	}, []string{"bound"})

	FeatureStoreFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feature_store_fallbacks_total",
		Help: "Feature store lookups that fell back to compiled-in defaults",
	}, []string{"consumer", "reason"})

	PipelineTaskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_task_duration_seconds",
		Help:    "Duration of batch pipeline tasks including retries",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"flow", "task"})

	PipelineTaskOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_task_outcomes_total",
		Help: "Batch pipeline task outcomes",
	}, []string{"flow", "task", "outcome"})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RecommendLatency,
			RecommendRequests,
			PricingRecommendations,
			PricingGuardrailClamps,
			FeatureStoreFallbacks,
			PipelineTaskDuration,
			PipelineTaskOutcomes,
		)
	})
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ValuationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_valuations_total",
			Help: "Valuation requests by outcome",
		},
		[]string{"outcome"},
	)
	ValuationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "car_valuation_duration_seconds",
			Help:    "Time spent in the regression model",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_recommendations_total",
			Help: "Recommendation lookups by outcome",
		},
		[]string{"outcome"},
	)
	ChatMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Chat messages handled by route",
		},
		[]string{"route"},
	)
	GeneratorBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "text_generator_breaker_state",
			Help: "Circuit breaker state per generator (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
	ChatJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_jobs_total",
			Help: "Async chat jobs by status",
		},
		[]string{"status"},
	)
)

// Register registers all collectors with reg. Call once per registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ValuationsTotal,
		ValuationDuration,
		RecommendationsTotal,
		ChatMessagesTotal,
		GeneratorBreakerState,
		ChatJobsTotal,
	)
}

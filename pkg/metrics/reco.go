package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation HTTP handlers
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_recommend_latency_seconds",
		Help:    "Latency of recommendation handlers",
		Buckets: prometheus.DefBuckets,
	})

	// Total recommendations surfaced, per algorithm
	RecommendationsServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_recommendations_served_total",
		Help: "Total number of recommendations surfaced to users",
	}, []string{"algorithm"})

	// Total recorded activity events, per kind
	ActivityEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_activity_events_total",
		Help: "Total number of recorded activity events",
	}, []string{"kind"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendationsServedTotal,
		ActivityEventsTotal,
	)
}

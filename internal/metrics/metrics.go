// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kenyatrends_analyses_total",
			Help: "Total number of analysis requests by outcome",
		},
		[]string{"status"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kenyatrends_analysis_duration_seconds",
			Help:    "Analysis processing duration in seconds, simulated latency included",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 3, 5, 10},
		},
	)

	KeywordsAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kenyatrends_keywords_analyzed_total",
			Help: "Total number of keywords analyzed",
		},
	)

	TrendDirections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kenyatrends_trend_direction_total",
			Help: "Trend summaries by direction",
		},
		[]string{"direction"},
	)

	PredictionConfidence = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kenyatrends_prediction_total",
			Help: "Predictions by direction and confidence",
		},
		[]string{"direction", "confidence"},
	)

	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kenyatrends_store_errors_total",
			Help: "Report archive failures by operation",
		},
		[]string{"operation"},
	)

	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kenyatrends_websocket_clients",
			Help: "Connected live feed clients",
		},
	)
)

// Register adds all collectors to reg
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		AnalysesTotal,
		AnalysisDuration,
		KeywordsAnalyzed,
		TrendDirections,
		PredictionConfidence,
		StoreErrors,
		WebSocketClients,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

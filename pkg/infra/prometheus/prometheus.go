package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "detoxgate_requests_total",
			Help: "Total number of API requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "detoxgate_latency_ms",
			Help:    "API request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	DetectionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "detoxgate_detections_total",
			Help: "Detections by outcome and risk level",
		},
		[]string{"toxic", "risk_level"},
	)

	DetectionConfidence = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "detoxgate_detection_confidence",
			Help:    "Distribution of final fused toxicity confidence",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	ClassifierCalls = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "detoxgate_classifier_calls_total",
			Help: "External classifier calls by result",
		},
		[]string{"result"},
	)

	RewritesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "detoxgate_rewrites_total",
			Help: "Rewrites by strategy",
		},
		[]string{"strategy"},
	)
)

type MetricsConfig struct {
	EnableLatency    bool `mapstructure:"enable_latency"`
	EnableDetections bool `mapstructure:"enable_detections"`
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:    true,
		EnableDetections: true,
	}
}

var (
	Config   MetricsConfig
	initOnce sync.Once
)

func Initialize(cfg MetricsConfig) {
	Config = cfg
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

// Gatherer exposes the private registry to the metrics server.
func Gatherer() prometheus.Gatherer {
	return registry
}

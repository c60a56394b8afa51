package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry holds every collector exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Custom histogram buckets for API response times ranging from milliseconds to 30+ seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	TrainerReviews = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_trainer_reviews_total",
			Help: "Total trainer moderation attempts",
		},
		[]string{"action", "result"},
	)

	PublicReviewRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_public_review_requests_total",
			Help: "Total requests to make a trainer public",
		},
		[]string{"result"},
	)

	AccessRequestsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_access_requests_created_total",
			Help: "Total access request submissions",
		},
		[]string{"result"},
	)

	AccessRequestsProcessed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_access_requests_processed_total",
			Help: "Total processed access requests",
		},
		[]string{"action", "result"},
	)

	PostViews = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_post_views_total",
			Help: "Total view events by outcome",
		},
		[]string{"result", "viewer"}, // result: counted|duplicate|error, viewer: user|anonymous
	)

	Notifications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_notifications_total",
			Help: "Total in-app notifications written",
		},
		[]string{"type", "status"},
	)

	PortalLogins = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymratia_portal_logins_total",
			Help: "Total admin portal login attempts",
		},
		[]string{"result"},
	)

	ProjectorLookups = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymratia_projector_batch_keys",
			Help:    "Number of distinct keys per batched relational lookup",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"relation"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers process-level collectors with the service name as a constant label
func Init(serviceName string) {
	Registry.MustRegister(
		collectors.NewBuildInfoCollector(),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "service_info",
			Help:        "Static service information",
			ConstLabels: prometheus.Labels{"service_name": serviceName},
		}, func() float64 { return 1 }),
	)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success   Outcome = "success"
	Error     Outcome = "error"
	Rejected  Outcome = "rejected"
	Duplicate Outcome = "duplicate"
)

func (O Outcome) String() string {
	return string(O)
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

var (
	once          sync.Once
	metricsRouter *chi.Mux

	// Collectors exist before Init so that callers never see nil; Init
	// only registers them and exposes the endpoint.
	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)
	queueProcessingDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "queue_message_processing_duration_seconds",
			Help:    "Histogram of queue message processing durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"queue", "outcome"},
	)
	stateTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_state_transitions_total",
			Help: "Number of state transitions by name and outcome.",
		},
		[]string{"transition", "outcome"},
	)
	packetOutcomeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_packet_outcomes_total",
			Help: "Number of outgoing packets by final status.",
		},
		[]string{"status"},
	)
	unprocessableMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_unprocessable_messages_total",
			Help: "Number of queue messages moved to the unprocessable store.",
		},
		[]string{"queue"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		httpRequestDurationHistogram,
		queueProcessingDurationHistogram,
		stateTransitionCounter,
		packetOutcomeCounter,
		unprocessableMessageCounter,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// StartQueueProcessingTimer starts a timer to measure how long a queue message takes to handle.
func StartQueueProcessingTimer(queueName string) func(outcome Outcome) {
	startTime := time.Now()
	return func(outcome Outcome) {
		duration := time.Since(startTime).Seconds()
		queueProcessingDurationHistogram.WithLabelValues(queueName, outcome.String()).Observe(duration)
	}
}

func RecordStateTransition(transition string, outcome Outcome) {
	stateTransitionCounter.WithLabelValues(transition, outcome.String()).Inc()
}

func RecordPacketOutcome(status string) {
	packetOutcomeCounter.WithLabelValues(status).Inc()
}

func RecordUnprocessableMessage(queueName string) {
	unprocessableMessageCounter.WithLabelValues(queueName).Inc()
}

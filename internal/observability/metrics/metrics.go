package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

const namespace = "lst"

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

func outcomeOf(err error) Outcome {
	if err != nil {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

var (
	once          sync.Once
	metricsRouter *chi.Mux

	httpRequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)
	rpcCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_call_duration_seconds",
			Help:      "Duration of chain RPC calls.",
			Buckets:   defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)
	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "jobs_total",
			Help:      "Count of transaction jobs by terminal state.",
		},
		[]string{"protocol", "kind", "state"},
	)
	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "job_duration_seconds",
			Help:      "Time from job creation to its terminal state.",
			Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"protocol", "kind", "state"},
	)
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "submissions_total",
			Help:      "Count of transaction submission attempts.",
		},
		[]string{"outcome"},
	)
	componentHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "component_healthy",
			Help:      "1 when the last health check of the component passed.",
		},
		[]string{"component"},
	)
)

// Init starts the metrics server once.
func Init(cfg config.MetricsConfig) {
	once.Do(func() {
		initMetricsRouter(cfg)
	})
}

func initMetricsRouter(cfg config.MetricsConfig) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get(cfg.Path, func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := cfg.Address()
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// ObserveRpcCall records one chain RPC call. Meant to be deferred.
func ObserveRpcCall(operation string, err error, started time.Time) {
	rpcCallDuration.WithLabelValues(operation, outcomeOf(err).String()).Observe(time.Since(started).Seconds())
}

// RecordJobOutcome records a job reaching a terminal state.
func RecordJobOutcome(protocol, kind, state string, started time.Time) {
	jobsTotal.WithLabelValues(protocol, kind, state).Inc()
	jobDuration.WithLabelValues(protocol, kind, state).Observe(time.Since(started).Seconds())
}

// RecordSubmission records one submission attempt by its classified outcome,
// e.g. "success", "rpc_unavailable" or "nonce_conflict".
func RecordSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

func SetComponentHealth(component string, err error) {
	value := 1.0
	if err != nil {
		value = 0
	}
	componentHealthy.WithLabelValues(component).Set(value)
}

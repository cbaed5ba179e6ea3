package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "analysis_job_duration_seconds",
	Help:    "Total time spent processing an analysis job.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 180},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_stage_duration_seconds",
	Help:    "Time spent in each analysis pipeline stage.",
	Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
}, []string{"stage", "outcome"})

var routeDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "route_decisions_total",
	Help: "Queries routed, labelled by category and whether the classifier or the fallback decided.",
}, []string{"category", "source"})

var populateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "index_populate_total",
	Help: "Index populate calls, labelled reused, embedded or failed.",
}, []string{"outcome"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureStageMetrics(stage string, outcome string, timeElapsed time.Duration) {
	stageDuration.WithLabelValues(stage, outcome).Observe(timeElapsed.Seconds())
}

func CountRouteDecision(category string, source string) {
	routeDecisions.WithLabelValues(category, source).Inc()
}

func CountPopulate(outcome string) {
	populateOutcomes.WithLabelValues(outcome).Inc()
}

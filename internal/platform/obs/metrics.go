package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry served on /metrics.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolverRuns counts finished solve requests by outcome (ok, cached, error).
	SolverRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solver_runs_total", Help: "Solve requests by outcome."},
		[]string{"status"},
	)
	SolverIterations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "solver_iterations_total", Help: "Tabu search iterations executed."},
	)
	SolverDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "solver_run_duration_seconds", Help: "Wall time of a solve.", Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}},
	)
	// SolverBestCost holds the best cost of the most recent run.
	SolverBestCost = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "solver_best_cost", Help: "Best total cost of the last finished run."},
	)
)

var regOnce sync.Once

// RegisterMetrics registers all collectors on Registry. Safe to call more than once.
func RegisterMetrics() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolverRuns)
		Registry.MustRegister(SolverIterations)
		Registry.MustRegister(SolverDuration)
		Registry.MustRegister(SolverBestCost)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

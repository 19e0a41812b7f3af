package api

import (
	"cvrp-route-service/internal/api/handlers"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Dependencies of the HTTP surface.
type Deps struct {
	Solve        *handlers.SolveHandler
	Runs         ports.RunRepository
	SolveLimiter *rate.Limiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	obs.RegisterMetrics()

	mux := http.NewServeMux()
	runsHandler := &handlers.RunsHandler{Repo: deps.Runs}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/solve", rateLimit(deps.SolveLimiter, http.HandlerFunc(deps.Solve.Solve)))
	mux.HandleFunc("/runs", runsHandler.List)
	mux.HandleFunc("/runs/{id}", runsHandler.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}

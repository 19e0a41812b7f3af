package handlers

import (
	"context"
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const maxSolveBody = 4 << 20

// Solver runs one optimization request.
type Solver interface {
	Solve(ctx context.Context, req services.SolveRequest) (*domain.Run, error)
}

// Upper bounds on request size accepted by the solve endpoint.
type SolveLimits struct {
	MaxCustomers  int
	MaxIterations int
}

// Defaults applied to unset generate fields.
type GenerateDefaults struct {
	Seed      int64
	Customers int
	Vehicles  int
	Capacity  int
}

type SolveHandler struct {
	Service  Solver
	Options  services.SolveOptions
	Generate GenerateDefaults
	Limits   SolveLimits
}

// Solve builds an instance from the request, runs the solver and returns the run.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SolveRequest
	if err := decodeJSON(w, r, maxSolveBody, &req); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, r, status, err.Error())
		return
	}

	svcReq, err := h.toServiceRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.Service.Solve(r.Context(), svcReq)
	if err != nil {
		status, msg := solveErrorStatus(err)
		if status >= http.StatusInternalServerError {
			obs.Logger().Error().Err(err).Str("req_id", obs.RequestID(r.Context())).Msg("solve failed")
		}
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, toRunResponse(run))
}

func (h *SolveHandler) toServiceRequest(req dto.SolveRequest) (services.SolveRequest, error) {
	var out services.SolveRequest

	if (req.Instance == nil) == (req.Generate == nil) {
		return out, errors.New("exactly one of instance and generate is required")
	}

	if in := req.Instance; in != nil {
		if len(in.Customers) > h.Limits.MaxCustomers {
			return out, fmt.Errorf("instance has %d customers; at most %d allowed", len(in.Customers), h.Limits.MaxCustomers)
		}

		spec := &ports.InstanceSpec{
			Depot:     domain.Coordinates{X: in.Depot.X, Y: in.Depot.Y},
			Customers: make([]ports.CustomerSpec, 0, len(in.Customers)),
			Vehicles:  in.Vehicles,
			Capacity:  in.Capacity,
			Distances: in.Distances,
		}
		for _, c := range in.Customers {
			spec.Customers = append(spec.Customers, ports.CustomerSpec{
				Position: domain.Coordinates{X: c.X, Y: c.Y},
				Demand:   c.Demand,
			})
		}
		out.Instance = spec
	}

	if g := req.Generate; g != nil {
		gen := ports.GenerateRequest{
			Seed:      h.Generate.Seed,
			Customers: h.Generate.Customers,
			Vehicles:  h.Generate.Vehicles,
			Capacity:  h.Generate.Capacity,
		}
		if g.Seed != nil {
			gen.Seed = *g.Seed
		}
		if g.Customers != nil {
			gen.Customers = *g.Customers
		}
		if g.Vehicles != nil {
			gen.Vehicles = *g.Vehicles
		}
		if g.Capacity != nil {
			gen.Capacity = *g.Capacity
		}
		if gen.Customers < 0 || gen.Customers > h.Limits.MaxCustomers {
			return out, fmt.Errorf("customers must be between 0 and %d", h.Limits.MaxCustomers)
		}
		out.Generate = &gen
	}

	opts := h.Options
	if o := req.Options; o != nil {
		if o.TabuHorizon != nil {
			opts.Tabu.Horizon = *o.TabuHorizon
		}
		if o.Iterations != nil {
			opts.Tabu.Iterations = *o.Iterations
		}
		if o.TabuRule != "" {
			rule, err := services.ParseTabuRule(o.TabuRule)
			if err != nil {
				return out, errors.New("tabu_rule must be \"all\" or \"any\"")
			}
			opts.Tabu.Rule = rule
		}
		if o.LocalSearch != nil {
			opts.LocalSearch = *o.LocalSearch
		}
		if o.LocalSearchMode != "" {
			mode, err := services.ParseLocalSearchMode(o.LocalSearchMode)
			if err != nil {
				return out, errors.New("local_search_mode must be \"combined\" or \"intra\"")
			}
			opts.LocalSearchMode = mode
		}
		if o.TimeBudgetMs != nil {
			opts.Tabu.TimeBudget = time.Duration(*o.TimeBudgetMs) * time.Millisecond
		}
		opts.IncludeTrace = o.IncludeTrace
	}
	if opts.Tabu.Iterations > h.Limits.MaxIterations {
		return out, fmt.Errorf("iterations must be at most %d", h.Limits.MaxIterations)
	}
	out.Options = opts

	return out, nil
}

// solveErrorStatus maps solver errors to an HTTP status and client message.
func solveErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrInvalidOptions),
		domain.IsInstanceError(err):
		return http.StatusBadRequest, err.Error()
	case domain.IsInfeasible(err):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "solve interrupted"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

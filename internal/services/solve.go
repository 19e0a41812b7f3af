package services

import (
	"context"
	"crypto/sha256"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid solve request")

// Per-request knobs of the solve pipeline.
type SolveOptions struct {
	Tabu TabuOptions

	// Hill-climb the greedy solution before tabu search.
	LocalSearch     bool
	LocalSearchMode LocalSearchMode

	// Keep the per-iteration trace in the returned run.
	IncludeTrace bool
}

func DefaultSolveOptions() SolveOptions {
	return SolveOptions{Tabu: DefaultTabuOptions()}
}

// Exactly one of Instance and Generate must be set.
type SolveRequest struct {
	Instance *ports.InstanceSpec
	Generate *ports.GenerateRequest
	Options  SolveOptions
}

// SolveService runs the greedy → local search → tabu search pipeline and
// records the outcome.
type SolveService struct {
	generator ports.InstanceGenerator
	distances ports.DistanceMatrixProvider
	runs      ports.RunRepository
	cache     ports.SolutionCache
	cacheTTL  time.Duration

	now   func() time.Time
	newID func() string
}

// cache may be nil to disable solution caching.
func NewSolveService(
	generator ports.InstanceGenerator,
	distances ports.DistanceMatrixProvider,
	runs ports.RunRepository,
	cache ports.SolutionCache,
	cacheTTL time.Duration,
) *SolveService {
	return &SolveService{
		generator: generator,
		distances: distances,
		runs:      runs,
		cache:     cache,
		cacheTTL:  cacheTTL,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Solve builds the instance, optimizes it and persists the run.
// Identical requests are answered from the solution cache when one is configured.
func (s *SolveService) Solve(ctx context.Context, req SolveRequest) (_ *domain.Run, err error) {
	defer obs.Time(ctx, "solve")(&err)
	defer func() {
		if err != nil {
			obs.SolverRuns.WithLabelValues("error").Inc()
		}
	}()

	start := s.now()

	if (req.Instance == nil) == (req.Generate == nil) {
		return nil, fmt.Errorf("%w: exactly one of instance and generate is required", ErrInvalidRequest)
	}
	if err := req.Options.Tabu.Validate(); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	inst, seed, err := s.resolveInstance(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	key := Fingerprint(inst, req.Options)

	if s.cache != nil {
		run, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			obs.Logger().Warn().Err(err).Str("fingerprint", key).Msg("solution cache read failed")
		}
		if ok {
			obs.SolverRuns.WithLabelValues("cached").Inc()
			return withTrace(run, req.Options.IncludeTrace), nil
		}
	}

	sol, err := BuildGreedySolution(inst)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	initialCost := sol.TotalCost

	lsCost := initialCost
	if req.Options.LocalSearch {
		if _, err := LocalSearch(ctx, inst, sol, req.Options.LocalSearchMode); err != nil {
			return nil, fmt.Errorf("solve: %w", err)
		}
		lsCost = sol.TotalCost
	}

	res, err := TabuSearch(ctx, inst, sol, req.Options.Tabu)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if err := res.Best.Validate(inst); err != nil {
		return nil, fmt.Errorf("solve: best solution failed validation: %w", err)
	}

	elapsed := s.now().Sub(start)
	run := &domain.Run{
		ID:              s.newID(),
		Fingerprint:     key,
		CreatedAt:       start.UTC(),
		Customers:       len(inst.Customers) - 1,
		Vehicles:        len(inst.Vehicles),
		Capacity:        inst.Capacity(),
		Seed:            seed,
		TabuHorizon:     req.Options.Tabu.Horizon,
		Iterations:      res.Iterations,
		TabuRule:        req.Options.Tabu.Rule.String(),
		LocalSearch:     req.Options.LocalSearch,
		LocalSearchMode: localSearchMode(req.Options),
		InitialCost:     initialCost,
		LocalSearchCost: lsCost,
		BestCost:        res.Best.TotalCost,
		BestIteration:   res.BestIteration,
		DurationMillis:  elapsed.Milliseconds(),
		Routes:          domain.RunRoutes(res.Best),
		Trace:           res.Trace,
	}

	if err := s.runs.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("solve: save run: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, run, s.cacheTTL); err != nil {
			obs.Logger().Warn().Err(err).Str("fingerprint", key).Msg("solution cache write failed")
		}
	}

	obs.SolverRuns.WithLabelValues("ok").Inc()
	obs.SolverIterations.Add(float64(res.Iterations))
	obs.SolverDuration.Observe(elapsed.Seconds())
	obs.SolverBestCost.Set(run.BestCost)

	obs.Logger().Info().
		Str("req_id", obs.RequestID(ctx)).
		Str("run_id", run.ID).
		Int("customers", run.Customers).
		Float64("initial_cost", run.InitialCost).
		Float64("best_cost", run.BestCost).
		Int("best_iteration", run.BestIteration).
		Int("routes_used", res.Best.ActiveRoutes()).
		Int64("dur_ms", run.DurationMillis).
		Msg("solve finished")

	return withTrace(run, req.Options.IncludeTrace), nil
}

// resolveInstance builds the instance from explicit data or the generator.
// The returned seed is nil for explicit instances.
func (s *SolveService) resolveInstance(ctx context.Context, req SolveRequest) (*domain.Instance, *int64, error) {
	if req.Generate != nil {
		if s.generator == nil {
			return nil, nil, fmt.Errorf("%w: instance generation is not configured", ErrInvalidRequest)
		}
		inst, err := s.generator.Generate(ctx, *req.Generate)
		if err != nil {
			return nil, nil, err
		}
		seed := req.Generate.Seed
		return inst, &seed, nil
	}

	spec := req.Instance
	customers := spec.DomainCustomers()

	var (
		m   domain.DistanceMatrix
		err error
	)
	if spec.Distances != nil {
		m, err = domain.NewDistanceMatrix(spec.Distances)
	} else {
		if s.distances == nil {
			return nil, nil, fmt.Errorf("%w: distances are required when no matrix provider is configured", ErrInvalidRequest)
		}
		m, err = s.distances.Matrix(ctx, customers)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("distances: %w", err)
	}

	if spec.Vehicles <= 0 {
		return nil, nil, domain.ErrNoVehicles
	}
	inst, err := domain.NewInstance(customers, domain.NewFleet(spec.Vehicles, spec.Capacity), m)
	if err != nil {
		return nil, nil, err
	}
	return inst, nil, nil
}

// Fingerprint identifies an instance together with the options that affect
// the result. Trace inclusion is not part of it.
func Fingerprint(inst *domain.Instance, opts SolveOptions) string {
	h := sha256.New()
	f := func(v float64) []byte { return append(strconv.AppendFloat(nil, v, 'g', -1, 64), ':') }
	i := func(v int) []byte { return append(strconv.AppendInt(nil, int64(v), 10), ':') }

	for _, c := range inst.Customers {
		h.Write(i(c.ID))
		h.Write(f(c.Position.X))
		h.Write(f(c.Position.Y))
		h.Write(i(c.Demand))
		h.Write([]byte{';'})
	}
	h.Write(i(len(inst.Vehicles)))
	h.Write([]byte{'/'})
	h.Write(i(inst.Capacity()))
	h.Write([]byte{'|'})
	for _, row := range inst.Distances {
		for _, d := range row {
			h.Write(f(d))
		}
	}
	h.Write([]byte{'|'})
	h.Write(i(opts.Tabu.Horizon))
	h.Write([]byte{'/'})
	h.Write(i(opts.Tabu.Iterations))
	h.Write([]byte(opts.Tabu.Rule.String()))
	h.Write([]byte(strconv.FormatBool(opts.LocalSearch)))
	h.Write([]byte(localSearchMode(opts)))
	h.Write([]byte(opts.Tabu.TimeBudget.String()))

	return hex.EncodeToString(h.Sum(nil))
}

// localSearchMode names the hill-climb neighborhoods, or "" when local search is off.
func localSearchMode(opts SolveOptions) string {
	if !opts.LocalSearch {
		return ""
	}
	return opts.LocalSearchMode.String()
}

func withTrace(run *domain.Run, include bool) *domain.Run {
	if include || run.Trace == nil {
		return run
	}
	cp := *run
	cp.Trace = nil
	return &cp
}

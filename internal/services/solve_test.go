package services

import (
	"context"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/instance"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSolutionCache struct {
	mu   sync.Mutex
	runs map[string]*domain.Run
	puts int
}

func (c *memSolutionCache) Get(_ context.Context, key string) (*domain.Run, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.runs[key]
	return r, ok, nil
}

func (c *memSolutionCache) Put(_ context.Context, key string, run *domain.Run, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		c.runs = map[string]*domain.Run{}
	}
	c.runs[key] = run
	c.puts++
	return nil
}

type failingRepo struct{ ports.RunRepository }

func (failingRepo) SaveRun(context.Context, *domain.Run) error { return errors.New("disk full") }

func newTestSolveService(t *testing.T, cache ports.SolutionCache) (*SolveService, *repositories.MemoryRunRepository) {
	t.Helper()

	euclid := distance.NewEuclideanMatrixProvider(true)
	gen, err := instance.NewRandomGenerator(euclid, instance.DefaultGeneratorConfig())
	require.NoError(t, err)

	repo := repositories.NewMemoryRunRepository(100)
	svc := NewSolveService(gen, euclid, repo, cache, time.Hour)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
	return svc, repo
}

func exampleSpec() *ports.InstanceSpec {
	return &ports.InstanceSpec{
		Depot: domain.Coordinates{X: 50, Y: 50},
		Customers: []ports.CustomerSpec{
			{Position: domain.Coordinates{X: 0, Y: 0}, Demand: 5},
			{Position: domain.Coordinates{X: 0, Y: 10}, Demand: 5},
			{Position: domain.Coordinates{X: 100, Y: 100}, Demand: 5},
			{Position: domain.Coordinates{X: 100, Y: 90}, Demand: 5},
		},
		Vehicles: 2,
		Capacity: 10,
	}
}

func TestSolveServiceGenerated(t *testing.T) {
	svc, repo := newTestSolveService(t, nil)

	opts := DefaultSolveOptions()
	opts.LocalSearch = true
	run, err := svc.Solve(context.Background(), SolveRequest{
		Generate: &ports.GenerateRequest{Seed: 61092, Customers: 30, Vehicles: 10, Capacity: 50},
		Options:  opts,
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	require.NotNil(t, run.Seed)
	assert.Equal(t, int64(61092), *run.Seed)
	assert.Equal(t, 30, run.Customers)
	assert.Equal(t, DefaultIterations, run.Iterations)
	assert.Equal(t, "all", run.TabuRule)
	assert.LessOrEqual(t, run.LocalSearchCost, run.InitialCost)
	assert.LessOrEqual(t, run.BestCost, run.LocalSearchCost)
	assert.Nil(t, run.Trace)

	served := map[int]bool{}
	sum := 0.0
	for _, r := range run.Routes {
		assert.Equal(t, 0, r.Stops[0])
		assert.Equal(t, 0, r.Stops[len(r.Stops)-1])
		assert.LessOrEqual(t, r.Load, 50)
		for _, id := range r.Stops[1 : len(r.Stops)-1] {
			assert.False(t, served[id], "customer %d served twice", id)
			served[id] = true
		}
		sum += r.Cost
	}
	assert.Len(t, served, 30)
	assert.InDelta(t, run.BestCost, sum, domain.CostTolerance)

	stored, err := repo.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.BestCost, stored.BestCost)
	assert.Len(t, stored.Trace, DefaultIterations)
}

func TestSolveServiceExplicitInstance(t *testing.T) {
	svc, _ := newTestSolveService(t, nil)

	opts := DefaultSolveOptions()
	opts.IncludeTrace = true
	opts.Tabu.Iterations = 25
	run, err := svc.Solve(context.Background(), SolveRequest{Instance: exampleSpec(), Options: opts})
	require.NoError(t, err)

	assert.Nil(t, run.Seed)
	assert.Equal(t, 4, run.Customers)
	assert.Len(t, run.Trace, 25)
	assert.Equal(t, 0, run.BestIteration)
	require.Len(t, run.Routes, 2)
	assert.Equal(t, []int{0, 2, 1, 0}, run.Routes[0].Stops)
	assert.Equal(t, []int{0, 4, 3, 0}, run.Routes[1].Stops)
}

func TestSolveServiceExplicitDistances(t *testing.T) {
	svc, _ := newTestSolveService(t, nil)

	spec := &ports.InstanceSpec{
		Customers: []ports.CustomerSpec{{Demand: 1}, {Demand: 1}},
		Vehicles:  1,
		Capacity:  5,
		Distances: [][]float64{{0, 3, 4}, {3, 0, 5}, {4, 5, 0}},
	}
	run, err := svc.Solve(context.Background(), SolveRequest{Instance: spec, Options: DefaultSolveOptions()})
	require.NoError(t, err)
	assert.InDelta(t, 12.0, run.BestCost, 1e-9)
}

func TestSolveServiceUsesCache(t *testing.T) {
	cache := &memSolutionCache{}
	svc, repo := newTestSolveService(t, cache)
	ctx := context.Background()

	req := SolveRequest{Instance: exampleSpec(), Options: DefaultSolveOptions()}
	first, err := svc.Solve(ctx, req)
	require.NoError(t, err)

	second, err := svc.Solve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, cache.puts)

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	// Different options miss the cache.
	req.Options.Tabu.Horizon = 5
	third, err := svc.Solve(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestSolveServiceRejectsBadRequests(t *testing.T) {
	svc, _ := newTestSolveService(t, nil)
	ctx := context.Background()

	_, err := svc.Solve(ctx, SolveRequest{Options: DefaultSolveOptions()})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Solve(ctx, SolveRequest{
		Instance: exampleSpec(),
		Generate: &ports.GenerateRequest{Customers: 1, Vehicles: 1, Capacity: 1},
		Options:  DefaultSolveOptions(),
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Solve(ctx, SolveRequest{Instance: exampleSpec()})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	spec := exampleSpec()
	spec.Vehicles = 1
	_, err = svc.Solve(ctx, SolveRequest{Instance: spec, Options: DefaultSolveOptions()})
	assert.True(t, domain.IsInfeasible(err), "got %v", err)

	spec = exampleSpec()
	spec.Customers[0].Demand = -1
	_, err = svc.Solve(ctx, SolveRequest{Instance: spec, Options: DefaultSolveOptions()})
	assert.True(t, domain.IsInstanceError(err), "got %v", err)
}

func TestSolveServiceReportsSaveFailure(t *testing.T) {
	euclid := distance.NewEuclideanMatrixProvider(false)
	svc := NewSolveService(nil, euclid, failingRepo{}, nil, 0)

	_, err := svc.Solve(context.Background(), SolveRequest{Instance: exampleSpec(), Options: DefaultSolveOptions()})
	assert.ErrorContains(t, err, "disk full")
}

func TestSolveServiceIntraOnlyLocalSearch(t *testing.T) {
	svc, _ := newTestSolveService(t, nil)
	req := ports.GenerateRequest{Seed: 7, Customers: 25, Vehicles: 10, Capacity: 50}

	opts := DefaultSolveOptions()
	opts.LocalSearch = true
	opts.LocalSearchMode = LocalSearchIntraOnly
	run, err := svc.Solve(context.Background(), SolveRequest{Generate: &req, Options: opts})
	require.NoError(t, err)
	assert.Equal(t, "intra", run.LocalSearchMode)

	// Same pipeline by hand: greedy followed by an intra-only hill climb.
	inst, err := svc.generator.Generate(context.Background(), req)
	require.NoError(t, err)
	sol, err := BuildGreedySolution(inst)
	require.NoError(t, err)
	_, err = LocalSearch(context.Background(), inst, sol, LocalSearchIntraOnly)
	require.NoError(t, err)

	assert.InDelta(t, sol.TotalCost, run.LocalSearchCost, 1e-9)

	opts.LocalSearch = false
	run, err = svc.Solve(context.Background(), SolveRequest{Generate: &req, Options: opts})
	require.NoError(t, err)
	assert.Empty(t, run.LocalSearchMode)
	assert.Equal(t, run.InitialCost, run.LocalSearchCost)
}

func TestFingerprintIgnoresTrace(t *testing.T) {
	inst := exampleInstance(t)
	a := DefaultSolveOptions()
	b := a
	b.IncludeTrace = true
	assert.Equal(t, Fingerprint(inst, a), Fingerprint(inst, b))

	c := a
	c.LocalSearch = true
	assert.NotEqual(t, Fingerprint(inst, a), Fingerprint(inst, c))

	d := c
	d.LocalSearchMode = LocalSearchIntraOnly
	assert.NotEqual(t, Fingerprint(inst, c), Fingerprint(inst, d))

	// The mode only matters while local search runs.
	e := a
	e.LocalSearchMode = LocalSearchIntraOnly
	assert.Equal(t, Fingerprint(inst, a), Fingerprint(inst, e))
}

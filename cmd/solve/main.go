package main

import (
	"context"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/instance"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

// solve runs the full pipeline once on a generated or file-based instance
// and prints the best solution found.
func main() {
	config.LoadEnv()
	log := obs.Logger()

	defaults, err := config.LoadDefaults(config.Get("SOLVER_CONFIG", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("load solver defaults")
	}
	budget, _ := defaults.Solver.Budget()

	var (
		file        = flag.String("instance", "", "JSON instance file; when empty a random instance is generated")
		seed        = flag.Int64("seed", defaults.Generator.Seed, "random seed for the generated instance")
		customers   = flag.Int("customers", defaults.Generator.Customers, "customers in the generated instance")
		vehicles    = flag.Int("vehicles", defaults.Generator.Vehicles, "fleet size of the generated instance")
		capacity    = flag.Int("capacity", defaults.Generator.Capacity, "vehicle capacity of the generated instance")
		round       = flag.Bool("round", defaults.Generator.Round, "round Euclidean distances to integers")
		horizon     = flag.Int("horizon", defaults.Solver.TabuHorizon, "tabu horizon in iterations")
		iterations  = flag.Int("iterations", defaults.Solver.Iterations, "tabu search iterations")
		rule        = flag.String("rule", defaults.Solver.TabuRule, `tabu rule: "all" or "any"`)
		localSearch = flag.Bool("local-search", defaults.Solver.LocalSearch, "hill-climb the greedy solution before tabu search")
		lsMode      = flag.String("local-search-mode", defaults.Solver.LocalSearchMode, `local search neighborhoods: "combined" or "intra"`)
		timeBudget  = flag.Duration("budget", budget, "wall-clock cap for tabu search; 0 disables it")
		trace       = flag.Bool("trace", false, "log every tabu iteration")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inst, err := loadInstance(ctx, *file, *round, ports.GenerateRequest{
		Seed:      *seed,
		Customers: *customers,
		Vehicles:  *vehicles,
		Capacity:  *capacity,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build instance")
	}

	opts, err := services.NewSolveOptions(*horizon, *iterations, *rule, *localSearch, *lsMode, *timeBudget)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid options")
	}

	sol, err := services.BuildGreedySolution(inst)
	if err != nil {
		log.Fatal().Err(err).Msg("greedy construction")
	}
	log.Info().
		Float64("cost", sol.TotalCost).
		Int("routes", sol.ActiveRoutes()).
		Msg("Greedy solution")

	if opts.LocalSearch {
		res, err := services.LocalSearch(ctx, inst, sol, opts.LocalSearchMode)
		if err != nil {
			log.Fatal().Err(err).Msg("local search")
		}
		log.Info().
			Str("mode", opts.LocalSearchMode.String()).
			Int("moves", res.Moves).
			Float64("cost", sol.TotalCost).
			Msg("Local search")
	}

	res, err := services.TabuSearch(ctx, inst, sol, opts.Tabu)
	if err != nil {
		log.Fatal().Err(err).Msg("tabu search")
	}

	if *trace {
		for _, rec := range res.Trace {
			log.Info().
				Int("iteration", rec.Iteration).
				Str("move", string(rec.Move)).
				Float64("delta", rec.Delta).
				Float64("cost", rec.Cost).
				Msg("Tabu iteration")
		}
	}

	if err := res.Best.Validate(inst); err != nil {
		log.Fatal().Err(err).Msg("best solution is invalid")
	}

	printSolution(res.Best, res.BestIteration, res.Iterations)
}

func loadInstance(ctx context.Context, path string, round bool, gen ports.GenerateRequest) (*domain.Instance, error) {
	euclid := distance.NewEuclideanMatrixProvider(round)

	if path == "" {
		g, err := instance.NewRandomGenerator(euclid, instance.DefaultGeneratorConfig())
		if err != nil {
			return nil, err
		}
		return g.Generate(ctx, gen)
	}

	spec, err := instance.LoadSpecFile(path)
	if err != nil {
		return nil, err
	}

	customers := spec.DomainCustomers()
	var m domain.DistanceMatrix
	if spec.Distances != nil {
		m, err = domain.NewDistanceMatrix(spec.Distances)
	} else {
		m, err = euclid.Matrix(ctx, customers)
	}
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}

	return domain.NewInstance(customers, domain.NewFleet(spec.Vehicles, spec.Capacity), m)
}

func printSolution(best *domain.Solution, bestIteration, iterations int) {
	log := obs.Logger()

	for _, r := range best.Routes {
		if r.IsEmpty() {
			continue
		}
		ids := make([]string, 0, r.Len())
		for _, id := range r.StopIDs() {
			ids = append(ids, fmt.Sprint(id))
		}
		log.Info().
			Int("vehicle", r.VehicleID).
			Int("load", r.Load).
			Int("capacity", r.Capacity).
			Float64("cost", r.Cost).
			Msg("Route " + strings.Join(ids, " -> "))
	}

	log.Info().
		Float64("total_cost", best.TotalCost).
		Int("best_iteration", bestIteration).
		Int("iterations", iterations).
		Int("routes_used", best.ActiveRoutes()).
		Msg("Best solution")
}

package main

import (
	"context"
	"cvrp-route-service/internal/adapters/cache"
	"cvrp-route-service/internal/adapters/distance"
	"cvrp-route-service/internal/adapters/instance"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/api"
	"cvrp-route-service/internal/api/handlers"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/platform/db"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	envLoaded := config.LoadEnv()
	log := obs.Logger()

	if !envLoaded {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	defaults, err := config.LoadDefaults(config.Get("SOLVER_CONFIG", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("load solver defaults")
	}
	budget, _ := defaults.Solver.Budget()
	opts, err := services.NewSolveOptions(
		defaults.Solver.TabuHorizon,
		defaults.Solver.Iterations,
		defaults.Solver.TabuRule,
		defaults.Solver.LocalSearch,
		defaults.Solver.LocalSearchMode,
		budget,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid solver defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		runs        ports.RunRepository = repositories.NewMemoryRunRepository(config.GetInt("MEMORY_RUNS", 1000))
		matrixCache ports.MatrixCache
	)

	// Postgres is optional; without it runs live in memory.
	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		conn, err := db.Open(ctx, databaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			log.Fatal().Err(err).Msg("init schema")
		}
		runs = repositories.NewSQLRunRepository(conn)
		matrixCache = cache.NewSQLMatrixCache(conn)
		log.Info().Msg("using postgres run repository")
	}

	var solutionCache ports.SolutionCache
	if redisURL := config.Get("REDIS_URL", ""); redisURL != "" {
		rc, err := cache.NewRedisSolutionCacheFromURL(redisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis solution cache")
		}
		defer rc.Close()
		solutionCache = rc
		log.Info().Msg("using redis solution cache")
	}

	euclid := distance.NewEuclideanMatrixProvider(defaults.Generator.Round)
	generator, err := instance.NewRandomGenerator(euclid, instance.DefaultGeneratorConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("instance generator")
	}

	// Explicit instances use road distances when an ORS key is configured.
	var provider ports.DistanceMatrixProvider = euclid
	if strings.EqualFold(config.Get("DISTANCE_PROVIDER", "euclidean"), "ors") {
		orsKey := config.Get("ORS_API_KEY", "")
		if orsKey == "" {
			log.Fatal().Msg("ORS_API_KEY is required when DISTANCE_PROVIDER=ors")
		}
		ors, err := distance.NewORSMatrixProvider(orsKey, config.Get("ORS_BASE_URL", ""), matrixCache)
		if err != nil {
			log.Fatal().Err(err).Msg("ors matrix provider")
		}
		provider = ors
	}

	svc := services.NewSolveService(
		generator,
		provider,
		runs,
		solutionCache,
		config.GetDuration("SOLUTION_CACHE_TTL", time.Hour),
	)

	limiter := rate.NewLimiter(
		rate.Limit(config.GetInt("SOLVE_RPS", 5)),
		config.GetInt("SOLVE_BURST", 10),
	)

	router := api.NewRouter(api.Deps{
		Solve: &handlers.SolveHandler{
			Service: svc,
			Options: opts,
			Generate: handlers.GenerateDefaults{
				Seed:      defaults.Generator.Seed,
				Customers: defaults.Generator.Customers,
				Vehicles:  defaults.Generator.Vehicles,
				Capacity:  defaults.Generator.Capacity,
			},
			Limits: handlers.SolveLimits{
				MaxCustomers:  config.GetInt("MAX_CUSTOMERS", 1000),
				MaxIterations: config.GetInt("MAX_ITERATIONS", 100000),
			},
		},
		Runs:         runs,
		SolveLimiter: limiter,
	})

	port := config.Get("PORT", "8080")

	// Write timeout leaves room for long tabu runs on large instances.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      config.GetDuration("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}

package main

import (
	"context"
	"cvrp-route-service/internal/adapters/repositories"
	"cvrp-route-service/internal/config"
	"cvrp-route-service/internal/platform/db"
	"cvrp-route-service/internal/platform/obs"
	"database/sql"
	"flag"
	"time"
)

// dbtool prepares the Postgres schema and optionally prunes old runs.
func main() {
	envLoaded := config.LoadEnv()
	log := obs.Logger()

	prune := flag.Duration("prune", 0, "delete runs older than this age (e.g. 720h); 0 keeps all runs")
	flag.Parse()

	if !envLoaded {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	if err := initAndPrune(ctx, conn, *prune); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndPrune(ctx context.Context, conn *sql.DB, age time.Duration) error {
	log := obs.Logger()

	log.Info().Msg("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Info().Msg("Schema ready.")

	if age <= 0 {
		return nil
	}

	n, err := repositories.PruneRuns(ctx, conn, age)
	if err != nil {
		return err
	}
	log.Info().Int64("deleted", n).Dur("older_than", age).Msg("Pruned runs.")
	return nil
}

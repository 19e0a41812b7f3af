package instance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
	"math/rand"
)

// Defaults of the classic random benchmark: a 100×100 grid with the depot in
// the middle and demands drawn uniformly from 4..10.
const (
	DefaultGridSize  = 100
	DefaultMinDemand = 4
	DefaultMaxDemand = 10
)

var DefaultDepot = domain.Coordinates{X: 50, Y: 50}

// GeneratorConfig shapes generated instances.
type GeneratorConfig struct {
	Depot     domain.Coordinates
	GridSize  int
	MinDemand int
	MaxDemand int
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Depot:     DefaultDepot,
		GridSize:  DefaultGridSize,
		MinDemand: DefaultMinDemand,
		MaxDemand: DefaultMaxDemand,
	}
}

func (c GeneratorConfig) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("generator: grid size must be positive, got %d", c.GridSize)
	}
	if c.MinDemand < 0 || c.MaxDemand < c.MinDemand {
		return fmt.Errorf("generator: demand range [%d,%d] is invalid", c.MinDemand, c.MaxDemand)
	}
	return nil
}

// RandomGenerator builds seeded random instances: integer coordinates in
// [0, GridSize) and integer demands in [MinDemand, MaxDemand]. Distances come
// from the configured matrix provider.
type RandomGenerator struct {
	cfg       GeneratorConfig
	distances ports.DistanceMatrixProvider
}

func NewRandomGenerator(distances ports.DistanceMatrixProvider, cfg GeneratorConfig) (*RandomGenerator, error) {
	if distances == nil {
		return nil, errors.New("generator: distance provider is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RandomGenerator{cfg: cfg, distances: distances}, nil
}

// Generate is deterministic for a given seed and configuration.
func (g *RandomGenerator) Generate(ctx context.Context, req ports.GenerateRequest) (*domain.Instance, error) {
	if req.Customers < 0 {
		return nil, fmt.Errorf("generate: customer count must not be negative, got %d", req.Customers)
	}
	if req.Vehicles <= 0 {
		return nil, fmt.Errorf("generate: %w", domain.ErrNoVehicles)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("generate: %w", domain.ErrInvalidCapacity)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	spread := g.cfg.MaxDemand - g.cfg.MinDemand + 1

	customers := make([]domain.Customer, 0, req.Customers+1)
	customers = append(customers, domain.Customer{ID: domain.DepotID, Position: g.cfg.Depot})
	for id := 1; id <= req.Customers; id++ {
		customers = append(customers, domain.Customer{
			ID: id,
			Position: domain.Coordinates{
				X: float64(rng.Intn(g.cfg.GridSize)),
				Y: float64(rng.Intn(g.cfg.GridSize)),
			},
			Demand: g.cfg.MinDemand + rng.Intn(spread),
		})
	}

	m, err := g.distances.Matrix(ctx, customers)
	if err != nil {
		return nil, fmt.Errorf("generate: distances: %w", err)
	}

	inst, err := domain.NewInstance(customers, domain.NewFleet(req.Vehicles, req.Capacity), m)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return inst, nil
}

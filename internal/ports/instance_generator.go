package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Parameters of a generated problem instance.
type GenerateRequest struct {
	Seed      int64
	Customers int
	Vehicles  int
	Capacity  int
}

// Contract for producing problem instances (customers, fleet and distances).
type InstanceGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*domain.Instance, error)
}

// Explicit problem data supplied by a caller. Customers are numbered from 1
// in slice order; the depot takes id 0. Distances may be nil, in which case
// they are computed from positions.
type InstanceSpec struct {
	Depot     domain.Coordinates
	Customers []CustomerSpec
	Vehicles  int
	Capacity  int
	Distances [][]float64
}

type CustomerSpec struct {
	Position domain.Coordinates
	Demand   int
}

// Customer list with the depot at index 0.
func (s InstanceSpec) DomainCustomers() []domain.Customer {
	out := make([]domain.Customer, 0, len(s.Customers)+1)
	out = append(out, domain.Customer{ID: domain.DepotID, Position: s.Depot})
	for i, c := range s.Customers {
		out = append(out, domain.Customer{ID: i + 1, Position: c.Position, Demand: c.Demand})
	}
	return out
}

package domain

import (
	"fmt"
	"math"
)

// CostTolerance bounds the drift accepted between cached and recomputed costs.
const CostTolerance = 1e-6

// Represents a complete assignment of customers to vehicle routes.
// TotalCost always equals the sum of the route costs; every mutation updates
// it incrementally.
type Solution struct {
	Routes    []*Route
	TotalCost float64
}

func NewSolution() *Solution {
	return &Solution{Routes: []*Route{}}
}

// Add a finalized route and fold its cost into the total.
func (s *Solution) AddRoute(r *Route) {
	s.Routes = append(s.Routes, r)
	s.TotalCost += r.Cost
}

// Clone returns a deep copy; mutating the copy never affects s.
func (s *Solution) Clone() *Solution {
	routes := make([]*Route, 0, len(s.Routes))
	for _, r := range s.Routes {
		routes = append(routes, r.Clone())
	}
	return &Solution{Routes: routes, TotalCost: s.TotalCost}
}

// Recompute the total cost from the distance matrix, ignoring cached values.
func (s *Solution) ComputeCost(m DistanceMatrix) float64 {
	total := 0.0
	for _, r := range s.Routes {
		total += r.ComputeCost(m)
	}
	return total
}

// Number of routes that serve at least one customer.
func (s *Solution) ActiveRoutes() int {
	n := 0
	for _, r := range s.Routes {
		if !r.IsEmpty() {
			n++
		}
	}
	return n
}

// Validate checks feasibility, coverage and cost consistency against the
// instance the solution was built for.
func (s *Solution) Validate(inst *Instance) error {
	seen := make(map[int]int, len(inst.Customers))
	routeSum := 0.0

	for ri, r := range s.Routes {
		if r.Len() < 2 || !r.Stops[0].IsDepot() || !r.Last().IsDepot() {
			return fmt.Errorf("%w: route %d does not start and end at the depot", ErrInvalidSolution, ri)
		}

		for _, c := range r.Stops[1 : r.Len()-1] {
			if c.IsDepot() {
				return fmt.Errorf("%w: route %d visits the depot mid-route", ErrInvalidSolution, ri)
			}
			seen[c.ID]++
		}

		if load := r.ComputeLoad(); load != r.Load {
			return fmt.Errorf("%w: route %d load=%d, want %d", ErrInvalidSolution, ri, r.Load, load)
		}
		if r.Load > r.Capacity {
			return fmt.Errorf("%w: route %d load=%d exceeds capacity=%d", ErrInvalidSolution, ri, r.Load, r.Capacity)
		}

		if cost := r.ComputeCost(inst.Distances); math.Abs(cost-r.Cost) > CostTolerance {
			return fmt.Errorf("%w: route %d cost=%f, recomputed %f", ErrInvalidSolution, ri, r.Cost, cost)
		}
		routeSum += r.Cost
	}

	if math.Abs(routeSum-s.TotalCost) > CostTolerance {
		return fmt.Errorf("%w: total cost=%f, sum of routes %f", ErrInvalidSolution, s.TotalCost, routeSum)
	}

	for _, c := range inst.Customers[1:] {
		switch seen[c.ID] {
		case 1:
		case 0:
			return fmt.Errorf("%w: customer %d is not served", ErrInvalidSolution, c.ID)
		default:
			return fmt.Errorf("%w: customer %d is served %d times", ErrInvalidSolution, c.ID, seen[c.ID])
		}
		delete(seen, c.ID)
	}
	if len(seen) > 0 {
		return fmt.Errorf("%w: solution serves customers unknown to the instance", ErrInvalidSolution)
	}

	return nil
}

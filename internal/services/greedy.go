package services

import (
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

// Build an initial solution with a greedy nearest-neighbor heuristic.
//
// Each vehicle repeatedly extends its route with the closest unserved customer
// that still fits its remaining capacity. When nothing fits, the route returns
// to the depot and the next vehicle is dispatched. Ties go to the customer
// listed first. The result is feasible but not optimized.
func BuildGreedySolution(inst *domain.Instance) (*domain.Solution, error) {
	if inst == nil {
		return nil, errors.New("build greedy solution: instance must be non-nil")
	}

	if total, fleet := inst.TotalDemand(), inst.FleetCapacity(); total > fleet {
		return nil, fmt.Errorf(
			"build greedy solution: %w: total demand %d exceeds fleet capacity %d",
			domain.ErrInsufficientFleet, total, fleet,
		)
	}

	depot := inst.Depot()
	dist := inst.Distances

	// Unserved customers in instance order, so the first minimum wins ties.
	unserved := make([]domain.Customer, 0, len(inst.Customers)-1)
	unserved = append(unserved, inst.Customers[1:]...)

	solution := domain.NewSolution()
	nextVehicle := 0

	dispatch := func() (*domain.Route, error) {
		if nextVehicle >= len(inst.Vehicles) {
			return nil, fmt.Errorf(
				"build greedy solution: %w: %d vehicles used, %d customers left",
				domain.ErrInsufficientFleet, len(inst.Vehicles), len(unserved),
			)
		}
		v := inst.Vehicles[nextVehicle]
		nextVehicle++
		return v.Dispatch(depot)
	}

	current, err := dispatch()
	if err != nil {
		return nil, err
	}

	for len(unserved) > 0 {
		last := current.Last()

		bestIdx := -1
		smallest := math.MaxFloat64

		// Select the next stop by minimum distance among customers that fit (greedy step).
		for i, c := range unserved {
			d := dist[last.ID][c.ID]
			if d < smallest && current.Fits(c.Demand) {
				smallest = d
				bestIdx = i
			}
		}

		if bestIdx >= 0 {
			next := unserved[bestIdx]
			if err := current.Serve(next, smallest); err != nil {
				return nil, fmt.Errorf("build greedy solution: %w", err)
			}
			unserved = append(unserved[:bestIdx], unserved[bestIdx+1:]...)
			continue
		}

		// A fresh vehicle that cannot take anyone never will.
		if current.Len() == 1 {
			return nil, fmt.Errorf(
				"build greedy solution: %w: capacity=%d, smallest remaining demand=%d",
				domain.ErrDemandExceedsCapacity, current.Capacity, minDemand(unserved),
			)
		}

		current.Close(depot, dist[last.ID][depot.ID])
		solution.AddRoute(current)

		current, err = dispatch()
		if err != nil {
			return nil, err
		}
	}

	current.Close(depot, dist[current.Last().ID][depot.ID])
	solution.AddRoute(current)

	return solution, nil
}

func minDemand(customers []domain.Customer) int {
	m := math.MaxInt
	for _, c := range customers {
		if c.Demand < m {
			m = c.Demand
		}
	}
	return m
}

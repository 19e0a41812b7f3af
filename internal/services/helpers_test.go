package services

import (
	"cvrp-route-service/internal/domain"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type stop struct {
	x, y   float64
	demand int
}

// euclidInstance builds an instance with unrounded Euclidean distances.
func euclidInstance(t *testing.T, vehicles, capacity int, depot domain.Coordinates, stops ...stop) *domain.Instance {
	t.Helper()

	customers := []domain.Customer{{ID: domain.DepotID, Position: depot}}
	for i, s := range stops {
		customers = append(customers, domain.Customer{
			ID:       i + 1,
			Position: domain.Coordinates{X: s.x, Y: s.y},
			Demand:   s.demand,
		})
	}

	return instanceFromCustomers(t, customers, vehicles, capacity, false)
}

// randomInstance mirrors the classic benchmark: integer coordinates in
// [0,100), demands 4..10 and rounded distances.
func randomInstance(t *testing.T, seed int64, n, vehicles, capacity int) *domain.Instance {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	customers := []domain.Customer{{ID: domain.DepotID, Position: domain.Coordinates{X: 50, Y: 50}}}
	for id := 1; id <= n; id++ {
		customers = append(customers, domain.Customer{
			ID:       id,
			Position: domain.Coordinates{X: float64(rng.Intn(100)), Y: float64(rng.Intn(100))},
			Demand:   4 + rng.Intn(7),
		})
	}

	return instanceFromCustomers(t, customers, vehicles, capacity, true)
}

// lineInstance places customer i at x=i on a line, so d(i,j) = |i-j|.
func lineInstance(t *testing.T, n, vehicles, capacity, demand int) *domain.Instance {
	t.Helper()

	customers := []domain.Customer{{ID: domain.DepotID}}
	for id := 1; id <= n; id++ {
		customers = append(customers, domain.Customer{
			ID:       id,
			Position: domain.Coordinates{X: float64(id)},
			Demand:   demand,
		})
	}

	return instanceFromCustomers(t, customers, vehicles, capacity, false)
}

func instanceFromCustomers(t *testing.T, customers []domain.Customer, vehicles, capacity int, round bool) *domain.Instance {
	t.Helper()

	n := len(customers)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := customers[i].Position.DistanceTo(customers[j].Position)
			if round {
				d = math.Round(d)
			}
			rows[i][j], rows[j][i] = d, d
		}
	}

	m, err := domain.NewDistanceMatrix(rows)
	require.NoError(t, err)

	inst, err := domain.NewInstance(customers, domain.NewFleet(vehicles, capacity), m)
	require.NoError(t, err)
	return inst
}

// solutionOf builds a solution whose routes visit the given customer ids.
// Depot endpoints are added automatically.
func solutionOf(t *testing.T, inst *domain.Instance, routes ...[]int) *domain.Solution {
	t.Helper()
	require.LessOrEqual(t, len(routes), len(inst.Vehicles))

	sol := domain.NewSolution()
	for i, ids := range routes {
		v := inst.Vehicles[i]
		r := &domain.Route{VehicleID: v.VehicleID, Capacity: v.Capacity}
		r.Stops = append(r.Stops, inst.Depot())
		for _, id := range ids {
			r.Stops = append(r.Stops, inst.Customers[id])
		}
		r.Stops = append(r.Stops, inst.Depot())
		r.Load = r.ComputeLoad()
		r.Cost = r.ComputeCost(inst.Distances)
		sol.AddRoute(r)
	}
	sol.TotalCost = sol.ComputeCost(inst.Distances)
	return sol
}

// exampleInstance is the four-customer instance with two far-apart pairs.
func exampleInstance(t *testing.T) *domain.Instance {
	return euclidInstance(t, 2, 10, domain.Coordinates{X: 50, Y: 50},
		stop{x: 0, y: 0, demand: 5},
		stop{x: 0, y: 10, demand: 5},
		stop{x: 100, y: 100, demand: 5},
		stop{x: 100, y: 90, demand: 5},
	)
}

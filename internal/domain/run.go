package domain

import "time"

// Kind of move applied during one search iteration.
type MoveKind string

const (
	MoveIntra MoveKind = "intra"
	MoveInter MoveKind = "inter"
	// No admissible move existed; the iteration left the solution unchanged.
	MoveIdle MoveKind = "idle"
)

// One entry of a search trace.
type IterationRecord struct {
	Iteration int
	Move      MoveKind
	Delta     float64
	Cost      float64
	BestCost  float64
}

// Stored form of a route: stop ids only, the instance owns the customers.
type RunRoute struct {
	VehicleID int
	Stops     []int
	Load      int
	Cost      float64
}

// Represents one completed optimization run as persisted and served by the API.
type Run struct {
	ID          string
	Fingerprint string
	CreatedAt   time.Time

	Customers int
	Vehicles  int
	Capacity  int
	Seed      *int64

	TabuHorizon int
	Iterations  int
	TabuRule    string
	LocalSearch bool

	// "combined" or "intra"; empty when LocalSearch is off.
	LocalSearchMode string

	InitialCost     float64
	LocalSearchCost float64
	BestCost        float64
	BestIteration   int
	DurationMillis  int64

	Routes []RunRoute
	Trace  []IterationRecord
}

// Convert a solution into its stored form.
func RunRoutes(s *Solution) []RunRoute {
	out := make([]RunRoute, 0, len(s.Routes))
	for _, r := range s.Routes {
		out = append(out, RunRoute{
			VehicleID: r.VehicleID,
			Stops:     r.StopIDs(),
			Load:      r.Load,
			Cost:      r.Cost,
		})
	}
	return out
}

package dto

import "time"

type RouteResponse struct {
	VehicleID int     `json:"vehicle_id"`
	Stops     []int   `json:"stops"`
	Load      int     `json:"load"`
	Cost      float64 `json:"cost"`
}

type IterationResponse struct {
	Iteration int     `json:"iteration"`
	Move      string  `json:"move"`
	Delta     float64 `json:"delta"`
	Cost      float64 `json:"cost"`
	BestCost  float64 `json:"best_cost"`
}

type RunResponse struct {
	ID              string              `json:"id"`
	Fingerprint     string              `json:"fingerprint"`
	CreatedAt       time.Time           `json:"created_at"`
	Customers       int                 `json:"customers"`
	Vehicles        int                 `json:"vehicles"`
	Capacity        int                 `json:"capacity"`
	Seed            *int64              `json:"seed,omitempty"`
	TabuHorizon     int                 `json:"tabu_horizon"`
	Iterations      int                 `json:"iterations"`
	TabuRule        string              `json:"tabu_rule"`
	LocalSearch     bool                `json:"local_search"`
	LocalSearchMode string              `json:"local_search_mode,omitempty"`
	InitialCost     float64             `json:"initial_cost"`
	LocalSearchCost float64             `json:"local_search_cost"`
	BestCost        float64             `json:"best_cost"`
	BestIteration   int                 `json:"best_iteration"`
	DurationMillis  int64               `json:"duration_ms"`
	Routes          []RouteResponse     `json:"routes"`
	Trace           []IterationResponse `json:"trace,omitempty"`
}

type RunSummaryResponse struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Customers     int       `json:"customers"`
	Vehicles      int       `json:"vehicles"`
	InitialCost   float64   `json:"initial_cost"`
	BestCost      float64   `json:"best_cost"`
	BestIteration int       `json:"best_iteration"`
}

type ListRunsResponse struct {
	Runs []RunSummaryResponse `json:"runs"`
}

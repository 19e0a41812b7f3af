package dto

type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CustomerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand int     `json:"demand"`
}

// Explicit problem data. Customers receive ids 1..n in request order.
type InstanceRequest struct {
	Depot     PointRequest      `json:"depot"`
	Customers []CustomerRequest `json:"customers"`
	Vehicles  int               `json:"vehicles"`
	Capacity  int               `json:"capacity"`
	Distances [][]float64       `json:"distances,omitempty"`
}

type GenerateRequest struct {
	Seed      *int64 `json:"seed"`
	Customers *int   `json:"customers"`
	Vehicles  *int   `json:"vehicles"`
	Capacity  *int   `json:"capacity"`
}

// Unset fields fall back to the server defaults.
type OptionsRequest struct {
	TabuHorizon     *int   `json:"tabu_horizon"`
	Iterations      *int   `json:"iterations"`
	TabuRule        string `json:"tabu_rule"`
	LocalSearch     *bool  `json:"local_search"`
	LocalSearchMode string `json:"local_search_mode"`
	IncludeTrace    bool   `json:"include_trace"`
	TimeBudgetMs    *int64 `json:"time_budget_ms"`
}

type SolveRequest struct {
	Instance *InstanceRequest `json:"instance"`
	Generate *GenerateRequest `json:"generate"`
	Options  *OptionsRequest  `json:"options"`
}

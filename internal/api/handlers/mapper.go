package handlers

import (
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/domain"
)

func toRunResponse(run *domain.Run) dto.RunResponse {
	res := dto.RunResponse{
		ID:              run.ID,
		Fingerprint:     run.Fingerprint,
		CreatedAt:       run.CreatedAt,
		Customers:       run.Customers,
		Vehicles:        run.Vehicles,
		Capacity:        run.Capacity,
		Seed:            run.Seed,
		TabuHorizon:     run.TabuHorizon,
		Iterations:      run.Iterations,
		TabuRule:        run.TabuRule,
		LocalSearch:     run.LocalSearch,
		LocalSearchMode: run.LocalSearchMode,
		InitialCost:     run.InitialCost,
		LocalSearchCost: run.LocalSearchCost,
		BestCost:        run.BestCost,
		BestIteration:   run.BestIteration,
		DurationMillis:  run.DurationMillis,
		Routes:          make([]dto.RouteResponse, 0, len(run.Routes)),
	}

	for _, r := range run.Routes {
		res.Routes = append(res.Routes, dto.RouteResponse{
			VehicleID: r.VehicleID,
			Stops:     r.Stops,
			Load:      r.Load,
			Cost:      r.Cost,
		})
	}

	if len(run.Trace) > 0 {
		res.Trace = make([]dto.IterationResponse, 0, len(run.Trace))
		for _, it := range run.Trace {
			res.Trace = append(res.Trace, dto.IterationResponse{
				Iteration: it.Iteration,
				Move:      string(it.Move),
				Delta:     it.Delta,
				Cost:      it.Cost,
				BestCost:  it.BestCost,
			})
		}
	}

	return res
}

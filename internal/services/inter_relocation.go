package services

import (
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
)

// FindBestInterMove returns the most cost-reducing relocation of a customer
// into another route with enough spare capacity, or the null move when no
// relocation improves the solution.
func FindBestInterMove(sol *domain.Solution, dist domain.DistanceMatrix) domain.InterMove {
	move := scanInter(sol, dist, admitAll)
	if move.Delta >= 0 {
		return domain.NullInterMove()
	}
	return move
}

// scanInter evaluates every capacity-feasible inter-route relocation admitted
// by admit and returns the cheapest one regardless of sign.
func scanInter(sol *domain.Solution, dist domain.DistanceMatrix, admit admitFunc) domain.InterMove {
	best := domain.NullInterMove()

	for ri, origin := range sol.Routes {
		src := origin.Stops
		if len(src) < 3 {
			continue
		}

		for j := 1; j < len(src)-1; j++ {
			customer := src[j]
			pred, node, succ := src[j-1].ID, customer.ID, src[j+1].ID

			for rk, dest := range sol.Routes {
				// Same-route relocation is the intra search's job.
				if rk == ri {
					continue
				}
				if !dest.Fits(customer.Demand) {
					continue
				}

				dst := dest.Stops
				for l := 0; l < len(dst)-1; l++ {
					after, afterSucc := dst[l].ID, dst[l+1].ID

					costRemoved := dist[pred][node] + dist[node][succ] + dist[after][afterSucc]
					costAdded := dist[after][node] + dist[node][afterSucc] + dist[pred][succ]

					originDelta := dist[pred][succ] - dist[pred][node] - dist[node][succ]
					destinationDelta := dist[after][node] + dist[node][afterSucc] - dist[after][afterSucc]

					delta := costAdded - costRemoved

					if delta < best.Delta && admit(createdArcs(pred, node, succ, after, afterSucc)) {
						best = domain.InterMove{
							FromRoute:        ri,
							ToRoute:          rk,
							From:             j,
							To:               l,
							Delta:            delta,
							OriginDelta:      originDelta,
							DestinationDelta: destinationDelta,
						}
					}
				}
			}
		}
	}

	return best
}

// ApplyInterMove moves the customer between the two routes, shifting load
// and cost between them and updating the total cost by the move's delta.
func ApplyInterMove(sol *domain.Solution, move domain.InterMove) error {
	if move.IsNull() {
		return errors.New("apply inter move: move is null")
	}
	if move.FromRoute == move.ToRoute {
		return fmt.Errorf("apply inter move: origin and destination are both route %d", move.FromRoute)
	}
	if move.FromRoute < 0 || move.ToRoute < 0 || move.FromRoute >= len(sol.Routes) || move.ToRoute >= len(sol.Routes) {
		return fmt.Errorf(
			"apply inter move: routes %d -> %d out of range (routes=%d)",
			move.FromRoute, move.ToRoute, len(sol.Routes),
		)
	}

	origin := sol.Routes[move.FromRoute]
	dest := sol.Routes[move.ToRoute]

	if move.From <= 0 || move.From >= origin.Len()-1 || move.To < 0 || move.To >= dest.Len()-1 {
		return fmt.Errorf(
			"apply inter move: positions from=%d to=%d out of range (origin len=%d dest len=%d)",
			move.From, move.To, origin.Len(), dest.Len(),
		)
	}

	customer := origin.Stops[move.From]
	if !dest.Fits(customer.Demand) {
		return fmt.Errorf(
			"apply inter move: customer %d (demand=%d) does not fit vehicle %d (load=%d capacity=%d)",
			customer.ID, customer.Demand, dest.VehicleID, dest.Load, dest.Capacity,
		)
	}

	sol.TotalCost += move.Delta
	origin.Cost += move.OriginDelta
	dest.Cost += move.DestinationDelta

	node := origin.RemoveAt(move.From)
	origin.Load -= node.Demand
	dest.Load += node.Demand
	dest.InsertAt(node, move.To+1)

	return nil
}

// Arcs removed from both routes when the inter move is applied.
func interDestroyedArcs(sol *domain.Solution, move domain.InterMove) [3]Arc {
	src := sol.Routes[move.FromRoute].Stops
	dst := sol.Routes[move.ToRoute].Stops
	return destroyedArcs(
		src[move.From-1].ID, src[move.From].ID, src[move.From+1].ID,
		dst[move.To].ID, dst[move.To+1].ID,
	)
}

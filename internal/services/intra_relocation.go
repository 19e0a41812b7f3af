package services

import (
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
)

// admitFunc decides whether a candidate move creating the given arcs may be selected.
type admitFunc func(created [3]Arc) bool

func admitAll([3]Arc) bool { return true }

// FindBestIntraMove returns the most cost-reducing relocation of a customer
// within its own route, or the null move when no relocation improves the solution.
func FindBestIntraMove(sol *domain.Solution, dist domain.DistanceMatrix) domain.IntraMove {
	move := scanIntra(sol, dist, admitAll)
	if move.Delta >= 0 {
		return domain.NullIntraMove()
	}
	return move
}

// scanIntra evaluates every intra-route relocation admitted by admit and
// returns the cheapest one regardless of sign. First minimum wins on ties.
func scanIntra(sol *domain.Solution, dist domain.DistanceMatrix, admit admitFunc) domain.IntraMove {
	best := domain.NullIntraMove()

	for ri, r := range sol.Routes {
		stops := r.Stops
		// Depot-to-depot routes have nothing to relocate.
		if len(stops) < 3 {
			continue
		}

		for j := 1; j < len(stops)-1; j++ {
			pred, node, succ := stops[j-1].ID, stops[j].ID, stops[j+1].ID

			for k := 0; k < len(stops)-1; k++ {
				// Reinserting after itself or after its predecessor is a no-op.
				if k == j || k == j-1 {
					continue
				}

				after, afterSucc := stops[k].ID, stops[k+1].ID

				costRemoved := dist[pred][node] + dist[node][succ] + dist[after][afterSucc]
				costAdded := dist[after][node] + dist[node][afterSucc] + dist[pred][succ]
				delta := costAdded - costRemoved

				if delta < best.Delta && admit(createdArcs(pred, node, succ, after, afterSucc)) {
					best = domain.IntraMove{Route: ri, From: j, To: k, Delta: delta}
				}
			}
		}
	}

	return best
}

// ApplyIntraMove relocates the customer and updates route and total cost by
// the move's delta. The route load is unchanged.
func ApplyIntraMove(sol *domain.Solution, move domain.IntraMove) error {
	if move.IsNull() {
		return errors.New("apply intra move: move is null")
	}
	if move.Route < 0 || move.Route >= len(sol.Routes) {
		return fmt.Errorf("apply intra move: route %d out of range (routes=%d)", move.Route, len(sol.Routes))
	}

	r := sol.Routes[move.Route]
	if move.From <= 0 || move.From >= r.Len()-1 || move.To < 0 || move.To >= r.Len()-1 {
		return fmt.Errorf("apply intra move: positions from=%d to=%d out of range (len=%d)", move.From, move.To, r.Len())
	}

	sol.TotalCost += move.Delta
	r.Cost += move.Delta

	node := r.RemoveAt(move.From)
	// Removing before the insertion point already shifted the target left by one.
	if move.From < move.To {
		r.InsertAt(node, move.To)
	} else {
		r.InsertAt(node, move.To+1)
	}

	return nil
}

// Arcs removed from the route when the intra move is applied.
func intraDestroyedArcs(sol *domain.Solution, move domain.IntraMove) [3]Arc {
	stops := sol.Routes[move.Route].Stops
	return destroyedArcs(
		stops[move.From-1].ID, stops[move.From].ID, stops[move.From+1].ID,
		stops[move.To].ID, stops[move.To+1].ID,
	)
}

// Arcs a relocation creates: after->node, node->afterSucc and pred->succ.
func createdArcs(pred, node, succ, after, afterSucc int) [3]Arc {
	return [3]Arc{
		{From: after, To: node},
		{From: node, To: afterSucc},
		{From: pred, To: succ},
	}
}

// Arcs a relocation destroys: pred->node, node->succ and after->afterSucc.
func destroyedArcs(pred, node, succ, after, afterSucc int) [3]Arc {
	return [3]Arc{
		{From: pred, To: node},
		{From: node, To: succ},
		{From: after, To: afterSucc},
	}
}

package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
	"strings"
)

// LocalSearchMode selects the neighborhoods explored by LocalSearch.
type LocalSearchMode int

const (
	LocalSearchCombined LocalSearchMode = iota
	LocalSearchIntraOnly
)

func (m LocalSearchMode) String() string {
	switch m {
	case LocalSearchCombined:
		return "combined"
	case LocalSearchIntraOnly:
		return "intra"
	default:
		return fmt.Sprintf("LocalSearchMode(%d)", int(m))
	}
}

// ParseLocalSearchMode accepts "combined" or "intra"; the empty string selects combined.
func ParseLocalSearchMode(s string) (LocalSearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "combined":
		return LocalSearchCombined, nil
	case "intra":
		return LocalSearchIntraOnly, nil
	default:
		return 0, fmt.Errorf("parse local search mode: unknown mode %q (want \"combined\" or \"intra\")", s)
	}
}

// Deltas above -improvementEps count as rounding noise, not improvement.
const improvementEps = 1e-9

func improves(delta float64) bool { return delta < -improvementEps }

// LocalSearchResult summarizes a hill-climbing run.
type LocalSearchResult struct {
	// Improving moves applied.
	Moves int
	Trace []domain.IterationRecord
}

// LocalSearch hill-climbs sol in place with best-improvement relocation moves
// and stops at the first iteration without an improving move.
// In combined mode the inter move is applied only when strictly cheaper.
func LocalSearch(
	ctx context.Context,
	inst *domain.Instance,
	sol *domain.Solution,
	mode LocalSearchMode,
) (LocalSearchResult, error) {
	var res LocalSearchResult
	if inst == nil || sol == nil {
		return res, errors.New("local search: instance and solution must be non-nil")
	}
	if mode != LocalSearchCombined && mode != LocalSearchIntraOnly {
		return res, fmt.Errorf("local search: %w: unknown mode %s", ErrInvalidOptions, mode)
	}

	dist := inst.Distances

	for it := 1; ; it++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("local search: stopped at iteration %d: %w", it, err)
		}

		intra := FindBestIntraMove(sol, dist)
		inter := domain.NullInterMove()
		if mode == LocalSearchCombined {
			inter = FindBestInterMove(sol, dist)
		}

		if !improves(intra.Delta) && !improves(inter.Delta) {
			return res, nil
		}

		rec := domain.IterationRecord{Iteration: it}
		if inter.Delta < intra.Delta {
			if err := ApplyInterMove(sol, inter); err != nil {
				return res, fmt.Errorf("local search: %w", err)
			}
			rec.Move, rec.Delta = domain.MoveInter, inter.Delta
		} else {
			if err := ApplyIntraMove(sol, intra); err != nil {
				return res, fmt.Errorf("local search: %w", err)
			}
			rec.Move, rec.Delta = domain.MoveIntra, intra.Delta
		}

		rec.Cost = sol.TotalCost
		rec.BestCost = sol.TotalCost
		res.Moves++
		res.Trace = append(res.Trace, rec)
	}
}

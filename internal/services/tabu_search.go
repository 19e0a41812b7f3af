package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"fmt"
	"time"
)

// TabuResult is the outcome of a tabu search run.
type TabuResult struct {
	// Lowest-cost solution seen, independent of the working solution.
	Best *domain.Solution
	// Iteration at which Best was recorded; 0 means the initial solution.
	BestIteration int
	// Iterations actually executed.
	Iterations int
	Trace      []domain.IterationRecord
}

// TabuSearcher drives relocation-based tabu search over a working solution.
//
// Each iteration applies the cheapest admissible intra or inter move, even
// when it worsens the solution, so the search can leave local optima. Arcs
// destroyed by the applied move become tabu for Horizon iterations.
// A TabuSearcher is not safe for concurrent use.
type TabuSearcher struct {
	inst   *domain.Instance
	opts   TabuOptions
	memory *TabuMemory

	current       *domain.Solution
	best          *domain.Solution
	bestIteration int
}

// NewTabuSearcher takes ownership of initial; callers must not mutate it afterwards.
func NewTabuSearcher(inst *domain.Instance, initial *domain.Solution, opts TabuOptions) (*TabuSearcher, error) {
	if inst == nil || initial == nil {
		return nil, errors.New("new tabu searcher: instance and initial solution must be non-nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("new tabu searcher: %w", err)
	}

	return &TabuSearcher{
		inst:    inst,
		opts:    opts,
		memory:  NewTabuMemory(len(inst.Customers), opts.Horizon, opts.Rule),
		current: initial,
		best:    initial.Clone(),
	}, nil
}

func (s *TabuSearcher) Current() *domain.Solution { return s.current }

func (s *TabuSearcher) Memory() *TabuMemory { return s.memory }

// Best returns the best solution so far and the iteration it was found at.
func (s *TabuSearcher) Best() (*domain.Solution, int) { return s.best, s.bestIteration }

// Step runs iteration t: select the cheapest non-tabu move, apply it, record
// the arcs it destroyed and update the best solution.
func (s *TabuSearcher) Step(t int) (domain.IterationRecord, error) {
	dist := s.inst.Distances
	admit := s.memory.admitsAt(t)

	intra := scanIntra(s.current, dist, admit)
	inter := scanInter(s.current, dist, admit)

	rec := domain.IterationRecord{Iteration: t}

	switch {
	case intra.IsNull() && inter.IsNull():
		rec.Move = domain.MoveIdle

	// Intra wins ties.
	case inter.Delta < intra.Delta:
		destroyed := interDestroyedArcs(s.current, inter)
		if err := ApplyInterMove(s.current, inter); err != nil {
			return rec, fmt.Errorf("tabu step %d: %w", t, err)
		}
		s.memory.Forbid(destroyed, t)
		rec.Move, rec.Delta = domain.MoveInter, inter.Delta

	default:
		destroyed := intraDestroyedArcs(s.current, intra)
		if err := ApplyIntraMove(s.current, intra); err != nil {
			return rec, fmt.Errorf("tabu step %d: %w", t, err)
		}
		s.memory.Forbid(destroyed, t)
		rec.Move, rec.Delta = domain.MoveIntra, intra.Delta
	}

	if s.current.TotalCost < s.best.TotalCost {
		s.best = s.current.Clone()
		s.bestIteration = t
	}

	rec.Cost = s.current.TotalCost
	rec.BestCost = s.best.TotalCost
	return rec, nil
}

// Run executes the full iteration budget. It stops early only when the
// optional time budget elapses or ctx is done; cancellation returns ctx's error.
func (s *TabuSearcher) Run(ctx context.Context) (*TabuResult, error) {
	var deadline time.Time
	if s.opts.TimeBudget > 0 {
		deadline = time.Now().Add(s.opts.TimeBudget)
	}
	withinBudget := func() bool { return deadline.IsZero() || time.Now().Before(deadline) }

	res := &TabuResult{Trace: make([]domain.IterationRecord, 0, min(s.opts.Iterations, 4096))}

	for t := 1; t <= s.opts.Iterations && withinBudget(); t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("tabu search: stopped at iteration %d: %w", t, err)
		}

		rec, err := s.Step(t)
		if err != nil {
			return nil, fmt.Errorf("tabu search: %w", err)
		}
		res.Trace = append(res.Trace, rec)
		res.Iterations = t
	}

	res.Best, res.BestIteration = s.Best()
	return res, nil
}

// TabuSearch improves initial with tabu search. initial becomes the working
// solution and is mutated in place; the returned Best never aliases it.
func TabuSearch(ctx context.Context, inst *domain.Instance, initial *domain.Solution, opts TabuOptions) (*TabuResult, error) {
	searcher, err := NewTabuSearcher(inst, initial, opts)
	if err != nil {
		return nil, err
	}
	return searcher.Run(ctx)
}

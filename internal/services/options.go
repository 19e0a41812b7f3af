package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidOptions = errors.New("invalid solver options")

const (
	DefaultTabuHorizon = 20
	DefaultIterations  = 200
)

// Tunables of the tabu search driver.
type TabuOptions struct {
	// Iterations an arc stays forbidden after being destroyed.
	Horizon int
	// Number of iterations the driver runs.
	Iterations int
	Rule       TabuRule
	// Optional wall-clock cap; zero means no cap.
	TimeBudget time.Duration
}

func DefaultTabuOptions() TabuOptions {
	return TabuOptions{
		Horizon:    DefaultTabuHorizon,
		Iterations: DefaultIterations,
		Rule:       TabuRuleAllArcs,
	}
}

func (o TabuOptions) Validate() error {
	if o.Horizon <= 0 {
		return fmt.Errorf("%w: tabu horizon must be positive, got %d", ErrInvalidOptions, o.Horizon)
	}
	if o.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidOptions, o.Iterations)
	}
	if o.Rule != TabuRuleAllArcs && o.Rule != TabuRuleAnyArc {
		return fmt.Errorf("%w: unknown tabu rule %s", ErrInvalidOptions, o.Rule)
	}
	if o.TimeBudget < 0 {
		return fmt.Errorf("%w: time budget must not be negative, got %s", ErrInvalidOptions, o.TimeBudget)
	}
	return nil
}

// NewSolveOptions builds validated options from raw configuration values.
func NewSolveOptions(
	horizon, iterations int,
	rule string,
	localSearch bool,
	lsMode string,
	budget time.Duration,
) (SolveOptions, error) {
	r, err := ParseTabuRule(rule)
	if err != nil {
		return SolveOptions{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	mode, err := ParseLocalSearchMode(lsMode)
	if err != nil {
		return SolveOptions{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	opts := SolveOptions{
		Tabu: TabuOptions{
			Horizon:    horizon,
			Iterations: iterations,
			Rule:       r,
			TimeBudget: budget,
		},
		LocalSearch:     localSearch,
		LocalSearchMode: mode,
	}
	if err := opts.Tabu.Validate(); err != nil {
		return SolveOptions{}, err
	}
	return opts, nil
}

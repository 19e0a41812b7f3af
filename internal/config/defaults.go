package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Solver tunables applied when a request leaves them unset.
type SolverDefaults struct {
	TabuHorizon int    `yaml:"tabu_horizon"`
	Iterations  int    `yaml:"iterations"`
	TabuRule    string `yaml:"tabu_rule"`

	LocalSearch bool `yaml:"local_search"`
	// "combined" (intra and inter moves) or "intra".
	LocalSearchMode string `yaml:"local_search_mode"`

	// Go duration string; empty or "0s" means no time budget.
	TimeBudget string `yaml:"time_budget"`
}

// Parameters of the random benchmark instance.
type GeneratorDefaults struct {
	Customers int   `yaml:"customers"`
	Vehicles  int   `yaml:"vehicles"`
	Capacity  int   `yaml:"capacity"`
	Seed      int64 `yaml:"seed"`
	Round     bool  `yaml:"round"`
}

type Defaults struct {
	Solver    SolverDefaults    `yaml:"solver"`
	Generator GeneratorDefaults `yaml:"generator"`
}

func BuiltinDefaults() Defaults {
	return Defaults{
		Solver: SolverDefaults{
			TabuHorizon: 20,
			Iterations:  200,
			TabuRule:        "all",
			LocalSearchMode: "combined",
		},
		Generator: GeneratorDefaults{
			Customers: 30,
			Vehicles:  10,
			Capacity:  50,
			Seed:      61092,
			Round:     true,
		},
	}
}

// LoadDefaults starts from the built-in values, overlays the YAML file at
// path (skipped when path is empty) and finally applies env overrides.
func LoadDefaults(path string) (Defaults, error) {
	d := BuiltinDefaults()

	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return d, fmt.Errorf("load defaults: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(bytes, &d); err != nil {
			return d, fmt.Errorf("load defaults: parse yaml %q: %w", path, err)
		}
	}

	d.Solver.TabuHorizon = GetInt("TABU_HORIZON", d.Solver.TabuHorizon)
	d.Solver.Iterations = GetInt("TABU_ITERATIONS", d.Solver.Iterations)
	d.Solver.TabuRule = Get("TABU_RULE", d.Solver.TabuRule)
	d.Solver.LocalSearch = GetBool("LOCAL_SEARCH", d.Solver.LocalSearch)
	d.Solver.LocalSearchMode = Get("LOCAL_SEARCH_MODE", d.Solver.LocalSearchMode)
	d.Solver.TimeBudget = Get("TIME_BUDGET", d.Solver.TimeBudget)

	d.Generator.Customers = GetInt("GEN_CUSTOMERS", d.Generator.Customers)
	d.Generator.Vehicles = GetInt("GEN_VEHICLES", d.Generator.Vehicles)
	d.Generator.Capacity = GetInt("GEN_CAPACITY", d.Generator.Capacity)
	d.Generator.Seed = GetInt64("GEN_SEED", d.Generator.Seed)
	d.Generator.Round = GetBool("GEN_ROUND", d.Generator.Round)

	if _, err := d.Solver.Budget(); err != nil {
		return d, fmt.Errorf("load defaults: %w", err)
	}

	return d, nil
}

// Budget parses TimeBudget.
func (s SolverDefaults) Budget() (time.Duration, error) {
	if s.TimeBudget == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.TimeBudget)
	if err != nil {
		return 0, fmt.Errorf("time budget %q: %w", s.TimeBudget, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("time budget %q must not be negative", s.TimeBudget)
	}
	return d, nil
}

package services

import (
	"fmt"
	"strings"
)

// Directed edge between two customer ids.
type Arc struct {
	From int
	To   int
}

// neverTabu is the expiry of an arc that was never destroyed.
const neverTabu = -1

// TabuRule selects how many created arcs must be forbidden for a candidate
// move to be tabu.
type TabuRule int

const (
	// A move is tabu only when all three arcs it creates are forbidden.
	TabuRuleAllArcs TabuRule = iota
	// A move is tabu as soon as one of the arcs it creates is forbidden.
	TabuRuleAnyArc
)

func (r TabuRule) String() string {
	switch r {
	case TabuRuleAllArcs:
		return "all"
	case TabuRuleAnyArc:
		return "any"
	default:
		return fmt.Sprintf("TabuRule(%d)", int(r))
	}
}

// ParseTabuRule accepts "all" or "any"; the empty string selects the default.
func ParseTabuRule(s string) (TabuRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TabuRuleAllArcs, nil
	case "any":
		return TabuRuleAnyArc, nil
	default:
		return 0, fmt.Errorf("parse tabu rule: unknown rule %q (want \"all\" or \"any\")", s)
	}
}

// TabuMemory remembers the arcs destroyed by recently applied moves and
// forbids re-creating them until their horizon has passed.
//
// Expiries live in a dense n×n matrix indexed by customer id. The iteration
// counter is always supplied by the caller.
type TabuMemory struct {
	horizon int
	rule    TabuRule
	expiry  [][]int
}

func NewTabuMemory(customers int, horizon int, rule TabuRule) *TabuMemory {
	expiry := make([][]int, customers)
	for i := range expiry {
		expiry[i] = make([]int, customers)
		for j := range expiry[i] {
			expiry[i][j] = neverTabu
		}
	}

	return &TabuMemory{horizon: horizon, rule: rule, expiry: expiry}
}

// Forbid marks the arcs destroyed at iteration t as tabu until t+horizon.
func (m *TabuMemory) Forbid(destroyed [3]Arc, t int) {
	for _, a := range destroyed {
		m.expiry[a.From][a.To] = t + m.horizon
	}
}

// IsForbidden reports whether arc a may not be created at iteration t.
func (m *TabuMemory) IsForbidden(a Arc, t int) bool {
	return t <= m.expiry[a.From][a.To]
}

// IsTabu reports whether a move creating the given arcs is excluded at iteration t.
func (m *TabuMemory) IsTabu(created [3]Arc, t int) bool {
	forbidden := 0
	for _, a := range created {
		if m.IsForbidden(a, t) {
			forbidden++
		}
	}

	if m.rule == TabuRuleAnyArc {
		return forbidden > 0
	}
	return forbidden == len(created)
}

// Expiry returns the last iteration at which arc a is forbidden, or -1.
func (m *TabuMemory) Expiry(a Arc) int { return m.expiry[a.From][a.To] }

func (m *TabuMemory) admitsAt(t int) admitFunc {
	return func(created [3]Arc) bool { return !m.IsTabu(created, t) }
}

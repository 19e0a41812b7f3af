package repositories

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// In-memory RunRepository used when no database is configured.
// Keeps at most max runs, dropping the oldest first.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	max  int
	runs map[string]*domain.Run
	// insertion order, oldest first
	order []string
}

func NewMemoryRunRepository(max int) *MemoryRunRepository {
	if max <= 0 {
		max = 1000
	}
	return &MemoryRunRepository{max: max, runs: make(map[string]*domain.Run)}
}

func (m *MemoryRunRepository) SaveRun(_ context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return errors.New("save run: run id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[run.ID]; !ok {
		m.order = append(m.order, run.ID)
	}
	cp := *run
	m.runs[run.ID] = &cp

	for len(m.order) > m.max {
		delete(m.runs, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

func (m *MemoryRunRepository) GetRun(_ context.Context, id string) (*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("get run id=%q: %w", id, ports.ErrRunNotFound)
	}
	cp := *run
	return &cp, nil
}

func (m *MemoryRunRepository) ListRuns(_ context.Context, limit int) ([]*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Run, 0, len(m.runs))
	for _, r := range m.runs {
		cp := *r
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit < 0 {
		limit = 0
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

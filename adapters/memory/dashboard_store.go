package memory

import (
	"context"
	"sort"
	"sync"

	"sheetlens/domain/core"
	"sheetlens/domain/dashboard"
	"sheetlens/internal/errors"
	"sheetlens/ports"
)

// dashboardStore is an in-memory DashboardStore for tests and for running
// the server without a database.
type dashboardStore struct {
	mu    sync.RWMutex
	items map[core.ID]*dashboard.SavedDashboard
}

// NewDashboardStore creates an empty in-memory store
func NewDashboardStore() ports.DashboardStore {
	return &dashboardStore{items: make(map[core.ID]*dashboard.SavedDashboard)}
}

func (s *dashboardStore) Get(ctx context.Context, id core.ID) (*dashboard.SavedDashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.items[id]
	if !ok {
		return nil, errors.NotFound("dashboard")
	}
	return clone(d), nil
}

func (s *dashboardStore) List(ctx context.Context) ([]*dashboard.SavedDashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*dashboard.SavedDashboard, 0, len(s.items))
	for _, d := range s.items {
		result = append(result, clone(d))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[j].UpdatedAt.Before(result[i].UpdatedAt)
	})
	return result, nil
}

func (s *dashboardStore) Save(ctx context.Context, d *dashboard.SavedDashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[d.ID] = clone(d)
	return nil
}

func (s *dashboardStore) Delete(ctx context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errors.NotFound("dashboard")
	}
	delete(s.items, id)
	return nil
}

// clone keeps callers from mutating stored state through returned pointers
func clone(d *dashboard.SavedDashboard) *dashboard.SavedDashboard {
	out := *d
	out.Versions = make([]dashboard.Version, len(d.Versions))
	copy(out.Versions, d.Versions)
	return &out
}

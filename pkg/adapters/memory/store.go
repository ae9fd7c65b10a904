package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
)

// Store implements ports.CoverageStore in memory.
// Safe for concurrent use.
type Store struct {
	data domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(domain.Report),
	}
}

// Merge adds the report hits to the stored counts.
func (s *Store) Merge(ctx context.Context, report domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Merge(report)
	return nil
}

// Load returns a copy so callers can't mutate the store through the map.
func (s *Store) Load(ctx context.Context) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), nil
}

// Clear removes all coverage.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(domain.Report)
	return nil
}

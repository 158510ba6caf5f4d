package store

import (
	"context"
	"sync"

	"github.com/knaptrace/knaptrace/pkg/report"
)

// MemoryStore keeps reports in a map. It is safe for concurrent use and
// is the default backend when the server runs without MongoDB.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]*report.Report),
	}
}

// Put stores a report, replacing any report with the same ID. The store
// keeps the pointer; callers must not mutate the report afterwards.
func (s *MemoryStore) Put(ctx context.Context, rep *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.ID] = rep
	return nil
}

// Get retrieves a report by ID. Returns nil, nil if the report doesn't
// exist.
func (s *MemoryStore) Get(ctx context.Context, id string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports[id], nil
}

// List returns summaries of all stored reports, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.reports))
	for _, rep := range s.reports {
		summaries = append(summaries, summarize(rep))
	}
	sortSummaries(summaries)
	return summaries, nil
}

// Delete removes a report. Deleting an absent report is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

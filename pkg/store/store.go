// Package store persists solve reports.
//
// This package defines the storage interface for finished reports, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Server
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Persist and retrieve reports:
//
//	if err := st.Put(ctx, rep); err != nil {
//	    return err
//	}
//	rep, err := st.Get(ctx, id)
//	if rep == nil && err == nil {
//	    // Report not found
//	}
package store

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/knaptrace/knaptrace/pkg/report"
)

// Summary is the listing view of a stored report: enough for an index
// page without shipping node tables and traces.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	NodesVisited int       `json:"nodes_visited"`
	BestValue    *float64  `json:"best_value,omitempty"`
}

// Store is the interface for report storage backends.
type Store interface {
	// Put stores a report, replacing any report with the same ID.
	Put(ctx context.Context, rep *report.Report) error

	// Get retrieves a report by ID.
	// Returns nil, nil if the report doesn't exist.
	Get(ctx context.Context, id string) (*report.Report, error)

	// List returns summaries of all stored reports, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a report. Deleting an absent report is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// sortSummaries orders summaries newest first, breaking timestamp ties
// by ID so List output is stable.
func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// summarize builds the listing view of a report.
func summarize(rep *report.Report) Summary {
	s := Summary{
		ID:           rep.ID,
		Title:        rep.Title,
		CreatedAt:    rep.CreatedAt,
		NodesVisited: rep.Stats.NodesVisited,
	}
	if rep.Best != nil {
		v := rep.Best.Value
		s.BestValue = &v
	}
	return s
}

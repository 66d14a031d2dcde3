// Package store persists computed boot plans.
//
// Backends:
//   - [MemoryStore]: in-process storage for development and tests
//   - [mongo.Store]: MongoDB-backed storage for the API server
//
// The HTTP server saves every plan it computes so that clients can fetch it
// again by id and list recent plans.
//
// [mongo.Store]: github.com/matzehuels/bootorder/pkg/store/mongo
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/bootorder/pkg/pipeline"
)

// ErrNotFound is returned when no plan has the requested id.
var ErrNotFound = errors.New("plan not found")

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Store is the interface for plan storage backends.
type Store interface {
	// Save stores a plan under its ID, replacing any previous copy.
	Save(ctx context.Context, res *pipeline.Result) error

	// Get returns the plan with the given id, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*pipeline.Result, error)

	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]pipeline.Summary, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore keeps plans in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]*pipeline.Result
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[uuid.UUID]*pipeline.Result)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, res *pipeline.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[res.ID] = res
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return res, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]pipeline.Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	out := make([]pipeline.Summary, 0, len(s.plans))
	for _, res := range s.plans {
		out = append(out, res.Summarize())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b pipeline.Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bootorder/pkg/pipeline"
)

func result(created time.Time, components int) *pipeline.Result {
	return &pipeline.Result{
		ID:        uuid.New(),
		CreatedAt: created,
		Stats:     pipeline.Stats{Components: components},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := result(base, 1)
	mid := result(base.Add(time.Minute), 2)
	recent := result(base.Add(time.Hour), 3)
	for _, r := range []*pipeline.Result{mid, recent, old} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	got, err := s.Get(ctx, mid.ID)
	if err != nil || got != mid {
		t.Errorf("Get() = %v, %v", got, err)
	}
	if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != recent.ID || list[1].ID != mid.ID {
		t.Errorf("List(2) = %+v, want [recent mid]", list)
	}
	if list[0].Components != 3 {
		t.Errorf("List()[0].Components = %d, want 3", list[0].Components)
	}

	all, _ := s.List(ctx, 0)
	if len(all) != 3 {
		t.Errorf("List(0) returned %d, want 3", len(all))
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	r := result(time.Now(), 1)
	_ = s.Save(ctx, r)

	updated := *r
	updated.Stats.Components = 9
	_ = s.Save(ctx, &updated)

	got, _ := s.Get(ctx, r.ID)
	if got.Stats.Components != 9 {
		t.Errorf("Save() should replace, got %d components", got.Stats.Components)
	}
	if list, _ := s.List(ctx, 0); len(list) != 1 {
		t.Errorf("List() = %d entries, want 1", len(list))
	}
}

package mongo

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bootorder/pkg/pipeline"
	"github.com/matzehuels/bootorder/pkg/schedule"
	"github.com/matzehuels/bootorder/pkg/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("BOOTORDER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BOOTORDER_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewStore(ctx, Config{
		URI:        uri,
		Database:   "bootorder_test",
		Collection: "plans_" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res := &pipeline.Result{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Order:     []string{"db", "api"},
		Schedule: &schedule.Schedule{
			Order:   []string{"db", "api"},
			Startup: schedule.Times{"db": 0, "api": 5},
		},
		Stats: pipeline.Stats{Components: 2, StartupMakespan: 7},
	}
	if err := s.Save(ctx, res); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !slices.Equal(got.Order, res.Order) || got.Schedule.Startup["api"] != 5 {
		t.Errorf("Get() = %+v", got)
	}

	if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].ID != res.ID || list[0].Makespan != 7 {
		t.Errorf("List() = %+v", list)
	}
}

func TestNewStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := NewStore(ctx, Config{URI: "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200", Database: "x"})
	if err == nil {
		t.Error("NewStore(unreachable) error = nil")
	}
}

// Package mongo stores boot plans in MongoDB.
//
// Each plan is one document keyed by its id. The document holds a few
// summary fields used for listing and the full plan as JSON:
//
//	{
//	  "_id": "3f0c...",
//	  "created_at": ISODate(...),
//	  "components": 12,
//	  "removed": 1,
//	  "startup_makespan": 42.5,
//	  "payload": "{...}"
//	}
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/bootorder/pkg/pipeline"
	"github.com/matzehuels/bootorder/pkg/store"
)

// DefaultCollection holds plans unless Config.Collection is set.
const DefaultCollection = "plans"

// Config configures the MongoDB connection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store implements store.Store on a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type document struct {
	ID              string    `bson:"_id"`
	CreatedAt       time.Time `bson:"created_at"`
	Components      int       `bson:"components"`
	Removed         int       `bson:"removed"`
	StartupMakespan float64   `bson:"startup_makespan"`
	Payload         string    `bson:"payload"`
}

// NewStore connects to MongoDB, verifies the connection and ensures the
// created_at index exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Store{client: client, coll: coll}, nil
}

// Save implements store.Store.
func (s *Store) Save(ctx context.Context, res *pipeline.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	doc := document{
		ID:              res.ID.String(),
		CreatedAt:       res.CreatedAt,
		Components:      res.Stats.Components,
		Removed:         res.Stats.Removed,
		StartupMakespan: res.Stats.StartupMakespan,
		Payload:         string(payload),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save plan %s: %w", doc.ID, err)
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*pipeline.Result, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}

	var res pipeline.Result
	if err := json.Unmarshal([]byte(doc.Payload), &res); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", id, err)
	}
	return &res, nil
}

// List implements store.Store.
func (s *Store) List(ctx context.Context, limit int) ([]pipeline.Summary, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"payload": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	out := make([]pipeline.Summary, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			continue
		}
		out = append(out, pipeline.Summary{
			ID:         id,
			CreatedAt:  d.CreatedAt,
			Components: d.Components,
			Removed:    d.Removed,
			Makespan:   d.StartupMakespan,
		})
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*Store)(nil)

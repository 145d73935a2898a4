// internal/app/store/history/historystore.go
package historystore

import (
	"context"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("history")}
}

// Append writes one audit entry. The collection is append-only: entries
// are never updated and survive deletion of the group they describe.
func (s *Store) Append(ctx context.Context, e models.HistoryEntry) error {
	e.ID = primitive.NewObjectID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// ListByGrouping returns up to limit entries for a grouping, newest first.
// A non-zero before narrows the page to entries older than that instant.
func (s *Store) ListByGrouping(ctx context.Context, groupingID primitive.ObjectID, limit int64, before time.Time) ([]models.HistoryEntry, error) {
	filter := bson.M{"grouping_id": groupingID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.HistoryEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

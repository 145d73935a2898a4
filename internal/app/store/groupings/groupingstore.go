// internal/app/store/groupings/groupingstore.go
package groupingstore

import (
	"context"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groupings")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Grouping, error) {
	var g models.Grouping
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Grouping{}, err
	}
	return g, nil
}

// List returns all groupings across subjects, newest first. Used for the
// initial snapshot load.
func (s *Store) List(ctx context.Context) ([]models.Grouping, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groupings []models.Grouping
	if err := cur.All(ctx, &groupings); err != nil {
		return nil, err
	}
	return groupings, nil
}

// ListIDsBySubject returns the IDs of all groupings under a subject,
// used to fan out cascade deletes.
func (s *Store) ListIDsBySubject(ctx context.Context, subjectID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

func (s *Store) Create(ctx context.Context, g models.Grouping) (models.Grouping, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.TitleCI = text.Fold(g.Title)
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Grouping{}, err
	}
	return g, nil
}

// SetLocked flips the lock flag that gates non-admin membership changes.
func (s *Store) SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"locked":     locked,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a grouping by ID. Returns the number of documents deleted
// (0 or 1). The caller cascades group and membership deletes first.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteBySubject removes all groupings under a subject.
// Returns the number of documents deleted.
func (s *Store) DeleteBySubject(ctx context.Context, subjectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"subject_id": subjectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

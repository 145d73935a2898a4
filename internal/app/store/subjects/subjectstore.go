// internal/app/store/subjects/subjectstore.go
package subjectstore

import (
	"context"
	"strings"
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
	return &Store{c: db.Collection("subjects")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Subject, error) {
	var sub models.Subject
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return models.Subject{}, err
	}
	return sub, nil
}

// List returns all subjects, newest first. Rosters are not joined here;
// callers attach students via the student store or the projection.
func (s *Store) List(ctx context.Context) ([]models.Subject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Subject
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) Create(ctx context.Context, sub models.Subject) (models.Subject, error) {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	sub.NameCI = text.Fold(sub.Name)
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.Students = nil
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.Subject{}, err
	}
	return sub, nil
}

// UpdateInfo updates name, color, and icon. Empty name is ignored so a
// partial update cannot blank it; color and icon are validated upstream.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, color, icon string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if color != "" {
		set["color"] = color
	}
	if icon != "" {
		set["icon"] = icon
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes a subject by ID. Returns the number of documents deleted
// (0 or 1). Cascades across the other collections are orchestrated by the
// caller, which deletes children before the subject document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

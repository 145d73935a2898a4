// internal/app/store/groups/groupstore.go
package groupstore

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
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// List returns all groups across groupings in creation order (groups
// render in the order they were made). Used for the initial snapshot load.
func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListIDsByGroupings returns the IDs of all groups under any of the given
// groupings, used to fan out cascade deletes.
func (s *Store) ListIDsByGroupings(ctx context.Context, groupingIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(groupingIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"grouping_id": bson.M{"$in": groupingIDs}}, opts)
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

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.CreatedAt = now
	g.UpdatedAt = now
	g.Members = nil
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo updates name and member limit. Empty name / zero limit are
// ignored; limit floors are enforced upstream against the live member count.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, memberLimit int) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if memberLimit > 0 {
		set["member_limit"] = memberLimit
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetRepresentative sets the group's representative name; empty clears it.
func (s *Store) SetRepresentative(ctx context.Context, id primitive.ObjectID, name string) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if name == "" {
		update["$unset"] = bson.M{"representative": ""}
	} else {
		update["$set"].(bson.M)["representative"] = name
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// Delete removes a group by ID. Returns the number of documents deleted
// (0 or 1). The caller cascades membership deletes first.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGrouping removes all groups under a grouping.
// Returns the number of documents deleted.
func (s *Store) DeleteByGrouping(ctx context.Context, groupingID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"grouping_id": groupingID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroupings removes all groups under any of the given groupings.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroupings(ctx context.Context, groupingIDs []primitive.ObjectID) (int64, error) {
	if len(groupingIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"grouping_id": bson.M{"$in": groupingIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

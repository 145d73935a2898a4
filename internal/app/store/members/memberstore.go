// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateMember = errors.New("name is already a member of this group")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_members")}
}

// Add inserts one membership row. The unique (group_id, member_name_ci)
// index turns a literal re-join into ErrDuplicateMember.
func (s *Store) Add(ctx context.Context, groupID primitive.ObjectID, name string) (models.GroupMember, error) {
	m := models.GroupMember{
		ID:           primitive.NewObjectID(),
		GroupID:      groupID,
		MemberName:   name,
		MemberNameCI: text.Fold(name),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMember{}, ErrDuplicateMember
		}
		return models.GroupMember{}, err
	}
	return m, nil
}

// AddBatchResult contains counts from a batch membership add operation.
type AddBatchResult struct {
	Added      int
	Duplicates int
	Rows       []models.GroupMember
}

// AddBatch adds multiple membership rows in a single batch operation.
// The caller has already validated the names; duplicates that slipped in
// between validation and write are silently counted (not treated as
// errors), so a re-run converges instead of failing.
func (s *Store) AddBatch(ctx context.Context, groupID primitive.ObjectID, names []string) (AddBatchResult, error) {
	if len(names) == 0 {
		return AddBatchResult{}, nil
	}

	now := time.Now().UTC()
	rows := make([]models.GroupMember, 0, len(names))
	docs := make([]interface{}, 0, len(names))
	for _, name := range names {
		m := models.GroupMember{
			ID:           primitive.NewObjectID(),
			GroupID:      groupID,
			MemberName:   name,
			MemberNameCI: text.Fold(name),
			CreatedAt:    now,
		}
		rows = append(rows, m)
		docs = append(docs, m)
	}

	// ordered:false so all inserts are attempted even if some fail (duplicates).
	opts := options.InsertMany().SetOrdered(false)
	result, err := s.c.InsertMany(ctx, docs, opts)

	added := 0
	inserted := make(map[interface{}]bool)
	if result != nil {
		added = len(result.InsertedIDs)
		for _, id := range result.InsertedIDs {
			inserted[id] = true
		}
	}
	res := AddBatchResult{Added: added, Duplicates: len(names) - added}
	for _, m := range rows {
		if inserted[m.ID] {
			res.Rows = append(res.Rows, m)
		}
	}

	// InsertMany with ordered:false returns a BulkWriteException for
	// duplicate key errors. Duplicates are expected; anything else is not.
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					return res, err
				}
			}
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Remove deletes the membership row for (groupID, name), matching on the
// exact stored name. Removing an absent name is a no-op.
func (s *Store) Remove(ctx context.Context, groupID primitive.ObjectID, name string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "member_name": name})
	return err
}

// Names returns a group's member names in membership order.
func (s *Store) Names(ctx context.Context, groupID primitive.ObjectID) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var m models.GroupMember
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		names = append(names, m.MemberName)
	}
	return names, cur.Err()
}

// AllNames returns every group's member names in membership order, keyed
// by group ID. Used for the initial snapshot load and full resyncs.
func (s *Store) AllNames(ctx context.Context) (map[primitive.ObjectID][]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byGroup := make(map[primitive.ObjectID][]string)
	for cur.Next(ctx) {
		var m models.GroupMember
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		byGroup[m.GroupID] = append(byGroup[m.GroupID], m.MemberName)
	}
	return byGroup, cur.Err()
}

// CountByGroup returns the number of members in a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// DeleteByGroup removes all membership rows for a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroups removes all membership rows for any of the given groups.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroups(ctx context.Context, groupIDs []primitive.ObjectID) (int64, error) {
	if len(groupIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": bson.M{"$in": groupIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

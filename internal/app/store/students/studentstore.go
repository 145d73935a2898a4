// internal/app/store/students/studentstore.go
package studentstore

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

var ErrDuplicateStudent = errors.New("student is already on the roster")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	st.ID = primitive.NewObjectID()
	st.NameCI = text.Fold(st.Name)
	st.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Student{}, ErrDuplicateStudent
		}
		return models.Student{}, err
	}
	return st, nil
}

// CreateBatch inserts a pre-validated roster. The caller has already
// checked formats and duplicates, so inserts are ordered and any failure
// aborts the remainder.
func (s *Store) CreateBatch(ctx context.Context, subjectID primitive.ObjectID, names []string) ([]models.Student, error) {
	if len(names) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	students := make([]models.Student, 0, len(names))
	docs := make([]interface{}, 0, len(names))
	for _, name := range names {
		st := models.Student{
			ID:        primitive.NewObjectID(),
			SubjectID: subjectID,
			Name:      name,
			NameCI:    text.Fold(name),
			CreatedAt: now,
		}
		students = append(students, st)
		docs = append(docs, st)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateStudent
		}
		return nil, err
	}
	return students, nil
}

// ListBySubject returns a subject's roster sorted by folded name.
func (s *Store) ListBySubject(ctx context.Context, subjectID primitive.ObjectID) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var students []models.Student
	if err := cur.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListAll returns every roster entry across subjects, used for the
// initial snapshot load.
func (s *Store) ListAll(ctx context.Context) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var students []models.Student
	if err := cur.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteBySubject removes a subject's whole roster.
// Returns the number of documents deleted.
func (s *Store) DeleteBySubject(ctx context.Context, subjectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"subject_id": subjectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

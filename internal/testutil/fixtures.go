// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSubject inserts a subject and returns it with its generated ID.
func (f *Fixtures) CreateSubject(ctx context.Context, name string) models.Subject {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.Subject{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Icon:      "book-open",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("subjects").InsertOne(ctx, sub); err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}
	return sub
}

// CreateStudent puts one name on a subject's roster.
func (f *Fixtures) CreateStudent(ctx context.Context, subjectID primitive.ObjectID, name string) models.Student {
	f.t.Helper()

	st := models.Student{
		ID:        primitive.NewObjectID(),
		SubjectID: subjectID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("students").InsertOne(ctx, st); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return st
}

// CreateGrouping inserts a grouping under a subject.
func (f *Fixtures) CreateGrouping(ctx context.Context, subjectID primitive.ObjectID, title string) models.Grouping {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Grouping{
		ID:        primitive.NewObjectID(),
		SubjectID: subjectID,
		Title:     title,
		TitleCI:   text.Fold(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groupings").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test grouping: %v", err)
	}
	return g
}

// CreateGroup inserts a group under a grouping.
func (f *Fixtures) CreateGroup(ctx context.Context, groupingID primitive.ObjectID, name string, memberLimit int) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		GroupingID:  groupingID,
		Name:        name,
		NameCI:      text.Fold(name),
		MemberLimit: memberLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// AddMember inserts a membership row directly.
func (f *Fixtures) AddMember(ctx context.Context, groupID primitive.ObjectID, name string) models.GroupMember {
	f.t.Helper()

	m := models.GroupMember{
		ID:           primitive.NewObjectID(),
		GroupID:      groupID,
		MemberName:   name,
		MemberNameCI: text.Fold(name),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to add test member: %v", err)
	}
	return m
}

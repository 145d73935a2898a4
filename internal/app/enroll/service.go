// internal/app/enroll/service.go
//
// Package enroll holds the mutation entry points: everything that changes
// subjects, rosters, groupings, groups, or membership goes through here.
// Every mutation is two-phase: validate against the local projection,
// write to the store of record, then apply the same change to the
// projection optimistically. When the remote write fails the local view
// is left untouched; the error propagates to the caller.
package enroll

import (
	"context"
	"time"

	memberstore "github.com/dalemusser/grouphub/internal/app/store/members"
	"github.com/dalemusser/grouphub/internal/app/projection"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store interfaces cover exactly the calls the service makes; the Mongo
// stores satisfy them, and tests substitute in-memory fakes.

type SubjectStore interface {
	Create(ctx context.Context, s models.Subject) (models.Subject, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, name, color, icon string) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type StudentStore interface {
	Create(ctx context.Context, st models.Student) (models.Student, error)
	CreateBatch(ctx context.Context, subjectID primitive.ObjectID, names []string) ([]models.Student, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteBySubject(ctx context.Context, subjectID primitive.ObjectID) (int64, error)
}

type GroupingStore interface {
	Create(ctx context.Context, g models.Grouping) (models.Grouping, error)
	SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteBySubject(ctx context.Context, subjectID primitive.ObjectID) (int64, error)
	ListIDsBySubject(ctx context.Context, subjectID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type GroupStore interface {
	Create(ctx context.Context, g models.Group) (models.Group, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, memberLimit int) error
	SetRepresentative(ctx context.Context, id primitive.ObjectID, name string) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByGrouping(ctx context.Context, groupingID primitive.ObjectID) (int64, error)
	DeleteByGroupings(ctx context.Context, groupingIDs []primitive.ObjectID) (int64, error)
	ListIDsByGroupings(ctx context.Context, groupingIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

type MemberStore interface {
	Add(ctx context.Context, groupID primitive.ObjectID, name string) (models.GroupMember, error)
	AddBatch(ctx context.Context, groupID primitive.ObjectID, names []string) (memberstore.AddBatchResult, error)
	Remove(ctx context.Context, groupID primitive.ObjectID, name string) error
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error)
	DeleteByGroups(ctx context.Context, groupIDs []primitive.ObjectID) (int64, error)
}

type HistoryStore interface {
	Append(ctx context.Context, e models.HistoryEntry) error
	ListByGrouping(ctx context.Context, groupingID primitive.ObjectID, limit int64, before time.Time) ([]models.HistoryEntry, error)
}

// Stores bundles the persistence dependencies of the service.
type Stores struct {
	Subjects  SubjectStore
	Students  StudentStore
	Groupings GroupingStore
	Groups    GroupStore
	Members   MemberStore
	History   HistoryStore
}

type Service struct {
	log  *zap.Logger
	proj *projection.Projection
	st   Stores
}

func New(proj *projection.Projection, st Stores, logger *zap.Logger) *Service {
	return &Service{
		log:  logger,
		proj: proj,
		st:   st,
	}
}

// Projection exposes the local view for read paths (state snapshots,
// availability, page fallback).
func (s *Service) Projection() *projection.Projection { return s.proj }

// appendHistory writes an audit entry best-effort: history never blocks
// or fails a mutation, it just logs when the write is lost.
func (s *Service) appendHistory(ctx context.Context, e models.HistoryEntry) {
	if err := s.st.History.Append(ctx, e); err != nil {
		s.log.Warn("history append failed",
			zap.String("action", e.ActionType),
			zap.String("group", e.GroupName),
			zap.Error(err))
	}
}

// History returns a grouping's audit page, newest first.
func (s *Service) History(ctx context.Context, groupingID primitive.ObjectID, limit int64, before time.Time) ([]models.HistoryEntry, error) {
	if _, ok := s.proj.GroupingByID(groupingID); !ok {
		return nil, ErrGroupingNotFound
	}
	return s.st.History.ListByGrouping(ctx, groupingID, limit, before)
}

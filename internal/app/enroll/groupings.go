// internal/app/enroll/groupings.go
package enroll

import (
	"context"
	"fmt"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/app/system/namematch"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateGrouping validates and persists a grouping under a subject.
func (s *Service) CreateGrouping(ctx context.Context, subjectID primitive.ObjectID, title, color string) (models.Grouping, error) {
	title = sanitize.Text(title)
	if title == "" {
		return models.Grouping{}, ErrMissingTitle
	}
	if _, ok := s.proj.SubjectByID(subjectID); !ok {
		return models.Grouping{}, ErrSubjectNotFound
	}

	created, err := s.st.Groupings.Create(ctx, models.Grouping{
		SubjectID: subjectID,
		Title:     title,
		Color:     sanitize.Text(color),
	})
	if err != nil {
		return models.Grouping{}, fmt.Errorf("create grouping: %w", err)
	}
	s.proj.ApplyGrouping(feed.Event[models.Grouping]{Op: feed.OpInsert, ID: created.ID, Doc: &created})
	return created, nil
}

// DeleteGrouping removes a grouping, its groups, and their membership
// rows, children first. History entries are retained.
func (s *Service) DeleteGrouping(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.proj.GroupingByID(id); !ok {
		return ErrGroupingNotFound
	}

	groupIDs, err := s.st.Groups.ListIDsByGroupings(ctx, []primitive.ObjectID{id})
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	if _, err := s.st.Members.DeleteByGroups(ctx, groupIDs); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	if _, err := s.st.Groups.DeleteByGrouping(ctx, id); err != nil {
		return fmt.Errorf("delete groups: %w", err)
	}
	if _, err := s.st.Groupings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete grouping: %w", err)
	}

	s.proj.ApplyGrouping(feed.Event[models.Grouping]{Op: feed.OpDelete, ID: id})
	return nil
}

// SetGroupingLocked flips the lock that gates non-admin membership
// changes across the grouping's groups.
func (s *Service) SetGroupingLocked(ctx context.Context, id primitive.ObjectID, locked bool) (models.Grouping, error) {
	g, ok := s.proj.GroupingByID(id)
	if !ok {
		return models.Grouping{}, ErrGroupingNotFound
	}

	if err := s.st.Groupings.SetLocked(ctx, id, locked); err != nil {
		return models.Grouping{}, fmt.Errorf("set locked: %w", err)
	}
	g.Locked = locked
	s.proj.ApplyGrouping(feed.Event[models.Grouping]{Op: feed.OpUpdate, ID: id, Doc: &g})
	return g, nil
}

// Placement says which group a roster student already belongs to, and
// under which member name the match was made.
type Placement struct {
	Student    models.Student `json:"student"`
	GroupID    primitive.ObjectID `json:"group_id"`
	GroupName  string         `json:"group_name"`
	MemberName string         `json:"member_name"`
}

// Availability partitions a grouping's roster into students not yet in
// any group and students already placed.
type Availability struct {
	Available []models.Student `json:"available"`
	InGroups  []Placement      `json:"in_groups"`
}

// GroupingAvailability computes availability from the local view, using
// fuzzy matching so partial or accented member names still count as
// placed.
func (s *Service) GroupingAvailability(groupingID primitive.ObjectID) (Availability, error) {
	grouping, ok := s.proj.GroupingByID(groupingID)
	if !ok {
		return Availability{}, ErrGroupingNotFound
	}
	subject, ok := s.proj.SubjectByID(grouping.SubjectID)
	if !ok {
		return Availability{}, ErrSubjectNotFound
	}
	groups := s.proj.GroupsByGrouping(groupingID)

	out := Availability{
		Available: []models.Student{},
		InGroups:  []Placement{},
	}
	for _, st := range subject.Students {
		g, found := namematch.FindMembership(st.Name, groups)
		if !found {
			out.Available = append(out.Available, st)
			continue
		}
		member := ""
		for _, m := range g.Members {
			if namematch.Match(st.Name, m) {
				member = m
				break
			}
		}
		out.InGroups = append(out.InGroups, Placement{
			Student:    st,
			GroupID:    g.ID,
			GroupName:  g.Name,
			MemberName: member,
		})
	}
	return out, nil
}

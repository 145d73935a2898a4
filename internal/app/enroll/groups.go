// internal/app/enroll/groups.go
package enroll

import (
	"context"
	"fmt"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateGroup validates and persists a group under a grouping.
func (s *Service) CreateGroup(ctx context.Context, groupingID primitive.ObjectID, name string, memberLimit int, performedBy string) (models.Group, error) {
	name = sanitize.Text(name)
	if name == "" {
		return models.Group{}, ErrMissingName
	}
	if memberLimit < 1 {
		return models.Group{}, ErrBadLimit
	}
	grouping, ok := s.proj.GroupingByID(groupingID)
	if !ok {
		return models.Group{}, ErrGroupingNotFound
	}

	created, err := s.st.Groups.Create(ctx, models.Group{
		GroupingID:  groupingID,
		Name:        name,
		MemberLimit: memberLimit,
	})
	if err != nil {
		return models.Group{}, fmt.Errorf("create group: %w", err)
	}
	s.proj.ApplyGroup(feed.Event[models.Group]{Op: feed.OpInsert, ID: created.ID, Doc: &created})
	s.appendHistory(ctx, models.HistoryEntry{
		GroupingID:  grouping.ID,
		GroupID:     created.ID,
		ActionType:  models.ActionGroupCreated,
		GroupName:   created.Name,
		PerformedBy: performedBy,
	})
	return created, nil
}

// UpdateGroup changes a group's name and/or member limit. The limit can
// never drop below the current member count.
func (s *Service) UpdateGroup(ctx context.Context, id primitive.ObjectID, name string, memberLimit int) (models.Group, error) {
	g, ok := s.proj.GroupByID(id)
	if !ok {
		return models.Group{}, ErrGroupNotFound
	}
	name = sanitize.Text(name)
	if memberLimit != 0 && memberLimit < 1 {
		return models.Group{}, ErrBadLimit
	}
	if memberLimit > 0 && memberLimit < len(g.Members) {
		return models.Group{}, ErrLimitBelowSize
	}

	if err := s.st.Groups.UpdateInfo(ctx, id, name, memberLimit); err != nil {
		return models.Group{}, fmt.Errorf("update group: %w", err)
	}
	if name != "" {
		g.Name = name
	}
	if memberLimit > 0 {
		g.MemberLimit = memberLimit
	}
	s.proj.ApplyGroup(feed.Event[models.Group]{Op: feed.OpUpdate, ID: id, Doc: &g})
	return g, nil
}

// DeleteGroup removes a group and its membership rows.
func (s *Service) DeleteGroup(ctx context.Context, id primitive.ObjectID, performedBy string) error {
	g, ok := s.proj.GroupByID(id)
	if !ok {
		return ErrGroupNotFound
	}

	if _, err := s.st.Members.DeleteByGroup(ctx, id); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	if _, err := s.st.Groups.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	s.proj.ApplyGroup(feed.Event[models.Group]{Op: feed.OpDelete, ID: id})
	s.appendHistory(ctx, models.HistoryEntry{
		GroupingID:  g.GroupingID,
		GroupID:     g.ID,
		ActionType:  models.ActionGroupDeleted,
		GroupName:   g.Name,
		PerformedBy: performedBy,
	})
	return nil
}

// SetRepresentative names the member who speaks for the group; an empty
// name clears the role. The representative must be an exact member name.
func (s *Service) SetRepresentative(ctx context.Context, id primitive.ObjectID, name, performedBy string) (models.Group, error) {
	g, ok := s.proj.GroupByID(id)
	if !ok {
		return models.Group{}, ErrGroupNotFound
	}
	name = sanitize.Text(name)
	if name != "" && !containsExact(g.Members, name) {
		return models.Group{}, ErrNotRepresentable
	}

	if err := s.st.Groups.SetRepresentative(ctx, id, name); err != nil {
		return models.Group{}, fmt.Errorf("set representative: %w", err)
	}

	action := models.ActionRepresentativeSet
	member := name
	if name == "" {
		action = models.ActionRepresentativeRemoved
		member = g.Representative
	}
	g.Representative = name
	s.proj.ApplyGroup(feed.Event[models.Group]{Op: feed.OpUpdate, ID: id, Doc: &g})
	s.appendHistory(ctx, models.HistoryEntry{
		GroupingID:  g.GroupingID,
		GroupID:     g.ID,
		ActionType:  action,
		GroupName:   g.Name,
		MemberName:  member,
		PerformedBy: performedBy,
	})
	return g, nil
}

func containsExact(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

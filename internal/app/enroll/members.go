// internal/app/enroll/members.go
package enroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/app/system/namematch"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	memberstore "github.com/dalemusser/grouphub/internal/app/store/members"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Join admits one name into a group. The validation ladder runs against
// the local view in a fixed order: name format, roster membership,
// already-in-this-group, capacity, then cross-group exclusivity inside
// the grouping. A name that fuzzy-matches a member of a different group
// is rejected with that group's identity. admin bypasses the grouping
// lock only; every other rule applies to admins too.
func (s *Service) Join(ctx context.Context, groupID primitive.ObjectID, rawName, performedBy string, admin bool) error {
	name := sanitize.Text(rawName)
	if name == "" {
		return ErrMissingName
	}
	if !namematch.ValidFormat(name) {
		return ErrNameFormat
	}

	group, ok := s.proj.GroupByID(groupID)
	if !ok {
		return ErrGroupNotFound
	}
	grouping, ok := s.proj.GroupingByID(group.GroupingID)
	if !ok {
		return ErrGroupingNotFound
	}
	if grouping.Locked && !admin {
		return ErrGroupingLocked
	}
	subject, ok := s.proj.SubjectByID(grouping.SubjectID)
	if !ok {
		return ErrSubjectNotFound
	}

	if !namematch.OnRoster(name, subject.Students) {
		return ErrNotEnrolled
	}
	for _, m := range group.Members {
		if namematch.Match(name, m) {
			return ErrAlreadyMember
		}
	}
	if len(group.Members) >= group.MemberLimit {
		return ErrGroupFull
	}
	for _, other := range s.proj.GroupsByGrouping(grouping.ID) {
		if other.ID == group.ID {
			continue
		}
		for _, m := range other.Members {
			if namematch.Match(name, m) {
				return &Conflict{
					GroupID:    other.ID,
					GroupName:  other.Name,
					MemberName: m,
					JoinName:   name,
				}
			}
		}
	}

	row, err := s.st.Members.Add(ctx, groupID, name)
	if err != nil {
		if errors.Is(err, memberstore.ErrDuplicateMember) {
			// Lost a race with another joiner using the same name.
			return ErrAlreadyMember
		}
		return fmt.Errorf("add member: %w", err)
	}

	s.proj.ApplyMember(ctx, feed.MemberEvent{
		Op:      feed.OpInsert,
		RowID:   row.ID,
		GroupID: groupID,
		Name:    name,
	})
	s.appendHistory(ctx, models.HistoryEntry{
		GroupingID:  grouping.ID,
		GroupID:     group.ID,
		ActionType:  models.ActionMemberAdded,
		GroupName:   group.Name,
		MemberName:  name,
		PerformedBy: performedBy,
	})
	return nil
}

// BatchJoin admits a list of names into a group at once (admin bulk add).
// Validation is all-or-nothing over the whole list before anything is
// written: every name must be well-formed, on the roster, not already in
// the group, distinct within the batch, and the group must have room for
// all of them. The write phase is not transactional; if it partially
// fails, the result reports how many of the requested names actually
// landed and nothing is rolled back.
func (s *Service) BatchJoin(ctx context.Context, groupID primitive.ObjectID, rawNames []string, performedBy string) (BatchResult, error) {
	group, ok := s.proj.GroupByID(groupID)
	if !ok {
		return BatchResult{}, ErrGroupNotFound
	}
	grouping, ok := s.proj.GroupingByID(group.GroupingID)
	if !ok {
		return BatchResult{}, ErrGroupingNotFound
	}
	subject, ok := s.proj.SubjectByID(grouping.SubjectID)
	if !ok {
		return BatchResult{}, ErrSubjectNotFound
	}

	names := make([]string, 0, len(rawNames))
	seen := make(map[string]struct{}, len(rawNames))
	for _, raw := range rawNames {
		name := sanitize.Text(raw)
		if name == "" {
			return BatchResult{}, &BatchError{Name: raw, Err: ErrMissingName}
		}
		if !namematch.ValidFormat(name) {
			return BatchResult{}, &BatchError{Name: name, Err: ErrNameFormat}
		}
		if !namematch.OnRoster(name, subject.Students) {
			return BatchResult{}, &BatchError{Name: name, Err: ErrNotEnrolled}
		}
		for _, m := range group.Members {
			if namematch.Match(name, m) {
				return BatchResult{}, &BatchError{Name: name, Err: ErrAlreadyMember}
			}
		}
		key := namematch.Normalize(name)
		if _, dup := seen[key]; dup {
			return BatchResult{}, &BatchError{Name: name, Err: ErrAlreadyMember}
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	if len(names) == 0 {
		return BatchResult{}, nil
	}
	if len(group.Members)+len(names) > group.MemberLimit {
		return BatchResult{}, ErrLimitExceeded
	}

	res, err := s.st.Members.AddBatch(ctx, groupID, names)
	result := BatchResult{Requested: len(names), Added: res.Added}

	for _, row := range res.Rows {
		s.proj.ApplyMember(ctx, feed.MemberEvent{
			Op:      feed.OpInsert,
			RowID:   row.ID,
			GroupID: groupID,
			Name:    row.MemberName,
		})
		s.appendHistory(ctx, models.HistoryEntry{
			GroupingID:  grouping.ID,
			GroupID:     group.ID,
			ActionType:  models.ActionMemberAdded,
			GroupName:   group.Name,
			MemberName:  row.MemberName,
			PerformedBy: performedBy,
		})
	}

	if err != nil {
		return result, fmt.Errorf("batch add members: %w", err)
	}
	return result, nil
}

// RemoveMember takes one name out of a group, matching the stored name
// exactly. Removing the current representative clears the role too.
func (s *Service) RemoveMember(ctx context.Context, groupID primitive.ObjectID, rawName, performedBy string, admin bool) error {
	name := sanitize.Text(rawName)
	if name == "" {
		return ErrMissingName
	}
	group, ok := s.proj.GroupByID(groupID)
	if !ok {
		return ErrGroupNotFound
	}
	grouping, ok := s.proj.GroupingByID(group.GroupingID)
	if !ok {
		return ErrGroupingNotFound
	}
	if grouping.Locked && !admin {
		return ErrGroupingLocked
	}
	if !containsExact(group.Members, name) {
		return ErrNotMember
	}

	if err := s.st.Members.Remove(ctx, groupID, name); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if group.Representative == name {
		if err := s.st.Groups.SetRepresentative(ctx, groupID, ""); err != nil {
			s.log.Warn("failed to clear representative of removed member",
				zap.String("group_id", groupID.Hex()),
				zap.Error(err))
		} else {
			g := group
			g.Representative = ""
			s.proj.ApplyGroup(feed.Event[models.Group]{Op: feed.OpUpdate, ID: groupID, Doc: &g})
		}
	}

	s.proj.ApplyMember(ctx, feed.MemberEvent{
		Op:      feed.OpDelete,
		GroupID: groupID,
		Name:    name,
	})
	s.appendHistory(ctx, models.HistoryEntry{
		GroupingID:  grouping.ID,
		GroupID:     group.ID,
		ActionType:  models.ActionMemberRemoved,
		GroupName:   group.Name,
		MemberName:  name,
		PerformedBy: performedBy,
	})
	return nil
}

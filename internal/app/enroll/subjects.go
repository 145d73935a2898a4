// internal/app/enroll/subjects.go
package enroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/app/system/icons"
	"github.com/dalemusser/grouphub/internal/app/system/namematch"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	studentstore "github.com/dalemusser/grouphub/internal/app/store/students"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSubject validates and persists a subject, then applies it to the
// local view. An empty icon falls back to the default; an unknown icon
// key is rejected outright.
func (s *Service) CreateSubject(ctx context.Context, name, color, icon string) (models.Subject, error) {
	name = sanitize.Text(name)
	if name == "" {
		return models.Subject{}, ErrMissingName
	}
	if icon == "" {
		icon = icons.DefaultIcon
	}
	if !icons.Valid(icon) {
		return models.Subject{}, ErrUnknownIcon
	}

	created, err := s.st.Subjects.Create(ctx, models.Subject{
		Name:  name,
		Color: sanitize.Text(color),
		Icon:  icon,
	})
	if err != nil {
		return models.Subject{}, fmt.Errorf("create subject: %w", err)
	}
	s.proj.ApplySubject(feed.Event[models.Subject]{Op: feed.OpInsert, ID: created.ID, Doc: &created})
	return created, nil
}

// UpdateSubject updates name, color, and/or icon; empty fields keep their
// current values.
func (s *Service) UpdateSubject(ctx context.Context, id primitive.ObjectID, name, color, icon string) (models.Subject, error) {
	sub, ok := s.proj.SubjectByID(id)
	if !ok {
		return models.Subject{}, ErrSubjectNotFound
	}
	name = sanitize.Text(name)
	color = sanitize.Text(color)
	if icon != "" && !icons.Valid(icon) {
		return models.Subject{}, ErrUnknownIcon
	}

	if err := s.st.Subjects.UpdateInfo(ctx, id, name, color, icon); err != nil {
		return models.Subject{}, fmt.Errorf("update subject: %w", err)
	}

	if name != "" {
		sub.Name = name
	}
	if color != "" {
		sub.Color = color
	}
	if icon != "" {
		sub.Icon = icon
	}
	s.proj.ApplySubject(feed.Event[models.Subject]{Op: feed.OpUpdate, ID: id, Doc: &sub})
	return sub, nil
}

// DeleteSubject removes a subject and everything under it: membership
// rows first, then groups, groupings, the roster, and finally the subject
// document, so a crash mid-cascade never leaves children without a
// reachable parent.
func (s *Service) DeleteSubject(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.proj.SubjectByID(id); !ok {
		return ErrSubjectNotFound
	}

	groupingIDs, err := s.st.Groupings.ListIDsBySubject(ctx, id)
	if err != nil {
		return fmt.Errorf("list groupings: %w", err)
	}
	groupIDs, err := s.st.Groups.ListIDsByGroupings(ctx, groupingIDs)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	if _, err := s.st.Members.DeleteByGroups(ctx, groupIDs); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	if _, err := s.st.Groups.DeleteByGroupings(ctx, groupingIDs); err != nil {
		return fmt.Errorf("delete groups: %w", err)
	}
	if _, err := s.st.Groupings.DeleteBySubject(ctx, id); err != nil {
		return fmt.Errorf("delete groupings: %w", err)
	}
	if _, err := s.st.Students.DeleteBySubject(ctx, id); err != nil {
		return fmt.Errorf("delete roster: %w", err)
	}
	if _, err := s.st.Subjects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	s.proj.ApplySubject(feed.Event[models.Subject]{Op: feed.OpDelete, ID: id})
	return nil
}

// AddStudent puts one name on a subject's roster. Roster entries must be
// distinct after normalization; fuzzy overlap (a short form of an
// existing entry) is allowed because siblings can share last names.
func (s *Service) AddStudent(ctx context.Context, subjectID primitive.ObjectID, rawName string) (models.Student, error) {
	name := sanitize.Text(rawName)
	if name == "" {
		return models.Student{}, ErrMissingName
	}
	if !namematch.ValidFormat(name) {
		return models.Student{}, ErrNameFormat
	}
	sub, ok := s.proj.SubjectByID(subjectID)
	if !ok {
		return models.Student{}, ErrSubjectNotFound
	}
	key := namematch.Normalize(name)
	for _, st := range sub.Students {
		if namematch.Normalize(st.Name) == key {
			return models.Student{}, ErrAlreadyOnRoster
		}
	}

	created, err := s.st.Students.Create(ctx, models.Student{SubjectID: subjectID, Name: name})
	if err != nil {
		if errors.Is(err, studentstore.ErrDuplicateStudent) {
			return models.Student{}, ErrAlreadyOnRoster
		}
		return models.Student{}, fmt.Errorf("add student: %w", err)
	}
	s.proj.ApplyStudent(feed.Event[models.Student]{Op: feed.OpInsert, ID: created.ID, Doc: &created})
	return created, nil
}

// BatchAddStudents imports a pre-scanned roster. Validation is
// all-or-nothing: the first name that collides with the existing roster
// rejects the whole batch and nothing is written.
func (s *Service) BatchAddStudents(ctx context.Context, subjectID primitive.ObjectID, names []string) ([]models.Student, error) {
	sub, ok := s.proj.SubjectByID(subjectID)
	if !ok {
		return nil, ErrSubjectNotFound
	}

	existing := make(map[string]struct{}, len(sub.Students))
	for _, st := range sub.Students {
		existing[namematch.Normalize(st.Name)] = struct{}{}
	}
	for _, name := range names {
		if !namematch.ValidFormat(name) {
			return nil, &BatchError{Name: name, Err: ErrNameFormat}
		}
		if _, dup := existing[namematch.Normalize(name)]; dup {
			return nil, &BatchError{Name: name, Err: ErrAlreadyOnRoster}
		}
	}

	created, err := s.st.Students.CreateBatch(ctx, subjectID, names)
	if err != nil {
		if errors.Is(err, studentstore.ErrDuplicateStudent) {
			return nil, ErrAlreadyOnRoster
		}
		return nil, fmt.Errorf("import roster: %w", err)
	}
	for i := range created {
		st := created[i]
		s.proj.ApplyStudent(feed.Event[models.Student]{Op: feed.OpInsert, ID: st.ID, Doc: &st})
	}
	return created, nil
}

// RemoveStudent deletes one roster entry. Existing group memberships for
// the name are left alone; the roster governs future joins only.
func (s *Service) RemoveStudent(ctx context.Context, subjectID, studentID primitive.ObjectID) error {
	sub, ok := s.proj.SubjectByID(subjectID)
	if !ok {
		return ErrSubjectNotFound
	}
	found := false
	for _, st := range sub.Students {
		if st.ID == studentID {
			found = true
			break
		}
	}
	if !found {
		return ErrStudentNotFound
	}

	if _, err := s.st.Students.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("remove student: %w", err)
	}
	s.proj.ApplyStudent(feed.Event[models.Student]{Op: feed.OpDelete, ID: studentID})
	return nil
}

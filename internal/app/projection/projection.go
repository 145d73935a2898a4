// internal/app/projection/projection.go
//
// Package projection maintains an in-process view of the subjects,
// groupings, and groups collections, kept convergent with the store of
// record by applying change events from the feed and optimistic local
// mutations. Events may arrive duplicated, reordered relative to local
// writes, or with partial payloads; every apply path is written so that
// replaying it is harmless and deletes win over stale updates.
package projection

import (
	"context"
	"sync"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberLoader refetches membership rows from the store of record when a
// delete event does not say which member it removed.
type MemberLoader interface {
	Names(ctx context.Context, groupID primitive.ObjectID) ([]string, error)
	AllNames(ctx context.Context) (map[primitive.ObjectID][]string, error)
}

// Projection is the local view. One mutex guards all state; every entry
// point (feed event or local mutation) runs to completion under it, so
// observers never see a cascade half-applied.
type Projection struct {
	mu     sync.Mutex
	log    *zap.Logger
	loader MemberLoader

	subjects  []models.Subject  // newest first, Students attached
	groupings []models.Grouping // newest first
	groups    []models.Group    // creation order, Members attached
}

func New(loader MemberLoader, logger *zap.Logger) *Projection {
	return &Projection{
		log:    logger,
		loader: loader,
	}
}

// Load replaces the whole view with a fresh snapshot from the store.
// Rosters and member lists are attached from the side tables.
func (p *Projection) Load(subjects []models.Subject, students []models.Student, groupings []models.Grouping, groups []models.Group, members map[primitive.ObjectID][]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subjects = make([]models.Subject, len(subjects))
	copy(p.subjects, subjects)
	for i := range p.subjects {
		p.subjects[i].Students = nil
	}
	for _, st := range students {
		if i := p.subjectIndex(st.SubjectID); i >= 0 {
			p.subjects[i].Students = append(p.subjects[i].Students, st)
		}
	}

	p.groupings = make([]models.Grouping, len(groupings))
	copy(p.groupings, groupings)

	p.groups = make([]models.Group, len(groups))
	copy(p.groups, groups)
	for i := range p.groups {
		p.groups[i].Members = copyStrings(members[p.groups[i].ID])
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Snapshot accessors (deep copies)                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// Subjects returns all subjects, newest first, rosters attached.
func (p *Projection) Subjects() []models.Subject {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySubjects(p.subjects)
}

// Groupings returns all groupings, newest first.
func (p *Projection) Groupings() []models.Grouping {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Grouping, len(p.groupings))
	copy(out, p.groupings)
	return out
}

// Groups returns all groups in creation order, member lists attached.
func (p *Projection) Groups() []models.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyGroups(p.groups)
}

// SubjectByID returns a subject with its roster attached.
func (p *Projection) SubjectByID(id primitive.ObjectID) (models.Subject, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.subjectIndex(id); i >= 0 {
		return copySubject(p.subjects[i]), true
	}
	return models.Subject{}, false
}

func (p *Projection) GroupingByID(id primitive.ObjectID) (models.Grouping, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.groupingIndex(id); i >= 0 {
		return p.groupings[i], true
	}
	return models.Grouping{}, false
}

// GroupByID returns a group with its member list attached.
func (p *Projection) GroupByID(id primitive.ObjectID) (models.Group, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.groupIndex(id); i >= 0 {
		return copyGroup(p.groups[i]), true
	}
	return models.Group{}, false
}

// GroupsByGrouping returns a grouping's groups in creation order.
func (p *Projection) GroupsByGrouping(groupingID primitive.ObjectID) []models.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Group
	for i := range p.groups {
		if p.groups[i].GroupingID == groupingID {
			out = append(out, copyGroup(p.groups[i]))
		}
	}
	return out
}

// GroupingsBySubject returns a subject's groupings, newest first.
func (p *Projection) GroupingsBySubject(subjectID primitive.ObjectID) []models.Grouping {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Grouping
	for _, g := range p.groupings {
		if g.SubjectID == subjectID {
			out = append(out, g)
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| Feed pump                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Run drains f until ctx ends or every channel is closed. It is the only
// consumer of the feed; local mutations call the Apply methods directly
// from handler goroutines.
func (p *Projection) Run(ctx context.Context, f feed.Feed) {
	subjects := f.Subjects()
	students := f.Students()
	groupings := f.Groupings()
	groups := f.Groups()
	members := f.Members()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-subjects:
			if !ok {
				subjects = nil
				break
			}
			p.ApplySubject(ev)
		case ev, ok := <-students:
			if !ok {
				students = nil
				break
			}
			p.ApplyStudent(ev)
		case ev, ok := <-groupings:
			if !ok {
				groupings = nil
				break
			}
			p.ApplyGrouping(ev)
		case ev, ok := <-groups:
			if !ok {
				groups = nil
				break
			}
			p.ApplyGroup(ev)
		case ev, ok := <-members:
			if !ok {
				members = nil
				break
			}
			p.ApplyMember(ctx, ev)
		}
		if subjects == nil && students == nil && groupings == nil && groups == nil && members == nil {
			return
		}
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| index helpers (callers hold p.mu)                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (p *Projection) subjectIndex(id primitive.ObjectID) int {
	for i := range p.subjects {
		if p.subjects[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Projection) groupingIndex(id primitive.ObjectID) int {
	for i := range p.groupings {
		if p.groupings[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Projection) groupIndex(id primitive.ObjectID) int {
	for i := range p.groups {
		if p.groups[i].ID == id {
			return i
		}
	}
	return -1
}

/*─────────────────────────────────────────────────────────────────────────────*
| copy helpers                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copySubject(s models.Subject) models.Subject {
	out := s
	if s.Students != nil {
		out.Students = make([]models.Student, len(s.Students))
		copy(out.Students, s.Students)
	}
	return out
}

func copySubjects(in []models.Subject) []models.Subject {
	out := make([]models.Subject, len(in))
	for i := range in {
		out[i] = copySubject(in[i])
	}
	return out
}

func copyGroup(g models.Group) models.Group {
	out := g
	out.Members = copyStrings(g.Members)
	return out
}

func copyGroups(in []models.Group) []models.Group {
	out := make([]models.Group, len(in))
	for i := range in {
		out[i] = copyGroup(in[i])
	}
	return out
}

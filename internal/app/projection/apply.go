// internal/app/projection/apply.go
package projection

import (
	"context"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ApplySubject reconciles one subject event.
//
// Inserts are upserts by ID: a duplicate (the echo of a local create, or
// a replayed event) overwrites fields instead of adding a second copy.
// Updates of an absent ID are dropped; the document was deleted and the
// delete wins. Deletes cascade to the subject's groupings and groups.
func (p *Projection) ApplySubject(ev feed.Event[models.Subject]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Op {
	case feed.OpInsert, feed.OpUpdate:
		if ev.Doc == nil {
			p.log.Warn("subject event without document dropped",
				zap.String("op", ev.Op.String()),
				zap.String("id", ev.ID.Hex()))
			return
		}
		if i := p.subjectIndex(ev.ID); i >= 0 {
			roster := p.subjects[i].Students
			p.subjects[i] = *ev.Doc
			p.subjects[i].Students = roster
			return
		}
		if ev.Op == feed.OpUpdate {
			// Late update for a deleted subject.
			return
		}
		sub := *ev.Doc
		sub.Students = nil
		p.subjects = append([]models.Subject{sub}, p.subjects...)

	case feed.OpDelete:
		i := p.subjectIndex(ev.ID)
		if i < 0 {
			return
		}
		p.subjects = append(p.subjects[:i], p.subjects[i+1:]...)
		p.dropGroupingsOfSubject(ev.ID)
	}
}

// ApplyStudent reconciles one roster event. Students live inside their
// subject; an insert whose subject is unknown is dropped (the subject
// delete already won).
func (p *Projection) ApplyStudent(ev feed.Event[models.Student]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Op {
	case feed.OpInsert, feed.OpUpdate:
		if ev.Doc == nil {
			p.log.Warn("student event without document dropped",
				zap.String("op", ev.Op.String()),
				zap.String("id", ev.ID.Hex()))
			return
		}
		i := p.subjectIndex(ev.Doc.SubjectID)
		if i < 0 {
			p.log.Warn("student event for unknown subject dropped",
				zap.String("student_id", ev.ID.Hex()),
				zap.String("subject_id", ev.Doc.SubjectID.Hex()))
			return
		}
		roster := p.subjects[i].Students
		for j := range roster {
			if roster[j].ID == ev.ID {
				roster[j] = *ev.Doc
				return
			}
		}
		p.subjects[i].Students = append(roster, *ev.Doc)

	case feed.OpDelete:
		// The payload names only the row, so scan every roster.
		for i := range p.subjects {
			roster := p.subjects[i].Students
			for j := range roster {
				if roster[j].ID == ev.ID {
					p.subjects[i].Students = append(roster[:j], roster[j+1:]...)
					return
				}
			}
		}
	}
}

// ApplyGrouping reconciles one grouping event. Deletes cascade to the
// grouping's groups.
func (p *Projection) ApplyGrouping(ev feed.Event[models.Grouping]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Op {
	case feed.OpInsert, feed.OpUpdate:
		if ev.Doc == nil {
			p.log.Warn("grouping event without document dropped",
				zap.String("op", ev.Op.String()),
				zap.String("id", ev.ID.Hex()))
			return
		}
		if i := p.groupingIndex(ev.ID); i >= 0 {
			p.groupings[i] = *ev.Doc
			return
		}
		if ev.Op == feed.OpUpdate {
			return
		}
		p.groupings = append([]models.Grouping{*ev.Doc}, p.groupings...)

	case feed.OpDelete:
		i := p.groupingIndex(ev.ID)
		if i < 0 {
			return
		}
		p.groupings = append(p.groupings[:i], p.groupings[i+1:]...)
		p.dropGroupsOfGrouping(ev.ID)
	}
}

// ApplyGroup reconciles one group event. Member lists are owned by
// membership events, so an update keeps the local list.
func (p *Projection) ApplyGroup(ev feed.Event[models.Group]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Op {
	case feed.OpInsert, feed.OpUpdate:
		if ev.Doc == nil {
			p.log.Warn("group event without document dropped",
				zap.String("op", ev.Op.String()),
				zap.String("id", ev.ID.Hex()))
			return
		}
		if i := p.groupIndex(ev.ID); i >= 0 {
			members := p.groups[i].Members
			p.groups[i] = *ev.Doc
			p.groups[i].Members = members
			return
		}
		if ev.Op == feed.OpUpdate {
			return
		}
		g := *ev.Doc
		g.Members = nil
		p.groups = append(p.groups, g)

	case feed.OpDelete:
		i := p.groupIndex(ev.ID)
		if i < 0 {
			return
		}
		p.groups = append(p.groups[:i], p.groups[i+1:]...)
	}
}

// ApplyMember reconciles one membership event.
//
// An insert whose parent group is unknown is dropped with a log line: the
// group delete raced ahead and its cascade already removed the rows. A
// delete that does not name its member forces a refetch, of one group
// when the event says which, of every group otherwise.
func (p *Projection) ApplyMember(ctx context.Context, ev feed.MemberEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Op {
	case feed.OpInsert:
		if ev.GroupID.IsZero() || ev.Name == "" {
			p.log.Warn("member insert without payload dropped",
				zap.String("row_id", ev.RowID.Hex()))
			return
		}
		i := p.groupIndex(ev.GroupID)
		if i < 0 {
			p.log.Warn("member insert for unknown group dropped",
				zap.String("row_id", ev.RowID.Hex()),
				zap.String("group_id", ev.GroupID.Hex()))
			return
		}
		// Membership is name-keyed locally; a replayed insert is a no-op.
		for _, m := range p.groups[i].Members {
			if m == ev.Name {
				return
			}
		}
		p.groups[i].Members = append(p.groups[i].Members, ev.Name)

	case feed.OpUpdate:
		// Membership rows are insert/delete only.

	case feed.OpDelete:
		if ev.Name != "" && !ev.GroupID.IsZero() {
			i := p.groupIndex(ev.GroupID)
			if i < 0 {
				return
			}
			members := p.groups[i].Members
			for j, m := range members {
				if m == ev.Name {
					p.groups[i].Members = append(members[:j], members[j+1:]...)
					return
				}
			}
			return
		}
		if !ev.GroupID.IsZero() {
			p.resyncGroupLocked(ctx, ev)
			return
		}
		p.resyncAllLocked(ctx, ev)
	}
}

// resyncGroupLocked refetches one group's member list from the store.
// Caller holds p.mu.
func (p *Projection) resyncGroupLocked(ctx context.Context, ev feed.MemberEvent) {
	i := p.groupIndex(ev.GroupID)
	if i < 0 {
		return
	}
	p.log.Info("member delete without name; resyncing group",
		zap.String("row_id", ev.RowID.Hex()),
		zap.String("group_id", ev.GroupID.Hex()))
	names, err := p.loader.Names(ctx, ev.GroupID)
	if err != nil {
		p.log.Error("member resync failed",
			zap.String("group_id", ev.GroupID.Hex()),
			zap.Error(err))
		return
	}
	p.groups[i].Members = names
}

// resyncAllLocked refetches every group's member list from the store.
// Caller holds p.mu.
func (p *Projection) resyncAllLocked(ctx context.Context, ev feed.MemberEvent) {
	p.log.Info("member delete without payload; resyncing all groups",
		zap.String("row_id", ev.RowID.Hex()))
	byGroup, err := p.loader.AllNames(ctx)
	if err != nil {
		p.log.Error("member resync failed", zap.Error(err))
		return
	}
	for i := range p.groups {
		p.groups[i].Members = byGroup[p.groups[i].ID]
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| local cascades (callers hold p.mu)                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (p *Projection) dropGroupingsOfSubject(subjectID primitive.ObjectID) {
	kept := p.groupings[:0]
	for _, g := range p.groupings {
		if g.SubjectID == subjectID {
			p.dropGroupsOfGrouping(g.ID)
			continue
		}
		kept = append(kept, g)
	}
	p.groupings = kept
}

func (p *Projection) dropGroupsOfGrouping(groupingID primitive.ObjectID) {
	kept := p.groups[:0]
	for _, g := range p.groups {
		if g.GroupingID == groupingID {
			continue
		}
		kept = append(kept, g)
	}
	p.groups = kept
}

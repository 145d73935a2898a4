package projection

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/feed"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeLoader serves canned member lists and records resync calls.
type fakeLoader struct {
	names    map[primitive.ObjectID][]string
	err      error
	oneCalls int
	allCalls int
}

func (l *fakeLoader) Names(_ context.Context, groupID primitive.ObjectID) ([]string, error) {
	l.oneCalls++
	if l.err != nil {
		return nil, l.err
	}
	return l.names[groupID], nil
}

func (l *fakeLoader) AllNames(_ context.Context) (map[primitive.ObjectID][]string, error) {
	l.allCalls++
	if l.err != nil {
		return nil, l.err
	}
	return l.names, nil
}

func newTestProjection(loader *fakeLoader) *Projection {
	if loader == nil {
		loader = &fakeLoader{}
	}
	return New(loader, zap.NewNop())
}

func subjectEvent(op feed.Op, s models.Subject) feed.Event[models.Subject] {
	ev := feed.Event[models.Subject]{Op: op, ID: s.ID}
	if op != feed.OpDelete {
		ev.Doc = &s
	}
	return ev
}

func groupingEvent(op feed.Op, g models.Grouping) feed.Event[models.Grouping] {
	ev := feed.Event[models.Grouping]{Op: op, ID: g.ID}
	if op != feed.OpDelete {
		ev.Doc = &g
	}
	return ev
}

func groupEvent(op feed.Op, g models.Group) feed.Event[models.Group] {
	ev := feed.Event[models.Group]{Op: op, ID: g.ID}
	if op != feed.OpDelete {
		ev.Doc = &g
	}
	return ev
}

func TestApplySubject_InsertIsUpsert(t *testing.T) {
	p := newTestProjection(nil)
	s := models.Subject{ID: primitive.NewObjectID(), Name: "Math"}

	p.ApplySubject(subjectEvent(feed.OpInsert, s))
	// Replayed insert must not add a second copy.
	p.ApplySubject(subjectEvent(feed.OpInsert, s))

	subs := p.Subjects()
	if len(subs) != 1 {
		t.Fatalf("got %d subjects, want 1", len(subs))
	}
	if subs[0].Name != "Math" {
		t.Errorf("got name %q", subs[0].Name)
	}
}

func TestApplySubject_InsertEchoKeepsRoster(t *testing.T) {
	p := newTestProjection(nil)
	s := models.Subject{ID: primitive.NewObjectID(), Name: "Math"}
	p.ApplySubject(subjectEvent(feed.OpInsert, s))
	st := models.Student{ID: primitive.NewObjectID(), SubjectID: s.ID, Name: "Santos, Roi"}
	p.ApplyStudent(feed.Event[models.Student]{Op: feed.OpInsert, ID: st.ID, Doc: &st})

	// The feed echo of the create arrives after a student was attached.
	p.ApplySubject(subjectEvent(feed.OpInsert, s))

	subs := p.Subjects()
	if len(subs) != 1 || len(subs[0].Students) != 1 {
		t.Fatalf("roster lost on insert echo: %+v", subs)
	}
}

func TestApplySubject_NewestFirst(t *testing.T) {
	p := newTestProjection(nil)
	a := models.Subject{ID: primitive.NewObjectID(), Name: "A"}
	b := models.Subject{ID: primitive.NewObjectID(), Name: "B"}
	p.ApplySubject(subjectEvent(feed.OpInsert, a))
	p.ApplySubject(subjectEvent(feed.OpInsert, b))

	subs := p.Subjects()
	if subs[0].Name != "B" || subs[1].Name != "A" {
		t.Errorf("got order %q, %q; want newest first", subs[0].Name, subs[1].Name)
	}
}

func TestApplySubject_LateUpdateIsNoOp(t *testing.T) {
	p := newTestProjection(nil)
	s := models.Subject{ID: primitive.NewObjectID(), Name: "Math"}

	// Update for a subject that was never inserted (already deleted).
	p.ApplySubject(subjectEvent(feed.OpUpdate, s))

	if subs := p.Subjects(); len(subs) != 0 {
		t.Fatalf("late update resurrected a subject: %+v", subs)
	}
}

func TestApplySubject_DeleteCascades(t *testing.T) {
	p := newTestProjection(nil)
	s := models.Subject{ID: primitive.NewObjectID(), Name: "Math"}
	other := models.Subject{ID: primitive.NewObjectID(), Name: "Art"}
	g := models.Grouping{ID: primitive.NewObjectID(), SubjectID: s.ID, Title: "Labs"}
	gOther := models.Grouping{ID: primitive.NewObjectID(), SubjectID: other.ID, Title: "Crafts"}
	grp := models.Group{ID: primitive.NewObjectID(), GroupingID: g.ID, Name: "Team Alpha"}
	grpOther := models.Group{ID: primitive.NewObjectID(), GroupingID: gOther.ID, Name: "Team Beta"}

	p.ApplySubject(subjectEvent(feed.OpInsert, s))
	p.ApplySubject(subjectEvent(feed.OpInsert, other))
	p.ApplyGrouping(groupingEvent(feed.OpInsert, g))
	p.ApplyGrouping(groupingEvent(feed.OpInsert, gOther))
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))
	p.ApplyGroup(groupEvent(feed.OpInsert, grpOther))

	p.ApplySubject(subjectEvent(feed.OpDelete, s))

	if subs := p.Subjects(); len(subs) != 1 || subs[0].ID != other.ID {
		t.Fatalf("subjects after cascade: %+v", subs)
	}
	if gs := p.Groupings(); len(gs) != 1 || gs[0].ID != gOther.ID {
		t.Fatalf("groupings after cascade: %+v", gs)
	}
	if gs := p.Groups(); len(gs) != 1 || gs[0].ID != grpOther.ID {
		t.Fatalf("groups after cascade: %+v", gs)
	}
}

func TestApplyGrouping_DeleteCascadesGroups(t *testing.T) {
	p := newTestProjection(nil)
	s := models.Subject{ID: primitive.NewObjectID(), Name: "Math"}
	g := models.Grouping{ID: primitive.NewObjectID(), SubjectID: s.ID}
	grp := models.Group{ID: primitive.NewObjectID(), GroupingID: g.ID}

	p.ApplySubject(subjectEvent(feed.OpInsert, s))
	p.ApplyGrouping(groupingEvent(feed.OpInsert, g))
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))

	p.ApplyGrouping(groupingEvent(feed.OpDelete, g))

	if gs := p.Groups(); len(gs) != 0 {
		t.Fatalf("groups survived grouping delete: %+v", gs)
	}
	// Replayed delete is harmless.
	p.ApplyGrouping(groupingEvent(feed.OpDelete, g))
}

func TestApplyGroup_UpdateKeepsMembers(t *testing.T) {
	p := newTestProjection(nil)
	grp := models.Group{ID: primitive.NewObjectID(), Name: "Team Alpha", MemberLimit: 4}
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(),
		GroupID: grp.ID, Name: "Santos, Roi",
	})

	renamed := grp
	renamed.Name = "Team Omega"
	p.ApplyGroup(groupEvent(feed.OpUpdate, renamed))

	got, ok := p.GroupByID(grp.ID)
	if !ok {
		t.Fatal("group missing")
	}
	if got.Name != "Team Omega" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Members) != 1 || got.Members[0] != "Santos, Roi" {
		t.Errorf("members lost on update: %v", got.Members)
	}
}

func TestApplyMember_InsertIdempotent(t *testing.T) {
	p := newTestProjection(nil)
	grp := models.Group{ID: primitive.NewObjectID(), Name: "Team Alpha"}
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))

	ev := feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(),
		GroupID: grp.ID, Name: "Santos, Roi",
	}
	p.ApplyMember(context.Background(), ev)
	p.ApplyMember(context.Background(), ev)

	got, _ := p.GroupByID(grp.ID)
	if len(got.Members) != 1 {
		t.Fatalf("got members %v, want one", got.Members)
	}
}

func TestApplyMember_OrphanInsertDropped(t *testing.T) {
	p := newTestProjection(nil)
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(),
		GroupID: primitive.NewObjectID(), Name: "Santos, Roi",
	})
	if gs := p.Groups(); len(gs) != 0 {
		t.Fatalf("orphan insert created state: %+v", gs)
	}
}

func TestApplyMember_DeleteByName(t *testing.T) {
	p := newTestProjection(nil)
	grp := models.Group{ID: primitive.NewObjectID()}
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(), GroupID: grp.ID, Name: "Santos, Roi",
	})

	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpDelete, RowID: primitive.NewObjectID(), GroupID: grp.ID, Name: "Santos, Roi",
	})

	got, _ := p.GroupByID(grp.ID)
	if len(got.Members) != 0 {
		t.Fatalf("member not removed: %v", got.Members)
	}
}

func TestApplyMember_UnknownDeleteResyncsGroup(t *testing.T) {
	grp := models.Group{ID: primitive.NewObjectID()}
	loader := &fakeLoader{names: map[primitive.ObjectID][]string{
		grp.ID: {"Bañares, Ana"},
	}}
	p := newTestProjection(loader)
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(), GroupID: grp.ID, Name: "Santos, Roi",
	})
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(), GroupID: grp.ID, Name: "Bañares, Ana",
	})

	// Delete names the group but not the member.
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpDelete, RowID: primitive.NewObjectID(), GroupID: grp.ID,
	})

	if loader.oneCalls != 1 {
		t.Fatalf("group resync calls = %d, want 1", loader.oneCalls)
	}
	got, _ := p.GroupByID(grp.ID)
	if len(got.Members) != 1 || got.Members[0] != "Bañares, Ana" {
		t.Fatalf("members after resync: %v", got.Members)
	}
}

func TestApplyMember_UnknownDeleteResyncsAll(t *testing.T) {
	g1 := models.Group{ID: primitive.NewObjectID()}
	g2 := models.Group{ID: primitive.NewObjectID()}
	loader := &fakeLoader{names: map[primitive.ObjectID][]string{
		g1.ID: {"Santos, Roi"},
	}}
	p := newTestProjection(loader)
	p.ApplyGroup(groupEvent(feed.OpInsert, g1))
	p.ApplyGroup(groupEvent(feed.OpInsert, g2))
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(), GroupID: g2.ID, Name: "Reyes, Pedro",
	})

	// Delete carries nothing but the row ID.
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpDelete, RowID: primitive.NewObjectID(),
	})

	if loader.allCalls != 1 {
		t.Fatalf("all-groups resync calls = %d, want 1", loader.allCalls)
	}
	got1, _ := p.GroupByID(g1.ID)
	got2, _ := p.GroupByID(g2.ID)
	if len(got1.Members) != 1 || got1.Members[0] != "Santos, Roi" {
		t.Errorf("g1 members: %v", got1.Members)
	}
	if len(got2.Members) != 0 {
		t.Errorf("g2 members: %v", got2.Members)
	}
}

func TestApplyMember_ResyncFailureKeepsState(t *testing.T) {
	grp := models.Group{ID: primitive.NewObjectID()}
	loader := &fakeLoader{err: errors.New("store down")}
	p := newTestProjection(loader)
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(), GroupID: grp.ID, Name: "Santos, Roi",
	})

	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpDelete, RowID: primitive.NewObjectID(), GroupID: grp.ID,
	})

	got, _ := p.GroupByID(grp.ID)
	if len(got.Members) != 1 {
		t.Fatalf("state changed on failed resync: %v", got.Members)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	p := newTestProjection(nil)
	grp := models.Group{ID: primitive.NewObjectID()}
	p.ApplyGroup(groupEvent(feed.OpInsert, grp))
	p.ApplyMember(context.Background(), feed.MemberEvent{
		Op: feed.OpInsert, RowID: primitive.NewObjectID(), GroupID: grp.ID, Name: "Santos, Roi",
	})

	snap, _ := p.GroupByID(grp.ID)
	snap.Members[0] = "mutated"

	again, _ := p.GroupByID(grp.ID)
	if again.Members[0] != "Santos, Roi" {
		t.Fatal("snapshot mutation leaked into the projection")
	}
}

func TestFallback(t *testing.T) {
	p := newTestProjection(nil)
	s := models.Subject{ID: primitive.NewObjectID()}
	g := models.Grouping{ID: primitive.NewObjectID(), SubjectID: s.ID}
	p.ApplySubject(subjectEvent(feed.OpInsert, s))
	p.ApplyGrouping(groupingEvent(feed.OpInsert, g))

	pg := Page{Type: PageGrouping, SubjectID: s.ID, GroupingID: g.ID}
	if got := p.Fallback(pg); got != pg {
		t.Errorf("intact page changed: %+v", got)
	}

	p.ApplyGrouping(groupingEvent(feed.OpDelete, g))
	got := p.Fallback(pg)
	if got.Type != PageSubject || got.SubjectID != s.ID {
		t.Errorf("after grouping delete: %+v, want subject page", got)
	}

	p.ApplySubject(subjectEvent(feed.OpDelete, s))
	if got := p.Fallback(pg); got.Type != PageHome {
		t.Errorf("after subject delete: %+v, want home", got)
	}
	if got := p.Fallback(Page{Type: PageSubject, SubjectID: s.ID}); got.Type != PageHome {
		t.Errorf("subject page after delete: %+v, want home", got)
	}
}

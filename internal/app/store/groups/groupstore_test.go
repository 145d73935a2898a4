// internal/app/store/groups/groupstore_test.go
//
// These tests hit a real Mongo and skip unless GROUPHUB_TEST_MONGO_URI is
// set.
package groupstore

import (
	"testing"

	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/grouphub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupingID := primitive.NewObjectID()
	created, err := st.Create(ctx, models.Group{
		GroupingID:  groupingID,
		Name:        "Alpha Team",
		MemberLimit: 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("Create returned a zero id")
	}
	if created.NameCI == "" || created.NameCI == created.Name {
		t.Errorf("NameCI = %q, want a folded form", created.NameCI)
	}

	got, err := st.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alpha Team" || got.MemberLimit != 4 || got.GroupingID != groupingID {
		t.Errorf("GetByID = %+v", got)
	}
}

func TestSetRepresentative(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := st.Create(ctx, models.Group{GroupingID: primitive.NewObjectID(), Name: "Alpha", MemberLimit: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := st.SetRepresentative(ctx, g.ID, "Santos, Roi"); err != nil {
		t.Fatalf("SetRepresentative: %v", err)
	}
	got, _ := st.GetByID(ctx, g.ID)
	if got.Representative != "Santos, Roi" {
		t.Errorf("representative = %q", got.Representative)
	}

	// Empty name clears the field.
	if err := st.SetRepresentative(ctx, g.ID, ""); err != nil {
		t.Fatalf("clear representative: %v", err)
	}
	got, _ = st.GetByID(ctx, g.ID)
	if got.Representative != "" {
		t.Errorf("representative after clear = %q, want empty", got.Representative)
	}
}

func TestUpdateInfoKeepsEmptyFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := st.Create(ctx, models.Group{GroupingID: primitive.NewObjectID(), Name: "Alpha", MemberLimit: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := st.UpdateInfo(ctx, g.ID, "", 5); err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}
	got, _ := st.GetByID(ctx, g.ID)
	if got.Name != "Alpha" || got.MemberLimit != 5 {
		t.Errorf("after update = %+v, want name kept and limit 5", got)
	}
}

func TestDeleteByGroupings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	grpg1 := primitive.NewObjectID()
	grpg2 := primitive.NewObjectID()
	grpg3 := primitive.NewObjectID()
	var inDoomed []primitive.ObjectID
	for _, tc := range []struct {
		grouping primitive.ObjectID
		name     string
	}{
		{grpg1, "Alpha"}, {grpg1, "Beta"}, {grpg2, "Gamma"}, {grpg3, "Delta"},
	} {
		g, err := st.Create(ctx, models.Group{GroupingID: tc.grouping, Name: tc.name, MemberLimit: 2})
		if err != nil {
			t.Fatalf("Create(%s): %v", tc.name, err)
		}
		if tc.grouping != grpg3 {
			inDoomed = append(inDoomed, g.ID)
		}
	}

	ids, err := st.ListIDsByGroupings(ctx, []primitive.ObjectID{grpg1, grpg2})
	if err != nil {
		t.Fatalf("ListIDsByGroupings: %v", err)
	}
	if len(ids) != len(inDoomed) {
		t.Errorf("ids = %d, want %d", len(ids), len(inDoomed))
	}

	n, err := st.DeleteByGroupings(ctx, []primitive.ObjectID{grpg1, grpg2})
	if err != nil {
		t.Fatalf("DeleteByGroupings: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	left, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(left) != 1 || left[0].Name != "Delta" {
		t.Errorf("remaining = %+v, want only Delta", left)
	}
}

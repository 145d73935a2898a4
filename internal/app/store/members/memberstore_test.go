// internal/app/store/members/memberstore_test.go
//
// These tests hit a real Mongo and skip unless GROUPHUB_TEST_MONGO_URI is
// set.
package memberstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/system/indexes"
	"github.com/dalemusser/grouphub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return New(db)
}

func TestAddAndNames(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	for _, name := range []string{"Santos, Roi", "García, María"} {
		if _, err := st.Add(ctx, groupID, name); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	names, err := st.Names(ctx, groupID)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	want := []string{"Santos, Roi", "García, María"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("Names = %v, want %v in join order", names, want)
	}

	n, err := st.CountByGroup(ctx, groupID)
	if err != nil || n != 2 {
		t.Errorf("CountByGroup = %d, %v, want 2", n, err)
	}
}

func TestAddDuplicate(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	if _, err := st.Add(ctx, groupID, "García, María"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Exact re-join and a case variant both collide on the folded unique
	// index.
	for _, name := range []string{"García, María", "gARCÍA, mARÍA"} {
		if _, err := st.Add(ctx, groupID, name); !errors.Is(err, ErrDuplicateMember) {
			t.Errorf("Add(%q) err = %v, want ErrDuplicateMember", name, err)
		}
	}

	// Same name in a different group is fine.
	if _, err := st.Add(ctx, primitive.NewObjectID(), "García, María"); err != nil {
		t.Errorf("Add to other group: %v", err)
	}
}

func TestAddBatchSkipsDuplicates(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	if _, err := st.Add(ctx, groupID, "Smith, John"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := st.AddBatch(ctx, groupID, []string{"Santos, Roi", "Smith, John", "García, María"})
	if err != nil {
		t.Fatalf("AddBatch: %v", err)
	}
	if res.Added != 2 || res.Duplicates != 1 {
		t.Errorf("AddBatch = %+v, want Added 2 Duplicates 1", res)
	}
	if len(res.Rows) != 2 {
		t.Errorf("Rows = %v, want the two inserted rows", res.Rows)
	}

	n, _ := st.CountByGroup(ctx, groupID)
	if n != 3 {
		t.Errorf("CountByGroup = %d, want 3", n)
	}
}

func TestRemove(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	if _, err := st.Add(ctx, groupID, "Santos, Roi"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Remove matches the exact stored name; a variant deletes nothing.
	if err := st.Remove(ctx, groupID, "santos, roi"); err != nil {
		t.Fatalf("Remove variant: %v", err)
	}
	if n, _ := st.CountByGroup(ctx, groupID); n != 1 {
		t.Fatalf("variant removed the row, count = %d", n)
	}

	if err := st.Remove(ctx, groupID, "Santos, Roi"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n, _ := st.CountByGroup(ctx, groupID); n != 0 {
		t.Errorf("count after remove = %d, want 0", n)
	}
}

func TestAllNames(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	if _, err := st.Add(ctx, g1, "Santos, Roi"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := st.Add(ctx, g2, "Smith, John"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := st.Add(ctx, g1, "García, María"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all, err := st.AllNames(ctx)
	if err != nil {
		t.Fatalf("AllNames: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AllNames groups = %d, want 2", len(all))
	}
	if got := all[g1]; len(got) != 2 || got[0] != "Santos, Roi" {
		t.Errorf("group 1 names = %v", got)
	}
	if got := all[g2]; len(got) != 1 || got[0] != "Smith, John" {
		t.Errorf("group 2 names = %v", got)
	}
}

func TestDeleteByGroups(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	g3 := primitive.NewObjectID()
	for _, g := range []primitive.ObjectID{g1, g2, g3} {
		if _, err := st.Add(ctx, g, "Santos, Roi"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	n, err := st.DeleteByGroups(ctx, []primitive.ObjectID{g1, g2})
	if err != nil {
		t.Fatalf("DeleteByGroups: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if left, _ := st.CountByGroup(ctx, g3); left != 1 {
		t.Errorf("untouched group count = %d, want 1", left)
	}

	if n, err := st.DeleteByGroups(ctx, nil); err != nil || n != 0 {
		t.Errorf("DeleteByGroups(nil) = %d, %v, want 0, nil", n, err)
	}
}

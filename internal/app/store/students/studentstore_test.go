// internal/app/store/students/studentstore_test.go
//
// These tests hit a real Mongo and skip unless GROUPHUB_TEST_MONGO_URI is
// set.
package studentstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/system/indexes"
	"github.com/dalemusser/grouphub/internal/domain/models"
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

func TestCreateDuplicate(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subjectID := primitive.NewObjectID()
	if _, err := st.Create(ctx, models.Student{SubjectID: subjectID, Name: "García, María"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The folded unique index catches case variants too.
	_, err := st.Create(ctx, models.Student{SubjectID: subjectID, Name: "garcía, maría"})
	if !errors.Is(err, ErrDuplicateStudent) {
		t.Errorf("variant err = %v, want ErrDuplicateStudent", err)
	}

	// Same name on another subject's roster is fine.
	if _, err := st.Create(ctx, models.Student{SubjectID: primitive.NewObjectID(), Name: "García, María"}); err != nil {
		t.Errorf("other subject: %v", err)
	}
}

func TestCreateBatchDuplicateAborts(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subjectID := primitive.NewObjectID()
	if _, err := st.Create(ctx, models.Student{SubjectID: subjectID, Name: "Smith, John"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := st.CreateBatch(ctx, subjectID, []string{"Santos, Roi", "Smith, John", "García, María"})
	if !errors.Is(err, ErrDuplicateStudent) {
		t.Fatalf("err = %v, want ErrDuplicateStudent", err)
	}
}

func TestListBySubjectSorted(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subjectID := primitive.NewObjectID()
	if _, err := st.CreateBatch(ctx, subjectID, []string{"Smith, John", "García, María", "Santos, Roi"}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	roster, err := st.ListBySubject(ctx, subjectID)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	want := []string{"García, María", "Santos, Roi", "Smith, John"}
	if len(roster) != len(want) {
		t.Fatalf("roster size = %d, want %d", len(roster), len(want))
	}
	for i, name := range want {
		if roster[i].Name != name {
			t.Errorf("roster[%d] = %q, want %q", i, roster[i].Name, name)
		}
	}
}

func TestDeleteBySubject(t *testing.T) {
	st := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	subj1 := primitive.NewObjectID()
	subj2 := primitive.NewObjectID()
	if _, err := st.CreateBatch(ctx, subj1, []string{"Santos, Roi", "Smith, John"}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if _, err := st.Create(ctx, models.Student{SubjectID: subj2, Name: "Santos, Roi"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := st.DeleteBySubject(ctx, subj1)
	if err != nil {
		t.Fatalf("DeleteBySubject: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	left, _ := st.ListBySubject(ctx, subj2)
	if len(left) != 1 {
		t.Errorf("other subject roster = %d, want untouched", len(left))
	}
}

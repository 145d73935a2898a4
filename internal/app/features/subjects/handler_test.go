// internal/app/features/subjects/handler_test.go
package subjects

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/dalemusser/grouphub/internal/app/projection"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/dalemusser/grouphub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type noLoader struct{}

func (noLoader) Names(context.Context, primitive.ObjectID) ([]string, error) { return nil, nil }
func (noLoader) AllNames(context.Context) (map[primitive.ObjectID][]string, error) {
	return nil, nil
}

type fakeStudents struct{}

func (fakeStudents) Create(_ context.Context, st models.Student) (models.Student, error) {
	st.ID = primitive.NewObjectID()
	return st, nil
}
func (fakeStudents) CreateBatch(_ context.Context, subjectID primitive.ObjectID, names []string) ([]models.Student, error) {
	out := make([]models.Student, 0, len(names))
	for _, n := range names {
		out = append(out, models.Student{ID: primitive.NewObjectID(), SubjectID: subjectID, Name: n})
	}
	return out, nil
}
func (fakeStudents) Delete(context.Context, primitive.ObjectID) (int64, error) { return 1, nil }
func (fakeStudents) DeleteBySubject(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

func newTestHandler(t *testing.T) (*Handler, models.Subject) {
	t.Helper()

	subjID := primitive.NewObjectID()
	proj := projection.New(noLoader{}, zap.NewNop())
	proj.Load(
		[]models.Subject{{ID: subjID, Name: "Biology"}},
		nil, nil, nil, nil,
	)
	svc := enroll.New(proj, enroll.Stores{Students: fakeStudents{}}, zap.NewNop())
	h := NewHandler(svc, uierrors.NewLogger(zap.NewNop()), zap.NewNop())
	sub, _ := proj.SubjectByID(subjID)
	return h, sub
}

func batchRequest(t *testing.T, subjectID, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/subjects/"+subjectID+"/students/batch", strings.NewReader(body))
	return testutil.WithChiURLParam(r, "id", subjectID)
}

func TestHandleBatchAddStudentsFromText(t *testing.T) {
	h, sub := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleBatchAddStudents(w, batchRequest(t, sub.ID.Hex(),
		`{"text":"Santos, Roi\nGarcía, María\nSmith, John\n"}`))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Added int `json:"added"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Added != 3 {
		t.Errorf("added = %d, want 3", resp.Added)
	}
}

func TestHandleBatchAddStudentsReportsProblems(t *testing.T) {
	h, sub := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleBatchAddStudents(w, batchRequest(t, sub.ID.Hex(),
		`{"text":"Santos, Roi\nno comma here\nSantos, Roi\n"}`))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error    string `json:"error"`
		Problems []struct {
			Line   int    `json:"line"`
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"problems"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Problems) != 2 {
		t.Fatalf("problems = %+v, want the bad line and the duplicate", resp.Problems)
	}
	if resp.Problems[0].Line != 2 {
		t.Errorf("first problem on line %d, want 2", resp.Problems[0].Line)
	}
}

func TestHandleBatchAddStudentsEmpty(t *testing.T) {
	h, sub := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleBatchAddStudents(w, batchRequest(t, sub.ID.Hex(), `{"text":"\n\n"}`))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestHandleBatchAddStudentsBadID(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.HandleBatchAddStudents(w, batchRequest(t, "nope", `{"names":["Santos, Roi"]}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// internal/app/features/shared/shared.go
//
// Package shared holds the request plumbing common to the JSON features:
// body decoding, URL id parsing, and the mapping from enroll errors onto
// HTTP statuses.
package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBodyBytes bounds JSON request bodies; batch rosters fit comfortably.
const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// URLObjectID parses the named chi URL parameter as a Mongo ObjectID.
func URLObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, name))
}

// conflictBody names the group the member already belongs to.
type conflictBody struct {
	Error      string `json:"error"`
	GroupID    string `json:"group_id"`
	GroupName  string `json:"group_name"`
	MemberName string `json:"member_name"`
}

type batchErrorBody struct {
	Error string `json:"error"`
	Name  string `json:"name"`
}

// ServiceError maps an enroll error onto the right HTTP reply: 404 for
// unknown ids, 409 with the conflicting group's identity, 422 for
// validation failures, 502 for store-of-record failures.
func ServiceError(w http.ResponseWriter, r *http.Request, errLog *uierrors.ErrorLogger, op string, err error) {
	var conflict *enroll.Conflict
	if errors.As(err, &conflict) {
		uierrors.WriteJSON(w, http.StatusConflict, conflictBody{
			Error:      conflict.Error(),
			GroupID:    conflict.GroupID.Hex(),
			GroupName:  conflict.GroupName,
			MemberName: conflict.MemberName,
		})
		return
	}

	var batch *enroll.BatchError
	if errors.As(err, &batch) {
		uierrors.WriteJSON(w, http.StatusUnprocessableEntity, batchErrorBody{
			Error: batch.Err.Error(),
			Name:  batch.Name,
		})
		return
	}

	switch {
	case errors.Is(err, enroll.ErrSubjectNotFound),
		errors.Is(err, enroll.ErrGroupingNotFound),
		errors.Is(err, enroll.ErrGroupNotFound),
		errors.Is(err, enroll.ErrStudentNotFound):
		uierrors.WriteError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, enroll.ErrMissingName),
		errors.Is(err, enroll.ErrNameFormat),
		errors.Is(err, enroll.ErrNotEnrolled),
		errors.Is(err, enroll.ErrAlreadyMember),
		errors.Is(err, enroll.ErrNotMember),
		errors.Is(err, enroll.ErrAlreadyOnRoster),
		errors.Is(err, enroll.ErrGroupFull),
		errors.Is(err, enroll.ErrLimitExceeded),
		errors.Is(err, enroll.ErrLimitBelowSize),
		errors.Is(err, enroll.ErrGroupingLocked),
		errors.Is(err, enroll.ErrMissingTitle),
		errors.Is(err, enroll.ErrBadLimit),
		errors.Is(err, enroll.ErrUnknownIcon),
		errors.Is(err, enroll.ErrNotRepresentable):
		uierrors.WriteError(w, http.StatusUnprocessableEntity, err.Error())

	default:
		errLog.LogRemoteError(w, r, op, err)
	}
}

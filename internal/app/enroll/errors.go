// internal/app/enroll/errors.go
package enroll

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validation failures surfaced to clients. Handlers map these onto 4xx
// responses; anything else coming out of the service is a remote failure.
var (
	ErrMissingName      = errors.New("name is required")
	ErrNameFormat       = errors.New(`name must use the format "Last Name, First Name"`)
	ErrNotEnrolled      = errors.New("name not found on the enrolled student roster")
	ErrAlreadyMember    = errors.New("name is already a member of this group")
	ErrNotMember        = errors.New("name is not a member of this group")
	ErrAlreadyOnRoster  = errors.New("name is already on the roster")
	ErrGroupFull        = errors.New("group is full")
	ErrLimitExceeded    = errors.New("not enough open spots for the whole list")
	ErrLimitBelowSize   = errors.New("member limit cannot be below the current member count")
	ErrGroupingLocked   = errors.New("grouping is locked")
	ErrMissingTitle     = errors.New("title is required")
	ErrBadLimit         = errors.New("member limit must be at least 1")
	ErrUnknownIcon      = errors.New("unknown icon")
	ErrNotRepresentable = errors.New("representative must be a member of the group")

	ErrSubjectNotFound  = errors.New("subject not found")
	ErrGroupingNotFound = errors.New("grouping not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrStudentNotFound  = errors.New("student not found")
)

// Conflict reports that a name already belongs to a different group in
// the same grouping. It carries the conflicting group's identity so the
// client can say where the member already is.
type Conflict struct {
	GroupID    primitive.ObjectID
	GroupName  string
	MemberName string // the roster/member name that matched
	JoinName   string // the name the caller tried to join with
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("%s is already in %s", c.JoinName, c.GroupName)
}

// BatchError pins a validation failure to the offending name in a batch.
type BatchError struct {
	Name string
	Err  error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// BatchResult reports what a batch write actually did. Added can be less
// than Requested when the write phase partially fails; nothing is rolled
// back in that case.
type BatchResult struct {
	Requested int
	Added     int
}

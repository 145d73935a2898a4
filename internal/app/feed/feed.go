// internal/app/feed/feed.go
//
// Package feed delivers ordered change events from the store of record to
// the in-process projection. Consumers receive one channel per collection
// and own the subscription lifecycle: open it, drain it, Close it.
package feed

import (
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Op identifies the kind of change an event describes.
type Op int

const (
	OpInsert Op = iota + 1
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Event is one change to a document of type T. Doc carries the full
// document when the source provides one; delete events carry only the ID,
// and an update may arrive after its document was already deleted, in
// which case Doc is nil as well.
type Event[T any] struct {
	Op  Op
	ID  primitive.ObjectID
	Doc *T
}

// MemberEvent is one change to a membership row. Delete payloads are
// poorer than the rest: unless the source retained a pre-image, a delete
// identifies only the row, so GroupID may be zero and Name empty. The
// projection resynchronizes from the store when that happens.
type MemberEvent struct {
	Op      Op
	RowID   primitive.ObjectID
	GroupID primitive.ObjectID
	Name    string
}

// Feed is a live subscription to the store's change events. Channels are
// closed when the feed is closed or its context ends.
type Feed interface {
	Subjects() <-chan Event[models.Subject]
	Students() <-chan Event[models.Student]
	Groupings() <-chan Event[models.Grouping]
	Groups() <-chan Event[models.Group]
	Members() <-chan MemberEvent
	Close() error
}

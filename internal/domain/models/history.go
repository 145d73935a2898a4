// internal/domain/models/history.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical history action identifiers.
//
// These values are stored in the database in the HistoryEntry.ActionType
// field and are used throughout the application as stable keys.
const (
	ActionMemberAdded           = "member_added"
	ActionMemberRemoved         = "member_removed"
	ActionRepresentativeSet     = "representative_set"
	ActionRepresentativeRemoved = "representative_removed"
	ActionGroupCreated          = "group_created"
	ActionGroupDeleted          = "group_deleted"
)

// HistoryActions is the full set of allowed action identifiers.
//
// This slice should be treated as the single source of truth for validation
// and schema enums. Any new action must be added here to be considered valid.
var HistoryActions = []string{
	ActionMemberAdded,
	ActionMemberRemoved,
	ActionRepresentativeSet,
	ActionRepresentativeRemoved,
	ActionGroupCreated,
	ActionGroupDeleted,
}

// HistoryEntry is one append-only audit record for a grouping. Entries
// outlive the groups (and groupings) they describe, so GroupName and
// MemberName are denormalized onto the row.
type HistoryEntry struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupingID  primitive.ObjectID `bson:"grouping_id" json:"grouping_id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	ActionType  string             `bson:"action_type" json:"action_type"`
	GroupName   string             `bson:"group_name" json:"group_name"`
	MemberName  string             `bson:"member_name,omitempty" json:"member_name,omitempty"`
	PerformedBy string             `bson:"performed_by" json:"performed_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// internal/domain/models/groupmember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMember is one membership row: a display name attached to a group.
// A unique index on (group_id, member_name_ci) guarantees a name appears
// at most once per group.
type GroupMember struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	GroupID      primitive.ObjectID `bson:"group_id" json:"group_id"`
	MemberName   string             `bson:"member_name" json:"member_name"`
	MemberNameCI string             `bson:"member_name_ci" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a joinable group inside a grouping.
//
// NOTE:
//   - Member lists are not embedded on Group. Membership rows live in the
//     group_members collection and are joined in by fetch/projection code.
//   - Representative holds the display name of the member chosen to speak
//     for the group; empty means none is set.
type Group struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	GroupingID     primitive.ObjectID `bson:"grouping_id" json:"grouping_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	MemberLimit    int                `bson:"member_limit" json:"member_limit"`
	Representative string             `bson:"representative,omitempty" json:"representative,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Members holds the joined member names in membership order.
	Members []string `bson:"-" json:"members"`
}

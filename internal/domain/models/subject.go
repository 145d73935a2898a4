// internal/domain/models/subject.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subject is a top-level course area (e.g. "Mathematics") that owns a
// student roster and a set of groupings.
type Subject struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	Color     string             `bson:"color" json:"color"`
	Icon      string             `bson:"icon" json:"icon"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// Students is the enrolled roster, joined in by fetch/projection code.
	// It is never embedded on the subject document.
	Students []Student `bson:"-" json:"students"`
}

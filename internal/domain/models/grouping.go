// internal/domain/models/grouping.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grouping is a named activity under a subject (e.g. "Lab Partners") that
// contains groups. While Locked is true, only admins may change membership
// in its groups.
type Grouping struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	SubjectID primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	Title     string             `bson:"title" json:"title"`
	TitleCI   string             `bson:"title_ci" json:"-"`
	Color     string             `bson:"color" json:"color"`
	Locked    bool               `bson:"locked" json:"locked"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

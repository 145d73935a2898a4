// internal/domain/models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is one roster entry under a subject. The name is stored in
// "Last Name, First Name" form and is never edited in place; a correction
// is a delete plus a fresh insert.
type Student struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	SubjectID primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

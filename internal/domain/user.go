package domain

import "time"

// User is the subject whose workouts are tracked. The app serves a
// single configured subject, so this record exists mostly so the
// dashboard has something to point at; the ID is a caller-supplied
// string (e.g. "user-mia") rather than an ObjectID.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session represents a single logged workout. Sessions are append-only:
// they are created once when the workout is logged and never mutated.
// Date is the day the workout happened, which is not necessarily the
// moment it was logged.
type Session struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  string             `bson:"userId" json:"userId"`
	Date    time.Time          `bson:"date" json:"date"`
	Minutes int                `bson:"minutes" json:"minutes"`
	Notes   string             `bson:"notes,omitempty" json:"notes"`
}

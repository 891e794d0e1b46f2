package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardUnlock records that a reward tier was granted to a user.
// Immutable once created. The WindowEpoch field backs the unique index
// that prevents the same tier from being granted twice within one
// rolling window (see repository/mongo/unlock_repo.go); it is an
// implementation detail and never leaves the API.
type RewardUnlock struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	RewardName  string             `bson:"rewardName" json:"rewardName"`
	UnlockedAt  time.Time          `bson:"unlockedAt" json:"unlockedAt"`
	WindowEpoch int64              `bson:"windowEpoch" json:"-"`
}

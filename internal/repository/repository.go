package repository

import (
	"alcyxob/workout-journey/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrAlreadyExists = RepositoryError("already exists")
	ErrDeleteFailed  = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// SessionRepository defines the interface for the append-only workout
// session log.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	// ListByUser returns every session for the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	// ListSince returns sessions with date >= since, oldest first.
	// minMinutes filters out shorter sessions; pass 0 for no filter.
	ListSince(ctx context.Context, userID string, since time.Time, minMinutes int) ([]domain.Session, error)
	// CountSince counts sessions with date >= since and minutes >= minMinutes.
	CountSince(ctx context.Context, userID string, since time.Time, minMinutes int) (int64, error)
	// Delete is an administrative override; the core never deletes sessions.
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
}

// UnlockRepository defines the interface for the reward unlock record.
type UnlockRepository interface {
	// Create inserts the unlock. Returns ErrAlreadyExists when the
	// unique (userId, rewardName, windowEpoch) constraint is violated,
	// i.e. a concurrent request already granted this tier for the
	// same window.
	Create(ctx context.Context, unlock *domain.RewardUnlock) (primitive.ObjectID, error)
	// FindSince returns the unlock for (userID, rewardName) with
	// unlockedAt strictly after since, or ErrNotFound.
	FindSince(ctx context.Context, userID, rewardName string, since time.Time) (*domain.RewardUnlock, error)
	// ListByUser returns every unlock for the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.RewardUnlock, error)
}

// UserRepository defines the interface for the subject identity record.
type UserRepository interface {
	// Upsert creates the subject record if it does not exist yet.
	// Calling it repeatedly is a no-op.
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// internal/repository/mongo/unlock_repo.go
package mongo

import (
	"alcyxob/workout-journey/internal/domain"
	"alcyxob/workout-journey/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const unlockCollectionName = "reward_unlocks"

// mongoUnlockRepository implements repository.UnlockRepository
type mongoUnlockRepository struct {
	collection *mongo.Collection
}

// NewMongoUnlockRepository creates a new RewardUnlock repository.
func NewMongoUnlockRepository(db *mongo.Database) repository.UnlockRepository {
	return &mongoUnlockRepository{
		collection: db.Collection(unlockCollectionName),
	}
}

// Create inserts a new unlock record. The unique index on
// (userId, rewardName, windowEpoch) is the durable guard against two
// concurrent evaluations granting the same tier for the same window;
// the losing writer gets repository.ErrAlreadyExists.
func (r *mongoUnlockRepository) Create(ctx context.Context, unlock *domain.RewardUnlock) (primitive.ObjectID, error) {
	if unlock.UserID == "" || unlock.RewardName == "" {
		return primitive.NilObjectID, errors.New("unlock requires userId and rewardName")
	}
	if unlock.UnlockedAt.IsZero() {
		unlock.UnlockedAt = time.Now().UTC()
	}
	unlock.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, unlock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrAlreadyExists
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted unlock ID")
	}
	return insertedID, nil
}

// FindSince retrieves the unlock for (userID, rewardName) with
// unlockedAt strictly after since.
func (r *mongoUnlockRepository) FindSince(ctx context.Context, userID, rewardName string, since time.Time) (*domain.RewardUnlock, error) {
	var unlock domain.RewardUnlock
	filter := bson.M{
		"userId":     userID,
		"rewardName": rewardName,
		"unlockedAt": bson.M{"$gt": since},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "unlockedAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&unlock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &unlock, nil
}

// ListByUser retrieves every unlock for the user, newest first.
func (r *mongoUnlockRepository) ListByUser(ctx context.Context, userID string) ([]domain.RewardUnlock, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "unlockedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	unlocks := []domain.RewardUnlock{}
	if err = cursor.All(ctx, &unlocks); err != nil {
		return nil, err
	}
	return unlocks, nil
}

// EnsureUnlockIndexes creates necessary indexes. Call during startup.
// The unique compound index is load-bearing for idempotence, not just a
// query accelerator.
func EnsureUnlockIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "rewardName", Value: 1},
				{Key: "windowEpoch", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			// Re-arm guard lookups: userId + rewardName + unlockedAt range
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "rewardName", Value: 1}, {Key: "unlockedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

// internal/repository/mongo/user_repo.go
package mongo

import (
	"alcyxob/workout-journey/internal/domain"
	"alcyxob/workout-journey/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Upsert creates the subject record if it does not exist. The _id is
// the caller-supplied subject id, so repeated setup calls match the
// existing document and change nothing.
func (r *mongoUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}
	filter := bson.M{"_id": user.ID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":      user.Name,
			"createdAt": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetByID retrieves the subject record.
func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

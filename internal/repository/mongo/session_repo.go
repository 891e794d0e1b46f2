// internal/repository/mongo/session_repo.go
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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
// It expects a connected *mongo.Database instance.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session. Sessions are append-only; there is no
// Update counterpart.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.UserID == "" || session.Date.IsZero() {
		return primitive.NilObjectID, errors.New("session requires userId and date")
	}
	if session.Minutes < 0 {
		return primitive.NilObjectID, errors.New("session minutes must be non-negative")
	}
	session.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// ListByUser retrieves every session for the user, newest first.
func (r *mongoSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListSince retrieves sessions with date >= since, oldest first.
// A positive minMinutes additionally filters on duration.
func (r *mongoSessionRepository) ListSince(ctx context.Context, userID string, since time.Time, minMinutes int) ([]domain.Session, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": since},
	}
	if minMinutes > 0 {
		filter["minutes"] = bson.M{"$gte": minMinutes}
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountSince counts sessions with date >= since and minutes >= minMinutes.
func (r *mongoSessionRepository) CountSince(ctx context.Context, userID string, since time.Time, minMinutes int) (int64, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": since},
	}
	if minMinutes > 0 {
		filter["minutes"] = bson.M{"$gte": minMinutes}
	}
	return r.collection.CountDocuments(ctx, filter)
}

// Delete removes a session by ID and returns the removed document.
// Administrative override only; unlock records derived from the session
// are deliberately left untouched.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	if id == primitive.NilObjectID {
		return nil, errors.New("session ID is required for deletion")
	}
	var session domain.Session
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Window queries: userId + date range (+ minutes filter)
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

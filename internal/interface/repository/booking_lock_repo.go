package repository

import (
	"context"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingLockRepository implements advisory locks on top of the
// _id uniqueness of a dedicated collection. A TTL index on expiresAt
// reclaims locks left behind by a crashed process.
type MongoBookingLockRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingLockRepository creates a new booking lock repository
func NewMongoBookingLockRepository(db *mongo.Database) repository.BookingLockRepository {
	collection := db.Collection("booking_locks")

	ctx := context.Background()
	ttlIndex := mongo.IndexModel{
		Keys:    bson.M{"expiresAt": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	collection.Indexes().CreateOne(ctx, ttlIndex)

	return &MongoBookingLockRepository{
		collection: collection,
	}
}

// Acquire inserts the lock document. A duplicate key means another booking
// holds the lock; that is reported as *repository.ErrLockHeld.
func (r *MongoBookingLockRepository) Acquire(ctx context.Context, key string, expiresAt time.Time) error {
	lock := entity.BookingLock{
		ID:        key,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &repository.ErrLockHeld{Key: key}
		}
		return err
	}
	return nil
}

// Release deletes the lock document. Releasing a lock that already expired
// is not an error.
func (r *MongoBookingLockRepository) Release(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

package repository

import (
	"context"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMaintenanceRepository implements the MaintenanceRepository interface.
// The collection is append-only; records are never updated or deleted.
type MongoMaintenanceRepository struct {
	collection *mongo.Collection
}

// NewMongoMaintenanceRepository creates a new maintenance history repository
func NewMongoMaintenanceRepository(db *mongo.Database) repository.MaintenanceRepository {
	collection := db.Collection("maintenance_records")

	ctx := context.Background()
	vehicleDateIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "vehicleId", Value: 1},
			{Key: "date", Value: -1},
		},
	}
	collection.Indexes().CreateOne(ctx, vehicleDateIndex)

	return &MongoMaintenanceRepository{
		collection: collection,
	}
}

// Append inserts a new history entry
func (r *MongoMaintenanceRepository) Append(ctx context.Context, record *entity.MaintenanceRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// FindByVehicle returns the vehicle's history, oldest first
func (r *MongoMaintenanceRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]*entity.MaintenanceRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"vehicleId": vehicleID}, &options.FindOptions{
		Sort: bson.D{{Key: "date", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.MaintenanceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

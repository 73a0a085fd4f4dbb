package repository

import (
	"context"
	"fmt"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVehicleRepository implements the VehicleRepository interface
type MongoVehicleRepository struct {
	collection *mongo.Collection
}

// NewMongoVehicleRepository creates a new MongoDB vehicle repository
func NewMongoVehicleRepository(db *mongo.Database) repository.VehicleRepository {
	collection := db.Collection("vehicles")

	ctx := context.Background()

	// Unique index on plate
	plateIndex := mongo.IndexModel{
		Keys:    bson.M{"plate": 1},
		Options: options.Index().SetUnique(true),
	}

	// Index on status for availability scans
	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		plateIndex,
		statusIndex,
	})

	return &MongoVehicleRepository{
		collection: collection,
	}
}

// Save inserts a new vehicle
func (r *MongoVehicleRepository) Save(ctx context.Context, vehicle *entity.Vehicle) error {
	if !entity.ValidVehicleStatus(vehicle.Status) {
		return fmt.Errorf("invalid vehicle status: %s", vehicle.Status)
	}

	now := time.Now()
	if vehicle.ID == "" {
		vehicle.ID = primitive.NewObjectID().Hex()
		vehicle.CreatedAt = now
	}
	vehicle.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, vehicle)
	return err
}

// FindByID finds a vehicle by ID. Returns nil without error when missing.
func (r *MongoVehicleRepository) FindByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	var vehicle entity.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindAll returns the whole fleet ordered by plate
func (r *MongoVehicleRepository) FindAll(ctx context.Context) ([]*entity.Vehicle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Sort: bson.D{{Key: "plate", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []*entity.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// FindByStatus returns vehicles with the given status, optionally filtered
// by transmission type
func (r *MongoVehicleRepository) FindByStatus(ctx context.Context, status string, transmission string) ([]*entity.Vehicle, error) {
	filter := bson.M{"status": status}
	if transmission != "" {
		filter["transmission"] = transmission
	}

	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "plate", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var vehicles []*entity.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// UpdateMaintenanceInfo persists the maintenance-related fields after a
// service entry was recorded
func (r *MongoVehicleRepository) UpdateMaintenanceInfo(ctx context.Context, vehicle *entity.Vehicle) error {
	update := bson.M{
		"$set": bson.M{
			"mileage":            vehicle.Mileage,
			"lastMaintenance":    vehicle.LastMaintenance,
			"nextMaintenance":    vehicle.NextMaintenance,
			"nextServiceMileage": vehicle.NextServiceMileage,
			"updatedAt":          vehicle.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": vehicle.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update maintenance info: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no vehicle found with id: %s", vehicle.ID)
	}
	return nil
}

// UpdateStatus sets the vehicle status
func (r *MongoVehicleRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if !entity.ValidVehicleStatus(status) {
		return fmt.Errorf("invalid vehicle status: %s", status)
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no vehicle found with id: %s", id)
	}
	return nil
}

// AssignInstructor sets or clears the instructor assignment
func (r *MongoVehicleRepository) AssignInstructor(ctx context.Context, id string, instructorID *uint) error {
	var update bson.M
	if instructorID == nil {
		update = bson.M{
			"$unset": bson.M{"instructorId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{
				"instructorId": *instructorID,
				"updatedAt":    time.Now(),
			},
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to assign instructor: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no vehicle found with id: %s", id)
	}
	return nil
}

// Delete removes a vehicle. Callers must guard against future lessons.
func (r *MongoVehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("no vehicle found with id: %s", id)
	}
	return nil
}

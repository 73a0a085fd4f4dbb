package repository

import (
	"context"
	"fmt"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLessonRepository implements the LessonRepository interface
type MongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new MongoDB lesson repository
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	collection := db.Collection("lessons")

	ctx := context.Background()

	// Compound indexes for per-resource conflict scans
	instructorDateIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "instructorId", Value: 1},
			{Key: "date", Value: 1},
		},
	}
	vehicleDateIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "vehicleId", Value: 1},
			{Key: "date", Value: 1},
		},
	}

	// Index for the daily reminder scan
	dateStatusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		instructorDateIndex,
		vehicleDateIndex,
		dateStatusIndex,
	})

	return &MongoLessonRepository{
		collection: collection,
	}
}

// Insert creates a new lesson
func (r *MongoLessonRepository) Insert(ctx context.Context, lesson *entity.Lesson) error {
	_, err := r.collection.InsertOne(ctx, lesson)
	return err
}

// FindByID finds a lesson by ID. Returns nil without error when missing.
func (r *MongoLessonRepository) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	var lesson entity.Lesson
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &lesson, nil
}

// FindByInstructorAndDate returns every lesson for the instructor on the date
func (r *MongoLessonRepository) FindByInstructorAndDate(ctx context.Context, instructorID uint, date string) ([]*entity.Lesson, error) {
	return r.find(ctx, bson.M{"instructorId": instructorID, "date": date})
}

// FindByVehicleAndDate returns every lesson for the vehicle on the date
func (r *MongoLessonRepository) FindByVehicleAndDate(ctx context.Context, vehicleID string, date string) ([]*entity.Lesson, error) {
	return r.find(ctx, bson.M{"vehicleId": vehicleID, "date": date})
}

// FindByDateAndStatus returns lessons on the date with the given status
func (r *MongoLessonRepository) FindByDateAndStatus(ctx context.Context, date string, status string) ([]*entity.Lesson, error) {
	return r.find(ctx, bson.M{"date": date, "status": status})
}

func (r *MongoLessonRepository) find(ctx context.Context, filter bson.M) ([]*entity.Lesson, error) {
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "startMinute", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lessons []*entity.Lesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// CountFutureByVehicle counts scheduled lessons for the vehicle from
// fromDate onwards
func (r *MongoLessonRepository) CountFutureByVehicle(ctx context.Context, vehicleID string, fromDate string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"vehicleId": vehicleID,
		"date":      bson.M{"$gte": fromDate},
		"status":    entity.LessonScheduled,
	})
}

// Update rewrites the mutable booking fields
func (r *MongoLessonRepository) Update(ctx context.Context, lesson *entity.Lesson) error {
	update := bson.M{
		"$set": bson.M{
			"date":        lesson.Date,
			"startMinute": lesson.StartMinute,
			"endMinute":   lesson.EndMinute,
			"location":    lesson.Location,
			"updatedAt":   lesson.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": lesson.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no lesson found with id: %s", lesson.ID)
	}
	return nil
}

// UpdateStatus sets the lesson status
func (r *MongoLessonRepository) UpdateStatus(ctx context.Context, id string, status string) error {
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
		return fmt.Errorf("no lesson found with id: %s", id)
	}
	return nil
}

// MarkReminderSent records when the reminder email went out
func (r *MongoLessonRepository) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"reminderSentAt": sentAt}},
	)
	return err
}

// Delete removes a lesson document. Used to roll back a failed commit.
func (r *MongoLessonRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

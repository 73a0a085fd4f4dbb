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

// MongoStudentRepository implements the StudentRepository interface
type MongoStudentRepository struct {
	collection *mongo.Collection
}

// NewMongoStudentRepository creates a new MongoDB student repository
func NewMongoStudentRepository(db *mongo.Database) repository.StudentRepository {
	collection := db.Collection("students")

	// Unique index on email
	ctx := context.Background()
	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, emailIndex)

	return &MongoStudentRepository{
		collection: collection,
	}
}

// Save inserts a new student
func (r *MongoStudentRepository) Save(ctx context.Context, student *entity.Student) error {
	now := time.Now()
	if student.ID == "" {
		student.ID = primitive.NewObjectID().Hex()
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, student)
	return err
}

// FindByID finds a student by ID. Returns nil without error when missing.
func (r *MongoStudentRepository) FindByID(ctx context.Context, id string) (*entity.Student, error) {
	var student entity.Student
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// FindByEmail finds a student by email
func (r *MongoStudentRepository) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	var student entity.Student
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// List returns students ordered by name
func (r *MongoStudentRepository) List(ctx context.Context, limit int) ([]*entity.Student, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "name", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var students []*entity.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// AdjustLessonCount atomically increments or decrements the lesson counter
func (r *MongoStudentRepository) AdjustLessonCount(ctx context.Context, id string, delta int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"lessonCount": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to adjust lesson count: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no student found with id: %s", id)
	}
	return nil
}

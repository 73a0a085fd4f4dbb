package repository

import (
	"context"
	"time"

	"driveschool-service/internal/domain/entity"
)

// LessonRepository defines the interface for lesson storage operations
type LessonRepository interface {
	Insert(ctx context.Context, lesson *entity.Lesson) error
	FindByID(ctx context.Context, id string) (*entity.Lesson, error)
	FindByInstructorAndDate(ctx context.Context, instructorID uint, date string) ([]*entity.Lesson, error)
	FindByVehicleAndDate(ctx context.Context, vehicleID string, date string) ([]*entity.Lesson, error)
	FindByDateAndStatus(ctx context.Context, date string, status string) ([]*entity.Lesson, error)
	CountFutureByVehicle(ctx context.Context, vehicleID string, fromDate string) (int64, error)
	Update(ctx context.Context, lesson *entity.Lesson) error
	UpdateStatus(ctx context.Context, id string, status string) error
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error
	Delete(ctx context.Context, id string) error
}

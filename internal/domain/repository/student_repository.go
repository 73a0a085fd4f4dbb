package repository

import (
	"context"

	"driveschool-service/internal/domain/entity"
)

// StudentRepository defines the interface for student storage operations
type StudentRepository interface {
	Save(ctx context.Context, student *entity.Student) error
	FindByID(ctx context.Context, id string) (*entity.Student, error)
	FindByEmail(ctx context.Context, email string) (*entity.Student, error)
	List(ctx context.Context, limit int) ([]*entity.Student, error)
	AdjustLessonCount(ctx context.Context, id string, delta int) error
}

package repository

import (
	"context"

	"driveschool-service/internal/domain/entity"
)

// InstructorRepository defines the interface for instructor master data
type InstructorRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Instructor, error)
	List(ctx context.Context) ([]*entity.Instructor, error)
}

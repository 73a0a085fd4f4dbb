package repository

import (
	"context"

	"driveschool-service/internal/domain/entity"
)

// VehicleRepository defines the interface for fleet storage operations
type VehicleRepository interface {
	Save(ctx context.Context, vehicle *entity.Vehicle) error
	FindByID(ctx context.Context, id string) (*entity.Vehicle, error)
	FindAll(ctx context.Context) ([]*entity.Vehicle, error)
	FindByStatus(ctx context.Context, status string, transmission string) ([]*entity.Vehicle, error)
	UpdateMaintenanceInfo(ctx context.Context, vehicle *entity.Vehicle) error
	UpdateStatus(ctx context.Context, id string, status string) error
	AssignInstructor(ctx context.Context, id string, instructorID *uint) error
	Delete(ctx context.Context, id string) error
}

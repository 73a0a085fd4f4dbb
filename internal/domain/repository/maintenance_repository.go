package repository

import (
	"context"

	"driveschool-service/internal/domain/entity"
)

// MaintenanceRepository defines the interface for the append-only
// maintenance history of the fleet
type MaintenanceRepository interface {
	Append(ctx context.Context, record *entity.MaintenanceRecord) error
	FindByVehicle(ctx context.Context, vehicleID string) ([]*entity.MaintenanceRecord, error)
}

package usecase

import (
	"context"
	"strings"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
	"driveschool-service/pkg/logger"
)

// Registry handles enrollment of students and fleet vehicles. Scheduling
// never creates these aggregates itself; they must be registered first.
type Registry struct {
	studentRepo repository.StudentRepository
	vehicleRepo repository.VehicleRepository
	logger      logger.Logger
}

// NewRegistry creates a new registry
func NewRegistry(
	studentRepo repository.StudentRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Registry {
	return &Registry{
		studentRepo: studentRepo,
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// RegisterStudent enrolls a new student. Email is the natural key; a second
// registration with the same address is rejected.
func (r *Registry) RegisterStudent(ctx context.Context, student *entity.Student) error {
	if strings.TrimSpace(student.Name) == "" || strings.TrimSpace(student.Email) == "" {
		return NewError(KindInvalidInput, "student name and email are required")
	}

	existing, err := r.studentRepo.FindByEmail(ctx, student.Email)
	if err != nil {
		return StoreError(err)
	}
	if existing != nil {
		return NewError(KindAlreadyExists, "a student with email %s already exists", student.Email)
	}

	if err := r.studentRepo.Save(ctx, student); err != nil {
		return StoreError(err)
	}
	r.logger.Info("Student registered", "studentId", student.ID, "email", student.Email)
	return nil
}

// ListStudents returns up to limit students ordered by name.
func (r *Registry) ListStudents(ctx context.Context, limit int) ([]*entity.Student, error) {
	if limit <= 0 {
		limit = 100
	}
	students, err := r.studentRepo.List(ctx, limit)
	if err != nil {
		return nil, StoreError(err)
	}
	return students, nil
}

// RegisterVehicle adds a vehicle to the fleet. Status defaults to available.
func (r *Registry) RegisterVehicle(ctx context.Context, vehicle *entity.Vehicle) error {
	if strings.TrimSpace(vehicle.Plate) == "" {
		return NewError(KindInvalidInput, "vehicle plate is required")
	}
	if vehicle.Transmission != entity.TransmissionManual && vehicle.Transmission != entity.TransmissionAutomatic {
		return NewError(KindInvalidInput, "transmission must be manual or automatic")
	}
	if vehicle.Status == "" {
		vehicle.Status = entity.VehicleAvailable
	}
	if !entity.ValidVehicleStatus(vehicle.Status) {
		return NewError(KindInvalidInput, "unknown vehicle status %q", vehicle.Status)
	}

	if err := r.vehicleRepo.Save(ctx, vehicle); err != nil {
		return StoreError(err)
	}
	r.logger.Info("Vehicle registered", "vehicleId", vehicle.ID, "plate", vehicle.Plate)
	return nil
}

// ListVehicles returns the whole fleet ordered by plate.
func (r *Registry) ListVehicles(ctx context.Context) ([]*entity.Vehicle, error) {
	vehicles, err := r.vehicleRepo.FindAll(ctx)
	if err != nil {
		return nil, StoreError(err)
	}
	return vehicles, nil
}

package usecase

import (
	"context"
	"sort"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
	"driveschool-service/pkg/logger"
	"driveschool-service/pkg/utils"
)

// AvailabilityFilters narrows the candidate set for an availability query.
type AvailabilityFilters struct {
	Transmission string // "" means any
	InstructorID *uint  // restrict to a single instructor
}

// Availability is the result of an availability query. Both slices are
// sorted on a stable key so identical inputs produce identical output.
type Availability struct {
	Vehicles    []*entity.Vehicle    `json:"vehicles"`
	Instructors []*entity.Instructor `json:"instructors"`
}

// AvailabilityResolver computes which vehicles and instructors are free for
// a requested window.
type AvailabilityResolver struct {
	vehicleRepo    repository.VehicleRepository
	instructorRepo repository.InstructorRepository
	conflicts      *ConflictChecker
	logger         logger.Logger
}

// NewAvailabilityResolver creates a new availability resolver
func NewAvailabilityResolver(
	vehicleRepo repository.VehicleRepository,
	instructorRepo repository.InstructorRepository,
	conflicts *ConflictChecker,
	logger logger.Logger,
) *AvailabilityResolver {
	return &AvailabilityResolver{
		vehicleRepo:    vehicleRepo,
		instructorRepo: instructorRepo,
		conflicts:      conflicts,
		logger:         logger,
	}
}

// FindAvailable returns the vehicles and instructors free for
// [startMinute, endMinute) on date. Vehicles not in status available are
// never returned; instructors must work the weekday and hold a license
// compatible with the requested transmission.
func (r *AvailabilityResolver) FindAvailable(ctx context.Context, date string, startMinute, endMinute int, filters AvailabilityFilters) (*Availability, error) {
	if err := validateWindow(startMinute, endMinute); err != nil {
		return nil, err
	}
	weekday, err := utils.WeekdayOf(date)
	if err != nil {
		return nil, NewError(KindInvalidWindow, "invalid date %q", date)
	}

	vehicles, err := r.availableVehicles(ctx, date, startMinute, endMinute, filters.Transmission)
	if err != nil {
		return nil, err
	}
	instructors, err := r.availableInstructors(ctx, date, weekday, startMinute, endMinute, filters)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Resolved availability",
		"date", date,
		"vehicles", len(vehicles),
		"instructors", len(instructors),
	)
	return &Availability{Vehicles: vehicles, Instructors: instructors}, nil
}

func (r *AvailabilityResolver) availableVehicles(ctx context.Context, date string, startMinute, endMinute int, transmission string) ([]*entity.Vehicle, error) {
	candidates, err := r.vehicleRepo.FindByStatus(ctx, entity.VehicleAvailable, transmission)
	if err != nil {
		return nil, StoreError(err)
	}

	vehicles := make([]*entity.Vehicle, 0, len(candidates))
	for _, v := range candidates {
		conflict, err := r.conflicts.HasVehicleConflict(ctx, v.ID, date, startMinute, endMinute, "")
		if err != nil {
			return nil, err
		}
		if !conflict {
			vehicles = append(vehicles, v)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].Plate < vehicles[j].Plate
	})
	return vehicles, nil
}

func (r *AvailabilityResolver) availableInstructors(ctx context.Context, date string, weekday time.Weekday, startMinute, endMinute int, filters AvailabilityFilters) ([]*entity.Instructor, error) {
	candidates, err := r.instructorRepo.List(ctx)
	if err != nil {
		return nil, StoreError(err)
	}

	instructors := make([]*entity.Instructor, 0, len(candidates))
	for _, ins := range candidates {
		if filters.InstructorID != nil && ins.ID != *filters.InstructorID {
			continue
		}
		if !ins.AvailableOn(weekday) {
			continue
		}
		if filters.Transmission != "" && !ins.CanTeach(filters.Transmission) {
			continue
		}
		conflict, err := r.conflicts.HasInstructorConflict(ctx, ins.ID, date, startMinute, endMinute, "")
		if err != nil {
			return nil, err
		}
		if !conflict {
			instructors = append(instructors, ins)
		}
	}
	sort.Slice(instructors, func(i, j int) bool {
		if instructors[i].Name != instructors[j].Name {
			return instructors[i].Name < instructors[j].Name
		}
		return instructors[i].ID < instructors[j].ID
	})
	return instructors, nil
}

func validateWindow(startMinute, endMinute int) error {
	if startMinute < 0 || endMinute > utils.MinutesPerDay || startMinute >= endMinute {
		return NewError(KindInvalidWindow, "window [%d, %d) is not a valid slot", startMinute, endMinute)
	}
	return nil
}

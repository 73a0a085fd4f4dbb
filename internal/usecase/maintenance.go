package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
	"driveschool-service/pkg/clock"
	"driveschool-service/pkg/logger"
	"driveschool-service/pkg/metrics"
)

// MaintenancePolicy holds the service interval constants. A zero interval
// disables that dimension of due-date tracking.
type MaintenancePolicy struct {
	ServiceIntervalDays int
	ServiceIntervalKm   int
}

// MaintenanceInput is the caller-supplied part of a maintenance record.
type MaintenanceInput struct {
	Date        time.Time
	Mileage     int
	Description string
}

// MaintenanceTracker owns the append-only maintenance history of the fleet
// and computes due dates and alerts from it.
type MaintenanceTracker struct {
	vehicleRepo     repository.VehicleRepository
	maintenanceRepo repository.MaintenanceRepository
	policy          MaintenancePolicy
	clock           clock.Clock
	logger          logger.Logger
	metrics         *metrics.Metrics
}

// NewMaintenanceTracker creates a new maintenance tracker
func NewMaintenanceTracker(
	vehicleRepo repository.VehicleRepository,
	maintenanceRepo repository.MaintenanceRepository,
	policy MaintenancePolicy,
	clk clock.Clock,
	logger logger.Logger,
	m *metrics.Metrics,
) *MaintenanceTracker {
	return &MaintenanceTracker{
		vehicleRepo:     vehicleRepo,
		maintenanceRepo: maintenanceRepo,
		policy:          policy,
		clock:           clk,
		logger:          logger,
		metrics:         m,
	}
}

// RecordMaintenance appends a service entry for the vehicle and rolls the
// vehicle's last/next maintenance fields forward. History must be
// monotonically non-decreasing in date; an older record is rejected with
// OutOfOrderRecord and leaves the vehicle untouched.
func (t *MaintenanceTracker) RecordMaintenance(ctx context.Context, vehicleID string, input MaintenanceInput) (*entity.Vehicle, error) {
	vehicle, err := t.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, StoreError(err)
	}
	if vehicle == nil {
		return nil, NewError(KindNotFound, "vehicle %s not found", vehicleID)
	}
	if vehicle.LastMaintenance != nil && input.Date.Before(*vehicle.LastMaintenance) {
		return nil, NewError(KindOutOfOrderRecord,
			"maintenance date %s precedes last maintenance %s",
			input.Date.Format(time.DateOnly), vehicle.LastMaintenance.Format(time.DateOnly))
	}

	now := t.clock.Now()
	record := &entity.MaintenanceRecord{
		ID:          uuid.NewString(),
		VehicleID:   vehicleID,
		Date:        input.Date,
		Mileage:     input.Mileage,
		Description: input.Description,
		CreatedAt:   now,
	}
	if t.policy.ServiceIntervalDays > 0 {
		record.NextDueDate = input.Date.AddDate(0, 0, t.policy.ServiceIntervalDays)
	}
	if t.policy.ServiceIntervalKm > 0 {
		record.NextServiceMileage = input.Mileage + t.policy.ServiceIntervalKm
	}

	if err := t.maintenanceRepo.Append(ctx, record); err != nil {
		return nil, StoreError(err)
	}

	date := input.Date
	vehicle.LastMaintenance = &date
	if !record.NextDueDate.IsZero() {
		due := record.NextDueDate
		vehicle.NextMaintenance = &due
	}
	vehicle.NextServiceMileage = record.NextServiceMileage
	if input.Mileage > vehicle.Mileage {
		vehicle.Mileage = input.Mileage
	}
	vehicle.UpdatedAt = now

	if err := t.vehicleRepo.UpdateMaintenanceInfo(ctx, vehicle); err != nil {
		return nil, StoreError(err)
	}

	t.logger.Info("Recorded maintenance",
		"vehicleId", vehicleID,
		"date", input.Date.Format(time.DateOnly),
		"nextDue", record.NextDueDate.Format(time.DateOnly),
	)
	return vehicle, nil
}

// GetAlerts scans the whole fleet and flags vehicles due for attention:
// next maintenance within thresholdDays, mileage within thresholdKm of the
// next service point, inspection date passed (always), or defective status
// (always). The result is ordered by plate.
func (t *MaintenanceTracker) GetAlerts(ctx context.Context, thresholdDays, thresholdKm int) ([]*entity.VehicleAlert, error) {
	vehicles, err := t.vehicleRepo.FindAll(ctx)
	if err != nil {
		return nil, StoreError(err)
	}

	now := t.clock.Now()
	horizon := now.AddDate(0, 0, thresholdDays)

	alerts := make([]*entity.VehicleAlert, 0)
	for _, v := range vehicles {
		var reasons []string
		if v.Status == entity.VehicleDefective {
			reasons = append(reasons, entity.AlertVehicleDefective)
		}
		if v.NextMaintenance != nil && !v.NextMaintenance.After(horizon) {
			reasons = append(reasons, entity.AlertMaintenanceDue)
		}
		if v.NextServiceMileage > 0 && v.Mileage >= v.NextServiceMileage-thresholdKm {
			reasons = append(reasons, entity.AlertMileageDue)
		}
		if v.InspectionDate != nil && v.InspectionDate.Before(now) {
			reasons = append(reasons, entity.AlertInspectionDue)
		}
		if len(reasons) > 0 {
			alerts = append(alerts, &entity.VehicleAlert{
				VehicleID: v.ID,
				Plate:     v.Plate,
				Reasons:   reasons,
			})
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Plate < alerts[j].Plate
	})

	if t.metrics != nil {
		t.metrics.AlertsRaised.Set(float64(len(alerts)))
	}
	return alerts, nil
}

// History returns the full maintenance history of a vehicle, oldest first.
func (t *MaintenanceTracker) History(ctx context.Context, vehicleID string) ([]*entity.MaintenanceRecord, error) {
	vehicle, err := t.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, StoreError(err)
	}
	if vehicle == nil {
		return nil, NewError(KindNotFound, "vehicle %s not found", vehicleID)
	}
	records, err := t.maintenanceRepo.FindByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, StoreError(err)
	}
	return records, nil
}

package entity

import "time"

// MaintenanceRecord is an append-only service history entry for a vehicle.
// Records are never mutated after creation; newer records supersede older
// ones for due-date computation.
type MaintenanceRecord struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	VehicleID          string    `bson:"vehicleId" json:"vehicleId"`
	Date               time.Time `bson:"date" json:"date"`
	Mileage            int       `bson:"mileage" json:"mileage"` // odometer at service
	Description        string    `bson:"description" json:"description"`
	NextDueDate        time.Time `bson:"nextDueDate" json:"nextDueDate"`
	NextServiceMileage int       `bson:"nextServiceMileage" json:"nextServiceMileage"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}

// Alert reasons
const (
	AlertMaintenanceDue   = "maintenance_due"
	AlertMileageDue       = "mileage_due"
	AlertInspectionDue    = "inspection_overdue"
	AlertVehicleDefective = "defective"
)

// VehicleAlert flags a vehicle that needs attention from the fleet manager.
type VehicleAlert struct {
	VehicleID string   `json:"vehicleId"`
	Plate     string   `json:"plate"`
	Reasons   []string `json:"reasons"`
}

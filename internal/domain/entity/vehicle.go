package entity

import "time"

// Vehicle status
const (
	VehicleAvailable   = "available"
	VehicleMaintenance = "maintenance"
	VehicleDefective   = "defective"
)

// Transmission types
const (
	TransmissionAutomatic = "automatic"
	TransmissionManual    = "manual"
)

// Vehicle represents a training vehicle in the fleet
type Vehicle struct {
	ID                 string     `bson:"_id,omitempty" json:"id"`
	Make               string     `bson:"make" json:"make"`
	Model              string     `bson:"model" json:"model"`
	Year               int        `bson:"year" json:"year"`
	Plate              string     `bson:"plate" json:"plate"` // unique index
	Transmission       string     `bson:"transmission" json:"transmission"`
	FuelType           string     `bson:"fuelType" json:"fuelType"`
	Mileage            int        `bson:"mileage" json:"mileage"` // kilometers
	Status             string     `bson:"status" json:"status"`
	LastMaintenance    *time.Time `bson:"lastMaintenance,omitempty" json:"lastMaintenance,omitempty"`
	NextMaintenance    *time.Time `bson:"nextMaintenance,omitempty" json:"nextMaintenance,omitempty"`
	NextServiceMileage int        `bson:"nextServiceMileage,omitempty" json:"nextServiceMileage,omitempty"`
	InspectionDate     *time.Time `bson:"inspectionDate,omitempty" json:"inspectionDate,omitempty"` // APK due date
	InstructorID       *uint      `bson:"instructorId,omitempty" json:"instructorId,omitempty"`     // nullable assignment
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ValidVehicleStatus reports whether s is one of the known status values.
func ValidVehicleStatus(s string) bool {
	return s == VehicleAvailable || s == VehicleMaintenance || s == VehicleDefective
}

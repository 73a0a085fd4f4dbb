package entity

import (
	"time"

	"gorm.io/gorm"
)

// License types an instructor can hold. A manual license covers both
// transmissions; an automatic license covers automatic vehicles only.
const (
	LicenseAutomatic = "automatic"
	LicenseManual    = "manual"
)

// Instructor represents a driving instructor (back-office master data)
type Instructor struct {
	ID          uint
	Name        string
	LicenseType string
	Weekdays    []time.Weekday // weekly availability
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
}

// AvailableOn reports whether the instructor works on the given weekday.
func (i *Instructor) AvailableOn(day time.Weekday) bool {
	for _, d := range i.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// CanTeach reports whether the instructor's license covers the requested
// transmission type.
func (i *Instructor) CanTeach(transmission string) bool {
	if i.LicenseType == LicenseManual {
		return true
	}
	return transmission == TransmissionAutomatic
}

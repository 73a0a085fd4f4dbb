package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormInstructorRepository implements the InstructorRepository interface
type GormInstructorRepository struct {
	db *gorm.DB
}

// NewGormInstructorRepository creates a new GORM instructor repository
func NewGormInstructorRepository(db *gorm.DB) repository.InstructorRepository {
	return &GormInstructorRepository{
		db: db,
	}
}

// Instructors GORM model for database mapping
type Instructors struct {
	gorm.Model
	Name        string `gorm:"column:name"`
	LicenseType string `gorm:"column:license_type"`
	Weekdays    string `gorm:"column:weekdays"` // CSV of time.Weekday numbers
}

// TableName overrides the default table name
func (Instructors) TableName() string {
	return "m_instructors"
}

// GetByID finds an instructor by ID. Returns nil without error when missing.
func (r *GormInstructorRepository) GetByID(ctx context.Context, id uint) (*entity.Instructor, error) {
	var instructor Instructors
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&instructor)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return toInstructorEntity(&instructor), nil
}

// List returns all instructors
func (r *GormInstructorRepository) List(ctx context.Context) ([]*entity.Instructor, error) {
	var instructors []Instructors
	result := r.db.WithContext(ctx).Order("id").Find(&instructors)

	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.Instructor, 0, len(instructors))
	for i := range instructors {
		entities = append(entities, toInstructorEntity(&instructors[i]))
	}
	return entities, nil
}

func toInstructorEntity(m *Instructors) *entity.Instructor {
	return &entity.Instructor{
		ID:          m.ID,
		Name:        m.Name,
		LicenseType: m.LicenseType,
		Weekdays:    parseWeekdays(m.Weekdays),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   m.DeletedAt,
	}
}

// parseWeekdays converts "1,3,5" into weekdays, ignoring malformed parts.
func parseWeekdays(csv string) []time.Weekday {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

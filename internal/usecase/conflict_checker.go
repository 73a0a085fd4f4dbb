package usecase

import (
	"context"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
	"driveschool-service/pkg/logger"
)

// ConflictChecker answers whether a proposed lesson window overlaps any
// committed lesson for an instructor or vehicle. Windows are half-open
// [start, end): back-to-back slots do not conflict. Pure query, no writes.
type ConflictChecker struct {
	lessonRepo repository.LessonRepository
	logger     logger.Logger
}

// NewConflictChecker creates a new conflict checker
func NewConflictChecker(lessonRepo repository.LessonRepository, logger logger.Logger) *ConflictChecker {
	return &ConflictChecker{
		lessonRepo: lessonRepo,
		logger:     logger,
	}
}

// HasInstructorConflict reports whether the instructor already has a lesson
// overlapping [startMinute, endMinute) on date. excludeLessonID lets an
// update re-check against all other lessons while skipping itself.
func (c *ConflictChecker) HasInstructorConflict(ctx context.Context, instructorID uint, date string, startMinute, endMinute int, excludeLessonID string) (bool, error) {
	if startMinute >= endMinute {
		return false, NewError(KindInvalidWindow, "window start %d must precede end %d", startMinute, endMinute)
	}
	lessons, err := c.lessonRepo.FindByInstructorAndDate(ctx, instructorID, date)
	if err != nil {
		return false, StoreError(err)
	}
	return overlapsAny(lessons, startMinute, endMinute, excludeLessonID), nil
}

// HasVehicleConflict reports whether the vehicle already has a lesson
// overlapping [startMinute, endMinute) on date.
func (c *ConflictChecker) HasVehicleConflict(ctx context.Context, vehicleID string, date string, startMinute, endMinute int, excludeLessonID string) (bool, error) {
	if startMinute >= endMinute {
		return false, NewError(KindInvalidWindow, "window start %d must precede end %d", startMinute, endMinute)
	}
	lessons, err := c.lessonRepo.FindByVehicleAndDate(ctx, vehicleID, date)
	if err != nil {
		return false, StoreError(err)
	}
	return overlapsAny(lessons, startMinute, endMinute, excludeLessonID), nil
}

func overlapsAny(lessons []*entity.Lesson, startMinute, endMinute int, excludeLessonID string) bool {
	for _, l := range lessons {
		if excludeLessonID != "" && l.ID == excludeLessonID {
			continue
		}
		if !l.Occupies() {
			continue
		}
		if l.Overlaps(startMinute, endMinute) {
			return true
		}
	}
	return false
}

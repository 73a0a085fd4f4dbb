package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
	"driveschool-service/pkg/clock"
	"driveschool-service/pkg/logger"
	"driveschool-service/pkg/metrics"
	"driveschool-service/pkg/utils"
)

// BookingInput carries one booking request through validate and commit.
type BookingInput struct {
	StudentID    string
	InstructorID uint
	VehicleID    string
	Date         string // "2006-01-02"
	StartMinute  int
	EndMinute    int
	Location     string
}

// BusinessHours bounds bookable windows. Zero values disable the check.
type BusinessHours struct {
	OpenMinute  int
	CloseMinute int
}

// LessonScheduler orchestrates validation, conflict checking and commit of
// lesson bookings. Per-resource advisory locks are held from conflict check
// through commit so no overlapping commit can interleave; a lost lock race
// is retried once before surfacing as ConcurrentModification.
type LessonScheduler struct {
	studentRepo    repository.StudentRepository
	instructorRepo repository.InstructorRepository
	vehicleRepo    repository.VehicleRepository
	lessonRepo     repository.LessonRepository
	lockRepo       repository.BookingLockRepository
	conflicts      *ConflictChecker
	hours          BusinessHours
	lockTTL        time.Duration
	clock          clock.Clock
	logger         logger.Logger
	metrics        *metrics.Metrics
}

// NewLessonScheduler creates a new lesson scheduler
func NewLessonScheduler(
	studentRepo repository.StudentRepository,
	instructorRepo repository.InstructorRepository,
	vehicleRepo repository.VehicleRepository,
	lessonRepo repository.LessonRepository,
	lockRepo repository.BookingLockRepository,
	conflicts *ConflictChecker,
	hours BusinessHours,
	lockTTL time.Duration,
	clk clock.Clock,
	logger logger.Logger,
	m *metrics.Metrics,
) *LessonScheduler {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &LessonScheduler{
		studentRepo:    studentRepo,
		instructorRepo: instructorRepo,
		vehicleRepo:    vehicleRepo,
		lessonRepo:     lessonRepo,
		lockRepo:       lockRepo,
		conflicts:      conflicts,
		hours:          hours,
		lockTTL:        lockTTL,
		clock:          clk,
		logger:         logger,
		metrics:        m,
	}
}

// ScheduleLesson validates and commits a new booking atomically: either the
// lesson is created and the student's lesson count incremented, or nothing
// changes.
func (s *LessonScheduler) ScheduleLesson(ctx context.Context, in BookingInput) (*entity.Lesson, error) {
	start := s.clock.Now()
	lesson, err := s.withRetry(ctx, func() (*entity.Lesson, error) {
		return s.scheduleOnce(ctx, in)
	})
	s.observe(start)
	return lesson, err
}

// UpdateLesson moves an existing lesson to a new window or location. The
// conflict check runs against all other lessons with the lesson itself
// excluded.
func (s *LessonScheduler) UpdateLesson(ctx context.Context, lessonID string, date string, startMinute, endMinute int, location string) (*entity.Lesson, error) {
	start := s.clock.Now()
	lesson, err := s.withRetry(ctx, func() (*entity.Lesson, error) {
		return s.updateOnce(ctx, lessonID, date, startMinute, endMinute, location)
	})
	s.observe(start)
	return lesson, err
}

// CancelLesson releases a scheduled lesson's slot and decrements the
// student's lesson count.
func (s *LessonScheduler) CancelLesson(ctx context.Context, lessonID string) (*entity.Lesson, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, StoreError(err)
	}
	if lesson == nil {
		return nil, NewError(KindNotFound, "lesson %s not found", lessonID)
	}
	if lesson.Status == entity.LessonCanceled {
		return lesson, nil
	}
	wasScheduled := lesson.Status == entity.LessonScheduled

	if err := s.lessonRepo.UpdateStatus(ctx, lessonID, entity.LessonCanceled); err != nil {
		return nil, StoreError(err)
	}
	if wasScheduled {
		if err := s.studentRepo.AdjustLessonCount(ctx, lesson.StudentID, -1); err != nil {
			s.logger.Error("Failed to decrement lesson count after cancel",
				"lessonId", lessonID, "studentId", lesson.StudentID, "error", err)
		}
	}
	lesson.Status = entity.LessonCanceled
	if s.metrics != nil {
		s.metrics.LessonsCanceled.Inc()
	}
	s.logger.Info("Lesson canceled", "lessonId", lessonID)
	return lesson, nil
}

// CompleteLesson marks a scheduled lesson as completed. The slot stays
// occupied for conflict purposes.
func (s *LessonScheduler) CompleteLesson(ctx context.Context, lessonID string) (*entity.Lesson, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, StoreError(err)
	}
	if lesson == nil {
		return nil, NewError(KindNotFound, "lesson %s not found", lessonID)
	}
	if lesson.Status != entity.LessonScheduled {
		return nil, NewError(KindInvalidWindow, "lesson %s is %s, not scheduled", lessonID, lesson.Status)
	}
	if err := s.lessonRepo.UpdateStatus(ctx, lessonID, entity.LessonCompleted); err != nil {
		return nil, StoreError(err)
	}
	lesson.Status = entity.LessonCompleted
	return lesson, nil
}

// SetVehicleStatus moves a vehicle between available, maintenance and
// defective. Taking an available vehicle out of service is rejected while
// future lessons still reference it.
func (s *LessonScheduler) SetVehicleStatus(ctx context.Context, vehicleID, status string) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return StoreError(err)
	}
	if vehicle == nil {
		return NewError(KindNotFound, "vehicle %s not found", vehicleID)
	}
	if status != entity.VehicleAvailable && vehicle.Status == entity.VehicleAvailable {
		today := utils.FormatDate(s.clock.Now())
		n, err := s.lessonRepo.CountFutureByVehicle(ctx, vehicleID, today)
		if err != nil {
			return StoreError(err)
		}
		if n > 0 {
			return NewError(KindVehicleConflict, "vehicle %s has %d future lessons", vehicleID, n)
		}
	}
	if err := s.vehicleRepo.UpdateStatus(ctx, vehicleID, status); err != nil {
		return StoreError(err)
	}
	s.logger.Info("Vehicle status changed", "vehicleId", vehicleID, "status", status)
	return nil
}

// DeleteVehicle removes a vehicle from the fleet. Rejected while future
// lessons still reference it; those must be canceled or moved first.
func (s *LessonScheduler) DeleteVehicle(ctx context.Context, vehicleID string) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return StoreError(err)
	}
	if vehicle == nil {
		return NewError(KindNotFound, "vehicle %s not found", vehicleID)
	}
	today := utils.FormatDate(s.clock.Now())
	n, err := s.lessonRepo.CountFutureByVehicle(ctx, vehicleID, today)
	if err != nil {
		return StoreError(err)
	}
	if n > 0 {
		return NewError(KindVehicleConflict, "vehicle %s has %d future lessons", vehicleID, n)
	}
	if err := s.vehicleRepo.Delete(ctx, vehicleID); err != nil {
		return StoreError(err)
	}
	return nil
}

// ReassignVehicle changes (or clears) the instructor a vehicle is assigned
// to. The instructor must exist when set.
func (s *LessonScheduler) ReassignVehicle(ctx context.Context, vehicleID string, instructorID *uint) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return StoreError(err)
	}
	if vehicle == nil {
		return NewError(KindNotFound, "vehicle %s not found", vehicleID)
	}
	if instructorID != nil {
		instructor, err := s.instructorRepo.GetByID(ctx, *instructorID)
		if err != nil {
			return StoreError(err)
		}
		if instructor == nil {
			return NewError(KindNotFound, "instructor %d not found", *instructorID)
		}
	}
	if err := s.vehicleRepo.AssignInstructor(ctx, vehicleID, instructorID); err != nil {
		return StoreError(err)
	}
	return nil
}

// withRetry runs attempt, retrying exactly once when the attempt lost a
// lock race. All other errors are terminal for the request.
func (s *LessonScheduler) withRetry(ctx context.Context, attempt func() (*entity.Lesson, error)) (*entity.Lesson, error) {
	lesson, err := attempt()
	if err != nil && KindOf(err) == KindConcurrentModification {
		s.logger.Warn("Booking lost lock race, retrying once", "error", err)
		lesson, err = attempt()
	}
	if err != nil && s.metrics != nil {
		if kind := KindOf(err); kind != "" {
			s.metrics.BookingsRejected.WithLabelValues(string(kind)).Inc()
		}
	}
	return lesson, err
}

func (s *LessonScheduler) scheduleOnce(ctx context.Context, in BookingInput) (*entity.Lesson, error) {
	if err := s.validateWindow(in.Date, in.StartMinute, in.EndMinute); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.FindByID(ctx, in.StudentID)
	if err != nil {
		return nil, StoreError(err)
	}
	if student == nil {
		return nil, NewError(KindNotFound, "student %s not found", in.StudentID)
	}
	instructor, err := s.instructorRepo.GetByID(ctx, in.InstructorID)
	if err != nil {
		return nil, StoreError(err)
	}
	if instructor == nil {
		return nil, NewError(KindNotFound, "instructor %d not found", in.InstructorID)
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, in.VehicleID)
	if err != nil {
		return nil, StoreError(err)
	}
	if vehicle == nil {
		return nil, NewError(KindNotFound, "vehicle %s not found", in.VehicleID)
	}
	if vehicle.Status != entity.VehicleAvailable {
		return nil, NewError(KindVehicleUnavailable, "vehicle %s is %s", in.VehicleID, vehicle.Status)
	}

	release, err := s.lockResources(ctx, in.InstructorID, in.VehicleID, in.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkBothResources(ctx, in.InstructorID, in.VehicleID, in.Date, in.StartMinute, in.EndMinute, ""); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	lesson := &entity.Lesson{
		ID:           uuid.NewString(),
		StudentID:    in.StudentID,
		InstructorID: in.InstructorID,
		VehicleID:    in.VehicleID,
		Date:         in.Date,
		StartMinute:  in.StartMinute,
		EndMinute:    in.EndMinute,
		Location:     in.Location,
		Status:       entity.LessonScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.lessonRepo.Insert(ctx, lesson); err != nil {
		return nil, StoreError(err)
	}
	if err := s.studentRepo.AdjustLessonCount(ctx, in.StudentID, 1); err != nil {
		// Roll the insert back so no partial commit is observable.
		if delErr := s.lessonRepo.Delete(ctx, lesson.ID); delErr != nil {
			s.logger.Error("Failed to roll back lesson after count update failure",
				"lessonId", lesson.ID, "error", delErr)
		}
		return nil, StoreError(err)
	}

	if s.metrics != nil {
		s.metrics.LessonsScheduled.Inc()
	}
	s.logger.Info("Lesson scheduled",
		"lessonId", lesson.ID,
		"instructorId", in.InstructorID,
		"vehicleId", in.VehicleID,
		"date", in.Date,
		"window", fmt.Sprintf("%s-%s", utils.FormatClockMinute(in.StartMinute), utils.FormatClockMinute(in.EndMinute)),
	)
	return lesson, nil
}

func (s *LessonScheduler) updateOnce(ctx context.Context, lessonID, date string, startMinute, endMinute int, location string) (*entity.Lesson, error) {
	if err := s.validateWindow(date, startMinute, endMinute); err != nil {
		return nil, err
	}
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, StoreError(err)
	}
	if lesson == nil {
		return nil, NewError(KindNotFound, "lesson %s not found", lessonID)
	}
	if lesson.Status != entity.LessonScheduled {
		return nil, NewError(KindInvalidWindow, "lesson %s is %s, not scheduled", lessonID, lesson.Status)
	}

	release, err := s.lockResources(ctx, lesson.InstructorID, lesson.VehicleID, date)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkBothResources(ctx, lesson.InstructorID, lesson.VehicleID, date, startMinute, endMinute, lessonID); err != nil {
		return nil, err
	}

	lesson.Date = date
	lesson.StartMinute = startMinute
	lesson.EndMinute = endMinute
	if location != "" {
		lesson.Location = location
	}
	lesson.UpdatedAt = s.clock.Now()
	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, StoreError(err)
	}
	s.logger.Info("Lesson rescheduled", "lessonId", lessonID, "date", date)
	return lesson, nil
}

// checkBothResources checks instructor and vehicle and reports every
// conflicting resource, not just the first.
func (s *LessonScheduler) checkBothResources(ctx context.Context, instructorID uint, vehicleID, date string, startMinute, endMinute int, excludeLessonID string) error {
	insConflict, err := s.conflicts.HasInstructorConflict(ctx, instructorID, date, startMinute, endMinute, excludeLessonID)
	if err != nil {
		return err
	}
	vehConflict, err := s.conflicts.HasVehicleConflict(ctx, vehicleID, date, startMinute, endMinute, excludeLessonID)
	if err != nil {
		return err
	}
	switch {
	case insConflict && vehConflict:
		e := NewError(KindInstructorConflict, "instructor %d and vehicle %s are already booked", instructorID, vehicleID)
		e.Related = []ErrorKind{KindVehicleConflict}
		return e
	case insConflict:
		return NewError(KindInstructorConflict, "instructor %d is already booked", instructorID)
	case vehConflict:
		return NewError(KindVehicleConflict, "vehicle %s is already booked", vehicleID)
	}
	return nil
}

// lockResources takes both advisory locks in sorted key order and returns a
// release func. Lock contention maps to ConcurrentModification.
func (s *LessonScheduler) lockResources(ctx context.Context, instructorID uint, vehicleID, date string) (func(), error) {
	keys := []string{
		fmt.Sprintf("instructor:%d:%s", instructorID, date),
		fmt.Sprintf("vehicle:%s:%s", vehicleID, date),
	}
	sort.Strings(keys)

	expiresAt := s.clock.Now().Add(s.lockTTL)
	acquired := make([]string, 0, len(keys))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			if err := s.lockRepo.Release(ctx, acquired[i]); err != nil {
				s.logger.Error("Failed to release booking lock", "key", acquired[i], "error", err)
			}
		}
	}

	for _, key := range keys {
		if err := s.lockRepo.Acquire(ctx, key, expiresAt); err != nil {
			release()
			var held *repository.ErrLockHeld
			if errors.As(err, &held) {
				return nil, NewError(KindConcurrentModification, "resource %s is being booked concurrently", held.Key)
			}
			return nil, StoreError(err)
		}
		acquired = append(acquired, key)
	}
	return release, nil
}

func (s *LessonScheduler) validateWindow(date string, startMinute, endMinute int) error {
	if err := validateWindow(startMinute, endMinute); err != nil {
		return err
	}
	if s.hours.CloseMinute > 0 {
		if startMinute < s.hours.OpenMinute || endMinute > s.hours.CloseMinute {
			return NewError(KindInvalidWindow, "window [%s, %s) is outside business hours",
				utils.FormatClockMinute(startMinute), utils.FormatClockMinute(endMinute))
		}
	}
	if _, err := utils.ParseDate(date); err != nil {
		return NewError(KindInvalidWindow, "invalid date %q", date)
	}
	return nil
}

func (s *LessonScheduler) observe(start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.SchedulingDuration.Observe(s.clock.Now().Sub(start).Seconds())
}

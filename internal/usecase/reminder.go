package usecase

import (
	"context"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
	"driveschool-service/pkg/clock"
	"driveschool-service/pkg/logger"
	"driveschool-service/pkg/metrics"
	"driveschool-service/pkg/utils"
	"driveschool-service/templates"
)

// ReminderSender delivers a lesson reminder to a student.
type ReminderSender interface {
	SendReminder(ctx context.Context, to, subject, body string) error
}

// ReminderService scans tomorrow's scheduled lessons and emails each student
// a reminder. Send state is tracked on the lesson so the scan is idempotent.
type ReminderService struct {
	lessonRepo     repository.LessonRepository
	studentRepo    repository.StudentRepository
	instructorRepo repository.InstructorRepository
	sender         ReminderSender
	clock          clock.Clock
	logger         logger.Logger
	metrics        *metrics.Metrics
}

// NewReminderService creates a new reminder service
func NewReminderService(
	lessonRepo repository.LessonRepository,
	studentRepo repository.StudentRepository,
	instructorRepo repository.InstructorRepository,
	sender ReminderSender,
	clk clock.Clock,
	logger logger.Logger,
	m *metrics.Metrics,
) *ReminderService {
	return &ReminderService{
		lessonRepo:     lessonRepo,
		studentRepo:    studentRepo,
		instructorRepo: instructorRepo,
		sender:         sender,
		clock:          clk,
		logger:         logger,
		metrics:        m,
	}
}

// Run polls on the given interval until the context is canceled.
func (r *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reminder service stopped")
			return
		case <-ticker.C:
			if err := r.ProcessDueReminders(ctx); err != nil {
				r.logger.Error("Error processing reminders", "error", err)
			}
		}
	}
}

// ProcessDueReminders sends a reminder for every scheduled lesson on
// tomorrow's date that has not been reminded yet.
func (r *ReminderService) ProcessDueReminders(ctx context.Context) error {
	tomorrow := utils.FormatDate(r.clock.Now().AddDate(0, 0, 1))
	lessons, err := r.lessonRepo.FindByDateAndStatus(ctx, tomorrow, entity.LessonScheduled)
	if err != nil {
		return StoreError(err)
	}

	for _, lesson := range lessons {
		if lesson.ReminderSentAt != nil {
			continue
		}
		if err := r.remind(ctx, lesson); err != nil {
			r.logger.Error("Failed to send lesson reminder",
				"lessonId", lesson.ID, "error", err)
		}
	}
	return nil
}

func (r *ReminderService) remind(ctx context.Context, lesson *entity.Lesson) error {
	student, err := r.studentRepo.FindByID(ctx, lesson.StudentID)
	if err != nil {
		return StoreError(err)
	}
	if student == nil || student.Email == "" {
		r.logger.Warn("Skipping reminder, student has no email",
			"lessonId", lesson.ID, "studentId", lesson.StudentID)
		return nil
	}

	instructorName := ""
	if instructor, err := r.instructorRepo.GetByID(ctx, lesson.InstructorID); err == nil && instructor != nil {
		instructorName = instructor.Name
	}

	subject, body := templates.LessonReminder(templates.ReminderData{
		StudentName:    student.Name,
		InstructorName: instructorName,
		Date:           lesson.Date,
		Start:          utils.FormatClockMinute(lesson.StartMinute),
		End:            utils.FormatClockMinute(lesson.EndMinute),
		Location:       lesson.Location,
	})
	if err := r.sender.SendReminder(ctx, student.Email, subject, body); err != nil {
		return err
	}
	if err := r.lessonRepo.MarkReminderSent(ctx, lesson.ID, r.clock.Now()); err != nil {
		return StoreError(err)
	}
	if r.metrics != nil {
		r.metrics.RemindersSent.Inc()
	}
	r.logger.Info("Reminder sent", "lessonId", lesson.ID, "email", student.Email)
	return nil
}

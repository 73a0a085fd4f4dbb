package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/pkg/clock"
	"driveschool-service/pkg/logger"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string // recipient addresses
	fail bool
}

func (s *fakeSender) SendReminder(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("smtp down")
	}
	s.sent = append(s.sent, to)
	return nil
}

func newTestReminderService(lessons *fakeLessonRepo, students *fakeStudentRepo, sender *fakeSender, now time.Time) *ReminderService {
	instructors := newFakeInstructorRepo(&entity.Instructor{ID: 1, Name: "Bos"})
	return NewReminderService(lessons, students, instructors, sender, clock.Fixed{T: now}, logger.NewNop(), nil)
}

func TestProcessDueReminders_SendsOncePerLesson(t *testing.T) {
	now := date(2024, time.April, 30)
	lessons := newFakeLessonRepo(
		&entity.Lesson{ID: "l1", StudentID: "s1", InstructorID: 1, Date: "2024-05-01",
			StartMinute: 540, EndMinute: 600, Status: entity.LessonScheduled},
		&entity.Lesson{ID: "l2", StudentID: "s1", InstructorID: 1, Date: "2024-05-02",
			StartMinute: 540, EndMinute: 600, Status: entity.LessonScheduled},
		&entity.Lesson{ID: "l3", StudentID: "s1", InstructorID: 1, Date: "2024-05-01",
			StartMinute: 660, EndMinute: 720, Status: entity.LessonCanceled},
	)
	students := newFakeStudentRepo(&entity.Student{ID: "s1", Name: "Jan", Email: "jan@example.com"})
	sender := &fakeSender{}
	svc := newTestReminderService(lessons, students, sender, now)
	ctx := context.Background()

	require.NoError(t, svc.ProcessDueReminders(ctx))
	assert.Equal(t, []string{"jan@example.com"}, sender.sent,
		"only tomorrow's scheduled lessons get a reminder")

	l1, err := lessons.FindByID(ctx, "l1")
	require.NoError(t, err)
	assert.NotNil(t, l1.ReminderSentAt)

	// A second scan is idempotent.
	require.NoError(t, svc.ProcessDueReminders(ctx))
	assert.Len(t, sender.sent, 1)
}

func TestProcessDueReminders_SkipsStudentsWithoutEmail(t *testing.T) {
	now := date(2024, time.April, 30)
	lessons := newFakeLessonRepo(&entity.Lesson{
		ID: "l1", StudentID: "s1", InstructorID: 1, Date: "2024-05-01",
		StartMinute: 540, EndMinute: 600, Status: entity.LessonScheduled,
	})
	students := newFakeStudentRepo(&entity.Student{ID: "s1", Name: "Jan"})
	sender := &fakeSender{}
	svc := newTestReminderService(lessons, students, sender, now)

	require.NoError(t, svc.ProcessDueReminders(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestProcessDueReminders_RetriesAfterSendFailure(t *testing.T) {
	now := date(2024, time.April, 30)
	lessons := newFakeLessonRepo(&entity.Lesson{
		ID: "l1", StudentID: "s1", InstructorID: 1, Date: "2024-05-01",
		StartMinute: 540, EndMinute: 600, Status: entity.LessonScheduled,
	})
	students := newFakeStudentRepo(&entity.Student{ID: "s1", Name: "Jan", Email: "jan@example.com"})
	sender := &fakeSender{fail: true}
	svc := newTestReminderService(lessons, students, sender, now)
	ctx := context.Background()

	require.NoError(t, svc.ProcessDueReminders(ctx))
	l1, _ := lessons.FindByID(ctx, "l1")
	assert.Nil(t, l1.ReminderSentAt, "failed send must stay eligible")

	sender.fail = false
	require.NoError(t, svc.ProcessDueReminders(ctx))
	assert.Equal(t, []string{"jan@example.com"}, sender.sent)
}

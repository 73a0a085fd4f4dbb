package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessonReminder(t *testing.T) {
	subject, body := LessonReminder(ReminderData{
		StudentName:    "Jan",
		InstructorName: "Bos",
		Date:           "2024-05-01",
		Start:          "09:00",
		End:            "10:00",
		Location:       "Hoofdstraat 1",
	})

	assert.Equal(t, "Reminder: driving lesson on 2024-05-01 at 09:00", subject)
	assert.Contains(t, body, "Hi Jan,")
	assert.Contains(t, body, "09:00 - 10:00")
	assert.Contains(t, body, "Instructor: Bos")
	assert.Contains(t, body, "Hoofdstraat 1")
}

func TestLessonReminder_Fallbacks(t *testing.T) {
	_, body := LessonReminder(ReminderData{
		StudentName: "Jan",
		Date:        "2024-05-01",
		Start:       "09:00",
		End:         "10:00",
	})

	assert.Contains(t, body, "your instructor")
	assert.Contains(t, body, "the usual pickup point")
}

package templates

import (
	"fmt"
	"strings"
)

const reminderSubject = "Reminder: driving lesson on %s at %s"

const reminderBody = `Hi %s,

This is a reminder for your driving lesson tomorrow.

Date:       %s
Time:       %s - %s
Instructor: %s
Location:   %s

Please be ready five minutes early. If you need to reschedule, contact us
as soon as possible.

See you tomorrow!`

// ReminderData carries the fields rendered into a lesson reminder email.
type ReminderData struct {
	StudentName    string
	InstructorName string
	Date           string
	Start          string
	End            string
	Location       string
}

// LessonReminder renders the subject and body for a lesson reminder.
func LessonReminder(d ReminderData) (subject, body string) {
	instructor := d.InstructorName
	if strings.TrimSpace(instructor) == "" {
		instructor = "your instructor"
	}
	location := d.Location
	if strings.TrimSpace(location) == "" {
		location = "the usual pickup point"
	}
	subject = fmt.Sprintf(reminderSubject, d.Date, d.Start)
	body = fmt.Sprintf(reminderBody, d.StudentName, d.Date, d.Start, d.End, instructor, location)
	return subject, body
}

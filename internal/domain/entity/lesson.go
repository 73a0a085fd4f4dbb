package entity

import "time"

// Lesson status
const (
	LessonScheduled = "scheduled"
	LessonCompleted = "completed"
	LessonCanceled  = "canceled"
)

// Lesson occupies one instructor and one vehicle for the half-open
// window [StartMinute, EndMinute) on Date. Only scheduled and completed
// lessons count for conflict checks.
type Lesson struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	StudentID      string     `bson:"studentId" json:"studentId"`
	InstructorID   uint       `bson:"instructorId" json:"instructorId"`
	VehicleID      string     `bson:"vehicleId" json:"vehicleId"`
	Date           string     `bson:"date" json:"date"` // "2006-01-02"
	StartMinute    int        `bson:"startMinute" json:"startMinute"`
	EndMinute      int        `bson:"endMinute" json:"endMinute"`
	Location       string     `bson:"location" json:"location"`
	Status         string     `bson:"status" json:"status"`
	ReminderSentAt *time.Time `bson:"reminderSentAt,omitempty" json:"reminderSentAt,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Occupies reports whether the lesson still holds its time slot.
func (l *Lesson) Occupies() bool {
	return l.Status == LessonScheduled || l.Status == LessonCompleted
}

// Overlaps reports whether the lesson's window strictly overlaps
// [startMinute, endMinute). Back-to-back windows do not overlap.
func (l *Lesson) Overlaps(startMinute, endMinute int) bool {
	return startMinute < l.EndMinute && l.StartMinute < endMinute
}

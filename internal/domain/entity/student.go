package entity

import "time"

// Student represents a registered driving-school student
type Student struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Phone       string    `bson:"phone" json:"phone"`
	Email       string    `bson:"email" json:"email"` // unique index
	LessonCount int       `bson:"lessonCount" json:"lessonCount"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

package entity

import "time"

// BookingLock is an advisory lock document keyed on
// {resourceKind}:{resourceId}:{date}. Its _id uniqueness is the mutual
// exclusion primitive between concurrent booking commits; ExpiresAt backs a
// TTL index so a crashed holder cannot wedge a resource.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

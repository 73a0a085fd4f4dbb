package repository

import (
	"context"
	"time"
)

// ErrLockHeld is returned by Acquire when another booking holds the lock.
type ErrLockHeld struct {
	Key string
}

func (e *ErrLockHeld) Error() string {
	return "booking lock held: " + e.Key
}

// BookingLockRepository provides per-resource advisory locks that serialize
// conflict checks against commits for a (resource, date) pair.
type BookingLockRepository interface {
	// Acquire takes the lock for key, valid until expiresAt. Returns
	// *ErrLockHeld if the lock is already taken.
	Acquire(ctx context.Context, key string, expiresAt time.Time) error
	Release(ctx context.Context, key string) error
}

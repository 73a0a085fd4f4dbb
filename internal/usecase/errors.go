package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scheduling failures so callers can map them to
// transport responses without string matching.
type ErrorKind string

const (
	KindNotFound               ErrorKind = "not_found"
	KindInvalidInput           ErrorKind = "invalid_input"
	KindInvalidWindow          ErrorKind = "invalid_window"
	KindAlreadyExists          ErrorKind = "already_exists"
	KindInstructorConflict     ErrorKind = "instructor_conflict"
	KindVehicleConflict        ErrorKind = "vehicle_conflict"
	KindVehicleUnavailable     ErrorKind = "vehicle_unavailable"
	KindOutOfOrderRecord       ErrorKind = "out_of_order_record"
	KindConcurrentModification ErrorKind = "concurrent_modification"
	KindStoreUnavailable       ErrorKind = "store_unavailable"
)

// SchedulingError is a structured validation or conflict result. All
// component failures except store transport faults are reported this way.
type SchedulingError struct {
	Kind    ErrorKind
	Related []ErrorKind // extra conflict kinds when more than one applies
	Message string
	Err     error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// NewError creates a SchedulingError of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) *SchedulingError {
	return &SchedulingError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a store-adapter transport failure.
func StoreError(err error) *SchedulingError {
	return &SchedulingError{Kind: KindStoreUnavailable, Message: "record store failure", Err: err}
}

// KindOf extracts the ErrorKind from err, or "" if err is not a
// SchedulingError.
func KindOf(err error) ErrorKind {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// HasKind reports whether err carries the kind as primary or related.
func HasKind(err error, kind ErrorKind) bool {
	var se *SchedulingError
	if !errors.As(err, &se) {
		return false
	}
	if se.Kind == kind {
		return true
	}
	for _, k := range se.Related {
		if k == kind {
			return true
		}
	}
	return false
}

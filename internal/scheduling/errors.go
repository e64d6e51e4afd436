package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrDoctorNotFound is returned when the referenced doctor does not exist.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrOutOfHours is returned when an interval falls outside the doctor's working hours.
	ErrOutOfHours = errors.New("outside working hours")

	// ErrConflict is returned when a booking overlaps an existing appointment.
	ErrConflict = errors.New("conflicts with existing appointment")

	// ErrNoSlot is returned when no free slot remains today.
	ErrNoSlot = errors.New("no available slot")

	// ErrMissingWindow is returned when a listing window bound is absent.
	ErrMissingWindow = errors.New("window start and end are required")

	// ErrInvalidInterval is returned when an interval does not end after it starts.
	ErrInvalidInterval = errors.New("end must be after start")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

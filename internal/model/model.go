package model

import (
	"time"

	"doctor-appointments-api/internal/interval"
)

type Doctor struct {
	ID                int64
	Name              string
	WorkingHoursStart interval.Clock
	WorkingHoursEnd   interval.Clock
	CreatedAt         time.Time
}

type Appointment struct {
	ID          int64
	DoctorID    int64
	StartTime   time.Time
	EndTime     time.Time
	Patient     string
	Description string
	CreatedAt   time.Time
}

// Slot is a bare [StartTime, EndTime) interval.
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
}

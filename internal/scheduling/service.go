package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"doctor-appointments-api/internal/interval"
	"doctor-appointments-api/internal/metrics"
	"doctor-appointments-api/internal/model"
	"doctor-appointments-api/internal/store"
)

// DefaultSlot is the width of a first-available candidate slot.
const DefaultSlot = 15 * time.Minute

const (
	maxNameLen        = 50
	maxPatientLen     = 100
	maxDescriptionLen = 500
)

// Store is the storage the engine owns: a doctor directory plus an
// appointment ledger that can be locked per doctor.
type Store interface {
	CreateDoctor(ctx context.Context, d *model.Doctor) (int64, error)
	GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
	FindInWindow(ctx context.Context, doctorID int64, from, to time.Time) ([]model.Appointment, error)
	WithDoctorLock(ctx context.Context, doctorID int64, fn func(store.Ledger) error) error
}

type Service struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.SchedulingMetrics
	now     func() time.Time
	slot    time.Duration
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the source of "today" for first-available searches.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithSlot(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.slot = d
		}
	}
}

func New(st Store, opts ...Option) *Service {
	if st == nil {
		panic("scheduling: store required")
	}
	s := &Service{
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
		slot:   DefaultSlot,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterDoctor parses the "HH:MM" working hours and persists a new doctor.
func (s *Service) RegisterDoctor(ctx context.Context, name, hoursStart, hoursEnd string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &ValidationError{Field: "name", Reason: "required"}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return 0, &ValidationError{Field: "name", Reason: fmt.Sprintf("at most %d characters", maxNameLen)}
	}
	start, err := parseHours("working_hours_start", hoursStart)
	if err != nil {
		return 0, err
	}
	end, err := parseHours("working_hours_end", hoursEnd)
	if err != nil {
		return 0, err
	}
	if start >= end {
		return 0, &ValidationError{Field: "working_hours_end", Reason: "must be after working_hours_start"}
	}

	d := &model.Doctor{Name: name, WorkingHoursStart: start, WorkingHoursEnd: end}
	id, err := s.store.CreateDoctor(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("scheduling: register doctor: %w", err)
	}
	s.logger.Info("doctor registered",
		zap.Int64("doctor_id", id),
		zap.Stringer("working_hours_start", start),
		zap.Stringer("working_hours_end", end),
	)
	return id, nil
}

func parseHours(field, v string) (interval.Clock, error) {
	if strings.TrimSpace(v) == "" {
		return 0, &ValidationError{Field: field, Reason: "required"}
	}
	c, err := interval.ParseClock(v)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "expected HH:MM"}
	}
	return c, nil
}

// Doctor returns the doctor or ErrDoctorNotFound.
func (s *Service) Doctor(ctx context.Context, id int64) (*model.Doctor, error) {
	d, err := s.store.GetDoctor(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("scheduling: load doctor: %w", err)
	}
	return d, nil
}

type BookRequest struct {
	DoctorID    int64
	Start       time.Time
	End         time.Time
	Patient     string
	Description string
}

// Book validates the interval against the doctor's hours and existing
// appointments and records it. The conflict check and the insert share one
// per-doctor lock, so two overlapping requests cannot both succeed.
func (s *Service) Book(ctx context.Context, req BookRequest) (int64, error) {
	id, err := s.book(ctx, req)
	s.metrics.ObserveBooking(bookingOutcome(err))
	return id, err
}

func (s *Service) book(ctx context.Context, req BookRequest) (int64, error) {
	d, err := s.Doctor(ctx, req.DoctorID)
	if err != nil {
		return 0, err
	}
	if !req.End.After(req.Start) {
		return 0, ErrInvalidInterval
	}
	if utf8.RuneCountInString(req.Patient) > maxPatientLen {
		return 0, &ValidationError{Field: "patient", Reason: fmt.Sprintf("at most %d characters", maxPatientLen)}
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return 0, &ValidationError{Field: "desc", Reason: fmt.Sprintf("at most %d characters", maxDescriptionLen)}
	}
	if !interval.Within(req.Start, req.End, d.WorkingHoursStart, d.WorkingHoursEnd) {
		return 0, ErrOutOfHours
	}

	a := &model.Appointment{
		DoctorID:    d.ID,
		StartTime:   req.Start,
		EndTime:     req.End,
		Patient:     req.Patient,
		Description: req.Description,
	}
	err = s.store.WithDoctorLock(ctx, d.ID, func(l store.Ledger) error {
		n, err := l.CountConflicting(ctx, d.ID, a.StartTime, a.EndTime)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		_, err = l.InsertAppointment(ctx, a)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("scheduling: book: %w", err)
	}

	s.logger.Info("appointment booked",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("doctor_id", d.ID),
		zap.Time("start_time", a.StartTime),
		zap.Time("end_time", a.EndTime),
	)
	return a.ID, nil
}

func bookingOutcome(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrOutOfHours):
		return "out_of_hours"
	case errors.Is(err, ErrDoctorNotFound):
		return "doctor_not_found"
	case errors.Is(err, ErrInvalidInterval), errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}

// ListAppointments returns the doctor's appointments overlapping
// [from, to) in storage order. The window itself must lie within the
// doctor's working hours. It never writes.
func (s *Service) ListAppointments(ctx context.Context, doctorID int64, from, to time.Time) ([]model.Slot, error) {
	if from.IsZero() || to.IsZero() {
		return nil, ErrMissingWindow
	}
	d, err := s.Doctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, ErrInvalidInterval
	}
	if !interval.Within(from, to, d.WorkingHoursStart, d.WorkingHoursEnd) {
		return nil, ErrOutOfHours
	}

	appts, err := s.store.FindInWindow(ctx, d.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list appointments: %w", err)
	}
	out := make([]model.Slot, len(appts))
	for i, a := range appts {
		out[i] = model.Slot{StartTime: a.StartTime, EndTime: a.EndTime}
	}
	return out, nil
}

// FirstAvailable walks today's working hours in slot-sized steps from the
// opening time and returns the first slot that overlaps no appointment.
// Only slots that end by closing time are considered.
func (s *Service) FirstAvailable(ctx context.Context, doctorID int64) (model.Slot, error) {
	d, err := s.Doctor(ctx, doctorID)
	if err != nil {
		return model.Slot{}, err
	}

	today := interval.Naive(s.now())
	opening := d.WorkingHoursStart.On(today)
	closing := d.WorkingHoursEnd.On(today)

	booked, err := s.store.FindInWindow(ctx, d.ID, opening, closing)
	if err != nil {
		return model.Slot{}, fmt.Errorf("scheduling: first available: %w", err)
	}

	probed := 0
	for cur := opening; !cur.Add(s.slot).After(closing); cur = cur.Add(s.slot) {
		probed++
		next := cur.Add(s.slot)
		if !overlapsAny(booked, cur, next) {
			s.metrics.ObserveFirstAvailable(probed, true)
			return model.Slot{StartTime: cur, EndTime: next}, nil
		}
	}
	s.metrics.ObserveFirstAvailable(probed, false)
	return model.Slot{}, ErrNoSlot
}

func overlapsAny(appts []model.Appointment, start, end time.Time) bool {
	for _, a := range appts {
		if interval.Overlaps(a.StartTime, a.EndTime, start, end) {
			return true
		}
	}
	return false
}

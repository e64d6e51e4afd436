package store

import (
	"context"
	"sync"
	"time"

	"doctor-appointments-api/internal/interval"
	"doctor-appointments-api/internal/model"
)

// Memory is an in-process directory and ledger. It is used when no
// DATABASE_URL is configured and in tests.
type Memory struct {
	mu           sync.RWMutex
	lastDoctorID int64
	lastApptID   int64
	doctors      map[int64]model.Doctor
	appointments []model.Appointment
	byDoctor     map[int64][]int
}

func NewMemory() *Memory {
	return &Memory{
		doctors:  make(map[int64]model.Doctor),
		byDoctor: make(map[int64][]int),
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) CreateDoctor(_ context.Context, d *model.Doctor) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastDoctorID++
	d.ID = m.lastDoctorID
	d.CreatedAt = time.Now().UTC()
	m.doctors[d.ID] = *d
	return d.ID, nil
}

func (m *Memory) GetDoctor(_ context.Context, id int64) (*model.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *Memory) FindInWindow(ctx context.Context, doctorID int64, from, to time.Time) ([]model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memLedger{m}.FindInWindow(ctx, doctorID, from, to)
}

// WithDoctorLock holds the write lock for the duration of fn.
func (m *Memory) WithDoctorLock(_ context.Context, _ int64, fn func(Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(memLedger{m})
}

// memLedger assumes the caller holds m.mu.
type memLedger struct {
	m *Memory
}

func (l memLedger) CountConflicting(_ context.Context, doctorID int64, start, end time.Time) (int, error) {
	n := 0
	for _, i := range l.m.byDoctor[doctorID] {
		a := l.m.appointments[i]
		if interval.Overlaps(a.StartTime, a.EndTime, start, end) {
			n++
		}
	}
	return n, nil
}

func (l memLedger) FindInWindow(_ context.Context, doctorID int64, from, to time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, i := range l.m.byDoctor[doctorID] {
		a := l.m.appointments[i]
		if interval.Overlaps(a.StartTime, a.EndTime, from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (l memLedger) InsertAppointment(_ context.Context, a *model.Appointment) (int64, error) {
	l.m.lastApptID++
	a.ID = l.m.lastApptID
	a.CreatedAt = time.Now().UTC()
	l.m.appointments = append(l.m.appointments, *a)
	l.m.byDoctor[a.DoctorID] = append(l.m.byDoctor[a.DoctorID], len(l.m.appointments)-1)
	return a.ID, nil
}

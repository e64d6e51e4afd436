package store

import (
	"context"
	"fmt"
	"time"

	"doctor-appointments-api/internal/model"
)

// FindInWindow reads outside any lock; writes go through WithDoctorLock.
func (s *Store) FindInWindow(ctx context.Context, doctorID int64, from, to time.Time) ([]model.Appointment, error) {
	return ledger{q: s.db}.FindInWindow(ctx, doctorID, from, to)
}

// ledger runs the appointment queries against either the pool or a tx.
type ledger struct {
	q querier
}

func (l ledger) CountConflicting(ctx context.Context, doctorID int64, start, end time.Time) (int, error) {
	var n int
	err := l.q.QueryRow(ctx,
		`SELECT count(*) FROM appointments
		 WHERE doctor_id = $1
		   AND end_time > $2
		   AND start_time < $3`,
		doctorID, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count conflicts: %w", err)
	}
	return n, nil
}

// FindInWindow returns the doctor's appointments overlapping [from, to) in
// insertion order.
func (l ledger) FindInWindow(ctx context.Context, doctorID int64, from, to time.Time) ([]model.Appointment, error) {
	rows, err := l.q.Query(ctx,
		`SELECT id, doctor_id, start_time, end_time,
		        coalesce(patient, ''), coalesce(description, ''), created_at
		 FROM appointments
		 WHERE doctor_id = $1
		   AND end_time > $2
		   AND start_time < $3
		 ORDER BY id`, doctorID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list appointments: %w", err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.DoctorID, &a.StartTime, &a.EndTime,
			&a.Patient, &a.Description, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan appointment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list appointments: %w", err)
	}
	return out, nil
}

func (l ledger) InsertAppointment(ctx context.Context, a *model.Appointment) (int64, error) {
	err := l.q.QueryRow(ctx,
		`INSERT INTO appointments (doctor_id, start_time, end_time, patient, description)
		 VALUES ($1,$2,$3,nullif($4,''),nullif($5,''))
		 RETURNING id, created_at`,
		a.DoctorID, a.StartTime, a.EndTime, a.Patient, a.Description,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("store: insert appointment: %w", err)
	}
	return a.ID, nil
}

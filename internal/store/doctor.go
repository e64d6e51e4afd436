package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"doctor-appointments-api/internal/interval"
	"doctor-appointments-api/internal/model"
)

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) (int64, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO doctors (name, working_hours_start, working_hours_end)
		 VALUES ($1,$2,$3)
		 RETURNING id, created_at`,
		d.Name, toPGTime(d.WorkingHoursStart), toPGTime(d.WorkingHoursEnd),
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("store: insert doctor: %w", err)
	}
	return d.ID, nil
}

func (s *Store) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	var (
		d          model.Doctor
		start, end pgtype.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, name, working_hours_start, working_hours_end, created_at
		 FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &start, &end, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load doctor %d: %w", id, err)
	}
	d.WorkingHoursStart = fromPGTime(start)
	d.WorkingHoursEnd = fromPGTime(end)
	return &d, nil
}

func toPGTime(c interval.Clock) pgtype.Time {
	return pgtype.Time{
		Microseconds: time.Duration(c).Microseconds(),
		Valid:        true,
	}
}

func fromPGTime(t pgtype.Time) interval.Clock {
	return interval.Clock(time.Duration(t.Microseconds) * time.Microsecond)
}

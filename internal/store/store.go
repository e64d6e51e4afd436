package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"doctor-appointments-api/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ledger answers overlap queries and records appointments.
type Ledger interface {
	CountConflicting(ctx context.Context, doctorID int64, start, end time.Time) (int, error)
	FindInWindow(ctx context.Context, doctorID int64, from, to time.Time) ([]model.Appointment, error)
	InsertAppointment(ctx context.Context, a *model.Appointment) (int64, error)
}

// Store is the Postgres-backed doctor directory and appointment ledger.
type Store struct {
	db DB
}

func New(db DB) *Store {
	if db == nil {
		panic("store: db required")
	}
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// WithDoctorLock runs fn in a transaction that holds an exclusive
// transaction-scoped advisory lock keyed on doctorID. Concurrent bookings
// for the same doctor are serialised; other doctors are unaffected.
func (s *Store) WithDoctorLock(ctx context.Context, doctorID int64, fn func(Ledger) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, doctorID); err != nil {
		return fmt.Errorf("store: lock doctor %d: %w", doctorID, err)
	}

	if err := fn(ledger{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
